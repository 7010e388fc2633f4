package codegen

import (
	"fmt"
	"strings"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/types"
)

func stripStdPrefix(path []string) []string {
	if len(path) > 0 && path[0] == "std" {
		return path[1:]
	}
	return path
}

func isIOCall(path []string, name string) bool {
	p := stripStdPrefix(path)
	return len(p) == 2 && p[0] == "io" && p[1] == name
}

// resolveCallSymbol implements spec §4.4.7's non-io call resolution:
// `io::f` and `std::io::f` both collapse to `sm_std_io_f`; any other
// `std::m::f` becomes `sm_std_m_f`; anything else is joined wholesale as
// `sm_<joined>`; a bare name is emitted verbatim.
func resolveCallSymbol(path []string) string {
	if len(path) == 1 {
		return path[0]
	}
	if path[0] == "std" || path[0] == "io" {
		return "sm_std_" + strings.Join(stripStdPrefix(path), "_")
	}
	return "sm_" + strings.Join(path, "_")
}

// printerSuffix picks the typed sm_std_io_print* variant for an argument's
// inferred type, per spec §4.4.7's printer-selection rule.
func printerSuffix(t string) string {
	switch {
	case t == "str":
		return ""
	case t == "bool":
		return "_bool"
	case t == "i128":
		return "_i128"
	case t == "u128":
		return "_u128"
	case types.IsIntegerType(t) && types.IsSigned(t):
		return "_i64"
	case types.IsIntegerType(t):
		return "_u64"
	default:
		return "_i64"
	}
}

// emitPrintStatements lowers an `io::print`/`io::println` call to its
// sequence of C statements (each already carrying a trailing `;`), per
// spec §4.4.7. A format-string first argument containing `{}` expands into
// one call per literal/argument piece; a single non-format argument calls
// its typed variant directly; either path appends a trailing empty
// `sm_std_io_println("")` for the println form once the argument itself is
// not already the suffix-less str variant (which carries its own newline).
func (e *Emitter) emitPrintStatements(call *ast.CallExpr, isLn bool, scope *types.Scope) []string {
	base := "sm_std_io_print"
	if isLn {
		base = "sm_std_io_println"
	}

	first, isStr := call.Args[0].(*ast.StringLiteral)
	if isStr && strings.Contains(first.Value, "{}") {
		pieces := strings.Split(first.Value, "{}")
		var stmts []string
		argIdx := 1
		for i, piece := range pieces {
			if piece != "" {
				stmts = append(stmts, fmt.Sprintf("sm_std_io_print(%s);", escapeCString(piece)))
			}
			if i < len(pieces)-1 && argIdx < len(call.Args) {
				arg := call.Args[argIdx]
				argIdx++
				t := e.analyzer.InferType(arg, scope)
				stmts = append(stmts, fmt.Sprintf("sm_std_io_print%s(%s);", printerSuffix(t), e.emitExpr(arg, scope)))
			}
		}
		if isLn {
			stmts = append(stmts, `sm_std_io_println("");`)
		}
		return stmts
	}

	arg := call.Args[0]
	t := e.analyzer.InferType(arg, scope)
	if t == "str" {
		return []string{fmt.Sprintf("%s(%s);", base, e.emitExpr(arg, scope))}
	}
	printCall := fmt.Sprintf("sm_std_io_print%s(%s);", printerSuffix(t), e.emitExpr(arg, scope))
	if !isLn {
		return []string{printCall}
	}
	return []string{printCall, `sm_std_io_println("");`}
}

// emitCall handles every CallExpr reachable from general expression context:
// io::readln/io::read<T>, qualified calls, and local calls. io::print and
// io::println are statement-shaped and are instead handled directly by the
// statement emitter via emitPrintStatements.
func (e *Emitter) emitCall(call *ast.CallExpr, scope *types.Scope) string {
	switch {
	case isIOCall(call.Path, "readln"):
		return "sm_std_io_readln()"
	case isIOCall(call.Path, "read"):
		return fmt.Sprintf("sm_std_io_read_%s()", call.TypeArgs[0])
	case isIOCall(call.Path, "print"), isIOCall(call.Path, "println"):
		// Only reachable if a print/println call appears outside of
		// statement context; fall back to the single-call form.
		stmts := e.emitPrintStatements(call, isIOCall(call.Path, "println"), scope)
		return strings.Join(stmts, " ")
	}

	symbol := resolveCallSymbol(call.Path)
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = e.emitExpr(a, scope)
	}
	return fmt.Sprintf("%s(%s)", symbol, strings.Join(args, ", "))
}
