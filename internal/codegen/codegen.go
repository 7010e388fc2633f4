// Package codegen lowers an analyzed program to freestanding or hosted C11,
// modeled on the source's own genc.go output-buffer writer: a prelude of
// type and forward declarations followed by a body writer, rather than a
// tree-walking printer that emits text inline as it walks.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/types"
)

// Emitter carries the state threaded through one Emit call: the program and
// its analysis, the output buffer, and the small amount of codegen-only
// bookkeeping (stdlib symbol usage, a when-statement label counter) that has
// no home in the analyzer because it only matters for C lowering.
type Emitter struct {
	prog     *ast.Program
	analyzer *types.Analyzer
	out      *writer

	freestanding bool
	usedStdlib   map[string]bool
	whenCounter  int
}

func (e *Emitter) nextWhenID() int {
	e.whenCounter++
	return e.whenCounter
}

// Emit lowers prog to a complete C source file. freestanding selects the
// `_start` entry point and the `sm_std_io_*` symbols' freestanding
// implementations; otherwise a hosted `int main(void)` and the hosted
// stdio-backed implementations are assumed to be linked in instead.
func Emit(prog *ast.Program, a *types.Analyzer, freestanding bool) (string, error) {
	e := &Emitter{
		prog:         prog,
		analyzer:     a,
		out:          newWriter(),
		freestanding: freestanding,
		usedStdlib:   make(map[string]bool),
	}
	e.collectStdlibUsage()
	e.emitPrologue()
	e.emitTypes(prog)
	e.emitGlobals(prog)
	e.emitFunctionForwardDecls(prog)
	e.emitFunctions(prog)
	e.emitEntry(prog)
	return e.out.String(), nil
}

// emitPrologue writes the freestanding/hosted header plus forward
// declarations for every sm_std_io_* symbol the program actually calls.
// Print-family helpers are declared void per spec §4.4.2; readln/read<T>
// necessarily return a value and are declared with their natural C return
// type, since a literal void declaration would make their call sites
// uncompilable.
func (e *Emitter) emitPrologue() {
	w := e.out
	w.line(`#include "freestanding.h"`)
	w.blank()

	names := make([]string, 0, len(e.usedStdlib))
	for n := range e.usedStdlib {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		switch n {
		case "readln":
			w.line("const char* sm_std_io_readln(void);")
		default:
			if strings.HasPrefix(n, "read_") {
				w.line(fmt.Sprintf("%s sm_std_io_%s(void);", cType(strings.TrimPrefix(n, "read_")), n))
			} else {
				w.line(fmt.Sprintf("void sm_std_io_%s();", n))
			}
		}
	}
	w.blank()
}

// collectStdlibUsage walks every reachable expression in the program and
// records which sm_std_io_* symbols it calls, so the prologue only forward
// declares what's actually used. It threads scope the same way emitBlock
// does during real emission, since markPrintVariants needs each print
// argument's inferred type to pick its suffix.
func (e *Emitter) collectStdlibUsage() {
	for _, fn := range e.prog.Functions {
		scope := e.analyzer.GlobalScope.Clone()
		for _, p := range fn.Params {
			scope.Declare(p.Name, p.Type, false)
		}
		e.walkStmts(fn.Body, scope)
	}
	e.walkStmts(e.prog.Statements, e.analyzer.GlobalScope.Clone())
	for _, g := range e.prog.Globals {
		switch d := g.(type) {
		case *ast.GlobalVar:
			e.walkExpr(d.Init, e.analyzer.GlobalScope)
		case *ast.GlobalConst:
			e.walkExpr(d.Init, e.analyzer.GlobalScope)
		case *ast.GlobalComptime:
			e.walkExpr(d.Init, e.analyzer.GlobalScope)
		}
	}
}

func (e *Emitter) walkStmts(stmts []ast.Stmt, scope *types.Scope) {
	for _, s := range stmts {
		e.walkStmt(s, scope)
	}
}

func (e *Emitter) walkStmt(s ast.Stmt, scope *types.Scope) {
	switch n := s.(type) {
	case *ast.VarStmt:
		e.walkExpr(n.Init, scope)
		scope.Declare(n.Name, e.localDeclType(n.Type, n.Init, scope), true)
	case *ast.ConstStmt:
		e.walkExpr(n.Init, scope)
		scope.Declare(n.Name, e.localDeclType(n.Type, n.Init, scope), false)
	case *ast.ComptimeStmt:
		e.walkExpr(n.Init, scope)
		scope.Declare(n.Name, e.localDeclType(n.Type, n.Init, scope), false)
	case *ast.AssignStmt:
		e.walkExpr(n.Value, scope)
	case *ast.FieldAssignStmt:
		e.walkExpr(n.Value, scope)
	case *ast.ReturnStmt:
		if n.Value != nil {
			e.walkExpr(n.Value, scope)
		}
	case *ast.ExprStmt:
		e.walkExpr(n.Value, scope)
	case *ast.IfStmt:
		e.walkExpr(n.Cond, scope)
		e.walkStmts(n.Then, scope.Clone())
		for _, ei := range n.ElseIfs {
			e.walkExpr(ei.Cond, scope)
			e.walkStmts(ei.Body, scope.Clone())
		}
		e.walkStmts(n.Else, scope.Clone())
	case *ast.WhileStmt:
		e.walkExpr(n.Cond, scope)
		e.walkStmts(n.Body, scope.Clone())
	case *ast.ForStmt:
		e.walkExpr(n.Start, scope)
		e.walkExpr(n.End, scope)
		if n.Step != nil {
			e.walkExpr(n.Step, scope)
		}
		bodyScope := scope.Clone()
		startType := e.analyzer.InferType(n.Start, scope)
		endType := e.analyzer.InferType(n.End, scope)
		bodyScope.Declare(n.Var, types.WiderType(startType, endType), false)
		if n.Filter != nil {
			e.walkExpr(n.Filter, bodyScope)
		}
		e.walkStmts(n.Body, bodyScope)
	case *ast.WhenStmt:
		e.walkExpr(n.Value, scope)
		for _, c := range n.Cases {
			caseScope := scope.Clone()
			if pat, ok := c.Pattern.(*ast.EnumVariantPattern); ok {
				if def := e.analyzer.Enums[pat.Enum]; def != nil {
					for _, v := range def.Variants {
						if v.Name == pat.Variant {
							for i, b := range pat.Bindings {
								if i < len(v.Payload) {
									caseScope.Declare(b, v.Payload[i], false)
								}
							}
						}
					}
				}
			}
			e.walkStmts(c.Body, caseScope)
		}
		e.walkStmts(n.Else, scope.Clone())
	case *ast.ExpectStmt:
		e.walkExpr(n.Cond, scope)
		e.walkStmts(n.Else, scope.Clone())
	}
}

func (e *Emitter) walkExpr(expr ast.Expr, scope *types.Scope) {
	switch n := expr.(type) {
	case *ast.UnaryExpr:
		e.walkExpr(n.Operand, scope)
	case *ast.BinaryExpr:
		e.walkExpr(n.Left, scope)
		e.walkExpr(n.Right, scope)
	case *ast.IfExpr:
		e.walkExpr(n.Cond, scope)
		e.walkExpr(n.Then, scope)
		e.walkExpr(n.Else, scope)
	case *ast.WhenExpr:
		e.walkExpr(n.Value, scope)
		for _, c := range n.Cases {
			e.walkExpr(c.Result, scope)
		}
		e.walkExpr(n.Else, scope)
	case *ast.FieldAccess:
		e.walkExpr(n.Object, scope)
	case *ast.StructInit:
		if n.Named {
			for _, f := range n.Fields {
				e.walkExpr(f.Value, scope)
			}
		} else {
			for _, v := range n.Positional {
				e.walkExpr(v, scope)
			}
		}
	case *ast.EnumConstruct:
		for _, a := range n.Args {
			e.walkExpr(a, scope)
		}
	case *ast.CallExpr:
		e.recordCallUsage(n, scope)
		for _, a := range n.Args {
			e.walkExpr(a, scope)
		}
	}
}

func (e *Emitter) recordCallUsage(call *ast.CallExpr, scope *types.Scope) {
	switch {
	case isIOCall(call.Path, "print"):
		e.usedStdlib["print"] = true
		e.markPrintVariants(call, scope)
	case isIOCall(call.Path, "println"):
		e.usedStdlib["println"] = true
		e.markPrintVariants(call, scope)
	case isIOCall(call.Path, "readln"):
		e.usedStdlib["readln"] = true
	case isIOCall(call.Path, "read"):
		if len(call.TypeArgs) == 1 {
			e.usedStdlib["read_"+call.TypeArgs[0]] = true
		}
	}
}

// markPrintVariants records the typed print_*/println_* symbols a
// print/println call actually needs, mirroring emitPrintStatements'
// argument-selection logic: a `{}`-format string pulls a suffix per
// interpolated argument, and a single non-format argument pulls just its
// own suffix, so the prologue only forward declares what's referenced.
func (e *Emitter) markPrintVariants(call *ast.CallExpr, scope *types.Scope) {
	mark := func(arg ast.Expr) {
		t := e.analyzer.InferType(arg, scope)
		if t == "str" {
			return
		}
		suffix := printerSuffix(t)
		e.usedStdlib["print"+suffix] = true
		e.usedStdlib["println"+suffix] = true
	}

	if len(call.Args) == 0 {
		return
	}
	if first, isStr := call.Args[0].(*ast.StringLiteral); isStr && strings.Contains(first.Value, "{}") {
		e.usedStdlib["print"] = true
		for _, arg := range call.Args[1:] {
			mark(arg)
		}
		return
	}
	mark(call.Args[0])
}

// emitGlobals classifies and emits every top-level var/const/comptime
// declaration in its source order. A declaration is compile-time (and so
// becomes `static const`) only when its initializer is a compile-time
// constant with respect to the set of globals already known, by this point,
// to be runtime-backed — a narrower test than the analyzer's blanket
// "references any prior global" rule in §4.3.2, since a const initialized
// purely from other compile-time globals still belongs in .rodata even
// though it references global names.
func (e *Emitter) emitGlobals(prog *ast.Program) {
	w := e.out
	runtimeGlobals := make(map[string]bool)
	var runtimeNames, constNames []string

	for _, name := range e.analyzer.GlobalOrder {
		kind := e.analyzer.GlobalDeclKind[name]
		init := e.analyzer.GlobalInit[name]
		typ, _ := e.analyzer.GlobalScope.Lookup(name)

		isCompileTime := kind == "comptime" || (kind == "const" && e.isCompileTimeWRT(init, runtimeGlobals))
		if isCompileTime {
			w.line(fmt.Sprintf("static const %s %s = %s;", cType(typ), name, e.emitExpr(init, e.analyzer.GlobalScope)))
			constNames = append(constNames, name)
		} else {
			w.line(fmt.Sprintf("static %s %s;", cType(typ), name))
			runtimeGlobals[name] = true
			runtimeNames = append(runtimeNames, name)
		}
	}
	w.blank()

	if len(runtimeNames) > 0 {
		w.line("static void __init_globals(void) {")
		w.push()
		for _, name := range runtimeNames {
			init := e.analyzer.GlobalInit[name]
			w.line(fmt.Sprintf("%s = %s;", name, e.emitExpr(init, e.analyzer.GlobalScope)))
		}
		w.pop()
		w.line("}")
		w.blank()
	}
	_ = constNames
}

// isCompileTimeWRT reports whether expr can be fully evaluated without
// reading any global recorded in runtimeGlobals. It accepts literals,
// references to globals outside that set, and unary, binary and if
// expressions built from those; every other form, including when
// expressions, struct initializers and field accesses, is classified as
// runtime, which is narrower than types.IsCompileTimeConstant.
func (e *Emitter) isCompileTimeWRT(expr ast.Expr, runtimeGlobals map[string]bool) bool {
	switch n := expr.(type) {
	case *ast.IntLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral:
		return true
	case *ast.VarRef:
		return !runtimeGlobals[n.Name]
	case *ast.UnaryExpr:
		return e.isCompileTimeWRT(n.Operand, runtimeGlobals)
	case *ast.BinaryExpr:
		return e.isCompileTimeWRT(n.Left, runtimeGlobals) && e.isCompileTimeWRT(n.Right, runtimeGlobals)
	case *ast.IfExpr:
		return e.isCompileTimeWRT(n.Cond, runtimeGlobals) && e.isCompileTimeWRT(n.Then, runtimeGlobals) && e.isCompileTimeWRT(n.Else, runtimeGlobals)
	default:
		return false
	}
}

// emitFunctionForwardDecls declares every function's C signature ahead of
// its definition (and ahead of extern declarations needing no definition at
// all), so mutually recursive and out-of-order calls always resolve.
func (e *Emitter) emitFunctionForwardDecls(prog *ast.Program) {
	w := e.out
	for _, fn := range prog.Functions {
		w.line(e.functionSignature(fn) + ";")
	}
	w.blank()
}

// isHostedEntry reports whether fn is the user's `main` function serving as
// the C entry point directly under a hosted build: it keeps its own
// declared return type (spec §8's S1 expects a literal `int8_t main(void)`)
// and picks up a leading __init_globals() call in place of a separate
// synthetic wrapper.
func (e *Emitter) isHostedEntry(fn *ast.Function) bool {
	return !e.freestanding && fn.Name == "main"
}

func (e *Emitter) functionSignature(fn *ast.Function) string {
	var params []string
	typeFn := cType
	if fn.IsExternal() {
		typeFn = cExternType
	}
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s", typeFn(p.Type), p.Name))
	}
	if fn.Varargs {
		params = append(params, "...")
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s %s(%s)", typeFn(fn.ReturnType), fn.Name, strings.Join(params, ", "))
}

// emitFunctions defines every non-external function's body. extern
// functions carry only the forward declaration already emitted above —
// their bodies live in whatever object the linker supplies. Under the
// hosted build, the user's `main` becomes the C entry point itself and
// picks up a leading __init_globals() call in place of the synthetic
// wrapper emitEntry would otherwise need.
func (e *Emitter) emitFunctions(prog *ast.Program) {
	w := e.out
	for _, fn := range prog.Functions {
		if fn.IsExternal() {
			continue
		}
		scope := e.analyzer.GlobalScope.Clone()
		for _, p := range fn.Params {
			scope.Declare(p.Name, p.Type, false)
		}
		w.line(e.functionSignature(fn) + " {")
		w.push()
		if e.isHostedEntry(fn) && len(e.analyzer.GlobalOrder) > 0 {
			w.line("__init_globals();")
		}
		e.emitBlock(fn.Body, scope, emitCtx{})
		w.pop()
		w.line("}")
		w.blank()
	}
}

// emitEntry emits the program's startup sequence. Under a freestanding
// build this is always a synthetic `_start`, since nothing else calls
// `main` for it. Under a hosted build, a user-defined `main` already became
// the literal C entry point in emitFunctions, so there is nothing left to
// emit here; only the top-level-statements form still needs a synthetic
// `int main(void)`.
func (e *Emitter) emitEntry(prog *ast.Program) {
	w := e.out
	hasMain := e.analyzer.HasMain()

	if e.freestanding {
		w.line("void _start(void) {")
		w.push()
		if len(e.analyzer.GlobalOrder) > 0 {
			w.line("__init_globals();")
		}
		if hasMain {
			w.line("main();")
		} else {
			scope := e.analyzer.GlobalScope.Clone()
			e.emitBlock(prog.Statements, scope, emitCtx{})
		}
		w.line("syscall1(SYS_exit, 0);")
		w.pop()
		w.line("}")
		return
	}

	if hasMain {
		return
	}

	w.line("int main(void) {")
	w.push()
	if len(e.analyzer.GlobalOrder) > 0 {
		w.line("__init_globals();")
	}
	scope := e.analyzer.GlobalScope.Clone()
	e.emitBlock(prog.Statements, scope, emitCtx{})
	w.line("return 0;")
	w.pop()
	w.line("}")
}
