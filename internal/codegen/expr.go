package codegen

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/types"
)

// magnitude reconstructs an IntLiteral's 128-bit value as a big.Int.
func magnitude(n *ast.IntLiteral) *big.Int {
	v := new(big.Int).SetUint64(n.Hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(n.Lo))
	return v
}

// negativeMax128 is the magnitude of the most negative __int128 value,
// 2^127, which overflows every signed representation and needs the
// special-cased literal form spec §4.4.7 calls out.
var negativeMax128 = new(big.Int).Lsh(big.NewInt(1), 127)

// emitIntLiteral renders a non-negative magnitude per §4.4.7: plain decimal
// up to int64::MAX, an ULL suffix up to uint64::MAX, a 128-bit hi<<64|lo
// composition up to i128::MAX, else the unsigned 128-bit form.
func emitIntLiteral(mag *big.Int) string {
	if mag.Cmp(types.MaxSigned(64)) <= 0 {
		return mag.String()
	}
	if mag.Cmp(types.MaxUnsigned(64)) <= 0 {
		return mag.String() + "ULL"
	}
	hi := new(big.Int).Rsh(mag, 64)
	lo := new(big.Int).And(mag, new(big.Int).SetUint64(^uint64(0)))
	if mag.Cmp(types.MaxSigned(128)) <= 0 {
		return fmt.Sprintf("((__int128)%sLL << 64 | %sULL)", hi.String(), lo.String())
	}
	return fmt.Sprintf("((unsigned __int128)%sULL << 64 | %sULL)", hi.String(), lo.String())
}

// emitNegatedIntLiteral renders `-v` per §4.4.7, including the `-2^127`
// special case that cannot be represented as a negated positive literal in
// C without first overflowing through __int128.
func emitNegatedIntLiteral(mag *big.Int) string {
	if mag.Cmp(negativeMax128) == 0 {
		return "((__int128)9223372036854775808ULL << 64)"
	}
	return "(-" + emitIntLiteral(mag) + ")"
}

func escapeCString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

var binaryOpC = map[ast.BinaryOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Mod: "%",
	ast.Eq: "==", ast.Ne: "!=", ast.Lt: "<", ast.Gt: ">", ast.Le: "<=", ast.Ge: ">=",
	ast.And: "&&", ast.Or: "||",
}

// emitExpr renders e as a C expression. scope carries the bindings visible
// at this point, so the analyzer's InferType can resolve an expression's
// source-language type where the lowering depends on it.
func (e *Emitter) emitExpr(expr ast.Expr, scope *types.Scope) string {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return emitIntLiteral(magnitude(n))
	case *ast.StringLiteral:
		return escapeCString(n.Value)
	case *ast.BoolLiteral:
		if n.Value {
			return "1"
		}
		return "0"
	case *ast.NullLiteral:
		return "NULL"
	case *ast.VarRef:
		return n.Name
	case *ast.FieldAccess:
		return e.emitExpr(n.Object, scope) + "." + n.Field
	case *ast.UnaryExpr:
		return e.emitUnary(n, scope)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", e.emitExpr(n.Left, scope), binaryOpC[n.Op], e.emitExpr(n.Right, scope))
	case *ast.IfExpr:
		return fmt.Sprintf("(%s ? %s : %s)", e.emitExpr(n.Cond, scope), e.emitExpr(n.Then, scope), e.emitExpr(n.Else, scope))
	case *ast.WhenExpr:
		return e.emitWhenExpr(n, scope)
	case *ast.StructInit:
		return e.emitStructInit(n, scope)
	case *ast.EnumConstruct:
		return e.emitEnumConstruct(n, scope)
	case *ast.CallExpr:
		return e.emitCall(n, scope)
	default:
		return "/* unreachable expression */0"
	}
}

func (e *Emitter) emitUnary(n *ast.UnaryExpr, scope *types.Scope) string {
	if n.Op == ast.Negate {
		if lit, ok := n.Operand.(*ast.IntLiteral); ok {
			return emitNegatedIntLiteral(magnitude(lit))
		}
		return fmt.Sprintf("(-%s)", e.emitExpr(n.Operand, scope))
	}
	return fmt.Sprintf("(!%s)", e.emitExpr(n.Operand, scope))
}

// emitWhenExpr lowers a when-expression to nested ternaries. A range
// pattern expands to its inclusive/exclusive bounds test inline.
func (e *Emitter) emitWhenExpr(n *ast.WhenExpr, scope *types.Scope) string {
	value := e.emitExpr(n.Value, scope)
	var b strings.Builder
	for _, c := range n.Cases {
		b.WriteString("(")
		b.WriteString(e.whenPatternTest(c.Pattern, value, scope))
		b.WriteString(" ? ")
		b.WriteString(e.emitExpr(c.Result, scope))
		b.WriteString(" : ")
	}
	b.WriteString(e.emitExpr(n.Else, scope))
	for range n.Cases {
		b.WriteString(")")
	}
	return b.String()
}

// whenPatternTest renders the boolean test a when/expect pattern performs
// against an already-emitted scrutinee expression.
func (e *Emitter) whenPatternTest(p ast.WhenPattern, value string, scope *types.Scope) string {
	switch pat := p.(type) {
	case *ast.SinglePattern:
		return fmt.Sprintf("%s == %s", value, e.emitExpr(pat.Value, scope))
	case *ast.RangePattern:
		op := "<"
		if pat.Inclusive {
			op = "<="
		}
		return fmt.Sprintf("(%s >= %s && %s %s %s)", value, e.emitExpr(pat.Start, scope), value, op, e.emitExpr(pat.End, scope))
	case *ast.EnumVariantPattern:
		return fmt.Sprintf("%s.tag == %s_%s", value, pat.Enum, pat.Variant)
	default:
		return "0"
	}
}

func (e *Emitter) emitStructInit(n *ast.StructInit, scope *types.Scope) string {
	def := e.analyzer.Structs[n.Struct]
	var parts []string
	if n.Named {
		byName := make(map[string]ast.Expr, len(n.Fields))
		for _, f := range n.Fields {
			byName[f.Name] = f.Value
		}
		for _, field := range def.Fields {
			parts = append(parts, fmt.Sprintf(".%s = %s", field.Name, e.emitExpr(byName[field.Name], scope)))
		}
	} else {
		for _, v := range n.Positional {
			parts = append(parts, e.emitExpr(v, scope))
		}
	}
	return fmt.Sprintf("(%s){ %s }", n.Struct, strings.Join(parts, ", "))
}

func (e *Emitter) emitEnumConstruct(n *ast.EnumConstruct, scope *types.Scope) string {
	def := e.analyzer.Enums[n.Enum]
	var variant *ast.EnumVariant
	for i := range def.Variants {
		if def.Variants[i].Name == n.Variant {
			variant = &def.Variants[i]
		}
	}
	parts := []string{fmt.Sprintf(".tag = %s_%s", n.Enum, n.Variant)}
	lower := strings.ToLower(n.Variant)
	switch len(variant.Payload) {
	case 0:
		// No union member to initialize.
	case 1:
		parts = append(parts, fmt.Sprintf(".data.%s = %s", lower, e.emitExpr(n.Args[0], scope)))
	default:
		for i, arg := range n.Args {
			parts = append(parts, fmt.Sprintf(".data.%s._%d = %s", lower, i, e.emitExpr(arg, scope)))
		}
	}
	return fmt.Sprintf("(%s){ %s }", n.Enum, strings.Join(parts, ", "))
}
