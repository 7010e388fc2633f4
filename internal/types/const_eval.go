package types

import "github.com/summit-lang/summit/internal/ast"

// IsCompileTimeConstant implements spec §4.3.2's strict predicate, used to
// validate a global `comptime` initializer. Literals are always constant;
// a variable reference is constant only if it names a global already
// registered in a.GlobalScope (registration happens in declaration order,
// so this is exactly "a previously-declared global name"); unary/binary
// operators, if-expressions, when-expressions (scrutinee, every case
// pattern endpoint, every case result, and the else branch), struct
// initializers, and field access all recurse structurally. A function call
// is never a compile-time constant.
func (a *Analyzer) IsCompileTimeConstant(e ast.Expr) bool {
	return isCompileTimeConstant(e, func(name string) bool {
		return a.GlobalScope.Has(name)
	})
}

// IsComptimeEvaluable implements spec §4.3.2's weaker predicate for a local
// `comptime` binding: identical to IsCompileTimeConstant except that any
// variable bound in scope counts as evaluable, because the local scope
// supplies its value directly. Calls remain non-evaluable.
func (a *Analyzer) IsComptimeEvaluable(e ast.Expr, scope *Scope) bool {
	return isCompileTimeConstant(e, func(name string) bool {
		return scope.Has(name)
	})
}

// isCompileTimeConstant is the shared structural closure; refAllowed
// decides whether a given variable name may appear.
func isCompileTimeConstant(e ast.Expr, refAllowed func(name string) bool) bool {
	switch n := e.(type) {
	case *ast.IntLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral:
		return true
	case *ast.VarRef:
		return refAllowed(n.Name)
	case *ast.UnaryExpr:
		return isCompileTimeConstant(n.Operand, refAllowed)
	case *ast.BinaryExpr:
		return isCompileTimeConstant(n.Left, refAllowed) && isCompileTimeConstant(n.Right, refAllowed)
	case *ast.IfExpr:
		return isCompileTimeConstant(n.Cond, refAllowed) &&
			isCompileTimeConstant(n.Then, refAllowed) &&
			isCompileTimeConstant(n.Else, refAllowed)
	case *ast.WhenExpr:
		if !isCompileTimeConstant(n.Value, refAllowed) {
			return false
		}
		for _, c := range n.Cases {
			if !whenPatternIsCompileTimeConstant(c.Pattern, refAllowed) {
				return false
			}
			if !isCompileTimeConstant(c.Result, refAllowed) {
				return false
			}
		}
		return isCompileTimeConstant(n.Else, refAllowed)
	case *ast.StructInit:
		for _, f := range n.Fields {
			if !isCompileTimeConstant(f.Value, refAllowed) {
				return false
			}
		}
		for _, v := range n.Positional {
			if !isCompileTimeConstant(v, refAllowed) {
				return false
			}
		}
		return true
	case *ast.FieldAccess:
		return isCompileTimeConstant(n.Object, refAllowed)
	case *ast.CallExpr, *ast.EnumConstruct:
		// Function calls are never compile-time constants; enum
		// construction is call-shaped and follows the same rule.
		return false
	default:
		return false
	}
}

func whenPatternIsCompileTimeConstant(p ast.WhenPattern, refAllowed func(name string) bool) bool {
	switch pat := p.(type) {
	case *ast.SinglePattern:
		return isCompileTimeConstant(pat.Value, refAllowed)
	case *ast.RangePattern:
		return isCompileTimeConstant(pat.Start, refAllowed) && isCompileTimeConstant(pat.End, refAllowed)
	case *ast.EnumVariantPattern:
		// Bindings introduce new names; the pattern head itself carries no
		// independently-evaluable expression.
		return true
	default:
		return false
	}
}
