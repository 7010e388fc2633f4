package codegen

import (
	"fmt"
	"strings"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/types"
)

// emitCtx threads the state a nested statement needs that isn't carried by
// scope alone: which when-statement (if any) currently encloses it, so a
// `fallthrough;` mid-body can target the right `goto` label.
type emitCtx struct {
	whenIdx    int
	caseIdx    int
	caseCount  int
	inWhenCase bool
}

func (e *Emitter) emitBlock(stmts []ast.Stmt, scope *types.Scope, ctx emitCtx) {
	for _, s := range stmts {
		e.emitStmt(s, scope, ctx)
	}
}

func (e *Emitter) emitStmt(s ast.Stmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	switch n := s.(type) {
	case *ast.VarStmt:
		t := e.localDeclType(n.Type, n.Init, scope)
		w.line(fmt.Sprintf("%s %s = %s;", cType(t), n.Name, e.emitExpr(n.Init, scope)))
		scope.Declare(n.Name, t, true)
	case *ast.ConstStmt:
		t := e.localDeclType(n.Type, n.Init, scope)
		w.line(fmt.Sprintf("const %s %s = %s;", cType(t), n.Name, e.emitExpr(n.Init, scope)))
		scope.Declare(n.Name, t, false)
	case *ast.ComptimeStmt:
		t := e.localDeclType(n.Type, n.Init, scope)
		w.line(fmt.Sprintf("const %s %s = %s;", cType(t), n.Name, e.emitExpr(n.Init, scope)))
		scope.Declare(n.Name, t, false)
	case *ast.AssignStmt:
		w.line(fmt.Sprintf("%s = %s;", n.Name, e.emitExpr(n.Value, scope)))
	case *ast.FieldAssignStmt:
		root := e.emitExpr(n.Object, scope)
		w.line(fmt.Sprintf("%s.%s = %s;", root, strings.Join(n.Path, "."), e.emitExpr(n.Value, scope)))
	case *ast.ReturnStmt:
		if n.Value == nil {
			w.line("return;")
		} else {
			w.line(fmt.Sprintf("return %s;", e.emitExpr(n.Value, scope)))
		}
	case *ast.ExprStmt:
		e.emitExprStmt(n, scope)
	case *ast.IfStmt:
		e.emitIf(n, scope, ctx)
	case *ast.WhileStmt:
		e.emitWhile(n, scope, ctx)
	case *ast.ForStmt:
		e.emitFor(n, scope, ctx)
	case *ast.WhenStmt:
		e.emitWhenStmt(n, scope, ctx)
	case *ast.ExpectStmt:
		e.emitExpect(n, scope, ctx)
	case *ast.NextStmt:
		w.line("continue;")
	case *ast.StopStmt:
		w.line("break;")
	case *ast.FallthroughStmt:
		if ctx.inWhenCase && ctx.caseIdx+1 < ctx.caseCount {
			w.line(fmt.Sprintf("goto __when_case_%d_%d;", ctx.whenIdx, ctx.caseIdx+1))
		} else {
			w.line("/* fallthrough */")
		}
	}
}

func (e *Emitter) localDeclType(explicit string, init ast.Expr, scope *types.Scope) string {
	if explicit != "" {
		return explicit
	}
	return e.analyzer.InferType(init, scope)
}

func (e *Emitter) emitExprStmt(n *ast.ExprStmt, scope *types.Scope) {
	if call, ok := n.Value.(*ast.CallExpr); ok {
		if isIOCall(call.Path, "print") || isIOCall(call.Path, "println") {
			for _, stmt := range e.emitPrintStatements(call, isIOCall(call.Path, "println"), scope) {
				e.out.line(stmt)
			}
			return
		}
	}
	e.out.line(e.emitExpr(n.Value, scope) + ";")
}

func (e *Emitter) emitIf(n *ast.IfStmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	w.line(fmt.Sprintf("if (%s) {", e.emitExpr(n.Cond, scope)))
	w.push()
	e.emitBlock(n.Then, scope.Clone(), ctx)
	w.pop()
	for _, ei := range n.ElseIfs {
		w.line(fmt.Sprintf("} else if (%s) {", e.emitExpr(ei.Cond, scope)))
		w.push()
		e.emitBlock(ei.Body, scope.Clone(), ctx)
		w.pop()
	}
	if n.HasElse {
		w.line("} else {")
		w.push()
		e.emitBlock(n.Else, scope.Clone(), ctx)
		w.pop()
	}
	w.line("}")
}

func (e *Emitter) emitWhile(n *ast.WhileStmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	w.line(fmt.Sprintf("while (%s) {", e.emitExpr(n.Cond, scope)))
	w.push()
	e.emitBlock(n.Body, scope.Clone(), ctx)
	w.pop()
	w.line("}")
}

func isNegatedIntLiteral(expr ast.Expr) bool {
	u, ok := expr.(*ast.UnaryExpr)
	if !ok || u.Op != ast.Negate {
		return false
	}
	_, isLit := u.Operand.(*ast.IntLiteral)
	return isLit
}

// emitFor implements spec §4.4.6's for-loop lowering. The plain `to`/
// `through` form becomes a native C for-loop; a `by step` and/or `where
// filter` form is hoisted into a `while` loop whose comparison direction
// follows the step's sign when the step is a literal (non-literal steps
// default to the positive direction).
func (e *Emitter) emitFor(n *ast.ForStmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	startType := e.analyzer.InferType(n.Start, scope)
	endType := e.analyzer.InferType(n.End, scope)
	loopType := types.WiderType(startType, endType)
	bodyScope := scope.Clone()
	bodyScope.Declare(n.Var, loopType, false)

	if n.Step == nil && n.Filter == nil {
		op := "<"
		if n.Inclusive {
			op = "<="
		}
		w.line(fmt.Sprintf("for (%s %s = %s; %s %s %s; %s++) {",
			cType(loopType), n.Var, e.emitExpr(n.Start, scope), n.Var, op, e.emitExpr(n.End, scope), n.Var))
		w.push()
		e.emitBlock(n.Body, bodyScope, ctx)
		w.pop()
		w.line("}")
		return
	}

	stepText := "1"
	positive := true
	if n.Step != nil {
		stepText = e.emitExpr(n.Step, bodyScope)
		if isNegatedIntLiteral(n.Step) {
			positive = false
		}
	}
	var op string
	switch {
	case positive && n.Inclusive:
		op = "<="
	case positive:
		op = "<"
	case n.Inclusive:
		op = ">="
	default:
		op = ">"
	}

	w.line("{")
	w.push()
	w.line(fmt.Sprintf("%s %s = %s;", cType(loopType), n.Var, e.emitExpr(n.Start, scope)))
	w.line(fmt.Sprintf("while (%s %s %s) {", n.Var, op, e.emitExpr(n.End, scope)))
	w.push()
	if n.Filter != nil {
		w.line(fmt.Sprintf("if (!(%s)) { %s += %s; continue; }", e.emitExpr(n.Filter, bodyScope), n.Var, stepText))
	}
	e.emitBlock(n.Body, bodyScope, ctx)
	w.line(fmt.Sprintf("%s += %s;", n.Var, stepText))
	w.pop()
	w.line("}")
	w.pop()
	w.line("}")
}

// emitWhenStmt lowers every when-statement uniformly to the if/else-if
// chain with a synthetic matched flag and per-case goto labels described by
// the source's "when-statement codegen" design note, rather than
// special-casing the narrower switch form: the chain handles ranges,
// enum-variant bindings, and fallthrough without duplicating case bodies,
// and is correct for every shape a switch-based lowering would also need to
// cover.
func (e *Emitter) emitWhenStmt(n *ast.WhenStmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	idx := e.nextWhenID()
	valueType := e.analyzer.InferType(n.Value, scope)
	valueVar := fmt.Sprintf("__when_value_%d", idx)
	matchedVar := fmt.Sprintf("__when_matched_%d", idx)

	w.line("{")
	w.push()
	w.line(fmt.Sprintf("%s %s = %s;", cType(valueType), valueVar, e.emitExpr(n.Value, scope)))
	w.line(fmt.Sprintf("int %s = 0;", matchedVar))

	caseCtx := emitCtx{whenIdx: idx, caseCount: len(n.Cases), inWhenCase: true}
	for i, c := range n.Cases {
		caseCtx.caseIdx = i
		caseScope := scope.Clone()
		test := e.whenPatternTest(c.Pattern, valueVar, caseScope)
		w.line(fmt.Sprintf("if (!%s && (%s)) {", matchedVar, test))
		w.push()
		w.line(fmt.Sprintf("__when_case_%d_%d:", idx, i))
		w.line(fmt.Sprintf("%s = 1;", matchedVar))
		bindFrom := valueVar
		if _, isVar := n.Value.(*ast.VarRef); isVar {
			bindFrom = e.emitExpr(n.Value, scope)
		}
		e.emitEnumBindings(c.Pattern, bindFrom, caseScope)
		e.emitBlock(c.Body, caseScope, caseCtx)
		w.pop()
		w.line("}")
	}
	if n.HasElse {
		w.line(fmt.Sprintf("if (!%s) {", matchedVar))
		w.push()
		e.emitBlock(n.Else, scope.Clone(), ctx)
		w.pop()
		w.line("}")
	}
	w.pop()
	w.line("}")
}

// emitEnumBindings declares the payload bindings an enum-variant pattern
// introduces, reading them out of the tagged union's matching field.
func (e *Emitter) emitEnumBindings(p ast.WhenPattern, valueVar string, scope *types.Scope) {
	pat, ok := p.(*ast.EnumVariantPattern)
	if !ok || len(pat.Bindings) == 0 {
		return
	}
	def := e.analyzer.Enums[pat.Enum]
	var variant *ast.EnumVariant
	for i := range def.Variants {
		if def.Variants[i].Name == pat.Variant {
			variant = &def.Variants[i]
		}
	}
	lower := strings.ToLower(pat.Variant)
	for i, bindName := range pat.Bindings {
		t := variant.Payload[i]
		var ref string
		if len(variant.Payload) == 1 {
			ref = fmt.Sprintf("%s.data.%s", valueVar, lower)
		} else {
			ref = fmt.Sprintf("%s.data.%s._%d", valueVar, lower, i)
		}
		e.out.line(fmt.Sprintf("%s %s = %s;", cType(t), bindName, ref))
		scope.Declare(bindName, t, false)
	}
}

func (e *Emitter) emitExpect(n *ast.ExpectStmt, scope *types.Scope, ctx emitCtx) {
	w := e.out
	cond := e.emitExpr(n.Cond, scope)
	test := cond
	if n.Pattern != nil {
		test = e.expectPatternTest(n.Pattern, cond, scope)
	}
	w.line(fmt.Sprintf("if (!(%s)) {", test))
	w.push()
	e.emitBlock(n.Else, scope.Clone(), ctx)
	w.pop()
	w.line("}")
}

func (e *Emitter) expectPatternTest(p ast.ExpectPattern, value string, scope *types.Scope) string {
	switch pat := p.(type) {
	case *ast.ExpectSinglePattern:
		return fmt.Sprintf("%s == %s", value, e.emitExpr(pat.Value, scope))
	case *ast.ExpectRangePattern:
		op := "<"
		if pat.Inclusive {
			op = "<="
		}
		return fmt.Sprintf("%s >= %s && %s %s %s", value, e.emitExpr(pat.Start, scope), value, op, e.emitExpr(pat.End, scope))
	default:
		return "0"
	}
}
