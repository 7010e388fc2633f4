package types

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
)

// stmtCtx carries the per-function state a nested statement needs to
// validate itself: the enclosing function's declared return type, how many
// loops currently enclose this statement (for `next`/`stop`), and whether
// it sits inside a `when`-case body, at any nesting depth (for
// `fallthrough`).
type stmtCtx struct {
	returnType string
	loopDepth  int
	inWhenCase bool
}

// analyzeBlock analyzes each statement of a block in order against scope,
// halting at the first diagnostic.
func (a *Analyzer) analyzeBlock(stmts []ast.Stmt, scope *Scope, ctx stmtCtx) {
	for _, s := range stmts {
		a.analyzeStmt(s, scope, ctx)
		if !a.ok() {
			return
		}
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt, scope *Scope, ctx stmtCtx) {
	switch n := s.(type) {
	case *ast.VarStmt:
		a.analyzeLocalDecl(n.Name, n.Type, n.Init, scope, true, false)
	case *ast.ConstStmt:
		a.analyzeLocalDecl(n.Name, n.Type, n.Init, scope, false, false)
	case *ast.ComptimeStmt:
		a.analyzeLocalDecl(n.Name, n.Type, n.Init, scope, false, true)
	case *ast.AssignStmt:
		a.checkAssign(n, scope)
	case *ast.FieldAssignStmt:
		a.checkFieldAssign(n, scope)
	case *ast.ReturnStmt:
		a.analyzeReturn(n, scope, ctx)
	case *ast.ExprStmt:
		a.InferType(n.Value, scope)
	case *ast.IfStmt:
		a.analyzeIf(n, scope, ctx)
	case *ast.WhileStmt:
		a.analyzeWhile(n, scope, ctx)
	case *ast.ForStmt:
		a.analyzeFor(n, scope, ctx)
	case *ast.WhenStmt:
		a.analyzeWhenStmt(n, scope, ctx)
	case *ast.ExpectStmt:
		a.analyzeExpect(n, scope, ctx)
	case *ast.NextStmt:
		if ctx.loopDepth == 0 {
			a.fail(diag.CodeStructureError, "'next' used outside of a loop")
		}
	case *ast.StopStmt:
		if ctx.loopDepth == 0 {
			a.fail(diag.CodeStructureError, "'stop' used outside of a loop")
		}
	case *ast.FallthroughStmt:
		if !ctx.inWhenCase {
			a.fail(diag.CodeStructureError, "'fallthrough' used outside of a when-case")
		}
	default:
		a.fail(diag.CodeTypeError, "unrecognized statement node")
	}
}

// analyzeLocalDecl implements spec §4.3.8's local var/const/comptime rule:
// infer (or check against an explicit annotation) the initializer's type,
// enforce the comptime-evaluable requirement when applicable, and declare
// the name into scope with the right mutability. Shadowing an outer
// binding, including a global, is allowed: scope.Declare simply overwrites
// this scope's copy of the name.
func (a *Analyzer) analyzeLocalDecl(name, explicitType string, init ast.Expr, scope *Scope, mutable, comptime bool) {
	if comptime && !a.IsComptimeEvaluable(init, scope) {
		a.fail(diag.CodeConstError, "comptime initializer for %q is not evaluable at compile time", name)
		return
	}
	finalType := explicitType
	if explicitType == "" {
		finalType = a.InferType(init, scope)
		if !a.ok() {
			return
		}
	} else if !a.checkAssignCompatible(init, scope, explicitType, "declaration of "+name) {
		return
	}
	scope.Declare(name, finalType, mutable)
}

func (a *Analyzer) analyzeReturn(n *ast.ReturnStmt, scope *Scope, ctx stmtCtx) {
	if n.Value == nil {
		if ctx.returnType != "void" {
			a.fail(diag.CodeTypeError, "function declared to return %q must return a value", ctx.returnType)
		}
		return
	}
	if ctx.returnType == "void" {
		a.fail(diag.CodeTypeError, "void function must not return a value")
		return
	}
	a.checkAssignCompatible(n.Value, scope, ctx.returnType, "return value")
}

func (a *Analyzer) analyzeIf(n *ast.IfStmt, scope *Scope, ctx stmtCtx) {
	condType := a.InferType(n.Cond, scope)
	if !a.ok() {
		return
	}
	if condType != "bool" {
		a.fail(diag.CodeTypeError, "if-condition must be bool, got %q", condType)
		return
	}
	a.analyzeBlock(n.Then, scope.Clone(), ctx)
	if !a.ok() {
		return
	}
	for _, ei := range n.ElseIfs {
		ct := a.InferType(ei.Cond, scope)
		if !a.ok() {
			return
		}
		if ct != "bool" {
			a.fail(diag.CodeTypeError, "elseif-condition must be bool, got %q", ct)
			return
		}
		a.analyzeBlock(ei.Body, scope.Clone(), ctx)
		if !a.ok() {
			return
		}
	}
	if n.HasElse {
		a.analyzeBlock(n.Else, scope.Clone(), ctx)
	}
}

func (a *Analyzer) analyzeWhile(n *ast.WhileStmt, scope *Scope, ctx stmtCtx) {
	condType := a.InferType(n.Cond, scope)
	if !a.ok() {
		return
	}
	if condType != "bool" {
		a.fail(diag.CodeTypeError, "while-condition must be bool, got %q", condType)
		return
	}
	ctx.loopDepth++
	a.analyzeBlock(n.Body, scope.Clone(), ctx)
}

func (a *Analyzer) analyzeFor(n *ast.ForStmt, scope *Scope, ctx stmtCtx) {
	startType := a.InferType(n.Start, scope)
	if !a.ok() {
		return
	}
	endType := a.InferType(n.End, scope)
	if !a.ok() {
		return
	}
	if !IsIntegerType(startType) || !IsIntegerType(endType) {
		a.fail(diag.CodeTypeError, "for-loop range bounds must be integers, got %q and %q", startType, endType)
		return
	}
	loopType := WiderType(startType, endType)

	body := scope.Clone()
	body.Declare(n.Var, loopType, false)

	if n.Step != nil {
		stepType := a.InferType(n.Step, body)
		if !a.ok() {
			return
		}
		if !IsIntegerType(stepType) {
			a.fail(diag.CodeTypeError, "for-loop step must be an integer, got %q", stepType)
			return
		}
	}
	if n.Filter != nil {
		filterType := a.InferType(n.Filter, body)
		if !a.ok() {
			return
		}
		if filterType != "bool" {
			a.fail(diag.CodeTypeError, "for-loop 'where' filter must be bool, got %q", filterType)
			return
		}
	}

	ctx.loopDepth++
	a.analyzeBlock(n.Body, body, ctx)
}

func (a *Analyzer) analyzeWhenStmt(n *ast.WhenStmt, scope *Scope, ctx stmtCtx) {
	valueType := a.InferType(n.Value, scope)
	if !a.ok() {
		return
	}
	caseCtx := ctx
	caseCtx.inWhenCase = true
	for _, c := range n.Cases {
		caseScope := scope.Clone()
		a.checkWhenPattern(c.Pattern, valueType, caseScope)
		if !a.ok() {
			return
		}
		a.analyzeBlock(c.Body, caseScope, caseCtx)
		if !a.ok() {
			return
		}
	}
	if n.HasElse {
		a.analyzeBlock(n.Else, scope.Clone(), ctx)
	}
}

func (a *Analyzer) analyzeExpect(n *ast.ExpectStmt, scope *Scope, ctx stmtCtx) {
	condType := a.InferType(n.Cond, scope)
	if !a.ok() {
		return
	}
	if n.Pattern == nil {
		if condType != "bool" {
			a.fail(diag.CodeTypeError, "expect-condition without a pattern must be bool, got %q", condType)
			return
		}
	} else {
		a.checkExpectPattern(n.Pattern, condType, scope)
		if !a.ok() {
			return
		}
	}
	a.analyzeBlock(n.Else, scope.Clone(), ctx)
}

func (a *Analyzer) checkExpectPattern(p ast.ExpectPattern, condType string, scope *Scope) {
	switch pat := p.(type) {
	case *ast.ExpectSinglePattern:
		t := a.InferType(pat.Value, scope)
		if !a.ok() {
			return
		}
		if !CompatibleTypes(condType, t) {
			a.fail(diag.CodeTypeError, "expect-pattern value has type %q, incompatible with %q", t, condType)
		}
	case *ast.ExpectRangePattern:
		if !IsIntegerType(condType) {
			a.fail(diag.CodeTypeError, "expect-pattern range requires an integer value, got %q", condType)
			return
		}
		start := a.InferType(pat.Start, scope)
		if !a.ok() {
			return
		}
		end := a.InferType(pat.End, scope)
		if !a.ok() {
			return
		}
		if !IsIntegerType(start) || !IsIntegerType(end) {
			a.fail(diag.CodeTypeError, "expect-pattern range bounds must be integers")
		}
	default:
		a.fail(diag.CodeTypeError, "unrecognized expect-pattern")
	}
}
