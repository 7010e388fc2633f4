package types

import (
	"sort"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
)

// mutationState accumulates the two-phase mutation check of spec §4.3.9,
// grounded on the original's MutationChecker::collect_mutations /
// validate_mutations (mutation_checker.rs): varDecls records every
// var/const/comptime binding introduced in a body and whether it was
// declared mutable, and mutations records every name ever assigned to,
// either directly or through a field path.
type mutationState struct {
	varDecls  map[string]bool
	mutations map[string]bool
}

func newMutationState() *mutationState {
	return &mutationState{varDecls: make(map[string]bool), mutations: make(map[string]bool)}
}

// collectMutations walks stmts recording each local var/const/comptime
// declaration's mutability and every assignment target, recursing into
// every compound statement's bodies the same way analyzeBlock does.
func (a *Analyzer) collectMutations(stmts []ast.Stmt, st *mutationState) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VarStmt:
			st.varDecls[n.Name] = true
		case *ast.ConstStmt:
			st.varDecls[n.Name] = false
		case *ast.ComptimeStmt:
			st.varDecls[n.Name] = false
		case *ast.AssignStmt:
			st.mutations[n.Name] = true
		case *ast.FieldAssignStmt:
			if root, ok := n.Object.(*ast.VarRef); ok {
				st.mutations[root.Name] = true
			}
		case *ast.IfStmt:
			a.collectMutations(n.Then, st)
			for _, ei := range n.ElseIfs {
				a.collectMutations(ei.Body, st)
			}
			a.collectMutations(n.Else, st)
		case *ast.WhileStmt:
			a.collectMutations(n.Body, st)
		case *ast.ForStmt:
			a.collectMutations(n.Body, st)
		case *ast.WhenStmt:
			for _, c := range n.Cases {
				a.collectMutations(c.Body, st)
			}
			a.collectMutations(n.Else, st)
		case *ast.ExpectStmt:
			a.collectMutations(n.Else, st)
		}
	}
}

// checkNeverMutated implements spec §3.4/§7's "var declared but never
// mutated" rule: any name declared mutable in st.varDecls that never
// appears in st.mutations is a hard error. Names are visited in sorted
// order so the reported diagnostic is deterministic.
func (a *Analyzer) checkNeverMutated(st *mutationState) {
	names := make([]string, 0, len(st.varDecls))
	for name := range st.varDecls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mutable := st.varDecls[name]
		if mutable && !st.mutations[name] {
			a.fail(diag.CodeMutationError, "variable %q is never mutated; consider using 'const' instead of 'var'", name)
			return
		}
	}
}

// checkAssign validates `name = value;` per spec §4.3.9: the name must
// already be bound and declared mutable, and the value must be
// assignment-compatible with its declared type.
func (a *Analyzer) checkAssign(n *ast.AssignStmt, scope *Scope) {
	declared, ok := scope.Lookup(n.Name)
	if !ok {
		a.fail(diag.CodeNameError, "assignment to undeclared name %q", n.Name)
		return
	}
	if !scope.IsMutable(n.Name) {
		a.fail(diag.CodeMutationError, "cannot assign to immutable binding %q", n.Name)
		return
	}
	a.checkAssignCompatible(n.Value, scope, declared, "assignment to "+n.Name)
}

// checkFieldAssign validates `root.f1.f2 = value;`. Phase one resolves and
// validates the root binding's mutability; phase two walks the field path
// through each struct definition in turn to find the final field's declared
// type, which the value must then satisfy.
func (a *Analyzer) checkFieldAssign(n *ast.FieldAssignStmt, scope *Scope) {
	root, ok := n.Object.(*ast.VarRef)
	if !ok {
		a.fail(diag.CodeMutationError, "left-hand side of assignment is not a mutable location")
		return
	}
	declared, bound := scope.Lookup(root.Name)
	if !bound {
		a.fail(diag.CodeNameError, "assignment to undeclared name %q", root.Name)
		return
	}
	if !scope.IsMutable(root.Name) {
		a.fail(diag.CodeMutationError, "cannot assign through immutable binding %q", root.Name)
		return
	}

	curType := declared
	for _, segment := range n.Path {
		def, isStruct := a.Structs[curType]
		if !isStruct {
			a.fail(diag.CodeTypeError, "cannot access field %q on non-struct type %q", segment, curType)
			return
		}
		field := findStructField(def, segment)
		if field == nil {
			a.fail(diag.CodeNameError, "struct %q has no field %q", curType, segment)
			return
		}
		curType = field.Type
	}
	a.checkAssignCompatible(n.Value, scope, curType, "field assignment")
}
