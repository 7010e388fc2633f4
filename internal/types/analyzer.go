package types

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
)

// FunctionInfo is the registered shape of a function: its parameter list,
// return type, and whether it is a no-body `extern` declaration.
type FunctionInfo struct {
	Params     []ast.Param
	Varargs    bool
	ReturnType string
	External   bool
}

// Analyzer performs the single forward pass of spec §4.3 over a parsed
// Program, halting at the first error and leaving its side tables populated
// for the code generator to borrow afterward.
type Analyzer struct {
	Imports map[string]bool // dedup'd by full dotted path, e.g. "std::io"

	Functions map[string]*FunctionInfo
	Structs   map[string]*ast.StructDef
	Enums     map[string]*ast.EnumDef

	GlobalScope      *Scope
	GlobalOrder      []string // declaration order, needed by the emitter
	GlobalInit       map[string]ast.Expr
	GlobalDeclKind   map[string]string // "var" | "const" | "comptime"

	err *diag.Diagnostic
}

// NewAnalyzer constructs an empty Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Imports:        make(map[string]bool),
		Functions:      make(map[string]*FunctionInfo),
		Structs:        make(map[string]*ast.StructDef),
		Enums:          make(map[string]*ast.EnumDef),
		GlobalScope:    NewScope(),
		GlobalInit:     make(map[string]ast.Expr),
		GlobalDeclKind: make(map[string]string),
	}
}

func (a *Analyzer) fail(code diag.Code, format string, args ...any) {
	if a.err == nil {
		a.err = diag.New(diag.StageSemantic, code, format, args...)
	}
}

func (a *Analyzer) ok() bool { return a.err == nil }

// Analyze runs the full semantic pass over prog and returns the first
// diagnostic encountered, or nil on success.
func Analyze(prog *ast.Program) (*Analyzer, *diag.Diagnostic) {
	a := NewAnalyzer()
	a.registerImports(prog)
	a.registerTypesAndFunctions(prog)
	if a.ok() {
		a.analyzeGlobals(prog)
	}
	if a.ok() {
		a.checkTopLevelShape(prog)
	}
	if a.ok() {
		a.analyzeFunctions(prog)
	}
	if a.err != nil {
		return nil, a.err
	}
	return a, nil
}

func (a *Analyzer) registerImports(prog *ast.Program) {
	for _, imp := range prog.Imports {
		key := joinPath(imp.Path)
		a.Imports[key] = true
	}
}

func joinPath(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "::"
		}
		out += seg
	}
	return out
}

// registerTypesAndFunctions is the registration phase of §4.3.1: structs,
// enums, functions, and parameter lists, checking for duplicate names
// within each namespace.
func (a *Analyzer) registerTypesAndFunctions(prog *ast.Program) {
	for _, g := range prog.Globals {
		switch d := g.(type) {
		case *ast.GlobalStruct:
			if _, dup := a.Structs[d.Def.Name]; dup {
				a.fail(diag.CodeNameError, "struct %q is already declared", d.Def.Name)
				return
			}
			a.Structs[d.Def.Name] = d.Def
		case *ast.GlobalEnum:
			if _, dup := a.Enums[d.Def.Name]; dup {
				a.fail(diag.CodeNameError, "enum %q is already declared", d.Def.Name)
				return
			}
			a.Enums[d.Def.Name] = d.Def
		}
	}
	if !a.ok() {
		return
	}
	for _, fn := range prog.Functions {
		if _, dup := a.Functions[fn.Name]; dup {
			a.fail(diag.CodeNameError, "function %q is already declared", fn.Name)
			return
		}
		a.Functions[fn.Name] = &FunctionInfo{
			Params:     fn.Params,
			Varargs:    fn.Varargs,
			ReturnType: fn.ReturnType,
			External:   fn.IsExternal(),
		}
	}
}

// HasMain reports whether a function named "main" was registered.
func (a *Analyzer) HasMain() bool {
	_, ok := a.Functions["main"]
	return ok
}

// analyzeGlobals implements spec §4.3.2: each global var/const/comptime is
// analyzed in declaration order against every global already registered
// before it, so a later global may reference an earlier one but never the
// reverse. `comptime` additionally requires the initializer to satisfy
// IsCompileTimeConstant.
func (a *Analyzer) analyzeGlobals(prog *ast.Program) {
	for _, g := range prog.Globals {
		var name, explicitType, kind string
		var init ast.Expr
		mutable := false
		switch d := g.(type) {
		case *ast.GlobalVar:
			name, explicitType, init, kind, mutable = d.Name, d.Type, d.Init, "var", true
		case *ast.GlobalConst:
			name, explicitType, init, kind = d.Name, d.Type, d.Init, "const"
		case *ast.GlobalComptime:
			name, explicitType, init, kind = d.Name, d.Type, d.Init, "comptime"
		default:
			continue // GlobalStruct, GlobalEnum: already registered.
		}

		if a.GlobalScope.Has(name) {
			a.fail(diag.CodeNameError, "global %q is already declared", name)
			return
		}
		if kind == "comptime" && !a.IsCompileTimeConstant(init) {
			a.fail(diag.CodeConstError, "comptime global %q's initializer is not a compile-time constant", name)
			return
		}

		finalType := explicitType
		if explicitType == "" {
			finalType = a.InferType(init, a.GlobalScope)
			if !a.ok() {
				return
			}
		} else if !a.checkAssignCompatible(init, a.GlobalScope, explicitType, "declaration of "+name) {
			return
		}

		a.GlobalScope.Declare(name, finalType, mutable)
		a.GlobalOrder = append(a.GlobalOrder, name)
		a.GlobalInit[name] = init
		a.GlobalDeclKind[name] = kind
	}
}

// checkTopLevelShape implements spec §4.3.3: a program with a `main`
// function may not also carry top-level statements (the two entry-point
// styles are mutually exclusive), and a program with no `main`, no
// top-level statement, and no global declaration has nothing to run.
func (a *Analyzer) checkTopLevelShape(prog *ast.Program) {
	hasMain := a.HasMain()
	hasStatements := len(prog.Statements) > 0
	if hasMain && hasStatements {
		a.fail(diag.CodeStructureError, "program defines both a 'main' function and top-level statements")
		return
	}
	if !hasMain && !hasStatements && len(prog.Globals) == 0 {
		a.fail(diag.CodeStructureError, "program defines no 'main' function, no top-level statements, and no globals")
	}
}

// analyzeFunctions implements spec §4.3.4: every non-extern function body
// is analyzed in its own scope, cloned from the registered globals with
// parameters declared as immutable bindings. Per §4.3.9, mutation
// collection runs over the body and the "var never mutated" rule (§3.4,
// §7) is enforced once the body itself is otherwise clean. The original
// (function_analyzer.rs:44-57) runs the never-mutated scan before
// statement analysis; here it runs after, so that a genuine type error
// inside the body (e.g. a truncating call argument) is reported instead of
// being masked by a MutationError on a variable the error already implies
// is suspect. Finally, every global `var` must be assigned somewhere in the
// top-level statements or in a function body.
func (a *Analyzer) analyzeFunctions(prog *ast.Program) {
	if len(prog.Statements) > 0 {
		scope := a.GlobalScope.Clone()
		st := newMutationState()
		a.collectMutations(prog.Statements, st)
		a.analyzeBlock(prog.Statements, scope, stmtCtx{returnType: "void"})
		if !a.ok() {
			return
		}
		a.checkNeverMutated(st)
		if !a.ok() {
			return
		}
	}
	for _, fn := range prog.Functions {
		if fn.IsExternal() {
			continue
		}
		scope := a.GlobalScope.Clone()
		for _, p := range fn.Params {
			scope.Declare(p.Name, p.Type, false)
		}
		st := newMutationState()
		a.collectMutations(fn.Body, st)
		a.analyzeBlock(fn.Body, scope, stmtCtx{returnType: fn.ReturnType})
		if !a.ok() {
			return
		}
		a.checkNeverMutated(st)
		if !a.ok() {
			return
		}
	}
	all := newMutationState()
	a.collectMutations(prog.Statements, all)
	for _, fn := range prog.Functions {
		a.collectMutations(fn.Body, all)
	}
	globals := newMutationState()
	for _, name := range a.GlobalOrder {
		if a.GlobalDeclKind[name] == "var" {
			globals.varDecls[name] = true
		}
	}
	globals.mutations = all.mutations
	a.checkNeverMutated(globals)
}
