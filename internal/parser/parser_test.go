package parser

import (
	"testing"

	"github.com/summit-lang/summit/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParse_Import(t *testing.T) {
	prog := mustParse(t, "import std::io;")
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(prog.Imports))
	}
	want := []string{"std", "io"}
	got := prog.Imports[0].Path
	if len(got) != len(want) {
		t.Fatalf("expected path %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected path %v, got %v", want, got)
		}
	}
}

func TestParse_FunctionWithReturn(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { ret 0; }`)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" || fn.ReturnType != "i8" {
		t.Fatalf("unexpected function header: %+v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body[0])
	}
	lit, ok := ret.Value.(*ast.IntLiteral)
	if !ok || lit.Lo != 0 {
		t.Fatalf("expected int literal 0, got %+v", ret.Value)
	}
}

func TestParse_ExternFunction(t *testing.T) {
	prog := mustParse(t, `extern "C" func puts(s: str): i32;`)
	fn := prog.Functions[0]
	if !fn.IsExternal() || fn.ABI != "C" || fn.Body != nil {
		t.Fatalf("expected external function with ABI C and no body, got %+v", fn)
	}
}

func TestParse_VarargsFunction(t *testing.T) {
	prog := mustParse(t, `extern "C" func printf(fmt: str, ...): i32;`)
	fn := prog.Functions[0]
	if !fn.Varargs || len(fn.Params) != 1 {
		t.Fatalf("expected one fixed param plus varargs, got %+v", fn)
	}
}

func TestParse_StructDef(t *testing.T) {
	prog := mustParse(t, `struct P { x: i32, y: i32 }`)
	decl, ok := prog.Globals[0].(*ast.GlobalStruct)
	if !ok {
		t.Fatalf("expected GlobalStruct, got %T", prog.Globals[0])
	}
	if decl.Def.Name != "P" || len(decl.Def.Fields) != 2 {
		t.Fatalf("unexpected struct def: %+v", decl.Def)
	}
}

func TestParse_EnumDef(t *testing.T) {
	prog := mustParse(t, `enum Opt { Some(i32), None }`)
	decl, ok := prog.Globals[0].(*ast.GlobalEnum)
	if !ok {
		t.Fatalf("expected GlobalEnum, got %T", prog.Globals[0])
	}
	if decl.Def.Name != "Opt" || len(decl.Def.Variants) != 2 {
		t.Fatalf("unexpected enum def: %+v", decl.Def)
	}
	if len(decl.Def.Variants[0].Payload) != 1 || decl.Def.Variants[0].Payload[0] != "i32" {
		t.Fatalf("expected Some(i32) payload, got %+v", decl.Def.Variants[0])
	}
	if len(decl.Def.Variants[1].Payload) != 0 {
		t.Fatalf("expected None to have no payload, got %+v", decl.Def.Variants[1])
	}
}

func TestParse_EnumEmptyIsError(t *testing.T) {
	_, err := Parse(`enum Opt { }`)
	if err == nil {
		t.Fatal("expected a parse error for empty enum")
	}
}

func TestParse_StructEmptyIsError(t *testing.T) {
	_, err := Parse(`struct P { }`)
	if err == nil {
		t.Fatal("expected a parse error for empty struct")
	}
}

func TestParse_StructInitNamed(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var p = P { x: 1, y: 2 }; ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	init := v.Init.(*ast.StructInit)
	if !init.Named || len(init.Fields) != 2 {
		t.Fatalf("expected named struct init with 2 fields, got %+v", init)
	}
}

func TestParse_StructInitPositional(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var p = P { 1, 2 }; ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	init := v.Init.(*ast.StructInit)
	if init.Named || len(init.Positional) != 2 {
		t.Fatalf("expected positional struct init with 2 fields, got %+v", init)
	}
}

func TestParse_StructInitMixedFieldsIsError(t *testing.T) {
	_, err := Parse(`func main(): i8 { var p = P { x: 1, 2 }; ret 0; }`)
	if err == nil {
		t.Fatal("expected a parse error for mixed positional/named fields")
	}
}

func TestParse_FieldAssign(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { p.x = 3; ret 0; }`)
	fa, ok := prog.Functions[0].Body[0].(*ast.FieldAssignStmt)
	if !ok {
		t.Fatalf("expected FieldAssignStmt, got %T", prog.Functions[0].Body[0])
	}
	root, ok := fa.Object.(*ast.VarRef)
	if !ok || root.Name != "p" {
		t.Fatalf("expected root var 'p', got %+v", fa.Object)
	}
	if len(fa.Path) != 1 || fa.Path[0] != "x" {
		t.Fatalf("expected path [x], got %v", fa.Path)
	}
}

func TestParse_EnumConstruct(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var o: Opt = Opt::Some(5); ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	ec, ok := v.Init.(*ast.EnumConstruct)
	if !ok || ec.Enum != "Opt" || ec.Variant != "Some" || len(ec.Args) != 1 {
		t.Fatalf("expected Opt::Some(5), got %+v", v.Init)
	}
}

func TestParse_QualifiedCall(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { io::println("hi"); ret 0; }`)
	es := prog.Functions[0].Body[0].(*ast.ExprStmt)
	call, ok := es.Value.(*ast.CallExpr)
	if !ok || len(call.Path) != 2 || call.Path[0] != "io" || call.Path[1] != "println" {
		t.Fatalf("expected io::println(...), got %+v", es.Value)
	}
}

func TestParse_GenericReadCall(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var x: i32 = io::read<i32>(); ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	call, ok := v.Init.(*ast.CallExpr)
	if !ok || len(call.TypeArgs) != 1 || call.TypeArgs[0] != "i32" {
		t.Fatalf("expected io::read<i32>(), got %+v", v.Init)
	}
}

func TestParse_LessThanIsNotMistakenForTypeArgs(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var x: bool = a < b; ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	bin, ok := v.Init.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.Lt {
		t.Fatalf("expected a < b comparison, got %+v", v.Init)
	}
}

func TestParse_WhenStatementWithFallthrough(t *testing.T) {
	src := `func main(): i8 {
		when 1 {
			is 1 -> { fallthrough; }
			is 2 -> { }
			else -> { }
		}
		ret 0;
	}`
	prog := mustParse(t, src)
	ws := prog.Functions[0].Body[0].(*ast.WhenStmt)
	if len(ws.Cases) != 2 || !ws.Cases[0].Fallthrough {
		t.Fatalf("expected first case to fallthrough, got %+v", ws.Cases)
	}
}

func TestParse_ForRangeInclusiveExclusive(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { for i in 0 to 10 { } for j in 0 through 10 { } ret 0; }`)
	f1 := prog.Functions[0].Body[0].(*ast.ForStmt)
	f2 := prog.Functions[0].Body[1].(*ast.ForStmt)
	if f1.Inclusive || !f2.Inclusive {
		t.Fatalf("expected 'to' exclusive and 'through' inclusive, got %v %v", f1.Inclusive, f2.Inclusive)
	}
}

func TestParse_ForWithByAndWhere(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { for i in 0 to 10 by 2 where i != 4 { } ret 0; }`)
	f := prog.Functions[0].Body[0].(*ast.ForStmt)
	if f.Step == nil || f.Filter == nil {
		t.Fatalf("expected step and filter to be parsed, got %+v", f)
	}
}

func TestParse_ExpectWithRangePattern(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { expect true is 1 through 10 else { ret 1; } ret 0; }`)
	es := prog.Functions[0].Body[0].(*ast.ExpectStmt)
	pat, ok := es.Pattern.(*ast.ExpectRangePattern)
	if !ok || !pat.Inclusive {
		t.Fatalf("expected inclusive range pattern, got %+v", es.Pattern)
	}
}

func TestParse_TernaryExpression(t *testing.T) {
	prog := mustParse(t, `func main(): i8 { var x: i8 = true ? 1 : 2; ret 0; }`)
	v := prog.Functions[0].Body[0].(*ast.VarStmt)
	ie, ok := v.Init.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected IfExpr for ternary, got %T", v.Init)
	}
	if _, ok := ie.Cond.(*ast.BoolLiteral); !ok {
		t.Fatalf("expected bool literal condition, got %+v", ie.Cond)
	}
}

func TestParse_IfNoStructAmbiguity(t *testing.T) {
	// `cond` here must not be parsed as the start of a struct initializer.
	prog := mustParse(t, `func main(): i8 { if cond { ret 1; } ret 0; }`)
	ifs, ok := prog.Functions[0].Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Functions[0].Body[0])
	}
	if _, ok := ifs.Cond.(*ast.VarRef); !ok {
		t.Fatalf("expected a plain variable condition, got %+v", ifs.Cond)
	}
}

func TestParse_TopLevelStatementsAndGlobals(t *testing.T) {
	prog := mustParse(t, `const a: i32 = 1; var b: i32 = a + 2; b = 7;`)
	if len(prog.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(prog.Globals))
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(prog.Statements))
	}
}

func TestParse_IntLiteral128Bit(t *testing.T) {
	prog := mustParse(t, `const x: u128 = 340282366920938463463374607431768211455;`)
	decl := prog.Globals[0].(*ast.GlobalConst)
	lit := decl.Init.(*ast.IntLiteral)
	if lit.Hi != ^uint64(0) || lit.Lo != ^uint64(0) {
		t.Fatalf("expected u128::MAX magnitude, got hi=%d lo=%d", lit.Hi, lit.Lo)
	}
}
