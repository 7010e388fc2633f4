package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/summit-lang/summit/internal/parser"
)

func mustAnalyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	prog, perr := parser.Parse(src)
	require.Nil(t, perr, "unexpected parse error: %v", perr)
	a, diagErr := Analyze(prog)
	require.Nil(t, diagErr, "unexpected semantic error: %v", diagErr)
	return a
}

func analyzeErr(t *testing.T, src string) string {
	t.Helper()
	prog, perr := parser.Parse(src)
	require.Nil(t, perr, "unexpected parse error: %v", perr)
	_, diagErr := Analyze(prog)
	require.NotNil(t, diagErr, "expected a semantic error")
	return string(diagErr.Code)
}

func TestAnalyze_GlobalConstBoundsOK(t *testing.T) {
	mustAnalyze(t, `const X: u8 = 255; func main(): i8 { ret 0; }`)
}

func TestAnalyze_GlobalConstBoundsOverflow(t *testing.T) {
	code := analyzeErr(t, `const X: u8 = 300; func main(): i8 { ret 0; }`)
	require.Equal(t, "SEM_BOUNDS_ERROR", code)
}

func TestAnalyze_NegativeLiteralSignedOK(t *testing.T) {
	mustAnalyze(t, `const X: i8 = -128; func main(): i8 { ret 0; }`)
}

func TestAnalyze_NegativeLiteralSignedOverflow(t *testing.T) {
	code := analyzeErr(t, `const X: i8 = -129; func main(): i8 { ret 0; }`)
	require.Equal(t, "SEM_BOUNDS_ERROR", code)
}

func TestAnalyze_NegativeLiteralToUnsignedRejected(t *testing.T) {
	code := analyzeErr(t, `const X: u8 = -1; func main(): i8 { ret 0; }`)
	require.Equal(t, "SEM_BOUNDS_ERROR", code)
}

func TestAnalyze_SignedToUnsignedLiteralWidenOK(t *testing.T) {
	mustAnalyze(t, `func f(x: u32): void {} func main(): i8 { f(5); ret 0; }`)
}

func TestAnalyze_ArgumentTruncationRejected(t *testing.T) {
	code := analyzeErr(t, `
func f(x: u32): void {}
func main(): i8 {
    var y: i64 = 10;
    f(y);
    ret 0;
}`)
	require.Equal(t, "SEM_TYPE_ERROR", code)
}

func TestAnalyze_ComptimeGlobalRejectsCall(t *testing.T) {
	code := analyzeErr(t, `
func f(): i32 { ret 1; }
comptime X: i32 = f();
func main(): i8 { ret 0; }`)
	require.Equal(t, "SEM_CONST_ERROR", code)
}

func TestAnalyze_ComptimeLocalAllowsParamReference(t *testing.T) {
	mustAnalyze(t, `
func f(n: i32): i32 {
    comptime twice: i32 = n + n;
    ret twice;
}
func main(): i8 { ret 0; }`)
}

func TestAnalyze_MutationOfConstRejected(t *testing.T) {
	code := analyzeErr(t, `
func main(): i8 {
    const x: i32 = 1;
    x = 2;
    ret 0;
}`)
	require.Equal(t, "SEM_MUTATION_ERROR", code)
}

func TestAnalyze_MutationOfVarOK(t *testing.T) {
	mustAnalyze(t, `
func main(): i8 {
    var x: i32 = 1;
    x = 2;
    ret 0;
}`)
}

func TestAnalyze_UndeclaredNameRejected(t *testing.T) {
	code := analyzeErr(t, `func main(): i8 { ret missing; }`)
	require.Equal(t, "SEM_NAME_ERROR", code)
}

func TestAnalyze_MainWithTopLevelStatementsRejected(t *testing.T) {
	code := analyzeErr(t, `
func main(): i8 { ret 0; }
next;`)
	require.Equal(t, "SEM_STRUCTURE_ERROR", code)
}

func TestAnalyze_NeitherMainNorStatementsRejected(t *testing.T) {
	code := analyzeErr(t, `func f(): void {}`)
	require.Equal(t, "SEM_STRUCTURE_ERROR", code)
}

func TestAnalyze_GlobalsOnlyNoMainOK(t *testing.T) {
	mustAnalyze(t, `const X: i32 = 1;`)
}

func TestAnalyze_TopLevelStatementsOnlyOK(t *testing.T) {
	mustAnalyze(t, `var x: i32 = 1; x = 2;`)
}

func TestAnalyze_StructInitMissingFieldRejected(t *testing.T) {
	code := analyzeErr(t, `
struct Point { x: i32, y: i32 }
func main(): i8 {
    var p: Point = Point { x: 1 };
    ret 0;
}`)
	require.Equal(t, "SEM_TYPE_ERROR", code)
}

func TestAnalyze_StructFieldAccessOK(t *testing.T) {
	mustAnalyze(t, `
struct Point { x: i32, y: i32 }
func main(): i32 {
    const p: Point = Point { x: 1, y: 2 };
    ret p.x;
}`)
}

func TestAnalyze_EnumConstructAndWhenPatternOK(t *testing.T) {
	mustAnalyze(t, `
enum Opt { Some(i32), None }
func main(): i32 {
    const o: Opt = Opt::Some(7);
    ret when o {
        is Opt::Some(v) -> v,
        else -> 0,
    };
}`)
}

func TestAnalyze_EnumPayloadArityMismatchRejected(t *testing.T) {
	code := analyzeErr(t, `
enum Opt { Some(i32), None }
func main(): i32 {
    var o: Opt = Opt::Some(7, 8);
    ret 0;
}`)
	require.Equal(t, "SEM_TYPE_ERROR", code)
}

func TestAnalyze_ForLoopAndWhereFilterOK(t *testing.T) {
	mustAnalyze(t, `
func main(): i8 {
    var total: i32 = 0;
    for i in 0 to 10 by 2 where i != 4 {
        total = total + i;
    }
    ret 0;
}`)
}

func TestAnalyze_NextOutsideLoopRejected(t *testing.T) {
	code := analyzeErr(t, `func main(): i8 { next; ret 0; }`)
	require.Equal(t, "SEM_STRUCTURE_ERROR", code)
}

func TestAnalyze_QualifiedCallRequiresImport(t *testing.T) {
	code := analyzeErr(t, `
func main(): i8 {
    net::connect();
    ret 0;
}`)
	require.Equal(t, "SEM_NAME_ERROR", code)
}

func TestAnalyze_QualifiedCallAcceptsBareAliasOfImport(t *testing.T) {
	mustAnalyze(t, `
import std::net;
func main(): i8 {
    net::connect();
    ret 0;
}`)
}

func TestAnalyze_IOPrintlnRequiresStringFirstArgument(t *testing.T) {
	code := analyzeErr(t, `
import std::io;
func main(): i8 {
    io::println(5, 6);
    ret 0;
}`)
	require.Equal(t, "SEM_TYPE_ERROR", code)
}

func TestAnalyze_IOReadRejectsWideIntegerTypeArgument(t *testing.T) {
	code := analyzeErr(t, `
import std::io;
func main(): i8 {
    var v: i128 = io::read<i128>();
    ret 0;
}`)
	require.Equal(t, "SEM_TYPE_ERROR", code)
}

func TestAnalyze_ExpectRangePatternOK(t *testing.T) {
	mustAnalyze(t, `
func main(): i8 {
    const x: i32 = 5;
    expect x is 1 through 10 else { ret 1; }
    ret 0;
}`)
}

func TestAnalyze_VarNeverMutatedRejected(t *testing.T) {
	code := analyzeErr(t, `
func main(): i8 {
    var y: i32 = 1;
    ret 0;
}`)
	require.Equal(t, "SEM_MUTATION_ERROR", code)
}

func TestAnalyze_TopLevelVarNeverMutatedRejected(t *testing.T) {
	code := analyzeErr(t, `var y: i32 = 1;`)
	require.Equal(t, "SEM_MUTATION_ERROR", code)
}
