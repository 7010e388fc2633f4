package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompile_S1_HelloWorld(t *testing.T) {
	out, err := Compile(`import std::io; func main(): i8 { io::println("hi"); ret 0; }`)
	require.NoError(t, err)
	require.Contains(t, out, `sm_std_io_println("hi");`)
	require.Contains(t, out, "int8_t main(void)")
}

func TestCompile_S2_BoundsError(t *testing.T) {
	_, err := Compile(`const X: u8 = 300;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds maximum value for type 'u8'")
	require.Contains(t, err.Error(), "maximum: 255")
}

func TestCompile_S3_SignedBoundsError(t *testing.T) {
	_, err := Compile(`const X: i8 = -128; const Y: i8 = -129;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "i8")
}

func TestCompile_S3_SignedBoundsAccept(t *testing.T) {
	_, err := Compile(`const X: i8 = -128;`)
	require.NoError(t, err)
}

func TestCompile_S4_TruncatingArgumentRejected(t *testing.T) {
	_, err := Compile(`func f(x: u32): u32 { ret x; } func main(): i8 { var y: i64 = 5; f(y); ret 0; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Semantic error")
}

func TestCompile_S5_GlobalsOnlyNoMainAccepted(t *testing.T) {
	out, err := Compile(`const a: i32 = 1; const b: i32 = a + 2;`)
	require.NoError(t, err)
	require.Contains(t, out, "static const int32_t a = 1;")
}

func TestCompile_S5_NoMainNoStatementsNoGlobalsRejected(t *testing.T) {
	_, err := Compile(`func f(): void {}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no")
}

func TestCompile_S5_VarNeverMutatedRejected(t *testing.T) {
	_, err := Compile(`const a: i32 = 1; var b: i32 = a + 2;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Semantic error")
}

func TestCompile_S5_TopLevelAssignAccepted(t *testing.T) {
	out, err := Compile(`const a: i32 = 1; var b: i32 = a + 2; b = 7;`)
	require.NoError(t, err)
	require.Contains(t, out, "b = 7;")
}

func TestCompile_S5_ConstMutationRejected(t *testing.T) {
	_, err := Compile(`const a: i32 = 1; const b: i32 = a + 2; b = 7;`)
	require.Error(t, err)
}

func TestCompile_S6_EnumWhenBinding(t *testing.T) {
	out, err := Compile(`enum Opt { Some(i32), None } func main(): i8 { const o: Opt = Opt::Some(5); when o { is Opt::Some(v) -> { } is Opt::None -> { } } ret 0; }`)
	require.NoError(t, err)
	require.Contains(t, out, "typedef enum {")
	require.Contains(t, out, "Opt_Some,")
	require.Contains(t, out, "Opt_None,")
	require.Contains(t, out, "} Opt_Tag;")
	require.Contains(t, out, "o.data.some")
}

func TestCompile_S7_StructFieldAssign(t *testing.T) {
	out, err := Compile(`struct P { x: i32, y: i32 } func main(): i8 { var p = P { x: 1, y: 2 }; p.x = 3; ret 0; }`)
	require.NoError(t, err)
	require.Contains(t, out, "(P){ .x = 1, .y = 2 }")
	require.Contains(t, out, "p.x = 3;")
}

func TestCompile_S7_ConstStructMutationRejected(t *testing.T) {
	_, err := Compile(`struct P { x: i32, y: i32 } func main(): i8 { const p = P { x: 1, y: 2 }; p.x = 3; ret 0; }`)
	require.Error(t, err)
}

func TestCompileMode_Freestanding(t *testing.T) {
	out, err := CompileMode(`func main(): i8 { ret 0; }`, true)
	require.NoError(t, err)
	require.Contains(t, out, "void _start(void) {")
	require.Contains(t, out, "main();")
	require.Contains(t, out, "syscall1(SYS_exit, 0);")
}
