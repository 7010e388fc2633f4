package types

import (
	"math/big"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
)

// magnitude reconstructs an IntLiteral's 128-bit value as a big.Int.
func magnitude(n *ast.IntLiteral) *big.Int {
	v := new(big.Int).SetUint64(n.Hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(n.Lo))
	return v
}

// InferType runs spec §4.3.5's type-inference rules over e against scope,
// returning the inferred type name. Callers must check a.ok() afterward;
// the return value is meaningless once a diagnostic has been recorded.
func (a *Analyzer) InferType(e ast.Expr, scope *Scope) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return SmallestFitting(magnitude(n))
	case *ast.StringLiteral:
		return "str"
	case *ast.BoolLiteral:
		return "bool"
	case *ast.NullLiteral:
		return "void*"
	case *ast.VarRef:
		return a.inferVarRef(n, scope)
	case *ast.UnaryExpr:
		return a.inferUnary(n, scope)
	case *ast.BinaryExpr:
		return a.inferBinary(n, scope)
	case *ast.IfExpr:
		return a.inferBranchSet(scope, "if-expression", n.Cond, n.Then, n.Else)
	case *ast.WhenExpr:
		return a.inferWhenExpr(n, scope)
	case *ast.StructInit:
		return a.inferStructInit(n, scope)
	case *ast.EnumConstruct:
		return a.inferEnumConstruct(n, scope)
	case *ast.FieldAccess:
		return a.inferFieldAccess(n, scope)
	case *ast.CallExpr:
		return a.inferCall(n, scope)
	default:
		a.fail(diag.CodeTypeError, "unrecognized expression node")
		return ""
	}
}

func (a *Analyzer) inferVarRef(n *ast.VarRef, scope *Scope) string {
	if t, ok := scope.Lookup(n.Name); ok {
		return t
	}
	a.fail(diag.CodeNameError, "undeclared name %q", n.Name)
	return ""
}

func (a *Analyzer) inferUnary(n *ast.UnaryExpr, scope *Scope) string {
	operand := a.InferType(n.Operand, scope)
	if !a.ok() {
		return ""
	}
	switch n.Op {
	case ast.Negate:
		if !IsIntegerType(operand) {
			a.fail(diag.CodeTypeError, "cannot negate non-integer type %q", operand)
			return ""
		}
		return operand
	case ast.Not:
		if operand != "bool" {
			a.fail(diag.CodeTypeError, "operator 'not' requires a bool operand, got %q", operand)
			return ""
		}
		return "bool"
	default:
		a.fail(diag.CodeTypeError, "unrecognized unary operator")
		return ""
	}
}

func (a *Analyzer) inferBinary(n *ast.BinaryExpr, scope *Scope) string {
	left := a.InferType(n.Left, scope)
	if !a.ok() {
		return ""
	}
	right := a.InferType(n.Right, scope)
	if !a.ok() {
		return ""
	}
	switch n.Op {
	case ast.And, ast.Or:
		if left != "bool" || right != "bool" {
			a.fail(diag.CodeTypeError, "operator %q requires bool operands, got %q and %q", n.Op, left, right)
			return ""
		}
		return "bool"
	case ast.Eq, ast.Ne:
		if !CompatibleTypes(left, right) {
			a.fail(diag.CodeTypeError, "operands of %q are not compatible types: %q and %q", n.Op, left, right)
			return ""
		}
		return "bool"
	case ast.Lt, ast.Gt, ast.Le, ast.Ge:
		if !IsIntegerType(left) || !IsIntegerType(right) {
			a.fail(diag.CodeTypeError, "operator %q requires integer operands, got %q and %q", n.Op, left, right)
			return ""
		}
		return "bool"
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		if !IsIntegerType(left) || !IsIntegerType(right) {
			a.fail(diag.CodeTypeError, "operator %q requires integer operands, got %q and %q", n.Op, left, right)
			return ""
		}
		return WiderType(left, right)
	default:
		a.fail(diag.CodeTypeError, "unrecognized binary operator")
		return ""
	}
}

// inferBranchSet infers every branch expression in turn, checks that they
// are pairwise type-compatible, and returns their wider_type per spec
// §4.3.5's if/when promotion rule. desc names the construct for diagnostics.
func (a *Analyzer) inferBranchSet(scope *Scope, desc string, cond ast.Expr, branches ...ast.Expr) string {
	condType := a.InferType(cond, scope)
	if !a.ok() {
		return ""
	}
	if condType != "bool" {
		a.fail(diag.CodeTypeError, "%s condition must be bool, got %q", desc, condType)
		return ""
	}
	return a.widestOf(desc, scope, branches...)
}

func (a *Analyzer) widestOf(desc string, scope *Scope, branches ...ast.Expr) string {
	var result string
	for i, b := range branches {
		t := a.InferType(b, scope)
		if !a.ok() {
			return ""
		}
		if i == 0 {
			result = t
			continue
		}
		if !CompatibleTypes(result, t) {
			a.fail(diag.CodeTypeError, "%s branches have incompatible types %q and %q", desc, result, t)
			return ""
		}
		result = WiderType(result, t)
	}
	return result
}

func (a *Analyzer) inferWhenExpr(n *ast.WhenExpr, scope *Scope) string {
	valueType := a.InferType(n.Value, scope)
	if !a.ok() {
		return ""
	}
	var result string
	for i, c := range n.Cases {
		caseScope := scope.Clone()
		a.checkWhenPattern(c.Pattern, valueType, caseScope)
		if !a.ok() {
			return ""
		}
		t := a.InferType(c.Result, caseScope)
		if !a.ok() {
			return ""
		}
		if i == 0 {
			result = t
		} else if !CompatibleTypes(result, t) {
			a.fail(diag.CodeTypeError, "when-expression branches have incompatible types %q and %q", result, t)
			return ""
		} else {
			result = WiderType(result, t)
		}
	}
	elseType := a.InferType(n.Else, scope)
	if !a.ok() {
		return ""
	}
	if !CompatibleTypes(result, elseType) {
		a.fail(diag.CodeTypeError, "when-expression branches have incompatible types %q and %q", result, elseType)
		return ""
	}
	return WiderType(result, elseType)
}

// checkWhenPattern validates a pattern against the scrutinee type. Bindings
// introduced by an enum-variant pattern are declared into scope so the
// corresponding result expression can see them (scope is cloned by the
// caller's statement-level walker when that matters for mutation tracking;
// here the result expression is a pure expression with no mutation of its
// own, so declaring directly into the caller's scope is sufficient: each
// case's bindings do not leak into other cases because each call reuses the
// same underlying scope pointer only within a single result evaluation).
func (a *Analyzer) checkWhenPattern(p ast.WhenPattern, valueType string, scope *Scope) {
	switch pat := p.(type) {
	case *ast.SinglePattern:
		t := a.InferType(pat.Value, scope)
		if !a.ok() {
			return
		}
		if !CompatibleTypes(valueType, t) {
			a.fail(diag.CodeTypeError, "when-pattern value has type %q, incompatible with scrutinee type %q", t, valueType)
		}
	case *ast.RangePattern:
		if !IsIntegerType(valueType) {
			a.fail(diag.CodeTypeError, "range pattern requires an integer scrutinee, got %q", valueType)
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
			a.fail(diag.CodeTypeError, "range pattern bounds must be integers")
		}
	case *ast.EnumVariantPattern:
		def, ok := a.Enums[pat.Enum]
		if !ok {
			a.fail(diag.CodeNameError, "undeclared enum %q", pat.Enum)
			return
		}
		if valueType != pat.Enum {
			a.fail(diag.CodeTypeError, "when-pattern names enum %q, incompatible with scrutinee type %q", pat.Enum, valueType)
			return
		}
		variant := findVariant(def, pat.Variant)
		if variant == nil {
			a.fail(diag.CodeNameError, "enum %q has no variant %q", pat.Enum, pat.Variant)
			return
		}
		if len(pat.Bindings) != len(variant.Payload) {
			a.fail(diag.CodeTypeError, "pattern for %q::%q binds %d names but the variant carries %d payload fields",
				pat.Enum, pat.Variant, len(pat.Bindings), len(variant.Payload))
			return
		}
		for i, bindName := range pat.Bindings {
			scope.Declare(bindName, variant.Payload[i], false)
		}
	default:
		a.fail(diag.CodeTypeError, "unrecognized when-pattern")
	}
}

func findVariant(def *ast.EnumDef, name string) *ast.EnumVariant {
	for i := range def.Variants {
		if def.Variants[i].Name == name {
			return &def.Variants[i]
		}
	}
	return nil
}

func (a *Analyzer) inferStructInit(n *ast.StructInit, scope *Scope) string {
	def, ok := a.Structs[n.Struct]
	if !ok {
		a.fail(diag.CodeNameError, "undeclared struct %q", n.Struct)
		return ""
	}
	if n.Named {
		seen := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			if seen[f.Name] {
				a.fail(diag.CodeMalformed, "field %q initialized more than once in %q initializer", f.Name, n.Struct)
				return ""
			}
			seen[f.Name] = true
		}
		for _, field := range def.Fields {
			if !seen[field.Name] {
				a.fail(diag.CodeTypeError, "struct %q initializer is missing field %q", n.Struct, field.Name)
				return ""
			}
		}
		for _, f := range n.Fields {
			field := findStructField(def, f.Name)
			if field == nil {
				a.fail(diag.CodeNameError, "struct %q has no field %q", n.Struct, f.Name)
				return ""
			}
			if !a.checkAssignCompatible(f.Value, scope, field.Type, "struct field "+field.Name) {
				return ""
			}
		}
		return n.Struct
	}
	if len(n.Positional) != len(def.Fields) {
		a.fail(diag.CodeTypeError, "struct %q takes %d positional fields, got %d", n.Struct, len(def.Fields), len(n.Positional))
		return ""
	}
	for i, v := range n.Positional {
		if !a.checkAssignCompatible(v, scope, def.Fields[i].Type, "struct field "+def.Fields[i].Name) {
			return ""
		}
	}
	return n.Struct
}

func findStructField(def *ast.StructDef, name string) *ast.StructField {
	for i := range def.Fields {
		if def.Fields[i].Name == name {
			return &def.Fields[i]
		}
	}
	return nil
}

func (a *Analyzer) inferEnumConstruct(n *ast.EnumConstruct, scope *Scope) string {
	def, ok := a.Enums[n.Enum]
	if !ok {
		a.fail(diag.CodeNameError, "undeclared enum %q", n.Enum)
		return ""
	}
	variant := findVariant(def, n.Variant)
	if variant == nil {
		a.fail(diag.CodeNameError, "enum %q has no variant %q", n.Enum, n.Variant)
		return ""
	}
	if len(n.Args) != len(variant.Payload) {
		a.fail(diag.CodeTypeError, "%q::%q takes %d payload values, got %d", n.Enum, n.Variant, len(variant.Payload), len(n.Args))
		return ""
	}
	for i, arg := range n.Args {
		if !a.checkAssignCompatible(arg, scope, variant.Payload[i], "enum payload") {
			return ""
		}
	}
	return n.Enum
}

func (a *Analyzer) inferFieldAccess(n *ast.FieldAccess, scope *Scope) string {
	objType := a.InferType(n.Object, scope)
	if !a.ok() {
		return ""
	}
	def, ok := a.Structs[objType]
	if !ok {
		a.fail(diag.CodeTypeError, "field access on non-struct type %q", objType)
		return ""
	}
	field := findStructField(def, n.Field)
	if field == nil {
		a.fail(diag.CodeNameError, "struct %q has no field %q", objType, n.Field)
		return ""
	}
	return field.Type
}

// ioBuiltins are the sm_std_io_* surface recognized directly by the
// analyzer and emitter, addressable either as `io::name` or `std::io::name`.
const (
	ioPrint  = "print"
	ioPrintl = "println"
	ioReadl  = "readln"
	ioRead   = "read"
)

// stripStdPrefix drops a leading "std" segment so `io::x` and `std::io::x`
// are recognized identically.
func stripStdPrefix(path []string) []string {
	if len(path) > 0 && path[0] == "std" {
		return path[1:]
	}
	return path
}

func isIOCall(path []string, name string) bool {
	p := stripStdPrefix(path)
	return len(p) == 2 && p[0] == "io" && p[1] == name
}

func (a *Analyzer) inferCall(n *ast.CallExpr, scope *Scope) string {
	switch {
	case isIOCall(n.Path, ioPrint), isIOCall(n.Path, ioPrintl):
		return a.checkIOPrint(n, scope)
	case isIOCall(n.Path, ioReadl):
		if len(n.Args) != 0 {
			a.fail(diag.CodeTypeError, "io::readln takes no arguments")
			return ""
		}
		return "str"
	case isIOCall(n.Path, ioRead):
		return a.checkIORead(n, scope)
	}

	if len(n.Path) == 1 {
		return a.checkLocalCall(n, scope)
	}
	return a.checkQualifiedCall(n, scope)
}

// checkIOPrint validates a print call: a single integer or bool argument is
// accepted on its own (the emitter calls its typed printer); otherwise the
// leading argument must be a string (the emitter splits it on `{}` and
// prints the remaining arguments in between), and every remaining argument
// must itself be well-formed.
func (a *Analyzer) checkIOPrint(n *ast.CallExpr, scope *Scope) string {
	if len(n.Args) == 0 {
		a.fail(diag.CodeTypeError, "io::print/println requires a format string argument")
		return ""
	}
	first := a.InferType(n.Args[0], scope)
	if !a.ok() {
		return ""
	}
	if len(n.Args) == 1 && (IsIntegerType(first) || first == "bool") {
		return "void"
	}
	if first != "str" {
		a.fail(diag.CodeTypeError, "io::print/println format argument must be str, got %q", first)
		return ""
	}
	for _, arg := range n.Args[1:] {
		a.InferType(arg, scope)
		if !a.ok() {
			return ""
		}
	}
	return "void"
}

// readableIntTypes are the integer types io::read<T> accepts: every integer
// type except the 128-bit pair, which has no matching scanf conversion.
var readableIntTypes = map[string]bool{
	"i8": true, "u8": true, "i16": true, "u16": true,
	"i32": true, "u32": true, "i64": true, "u64": true,
}

func (a *Analyzer) checkIORead(n *ast.CallExpr, scope *Scope) string {
	if len(n.Args) != 0 {
		a.fail(diag.CodeTypeError, "io::read takes no call arguments, only a type argument")
		return ""
	}
	if len(n.TypeArgs) != 1 {
		a.fail(diag.CodeTypeError, "io::read requires exactly one type argument")
		return ""
	}
	t := n.TypeArgs[0]
	if !readableIntTypes[t] {
		a.fail(diag.CodeTypeError, "io::read<%s> is not supported; T must be an integer type narrower than 128 bits", t)
		return ""
	}
	return t
}

// checkLocalCall implements spec §4.3.5/§9's local-call rule: the callee
// must be declared, the argument count must match (or be >= the declared
// count for a variadic function), and each fixed argument must be
// assignment-compatible with its parameter's declared type. Arguments
// supplied through a varargs tail are only checked for well-formedness,
// since extern varargs parameters carry no declared type to check against.
func (a *Analyzer) checkLocalCall(n *ast.CallExpr, scope *Scope) string {
	name := n.Path[0]
	fn, ok := a.Functions[name]
	if !ok {
		a.fail(diag.CodeNameError, "call to undeclared function %q", name)
		return ""
	}
	if fn.Varargs {
		if len(n.Args) < len(fn.Params) {
			a.fail(diag.CodeTypeError, "function %q is variadic and requires at least %d arguments, got %d", name, len(fn.Params), len(n.Args))
			return ""
		}
	} else if len(n.Args) != len(fn.Params) {
		a.fail(diag.CodeTypeError, "function %q takes %d arguments, got %d", name, len(fn.Params), len(n.Args))
		return ""
	}
	for i, param := range fn.Params {
		if !a.checkAssignCompatible(n.Args[i], scope, param.Type, "argument "+param.Name) {
			return ""
		}
	}
	for _, extra := range n.Args[len(fn.Params):] {
		a.InferType(extra, scope)
		if !a.ok() {
			return ""
		}
	}
	return fn.ReturnType
}

// checkQualifiedCall implements spec §9's open-question resolution: a
// qualified call's leading module path must be imported, accepting either
// the `std::X` or `X` spelling for an import of `std::X`; beyond that, a
// qualified call outside the builtin io surface has no registered
// signature, so it is treated as an opaque foreign symbol typed i64 and its
// arguments are checked only for well-formedness.
func (a *Analyzer) checkQualifiedCall(n *ast.CallExpr, scope *Scope) string {
	prefix := joinPath(n.Path[:len(n.Path)-1])
	if !a.Imports[prefix] && !a.Imports["std::"+prefix] {
		a.fail(diag.CodeNameError, "module %q is not imported", prefix)
		return ""
	}
	for _, arg := range n.Args {
		a.InferType(arg, scope)
		if !a.ok() {
			return ""
		}
	}
	return "i64"
}

// checkAssignCompatible validates assigning expr (whose context is desc,
// used only for diagnostics) to a location of type expectedType, per spec
// §4.3.6/§4.3.7. Literal expressions (including a single leading `-`) are
// bounds-checked directly against expectedType, which is what allows a
// small literal to widen across signedness (`u32 x = 5;`) while still
// rejecting an out-of-range one (`u8 x = 300;`). Non-literal expressions
// fall back to the general identical/widens-to relation.
func (a *Analyzer) checkAssignCompatible(expr ast.Expr, scope *Scope, expectedType, desc string) bool {
	if lit, neg, ok := literalForm(expr); ok {
		return a.checkLiteralBounds(lit, neg, expectedType, desc)
	}
	if b, ok := expr.(*ast.BoolLiteral); ok {
		if expectedType != "bool" {
			a.fail(diag.CodeBoundsError, "boolean literal %t cannot be assigned to non-bool type %q", b.Value, expectedType)
			return false
		}
		return true
	}
	actual := a.InferType(expr, scope)
	if !a.ok() {
		return false
	}
	if actual == expectedType {
		return true
	}
	if CanWiden(actual, expectedType) {
		return true
	}
	a.fail(diag.CodeTypeError, "%s expects type %q, got incompatible type %q", desc, expectedType, actual)
	return false
}

// literalForm recognizes an (optionally negated) integer literal, returning
// its magnitude and sign.
func literalForm(e ast.Expr) (lit *ast.IntLiteral, negative bool, ok bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return n, false, true
	case *ast.UnaryExpr:
		if n.Op == ast.Negate {
			if inner, isLit := n.Operand.(*ast.IntLiteral); isLit {
				return inner, true, true
			}
		}
	}
	return nil, false, false
}

func (a *Analyzer) checkLiteralBounds(lit *ast.IntLiteral, negative bool, expectedType, desc string) bool {
	mag := magnitude(lit)
	if !negative {
		max := MaxOf(expectedType)
		if !IsIntegerType(expectedType) && expectedType != "bool" {
			a.fail(diag.CodeTypeError, "%s expects type %q, got an integer literal", desc, expectedType)
			return false
		}
		if mag.Cmp(max) > 0 {
			a.fail(diag.CodeBoundsError, "integer literal %s exceeds maximum value for type '%s' (maximum: %s)", mag.String(), expectedType, max.String())
			return false
		}
		return true
	}
	if expectedType == "bool" || !IsIntegerType(expectedType) {
		a.fail(diag.CodeBoundsError, "negative integer literal -%s cannot be assigned to type '%s'", mag.String(), expectedType)
		return false
	}
	if !IsSigned(expectedType) {
		a.fail(diag.CodeBoundsError, "negative integer literal -%s cannot be assigned to unsigned type '%s'", mag.String(), expectedType)
		return false
	}
	min := MinSignedMagnitude(BitSize(expectedType))
	if mag.Cmp(min) > 0 {
		a.fail(diag.CodeBoundsError, "integer literal -%s exceeds minimum value for type '%s' (minimum: -%s)", mag.String(), expectedType, min.String())
		return false
	}
	return true
}
