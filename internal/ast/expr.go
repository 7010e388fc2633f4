package ast

// IntLiteral is an integer literal carried as a 128-bit unsigned magnitude;
// a preceding unary Negate (see UnaryExpr) supplies the sign.
type IntLiteral struct {
	// Hi/Lo together hold the 128-bit magnitude: value = Hi<<64 | Lo.
	Hi uint64
	Lo uint64
}

func (*IntLiteral) exprNode() {}

// StringLiteral is a string literal with escapes already decoded.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode() {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value bool
}

func (*BoolLiteral) exprNode() {}

// NullLiteral is the `null` literal, typed `void*`.
type NullLiteral struct{}

func (*NullLiteral) exprNode() {}

// VarRef is a reference to a variable, parameter, or global by name.
type VarRef struct {
	Name string
}

func (*VarRef) exprNode() {}

// CallExpr is a function call, optionally qualified by a module path and
// carrying at most the generic type arguments `io::read<T>()` needs.
type CallExpr struct {
	Path     []string // e.g. ["io","println"] or ["f"]
	TypeArgs []string
	Args     []Expr
}

func (*CallExpr) exprNode() {}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr applies a unary operator to one operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// IfExpr is the ternary `cond ? then : else`.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*IfExpr) exprNode() {}

// WhenExpr is the expression form of `when value { is p -> e, ..., else -> e }`.
type WhenExprCase struct {
	Pattern WhenPattern
	Result  Expr
}

type WhenExpr struct {
	Value Expr
	Cases []WhenExprCase
	Else  Expr
}

func (*WhenExpr) exprNode() {}

// StructFieldInit is one field of a named struct initializer.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructInit constructs a struct value, either by named fields (Named=true,
// Fields populated) or by positional fields (Named=false, Positional
// populated in declaration order).
type StructInit struct {
	Struct     string
	Named      bool
	Fields     []StructFieldInit
	Positional []Expr
}

func (*StructInit) exprNode() {}

// FieldAccess is a (possibly chained) `.field` access, e.g. `a.b.c`.
type FieldAccess struct {
	Object Expr
	Field  string
}

func (*FieldAccess) exprNode() {}

// EnumConstruct constructs an enum value via `Enum::Variant(args...)`.
type EnumConstruct struct {
	Enum    string
	Variant string
	Args    []Expr
}

func (*EnumConstruct) exprNode() {}
