package ast

// GlobalVar is a mutable top-level `var` declaration.
type GlobalVar struct {
	Name string
	Type string // may be empty: inferred
	Init Expr
}

func (*GlobalVar) globalDeclNode() {}

// GlobalConst is an immutable top-level `const` declaration.
type GlobalConst struct {
	Name string
	Type string
	Init Expr
}

func (*GlobalConst) globalDeclNode() {}

// GlobalComptime is an immutable top-level `comptime` declaration whose
// initializer must be a compile-time constant.
type GlobalComptime struct {
	Name string
	Type string
	Init Expr
}

func (*GlobalComptime) globalDeclNode() {}

// GlobalStruct wraps a struct type declaration as a global declaration.
type GlobalStruct struct {
	Def *StructDef
}

func (*GlobalStruct) globalDeclNode() {}

// GlobalEnum wraps an enum type declaration as a global declaration.
type GlobalEnum struct {
	Def *EnumDef
}

func (*GlobalEnum) globalDeclNode() {}
