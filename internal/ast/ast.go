// Package ast defines the typed, token-free abstract syntax tree produced by
// the parser and consumed by the semantic analyzer and code generator.
//
// Nodes are closed tagged variants: every sum type (Expr, Stmt,
// GlobalDecl, WhenPattern, ExpectPattern) is implemented by a fixed set of
// concrete struct types carrying an unexported marker method, so walkers can
// rely on exhaustive type switches instead of virtual dispatch.
package ast

// Expr is any expression node.
type Expr interface {
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
}

// GlobalDecl is any top-level declaration: var/const/comptime, struct, enum.
type GlobalDecl interface {
	globalDeclNode()
}

// Program is the root of a parsed compilation unit.
type Program struct {
	Imports     []*Import
	Globals     []GlobalDecl
	Statements  []Stmt
	Functions   []*Function
}

// Import is an ordered path of name segments, e.g. `std::io` -> ["std","io"].
type Import struct {
	Path []string
}

// Param is a function parameter: a name paired with its declared type name.
type Param struct {
	Name string
	Type string
}

// Function is a top-level function declaration. A non-empty ABI marks an
// external function, which carries no Body.
type Function struct {
	Name       string
	Params     []Param
	Varargs    bool
	ReturnType string
	ABI        string
	Body       []Stmt
}

// IsExternal reports whether the function is an `extern "ABI" func` with no
// body of its own.
func (f *Function) IsExternal() bool { return f.ABI != "" }

// StructDef is a struct type declaration: a name plus ordered, uniquely
// named fields.
type StructDef struct {
	Name   string
	Fields []StructField
}

// StructField pairs a field name with its declared type name.
type StructField struct {
	Name string
	Type string
}

// EnumDef is an enum type declaration: a name plus ordered variants.
type EnumDef struct {
	Name     string
	Variants []EnumVariant
}

// EnumVariant is one case of an enum, with an optional ordered payload type
// list (nil/empty means no payload).
type EnumVariant struct {
	Name    string
	Payload []string
}
