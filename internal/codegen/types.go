package codegen

import (
	"fmt"
	"strings"

	"github.com/summit-lang/summit/internal/ast"
)

// cType implements spec §4.4.1's type mapping for an ordinary (non-extern)
// use: scalars to their fixed-width C equivalents, and every other name,
// struct and enum names included, to itself unchanged. An unrecognized
// name is passed through as written; it is not mapped to int64_t.
func cType(name string) string {
	switch name {
	case "bool":
		return "bool"
	case "i8":
		return "int8_t"
	case "i16":
		return "int16_t"
	case "i32":
		return "int32_t"
	case "i64":
		return "int64_t"
	case "i128":
		return "__int128"
	case "u8":
		return "uint8_t"
	case "u16":
		return "uint16_t"
	case "u32":
		return "uint32_t"
	case "u64":
		return "uint64_t"
	case "u128":
		return "unsigned __int128"
	case "void":
		return "void"
	case "void*", "null":
		return "void*"
	case "str":
		return "const char*"
	default:
		return name
	}
}

// cExternType implements the "C-ABI compatibility" adjustment spec §4.4.1
// requires of an `extern` function's signature: str maps to a plain
// (non-const) char*, bool maps to plain int, everything else is unchanged.
func cExternType(name string) string {
	switch name {
	case "str":
		return "char*"
	case "bool":
		return "int"
	default:
		return cType(name)
	}
}

// emitTypes implements spec §4.4.3: enums first (as a tag enum plus a
// tagged-union struct), in their declaration order, then structs, in their
// declaration order, as plain typedef'd structs.
func (e *Emitter) emitTypes(prog *ast.Program) {
	for _, g := range prog.Globals {
		if ge, ok := g.(*ast.GlobalEnum); ok {
			e.emitEnum(ge.Def)
		}
	}
	for _, g := range prog.Globals {
		if gs, ok := g.(*ast.GlobalStruct); ok {
			e.emitStruct(gs.Def)
		}
	}
}

func (e *Emitter) emitEnum(def *ast.EnumDef) {
	w := e.out
	w.line("typedef enum {")
	w.push()
	for _, v := range def.Variants {
		w.line(fmt.Sprintf("%s_%s,", def.Name, v.Name))
	}
	w.pop()
	w.line(fmt.Sprintf("} %s_Tag;", def.Name))
	w.blank()

	w.line(fmt.Sprintf("typedef struct %s {", def.Name))
	w.push()
	w.line(fmt.Sprintf("%s_Tag tag;", def.Name))

	hasPayload := false
	for _, v := range def.Variants {
		if len(v.Payload) > 0 {
			hasPayload = true
			break
		}
	}
	if hasPayload {
		w.line("union {")
		w.push()
		for _, v := range def.Variants {
			switch len(v.Payload) {
			case 0:
				// No payload: contributes no union member.
			case 1:
				w.line(fmt.Sprintf("%s %s;", cType(v.Payload[0]), strings.ToLower(v.Name)))
			default:
				w.line("struct {")
				w.push()
				for i, t := range v.Payload {
					w.line(fmt.Sprintf("%s _%d;", cType(t), i))
				}
				w.pop()
				w.line(fmt.Sprintf("} %s;", strings.ToLower(v.Name)))
			}
		}
		w.pop()
		w.line("} data;")
	}
	w.pop()
	w.line(fmt.Sprintf("} %s;", def.Name))
	w.blank()
}

func (e *Emitter) emitStruct(def *ast.StructDef) {
	w := e.out
	w.line(fmt.Sprintf("typedef struct %s {", def.Name))
	w.push()
	for _, f := range def.Fields {
		w.line(fmt.Sprintf("%s %s;", cType(f.Type), f.Name))
	}
	w.pop()
	w.line(fmt.Sprintf("} %s;", def.Name))
	w.blank()
}
