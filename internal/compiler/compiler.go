// Package compiler glues the lexer, parser, semantic analyzer, and code
// generator into the single pure pipeline the rest of the toolchain calls.
package compiler

import (
	"github.com/summit-lang/summit/internal/codegen"
	"github.com/summit-lang/summit/internal/parser"
	"github.com/summit-lang/summit/internal/types"
)

// Compile lowers Summit source to C, running the lexer, parser, and
// semantic analyzer in sequence and halting at the first diagnostic any of
// them report. It is single-threaded and synchronous: every side table
// (scopes, struct/enum registries, stdlib-usage set) is scoped to this one
// call and discarded on return. Output targets the hosted build mode; use
// CompileMode to select freestanding.
func Compile(source string) (string, error) {
	return CompileMode(source, false)
}

// CompileMode is Compile with an explicit choice of entry-point convention:
// freestanding emits `_start` and expects the freestanding runtime support
// object; hosted relies on a conventional `int main(void)`.
func CompileMode(source string, freestanding bool) (string, error) {
	prog, d := parser.Parse(source)
	if d != nil {
		return "", d
	}

	analyzer, d := types.Analyze(prog)
	if d != nil {
		return "", d
	}

	out, err := codegen.Emit(prog, analyzer, freestanding)
	if err != nil {
		return "", err
	}
	return out, nil
}
