// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a Summit token stream into an *ast.Program.
package parser

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
	"github.com/summit-lang/summit/internal/lexer"
)

// Parser consumes a pre-scanned token slice with up to three tokens of
// lookahead, used only to disambiguate a generic call's type argument list
// from a less-than comparison.
type Parser struct {
	toks []lexer.Token
	pos  int
	err  *diag.Diagnostic

	// noStruct suppresses struct-initializer parsing of a bare `Name { ... }`
	// primary while parsing a condition that is itself followed by a block,
	// e.g. `if cond { ... }`, exactly as Go suppresses composite literals in
	// control-clause conditions.
	noStruct bool
}

// Parse tokenizes and parses a complete Summit source file.
func Parse(source string) (*ast.Program, *diag.Diagnostic) {
	toks, lexErr := lexer.Tokenize(source)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &Parser{toks: toks}
	prog := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) at(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) || idx < 0 {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) is(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

func (p *Parser) failf(code diag.Code, format string, args ...any) {
	if p.err == nil {
		p.err = diag.New(diag.StageParser, code, format, args...)
	}
}

func (p *Parser) ok() bool { return p.err == nil }

// expect consumes the current token if it matches tt, else records a parse
// error and returns the zero Token.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if !p.ok() {
		return lexer.Token{}
	}
	if p.cur().Type != tt {
		p.failf(diag.CodeMissingToken, "expected %q but found %q", tt, p.cur().Type)
		return lexer.Token{}
	}
	return p.advance()
}

// expectIdent consumes an IDENT token, recording a parse error otherwise.
func (p *Parser) expectIdent() string {
	tok := p.expect(lexer.IDENT)
	return tok.Literal
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.ok() && !p.is(lexer.EOF) {
		switch p.cur().Type {
		case lexer.IMPORT:
			prog.Imports = append(prog.Imports, p.parseImport())
		case lexer.STRUCT:
			prog.Globals = append(prog.Globals, &ast.GlobalStruct{Def: p.parseStructDef()})
		case lexer.ENUM:
			prog.Globals = append(prog.Globals, &ast.GlobalEnum{Def: p.parseEnumDef()})
		case lexer.VAR, lexer.CONST, lexer.COMPTIME:
			prog.Globals = append(prog.Globals, p.parseGlobalDecl())
		case lexer.FUNC:
			prog.Functions = append(prog.Functions, p.parseFunction(""))
		case lexer.EXTERN:
			prog.Functions = append(prog.Functions, p.parseExternFunction())
		default:
			prog.Statements = append(prog.Statements, p.parseStatement())
		}
	}
	if !p.ok() {
		return nil
	}
	return prog
}

func (p *Parser) parseImport() *ast.Import {
	p.expect(lexer.IMPORT)
	var path []string
	path = append(path, p.expectIdent())
	for p.ok() && p.is(lexer.DCOLON) {
		p.advance()
		path = append(path, p.expectIdent())
	}
	p.expect(lexer.SEMI)
	return &ast.Import{Path: path}
}

// typeName parses a single type-name token: either one of the fixed
// built-in type keywords or a user-defined struct/enum identifier.
func (p *Parser) typeName() string {
	tok := p.cur()
	if lexer.IsTypeName(tok.Type) {
		p.advance()
		return string(tok.Type)
	}
	if tok.Type == lexer.IDENT {
		p.advance()
		return tok.Literal
	}
	p.failf(diag.CodeUnexpectedToken, "expected a type name but found %q", tok.Type)
	return ""
}
