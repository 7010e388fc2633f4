package parser

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
	"github.com/summit-lang/summit/internal/lexer"
)

func (p *Parser) parseStructDef() *ast.StructDef {
	p.expect(lexer.STRUCT)
	name := p.expectIdent()
	p.expect(lexer.LBRACE)
	def := &ast.StructDef{Name: name}
	seen := map[string]bool{}
	for p.ok() && !p.is(lexer.RBRACE) {
		fname := p.expectIdent()
		p.expect(lexer.COLON)
		ftype := p.typeName()
		if seen[fname] {
			p.failf(diag.CodeNameError, "duplicate field %q in struct %q", fname, name)
			return def
		}
		seen[fname] = true
		def.Fields = append(def.Fields, ast.StructField{Name: fname, Type: ftype})
		if p.is(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE)
	if len(def.Fields) == 0 {
		p.failf(diag.CodeMalformed, "struct %q must declare at least one field", name)
	}
	return def
}

func (p *Parser) parseEnumDef() *ast.EnumDef {
	p.expect(lexer.ENUM)
	name := p.expectIdent()
	p.expect(lexer.LBRACE)
	def := &ast.EnumDef{Name: name}
	seen := map[string]bool{}
	for p.ok() && !p.is(lexer.RBRACE) {
		vname := p.expectIdent()
		if seen[vname] {
			p.failf(diag.CodeNameError, "duplicate variant %q in enum %q", vname, name)
			return def
		}
		seen[vname] = true
		variant := ast.EnumVariant{Name: vname}
		if p.is(lexer.LPAREN) {
			p.advance()
			for p.ok() && !p.is(lexer.RPAREN) {
				variant.Payload = append(variant.Payload, p.typeName())
				if p.is(lexer.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		def.Variants = append(def.Variants, variant)
		if p.is(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE)
	if len(def.Variants) == 0 {
		p.failf(diag.CodeMalformed, "enum %q must declare at least one variant", name)
	}
	return def
}

// parseGlobalDecl parses a top-level var/const/comptime declaration.
func (p *Parser) parseGlobalDecl() ast.GlobalDecl {
	kind := p.cur().Type
	p.advance()
	name := p.expectIdent()
	typ := ""
	if p.is(lexer.COLON) {
		p.advance()
		typ = p.typeName()
	}
	p.expect(lexer.ASSIGN)
	init := p.parseExpr()
	p.expect(lexer.SEMI)
	switch kind {
	case lexer.VAR:
		return &ast.GlobalVar{Name: name, Type: typ, Init: init}
	case lexer.CONST:
		return &ast.GlobalConst{Name: name, Type: typ, Init: init}
	default:
		return &ast.GlobalComptime{Name: name, Type: typ, Init: init}
	}
}

// parseLocalDeclStmt parses a var/const/comptime declaration appearing
// inside a statement body.
func (p *Parser) parseLocalDeclStmt() ast.Stmt {
	kind := p.cur().Type
	p.advance()
	name := p.expectIdent()
	typ := ""
	if p.is(lexer.COLON) {
		p.advance()
		typ = p.typeName()
	}
	p.expect(lexer.ASSIGN)
	init := p.parseExpr()
	p.expect(lexer.SEMI)
	switch kind {
	case lexer.VAR:
		return &ast.VarStmt{Name: name, Type: typ, Init: init}
	case lexer.CONST:
		return &ast.ConstStmt{Name: name, Type: typ, Init: init}
	default:
		return &ast.ComptimeStmt{Name: name, Type: typ, Init: init}
	}
}

func (p *Parser) parseParams() ([]ast.Param, bool) {
	p.expect(lexer.LPAREN)
	var params []ast.Param
	varargs := false
	for p.ok() && !p.is(lexer.RPAREN) {
		if p.is(lexer.ELLIPSIS) {
			p.advance()
			varargs = true
			break
		}
		pname := p.expectIdent()
		p.expect(lexer.COLON)
		ptype := p.typeName()
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return params, varargs
}

func (p *Parser) parseFunction(abi string) *ast.Function {
	p.expect(lexer.FUNC)
	name := p.expectIdent()
	params, varargs := p.parseParams()
	ret := "void"
	if p.is(lexer.COLON) {
		p.advance()
		ret = p.typeName()
	}
	fn := &ast.Function{Name: name, Params: params, Varargs: varargs, ReturnType: ret, ABI: abi}
	if abi != "" {
		p.expect(lexer.SEMI)
		return fn
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseExternFunction() *ast.Function {
	p.expect(lexer.EXTERN)
	abiTok := p.expect(lexer.STRING)
	if abiTok.Value == "" && p.ok() {
		p.failf(diag.CodeMalformed, "extern function requires a non-empty ABI tag")
	}
	return p.parseFunction(abiTok.Value)
}
