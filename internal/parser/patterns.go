package parser

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/lexer"
)

// isEnumPatternHead reports whether the upcoming tokens look like
// `Enum::Variant`, the only pattern shape that binds new names rather than
// evaluating an expression. Enum and struct type names are conventionally
// capitalized in Summit source, the same convention that lets the
// expression parser tell `Name { ... }` struct initializers and
// `Enum::Variant(...)` constructions apart from lowercase module-qualified
// calls (see parseIdentHeadedPrimary).
func (p *Parser) isEnumPatternHead() bool {
	return p.cur().Type == lexer.IDENT && isCapitalized(p.cur().Literal) && p.at(1).Type == lexer.DCOLON
}

func (p *Parser) parseWhenPattern() ast.WhenPattern {
	if p.isEnumPatternHead() {
		enum := p.advance().Literal
		p.expect(lexer.DCOLON)
		variant := p.expectIdent()
		var bindings []string
		if p.is(lexer.LPAREN) {
			p.advance()
			for p.ok() && !p.is(lexer.RPAREN) {
				bindings = append(bindings, p.expectIdent())
				if p.is(lexer.COMMA) {
					p.advance()
					continue
				}
				break
			}
			p.expect(lexer.RPAREN)
		}
		return &ast.EnumVariantPattern{Enum: enum, Variant: variant, Bindings: bindings}
	}
	start := p.parseExpr()
	switch p.cur().Type {
	case lexer.TO:
		p.advance()
		end := p.parseExpr()
		return &ast.RangePattern{Start: start, End: end, Inclusive: false}
	case lexer.THROUGH:
		p.advance()
		end := p.parseExpr()
		return &ast.RangePattern{Start: start, End: end, Inclusive: true}
	default:
		return &ast.SinglePattern{Value: start}
	}
}

func (p *Parser) parseExpectPattern() ast.ExpectPattern {
	start := p.parseExpr()
	switch p.cur().Type {
	case lexer.TO:
		p.advance()
		end := p.parseExpr()
		return &ast.ExpectRangePattern{Start: start, End: end, Inclusive: false}
	case lexer.THROUGH:
		p.advance()
		end := p.parseExpr()
		return &ast.ExpectRangePattern{Start: start, End: end, Inclusive: true}
	default:
		return &ast.ExpectSinglePattern{Value: start}
	}
}

func isCapitalized(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}
