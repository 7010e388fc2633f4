package parser

import (
	"math/big"

	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
	"github.com/summit-lang/summit/internal/lexer"
)

func (p *Parser) parseExpr() ast.Expr {
	return p.parseTernary()
}

// parseExprAllowStruct parses a nested expression (parenthesized, a call
// argument, a struct-initializer field value) where struct initializers are
// always legal again, even if the enclosing expression suppressed them for
// a control-clause condition.
func (p *Parser) parseExprAllowStruct() ast.Expr {
	prev := p.noStruct
	p.noStruct = false
	e := p.parseExpr()
	p.noStruct = prev
	return e
}

// parseTernary is the lowest-precedence level: `cond ? then : else`.
func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseWhenLevel()
	if p.is(lexer.QUESTION) {
		p.advance()
		then := p.parseExpr()
		p.expect(lexer.COLON)
		els := p.parseExpr()
		return &ast.IfExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

// parseWhenLevel recognizes a `when`-expression, falling through to the
// `if`-expression level otherwise.
func (p *Parser) parseWhenLevel() ast.Expr {
	if p.is(lexer.WHEN) {
		return p.parseWhenExpr()
	}
	return p.parseIfLevel()
}

// parseIfLevel recognizes an `if cond { a } else { b }` expression, falling
// through to boolean-or otherwise.
func (p *Parser) parseIfLevel() ast.Expr {
	if p.is(lexer.IF) {
		p.advance()
		cond := p.parseExprNoStruct()
		p.expect(lexer.LBRACE)
		then := p.parseExpr()
		p.expect(lexer.RBRACE)
		p.expect(lexer.ELSE)
		p.expect(lexer.LBRACE)
		els := p.parseExpr()
		p.expect(lexer.RBRACE)
		return &ast.IfExpr{Cond: cond, Then: then, Else: els}
	}
	return p.parseOr()
}

func (p *Parser) parseWhenExpr() ast.Expr {
	p.expect(lexer.WHEN)
	value := p.parseExprNoStruct()
	p.expect(lexer.LBRACE)
	we := &ast.WhenExpr{Value: value}
	for p.ok() && p.is(lexer.IS) {
		p.advance()
		pat := p.parseWhenPattern()
		p.expect(lexer.ARROW)
		result := p.parseExpr()
		we.Cases = append(we.Cases, ast.WhenExprCase{Pattern: pat, Result: result})
		if p.is(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.ELSE)
	p.expect(lexer.ARROW)
	we.Else = p.parseExpr()
	if p.is(lexer.COMMA) {
		p.advance()
	}
	p.expect(lexer.RBRACE)
	return we
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.ok() && p.is(lexer.OR) {
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: ast.Or, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.ok() && p.is(lexer.AND) {
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Op: ast.And, Left: left, Right: right}
	}
	return left
}

var comparisonOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.EQ:  ast.Eq,
	lexer.NEQ: ast.Ne,
	lexer.LT:  ast.Lt,
	lexer.GT:  ast.Gt,
	lexer.LE:  ast.Le,
	lexer.GE:  ast.Ge,
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.ok() {
		op, isCmp := comparisonOps[p.cur().Type]
		if !isCmp {
			break
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.ok() && (p.is(lexer.PLUS) || p.is(lexer.MINUS)) {
		op := ast.Add
		if p.cur().Type == lexer.MINUS {
			op = ast.Sub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.ok() {
		var op ast.BinaryOp
		switch p.cur().Type {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		case lexer.PERCENT:
			op = ast.Mod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Type {
	case lexer.MINUS:
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.Negate, Operand: operand}
	case lexer.NOT:
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: ast.Not, Operand: operand}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by zero or more `.field`
// accesses.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for p.ok() && p.is(lexer.DOT) {
		p.advance()
		field := p.expectIdent()
		expr = &ast.FieldAccess{Object: expr, Field: field}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur().Type {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.STRING:
		tok := p.advance()
		return &ast.StringLiteral{Value: tok.Value}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false}
	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{}
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExprAllowStruct()
		p.expect(lexer.RPAREN)
		return inner
	case lexer.IDENT:
		return p.parseIdentHeadedPrimary()
	default:
		p.failf(diag.CodeUnexpectedToken, "unexpected token %q in expression", p.cur().Type)
		return &ast.NullLiteral{}
	}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.advance()
	magnitude, _ := new(big.Int).SetString(tok.Value, 10)
	if magnitude == nil {
		magnitude = new(big.Int)
	}
	mask64 := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(magnitude, mask64).Uint64()
	hi := new(big.Int).Rsh(magnitude, 64).Uint64()
	return &ast.IntLiteral{Hi: hi, Lo: lo}
}

// parseIdentHeadedPrimary parses any of: a plain variable, a struct
// initializer `Name { ... }`, an enum construction `Enum::Variant(args)`, or
// a qualified/local call `mod::sub::fn<T>(args)`. Capitalization of the
// leading path segment distinguishes type-headed forms (struct/enum) from
// module- or function-headed forms, matching the source convention that
// struct and enum names are capitalized while module and function names are
// not.
func (p *Parser) parseIdentHeadedPrimary() ast.Expr {
	first := p.advance()
	path := []string{first.Literal}
	for p.ok() && p.is(lexer.DCOLON) {
		p.advance()
		path = append(path, p.expectIdent())
	}

	if len(path) == 1 && isCapitalized(path[0]) && p.is(lexer.LBRACE) && !p.noStruct {
		return p.parseStructInit(path[0])
	}

	typeArgs := p.tryParseTypeArgs()

	if len(path) >= 2 && isCapitalized(path[0]) && len(path) == 2 && p.is(lexer.LPAREN) {
		args := p.parseCallArgs()
		return &ast.EnumConstruct{Enum: path[0], Variant: path[1], Args: args}
	}

	if p.is(lexer.LPAREN) {
		args := p.parseCallArgs()
		return &ast.CallExpr{Path: path, TypeArgs: typeArgs, Args: args}
	}

	if len(path) > 1 {
		p.failf(diag.CodeUnexpectedToken, "expected '(' after qualified path %v", path)
		return &ast.NullLiteral{}
	}
	return &ast.VarRef{Name: path[0]}
}

func (p *Parser) parseCallArgs() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.ok() && !p.is(lexer.RPAREN) {
		args = append(args, p.parseExprAllowStruct())
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}

// tryParseTypeArgs recognizes the fixed lookahead pattern `< type >` only
// when it is immediately followed by `(`, so a bare `x < y` comparison is
// never mistaken for a generic call.
func (p *Parser) tryParseTypeArgs() []string {
	if !p.is(lexer.LT) {
		return nil
	}
	save := p.pos
	p.advance()
	var args []string
	for {
		if lexer.IsTypeName(p.cur().Type) || p.cur().Type == lexer.IDENT {
			args = append(args, p.typeName())
		} else {
			p.pos = save
			return nil
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.is(lexer.GT) {
		p.pos = save
		return nil
	}
	p.advance()
	if !p.is(lexer.LPAREN) {
		p.pos = save
		return nil
	}
	return args
}

func (p *Parser) parseStructInit(name string) ast.Expr {
	p.expect(lexer.LBRACE)
	init := &ast.StructInit{Struct: name}
	modeDecided := false
	for p.ok() && !p.is(lexer.RBRACE) {
		named := p.is(lexer.IDENT) && p.at(1).Type == lexer.COLON
		if !modeDecided {
			init.Named = named
			modeDecided = true
		} else if named != init.Named {
			p.failf(diag.CodeMalformed, "struct initializer for %q mixes positional and named fields", name)
			return init
		}
		if named {
			fname := p.expectIdent()
			p.expect(lexer.COLON)
			val := p.parseExprAllowStruct()
			init.Fields = append(init.Fields, ast.StructFieldInit{Name: fname, Value: val})
		} else {
			init.Positional = append(init.Positional, p.parseExprAllowStruct())
		}
		if p.is(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE)
	return init
}
