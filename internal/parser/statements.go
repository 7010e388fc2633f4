package parser

import (
	"github.com/summit-lang/summit/internal/ast"
	"github.com/summit-lang/summit/internal/diag"
	"github.com/summit-lang/summit/internal/lexer"
)

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(lexer.LBRACE)
	var stmts []ast.Stmt
	for p.ok() && !p.is(lexer.RBRACE) && !p.is(lexer.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(lexer.RBRACE)
	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Type {
	case lexer.VAR, lexer.CONST, lexer.COMPTIME:
		return p.parseLocalDeclStmt()
	case lexer.RET:
		return p.parseReturn()
	case lexer.NEXT:
		p.advance()
		p.expect(lexer.SEMI)
		return &ast.NextStmt{}
	case lexer.STOP:
		p.advance()
		p.expect(lexer.SEMI)
		return &ast.StopStmt{}
	case lexer.FALLTHROUGH:
		p.advance()
		p.expect(lexer.SEMI)
		return &ast.FallthroughStmt{}
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.WHEN:
		return p.parseWhenStmt()
	case lexer.EXPECT:
		return p.parseExpectStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseReturn() ast.Stmt {
	p.expect(lexer.RET)
	if p.is(lexer.SEMI) {
		p.advance()
		return &ast.ReturnStmt{}
	}
	val := p.parseExpr()
	p.expect(lexer.SEMI)
	return &ast.ReturnStmt{Value: val}
}

// parseAssignOrExprStmt disambiguates `name = expr;`, `obj.f1.f2 = expr;`,
// and a bare expression statement by parsing a full expression first, then
// checking for a trailing `=`.
func (p *Parser) parseAssignOrExprStmt() ast.Stmt {
	expr := p.parseExpr()
	if p.is(lexer.ASSIGN) {
		p.advance()
		value := p.parseExpr()
		p.expect(lexer.SEMI)
		return p.toAssignment(expr, value)
	}
	p.expect(lexer.SEMI)
	return &ast.ExprStmt{Value: expr}
}

// toAssignment converts an already-parsed lvalue expression into an
// AssignStmt or FieldAssignStmt.
func (p *Parser) toAssignment(target ast.Expr, value ast.Expr) ast.Stmt {
	switch t := target.(type) {
	case *ast.VarRef:
		return &ast.AssignStmt{Name: t.Name, Value: value}
	case *ast.FieldAccess:
		root, path := flattenFieldAccess(t)
		return &ast.FieldAssignStmt{Object: root, Path: path, Value: value}
	default:
		p.failf(diag.CodeMalformed, "left-hand side of assignment is not assignable")
		return &ast.ExprStmt{Value: target}
	}
}

// flattenFieldAccess turns a right-nested chain of FieldAccess nodes into
// its root expression and an ordered dotted field path.
func flattenFieldAccess(fa *ast.FieldAccess) (ast.Expr, []string) {
	var path []string
	var cur ast.Expr = fa
	for {
		f, ok := cur.(*ast.FieldAccess)
		if !ok {
			break
		}
		path = append([]string{f.Field}, path...)
		cur = f.Object
	}
	return cur, path
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	p.expect(lexer.IF)
	cond := p.parseExprNoStruct()
	then := p.parseBlock()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	for p.ok() && p.is(lexer.ELSEIF) {
		p.advance()
		c := p.parseExprNoStruct()
		b := p.parseBlock()
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIf{Cond: c, Body: b})
	}
	if p.ok() && p.is(lexer.ELSE) {
		p.advance()
		stmt.Else = p.parseBlock()
		stmt.HasElse = true
	}
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	p.expect(lexer.WHILE)
	cond := p.parseExprNoStruct()
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	p.expect(lexer.FOR)
	v := p.expectIdent()
	p.expect(lexer.IN)
	start := p.parseExprNoStruct()
	inclusive := false
	switch p.cur().Type {
	case lexer.TO:
		p.advance()
	case lexer.THROUGH:
		p.advance()
		inclusive = true
	default:
		p.failf(diag.CodeUnexpectedToken, "expected 'to' or 'through' in for-loop range, found %q", p.cur().Type)
	}
	end := p.parseExprNoStruct()
	stmt := &ast.ForStmt{Var: v, Start: start, End: end, Inclusive: inclusive}
	if p.is(lexer.BY) {
		p.advance()
		stmt.Step = p.parseExprNoStruct()
	}
	if p.is(lexer.WHERE) {
		p.advance()
		stmt.Filter = p.parseExprNoStruct()
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseWhenStmt() *ast.WhenStmt {
	p.expect(lexer.WHEN)
	value := p.parseExprNoStruct()
	p.expect(lexer.LBRACE)
	stmt := &ast.WhenStmt{Value: value}
	for p.ok() && p.is(lexer.IS) {
		p.advance()
		pat := p.parseWhenPattern()
		p.expect(lexer.ARROW)
		body := p.parseBlock()
		wc := ast.WhenCase{Pattern: pat, Body: body}
		for _, s := range body {
			if _, isFt := s.(*ast.FallthroughStmt); isFt {
				wc.Fallthrough = true
			}
		}
		stmt.Cases = append(stmt.Cases, wc)
	}
	if p.ok() && p.is(lexer.ELSE) {
		p.advance()
		p.expect(lexer.ARROW)
		stmt.Else = p.parseBlock()
		stmt.HasElse = true
	}
	p.expect(lexer.RBRACE)
	return stmt
}

func (p *Parser) parseExpectStmt() *ast.ExpectStmt {
	p.expect(lexer.EXPECT)
	cond := p.parseExprNoStruct()
	stmt := &ast.ExpectStmt{Cond: cond}
	if p.is(lexer.IS) {
		p.advance()
		stmt.Pattern = p.parseExpectPattern()
	}
	p.expect(lexer.ELSE)
	stmt.Else = p.parseBlock()
	return stmt
}

// parseExprNoStruct parses an expression in a context immediately followed
// by a block, suppressing bare `Name { ... }` struct-initializer parsing so
// the opening brace is read as the block delimiter instead.
func (p *Parser) parseExprNoStruct() ast.Expr {
	prev := p.noStruct
	p.noStruct = true
	e := p.parseExpr()
	p.noStruct = prev
	return e
}
