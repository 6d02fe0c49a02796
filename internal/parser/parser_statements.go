package parser

import (
	"strconv"

	"imperat/internal/ast"
	"imperat/internal/token"
)

// parseBlock parses { declarations instructions }.
// On entry curToken is "{", on success it is the matching "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken, Decls: &ast.Decls{}}

	for isTypeKeyword(p.peekToken.Type) {
		p.nextToken()
		decl := p.parseDecl()
		if decl == nil {
			return nil
		}
		block.Decls.Items = append(block.Decls.Items, decl)
	}

	p.nextToken()
	body := p.parseInstructions()
	if body == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	block.Body = body
	return block
}

func isTypeKeyword(t token.TokenType) bool {
	return t == token.INT || t == token.BOOL || t == token.FUNCTION
}

// parseDecl parses: type id (, id)* ;
func (p *Parser) parseDecl() *ast.Decl {
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	decl := &ast.Decl{Type: typ}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Names = append(decl.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Names = append(decl.Names, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}

// parseType parses int, bool or function[..N].
// For function types the recorded token is the bound, as diagnostics point there.
func (p *Parser) parseType() *ast.TypeNode {
	switch p.curToken.Type {
	case token.INT:
		return &ast.TypeNode{Token: p.curToken, Kind: ast.TypeInt}
	case token.BOOL:
		return &ast.TypeNode{Token: p.curToken, Kind: ast.TypeBool}
	case token.FUNCTION:
		if !p.expectPeek(token.LBRACKET) || !p.expectPeek(token.SOFORTH) || !p.expectPeek(token.NUM) {
			return nil
		}
		boundTok := p.curToken
		bound, err := strconv.ParseInt(boundTok.Literal, 10, 64)
		if err != nil {
			p.addErrorCurrent("could not parse array bound " + strconv.Quote(boundTok.Literal))
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.TypeNode{Token: boundTok, Kind: ast.TypeFunction, Bound: bound}
	default:
		p.unexpected(p.curToken)
		return nil
	}
}

// parseInstructions parses instr (; instr)* into left-nested Sequencing nodes.
func (p *Parser) parseInstructions() ast.Statement {
	left := p.parseInstruction()
	if left == nil {
		return nil
	}
	for p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		p.nextToken()
		right := p.parseInstruction()
		if right == nil {
			return nil
		}
		left = &ast.Sequencing{Left: left, Right: right}
	}
	return left
}

// parseInstruction dispatches to specific statement parsers based on token type
func (p *Parser) parseInstruction() ast.Statement {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseAssign()
	case token.PRINT:
		stmt := &ast.Print{Token: p.curToken}
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
		return stmt
	case token.SKIP:
		return &ast.Skip{Token: p.curToken}
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	default:
		p.unexpected(p.curToken)
		return nil
	}
}

func (p *Parser) parseAssign() ast.Statement {
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	stmt := &ast.Assign{Token: p.curToken, Name: name}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

// parseIf parses: if cond --> instrs ([] cond --> instrs)* fi
func (p *Parser) parseIf() ast.Statement {
	stmt := &ast.If{Token: p.curToken}
	for {
		p.nextToken()
		guard := p.parseGuard()
		if guard == nil {
			return nil
		}
		stmt.Guards = append(stmt.Guards, guard)
		if p.peekTokenIs(token.GUARD) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.FI) {
			return nil
		}
		return stmt
	}
}

func (p *Parser) parseGuard() *ast.Guard {
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	body := p.parseInstructions()
	if body == nil {
		return nil
	}
	return &ast.Guard{Cond: cond, Body: body}
}

// parseWhile parses: while cond --> instrs end
func (p *Parser) parseWhile() ast.Statement {
	stmt := &ast.While{Token: p.curToken}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseInstructions()
	if stmt.Body == nil {
		return nil
	}
	if !p.expectPeek(token.END) {
		return nil
	}
	return stmt
}
