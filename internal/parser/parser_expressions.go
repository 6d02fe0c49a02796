package parser

import (
	"strconv"

	"imperat/internal/ast"
	"imperat/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	// First, find a prefix parser for current token
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	// While next token is an infix operator with higher precedence than ours,
	// consume it and build the expression tree
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// parseIdentifier parses a variable name
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral parses a number
func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addErrorCurrent("could not parse " + strconv.Quote(p.curToken.Literal) + " as integer")
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parsePrefixExpression parses !x and -x. ! binds tighter than anything,
// unary minus tighter than arithmetic but looser than array reads.
func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: ast.OpNot}
	precedence := NOT
	if p.curTokenIs(token.MINUS) {
		expr.Operator = ast.OpMinus
		precedence = NEGATE
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseInfixExpression parses binary operators. All of them are left
// associative except comparisons, which do not chain.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: infixOperators[p.curToken.Type],
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	if precedence == COMPARE && p.peekPrecedence() == COMPARE {
		p.unexpected(p.peekToken)
		return nil
	}
	return expr
}

// parseIndexExpression parses a.i (or a@i)
func (p *Parser) parseIndexExpression(function ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Function: function}
	p.nextToken()
	expr.Index = p.parseExpression(READ)
	if expr.Index == nil {
		return nil
	}
	return expr
}

// parseWriteExpression parses a(i:v) and a(i:v, j:w)
func (p *Parser) parseWriteExpression(function ast.Expression) ast.Expression {
	expr := &ast.WriteExpression{Token: p.curToken, Function: function}
	for {
		p.nextToken()
		index := p.parseExpression(COMMA)
		if index == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(COMMA)
		if value == nil {
			return nil
		}
		expr.Elems = append(expr.Elems, &ast.WritePair{Index: index, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return expr
	}
}

// parseModifyExpression parses a[i:v]
func (p *Parser) parseModifyExpression(function ast.Expression) ast.Expression {
	expr := &ast.ModifyExpression{Token: p.curToken, Function: function}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	expr.Value = p.parseExpression(LOWEST)
	if expr.Value == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}
