package parser

import (
	"fmt"
	"strings"

	"imperat/internal/ast"
	"imperat/internal/diag"
	"imperat/internal/lexer"
	"imperat/internal/token"
)

// precedence levels (lowest to highest)
// These determine operator binding: 5 + 3 * 2 parses as 5 + (3 * 2) because * has higher precedence
const (
	_ int = iota // Start at 0, ignore this
	LOWEST
	COMMA       // 1, 2, 3
	LOGICOR     // or
	LOGICAND    // and
	COMPARE     // < <= > >= == <>
	SUM         // + -
	PRODUCT     // *
	NEGATE      // -X
	READ        // a.1
	WRITE       // a(i:v) or a[i:v]
	NOT         // !X
)

// precedence table maps token types to their precedence level
var precedences = map[token.TokenType]int{
	token.COMMA:    COMMA,
	token.OR:       LOGICOR,
	token.AND:      LOGICAND,
	token.LT:       COMPARE,
	token.LEQ:      COMPARE,
	token.GT:       COMPARE,
	token.GEQ:      COMPARE,
	token.EQ:       COMPARE,
	token.NOT_EQ:   COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.APP:      READ,
	token.LPAREN:   WRITE,
	token.LBRACKET: WRITE,
}

var infixOperators = map[token.TokenType]ast.Operator{
	token.COMMA:    ast.OpComma,
	token.OR:       ast.OpOr,
	token.AND:      ast.OpAnd,
	token.LT:       ast.OpLess,
	token.LEQ:      ast.OpLeq,
	token.GT:       ast.OpGreater,
	token.GEQ:      ast.OpGeq,
	token.EQ:       ast.OpEqual,
	token.NOT_EQ:   ast.OpNotEqual,
	token.PLUS:     ast.OpPlus,
	token.MINUS:    ast.OpMinus,
	token.ASTERISK: ast.OpMult,
}

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token // Current token under examination
	peekToken token.Token // Next Token (for look-ahead)

	errors []*diag.CodeError

	// Pratt parser tables
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// prefixParseFn parses expressions that start with a specific token
// Example: -5, !true, 42, x
type prefixParseFn func() ast.Expression

// infixParseFn parses expressions where the operator is between operands
// Example: 5 + 3, a.2
type infixParseFn func(ast.Expression) ast.Expression

// New creates a new parser for the given lexer. The whole input is
// tokenized up front so lexical errors are reported before syntax errors.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{}
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			p.lexicalError(tok)
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUM, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	for tt := range infixOperators {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.APP, p.parseIndexExpression)
	p.registerInfix(token.LPAREN, p.parseWriteExpression)
	p.registerInfix(token.LBRACKET, p.parseModifyExpression)

	// Read two tokens to set curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// registerPrefix adds a prefix parser for a token type
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix adds an infix parser for a token type
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances to the next token; EOF repeats forever
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	}
}

// Errors returns accumulated parse errors as plain messages
func (p *Parser) Errors() []string {
	out := make([]string, 0, len(p.errors))
	for _, err := range p.errors {
		out = append(out, err.Message)
	}
	return out
}

// DetailedErrors returns accumulated parse errors with their positions
func (p *Parser) DetailedErrors() []*diag.CodeError {
	out := make([]*diag.CodeError, len(p.errors))
	copy(out, p.errors)
	return out
}

// Err returns the first error, or nil when the parse succeeded.
func (p *Parser) Err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors[0]
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

func (p *Parser) lexicalError(tok token.Token) {
	if strings.HasPrefix(tok.Literal, "\"") {
		p.errors = append(p.errors, diag.Errorf(diag.ErrLexical, tok.Line, tok.Column,
			"Unterminated string in row %d, column %d", tok.Line, tok.Column))
		return
	}
	p.errors = append(p.errors, diag.Errorf(diag.ErrLexical, tok.Line, tok.Column,
		"Unexpected character \"%s\" in row %d, column %d", tok.Literal, tok.Line, tok.Column))
}

// unexpected records a syntax error at tok. Only the first one is kept:
// everything after it is noise from the same mistake.
func (p *Parser) unexpected(tok token.Token) {
	if p.failed() {
		return
	}
	if tok.Type == token.EOF {
		p.errors = append(p.errors, &diag.CodeError{Kind: diag.ErrSyntax,
			Message: "Syntax error: unexpected end of input.", Line: tok.Line, Column: tok.Column})
		return
	}
	p.errors = append(p.errors, diag.Errorf(diag.ErrSyntax, tok.Line, tok.Column,
		"Syntax error in row %d, column %d: unexpected token '%s'.", tok.Line, tok.Column, tok.Literal))
}

func (p *Parser) addErrorCurrent(msg string) {
	if p.failed() {
		return
	}
	p.errors = append(p.errors, diag.Errorf(diag.ErrSyntax, p.curToken.Line, p.curToken.Column,
		"Syntax error in row %d, column %d: %s.", p.curToken.Line, p.curToken.Column, msg))
	p.errors[len(p.errors)-1].Context = p.curToken.Literal
}

// curTokenIs checks if current token matches
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if next token matches
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek checks next token and advances if correct, else errors
// Used for mandatory syntax like "<ident> :="
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekToken)
	return false
}

// peekPrecedence returns precedence of next token
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// curPrecedence returns precedence of current token
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ParseProgram parses a whole program: exactly one block followed by EOF.
// It returns nil when any lexical or syntax error was found.
func (p *Parser) ParseProgram() *ast.Block {
	if p.failed() {
		return nil
	}
	if !p.curTokenIs(token.LBRACE) {
		p.unexpected(p.curToken)
		return nil
	}
	block := p.parseBlock()
	if block == nil || p.failed() {
		return nil
	}
	if !p.expectPeek(token.EOF) {
		return nil
	}
	return block
}

// Parse is a convenience wrapper: lex, parse and return the first error.
func Parse(input string) (*ast.Block, error) {
	p := New(lexer.New(input))
	block := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if block == nil {
		return nil, fmt.Errorf("parse produced no program")
	}
	return block, nil
}
