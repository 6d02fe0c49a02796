package token

import "fmt"

// TokenType is a string alias for token types
// Using string makes debugging easier (we can print "-->" instead of a number)
type TokenType string

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was recorded by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Token struct holds the type, the literal and where it was found
// For example: Token{Type: NUM, Literal: "5", Line: 1, Column: 8}
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// Token constants - these are the vocabulary of the language
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown/invalid character
	EOF     TokenType = "EOF"     // End of file, tells parser we're done

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // Variable names: x, y, foo
	NUM    TokenType = "NUM"    // Integers: 1, 42, 999
	STRING TokenType = "STRING" // Strings: "hello"

	// Operators
	ASSIGN   TokenType = ":="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	BANG     TokenType = "!"
	LT       TokenType = "<"
	LEQ      TokenType = "<="
	GT       TokenType = ">"
	GEQ      TokenType = ">="
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "<>"
	APP      TokenType = "." // array read: a.1 (also written a@1)

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	SOFORTH   TokenType = ".."
	ARROW     TokenType = "-->"
	GUARD     TokenType = "[]"

	// Keywords
	INT      TokenType = "INT"
	BOOL     TokenType = "BOOL"
	FUNCTION TokenType = "FUNCTION"
	SKIP     TokenType = "SKIP"
	PRINT    TokenType = "PRINT"
	IF       TokenType = "IF"
	FI       TokenType = "FI"
	WHILE    TokenType = "WHILE"
	END      TokenType = "END"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	AND      TokenType = "AND"
	OR       TokenType = "OR"
)

// keywords maps reserved words to their token type
var keywords = map[string]TokenType{
	"int":      INT,
	"bool":     BOOL,
	"function": FUNCTION,
	"skip":     SKIP,
	"print":    PRINT,
	"if":       IF,
	"fi":       FI,
	"while":    WHILE,
	"end":      END,
	"true":     TRUE,
	"false":    FALSE,
	"and":      AND,
	"or":       OR,
}

// LookupIdent checks if an identifier is a keyword
// If "while" is in keywords map, returns WHILE token type
// Otherwise returns IDENT (it's a variable name)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
