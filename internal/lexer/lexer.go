package lexer

import "imperat/internal/token"

// Lexer holds the state while tokenizing input
// It reads character by character, like a tape reader
type Lexer struct {
	input        string // The source code
	position     int    // Current position in input (points to current char)
	readPosition int    // Current reading position (after current char)
	ch           byte   // Current character under examination
	line         int    // Line of ch, 1-based
	column       int    // Column of ch, 1-based
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar() // Initialize with first character
	return l
}

// readChar advances to the next character and keeps line/column in sync
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	// If we've reached the end, set ch to 0 (NUL byte, signifies EOF)
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column++
}

// peekChar looks at the next character without consuming it
// Used for multi-character tokens like := and <=
func (l *Lexer) peekChar() byte {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(offset int) byte {
	if l.readPosition+offset >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+offset]
}

// NextToken returns the next token from input
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipIgnored()
	line, col := l.line, l.column

	switch l.ch {
	case ':':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.ASSIGN)
		} else {
			tok = newToken(token.COLON, l.ch)
		}
	case '-':
		if l.peekChar() == '-' && l.peekCharAt(1) == '>' {
			l.readChar()
			l.readChar()
			tok = token.Token{Type: token.ARROW, Literal: "-->"}
		} else {
			tok = newToken(token.MINUS, l.ch)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '!':
		tok = newToken(token.BANG, l.ch)
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.twoCharToken(token.LEQ)
		case '>':
			tok = l.twoCharToken(token.NOT_EQ)
		default:
			tok = newToken(token.LT, l.ch)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GEQ)
		} else {
			tok = newToken(token.GT, l.ch)
		}
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	case '.':
		if l.peekChar() == '.' {
			tok = l.twoCharToken(token.SOFORTH)
		} else {
			tok = newToken(token.APP, l.ch)
		}
	case '@':
		tok = newToken(token.APP, l.ch)
	case '[':
		if l.peekChar() == ']' {
			tok = l.twoCharToken(token.GUARD)
		} else {
			tok = newToken(token.LBRACKET, l.ch)
		}
	case ']':
		tok = newToken(token.RBRACKET, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '"':
		lit, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: "\"" + lit, Line: line, Column: col}
		}
		return token.Token{Type: token.STRING, Literal: lit, Line: line, Column: col}
	case 0:
		// NUL byte means end of input
		tok.Literal = ""
		tok.Type = token.EOF
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(lit), Literal: lit, Line: line, Column: col}
		} else if isDigit(l.ch) {
			return token.Token{Type: token.NUM, Literal: l.readNumber(), Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch)
	}

	l.readChar() // Advance to next character for next call
	tok.Line, tok.Column = line, col
	return tok
}

// twoCharToken consumes the current and the next character as one token.
func (l *Lexer) twoCharToken(t token.TokenType) token.Token {
	ch := l.ch
	l.readChar()
	return token.Token{Type: t, Literal: string(ch) + string(l.ch)}
}

// Tokenize drains the lexer, including the trailing EOF token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}
