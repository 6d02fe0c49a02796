package lexer

import (
	"strings"

	"imperat/internal/token"
)

var escapes = map[byte]byte{'"': '"', '\\': '\\', 'n': '\n', 't': '\t'}

// skipIgnored consumes blanks and // comments between tokens.
func (l *Lexer) skipIgnored() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readIdentifier expects the caller to have seen a letter already.
func (l *Lexer) readIdentifier() string {
	return l.readWhile(func(ch byte) bool { return isLetter(ch) || isDigit(ch) })
}

func (l *Lexer) readNumber() string {
	return l.readWhile(isDigit)
}

// readString consumes a double-quoted literal starting at the opening
// quote. ok is false when the line or input ends before the closing quote.
func (l *Lexer) readString() (text string, ok bool) {
	var sb strings.Builder
	for l.readChar(); l.ch != '"'; l.readChar() {
		if l.ch == 0 || l.ch == '\n' {
			return sb.String(), false
		}
		if l.ch == '\\' {
			if esc, known := escapes[l.peekChar()]; known {
				l.readChar()
				sb.WriteByte(esc)
				continue
			}
		}
		sb.WriteByte(l.ch)
	}
	l.readChar()
	return sb.String(), true
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
