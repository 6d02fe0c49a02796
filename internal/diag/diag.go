package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. A CodeError unwraps to its kind so callers can use errors.Is.
var (
	ErrLexical              = errors.New("lexical error")
	ErrSyntax               = errors.New("syntax error")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrUndeclaredVariable   = errors.New("undeclared variable")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrGuardNotBoolean      = errors.New("guard not boolean")
	ErrNotIndexable         = errors.New("not indexable")
	ErrIndexNotInt          = errors.New("index not int")
	ErrExpectedInt          = errors.New("expected int")
	ErrNotIntegerList       = errors.New("not an integer list")
	ErrArityMismatch        = errors.New("arity mismatch")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrInternal             = errors.New("internal error")
)

// CodeError is a positioned diagnostic. Message is the full user-facing text.
type CodeError struct {
	Kind    error
	Message string
	Context string
	Line    int
	Column  int
}

func (e *CodeError) Error() string { return e.Message }

func (e *CodeError) Unwrap() error { return e.Kind }

// Errorf builds a CodeError of the given kind at line:col.
func Errorf(kind error, line, col int, format string, args ...interface{}) *CodeError {
	return &CodeError{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}

// Render formats err against its source the way a terminal user expects:
// message, location arrow and the offending line with a caret.
func Render(filename, source string, err *CodeError) string {
	var out strings.Builder
	out.WriteString(err.Message)
	line, col := err.Line, err.Column
	if line <= 0 {
		var ok bool
		if line, col, ok = LocateContext(source, err.Context); !ok {
			if err.Context != "" {
				out.WriteString("\n  context: " + err.Context)
			}
			return out.String()
		}
	}
	fmt.Fprintf(&out, "\n --> %s:%d:%d", filename, line, col)
	lines := strings.Split(source, "\n")
	if line-1 < len(lines) {
		text := strings.TrimRight(lines[line-1], "\r")
		gutter := fmt.Sprintf("%d", line)
		pad := strings.Repeat(" ", len(gutter))
		fmt.Fprintf(&out, "\n%s |\n%s | %s\n%s | %s^", pad, gutter, text, pad, strings.Repeat(" ", max(col-1, 0)))
	}
	return out.String()
}

// LocateContext finds the unique source line containing context.
func LocateContext(source string, context string) (line int, col int, ok bool) {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		return 0, 0, false
	}
	lines := strings.Split(source, "\n")
	normalize := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\t", "")
		return s
	}
	normalizedCtx := normalize(strings.Trim(ctx, "`"))

	matchLine := -1
	for i, ln := range lines {
		if normalize(ln) == normalizedCtx {
			if matchLine != -1 {
				matchLine = -2
				break
			}
			matchLine = i
		}
	}
	if matchLine >= 0 {
		ln := lines[matchLine]
		col := strings.Index(ln, strings.TrimSpace(strings.Trim(ctx, "`")))
		if col < 0 {
			col = len(ln) - len(strings.TrimLeft(ln, " \t"))
		}
		return matchLine + 1, col + 1, true
	}

	bestLine := -1
	bestCol := -1
	for i, ln := range lines {
		if idx := strings.Index(ln, strings.Trim(ctx, "`")); idx >= 0 {
			if bestLine != -1 {
				return 0, 0, false
			}
			bestLine = i + 1
			bestCol = idx + 1
		}
	}
	if bestLine != -1 {
		return bestLine, bestCol, true
	}
	return 0, 0, false
}
