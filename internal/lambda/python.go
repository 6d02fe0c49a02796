package lambda

import (
	"strconv"
	"strings"
)

var binarySymbols = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	Eq: "==", Ne: "!=",
	And: " and ", Or: " or ",
}

// Python renders t as a Python expression.
func Python(t Term) string {
	var b strings.Builder
	writePython(&b, t)
	return b.String()
}

func writePython(b *strings.Builder, t Term) {
	switch t := t.(type) {
	case Var:
		b.WriteString(t.Name)
	case Abs:
		b.WriteString("lambda ")
		b.WriteString(t.Param)
		b.WriteString(":")
		writePython(b, t.Body)
	case App:
		switch t.Fn.(type) {
		case Abs, Cond:
			b.WriteByte('(')
			writePython(b, t.Fn)
			b.WriteByte(')')
		default:
			writePython(b, t.Fn)
		}
		b.WriteByte('(')
		writePython(b, t.Arg)
		b.WriteByte(')')
	case Int:
		if t.Value < 0 {
			b.WriteString("(" + strconv.FormatInt(t.Value, 10) + ")")
			return
		}
		b.WriteString(strconv.FormatInt(t.Value, 10))
	case Bool:
		if t.Value {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case Str:
		b.WriteString(pythonString(t.Value))
	case Unary:
		if t.Op == Not {
			b.WriteString("(not ")
		} else {
			b.WriteString("(-")
		}
		writeOperand(b, t.X)
		b.WriteByte(')')
	case Binary:
		if t.Op == Concat {
			b.WriteString("(str(")
			writeOperand(b, t.L)
			b.WriteString(")+str(")
			writeOperand(b, t.R)
			b.WriteString("))")
			return
		}
		b.WriteByte('(')
		writeOperand(b, t.L)
		b.WriteString(binarySymbols[t.Op])
		writeOperand(b, t.R)
		b.WriteByte(')')
	case Cond:
		b.WriteByte('(')
		writeOperand(b, t.Then)
		b.WriteString(" if ")
		writeOperand(b, t.Test)
		b.WriteString(" else ")
		writeOperand(b, t.Else)
		b.WriteByte(')')
	case Record:
		b.WriteByte('{')
		for i, k := range t.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pythonString(k))
			b.WriteString(": ")
			writePython(b, t.Values[i])
		}
		b.WriteByte('}')
	}
}

// writeOperand parenthesizes abstractions, which would otherwise swallow
// the rest of the enclosing expression.
func writeOperand(b *strings.Builder, t Term) {
	if _, ok := t.(Abs); ok {
		b.WriteByte('(')
		writePython(b, t)
		b.WriteByte(')')
		return
	}
	writePython(b, t)
}

// pythonString quotes s with single quotes, escaping what Python requires.
func pythonString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\x`)
				b.WriteString(strconv.FormatInt(int64(r)+0x100, 16)[1:])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Source renders the whole module: one binding per line and a final print.
func (m *Module) Source() string {
	var b strings.Builder
	for _, bind := range m.Bindings {
		b.WriteString(bind.Name)
		b.WriteString(" = ")
		writePython(&b, bind.Value)
		b.WriteByte('\n')
	}
	if m.Print != nil {
		b.WriteString("print(")
		writePython(&b, m.Print)
		b.WriteString(")\n")
	}
	return b.String()
}
