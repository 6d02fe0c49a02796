// Package printer dumps a checked program as an indented tree, one node per
// line, with the synthesized type next to every expression.
package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"imperat/internal/ast"
	"imperat/internal/checker"
)

type printer struct {
	w    io.Writer
	info *checker.Info
	err  error
}

// Fprint writes the decorated tree of root to w.
func Fprint(w io.Writer, root *ast.Block, info *checker.Info) error {
	p := &printer{w: w, info: info}
	p.stmt(root, 0)
	return p.err
}

// Sprint is Fprint into a string.
func Sprint(root *ast.Block, info *checker.Info) string {
	var out bytes.Buffer
	_ = Fprint(&out, root, info)
	return out.String()
}

func (p *printer) line(indent int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("-", indent), fmt.Sprintf(format, args...))
}

func (p *printer) stmt(s ast.Statement, indent int) {
	switch s := s.(type) {
	case *ast.Block:
		p.line(indent, "Block")
		if frame, ok := p.info.Frames[s]; ok {
			syms := p.info.Table.Symbols(frame)
			if len(syms) > 0 {
				p.line(indent+1, "Symbols Table")
				for _, sym := range syms {
					p.line(indent+2, "variable: %s | type: %s", sym.Name, sym.Type)
				}
			}
		}
		p.stmt(s.Body, indent+1)
	case *ast.Sequencing:
		p.line(indent, "Sequencing")
		p.stmt(s.Left, indent+1)
		p.stmt(s.Right, indent+1)
	case *ast.Skip:
		p.line(indent, "skip")
	case *ast.Print:
		p.line(indent, "Print")
		p.expr(s.Value, indent+1)
	case *ast.Assign:
		p.line(indent, "Asig")
		if sym, ok := p.info.SymbolOf(s.Name); ok {
			p.line(indent+1, "Ident: %s | type: %s", s.Name.Value, sym.Type)
		} else {
			p.line(indent+1, "Ident: %s", s.Name.Value)
		}
		p.expr(s.Value, indent+1)
	case *ast.If:
		p.ifStmt(s, indent)
	case *ast.While:
		p.line(indent, "While")
		p.line(indent+1, "Then")
		p.expr(s.Cond, indent+2)
		p.stmt(s.Body, indent+2)
	}
}

// ifStmt nests the guards the way a right-leaning Guard chain would print:
// N-1 Guard lines, then the first two arms at the deepest level and each
// following arm one level shallower.
func (p *printer) ifStmt(s *ast.If, indent int) {
	n := len(s.Guards)
	p.line(indent, "If")
	for depth := 1; depth < n; depth++ {
		p.line(indent+depth, "Guard")
	}
	for i, g := range s.Guards {
		level := indent + n
		if i >= 2 {
			level -= i - 1
		}
		p.line(level, "Then")
		p.expr(g.Cond, level+1)
		p.stmt(g.Body, level+1)
	}
}

func (p *printer) expr(e ast.Expression, indent int) {
	typ := p.info.TypeOf(e)
	switch e := e.(type) {
	case *ast.Identifier:
		p.line(indent, "Ident: %s | type: %s", e.Value, typ)
	case *ast.IntegerLiteral:
		p.line(indent, "Literal: %d | type: %s", e.Value, typ)
	case *ast.Boolean:
		p.line(indent, "Literal: %t | type: %s", e.Value, typ)
	case *ast.StringLiteral:
		p.line(indent, "String: %q", e.Value)
	case *ast.PrefixExpression:
		p.line(indent, "%s | type: %s", e.Operator, typ)
		p.expr(e.Right, indent+1)
	case *ast.InfixExpression:
		op := string(e.Operator)
		if p.info.Concat[e] {
			op = "Concat"
		}
		p.line(indent, "%s | type: %s", op, typ)
		p.expr(e.Left, indent+1)
		p.expr(e.Right, indent+1)
	case *ast.IndexExpression:
		p.line(indent, "ReadFunction | type: %s", typ)
		p.expr(e.Function, indent+1)
		p.expr(e.Index, indent+1)
	case *ast.WriteExpression:
		p.line(indent, "WriteFunction | type: %s", typ)
		p.expr(e.Function, indent+1)
		for _, el := range e.Elems {
			p.line(indent+1, "TwoPoints")
			p.expr(el.Index, indent+2)
			p.expr(el.Value, indent+2)
		}
	case *ast.ModifyExpression:
		p.line(indent, "ModifyFunction | type: %s", typ)
		p.expr(e.Function, indent+1)
		p.line(indent+1, "TwoPoints")
		p.expr(e.Index, indent+2)
		p.expr(e.Value, indent+2)
	}
}
