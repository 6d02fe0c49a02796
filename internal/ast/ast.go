package ast

import (
	"bytes"
	"fmt"
	"strings"

	"imperat/internal/token"
)

// Node is the base interface for all AST nodes.
// The set of implementations is closed: only this package can add nodes.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
	node()
}

// Statement nodes don't produce values
// Examples: x := 5, print x, if ... fi
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce values
// Examples: 5, x, a.1, 5 + 3
type Expression interface {
	Node
	expressionNode()
}

// Operator names a binary or unary operation.
type Operator string

const (
	OpPlus     Operator = "Plus"
	OpMinus    Operator = "Minus"
	OpMult     Operator = "Mult"
	OpLess     Operator = "Less"
	OpLeq      Operator = "Leq"
	OpGreater  Operator = "Greater"
	OpGeq      Operator = "Geq"
	OpEqual    Operator = "Equal"
	OpNotEqual Operator = "NotEqual"
	OpAnd      Operator = "And"
	OpOr       Operator = "Or"
	OpComma    Operator = "Comma"
	OpNot      Operator = "Not"
)

var operatorSymbols = map[Operator]string{
	OpPlus:     "+",
	OpMinus:    "-",
	OpMult:     "*",
	OpLess:     "<",
	OpLeq:      "<=",
	OpGreater:  ">",
	OpGeq:      ">=",
	OpEqual:    "==",
	OpNotEqual: "<>",
	OpAnd:      "and",
	OpOr:       "or",
	OpComma:    ",",
	OpNot:      "!",
}

// Symbol returns the source spelling of the operator.
func (op Operator) Symbol() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return string(op)
}

// TypeKind is the declared kind of a variable.
type TypeKind string

const (
	TypeInt      TypeKind = "int"
	TypeBool     TypeKind = "bool"
	TypeFunction TypeKind = "function"
)

// TypeNode is a declared type: int, bool or function[..N].
type TypeNode struct {
	Token token.Token // The type keyword, or the bound for function types
	Kind  TypeKind
	Bound int64 // N in function[..N]
}

func (tn *TypeNode) node()                {}
func (tn *TypeNode) TokenLiteral() string { return tn.Token.Literal }
func (tn *TypeNode) Pos() token.Position  { return tn.Token.Pos() }
func (tn *TypeNode) String() string {
	if tn.Kind == TypeFunction {
		return fmt.Sprintf("function[..%d]", tn.Bound)
	}
	return string(tn.Kind)
}

// Block represents { declarations instructions }
type Block struct {
	Token token.Token // The { token
	Decls *Decls
	Body  Statement
}

func (b *Block) node()                {}
func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) Pos() token.Position  { return b.Token.Pos() }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	if b.Decls != nil {
		for _, d := range b.Decls.Items {
			out.WriteString(d.String())
			out.WriteString("; ")
		}
	}
	if b.Body != nil {
		out.WriteString(b.Body.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Decls is the ordered declaration list of a block.
type Decls struct {
	Items []*Decl
}

// Decl declares one or more names sharing a type: int x, y
type Decl struct {
	Names []*Identifier
	Type  *TypeNode
}

func (d *Decl) String() string {
	names := make([]string, 0, len(d.Names))
	for _, n := range d.Names {
		names = append(names, n.Value)
	}
	return d.Type.String() + " " + strings.Join(names, ", ")
}

// Sequencing represents left ; right
type Sequencing struct {
	Left  Statement
	Right Statement
}

func (s *Sequencing) node()                {}
func (s *Sequencing) statementNode()       {}
func (s *Sequencing) TokenLiteral() string { return s.Left.TokenLiteral() }
func (s *Sequencing) Pos() token.Position  { return s.Left.Pos() }
func (s *Sequencing) String() string       { return s.Left.String() + "; " + s.Right.String() }

// Skip is the empty instruction.
type Skip struct {
	Token token.Token
}

func (s *Skip) node()                {}
func (s *Skip) statementNode()       {}
func (s *Skip) TokenLiteral() string { return s.Token.Literal }
func (s *Skip) Pos() token.Position  { return s.Token.Pos() }
func (s *Skip) String() string       { return "skip" }

// Assign represents: <name> := <value>
type Assign struct {
	Token token.Token // The IDENT token of the target
	Name  *Identifier
	Value Expression
}

func (as *Assign) node()                {}
func (as *Assign) statementNode()       {}
func (as *Assign) TokenLiteral() string { return as.Token.Literal }
func (as *Assign) Pos() token.Position  { return as.Token.Pos() }
func (as *Assign) String() string       { return as.Name.String() + " := " + as.Value.String() }

// Print represents: print <expr>
type Print struct {
	Token token.Token
	Value Expression
}

func (ps *Print) node()                {}
func (ps *Print) statementNode()       {}
func (ps *Print) TokenLiteral() string { return ps.Token.Literal }
func (ps *Print) Pos() token.Position  { return ps.Token.Pos() }
func (ps *Print) String() string       { return "print " + ps.Value.String() }

// Guard is one arm of an if: <cond> --> <body>
type Guard struct {
	Cond Expression
	Body Statement
}

// If represents: if g1 [] g2 ... fi
type If struct {
	Token  token.Token
	Guards []*Guard
}

func (is *If) node()                {}
func (is *If) statementNode()       {}
func (is *If) TokenLiteral() string { return is.Token.Literal }
func (is *If) Pos() token.Position  { return is.Token.Pos() }
func (is *If) String() string {
	parts := make([]string, 0, len(is.Guards))
	for _, g := range is.Guards {
		parts = append(parts, g.Cond.String()+" --> "+g.Body.String())
	}
	return "if " + strings.Join(parts, " [] ") + " fi"
}

// While represents: while <cond> --> <body> end
type While struct {
	Token token.Token
	Cond  Expression
	Body  Statement
}

func (ws *While) node()                {}
func (ws *While) statementNode()       {}
func (ws *While) TokenLiteral() string { return ws.Token.Literal }
func (ws *While) Pos() token.Position  { return ws.Token.Pos() }
func (ws *While) String() string {
	return "while " + ws.Cond.String() + " --> " + ws.Body.String() + " end"
}

// Identifier represents a variable name
type Identifier struct {
	Token token.Token // The IDENT token
	Value string
}

func (i *Identifier) node()                {}
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos() }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents a number like 5 or 42
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) node()                {}
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position  { return il.Token.Pos() }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// Boolean represents true or false
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) node()                {}
func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos() }
func (b *Boolean) String() string       { return b.Token.Literal }

// StringLiteral represents a string like "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) node()                {}
func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() token.Position  { return sl.Token.Pos() }
func (sl *StringLiteral) String() string       { return fmt.Sprintf("%q", sl.Value) }

// InfixExpression represents <left> <op> <right>, including the comma
// that builds array literals.
type InfixExpression struct {
	Token    token.Token // The operator token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (ie *InfixExpression) node()                {}
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() token.Position  { return ie.Token.Pos() }
func (ie *InfixExpression) String() string {
	if ie.Operator == OpComma {
		return "(" + ie.Left.String() + ", " + ie.Right.String() + ")"
	}
	return "(" + ie.Left.String() + " " + ie.Operator.Symbol() + " " + ie.Right.String() + ")"
}

// PrefixExpression represents !x or -x
type PrefixExpression struct {
	Token    token.Token
	Operator Operator
	Right    Expression
}

func (pe *PrefixExpression) node()                {}
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() token.Position  { return pe.Token.Pos() }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator.Symbol() + pe.Right.String() + ")"
}

// IndexExpression reads one array cell: a.1 or a@1
type IndexExpression struct {
	Token    token.Token // The . or @ token
	Function Expression
	Index    Expression
}

func (ie *IndexExpression) node()                {}
func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() token.Position  { return ie.Token.Pos() }
func (ie *IndexExpression) String() string {
	return "(" + ie.Function.String() + "." + ie.Index.String() + ")"
}

// WritePair is one index:value pair of a write expression.
type WritePair struct {
	Index Expression
	Value Expression
}

// WriteExpression yields a copy of an array with cells overwritten: a(i:v)
type WriteExpression struct {
	Token    token.Token // The ( token
	Function Expression
	Elems    []*WritePair
}

func (we *WriteExpression) node()                {}
func (we *WriteExpression) expressionNode()      {}
func (we *WriteExpression) TokenLiteral() string { return we.Token.Literal }
func (we *WriteExpression) Pos() token.Position  { return we.Token.Pos() }
func (we *WriteExpression) String() string {
	parts := make([]string, 0, len(we.Elems))
	for _, el := range we.Elems {
		parts = append(parts, el.Index.String()+":"+el.Value.String())
	}
	return we.Function.String() + "(" + strings.Join(parts, ", ") + ")"
}

// ModifyExpression yields a copy of an array with one cell replaced: a[i:v]
type ModifyExpression struct {
	Token    token.Token // The [ token
	Function Expression
	Index    Expression
	Value    Expression
}

func (me *ModifyExpression) node()                {}
func (me *ModifyExpression) expressionNode()      {}
func (me *ModifyExpression) TokenLiteral() string { return me.Token.Literal }
func (me *ModifyExpression) Pos() token.Position  { return me.Token.Pos() }
func (me *ModifyExpression) String() string {
	return me.Function.String() + "[" + me.Index.String() + ":" + me.Value.String() + "]"
}

// FlattenComma splits a left-to-right chain of comma operators into its
// element expressions. A non-comma expression yields itself.
func FlattenComma(e Expression) []Expression {
	if ie, ok := e.(*InfixExpression); ok && ie.Operator == OpComma {
		return append(FlattenComma(ie.Left), FlattenComma(ie.Right)...)
	}
	return []Expression{e}
}
