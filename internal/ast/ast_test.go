package ast

import (
	"reflect"
	"testing"

	"imperat/internal/token"
)

func tok(tt token.TokenType, lit string) token.Token {
	return token.Token{Type: tt, Literal: lit, Line: 1, Column: 1}
}

func num(v int64, lit string) *IntegerLiteral {
	return &IntegerLiteral{Token: tok(token.NUM, lit), Value: v}
}

func TestNodeStrings(t *testing.T) {
	x := &Identifier{Token: tok(token.IDENT, "x"), Value: "x"}
	a := &Identifier{Token: tok(token.IDENT, "a"), Value: "a"}
	sum := &InfixExpression{Token: tok(token.PLUS, "+"), Operator: OpPlus, Left: x, Right: num(1, "1")}
	list := &InfixExpression{Token: tok(token.COMMA, ","), Operator: OpComma, Left: num(1, "1"), Right: num(2, "2")}

	tests := []struct {
		node Node
		want string
	}{
		{sum, "(x + 1)"},
		{list, "(1, 2)"},
		{&PrefixExpression{Token: tok(token.BANG, "!"), Operator: OpNot, Right: x}, "(!x)"},
		{&IndexExpression{Token: tok(token.APP, "."), Function: a, Index: num(1, "1")}, "(a.1)"},
		{&WriteExpression{Token: tok(token.LPAREN, "("), Function: a, Elems: []*WritePair{{Index: num(0, "0"), Value: x}}}, "a(0:x)"},
		{&ModifyExpression{Token: tok(token.LBRACKET, "["), Function: a, Index: num(0, "0"), Value: x}, "a[0:x]"},
		{&StringLiteral{Token: tok(token.STRING, "hi"), Value: "hi"}, `"hi"`},
		{&Assign{Token: x.Token, Name: x, Value: sum}, "x := (x + 1)"},
		{&Print{Token: tok(token.PRINT, "print"), Value: x}, "print x"},
		{&Skip{Token: tok(token.SKIP, "skip")}, "skip"},
		{&While{Token: tok(token.WHILE, "while"), Cond: x, Body: &Skip{Token: tok(token.SKIP, "skip")}}, "while x --> skip end"},
		{&If{Token: tok(token.IF, "if"), Guards: []*Guard{
			{Cond: x, Body: &Skip{Token: tok(token.SKIP, "skip")}},
			{Cond: a, Body: &Skip{Token: tok(token.SKIP, "skip")}},
		}}, "if x --> skip [] a --> skip fi"},
		{&TypeNode{Token: tok(token.NUM, "2"), Kind: TypeFunction, Bound: 2}, "function[..2]"},
		{&Block{
			Token: tok(token.LBRACE, "{"),
			Decls: &Decls{Items: []*Decl{{Names: []*Identifier{x, a}, Type: &TypeNode{Token: tok(token.INT, "int"), Kind: TypeInt}}}},
			Body:  &Assign{Token: x.Token, Name: x, Value: num(3, "3")},
		}, "{ int x, a; x := 3 }"},
	}
	for i, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Fatalf("tests[%d] %T String()=%q want=%q", i, tt.node, got, tt.want)
		}
		if !tt.node.Pos().IsValid() {
			t.Fatalf("tests[%d] %T has no position", i, tt.node)
		}
	}
}

func TestFlattenComma(t *testing.T) {
	one, two, three := num(1, "1"), num(2, "2"), num(3, "3")
	left := &InfixExpression{Token: tok(token.COMMA, ","), Operator: OpComma,
		Left:  &InfixExpression{Token: tok(token.COMMA, ","), Operator: OpComma, Left: one, Right: two},
		Right: three,
	}
	right := &InfixExpression{Token: tok(token.COMMA, ","), Operator: OpComma,
		Left:  one,
		Right: &InfixExpression{Token: tok(token.COMMA, ","), Operator: OpComma, Left: two, Right: three},
	}
	want := []Expression{one, two, three}
	if got := FlattenComma(left); !reflect.DeepEqual(got, want) {
		t.Fatalf("left-nested flatten=%v", got)
	}
	if got := FlattenComma(right); !reflect.DeepEqual(got, want) {
		t.Fatalf("right-nested flatten=%v", got)
	}
	if got := FlattenComma(one); len(got) != 1 || got[0] != one {
		t.Fatalf("single flatten=%v", got)
	}
}

func TestOperatorSymbol(t *testing.T) {
	if OpNotEqual.Symbol() != "<>" || OpAnd.Symbol() != "and" {
		t.Fatalf("unexpected operator symbols")
	}
	if Operator("Concat").Symbol() != "Concat" {
		t.Fatalf("unknown operators fall back to their name")
	}
}
