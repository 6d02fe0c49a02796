package checker

import (
	"errors"
	"reflect"
	"testing"

	"imperat/internal/ast"
	"imperat/internal/diag"
	"imperat/internal/parser"
	"imperat/internal/typesys"
)

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	root, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return root
}

func mustCheck(t *testing.T, src string) (*ast.Block, *Info) {
	t.Helper()
	root := mustParse(t, src)
	info, err := Check(root)
	if err != nil {
		t.Fatalf("check %q: %v", src, err)
	}
	return root, info
}

func typesByString(info *Info) map[string]string {
	out := make(map[string]string, len(info.Types))
	for e, typ := range info.Types {
		out[e.String()] = typ.String()
	}
	return out
}

func TestWellTypedPrograms(t *testing.T) {
	tests := []struct {
		src  string
		expr string
		want string
	}{
		{"{ int x; x := 3 + 4 }", "(3 + 4)", "int"},
		{"{ bool b; b := 1 < 2 and true }", "((1 < 2) and true)", "bool"},
		{"{ function[..2] a; a := 1, 2, 3 }", "((1, 2), 3)", "function with length=3"},
		{"{ function[..0] a; a := 5 }", "5", "int"},
		{"{ function[..1] a; int y; y := a@1 }", "(a.1)", "int"},
		{"{ function[..1] a; a := a(0:1, 1:2) }", "a(0:1, 1:2)", "function[..1]"},
		{"{ function[..1] a; a := a[0:a.1] }", "a[0:(a.1)]", "function[..1]"},
		{"{ bool b; b := true == false }", "(true == false)", "bool"},
		{`{ bool b; b := "x" == "y" }`, `("x" == "y")`, "bool"},
		{`{ int x; print "x=" + x }`, `("x=" + x)`, "String"},
		{"{ function[..1] a, c; bool b; b := a == c }", "(a == c)", "bool"},
		{"{ int x; x := -x * 2 }", "((-x) * 2)", "int"},
	}
	for _, tt := range tests {
		_, info := mustCheck(t, tt.src)
		got, ok := typesByString(info)[tt.expr]
		if !ok {
			t.Fatalf("%s: no type recorded for %s", tt.src, tt.expr)
		}
		if got != tt.want {
			t.Fatalf("%s: type of %s=%s want %s", tt.src, tt.expr, got, tt.want)
		}
	}
}

func TestCheckingIsIdempotent(t *testing.T) {
	root := mustParse(t, `{ int x, y; function[..2] a;
  a := 1, 2, 3;
  x := a.0 + a@2;
  { bool x; x := y < 3 };
  if x > 0 --> y := x [] x <= 0 --> print "neg" + x fi
}`)
	first, err := Check(root)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	second, err := Check(root)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !reflect.DeepEqual(first.Types, second.Types) {
		t.Fatalf("type annotations differ between runs")
	}
	if !reflect.DeepEqual(first.Uses, second.Uses) || !reflect.DeepEqual(first.Defs, second.Defs) {
		t.Fatalf("resolutions differ between runs")
	}
}

func TestShadowingResolvesToInnerSymbol(t *testing.T) {
	root, info := mustCheck(t, "{ int x; { bool x; x := true }; x := 1 }")
	seq := root.Body.(*ast.Sequencing)
	inner := seq.Left.(*ast.Block).Body.(*ast.Assign)
	outer := seq.Right.(*ast.Assign)

	innerSym, _ := info.SymbolOf(inner.Name)
	outerSym, _ := info.SymbolOf(outer.Name)
	if innerSym.ID == outerSym.ID {
		t.Fatalf("inner and outer x resolved to the same symbol")
	}
	if innerSym.Type != typesys.BoolType || outerSym.Type != typesys.IntType {
		t.Fatalf("unexpected symbol types %s / %s", innerSym.Type, outerSym.Type)
	}
	if info.Table.Depth(innerSym.Frame) != 1 {
		t.Fatalf("inner x should live in a nested frame")
	}
}

func TestDuplicateDeclarationCitesOriginalLine(t *testing.T) {
	for _, src := range []string{
		"{ int x;\n bool x; skip }",
		"{ int x;\n function[..3] x; skip }",
		"{ int x;\n int y, x; skip }",
	} {
		_, err := Check(mustParse(t, src))
		if !errors.Is(err, diag.ErrDuplicateDeclaration) {
			t.Fatalf("%q: expected duplicate declaration, got %v", src, err)
		}
		if err.Error() != "Variable x is already declared in the block at line 1" {
			t.Fatalf("%q: unexpected message %q", src, err.Error())
		}
	}
}

// Comma chains of the wrong length pass the checker; the linearizer rejects
// them with an arity mismatch.
func TestArrayAssignmentArity(t *testing.T) {
	tests := []struct {
		src string
		ok  bool
	}{
		{"{ function[..2] a; a := 1, 2, 3 }", true},
		{"{ function[..2] a; a := 1, 2 }", true},
		{"{ function[..1] a; a := 1, 2, 3 }", true},
		{"{ function[..0] a; a := 7 }", true},
		{"{ function[..1] a; a := 7 }", false},
		{"{ function[..1] a; a := 1, true }", false},
	}
	for _, tt := range tests {
		_, err := Check(mustParse(t, tt.src))
		if tt.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tt.src, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("%s: expected an error", tt.src)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind error
		msg  string
	}{
		{"{ int c; c := d }", diag.ErrUndeclaredVariable, "Variable not declared at line 1 and column 15"},
		{"{ int c; print d }", diag.ErrUndeclaredVariable, "Variable not declared at line 1 and column 16"},
		{"{ int c; d := c }", diag.ErrUndeclaredVariable, "Variable d not declared at line 1 and column 10"},
		{"{ int c; if d --> skip fi }", diag.ErrUndeclaredVariable, "Variable d not declared at line 1 and column 13"},
		{"{ int c; c := true }", diag.ErrTypeMismatch, "Type error. Variable c has different type than expression at line 1 and column 10"},
		{"{ int c; c := 1 + true }", diag.ErrTypeMismatch, "Type error at line 1 and column 17"},
		{"{ bool b; b := 1 == true }", diag.ErrTypeMismatch, "Type error at line 1 and column 18"},
		{"{ int c; c := -true }", diag.ErrTypeMismatch, "Type error in line 1 and column 15"},
		{"{ int c; if c --> skip fi }", diag.ErrGuardNotBoolean, "if guard must be bool"},
		{"{ int c; while c --> skip end }", diag.ErrGuardNotBoolean, "while guard must be bool"},
		{"{ int c; c := c.0 }", diag.ErrNotIndexable, "Error. c is not indexable at line 1 and column 15"},
		{"{ function[..1] a; int c; c := a.true }", diag.ErrIndexNotInt, "Error. Not integer index for function at line 1 and column 34"},
		{"{ int c; c := c(0:1) }", diag.ErrNotIndexable, "The function modification operator is used on a non-function variable at line 1 and column 15"},
		{"{ function[..1] a; a := a(0:true) }", diag.ErrExpectedInt, "Expected expression of type int at line 1 and column 29"},
		{"{ function[..1] a; a := a[false:1] }", diag.ErrExpectedInt, "Expected expression of type int at line 1 and column 27"},
		{"{ function[..1] a; a := true, 1 }", diag.ErrNotIntegerList, "There is no integer list at line 1 and column 29"},
	}
	for _, tt := range tests {
		_, err := Check(mustParse(t, tt.src))
		if err == nil {
			t.Fatalf("%s: expected error", tt.src)
		}
		if !errors.Is(err, tt.kind) {
			t.Fatalf("%s: error kind=%v want %v", tt.src, err, tt.kind)
		}
		if err.Error() != tt.msg {
			t.Fatalf("%s: message=%q want %q", tt.src, err.Error(), tt.msg)
		}
	}
}

func TestConcatIsRecorded(t *testing.T) {
	root, info := mustCheck(t, `{ int x; print "v" + x + 1 }`)
	pr := root.Body.(*ast.Print)
	outer := pr.Value.(*ast.InfixExpression)
	inner := outer.Left.(*ast.InfixExpression)
	if !info.Concat[outer] || !info.Concat[inner] {
		t.Fatalf("both + nodes should be concatenations")
	}
}
