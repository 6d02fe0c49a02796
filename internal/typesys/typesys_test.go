package typesys

import (
	"testing"

	"imperat/internal/ast"
)

func TestTypeStringRoundTrip(t *testing.T) {
	for _, typ := range []Type{IntType, BoolType, StringType, ArrayOf(0), ArrayOf(12), ListOf(3)} {
		got, ok := Parse(typ.String())
		if !ok || got != typ {
			t.Fatalf("Parse(%q)=%v,%v want %v", typ.String(), got, ok, typ)
		}
	}
	for _, bad := range []string{"", "float", "function[..]", "function[..-1]", "function with length=0"} {
		if _, ok := Parse(bad); ok {
			t.Fatalf("expected Parse(%q) to fail", bad)
		}
	}
}

func TestEquivalence(t *testing.T) {
	tests := []struct {
		a, b Type
		want bool
	}{
		{IntType, IntType, true},
		{IntType, BoolType, false},
		{ArrayOf(2), ListOf(3), true},
		{ListOf(3), ArrayOf(2), true},
		{ArrayOf(2), ListOf(2), false},
		{ArrayOf(2), ArrayOf(2), true},
		{ArrayOf(2), ArrayOf(3), false},
		{ListOf(2), ListOf(2), true},
	}
	for _, tt := range tests {
		if got := Equivalent(tt.a, tt.b); got != tt.want {
			t.Fatalf("Equivalent(%s, %s)=%v want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAssignableSingletonRule(t *testing.T) {
	if !Assignable(ArrayOf(0), IntType) {
		t.Fatalf("int should be assignable to function[..0]")
	}
	if Assignable(ArrayOf(1), IntType) {
		t.Fatalf("int should not be assignable to function[..1]")
	}
	if Assignable(IntType, ArrayOf(0)) {
		t.Fatalf("function[..0] should not be assignable to int")
	}
}

func TestFromNodeAndCells(t *testing.T) {
	arr := FromNode(&ast.TypeNode{Kind: ast.TypeFunction, Bound: 4})
	if arr != ArrayOf(4) || arr.Cells() != 5 {
		t.Fatalf("unexpected array type %v with %d cells", arr, arr.Cells())
	}
	if FromNode(&ast.TypeNode{Kind: ast.TypeBool}) != BoolType {
		t.Fatalf("bool node should map to BoolType")
	}
	if ListOf(3).Cells() != 3 || IntType.Cells() != 1 {
		t.Fatalf("unexpected cell counts")
	}
}
