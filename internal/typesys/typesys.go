package typesys

import (
	"fmt"
	"strconv"
	"strings"

	"imperat/internal/ast"
)

// Kind is the shape of a value.
type Kind int

const (
	Invalid Kind = iota
	Int
	Bool
	String
	// Array is a declared function[..N]: N+1 int cells.
	Array
	// List is the type of a comma chain of ints, e.g. 1, 2, 3.
	List
)

// Type is a checked type. N is the bound for Array and the length for List.
type Type struct {
	Kind Kind
	N    int64
}

var (
	IntType    = Type{Kind: Int}
	BoolType   = Type{Kind: Bool}
	StringType = Type{Kind: String}
)

func ArrayOf(bound int64) Type { return Type{Kind: Array, N: bound} }

func ListOf(length int64) Type { return Type{Kind: List, N: length} }

// FromNode converts a declared type.
func FromNode(tn *ast.TypeNode) Type {
	switch tn.Kind {
	case ast.TypeInt:
		return IntType
	case ast.TypeBool:
		return BoolType
	case ast.TypeFunction:
		return ArrayOf(tn.Bound)
	}
	return Type{}
}

func (t Type) String() string {
	switch t.Kind {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "String"
	case Array:
		return fmt.Sprintf("function[..%d]", t.N)
	case List:
		return fmt.Sprintf("function with length=%d", t.N)
	}
	return "invalid"
}

// Parse reads the textual form produced by String.
func Parse(s string) (Type, bool) {
	switch s {
	case "int":
		return IntType, true
	case "bool":
		return BoolType, true
	case "String":
		return StringType, true
	}
	if rest, ok := strings.CutPrefix(s, "function[.."); ok {
		n, err := strconv.ParseInt(strings.TrimSuffix(rest, "]"), 10, 64)
		if err != nil || !strings.HasSuffix(rest, "]") || n < 0 {
			return Type{}, false
		}
		return ArrayOf(n), true
	}
	if rest, ok := strings.CutPrefix(s, "function with length="); ok {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || n < 1 {
			return Type{}, false
		}
		return ListOf(n), true
	}
	return Type{}, false
}

// IsArrayLike reports whether t is a declared array or an int list.
func (t Type) IsArrayLike() bool { return t.Kind == Array || t.Kind == List }

// Cells is the number of int cells of an array-like type, 1 otherwise.
func (t Type) Cells() int64 {
	switch t.Kind {
	case Array:
		return t.N + 1
	case List:
		return t.N
	}
	return 1
}

// Equivalent reports whether a value of type b may stand where a is expected.
// A list of length L matches function[..N] when L = N+1, in either direction.
func Equivalent(a, b Type) bool {
	if a == b {
		return true
	}
	switch {
	case a.Kind == Array && b.Kind == List:
		return b.N == a.N+1
	case a.Kind == List && b.Kind == Array:
		return a.N == b.N+1
	}
	return false
}

// Assignable extends Equivalent with the singleton rule: an int may be
// stored into function[..0].
func Assignable(target, value Type) bool {
	if Equivalent(target, value) {
		return true
	}
	return target.Kind == Array && target.N == 0 && value.Kind == Int
}
