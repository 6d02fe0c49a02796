package linearize

import (
	"errors"
	"testing"

	"imperat/internal/checker"
	"imperat/internal/diag"
	"imperat/internal/layout"
	"imperat/internal/parser"
)

func linearize(t *testing.T, src string) ([]Op, error) {
	t.Helper()
	root, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	info, err := checker.Check(root)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return Linearize(root, info, layout.Plan(root, info))
}

func TestFlattensSequencesAndBlocks(t *testing.T) {
	ops, err := linearize(t, "{ int x, y; x := 1; { int z; z := x; print z }; skip; y := x + 2 }")
	if err != nil {
		t.Fatalf("linearize: %v", err)
	}
	want := "x := 1\nz := x\ny := (x + 2)\n"
	if got := String(ops); got != want {
		t.Fatalf("ops:\n%s\nwant:\n%s", got, want)
	}
}

func TestSplitsArrayAssignments(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{ function[..2] a; a := 1, 2, 3 }", "a0 := 1\na1 := 2\na2 := 3\n"},
		{"{ function[..0] a; a := 7 }", "a0 := 7\n"},
		{"{ function[..1] a, b; a := b }", "a0, a1 := b\n"},
		{"{ function[..1] a; a := a(0:5) }", "a0, a1 := a(0:5)\n"},
	}
	for _, tt := range tests {
		ops, err := linearize(t, tt.src)
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		if got := String(ops); got != tt.want {
			t.Fatalf("%s: ops:\n%s\nwant:\n%s", tt.src, got, tt.want)
		}
	}
}

func TestArrayValuedAssignmentIsOneStore(t *testing.T) {
	ops, err := linearize(t, "{ function[..2] a, b; a := b[1:7] }")
	if err != nil {
		t.Fatalf("linearize: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected one op, got %d", len(ops))
	}
	st, ok := ops[0].(*Store)
	if !ok {
		t.Fatalf("expected a Store, got %T", ops[0])
	}
	if len(st.Slots) != 3 || st.Slots[0] != 0 || st.Slots[2] != 2 {
		t.Fatalf("unexpected slots %v", st.Slots)
	}
}

func TestArityMismatch(t *testing.T) {
	_, err := linearize(t, "{ function[..1] a; a := 1, 2, 3 }")
	if !errors.Is(err, diag.ErrArityMismatch) {
		t.Fatalf("expected arity mismatch, got %v", err)
	}
	if err.Error() != "Assignment to a expects 2 values, but found 3" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestBranchesAndLoopsNest(t *testing.T) {
	ops, err := linearize(t, `{ int x;
  if x < 0 --> x := 0; x := 1 [] x >= 0 --> skip fi;
  while x < 5 --> x := x + 1 end
}`)
	if err != nil {
		t.Fatalf("linearize: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 top-level ops, got %d", len(ops))
	}
	br, ok := ops[0].(*Branch)
	if !ok || len(br.Arms) != 2 {
		t.Fatalf("expected a two-armed branch, got %s", ops[0])
	}
	if len(br.Arms[0].Body) != 2 || len(br.Arms[1].Body) != 0 {
		t.Fatalf("unexpected arm bodies %s", br)
	}
	loop, ok := ops[1].(*Loop)
	if !ok || len(loop.Body) != 1 {
		t.Fatalf("expected a loop with one op, got %s", ops[1])
	}
	if got := loop.String(); got != "while (x < 5) --> [x := (x + 1)] end" {
		t.Fatalf("loop=%q", got)
	}
}
