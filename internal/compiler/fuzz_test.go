package compiler

import (
	"testing"
)

// FuzzCompileNoPanic ensures the whole pipeline, including evaluation of
// the artifact, never panics for arbitrary input.
func FuzzCompileNoPanic(f *testing.F) {
	seeds := []string{
		"{ skip }",
		"{ int x; x := 3+4 }",
		"{ function[..2] a; int y; a := 1,2,3; y := a@1 }",
		"{ function[..1] a; a := 1,2,3 }",
		"{ int i; while i < 3 --> i := i + 1 end }",
		"{ int x; if x < 0 --> x := 0 [] x >= 0 --> x := 1 fi }",
		"{ function[..1] a; int i; a := a(i:3)[0:a.i] }",
		"{ bool b; b := (1, 2) == (1, 2) }",
		"{ int x; { bool x; x := !x }; print \"x\" + x }",
		"{ int c; c := d }",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("compiler panicked for input %q: %v", input, r)
			}
		}()

		res, err := Compile(input)
		if err != nil {
			return
		}
		_ = res.Artifact.Source()
		_, _ = res.Artifact.Run(10_000)
	})
}
