package codegen

import (
	"fmt"
	"os"
	"strings"

	"imperat/internal/lambda"
	"imperat/internal/layout"
	"imperat/internal/linearize"
)

// Artifact is a compiled program: the prelude, the composed program
// function, its result on the default state and the output extraction.
type Artifact struct {
	Module *lambda.Module
	Layout *layout.Layout
	Ops    []linearize.Op
}

// Generate folds ops into the program function and wires it to the
// default state and the observable outputs.
func (cg *CodeGen) Generate(ops []linearize.Op) (*Artifact, error) {
	state := lambda.Var{Name: "s"}
	body, err := cg.Fold(ops, state)
	if err != nil {
		return nil, err
	}

	bindings := lambda.Prelude()
	bindings = append(bindings,
		lambda.Binding{Name: "program", Value: lambda.Abs{Param: "s", Body: body}},
		lambda.Binding{Name: "result", Value: lambda.App{Fn: lambda.Var{Name: "program"}, Arg: cg.defaults()}},
	)
	return &Artifact{
		Module: &lambda.Module{Bindings: bindings, Print: cg.extraction()},
		Layout: cg.layout,
		Ops:    ops,
	}, nil
}

// defaults is the initial state: False for bools, 0 for everything else.
func (cg *CodeGen) defaults() lambda.Term {
	items := make([]lambda.Term, 0, cg.layout.Len())
	for i := cg.layout.Len() - 1; i >= 0; i-- {
		if cg.layout.Slots[i].IsBool() {
			items = append(items, lambda.Bool{Value: false})
		} else {
			items = append(items, lambda.Int{Value: 0})
		}
	}
	return lambda.List(items)
}

// extraction destructures result into a record of the observable slots.
func (cg *CodeGen) extraction() lambda.Term {
	rec := lambda.Record{}
	for _, i := range cg.layout.Observable {
		rec.Keys = append(rec.Keys, cg.layout.Slots[i].Name)
		rec.Values = append(rec.Values, cg.slotVar(i))
	}
	return lambda.ApplyTo(lambda.Lam(cg.params, rec), lambda.Var{Name: "result"})
}

// Source renders the artifact as a Python program.
func (a *Artifact) Source() string {
	return a.Module.Source()
}

// Run evaluates the artifact in-process with at most fuel applications.
func (a *Artifact) Run(fuel int64) (Output, error) {
	val, err := lambda.NewMachine(fuel).Run(a.Module)
	if err != nil {
		return Output{}, err
	}
	rec, ok := val.(*lambda.RecordValue)
	if !ok {
		return Output{}, fmt.Errorf("program produced %s instead of a record", val.Inspect())
	}
	out := Output{Entries: make([]Entry, len(rec.Keys))}
	for i, k := range rec.Keys {
		out.Entries[i] = Entry{Name: k, Value: rec.Values[i]}
	}
	return out, nil
}

// WriteArtifact writes the Python rendering of a to path.
func WriteArtifact(path string, a *Artifact) error {
	if err := os.WriteFile(path, []byte(a.Source()), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %v", err)
	}
	return nil
}

// Entry is one observable variable and its final value.
type Entry struct {
	Name  string
	Value lambda.Value
}

// Output is the observable final state, in declaration order.
type Output struct {
	Entries []Entry
}

// Get returns the value of name.
func (o Output) Get(name string) (lambda.Value, bool) {
	for _, e := range o.Entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// String prints the output the way the Python artifact does: {'x': 7}.
func (o Output) String() string {
	parts := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		parts[i] = "'" + e.Name + "': " + lambda.Repr(e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
