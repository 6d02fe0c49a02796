// Package compiler runs the whole pipeline: parse, check, plan the state
// layout, linearize and generate.
package compiler

import (
	"time"

	"imperat/internal/ast"
	"imperat/internal/checker"
	"imperat/internal/codegen"
	"imperat/internal/layout"
	"imperat/internal/linearize"
	"imperat/internal/parser"
)

// Stage names a pipeline step, for timing reports.
type Stage string

const (
	StageParse     Stage = "parse"
	StageCheck     Stage = "check"
	StageLayout    Stage = "layout"
	StageLinearize Stage = "linearize"
	StageGenerate  Stage = "generate"
)

// Timing records how long one stage took.
type Timing struct {
	Stage    Stage
	Duration time.Duration
}

// Result holds every intermediate product of a successful compilation.
type Result struct {
	AST      *ast.Block
	Info     *checker.Info
	Layout   *layout.Layout
	Ops      []linearize.Op
	Artifact *codegen.Artifact
	Timings  []Timing
}

// Check parses and type-checks src without generating code.
func Check(src string) (*ast.Block, *checker.Info, error) {
	root, err := parser.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	info, err := checker.Check(root)
	if err != nil {
		return nil, nil, err
	}
	return root, info, nil
}

// Compile runs every stage on src and stops at the first error.
func Compile(src string) (*Result, error) {
	res := &Result{}
	timed := func(stage Stage, fn func() error) error {
		start := time.Now()
		err := fn()
		res.Timings = append(res.Timings, Timing{Stage: stage, Duration: time.Since(start)})
		return err
	}

	if err := timed(StageParse, func() (err error) {
		res.AST, err = parser.Parse(src)
		return err
	}); err != nil {
		return nil, err
	}
	if err := timed(StageCheck, func() (err error) {
		res.Info, err = checker.Check(res.AST)
		return err
	}); err != nil {
		return nil, err
	}
	_ = timed(StageLayout, func() error {
		res.Layout = layout.Plan(res.AST, res.Info)
		return nil
	})
	if err := timed(StageLinearize, func() (err error) {
		res.Ops, err = linearize.Linearize(res.AST, res.Info, res.Layout)
		return err
	}); err != nil {
		return nil, err
	}
	if err := timed(StageGenerate, func() (err error) {
		res.Artifact, err = codegen.New(res.Info, res.Layout).Generate(res.Ops)
		return err
	}); err != nil {
		return nil, err
	}
	return res, nil
}
