package codegen

import (
	"imperat/internal/checker"
	"imperat/internal/lambda"
	"imperat/internal/layout"
	"imperat/internal/linearize"
)

// CodeGen turns elementary operations into state transitions. A transition
// is a curried function of every slot, last declared slot first, that
// returns the next state list.
type CodeGen struct {
	info   *checker.Info
	layout *layout.Layout

	// params are the transition parameters in binding order: xn .. x1
	params []string
}

// New creates a code generator for a checked and planned program.
func New(info *checker.Info, l *layout.Layout) *CodeGen {
	cg := &CodeGen{info: info, layout: l}
	for i := l.Len() - 1; i >= 0; i-- {
		cg.params = append(cg.params, layout.Param(i))
	}
	return cg
}

// slotVar is the parameter bound to slot i inside a transition.
func (cg *CodeGen) slotVar(i int) lambda.Term {
	return lambda.Var{Name: layout.Param(i)}
}

// identity is the state list rebuilt from the transition parameters.
func (cg *CodeGen) identity() lambda.Term {
	return cg.stateWith(nil)
}

// stateWith rebuilds the state list with the given slots replaced.
func (cg *CodeGen) stateWith(replaced map[int]lambda.Term) lambda.Term {
	items := make([]lambda.Term, 0, cg.layout.Len())
	for i := cg.layout.Len() - 1; i >= 0; i-- {
		if value, ok := replaced[i]; ok {
			items = append(items, value)
			continue
		}
		items = append(items, cg.slotVar(i))
	}
	return lambda.List(items)
}

func (cg *CodeGen) transition(body lambda.Term) lambda.Term {
	return lambda.Lam(cg.params, body)
}

// Transition compiles one operation.
func (cg *CodeGen) Transition(op linearize.Op) (lambda.Term, error) {
	switch op := op.(type) {
	case *linearize.Assign:
		value, err := cg.scalar(op.Value)
		if err != nil {
			return nil, err
		}
		return cg.transition(cg.stateWith(map[int]lambda.Term{op.Slot: value})), nil
	case *linearize.Store:
		return cg.store(op)
	case *linearize.Branch:
		return cg.branch(op)
	case *linearize.Loop:
		return cg.loop(op)
	}
	return nil, internalError("unexpected operation %T", op)
}

// store replaces every cell of an array in one transition. All cells are
// computed from the transition parameters, so a(0:a.1, 1:a.0) swaps.
func (cg *CodeGen) store(op *linearize.Store) (lambda.Term, error) {
	cells, err := cg.cells(op.Value)
	if err != nil {
		return nil, err
	}
	if len(cells) != len(op.Slots) {
		return nil, internalError("%s has %d cells, expected %d", op.Value.String(), len(cells), len(op.Slots))
	}
	replaced := make(map[int]lambda.Term, len(cells))
	for i, slot := range op.Slots {
		replaced[slot] = cells[i]
	}
	return cg.transition(cg.stateWith(replaced)), nil
}

// branch selects, in guard order, the first arm whose condition holds.
// When none holds the state is returned unchanged.
func (cg *CodeGen) branch(br *linearize.Branch) (lambda.Term, error) {
	body := cg.identity()
	for i := len(br.Arms) - 1; i >= 0; i-- {
		arm := br.Arms[i]
		cond, err := cg.scalar(arm.Cond)
		if err != nil {
			return nil, err
		}
		then, err := cg.Fold(arm.Body, cg.identity())
		if err != nil {
			return nil, err
		}
		body = lambda.Cond{Test: cond, Then: then, Else: body}
	}
	return cg.transition(body), nil
}

// loop applies the body while the condition holds, through the do
// combinator: do(λs. cond(s))(λs. body(s))(state).
func (cg *CodeGen) loop(lp *linearize.Loop) (lambda.Term, error) {
	cond, err := cg.scalar(lp.Cond)
	if err != nil {
		return nil, err
	}
	state := lambda.Var{Name: "s"}
	pred := lambda.Abs{Param: "s", Body: lambda.ApplyTo(cg.transition(cond), state)}
	stepBody, err := cg.Fold(lp.Body, state)
	if err != nil {
		return nil, err
	}
	step := lambda.Abs{Param: "s", Body: stepBody}
	return cg.transition(lambda.Do(pred, step, cg.identity())), nil
}

// Fold threads state through every operation in order:
// apply(Tk)(...apply(T1)(state)).
func (cg *CodeGen) Fold(ops []linearize.Op, state lambda.Term) (lambda.Term, error) {
	for _, op := range ops {
		t, err := cg.Transition(op)
		if err != nil {
			return nil, err
		}
		state = lambda.ApplyTo(t, state)
	}
	return state, nil
}
