package lambda

import (
	"errors"
)

// TRUE and FALSE are shared; booleans carry no identity.
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// DefaultMaxDepth bounds how many applications may be in progress at once.
// Evaluation recurses on the Go stack, which it must not overflow.
const DefaultMaxDepth = 200_000

// Machine evaluates terms under a step budget. Every function application
// costs one step.
type Machine struct {
	limit    int64
	steps    int64
	depth    int
	maxDepth int
}

// NewMachine returns a machine allowed to perform fuel applications.
// A non-positive fuel means no step limit; nesting stays bounded by
// DefaultMaxDepth.
func NewMachine(fuel int64) *Machine {
	return &Machine{limit: fuel, maxDepth: DefaultMaxDepth}
}

// WithMaxDepth replaces the nesting bound.
func (m *Machine) WithMaxDepth(n int) *Machine {
	m.maxDepth = n
	return m
}

// Steps is the number of applications performed so far.
func (m *Machine) Steps() int64 { return m.steps }

// Run evaluates every binding of m in order and returns the value of its
// final print expression.
func (m *Machine) Run(mod *Module) (Value, error) {
	var env *Environment
	for _, b := range mod.Bindings {
		v := m.Eval(b.Value, env)
		if err := asError(v); err != nil {
			return nil, err
		}
		env = env.Extend(b.Name, v)
	}
	if mod.Print == nil {
		return nil, nil
	}
	v := m.Eval(mod.Print, env)
	if err := asError(v); err != nil {
		return nil, err
	}
	return v, nil
}

func asError(v Value) error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return nil
}

// Eval evaluates t strictly, left to right.
func (m *Machine) Eval(t Term, env *Environment) Value {
	switch t := t.(type) {
	case Var:
		if v, ok := env.Get(t.Name); ok {
			return v
		}
		return newError("name '%s' is not defined", t.Name)
	case Abs:
		return &Closure{Param: t.Param, Body: t.Body, Env: env}
	case App:
		fn := m.Eval(t.Fn, env)
		if isError(fn) {
			return fn
		}
		arg := m.Eval(t.Arg, env)
		if isError(arg) {
			return arg
		}
		return m.apply(fn, arg)
	case Int:
		return &Integer{Value: t.Value}
	case Bool:
		return nativeBool(t.Value)
	case Str:
		return &String{Value: t.Value}
	case Unary:
		x := m.Eval(t.X, env)
		if isError(x) {
			return x
		}
		return evalUnary(t.Op, x)
	case Binary:
		return m.evalBinary(t, env)
	case Cond:
		test := m.Eval(t.Test, env)
		if isError(test) {
			return test
		}
		ok, err := truthy(test)
		if err != nil {
			return err
		}
		if ok {
			return m.Eval(t.Then, env)
		}
		return m.Eval(t.Else, env)
	case Record:
		rec := &RecordValue{Keys: t.Keys, Values: make([]Value, len(t.Values))}
		for i, vt := range t.Values {
			v := m.Eval(vt, env)
			if isError(v) {
				return v
			}
			rec.Values[i] = v
		}
		return rec
	}
	return newError("unknown term %T", t)
}

func (m *Machine) apply(fn, arg Value) Value {
	m.steps++
	if m.limit > 0 && m.steps > m.limit {
		return &Error{Kind: ErrFuelExhausted, Message: ErrFuelExhausted.Error()}
	}
	c, ok := fn.(*Closure)
	if !ok {
		return newError("'%s' object is not callable", typeName(fn))
	}
	if m.depth >= m.maxDepth {
		return &Error{Kind: ErrDepthExceeded, Message: ErrDepthExceeded.Error()}
	}
	m.depth++
	defer func() { m.depth-- }()
	return m.Eval(c.Body, c.Env.Extend(c.Param, arg))
}

func typeName(v Value) string {
	switch v.Type() {
	case INTEGER_VAL:
		return "int"
	case BOOLEAN_VAL:
		return "bool"
	case STRING_VAL:
		return "str"
	case RECORD_VAL:
		return "dict"
	}
	return "function"
}

func truthy(v Value) (bool, *Error) {
	switch v := v.(type) {
	case *Boolean:
		return v.Value, nil
	case *Integer:
		return v.Value != 0, nil
	case *String:
		return v.Value != "", nil
	}
	return false, newError("cannot use %s as a condition", typeName(v))
}

func evalUnary(op UnaryOp, x Value) Value {
	switch op {
	case Neg:
		if i, ok := x.(*Integer); ok {
			return &Integer{Value: -i.Value}
		}
		return newError("bad operand type for unary -: '%s'", typeName(x))
	case Not:
		b, err := truthy(x)
		if err != nil {
			return err
		}
		return nativeBool(!b)
	}
	return newError("unknown unary operator %d", op)
}

func (m *Machine) evalBinary(t Binary, env *Environment) Value {
	l := m.Eval(t.L, env)
	if isError(l) {
		return l
	}
	// and/or only evaluate the right operand when it decides the result
	if t.Op == And || t.Op == Or {
		b, err := truthy(l)
		if err != nil {
			return err
		}
		if b == (t.Op == Or) {
			return l
		}
		return m.Eval(t.R, env)
	}
	r := m.Eval(t.R, env)
	if isError(r) {
		return r
	}

	switch t.Op {
	case Concat:
		return &String{Value: l.Inspect() + r.Inspect()}
	case Eq:
		return nativeBool(equal(l, r))
	case Ne:
		return nativeBool(!equal(l, r))
	}

	li, lok := l.(*Integer)
	ri, rok := r.(*Integer)
	if !lok || !rok {
		return newError("unsupported operand types: '%s' and '%s'", typeName(l), typeName(r))
	}
	switch t.Op {
	case Add:
		return &Integer{Value: li.Value + ri.Value}
	case Sub:
		return &Integer{Value: li.Value - ri.Value}
	case Mul:
		return &Integer{Value: li.Value * ri.Value}
	case Lt:
		return nativeBool(li.Value < ri.Value)
	case Le:
		return nativeBool(li.Value <= ri.Value)
	case Gt:
		return nativeBool(li.Value > ri.Value)
	case Ge:
		return nativeBool(li.Value >= ri.Value)
	}
	return newError("unknown binary operator %d", t.Op)
}

// equal follows Python: closures compare by identity, bools are ints.
func equal(l, r Value) bool {
	switch l := l.(type) {
	case *Closure:
		rc, ok := r.(*Closure)
		return ok && l == rc
	case *String:
		rs, ok := r.(*String)
		return ok && l.Value == rs.Value
	}
	li, lok := numeric(l)
	ri, rok := numeric(r)
	return lok && rok && li == ri
}

func numeric(v Value) (int64, bool) {
	switch v := v.(type) {
	case *Integer:
		return v.Value, true
	case *Boolean:
		if v.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// IsFuelExhausted reports whether err came from running out of steps.
func IsFuelExhausted(err error) bool {
	return errors.Is(err, ErrFuelExhausted)
}
