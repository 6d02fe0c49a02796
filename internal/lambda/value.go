package lambda

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies what kind of value we have
type ValueType string

const (
	INTEGER_VAL ValueType = "INTEGER"
	BOOLEAN_VAL ValueType = "BOOLEAN"
	STRING_VAL  ValueType = "STRING"
	CLOSURE_VAL ValueType = "CLOSURE"
	RECORD_VAL  ValueType = "RECORD"
	ERROR_VAL   ValueType = "ERROR"
)

// Value is a runtime value of the target language.
type Value interface {
	Type() ValueType
	// Inspect renders the value the way Python's str() would.
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ValueType { return INTEGER_VAL }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}

type String struct {
	Value string
}

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return s.Value }

// Closure is an abstraction together with the environment it was built in.
// Closures compare by identity.
type Closure struct {
	Param string
	Body  Term
	Env   *Environment
}

func (c *Closure) Type() ValueType { return CLOSURE_VAL }
func (c *Closure) Inspect() string { return "<function lambda " + c.Param + ">" }

// RecordValue is the ordered mapping a Record term evaluates to.
type RecordValue struct {
	Keys   []string
	Values []Value
}

func (r *RecordValue) Type() ValueType { return RECORD_VAL }
func (r *RecordValue) Inspect() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pythonString(k))
		b.WriteString(": ")
		b.WriteString(Repr(r.Values[i]))
	}
	b.WriteByte('}')
	return b.String()
}

// Repr renders v the way Python's repr() would inside a container.
func Repr(v Value) string {
	if s, ok := v.(*String); ok {
		return pythonString(s.Value)
	}
	return v.Inspect()
}

// ErrFuelExhausted is reported when evaluation runs out of steps.
var ErrFuelExhausted = errors.New("evaluation step budget exhausted")

// ErrDepthExceeded is reported when applications nest deeper than the
// machine allows.
var ErrDepthExceeded = errors.New("evaluation nesting too deep")

// ErrRuntime wraps every other evaluation failure.
var ErrRuntime = errors.New("runtime error")

// Error is an evaluation failure travelling through Eval as a value.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Type() ValueType { return ERROR_VAL }
func (e *Error) Inspect() string { return "ERROR: " + e.Message }
func (e *Error) Error() string   { return e.Message }
func (e *Error) Unwrap() error   { return e.Kind }

func newError(format string, a ...interface{}) *Error {
	return &Error{Kind: ErrRuntime, Message: fmt.Sprintf(format, a...)}
}

func isError(v Value) bool {
	return v != nil && v.Type() == ERROR_VAL
}

// Environment is an immutable chain of bindings. Extending it never changes
// environments already captured by closures.
type Environment struct {
	name  string
	value Value
	outer *Environment
}

// Get looks up a name, innermost binding first.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if env.name == name {
			return env.value, true
		}
	}
	return nil, false
}

// Extend returns a new environment with name bound to value.
func (e *Environment) Extend(name string, value Value) *Environment {
	return &Environment{name: name, value: value, outer: e}
}
