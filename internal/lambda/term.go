// Package lambda is the target language of the compiler: a small strict
// lambda calculus with ints, bools, strings and records. Terms render as
// Python source and can also be evaluated directly.
package lambda

// Term is a node of the target language.
type Term interface {
	term()
}

type (
	Var struct{ Name string }
	Abs struct {
		Param string
		Body  Term
	}
	App struct{ Fn, Arg Term }
	Int struct{ Value int64 }
	Bool struct{ Value bool }
	Str struct{ Value string }

	Unary struct {
		Op UnaryOp
		X  Term
	}
	Binary struct {
		Op   BinaryOp
		L, R Term
	}
	// Cond evaluates Test first and then only one of the branches.
	Cond struct{ Test, Then, Else Term }
	// Record builds an ordered key/value mapping.
	Record struct {
		Keys   []string
		Values []Term
	}
)

func (Var) term()    {}
func (Abs) term()    {}
func (App) term()    {}
func (Int) term()    {}
func (Bool) term()   {}
func (Str) term()    {}
func (Unary) term()  {}
func (Binary) term() {}
func (Cond) term()   {}
func (Record) term() {}

type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
	// Concat joins the string forms of both operands.
	Concat
)

// Lam builds a curried abstraction over params, outermost first. With no
// params it returns body unchanged.
func Lam(params []string, body Term) Term {
	for i := len(params) - 1; i >= 0; i-- {
		body = Abs{Param: params[i], Body: body}
	}
	return body
}

// Call applies fn to args one at a time.
func Call(fn Term, args ...Term) Term {
	for _, a := range args {
		fn = App{Fn: fn, Arg: a}
	}
	return fn
}

// Binding names a top-level definition.
type Binding struct {
	Name  string
	Value Term
}

// Module is a whole target program: bindings evaluated in order, then a
// final expression whose value is printed.
type Module struct {
	Bindings []Binding
	Print    Term
}
