package lambda

func v(name string) Term { return Var{Name: name} }

func selfApp(x string) Term {
	// λx. g(λv. x(x)(v))
	return Abs{Param: x, Body: App{Fn: v("g"), Arg: Abs{Param: "v", Body: Call(v(x), v(x), v("v"))}}}
}

// Prelude defines the pair/list encoding and the fixed-point combinators
// every compiled program relies on:
//
//	Z       strict fixed-point combinator
//	true    false    Church booleans, used as pair selectors
//	nil     cons     head     tail    the state list
//	apply   feeds a list to a curried function one element at a time
//	do      repeats a transition while a predicate holds
func Prelude() []Binding {
	return []Binding{
		{"Z", Abs{Param: "g", Body: App{Fn: selfApp("x"), Arg: selfApp("x")}}},
		{"true", Lam([]string{"x", "y"}, v("x"))},
		{"false", Lam([]string{"x", "y"}, v("y"))},
		{"nil", Abs{Param: "x", Body: v("true")}},
		{"cons", Lam([]string{"x", "y", "f"}, Call(v("f"), v("x"), v("y")))},
		{"head", Abs{Param: "p", Body: Call(v("p"), v("true"))}},
		{"tail", Abs{Param: "p", Body: Call(v("p"), v("false"))}},
		{"apply", App{Fn: v("Z"), Arg: Lam([]string{"g", "f", "s"}, Cond{
			Test: Binary{Op: Eq, L: v("s"), R: v("nil")},
			Then: v("f"),
			Else: Call(v("g"), Call(v("f"), Call(v("head"), v("s"))), Call(v("tail"), v("s"))),
		})}},
		{"lift_do", Lam([]string{"exp", "f", "g", "x"}, Cond{
			Test: Call(v("exp"), v("x")),
			Then: Call(v("g"), Call(v("f"), v("x"))),
			Else: v("x"),
		})},
		{"do", Lam([]string{"exp", "f"}, Call(v("Z"), Call(v("lift_do"), v("exp"), v("f"))))},
	}
}

// Nil, Cons, ApplyTo and Do build references to the prelude.
func Nil() Term { return v("nil") }

func Cons(head, tail Term) Term { return Call(v("cons"), head, tail) }

// List builds cons(items[0])(cons(items[1])(...nil)).
func List(items []Term) Term {
	out := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out
}

func ApplyTo(fn, list Term) Term { return Call(v("apply"), fn, list) }

func Do(pred, step, state Term) Term { return Call(v("do"), pred, step, state) }
