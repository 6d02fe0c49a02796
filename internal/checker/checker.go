package checker

import (
	"errors"
	"fmt"

	"imperat/internal/ast"
	"imperat/internal/diag"
	"imperat/internal/scope"
	"imperat/internal/typesys"
)

// Info holds the results of checking one program. The AST is never
// modified: everything the later stages need lives in these side tables.
type Info struct {
	// Types maps every checked expression to its synthesized type.
	Types map[ast.Expression]typesys.Type
	// Defs maps declaring identifiers to their symbols.
	Defs map[*ast.Identifier]scope.SymbolID
	// Uses maps every other identifier, including assignment targets.
	Uses map[*ast.Identifier]scope.SymbolID
	// Frames records the frame opened for each block.
	Frames map[*ast.Block]scope.FrameID
	// Concat marks + nodes that turned out to concatenate strings.
	Concat map[*ast.InfixExpression]bool
	// Table owns every frame and symbol the checker declared.
	Table *scope.Table
}

func newInfo() *Info {
	return &Info{
		Types:  make(map[ast.Expression]typesys.Type),
		Defs:   make(map[*ast.Identifier]scope.SymbolID),
		Uses:   make(map[*ast.Identifier]scope.SymbolID),
		Frames: make(map[*ast.Block]scope.FrameID),
		Concat: make(map[*ast.InfixExpression]bool),
		Table:  scope.NewTable(),
	}
}

// TypeOf returns the recorded type of e.
func (info *Info) TypeOf(e ast.Expression) typesys.Type {
	return info.Types[e]
}

// SymbolOf resolves an identifier, whether declaring or using.
func (info *Info) SymbolOf(id *ast.Identifier) (scope.Symbol, bool) {
	if sym, ok := info.Uses[id]; ok {
		return info.Table.Symbol(sym), true
	}
	if sym, ok := info.Defs[id]; ok {
		return info.Table.Symbol(sym), true
	}
	return scope.Symbol{}, false
}

type checker struct {
	info  *Info
	frame scope.FrameID
}

// Check type-checks the program rooted at root. It stops at the first error.
func Check(root *ast.Block) (*Info, error) {
	c := &checker{info: newInfo(), frame: scope.NoFrame}
	if err := c.block(root); err != nil {
		return nil, err
	}
	return c.info, nil
}

func (c *checker) block(b *ast.Block) error {
	parent := c.frame
	c.frame = c.info.Table.Open(parent)
	c.info.Frames[b] = c.frame
	defer func() { c.frame = parent }()

	if b.Decls != nil {
		for _, d := range b.Decls.Items {
			typ := typesys.FromNode(d.Type)
			for _, name := range d.Names {
				id, err := c.info.Table.Declare(c.frame, name.Value, typ, d.Type.Token.Line)
				if err != nil {
					var dup *scope.DuplicateError
					if errors.As(err, &dup) {
						return diag.Errorf(diag.ErrDuplicateDeclaration, name.Token.Line, name.Token.Column,
							"Variable %s is already declared in the block at line %d", name.Value, dup.First.Line)
					}
					return err
				}
				c.info.Defs[name] = id
			}
		}
	}
	return c.stmt(b.Body)
}

func (c *checker) stmt(s ast.Statement) error {
	switch s := s.(type) {
	case *ast.Block:
		return c.block(s)
	case *ast.Sequencing:
		if err := c.stmt(s.Left); err != nil {
			return err
		}
		return c.stmt(s.Right)
	case *ast.Skip:
		return nil
	case *ast.Print:
		_, err := c.expr(s.Value)
		return positionOnly(err)
	case *ast.Assign:
		return c.assign(s)
	case *ast.If:
		for _, g := range s.Guards {
			typ, err := c.expr(g.Cond)
			if err != nil {
				return err
			}
			if typ != typesys.BoolType {
				return guardError(g.Cond, "if")
			}
			if err := c.stmt(g.Body); err != nil {
				return err
			}
		}
		return nil
	case *ast.While:
		typ, err := c.expr(s.Cond)
		if err != nil {
			return err
		}
		if typ != typesys.BoolType {
			return guardError(s.Cond, "while")
		}
		return c.stmt(s.Body)
	}
	return diag.Errorf(diag.ErrInternal, 0, 0, "unexpected statement %T", s)
}

func guardError(cond ast.Expression, keyword string) error {
	pos := cond.Pos()
	err := diag.Errorf(diag.ErrGuardNotBoolean, pos.Line, pos.Column, "%s guard must be bool", keyword)
	err.Context = cond.String()
	return err
}

// positionOnly narrows an undeclared-variable error to its position,
// dropping the variable name.
func positionOnly(err error) error {
	var ce *diag.CodeError
	if err == nil || !errors.As(err, &ce) || !errors.Is(err, diag.ErrUndeclaredVariable) {
		return err
	}
	return diag.Errorf(diag.ErrUndeclaredVariable, ce.Line, ce.Column,
		"Variable not declared at line %d and column %d", ce.Line, ce.Column)
}

func (c *checker) assign(s *ast.Assign) error {
	sym, ok := c.info.Table.Lookup(c.frame, s.Name.Value)
	if !ok {
		return diag.Errorf(diag.ErrUndeclaredVariable, s.Token.Line, s.Token.Column,
			"Variable %s not declared at line %d and column %d", s.Name.Value, s.Token.Line, s.Token.Column)
	}
	c.info.Uses[s.Name] = sym.ID

	rhs, err := c.expr(s.Value)
	if err != nil {
		return positionOnly(err)
	}
	if sym.Type.Kind == typesys.Array && rhs.Kind == typesys.List {
		// The element count is verified when the assignment is split into
		// cells, which reports it as an arity mismatch.
		return nil
	}
	if !typesys.Assignable(sym.Type, rhs) {
		return diag.Errorf(diag.ErrTypeMismatch, s.Token.Line, s.Token.Column,
			"Type error. Variable %s has different type than expression at line %d and column %d",
			s.Name.Value, s.Token.Line, s.Token.Column)
	}
	return nil
}

func (c *checker) expr(e ast.Expression) (typesys.Type, error) {
	typ, err := c.synth(e)
	if err != nil {
		return typesys.Type{}, err
	}
	c.info.Types[e] = typ
	return typ, nil
}

func (c *checker) synth(e ast.Expression) (typesys.Type, error) {
	switch e := e.(type) {
	case *ast.Identifier:
		sym, ok := c.info.Table.Lookup(c.frame, e.Value)
		if !ok {
			return typesys.Type{}, diag.Errorf(diag.ErrUndeclaredVariable, e.Token.Line, e.Token.Column,
				"Variable %s not declared at line %d and column %d", e.Value, e.Token.Line, e.Token.Column)
		}
		c.info.Uses[e] = sym.ID
		return sym.Type, nil
	case *ast.IntegerLiteral:
		return typesys.IntType, nil
	case *ast.Boolean:
		return typesys.BoolType, nil
	case *ast.StringLiteral:
		return typesys.StringType, nil
	case *ast.PrefixExpression:
		return c.prefix(e)
	case *ast.InfixExpression:
		return c.infix(e)
	case *ast.IndexExpression:
		return c.index(e)
	case *ast.WriteExpression:
		base, err := c.writableBase(e.Function)
		if err != nil {
			return typesys.Type{}, err
		}
		for _, el := range e.Elems {
			if err := c.expectInt(el.Index); err != nil {
				return typesys.Type{}, err
			}
			if err := c.expectInt(el.Value); err != nil {
				return typesys.Type{}, err
			}
		}
		return base, nil
	case *ast.ModifyExpression:
		base, err := c.writableBase(e.Function)
		if err != nil {
			return typesys.Type{}, err
		}
		if err := c.expectInt(e.Index); err != nil {
			return typesys.Type{}, err
		}
		if err := c.expectInt(e.Value); err != nil {
			return typesys.Type{}, err
		}
		return base, nil
	}
	return typesys.Type{}, diag.Errorf(diag.ErrInternal, 0, 0, "unexpected expression %T", e)
}

func typeError(e ast.Node) *diag.CodeError {
	pos := e.Pos()
	err := diag.Errorf(diag.ErrTypeMismatch, pos.Line, pos.Column,
		"Type error at line %d and column %d", pos.Line, pos.Column)
	err.Context = e.String()
	return err
}

func (c *checker) prefix(e *ast.PrefixExpression) (typesys.Type, error) {
	operand, err := c.expr(e.Right)
	if err != nil {
		return typesys.Type{}, err
	}
	switch {
	case e.Operator == ast.OpNot && operand == typesys.BoolType:
		return typesys.BoolType, nil
	case e.Operator == ast.OpMinus && operand == typesys.IntType:
		return typesys.IntType, nil
	}
	return typesys.Type{}, diag.Errorf(diag.ErrTypeMismatch, e.Token.Line, e.Token.Column,
		"Type error in line %d and column %d", e.Token.Line, e.Token.Column)
}

func (c *checker) infix(e *ast.InfixExpression) (typesys.Type, error) {
	lt, err := c.expr(e.Left)
	if err != nil {
		return typesys.Type{}, err
	}
	rt, err := c.expr(e.Right)
	if err != nil {
		return typesys.Type{}, err
	}

	if e.Operator == ast.OpPlus && (lt == typesys.StringType || rt == typesys.StringType) {
		c.info.Concat[e] = true
		return typesys.StringType, nil
	}

	both := func(want typesys.Type) bool { return lt == want && rt == want }
	switch e.Operator {
	case ast.OpPlus, ast.OpMinus, ast.OpMult:
		if both(typesys.IntType) {
			return typesys.IntType, nil
		}
	case ast.OpLess, ast.OpLeq, ast.OpGreater, ast.OpGeq:
		if both(typesys.IntType) {
			return typesys.BoolType, nil
		}
	case ast.OpEqual, ast.OpNotEqual:
		if lt == rt {
			return typesys.BoolType, nil
		}
	case ast.OpAnd, ast.OpOr:
		if both(typesys.BoolType) {
			return typesys.BoolType, nil
		}
	case ast.OpComma:
		switch {
		case both(typesys.IntType):
			return typesys.ListOf(2), nil
		case lt == typesys.IntType && rt.Kind == typesys.List:
			return typesys.ListOf(rt.N + 1), nil
		case lt.Kind == typesys.List && rt == typesys.IntType:
			return typesys.ListOf(lt.N + 1), nil
		}
		return typesys.Type{}, diag.Errorf(diag.ErrNotIntegerList, e.Token.Line, e.Token.Column,
			"There is no integer list at line %d and column %d", e.Token.Line, e.Token.Column)
	default:
		return typesys.Type{}, diag.Errorf(diag.ErrInternal, e.Token.Line, e.Token.Column,
			"unknown operator %s", e.Operator)
	}
	return typesys.Type{}, typeError(e)
}

func (c *checker) index(e *ast.IndexExpression) (typesys.Type, error) {
	base, err := c.expr(e.Function)
	if err != nil {
		return typesys.Type{}, err
	}
	if !base.IsArrayLike() {
		name := "<expr>"
		if id, ok := e.Function.(*ast.Identifier); ok {
			name = id.Value
		}
		pos := e.Function.Pos()
		return typesys.Type{}, diag.Errorf(diag.ErrNotIndexable, pos.Line, pos.Column,
			"Error. %s is not indexable at line %d and column %d", name, pos.Line, pos.Column)
	}
	idx, err := c.expr(e.Index)
	if err != nil {
		return typesys.Type{}, err
	}
	if idx != typesys.IntType {
		pos := e.Index.Pos()
		return typesys.Type{}, diag.Errorf(diag.ErrIndexNotInt, pos.Line, pos.Column,
			"Error. Not integer index for function at line %d and column %d", pos.Line, pos.Column)
	}
	return typesys.IntType, nil
}

func (c *checker) writableBase(base ast.Expression) (typesys.Type, error) {
	typ, err := c.expr(base)
	if err != nil {
		return typesys.Type{}, err
	}
	if !typ.IsArrayLike() {
		pos := base.Pos()
		return typesys.Type{}, diag.Errorf(diag.ErrNotIndexable, pos.Line, pos.Column,
			"The function modification operator is used on a non-function variable at line %d and column %d",
			pos.Line, pos.Column)
	}
	return typ, nil
}

func (c *checker) expectInt(e ast.Expression) error {
	typ, err := c.expr(e)
	if err != nil {
		return err
	}
	if typ != typesys.IntType {
		pos := e.Pos()
		return diag.Errorf(diag.ErrExpectedInt, pos.Line, pos.Column,
			"Expected expression of type int at line %d and column %d", pos.Line, pos.Column)
	}
	return nil
}

// String summarizes the symbols of every frame, mostly for debugging.
func (info *Info) String() string {
	return fmt.Sprintf("%d expressions typed\n%s", len(info.Types), info.Table)
}
