package codegen

import (
	"imperat/internal/ast"
	"imperat/internal/diag"
	"imperat/internal/lambda"
	"imperat/internal/typesys"
)

var binaryOps = map[ast.Operator]lambda.BinaryOp{
	ast.OpPlus:     lambda.Add,
	ast.OpMinus:    lambda.Sub,
	ast.OpMult:     lambda.Mul,
	ast.OpLess:     lambda.Lt,
	ast.OpLeq:      lambda.Le,
	ast.OpGreater:  lambda.Gt,
	ast.OpGeq:      lambda.Ge,
	ast.OpEqual:    lambda.Eq,
	ast.OpNotEqual: lambda.Ne,
	ast.OpAnd:      lambda.And,
	ast.OpOr:       lambda.Or,
}

// scalar compiles an int, bool or string expression.
func (cg *CodeGen) scalar(e ast.Expression) (lambda.Term, error) {
	switch e := e.(type) {
	case *ast.Identifier:
		sym, ok := cg.info.Uses[e]
		if !ok {
			return nil, nodeError(diag.ErrInternal, e, "unresolved identifier %s", e.Value)
		}
		slot, ok := cg.layout.Index(sym, 0)
		if !ok || cg.info.Table.Symbol(sym).Type.IsArrayLike() {
			return nil, nodeError(diag.ErrInternal, e, "%s is not a scalar", e.Value)
		}
		return cg.slotVar(slot), nil
	case *ast.IntegerLiteral:
		return lambda.Int{Value: e.Value}, nil
	case *ast.Boolean:
		return lambda.Bool{Value: e.Value}, nil
	case *ast.StringLiteral:
		return lambda.Str{Value: e.Value}, nil
	case *ast.PrefixExpression:
		x, err := cg.scalar(e.Right)
		if err != nil {
			return nil, err
		}
		if e.Operator == ast.OpNot {
			return lambda.Unary{Op: lambda.Not, X: x}, nil
		}
		return lambda.Unary{Op: lambda.Neg, X: x}, nil
	case *ast.InfixExpression:
		return cg.infix(e)
	case *ast.IndexExpression:
		return cg.read(e)
	}
	return nil, nodeError(diag.ErrInternal, e, "%s is not a scalar expression", e.String())
}

func (cg *CodeGen) infix(e *ast.InfixExpression) (lambda.Term, error) {
	if (e.Operator == ast.OpEqual || e.Operator == ast.OpNotEqual) && cg.info.TypeOf(e.Left).IsArrayLike() {
		return cg.arrayEqual(e)
	}
	op, ok := binaryOps[e.Operator]
	if cg.info.Concat[e] {
		op, ok = lambda.Concat, true
	}
	if !ok {
		return nil, nodeError(diag.ErrInternal, e, "operator %s has no scalar form", e.Operator.Symbol())
	}
	l, err := cg.scalar(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := cg.scalar(e.Right)
	if err != nil {
		return nil, err
	}
	return lambda.Binary{Op: op, L: l, R: r}, nil
}

// arrayEqual compares two arrays of the same shape cell by cell.
func (cg *CodeGen) arrayEqual(e *ast.InfixExpression) (lambda.Term, error) {
	l, err := cg.cells(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := cg.cells(e.Right)
	if err != nil {
		return nil, err
	}
	if len(l) != len(r) {
		return nil, nodeError(diag.ErrInternal, e, "comparing arrays of %d and %d cells", len(l), len(r))
	}
	var all lambda.Term = lambda.Binary{Op: lambda.Eq, L: l[0], R: r[0]}
	for i := 1; i < len(l); i++ {
		all = lambda.Binary{Op: lambda.And, L: all, R: lambda.Binary{Op: lambda.Eq, L: l[i], R: r[i]}}
	}
	if e.Operator == ast.OpNotEqual {
		return lambda.Unary{Op: lambda.Not, X: all}, nil
	}
	return all, nil
}

// read compiles a.i. A literal index picks the cell directly; a computed
// one selects among all cells and yields 0 when out of range.
func (cg *CodeGen) read(e *ast.IndexExpression) (lambda.Term, error) {
	cells, err := cg.cells(e.Function)
	if err != nil {
		return nil, err
	}
	if lit, ok := e.Index.(*ast.IntegerLiteral); ok {
		if lit.Value >= int64(len(cells)) {
			return nil, outOfRange(lit, cg.info.TypeOf(e.Function))
		}
		return cells[lit.Value], nil
	}
	idx, err := cg.scalar(e.Index)
	if err != nil {
		return nil, err
	}
	var out lambda.Term = lambda.Int{Value: 0}
	for k := len(cells) - 1; k >= 0; k-- {
		out = lambda.Cond{Test: lambda.Binary{Op: lambda.Eq, L: idx, R: lambda.Int{Value: int64(k)}}, Then: cells[k], Else: out}
	}
	return out, nil
}

// cells compiles an array-valued expression into one term per cell.
func (cg *CodeGen) cells(e ast.Expression) ([]lambda.Term, error) {
	switch e := e.(type) {
	case *ast.Identifier:
		sym, ok := cg.info.Uses[e]
		if !ok {
			return nil, nodeError(diag.ErrInternal, e, "unresolved identifier %s", e.Value)
		}
		typ := cg.info.Table.Symbol(sym).Type
		if typ.Kind != typesys.Array {
			return nil, nodeError(diag.ErrInternal, e, "%s is not an array", e.Value)
		}
		out := make([]lambda.Term, 0, typ.Cells())
		for cell := int64(0); cell < typ.Cells(); cell++ {
			slot, ok := cg.layout.Index(sym, cell)
			if !ok {
				return nil, nodeError(diag.ErrInternal, e, "no slot for %s cell %d", e.Value, cell)
			}
			out = append(out, cg.slotVar(slot))
		}
		return out, nil
	case *ast.InfixExpression:
		if e.Operator != ast.OpComma {
			break
		}
		elems := ast.FlattenComma(e)
		out := make([]lambda.Term, 0, len(elems))
		for _, el := range elems {
			t, err := cg.scalar(el)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case *ast.WriteExpression:
		base, err := cg.cells(e.Function)
		if err != nil {
			return nil, err
		}
		for _, el := range e.Elems {
			if base, err = cg.write(base, el.Index, el.Value, cg.info.TypeOf(e.Function)); err != nil {
				return nil, err
			}
		}
		return base, nil
	case *ast.ModifyExpression:
		base, err := cg.cells(e.Function)
		if err != nil {
			return nil, err
		}
		return cg.write(base, e.Index, e.Value, cg.info.TypeOf(e.Function))
	}
	return nil, nodeError(diag.ErrInternal, e, "%s is not an array expression", e.String())
}

// write returns a copy of base with the cell at index replaced by value.
// A computed index out of range leaves every cell unchanged.
func (cg *CodeGen) write(base []lambda.Term, index, value ast.Expression, typ typesys.Type) ([]lambda.Term, error) {
	val, err := cg.scalar(value)
	if err != nil {
		return nil, err
	}
	out := make([]lambda.Term, len(base))
	copy(out, base)
	if lit, ok := index.(*ast.IntegerLiteral); ok {
		if lit.Value >= int64(len(base)) {
			return nil, outOfRange(lit, typ)
		}
		out[lit.Value] = val
		return out, nil
	}
	idx, err := cg.scalar(index)
	if err != nil {
		return nil, err
	}
	for k := range out {
		out[k] = lambda.Cond{Test: lambda.Binary{Op: lambda.Eq, L: idx, R: lambda.Int{Value: int64(k)}}, Then: val, Else: base[k]}
	}
	return out, nil
}
