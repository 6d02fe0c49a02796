package linearize

import (
	"strings"

	"imperat/internal/ast"
	"imperat/internal/checker"
	"imperat/internal/diag"
	"imperat/internal/layout"
	"imperat/internal/token"
	"imperat/internal/typesys"
)

// Op is an elementary operation: Assign, Store, Branch or Loop.
type Op interface {
	String() string
	op()
}

// Assign stores one int or bool value into one slot.
type Assign struct {
	Slot  int
	Name  string
	Value ast.Expression
	Pos   token.Position
}

// Store writes every cell of an array-valued expression in one step, so
// each cell is computed from the state before the assignment.
type Store struct {
	Slots []int
	Names []string
	Value ast.Expression
	Pos   token.Position
}

// Arm is one guard of a Branch.
type Arm struct {
	Cond ast.Expression
	Body []Op
}

// Branch runs the body of the first arm whose condition holds.
type Branch struct {
	Arms []Arm
	Pos  token.Position
}

// Loop runs Body while Cond holds.
type Loop struct {
	Cond ast.Expression
	Body []Op
	Pos  token.Position
}

func (*Assign) op() {}
func (*Store) op()  {}
func (*Branch) op() {}
func (*Loop) op()   {}

func (a *Assign) String() string {
	return a.Name + " := " + a.Value.String()
}

func (s *Store) String() string {
	return strings.Join(s.Names, ", ") + " := " + s.Value.String()
}

func (b *Branch) String() string {
	arms := make([]string, len(b.Arms))
	for i, arm := range b.Arms {
		arms[i] = arm.Cond.String() + " --> " + join(arm.Body)
	}
	return "if " + strings.Join(arms, " [] ") + " fi"
}

func (l *Loop) String() string {
	return "while " + l.Cond.String() + " --> " + join(l.Body) + " end"
}

func join(ops []Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

// String renders an operation list, one operation per line.
func String(ops []Op) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type linearizer struct {
	info   *checker.Info
	layout *layout.Layout
}

// Linearize flattens the instructions of root into elementary operations.
// A comma chain assigned to an array is split into one Assign per cell;
// any other array-valued right-hand side becomes a single Store.
func Linearize(root *ast.Block, info *checker.Info, l *layout.Layout) ([]Op, error) {
	lz := &linearizer{info: info, layout: l}
	return lz.stmt(root.Body, nil)
}

func (lz *linearizer) stmt(s ast.Statement, out []Op) ([]Op, error) {
	switch s := s.(type) {
	case *ast.Block:
		return lz.stmt(s.Body, out)
	case *ast.Sequencing:
		out, err := lz.stmt(s.Left, out)
		if err != nil {
			return nil, err
		}
		return lz.stmt(s.Right, out)
	case *ast.Skip, *ast.Print:
		return out, nil
	case *ast.Assign:
		return lz.assign(s, out)
	case *ast.If:
		br := &Branch{Pos: s.Pos()}
		for _, g := range s.Guards {
			body, err := lz.stmt(g.Body, nil)
			if err != nil {
				return nil, err
			}
			br.Arms = append(br.Arms, Arm{Cond: g.Cond, Body: body})
		}
		return append(out, br), nil
	case *ast.While:
		body, err := lz.stmt(s.Body, nil)
		if err != nil {
			return nil, err
		}
		return append(out, &Loop{Cond: s.Cond, Body: body, Pos: s.Pos()}), nil
	}
	return nil, diag.Errorf(diag.ErrInternal, 0, 0, "cannot linearize %T", s)
}

func (lz *linearizer) assign(s *ast.Assign, out []Op) ([]Op, error) {
	symID, ok := lz.info.Uses[s.Name]
	if !ok {
		return nil, diag.Errorf(diag.ErrInternal, s.Token.Line, s.Token.Column, "unresolved assignment to %s", s.Name.Value)
	}
	sym := lz.info.Table.Symbol(symID)
	slot := func(cell int64) (int, string, error) {
		i, ok := lz.layout.Index(symID, cell)
		if !ok {
			return 0, "", diag.Errorf(diag.ErrInternal, s.Token.Line, s.Token.Column, "no slot for %s cell %d", sym.Name, cell)
		}
		return i, lz.layout.Slots[i].Name, nil
	}

	if sym.Type.Kind != typesys.Array {
		i, name, err := slot(0)
		if err != nil {
			return nil, err
		}
		return append(out, &Assign{Slot: i, Name: name, Value: s.Value, Pos: s.Pos()}), nil
	}

	rhs := lz.info.TypeOf(s.Value)
	switch rhs.Kind {
	case typesys.List:
		values := ast.FlattenComma(s.Value)
		if want := sym.Type.Cells(); int64(len(values)) != want {
			return nil, diag.Errorf(diag.ErrArityMismatch, s.Token.Line, s.Token.Column,
				"Assignment to %s expects %d values, but found %d", sym.Name, want, len(values))
		}
		for cell, v := range values {
			i, name, err := slot(int64(cell))
			if err != nil {
				return nil, err
			}
			out = append(out, &Assign{Slot: i, Name: name, Value: v, Pos: s.Pos()})
		}
	case typesys.Int:
		i, name, err := slot(0)
		if err != nil {
			return nil, err
		}
		out = append(out, &Assign{Slot: i, Name: name, Value: s.Value, Pos: s.Pos()})
	default:
		st := &Store{Value: s.Value, Pos: s.Pos()}
		for cell := int64(0); cell < sym.Type.Cells(); cell++ {
			i, name, err := slot(cell)
			if err != nil {
				return nil, err
			}
			st.Slots = append(st.Slots, i)
			st.Names = append(st.Names, name)
		}
		out = append(out, st)
	}
	return out, nil
}
