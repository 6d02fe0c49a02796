package layout

import (
	"fmt"
	"strings"

	"imperat/internal/ast"
	"imperat/internal/checker"
	"imperat/internal/scope"
	"imperat/internal/typesys"
)

// Slot is one position of the state vector: a scalar, or one array cell.
type Slot struct {
	Name   string // x for scalars, a0..aN for cells
	Symbol scope.SymbolID
	Cell   int64
	Type   typesys.Type // declared type of the symbol
}

// IsBool reports whether the slot defaults to False rather than 0.
func (s Slot) IsBool() bool { return s.Type == typesys.BoolType }

type key struct {
	sym  scope.SymbolID
	cell int64
}

// Layout is the flat state vector of a program. Slot positions never change
// once planned.
type Layout struct {
	Slots []Slot
	// Observable lists, in order, the slots exposed as program output.
	Observable []int

	index map[key]int
}

// Plan walks root depth-first in declaration order and gives every declared
// scalar one slot and every function[..N] N+1 consecutive slots.
func Plan(root *ast.Block, info *checker.Info) *Layout {
	l := &Layout{index: make(map[key]int)}
	l.block(root, info, true)
	return l
}

func (l *Layout) block(b *ast.Block, info *checker.Info, top bool) {
	if b.Decls != nil {
		for _, d := range b.Decls.Items {
			for _, name := range d.Names {
				id, ok := info.Defs[name]
				if !ok {
					continue
				}
				sym := info.Table.Symbol(id)
				if sym.Type.Kind == typesys.Array {
					for cell := int64(0); cell <= sym.Type.N; cell++ {
						l.add(Slot{Name: fmt.Sprintf("%s%d", sym.Name, cell), Symbol: id, Cell: cell, Type: sym.Type}, top)
					}
					continue
				}
				l.add(Slot{Name: sym.Name, Symbol: id, Type: sym.Type}, top)
			}
		}
	}
	l.stmt(b.Body, info)
}

func (l *Layout) stmt(s ast.Statement, info *checker.Info) {
	switch s := s.(type) {
	case *ast.Block:
		l.block(s, info, false)
	case *ast.Sequencing:
		l.stmt(s.Left, info)
		l.stmt(s.Right, info)
	case *ast.If:
		for _, g := range s.Guards {
			l.stmt(g.Body, info)
		}
	case *ast.While:
		l.stmt(s.Body, info)
	}
}

func (l *Layout) add(slot Slot, observable bool) {
	l.index[key{slot.Symbol, slot.Cell}] = len(l.Slots)
	if observable {
		l.Observable = append(l.Observable, len(l.Slots))
	}
	l.Slots = append(l.Slots, slot)
}

// Len is the number of slots.
func (l *Layout) Len() int { return len(l.Slots) }

// Index returns the position of a symbol's cell. Scalars use cell 0.
func (l *Layout) Index(sym scope.SymbolID, cell int64) (int, bool) {
	i, ok := l.index[key{sym, cell}]
	return i, ok
}

// Param names the lambda parameter bound to slot i: x1 for the first
// declared slot, xn for the last.
func Param(i int) string { return fmt.Sprintf("x%d", i+1) }

func (l *Layout) String() string {
	names := make([]string, len(l.Slots))
	for i, s := range l.Slots {
		names[i] = s.Name
	}
	return "[" + strings.Join(names, " ") + "]"
}
