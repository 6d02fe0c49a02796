package scope

import (
	"fmt"
	"strings"

	"imperat/internal/typesys"
)

// FrameID indexes a frame in a Table.
type FrameID int

// SymbolID indexes a symbol in a Table.
type SymbolID int

// NoFrame is the parent of the outermost frame.
const NoFrame FrameID = -1

// Symbol is one declared variable.
type Symbol struct {
	ID    SymbolID
	Name  string
	Type  typesys.Type
	Line  int
	Frame FrameID
}

type frame struct {
	parent  FrameID
	depth   int
	names   map[string]SymbolID
	ordered []SymbolID
}

// Table owns every frame and symbol of one program. Frames form a tree
// through parent links; a frame is opened for each block.
type Table struct {
	frames  []frame
	symbols []Symbol
}

func NewTable() *Table {
	return &Table{}
}

// Open creates a child frame of parent. Pass NoFrame for the outermost block.
func (t *Table) Open(parent FrameID) FrameID {
	depth := 0
	if parent != NoFrame {
		depth = t.frames[parent].depth + 1
	}
	t.frames = append(t.frames, frame{parent: parent, depth: depth, names: make(map[string]SymbolID)})
	return FrameID(len(t.frames) - 1)
}

// DuplicateError reports a second declaration of a name in the same frame.
type DuplicateError struct {
	Name  string
	First Symbol
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("redefinition of %s, first declared at line %d", e.Name, e.First.Line)
}

// Declare adds name to frame f.
func (t *Table) Declare(f FrameID, name string, typ typesys.Type, line int) (SymbolID, error) {
	fr := &t.frames[f]
	if prev, ok := fr.names[name]; ok {
		return 0, &DuplicateError{Name: name, First: t.symbols[prev]}
	}
	id := SymbolID(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{ID: id, Name: name, Type: typ, Line: line, Frame: f})
	fr.names[name] = id
	fr.ordered = append(fr.ordered, id)
	return id, nil
}

// Lookup resolves name from frame f outwards.
func (t *Table) Lookup(f FrameID, name string) (Symbol, bool) {
	for f != NoFrame {
		fr := t.frames[f]
		if id, ok := fr.names[name]; ok {
			return t.symbols[id], true
		}
		f = fr.parent
	}
	return Symbol{}, false
}

// Symbol returns the symbol with the given id.
func (t *Table) Symbol(id SymbolID) Symbol {
	return t.symbols[id]
}

// Symbols returns the symbols declared directly in f, in declaration order.
func (t *Table) Symbols(f FrameID) []Symbol {
	out := make([]Symbol, 0, len(t.frames[f].ordered))
	for _, id := range t.frames[f].ordered {
		out = append(out, t.symbols[id])
	}
	return out
}

// All returns every symbol in declaration order across frames.
func (t *Table) All() []Symbol {
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Parent returns the enclosing frame of f, or NoFrame.
func (t *Table) Parent(f FrameID) FrameID { return t.frames[f].parent }

// Depth is 0 for the outermost frame.
func (t *Table) Depth(f FrameID) int { return t.frames[f].depth }

// NumFrames counts every frame opened so far.
func (t *Table) NumFrames() int { return len(t.frames) }

func (t *Table) String() string {
	var b strings.Builder
	for i, fr := range t.frames {
		fmt.Fprintf(&b, "frame %d (parent %d):", i, fr.parent)
		for _, id := range fr.ordered {
			sym := t.symbols[id]
			fmt.Fprintf(&b, " %s:%s", sym.Name, sym.Type)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
