package scene

import "glyphboard/internal/geometry"

// Reserved shortcut runes. 'z' and 'y' always mean undo and redo and can
// never be bound to a symbol.
const (
	UndoKey = 'z'
	RedoKey = 'y'
)

// ReservedKey reports whether r is one of the reserved shortcut runes.
func ReservedKey(r rune) bool {
	return r == UndoKey || r == RedoKey
}

// BindableKey reports whether r can hold a symbol binding: a single
// lowercase ASCII letter or digit that is not reserved. Uppercase input is
// lowercased by callers before binding.
func BindableKey(r rune) bool {
	if ReservedKey(r) {
		return false
	}
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Scene holds the canvas contents: arrows and symbols in insertion order,
// plus the rune-to-template key bindings. A Scene is confined to the event
// loop that owns it; it performs no locking.
type Scene struct {
	arrows   []*Arrow
	symbols  []*Symbol
	bindings map[rune]*Symbol
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{bindings: make(map[rune]*Symbol)}
}

// Arrows returns the arrow list in insertion order. The slice is owned by
// the scene; callers must not modify it.
func (s *Scene) Arrows() []*Arrow {
	return s.arrows
}

// Symbols returns the symbol list in insertion order. The slice is owned
// by the scene; callers must not modify it.
func (s *Scene) Symbols() []*Symbol {
	return s.symbols
}

// AddArrow appends an arrow to the scene.
func (s *Scene) AddArrow(a *Arrow) {
	s.arrows = append(s.arrows, a)
}

// AddSymbol appends a symbol to the scene.
func (s *Scene) AddSymbol(sym *Symbol) {
	s.symbols = append(s.symbols, sym)
}

// RemoveArrow removes the given arrow instance. Unknown arrows are
// ignored.
func (s *Scene) RemoveArrow(a *Arrow) {
	for i, cur := range s.arrows {
		if cur == a {
			s.arrows = append(s.arrows[:i], s.arrows[i+1:]...)
			return
		}
	}
}

// RemoveSymbol removes the given symbol instance. If that instance is the
// stored template of a key binding, the binding is removed with it; placed
// copies sharing the template's ID do not affect the binding.
func (s *Scene) RemoveSymbol(sym *Symbol) {
	for i, cur := range s.symbols {
		if cur != sym {
			continue
		}
		s.symbols = append(s.symbols[:i], s.symbols[i+1:]...)
		for r, tpl := range s.bindings {
			if tpl == sym {
				delete(s.bindings, r)
			}
		}
		return
	}
}

// SymbolAt returns the topmost symbol whose bounding box contains p, or
// nil. Symbols drawn later win.
func (s *Scene) SymbolAt(p geometry.Point) *Symbol {
	for i := len(s.symbols) - 1; i >= 0; i-- {
		if s.symbols[i].Hit(p) {
			return s.symbols[i]
		}
	}
	return nil
}

// ArrowAt returns the topmost arrow within the hit threshold of p, or nil.
func (s *Scene) ArrowAt(p geometry.Point) *Arrow {
	for i := len(s.arrows) - 1; i >= 0; i-- {
		if s.arrows[i].Hit(p) {
			return s.arrows[i]
		}
	}
	return nil
}

// SymbolsByID returns every scene entry sharing the given ID, in insertion
// order.
func (s *Scene) SymbolsByID(id string) []*Symbol {
	var out []*Symbol
	for _, sym := range s.symbols {
		if sym.ID == id {
			out = append(out, sym)
		}
	}
	return out
}

// TopSymbolByID returns the most recently added entry with the given ID,
// or nil.
func (s *Scene) TopSymbolByID(id string) *Symbol {
	for i := len(s.symbols) - 1; i >= 0; i-- {
		if s.symbols[i].ID == id {
			return s.symbols[i]
		}
	}
	return nil
}

// SetAssignedKey sets AssignedKey on every scene entry sharing id.
func (s *Scene) SetAssignedKey(id string, r rune) {
	for _, sym := range s.symbols {
		if sym.ID == id {
			sym.AssignedKey = r
		}
	}
}

// ClearAssignedKey clears AssignedKey on every scene entry sharing id and
// removes any binding whose template carries that ID.
func (s *Scene) ClearAssignedKey(id string) {
	for _, sym := range s.symbols {
		if sym.ID == id {
			sym.AssignedKey = 0
		}
	}
	for r, tpl := range s.bindings {
		if tpl.ID == id {
			delete(s.bindings, r)
		}
	}
}

// Bind stores sym as the template for r, replacing any previous template
// for that rune. A replaced template and its copies lose their assigned
// key, so at most one ID ever carries r. Callers validate r with
// BindableKey first.
func (s *Scene) Bind(r rune, sym *Symbol) {
	if prev, ok := s.bindings[r]; ok && prev.ID != sym.ID {
		s.ClearAssignedKey(prev.ID)
	}
	s.bindings[r] = sym
}

// Unbind removes the binding for r if present.
func (s *Scene) Unbind(r rune) {
	delete(s.bindings, r)
}

// Template returns the template bound to r, or nil.
func (s *Scene) Template(r rune) *Symbol {
	return s.bindings[r]
}

// HasBinding reports whether r currently maps to a template.
func (s *Scene) HasBinding(r rune) bool {
	_, ok := s.bindings[r]
	return ok
}

// BoundKeys returns the runes that currently hold bindings, in no
// particular order.
func (s *Scene) BoundKeys() []rune {
	out := make([]rune, 0, len(s.bindings))
	for r := range s.bindings {
		out = append(out, r)
	}
	return out
}

// KeyFor returns the rune bound to the template with the given ID, or 0.
func (s *Scene) KeyFor(id string) rune {
	for r, tpl := range s.bindings {
		if tpl.ID == id {
			return r
		}
	}
	return 0
}

// ArrowCount returns the number of arrows in the scene.
func (s *Scene) ArrowCount() int {
	return len(s.arrows)
}

// SymbolCount returns the number of symbols in the scene.
func (s *Scene) SymbolCount() int {
	return len(s.symbols)
}

// Clear empties arrows, symbols, and bindings.
func (s *Scene) Clear() {
	s.arrows = nil
	s.symbols = nil
	s.bindings = make(map[rune]*Symbol)
}

// Clone returns a deep copy of the scene. Bindings whose template is a
// scene entry reference the corresponding cloned entry; detached templates
// (for example, ones imported from a library file) are cloned standalone.
// No structure is shared with the original.
func (s *Scene) Clone() *Scene {
	out := New()
	out.arrows = make([]*Arrow, len(s.arrows))
	for i, a := range s.arrows {
		out.arrows[i] = a.Clone()
	}
	mapped := make(map[*Symbol]*Symbol, len(s.symbols))
	out.symbols = make([]*Symbol, len(s.symbols))
	for i, sym := range s.symbols {
		c := sym.Clone()
		out.symbols[i] = c
		mapped[sym] = c
	}
	for r, tpl := range s.bindings {
		if c, ok := mapped[tpl]; ok {
			out.bindings[r] = c
		} else {
			out.bindings[r] = tpl.Clone()
		}
	}
	return out
}
