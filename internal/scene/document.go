package scene

// Document is the serializable form of a Scene: plain records of the
// arrows, symbols, and key bindings. Bindings name their template by index
// into Symbols when the template is a scene entry, and carry the template
// record inline when it is detached (imported from a library file and
// never placed on canvas).
type Document struct {
	Arrows   []*Arrow  `json:"arrows"`
	Symbols  []*Symbol `json:"symbols"`
	Bindings []Binding `json:"bindings,omitempty"`
}

// Binding is one key-to-template entry in a Document.
type Binding struct {
	Key      string  `json:"key"`
	Symbol   int     `json:"symbol"`
	Template *Symbol `json:"template,omitempty"`
}

// Document converts the scene into its serializable form. All records are
// deep copies; the document stays valid however the scene changes
// afterward.
func (s *Scene) Document() Document {
	doc := Document{
		Arrows:  make([]*Arrow, len(s.arrows)),
		Symbols: make([]*Symbol, len(s.symbols)),
	}
	index := make(map[*Symbol]int, len(s.symbols))
	for i, a := range s.arrows {
		doc.Arrows[i] = a.Clone()
	}
	for i, sym := range s.symbols {
		doc.Symbols[i] = sym.Clone()
		index[sym] = i
	}
	for r, tpl := range s.bindings {
		b := Binding{Key: string(r), Symbol: -1}
		if i, ok := index[tpl]; ok {
			b.Symbol = i
		} else {
			b.Template = tpl.Clone()
		}
		doc.Bindings = append(doc.Bindings, b)
	}
	return doc
}

// FromDocument rebuilds a scene from its serializable form. Bindings with
// unusable keys or dangling symbol indices are dropped; everything else is
// deep-copied into the new scene.
func FromDocument(doc Document) *Scene {
	s := New()
	for _, a := range doc.Arrows {
		if a == nil {
			continue
		}
		s.arrows = append(s.arrows, a.Clone())
	}
	for _, sym := range doc.Symbols {
		if sym == nil {
			continue
		}
		s.symbols = append(s.symbols, sym.Clone())
	}
	for _, b := range doc.Bindings {
		r := firstRune(b.Key)
		if !BindableKey(r) {
			continue
		}
		switch {
		case b.Symbol >= 0 && b.Symbol < len(s.symbols):
			s.bindings[r] = s.symbols[b.Symbol]
		case b.Template != nil:
			s.bindings[r] = b.Template.Clone()
		}
	}
	return s
}

func firstRune(str string) rune {
	for _, r := range str {
		return r
	}
	return 0
}
