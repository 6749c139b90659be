package script

import (
	"sort"
	"unicode"

	lua "github.com/yuin/gopher-lua"

	"glyphboard/internal/editor"
	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// boardModule exposes canvas operations to Lua as the global board
// table. Scene mutations take one history snapshot per run, lazily on
// the first mutating call, so a whole script undoes as one step the
// way a drag gesture does.
type boardModule struct {
	editor *editor.Editor

	snapshotTaken bool
	dirty         bool
}

func newBoardModule(ed *editor.Editor) *boardModule {
	return &boardModule{editor: ed}
}

// beginRun resets the per-run snapshot and dirty flags.
func (m *boardModule) beginRun() {
	m.snapshotTaken = false
	m.dirty = false
}

// endRun reports whether the run mutated the board.
func (m *boardModule) endRun() bool {
	return m.dirty
}

// mutating saves the pre-run scene before the first mutation.
func (m *boardModule) mutating() {
	if !m.snapshotTaken {
		m.editor.History().Save(m.editor.Scene().Clone())
		m.snapshotTaken = true
	}
	m.dirty = true
}

func (m *boardModule) register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "arrow", L.NewFunction(m.arrow))
	L.SetField(mod, "symbol", L.NewFunction(m.symbol))
	L.SetField(mod, "stamp", L.NewFunction(m.stamp))
	L.SetField(mod, "assign", L.NewFunction(m.assign))
	L.SetField(mod, "unassign", L.NewFunction(m.unassign))
	L.SetField(mod, "erase", L.NewFunction(m.erase))
	L.SetField(mod, "move", L.NewFunction(m.move))
	L.SetField(mod, "clear", L.NewFunction(m.clear))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "mode", L.NewFunction(m.mode))
	L.SetField(mod, "set_mode", L.NewFunction(m.setMode))
	L.SetField(mod, "counts", L.NewFunction(m.counts))
	L.SetField(mod, "arrows", L.NewFunction(m.arrows))
	L.SetField(mod, "symbols", L.NewFunction(m.symbols))
	L.SetField(mod, "keys", L.NewFunction(m.keys))

	L.SetGlobal("board", mod)
}

// keyArg reads a one-character key argument, lowercased.
func keyArg(L *lua.LState, idx int) rune {
	s := L.CheckString(idx)
	for _, r := range s {
		return unicode.ToLower(r)
	}
	L.ArgError(idx, "key must not be empty")
	return 0
}

// pathArg reads one {{x, y}, ...} table as canvas points.
func pathArg(L *lua.LState, idx int) []geometry.Point {
	tbl := L.CheckTable(idx)
	n := tbl.Len()
	if n == 0 {
		L.ArgError(idx, "path needs at least one point")
	}
	pts := make([]geometry.Point, 0, n)
	for i := 1; i <= n; i++ {
		pair, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(idx, "path points must be {x, y} tables")
		}
		x, xok := pair.RawGetInt(1).(lua.LNumber)
		y, yok := pair.RawGetInt(2).(lua.LNumber)
		if !xok || !yok {
			L.ArgError(idx, "path points must be {x, y} tables")
		}
		pts = append(pts, geometry.Pt(float64(x), float64(y)))
	}
	return pts
}

// arrow(x1, y1, x2, y2 [, bidirectional]) adds an arrow in the current
// stroke color.
func (m *boardModule) arrow(L *lua.LState) int {
	start := geometry.Pt(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	end := geometry.Pt(float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
	bidi := L.OptBool(5, false)

	m.mutating()
	m.editor.Scene().AddArrow(scene.NewArrow(start, end, bidi, m.editor.StrokeStyle().Color))
	return 0
}

// symbol(path [, path...]) adds a symbol from one or more stroke paths
// given in canvas coordinates. The symbol lands at the center of the
// strokes' bounding box; the call returns that center.
func (m *boardModule) symbol(L *lua.LState) int {
	top := L.GetTop()
	if top == 0 {
		L.ArgError(1, "symbol needs at least one path")
	}

	style := m.editor.StrokeStyle()
	paths := make([]scene.Path, 0, top)
	for i := 1; i <= top; i++ {
		paths = append(paths, scene.Path{
			Points: pathArg(L, i),
			Color:  style.Color,
			Width:  style.Width,
		})
	}

	norm, center := scene.NormalizePaths(paths)

	m.mutating()
	m.editor.Scene().AddSymbol(scene.NewSymbol(center, norm))

	L.Push(lua.LNumber(center.X))
	L.Push(lua.LNumber(center.Y))
	return 2
}

// stamp(key, x, y) places a copy of the key's template. Returns false
// when the key holds no template.
func (m *boardModule) stamp(L *lua.LState) int {
	r := keyArg(L, 1)
	at := geometry.Pt(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))

	tpl := m.editor.Scene().Template(r)
	if tpl == nil {
		L.Push(lua.LFalse)
		return 1
	}

	m.mutating()
	placed := tpl.Clone()
	placed.Position = at
	m.editor.Scene().AddSymbol(placed)

	L.Push(lua.LTrue)
	return 1
}

// assign(key, x, y) binds the symbol under the point to the key.
// Returns false when the key is not bindable or no symbol is there.
func (m *boardModule) assign(L *lua.LState) int {
	r := keyArg(L, 1)
	at := geometry.Pt(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))

	s := m.editor.Scene()
	sym := s.SymbolAt(at)
	if sym == nil || !scene.BindableKey(r) {
		L.Push(lua.LFalse)
		return 1
	}

	m.mutating()
	if old := sym.AssignedKey; old != 0 && old != r {
		s.Unbind(old)
	}
	s.SetAssignedKey(sym.ID, r)
	s.Bind(r, sym)

	L.Push(lua.LTrue)
	return 1
}

// unassign(key) drops the key's binding and clears the assignment from
// every copy of its symbol. Returns false when the key was unbound.
func (m *boardModule) unassign(L *lua.LState) int {
	r := keyArg(L, 1)

	s := m.editor.Scene()
	tpl := s.Template(r)
	if tpl == nil {
		L.Push(lua.LFalse)
		return 1
	}

	m.mutating()
	s.ClearAssignedKey(tpl.ID)

	L.Push(lua.LTrue)
	return 1
}

// erase(x, y) removes the topmost entity under the point, symbols
// before arrows. Returns false on a miss.
func (m *boardModule) erase(L *lua.LState) int {
	at := geometry.Pt(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))

	s := m.editor.Scene()
	if sym := s.SymbolAt(at); sym != nil {
		m.mutating()
		s.RemoveSymbol(sym)
		L.Push(lua.LTrue)
		return 1
	}
	if a := s.ArrowAt(at); a != nil {
		m.mutating()
		s.RemoveArrow(a)
		L.Push(lua.LTrue)
		return 1
	}

	L.Push(lua.LFalse)
	return 1
}

// move(x, y, nx, ny) drags whatever is under (x, y) to (nx, ny):
// symbols recenter on the target, arrows translate by the difference.
// Returns false on a miss.
func (m *boardModule) move(L *lua.LState) int {
	from := geometry.Pt(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	to := geometry.Pt(float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))

	s := m.editor.Scene()
	if sym := s.SymbolAt(from); sym != nil {
		m.mutating()
		sym.Position = to
		L.Push(lua.LTrue)
		return 1
	}
	if a := s.ArrowAt(from); a != nil {
		m.mutating()
		a.Translate(geometry.Pt(to.X-from.X, to.Y-from.Y))
		L.Push(lua.LTrue)
		return 1
	}

	L.Push(lua.LFalse)
	return 1
}

// clear() empties the board through the editor, which records its own
// history entry.
func (m *boardModule) clear(L *lua.LState) int {
	m.editor.Clear()
	return 0
}

func (m *boardModule) undo(L *lua.LState) int {
	m.editor.Undo()
	return 0
}

func (m *boardModule) redo(L *lua.LState) int {
	m.editor.Redo()
	return 0
}

// mode() returns the current canvas mode name.
func (m *boardModule) mode(L *lua.LState) int {
	L.Push(lua.LString(m.editor.CanvasMode().String()))
	return 1
}

// set_mode(name) switches the canvas mode.
func (m *boardModule) setMode(L *lua.LState) int {
	name := L.CheckString(1)
	mode, ok := editor.ModeFromName(name)
	if !ok {
		L.ArgError(1, "unknown mode "+name)
		return 0
	}
	m.editor.SetCanvasMode(mode)
	return 0
}

// counts() returns the arrow count and symbol count.
func (m *boardModule) counts(L *lua.LState) int {
	s := m.editor.Scene()
	L.Push(lua.LNumber(s.ArrowCount()))
	L.Push(lua.LNumber(s.SymbolCount()))
	return 2
}

// arrows() returns a list of {x1, y1, x2, y2, bidirectional} tables.
func (m *boardModule) arrows(L *lua.LState) int {
	list := L.NewTable()
	for _, a := range m.editor.Scene().Arrows() {
		entry := L.NewTable()
		L.SetField(entry, "x1", lua.LNumber(a.Start.X))
		L.SetField(entry, "y1", lua.LNumber(a.Start.Y))
		L.SetField(entry, "x2", lua.LNumber(a.End.X))
		L.SetField(entry, "y2", lua.LNumber(a.End.Y))
		L.SetField(entry, "bidirectional", lua.LBool(a.Bidirectional))
		list.Append(entry)
	}
	L.Push(list)
	return 1
}

// symbols() returns a list of {x, y, id, key} tables; key is absent on
// unassigned symbols.
func (m *boardModule) symbols(L *lua.LState) int {
	list := L.NewTable()
	for _, sym := range m.editor.Scene().Symbols() {
		entry := L.NewTable()
		L.SetField(entry, "x", lua.LNumber(sym.Position.X))
		L.SetField(entry, "y", lua.LNumber(sym.Position.Y))
		L.SetField(entry, "id", lua.LString(sym.ID))
		if sym.AssignedKey != 0 {
			L.SetField(entry, "key", lua.LString(string(sym.AssignedKey)))
		}
		list.Append(entry)
	}
	L.Push(list)
	return 1
}

// keys() returns the bound keys as a sorted list of strings.
func (m *boardModule) keys(L *lua.LState) int {
	bound := m.editor.Scene().BoundKeys()
	strs := make([]string, 0, len(bound))
	for _, r := range bound {
		strs = append(strs, string(r))
	}
	sort.Strings(strs)

	list := L.NewTable()
	for _, s := range strs {
		list.Append(lua.LString(s))
	}
	L.Push(list)
	return 1
}
