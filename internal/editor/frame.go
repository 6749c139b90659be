package editor

import (
	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// Frame is the render adapter's per-frame view of the editor: deep
// copies of the ordered entity lists, the live stroke state, and the
// projection to screen space. A Frame is immutable once built and safe
// to hand to other goroutines.
type Frame struct {
	// Arrows and Symbols are the scene entities in paint order.
	Arrows  []*scene.Arrow
	Symbols []*scene.Symbol

	// Stroke is the in-progress stroke, empty when the pointer is up.
	Stroke scene.Path

	// PendingPaths are completed symbol strokes awaiting commit, in
	// canvas coordinates.
	PendingPaths []scene.Path

	// Mode and State describe the interaction state for status surfaces.
	Mode       CanvasMode
	State      StateKind
	PromptOpen bool

	// SymbolToggle and AssignToggle mirror the sticky toggles.
	SymbolToggle bool
	AssignToggle bool

	// CanUndo and CanRedo gate history controls.
	CanUndo bool
	CanRedo bool

	// Scale and Offset describe the view transform; ToScreen projects a
	// canvas point with the transform frozen at frame time.
	Scale    float64
	Offset   geometry.Point
	ToScreen func(geometry.Point) geometry.Point

	// BoundKeys lists runes that currently hold stamp templates.
	BoundKeys []rune

	// Stats carries activity counters for status surfaces.
	Stats Stats
}

// Frame builds the current frame. Call it from the editor's own
// goroutine; the returned value shares nothing with live state.
func (e *Editor) Frame() Frame {
	f := Frame{
		Arrows:       make([]*scene.Arrow, len(e.scene.Arrows())),
		Symbols:      make([]*scene.Symbol, len(e.scene.Symbols())),
		PendingPaths: make([]scene.Path, len(e.pendingPaths)),
		Mode:         e.canvasMode,
		State:        e.state.kind,
		PromptOpen:   e.promptOpen,
		SymbolToggle: e.symbolToggle,
		AssignToggle: e.assignToggle,
		CanUndo:      e.history.CanUndo(),
		CanRedo:      e.history.CanRedo(),
		Scale:        e.view.Scale(),
		Offset:       e.view.Offset(),
		BoundKeys:    e.scene.BoundKeys(),
		Stats:        e.stats,
	}
	for i, a := range e.scene.Arrows() {
		f.Arrows[i] = a.Clone()
	}
	for i, s := range e.scene.Symbols() {
		f.Symbols[i] = s.Clone()
	}
	for i, p := range e.pendingPaths {
		f.PendingPaths[i] = p.Clone()
	}
	if e.strokeActive {
		pts := make([]geometry.Point, len(e.stroke))
		copy(pts, e.stroke)
		f.Stroke = scene.Path{Points: pts, Color: e.style.Color, Width: e.style.Width}
	}

	frozen := *e.view
	f.ToScreen = func(p geometry.Point) geometry.Point {
		return frozen.ToScreen(p)
	}
	return f
}
