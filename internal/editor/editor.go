package editor

import (
	"glyphboard/internal/geometry"
	"glyphboard/internal/history"
	"glyphboard/internal/input/key"
	"glyphboard/internal/scene"
	"glyphboard/internal/viewport"
)

// StrokeStyle is the color and width applied to newly drawn paths and
// arrows.
type StrokeStyle struct {
	Color scene.Color
	Width float64
}

// Config holds editor construction settings.
type Config struct {
	// HistoryDepth bounds the undo stack. Non-positive values use
	// history.DefaultMaxDepth.
	HistoryDepth int

	// Stroke is the initial stroke style.
	Stroke StrokeStyle
}

// DefaultConfig returns the default editor configuration.
func DefaultConfig() Config {
	return Config{
		HistoryDepth: history.DefaultMaxDepth,
		Stroke:       StrokeStyle{Color: scene.Black, Width: scene.DefaultStrokeWidth},
	}
}

// Stats counts editor activity since construction, for status surfaces.
type Stats struct {
	Arrows  uint64
	Symbols uint64
	Stamps  uint64
	Erases  uint64
	Undos   uint64
	Redos   uint64
}

// drawingState is the tagged drawing-state variant. Only the fields for
// the active kind are meaningful. Assignment references its symbol by ID
// so the prompt survives scene swaps from undo; drag states pin the
// exact grabbed entry.
type drawingState struct {
	kind         StateKind
	assignID     string
	assignTarget *scene.Symbol
	placeKey     rune
	dragSymbol   *scene.Symbol
	dragArrow    *scene.Arrow
	grabOffset   geometry.Point
}

// Editor owns the scene, history, and view transform and interprets the
// input event stream against them. It is not safe for concurrent use;
// confine it to one event loop goroutine.
type Editor struct {
	scene   *scene.Scene
	history *history.History
	view    *viewport.Transform

	mods       key.Modifier
	canvasMode CanvasMode
	state      drawingState

	symbolToggle bool
	assignToggle bool
	promptOpen   bool

	// In-progress stroke state.
	stroke         []geometry.Point
	strokeActive   bool
	strokeIsSymbol bool
	arrowStart     geometry.Point
	arrowStartSet  bool

	// Completed symbol strokes awaiting commit.
	pendingPaths  []scene.Path
	symbolCapture bool

	// A drag has started but not yet mutated; the pre-mutation snapshot
	// is taken on the first move.
	dragSavePending bool

	style    StrokeStyle
	stats    Stats
	onChange func()
}

// New creates an editor with an empty scene.
func New(cfg Config) *Editor {
	style := cfg.Stroke
	if style.Width <= 0 {
		style.Width = scene.DefaultStrokeWidth
	}
	if style.Color == (scene.Color{}) {
		style.Color = scene.Black
	}
	return &Editor{
		scene:   scene.New(),
		history: history.New(cfg.HistoryDepth),
		view:    viewport.New(),
		style:   style,
	}
}

// OnChange registers a callback invoked after every processed event that
// may have changed observable state. Owners typically point it at a
// render signal; it runs on the editor's goroutine and must not block.
func (e *Editor) OnChange(fn func()) {
	e.onChange = fn
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Scene returns the live scene. The render layer reads it only through
// Frame; other callers must treat it as owned by the editor.
func (e *Editor) Scene() *scene.Scene {
	return e.scene
}

// ReplaceScene installs a loaded scene, clearing history and transient
// state. Used by document load.
func (e *Editor) ReplaceScene(s *scene.Scene) {
	if s == nil {
		s = scene.New()
	}
	e.scene = s
	e.history.Clear()
	e.resetTransient()
	e.changed()
}

// Transform returns the view transform.
func (e *Editor) Transform() *viewport.Transform {
	return e.view
}

// History returns the undo history.
func (e *Editor) History() *history.History {
	return e.history
}

// CanvasMode returns the current top-level mode.
func (e *Editor) CanvasMode() CanvasMode {
	return e.canvasMode
}

// State returns the current drawing state kind.
func (e *Editor) State() StateKind {
	return e.state.kind
}

// Gesturing reports whether a pointer gesture is in flight: an active
// stroke, or a drag that has pinned an entity. Callers that mutate the
// scene out of band should wait until this is false.
func (e *Editor) Gesturing() bool {
	return e.strokeActive || e.state.dragSymbol != nil || e.state.dragArrow != nil
}

// PromptOpen reports whether the key-assignment prompt is open.
func (e *Editor) PromptOpen() bool {
	return e.promptOpen
}

// AssigningID returns the ID of the symbol being assigned, or "" when no
// assignment is in progress.
func (e *Editor) AssigningID() string {
	if e.state.kind != StateAssigning {
		return ""
	}
	return e.state.assignID
}

// PlacingKey returns the armed placement key, or 0.
func (e *Editor) PlacingKey() rune {
	if e.state.kind != StatePlacing {
		return 0
	}
	return e.state.placeKey
}

// SymbolToggle reports whether sticky multi-stroke symbol capture is on.
func (e *Editor) SymbolToggle() bool {
	return e.symbolToggle
}

// SetSymbolToggle switches sticky symbol capture. Turning it off with
// completed strokes pending, and no stroke actively recording, commits
// the pending symbol.
func (e *Editor) SetSymbolToggle(on bool) {
	if e.symbolToggle == on {
		return
	}
	e.symbolToggle = on
	if !on && len(e.pendingPaths) > 0 && !e.strokeActive {
		e.commitPendingSymbol()
	}
	e.changed()
}

// AssignToggle reports whether the next symbol tap opens assignment.
func (e *Editor) AssignToggle() bool {
	return e.assignToggle
}

// SetAssignToggle switches sticky assign-on-next-tap.
func (e *Editor) SetAssignToggle(on bool) {
	e.assignToggle = on
	e.changed()
}

// Modifiers returns the live modifier set.
func (e *Editor) Modifiers() key.Modifier {
	return e.mods
}

// SetModifiers replaces the live modifier set. A primary-modifier
// falling edge triggers the same pending-symbol commit check as an
// explicit primary key release.
func (e *Editor) SetModifiers(m key.Modifier) {
	hadPrimary := e.mods.HasPrimary()
	e.mods = m
	if hadPrimary && !m.HasPrimary() {
		e.primaryReleased()
	}
	e.changed()
}

// CycleCanvasMode advances Draw - Move - Erase, triggered by the
// double-tap gesture. The fine-grained drawing state is left alone.
func (e *Editor) CycleCanvasMode() {
	e.canvasMode = e.canvasMode.Next()
	e.changed()
}

// SetCanvasMode sets the top-level mode directly.
func (e *Editor) SetCanvasMode(m CanvasMode) {
	e.canvasMode = m
	e.changed()
}

// StrokeStyle returns the style applied to new strokes.
func (e *Editor) StrokeStyle() StrokeStyle {
	return e.style
}

// SetStrokeStyle changes the style applied to new strokes. Non-positive
// widths are ignored.
func (e *Editor) SetStrokeStyle(s StrokeStyle) {
	if s.Width <= 0 {
		s.Width = e.style.Width
	}
	e.style = s
	e.changed()
}

// Stats returns activity counters.
func (e *Editor) Stats() Stats {
	return e.stats
}

// CanUndo reports whether undo history is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether redo history is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// Undo restores the most recent history snapshot. With empty history it
// is a no-op. A drag in progress is dropped: its pinned entry belongs to
// the replaced scene.
func (e *Editor) Undo() {
	if snap, ok := e.history.Undo(e.scene.Clone()); ok {
		e.scene = snap
		e.dropDrag()
		e.stats.Undos++
	}
	e.changed()
}

// Redo restores the most recently undone snapshot, symmetric to Undo.
// With empty redo history it is a no-op.
func (e *Editor) Redo() {
	if snap, ok := e.history.Redo(e.scene.Clone()); ok {
		e.scene = snap
		e.dropDrag()
		e.stats.Redos++
	}
	e.changed()
}

// dropDrag abandons a drag in progress without committing anything.
// Called when the live scene is swapped out from under a pinned entry.
func (e *Editor) dropDrag() {
	if e.state.kind == StateDraggingSymbol || e.state.kind == StateDraggingArrow {
		e.state = drawingState{}
		e.dragSavePending = false
	}
}

// Clear empties the scene and key bindings and resets all transient
// interaction state. The cleared state is undoable; the canvas mode and
// view transform survive.
func (e *Editor) Clear() {
	e.saveSnapshot()
	e.scene.Clear()
	e.resetTransient()
	e.changed()
}

// PinchBegin starts a zoom gesture.
func (e *Editor) PinchBegin() {
	e.view.PinchBegin()
	e.changed()
}

// PinchUpdate applies a relative zoom factor for the gesture in
// progress. The view transform is not undoable.
func (e *Editor) PinchUpdate(factor float64) {
	e.view.PinchUpdate(factor)
	e.changed()
}

// PinchEnd commits the zoom gesture.
func (e *Editor) PinchEnd() {
	e.view.PinchEnd()
	e.changed()
}

// PanBy shifts the view by an incremental screen-space delta.
func (e *Editor) PanBy(delta geometry.Point) {
	e.view.Pan(delta)
	e.changed()
}

// saveSnapshot pushes a deep copy of the current scene onto undo
// history. Called before every scene mutation.
func (e *Editor) saveSnapshot() {
	e.history.Save(e.scene.Clone())
}

// resetTransient restores all interaction state to initial: drawing
// state, prompt, toggles, stroke buffers. Modifier state tracks physical
// keys and is kept.
func (e *Editor) resetTransient() {
	e.state = drawingState{}
	e.promptOpen = false
	e.symbolToggle = false
	e.assignToggle = false
	e.stroke = nil
	e.strokeActive = false
	e.strokeIsSymbol = false
	e.arrowStartSet = false
	e.pendingPaths = nil
	e.symbolCapture = false
	e.dragSavePending = false
}
