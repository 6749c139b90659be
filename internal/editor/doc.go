// Package editor implements the canvas interaction state machine: it
// consumes normalized pointer, gesture, and keyboard events and turns
// them into mutations of the scene, the view transform, and undo
// history.
//
// # Modes
//
// Two orthogonal mode axes drive event interpretation:
//
//   - CanvasMode is the exclusive top-level mode, cycled Draw - Move -
//     Erase by a double-tap.
//   - The drawing state is the fine-grained sub-state within Draw mode:
//     idle, assigning a key to a symbol, placing a stamped symbol,
//     or dragging a symbol or arrow in Move mode.
//
// On top of those sit two sticky toggles (multi-stroke symbol capture,
// assign-on-next-tap) and the live modifier set. Holding the primary
// modifier captures symbol strokes for as long as it is held; the
// secondary modifier turns the next symbol tap into an assignment; shift
// makes a finished arrow bidirectional.
//
// # Event entry points
//
// StartDrawing, ContinueDrawing, EndDrawing, and CancelDrawing take
// pointer events in screen space and convert through the transform
// before hit testing. HandleKeyPress and HandleKeyRelease take key
// events; 'z' and 'y' are reserved for undo and redo, Escape and
// Backspace drive the assignment prompt, and any other bound character
// arms symbol placement. Pinch and pan events adjust the view transform
// only and never touch history.
//
// # Contract
//
// Every operation is total: invalid input (reserved keys, empty undo
// stacks, missed hit tests, unbound placement keys, degenerate geometry)
// degrades to a no-op, never an error. The editor is confined to the
// event loop goroutine that owns it; the only cross-goroutine signal is
// the change callback, which owners typically point at a render signal.
//
// Scene-mutating operations push a deep-copy snapshot of the
// pre-mutation scene into bounded undo history first, so any mutation
// can be undone; view transform changes are not undoable.
package editor
