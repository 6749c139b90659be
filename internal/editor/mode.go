package editor

// CanvasMode is the exclusive top-level interaction mode.
type CanvasMode uint8

const (
	// ModeDraw interprets pointer strokes as new arrows or symbols.
	ModeDraw CanvasMode = iota
	// ModeMove drags existing symbols and arrows.
	ModeMove
	// ModeErase removes whatever the pointer touches.
	ModeErase
)

// String returns a string representation of the mode.
func (m CanvasMode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeMove:
		return "move"
	case ModeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Next returns the following mode in the Draw - Move - Erase cycle.
func (m CanvasMode) Next() CanvasMode {
	switch m {
	case ModeDraw:
		return ModeMove
	case ModeMove:
		return ModeErase
	default:
		return ModeDraw
	}
}

// ModeFromName returns the mode named by s ("draw", "move", "erase") and
// whether the name was recognized.
func ModeFromName(s string) (CanvasMode, bool) {
	switch s {
	case "draw":
		return ModeDraw, true
	case "move":
		return ModeMove, true
	case "erase":
		return ModeErase, true
	default:
		return ModeDraw, false
	}
}

// StateKind identifies the fine-grained drawing state within Draw mode.
type StateKind uint8

const (
	// StateIdle is the default state.
	StateIdle StateKind = iota
	// StateAssigning is active while the assignment prompt is open for a
	// tapped symbol.
	StateAssigning
	// StatePlacing is armed after pressing a bound key; the next pointer
	// down stamps the template.
	StatePlacing
	// StateDraggingSymbol relocates a symbol under the pointer.
	StateDraggingSymbol
	// StateDraggingArrow translates an arrow under the pointer.
	StateDraggingArrow
)

// String returns a string representation of the state.
func (s StateKind) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAssigning:
		return "assigning"
	case StatePlacing:
		return "placing"
	case StateDraggingSymbol:
		return "dragging-symbol"
	case StateDraggingArrow:
		return "dragging-arrow"
	default:
		return "unknown"
	}
}
