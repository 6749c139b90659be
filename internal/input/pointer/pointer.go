// Package pointer defines normalized pointer and gesture events for the
// canvas core.
//
// The input collaborator reduces raw device input (touch, pencil, mouse)
// to a small event surface: pointer down/move/up/cancel with a
// screen-space point and the live modifier set, pinch and pan gestures,
// and a double-tap signal. The package also provides TapTracker, which
// synthesizes double-taps for backends whose devices report plain taps.
package pointer

import (
	"time"

	"glyphboard/internal/geometry"
	"glyphboard/internal/input/key"
)

// Phase is the stage of a pointer interaction.
type Phase uint8

const (
	// PhaseDown starts an interaction.
	PhaseDown Phase = iota
	// PhaseMove continues an interaction with the pointer held.
	PhaseMove
	// PhaseUp ends an interaction normally.
	PhaseUp
	// PhaseCancel aborts an interaction; nothing may be committed.
	PhaseCancel
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is one pointer event in screen coordinates.
type Event struct {
	// Point is the pointer position in screen space.
	Point geometry.Point

	// Phase is the interaction stage.
	Phase Phase

	// Modifiers contains the modifier keys held when the event fired.
	Modifiers key.Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a pointer event with the current timestamp.
func NewEvent(phase Phase, p geometry.Point, mods key.Modifier) Event {
	return Event{
		Point:     p,
		Phase:     phase,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Stage is the lifecycle stage of a continuous gesture.
type Stage uint8

const (
	// StageBegin starts a gesture.
	StageBegin Stage = iota
	// StageChange updates a gesture in progress.
	StageChange
	// StageEnd commits a gesture.
	StageEnd
)

// String returns a string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageBegin:
		return "begin"
	case StageChange:
		return "change"
	case StageEnd:
		return "end"
	default:
		return "unknown"
	}
}

// PinchEvent is one step of a two-finger zoom gesture. Factor is the
// scale relative to the gesture start and is meaningful for StageChange.
type PinchEvent struct {
	Stage     Stage
	Factor    float64
	Timestamp time.Time
}

// PanEvent is one step of a two-finger pan gesture. Delta is an
// incremental screen-space translation and is meaningful for StageChange.
type PanEvent struct {
	Stage     Stage
	Delta     geometry.Point
	Timestamp time.Time
}
