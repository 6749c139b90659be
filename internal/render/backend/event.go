package backend

import (
	"glyphboard/internal/input/key"
	"glyphboard/internal/input/pointer"
)

// EventKind discriminates terminal events.
type EventKind uint8

const (
	// EventNone is an event the canvas has no use for.
	EventNone EventKind = iota
	// EventKey is a key press.
	EventKey
	// EventPointer is a pointer phase change or drag motion.
	EventPointer
	// EventPinch is a zoom gesture step synthesized from the wheel.
	EventPinch
	// EventPan is a pan gesture step from a right-button drag or a
	// shifted wheel.
	EventPan
	// EventResize reports a new terminal size.
	EventResize
)

// Event is one normalized terminal event. Kind selects which field is
// meaningful.
type Event struct {
	Kind EventKind

	Key     key.Event
	Pointer pointer.Event
	Pinch   pointer.PinchEvent
	Pan     pointer.PanEvent

	// Width and Height accompany EventResize.
	Width  int
	Height int
}
