package backend

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"glyphboard/internal/geometry"
	"glyphboard/internal/input/key"
	"glyphboard/internal/input/pointer"
)

// Wheel zoom steps. One tick scales the view by this much around the
// pointer-agnostic pinch protocol.
const (
	wheelZoomIn  = 1.1
	wheelZoomOut = 1 / 1.1

	// wheelPanCells is how far one shifted wheel tick pans, in cells.
	wheelPanCells = 2.0
)

// convertMods maps tcell modifiers onto the canvas modifier set. Ctrl
// acts as the primary modifier in a terminal; Alt as the secondary.
func convertMods(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 || m&tcell.ModMeta != 0 {
		out = out.With(key.ModPrimary)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(key.ModSecondary)
	}
	return out
}

// convertKey normalizes a tcell key event. Control-letter chords
// surface as the plain letter with the primary modifier set, so the
// shortcut layer sees "primary+s" rather than an opaque control code.
func convertKey(ev *tcell.EventKey) (Event, bool) {
	mods := convertMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		return Event{Kind: EventKey, Key: key.NewRuneEvent(ev.Rune(), mods)}, true
	case tcell.KeyEscape:
		return Event{Kind: EventKey, Key: key.NewSpecialEvent(key.KeyEscape, mods)}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Event{Kind: EventKey, Key: key.NewSpecialEvent(key.KeyBackspace, mods)}, true
	case tcell.KeyTab:
		return Event{Kind: EventKey, Key: key.NewRuneEvent('\t', mods)}, true
	case tcell.KeyEnter:
		return Event{Kind: EventKey, Key: key.NewRuneEvent('\n', mods)}, true
	}

	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return Event{Kind: EventKey, Key: key.NewRuneEvent(r, mods.With(key.ModPrimary))}, true
	}
	return Event{}, false
}

// mouseState tracks button transitions across tcell mouse events, which
// report absolute button masks rather than presses and releases.
type mouseState struct {
	leftDown  bool
	lastLeft  geometry.Point
	rightDown bool
	lastRight geometry.Point
}

// convert reduces one tcell mouse event to canvas events: left-button
// transitions become pointer phases, the wheel becomes pinch steps (or
// pan steps with shift held), and right-button drags become pans.
func (m *mouseState) convert(ev *tcell.EventMouse) []Event {
	x, y := ev.Position()
	pos := geometry.Pt(float64(x), float64(y))
	mods := convertMods(ev.Modifiers())
	buttons := ev.Buttons()
	now := time.Now()

	var out []Event

	if buttons&tcell.WheelUp != 0 {
		out = append(out, wheelEvents(mods, true, now)...)
	}
	if buttons&tcell.WheelDown != 0 {
		out = append(out, wheelEvents(mods, false, now)...)
	}
	if buttons&tcell.WheelLeft != 0 {
		out = append(out, panStep(geometry.Pt(wheelPanCells, 0), now))
	}
	if buttons&tcell.WheelRight != 0 {
		out = append(out, panStep(geometry.Pt(-wheelPanCells, 0), now))
	}

	left := buttons&tcell.Button1 != 0
	switch {
	case left && !m.leftDown:
		m.leftDown = true
		m.lastLeft = pos
		out = append(out, pointerEvent(pointer.PhaseDown, pos, mods))
	case left && m.leftDown && pos != m.lastLeft:
		m.lastLeft = pos
		out = append(out, pointerEvent(pointer.PhaseMove, pos, mods))
	case !left && m.leftDown:
		m.leftDown = false
		out = append(out, pointerEvent(pointer.PhaseUp, pos, mods))
	}

	right := buttons&tcell.Button3 != 0
	switch {
	case right && !m.rightDown:
		m.rightDown = true
		m.lastRight = pos
	case right && m.rightDown && pos != m.lastRight:
		delta := pos.Sub(m.lastRight)
		m.lastRight = pos
		out = append(out, panStep(delta, now))
	case !right && m.rightDown:
		m.rightDown = false
	}

	return out
}

// reset drops held-button state, e.g. when the screen suspends.
func (m *mouseState) reset() {
	m.leftDown = false
	m.rightDown = false
}

func pointerEvent(phase pointer.Phase, pos geometry.Point, mods key.Modifier) Event {
	return Event{Kind: EventPointer, Pointer: pointer.NewEvent(phase, pos, mods)}
}

// wheelEvents synthesizes one zoom step as a full pinch gesture, or a
// vertical pan step when shift is held.
func wheelEvents(mods key.Modifier, up bool, now time.Time) []Event {
	if mods.HasShift() {
		delta := geometry.Pt(0, wheelPanCells)
		if up {
			delta.Y = -wheelPanCells
		}
		return []Event{panStep(delta, now)}
	}

	factor := wheelZoomOut
	if up {
		factor = wheelZoomIn
	}
	return []Event{
		{Kind: EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageBegin, Timestamp: now}},
		{Kind: EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageChange, Factor: factor, Timestamp: now}},
		{Kind: EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageEnd, Timestamp: now}},
	}
}

func panStep(delta geometry.Point, now time.Time) Event {
	return Event{Kind: EventPan, Pan: pointer.PanEvent{Stage: pointer.StageChange, Delta: delta, Timestamp: now}}
}
