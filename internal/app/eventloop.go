package app

import (
	"time"

	"glyphboard/internal/input/key"
	"glyphboard/internal/input/pointer"
	"glyphboard/internal/mirror"
	"glyphboard/internal/render/backend"
)

// eventLoop is the main application loop. Terminal input, repaint
// signals, tap-window expiry, autosave ticks, and config reloads are
// the only ways anything happens; all of them run here, so the editor
// never needs a lock.
func (app *Application) eventLoop() error {
	var events <-chan backend.Event
	if app.term != nil {
		events = app.term.Events()
	}

	var autosaveC <-chan time.Time
	if app.cfg.Autosave.Enabled {
		ticker := time.NewTicker(time.Duration(app.cfg.Autosave.IntervalSeconds) * time.Second)
		defer ticker.Stop()
		autosaveC = ticker.C
	}

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				// Terminal gone; treat it as a quit.
				return nil
			}
			timer := StartTimer()
			err := app.dispatch(ev)
			app.metrics.RecordEvent(timer.Elapsed())
			if err != nil {
				return err
			}

		case <-app.taps.C():
			for _, p := range app.taps.Expire() {
				app.deliverPointer(p)
			}

		case <-app.sig.C():
			app.paint()

		case <-autosaveC:
			app.autosave()

		case <-app.reload:
			app.reloadConfig()
		}
	}
}

// paint builds one frame and hands it to the terminal and the mirror.
func (app *Application) paint() {
	timer := StartTimer()
	f := app.editor.Frame()
	if app.term != nil {
		app.term.Render(f)
	}
	if app.mirrorUp {
		if err := app.mirror.Publish(mirror.BuildPayload(f)); err != nil {
			app.mirrorUp = false
		}
	}
	app.metrics.RecordFrame(timer.Elapsed())
}

// dispatch routes one terminal event. Non-pointer input flushes the tap
// buffer first so everything reaches the editor in arrival order.
func (app *Application) dispatch(ev backend.Event) error {
	switch ev.Kind {
	case backend.EventResize:
		app.editor.Transform().SetScreenSize(float64(ev.Width), float64(ev.Height))
		app.sig.Notify()

	case backend.EventKey:
		app.flushTaps()
		return app.handleKey(ev.Key)

	case backend.EventPointer:
		app.handlePointer(ev.Pointer)

	case backend.EventPinch:
		app.flushTaps()
		switch ev.Pinch.Stage {
		case pointer.StageBegin:
			app.editor.PinchBegin()
		case pointer.StageChange:
			app.editor.PinchUpdate(ev.Pinch.Factor)
		case pointer.StageEnd:
			app.editor.PinchEnd()
		}

	case backend.EventPan:
		app.flushTaps()
		if ev.Pan.Stage == pointer.StageChange {
			app.editor.PanBy(ev.Pan.Delta)
		}
	}
	return nil
}

// handlePointer feeds the event through the tap buffer and delivers
// whatever it releases. A completed double-tap cycles the canvas mode
// instead of delivering the two taps.
func (app *Application) handlePointer(ev pointer.Event) {
	deliver, cycled := app.taps.Pointer(ev)
	for _, p := range deliver {
		app.deliverPointer(p)
	}
	if cycled {
		app.editor.SetModifiers(ev.Modifiers)
		app.editor.CycleCanvasMode()
	}
}

// deliverPointer hands one pointer event to the editor, refreshing the
// modifier set from the event first. Terminals never report modifier
// releases on their own, so the edge detection lives in SetModifiers.
func (app *Application) deliverPointer(ev pointer.Event) {
	app.editor.SetModifiers(ev.Modifiers)
	switch ev.Phase {
	case pointer.PhaseDown:
		app.editor.StartDrawing(ev.Point)
	case pointer.PhaseMove:
		app.editor.ContinueDrawing(ev.Point)
	case pointer.PhaseUp:
		app.editor.EndDrawing(ev.Point)
	case pointer.PhaseCancel:
		app.editor.CancelDrawing()
	}
}

// flushTaps releases everything the tap buffer holds, in arrival order.
func (app *Application) flushTaps() {
	for _, p := range app.taps.Flush() {
		app.deliverPointer(p)
	}
}

// handleKey runs the application chord table, then forwards what the
// canvas core accepts: ASCII letters and digits, Escape, Backspace.
// Space cycles the canvas mode and Tab flips sticky symbol capture.
func (app *Application) handleKey(kev key.Event) error {
	app.editor.SetModifiers(kev.Modifiers)

	if kev.Modifiers.HasPrimary() && kev.IsRune() {
		if kev.Lower() == 'q' {
			return ErrQuit
		}
		if !app.editor.PromptOpen() && app.runChord(kev.Lower()) {
			return nil
		}
	}

	switch {
	case kev.IsEscape(), kev.IsBackspace():
		app.editor.HandleKeyPress(kev)

	case !kev.IsRune():
		// Other named keys have no canvas meaning.

	case isCanvasKey(kev.Lower()):
		app.editor.HandleKeyPress(kev)

	case app.editor.PromptOpen():
		// An open prompt swallows the rest so stray keys cannot flip
		// surface controls mid-assignment.

	case kev.Lower() == ' ':
		app.editor.CycleCanvasMode()

	case kev.Lower() == '\t':
		app.editor.SetSymbolToggle(!app.editor.SymbolToggle())
	}
	return nil
}

// runChord executes a primary-modifier shortcut. Unclaimed chords fall
// through to the canvas, which is how primary+z stays undo.
func (app *Application) runChord(r rune) bool {
	switch r {
	case 's':
		if err := app.SaveBoard(); err != nil {
			app.log.Error("save: %v", err)
		} else {
			app.log.Info("board saved to %s", app.boardPath)
		}
	case 'e':
		if path, err := app.ExportPNG(""); err != nil {
			app.log.Error("export: %v", err)
		} else {
			app.log.Info("exported %s", path)
		}
	case 'p':
		if path, err := app.ExportPDF(""); err != nil {
			app.log.Error("export: %v", err)
		} else {
			app.log.Info("exported %s", path)
		}
	case 'n':
		app.editor.Clear()
	case 'a':
		app.editor.SetAssignToggle(!app.editor.AssignToggle())
	case 'r':
		app.runScripts()
	default:
		return false
	}
	return true
}

// isCanvasKey reports whether the canvas core accepts the rune. The
// upstream filter admits ASCII letters and digits only; the rune is
// already lowercased.
func isCanvasKey(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// tapBuffer delays bare clicks for the double-tap window so that a
// double-tap cycles the canvas mode without its two clicks reaching the
// canvas, where each would land a mark of its own. A down is held until
// it resolves: a move makes it a drag (released immediately), an up
// makes it a click (held for the window), a second click inside the
// window makes the pair a double-tap (both swallowed).
type tapBuffer struct {
	taps   *pointer.TapTracker
	window time.Duration

	pending *pointer.Event  // down seen, fate unknown
	held    []pointer.Event // completed click awaiting the window
	timer   *time.Timer
	timerC  <-chan time.Time
}

func newTapBuffer() *tapBuffer {
	return &tapBuffer{
		taps:   pointer.NewTapTracker(0, 0),
		window: pointer.DefaultDoubleTapTime,
	}
}

// C returns the expiry channel for the held click; nil when nothing is
// held, which blocks its select case.
func (b *tapBuffer) C() <-chan time.Time {
	return b.timerC
}

// Pointer feeds one event through the buffer. It returns the events to
// deliver now, in arrival order, and whether a double-tap completed.
func (b *tapBuffer) Pointer(ev pointer.Event) ([]pointer.Event, bool) {
	switch ev.Phase {
	case pointer.PhaseDown:
		// A down with one already pending cannot come from a
		// well-behaved backend; release the old one rather than lose it.
		out := b.takePending()
		b.pending = &ev
		return out, false

	case pointer.PhaseMove:
		if b.pending == nil {
			return []pointer.Event{ev}, false
		}
		// The pending down turned into a drag. Anything held became a
		// real click the moment it is delivered, so later taps must
		// start a fresh sequence.
		out := append(b.release(), *b.pending, ev)
		b.pending = nil
		b.taps.Reset()
		return out, false

	case pointer.PhaseUp:
		if b.pending == nil {
			return []pointer.Event{ev}, false
		}
		down := *b.pending
		b.pending = nil
		if b.taps.Record(ev.Point, ev.Timestamp) >= 2 {
			b.discard()
			return nil, true
		}
		// Not a double of the held click, so its window is over.
		out := b.release()
		b.held = []pointer.Event{down, ev}
		b.arm()
		return out, false

	default: // PhaseCancel
		// The pointer was taken away. Buffered input never reached the
		// canvas, so there is nothing there to cancel from it; the
		// cancel still goes through for any live drag.
		b.pending = nil
		b.discard()
		b.taps.Reset()
		return []pointer.Event{ev}, false
	}
}

// Flush releases everything buffered, in arrival order. Call it before
// delivering any non-pointer input.
func (b *tapBuffer) Flush() []pointer.Event {
	out := append(b.release(), b.takePending()...)
	b.taps.Reset()
	return out
}

// Expire releases the held click once the window passes with no second
// tap. The next tap starts a fresh sequence even if the tracker's own
// clock would still pair them.
func (b *tapBuffer) Expire() []pointer.Event {
	out := b.release()
	b.taps.Reset()
	return out
}

// release returns the held click and disarms the timer.
func (b *tapBuffer) release() []pointer.Event {
	out := b.held
	b.discard()
	return out
}

// discard drops the held click and disarms the timer.
func (b *tapBuffer) discard() {
	b.held = nil
	b.disarm()
}

func (b *tapBuffer) takePending() []pointer.Event {
	if b.pending == nil {
		return nil
	}
	out := []pointer.Event{*b.pending}
	b.pending = nil
	return out
}

func (b *tapBuffer) arm() {
	b.disarm()
	b.timer = time.NewTimer(b.window)
	b.timerC = b.timer.C
}

func (b *tapBuffer) disarm() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
		b.timerC = nil
	}
}
