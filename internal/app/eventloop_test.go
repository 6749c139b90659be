package app

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"glyphboard/internal/editor"
	"glyphboard/internal/geometry"
	"glyphboard/internal/input/key"
	"glyphboard/internal/input/pointer"
	"glyphboard/internal/render/backend"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	dir := t.TempDir()
	app, err := New(Options{
		ConfigPath: filepath.Join(dir, "config.toml"),
		BoardPath:  filepath.Join(dir, "board.json"),
		LogOutput:  io.Discard,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app
}

func ptrEvent(phase pointer.Phase, x, y float64, at time.Time) pointer.Event {
	return pointer.Event{
		Point:     geometry.Point{X: x, Y: y},
		Phase:     phase,
		Timestamp: at,
	}
}

func TestTapBuffer_DragPassthrough(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	out, cycled := b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	if len(out) != 0 || cycled {
		t.Fatalf("down should be buffered, got %d events, cycled=%v", len(out), cycled)
	}

	out, _ = b.Pointer(ptrEvent(pointer.PhaseMove, 20, 10, t0.Add(16*time.Millisecond)))
	if len(out) != 2 {
		t.Fatalf("move should release the buffered down, got %d events", len(out))
	}
	if out[0].Phase != pointer.PhaseDown || out[1].Phase != pointer.PhaseMove {
		t.Errorf("expected down then move, got %v then %v", out[0].Phase, out[1].Phase)
	}

	out, _ = b.Pointer(ptrEvent(pointer.PhaseMove, 30, 10, t0.Add(32*time.Millisecond)))
	if len(out) != 1 || out[0].Phase != pointer.PhaseMove {
		t.Errorf("later moves should pass straight through, got %d events", len(out))
	}

	out, _ = b.Pointer(ptrEvent(pointer.PhaseUp, 40, 10, t0.Add(48*time.Millisecond)))
	if len(out) != 1 || out[0].Phase != pointer.PhaseUp {
		t.Errorf("drag up should pass straight through, got %d events", len(out))
	}
}

func TestTapBuffer_SingleClickHeldUntilExpire(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(50*time.Millisecond)))
	if len(out) != 0 || cycled {
		t.Fatalf("click should be held for the window, got %d events, cycled=%v", len(out), cycled)
	}
	if b.C() == nil {
		t.Fatal("expected an armed expiry timer")
	}

	out = b.Expire()
	if len(out) != 2 {
		t.Fatalf("expire should release the click, got %d events", len(out))
	}
	if out[0].Phase != pointer.PhaseDown || out[1].Phase != pointer.PhaseUp {
		t.Errorf("expected down then up, got %v then %v", out[0].Phase, out[1].Phase)
	}
	if out[0].Point.X != 10 || out[0].Point.Y != 10 {
		t.Errorf("expected click position preserved, got %v", out[0].Point)
	}
	if b.C() != nil {
		t.Error("expected timer disarmed after expire")
	}
}

func TestTapBuffer_DoubleTapCycles(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(120*time.Millisecond)))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 12, 10, t0.Add(160*time.Millisecond)))

	if !cycled {
		t.Fatal("expected a double-tap")
	}
	if len(out) != 0 {
		t.Errorf("double-tap clicks must be swallowed, got %d events", len(out))
	}
	if b.C() != nil {
		t.Error("expected timer disarmed after double-tap")
	}
}

func TestTapBuffer_TripleTapHoldsFreshSingle(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0.Add(100*time.Millisecond)))
	_, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(140*time.Millisecond)))
	if !cycled {
		t.Fatal("expected the second tap to complete a double")
	}

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0.Add(200*time.Millisecond)))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(240*time.Millisecond)))
	if cycled {
		t.Error("third tap should start a fresh sequence, not cycle again")
	}
	if len(out) != 0 {
		t.Errorf("third tap should be held, got %d events", len(out))
	}
	if b.C() == nil {
		t.Error("expected the fresh single to be armed")
	}
}

func TestTapBuffer_SlowSecondClickReleasesFirst(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0.Add(600*time.Millisecond)))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(640*time.Millisecond)))

	if cycled {
		t.Error("clicks outside the window must not pair")
	}
	if len(out) != 2 || out[0].Phase != pointer.PhaseDown || out[1].Phase != pointer.PhaseUp {
		t.Fatalf("expected the first click released, got %d events", len(out))
	}
	if b.C() == nil {
		t.Error("expected the second click to be held")
	}
}

func TestTapBuffer_DistantSecondClickReleasesFirst(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 200, 200, t0.Add(100*time.Millisecond)))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 200, 200, t0.Add(140*time.Millisecond)))

	if cycled {
		t.Error("distant clicks must not pair")
	}
	if len(out) != 2 {
		t.Fatalf("expected the first click released, got %d events", len(out))
	}
	if out[0].Point.X != 10 {
		t.Errorf("expected the first click's events, got point %v", out[0].Point)
	}
}

func TestTapBuffer_ClickThenDragFlushesInOrder(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(100*time.Millisecond)))
	out, _ := b.Pointer(ptrEvent(pointer.PhaseMove, 40, 40, t0.Add(140*time.Millisecond)))

	want := []pointer.Phase{pointer.PhaseDown, pointer.PhaseUp, pointer.PhaseDown, pointer.PhaseMove}
	if len(out) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(out))
	}
	for i, phase := range want {
		if out[i].Phase != phase {
			t.Errorf("event %d: expected %v, got %v", i, phase, out[i].Phase)
		}
	}

	// The delivered click is real now; a quick tap after the drag must
	// not pair with it.
	b.Pointer(ptrEvent(pointer.PhaseUp, 40, 40, t0.Add(180*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(220*time.Millisecond)))
	_, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 12, 10, t0.Add(260*time.Millisecond)))
	if cycled {
		t.Error("tap after a drag must start a fresh sequence")
	}
}

func TestTapBuffer_FlushReleasesEverything(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(100*time.Millisecond)))

	out := b.Flush()
	want := []pointer.Phase{pointer.PhaseDown, pointer.PhaseUp, pointer.PhaseDown}
	if len(out) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(out))
	}
	for i, phase := range want {
		if out[i].Phase != phase {
			t.Errorf("event %d: expected %v, got %v", i, phase, out[i].Phase)
		}
	}
	if b.C() != nil {
		t.Error("expected timer disarmed after flush")
	}
	if more := b.Flush(); len(more) != 0 {
		t.Errorf("second flush should be empty, got %d events", len(more))
	}
}

func TestTapBuffer_CancelDiscardsBuffered(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Pointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(100*time.Millisecond)))

	out, cycled := b.Pointer(ptrEvent(pointer.PhaseCancel, 12, 10, t0.Add(140*time.Millisecond)))
	if cycled {
		t.Error("cancel must not cycle")
	}
	if len(out) != 1 || out[0].Phase != pointer.PhaseCancel {
		t.Fatalf("expected only the cancel delivered, got %d events", len(out))
	}
	if b.C() != nil {
		t.Error("expected timer disarmed after cancel")
	}
}

func TestTapBuffer_ExpiredClickStartsFreshSequence(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	b.Expire()

	// Inside the tracker's raw window of the first tap, but the first
	// click was already delivered; pairing now would cycle after a mark
	// was made.
	b.Pointer(ptrEvent(pointer.PhaseDown, 10, 10, t0.Add(300*time.Millisecond)))
	out, cycled := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(340*time.Millisecond)))
	if cycled {
		t.Error("tap after expiry must not pair with the delivered click")
	}
	if len(out) != 0 {
		t.Errorf("tap after expiry should be held, got %d events", len(out))
	}
}

func TestTapBuffer_StrayEventsPassThrough(t *testing.T) {
	b := newTapBuffer()
	t0 := time.Now()

	out, _ := b.Pointer(ptrEvent(pointer.PhaseUp, 10, 10, t0))
	if len(out) != 1 || out[0].Phase != pointer.PhaseUp {
		t.Errorf("stray up should pass through, got %d events", len(out))
	}

	out, _ = b.Pointer(ptrEvent(pointer.PhaseMove, 10, 10, t0.Add(time.Millisecond)))
	if len(out) != 1 || out[0].Phase != pointer.PhaseMove {
		t.Errorf("stray move should pass through, got %d events", len(out))
	}
}

func TestHandleKey_PrimaryQQuits(t *testing.T) {
	app := newTestApp(t)

	err := app.handleKey(key.NewRuneEvent('q', key.ModPrimary))
	if !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}

func TestHandleKey_SpaceCyclesCanvasMode(t *testing.T) {
	app := newTestApp(t)

	if mode := app.editor.CanvasMode(); mode != editor.ModeDraw {
		t.Fatalf("expected initial mode draw, got %v", mode)
	}

	if err := app.handleKey(key.NewRuneEvent(' ', key.ModNone)); err != nil {
		t.Fatalf("handleKey(space) failed: %v", err)
	}
	if mode := app.editor.CanvasMode(); mode != editor.ModeMove {
		t.Errorf("expected mode move after space, got %v", mode)
	}

	app.handleKey(key.NewRuneEvent(' ', key.ModNone))
	app.handleKey(key.NewRuneEvent(' ', key.ModNone))
	if mode := app.editor.CanvasMode(); mode != editor.ModeDraw {
		t.Errorf("expected mode wrapped back to draw, got %v", mode)
	}
}

func TestHandleKey_TabTogglesSymbolCapture(t *testing.T) {
	app := newTestApp(t)

	if app.editor.SymbolToggle() {
		t.Fatal("expected symbol capture off initially")
	}
	app.handleKey(key.NewRuneEvent('\t', key.ModNone))
	if !app.editor.SymbolToggle() {
		t.Error("expected symbol capture on after tab")
	}
	app.handleKey(key.NewRuneEvent('\t', key.ModNone))
	if app.editor.SymbolToggle() {
		t.Error("expected symbol capture off after second tab")
	}
}

func TestHandleKey_ChordClearsBoard(t *testing.T) {
	app := newTestApp(t)

	drawArrow(app, 10, 10, 60, 60)
	if n := app.editor.Scene().ArrowCount(); n != 1 {
		t.Fatalf("expected 1 arrow drawn, got %d", n)
	}

	if err := app.handleKey(key.NewRuneEvent('n', key.ModPrimary)); err != nil {
		t.Fatalf("handleKey(primary+n) failed: %v", err)
	}
	if n := app.editor.Scene().ArrowCount(); n != 0 {
		t.Errorf("expected board cleared, got %d arrows", n)
	}
}

func TestHandleKey_UnclaimedChordFallsThrough(t *testing.T) {
	app := newTestApp(t)

	drawArrow(app, 10, 10, 60, 60)
	if n := app.editor.Scene().ArrowCount(); n != 1 {
		t.Fatalf("expected 1 arrow drawn, got %d", n)
	}

	// primary+z is not in the application chord table; the canvas core
	// owns it as undo.
	app.handleKey(key.NewRuneEvent('z', key.ModPrimary))
	if n := app.editor.Scene().ArrowCount(); n != 0 {
		t.Errorf("expected undo via primary+z, got %d arrows", n)
	}
}

func TestHandleKey_PunctuationIgnored(t *testing.T) {
	app := newTestApp(t)

	mode := app.editor.CanvasMode()
	toggle := app.editor.SymbolToggle()

	for _, r := range []rune{'!', '?', ';', '/', '~'} {
		if err := app.handleKey(key.NewRuneEvent(r, key.ModNone)); err != nil {
			t.Fatalf("handleKey(%q) failed: %v", r, err)
		}
	}

	if app.editor.CanvasMode() != mode {
		t.Error("punctuation must not change the canvas mode")
	}
	if app.editor.SymbolToggle() != toggle {
		t.Error("punctuation must not flip symbol capture")
	}
}

func TestDispatch_ResizeUpdatesTransform(t *testing.T) {
	app := newTestApp(t)
	app.sig.Drain()

	err := app.dispatch(backend.Event{Kind: backend.EventResize, Width: 120, Height: 40})
	if err != nil {
		t.Fatalf("dispatch(resize) failed: %v", err)
	}

	w, h := app.editor.Transform().ScreenSize()
	if w != 120 || h != 40 {
		t.Errorf("expected screen size 120x40, got %vx%v", w, h)
	}

	select {
	case <-app.sig.C():
	default:
		t.Error("expected a repaint signal after resize")
	}
}

func TestDispatch_KeyFlushesPendingClick(t *testing.T) {
	app := newTestApp(t)
	t0 := time.Now()

	// A click sits in the buffer waiting for its window.
	app.handlePointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	app.handlePointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	if n := app.editor.Scene().ArrowCount(); n != 0 {
		t.Fatalf("expected the click still buffered, got %d arrows", n)
	}

	// A key arriving forces the click out first.
	err := app.dispatch(backend.Event{Kind: backend.EventKey, Key: key.NewRuneEvent(' ', key.ModNone)})
	if err != nil {
		t.Fatalf("dispatch(key) failed: %v", err)
	}
	if n := app.editor.Scene().ArrowCount(); n != 1 {
		t.Errorf("expected the buffered click delivered before the key, got %d arrows", n)
	}
	if app.taps.C() != nil {
		t.Error("expected the tap buffer drained")
	}
}

func TestHandlePointer_DoubleTapCyclesWithoutMarks(t *testing.T) {
	app := newTestApp(t)
	t0 := time.Now()

	app.handlePointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	app.handlePointer(ptrEvent(pointer.PhaseUp, 10, 10, t0.Add(40*time.Millisecond)))
	app.handlePointer(ptrEvent(pointer.PhaseDown, 12, 10, t0.Add(120*time.Millisecond)))
	app.handlePointer(ptrEvent(pointer.PhaseUp, 12, 10, t0.Add(160*time.Millisecond)))

	if mode := app.editor.CanvasMode(); mode != editor.ModeMove {
		t.Errorf("expected double-tap to cycle draw to move, got %v", mode)
	}
	if n := app.editor.Scene().ArrowCount(); n != 0 {
		t.Errorf("double-tap must leave no marks, got %d arrows", n)
	}
	if app.editor.CanUndo() {
		t.Error("double-tap must leave no history entries")
	}
}

func TestHandlePointer_DragDrawsArrow(t *testing.T) {
	app := newTestApp(t)
	t0 := time.Now()

	app.handlePointer(ptrEvent(pointer.PhaseDown, 10, 10, t0))
	app.handlePointer(ptrEvent(pointer.PhaseMove, 30, 30, t0.Add(16*time.Millisecond)))
	app.handlePointer(ptrEvent(pointer.PhaseMove, 50, 40, t0.Add(32*time.Millisecond)))
	app.handlePointer(ptrEvent(pointer.PhaseUp, 60, 50, t0.Add(48*time.Millisecond)))

	if n := app.editor.Scene().ArrowCount(); n != 1 {
		t.Fatalf("expected one arrow from the drag, got %d", n)
	}
}

func TestDispatch_PinchZooms(t *testing.T) {
	app := newTestApp(t)

	before := app.editor.Transform().Scale()
	app.dispatch(backend.Event{Kind: backend.EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageBegin}})
	app.dispatch(backend.Event{Kind: backend.EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageChange, Factor: 2.0}})
	app.dispatch(backend.Event{Kind: backend.EventPinch, Pinch: pointer.PinchEvent{Stage: pointer.StageEnd}})

	if after := app.editor.Transform().Scale(); after != before*2 {
		t.Errorf("expected scale %v after pinch, got %v", before*2, after)
	}
}

func TestDispatch_PanMovesOffset(t *testing.T) {
	app := newTestApp(t)

	before := app.editor.Transform().Offset()
	app.dispatch(backend.Event{Kind: backend.EventPan, Pan: pointer.PanEvent{Stage: pointer.StageChange, Delta: geometry.Point{X: 5, Y: -3}}})
	after := app.editor.Transform().Offset()

	if after == before {
		t.Error("expected pan to move the viewport offset")
	}
}

// drawArrow runs a full drag gesture through the pointer path.
func drawArrow(app *Application, x0, y0, x1, y1 float64) {
	t0 := time.Now()
	app.handlePointer(ptrEvent(pointer.PhaseDown, x0, y0, t0))
	app.handlePointer(ptrEvent(pointer.PhaseMove, (x0+x1)/2, (y0+y1)/2, t0.Add(16*time.Millisecond)))
	app.handlePointer(ptrEvent(pointer.PhaseUp, x1, y1, t0.Add(32*time.Millisecond)))
}
