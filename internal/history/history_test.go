package history

import (
	"testing"

	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// markedScene builds a scene whose single arrow start X identifies it.
func markedScene(mark float64) *scene.Scene {
	s := scene.New()
	s.AddArrow(scene.NewArrow(geometry.Pt(mark, 0), geometry.Pt(mark, 10), false, scene.Black))
	return s
}

func mark(s *scene.Scene) float64 {
	return s.Arrows()[0].Start.X
}

func TestUndoRedoExchange(t *testing.T) {
	h := New(10)

	if h.CanUndo() || h.CanRedo() {
		t.Fatal("fresh history must have nothing to undo or redo")
	}
	if _, ok := h.Undo(markedScene(0)); ok {
		t.Fatal("undo on empty history must fail")
	}
	if _, ok := h.Redo(markedScene(0)); ok {
		t.Fatal("redo on empty history must fail")
	}

	h.Save(markedScene(1))
	h.Save(markedScene(2))
	if !h.CanUndo() {
		t.Fatal("CanUndo must be true after saves")
	}

	got, ok := h.Undo(markedScene(3))
	if !ok || mark(got) != 2 {
		t.Fatalf("first undo = %v, %v; want snapshot 2", got, ok)
	}
	if !h.CanRedo() {
		t.Fatal("CanRedo must be true after an undo")
	}

	got, ok = h.Redo(got)
	if !ok || mark(got) != 3 {
		t.Fatalf("redo = %v, %v; want snapshot 3 back", got, ok)
	}
	if h.CanRedo() {
		t.Fatal("CanRedo must be false after redoing the only entry")
	}
	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", h.UndoCount())
	}
}

func TestSaveClearsRedo(t *testing.T) {
	h := New(10)
	h.Save(markedScene(1))
	if _, ok := h.Undo(markedScene(2)); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("redo stack should hold the exchanged state")
	}

	h.Save(markedScene(3))
	if h.CanRedo() {
		t.Error("saving must clear the redo stack")
	}
}

func TestEviction(t *testing.T) {
	h := New(3)
	for i := 1; i <= 5; i++ {
		h.Save(markedScene(float64(i)))
	}
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount = %d, want 3 after eviction", h.UndoCount())
	}

	// Oldest two entries are gone: undos yield 5, 4, 3 and then stop.
	want := []float64{5, 4, 3}
	cur := markedScene(99)
	for i, w := range want {
		got, ok := h.Undo(cur)
		if !ok {
			t.Fatalf("undo %d failed", i+1)
		}
		if mark(got) != w {
			t.Fatalf("undo %d = snapshot %v, want %v", i+1, mark(got), w)
		}
		cur = got
	}
	if _, ok := h.Undo(cur); ok {
		t.Error("evicted entries must not be undoable")
	}
}

func TestClear(t *testing.T) {
	h := New(10)
	h.Save(markedScene(1))
	h.Undo(markedScene(2))
	h.Clear()

	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear must empty both stacks")
	}
}

func TestDepthDefaults(t *testing.T) {
	if h := New(0); h.MaxDepth() != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", h.MaxDepth(), DefaultMaxDepth)
	}

	h := New(10)
	for i := 1; i <= 10; i++ {
		h.Save(markedScene(float64(i)))
	}
	h.SetMaxDepth(4)
	if h.UndoCount() != 4 {
		t.Errorf("UndoCount after shrink = %d, want 4", h.UndoCount())
	}
	got, ok := h.Undo(markedScene(0))
	if !ok || mark(got) != 10 {
		t.Errorf("newest snapshot after shrink = %v, want 10", mark(got))
	}
}
