// Package history provides bounded undo/redo over whole-scene snapshots.
//
// Each history entry is a deep copy of the scene at one instant; undo and
// redo exchange the caller's current snapshot for a stored one. The stacks
// are bounded: past the maximum depth the oldest undo entries are evicted,
// not merely hidden. History is owned by the event loop that owns the
// scene and performs no locking.
package history

import (
	"time"

	"glyphboard/internal/scene"
)

// DefaultMaxDepth is the number of undo entries kept when no explicit
// depth is configured.
const DefaultMaxDepth = 50

// entry wraps a snapshot with the time it was taken.
type entry struct {
	snap    *scene.Scene
	takenAt time.Time
}

// History manages the undo and redo stacks. Snapshots passed in are owned
// by the history from that point on; callers hand over clones, never the
// live scene.
type History struct {
	undoStack []entry
	redoStack []entry
	maxDepth  int
}

// New creates a history bounded to maxDepth entries. Non-positive depths
// fall back to DefaultMaxDepth.
func New(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &History{maxDepth: maxDepth}
}

// Save records a pre-mutation snapshot. The redo stack is cleared and the
// oldest undo entries are evicted beyond the depth bound.
func (h *History) Save(snap *scene.Scene) {
	h.undoStack = append(h.undoStack, entry{snap: snap, takenAt: time.Now()})
	h.redoStack = nil

	if len(h.undoStack) > h.maxDepth {
		excess := len(h.undoStack) - h.maxDepth
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo exchanges current for the most recent undo snapshot: current is
// pushed onto the redo stack and the popped snapshot is returned. Returns
// (nil, false) when there is nothing to undo; current is untouched.
func (h *History) Undo(current *scene.Scene) (*scene.Scene, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry{snap: current, takenAt: time.Now()})
	return top.snap, true
}

// Redo exchanges current for the most recent redo snapshot, symmetric to
// Undo. Returns (nil, false) when there is nothing to redo.
func (h *History) Redo(current *scene.Scene) (*scene.Scene, bool) {
	if len(h.redoStack) == 0 {
		return nil, false
	}
	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry{snap: current, takenAt: time.Now()})
	return top.snap, true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of stored undo snapshots.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of stored redo snapshots.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MaxDepth returns the current depth bound.
func (h *History) MaxDepth() int {
	return h.maxDepth
}

// SetMaxDepth changes the depth bound, evicting oldest undo entries if the
// stack is already larger. Non-positive depths fall back to
// DefaultMaxDepth.
func (h *History) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	h.maxDepth = depth
	if len(h.undoStack) > depth {
		excess := len(h.undoStack) - depth
		h.undoStack = h.undoStack[excess:]
	}
}
