package editor

import (
	"glyphboard/internal/input/key"
	"glyphboard/internal/scene"
)

// HandleKeyPress handles a key-down event. Priority: Escape cancels an
// open assignment prompt; Backspace unassigns inside the prompt; 'z' and
// 'y' are undo and redo; an open prompt consumes the key as an
// assignment attempt; a bound key arms placement; anything else is a
// no-op. Character matching is case-insensitive.
func (e *Editor) HandleKeyPress(ev key.Event) {
	defer e.changed()

	if ev.IsModifierKey() {
		e.mods = e.mods.With(ev.Key.Modifier())
		return
	}

	r := ev.Lower()
	switch {
	case ev.IsEscape():
		if e.promptOpen {
			e.state = drawingState{}
			e.promptOpen = false
			e.assignToggle = false
		}

	case ev.IsBackspace():
		if e.state.kind == StateAssigning {
			e.unassign(e.state.assignID)
			e.state = drawingState{}
			e.promptOpen = false
		}

	case r == scene.UndoKey:
		e.Undo()

	case r == scene.RedoKey:
		e.Redo()

	case e.state.kind == StateAssigning:
		e.attemptAssign(r)

	case e.scene.HasBinding(r):
		e.state = drawingState{kind: StatePlacing, placeKey: r}
	}
}

// HandleKeyRelease handles a key-up event. Only the modifier keys
// matter: releasing the primary modifier commits a pending multi-stroke
// symbol when capture is not held open by the sticky toggle.
func (e *Editor) HandleKeyRelease(ev key.Event) {
	defer e.changed()

	if !ev.IsModifierKey() {
		return
	}
	e.mods = e.mods.Without(ev.Key.Modifier())
	if ev.Key == key.KeyPrimary {
		e.primaryReleased()
	}
}

// primaryReleased runs the commit-on-release rule: a pending
// multi-stroke symbol with at least one completed stroke commits when no
// stroke is actively recording and the sticky toggle is off. With the
// toggle on, the release is already recorded in the modifier state and
// the commit stays deferred to pointer-up or toggle-off.
func (e *Editor) primaryReleased() {
	if len(e.pendingPaths) > 0 && !e.strokeActive && !e.symbolToggle {
		e.commitPendingSymbol()
	}
}

// attemptAssign tries to bind the assignment target to r (already
// lowercased). Reserved and non-alphanumeric keys are rejected with no
// state change, leaving the prompt open. On success the symbol's old
// binding (if different) is removed first, the key is fanned out to
// every entry sharing the ID, the tapped entry becomes the stored
// template, and the prompt closes.
func (e *Editor) attemptAssign(r rune) {
	if !scene.BindableKey(r) {
		return
	}
	id := e.state.assignID
	entries := e.scene.SymbolsByID(id)
	if len(entries) == 0 {
		// The symbol is gone (undone mid-prompt); nothing to bind.
		return
	}

	// Prefer the entry that was tapped; fall back to the topmost entry
	// with the ID if a scene swap replaced it.
	target := e.state.assignTarget
	live := false
	for _, sym := range entries {
		if sym == target {
			live = true
			break
		}
	}
	if !live {
		target = e.scene.TopSymbolByID(id)
	}
	e.assignTo(target, r)

	e.assignToggle = false
	e.state = drawingState{}
	e.promptOpen = false
}

// AssignKey binds the symbol with the given ID to r, replacing any
// previous binding on either side of the pair. The topmost entry
// carrying the ID becomes the stored template. Returns false with no
// mutation when r is reserved or not alphanumeric, or when no entry
// carries the ID.
func (e *Editor) AssignKey(symbolID string, r rune) bool {
	if !scene.BindableKey(r) {
		return false
	}
	target := e.scene.TopSymbolByID(symbolID)
	if target == nil {
		return false
	}
	e.assignTo(target, r)
	e.changed()
	return true
}

// assignTo records a snapshot and binds target to r, fanning the key
// out to every entry sharing the target's ID.
func (e *Editor) assignTo(target *scene.Symbol, r rune) {
	e.saveSnapshot()
	if old := target.AssignedKey; old != 0 && old != r {
		e.scene.Unbind(old)
	}
	e.scene.SetAssignedKey(target.ID, r)
	e.scene.Bind(r, target)
}

// unassign removes the key binding held by the symbol with the given ID
// and clears AssignedKey on every entry sharing it. Without an existing
// binding it mutates nothing.
func (e *Editor) unassign(id string) {
	entries := e.scene.SymbolsByID(id)
	had := e.scene.KeyFor(id) != 0
	for _, sym := range entries {
		if sym.AssignedKey != 0 {
			had = true
			break
		}
	}
	if !had {
		return
	}
	e.saveSnapshot()
	e.scene.ClearAssignedKey(id)
}
