package editor

import (
	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// StartDrawing handles pointer-down at a screen-space point. What it
// means depends, in priority order, on the canvas mode, the assign
// intent, an armed placement, and the symbol-capture intent; the default
// is starting an arrow stroke.
func (e *Editor) StartDrawing(screen geometry.Point) {
	defer e.changed()
	p := e.view.ToCanvas(screen)

	switch e.canvasMode {
	case ModeErase:
		e.eraseAt(p)
		return
	case ModeMove:
		if sym := e.scene.SymbolAt(p); sym != nil {
			e.state = drawingState{kind: StateDraggingSymbol, dragSymbol: sym}
			e.dragSavePending = true
			return
		}
		if a := e.scene.ArrowAt(p); a != nil {
			e.state = drawingState{
				kind:       StateDraggingArrow,
				dragArrow:  a,
				grabOffset: p.Sub(a.Center()),
			}
			e.dragSavePending = true
		}
		return
	}

	// Draw mode.
	if e.assignToggle || e.mods.HasSecondary() {
		if sym := e.scene.SymbolAt(p); sym != nil {
			e.state = drawingState{kind: StateAssigning, assignID: sym.ID, assignTarget: sym}
			e.promptOpen = true
			return
		}
	}

	if e.state.kind == StatePlacing {
		if tpl := e.scene.Template(e.state.placeKey); tpl != nil {
			e.saveSnapshot()
			e.scene.AddSymbol(tpl.Copy(p))
			e.stats.Stamps++
		}
		e.state = drawingState{}
		return
	}

	if e.symbolToggle || e.mods.HasPrimary() {
		e.symbolCapture = true
		e.strokeActive = true
		e.strokeIsSymbol = true
		e.stroke = []geometry.Point{p}
		return
	}

	e.arrowStart = p
	e.arrowStartSet = true
	e.strokeActive = true
	e.strokeIsSymbol = false
	e.stroke = []geometry.Point{p}
}

// ContinueDrawing handles pointer-move at a screen-space point: it
// advances a drag, repeats the erase test, or extends the in-progress
// stroke.
func (e *Editor) ContinueDrawing(screen geometry.Point) {
	defer e.changed()
	p := e.view.ToCanvas(screen)

	switch {
	case e.state.kind == StateDraggingSymbol:
		e.takePendingDragSnapshot()
		e.state.dragSymbol.Position = p
	case e.state.kind == StateDraggingArrow:
		e.takePendingDragSnapshot()
		a := e.state.dragArrow
		newCenter := p.Sub(e.state.grabOffset)
		a.Translate(newCenter.Sub(a.Center()))
	case e.canvasMode == ModeErase:
		e.eraseAt(p)
	case e.canvasMode == ModeDraw && e.strokeActive:
		e.stroke = append(e.stroke, p)
	}
}

// EndDrawing handles pointer-up at a screen-space point. In Draw mode it
// finishes the stroke as a symbol stroke or a new arrow; in Move mode it
// drops the drag; in Erase mode it does nothing.
func (e *Editor) EndDrawing(screen geometry.Point) {
	defer e.changed()
	p := e.view.ToCanvas(screen)

	if e.state.kind == StateDraggingSymbol || e.state.kind == StateDraggingArrow {
		e.state = drawingState{}
		e.dragSavePending = false
	}

	switch e.canvasMode {
	case ModeMove:
		e.resetStroke()
		return
	case ModeErase:
		e.resetStroke()
		return
	}

	if !e.strokeActive {
		e.resetStroke()
		return
	}
	e.stroke = append(e.stroke, p)

	if e.strokeIsSymbol {
		e.pendingPaths = append(e.pendingPaths, scene.Path{
			Points: e.stroke,
			Color:  e.style.Color,
			Width:  e.style.Width,
		})
		e.resetStroke()
		if !e.symbolToggle && !e.mods.HasPrimary() {
			e.commitPendingSymbol()
		}
		return
	}

	if e.arrowStartSet {
		e.saveSnapshot()
		e.scene.AddArrow(scene.NewArrow(e.arrowStart, p, e.mods.HasShift(), e.style.Color))
		e.stats.Arrows++
	}
	e.resetStroke()
}

// CancelDrawing handles pointer-cancel: the in-progress stroke and any
// drag are discarded without committing anything and without touching
// history. Completed symbol strokes already pending stay pending.
func (e *Editor) CancelDrawing() {
	defer e.changed()
	if e.state.kind == StateDraggingSymbol || e.state.kind == StateDraggingArrow {
		e.state = drawingState{}
	}
	e.dragSavePending = false
	e.resetStroke()
}

// resetStroke clears the in-progress stroke buffer and flags.
func (e *Editor) resetStroke() {
	e.stroke = nil
	e.strokeActive = false
	e.strokeIsSymbol = false
	e.arrowStartSet = false
}

// takePendingDragSnapshot saves the pre-drag scene before the first
// position mutation of a drag gesture, so a whole drag undoes as one
// step.
func (e *Editor) takePendingDragSnapshot() {
	if e.dragSavePending {
		e.saveSnapshot()
		e.dragSavePending = false
	}
}

// eraseAt removes the topmost entity under p: symbols win over arrows,
// and at most one entity goes per call. Removing the scene entry that is
// a binding's stored template drops the binding with it. Missing
// everything is a no-op with no history entry.
func (e *Editor) eraseAt(p geometry.Point) {
	if sym := e.scene.SymbolAt(p); sym != nil {
		e.saveSnapshot()
		e.scene.RemoveSymbol(sym)
		e.stats.Erases++
		return
	}
	if a := e.scene.ArrowAt(p); a != nil {
		e.saveSnapshot()
		e.scene.RemoveArrow(a)
		e.stats.Erases++
	}
}

// commitPendingSymbol turns the pending stroke collection into one
// Symbol: the strokes are re-expressed relative to the center of their
// union bounding box and the symbol is placed at that center. With
// nothing pending it only clears the capture flag.
func (e *Editor) commitPendingSymbol() {
	if len(e.pendingPaths) == 0 {
		e.symbolCapture = false
		return
	}
	e.saveSnapshot()
	norm, center := scene.NormalizePaths(e.pendingPaths)
	e.scene.AddSymbol(scene.NewSymbol(center, norm))
	e.pendingPaths = nil
	e.symbolCapture = false
	e.stats.Symbols++
}
