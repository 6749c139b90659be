package export

import (
	"errors"

	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// DefaultPadding is the margin around board content in canvas units.
const DefaultPadding = 40.0

// ErrEmptyBoard indicates there is nothing to export.
var ErrEmptyBoard = errors.New("nothing to export")

// contentBounds frames every arrow and symbol on the board. The second
// return is false when the board is empty.
func contentBounds(s *scene.Scene) (geometry.Rect, bool) {
	var bounds geometry.Rect
	has := false

	extend := func(r geometry.Rect) {
		if !has {
			bounds = r
			has = true
			return
		}
		bounds = bounds.Union(r)
	}

	for _, a := range s.Arrows() {
		extend(geometry.BoundingBox([]geometry.Point{a.Start, a.End}))
	}
	for _, sym := range s.Symbols() {
		extend(sym.Bounds())
	}
	return bounds, has
}
