package scene

import (
	"github.com/google/uuid"

	"glyphboard/internal/geometry"
)

// ArrowHitThreshold is the maximum distance, in logical canvas units, at
// which a query point still counts as hitting an arrow's segment.
const ArrowHitThreshold = 15.0

// Arrow is a straight connector between two canvas points. Bidirectional
// arrows carry a head at both ends.
type Arrow struct {
	ID            string         `json:"id"`
	Start         geometry.Point `json:"start"`
	End           geometry.Point `json:"end"`
	Bidirectional bool           `json:"bidirectional"`
	Color         Color          `json:"color"`
}

// NewArrow creates an arrow with a fresh unique ID.
func NewArrow(start, end geometry.Point, bidirectional bool, color Color) *Arrow {
	return &Arrow{
		ID:            uuid.NewString(),
		Start:         start,
		End:           end,
		Bidirectional: bidirectional,
		Color:         color,
	}
}

// Center returns the midpoint of the arrow's segment.
func (a *Arrow) Center() geometry.Point {
	return a.Start.Midpoint(a.End)
}

// Hit reports whether p lies within the hit threshold of the segment.
// Zero-length arrows degrade to a distance test against the start point.
func (a *Arrow) Hit(p geometry.Point) bool {
	return geometry.DistanceToSegment(p, a.Start, a.End) <= ArrowHitThreshold
}

// Translate shifts both endpoints by delta, preserving length and
// orientation.
func (a *Arrow) Translate(delta geometry.Point) {
	a.Start = a.Start.Add(delta)
	a.End = a.End.Add(delta)
}

// Clone returns a deep copy of the arrow.
func (a *Arrow) Clone() *Arrow {
	out := *a
	return &out
}
