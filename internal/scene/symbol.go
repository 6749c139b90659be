package scene

import (
	"github.com/google/uuid"

	"glyphboard/internal/geometry"
)

const (
	// SymbolPadding is added on every side of a symbol's tight path bound
	// when computing its bounding box.
	SymbolPadding = 20.0
	// DefaultSymbolSize is the edge length of the bounding box used for a
	// symbol with no path points.
	DefaultSymbolSize = 50.0
)

// Symbol is a user-drawn glyph: one or more strokes normalized so that the
// bounding-box center of all their points is the origin, positioned on the
// canvas by Position. AssignedKey is the shortcut rune bound to the
// symbol's ID, or 0 when unbound.
//
// Stamping a key-bound template produces a new Symbol value that reuses
// the template's ID, so an ID may be shared by several scene entries at
// once. State that must stay in step across those entries (AssignedKey) is
// updated by fanning out over the Scene, never through shared pointers.
type Symbol struct {
	ID          string         `json:"id"`
	Position    geometry.Point `json:"position"`
	Paths       []Path         `json:"paths"`
	AssignedKey rune           `json:"assignedKey,omitempty"`
}

// NewSymbol creates a symbol with a fresh unique ID. The paths must
// already be normalized relative to their shared bounding-box center.
func NewSymbol(position geometry.Point, paths []Path) *Symbol {
	return &Symbol{
		ID:       uuid.NewString(),
		Position: position,
		Paths:    clonePaths(paths),
	}
}

// Copy returns a placement copy: a new Symbol at position sharing the
// receiver's ID, paths, and assigned key.
func (s *Symbol) Copy(position geometry.Point) *Symbol {
	return &Symbol{
		ID:          s.ID,
		Position:    position,
		Paths:       clonePaths(s.Paths),
		AssignedKey: s.AssignedKey,
	}
}

// Clone returns a deep copy of the symbol, ID included.
func (s *Symbol) Clone() *Symbol {
	out := *s
	out.Paths = clonePaths(s.Paths)
	return &out
}

// Bounds returns the symbol's bounding box in canvas coordinates: the
// tight bound of all path points translated to Position and padded by
// SymbolPadding per side. A symbol with no points gets a default
// DefaultSymbolSize square centered on Position.
func (s *Symbol) Bounds() geometry.Rect {
	pts := s.pathPoints()
	if len(pts) == 0 {
		return geometry.RectAround(s.Position, DefaultSymbolSize, DefaultSymbolSize)
	}
	tight := geometry.BoundingBox(pts)
	return geometry.Rect{
		Min: tight.Min.Add(s.Position),
		Max: tight.Max.Add(s.Position),
	}.Pad(SymbolPadding)
}

// Size returns the width and height of the symbol's bounding box.
func (s *Symbol) Size() (width, height float64) {
	b := s.Bounds()
	return b.Width(), b.Height()
}

// Hit reports whether p lies inside the symbol's bounding box.
func (s *Symbol) Hit(p geometry.Point) bool {
	return s.Bounds().Contains(p)
}

func (s *Symbol) pathPoints() []geometry.Point {
	n := 0
	for _, p := range s.Paths {
		n += len(p.Points)
	}
	if n == 0 {
		return nil
	}
	pts := make([]geometry.Point, 0, n)
	for _, p := range s.Paths {
		pts = append(pts, p.Points...)
	}
	return pts
}

// NormalizePaths re-expresses the given paths relative to the center of
// their union bounding box and returns the normalized copies together with
// that center. Used when committing a multi-stroke symbol. Empty input
// yields no paths and a zero center.
func NormalizePaths(paths []Path) ([]Path, geometry.Point) {
	var all []geometry.Point
	for _, p := range paths {
		all = append(all, p.Points...)
	}
	if len(all) == 0 {
		return nil, geometry.Point{}
	}
	center := geometry.BoundingBox(all).Center()
	neg := geometry.Point{X: -center.X, Y: -center.Y}
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p.Translate(neg)
	}
	return out, center
}

// NewSymbolID returns a fresh unique symbol ID.
func NewSymbolID() string {
	return uuid.NewString()
}
