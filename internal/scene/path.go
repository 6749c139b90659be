package scene

import "glyphboard/internal/geometry"

// DefaultStrokeWidth is the stroke width applied when none is configured.
const DefaultStrokeWidth = 2.0

// Path is one continuous stroke: the ordered points produced between a
// pointer-down and pointer-up, with the stroke's color and width. A Path
// belongs to a Symbol once committed (points relative to the symbol
// center) or to the in-progress stroke buffer before that. Callers must
// not mutate a Path after the stroke ends; copies are made wherever a
// path crosses an ownership boundary.
type Path struct {
	Points []geometry.Point `json:"points"`
	Color  Color            `json:"color"`
	Width  float64          `json:"width"`
}

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	out := p
	out.Points = make([]geometry.Point, len(p.Points))
	copy(out.Points, p.Points)
	return out
}

// Translate returns a copy of the path with every point shifted by delta.
func (p Path) Translate(delta geometry.Point) Path {
	out := p
	out.Points = make([]geometry.Point, len(p.Points))
	for i, pt := range p.Points {
		out.Points[i] = pt.Add(delta)
	}
	return out
}

// clonePaths deep-copies a path slice.
func clonePaths(paths []Path) []Path {
	if paths == nil {
		return nil
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}
