package geometry

// Rect is an axis-aligned rectangle described by its minimum and maximum
// corners. A Rect with Min == Max is valid and contains exactly one point.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// RectAround builds the rectangle of the given width and height centered on c.
func RectAround(c Point, width, height float64) Rect {
	return Rect{
		Min: Point{X: c.X - width/2, Y: c.Y - height/2},
		Max: Point{X: c.X + width/2, Y: c.Y + height/2},
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return r.Min.Midpoint(r.Max)
}

// Contains reports whether the point lies inside the rectangle. Edges are
// inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest rectangle covering both r and s.
func (r Rect) Union(s Rect) Rect {
	out := r
	if s.Min.X < out.Min.X {
		out.Min.X = s.Min.X
	}
	if s.Min.Y < out.Min.Y {
		out.Min.Y = s.Min.Y
	}
	if s.Max.X > out.Max.X {
		out.Max.X = s.Max.X
	}
	if s.Max.Y > out.Max.Y {
		out.Max.Y = s.Max.Y
	}
	return out
}

// Pad returns the rectangle grown by d on every side. A negative d shrinks
// the rectangle; callers are responsible for not inverting it.
func (r Rect) Pad(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// BoundingBox returns the tight axis-aligned bound of the given points.
// The zero Rect is returned for an empty slice.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}
