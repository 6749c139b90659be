package geometry

// ClosestPointOnSegment returns the point on the segment [a, b] nearest to p.
// The projection parameter is clamped to the segment, so endpoints are
// returned for points beyond either end. A degenerate segment (a == b)
// yields a.
func ClosestPointOnSegment(p, a, b Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// DistanceToSegment returns the distance from p to the nearest point on the
// segment [a, b].
func DistanceToSegment(p, a, b Point) float64 {
	return p.Distance(ClosestPointOnSegment(p, a, b))
}
