package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(1, -2)

	if got := p.Add(q); got != Pt(4, 2) {
		t.Errorf("Add = %v, want %v", got, Pt(4, 2))
	}
	if got := p.Sub(q); got != Pt(2, 6) {
		t.Errorf("Sub = %v, want %v", got, Pt(2, 6))
	}
	if got := p.Scale(2); got != Pt(6, 8) {
		t.Errorf("Scale = %v, want %v", got, Pt(6, 8))
	}
	if got := Pt(0, 0).Distance(p); !almostEqual(got, 5) {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := p.Midpoint(q); got != Pt(2, 1) {
		t.Errorf("Midpoint = %v, want %v", got, Pt(2, 1))
	}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular to middle", Pt(5, 5), Pt(0, 0), Pt(10, 0), 5},
		{"beyond start clamps to start", Pt(-3, 4), Pt(0, 0), Pt(10, 0), 5},
		{"beyond end clamps to end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"on the segment", Pt(4, 0), Pt(0, 0), Pt(10, 0), 0},
		{"degenerate segment", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
		{"diagonal segment", Pt(0, 3), Pt(-1, 1), Pt(1, 3), math.Sqrt(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToSegment(tt.p, tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("DistanceToSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	if got := ClosestPointOnSegment(Pt(5, 7), a, b); got != Pt(5, 0) {
		t.Errorf("interior projection = %v, want %v", got, Pt(5, 0))
	}
	if got := ClosestPointOnSegment(Pt(-5, 7), a, b); got != a {
		t.Errorf("clamped to start = %v, want %v", got, a)
	}
	if got := ClosestPointOnSegment(Pt(50, 7), a, b); got != b {
		t.Errorf("clamped to end = %v, want %v", got, b)
	}
}

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Rect
	}{
		{"empty", nil, Rect{}},
		{"single point", []Point{Pt(2, 3)}, Rect{Min: Pt(2, 3), Max: Pt(2, 3)}},
		{
			"spread points",
			[]Point{Pt(4, -1), Pt(-2, 5), Pt(0, 0)},
			Rect{Min: Pt(-2, -1), Max: Pt(4, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundingBox(tt.points); got != tt.want {
				t.Errorf("BoundingBox = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectOps(t *testing.T) {
	r := Rect{Min: Pt(0, 0), Max: Pt(10, 20)}

	if got := r.Width(); got != 10 {
		t.Errorf("Width = %v, want 10", got)
	}
	if got := r.Height(); got != 20 {
		t.Errorf("Height = %v, want 20", got)
	}
	if got := r.Center(); got != Pt(5, 10) {
		t.Errorf("Center = %v, want %v", got, Pt(5, 10))
	}
	if !r.Contains(Pt(10, 20)) {
		t.Error("Contains should include the max edge")
	}
	if r.Contains(Pt(10.01, 20)) {
		t.Error("Contains should exclude points past the max edge")
	}

	u := r.Union(Rect{Min: Pt(-5, 5), Max: Pt(3, 25)})
	want := Rect{Min: Pt(-5, 0), Max: Pt(10, 25)}
	if u != want {
		t.Errorf("Union = %v, want %v", u, want)
	}

	p := r.Pad(2)
	want = Rect{Min: Pt(-2, -2), Max: Pt(12, 22)}
	if p != want {
		t.Errorf("Pad = %v, want %v", p, want)
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Pt(10, 10), 50, 50)
	want := Rect{Min: Pt(-15, -15), Max: Pt(35, 35)}
	if r != want {
		t.Errorf("RectAround = %v, want %v", r, want)
	}
}
