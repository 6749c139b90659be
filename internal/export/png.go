package export

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"

	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// Arrowhead geometry in canvas units.
const (
	arrowheadSize  = 12.0
	arrowheadAngle = 0.5 // radians
)

// Options control raster export.
type Options struct {
	// Scale is pixels per canvas unit.
	Scale float64

	// Background fills the image before drawing.
	Background scene.Color

	// Padding is the margin around content in canvas units.
	Padding float64
}

// DefaultOptions returns a white 2x export with standard padding.
func DefaultOptions() Options {
	return Options{
		Scale:      2,
		Background: scene.White,
		Padding:    DefaultPadding,
	}
}

// WritePNG renders the board and saves it to path.
func WritePNG(s *scene.Scene, path string, opts Options) error {
	dc, err := render(s, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// EncodePNG renders the board and writes the PNG stream to w.
func EncodePNG(s *scene.Scene, w io.Writer, opts Options) error {
	dc, err := render(s, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func render(s *scene.Scene, opts Options) (*gg.Context, error) {
	bounds, ok := contentBounds(s)
	if !ok {
		return nil, ErrEmptyBoard
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid export scale %v", opts.Scale)
	}
	bounds = bounds.Pad(opts.Padding)

	width := int(math.Ceil(bounds.Width() * opts.Scale))
	height := int(math.Ceil(bounds.Height() * opts.Scale))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetRGBA(opts.Background.R, opts.Background.G, opts.Background.B, opts.Background.A)
	dc.Clear()

	// px converts a canvas point to pixel coordinates.
	px := func(p geometry.Point) (float64, float64) {
		return (p.X - bounds.Min.X) * opts.Scale, (p.Y - bounds.Min.Y) * opts.Scale
	}

	for _, a := range s.Arrows() {
		drawArrow(dc, a, px, opts.Scale)
	}
	for _, sym := range s.Symbols() {
		drawSymbol(dc, sym, px, opts.Scale)
	}
	return dc, nil
}

func drawArrow(dc *gg.Context, a *scene.Arrow, px func(geometry.Point) (float64, float64), scale float64) {
	x1, y1 := px(a.Start)
	x2, y2 := px(a.End)

	dc.SetRGBA(a.Color.R, a.Color.G, a.Color.B, a.Color.A)
	dc.SetLineWidth(scene.DefaultStrokeWidth * scale)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	drawArrowhead(dc, x1, y1, x2, y2, scale)
	if a.Bidirectional {
		drawArrowhead(dc, x2, y2, x1, y1, scale)
	}
}

// drawArrowhead fills a triangular head at (tx,ty), pointing away from
// (fx,fy).
func drawArrowhead(dc *gg.Context, fx, fy, tx, ty, scale float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	size := arrowheadSize * scale
	baseX1 := tx - size*dx + size*dy*arrowheadAngle
	baseY1 := ty - size*dy - size*dx*arrowheadAngle
	baseX2 := tx - size*dx - size*dy*arrowheadAngle
	baseY2 := ty - size*dy + size*dx*arrowheadAngle

	dc.MoveTo(tx, ty)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

func drawSymbol(dc *gg.Context, sym *scene.Symbol, px func(geometry.Point) (float64, float64), scale float64) {
	for _, p := range sym.Paths {
		if len(p.Points) == 0 {
			continue
		}
		dc.SetRGBA(p.Color.R, p.Color.G, p.Color.B, p.Color.A)

		// A single captured point renders as a dot.
		if len(p.Points) == 1 {
			x, y := px(sym.Position.Add(p.Points[0]))
			dc.DrawPoint(x, y, p.Width*scale/2)
			dc.Fill()
			continue
		}

		dc.SetLineWidth(p.Width * scale)
		x0, y0 := px(sym.Position.Add(p.Points[0]))
		dc.MoveTo(x0, y0)
		for _, pt := range p.Points[1:] {
			x, y := px(sym.Position.Add(pt))
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}
}
