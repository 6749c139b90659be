package export

import (
	"math"

	"github.com/jung-kurt/gofpdf"

	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// A4 printable area in millimeters, with a 10mm margin on every side.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	pageMargin = 10.0
)

// WritePDF renders the board onto a single A4 page, scaled to fit the
// printable area while preserving aspect ratio.
func WritePDF(s *scene.Scene, path string) error {
	bounds, ok := contentBounds(s)
	if !ok {
		return ErrEmptyBoard
	}
	bounds = bounds.Pad(DefaultPadding)

	printW := pageWidth - 2*pageMargin
	printH := pageHeight - 2*pageMargin
	scale := math.Min(printW/bounds.Width(), printH/bounds.Height())

	// mm converts a canvas point to page coordinates.
	mm := func(p geometry.Point) (float64, float64) {
		return pageMargin + (p.X-bounds.Min.X)*scale, pageMargin + (p.Y-bounds.Min.Y)*scale
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetLineWidth(0.5)

	for _, a := range s.Arrows() {
		setPDFColor(pdf, a.Color)
		x1, y1 := mm(a.Start)
		x2, y2 := mm(a.End)
		pdf.Line(x1, y1, x2, y2)
		drawPDFArrowhead(pdf, x1, y1, x2, y2, scale)
		if a.Bidirectional {
			drawPDFArrowhead(pdf, x2, y2, x1, y1, scale)
		}
	}

	for _, sym := range s.Symbols() {
		for _, p := range sym.Paths {
			if len(p.Points) < 2 {
				continue
			}
			setPDFColor(pdf, p.Color)
			for i := 1; i < len(p.Points); i++ {
				x1, y1 := mm(sym.Position.Add(p.Points[i-1]))
				x2, y2 := mm(sym.Position.Add(p.Points[i]))
				pdf.Line(x1, y1, x2, y2)
			}
		}
	}

	return pdf.OutputFileAndClose(path)
}

func setPDFColor(pdf *gofpdf.Fpdf, c scene.Color) {
	r := int(c.R * 255)
	g := int(c.G * 255)
	b := int(c.B * 255)
	pdf.SetDrawColor(r, g, b)
	pdf.SetFillColor(r, g, b)
}

func drawPDFArrowhead(pdf *gofpdf.Fpdf, fx, fy, tx, ty, scale float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.01 {
		return
	}
	dx /= length
	dy /= length

	size := arrowheadSize * scale
	pdf.Polygon([]gofpdf.PointType{
		{X: tx, Y: ty},
		{X: tx - size*dx + size*dy*arrowheadAngle, Y: ty - size*dy - size*dx*arrowheadAngle},
		{X: tx - size*dx - size*dy*arrowheadAngle, Y: ty - size*dy + size*dx*arrowheadAngle},
	}, "F")
}
