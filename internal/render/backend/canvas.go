package backend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"glyphboard/internal/editor"
	"glyphboard/internal/geometry"
	"glyphboard/internal/scene"
)

// Canvas glyphs. Arrows use box-drawing segments with a solid head;
// symbol strokes rasterize as dots, the live stroke and pending strokes
// as hollow dots so unfinished ink reads differently.
const (
	glyphHorizontal = '─'
	glyphVertical   = '│'
	glyphDiagDown   = '╲'
	glyphDiagUp     = '╱'
	glyphStroke     = '•'
	glyphWet        = '◦'

	headRight = '▶'
	headLeft  = '◀'
	headUp    = '▲'
	headDown  = '▼'
)

// RenderFrame rasterizes a frame into the grid. The bottom row carries
// the status line; everything above is canvas.
func RenderFrame(f editor.Frame, g *Grid) {
	g.Fill(' ', tcell.StyleDefault)
	w, h := g.Size()
	if w == 0 || h == 0 {
		return
	}

	for _, a := range f.Arrows {
		drawArrow(g, f, a)
	}
	for _, sym := range f.Symbols {
		drawSymbol(g, f, sym)
	}
	wet := tcell.StyleDefault.Dim(true)
	for _, p := range f.PendingPaths {
		drawPolyline(g, f, p.Points, geometry.Point{}, glyphWet, wet)
	}
	if len(f.Stroke.Points) > 0 {
		drawPolyline(g, f, f.Stroke.Points, geometry.Point{}, glyphWet, styleFor(f.Stroke.Color))
	}

	writeStatus(g, f, h-1)
}

// drawArrow plots the segment and caps it with heads: always at the
// end, and at the start too when bidirectional.
func drawArrow(g *Grid, f editor.Frame, a *scene.Arrow) {
	style := styleFor(a.Color)
	x0, y0 := cellAt(f, a.Start)
	x1, y1 := cellAt(f, a.End)

	plotLine(g, x0, y0, x1, y1, lineGlyph(x1-x0, y1-y0), style)
	g.Set(x1, y1, headGlyph(x1-x0, y1-y0), style)
	if a.Bidirectional {
		g.Set(x0, y0, headGlyph(x0-x1, y0-y1), style)
	}
}

// drawSymbol plots each stroke path, then overlays the assigned key at
// the symbol's center so bound glyphs identify themselves.
func drawSymbol(g *Grid, f editor.Frame, sym *scene.Symbol) {
	for _, p := range sym.Paths {
		drawPolyline(g, f, p.Points, sym.Position, glyphStroke, styleFor(p.Color))
	}
	if sym.AssignedKey != 0 {
		x, y := cellAt(f, sym.Position)
		g.Set(x, y, sym.AssignedKey, tcell.StyleDefault.Bold(true).Underline(true))
	}
}

// drawPolyline plots consecutive points (offset by origin) as line
// segments of the given glyph; a single point is one cell.
func drawPolyline(g *Grid, f editor.Frame, pts []geometry.Point, origin geometry.Point, glyph rune, style tcell.Style) {
	if len(pts) == 0 {
		return
	}
	x0, y0 := cellAt(f, origin.Add(pts[0]))
	if len(pts) == 1 {
		g.Set(x0, y0, glyph, style)
		return
	}
	for _, p := range pts[1:] {
		x1, y1 := cellAt(f, origin.Add(p))
		plotLine(g, x0, y0, x1, y1, glyph, style)
		x0, y0 = x1, y1
	}
}

// plotLine draws a Bresenham line of one glyph, endpoints included.
func plotLine(g *Grid, x0, y0, x1, y1 int, glyph rune, style tcell.Style) {
	dx := abs(x1 - x0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	dy := -abs(y1 - y0)
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		g.Set(x0, y0, glyph, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// lineGlyph picks the segment glyph for an overall direction. Screen y
// grows downward, so right-and-down slopes use the falling diagonal.
func lineGlyph(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case ady == 0 || adx >= 2*ady:
		return glyphHorizontal
	case adx == 0 || ady >= 2*adx:
		return glyphVertical
	case (dx > 0) == (dy > 0):
		return glyphDiagDown
	default:
		return glyphDiagUp
	}
}

// headGlyph picks the arrowhead for the dominant travel direction.
func headGlyph(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return headRight
		}
		return headLeft
	}
	if dy >= 0 {
		return headDown
	}
	return headUp
}

// cellAt projects a canvas point to a grid cell through the frame's
// frozen transform.
func cellAt(f editor.Frame, p geometry.Point) (int, int) {
	s := f.ToScreen(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

// styleFor converts a stroke color to a tcell style. Black ink maps to
// the terminal's default foreground so it stays visible on dark themes.
func styleFor(c scene.Color) tcell.Style {
	if c == scene.Black {
		return tcell.StyleDefault
	}
	fg := tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
	return tcell.StyleDefault.Foreground(fg)
}

func channel(v float64) int32 {
	return int32(math.Round(v * 255))
}

// writeStatus renders the status text on the given row.
func writeStatus(g *Grid, f editor.Frame, row int) {
	style := tcell.StyleDefault.Reverse(true)
	w, _ := g.Size()
	text := StatusText(f)
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		g.Set(x, row, r, style)
		x++
	}
	for ; x < w; x++ {
		g.Set(x, row, ' ', style)
	}
}

// StatusText builds the one-line interaction summary shown under the
// canvas.
func StatusText(f editor.Frame) string {
	if f.PromptOpen {
		return " assign: press a letter or digit (esc cancels)"
	}
	if f.State == editor.StatePlacing {
		return " placing: tap the canvas to stamp (esc cancels)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s", f.Mode)
	if f.SymbolToggle {
		b.WriteString(" · capture")
	}
	if f.AssignToggle {
		b.WriteString(" · assign")
	}

	b.WriteString(" │ undo ")
	b.WriteString(flag(f.CanUndo))
	b.WriteString(" redo ")
	b.WriteString(flag(f.CanRedo))

	if len(f.BoundKeys) > 0 {
		keys := make([]string, 0, len(f.BoundKeys))
		for _, r := range f.BoundKeys {
			keys = append(keys, string(r))
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, " │ keys %s", strings.Join(keys, " "))
	}

	fmt.Fprintf(&b, " │ %d→ %d◆ │ %.0f%%", len(f.Arrows), len(f.Symbols), f.Scale*100)
	return b.String()
}

func flag(on bool) string {
	if on {
		return "✓"
	}
	return "·"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
