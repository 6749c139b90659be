package backend

import "github.com/gdamore/tcell/v2"

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Grid is an off-screen cell buffer the frame rasterizer draws into.
// Out-of-bounds writes are dropped, so drawing code never clips.
type Grid struct {
	w, h  int
	cells []Cell
}

// NewGrid creates a grid of the given size. Non-positive dimensions
// yield an empty grid.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{w: w, h: h, cells: make([]Cell, w*h)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) {
	return g.w, g.h
}

// Set writes a cell. Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = Cell{Rune: r, Style: style}
}

// At reads a cell. Out-of-bounds reads return the zero cell.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return Cell{}
	}
	return g.cells[y*g.w+x]
}

// Fill sets every cell.
func (g *Grid) Fill(r rune, style tcell.Style) {
	for i := range g.cells {
		g.cells[i] = Cell{Rune: r, Style: style}
	}
}

// Each calls fn for every non-empty cell.
func (g *Grid) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.Rune != 0 {
				fn(x, y, c)
			}
		}
	}
}
