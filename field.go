// seehuhn.de/go/jigsaw - cut images into interlocking jigsaw pieces
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package jigsaw

import "math"

const (
	// DefaultTabDepth is the tab depth used when none is configured.
	DefaultTabDepth = 0.30

	// MaxTabDepth is the largest tab depth for which tabs on perpendicular
	// sides of a cell cannot touch.
	MaxTabDepth = 0.33
)

// Grid describes the cell layout of a cut, in working image pixels.
type Grid struct {
	Rows, Cols int
	CellWidth  float64
	CellHeight float64

	// TabDepth is the maximal tab protrusion as a fraction of the cell
	// size perpendicular to the boundary. Zero selects DefaultTabDepth.
	TabDepth float64
}

func (g Grid) tabDepth() float64 {
	if g.TabDepth == 0 {
		return DefaultTabDepth
	}
	return g.TabDepth
}

func (g Grid) validate() error {
	switch {
	case g.Rows < 1 || g.Cols < 1:
		return invalidf("grid must have at least one row and column, got %dx%d", g.Rows, g.Cols)
	case !(g.CellWidth > 0) || !(g.CellHeight > 0) ||
		math.IsInf(g.CellWidth, 0) || math.IsInf(g.CellHeight, 0):
		return invalidf("cell size must be positive, got %gx%g", g.CellWidth, g.CellHeight)
	case !(g.TabDepth >= 0 && g.TabDepth <= MaxTabDepth):
		return invalidf("tab depth %g outside [0, %g]", g.TabDepth, MaxTabDepth)
	}
	return nil
}

// Field holds the curves of all interior boundaries of a grid. A Field is
// never modified after BuildField returns it, and can be shared between
// goroutines.
type Field struct {
	Grid
	Seed uint64

	// Horizontal[i][j] separates cell (i, j) from cell (i+1, j).
	Horizontal [][]EdgeCurve

	// Vertical[i][j] separates cell (i, j) from cell (i, j+1).
	Vertical [][]EdgeCurve
}

// BuildField draws the curves for all interior boundaries of grid from a
// Source seeded with seed. The horizontal boundaries are generated first,
// row by row, followed by the vertical ones. For every boundary a coin
// flip decides the tab direction before the curve is drawn.
func BuildField(grid Grid, seed uint64) (*Field, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	grid.TabDepth = grid.tabDepth()

	src := NewSource(seed)
	f := &Field{
		Grid:       grid,
		Seed:       seed,
		Horizontal: make([][]EdgeCurve, grid.Rows-1),
		Vertical:   make([][]EdgeCurve, grid.Rows),
	}

	hDepth := grid.TabDepth * grid.CellHeight
	for i := range f.Horizontal {
		row := make([]EdgeCurve, grid.Cols)
		for j := range row {
			outward := src.Coin()
			row[j] = GenerateEdge(grid.CellWidth, hDepth, outward, Horizontal, src)
		}
		f.Horizontal[i] = row
	}

	vDepth := grid.TabDepth * grid.CellWidth
	for i := range f.Vertical {
		row := make([]EdgeCurve, grid.Cols-1)
		for j := range row {
			outward := src.Coin()
			row[j] = GenerateEdge(grid.CellHeight, vDepth, outward, Vertical, src)
		}
		f.Vertical[i] = row
	}

	return f, nil
}

// Cells returns the number of cells in the grid.
func (f *Field) Cells() int {
	return f.Rows * f.Cols
}

// cellX and cellY give the position of the top-left corner of a cell.
func (f *Field) cellX(col int) float64 {
	return float64(col) * f.CellWidth
}

func (f *Field) cellY(row int) float64 {
	return float64(row) * f.CellHeight
}
