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

// PieceType classifies a piece by the number of sides on the image
// border.
type PieceType int

const (
	Interior PieceType = iota
	Edge
	Corner
)

func (t PieceType) String() string {
	switch t {
	case Corner:
		return "corner"
	case Edge:
		return "edge"
	default:
		return "interior"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PieceType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "corner":
		*t = Corner
	case "edge":
		*t = Edge
	case "interior":
		*t = Interior
	default:
		return invalidf("unknown piece type %q", text)
	}
	return nil
}

// PieceTypeAt returns the type of cell (row, col) in a rows × cols grid.
// Cells with two or more sides on the border are corners, so in a grid
// with a single row or column every cell is a corner or an edge.
func PieceTypeAt(row, col, rows, cols int) PieceType {
	n := 0
	if row == 0 {
		n++
	}
	if row == rows-1 {
		n++
	}
	if col == 0 {
		n++
	}
	if col == cols-1 {
		n++
	}
	switch {
	case n >= 2:
		return Corner
	case n == 1:
		return Edge
	default:
		return Interior
	}
}

// Neighbours returns the indices of the cells sharing a side with cell
// (row, col), in increasing order. The index of a cell is row*cols+col.
func Neighbours(row, col, rows, cols int) []int {
	res := make([]int, 0, 4)
	if row > 0 {
		res = append(res, (row-1)*cols+col)
	}
	if col > 0 {
		res = append(res, row*cols+col-1)
	}
	if col < cols-1 {
		res = append(res, row*cols+col+1)
	}
	if row < rows-1 {
		res = append(res, (row+1)*cols+col)
	}
	return res
}

// GridForPieces chooses a grid with at least n cells for a w × h image.
// Among all grids, the one minimising the relative excess of cells plus
// the deviation of the cell shape from a square (as the absolute log of
// the cell aspect ratio) is selected.
func GridForPieces(n, w, h int) (rows, cols int, err error) {
	if n < 2 {
		return 0, 0, invalidf("need at least 2 pieces, got %d", n)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, invalidf("empty image %dx%d", w, h)
	}

	best := math.Inf(1)
	for r := 1; r <= n; r++ {
		c := (n + r - 1) / r
		aspect := (float64(w) / float64(c)) / (float64(h) / float64(r))
		cost := float64(r*c-n)/float64(n) + math.Abs(math.Log(aspect))
		if cost < best {
			best = cost
			rows, cols = r, c
		}
	}
	return rows, cols, nil
}
