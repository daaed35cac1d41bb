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

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildFieldDeterministic(t *testing.T) {
	grid := Grid{Rows: 4, Cols: 5, CellWidth: 80, CellHeight: 60}
	a, err := BuildField(grid, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildField(grid, 42)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(a, b); d != "" {
		t.Errorf("fields for the same seed differ (-a +b):\n%s", d)
	}

	c, err := BuildField(grid, 43)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(a.Horizontal, c.Horizontal) {
		t.Error("seeds 42 and 43 give the same curves")
	}
}

func TestBuildFieldShape(t *testing.T) {
	f, err := BuildField(Grid{Rows: 3, Cols: 4, CellWidth: 10, CellHeight: 20}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Horizontal) != 2 || len(f.Horizontal[0]) != 4 {
		t.Errorf("horizontal curves: %d rows of %d", len(f.Horizontal), len(f.Horizontal[0]))
	}
	if len(f.Vertical) != 3 || len(f.Vertical[0]) != 3 {
		t.Errorf("vertical curves: %d rows of %d", len(f.Vertical), len(f.Vertical[0]))
	}
	if f.TabDepth != DefaultTabDepth {
		t.Errorf("tab depth %g, want default %g", f.TabDepth, DefaultTabDepth)
	}

	// horizontal curves run across cells, vertical curves down
	if d := f.Horizontal[1][2].Delta(); !near(d, vecXY(10, 0), 1e-9) {
		t.Errorf("horizontal delta %v", d)
	}
	if d := f.Vertical[2][0].Delta(); !near(d, vecXY(0, 20), 1e-9) {
		t.Errorf("vertical delta %v", d)
	}
}

func TestBuildFieldSingleCell(t *testing.T) {
	f, err := BuildField(Grid{Rows: 1, Cols: 1, CellWidth: 10, CellHeight: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Horizontal) != 0 || len(f.Vertical[0]) != 0 {
		t.Error("single cell grid has interior curves")
	}
}

func TestBuildFieldInvalid(t *testing.T) {
	cases := []Grid{
		{Rows: 0, Cols: 3, CellWidth: 10, CellHeight: 10},
		{Rows: 3, Cols: -1, CellWidth: 10, CellHeight: 10},
		{Rows: 3, Cols: 3, CellWidth: 0, CellHeight: 10},
		{Rows: 3, Cols: 3, CellWidth: 10, CellHeight: -5},
		{Rows: 3, Cols: 3, CellWidth: 10, CellHeight: 10, TabDepth: 0.34},
		{Rows: 3, Cols: 3, CellWidth: 10, CellHeight: 10, TabDepth: -0.1},
	}
	for _, g := range cases {
		_, err := BuildField(g, 1)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%+v: got %v, want ErrInvalidConfiguration", g, err)
		}
	}
}
