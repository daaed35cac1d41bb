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
	"honnef.co/go/curve"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Side identifies one side of a grid cell.
type Side int

// The sides of a cell, in the order in which an outline visits them.
const (
	Top Side = iota
	Right
	Bottom
	Left
)

// StepKind distinguishes straight and curved outline steps.
type StepKind int

const (
	Line StepKind = iota
	Cubic
)

// Step is one piece of an outline in absolute image coordinates. For
// Line steps, C1 and C2 are unused.
type Step struct {
	Kind   StepKind
	C1, C2 vec.Vec2
	To     vec.Vec2
}

// Outline is the closed contour of one puzzle piece. It starts and ends
// at the top-left corner of the cell and runs clockwise on screen.
type Outline struct {
	Row, Col int
	Start    vec.Vec2
	Steps    []Step

	sides [5]int // Steps[sides[s]:sides[s+1]] belong to side s
}

// Outline assembles the contour of cell (row, col) from the curves of the
// field. Sides on the image border are straight lines. Interior sides are
// traversed forward on the top and right, and in reverse on the bottom
// and left, so that neighbouring cells share every point of their common
// boundary.
//
// Outline panics if the cell is outside the grid.
func (f *Field) Outline(row, col int) Outline {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		panic("jigsaw: cell outside the grid")
	}

	x0, x1 := f.cellX(col), f.cellX(col+1)
	y0, y1 := f.cellY(row), f.cellY(row+1)

	o := Outline{
		Row:   row,
		Col:   col,
		Start: vec.Vec2{X: x0, Y: y0},
		Steps: make([]Step, 0, 16),
	}
	b := outlineBuilder{o: &o, cursor: o.Start}

	b.side(Top)
	if row == 0 {
		b.line(vec.Vec2{X: x1, Y: y0})
	} else {
		b.curve(f.Horizontal[row-1][col].Segments, vec.Vec2{X: x1, Y: y0})
	}

	b.side(Right)
	if col == f.Cols-1 {
		b.line(vec.Vec2{X: x1, Y: y1})
	} else {
		b.curve(f.Vertical[row][col].Segments, vec.Vec2{X: x1, Y: y1})
	}

	b.side(Bottom)
	if row == f.Rows-1 {
		b.line(vec.Vec2{X: x0, Y: y1})
	} else {
		b.curve(f.Horizontal[row][col].Reversed(), vec.Vec2{X: x0, Y: y1})
	}

	b.side(Left)
	if col == 0 {
		b.line(o.Start)
	} else {
		b.curve(f.Vertical[row][col-1].Reversed(), o.Start)
	}
	o.sides[4] = len(o.Steps)

	return o
}

type outlineBuilder struct {
	o      *Outline
	cursor vec.Vec2
}

func (b *outlineBuilder) side(s Side) {
	b.o.sides[s] = len(b.o.Steps)
}

func (b *outlineBuilder) line(to vec.Vec2) {
	b.o.Steps = append(b.o.Steps, Step{Kind: Line, To: to})
	b.cursor = to
}

// curve appends the segments, relative to the cursor. The final point is
// replaced by corner, so that rounding errors cannot open the outline.
func (b *outlineBuilder) curve(segs [4]CurveSegment, corner vec.Vec2) {
	for i, s := range segs {
		to := b.cursor.Add(s.End)
		if i == len(segs)-1 {
			to = corner
		}
		b.o.Steps = append(b.o.Steps, Step{
			Kind: Cubic,
			C1:   b.cursor.Add(s.C1),
			C2:   b.cursor.Add(s.C2),
			To:   to,
		})
		b.cursor = to
	}
}

// Side returns the steps which trace side s of the cell.
func (o Outline) Side(s Side) []Step {
	return o.Steps[o.sides[s]:o.sides[s+1]]
}

// SideStart returns the point where side s begins.
func (o Outline) SideStart(s Side) vec.Vec2 {
	if k := o.sides[s]; k > 0 {
		return o.Steps[k-1].To
	}
	return o.Start
}

// Path converts the outline into a closed path.
func (o Outline) Path() *path.Data {
	p := (&path.Data{}).MoveTo(o.Start)
	for _, s := range o.Steps {
		if s.Kind == Cubic {
			p.CubeTo(s.C1, s.C2, s.To)
		} else {
			p.LineTo(s.To)
		}
	}
	return p.Close()
}

// Bounds returns the smallest rectangle containing the outline. Curve
// extrema are found exactly, rather than using the control points.
func (o Outline) Bounds() rect.Rect {
	bb := rect.Rect{LLx: o.Start.X, LLy: o.Start.Y, URx: o.Start.X, URy: o.Start.Y}
	prev := o.Start
	for _, s := range o.Steps {
		lo, hi := s.To, s.To
		if s.Kind == Cubic {
			cb := toCubicBez(prev, s).BoundingBox()
			lo = vec.Vec2{X: cb.MinX(), Y: cb.MinY()}
			hi = vec.Vec2{X: cb.MaxX(), Y: cb.MaxY()}
		}
		bb.LLx = min(bb.LLx, lo.X)
		bb.LLy = min(bb.LLy, lo.Y)
		bb.URx = max(bb.URx, hi.X)
		bb.URy = max(bb.URy, hi.Y)
		prev = s.To
	}
	return bb
}

func toCubicBez(from vec.Vec2, s Step) curve.CubicBez {
	return curve.CubicBez{
		P0: curve.Pt(from.X, from.Y),
		P1: curve.Pt(s.C1.X, s.C1.Y),
		P2: curve.Pt(s.C2.X, s.C2.Y),
		P3: curve.Pt(s.To.X, s.To.Y),
	}
}
