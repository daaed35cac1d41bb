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

import "seehuhn.de/go/geom/vec"

// Orientation is the direction of a grid boundary.
type Orientation int

const (
	// Horizontal boundaries run from left to right, between a cell and
	// the cell below it.
	Horizontal Orientation = iota

	// Vertical boundaries run from top to bottom, between a cell and the
	// cell to its right.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// CurveSegment is a cubic Bézier segment. All three points are relative
// to the start point of the segment.
type CurveSegment struct {
	C1, C2, End vec.Vec2
}

// EdgeCurve is the tab/blank curve along one interior boundary, as four
// tangent-continuous cubic segments.
//
// Image coordinates are used, with y pointing down. A horizontal curve
// starts at the top-left corner of the cell below the boundary and ends at
// its top-right corner; a vertical curve starts at the top-right corner of
// the cell left of the boundary and ends at its bottom-right corner.
// If Outward is set, the tab protrudes out of that cell (up for
// horizontal, right for vertical curves), otherwise it is a blank.
type EdgeCurve struct {
	Segments    [4]CurveSegment
	Outward     bool
	Orientation Orientation
}

// Delta returns the offset from the start point to the end point.
func (c EdgeCurve) Delta() vec.Vec2 {
	var d vec.Vec2
	for _, s := range c.Segments {
		d = d.Add(s.End)
	}
	return d
}

// Reversed returns the segments which trace the curve from its end point
// back to its start point.
func (c EdgeCurve) Reversed() [4]CurveSegment {
	var rev [4]CurveSegment
	for i, s := range c.Segments {
		rev[3-i] = CurveSegment{
			C1:  s.C2.Sub(s.End),
			C2:  s.C1.Sub(s.End),
			End: s.End.Mul(-1),
		}
	}
	return rev
}

// Parameter ranges for GenerateEdge, as fractions of the edge length (u)
// or of the tab depth (v).
const (
	neckLeftMin, neckLeftMax     = 0.37, 0.41 // u of the left neck
	apexMin, apexMax             = 0.48, 0.52 // u of the apex
	neckRightMin, neckRightMax   = 0.59, 0.63 // u of the right neck
	neckHeightMin, neckHeightMax = 0.20, 0.34 // v of both necks
	apexHeightMin, apexHeightMax = 0.92, 1.00 // v of the apex
	overhangMin, overhangMax     = 0.02, 0.04 // bulb overhang beyond the necks
	riseMin, riseMax             = 0.5, 1.0   // neck tangent rise, relative to neck height
	handleMin, handleMax         = 0.10, 0.13 // half width of the apex handles
)

// GenerateEdge draws a random tab curve of the given length whose tab
// protrudes by at most depth. Eleven values are drawn from src, always in
// the same order, so the result only depends on the arguments and the
// state of src. Length and depth must be positive.
func GenerateEdge(length, depth float64, outward bool, orientation Orientation, src *Source) EdgeCurve {
	// Draw order is part of the reproducibility contract.
	a := src.Uniform(neckLeftMin, neckLeftMax)
	c := src.Uniform(apexMin, apexMax)
	b := src.Uniform(neckRightMin, neckRightMax)
	h1 := src.Uniform(neckHeightMin, neckHeightMax)
	h2 := src.Uniform(neckHeightMin, neckHeightMax)
	p := src.Uniform(apexHeightMin, apexHeightMax)
	o1 := src.Uniform(overhangMin, overhangMax)
	o2 := src.Uniform(overhangMin, overhangMax)
	k1 := src.Uniform(riseMin, riseMax)
	k2 := src.Uniform(riseMin, riseMax)
	w := src.Uniform(handleMin, handleMax)

	// Canonical frame: u runs along the edge, v is the protrusion.
	L, D := length, depth
	n1 := vec.Vec2{X: a * L, Y: h1 * D}
	top := vec.Vec2{X: c * L, Y: p * D}
	n2 := vec.Vec2{X: b * L, Y: h2 * D}
	end := vec.Vec2{X: L}
	d1 := vec.Vec2{X: -o1 * L, Y: k1 * h1 * D}
	d2 := vec.Vec2{X: -o2 * L, Y: -k2 * h2 * D}
	handle := vec.Vec2{X: w * L}

	abs := [4][3]vec.Vec2{
		{{X: n1.X / 2}, n1.Sub(d1), n1},
		{n1.Add(d1), top.Sub(handle), top},
		{top.Add(handle), n2.Sub(d2), n2},
		{n2.Add(d2), {X: (L + n2.X) / 2}, end},
	}

	s := 1.0
	if !outward {
		s = -1
	}
	toImage := func(v vec.Vec2) vec.Vec2 {
		if orientation == Vertical {
			return vec.Vec2{X: s * v.Y, Y: v.X}
		}
		return vec.Vec2{X: v.X, Y: -s * v.Y}
	}

	curve := EdgeCurve{Outward: outward, Orientation: orientation}
	var cursor, sum vec.Vec2
	for i, seg := range abs {
		rel := CurveSegment{
			C1:  seg[0].Sub(cursor),
			C2:  seg[1].Sub(cursor),
			End: seg[2].Sub(cursor),
		}
		if i == 3 {
			// close the curve exactly at the far corner
			rel.End = end.Sub(sum)
		}
		sum = sum.Add(rel.End)
		cursor = seg[2]

		curve.Segments[i] = CurveSegment{
			C1:  toImage(rel.C1),
			C2:  toImage(rel.C2),
			End: toImage(rel.End),
		}
	}
	return curve
}
