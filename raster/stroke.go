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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is a non-degenerate piece of a flattened subpath.
type strokeSegment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
}

// subpath records the range r.strokeSegs[start:end] of one subpath.
type subpath struct {
	start, end int
	closed     bool
}

// Stroke strokes p using the current line width, cap, join and miter
// limit.
//
// The stroke outline is the union of one quadrilateral per flattened
// segment, one polygon per join and one polygon per cap. All polygons are
// given the same orientation and filled together with the nonzero rule,
// so overlapping parts are painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.collectSegments(p)

	r.edges = r.edges[:0]
	r.haveBBox = false

	d := r.Width / 2
	if d <= 0 {
		return
	}

	for _, sp := range r.subpaths {
		segs := r.strokeSegs[sp.start:sp.end]
		for _, seg := range segs {
			n := normal(seg.T).Mul(d)
			r.addPolygon(seg.A.Add(n), seg.B.Add(n), seg.B.Sub(n), seg.A.Sub(n))
		}
		for i := 1; i < len(segs); i++ {
			r.addJoin(segs[i].A, segs[i-1].T, segs[i].T, d)
		}
		if sp.closed {
			r.addJoin(segs[0].A, segs[len(segs)-1].T, segs[0].T, d)
		} else {
			r.addCap(segs[0].A, segs[0].T.Mul(-1), d)
			r.addCap(segs[len(segs)-1].B, segs[len(segs)-1].T, d)
		}
	}

	// Zero-length subpaths only show up with round or square caps.
	for _, pt := range r.dots {
		switch r.Cap {
		case graphics.LineCapRound:
			r.addDisc(pt, d)
		case graphics.LineCapSquare:
			r.addPolygon(
				pt.Add(vec.Vec2{X: d, Y: d}),
				pt.Add(vec.Vec2{X: -d, Y: d}),
				pt.Add(vec.Vec2{X: -d, Y: -d}),
				pt.Add(vec.Vec2{X: d, Y: -d}),
			)
		}
	}

	r.rasterizeEdges(fillNonZero, emit)
}

// collectSegments flattens p into r.strokeSegs, dropping zero-length
// segments. Subpaths without any remaining segment are recorded in r.dots.
func (r *Rasterizer) collectSegments(p *path.Data) {
	r.strokeSegs = r.strokeSegs[:0]
	r.subpaths = r.subpaths[:0]
	r.dots = r.dots[:0]

	start := 0
	r.walk(p, r.addStrokeSegment, func(first, current vec.Vec2, closed bool) {
		if closed {
			r.addStrokeSegment(current, first)
		}
		if len(r.strokeSegs) == start {
			r.dots = append(r.dots, first)
			return
		}
		r.subpaths = append(r.subpaths, subpath{start: start, end: len(r.strokeSegs), closed: closed})
		start = len(r.strokeSegs)
	})
}

func (r *Rasterizer) addStrokeSegment(a, b vec.Vec2) {
	delta := b.Sub(a)
	l := delta.Length()
	if l < zeroLengthThreshold {
		return
	}
	r.strokeSegs = append(r.strokeSegs, strokeSegment{A: a, B: b, T: delta.Mul(1 / l)})
}

// normal returns T rotated by 90 degrees counter-clockwise.
func normal(T vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -T.Y, Y: T.X}
}

// addJoin adds the join polygon at P, where a segment with direction T1 is
// followed by one with direction T2.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64) {
	cross := T1.X*T2.Y - T1.Y*T2.X
	dot := T1.Dot(T2)
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addDisc(P, d)
		return
	}

	// the outer side of the turn is opposite to the turning direction
	side := -1.0
	if cross < 0 {
		side = 1.0
	}
	n1 := normal(T1).Mul(side)
	n2 := normal(T2).Mul(side)
	o1 := P.Add(n1.Mul(d))
	o2 := P.Add(n2.Mul(d))

	if r.Join == graphics.LineJoinMiter && dot > -1+collinearityThreshold {
		// the miter tip lies on the bisector at distance d/cos(α/2),
		// where α is the turning angle
		ratio := math.Sqrt(2 / (1 + dot))
		if ratio <= r.MiterLimit {
			tip := P.Add(n1.Add(n2).Mul(d / (1 + dot)))
			r.addPolygon(P, o1, tip, o2)
			return
		}
	}
	r.addPolygon(P, o1, o2)
}

// addCap adds the cap at the end point P of an open subpath. T is the unit
// tangent pointing away from the stroked segment.
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapSquare:
		n := normal(T).Mul(d)
		ext := T.Mul(d)
		r.addPolygon(P.Add(n), P.Add(n).Add(ext), P.Sub(n).Add(ext), P.Sub(n))
	case graphics.LineCapRound:
		r.addDisc(P, d)
	}
}

// addDisc adds a polygon approximating the circle of the given radius.
// The number of vertices keeps the sagitta of each chord below the
// flatness tolerance in device space.
func (r *Rasterizer) addDisc(center vec.Vec2, radius float64) {
	devRadius := max(
		r.transformLinear(vec.Vec2{X: radius}).Length(),
		r.transformLinear(vec.Vec2{Y: radius}).Length(),
	)

	// a chord subtending θ deviates from the arc by R(1-cos(θ/2))
	n := 8
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}

	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, center.Add(vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}.Mul(radius)))
	}
	r.addEdges(r.poly)
}

// addPolygon adds the closed polygon through the given vertices.
func (r *Rasterizer) addPolygon(pts ...vec.Vec2) {
	r.poly = append(r.poly[:0], pts...)
	r.addEdges(r.poly)
}

// addEdges adds the edges of the closed polygon poly, counter-clockwise
// in user space, to the edge list.
func (r *Rasterizer) addEdges(poly []vec.Vec2) {
	if len(poly) < 3 {
		return
	}

	var area float64
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		area += a.X*b.Y - a.Y*b.X
	}
	switch {
	case area > 0:
		for i, a := range poly {
			r.addEdge(a, poly[(i+1)%len(poly)])
		}
	case area < 0:
		for i := len(poly) - 1; i >= 0; i-- {
			r.addEdge(poly[i], poly[(i+len(poly)-1)%len(poly)])
		}
	}
}
