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

// Package raster computes anti-aliased pixel coverage for vector paths.
//
// Coverage is the exact fraction of each pixel's area inside the filled or
// stroked path, in the range 0 (outside) to 1 (inside). Results are
// delivered one scanline at a time through an [EmitFunc], so that callers
// can composite into any pixel format without intermediate masks.
package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage values of the pixels xMin, xMin+1, ... on
// scanline y. The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasterizer converts paths to pixel coverage. Internal buffers grow as
// needed and are reused between calls, so a single instance should be
// kept per goroutine.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip limits output to this device-space rectangle.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximum distance, in device pixels, between a curve
	// and the polygon approximating it. Must be positive.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap is the style used at the ends of open stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to the
	// stroke width. Must be at least 1.
	MiterLimit float64

	// smallPathThreshold is the largest bounding box area, in pixels, which
	// is rasterized using full 2D accumulation buffers. Larger paths use an
	// active edge list and one scanline of buffers.
	smallPathThreshold int

	cover   []float32 // signed vertical extent of edges per pixel; reused as output
	area    []float32 // area to the right of edges within each pixel
	edges   []edge
	active  []int
	rowUsed []bool

	haveBBox   bool
	devBBox    rect.Rect // device space bounding box of r.edges
	crossings  []float64 // y values where an edge crosses pixel columns
	strokeSegs []strokeSegment
	subpaths   []subpath
	dots       []vec.Vec2
	poly       []vec.Vec2
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, using
// PDF default values for the other parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1.0,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,

		smallPathThreshold: smallPathThreshold,
	}
}

// ClipRect converts an integer rectangle into a clip rectangle.
func ClipRect(b image.Rectangle) rect.Rect {
	return rect.Rect{
		LLx: float64(b.Min.X),
		LLy: float64(b.Min.Y),
		URx: float64(b.Max.X),
		URy: float64(b.Max.Y),
	}
}

// Reset restores the default parameters and sets a new clip rectangle,
// keeping the capacity of all internal buffers.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1.0
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
}

// FillNonZero fills p using the nonzero winding rule. Open subpaths are
// closed implicitly.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.fill(p, fillNonZero, emit)
}

// FillEvenOdd fills p using the even-odd rule. Open subpaths are closed
// implicitly.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.fill(p, fillEvenOdd, emit)
}

// Mask fills p with the nonzero rule into a new alpha mask covering the
// clip rectangle.
func (r *Rasterizer) Mask(p *path.Data) *image.Alpha {
	bounds := image.Rect(int(r.Clip.LLx), int(r.Clip.LLy), int(r.Clip.URx), int(r.Clip.URy))
	mask := image.NewAlpha(bounds)
	r.FillNonZero(p, func(y, xMin int, coverage []float32) {
		row := mask.Pix[mask.PixOffset(xMin, y):]
		for i, c := range coverage {
			row[i] = ToAlpha(c)
		}
	})
	return mask
}

// ToAlpha converts a coverage value to an 8-bit alpha value.
func ToAlpha(c float32) uint8 {
	return uint8(max(0, min(255, int(c*255+0.5))))
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

func (r *Rasterizer) fill(p *path.Data, rule fillRule, emit EmitFunc) {
	r.edges = r.edges[:0]
	r.haveBBox = false

	r.walk(p, r.addEdge, func(start, current vec.Vec2, _ bool) {
		if current != start {
			r.addEdge(current, start)
		}
	})

	r.rasterizeEdges(rule, emit)
}

// walk flattens p into line segments. The seg callback receives every
// segment in user space. The end callback is called once per subpath with
// its start point, the current point, and whether the subpath was
// explicitly closed; for closed subpaths the closing segment is not passed
// to seg.
func (r *Rasterizer) walk(p *path.Data, seg func(a, b vec.Vec2), end func(start, current vec.Vec2, closed bool)) {
	var current, start vec.Vec2
	open := false

	k := 0
	for _, cmd := range p.Cmds {
		if !open && cmd != path.CmdMoveTo && cmd != path.CmdClose {
			// drawing after ClosePath starts a new subpath at the old start
			start = current
			open = true
		}
		switch cmd {
		case path.CmdMoveTo:
			if open {
				end(start, current, false)
			}
			current = p.Coords[k]
			start = current
			open = true
			k++

		case path.CmdLineTo:
			seg(current, p.Coords[k])
			current = p.Coords[k]
			k++

		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], seg)
			current = p.Coords[k+1]
			k += 2

		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], seg)
			current = p.Coords[k+2]
			k += 3

		case path.CmdClose:
			if open {
				end(start, current, true)
				open = false
			}
			current = start
		}
	}
	if open {
		end(start, current, false)
	}
}

// transformLinear applies the linear part of the CTM to v.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(a, b vec.Vec2)) {
	// e = (P0 - 2 P1 + P2) / 4 is the largest deviation from the chord
	e := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))

	n := 1
	if dev := e.Length(); dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates the cubic Bézier curve p0, ..., p3 by line
// segments. The number of segments is chosen using Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(a, b vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

// addEdge transforms the user-space segment p0→p1 to device space and
// appends it to the edge list.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	x0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	y0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	x1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	y1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return // horizontal edges do not contribute coverage
	}

	r.edges = append(r.edges, edge{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
	})

	segBox := rect.Rect{
		LLx: min(x0, x1), LLy: min(y0, y1),
		URx: max(x0, x1), URy: max(y0, y1),
	}
	if !r.haveBBox {
		r.devBBox = segBox
		r.haveBBox = true
	} else {
		r.devBBox = rect.Rect{
			LLx: min(r.devBBox.LLx, segBox.LLx),
			LLy: min(r.devBBox.LLy, segBox.LLy),
			URx: max(r.devBBox.URx, segBox.URx),
			URy: max(r.devBBox.URy, segBox.URy),
		}
	}
}

// pixelBounds returns the integer bounding box of the edge list,
// intersected with the clip rectangle.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.devBBox.LLx)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.devBBox.URx))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.devBBox.LLy)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.devBBox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// rasterizeEdges converts the current edge list into coverage values.
func (r *Rasterizer) rasterizeEdges(rule fillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}

	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.fillSmall(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.fillLarge(xMin, xMax, yMin, yMax, rule, emit)
	}
}

// Coverage accumulation.
//
// An edge crossing pixel i of a scanline over a vertical distance dy at
// horizontal pixel offset xFrac contributes
//
//	cover[i] += sign*dy
//	area[i]  += sign*dy*(1-xFrac)
//
// where sign is +1 for downward and -1 for upward edges. Scanning a row
// from left to right, the winding of pixel i is
//
//	accum + area[i],  accum = cover[0] + ... + cover[i-1],
//
// which is the exact signed area of the path inside the pixel. Edges to
// the left of the buffer are folded into pixel 0.

// accumulateEdge adds the contribution of e on scanline y to the row
// buffers, which represent the pixels xLo, ..., xHi-1.
func (r *Rasterizer) accumulateEdge(e *edge, y int, cover, area []float32, xLo, xHi int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	if pixRight < xLo {
		c := sign * float32(yBot-yTop)
		cover[0] += c
		area[0] += c
		return
	}
	if pixLeft >= xHi {
		return
	}

	if pixLeft == pixRight {
		r.accumulatePiece(e, yTop, yBot, sign, cover, area, xLo, xHi)
		return
	}

	// split the edge where it crosses pixel columns
	r.crossings = append(r.crossings[:0], yTop, yBot)
	dydx := 1 / e.dxdy
	for x := pixLeft + 1; x <= pixRight; x++ {
		yx := e.y0 + dydx*(float64(x)-e.x0)
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)

	for i := 1; i < len(r.crossings); i++ {
		if r.crossings[i] > r.crossings[i-1] {
			r.accumulatePiece(e, r.crossings[i-1], r.crossings[i], sign, cover, area, xLo, xHi)
		}
	}
}

// accumulatePiece adds the part of e between yTop and yBot, which must lie
// within a single pixel column.
func (r *Rasterizer) accumulatePiece(e *edge, yTop, yBot float64, sign float32, cover, area []float32, xLo, xHi int) {
	c := sign * float32(yBot-yTop)

	xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
	pix := int(math.Floor(xMid))
	switch {
	case pix < xLo:
		cover[0] += c
		area[0] += c
	case pix < xHi:
		i := pix - xLo
		cover[i] += c
		area[i] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateNonZero turns the accumulated row buffers into coverage, in
// place, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

// integrateEvenOdd turns the accumulated row buffers into coverage, in
// place, using the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := abs32(accum + area[i])
		accum += cover[i]
		m := raw - 2*float32(int(raw/2))
		cover[i] = 1 - abs32(1-m)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros removes leading and trailing zeros from the coverage of a row.
func trimZeros(coverage []float32) (trimmed []float32, offset int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return coverage[lo:hi], lo
}

func (rule fillRule) integrate(cover, area []float32) {
	if rule == fillNonZero {
		integrateNonZero(cover, area)
	} else {
		integrateEvenOdd(cover, area)
	}
}

// fillSmall rasterizes the edge list using a 2D buffer for the whole
// bounding box, visiting each edge once.
func (r *Rasterizer) fillSmall(xMin, xMax, yMin, yMax int, rule fillRule, emit EmitFunc) {
	width := xMax - xMin
	height := yMax - yMin

	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)
	r.rowUsed = slices.Grow(r.rowUsed[:0], height)[:height]
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		yFirst := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		yLast := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := yFirst; y < yLast; y++ {
			row := y - yMin
			off := row * width
			r.accumulateEdge(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
			r.rowUsed[row] = true
		}
	}

	for row := range height {
		if !r.rowUsed[row] {
			continue
		}
		off := row * width
		coverage := r.cover[off : off+width]
		rule.integrate(coverage, r.area[off:off+width])
		if trimmed, k := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+k, trimmed)
		}
	}
}

// fillLarge rasterizes the edge list one scanline at a time, keeping a
// list of the edges which overlap the current scanline.
func (r *Rasterizer) fillLarge(xMin, xMax, yMin, yMax int, rule fillRule, emit EmitFunc) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop := float64(y)
		yBot := float64(y + 1)

		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yBot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		used := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if max(e.y0, e.y1) <= yTop {
				// the edge is finished, swap-remove it
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			r.accumulateEdge(e, y, r.cover, r.area, xMin, xMax)
			used = true
			i++
		}
		if !used {
			continue
		}

		rule.integrate(r.cover, r.area)
		if trimmed, k := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+k, trimmed)
		}
	}
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the default curve flattening tolerance in device
	// pixels; 0.25 is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches the PDF/PostScript default.
	defaultMiterLimit = 10.0
)

// Numerical tolerances.
const (
	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold is the largest bounding box area, in pixels,
	// rasterized with 2D buffers.
	smallPathThreshold = 65536

	// zeroLengthThreshold is the length below which stroke segments are
	// ignored.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the sine of the turning angle below which
	// two stroke segments are treated as collinear.
	collinearityThreshold = 1e-6
)
