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
	"image"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/jigsaw/raster"
)

// LineStyle describes how cut lines are drawn.
type LineStyle struct {
	Width float64
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle

	// Ink is the grey level of the lines, 0 for black.
	Ink uint8
}

// DefaultLineStyle draws black lines of 1.5 pixels, with round joins and
// butt caps.
var DefaultLineStyle = LineStyle{
	Width: 1.5,
	Cap:   graphics.LineCapButt,
	Join:  graphics.LineJoinRound,
	Ink:   0,
}

// CutLines returns all interior boundaries of the field as one path, with
// one open subpath per curve. Horizontal curves come first, row by row,
// followed by the vertical curves.
func (f *Field) CutLines() *path.Data {
	p := &path.Data{}
	add := func(start vec.Vec2, c EdgeCurve) {
		p.MoveTo(start)
		cursor := start
		for _, s := range c.Segments {
			p.CubeTo(cursor.Add(s.C1), cursor.Add(s.C2), cursor.Add(s.End))
			cursor = cursor.Add(s.End)
		}
	}
	for i, row := range f.Horizontal {
		for j, c := range row {
			add(vec.Vec2{X: f.cellX(j), Y: f.cellY(i + 1)}, c)
		}
	}
	for i, row := range f.Vertical {
		for j, c := range row {
			add(vec.Vec2{X: f.cellX(j + 1), Y: f.cellY(i)}, c)
		}
	}
	return p
}

// RenderLines draws the cut lines of f onto a white w × h canvas.
func RenderLines(f *Field, w, h int, style LineStyle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	r := raster.NewRasterizer(raster.ClipRect(img.Bounds()))
	r.Width = style.Width
	r.Cap = style.Cap
	r.Join = style.Join

	ink := float32(style.Ink)
	r.Stroke(f.CutLines(), func(y, xMin int, coverage []float32) {
		row := img.Pix[img.PixOffset(xMin, y):]
		for i, c := range coverage {
			old := float32(row[i])
			row[i] = uint8(old + (ink-old)*c + 0.5)
		}
	})
	return img
}
