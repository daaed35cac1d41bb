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
	"fmt"
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/jigsaw/raster"
)

const (
	// DefaultBleed is the number of pixels added around the tight bounds
	// of an outline, so that anti-aliased edge pixels are never cut off.
	DefaultBleed = 2

	// maxSpritePixels limits the size of a single sprite.
	maxSpritePixels = 1 << 28
)

// Sprite is the image of one piece, cut out of the source image.
type Sprite struct {
	// Image holds the piece, with alpha set to the coverage of each pixel
	// by the outline times the source alpha. The image bounds start at
	// (0, 0).
	Image *image.NRGBA

	// BBox is the area of the source image covered by Image.
	BBox image.Rectangle

	Width, Height int
}

// Clipper cuts outlines out of images. It keeps a rasterizer between
// calls and is not safe for concurrent use.
type Clipper struct {
	r *raster.Rasterizer
}

// NewClipper returns a new Clipper.
func NewClipper() *Clipper {
	return &Clipper{r: raster.NewRasterizer(rect.Rect{})}
}

// Clip cuts the outline o out of src, see [Clipper.Clip].
func Clip(src image.Image, o Outline, bleed int) (*Sprite, error) {
	return NewClipper().Clip(src, o, bleed)
}

// Clip cuts the outline o out of src. The coordinates of o are pixel
// coordinates of src. The sprite covers the bounds of o, widened by bleed
// pixels on every side and clipped to the image. A negative bleed is
// treated as zero.
func (c *Clipper) Clip(src image.Image, o Outline, bleed int) (*Sprite, error) {
	bleed = max(bleed, 0)
	bb := o.Bounds()
	box := image.Rect(
		int(math.Floor(bb.LLx))-bleed,
		int(math.Floor(bb.LLy))-bleed,
		int(math.Ceil(bb.URx))+bleed,
		int(math.Ceil(bb.URy))+bleed,
	).Intersect(src.Bounds())

	w, h := box.Dx(), box.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: bounds %v outside image %v", ErrEmptyPiece, bb, src.Bounds())
	}
	if w*h > maxSpritePixels {
		return nil, fmt.Errorf("%w: sprite of %dx%d pixels is too large", ErrRasterBackend, w, h)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	c.r.Reset(raster.ClipRect(box))
	nrgba, _ := src.(*image.NRGBA)
	c.r.FillNonZero(o.Path(), func(y, xMin int, coverage []float32) {
		dst := img.Pix[img.PixOffset(xMin-box.Min.X, y-box.Min.Y):]
		for i, cov := range coverage {
			x := xMin + i
			var px color.NRGBA
			if nrgba != nil {
				k := nrgba.PixOffset(x, y)
				s := nrgba.Pix[k : k+4 : k+4]
				px = color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
			} else {
				px = color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			}
			a := raster.ToAlpha(cov * float32(px.A) / 255)
			if a == 0 {
				continue
			}
			d := dst[4*i : 4*i+4 : 4*i+4]
			d[0], d[1], d[2], d[3] = px.R, px.G, px.B, a
		}
	})

	return &Sprite{
		Image:  img,
		BBox:   box,
		Width:  w,
		Height: h,
	}, nil
}
