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
	"math"

	"golang.org/x/image/draw"
)

// DefaultMinLongSide is the smallest length of the longer image side
// below which Prepare upscales the source image.
const DefaultMinLongSide = 2000

// Prepare converts src into the working image of a cut.
//
// If cfg.PieceSize is zero, images whose longer side is shorter than
// cfg.MinLongSide are scaled up to that length; other images are copied
// unchanged. If cfg.PieceSize is positive, the image is cropped around its
// centre to the aspect ratio cfg.Cols:cfg.Rows and then resized to exactly
// cfg.Cols*cfg.PieceSize by cfg.Rows*cfg.PieceSize pixels, without any
// upscaling step before. The result always has its origin at (0, 0).
func Prepare(src image.Image, cfg Config) (*image.NRGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, invalidf("empty source image")
	}

	if cfg.PieceSize > 0 {
		if cfg.Rows < 1 || cfg.Cols < 1 {
			return nil, invalidf("grid must have at least one row and column, got %dx%d", cfg.Rows, cfg.Cols)
		}
		crop := centreCrop(b, cfg.Cols, cfg.Rows)
		return resize(src, crop, cfg.Cols*cfg.PieceSize, cfg.Rows*cfg.PieceSize), nil
	}

	if long := max(w, h); long < cfg.MinLongSide {
		scale := float64(cfg.MinLongSide) / float64(long)
		short := max(int(math.Round(float64(min(w, h))*scale)), 1)
		if w >= h {
			return resize(src, b, cfg.MinLongSide, short), nil
		}
		return resize(src, b, short, cfg.MinLongSide), nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

// centreCrop returns the largest rectangle of aspect ratio aw:ah centred
// in b.
func centreCrop(b image.Rectangle, aw, ah int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	cw, ch := w, h
	if w*ah > h*aw {
		cw = max(1, h*aw/ah)
	} else {
		ch = max(1, w*ah/aw)
	}
	x0 := b.Min.X + (w-cw)/2
	y0 := b.Min.Y + (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

func resize(src image.Image, sr image.Rectangle, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Src, nil)
	return dst
}
