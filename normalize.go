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

	"golang.org/x/image/draw"
)

// CanvasRatio is the ratio between the side of a normalized canvas and
// the nominal piece size. A piece extends beyond its cell by at most
// MaxTabDepth on both sides, so the ratio must be at least 1 + 2*MaxTabDepth.
// For small pieces the bleed margin needs extra room, see Config.CanvasSide.
const CanvasRatio = 1.75

// CanvasSize returns the side length of the square canvas for pieces of
// the given nominal size, before any widening for the bleed margin.
func CanvasSize(pieceSize int) int {
	return int(math.Ceil(float64(pieceSize) * CanvasRatio))
}

// FillMode selects the background of normalized canvases.
type FillMode int

const (
	FillTransparent FillMode = iota
	FillBlack
	FillWhite
	FillAverage
)

var fillModeNames = [...]string{
	FillTransparent: "transparent",
	FillBlack:       "black",
	FillWhite:       "white",
	FillAverage:     "average",
}

func (m FillMode) String() string {
	if m >= 0 && int(m) < len(fillModeNames) {
		return fillModeNames[m]
	}
	return fmt.Sprintf("FillMode(%d)", int(m))
}

// ParseFillMode converts the name of a fill mode into a FillMode.
func ParseFillMode(s string) (FillMode, error) {
	for m, name := range fillModeNames {
		if s == name {
			return FillMode(m), nil
		}
	}
	return 0, invalidf("unknown fill mode %q", s)
}

// averageSampleSize bounds the thumbnail used to compute the average
// colour of an image.
const averageSampleSize = 64

// Color returns the background colour for the mode. For FillAverage, this
// is the opaque grey with the luma of the mean colour of src. For
// FillTransparent the result is nil.
func (m FillMode) Color(src image.Image) color.Color {
	switch m {
	case FillBlack:
		return color.Black
	case FillWhite:
		return color.White
	case FillAverage:
		return averageGray(src)
	default:
		return nil
	}
}

func averageGray(src image.Image) color.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return color.Gray{}
	}
	if w > averageSampleSize || h > averageSampleSize {
		scale := averageSampleSize / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}
	thumb := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, b, draw.Src, nil)

	var sr, sg, sb float64
	for i := 0; i < len(thumb.Pix); i += 4 {
		sr += float64(thumb.Pix[i])
		sg += float64(thumb.Pix[i+1])
		sb += float64(thumb.Pix[i+2])
	}
	n := float64(w * h)
	y := 0.299*sr/n + 0.587*sg/n + 0.114*sb/n
	return color.Gray{Y: uint8(math.Round(min(max(y, 0), 255)))}
}

// Normalize places s in the centre of a size × size canvas filled with
// fill. A nil fill leaves the background transparent. Sprites larger than
// the canvas are cropped symmetrically.
func Normalize(s *Sprite, size int, fill color.Color) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	if fill != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}

	off := image.Pt((size-s.Width)/2, (size-s.Height)/2)
	r := s.Image.Bounds().Sub(s.Image.Bounds().Min).Add(off)
	draw.Draw(canvas, r, s.Image, s.Image.Bounds().Min, draw.Over)
	return canvas
}
