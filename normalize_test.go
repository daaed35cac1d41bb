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
	"image/color"
	"math"
	"testing"
)

func TestCanvasRatioFitsTabs(t *testing.T) {
	// a piece spans its cell plus one tab depth on either side
	need := 1 + 2*MaxTabDepth
	if CanvasRatio < need {
		t.Errorf("CanvasRatio %g smaller than %g", CanvasRatio, need)
	}
	if got := CanvasSize(100); got != 175 {
		t.Errorf("CanvasSize(100) = %d, want 175", got)
	}
	if got := CanvasSize(33); got != int(math.Ceil(33*1.75)) {
		t.Errorf("CanvasSize(33) = %d", got)
	}
}

func TestNormalizeCentres(t *testing.T) {
	sprite := &Sprite{
		Image:  image.NewNRGBA(image.Rect(0, 0, 10, 6)),
		Width:  10,
		Height: 6,
	}
	for i := 0; i < len(sprite.Image.Pix); i += 4 {
		sprite.Image.Pix[i], sprite.Image.Pix[i+3] = 255, 255
	}

	canvas := Normalize(sprite, 20, color.White)
	if canvas.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("canvas bounds %v", canvas.Bounds())
	}
	if px := canvas.NRGBAAt(5, 7); px != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("top-left sprite pixel %v", px)
	}
	if px := canvas.NRGBAAt(14, 12); px != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("bottom-right sprite pixel %v", px)
	}
	for _, p := range []image.Point{{4, 7}, {15, 12}, {5, 6}, {14, 13}} {
		if px := canvas.NRGBAAt(p.X, p.Y); px != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("background pixel %v: %v", p, px)
		}
	}
}

func TestNormalizeTransparent(t *testing.T) {
	sprite := &Sprite{Image: image.NewNRGBA(image.Rect(0, 0, 4, 4)), Width: 4, Height: 4}
	canvas := Normalize(sprite, 8, FillTransparent.Color(nil))
	for i, v := range canvas.Pix {
		if v != 0 {
			t.Fatalf("byte %d is %d, want transparent canvas", i, v)
		}
	}
}

func TestNormalizeLargeSprite(t *testing.T) {
	sprite := &Sprite{Image: image.NewNRGBA(image.Rect(0, 0, 30, 30)), Width: 30, Height: 30}
	canvas := Normalize(sprite, 20, color.Black)
	if canvas.Bounds().Dx() != 20 || canvas.Bounds().Dy() != 20 {
		t.Errorf("canvas bounds %v", canvas.Bounds())
	}
}

func TestFillModeColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 200, 100, 50, 255
	}

	if c := FillTransparent.Color(src); c != nil {
		t.Errorf("transparent: got %v", c)
	}
	if c := FillBlack.Color(src); c != color.Black {
		t.Errorf("black: got %v", c)
	}
	if c := FillWhite.Color(src); c != color.White {
		t.Errorf("white: got %v", c)
	}

	want := uint8(math.Round(0.299*200 + 0.587*100 + 0.114*50))
	got, ok := FillAverage.Color(src).(color.Gray)
	if !ok {
		t.Fatalf("average: got %T", FillAverage.Color(src))
	}
	if d := int(got.Y) - int(want); d < -1 || d > 1 {
		t.Errorf("average: got grey %d, want %d", got.Y, want)
	}
}

func TestParseFillMode(t *testing.T) {
	for m := FillTransparent; m <= FillAverage; m++ {
		got, err := ParseFillMode(m.String())
		if err != nil || got != m {
			t.Errorf("%s: got %v, %v", m, got, err)
		}
	}
	if _, err := ParseFillMode("purple"); err == nil {
		t.Error("no error for unknown fill mode")
	}
}
