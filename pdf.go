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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
)

// WriteLinesPDF writes the cut lines of f as vector graphics to a
// single-page PDF file of w × h points, one point per working image
// pixel. The page uses image coordinates, with the origin at the top-left
// corner.
func WriteLinesPDF(fname string, f *Field, w, h int, style LineStyle) error {
	paper := &pdf.Rectangle{
		URx: float64(w),
		URy: float64(h),
	}

	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	page.SetFillColor(pdfcolor.DeviceGray(1))
	page.Rectangle(0, 0, float64(w), float64(h))
	page.Fill()

	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(h)})

	page.SetStrokeColor(pdfcolor.DeviceGray(float64(style.Ink) / 255))
	page.SetLineWidth(style.Width)
	page.SetLineCap(style.Cap)
	page.SetLineJoin(style.Join)

	lines := f.CutLines()
	for cmd, pts := range lines.Iter() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		}
	}
	if len(lines.Cmds) > 0 {
		page.Stroke()
	}

	if err := page.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
