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

// Package jigsaw cuts a raster image into interlocking jigsaw puzzle
// pieces.
//
// The geometry of a cut is described by a [Field], which holds one random
// tab/blank curve for every interior boundary of a rows × cols grid. The
// outline of each cell is assembled from the curves of its four sides
// ([Field.Outline]), so that two neighbouring pieces always share exactly
// the same boundary. [Clip] rasterizes an outline with anti-aliasing and
// copies the covered part of the source image into a sprite, and
// [Normalize] centres sprites on square canvases of equal size.
//
// A [Cutter] runs the complete pipeline: it prepares the source image,
// builds the field and then cuts all cells in parallel, handing finished
// pieces to a [Sink]. Cuts are reproducible: the same image, grid and
// seed always give the same pieces.
package jigsaw
