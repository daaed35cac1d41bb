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
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for grids, tab depths, piece
	// sizes or images which cannot be cut.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyPiece is returned when the bounding box of a piece does not
	// overlap the source image.
	ErrEmptyPiece = errors.New("empty piece")

	// ErrRasterBackend is returned when a sprite cannot be allocated or
	// rasterized.
	ErrRasterBackend = errors.New("raster backend failure")

	// ErrWrite is returned when a sink fails to store a piece.
	ErrWrite = errors.New("write failed")
)

// CellError records the failure of a single grid cell.
type CellError struct {
	Row, Col int
	Index    int
	Err      error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("piece %d (row %d, col %d): %v", e.Index, e.Row, e.Col, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
