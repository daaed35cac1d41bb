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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Manifest describes the pieces of a cut, in the layout of the
// metadata.json file written next to the piece images.
type Manifest struct {
	PieceCount      int             `json:"piece_count"`
	ImageWidth      int             `json:"image_width"`
	ImageHeight     int             `json:"image_height"`
	RequestedPieces int             `json:"requested_pieces"`
	Seed            uint64          `json:"seed"`
	RunID           string          `json:"run_id"`
	Rows            int             `json:"rows"`
	Cols            int             `json:"cols"`
	CanvasSize      int             `json:"canvas_size,omitempty"`
	Pieces          []ManifestPiece `json:"pieces"`
	Warning         string          `json:"warning,omitempty"`
}

// ManifestPiece is the manifest entry of a single piece. The corners
// (X1, Y1) and (X2, Y2) bound the piece in working image pixels.
type ManifestPiece struct {
	ID         int       `json:"id"`
	Filename   string    `json:"filename"`
	X1         int       `json:"x1"`
	Y1         int       `json:"y1"`
	X2         int       `json:"x2"`
	Y2         int       `json:"y2"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Type       PieceType `json:"type"`
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	Neighbours []int     `json:"neighbours"`
}

// PiecesDir is the directory, relative to the manifest, which holds the
// piece images.
const PiecesDir = "pieces"

// manifestFilename returns the slash-separated path of the image of p
// relative to the manifest. Pieces stored by a DirSink for PiecesDir keep
// the file name they were written under.
func manifestFilename(p *Piece) string {
	name := PieceFileName(p.Index)
	if p.Location != "" {
		name = filepath.Base(p.Location)
	}
	return PiecesDir + "/" + name
}

// Manifest summarises the result. Requested is the number of pieces asked
// for by the user, which may be smaller than Rows*Cols; zero means
// Rows*Cols. Failed cells are listed in the warning.
func (r *Result) Manifest(requested int) *Manifest {
	if requested <= 0 {
		requested = r.Rows * r.Cols
	}
	m := &Manifest{
		PieceCount:      len(r.Pieces),
		ImageWidth:      r.ImageWidth,
		ImageHeight:     r.ImageHeight,
		RequestedPieces: requested,
		Seed:            r.Seed,
		RunID:           r.RunID,
		Rows:            r.Rows,
		Cols:            r.Cols,
		CanvasSize:      r.CanvasSize,
		Pieces:          make([]ManifestPiece, 0, len(r.Pieces)),
	}
	for _, p := range r.Pieces {
		m.Pieces = append(m.Pieces, ManifestPiece{
			ID:         p.Index,
			Filename:   manifestFilename(&p),
			X1:         p.BBox.Min.X,
			Y1:         p.BBox.Min.Y,
			X2:         p.BBox.Max.X,
			Y2:         p.BBox.Max.Y,
			Width:      p.Width,
			Height:     p.Height,
			Type:       p.Type,
			Row:        p.Row,
			Col:        p.Col,
			Neighbours: p.Neighbours,
		})
	}
	if len(r.Failed) > 0 {
		ids := make([]string, len(r.Failed))
		for i, e := range r.Failed {
			ids[i] = strconv.Itoa(e.Index)
		}
		m.Warning = fmt.Sprintf("%d pieces missing: %s", len(ids), strings.Join(ids, ", "))
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(fname string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fname, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(fname string) (*Manifest, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(fname), err)
	}
	return m, nil
}
