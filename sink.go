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
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives the images of finished pieces. Put may be called
// concurrently from several goroutines. The returned location is stored
// in [Piece.Location].
type Sink interface {
	Put(ctx context.Context, p *Piece, img image.Image) (location string, err error)
}

// PieceFileName returns the file name used for the piece with the given
// index.
func PieceFileName(index int) string {
	return fmt.Sprintf("piece_%d.png", index)
}

// DirSink writes every piece as a PNG file into a directory.
type DirSink struct {
	Dir string
}

// Put implements [Sink].
func (s DirSink) Put(ctx context.Context, p *Piece, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fname := filepath.Join(s.Dir, PieceFileName(p.Index))
	if err := writePNG(fname, img); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return fname, nil
}

func writePNG(fname string, img image.Image) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		return err
	}
	return w.Flush()
}

// MemorySink keeps piece images in memory.
type MemorySink struct {
	mu     sync.Mutex
	images map[int]image.Image
}

// Put implements [Sink].
func (s *MemorySink) Put(_ context.Context, p *Piece, img image.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.images == nil {
		s.images = make(map[int]image.Image)
	}
	s.images[p.Index] = img
	return fmt.Sprintf("memory:%d", p.Index), nil
}

// Image returns the stored image of the piece with the given index.
func (s *MemorySink) Image(index int) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[index]
	return img, ok
}

// Len returns the number of stored images.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// WriteLinesPNG writes an overlay produced by RenderLines to a PNG file.
func WriteLinesPNG(fname string, img image.Image) error {
	if err := writePNG(fname, img); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
