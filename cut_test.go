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
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testCutter(rows, cols int, seed uint64) *Cutter {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = rows, cols
	cfg.Seed = seed
	cfg.MinLongSide = 0
	cfg.Workers = 3
	return NewCutter(cfg)
}

func TestCut(t *testing.T) {
	c := testCutter(3, 3, 7)
	res, err := c.Cut(context.Background(), gradientImage(300, 300))
	if err != nil {
		t.Fatal(err)
	}

	if res.Seed != 7 || res.RunID == "" {
		t.Errorf("seed %d, run id %q", res.Seed, res.RunID)
	}
	if res.ImageWidth != 300 || res.ImageHeight != 300 || res.CanvasSize != 0 {
		t.Errorf("image %dx%d, canvas %d", res.ImageWidth, res.ImageHeight, res.CanvasSize)
	}
	if res.Lines == nil || res.Lines.Bounds() != image.Rect(0, 0, 300, 300) {
		t.Error("missing cut line overlay")
	}
	if len(res.Pieces) != 9 || len(res.Failed) != 0 {
		t.Fatalf("%d pieces, %d failed", len(res.Pieces), len(res.Failed))
	}

	count := map[PieceType]int{}
	for i, p := range res.Pieces {
		if p.Index != i || p.Row != i/3 || p.Col != i%3 {
			t.Errorf("piece %d at index %d, cell (%d,%d)", i, p.Index, p.Row, p.Col)
		}
		if p.Image == nil || p.Image.Bounds() != image.Rect(0, 0, p.Width, p.Height) {
			t.Errorf("piece %d: image does not match size %dx%d", i, p.Width, p.Height)
		}
		if p.BBox.Dx() != p.Width || p.BBox.Dy() != p.Height {
			t.Errorf("piece %d: box %v, size %dx%d", i, p.BBox, p.Width, p.Height)
		}
		count[p.Type]++
	}
	if count[Corner] != 4 || count[Edge] != 4 || count[Interior] != 1 {
		t.Errorf("piece types %v", count)
	}
}

func TestCutDeterministic(t *testing.T) {
	src := gradientImage(200, 150)
	a, err := testCutter(3, 4, 99).Cut(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testCutter(3, 4, 99).Cut(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pieces {
		if a.Pieces[i].BBox != b.Pieces[i].BBox {
			t.Errorf("piece %d: %v vs %v", i, a.Pieces[i].BBox, b.Pieces[i].BBox)
		}
	}
}

func TestCutRandomSeed(t *testing.T) {
	res, err := testCutter(2, 2, 0).Cut(context.Background(), gradientImage(64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if res.Seed == 0 {
		t.Error("no seed recorded")
	}
}

func TestCutPieceSize(t *testing.T) {
	c := testCutter(3, 3, 11)
	c.Config.PieceSize = 100
	c.Config.Fill = FillWhite

	res, err := c.Cut(context.Background(), gradientImage(320, 250))
	if err != nil {
		t.Fatal(err)
	}
	if res.ImageWidth != 300 || res.ImageHeight != 300 || res.CanvasSize != 175 {
		t.Fatalf("image %dx%d, canvas %d", res.ImageWidth, res.ImageHeight, res.CanvasSize)
	}
	for _, p := range res.Pieces {
		if p.Width != 175 || p.Height != 175 || p.Image.Bounds() != image.Rect(0, 0, 175, 175) {
			t.Errorf("piece %d: %dx%d", p.Index, p.Width, p.Height)
		}
		if p.BBox.Dx() > 175 || p.BBox.Dy() > 175 {
			t.Errorf("piece %d: sprite %v larger than the canvas", p.Index, p.BBox)
		}
	}
}

func TestCutSmallPieces(t *testing.T) {
	for _, size := range []int{10, 20} {
		c := testCutter(3, 3, 7)
		c.Config.PieceSize = size
		c.Config.TabDepth = MaxTabDepth

		res, err := c.Cut(context.Background(), gradientImage(100, 100))
		if err != nil {
			t.Fatal(err)
		}
		if res.CanvasSize < CanvasSize(size) {
			t.Errorf("size %d: canvas %d smaller than %d", size, res.CanvasSize, CanvasSize(size))
		}
		for _, p := range res.Pieces {
			if p.BBox.Dx() > res.CanvasSize || p.BBox.Dy() > res.CanvasSize {
				t.Errorf("size %d, piece %d: sprite %dx%d cropped to canvas %d",
					size, p.Index, p.BBox.Dx(), p.BBox.Dy(), res.CanvasSize)
			}
			if p.Width != res.CanvasSize || p.Height != res.CanvasSize {
				t.Errorf("size %d, piece %d: %dx%d", size, p.Index, p.Width, p.Height)
			}
		}
	}
}

func TestCutInvalid(t *testing.T) {
	c := testCutter(1, 1, 1)
	if _, err := c.Cut(context.Background(), gradientImage(10, 10)); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("got %v, want ErrInvalidConfiguration", err)
	}
}

func TestCutProgress(t *testing.T) {
	c := testCutter(4, 4, 3)
	var calls []int
	c.Progress = func(done, total int) {
		if total != 16 {
			t.Errorf("total %d, want 16", total)
		}
		calls = append(calls, done)
	}
	if _, err := c.Cut(context.Background(), gradientImage(160, 160)); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 16 {
		t.Fatalf("%d progress calls, want 16", len(calls))
	}
	for i, done := range calls {
		if done != i+1 {
			t.Errorf("call %d reports %d cells done", i, done)
		}
	}
}

func TestCutCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := testCutter(3, 3, 5)
	c.Config.Workers = 1
	c.Progress = func(done, total int) {
		if done == 1 {
			cancel()
		}
	}
	res, err := c.Cut(ctx, gradientImage(300, 300))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("no partial result")
	}
	if n := len(res.Pieces); n < 1 || n >= 9 {
		t.Errorf("%d pieces after cancelling", n)
	}
}

// failingSink rejects one piece and keeps the rest in memory.
type failingSink struct {
	MemorySink
	bad int
}

func (s *failingSink) Put(ctx context.Context, p *Piece, img image.Image) (string, error) {
	if p.Index == s.bad {
		return "", ErrWrite
	}
	return s.MemorySink.Put(ctx, p, img)
}

func TestCutAbortOnFailure(t *testing.T) {
	c := testCutter(3, 3, 5)
	c.Sink = &failingSink{bad: 4}

	res, err := c.Cut(context.Background(), gradientImage(90, 90))
	var cellErr *CellError
	if !errors.As(err, &cellErr) {
		t.Fatalf("got %v, want a *CellError", err)
	}
	if cellErr.Index != 4 || cellErr.Row != 1 || cellErr.Col != 1 || !errors.Is(err, ErrWrite) {
		t.Errorf("got %v", cellErr)
	}
	if res == nil || len(res.Failed) != 1 {
		t.Errorf("partial result %+v", res)
	}
}

func TestCutSkipFailed(t *testing.T) {
	c := testCutter(3, 3, 5)
	c.Config.SkipFailed = true
	sink := &failingSink{bad: 4}
	c.Sink = sink

	res, err := c.Cut(context.Background(), gradientImage(90, 90))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pieces) != 8 || len(res.Failed) != 1 || res.Failed[0].Index != 4 {
		t.Fatalf("%d pieces, failed %v", len(res.Pieces), res.Failed)
	}
	if sink.Len() != 8 {
		t.Errorf("sink holds %d images", sink.Len())
	}
	for _, p := range res.Pieces {
		if p.Image != nil {
			t.Errorf("piece %d kept in memory although a sink was set", p.Index)
		}
		if _, ok := sink.Image(p.Index); !ok {
			t.Errorf("piece %d not in the sink", p.Index)
		}
	}
	if w := res.Manifest(9).Warning; w != "1 pieces missing: 4" {
		t.Errorf("warning %q", w)
	}
}

// stallingSink blocks on one piece until the context ends.
type stallingSink struct {
	MemorySink
	stall int
}

func (s *stallingSink) Put(ctx context.Context, p *Piece, img image.Image) (string, error) {
	if p.Index == s.stall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.MemorySink.Put(ctx, p, img)
}

func TestCutDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	c := testCutter(3, 3, 5)
	c.Config.Workers = 1
	c.Sink = &stallingSink{stall: 2}

	res, err := c.Cut(ctx, gradientImage(90, 90))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want context.DeadlineExceeded", err)
	}
	var cellErr *CellError
	if errors.As(err, &cellErr) {
		t.Errorf("deadline reported as a failure of cell %d", cellErr.Index)
	}
	if res == nil {
		t.Fatal("no partial result")
	}
	if len(res.Failed) != 0 {
		t.Errorf("%d cells recorded as failed", len(res.Failed))
	}
	if len(res.Pieces) != 2 {
		t.Errorf("%d pieces before the deadline, want 2", len(res.Pieces))
	}
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	c := testCutter(2, 3, 8)
	c.Sink = DirSink{Dir: dir}

	res, err := c.Cut(context.Background(), gradientImage(150, 100))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Pieces {
		if want := filepath.Join(dir, PieceFileName(p.Index)); p.Location != want {
			t.Errorf("piece %d stored at %q, want %q", p.Index, p.Location, want)
		}
		f, err := os.Open(p.Location)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != p.Width || cfg.Height != p.Height {
			t.Errorf("piece %d: file is %dx%d, want %dx%d", p.Index, cfg.Width, cfg.Height, p.Width, p.Height)
		}
	}
}

func TestDirSinkMissingDir(t *testing.T) {
	s := DirSink{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := s.Put(context.Background(), &Piece{Index: 1}, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if !errors.Is(err, ErrWrite) {
		t.Errorf("got %v, want ErrWrite", err)
	}
}

func TestMemorySinkConcurrent(t *testing.T) {
	var s MemorySink
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Put(context.Background(), &Piece{Index: i}, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Errorf("%d images stored", s.Len())
	}
}
