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
	"image/color"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Piece describes one cut piece.
type Piece struct {
	Index    int // row*cols + col
	Row, Col int

	// BBox is the area of the working image covered by the sprite.
	BBox image.Rectangle

	// Width and Height give the size of the stored image. This is the
	// sprite size, or the canvas size for normalized pieces.
	Width, Height int

	Type       PieceType
	Neighbours []int

	// Location is the value returned by the sink.
	Location string

	// Image holds the piece image if the cut had no sink.
	Image image.Image
}

// Result is the outcome of a cut.
type Result struct {
	RunID string
	Seed  uint64

	Rows, Cols int

	// ImageWidth and ImageHeight give the size of the working image,
	// after Prepare.
	ImageWidth, ImageHeight int

	// CanvasSize is the side of the normalized canvases, or 0 if pieces
	// were not normalized.
	CanvasSize int

	// Pieces holds all successfully cut pieces, ordered by index.
	Pieces []Piece

	// Lines shows the cut lines on a white background.
	Lines *image.Gray

	// Failed lists the cells which could not be cut, ordered by index.
	Failed []*CellError

	Field *Field
}

// ProgressFunc is called after every finished cell, with the number of
// cells done so far and the total number of cells.
type ProgressFunc func(done, total int)

// Cutter cuts images into puzzle pieces.
type Cutter struct {
	Config Config

	// Sink receives the piece images. If Sink is nil, the images are kept
	// in Piece.Image.
	Sink Sink

	// Progress, if set, is called from a single goroutine, with
	// increasing values of done.
	Progress ProgressFunc

	// LineStyle is used for Result.Lines.
	LineStyle LineStyle

	Logger *zap.Logger
}

// NewCutter returns a Cutter for the given configuration, which keeps
// pieces in memory and does not log.
func NewCutter(cfg Config) *Cutter {
	return &Cutter{
		Config:    cfg,
		LineStyle: DefaultLineStyle,
		Logger:    zap.NewNop(),
	}
}

type cellResult struct {
	index int
	piece *Piece
	err   *CellError
}

// Cut prepares src, builds the curve field and cuts all cells, several
// cells at a time.
//
// Unless Config.SkipFailed is set, the first failing cell stops the cut
// and its *CellError is returned. If ctx is cancelled, no new cells are
// started and Cut returns the pieces finished so far, together with
// ctx.Err(). In both cases the partial result is returned alongside the
// error.
func (c *Cutter) Cut(ctx context.Context, src image.Image) (*Result, error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	seed := cfg.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}

	img, err := Prepare(src, cfg)
	if err != nil {
		return nil, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	field, err := BuildField(Grid{
		Rows:       cfg.Rows,
		Cols:       cfg.Cols,
		CellWidth:  float64(w) / float64(cfg.Cols),
		CellHeight: float64(h) / float64(cfg.Rows),
		TabDepth:   cfg.TabDepth,
	}, seed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Seed:        seed,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		ImageWidth:  w,
		ImageHeight: h,
		Field:       field,
	}
	log = log.With(zap.String("run_id", res.RunID))
	log.Info("cutting image",
		zap.Uint64("seed", seed),
		zap.Int("rows", cfg.Rows),
		zap.Int("cols", cfg.Cols),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	start := time.Now()

	style := c.LineStyle
	if style.Width <= 0 {
		style = DefaultLineStyle
	}
	res.Lines = RenderLines(field, w, h, style)

	job := cellJob{
		field:  field,
		img:    img,
		bleed:  cfg.Bleed,
		sink:   c.Sink,
		logger: log,
	}
	if cfg.PieceSize > 0 {
		job.canvas = cfg.CanvasSide()
		job.fill = cfg.Fill.Color(img)
		res.CanvasSize = job.canvas
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := field.Cells()
	workers := min(cfg.workers(), total)
	jobs := make(chan int, workers*2)
	results := make(chan cellResult, workers*2)

	go func() {
		defer close(jobs)
		for i := range total {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clipper := NewClipper()
			for idx := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				results <- job.run(runCtx, clipper, idx)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	pieces := make([]*Piece, total)
	var firstErr error
	done := 0
	for r := range results {
		if r.err != nil && runCtx.Err() != nil &&
			(errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded)) {
			// interrupted by the abort, not a failure of its own
			continue
		}
		done++
		if r.err != nil {
			log.Warn("cell failed",
				zap.Int("index", r.index), zap.Int("row", r.err.Row), zap.Int("col", r.err.Col),
				zap.Error(r.err.Err))
			res.Failed = append(res.Failed, r.err)
			if !cfg.SkipFailed && firstErr == nil {
				firstErr = r.err
				cancel()
			}
		} else {
			pieces[r.index] = r.piece
		}
		if c.Progress != nil {
			c.Progress(done, total)
		}
	}

	for _, p := range pieces {
		if p != nil {
			res.Pieces = append(res.Pieces, *p)
		}
	}
	slices.SortFunc(res.Failed, func(a, b *CellError) int { return a.Index - b.Index })

	log.Info("cut finished",
		zap.Int("pieces", len(res.Pieces)),
		zap.Int("failed", len(res.Failed)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if firstErr != nil {
		return res, firstErr
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// cellJob holds everything the workers share. None of it is modified
// while the workers run.
type cellJob struct {
	field  *Field
	img    *image.NRGBA
	bleed  int
	canvas int
	fill   color.Color
	sink   Sink
	logger *zap.Logger
}

func (j *cellJob) run(ctx context.Context, clipper *Clipper, idx int) cellResult {
	f := j.field
	row, col := idx/f.Cols, idx%f.Cols
	fail := func(err error) cellResult {
		return cellResult{index: idx, err: &CellError{Row: row, Col: col, Index: idx, Err: err}}
	}

	sprite, err := clipper.Clip(j.img, f.Outline(row, col), j.bleed)
	if err != nil {
		return fail(err)
	}

	p := &Piece{
		Index:      idx,
		Row:        row,
		Col:        col,
		BBox:       sprite.BBox,
		Width:      sprite.Width,
		Height:     sprite.Height,
		Type:       PieceTypeAt(row, col, f.Rows, f.Cols),
		Neighbours: Neighbours(row, col, f.Rows, f.Cols),
	}
	var out image.Image = sprite.Image
	if j.canvas > 0 {
		out = Normalize(sprite, j.canvas, j.fill)
		p.Width, p.Height = j.canvas, j.canvas
	}

	if j.sink == nil {
		p.Image = out
	} else {
		loc, err := j.sink.Put(ctx, p, out)
		if err != nil {
			return fail(err)
		}
		p.Location = loc
	}

	j.logger.Debug("cell done",
		zap.Int("index", idx),
		zap.Stringer("type", p.Type),
		zap.Int("width", sprite.Width),
		zap.Int("height", sprite.Height),
	)
	return cellResult{index: idx, piece: p}
}
