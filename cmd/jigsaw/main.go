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

// Command jigsaw cuts an image into interlocking puzzle pieces.
//
// Usage:
//
//	jigsaw [flags] <image> <outdir>
//
// The output directory receives one PNG file per piece in pieces/, the cut
// lines as lines.png and lines.pdf, and a metadata.json file describing
// all pieces.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"seehuhn.de/go/jigsaw"
	"seehuhn.de/go/jigsaw/internal/logging"
)

type options struct {
	configFile string
	rows, cols int
	pieces     int
	pieceSize  int
	fill       jigsaw.FillMode
	seed       uint64
	workers    int
	skipFailed bool
	logFile    string
	dev        bool
}

func main() {
	opts := &options{}
	flag.StringVar(&opts.configFile, "config", "", "read settings from this YAML `file`")
	flag.IntVar(&opts.rows, "rows", 0, "number of rows")
	flag.IntVar(&opts.cols, "cols", 0, "number of columns")
	flag.IntVar(&opts.pieces, "pieces", 0, "choose rows and columns for about `n` pieces")
	flag.IntVar(&opts.pieceSize, "piece-size", 0, "fixed piece size in `pixels`, normalizes all pieces")
	flag.Var(&opts.fill, "fill", "canvas background: transparent, black, white or average")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	flag.IntVar(&opts.workers, "workers", 0, "number of parallel workers, 0 for one per CPU")
	flag.BoolVar(&opts.skipFailed, "skip-failed", false, "continue when a piece cannot be cut")
	flag.StringVar(&opts.logFile, "log-file", "", "also write logs to this `file`")
	flag.BoolVar(&opts.dev, "dev", false, "verbose, human readable logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <image> <outdir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.New(opts.dev, opts.logFile)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, opts, flag.Arg(0), flag.Arg(1), logger)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, inName, outDir string, logger *zap.Logger) error {
	cfg := jigsaw.DefaultConfig()
	if opts.configFile != "" {
		var err error
		cfg, err = jigsaw.LoadConfig(opts.configFile)
		if err != nil {
			return err
		}
	}

	src, err := decodeImage(inName)
	if err != nil {
		return err
	}

	requested := 0
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Rows = opts.rows
		case "cols":
			cfg.Cols = opts.cols
		case "piece-size":
			cfg.PieceSize = opts.pieceSize
		case "fill":
			cfg.Fill = opts.fill
		case "seed":
			cfg.Seed = opts.seed
		case "workers":
			cfg.Workers = opts.workers
		case "skip-failed":
			cfg.SkipFailed = opts.skipFailed
		}
	})
	if opts.pieces != 0 {
		b := src.Bounds()
		cfg.Rows, cfg.Cols, err = jigsaw.GridForPieces(opts.pieces, b.Dx(), b.Dy())
		if err != nil {
			return err
		}
		requested = opts.pieces
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	piecesDir := filepath.Join(outDir, jigsaw.PiecesDir)
	if err := os.MkdirAll(piecesDir, 0o755); err != nil {
		return err
	}

	cutter := jigsaw.NewCutter(cfg)
	cutter.Sink = jigsaw.DirSink{Dir: piecesDir}
	cutter.Logger = logger
	res, err := cutter.Cut(ctx, src)
	if res == nil {
		return err
	}
	cutErr := err

	if err := jigsaw.WriteLinesPNG(filepath.Join(outDir, "lines.png"), res.Lines); err != nil {
		return err
	}
	pdfName := filepath.Join(outDir, "lines.pdf")
	if err := jigsaw.WriteLinesPDF(pdfName, res.Field, res.ImageWidth, res.ImageHeight, cutter.LineStyle); err != nil {
		return err
	}
	m := res.Manifest(requested)
	if err := jigsaw.WriteManifest(filepath.Join(outDir, "metadata.json"), m); err != nil {
		return err
	}

	printSummary(res, m, outDir)
	return cutErr
}

func decodeImage(fname string) (image.Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return img, nil
}

func printSummary(res *jigsaw.Result, m *jigsaw.Manifest, outDir string) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	header.Printf("%d pieces", len(res.Pieces))
	dim.Printf(" (%d×%d grid, %d×%d pixels)\n", res.Rows, res.Cols, res.ImageWidth, res.ImageHeight)

	counts := map[jigsaw.PieceType]int{}
	for _, p := range res.Pieces {
		counts[p.Type]++
	}
	fmt.Printf("  corner %d, edge %d, interior %d\n",
		counts[jigsaw.Corner], counts[jigsaw.Edge], counts[jigsaw.Interior])
	if res.CanvasSize > 0 {
		fmt.Printf("  canvas %d×%d\n", res.CanvasSize, res.CanvasSize)
	}
	fmt.Printf("  seed   %d\n", res.Seed)
	dim.Printf("  output %s\n", outDir)

	if m.Warning != "" {
		color.New(color.FgYellow).Printf("warning: %s\n", m.Warning)
	} else {
		color.New(color.FgGreen).Println("done")
	}
}
