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
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of a cut.
type Config struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`

	// TabDepth is the maximal tab protrusion as a fraction of the cell
	// size perpendicular to the boundary, at most MaxTabDepth. Zero selects
	// DefaultTabDepth.
	TabDepth float64 `yaml:"tab_depth"`

	// PieceSize, if positive, fixes the cell size in pixels. The source
	// image is then cropped and resized to Cols*PieceSize by
	// Rows*PieceSize, and every piece is centred on a square canvas of
	// CanvasSide() pixels.
	PieceSize int `yaml:"piece_size"`

	// Fill is the background of normalized canvases.
	Fill FillMode `yaml:"fill"`

	// Seed selects the random curves. Zero picks a random seed, which is
	// reported in the result.
	Seed uint64 `yaml:"seed"`

	// Bleed is the number of extra pixels around each piece.
	Bleed int `yaml:"bleed"`

	// MinLongSide is the length below which the longer side of the
	// source image is scaled up when PieceSize is zero. Zero disables
	// upscaling.
	MinLongSide int `yaml:"min_long_side"`

	// Workers is the number of cells cut in parallel. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int `yaml:"workers"`

	// SkipFailed makes a cut record failed cells and carry on, instead
	// of aborting on the first failure.
	SkipFailed bool `yaml:"skip_failed"`
}

// DefaultConfig returns the configuration for a 4 × 4 cut with default
// settings.
func DefaultConfig() Config {
	return Config{
		Rows:        4,
		Cols:        4,
		TabDepth:    DefaultTabDepth,
		Fill:        FillTransparent,
		Bleed:       DefaultBleed,
		MinLongSide: DefaultMinLongSide,
	}
}

// LoadConfig reads a YAML configuration file. Fields missing from the
// file keep their values from DefaultConfig; unknown fields are an error.
func LoadConfig(fname string) (Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration, see [LoadConfig].
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a possible cut.
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Cols < 1:
		return invalidf("grid must have at least one row and column, got %dx%d", c.Rows, c.Cols)
	case c.Rows*c.Cols < 2:
		return invalidf("need at least 2 pieces, got %dx%d", c.Rows, c.Cols)
	case !(c.TabDepth >= 0 && c.TabDepth <= MaxTabDepth):
		return invalidf("tab depth %g outside [0, %g]", c.TabDepth, MaxTabDepth)
	case c.PieceSize < 0:
		return invalidf("negative piece size %d", c.PieceSize)
	case c.Fill < FillTransparent || c.Fill > FillAverage:
		return invalidf("unknown fill mode %d", int(c.Fill))
	case c.Bleed < 0:
		return invalidf("negative bleed %d", c.Bleed)
	case c.MinLongSide < 0:
		return invalidf("negative minimum image size %d", c.MinLongSide)
	case c.Workers < 0:
		return invalidf("negative number of workers %d", c.Workers)
	}
	return nil
}

// CanvasSide returns the side of the square canvases pieces are
// normalized to, or 0 if PieceSize is unset. This is CanvasSize(PieceSize),
// widened for small pieces where the tabs and the bleed margin would not
// fit otherwise.
func (c Config) CanvasSide() int {
	if c.PieceSize <= 0 {
		return 0
	}
	depth := c.TabDepth
	if depth == 0 {
		depth = DefaultTabDepth
	}
	// floor/ceil rounding of the sprite box adds at most one pixel per side
	need := int(math.Ceil(float64(c.PieceSize)*(1+2*depth))) + 2 + 2*max(c.Bleed, 0)
	return max(CanvasSize(c.PieceSize), need)
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// MarshalYAML implements yaml.Marshaler.
func (m FillMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *FillMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseFillMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Set implements flag.Value.
func (m *FillMode) Set(s string) error {
	mode, err := ParseFillMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
