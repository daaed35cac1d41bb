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

// Source is a small deterministic pseudo-random number generator.
//
// The state is seeded with one SplitMix64 step, so that every seed
// (including 0) gives a usable non-zero state, and then advanced with
// xorshift64*. The sequence for a given seed is fixed and does not depend
// on the Go version, which makes cuts reproducible across builds.
//
// A Source is not safe for concurrent use.
type Source struct {
	state uint64
}

// NewSource returns a generator seeded with seed.
func NewSource(seed uint64) *Source {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		z = 0x9e3779b97f4a7c15
	}
	return &Source{state: z}
}

// Uint64 returns the next 64 random bits.
func (s *Source) Uint64() uint64 {
	x := s.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	s.state = x
	return x * 0x2545f4914f6cdd1d
}

// Float64 returns a uniformly distributed value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Uint64()>>11) * 0x1p-53
}

// Uniform returns a uniformly distributed value in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Float64()
}

// Coin returns true or false with equal probability.
func (s *Source) Coin() bool {
	return s.Uint64()&1 == 1
}
