// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import "math"

// MaxGrowthPerCall caps the sprites one GrowthSchedule call spawns. Whole
// units above the cap stay in the accumulator for later calls.
const MaxGrowthPerCall = 1 << 16

// GrowthConfig configures organic population growth.
//
// Every GrowthSchedule call adds Increment to an accumulator; the integer
// part of the accumulator is the number of sprites spawned by that call.
// Growth therefore follows the number of simulation steps, not elapsed time.
type GrowthConfig struct {
	// Increment is added to the accumulator per call. Zero disables growth.
	Increment float64

	// Seed seeds the generator used for grown sprites.
	Seed uint64

	// HalfExtent, Cells and Speed have the meaning of the SpawnRandom
	// parameters of the same names.
	HalfExtent Vec2
	Cells      []CellSpec
	Speed      Vec2
}

// GrowthSchedule advances the growth accumulator by one increment, spawns
// as many random sprites as its integer part, at most MaxGrowthPerCall, and
// returns that number. Whatever was not spawned carries over to the next
// call.
//
// elapsedSeconds is the caller's simulation clock; it is recorded as
// LastGrowth and does not affect the spawn rate.
func (s *Store) GrowthSchedule(elapsedSeconds float64) uint32 {
	s.lastGrowth = elapsedSeconds
	if s.growth.Increment <= 0 {
		return 0
	}
	s.growthAccumulator += s.growth.Increment
	whole := math.Floor(s.growthAccumulator)
	if whole < 1 {
		return 0
	}
	whole = min(whole, MaxGrowthPerCall)
	s.growthAccumulator -= whole
	n := uint32(whole)
	if s.growthRand == nil {
		s.growthRand = newRand(s.growth.Seed)
	}
	g := s.growth
	s.spawnFrom(s.growthRand, n, g.HalfExtent, g.Cells, g.Speed)
	Logger().Debug("sprites: growth",
		"spawned", n,
		"count", len(s.sprites),
		"elapsed", elapsedSeconds)
	return n
}

// GrowthAccumulator returns the fractional growth carried to the next call.
func (s *Store) GrowthAccumulator() float64 {
	return s.growthAccumulator
}

// LastGrowth returns the elapsedSeconds passed to the most recent
// GrowthSchedule call.
func (s *Store) LastGrowth() float64 {
	return s.lastGrowth
}
