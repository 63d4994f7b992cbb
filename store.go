// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"iter"
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// Store owns the authoritative sprite sequence and advances it in discrete
// time steps. Insertion order is draw order. Sprites are never removed
// individually: a sprite that leaves the bounds is moved back to the origin
// on that axis.
//
// Store is not safe for concurrent use.
type Store struct {
	sprites []Sprite
	bounds  Vec2

	atlasWidth  int
	atlasHeight int

	growth            GrowthConfig
	growthAccumulator float64
	growthRand        *rand.Rand
	lastGrowth        float64

	version uint64
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store{
		bounds:      o.bounds,
		atlasWidth:  o.atlasWidth,
		atlasHeight: o.atlasHeight,
		growth:      o.growth,
	}
	if o.capacity > 0 {
		s.sprites = make([]Sprite, 0, o.capacity)
	}
	if o.growth.Increment > 0 {
		s.growthRand = newRand(o.growth.Seed)
	}
	return s
}

// Spawn appends one sprite and returns its index. Indices are stable for the
// lifetime of the store.
func (s *Store) Spawn(sp Sprite) int {
	s.sprites = append(s.sprites, sp)
	s.version++
	return len(s.sprites) - 1
}

// SpawnRandom appends count sprites drawn from a generator seeded with seed.
//
// Each sprite gets a position uniform in [-half.X, half.X) x [-half.Y, half.Y),
// a cell chosen uniformly from cells, a horizontal mirror with probability
// 0.5 (drawn independently of the cell), and a velocity uniform in
// [-speed, speed) per axis. The upper bounds are excluded, which for
// float32 draws differs from a closed interval by one ulp. An empty cells
// slice yields a zero cell.
//
// For a fixed seed and call sequence the result is bit-for-bit reproducible.
func (s *Store) SpawnRandom(count uint32, seed uint64, half Vec2, cells []CellSpec, speed Vec2) {
	s.spawnFrom(newRand(seed), count, half, cells, speed)
}

// spawnFrom appends count sprites using r. The draw order per sprite is
// fixed: x, y, cell, mirror, vx, vy.
func (s *Store) spawnFrom(r *rand.Rand, count uint32, half Vec2, cells []CellSpec, speed Vec2) {
	if count == 0 {
		return
	}
	s.sprites = growSprites(s.sprites, int(count))
	for range count {
		var sp Sprite
		sp.Position = V2(symmetric(r, half.X), symmetric(r, half.Y))
		if len(cells) > 0 {
			cell := cells[r.IntN(len(cells))]
			sp.AtlasOffset, sp.AtlasSize = cell.UV(s.atlasWidth, s.atlasHeight)
		}
		if r.IntN(2) == 1 {
			sp.AtlasSize.X = -sp.AtlasSize.X
		}
		sp.Velocity = V2(symmetric(r, speed.X), symmetric(r, speed.Y))
		s.sprites = append(s.sprites, sp)
	}
	s.version++
}

// Step advances every sprite by dt seconds: position += velocity * dt.
// Each axis is then checked independently; a coordinate whose magnitude
// exceeds the bound on that axis is set to 0. Velocity is unchanged.
func (s *Store) Step(dt float32) {
	bx, by := s.bounds.X, s.bounds.Y
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.Position = sp.Position.Add(sp.Velocity.Mul(dt))
		if math32.Abs(sp.Position.X) > bx {
			sp.Position.X = 0
		}
		if math32.Abs(sp.Position.Y) > by {
			sp.Position.Y = 0
		}
	}
	s.version++
}

// Count returns the number of sprites.
func (s *Store) Count() int {
	return len(s.sprites)
}

// Snapshot returns a read-only view of the current sequence. The view
// shares memory with the store until the next Spawn, SpawnRandom or
// spawning GrowthSchedule call, so Step results show through it until
// then. A spawn may move the store's storage, after which the view keeps
// the sprites as they were and must be retaken. It never observes
// appended sprites.
func (s *Store) Snapshot() View {
	return View{sprites: s.sprites[:len(s.sprites):len(s.sprites)]}
}

// Bounds returns the world half extents used by Step.
func (s *Store) Bounds() Vec2 {
	return s.bounds
}

// Version returns a counter that changes on every mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// Reset empties the store. The growth accumulator is kept.
func (s *Store) Reset() {
	clear(s.sprites)
	s.sprites = s.sprites[:0]
	s.version++
}

// View is a read-only window onto a Store's sprites.
type View struct {
	sprites []Sprite
}

// Len returns the number of sprites in the view.
func (v View) Len() int {
	return len(v.sprites)
}

// At returns the sprite at index i. It panics if i is out of range.
func (v View) At(i int) Sprite {
	return v.sprites[i]
}

// All iterates over the sprites in draw order.
func (v View) All() iter.Seq2[int, Sprite] {
	return func(yield func(int, Sprite) bool) {
		for i, sp := range v.sprites {
			if !yield(i, sp) {
				return
			}
		}
	}
}

// AppendTo appends copies of the sprites to dst.
func (v View) AppendTo(dst []Sprite) []Sprite {
	return append(dst, v.sprites...)
}

// AppendInstances serializes the view in instance layout. See
// AppendInstances.
func (v View) AppendInstances(dst []byte) []byte {
	return AppendInstances(dst, v.sprites)
}

// newRand returns a PCG-backed generator for seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// pcgStream decorrelates the two PCG state words for small seeds.
const pcgStream = 0x9e3779b97f4a7c15

// symmetric returns a value uniform in [-limit, limit).
func symmetric(r *rand.Rand, limit float32) float32 {
	return (r.Float32()*2 - 1) * limit
}

// growSprites ensures room for n more sprites without changing the length.
func growSprites(s []Sprite, n int) []Sprite {
	if cap(s)-len(s) >= n {
		return s
	}
	grown := make([]Sprite, len(s), len(s)+n)
	copy(grown, s)
	return grown
}
