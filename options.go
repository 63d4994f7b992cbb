// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

// Default world bounds. A sprite whose coordinate leaves [-bound, bound] on
// an axis is moved back to 0 on that axis.
const (
	DefaultBoundX = 12
	DefaultBoundY = 9
)

// StoreOption configures a Store during creation.
// Use functional options to customize Store behavior.
//
// Example:
//
//	// Default 12x9 bounds, no growth
//	s := sprites.NewStore()
//
//	// Wider world that grows by one sprite every ten steps
//	s := sprites.NewStore(
//	    sprites.WithBounds(20, 15),
//	    sprites.WithGrowth(sprites.GrowthConfig{Increment: 0.1, Seed: 7}),
//	)
type StoreOption func(*storeOptions)

// storeOptions holds optional configuration for Store creation.
type storeOptions struct {
	bounds      Vec2
	atlasWidth  int
	atlasHeight int
	growth      GrowthConfig
	capacity    int
}

// defaultStoreOptions returns the default store options.
func defaultStoreOptions() storeOptions {
	return storeOptions{
		bounds: V2(DefaultBoundX, DefaultBoundY),
	}
}

// WithBounds sets the half extents of the world. Non-positive values keep
// the default for that axis.
func WithBounds(x, y float32) StoreOption {
	return func(o *storeOptions) {
		if x > 0 {
			o.bounds.X = x
		}
		if y > 0 {
			o.bounds.Y = y
		}
	}
}

// WithAtlasSize sets the atlas pixel dimensions used to resolve pixel-unit
// CellSpecs in SpawnRandom and GrowthSchedule.
func WithAtlasSize(width, height int) StoreOption {
	return func(o *storeOptions) {
		o.atlasWidth = width
		o.atlasHeight = height
	}
}

// WithGrowth enables the growth schedule. See Store.GrowthSchedule.
func WithGrowth(cfg GrowthConfig) StoreOption {
	return func(o *storeOptions) {
		o.growth = cfg
	}
}

// WithCapacity preallocates room for n sprites.
func WithCapacity(n int) StoreOption {
	return func(o *storeOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}
