// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scene loads demo scene descriptions from TOML.
//
// A scene file names the atlas image and its grid, the initial population
// and the world parameters. Every field is optional; missing fields take
// the values of Default. Unknown keys are rejected so typos surface early.
//
//	[window]
//	title  = "sprites"
//	width  = 1280
//	height = 720
//
//	[atlas]
//	path    = "assets/atlas.png"
//	columns = 4
//	rows    = 2
//
//	[world]
//	seed        = 42
//	count       = 500
//	half_extent = [10.0, 7.0]
//	speed       = [1.0, 1.0]
//	bounds      = [12.0, 9.0]
//	tick_rate   = 60
//
//	[growth]
//	increment = 0.25
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/atlas"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("scene: invalid config")

// Config is a complete scene description.
type Config struct {
	Window Window `toml:"window"`
	Atlas  Atlas  `toml:"atlas"`
	World  World  `toml:"world"`
	Growth Growth `toml:"growth"`
}

// Window configures the demo window or offscreen image.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Atlas locates the atlas image and describes its cell grid. With
// cell_width and cell_height unset, cells are an even UV grid of
// columns x rows; otherwise they are pixel rectangles of that size.
type Atlas struct {
	Path       string `toml:"path"`
	Columns    int    `toml:"columns"`
	Rows       int    `toml:"rows"`
	CellWidth  int    `toml:"cell_width"`
	CellHeight int    `toml:"cell_height"`
}

// World configures the store and its initial population.
type World struct {
	Seed       uint64     `toml:"seed"`
	Count      uint32     `toml:"count"`
	HalfExtent [2]float32 `toml:"half_extent"`
	Speed      [2]float32 `toml:"speed"`
	Bounds     [2]float32 `toml:"bounds"`
	TickRate   int        `toml:"tick_rate"`
}

// Growth configures the growth schedule. Zero increment disables it.
type Growth struct {
	Increment float64 `toml:"increment"`
	Seed      uint64  `toml:"seed"`
}

// Default returns the scene used when no file is given: 500 sprites on a
// 4x2 checker atlas in the default 12x9 world.
func Default() Config {
	return Config{
		Window: Window{Title: "sprites", Width: 1280, Height: 720},
		Atlas:  Atlas{Columns: 4, Rows: 2},
		World: World{
			Seed:       42,
			Count:      500,
			HalfExtent: [2]float32{10, 7},
			Speed:      [2]float32{1, 1},
			Bounds:     [2]float32{sprites.DefaultBoundX, sprites.DefaultBoundY},
			TickRate:   60,
		},
	}
}

// Load reads and parses a scene file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, fmt.Errorf("scene: read: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("scene: unknown keys:\n%s", strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("scene: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("scene: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Atlas.Columns <= 0 || c.Atlas.Rows <= 0:
		return fmt.Errorf("%w: atlas grid %dx%d", ErrInvalid, c.Atlas.Columns, c.Atlas.Rows)
	case c.Atlas.CellWidth < 0 || c.Atlas.CellHeight < 0:
		return fmt.Errorf("%w: negative atlas cell size", ErrInvalid)
	case (c.Atlas.CellWidth == 0) != (c.Atlas.CellHeight == 0):
		return fmt.Errorf("%w: cell_width and cell_height must be set together", ErrInvalid)
	case c.World.HalfExtent[0] < 0 || c.World.HalfExtent[1] < 0:
		return fmt.Errorf("%w: negative half_extent", ErrInvalid)
	case c.World.Speed[0] < 0 || c.World.Speed[1] < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalid)
	case c.World.Bounds[0] <= 0 || c.World.Bounds[1] <= 0:
		return fmt.Errorf("%w: bounds must be positive", ErrInvalid)
	case c.World.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalid, c.World.TickRate)
	case c.Growth.Increment < 0:
		return fmt.Errorf("%w: negative growth increment", ErrInvalid)
	case c.Growth.Increment > sprites.MaxGrowthPerCall:
		return fmt.Errorf("%w: growth increment %g above %d", ErrInvalid, c.Growth.Increment, sprites.MaxGrowthPerCall)
	}
	return nil
}

// Cells returns the atlas cells sprites are drawn from.
func (c Config) Cells() []sprites.CellSpec {
	if c.Atlas.CellWidth > 0 && c.Atlas.CellHeight > 0 {
		return atlas.Grid(c.Atlas.Columns, c.Atlas.Rows, c.Atlas.CellWidth, c.Atlas.CellHeight)
	}
	return atlas.UVGrid(c.Atlas.Columns, c.Atlas.Rows)
}

// GridSize returns the pixel size covered by a pixel grid, or zero for a
// UV grid. A loaded atlas may be larger than its grid.
func (c Config) GridSize() (width, height int) {
	return c.Atlas.Columns * c.Atlas.CellWidth, c.Atlas.Rows * c.Atlas.CellHeight
}

// HalfExtent returns the spawn half extent.
func (c Config) HalfExtent() sprites.Vec2 {
	return sprites.V2(c.World.HalfExtent[0], c.World.HalfExtent[1])
}

// Speed returns the velocity half range.
func (c Config) Speed() sprites.Vec2 {
	return sprites.V2(c.World.Speed[0], c.World.Speed[1])
}

// Step returns the fixed simulation step.
func (c Config) Step() time.Duration {
	return time.Second / time.Duration(c.World.TickRate)
}

// StoreOptions returns the store options the scene describes. Pixel cells
// resolve against the dimensions of img, the atlas returned by LoadAtlas;
// with img nil they resolve against the grid size. Growth spawns with the
// same extent, cells and speed as the initial population.
func (c Config) StoreOptions(img *atlas.Image) []sprites.StoreOption {
	opts := []sprites.StoreOption{
		sprites.WithBounds(c.World.Bounds[0], c.World.Bounds[1]),
		sprites.WithCapacity(int(c.World.Count)),
	}
	w, h := c.GridSize()
	if img != nil {
		w, h = img.Width, img.Height
	}
	if w > 0 && h > 0 {
		opts = append(opts, sprites.WithAtlasSize(w, h))
	}
	if c.Growth.Increment > 0 {
		seed := c.Growth.Seed
		if seed == 0 {
			seed = c.World.Seed + 1
		}
		opts = append(opts, sprites.WithGrowth(sprites.GrowthConfig{
			Increment:  c.Growth.Increment,
			Seed:       seed,
			HalfExtent: c.HalfExtent(),
			Cells:      c.Cells(),
			Speed:      c.Speed(),
		}))
	}
	return opts
}

// NewStore creates a store with the scene's options for the atlas img and
// spawns the initial population.
func (c Config) NewStore(img *atlas.Image) *sprites.Store {
	s := sprites.NewStore(c.StoreOptions(img)...)
	s.SpawnRandom(c.World.Count, c.World.Seed, c.HalfExtent(), c.Cells(), c.Speed())
	return s
}

// checkerCell is the cell size of the generated atlas used when the scene
// names no atlas file.
const checkerCell = 32

// LoadAtlas loads the atlas image, or generates a checker atlas matching
// the grid when no path is set.
func (c Config) LoadAtlas() (*atlas.Image, error) {
	if c.Atlas.Path != "" {
		return atlas.Load(c.Atlas.Path)
	}
	cw, ch := c.Atlas.CellWidth, c.Atlas.CellHeight
	if cw == 0 || ch == 0 {
		cw, ch = checkerCell, checkerCell
	}
	return atlas.NewChecker(c.Atlas.Columns, c.Atlas.Rows, cw, ch)
}
