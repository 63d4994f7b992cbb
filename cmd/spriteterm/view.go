package main

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/atlas"
)

// project maps a world position to a terminal cell. The world spans
// [-bounds, bounds] on both axes with y pointing up; rows grow downwards.
// ok is false when the position falls outside the grid.
func project(p, bounds sprites.Vec2, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || bounds.X <= 0 || bounds.Y <= 0 {
		return 0, 0, false
	}
	u := (p.X/bounds.X + 1) / 2
	v := (1 - p.Y/bounds.Y) / 2
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	col = min(int(u*float32(cols)), cols-1)
	row = min(int(v*float32(rows)), rows-1)
	return col, row, true
}

// cellKey identifies an atlas cell by its UV rectangle.
type cellKey struct {
	offset, size sprites.Vec2
}

// palette caches the average atlas color of each cell as a terminal style.
type palette struct {
	img    *atlas.Image
	styles map[cellKey]tcell.Style
}

func newPalette(img *atlas.Image) *palette {
	return &palette{img: img, styles: make(map[cellKey]tcell.Style)}
}

// style returns the style for a sprite, computing it on first use.
func (p *palette) style(s sprites.Sprite) tcell.Style {
	key := cellKey{s.AtlasOffset, s.AtlasSize.Abs()}
	if st, ok := p.styles[key]; ok {
		return st
	}
	c := brighten(p.img.Average(key.offset, key.size))
	st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	p.styles[key] = st
	return st
}

// brighten undoes the darkening of transparent cell borders by scaling the
// color to full alpha.
func brighten(c color.RGBA) color.RGBA {
	if c.A == 0 || c.A == 0xFF {
		return c
	}
	scale := func(v uint8) uint8 {
		return uint8(min(255, int(v)*255/int(c.A)))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 0xFF}
}

// glyph picks the rune for a sprite from its mirroring.
func glyph(s sprites.Sprite) rune {
	h, v := s.Mirrored()
	switch {
	case h && v:
		return '◆'
	case h:
		return '◀'
	case v:
		return '▼'
	default:
		return '●'
	}
}
