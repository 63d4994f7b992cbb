// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/sprites"
)

// Grid returns pixel-unit cells for a cols x rows grid of cellW x cellH
// cells starting at the atlas origin, in row-major order. Non-positive
// arguments yield nil.
func Grid(cols, rows, cellW, cellH int) []sprites.CellSpec {
	if cols <= 0 || rows <= 0 || cellW <= 0 || cellH <= 0 {
		return nil
	}
	cells := make([]sprites.CellSpec, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			cells = append(cells, sprites.PixelCell(
				float32(c*cellW), float32(r*cellH),
				float32(cellW), float32(cellH)))
		}
	}
	return cells
}

// UVGrid is Grid in normalized units: the whole atlas is split into
// cols x rows equal cells.
func UVGrid(cols, rows int) []sprites.CellSpec {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	w := 1 / float32(cols)
	h := 1 / float32(rows)
	cells := make([]sprites.CellSpec, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			cells = append(cells, sprites.UVCell(float32(c)*w, float32(r)*h, w, h))
		}
	}
	return cells
}

// Palette is the default cell fill for NewChecker.
var Palette = []color.RGBA{
	{R: 0xE6, G: 0x39, B: 0x46, A: 0xFF},
	{R: 0xF1, G: 0xA2, B: 0x08, A: 0xFF},
	{R: 0x2A, G: 0x9D, B: 0x8F, A: 0xFF},
	{R: 0x45, G: 0x7B, B: 0x9D, A: 0xFF},
	{R: 0x8E, G: 0x44, B: 0xAD, A: 0xFF},
	{R: 0xF4, G: 0xF1, B: 0xDE, A: 0xFF},
}

// NewChecker builds a procedural atlas of cols x rows solid cells of
// cellW x cellH pixels, colored from Palette in row-major order. Each cell
// has a transparent one-pixel border so neighbouring cells do not bleed
// under linear filtering.
func NewChecker(cols, rows, cellW, cellH int) (*Image, error) {
	if cols <= 0 || rows <= 0 || cellW <= 0 || cellH <= 0 {
		return nil, ErrInvalidGrid
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	for r := range rows {
		for c := range cols {
			col := Palette[(r*cols+c)%len(Palette)]
			cell := image.Rect(c*cellW, r*cellH, (c+1)*cellW, (r+1)*cellH)
			if cellW > 2 && cellH > 2 {
				cell = cell.Inset(1)
			}
			xdraw.Draw(dst, cell, image.NewUniform(col), image.Point{}, xdraw.Src)
		}
	}
	return &Image{Width: dst.Rect.Dx(), Height: dst.Rect.Dy(), Pix: dst.Pix}, nil
}
