// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

// Sprite is one simulated entity.
//
// The field order is the instance buffer order: a Sprite is serialized as
// eight little-endian float32 values, 32 bytes in total. Position, AtlasOffset
// and AtlasSize are bound as per-instance shader attributes; Velocity travels
// with the record but is not read by the shader.
type Sprite struct {
	// Position is the world-space center of the sprite.
	Position Vec2

	// AtlasOffset is the top-left UV of the sprite's cell in the atlas.
	AtlasOffset Vec2

	// AtlasSize is the UV extent of the cell. A negative component mirrors
	// the cell along that axis.
	AtlasSize Vec2

	// Velocity is in world units per second.
	Velocity Vec2
}

// Mirrored reports whether the sprite's cell is flipped horizontally and/or
// vertically.
func (s Sprite) Mirrored() (horizontal, vertical bool) {
	return s.AtlasSize.X < 0, s.AtlasSize.Y < 0
}

// WithCell returns a copy of s showing the given UV rectangle.
func (s Sprite) WithCell(offset, size Vec2) Sprite {
	s.AtlasOffset = offset
	s.AtlasSize = size
	return s
}

// Unit selects how a CellSpec's rectangle is expressed.
type Unit uint8

const (
	// UnitUV means the rectangle is already in normalized texture
	// coordinates [0, 1].
	UnitUV Unit = iota

	// UnitPixels means the rectangle is in atlas pixels and is divided by
	// the atlas dimensions when resolved.
	UnitPixels
)

// String returns a human-readable name for the unit.
func (u Unit) String() string {
	switch u {
	case UnitUV:
		return "uv"
	case UnitPixels:
		return "pixels"
	default:
		return "unknown"
	}
}

// CellSpec describes one cell of a texture atlas.
type CellSpec struct {
	Offset Vec2
	Size   Vec2
	Unit   Unit
}

// UVCell returns a CellSpec in normalized texture coordinates.
func UVCell(u, v, w, h float32) CellSpec {
	return CellSpec{Offset: V2(u, v), Size: V2(w, h), Unit: UnitUV}
}

// PixelCell returns a CellSpec in atlas pixels.
func PixelCell(x, y, w, h float32) CellSpec {
	return CellSpec{Offset: V2(x, y), Size: V2(w, h), Unit: UnitPixels}
}

// UV resolves the cell to a UV rectangle for an atlas of the given pixel
// dimensions. UV cells are returned unchanged. Pixel cells with a
// non-positive atlas dimension are returned unchanged on that axis.
//
// The rectangle is not checked against the atlas bounds.
func (c CellSpec) UV(atlasWidth, atlasHeight int) (offset, size Vec2) {
	if c.Unit != UnitPixels {
		return c.Offset, c.Size
	}
	offset, size = c.Offset, c.Size
	if atlasWidth > 0 {
		w := float32(atlasWidth)
		offset.X /= w
		size.X /= w
	}
	if atlasHeight > 0 {
		h := float32(atlasHeight)
		offset.Y /= h
		size.Y /= h
	}
	return offset, size
}
