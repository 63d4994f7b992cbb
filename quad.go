// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"encoding/binary"
	"math"
)

// QuadVertexStride is the byte stride of one quad corner (vec2<f32>).
const QuadVertexStride = 8

// QuadIndexCount is the number of indices in the shared quad mesh.
const QuadIndexCount = 6

// QuadVertices are the corners of the unit quad every sprite instance is
// drawn with. The shader maps a corner c to world space as
// position + (c - 0.5) * scale. For UV space c.y is flipped, since world y
// points up, and an axis with negative size is flipped again before
// cell + c * abs(size) is taken.
var QuadVertices = [4]Vec2{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// QuadIndices form two counter-clockwise triangles over QuadVertices.
var QuadIndices = [QuadIndexCount]uint16{0, 1, 2, 2, 3, 0}

// QuadVertexBytes returns the vertex buffer image of the shared quad mesh.
func QuadVertexBytes() []byte {
	buf := make([]byte, len(QuadVertices)*QuadVertexStride)
	for i, v := range QuadVertices {
		off := i * QuadVertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Y))
	}
	return buf
}

// QuadIndexBytes returns the uint16 index buffer image of the shared quad
// mesh. Six indices occupy 12 bytes, already a multiple of the 4-byte copy
// alignment buffers require.
func QuadIndexBytes() []byte {
	buf := make([]byte, len(QuadIndices)*2)
	for i, idx := range QuadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
