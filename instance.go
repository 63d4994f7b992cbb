// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"encoding/binary"
	"math"
)

// InstanceStride is the byte stride per sprite instance.
// Layout per instance:
//
//	position    (vec2<f32>) = 8 bytes  (offset 0,  attribute "position")
//	atlasOffset (vec2<f32>) = 8 bytes  (offset 8,  attribute "cell")
//	atlasSize   (vec2<f32>) = 8 bytes  (offset 16, attribute "size")
//	velocity    (vec2<f32>) = 8 bytes  (offset 24, not bound)
//
// Total = 32 bytes per instance.
const InstanceStride = 32

// Byte offsets of the per-instance attributes inside one instance record.
const (
	PositionOffset    = 0
	AtlasOffsetOffset = 8
	AtlasSizeOffset   = 16
	VelocityOffset    = 24
)

// AppendInstances serializes sprites into dst in instance layout and returns
// the extended slice. The existing contents of dst are kept.
func AppendInstances(dst []byte, sprites []Sprite) []byte {
	start := len(dst)
	needed := start + len(sprites)*InstanceStride
	if cap(dst) < needed {
		grown := make([]byte, start, needed)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:needed]
	for i := range sprites {
		writeInstance(dst[start+i*InstanceStride:], &sprites[i])
	}
	return dst
}

// DecodeInstance reads one instance record. buf must hold at least
// InstanceStride bytes.
func DecodeInstance(buf []byte) Sprite {
	_ = buf[InstanceStride-1]
	return Sprite{
		Position:    readVec2(buf[PositionOffset:]),
		AtlasOffset: readVec2(buf[AtlasOffsetOffset:]),
		AtlasSize:   readVec2(buf[AtlasSizeOffset:]),
		Velocity:    readVec2(buf[VelocityOffset:]),
	}
}

// writeInstance writes a single sprite into the buffer.
func writeInstance(buf []byte, s *Sprite) {
	writeVec2(buf[PositionOffset:], s.Position)
	writeVec2(buf[AtlasOffsetOffset:], s.AtlasOffset)
	writeVec2(buf[AtlasSizeOffset:], s.AtlasSize)
	writeVec2(buf[VelocityOffset:], s.Velocity)
}

func writeVec2(buf []byte, v Vec2) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
}

func readVec2(buf []byte) Vec2 {
	return Vec2{
		X: math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
	}
}
