// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import "testing"

func TestNewStoreDefault(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
	if got := s.Bounds(); got != V2(DefaultBoundX, DefaultBoundY) {
		t.Errorf("Bounds() = %v, want (%d, %d)", got, DefaultBoundX, DefaultBoundY)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestWithBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		want Vec2
	}{
		{"both", 20, 15, V2(20, 15)},
		{"x only", 20, 0, V2(20, DefaultBoundY)},
		{"negative ignored", -1, -1, V2(DefaultBoundX, DefaultBoundY)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(WithBounds(tt.x, tt.y))
			if got := s.Bounds(); got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithCapacity(t *testing.T) {
	s := NewStore(WithCapacity(64))
	if cap(s.sprites) < 64 {
		t.Errorf("cap = %d, want >= 64", cap(s.sprites))
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestWithAtlasSize(t *testing.T) {
	s := NewStore(WithAtlasSize(256, 128))
	s.SpawnRandom(1, 1, V2(1, 1), []CellSpec{PixelCell(128, 64, 64, 64)}, V2(0, 0))

	got := s.Snapshot().At(0)
	if !got.AtlasOffset.Approx(V2(0.5, 0.5), 1e-6) {
		t.Errorf("AtlasOffset = %v, want (0.5, 0.5)", got.AtlasOffset)
	}
	if !got.AtlasSize.Abs().Approx(V2(0.25, 0.5), 1e-6) {
		t.Errorf("|AtlasSize| = %v, want (0.25, 0.5)", got.AtlasSize.Abs())
	}
}
