// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
)

var (
	testCellA = UVCell(0, 0, 0.5, 0.5)
	testCellB = UVCell(0.5, 0, 0.5, 0.5)
)

func TestStoreSpawn(t *testing.T) {
	s := NewStore()
	v0 := s.Version()

	for i := range 3 {
		idx := s.Spawn(Sprite{Position: V2(float32(i), 0)})
		if idx != i {
			t.Errorf("Spawn #%d returned index %d", i, idx)
		}
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
	if s.Version() == v0 {
		t.Error("Version did not change after Spawn")
	}
	if got := s.Snapshot().At(2).Position; got != V2(2, 0) {
		t.Errorf("sprite 2 position = %v, want (2, 0)", got)
	}
}

func TestSpawnRandomDeterministic(t *testing.T) {
	build := func() []byte {
		s := NewStore()
		s.SpawnRandom(64, 1234, V2(11, 8), []CellSpec{testCellA, testCellB}, V2(2, 2))
		s.SpawnRandom(16, 99, V2(3, 3), []CellSpec{testCellB}, V2(1, 1))
		return s.Snapshot().AppendInstances(nil)
	}

	first := build()
	for run := range 5 {
		if got := build(); !bytes.Equal(first, got) {
			t.Fatalf("run %d produced a different sprite sequence", run)
		}
	}

	other := NewStore()
	other.SpawnRandom(64, 1235, V2(11, 8), []CellSpec{testCellA, testCellB}, V2(2, 2))
	if bytes.Equal(first[:64*InstanceStride], other.Snapshot().AppendInstances(nil)) {
		t.Error("different seeds produced identical sequences")
	}
}

func TestSpawnRandomRanges(t *testing.T) {
	s := NewStore()
	half := V2(11, 8)
	speed := V2(2, 3)
	cells := []CellSpec{testCellA, testCellB}
	s.SpawnRandom(500, 7, half, cells, speed)

	if s.Count() != 500 {
		t.Fatalf("Count() = %d, want 500", s.Count())
	}

	var mirrored, cellB int
	for i, sp := range s.Snapshot().All() {
		if math32.Abs(sp.Position.X) > half.X || math32.Abs(sp.Position.Y) > half.Y {
			t.Errorf("sprite %d position %v outside %v", i, sp.Position, half)
		}
		if math32.Abs(sp.Velocity.X) > speed.X || math32.Abs(sp.Velocity.Y) > speed.Y {
			t.Errorf("sprite %d velocity %v outside %v", i, sp.Velocity, speed)
		}
		if sp.AtlasOffset != testCellA.Offset && sp.AtlasOffset != testCellB.Offset {
			t.Errorf("sprite %d has unknown cell offset %v", i, sp.AtlasOffset)
		}
		if sp.AtlasOffset == testCellB.Offset {
			cellB++
		}
		if h, _ := sp.Mirrored(); h {
			mirrored++
		}
		if math32.Abs(sp.AtlasSize.X) != 0.5 || sp.AtlasSize.Y != 0.5 {
			t.Errorf("sprite %d size %v, want (+-0.5, 0.5)", i, sp.AtlasSize)
		}
	}

	// Loose sanity bounds; exact counts depend on the generator.
	if mirrored < 150 || mirrored > 350 {
		t.Errorf("mirrored = %d of 500, expected roughly half", mirrored)
	}
	if cellB < 150 || cellB > 350 {
		t.Errorf("cell B chosen %d of 500, expected roughly half", cellB)
	}
}

func TestSpawnRandomEmptyCells(t *testing.T) {
	s := NewStore()
	s.SpawnRandom(10, 1, V2(1, 1), nil, V2(1, 1))
	for i, sp := range s.Snapshot().All() {
		if !sp.AtlasOffset.IsZero() || math32.Abs(sp.AtlasSize.X) != 0 || sp.AtlasSize.Y != 0 {
			t.Errorf("sprite %d has non-zero cell %v/%v", i, sp.AtlasOffset, sp.AtlasSize)
		}
	}
}

func TestSpawnRandomCountIncrease(t *testing.T) {
	s := NewStore()
	s.Spawn(Sprite{})
	before := s.Count()
	s.SpawnRandom(17, 5, V2(1, 1), []CellSpec{testCellA}, V2(1, 1))
	if got := s.Count() - before; got != 17 {
		t.Errorf("count increased by %d, want 17", got)
	}

	v := s.Version()
	s.SpawnRandom(0, 5, V2(1, 1), nil, V2(1, 1))
	if s.Count() != before+17 || s.Version() != v {
		t.Error("SpawnRandom(0, ...) mutated the store")
	}
}

func TestStepLinear(t *testing.T) {
	tests := []struct {
		name string
		pos  Vec2
		vel  Vec2
		dt   float32
	}{
		{"still", V2(1, 1), V2(0, 0), 0.5},
		{"positive", V2(0, 0), V2(2, 1), 1.0 / 60},
		{"negative", V2(3, -2), V2(-1.5, 0.25), 0.1},
		{"zero dt", V2(3, 4), V2(100, 100), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Spawn(Sprite{Position: tt.pos, Velocity: tt.vel})
			s.Step(tt.dt)

			got := s.Snapshot().At(0)
			want := tt.pos.Add(tt.vel.Mul(tt.dt))
			if !got.Position.Approx(want, 1e-6) {
				t.Errorf("position = %v, want %v", got.Position, want)
			}
			if got.Velocity != tt.vel {
				t.Errorf("velocity changed to %v", got.Velocity)
			}
		})
	}
}

func TestStepBoundaryWrap(t *testing.T) {
	tests := []struct {
		name    string
		pos     Vec2
		vel     Vec2
		dt      float32
		wantPos Vec2
	}{
		{"x beyond bound", V2(13, 2), V2(0, 0), 1.0 / 60, V2(0, 2)},
		{"x beyond bound large dt", V2(13, 2), V2(0, 0), 5, V2(0, 2)},
		{"negative x", V2(-13, 2), V2(0, 0), 1, V2(0, 2)},
		{"y beyond bound", V2(1, 9.5), V2(0, 0), 1, V2(1, 0)},
		{"both", V2(-12.5, -9.5), V2(0, 0), 1, V2(0, 0)},
		{"crossing during step", V2(11.9, 0), V2(1, 0), 1, V2(0, 0)},
		{"exactly on bound", V2(12, 9), V2(0, 0), 1, V2(12, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			vel := tt.vel
			s.Spawn(Sprite{Position: tt.pos, Velocity: vel})
			s.Step(tt.dt)

			got := s.Snapshot().At(0)
			if got.Position != tt.wantPos {
				t.Errorf("position = %v, want %v", got.Position, tt.wantPos)
			}
			if got.Velocity != vel {
				t.Errorf("velocity = %v, want unchanged %v", got.Velocity, vel)
			}
		})
	}
}

func TestStepCustomBounds(t *testing.T) {
	s := NewStore(WithBounds(2, 2))
	s.Spawn(Sprite{Position: V2(3, 1)})
	s.Step(0)
	if got := s.Snapshot().At(0).Position; got != V2(0, 1) {
		t.Errorf("position = %v, want (0, 1)", got)
	}
}

func TestStoreEndToEnd(t *testing.T) {
	s := NewStore()
	s.SpawnRandom(3, 42, V2(11, 8), []CellSpec{testCellA, testCellB}, V2(2, 2))
	initial := s.Snapshot().AppendTo(nil)

	const dt = float32(1.0 / 60)
	for range 10 {
		s.Step(dt)
	}

	// Max displacement is 2 * 10/60, so 11.34 < 12 and 8.34 < 9: no wrap.
	for i, sp := range s.Snapshot().All() {
		want := initial[i].Position.Add(initial[i].Velocity.Mul(10.0 / 60))
		if !sp.Position.Approx(want, 1e-5) {
			t.Errorf("sprite %d position = %v, want %v", i, sp.Position, want)
		}
		if sp.Velocity != initial[i].Velocity || sp.AtlasOffset != initial[i].AtlasOffset {
			t.Errorf("sprite %d changed non-position fields", i)
		}
	}
}

func TestSnapshotReadOnly(t *testing.T) {
	s := NewStore()
	s.Spawn(Sprite{Position: V2(1, 1)})
	view := s.Snapshot()

	s.Spawn(Sprite{Position: V2(2, 2)})
	if view.Len() != 1 {
		t.Errorf("view.Len() = %d, want 1 (appends are not observed)", view.Len())
	}

	copied := view.AppendTo(nil)
	copied[0].Position = V2(5, 5)
	if s.Snapshot().At(0).Position != V2(1, 1) {
		t.Error("modifying AppendTo result changed the store")
	}

	n := 0
	for range s.Snapshot().All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("All() did not stop after break, n = %d", n)
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.SpawnRandom(5, 1, V2(1, 1), nil, V2(1, 1))
	s.Reset()
	if s.Count() != 0 {
		t.Errorf("Count() after Reset = %d, want 0", s.Count())
	}
}

func TestSnapshotAliasing(t *testing.T) {
	s := NewStore(WithBounds(100, 100))
	s.Spawn(Sprite{Velocity: V2(1, 0)})

	view := s.Snapshot()
	s.Step(1)
	if got := view.At(0).Position.X; got != 1 {
		t.Fatalf("view before spawn: x = %v, want 1 (Step visible)", got)
	}

	// Growing well past the current capacity moves the storage.
	s.SpawnRandom(64, 1, V2(1, 1), nil, V2(0, 0))
	s.Step(1)
	if got := s.Snapshot().At(0).Position.X; got != 2 {
		t.Fatalf("store: x = %v, want 2", got)
	}
	if got := view.At(0).Position.X; got != 1 {
		t.Errorf("stale view: x = %v, want 1", got)
	}
	if view.Len() != 1 {
		t.Errorf("stale view Len() = %d, want 1", view.Len())
	}
}
