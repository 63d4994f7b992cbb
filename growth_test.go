// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import (
	"bytes"
	"testing"
)

func TestGrowthScheduleDisabled(t *testing.T) {
	s := NewStore()
	for i := range 10 {
		if n := s.GrowthSchedule(float64(i)); n != 0 {
			t.Fatalf("GrowthSchedule returned %d with growth disabled", n)
		}
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if s.LastGrowth() != 9 {
		t.Errorf("LastGrowth() = %v, want 9", s.LastGrowth())
	}
}

func TestGrowthScheduleFractionalCarry(t *testing.T) {
	s := NewStore(WithGrowth(GrowthConfig{
		Increment:  0.25,
		Seed:       3,
		HalfExtent: V2(5, 5),
		Cells:      []CellSpec{testCellA},
		Speed:      V2(1, 1),
	}))

	want := []uint32{0, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := s.GrowthSchedule(float64(i) / 60); got != w {
			t.Errorf("call %d: GrowthSchedule = %d, want %d", i, got, w)
		}
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	if s.GrowthAccumulator() != 0 {
		t.Errorf("GrowthAccumulator() = %v, want 0", s.GrowthAccumulator())
	}
}

func TestGrowthScheduleFollowsCallCount(t *testing.T) {
	cfg := GrowthConfig{Increment: 1.5, Seed: 11, HalfExtent: V2(1, 1), Speed: V2(1, 1)}

	// The same number of calls yields the same population, whatever the
	// elapsed time passed in.
	a := NewStore(WithGrowth(cfg))
	b := NewStore(WithGrowth(cfg))
	var totalA, totalB uint32
	for i := range 20 {
		totalA += a.GrowthSchedule(float64(i) * 0.001)
		totalB += b.GrowthSchedule(float64(i) * 10)
	}
	if totalA != 30 || totalB != 30 {
		t.Errorf("totals = %d, %d, want 30", totalA, totalB)
	}
	if !bytes.Equal(a.Snapshot().AppendInstances(nil), b.Snapshot().AppendInstances(nil)) {
		t.Error("grown sprites differ for identical seeds and call counts")
	}
}

func TestGrowthScheduleCapsLargeIncrement(t *testing.T) {
	const inc = 1<<32 + 3
	s := NewStore(WithGrowth(GrowthConfig{Increment: inc, Seed: 1, HalfExtent: V2(1, 1), Speed: V2(1, 1)}))

	n := s.GrowthSchedule(0)
	if n != MaxGrowthPerCall {
		t.Fatalf("GrowthSchedule = %d, want %d", n, MaxGrowthPerCall)
	}
	if s.Count() != MaxGrowthPerCall {
		t.Errorf("Count() = %d, want %d", s.Count(), MaxGrowthPerCall)
	}
	if got, want := s.GrowthAccumulator(), float64(inc-MaxGrowthPerCall); got != want {
		t.Errorf("GrowthAccumulator() = %v, want %v", got, want)
	}
}
