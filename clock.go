// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprites

import "time"

// DefaultStep is the fixed simulation step used when NewClock is given a
// non-positive step.
const DefaultStep = time.Second / 60

// MaxFrame caps the frame time accounted in a single Advance call, so a
// stalled frame (breakpoint, suspended window) does not trigger a burst of
// catch-up steps.
const MaxFrame = 250 * time.Millisecond

// Clock accumulates variable frame times into a whole number of fixed
// simulation steps.
//
// Typical frame driver:
//
//	for range clock.Advance(frameTime) {
//	    store.Step(clock.StepSeconds())
//	}
//	batch.Sync(store)
//	batch.Submit()
type Clock struct {
	step        time.Duration
	accumulator time.Duration
	steps       uint64
}

// NewClock creates a clock with the given fixed step.
func NewClock(step time.Duration) *Clock {
	if step <= 0 {
		step = DefaultStep
	}
	return &Clock{step: step}
}

// Advance adds frame to the accumulator and returns how many fixed steps
// are now due. Frames longer than MaxFrame count as MaxFrame; negative
// frames count as zero.
func (c *Clock) Advance(frame time.Duration) int {
	if frame > MaxFrame {
		frame = MaxFrame
	}
	if frame > 0 {
		c.accumulator += frame
	}
	n := 0
	for c.accumulator >= c.step {
		c.accumulator -= c.step
		n++
	}
	c.steps += uint64(n)
	return n
}

// Alpha returns the fraction of a step left in the accumulator, in [0, 1).
func (c *Clock) Alpha() float64 {
	return float64(c.accumulator) / float64(c.step)
}

// Step returns the fixed step duration.
func (c *Clock) Step() time.Duration {
	return c.step
}

// StepSeconds returns the fixed step in seconds, ready for Store.Step.
func (c *Clock) StepSeconds() float32 {
	return float32(c.step.Seconds())
}

// Steps returns the total number of steps returned by Advance.
func (c *Clock) Steps() uint64 {
	return c.steps
}

// Elapsed returns the simulated time covered by all steps so far.
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.steps) * c.step
}
