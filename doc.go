// Package sprites simulates a population of textured, instanced sprites and
// turns it into GPU instance data drawn with one call per frame.
//
// # Overview
//
// A [Store] owns the authoritative sprite sequence. Each frame the driver
// advances it in fixed steps, serializes it into a [Batch] and submits the
// batch through a [Drawer]:
//
//	store := sprites.NewStore()
//	store.SpawnRandom(1000, 42, sprites.V2(11, 8), cells, sprites.V2(2, 2))
//
//	batch := sprites.NewBatch(drawer)
//	clock := sprites.NewClock(time.Second / 60)
//
//	for frame := range frames {
//	    for range clock.Advance(frame) {
//	        store.Step(clock.StepSeconds())
//	    }
//	    batch.Sync(store)
//	    if err := batch.Submit(); err != nil {
//	        return err
//	    }
//	}
//
// # Instance Layout
//
// Every sprite is one 32-byte record of little-endian float32 pairs:
// position, atlas offset, atlas size and velocity. The first three feed the
// shader attributes "position", "cell" and "size"; velocity is carried but
// not bound. A negative atlas size component mirrors the sprite on that
// axis. All instances share the unit quad described by [QuadVertices] and
// [QuadIndices].
//
// # World Bounds
//
// World coordinates are centered on the origin. After each step a
// coordinate whose magnitude exceeds the bound on its axis (12 by 9 by
// default) is set to 0, so sprites leaving the world reappear on the
// center line.
//
// # GPU Rendering
//
// The package itself has no GPU dependency. The gpu sub-package provides a
// wgpu-based [Drawer] and the atlas sub-package loads texture atlases.
package sprites
