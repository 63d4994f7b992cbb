//go:build !nogpu

// Package gpu is the GPU binding layer of the sprites module.
//
// It draws every sprite of a store with a single instanced, indexed draw of
// a unit quad, using the gogpu/wgpu HAL (Vulkan on desktop, noop in tests).
//
// # Architecture Overview
//
//	sprites.Batch -> Renderer.UploadInstances -> instance buffer (slot 1)
//	              -> Renderer.DrawInstanced   -> clear + DrawIndexed(6, n)
//
// Key components:
//
//   - Shader: WGSL source validated and translated to SPIR-V with naga.
//     Failures return *ShaderError carrying every diagnostic.
//   - SpritePipeline: shader module, bind group layout, pipeline layout,
//     render pipeline and sampler. Rebuilt when the target format changes.
//   - Renderer: quad buffers, growable instance buffer, view uniform, atlas
//     texture and render target. Implements sprites.Drawer.
//   - Device: an owned Vulkan device (OpenDevice) or one borrowed from a
//     host window (DeviceFromProvider).
//
// # Vertex Layout
//
// Slot 0 holds the four quad corners in [0,1]^2, stepped per vertex. Slot 1
// holds one 32-byte record per sprite, stepped per instance: position,
// atlas cell offset and atlas cell size, each two float32. The trailing
// velocity pair is carried in the record but not bound.
//
// # Resource Ownership
//
// Every object a Renderer or SpritePipeline creates is released by its
// Destroy method, and any constructor that fails part-way releases what it
// created before returning. Devices obtained from a provider are never
// destroyed here.
//
// # Logging
//
// The package logs through log/slog and is silent by default. Use
// SetLogger, or the public gpu.SetLogger, to enable output.
package gpu
