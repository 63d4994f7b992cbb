//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprites"
	"github.com/gogpu/sprites/atlas"
)

// Config holds configuration for creating a Renderer.
type Config struct {
	// Bounds is the world half extent mapped to the edges of the target.
	// A sprite at (Bounds.X, 0) is drawn on the right edge.
	Bounds sprites.Vec2

	// SpriteSize is the world size of one sprite quad.
	SpriteSize sprites.Vec2

	// ClearColor fills the target before sprites are drawn.
	ClearColor gputypes.Color

	// Filter is the atlas sampling filter.
	Filter gputypes.FilterMode

	// InitialCapacity is the instance buffer size in sprites. The buffer
	// doubles on demand up to MaxInstances.
	InitialCapacity int

	// MaxInstances is the largest instance count UploadInstances accepts.
	MaxInstances int

	// Shader overrides the built-in sprite shader. It must keep the vertex
	// inputs and bindings of the built-in one.
	Shader *Shader
}

// DefaultConfig returns the configuration used by the demos: a 12x9 world
// half extent, unit sprites and linear filtering.
func DefaultConfig() Config {
	return Config{
		Bounds:          sprites.V2(sprites.DefaultBoundX, sprites.DefaultBoundY),
		SpriteSize:      sprites.V2(1, 1),
		ClearColor:      gputypes.Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
		Filter:          gputypes.FilterModeLinear,
		InitialCapacity: 1024,
		MaxInstances:    1 << 20,
	}
}

// normalize fills zero fields with defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Bounds.X <= 0 || c.Bounds.Y <= 0 {
		c.Bounds = def.Bounds
	}
	if c.SpriteSize.X <= 0 || c.SpriteSize.Y <= 0 {
		c.SpriteSize = def.SpriteSize
	}
	if c.Filter == gputypes.FilterModeUndefined {
		c.Filter = def.Filter
	}
	if c.MaxInstances <= 0 {
		c.MaxInstances = def.MaxInstances
	}
	if c.InitialCapacity <= 0 {
		c.InitialCapacity = def.InitialCapacity
	}
	if c.InitialCapacity > c.MaxInstances {
		c.InitialCapacity = c.MaxInstances
	}
	return c
}

// pendingSubmit is a command buffer the GPU may still be executing.
type pendingSubmit struct {
	cmd   hal.CommandBuffer
	index uint64
}

// Renderer draws instanced sprites with one indexed draw per frame. It
// implements sprites.Drawer.
//
// Renderer owns every GPU object it creates: the pipeline, quad and
// instance buffers, the view uniform, the bind group, the atlas texture and
// an offscreen target when one is used. Destroy releases all of them.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	pipeline *SpritePipeline

	quadVertices hal.Buffer
	quadIndices  hal.Buffer
	uniform      hal.Buffer

	instances        hal.Buffer
	instanceCapacity int
	instanceCount    uint32

	bindGroup hal.BindGroup
	bindDirty bool

	atlas  atlasTexture
	target renderTarget

	pending   []pendingSubmit
	destroyed bool
}

// NewRenderer creates a renderer on device and queue. Static buffers are
// created immediately; the pipeline is built on the first draw. On failure
// everything created so far is released.
func NewRenderer(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	cfg = cfg.normalize()
	r := &Renderer{
		device:   device,
		queue:    queue,
		cfg:      cfg,
		pipeline: NewSpritePipeline(device, cfg.Shader, cfg.Filter),
	}
	if err := r.createStaticBuffers(); err != nil {
		r.destroyResources()
		return nil, err
	}
	if err := r.createInstanceBuffer(cfg.InitialCapacity); err != nil {
		r.destroyResources()
		return nil, err
	}
	slogger().Debug("gpu: renderer created",
		"capacity", cfg.InitialCapacity,
		"max_instances", cfg.MaxInstances,
	)
	return r, nil
}

// SetLogger sets the logger for the gpu package. It has the same effect as
// the package-level SetLogger and lets a sprites.Batch propagate its logger.
func (r *Renderer) SetLogger(l *slog.Logger) {
	SetLogger(l)
}

// Config returns the normalized configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// InstanceCapacity returns the current instance buffer size in sprites.
func (r *Renderer) InstanceCapacity() int {
	return r.instanceCapacity
}

// createStaticBuffers creates the quad and uniform buffers and uploads the
// quad geometry.
func (r *Renderer) createStaticBuffers() error {
	vertexBytes := sprites.QuadVertexBytes()
	indexBytes := sprites.QuadIndexBytes()

	vb, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_quad_vertices",
		Size:  uint64(len(vertexBytes)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad vertex buffer: %w", err)
	}
	r.quadVertices = vb

	ib, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_quad_indices",
		Size:  uint64(len(indexBytes)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad index buffer: %w", err)
	}
	r.quadIndices = ib

	ub, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_view_uniform",
		Size:  viewUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create view uniform buffer: %w", err)
	}
	r.uniform = ub

	if err := r.queue.WriteBuffer(r.quadVertices, 0, vertexBytes); err != nil {
		return fmt.Errorf("upload quad vertices: %w", err)
	}
	if err := r.queue.WriteBuffer(r.quadIndices, 0, indexBytes); err != nil {
		return fmt.Errorf("upload quad indices: %w", err)
	}
	return nil
}

// createInstanceBuffer replaces the instance buffer with one holding
// capacity sprites.
func (r *Renderer) createInstanceBuffer(capacity int) error {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_instances",
		Size:  uint64(capacity) * sprites.InstanceStride, //nolint:gosec // capacity bounded by MaxInstances
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create instance buffer: %w", err)
	}
	if r.instances != nil {
		// The old buffer may still be read by a submitted frame.
		r.waitPending()
		r.device.DestroyBuffer(r.instances)
	}
	r.instances = buf
	r.instanceCapacity = capacity
	return nil
}

// SetAtlas uploads img as the atlas texture. The texture is recreated when
// the image size changes.
func (r *Renderer) SetAtlas(img *atlas.Image) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if img == nil {
		return atlas.ErrEmptyImage
	}
	if r.atlas.tex != nil && (uint32(img.Width) != r.atlas.width || uint32(img.Height) != r.atlas.height) { //nolint:gosec // validated in uploadAtlas
		// The bind group references the old view.
		r.waitPending()
		r.destroyBindGroup()
	}
	if err := uploadAtlas(r.device, r.queue, &r.atlas, img); err != nil {
		r.destroyBindGroup()
		return err
	}
	r.bindDirty = true
	slogger().Debug("gpu: atlas uploaded", "width", img.Width, "height", img.Height)
	return nil
}

// SetSurfaceTarget draws subsequent frames into a view owned by the caller,
// typically the current swapchain image of a window.
func (r *Renderer) SetSurfaceTarget(view hal.TextureView, format gputypes.TextureFormat, width, height uint32) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if view == nil || width == 0 || height == 0 {
		return ErrNoTarget
	}
	if r.target.offscreen() {
		r.waitPending()
	}
	r.target.destroy(r.device)
	r.target = renderTarget{view: view, width: width, height: height, format: format}
	return nil
}

// SetOffscreenTarget draws subsequent frames into an owned RGBA8 texture
// that can be read back with ReadPixels. An existing offscreen target of
// the same size is reused.
func (r *Renderer) SetOffscreenTarget(width, height uint32) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if width == 0 || height == 0 {
		return ErrNoTarget
	}
	if r.target.offscreen() && r.target.width == width && r.target.height == height {
		return nil
	}
	t, err := createOffscreenTarget(r.device, width, height)
	if err != nil {
		return err
	}
	if r.target.offscreen() {
		r.waitPending()
	}
	r.target.destroy(r.device)
	r.target = t
	return nil
}

// UploadInstances replaces the instance buffer contents with count records
// from data. The buffer grows by doubling when count exceeds its capacity.
func (r *Renderer) UploadInstances(data []byte, count uint32) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	n := int(count)
	if n > r.cfg.MaxInstances {
		return fmt.Errorf("%w: %d > %d", ErrTooManyInstances, n, r.cfg.MaxInstances)
	}
	size := n * sprites.InstanceStride
	if len(data) < size {
		return fmt.Errorf("%w: %d bytes for %d instances", ErrInstanceRange, len(data), n)
	}
	if n > r.instanceCapacity {
		capacity := r.instanceCapacity
		for capacity < n {
			capacity *= 2
		}
		if capacity > r.cfg.MaxInstances {
			capacity = r.cfg.MaxInstances
		}
		if err := r.createInstanceBuffer(capacity); err != nil {
			return err
		}
		slogger().Debug("gpu: instance buffer grown", "capacity", capacity)
	}
	if size > 0 {
		if err := r.queue.WriteBuffer(r.instances, 0, data[:size]); err != nil {
			return fmt.Errorf("write instance buffer: %w", err)
		}
	}
	r.instanceCount = count
	return nil
}

// DrawInstanced records and submits one frame: a clear of the target and,
// when instanceCount is positive, one indexed draw of the quad for
// instanceCount instances.
func (r *Renderer) DrawInstanced(indexCount, instanceCount uint32) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if r.atlas.view == nil {
		return ErrNoAtlas
	}
	if !r.target.valid() {
		return ErrNoTarget
	}
	if instanceCount > r.instanceCount {
		return fmt.Errorf("%w: draw %d, uploaded %d", ErrInstanceRange, instanceCount, r.instanceCount)
	}
	if indexCount > sprites.QuadIndexCount {
		indexCount = sprites.QuadIndexCount
	}

	r.reclaim()
	if err := r.pipeline.ensurePipeline(r.target.format); err != nil {
		return err
	}
	if err := r.ensureBindGroup(); err != nil {
		return err
	}
	if err := r.queue.WriteBuffer(r.uniform, 0, r.viewUniform()); err != nil {
		return fmt.Errorf("write view uniform: %w", err)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "sprite_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sprite_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "sprite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.target.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.cfg.ClearColor,
		}},
	})
	if indexCount > 0 && instanceCount > 0 {
		pass.SetPipeline(r.pipeline.pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.SetVertexBuffer(0, r.quadVertices, 0)
		pass.SetVertexBuffer(1, r.instances, 0)
		pass.SetIndexBuffer(r.quadIndices, gputypes.IndexFormatUint16, 0)
		pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
	}
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	index, err := r.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		r.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit frame: %w", err)
	}
	r.pending = append(r.pending, pendingSubmit{cmd: cmd, index: index})
	return nil
}

// ReadPixels waits for submitted frames and returns the offscreen target as
// tightly packed RGBA8 rows, top row first.
func (r *Renderer) ReadPixels() ([]byte, error) {
	if r.destroyed {
		return nil, ErrRendererDestroyed
	}
	if !r.target.offscreen() {
		return nil, ErrNotOffscreen
	}
	pixels, err := readTarget(r.device, r.queue, &r.target)
	if err != nil {
		return nil, err
	}
	r.reclaim()
	return pixels, nil
}

// TargetSize returns the size of the current render target.
func (r *Renderer) TargetSize() (width, height uint32) {
	return r.target.width, r.target.height
}

// viewUniform encodes the View uniform: world-to-clip scale and offset
// followed by the sprite quad size.
func (r *Renderer) viewUniform() []byte {
	vals := [8]float32{
		1 / r.cfg.Bounds.X, 1 / r.cfg.Bounds.Y, 0, 0,
		r.cfg.SpriteSize.X, r.cfg.SpriteSize.Y, 0, 0,
	}
	buf := make([]byte, viewUniformSize)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// ensureBindGroup (re)creates the bind group after the atlas changed.
func (r *Renderer) ensureBindGroup() error {
	if r.bindGroup != nil && !r.bindDirty {
		return nil
	}
	r.destroyBindGroup()
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_bind_group",
		Layout: r.pipeline.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: bindingView, Resource: gputypes.BufferBinding{
				Buffer: r.uniform.NativeHandle(),
				Size:   viewUniformSize,
			}},
			{Binding: bindingTexture, Resource: gputypes.TextureViewBinding{
				TextureView: r.atlas.view.NativeHandle(),
			}},
			{Binding: bindingSampler, Resource: gputypes.SamplerBinding{
				Sampler: r.pipeline.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind group: %w", err)
	}
	r.bindGroup = bg
	r.bindDirty = false
	return nil
}

func (r *Renderer) destroyBindGroup() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
}

// reclaim frees command buffers of completed submissions.
func (r *Renderer) reclaim() {
	if len(r.pending) == 0 {
		return
	}
	done := r.queue.PollCompleted()
	kept := r.pending[:0]
	for _, p := range r.pending {
		if p.index <= done {
			r.device.FreeCommandBuffer(p.cmd)
			continue
		}
		kept = append(kept, p)
	}
	r.pending = kept
}

// waitPending blocks until the GPU is idle and frees all pending command
// buffers.
func (r *Renderer) waitPending() {
	if len(r.pending) == 0 {
		return
	}
	if err := r.device.WaitIdle(); err != nil {
		slogger().Warn("gpu: wait idle failed", "err", err)
	}
	for _, p := range r.pending {
		r.device.FreeCommandBuffer(p.cmd)
	}
	r.pending = r.pending[:0]
}

// Destroy waits for submitted frames and releases every GPU object owned
// by the renderer. The device itself is not destroyed. Safe to call
// multiple times.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.waitPending()
	r.destroyResources()
	slogger().Debug("gpu: renderer destroyed")
}

// destroyResources releases resources in reverse creation order.
func (r *Renderer) destroyResources() {
	r.destroyBindGroup()
	r.target.destroy(r.device)
	r.atlas.destroy(r.device)
	if r.instances != nil {
		r.device.DestroyBuffer(r.instances)
		r.instances = nil
		r.instanceCapacity = 0
		r.instanceCount = 0
	}
	if r.uniform != nil {
		r.device.DestroyBuffer(r.uniform)
		r.uniform = nil
	}
	if r.quadIndices != nil {
		r.device.DestroyBuffer(r.quadIndices)
		r.quadIndices = nil
	}
	if r.quadVertices != nil {
		r.device.DestroyBuffer(r.quadVertices)
		r.quadVertices = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
	}
}

// Compile-time interface check.
var _ sprites.Drawer = (*Renderer)(nil)
