//go:build !nogpu

// Package gpu draws a sprites.Store on the GPU.
//
// A Renderer implements sprites.Drawer, so it plugs straight into a
// sprites.Batch:
//
//	r, err := gpu.NewRenderer(gpu.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Destroy()
//
//	r.SetAtlas(img)
//	r.SetOffscreenTarget(800, 600)
//
//	batch := sprites.NewBatch(r)
//	batch.Sync(store)
//	batch.Submit()
//
// NewRenderer opens its own Vulkan device. Inside a gogpu window use
// NewRendererWithProvider to share the window's device instead.
package gpu

import (
	"log/slog"

	"github.com/gogpu/sprites"
	gpuimpl "github.com/gogpu/sprites/internal/gpu"
)

// Config holds configuration for creating a Renderer.
type Config = gpuimpl.Config

// ShaderError reports a shader that failed to compile, with the complete
// compiler log.
type ShaderError = gpuimpl.ShaderError

// Shader is a validated WGSL shader. Set Config.Shader to replace the
// built-in sprite shader.
type Shader = gpuimpl.Shader

// Errors returned by Renderer.
var (
	ErrRendererDestroyed = gpuimpl.ErrRendererDestroyed
	ErrNoAtlas           = gpuimpl.ErrNoAtlas
	ErrNoTarget          = gpuimpl.ErrNoTarget
	ErrNotOffscreen      = gpuimpl.ErrNotOffscreen
	ErrTooManyInstances  = gpuimpl.ErrTooManyInstances
	ErrInstanceRange     = gpuimpl.ErrInstanceRange
	ErrNoDevice          = gpuimpl.ErrNoDevice
)

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return gpuimpl.DefaultConfig()
}

// LoadShader reads and validates a WGSL shader file.
func LoadShader(path string) (*Shader, error) {
	return gpuimpl.LoadShader(path)
}

// CompileShader validates WGSL source.
func CompileShader(label, source string) (*Shader, error) {
	return gpuimpl.CompileShader(label, source)
}

// Renderer draws instanced sprites. It embeds the binding-layer renderer
// and additionally owns, or borrows, the device it runs on.
type Renderer struct {
	*gpuimpl.Renderer
	device *gpuimpl.Device
}

// NewRenderer opens a Vulkan device and creates a renderer on it. The
// device is closed by Destroy.
func NewRenderer(cfg Config) (*Renderer, error) {
	dev, err := gpuimpl.OpenDevice()
	if err != nil {
		return nil, err
	}
	return newRenderer(dev, cfg)
}

// NewRendererWithProvider creates a renderer on the device of a host
// application, typically gogpu.App.GPUContextProvider(). The provider must
// expose HalDevice and HalQueue. The shared device is not closed by Destroy.
func NewRendererWithProvider(provider any, cfg Config) (*Renderer, error) {
	dev, err := gpuimpl.DeviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return newRenderer(dev, cfg)
}

func newRenderer(dev *gpuimpl.Device, cfg Config) (*Renderer, error) {
	r, err := gpuimpl.NewRenderer(dev.Device, dev.Queue, cfg)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return &Renderer{Renderer: r, device: dev}, nil
}

// AdapterName returns the name of the GPU adapter, or "shared" for a
// provider device.
func (r *Renderer) AdapterName() string {
	return r.device.Name
}

// Destroy releases all GPU resources and closes an owned device. Safe to
// call multiple times.
func (r *Renderer) Destroy() {
	r.Renderer.Destroy()
	r.device.Close()
}

// SetLogger configures logging for the sprites core and the GPU layer.
// Pass nil to silence both.
func SetLogger(l *slog.Logger) {
	sprites.SetLogger(l)
	gpuimpl.SetLogger(l)
}

var _ sprites.Drawer = (*Renderer)(nil)
