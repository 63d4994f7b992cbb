//go:build !nogpu

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// renderTarget is the color attachment sprites are drawn into. A surface
// target borrows the view of a window swapchain image; an offscreen target
// owns its texture and can be read back.
type renderTarget struct {
	view   hal.TextureView
	tex    hal.Texture // nil for surface targets
	width  uint32
	height uint32
	format gputypes.TextureFormat
}

// offscreen reports whether the target owns a readable texture.
func (t *renderTarget) offscreen() bool {
	return t.tex != nil
}

// valid reports whether the target can be drawn into.
func (t *renderTarget) valid() bool {
	return t.view != nil && t.width > 0 && t.height > 0
}

// createOffscreenTarget creates an RGBA8 texture usable as a color
// attachment and as a copy source.
func createOffscreenTarget(device hal.Device, width, height uint32) (renderTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_offscreen",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return renderTarget{}, fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "sprite_offscreen_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return renderTarget{}, fmt.Errorf("create offscreen texture view: %w", err)
	}
	return renderTarget{
		view:   view,
		tex:    tex,
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// destroy releases an owned texture. Surface views belong to the swapchain
// and are only forgotten.
func (t *renderTarget) destroy(device hal.Device) {
	if t.tex != nil {
		if t.view != nil {
			device.DestroyTextureView(t.view)
		}
		device.DestroyTexture(t.tex)
	}
	*t = renderTarget{}
}

// alignedBytesPerRow returns width*4 rounded up to copyRowAlignment.
func alignedBytesPerRow(width uint32) uint32 {
	row := width * 4
	return (row + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

// readTarget copies an offscreen target into a staging buffer, waits for
// the GPU and returns tightly packed RGBA8 rows.
func readTarget(device hal.Device, queue hal.Queue, t *renderTarget) ([]byte, error) {
	paddedRow := alignedBytesPerRow(t.width)
	size := uint64(paddedRow) * uint64(t.height)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "sprite_readback"})
	if err != nil {
		return nil, fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sprite_readback"); err != nil {
		return nil, fmt.Errorf("begin readback encoding: %w", err)
	}

	colorRange := hal.TextureRange{Aspect: gputypes.TextureAspectAll, MipLevelCount: 1, ArrayLayerCount: 1}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   colorRange,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: paddedRow, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   colorRange,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end readback encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmd)

	if _, err := queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return nil, fmt.Errorf("submit readback: %w", err)
	}
	if err := device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wait for readback: %w", err)
	}

	mapping, err := device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	padded := make([]byte, size)
	copy(padded, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap readback buffer: %w", err)
	}

	row := t.width * 4
	if row == paddedRow {
		return padded, nil
	}
	pixels := make([]byte, int(row)*int(t.height))
	for y := uint32(0); y < t.height; y++ {
		copy(pixels[y*row:(y+1)*row], padded[y*paddedRow:y*paddedRow+row])
	}
	return pixels, nil
}
