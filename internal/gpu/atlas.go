//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sprites/atlas"
)

// atlasTexture is the sampled RGBA8 texture holding the sprite atlas.
type atlasTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// uploadAtlas writes img into t, recreating the texture when the size
// changed. On failure t is left empty.
func uploadAtlas(device hal.Device, queue hal.Queue, t *atlasTexture, img *atlas.Image) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return atlas.ErrEmptyImage
	}
	w := uint32(img.Width)  //nolint:gosec // checked positive above
	h := uint32(img.Height) //nolint:gosec // checked positive above
	if len(img.Pix) < int(w*h*4) {
		return fmt.Errorf("gpu: atlas has %d bytes, want %d", len(img.Pix), w*h*4)
	}

	if t.tex == nil || t.width != w || t.height != h {
		t.destroy(device)
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "sprite_atlas",
			Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create atlas texture: %w", err)
		}
		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "sprite_atlas_view",
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			device.DestroyTexture(tex)
			return fmt.Errorf("create atlas texture view: %w", err)
		}
		t.tex, t.view, t.width, t.height = tex, view, w, h
	}

	err := queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		img.Pix[:w*h*4],
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		t.destroy(device)
		return fmt.Errorf("upload atlas texture: %w", err)
	}
	return nil
}

// destroy releases the texture and its view.
func (t *atlasTexture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
	t.width, t.height = 0, 0
}
