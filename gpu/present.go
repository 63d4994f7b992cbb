//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Presenter errors.
var (
	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("gpu: drawer has no texture creator")

	// ErrFrameSize is returned when the pixel data does not match the size.
	ErrFrameSize = errors.New("gpu: frame size mismatch")
)

// textureDestroyer is implemented by textures that hold GPU memory.
type textureDestroyer interface {
	Destroy()
}

// Presenter shows rendered RGBA frames through a gpucontext.TextureDrawer,
// such as the one returned by gogpu.Context.AsTextureDrawer. The texture is
// created on first use, updated in place on later frames and recreated
// when the frame size changes.
//
// Presenter is not safe for concurrent use.
type Presenter struct {
	tex    gpucontext.Texture
	width  int
	height int
	frames uint64
}

// Present uploads pixels (width*height*4 bytes, RGBA) and draws them at the
// top-left corner of the drawer's target.
func (p *Presenter) Present(drawer gpucontext.TextureDrawer, width, height int, pixels []byte) error {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrFrameSize, width, height, len(pixels))
	}

	if p.tex == nil || p.width != width || p.height != height {
		creator := drawer.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(width, height, pixels)
		if err != nil {
			return fmt.Errorf("gpu: create frame texture: %w", err)
		}
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		// Creation waits for the GPU, so the old texture is no longer in use.
		p.release()
		p.tex, p.width, p.height = tex, width, height
	} else if updater, ok := p.tex.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(pixels); err != nil {
			return fmt.Errorf("gpu: update frame texture: %w", err)
		}
	}

	p.frames++
	return drawer.DrawTexture(p.tex, 0, 0)
}

// Frames returns the number of frames presented.
func (p *Presenter) Frames() uint64 {
	return p.frames
}

// Close destroys the frame texture. Safe to call multiple times.
func (p *Presenter) Close() {
	p.release()
	p.width, p.height = 0, 0
}

func (p *Presenter) release() {
	if p.tex == nil {
		return
	}
	if d, ok := p.tex.(textureDestroyer); ok {
		d.Destroy()
	}
	p.tex = nil
}
