// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/sprites"
)

// Errors returned by the atlas loaders.
var (
	// ErrEmptyImage is returned when a decoded image has no pixels.
	ErrEmptyImage = errors.New("atlas: image has zero width or height")

	// ErrInvalidGrid is returned by NewChecker for non-positive dimensions.
	ErrInvalidGrid = errors.New("atlas: grid dimensions must be positive")
)

// Image is a decoded atlas in premultiplied RGBA8, 4 bytes per pixel,
// rows packed without padding.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Load opens and decodes the atlas image at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("atlas: open: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return img, nil
}

// Decode reads an atlas image in any registered format.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("atlas: decode: %w", err)
	}
	img, err := FromImage(src)
	if err != nil {
		return nil, err
	}
	sprites.Logger().Debug("atlas: decoded",
		"format", format,
		"width", img.Width,
		"height", img.Height)
	return img, nil
}

// FromImage converts any image to an atlas Image. The source origin is
// moved to (0, 0).
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}, nil
}

// RGBA returns the atlas as an *image.RGBA sharing its pixel memory.
func (img *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    img.Pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Scaled returns a copy of the atlas resampled to width x height with a
// Catmull-Rom filter.
func (img *Image) Scaled(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img.RGBA(), image.Rect(0, 0, img.Width, img.Height), xdraw.Src, nil)
	return &Image{Width: width, Height: height, Pix: dst.Pix}, nil
}

// Average returns the mean premultiplied color of the atlas region covered
// by cell. Mirrored (negative) sizes cover the same region as their
// magnitude. An empty region yields transparent black.
func (img *Image) Average(offset, size sprites.Vec2) color.RGBA {
	size = size.Abs()
	x0 := clampPixel(offset.X*float32(img.Width), img.Width)
	y0 := clampPixel(offset.Y*float32(img.Height), img.Height)
	x1 := clampPixel((offset.X+size.X)*float32(img.Width), img.Width)
	y1 := clampPixel((offset.Y+size.Y)*float32(img.Height), img.Height)
	if x1 <= x0 || y1 <= y0 {
		return color.RGBA{}
	}

	var r, g, b, a, n uint64
	stride := img.Width * 4
	for y := y0; y < y1; y++ {
		row := img.Pix[y*stride:]
		for x := x0; x < x1; x++ {
			p := row[x*4 : x*4+4]
			r += uint64(p[0])
			g += uint64(p[1])
			b += uint64(p[2])
			a += uint64(p[3])
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}

func clampPixel(v float32, limit int) int {
	switch {
	case v <= 0:
		return 0
	case int(v) >= limit:
		return limit
	default:
		return int(v)
	}
}
