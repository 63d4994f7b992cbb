// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/sprites"
)

// testImage returns a 4x2 NRGBA image with a distinct color per pixel.
func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 200), B: 10, A: 0xFF})
		}
	}
	return img
}

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, testImage()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name string
		enc  func(*bytes.Buffer, image.Image) error
	}{
		{"png", func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
		{"bmp", func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(bytes.NewReader(encode(t, tt.enc)))
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if img.Width != 4 || img.Height != 2 {
				t.Fatalf("size = %dx%d, want 4x2", img.Width, img.Height)
			}
			if len(img.Pix) != 4*2*4 {
				t.Fatalf("len(Pix) = %d, want 32", len(img.Pix))
			}
			// Pixel (3, 1): R=180, G=200, B=10, A=255.
			off := (1*4 + 3) * 4
			got := img.Pix[off : off+4]
			want := []byte{180, 200, 10, 255}
			if !bytes.Equal(got, want) {
				t.Errorf("pixel (3,1) = %v, want %v", got, want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"))
	if err == nil {
		t.Fatal("Decode() = nil error for garbage input")
	}
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("Decode() = %v, want wrapped image.ErrFormat", err)
	}
}

func TestFromImageEmpty(t *testing.T) {
	_, err := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 5)))
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("FromImage(empty) = %v, want ErrEmptyImage", err)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 11))
	src.SetRGBA(11, 10, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	img, err := FromImage(src)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 2 || img.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", img.Width, img.Height)
	}
	if !bytes.Equal(img.Pix[4:8], []byte{1, 2, 3, 4}) {
		t.Errorf("pixel (1,0) = %v, want [1 2 3 4]", img.Pix[4:8])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.png")
	data := encode(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if img.Width != 4 {
		t.Errorf("Width = %d, want 4", img.Width)
	}

	_, err = Load(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestRGBASharesPixels(t *testing.T) {
	img, err := FromImage(testImage())
	if err != nil {
		t.Fatal(err)
	}
	rgba := img.RGBA()
	rgba.SetRGBA(0, 0, color.RGBA{R: 9, A: 9})
	if img.Pix[0] != 9 {
		t.Error("RGBA() does not share pixel memory")
	}
}

func TestScaled(t *testing.T) {
	img, err := NewChecker(2, 2, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	small, err := img.Scaled(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if small.Width != 4 || small.Height != 4 || len(small.Pix) != 64 {
		t.Errorf("Scaled = %dx%d (%d bytes), want 4x4 (64 bytes)", small.Width, small.Height, len(small.Pix))
	}
	if _, err := img.Scaled(0, 4); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Scaled(0, 4) = %v, want ErrEmptyImage", err)
	}
}

func TestAverage(t *testing.T) {
	img, err := NewChecker(2, 1, 4, 4)
	if err != nil {
		t.Fatal(err)
	}

	// The inner 2x2 of the second cell is solid Palette[1].
	got := img.Average(sprites.V2(5.0/8, 1.0/4), sprites.V2(2.0/8, 2.0/4))
	if got != Palette[1] {
		t.Errorf("Average(inner cell 1) = %v, want %v", got, Palette[1])
	}

	mirrored := img.Average(sprites.V2(5.0/8, 1.0/4), sprites.V2(-2.0/8, 2.0/4))
	if mirrored != got {
		t.Errorf("mirrored Average = %v, want %v", mirrored, got)
	}

	if empty := img.Average(sprites.V2(0.5, 0.5), sprites.V2(0, 0)); empty != (color.RGBA{}) {
		t.Errorf("Average(empty) = %v, want transparent", empty)
	}
}
