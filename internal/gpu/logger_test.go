//go:build !nogpu

package gpu

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	if _, err := CompileShader("sprite.wgsl", SpriteShaderSource()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "gpu: shader compiled") {
		t.Errorf("expected compile log, got:\n%s", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	if _, err := CompileShader("sprite.wgsl", SpriteShaderSource()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("nil logger should be silent, got:\n%s", buf.String())
	}
	if slogger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestRendererSetLogger(t *testing.T) {
	defer SetLogger(nil)

	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	r, err := NewRenderer(device, queue, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r.SetLogger(l)
	if slogger() != l {
		t.Error("Renderer.SetLogger did not update the package logger")
	}
}
