//go:build !nogpu

package gpu

import "errors"

// Renderer and device errors.
var (
	// ErrRendererDestroyed is returned by any Renderer call after Destroy.
	ErrRendererDestroyed = errors.New("gpu: renderer destroyed")

	// ErrNoAtlas is returned by DrawInstanced before SetAtlas succeeded.
	ErrNoAtlas = errors.New("gpu: no atlas texture")

	// ErrNoTarget is returned by DrawInstanced before a render target is set.
	ErrNoTarget = errors.New("gpu: no render target")

	// ErrNotOffscreen is returned by ReadPixels when the target is a surface.
	ErrNotOffscreen = errors.New("gpu: render target is not offscreen")

	// ErrTooManyInstances is returned when an upload exceeds MaxInstances.
	ErrTooManyInstances = errors.New("gpu: too many instances")

	// ErrInstanceRange is returned when a draw references more instances
	// than were uploaded, or an upload is shorter than its count.
	ErrInstanceRange = errors.New("gpu: instance count out of range")

	// ErrNoDevice is returned when no GPU device could be opened.
	ErrNoDevice = errors.New("gpu: no device")

	// ErrNilDevice is returned when a nil device or queue is supplied.
	ErrNilDevice = errors.New("gpu: nil device or queue")
)
