//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend exposes no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestOpenBackendNoop(t *testing.T) {
	dev, err := OpenBackend(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenBackend(empty): %v", err)
	}
	if dev.Device == nil || dev.Queue == nil {
		t.Fatal("expected device and queue")
	}
	if dev.External() {
		t.Error("opened device should be owned")
	}
	dev.Close()
	dev.Close() // idempotent
	if dev.Device != nil {
		t.Error("Close should clear the device")
	}
}

type fakeProvider struct {
	device any
	queue  any
}

func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

func TestDeviceFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	dev, err := DeviceFromProvider(fakeProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("DeviceFromProvider: %v", err)
	}
	if !dev.External() {
		t.Error("provider device should be external")
	}
	if dev.Device != device || dev.Queue != queue {
		t.Error("provider handles not kept")
	}
	dev.Close()

	// The borrowed device must still work after Close.
	if _, err := device.CreateBuffer(&hal.BufferDescriptor{Size: 16}); err != nil {
		t.Errorf("borrowed device unusable after Close: %v", err)
	}
}

func TestDeviceFromProviderErrors(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider any
	}{
		{"not a provider", struct{}{}},
		{"nil provider", nil},
		{"wrong device type", fakeProvider{device: "device", queue: nil}},
		{"missing queue", fakeProvider{device: device, queue: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeviceFromProvider(tt.provider)
			if !errors.Is(err, ErrNoDevice) {
				t.Errorf("err = %v, want ErrNoDevice", err)
			}
		})
	}
}
