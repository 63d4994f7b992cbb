//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is an open HAL device and its queue. A Device opened by this
// package owns the instance and device; one obtained from a provider only
// borrows them.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Name   string

	instance hal.Instance
	external bool
}

// OpenDevice opens a device on the Vulkan backend.
func OpenDevice() (*Device, error) {
	return OpenBackend(gputypes.BackendVulkan)
}

// OpenBackend opens a device on a registered backend, preferring a
// discrete or integrated GPU over software adapters.
func OpenBackend(variant gputypes.Backend) (*Device, error) {
	backend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: backend %v not available", ErrNoDevice, variant)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoDevice, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrNoDevice)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrNoDevice, err)
	}
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name, "backend", variant)
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
	}, nil
}

// DeviceFromProvider borrows the device and queue of a host application,
// such as a gogpu window. The provider must expose HalDevice and HalQueue
// returning hal.Device and hal.Queue.
func DeviceFromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}
	slogger().Info("gpu: using shared device")
	return &Device{Device: device, Queue: queue, Name: "shared", external: true}, nil
}

// External reports whether the device is borrowed from a provider.
func (d *Device) External() bool {
	return d.external
}

// Close destroys an owned device and its instance. Borrowed devices are
// left to their owner. Close is idempotent.
func (d *Device) Close() {
	if d.external {
		d.Device, d.Queue = nil, nil
		return
	}
	if d.Device != nil {
		_ = d.Device.WaitIdle()
		d.Device.Destroy()
		d.Device, d.Queue = nil, nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
