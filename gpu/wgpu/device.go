// Package wgpu implements the gpu.Adapter seam on gogpu/wgpu's HAL layer.
//
// A Device is obtained either standalone (NewDevice creates a Vulkan
// instance and opens the best adapter it finds) or from a host
// application that already owns one (FromProvider, following the
// gpucontext HalProvider convention). The terminal then uploads its glyph
// atlas and records draws through hal without caring which path produced
// the device.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/term/internal/logx"
)

// Device errors.
var (
	// ErrNoBackend is returned when no supported GPU backend is compiled in.
	ErrNoBackend = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when the instance exposes no GPU adapters.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")
)

// Device bundles the HAL device and queue the terminal renders with.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// owns is set when the device was created standalone and must be
	// destroyed on Close. Shared devices belong to the host.
	owns bool
}

// NewDevice creates a standalone device: Vulkan instance, best available
// adapter (discrete preferred, then integrated), default limits. Failure
// here means the terminal cannot render; callers treat it as fatal.
func NewDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	logx.Logger().Info("wgpu: GPU initialized", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owns:     true,
	}, nil
}

// FromProvider adopts a shared device from a host application. The
// provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue (the gpucontext HalProvider convention).
// The returned Device does not own the underlying resources.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}
	logx.Logger().Debug("wgpu: using shared GPU device")
	return &Device{device: device, queue: queue}, nil
}

// FromDeviceProvider adopts the device of a gpucontext host (a gogpu
// application window, typically). The provider's Device and Queue must
// be HAL-backed: either hal.Device/hal.Queue directly or wrappers
// exposing them through the HalProvider convention.
func FromDeviceProvider(p gpucontext.DeviceProvider) (*Device, error) {
	device, ok := asHalDevice(p.Device())
	if !ok {
		return nil, errors.New("wgpu: gpucontext device is not HAL-backed")
	}
	queue, ok := asHalQueue(p.Queue())
	if !ok {
		return nil, errors.New("wgpu: gpucontext queue is not HAL-backed")
	}
	logx.Logger().Debug("wgpu: using gpucontext device")
	return &Device{device: device, queue: queue}, nil
}

func asHalDevice(v any) (hal.Device, bool) {
	if d, ok := v.(hal.Device); ok {
		return d, true
	}
	if hp, ok := v.(interface{ HalDevice() any }); ok {
		d, ok := hp.HalDevice().(hal.Device)
		return d, ok && d != nil
	}
	return nil, false
}

func asHalQueue(v any) (hal.Queue, bool) {
	if q, ok := v.(hal.Queue); ok {
		return q, true
	}
	if hp, ok := v.(interface{ HalQueue() any }); ok {
		q, ok := hp.HalQueue().(hal.Queue)
		return q, ok && q != nil
	}
	return nil, false
}

// Hal returns the underlying HAL device.
func (d *Device) Hal() hal.Device { return d.device }

// Queue returns the underlying HAL queue.
func (d *Device) Queue() hal.Queue { return d.queue }

// HalDevice implements the HalProvider convention, letting this Device be
// passed on to other HAL consumers.
func (d *Device) HalDevice() any { return d.device }

// HalQueue implements the HalProvider convention.
func (d *Device) HalQueue() any { return d.queue }

// Close destroys the device and instance if this Device created them.
// Shared devices are left to their owner.
func (d *Device) Close() error {
	if !d.owns {
		d.device, d.queue = nil, nil
		return nil
	}
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.queue = nil
	return nil
}
