// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"

	vk "github.com/goki/vulkan"
)

// Device holds the logical device and its graphics+present queue.
// All submissions and presents against the queue are serialized by the
// single render thread.
type Device struct {
	Device     vk.Device
	QueueIndex uint32
	Queue      vk.Queue
}

// FindQueue finds a queue family with the given capability flags that can
// also present to the given surface, setting QueueIndex.
func (dv *Device) FindQueue(gp *GPU, flags vk.QueueFlagBits, surface vk.Surface) error {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, nil)
	if queueCount == 0 {
		return errors.New("vulkan error: no queue families found on GPU")
	}
	queueProps := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gp.GPU, &queueCount, queueProps)

	required := vk.QueueFlags(flags)
	for i := uint32(0); i < queueCount; i++ {
		queueProps[i].Deref()
		if queueProps[i].QueueFlags&required == 0 {
			continue
		}
		if surface != vk.NullSurface {
			var supportsPresent vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(gp.GPU, i, surface, &supportsPresent)
			if !supportsPresent.B() {
				continue
			}
		}
		dv.QueueIndex = i
		return nil
	}
	return errors.New("vulkan error: no queue family with graphics and present support")
}

// MakeDevice creates the logical device and queue from QueueIndex.
func (dv *Device) MakeDevice(gp *GPU) error {
	var device vk.Device
	ret := vk.CreateDevice(gp.GPU, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: dv.QueueIndex,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(gp.DeviceExts)),
		PpEnabledExtensionNames: gp.DeviceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &device)
	if IsError(ret) {
		return NewError(ret)
	}
	dv.Device = device
	var queue vk.Queue
	vk.GetDeviceQueue(dv.Device, dv.QueueIndex, 0, &queue)
	dv.Queue = queue
	return nil
}

// WaitIdle blocks until the device has finished all outstanding work.
func (dv *Device) WaitIdle() {
	if dv.Device != nil {
		vk.DeviceWaitIdle(dv.Device)
	}
}

// Destroy idles and destroys the logical device.
func (dv *Device) Destroy() {
	if dv.Device == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Device)
	vk.DestroyDevice(dv.Device, nil)
	dv.Device = nil
}
