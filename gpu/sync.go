// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	vk "github.com/goki/vulkan"
)

// FrameSync holds the per-slot synchronization objects for frames in
// flight: an image-acquired semaphore, a render-done semaphore, and an
// in-flight fence per slot, plus a per-swapchain-image map of which slot
// fence last rendered to that image. Fences are created signaled so the
// first wait on each slot passes immediately.
type FrameSync struct {
	// ImageAcquired is signaled when the acquired swapchain image is
	// ready to be rendered to.
	ImageAcquired []vk.Semaphore

	// RenderDone is signaled when the slot's command buffer finishes.
	RenderDone []vk.Semaphore

	// InFlight is the slot fence, signaled when the slot's submission
	// retires.
	InFlight []vk.Fence

	// ImagesInFlight maps swapchain image index to the fence of the slot
	// that last submitted work targeting it, or NullFence.
	ImagesInFlight []vk.Fence
}

// Config creates sync objects for the given number of frame slots and
// swapchain images.
func (fs *FrameSync) Config(dev vk.Device, slots, images int) error {
	fs.ImageAcquired = make([]vk.Semaphore, slots)
	fs.RenderDone = make([]vk.Semaphore, slots)
	fs.InFlight = make([]vk.Fence, slots)
	for i := 0; i < slots; i++ {
		semInfo := &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
		ret := vk.CreateSemaphore(dev, semInfo, nil, &fs.ImageAcquired[i])
		if IsError(ret) {
			return NewError(ret)
		}
		ret = vk.CreateSemaphore(dev, semInfo, nil, &fs.RenderDone[i])
		if IsError(ret) {
			return NewError(ret)
		}
		ret = vk.CreateFence(dev, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &fs.InFlight[i])
		if IsError(ret) {
			return NewError(ret)
		}
	}
	fs.ResetImages(images)
	return nil
}

// ResetImages resizes the per-image fence map for a new swapchain,
// clearing all entries. Call after every swapchain rebuild.
func (fs *FrameSync) ResetImages(images int) {
	fs.ImagesInFlight = make([]vk.Fence, images)
	for i := range fs.ImagesInFlight {
		fs.ImagesInFlight[i] = vk.NullFence
	}
}

// WaitSlot blocks until the given slot's fence is signaled.
func (fs *FrameSync) WaitSlot(dev vk.Device, slot int) {
	vk.WaitForFences(dev, 1, []vk.Fence{fs.InFlight[slot]}, vk.True, vk.MaxUint64)
}

// WaitImage blocks until any prior submission targeting the given
// swapchain image retires, then claims the image for the given slot.
func (fs *FrameSync) WaitImage(dev vk.Device, imgIdx uint32, slot int) {
	if fs.ImagesInFlight[imgIdx] != vk.NullFence {
		vk.WaitForFences(dev, 1, []vk.Fence{fs.ImagesInFlight[imgIdx]}, vk.True, vk.MaxUint64)
	}
	fs.ImagesInFlight[imgIdx] = fs.InFlight[slot]
}

// ResetSlot resets the slot fence to unsignaled, immediately before the
// submission that will signal it.
func (fs *FrameSync) ResetSlot(dev vk.Device, slot int) {
	vk.ResetFences(dev, 1, []vk.Fence{fs.InFlight[slot]})
}

// Destroy destroys all sync objects.
func (fs *FrameSync) Destroy(dev vk.Device) {
	for i := range fs.InFlight {
		vk.DestroySemaphore(dev, fs.ImageAcquired[i], nil)
		vk.DestroySemaphore(dev, fs.RenderDone[i], nil)
		vk.DestroyFence(dev, fs.InFlight[i], nil)
	}
	fs.ImageAcquired = nil
	fs.RenderDone = nil
	fs.InFlight = nil
	fs.ImagesInFlight = nil
}
