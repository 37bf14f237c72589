// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"

	vk "github.com/goki/vulkan"
)

// Surface manages the window surface and its swapchain. The swapchain is
// rebuilt wholesale whenever the window geometry changes; the old chain is
// passed as OldSwapchain so in-flight presents can drain.
type Surface struct {
	GPU    *GPU
	Device *Device

	Surface   vk.Surface
	Swapchain vk.Swapchain

	// Format is the chosen surface format for swapchain images.
	Format vk.SurfaceFormat

	// Extent is the current swapchain image extent in pixels.
	Extent vk.Extent2D

	// Images are the swapchain images, owned by the swapchain.
	Images []vk.Image
}

// NewSurface returns a Surface wrapping the given window surface handle,
// creating the logical device on a graphics queue that can present to it.
func NewSurface(gp *GPU, winSurface vk.Surface) (*Surface, error) {
	sf := &Surface{GPU: gp, Surface: winSurface, Device: &Device{}}
	if err := sf.Device.FindQueue(gp, vk.QueueGraphicsBit, winSurface); err != nil {
		return nil, err
	}
	if err := sf.Device.MakeDevice(gp); err != nil {
		return nil, err
	}
	return sf, nil
}

// InitSwapchain creates the swapchain for the current surface size,
// replacing any existing one. Returns an error if the surface currently
// has zero area; the caller should suppress rendering until the window
// is restored.
func (sf *Surface) InitSwapchain() error {
	dev := sf.Device.Device

	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(sf.GPU.GPU, sf.Surface, &caps)
	if IsError(ret) {
		return NewError(ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	ext := caps.CurrentExtent
	if ext.Width == 0 || ext.Height == 0 {
		return errors.New("vulkan: zero-area surface, swapchain deferred")
	}

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(sf.GPU.GPU, sf.Surface, &formatCount, nil)
	if formatCount == 0 {
		return errors.New("vulkan error: no surface formats available")
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(sf.GPU.GPU, sf.Surface, &formatCount, formats)
	format := formats[0]
	format.Deref()
	for i := range formats {
		formats[i].Deref()
		if formats[i].Format == vk.FormatB8g8r8a8Srgb &&
			formats[i].ColorSpace == vk.ColorSpaceSrgbNonlinear {
			format = formats[i]
			break
		}
	}

	imgCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imgCount > caps.MaxImageCount {
		imgCount = caps.MaxImageCount
	}

	oldSwapchain := sf.Swapchain
	var swapchain vk.Swapchain
	ret = vk.CreateSwapchain(dev, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          sf.Surface,
		MinImageCount:    imgCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      ext,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		PresentMode:      vk.PresentModeFifo,
		OldSwapchain:     oldSwapchain,
		Clipped:          vk.True,
	}, nil, &swapchain)
	if IsError(ret) {
		return NewError(ret)
	}
	if oldSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dev, oldSwapchain, nil)
	}
	sf.Swapchain = swapchain
	sf.Format = format
	sf.Extent = ext

	var swapImageCount uint32
	vk.GetSwapchainImages(dev, sf.Swapchain, &swapImageCount, nil)
	sf.Images = make([]vk.Image, swapImageCount)
	vk.GetSwapchainImages(dev, sf.Swapchain, &swapImageCount, sf.Images)
	return nil
}

// FreeSwapchain destroys the swapchain.
func (sf *Surface) FreeSwapchain() {
	if sf.Swapchain == vk.NullSwapchain {
		return
	}
	vk.DestroySwapchain(sf.Device.Device, sf.Swapchain, nil)
	sf.Swapchain = vk.NullSwapchain
	sf.Images = nil
}

// AcquireNextImage acquires the next swapchain image, signaling the given
// semaphore when it is ready. Returns the image index; the Vulkan result
// is returned for the caller to classify (out-of-date means rebuild).
func (sf *Surface) AcquireNextImage(sem vk.Semaphore) (uint32, vk.Result) {
	var idx uint32
	ret := vk.AcquireNextImage(sf.Device.Device, sf.Swapchain, vk.MaxUint64,
		sem, vk.NullFence, &idx)
	return idx, ret
}

// PresentImage queues presentation of the given image index, waiting on
// the given semaphore. Returns the raw result for the caller to classify.
func (sf *Surface) PresentImage(idx uint32, waitSem vk.Semaphore) vk.Result {
	return vk.QueuePresent(sf.Device.Queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{waitSem},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sf.Swapchain},
		PImageIndices:      []uint32{idx},
	})
}

// Destroy frees the swapchain, device and surface.
func (sf *Surface) Destroy() {
	sf.FreeSwapchain()
	if sf.Surface != vk.NullSurface {
		vk.DestroySurface(sf.GPU.Instance, sf.Surface, nil)
		sf.Surface = vk.NullSurface
	}
	sf.Device.Destroy()
}
