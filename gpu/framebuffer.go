// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	vk "github.com/goki/vulkan"
)

// Framebuffer is a swapchain image view and its framebuffer for one
// render pass. One exists per swapchain image; all are torn down and
// remade on swapchain rebuild.
type Framebuffer struct {
	View vk.ImageView
	FB   vk.Framebuffer
}

// Config creates the image view and framebuffer for the given swapchain
// image, format and extent.
func (fb *Framebuffer) Config(dev vk.Device, img vk.Image, format vk.Format, ext vk.Extent2D, rp *RenderPass) error {
	var view vk.ImageView
	ret := vk.CreateImageView(dev, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if IsError(ret) {
		return NewError(ret)
	}
	fb.View = view

	var frameBuff vk.Framebuffer
	ret = vk.CreateFramebuffer(dev, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.Pass,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view},
		Width:           ext.Width,
		Height:          ext.Height,
		Layers:          1,
	}, nil, &frameBuff)
	if IsError(ret) {
		return NewError(ret)
	}
	fb.FB = frameBuff
	return nil
}

// Destroy destroys the framebuffer and image view.
func (fb *Framebuffer) Destroy(dev vk.Device) {
	if fb.FB != vk.NullFramebuffer {
		vk.DestroyFramebuffer(dev, fb.FB, nil)
		fb.FB = vk.NullFramebuffer
	}
	if fb.View != vk.NullImageView {
		vk.DestroyImageView(dev, fb.View, nil)
		fb.View = vk.NullImageView
	}
}
