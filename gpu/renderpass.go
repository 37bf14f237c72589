// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	vk "github.com/goki/vulkan"
)

// RenderPass is a single-subpass color-only render pass that clears its
// attachment on load and leaves it ready for presentation.
type RenderPass struct {
	Pass vk.RenderPass

	// ClearColor used when the pass begins.
	ClearColor [4]float32
}

// Config creates the render pass for the given swapchain image format.
func (rp *RenderPass) Config(dev vk.Device, format vk.Format) error {
	var pass vk.RenderPass
	ret := vk.CreateRenderPass(dev, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments: []vk.AttachmentDescription{{
			Format:         format,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutPresentSrc,
		}},
		SubpassCount: 1,
		PSubpasses: []vk.SubpassDescription{{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: 1,
			PColorAttachments: []vk.AttachmentReference{{
				Attachment: 0,
				Layout:     vk.ImageLayoutColorAttachmentOptimal,
			}},
		}},
		DependencyCount: 1,
		PDependencies: []vk.SubpassDependency{{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			SrcAccessMask: 0,
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		}},
	}, nil, &pass)
	if IsError(ret) {
		return NewError(ret)
	}
	rp.Pass = pass
	return nil
}

// BeginRenderPass records the start of the pass on the given framebuffer,
// clearing to ClearColor.
func (rp *RenderPass) BeginRenderPass(cmd vk.CommandBuffer, fb vk.Framebuffer, ext vk.Extent2D) {
	clear := vk.NewClearValue(rp.ClearColor[:])
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.Pass,
		Framebuffer: fb,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: ext,
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clear},
	}, vk.SubpassContentsInline)
}

// Destroy destroys the render pass.
func (rp *RenderPass) Destroy(dev vk.Device) {
	if rp.Pass == vk.NullRenderPass {
		return
	}
	vk.DestroyRenderPass(dev, rp.Pass, nil)
	rp.Pass = vk.NullRenderPass
}
