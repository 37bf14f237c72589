// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	vk "github.com/goki/vulkan"
)

// Pipeline is the graphics pipeline for instanced segment rendering.
// Binding 0 feeds the unit quad per vertex; binding 1 feeds one segment
// per instance as two vec2 attributes. The viewport and scissor are
// baked from the swapchain extent, so the pipeline is remade on every
// swapchain rebuild.
type Pipeline struct {
	Layout   vk.PipelineLayout
	Pipeline vk.Pipeline

	VertModule vk.ShaderModule
	FragModule vk.ShaderModule
}

// SetShaders loads the vertex and fragment SPIR-V files.
func (pl *Pipeline) SetShaders(dev vk.Device, vertFile, fragFile string) error {
	vert, err := LoadShaderModule(dev, vertFile)
	if err != nil {
		return err
	}
	frag, err := LoadShaderModule(dev, fragFile)
	if err != nil {
		vk.DestroyShaderModule(dev, vert, nil)
		return err
	}
	pl.VertModule = vert
	pl.FragModule = frag
	return nil
}

// Config creates the pipeline layout and graphics pipeline for the given
// render pass and extent. SetShaders must have been called.
func (pl *Pipeline) Config(dev vk.Device, rp *RenderPass, ext vk.Extent2D) error {
	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dev, &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}, nil, &layout)
	if IsError(ret) {
		return NewError(ret)
	}
	pl.Layout = layout

	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    2 * 4,
		InputRate: vk.VertexInputRateVertex,
	}, {
		Binding:   1,
		Stride:    4 * 4,
		InputRate: vk.VertexInputRateInstance,
	}}
	attrs := []vk.VertexInputAttributeDescription{{
		Location: 0,
		Binding:  0,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   0,
	}, {
		Location: 1,
		Binding:  1,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   0,
	}, {
		Location: 2,
		Binding:  1,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   2 * 4,
	}}

	var pipeline [1]vk.Pipeline
	ret = vk.CreateGraphicsPipelines(dev, vk.NullPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{{
			SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
			StageCount: 2,
			PStages: []vk.PipelineShaderStageCreateInfo{{
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageVertexBit,
				Module: pl.VertModule,
				PName:  "main\x00",
			}, {
				SType:  vk.StructureTypePipelineShaderStageCreateInfo,
				Stage:  vk.ShaderStageFragmentBit,
				Module: pl.FragModule,
				PName:  "main\x00",
			}},
			PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
				SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
				VertexBindingDescriptionCount:   uint32(len(bindings)),
				PVertexBindingDescriptions:      bindings,
				VertexAttributeDescriptionCount: uint32(len(attrs)),
				PVertexAttributeDescriptions:    attrs,
			},
			PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
				SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
				Topology: vk.PrimitiveTopologyTriangleList,
			},
			PViewportState: &vk.PipelineViewportStateCreateInfo{
				SType:         vk.StructureTypePipelineViewportStateCreateInfo,
				ViewportCount: 1,
				PViewports: []vk.Viewport{{
					Width:    float32(ext.Width),
					Height:   float32(ext.Height),
					MinDepth: 0,
					MaxDepth: 1,
				}},
				ScissorCount: 1,
				PScissors: []vk.Rect2D{{
					Offset: vk.Offset2D{X: 0, Y: 0},
					Extent: ext,
				}},
			},
			PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
				SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
				PolygonMode: vk.PolygonModeFill,
				CullMode:    vk.CullModeFlags(vk.CullModeNone),
				FrontFace:   vk.FrontFaceCounterClockwise,
				LineWidth:   1,
			},
			PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
				SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
				RasterizationSamples: vk.SampleCount1Bit,
			},
			PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
				SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
				AttachmentCount: 1,
				PAttachments: []vk.PipelineColorBlendAttachmentState{{
					ColorWriteMask: vk.ColorComponentFlags(
						vk.ColorComponentRBit | vk.ColorComponentGBit |
							vk.ColorComponentBBit | vk.ColorComponentABit),
				}},
			},
			Layout:     pl.Layout,
			RenderPass: rp.Pass,
			Subpass:    0,
		}}, nil, pipeline[:])
	if IsError(ret) {
		return NewError(ret)
	}
	pl.Pipeline = pipeline[0]
	return nil
}

// FreePipeline destroys the pipeline and layout, keeping the shader
// modules for the next swapchain rebuild.
func (pl *Pipeline) FreePipeline(dev vk.Device) {
	if pl.Pipeline != vk.NullPipeline {
		vk.DestroyPipeline(dev, pl.Pipeline, nil)
		pl.Pipeline = vk.NullPipeline
	}
	if pl.Layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(dev, pl.Layout, nil)
		pl.Layout = vk.NullPipelineLayout
	}
}

// Destroy frees the pipeline and its shader modules.
func (pl *Pipeline) Destroy(dev vk.Device) {
	pl.FreePipeline(dev)
	if pl.VertModule != vk.NullShaderModule {
		vk.DestroyShaderModule(dev, pl.VertModule, nil)
		pl.VertModule = vk.NullShaderModule
	}
	if pl.FragModule != vk.NullShaderModule {
		vk.DestroyShaderModule(dev, pl.FragModule, nil)
		pl.FragModule = vk.NullShaderModule
	}
}
