// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	vk "github.com/goki/vulkan"
)

// CmdPool is a command pool and an associated primary command buffer.
type CmdPool struct {
	Pool vk.CommandPool
	Buff vk.CommandBuffer
}

// ConfigResettable initializes the pool allowing individual command
// buffer resets, for per-frame re-recording.
func (cp *CmdPool) ConfigResettable(dv *Device) {
	cp.config(dv, vk.CommandPoolCreateResetCommandBufferBit)
}

// ConfigTransient initializes the pool for short-lived one-time command
// buffers, for memory transfers.
func (cp *CmdPool) ConfigTransient(dv *Device) {
	cp.config(dv, vk.CommandPoolCreateTransientBit|vk.CommandPoolCreateResetCommandBufferBit)
}

func (cp *CmdPool) config(dv *Device, flags vk.CommandPoolCreateFlagBits) {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(flags),
	}, nil, &cmdPool)
	IfPanic(NewError(ret))
	cp.Pool = cmdPool
}

// NewBuffer allocates a new primary command buffer in the pool, setting
// and returning Buff.
func (cp *CmdPool) NewBuffer(dv *Device) vk.CommandBuffer {
	cmdBuff := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	IfPanic(NewError(ret))
	cp.Buff = cmdBuff[0]
	return cp.Buff
}

// BeginCmd begins recording Buff for per-frame use.
func (cp *CmdPool) BeginCmd() vk.CommandBuffer {
	ret := vk.BeginCommandBuffer(cp.Buff, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	IfPanic(NewError(ret))
	return cp.Buff
}

// BeginCmdOneTime begins recording Buff for a single submission.
func (cp *CmdPool) BeginCmdOneTime() vk.CommandBuffer {
	ret := vk.BeginCommandBuffer(cp.Buff, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
	return cp.Buff
}

// EndSubmitWaitFree ends recording, submits Buff to the device queue,
// waits for it to complete via a transient fence, and frees the buffer.
// Used for one-time transfer commands: the wait guarantees the staging
// bytes can be rewritten as soon as this returns.
func (cp *CmdPool) EndSubmitWaitFree(dv *Device) {
	ret := vk.EndCommandBuffer(cp.Buff)
	IfPanic(NewError(ret))

	var fence vk.Fence
	ret = vk.CreateFence(dv.Device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	IfPanic(NewError(ret))

	ret = vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cp.Buff},
	}}, fence)
	IfPanic(NewError(ret))

	ret = vk.WaitForFences(dv.Device, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64)
	IfPanic(NewError(ret))
	vk.DestroyFence(dv.Device, fence, nil)

	vk.FreeCommandBuffers(dv.Device, cp.Pool, 1, []vk.CommandBuffer{cp.Buff})
	cp.Buff = nil
}

// Reset resets the whole pool, recycling all its command buffers.
func (cp *CmdPool) Reset(dv *Device) {
	vk.ResetCommandPool(dv.Device, cp.Pool, 0)
}

// Destroy destroys the pool and any buffers in it.
func (cp *CmdPool) Destroy(dev vk.Device) {
	if cp.Pool == vk.NullCommandPool {
		return
	}
	vk.DestroyCommandPool(dev, cp.Pool, nil)
	cp.Pool = vk.NullCommandPool
	cp.Buff = nil
}
