// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// MemBuff is a staged memory buffer: a host-visible staging buffer that
// remains persistently mapped for the life of the buffer, paired with a
// device-local buffer that staging ranges are copied into. The mapping is
// made exactly once in AllocHost and released exactly once in Free, on
// every teardown path.
type MemBuff struct {
	GPU *GPU

	// Size is the allocated byte size of the host staging buffer.
	Size int

	// DevSize is the allocated byte size of the device buffer, which may
	// exceed Size when the staging region is a window onto it.
	DevSize int

	// Host is the host-visible staging buffer.
	Host    vk.Buffer
	HostMem vk.DeviceMemory

	// HostPtr is the persistently mapped pointer to staging memory.
	HostPtr unsafe.Pointer

	// Dev is the device-local buffer.
	Dev    vk.Buffer
	DevMem vk.DeviceMemory
}

// AllocHost creates the host staging buffer of given byte size and
// allocates and persistently maps its memory.
func (mb *MemBuff) AllocHost(dev vk.Device, bsz int) {
	if bsz == 0 || bsz == mb.Size {
		return
	}
	mb.Host = NewBuffer(dev, bsz, vk.BufferUsageTransferSrcBit)
	mb.HostMem = AllocBuffMem(mb.GPU, dev, mb.Host,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	mb.HostPtr = MapMemory(dev, mb.HostMem, bsz)
	mb.Size = bsz
}

// AllocDev creates the device-local buffer of given byte size and usage
// and allocates its memory.
func (mb *MemBuff) AllocDev(dev vk.Device, bsz int, usage vk.BufferUsageFlagBits) {
	if bsz == 0 || bsz == mb.DevSize {
		return
	}
	mb.Dev = NewBuffer(dev, bsz, usage|vk.BufferUsageTransferDstBit)
	mb.DevMem = AllocBuffMem(mb.GPU, dev, mb.Dev, vk.MemoryPropertyDeviceLocalBit)
	mb.DevSize = bsz
}

// CmdCopyToDev records a copy of size bytes from the staging buffer at
// srcOff to the device buffer at dstOff, into the given command buffer.
// Ordering with any draw that reads the destination is the caller's
// responsibility, via queue submission order.
func (mb *MemBuff) CmdCopyToDev(cmd vk.CommandBuffer, srcOff, dstOff, size int) {
	vk.CmdCopyBuffer(cmd, mb.Host, mb.Dev, 1, []vk.BufferCopy{{
		SrcOffset: vk.DeviceSize(srcOff),
		DstOffset: vk.DeviceSize(dstOff),
		Size:      vk.DeviceSize(size),
	}})
}

// TransferToDev copies size bytes from staging at srcOff to the device
// buffer at dstOff using a one-time command on the given pool, waiting
// for completion before returning. On return the staging range is free
// to be rewritten.
func (mb *MemBuff) TransferToDev(dv *Device, cp *CmdPool, srcOff, dstOff, size int) {
	cmd := cp.NewBuffer(dv)
	cp.BeginCmdOneTime()
	mb.CmdCopyToDev(cmd, srcOff, dstOff, size)
	cp.EndSubmitWaitFree(dv)
}

// Free unmaps and releases all memory and destroys both buffers.
// Safe to call repeatedly; the mapping is released exactly once.
func (mb *MemBuff) Free(dev vk.Device) {
	if mb.DevSize > 0 {
		FreeBuffMem(dev, &mb.DevMem)
		DestroyBuffer(dev, &mb.Dev)
		mb.DevSize = 0
	}
	if mb.Size > 0 {
		vk.UnmapMemory(dev, mb.HostMem)
		mb.HostPtr = nil
		FreeBuffMem(dev, &mb.HostMem)
		DestroyBuffer(dev, &mb.Host)
		mb.Size = 0
	}
}

// SetHostValues copies vals into the persistently mapped staging memory
// at the given element offset. The caller must ensure no in-flight copy
// still reads the overwritten range.
func SetHostValues[E any](mb *MemBuff, vals []E, elOff int) {
	if len(vals) == 0 || mb.HostPtr == nil {
		return
	}
	var zero E
	elsz := int(unsafe.Sizeof(zero))
	n := mb.Size / elsz
	dst := unsafe.Slice((*E)(mb.HostPtr), n)
	copy(dst[elOff:], vals)
}

/////////////////////////////////////////////////////////////////
// Basic memory functions

// NewBuffer makes a buffer of given size and usage.
func NewBuffer(dev vk.Device, size int, usage vk.BufferUsageFlagBits) vk.Buffer {
	if size == 0 {
		return vk.NullBuffer
	}
	var buffer vk.Buffer
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(usage),
		Size:        vk.DeviceSize(size),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	IfPanic(NewError(ret))
	return buffer
}

// AllocBuffMem allocates memory for given buffer, with given properties,
// and binds it to the buffer.
func AllocBuffMem(gp *GPU, dev vk.Device, buffer vk.Buffer, props vk.MemoryPropertyFlagBits) vk.DeviceMemory {
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(gp.MemoryProps,
		vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		log.Println("vulkan warning: failed to find required memory type")
	}

	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	IfPanic(NewError(ret))
	vk.BindBufferMemory(dev, buffer, memory, 0)
	return memory
}

// MapMemory maps the buffer memory, returning a pointer to its start.
func MapMemory(dev vk.Device, mem vk.DeviceMemory, size int) unsafe.Pointer {
	var buffPtr unsafe.Pointer
	ret := vk.MapMemory(dev, mem, 0, vk.DeviceSize(size), 0, &buffPtr)
	IfPanic(NewError(ret))
	return buffPtr
}

// FreeBuffMem frees given device memory and nils the handle.
func FreeBuffMem(dev vk.Device, memory *vk.DeviceMemory) {
	if *memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(dev, *memory, nil)
	*memory = vk.NullDeviceMemory
}

// DestroyBuffer destroys given buffer and nils the handle.
func DestroyBuffer(dev vk.Device, buff *vk.Buffer) {
	if *buff == vk.NullBuffer {
		return
	}
	vk.DestroyBuffer(dev, *buff, nil)
	*buff = vk.NullBuffer
}

// FindRequiredMemoryType finds a memory type matching the device
// requirements bit mask that has all of the requested property flags.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties,
	deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(vk.MemoryPropertyFlagBits(1)<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		flags := props.MemoryTypes[i].PropertyFlags
		if flags&vk.MemoryPropertyFlags(hostRequirements) == vk.MemoryPropertyFlags(hostRequirements) {
			return i, true
		}
	}
	return 0, false
}
