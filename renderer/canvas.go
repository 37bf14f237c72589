// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package renderer draws the sketch: it streams segments into a
// device-local buffer in bounded batches and drives the per-frame
// acquire, record, submit, present cycle, recovering from surface
// invalidation by rebuilding the swapchain wholesale.
package renderer

import (
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"

	"github.com/scribblevk/scribble/gpu"
	"github.com/scribblevk/scribble/sketch"
)

// SegmentBytes is the byte size of one segment instance on the GPU:
// two vec2 float32 attributes.
const SegmentBytes = 4 * 4

// quadVerts is the unit quad expanded per segment instance: x runs along
// the segment direction, y across it.
var quadVerts = []float32{
	-0.5, -0.5,
	0.5, -0.5,
	0.5, 0.5,
	-0.5, 0.5,
}

var quadIndex = []uint16{0, 1, 2, 2, 3, 0}

// Options configures a Canvas.
type Options struct {
	// Slots is the number of frames in flight.
	Slots int

	// MaxSegments is the device segment buffer capacity.
	MaxSegments int

	// StagingCap is the staging region capacity in segments.
	StagingCap int

	// VertFile and FragFile are paths to compiled SPIR-V shaders.
	VertFile string
	FragFile string
}

// Canvas owns every swapchain-dependent object plus the geometry
// buffers, which deliberately survive swapchain rebuilds untouched. It
// is both the scheduler's Target and the stream's SegmentSink.
type Canvas struct {
	Surface    *gpu.Surface
	RenderPass gpu.RenderPass
	Pipeline   gpu.Pipeline
	Frames     []gpu.Framebuffer
	Sync       gpu.FrameSync

	// CmdPools holds one resettable pool per frame slot; Transfer is a
	// transient pool for one-time staging copies.
	CmdPools []gpu.CmdPool
	Transfer gpu.CmdPool

	// Quad and Index are the static per-vertex quad geometry. Segs pairs
	// the persistently mapped staging region with the device segment
	// buffer.
	Quad  gpu.MemBuff
	Index gpu.MemBuff
	Segs  gpu.MemBuff

	opts Options
	lg   *zap.Logger
}

// NewCanvas creates all rendering state against the given surface.
func NewCanvas(gp *gpu.GPU, sf *gpu.Surface, opts Options, lg *zap.Logger) (cv *Canvas, err error) {
	defer gpu.CheckErr(&err)

	cv = &Canvas{Surface: sf, opts: opts, lg: lg}
	dev := sf.Device.Device

	if err = cv.Pipeline.SetShaders(dev, opts.VertFile, opts.FragFile); err != nil {
		return nil, err
	}
	if err = cv.configSwapchainObjects(); err != nil {
		return nil, err
	}
	if err = cv.Sync.Config(dev, opts.Slots, len(sf.Images)); err != nil {
		return nil, err
	}

	cv.CmdPools = make([]gpu.CmdPool, opts.Slots)
	for i := range cv.CmdPools {
		cv.CmdPools[i].ConfigResettable(sf.Device)
		cv.CmdPools[i].NewBuffer(sf.Device)
	}
	cv.Transfer.ConfigTransient(sf.Device)

	cv.Quad.GPU = gp
	cv.Quad.AllocHost(dev, len(quadVerts)*4)
	cv.Quad.AllocDev(dev, len(quadVerts)*4, vk.BufferUsageVertexBufferBit)
	gpu.SetHostValues(&cv.Quad, quadVerts, 0)
	cv.Quad.TransferToDev(sf.Device, &cv.Transfer, 0, 0, len(quadVerts)*4)

	cv.Index.GPU = gp
	cv.Index.AllocHost(dev, len(quadIndex)*2)
	cv.Index.AllocDev(dev, len(quadIndex)*2, vk.BufferUsageIndexBufferBit)
	gpu.SetHostValues(&cv.Index, quadIndex, 0)
	cv.Index.TransferToDev(sf.Device, &cv.Transfer, 0, 0, len(quadIndex)*2)

	cv.Segs.GPU = gp
	cv.Segs.AllocHost(dev, opts.StagingCap*SegmentBytes)
	cv.Segs.AllocDev(dev, opts.MaxSegments*SegmentBytes, vk.BufferUsageVertexBufferBit)

	lg.Info("canvas ready",
		zap.Int("slots", opts.Slots),
		zap.Int("swapchainImages", len(sf.Images)),
		zap.Int("maxSegments", opts.MaxSegments),
		zap.Int("stagingCap", opts.StagingCap))
	return cv, nil
}

// configSwapchainObjects builds the render pass, pipeline and
// framebuffers for the current swapchain.
func (cv *Canvas) configSwapchainObjects() error {
	sf := cv.Surface
	dev := sf.Device.Device
	if err := cv.RenderPass.Config(dev, sf.Format.Format); err != nil {
		return err
	}
	if err := cv.Pipeline.Config(dev, &cv.RenderPass, sf.Extent); err != nil {
		return err
	}
	cv.Frames = make([]gpu.Framebuffer, len(sf.Images))
	for i, img := range sf.Images {
		if err := cv.Frames[i].Config(dev, img, sf.Format.Format, sf.Extent, &cv.RenderPass); err != nil {
			return err
		}
	}
	return nil
}

// freeSwapchainObjects tears down in reverse creation order.
func (cv *Canvas) freeSwapchainObjects() {
	dev := cv.Surface.Device.Device
	for i := range cv.Frames {
		cv.Frames[i].Destroy(dev)
	}
	cv.Frames = nil
	cv.Pipeline.FreePipeline(dev)
	cv.RenderPass.Destroy(dev)
}

// Rebuild recreates the swapchain and everything depending on it at the
// current surface extent. Geometry buffers are untouched.
func (cv *Canvas) Rebuild() error {
	sf := cv.Surface
	sf.Device.WaitIdle()
	cv.freeSwapchainObjects()
	if err := sf.InitSwapchain(); err != nil {
		return err
	}
	if err := cv.configSwapchainObjects(); err != nil {
		return err
	}
	for i := range cv.CmdPools {
		cv.CmdPools[i].Reset(sf.Device)
	}
	cv.Sync.ResetImages(len(sf.Images))
	cv.lg.Info("swapchain rebuilt",
		zap.Uint32("width", sf.Extent.Width),
		zap.Uint32("height", sf.Extent.Height),
		zap.Int("images", len(sf.Images)))
	return nil
}

// SlotCount returns the number of frame slots.
func (cv *Canvas) SlotCount() int {
	return cv.opts.Slots
}

// WaitFrame blocks on the slot's in-flight fence.
func (cv *Canvas) WaitFrame(slot int) {
	cv.Sync.WaitSlot(cv.Surface.Device.Device, slot)
}

// Acquire obtains the next swapchain image for the slot.
func (cv *Canvas) Acquire(slot int) (uint32, bool, error) {
	idx, ret := cv.Surface.AcquireNextImage(cv.Sync.ImageAcquired[slot])
	switch {
	case ret == vk.ErrorOutOfDate:
		return 0, true, nil
	case ret == vk.Success || ret == vk.Suboptimal:
		return idx, false, nil
	}
	return 0, false, gpu.NewError(ret)
}

// WaitImage blocks until the image's prior frame retires.
func (cv *Canvas) WaitImage(imgIdx uint32, slot int) {
	cv.Sync.WaitImage(cv.Surface.Device.Device, imgIdx, slot)
}

// Record records the slot's command buffer: one indexed draw of the quad
// instanced over the given number of segments.
func (cv *Canvas) Record(imgIdx uint32, slot int, instances int) (err error) {
	defer gpu.CheckErr(&err)

	cp := &cv.CmdPools[slot]
	cmd := cp.BeginCmd()
	cv.RenderPass.BeginRenderPass(cmd, cv.Frames[imgIdx].FB, cv.Surface.Extent)
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, cv.Pipeline.Pipeline)
	vk.CmdBindVertexBuffers(cmd, 0, 2,
		[]vk.Buffer{cv.Quad.Dev, cv.Segs.Dev}, []vk.DeviceSize{0, 0})
	vk.CmdBindIndexBuffer(cmd, cv.Index.Dev, 0, vk.IndexTypeUint16)
	if instances > 0 {
		vk.CmdDrawIndexed(cmd, uint32(len(quadIndex)), uint32(instances), 0, 0, 0)
	}
	vk.CmdEndRenderPass(cmd)
	ret := vk.EndCommandBuffer(cmd)
	gpu.IfPanic(gpu.NewError(ret))
	return nil
}

// Submit resets the slot fence and submits its command buffer, waiting
// on the acquire semaphore and signaling the render-done semaphore.
func (cv *Canvas) Submit(slot int) error {
	dv := cv.Surface.Device
	cv.Sync.ResetSlot(dv.Device, slot)
	ret := vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{cv.Sync.ImageAcquired[slot]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cv.CmdPools[slot].Buff},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{cv.Sync.RenderDone[slot]},
	}}, cv.Sync.InFlight[slot])
	return gpu.NewError(ret)
}

// Present queues presentation of the image, waiting on render-done.
func (cv *Canvas) Present(imgIdx uint32, slot int) (bool, error) {
	ret := cv.Surface.PresentImage(imgIdx, cv.Sync.RenderDone[slot])
	switch {
	case ret == vk.ErrorOutOfDate || ret == vk.Suboptimal:
		return true, nil
	case ret == vk.Success:
		return false, nil
	}
	return false, gpu.NewError(ret)
}

// WriteStaging copies segments into the mapped staging region from
// offset 0. The scheduler only calls this after the slot fence wait, so
// no in-flight copy can still read these bytes.
func (cv *Canvas) WriteStaging(segs []sketch.Segment) {
	gpu.SetHostValues(&cv.Segs, segs, 0)
}

// CopyToDevice copies nseg staged segments into the device segment
// buffer at segment offset dstSeg, waiting for the transfer to retire
// before returning.
func (cv *Canvas) CopyToDevice(dstSeg, nseg int) (err error) {
	defer gpu.CheckErr(&err)
	cv.Segs.TransferToDev(cv.Surface.Device, &cv.Transfer,
		0, dstSeg*SegmentBytes, nseg*SegmentBytes)
	return nil
}

// Destroy idles the device, then releases swapchain-dependent objects
// first and the geometry buffers (including the staging mapping) last.
// The surface and device are owned by the caller.
func (cv *Canvas) Destroy() {
	dv := cv.Surface.Device
	dv.WaitIdle()
	dev := dv.Device

	cv.freeSwapchainObjects()
	cv.Pipeline.Destroy(dev)
	cv.Sync.Destroy(dev)
	for i := range cv.CmdPools {
		cv.CmdPools[i].Destroy(dev)
	}
	cv.CmdPools = nil
	cv.Transfer.Destroy(dev)
	cv.Segs.Free(dev)
	cv.Index.Free(dev)
	cv.Quad.Free(dev)
	cv.lg.Info("canvas destroyed")
}
