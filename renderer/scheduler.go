// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"github.com/scribblevk/scribble/sketch"
	"go.uber.org/zap"
)

// Target is the rendering backend the scheduler drives: per-slot fence
// waits, swapchain image acquire and present, command recording and
// submission, and wholesale swapchain rebuild. Canvas is the real
// implementation.
type Target interface {
	// SlotCount returns the number of frame slots (frames in flight).
	SlotCount() int

	// WaitFrame blocks until the slot's previous submission retired and
	// its command buffer is free to re-record.
	WaitFrame(slot int)

	// Acquire obtains the next presentable image for the slot. rebuild
	// reports that the surface went stale and the frame must be skipped
	// after a rebuild.
	Acquire(slot int) (imgIdx uint32, rebuild bool, err error)

	// WaitImage blocks until any older in-flight frame using the image
	// retires, then claims it for the slot.
	WaitImage(imgIdx uint32, slot int)

	// Record records the slot's command buffer drawing the given number
	// of segment instances to the image.
	Record(imgIdx uint32, slot int, instances int) error

	// Submit resets the slot fence and submits its command buffer.
	Submit(slot int) error

	// Present queues presentation of the image. rebuild reports a
	// suboptimal or stale surface; the frame still counts as presented.
	Present(imgIdx uint32, slot int) (rebuild bool, err error)

	// Rebuild tears down and recreates all swapchain-dependent objects
	// at the current surface extent.
	Rebuild() error

	// Destroy idles the device and releases all rendering resources.
	Destroy()
}

// Scheduler drives the per-frame acquire, record, submit, present cycle
// against a Target, streaming geometry from the log as it goes. All
// methods must be called from the single render thread.
type Scheduler struct {
	target Target
	log    *sketch.Log
	stream *Stream
	lg     *zap.Logger

	slot int

	// resizePending forces a swapchain rebuild at the start of the next
	// frame. Set by Resized and by a suboptimal present.
	resizePending bool

	// minimized suppresses rendering while the surface has zero area.
	minimized bool

	// committing drains one batch of the released stroke per frame until
	// the pending tail is empty. A stroke that outgrows the staging
	// capacity commits in fragments before release too; EndStroke only
	// closes it.
	committing bool

	// closed stops all frames; set once by Close.
	closed bool
}

// NewScheduler returns a scheduler driving the given target.
func NewScheduler(target Target, log *sketch.Log, stream *Stream, lg *zap.Logger) *Scheduler {
	return &Scheduler{target: target, log: log, stream: stream, lg: lg}
}

// EndStroke marks the in-progress stroke released. Its segments drain to
// the device buffer in staging-sized batches over the following frames.
func (sc *Scheduler) EndStroke() {
	sc.committing = true
}

// Close shuts the scheduler down: no further frames are accepted, then
// the target idles the device and destroys its resources. Safe to call
// more than once.
func (sc *Scheduler) Close() {
	if sc.closed {
		return
	}
	sc.closed = true
	sc.target.Destroy()
}

// Resized records a surface extent change. Zero area suppresses
// rendering until a non-zero extent arrives, which forces exactly one
// rebuild on the next frame.
func (sc *Scheduler) Resized(w, h int) {
	if w == 0 || h == 0 {
		sc.minimized = true
		return
	}
	sc.minimized = false
	sc.resizePending = true
}

// Render draws one frame. Stale-surface conditions are recovered
// internally by rebuilding and skipping the frame; capacity and device
// errors propagate to the caller as fatal.
func (sc *Scheduler) Render() error {
	if sc.closed || sc.minimized {
		return nil
	}
	if sc.resizePending {
		if err := sc.target.Rebuild(); err != nil {
			return err
		}
		sc.resizePending = false
	}

	sc.target.WaitFrame(sc.slot)

	// The slot fence has retired, so no in-flight copy can still read
	// the staging region; it is safe to rewrite. One batch commits per
	// frame: during the post-release drain, and whenever pending grows
	// past the staging capacity mid-stroke, so long strokes keep
	// landing in the device buffer while still being drawn.
	if sc.committing || sc.log.PendingLen() > sc.stream.StagingCap {
		if err := sc.stream.CommitBatch(sc.log); err != nil {
			return err
		}
		if sc.log.PendingLen() == 0 {
			sc.committing = false
		}
	}
	tail, err := sc.stream.StageTail(sc.log)
	if err != nil {
		return err
	}

	imgIdx, rebuild, err := sc.target.Acquire(sc.slot)
	if err != nil {
		return err
	}
	if rebuild {
		sc.lg.Debug("swapchain stale on acquire, rebuilding")
		return sc.target.Rebuild()
	}
	sc.target.WaitImage(imgIdx, sc.slot)

	instances := sc.log.CommittedSegments() + tail
	if err := sc.target.Record(imgIdx, sc.slot, instances); err != nil {
		return err
	}
	if err := sc.target.Submit(sc.slot); err != nil {
		return err
	}

	rebuild, err = sc.target.Present(imgIdx, sc.slot)
	if err != nil {
		return err
	}
	if rebuild {
		sc.lg.Debug("swapchain suboptimal on present, rebuild scheduled")
		sc.resizePending = true
	}

	sc.slot = (sc.slot + 1) % sc.target.SlotCount()
	return nil
}
