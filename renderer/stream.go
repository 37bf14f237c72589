// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"errors"
	"fmt"

	"github.com/scribblevk/scribble/sketch"
)

// ErrCapacity is returned when committing a batch would push the total
// committed segment count past the device buffer capacity. There is no
// growth strategy; callers treat this as fatal.
var ErrCapacity = errors.New("segment buffer capacity exceeded")

// SegmentSink receives segment data on its way to the device buffer.
// WriteStaging overwrites the staging region from offset 0; CopyToDevice
// copies nseg staged segments to the device buffer at segment offset
// dstSeg, completing before it returns so the staging bytes are free to
// be rewritten.
type SegmentSink interface {
	WriteStaging(segs []sketch.Segment)
	CopyToDevice(dstSeg, nseg int) error
}

// Stream moves segments from a sketch log into device-resident storage
// in staging-capacity-sized batches, never transferring more than the
// staging capacity in one operation.
type Stream struct {
	// StagingCap is the staging region capacity in segments, and the
	// per-cycle batch size.
	StagingCap int

	// MaxSegments is the device buffer capacity in segments.
	MaxSegments int

	sink SegmentSink
}

// NewStream returns a Stream writing through the given sink.
func NewStream(sink SegmentSink, stagingCap, maxSegments int) *Stream {
	return &Stream{StagingCap: stagingCap, MaxSegments: maxSegments, sink: sink}
}

// StageTail streams the front of the uncommitted stroke to the device
// buffer at the current committed offset, without committing anything in
// the log. The copied range is provisional: it is either overwritten by
// the same data when the stroke commits, or abandoned. Returns the number
// of segments staged, to be added to the draw's instance count. Segments
// that would not fit in the device buffer are clamped off, not an error,
// since nothing is recorded.
func (st *Stream) StageTail(log *sketch.Log) (int, error) {
	tail := log.PendingFront(st.StagingCap)
	if len(tail) == 0 {
		return 0, nil
	}
	off := log.CommittedSegments()
	if room := st.MaxSegments - off; len(tail) > room {
		if room <= 0 {
			return 0, nil
		}
		tail = tail[:room]
	}
	st.sink.WriteStaging(tail)
	if err := st.sink.CopyToDevice(off, len(tail)); err != nil {
		return 0, err
	}
	return len(tail), nil
}

// CommitBatch commits up to StagingCap pending segments: stages them,
// copies them to the device buffer at the committed offset, and records
// them in the log. If the whole pending stroke fits in one batch the
// stroke is closed; otherwise a fragment is committed and the remainder
// stays pending for the next cycle. With nothing pending it only closes
// the stroke in the log. Returns ErrCapacity, with log and device buffer
// unchanged, if the batch would exceed MaxSegments.
func (st *Stream) CommitBatch(log *sketch.Log) error {
	n := log.PendingLen()
	if n == 0 {
		log.Commit()
		return nil
	}
	if n > st.StagingCap {
		n = st.StagingCap
	}
	off := log.CommittedSegments()
	if off+n > st.MaxSegments {
		return fmt.Errorf("%w: %d committed + %d batch > %d max",
			ErrCapacity, off, n, st.MaxSegments)
	}
	st.sink.WriteStaging(log.PendingFront(n))
	if err := st.sink.CopyToDevice(off, n); err != nil {
		return err
	}
	log.CommitFront(n)
	return nil
}
