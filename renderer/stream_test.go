// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"goki.dev/mat32/v2"

	"github.com/scribblevk/scribble/sketch"
)

// fakeSink simulates the staging region and device buffer in host memory.
type fakeSink struct {
	staging []sketch.Segment
	device  []sketch.Segment
	copies  int
	failAll bool
}

func newFakeSink(maxSegments int) *fakeSink {
	return &fakeSink{device: make([]sketch.Segment, maxSegments)}
}

func (fk *fakeSink) WriteStaging(segs []sketch.Segment) {
	fk.staging = append(fk.staging[:0], segs...)
}

func (fk *fakeSink) CopyToDevice(dstSeg, nseg int) error {
	if fk.failAll {
		return assert.AnError
	}
	copy(fk.device[dstSeg:], fk.staging[:nseg])
	fk.copies++
	return nil
}

// drawLine appends nseg+1 points spaced well above the debounce distance,
// producing nseg pending segments.
func drawLine(lg *sketch.Log, nseg int) {
	for i := 0; i <= nseg; i++ {
		lg.AppendVertex(mat32.V2(0, float32(i)*0.01))
	}
}

func TestCommitBatchSplitsAcrossCycles(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 10)
	want := lg.PendingFront(10)

	fk := newFakeSink(100)
	st := NewStream(fk, 4, 100)

	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 4, lg.CommittedSegments())
	assert.Equal(t, 6, lg.PendingLen())

	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 8, lg.CommittedSegments())
	assert.Equal(t, 2, lg.PendingLen())

	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 10, lg.CommittedSegments())
	assert.Equal(t, 0, lg.PendingLen())

	// nothing duplicated, reordered or dropped on the device
	assert.Equal(t, want, fk.device[:10])
	assert.Equal(t, 3, fk.copies)
}

func TestCommitBatchWholeStrokeFits(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 3)

	fk := newFakeSink(100)
	st := NewStream(fk, 8, 100)

	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 3, lg.CommittedSegments())
	assert.Equal(t, 0, lg.PendingLen())
	assert.Len(t, lg.Strokes(), 1)
}

func TestCommitBatchEmptyPendingOnlyClosesStroke(t *testing.T) {
	lg := &sketch.Log{}
	lg.AppendVertex(mat32.V2(0.1, 0.1)) // anchor only, no segment

	fk := newFakeSink(100)
	st := NewStream(fk, 4, 100)

	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 0, lg.CommittedSegments())
	assert.Equal(t, 0, fk.copies)

	// the anchor was cleared: the next point anchors a new stroke
	lg.AppendVertex(mat32.V2(0.5, 0.5))
	assert.Equal(t, 0, lg.PendingLen())
}

func TestCommitBatchCapacityGuard(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 4)

	fk := newFakeSink(3)
	st := NewStream(fk, 4, 3)

	err := st.CommitBatch(lg)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 0, lg.CommittedSegments())
	assert.Equal(t, 4, lg.PendingLen())
	assert.Equal(t, 0, fk.copies)
}

func TestCommitBatchCopyErrorLeavesLogUnchanged(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 2)

	fk := newFakeSink(100)
	fk.failAll = true
	st := NewStream(fk, 4, 100)

	assert.Error(t, st.CommitBatch(lg))
	assert.Equal(t, 0, lg.CommittedSegments())
	assert.Equal(t, 2, lg.PendingLen())
}

func TestStageTailDoesNotCommit(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 6)

	fk := newFakeSink(100)
	st := NewStream(fk, 4, 100)

	n, err := st.StageTail(lg)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, lg.CommittedSegments())
	assert.Equal(t, 6, lg.PendingLen())
	assert.Equal(t, lg.PendingFront(4), fk.device[:4])
}

func TestStageTailEmptyPending(t *testing.T) {
	lg := &sketch.Log{}
	fk := newFakeSink(100)
	st := NewStream(fk, 4, 100)

	n, err := st.StageTail(lg)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, fk.copies)
}

func TestStageTailClampsAtCapacity(t *testing.T) {
	lg := &sketch.Log{}
	drawLine(lg, 5)

	fk := newFakeSink(8)
	st := NewStream(fk, 4, 8)

	// fill the device buffer to 6 of 8
	assert.NoError(t, st.CommitBatch(lg))
	assert.NoError(t, st.CommitBatch(lg))
	assert.Equal(t, 5, lg.CommittedSegments())

	drawLine(lg, 5)
	n, err := st.StageTail(lg)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}
