// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"goki.dev/mat32/v2"
)

func TestSegmentReconstruction(t *testing.T) {
	pts := []struct {
		start, end mat32.Vec2
	}{
		{mat32.V2(0, 0), mat32.V2(0, 0.5)},
		{mat32.V2(-1, -1), mat32.V2(1, 1)},
		{mat32.V2(0.25, -0.75), mat32.V2(0.3, -0.7)},
	}
	for _, p := range pts {
		sg := NewSegment(p.start, p.end)
		assert.InDelta(t, p.start.X, sg.Start().X, 1e-6)
		assert.InDelta(t, p.start.Y, sg.Start().Y, 1e-6)
		assert.InDelta(t, p.end.X, sg.End().X, 1e-6)
		assert.InDelta(t, p.end.Y, sg.End().Y, 1e-6)
	}
}

func TestAppendVertexDebounce(t *testing.T) {
	lg := &Log{}
	lg.AppendVertex(mat32.V2(0, 0))       // anchor only
	lg.AppendVertex(mat32.V2(0, 0.0002))  // within epsilon of anchor
	assert.Equal(t, 0, lg.PendingLen())

	lg.AppendVertex(mat32.V2(0, 0.5))
	assert.Equal(t, 1, lg.PendingLen())
	sg := lg.PendingFront(1)[0]
	assert.InDelta(t, float32(0), sg.Start().Y, 1e-6)
	assert.InDelta(t, float32(0.5), sg.End().Y, 1e-6)

	// repeated points at the stroke end produce nothing new
	lg.AppendVertex(mat32.V2(0, 0.5))
	lg.AppendVertex(mat32.V2(0, 0.5005))
	assert.Equal(t, 1, lg.PendingLen())
}

func TestCommitAndUndo(t *testing.T) {
	lg := &Log{}
	lg.AppendVertex(mat32.V2(0, 0))
	lg.AppendVertex(mat32.V2(0.5, 0))
	lg.AppendVertex(mat32.V2(0.5, 0.5))
	assert.Equal(t, 2, lg.PendingLen())

	before := lg.CommittedSegments()
	lg.Commit()
	assert.Equal(t, 0, lg.PendingLen())
	assert.Equal(t, before+2, lg.CommittedSegments())
	assert.Len(t, lg.Strokes(), 1)

	lg.Undo()
	assert.Equal(t, before, lg.CommittedSegments())
	assert.Len(t, lg.Strokes(), 0)
}

func TestCommitEmptyPendingClearsAnchor(t *testing.T) {
	lg := &Log{}
	lg.AppendVertex(mat32.V2(0.1, 0.1)) // anchor only, no segment
	lg.Commit()
	assert.Equal(t, 0, lg.CommittedSegments())
	assert.Len(t, lg.Strokes(), 0)

	// a fresh stroke must re-anchor: first point after commit makes no segment
	lg.AppendVertex(mat32.V2(0.9, 0.9))
	assert.Equal(t, 0, lg.PendingLen())
	lg.AppendVertex(mat32.V2(0.8, 0.8))
	assert.Equal(t, 1, lg.PendingLen())
}

func TestUndoEmptyLogNoOp(t *testing.T) {
	lg := &Log{}
	lg.Undo()
	assert.Equal(t, 0, lg.CommittedSegments())

	lg.AppendVertex(mat32.V2(0, 0))
	lg.AppendVertex(mat32.V2(0.2, 0))
	lg.Undo() // still nothing committed; pending untouched
	assert.Equal(t, 1, lg.PendingLen())
}

func TestCommitFrontSplitsStroke(t *testing.T) {
	lg := &Log{}
	lg.AppendVertex(mat32.V2(0, 0))
	for i := 1; i <= 10; i++ {
		lg.AppendVertex(mat32.V2(float32(i)*0.05, 0))
	}
	assert.Equal(t, 10, lg.PendingLen())

	lg.CommitFront(4)
	assert.Equal(t, 6, lg.PendingLen())
	assert.Equal(t, 4, lg.CommittedSegments())

	lg.CommitFront(4)
	assert.Equal(t, 2, lg.PendingLen())
	assert.Equal(t, 8, lg.CommittedSegments())

	lg.CommitFront(4) // covers the rest; stroke closes
	assert.Equal(t, 0, lg.PendingLen())
	assert.Equal(t, 10, lg.CommittedSegments())

	// no segment duplicated, reordered, or dropped across the fragments
	var all Stroke
	for _, st := range lg.Strokes() {
		all = append(all, st...)
	}
	assert.Len(t, all, 10)
	for i, sg := range all {
		assert.InDelta(t, float32(i)*0.05, sg.Start().X, 1e-6)
		assert.InDelta(t, float32(i+1)*0.05, sg.End().X, 1e-6)
	}
}
