// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sketch

import (
	"sync"

	"goki.dev/mat32/v2"
)

// Log is the append-only, in-memory record of committed strokes, plus the
// pending uncommitted stroke currently being drawn. Committed strokes only
// grow by appending whole strokes, and only shrink from the end via Undo.
// Input appends and the render thread drains, so all methods lock.
type Log struct {
	mu sync.Mutex

	// committed strokes in draw order.
	committed []Stroke

	// pending is the in-progress stroke, accumulating segments until
	// it is committed or the batch threshold drains part of it.
	pending Stroke

	// anchor holds the first point of a new stroke, recorded before any
	// segment exists, so the first segment spans anchor to the second point.
	anchor    mat32.Vec2
	hasAnchor bool

	// nseg is the running total of segments across committed strokes.
	nseg int
}

// AppendVertex extends the pending stroke toward point p. The first point
// of a stroke only anchors it; any point closer than MinSegmentDist to the
// current stroke end is dropped. Always succeeds.
func (lg *Log) AppendVertex(p mat32.Vec2) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if n := len(lg.pending); n > 0 {
		last := lg.pending[n-1].End()
		if last.DistTo(p) > MinSegmentDist {
			lg.pending = append(lg.pending, NewSegment(last, p))
		}
		return
	}
	if lg.hasAnchor {
		if lg.anchor.DistTo(p) > MinSegmentDist {
			lg.pending = append(lg.pending, NewSegment(lg.anchor, p))
		}
		return
	}
	lg.anchor = p
	lg.hasAnchor = true
}

// Commit finalizes the pending stroke, moving it whole into the committed
// log and clearing the anchor. An empty pending stroke is abandoned: no
// empty stroke is ever recorded, only the anchor is cleared.
func (lg *Log) Commit() {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	lg.hasAnchor = false
	if len(lg.pending) == 0 {
		return
	}
	lg.committed = append(lg.committed, lg.pending)
	lg.nseg += len(lg.pending)
	lg.pending = nil
}

// CommitFront moves the first n pending segments into the committed log.
// If n covers all of pending the stroke is closed: pending is cleared and
// the anchor reset. Otherwise the segments become a committed stroke
// fragment and the remainder stays pending for the next commit cycle.
// Input appends only extend the tail of pending, so the drained front is
// stable even if an append lands between the caller's snapshot and this.
func (lg *Log) CommitFront(n int) {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if n <= 0 {
		return
	}
	if n >= len(lg.pending) {
		n = len(lg.pending)
		lg.hasAnchor = false
	}
	frag := make(Stroke, n)
	copy(frag, lg.pending[:n])
	lg.committed = append(lg.committed, frag)
	lg.nseg += n
	lg.pending = append(lg.pending[:0], lg.pending[n:]...)
	if len(lg.pending) == 0 {
		lg.pending = nil
	}
}

// Undo removes the most recently committed stroke. A no-op when nothing
// has been committed. Pending is never touched.
func (lg *Log) Undo() {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	n := len(lg.committed)
	if n == 0 {
		return
	}
	lg.nseg -= len(lg.committed[n-1])
	lg.committed = lg.committed[:n-1]
}

// CommittedSegments returns the total segment count across all committed
// strokes. This is both the device buffer write offset for the next batch
// and the committed instance count for drawing.
func (lg *Log) CommittedSegments() int {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return lg.nseg
}

// PendingLen returns the number of segments in the pending stroke.
func (lg *Log) PendingLen() int {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	return len(lg.pending)
}

// PendingFront returns a copy of up to max leading pending segments.
func (lg *Log) PendingFront(max int) []Segment {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	n := len(lg.pending)
	if n > max {
		n = max
	}
	front := make([]Segment, n)
	copy(front, lg.pending[:n])
	return front
}

// Strokes returns a copy of the committed stroke list. The strokes
// themselves are shared and must not be mutated by the caller.
func (lg *Log) Strokes() []Stroke {
	lg.mu.Lock()
	defer lg.mu.Unlock()
	sts := make([]Stroke, len(lg.committed))
	copy(sts, lg.committed)
	return sts
}
