// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sketch records freehand strokes as line segments in normalized
// device coordinates, [-1,1] on both axes.
package sketch

import "goki.dev/mat32/v2"

// MinSegmentDist is the minimum distance between successive input points:
// points closer than this to the current stroke end are debounced and do
// not produce a segment, so jittery input never yields degenerate geometry.
const MinSegmentDist = 1e-3

// Segment is the minimal drawable unit: one line segment stored as the
// midpoint of its two endpoints plus the direction vector (end - start).
// The endpoints are reconstructed as Center ± Dir/2. This is also the
// per-instance wire format consumed by the vertex shader, which expands
// each segment into a screen-space quad.
type Segment struct {
	Center mat32.Vec2
	Dir    mat32.Vec2
}

// NewSegment returns the segment spanning start to end.
func NewSegment(start, end mat32.Vec2) Segment {
	return Segment{Center: start.Add(end).MulScalar(0.5), Dir: end.Sub(start)}
}

// Start returns the reconstructed start endpoint, Center - Dir/2.
func (sg Segment) Start() mat32.Vec2 {
	return sg.Center.Sub(sg.Dir.MulScalar(0.5))
}

// End returns the reconstructed end endpoint, Center + Dir/2.
func (sg Segment) End() mat32.Vec2 {
	return sg.Center.Add(sg.Dir.MulScalar(0.5))
}

// Stroke is one continuous drawn path from pointer press to release,
// as an ordered sequence of segments.
type Stroke []Segment
