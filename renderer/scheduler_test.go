// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/scribblevk/scribble/sketch"
)

// fakeTarget records scheduler calls and returns scripted acquire and
// present results.
type fakeTarget struct {
	slots int
	calls []string

	staleAcquire   bool
	suboptPresent  bool
	rebuilds       int
	recorded       []int // instance count per Record call
	lastRecordSlot int
}

func newFakeTarget(slots int) *fakeTarget {
	return &fakeTarget{slots: slots}
}

func (ft *fakeTarget) SlotCount() int { return ft.slots }

func (ft *fakeTarget) WaitFrame(slot int) {
	ft.calls = append(ft.calls, "wait")
}

func (ft *fakeTarget) Acquire(slot int) (uint32, bool, error) {
	ft.calls = append(ft.calls, "acquire")
	if ft.staleAcquire {
		ft.staleAcquire = false
		return 0, true, nil
	}
	return 0, false, nil
}

func (ft *fakeTarget) WaitImage(imgIdx uint32, slot int) {
	ft.calls = append(ft.calls, "waitImage")
}

func (ft *fakeTarget) Record(imgIdx uint32, slot int, instances int) error {
	ft.calls = append(ft.calls, "record")
	ft.recorded = append(ft.recorded, instances)
	ft.lastRecordSlot = slot
	return nil
}

func (ft *fakeTarget) Submit(slot int) error {
	ft.calls = append(ft.calls, "submit")
	return nil
}

func (ft *fakeTarget) Present(imgIdx uint32, slot int) (bool, error) {
	ft.calls = append(ft.calls, "present")
	if ft.suboptPresent {
		ft.suboptPresent = false
		return true, nil
	}
	return false, nil
}

func (ft *fakeTarget) Rebuild() error {
	ft.calls = append(ft.calls, "rebuild")
	ft.rebuilds++
	return nil
}

func (ft *fakeTarget) Destroy() {
	ft.calls = append(ft.calls, "destroy")
}

func newTestScheduler(ft *fakeTarget, maxSegments, stagingCap int) (*Scheduler, *sketch.Log, *fakeSink) {
	lg := &sketch.Log{}
	fk := newFakeSink(maxSegments)
	st := NewStream(fk, stagingCap, maxSegments)
	return NewScheduler(ft, lg, st, zap.NewNop()), lg, fk
}

func TestRenderFrameCycle(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	assert.NoError(t, sc.Render())
	assert.Equal(t, []string{"wait", "acquire", "waitImage", "record", "submit", "present"}, ft.calls)

	// slots cycle modulo the slot count
	assert.NoError(t, sc.Render())
	assert.Equal(t, 1, ft.lastRecordSlot)
	assert.NoError(t, sc.Render())
	assert.Equal(t, 0, ft.lastRecordSlot)
}

func TestRenderDrawsUncommittedTail(t *testing.T) {
	ft := newFakeTarget(2)
	sc, lg, _ := newTestScheduler(ft, 100, 4)

	drawLine(lg, 3)
	assert.NoError(t, sc.Render())
	assert.Equal(t, []int{3}, ft.recorded)
	assert.Equal(t, 0, lg.CommittedSegments())
}

func TestLongStrokeCommitsAtThreshold(t *testing.T) {
	ft := newFakeTarget(2)
	sc, lg, fk := newTestScheduler(ft, 100, 4)

	// pointer still down: no EndStroke, pending outgrows the staging cap
	drawLine(lg, 6)
	want := lg.PendingFront(6)

	assert.NoError(t, sc.Render())
	assert.Equal(t, 4, lg.CommittedSegments())
	assert.Equal(t, 2, lg.PendingLen())
	assert.Equal(t, []int{6}, ft.recorded)

	// nothing further to commit; the remainder stays staged and drawn
	assert.NoError(t, sc.Render())
	assert.Equal(t, 4, lg.CommittedSegments())
	assert.Equal(t, []int{6, 6}, ft.recorded)
	assert.Equal(t, want, fk.device[:6])

	// the stroke is still open: release closes it and drains the rest
	sc.EndStroke()
	assert.NoError(t, sc.Render())
	assert.Equal(t, 6, lg.CommittedSegments())
	assert.Equal(t, 0, lg.PendingLen())
}

func TestEndStrokeDrainsInBatches(t *testing.T) {
	ft := newFakeTarget(2)
	sc, lg, _ := newTestScheduler(ft, 100, 2)

	drawLine(lg, 5)
	sc.EndStroke()

	assert.NoError(t, sc.Render())
	assert.Equal(t, 2, lg.CommittedSegments())
	assert.NoError(t, sc.Render())
	assert.Equal(t, 4, lg.CommittedSegments())
	assert.NoError(t, sc.Render())
	assert.Equal(t, 5, lg.CommittedSegments())
	assert.Equal(t, 0, lg.PendingLen())

	// fully drained: the next frame commits nothing further
	assert.NoError(t, sc.Render())
	assert.Equal(t, 5, lg.CommittedSegments())
}

func TestDrainKeepsRemainderVisible(t *testing.T) {
	ft := newFakeTarget(2)
	sc, lg, _ := newTestScheduler(ft, 100, 2)

	drawLine(lg, 5)
	sc.EndStroke()

	// every drain frame draws committed plus the staged un-drained tail,
	// so no part of the stroke disappears mid-drain
	assert.NoError(t, sc.Render())
	assert.NoError(t, sc.Render())
	assert.NoError(t, sc.Render())
	assert.Equal(t, []int{4, 5, 5}, ft.recorded)
	assert.Equal(t, 5, lg.CommittedSegments())
}

func TestCloseStopsFramesAndDestroys(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	assert.NoError(t, sc.Render())
	sc.Close()
	assert.Equal(t, "destroy", ft.calls[len(ft.calls)-1])

	// no frames are accepted after close, and close is idempotent
	n := len(ft.calls)
	assert.NoError(t, sc.Render())
	sc.Close()
	assert.Len(t, ft.calls, n)
}

func TestMinimizeSuppressesRendering(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	sc.Resized(0, 0)
	assert.NoError(t, sc.Render())
	assert.NoError(t, sc.Render())
	assert.Empty(t, ft.calls)
}

func TestRestoreAfterMinimizeRebuildsOnce(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	sc.Resized(0, 0)
	assert.NoError(t, sc.Render())
	assert.Equal(t, 0, ft.rebuilds)

	sc.Resized(800, 600)
	assert.NoError(t, sc.Render())
	assert.Equal(t, 1, ft.rebuilds)
	assert.Equal(t, []string{"rebuild", "wait", "acquire", "waitImage", "record", "submit", "present"}, ft.calls)

	// the rebuild does not repeat on the following frame
	assert.NoError(t, sc.Render())
	assert.Equal(t, 1, ft.rebuilds)
}

func TestStaleAcquireRebuildsAndSkipsFrame(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	ft.staleAcquire = true
	assert.NoError(t, sc.Render())
	assert.Equal(t, []string{"wait", "acquire", "rebuild"}, ft.calls)
	assert.Empty(t, ft.recorded)
}

func TestSuboptimalPresentSchedulesRebuild(t *testing.T) {
	ft := newFakeTarget(2)
	sc, _, _ := newTestScheduler(ft, 100, 4)

	ft.suboptPresent = true
	assert.NoError(t, sc.Render())
	assert.Equal(t, 0, ft.rebuilds)

	assert.NoError(t, sc.Render())
	assert.Equal(t, 1, ft.rebuilds)
}

func TestCapacityErrorPropagates(t *testing.T) {
	ft := newFakeTarget(2)
	sc, lg, _ := newTestScheduler(ft, 3, 4)

	drawLine(lg, 4)
	sc.EndStroke()
	err := sc.Render()
	assert.ErrorIs(t, err, ErrCapacity)
}
