// Package schedule provides cancellable delayed callbacks.
package schedule

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel stops the callback. It returns false if the callback already ran
	// or was already cancelled.
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// Real schedules on the wall clock using time.AfterFunc.
type Real struct{}

// Schedule implements Scheduler.
func (Real) Schedule(d time.Duration, fn func()) Handle {
	return realHandle{t: time.AfterFunc(d, fn)}
}

type realHandle struct{ t *time.Timer }

func (h realHandle) Cancel() bool { return h.t.Stop() }

// Group tracks the live handles created through it so they can be cancelled together.
type Group struct {
	mu      sync.Mutex
	sched   Scheduler
	next    uint64
	handles map[uint64]Handle
}

// NewGroup returns a Group over sched.
func NewGroup(sched Scheduler) *Group {
	return &Group{sched: sched, handles: make(map[uint64]Handle)}
}

// Schedule runs fn after d unless the handle or the group is cancelled first.
func (g *Group) Schedule(d time.Duration, fn func()) Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	// The callback blocks on g.mu until the handle is stored.
	inner := g.sched.Schedule(d, func() {
		g.forget(id)
		fn()
	})
	g.handles[id] = inner
	return &groupHandle{g: g, id: id, inner: inner}
}

// CancelAll cancels every pending callback and returns how many were stopped.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for id, h := range g.handles {
		if h.Cancel() {
			n++
		}
		delete(g.handles, id)
	}
	return n
}

// Pending returns the number of callbacks not yet run or cancelled.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}

func (g *Group) forget(id uint64) {
	g.mu.Lock()
	delete(g.handles, id)
	g.mu.Unlock()
}

type groupHandle struct {
	g     *Group
	id    uint64
	inner Handle
}

func (h *groupHandle) Cancel() bool {
	ok := h.inner.Cancel()
	h.g.forget(h.id)
	return ok
}
