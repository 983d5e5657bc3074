package schedule

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Callbacks only run inside Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m    *Manual
	due  time.Time
	seq  uint64
	fn   func()
	done bool
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, running due callbacks in order of due
// time then scheduling order. Callbacks scheduled by a callback run in the
// same call if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()
	for {
		m.mu.Lock()
		t := m.popDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.due
		m.mu.Unlock()
		t.fn()
	}
}

// Pending returns the number of callbacks waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// popDue must be called with mu held.
func (m *Manual) popDue(target time.Time) *manualTimer {
	best := -1
	for i, t := range m.timers {
		if t.due.After(target) {
			continue
		}
		if best < 0 || t.due.Before(m.timers[best].due) ||
			(t.due.Equal(m.timers[best].due) && t.seq < m.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := m.timers[best]
	m.timers = append(m.timers[:best], m.timers[best+1:]...)
	t.done = true
	return t
}

func (t *manualTimer) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range t.m.timers {
		if other == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			break
		}
	}
	return true
}
