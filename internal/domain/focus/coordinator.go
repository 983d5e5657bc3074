// Package focus keeps the active draft card in view below a fixed header.
// Focusing is best effort: a card that never mounts is skipped silently.
package focus

import (
	"context"
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/domain/schedule"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

// Defaults.
const (
	DefaultMountDelay   = 150 * time.Millisecond
	DefaultRetryDelay   = 300 * time.Millisecond
	DefaultHeaderOffset = 360.0
)

// Viewport is the scrollable surface holding the cards.
type Viewport interface {
	// ScrollY returns the current scroll offset.
	ScrollY() float64
	// ElementTop returns the top of card index relative to the visible area,
	// or false when the card is not mounted yet.
	ElementTop(index int) (float64, bool)
	// ScrollTo moves the viewport to offset y.
	ScrollTo(y float64)
}

// Coordinator turns focus requests into scroll offsets.
type Coordinator struct {
	mu           sync.Mutex
	vp           Viewport
	sched        schedule.Scheduler
	timers       *schedule.Group
	mountDelay   time.Duration
	retryDelay   time.Duration
	headerOffset float64
	epoch        uint64
	log          logger.Logger
}

// New returns a Coordinator driving vp.
func New(vp Viewport, opts ...Option) *Coordinator {
	c := &Coordinator{
		vp:           vp,
		sched:        schedule.Real{},
		mountDelay:   DefaultMountDelay,
		retryDelay:   DefaultRetryDelay,
		headerOffset: DefaultHeaderOffset,
		log:          logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timers = schedule.NewGroup(c.sched)
	return c
}

// FocusSlot scrolls card index below the header once it has had time to mount.
// A newer request replaces any pending one.
func (c *Coordinator) FocusSlot(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.after(c.mountDelay, func() { c.attempt(index, true) })
}

// FocusTop scrolls to the top of the board immediately.
func (c *Coordinator) FocusTop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.vp.ScrollTo(0)
}

// Cancel drops pending focus work.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

// Offset returns the scroll offset that puts a card with the given relative top below the header.
func (c *Coordinator) Offset(scrollY, top float64) float64 {
	return max(0, scrollY+top-c.headerOffset)
}

func (c *Coordinator) cancel() {
	c.timers.CancelAll()
	c.epoch++
}

func (c *Coordinator) after(d time.Duration, fn func()) {
	epoch := c.epoch
	c.timers.Schedule(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if epoch != c.epoch {
			return
		}
		fn()
	})
}

func (c *Coordinator) attempt(index int, retry bool) {
	top, ok := c.vp.ElementTop(index)
	if ok {
		c.vp.ScrollTo(c.Offset(c.vp.ScrollY(), top))
		metrics.RecordFocusRequest(metrics.FocusScrolled)
		return
	}
	if retry {
		metrics.RecordFocusRequest(metrics.FocusRetried)
		c.after(c.retryDelay, func() { c.attempt(index, false) })
		return
	}
	metrics.RecordFocusRequest(metrics.FocusGaveUp)
	c.log.Debug(context.Background(), "card never mounted, focus skipped", logger.Int("index", index))
}
