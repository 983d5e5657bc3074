package focus

import (
	"time"

	"github.com/okian/draftreveal/internal/domain/schedule"
	"github.com/okian/draftreveal/pkg/logger"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithScheduler sets the timer source.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithMountDelay sets the wait before the first lookup of a card.
func WithMountDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.mountDelay = d
		}
	}
}

// WithRetryDelay sets the wait before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// WithHeaderOffset sets the height of the fixed header the card must clear.
func WithHeaderOffset(px float64) Option {
	return func(c *Coordinator) {
		if px >= 0 {
			c.headerOffset = px
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}
