package reveal

import (
	"time"

	"github.com/okian/draftreveal/internal/domain/schedule"
	"github.com/okian/draftreveal/pkg/logger"
)

// Timing holds the playback delays.
type Timing struct {
	Settle      time.Duration // focus-top to caption and first tick
	Tick        time.Duration // spacing between countdown ticks and before the reveal
	Celebration time.Duration // champion celebration length
	Shake       time.Duration // screen shake length passed to effects
	Refocus     time.Duration // refocus of the revealed card after a countdown
}

// DefaultTiming returns the stock presentation timing.
func DefaultTiming() Timing {
	return Timing{
		Settle:      300 * time.Millisecond,
		Tick:        time.Second,
		Celebration: 3 * time.Second,
		Shake:       600 * time.Millisecond,
		Refocus:     time.Second,
	}
}

// DefaultCaptions returns the captions shown during top-3 countdowns.
func DefaultCaptions() map[int]string {
	return map[int]string{
		3: "THIRD OVERALL PICK",
		2: "SECOND OVERALL PICK",
		1: "FIRST OVERALL PICK",
	}
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithShuffler sets the roster shuffler.
func WithShuffler(s Shuffler) Option {
	return func(q *Sequencer) {
		if s != nil {
			q.shuffler = s
		}
	}
}

// WithEffects sets the effect trigger.
func WithEffects(e Effects) Option {
	return func(q *Sequencer) {
		if e != nil {
			q.effects = e
		}
	}
}

// WithFocuser sets the focus coordinator.
func WithFocuser(f Focuser) Option {
	return func(q *Sequencer) {
		if f != nil {
			q.focus = f
		}
	}
}

// WithObserver adds a projection observer.
func WithObserver(o Observer) Option {
	return func(q *Sequencer) {
		if o != nil {
			q.observers = append(q.observers, o)
		}
	}
}

// WithScheduler sets the timer source.
func WithScheduler(s schedule.Scheduler) Option {
	return func(q *Sequencer) {
		if s != nil {
			q.sched = s
		}
	}
}

// WithTiming overrides the playback delays. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(q *Sequencer) {
		if t.Settle > 0 {
			q.timing.Settle = t.Settle
		}
		if t.Tick > 0 {
			q.timing.Tick = t.Tick
		}
		if t.Celebration > 0 {
			q.timing.Celebration = t.Celebration
		}
		if t.Shake > 0 {
			q.timing.Shake = t.Shake
		}
		if t.Refocus > 0 {
			q.timing.Refocus = t.Refocus
		}
	}
}

// WithCaptions overrides captions by position. Missing positions keep their defaults.
func WithCaptions(c map[int]string) Option {
	return func(q *Sequencer) {
		for pos, text := range c {
			q.captions[pos] = text
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(q *Sequencer) {
		if l != nil {
			q.log = l
		}
	}
}
