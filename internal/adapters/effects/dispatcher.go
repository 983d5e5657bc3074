// Package effects turns sequencer effect triggers into cue events and
// delivers them asynchronously to the presentation layer.
package effects

import (
	"context"
	"time"

	"github.com/okian/draftreveal/internal/adapters/mq/queue"
	"github.com/okian/draftreveal/internal/adapters/mq/worker"
	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/pkg/logger"
)

// Dispatcher implements the sequencer's effect trigger. Each call becomes a
// cue on a bounded queue; a single worker hands cues to the sink in order.
// Calls never block: a full queue drops the cue.
type Dispatcher struct {
	queue  *queue.InMemoryQueue
	worker *worker.InMemoryWorker
	now    func() time.Time
	log    logger.Logger
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

type dispatcherConfig struct {
	capacity int
	now      func() time.Time
	log      logger.Logger
}

// WithQueueSize sets the cue queue capacity.
func WithQueueSize(n int) Option {
	return func(c *dispatcherConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock sets the timestamp source for cues.
func WithClock(now func() time.Time) Option {
	return func(c *dispatcherConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *dispatcherConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// NewDispatcher builds a dispatcher delivering to sink. Call Start to begin delivery.
func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	cfg := dispatcherConfig{capacity: 256, now: time.Now, log: logger.GetOrNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(cfg.capacity))
	return &Dispatcher{
		queue:  q,
		worker: worker.NewInMemoryWorker(q, sink, worker.WithName("cues"), worker.WithLogger(cfg.log)),
		now:    cfg.now,
		log:    cfg.log,
	}
}

// Start runs the delivery worker until ctx ends or Shutdown is called.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.worker.Run(ctx)
}

// Shutdown stops accepting cues and waits for queued ones to be delivered.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	return d.worker.Shutdown(ctx)
}

// Pending returns the number of queued cues.
func (d *Dispatcher) Pending() int { return d.queue.Len() }

// Stats returns delivered and failed cue counts.
func (d *Dispatcher) Stats() (delivered, failed uint64) { return d.worker.Stats() }

// OnCountdownTick implements reveal.Effects.
func (d *Dispatcher) OnCountdownTick(value int) {
	d.emit(model.CueEvent{Cue: model.CueCountdownTick, Value: value})
}

// OnCardReveal implements reveal.Effects.
func (d *Dispatcher) OnCardReveal() {
	d.emit(model.CueEvent{Cue: model.CueCardReveal})
}

// OnChampionCelebration implements reveal.Effects.
func (d *Dispatcher) OnChampionCelebration() {
	d.emit(model.CueEvent{Cue: model.CueChampionCelebration})
}

// OnButtonActivate implements reveal.Effects.
func (d *Dispatcher) OnButtonActivate() {
	d.emit(model.CueEvent{Cue: model.CueButtonActivate})
}

// OnScreenShake implements reveal.Effects.
func (d *Dispatcher) OnScreenShake(dur time.Duration) {
	d.emit(model.CueEvent{Cue: model.CueScreenShake, Duration: dur})
}

func (d *Dispatcher) emit(e model.CueEvent) {
	e.At = d.now()
	if !d.queue.Enqueue(context.Background(), e) {
		d.log.Debug(context.Background(), "cue dropped", logger.String("cue", string(e.Cue)))
	}
}
