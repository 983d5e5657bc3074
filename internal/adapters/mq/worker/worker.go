// Package worker delivers queued effect cues to their sink.
// A single worker per queue keeps cues in trigger order.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

// Event abstracts what workers read off the queue.
type Event = model.CueEvent

// Deliverer hands a cue to the presentation side.
type Deliverer interface {
	Deliver(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue() <-chan Event
	Len() int
	Close() error
}

// Worker consumes a queue until it is closed or the context ends.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is closed and drained.
	Run(ctx context.Context)

	// Shutdown closes the queue and waits for the remaining cues to be delivered.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	deliverer Deliverer
	name      string

	delivered uint64
	failed    uint64
	mu        sync.Mutex

	done   chan struct{}
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(queue Queue, deliverer Deliverer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		deliverer: deliverer,
		name:      "cue-worker",
		done:      make(chan struct{}),
		logger:    logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.process(ctx, event)
		}
	}
}

// Shutdown closes the queue and waits for the loop to drain it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if err := w.queue.Close(); err != nil {
		w.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.Int("pending", w.queue.Len()))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns delivered and failed counts.
func (w *InMemoryWorker) Stats() (delivered, failed uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.delivered, w.failed
}

func (w *InMemoryWorker) process(ctx context.Context, event Event) {
	metrics.UpdateQueueSize(w.queue.Len())
	err := w.deliverer.Deliver(ctx, event)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failed++
		metrics.RecordError("worker", "deliver")
		w.logger.Error(ctx, "cue delivery failed",
			logger.String("cue", string(event.Cue)),
			logger.Error(err))
		return
	}
	w.delivered++
	var latency float64
	if !event.At.IsZero() {
		latency = float64(time.Since(event.At).Microseconds()) / 1000
	}
	metrics.RecordCueDispatched(string(event.Cue), latency)
}
