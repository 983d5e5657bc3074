package effects

import (
	"context"
	"errors"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/pkg/logger"
)

// Sink receives delivered cues.
type Sink interface {
	Deliver(ctx context.Context, e model.CueEvent) error
}

// FuncSink adapts a function to Sink.
type FuncSink func(ctx context.Context, e model.CueEvent) error

// Deliver implements Sink.
func (f FuncSink) Deliver(ctx context.Context, e model.CueEvent) error { return f(ctx, e) }

// LogSink writes each cue as a structured log entry.
type LogSink struct {
	Logger logger.Logger
}

// Deliver implements Sink.
func (s LogSink) Deliver(ctx context.Context, e model.CueEvent) error {
	fields := []logger.Field{logger.String("cue", string(e.Cue))}
	if e.Value != 0 {
		fields = append(fields, logger.Int("value", e.Value))
	}
	if e.Duration != 0 {
		fields = append(fields, logger.Duration("duration", e.Duration))
	}
	s.Logger.Debug(ctx, "cue", fields...)
	return nil
}

// MultiSink fans a cue out to every sink and joins their errors.
type MultiSink []Sink

// Deliver implements Sink.
func (m MultiSink) Deliver(ctx context.Context, e model.CueEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
