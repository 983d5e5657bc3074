// Package service wires the reveal domain into a runnable session service
// used by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/adapters/effects"
	"github.com/okian/draftreveal/internal/domain/dedupe"
	"github.com/okian/draftreveal/internal/domain/focus"
	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/reveal"
	"github.com/okian/draftreveal/internal/domain/roster"
	"github.com/okian/draftreveal/internal/domain/schedule"
	"github.com/okian/draftreveal/internal/domain/shuffle"
	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

// Service owns the current reveal session and the collaborators around it.
type Service struct {
	mu sync.RWMutex

	// Configuration
	timing       reveal.Timing
	captions     map[int]string
	sched        schedule.Scheduler
	shuffler     reveal.Shuffler
	queueSize    int
	dedupeSize   int
	leagueSize   int
	streamBuffer int
	layoutOpts   []focus.LayoutOption
	mountDelay   time.Duration
	retryDelay   time.Duration
	headerOffset float64
	builder      *roster.Builder

	// Components
	hub        *hub
	layout     *focus.Layout
	focus      *focus.Coordinator
	dispatcher *effects.Dispatcher
	deduper    dedupe.Deduper
	seq        *reveal.Sequencer

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTiming sets the presentation delays. Zero fields keep their defaults.
func WithTiming(t reveal.Timing) Option {
	return func(s *Service) { s.timing = t }
}

// WithCaptions overrides the dramatic captions by position.
func WithCaptions(c map[int]string) Option {
	return func(s *Service) { s.captions = c }
}

// WithScheduler sets the clock every timer runs on.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(s *Service) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithRandomizer sets the shuffler used for new sessions.
func WithRandomizer(sh reveal.Shuffler) Option {
	return func(s *Service) {
		if sh != nil {
			s.shuffler = sh
		}
	}
}

// WithQueueSize sets the cue queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the input idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLeagueSize sets the default roster size.
func WithLeagueSize(size int) Option {
	return func(s *Service) {
		if roster.SupportedSize(size) {
			s.leagueSize = size
		}
	}
}

// WithLayout sets the board geometry.
func WithLayout(opts ...focus.LayoutOption) Option {
	return func(s *Service) { s.layoutOpts = append(s.layoutOpts, opts...) }
}

// WithFocusTiming sets the focus mount delay, retry delay and header offset.
func WithFocusTiming(mount, retry time.Duration, headerOffset float64) Option {
	return func(s *Service) {
		s.mountDelay = mount
		s.retryDelay = retry
		s.headerOffset = headerOffset
	}
}

// WithStreamBuffer sets the per-subscriber message buffer.
func WithStreamBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.streamBuffer = n
		}
	}
}

// WithIDGenerator sets how missing participant ids are filled in.
func WithIDGenerator(g roster.IDGenerator) Option {
	return func(s *Service) { s.builder = roster.NewBuilder(roster.WithIDGenerator(g)) }
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		timing:       reveal.DefaultTiming(),
		sched:        schedule.Real{},
		queueSize:    256,
		dedupeSize:   dedupe.DefaultMaxSize,
		leagueSize:   roster.DefaultLeagueSize,
		streamBuffer: 64,
		mountDelay:   focus.DefaultMountDelay,
		retryDelay:   focus.DefaultRetryDelay,
		headerOffset: focus.DefaultHeaderOffset,
		builder:      roster.NewBuilder(),
		logger:       logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = shuffle.New(shuffle.WithLogger(s.logger.Named("shuffle")))
	}
	s.hub = newHub(s.streamBuffer)
	s.layout = focus.NewLayout(append(s.layoutOpts, focus.WithScrollHook(func(y float64) {
		s.hub.publish(types.ScrollMessage(y))
	}))...)
	s.focus = focus.New(s.layout,
		focus.WithScheduler(s.sched),
		focus.WithMountDelay(s.mountDelay),
		focus.WithRetryDelay(s.retryDelay),
		focus.WithHeaderOffset(s.headerOffset),
		focus.WithLogger(s.logger.Named("focus")),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting reveal service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.dispatcher = effects.NewDispatcher(
		effects.MultiSink{
			effects.LogSink{Logger: s.logger.Named("cues")},
			effects.FuncSink(func(_ context.Context, e model.CueEvent) error {
				s.hub.publish(types.CueMessage(e))
				return nil
			}),
		},
		effects.WithQueueSize(s.queueSize),
		effects.WithLogger(s.logger.Named("effects")),
	)
	s.dispatcher.Start(runCtx)
	s.cancel = cancel
	s.started = true

	metrics.UpdateQueueCapacity(s.queueSize)
	s.logger.Info(ctx, "reveal service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("leagueSize", s.leagueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping reveal service...")

	if s.seq != nil {
		s.seq.Close()
		s.seq = nil
	}
	s.focus.Cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.dispatcher.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "cue dispatcher did not drain", logger.Error(err))
	}
	s.cancel()
	s.hub.closeAll()

	s.started = false
	s.logger.Info(ctx, "reveal service stopped")
}

// DefaultRoster returns the stock league roster. A size of zero uses the configured league size.
func (s *Service) DefaultRoster(_ context.Context, size int) ([]model.Participant, error) {
	if size == 0 {
		size = s.leagueSize
	}
	return roster.Default(size)
}

// GenerateSession freezes participants, replaces any running session and
// returns the first frame.
func (s *Service) GenerateSession(ctx context.Context, participants []model.Participant) (types.Frame, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return types.Frame{}, ErrNotStarted
	}

	prepared, err := s.builder.Prepare(participants)
	if err != nil {
		s.mu.Unlock()
		return types.Frame{}, err
	}

	if s.seq != nil {
		s.seq.Close()
	}
	s.focus.Cancel()

	seq, err := reveal.New(prepared,
		reveal.WithShuffler(s.shuffler),
		reveal.WithEffects(s.dispatcher),
		reveal.WithFocuser(s.focus),
		reveal.WithObserver(reveal.ObserverFunc(s.onView)),
		reveal.WithScheduler(s.sched),
		reveal.WithTiming(s.timing),
		reveal.WithCaptions(s.captions),
		reveal.WithLogger(s.logger.Named("sequencer")),
	)
	if err != nil {
		s.seq = nil
		s.mu.Unlock()
		return types.Frame{}, err
	}
	s.seq = seq
	s.layout.Mount(len(prepared))
	s.deduper.Clear()
	s.mu.Unlock()

	frame := s.frameOf(seq)
	s.hub.publish(types.FrameMessage(frame))
	s.logger.Info(ctx, "session generated", logger.Int("participants", len(prepared)))
	return frame, nil
}

// Apply runs a named action against the current session.
func (s *Service) Apply(ctx context.Context, action string) (types.Outcome, error) {
	a, ok := types.ParseAction(action)
	if !ok {
		return types.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	seq, err := s.session()
	if err != nil {
		return types.Outcome{}, err
	}

	var applied bool
	switch a {
	case types.ActionStart:
		applied = seq.Press(reveal.InputStart)
	case types.ActionPrimary:
		applied = seq.Press(reveal.InputPrimary)
	case types.ActionAdvance:
		applied = seq.Press(reveal.InputAdvance)
	case types.ActionResetInput:
		applied = seq.Press(reveal.InputReset)
	case types.ActionReveal:
		applied = seq.Reveal()
	case types.ActionReset:
		applied = seq.Reset()
	}
	s.logger.Debug(ctx, "action handled", logger.String("action", action), logger.Bool("applied", applied))
	return types.Outcome{Applied: applied, Frame: s.frameOf(seq)}, nil
}

// HandleKey maps a key press onto the session. Unmapped keys are ignored.
func (s *Service) HandleKey(_ context.Context, key string) (types.Outcome, error) {
	seq, err := s.session()
	if err != nil {
		return types.Outcome{}, err
	}
	applied := seq.HandleKey(key)
	return types.Outcome{Applied: applied, Frame: s.frameOf(seq)}, nil
}

// Frame returns the current projection.
func (s *Service) Frame(_ context.Context) (types.Frame, error) {
	seq, err := s.session()
	if err != nil {
		return types.Frame{}, err
	}
	return s.frameOf(seq), nil
}

// FinalOrder returns the ascending board once the pass is complete.
func (s *Service) FinalOrder(_ context.Context) ([]types.Result, error) {
	seq, err := s.session()
	if err != nil {
		return nil, err
	}
	slots, err := seq.FinalOrder()
	if err != nil {
		return nil, err
	}
	return types.Results(slots), nil
}

// Subscribe returns a stream of frames, cues and scroll offsets. Call the
// returned func to unsubscribe. The channel closes when the service stops.
func (s *Service) Subscribe(_ context.Context) (<-chan types.Message, func()) {
	return s.hub.subscribe()
}

// SeenAndRecord atomically checks if an input request id was seen and records it if not.
// Returns true if the request was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordDuplicateInput()
	}
	return seen
}

// Unrecord removes a request id, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"session":       s.seq != nil,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"dedupeEntries": s.deduper.Size(),
		"leagueSize":    s.leagueSize,
		"streamClients": s.hub.clients(),
		"streamDropped": s.hub.droppedCount(),
		"scrollTop":     s.layout.ScrollY(),
	}
	if r, ok := s.shuffler.(*shuffle.Randomizer); ok {
		stats["entropyFallbacks"] = r.Fallbacks()
	}

	if s.started {
		pending := s.dispatcher.Pending()
		delivered, failed := s.dispatcher.Stats()
		stats["cuesPending"] = pending
		stats["cuesDelivered"] = delivered
		stats["cuesFailed"] = failed
		metrics.UpdateQueueSize(pending)
	}

	if s.seq != nil {
		v := s.seq.View()
		stats["phase"] = string(v.Phase)
		stats["cursor"] = v.Cursor
		stats["revealed"] = v.Revealed
		stats["total"] = v.Total
		stats["pass"] = v.Pass
		stats["pendingTimers"] = s.seq.PendingTimers()
	}
	return stats
}

func (s *Service) session() (*reveal.Sequencer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	if s.seq == nil {
		return nil, ErrNoSession
	}
	return s.seq, nil
}

func (s *Service) frameOf(seq *reveal.Sequencer) types.Frame {
	return types.Frame{View: seq.View(), ScrollTop: s.layout.ScrollY()}
}

// onView runs under the sequencer lock and must not call back into it.
func (s *Service) onView(v reveal.View) {
	s.hub.publish(types.FrameMessage(types.Frame{View: v, ScrollTop: s.layout.ScrollY()}))
}

// IsNotComplete reports whether err means the pass has not finished yet.
func IsNotComplete(err error) bool {
	return errors.Is(err, reveal.ErrNotComplete)
}
