// Package reveal implements the draft order reveal state machine.
//
// A Sequencer walks the shuffled order from the last pick to the first.
// Positions 1-3 get a timed countdown before their card flips, and the first
// overall pick is followed by a celebration. All delays go through a
// cancellable timer group; Reset and Close cancel it and bump an epoch so a
// callback that already fired cannot touch the new session.
//
// Guard failures are silent: a transition that is not allowed returns false
// and changes nothing.
package reveal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/domain/draftorder"
	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/schedule"
	"github.com/okian/draftreveal/internal/domain/shuffle"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

const (
	// DramaticThreshold is the lowest position that still gets a countdown.
	DramaticThreshold = 3
	// CountdownStart is the first countdown value; ticks run down to 1.
	CountdownStart = 3
)

// Sequencer owns one reveal session.
// Effects, focus and observer callbacks run while the sequencer lock is held.
type Sequencer struct {
	mu sync.Mutex

	participants []model.Participant
	shuffler     Shuffler
	effects      Effects
	focus        Focuser
	observers    []Observer
	sched        schedule.Scheduler
	timers       *schedule.Group
	timing       Timing
	captions     map[int]string
	log          logger.Logger

	order    draftorder.Order
	playback []string // participant ids, highest position first
	cursor   int
	phase    Phase
	count    int
	caption  string
	epoch    uint64
	pass     int
	closed   bool
}

// New validates the roster, shuffles it and returns an idle session.
func New(participants []model.Participant, opts ...Option) (*Sequencer, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	s := &Sequencer{
		participants: append([]model.Participant(nil), participants...),
		effects:      nopEffects{},
		focus:        nopFocuser{},
		sched:        schedule.Real{},
		timing:       DefaultTiming(),
		captions:     DefaultCaptions(),
		log:          logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = shuffle.New(shuffle.WithLogger(s.log))
	}
	s.timers = schedule.NewGroup(s.sched)
	s.deal()
	s.pass = 1
	metrics.RecordSessionGenerated(len(s.participants))
	return s, nil
}

// deal shuffles a fresh order and rewinds to idle.
func (s *Sequencer) deal() {
	shuffled := s.shuffler.Shuffle(s.participants)
	if !sameRoster(shuffled, s.participants) {
		s.log.Error(context.Background(), "shuffler changed the roster, using the default randomizer",
			logger.Int("expected", len(s.participants)), logger.Int("got", len(shuffled)))
		shuffled = shuffle.New(shuffle.WithLogger(s.log)).Shuffle(s.participants)
	}
	s.order = draftorder.New(shuffled)
	s.playback = s.playback[:0]
	for _, slot := range s.order.SortForReveal() {
		s.playback = append(s.playback, slot.Participant.ID)
	}
	s.cursor = -1
	s.phase = PhaseIdle
	s.count = 0
	s.caption = ""
}

func sameRoster(got, want []model.Participant) bool {
	if len(got) != len(want) {
		return false
	}
	ids := make(map[string]int, len(want))
	for _, p := range want {
		ids[p.ID]++
	}
	for _, p := range got {
		ids[p.ID]--
		if ids[p.ID] < 0 {
			return false
		}
	}
	return true
}

// Start begins the pass at the last pick. Only valid when idle.
func (s *Sequencer) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run("start", s.canStart(), s.start)
}

// Reveal flips the active card, through a countdown for the top three.
// Ignored unless the active card is waiting to be revealed.
func (s *Sequencer) Reveal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run("reveal", s.canReveal(), s.reveal)
}

// Advance moves to the next card, or completes the pass after the last one.
// Ignored unless the active card is revealed and no playback is running.
func (s *Sequencer) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run("advance", s.canAdvance(), s.advance)
}

// Reset cancels pending playback, reshuffles and returns to idle.
// Valid from any phase.
func (s *Sequencer) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run("reset", !s.closed, s.reset)
}

// Press applies a user input and plays the button cue when it takes effect.
func (s *Sequencer) Press(in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok, fn := s.resolve(in)
	if ok {
		s.effects.OnButtonActivate()
	}
	return s.run(name, ok, fn)
}

// PrimaryAction reveals the active card, or advances when it is already revealed.
func (s *Sequencer) PrimaryAction() bool { return s.Press(InputPrimary) }

// ResetInput resets unless a countdown is running.
func (s *Sequencer) ResetInput() bool { return s.Press(InputReset) }

// HandleKey maps a key press to an input. Unknown keys are ignored.
func (s *Sequencer) HandleKey(key string) bool {
	in, ok := KeyInput(key)
	if !ok {
		return false
	}
	return s.Press(in)
}

// View returns the current projection.
func (s *Sequencer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// FinalOrder returns the slots by ascending position once the pass is complete.
func (s *Sequencer) FinalOrder() ([]model.DraftSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseComplete {
		return nil, ErrNotComplete
	}
	return s.order.FinalOrder(), nil
}

// Participants returns the frozen roster in entry order.
func (s *Sequencer) Participants() []model.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Participant(nil), s.participants...)
}

// PendingTimers returns the number of scheduled playback callbacks.
func (s *Sequencer) PendingTimers() int {
	return s.timers.Pending()
}

// Close cancels pending playback. Every later transition is ignored.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelPlayback()
}

func (s *Sequencer) resolve(in Input) (string, bool, func()) {
	switch in {
	case InputStart:
		return "start", s.canStart(), s.start
	case InputAdvance:
		return "advance", s.canAdvance(), s.advance
	case InputReset:
		return "reset", !s.closed && s.phase != PhaseCountdown, s.reset
	case InputPrimary:
		if s.canReveal() {
			return "reveal", true, s.reveal
		}
		return "advance", s.canAdvance(), s.advance
	}
	return string(in), false, nil
}

func (s *Sequencer) run(name string, ok bool, fn func()) bool {
	outcome := metrics.OutcomeApplied
	if !ok {
		outcome = metrics.OutcomeIgnored
	}
	metrics.RecordTransition(name, outcome)
	if !ok {
		s.log.Debug(context.Background(), "transition ignored",
			logger.String("transition", name),
			logger.String("phase", string(s.phase)),
			logger.Int("cursor", s.cursor))
		return false
	}
	fn()
	return true
}

func (s *Sequencer) canStart() bool {
	return !s.closed && s.phase == PhaseIdle
}

func (s *Sequencer) canReveal() bool {
	if s.closed || s.phase != PhaseAwaitingReveal {
		return false
	}
	slot, ok := s.active()
	return ok && !slot.Revealed
}

func (s *Sequencer) canAdvance() bool {
	if s.closed || s.phase != PhaseAwaitingReveal {
		return false
	}
	slot, ok := s.active()
	return ok && slot.Revealed
}

func (s *Sequencer) active() (model.DraftSlot, bool) {
	if s.cursor < 0 || s.cursor >= len(s.playback) {
		return model.DraftSlot{}, false
	}
	return s.order.Slot(s.playback[s.cursor])
}

func (s *Sequencer) start() {
	s.cursor = 0
	s.phase = PhaseAwaitingReveal
	metrics.UpdateCursor(s.cursor)
	s.focus.FocusSlot(s.cursor)
	s.notify()
}

func (s *Sequencer) reveal() {
	slot, _ := s.active()
	if slot.Dramatic(DramaticThreshold) {
		s.beginCountdown(slot)
		return
	}
	s.flip(slot)
}

func (s *Sequencer) beginCountdown(slot model.DraftSlot) {
	s.phase = PhaseCountdown
	s.focus.FocusTop()
	s.notify()
	s.after(s.timing.Settle, func() { s.tick(slot, CountdownStart) })
}

func (s *Sequencer) tick(slot model.DraftSlot, value int) {
	if s.phase != PhaseCountdown {
		return
	}
	if value == CountdownStart {
		s.caption = s.captions[slot.Position]
	}
	s.count = value
	s.effects.OnCountdownTick(value)
	metrics.RecordCountdownTick()
	s.notify()
	if value > 1 {
		s.after(s.timing.Tick, func() { s.tick(slot, value-1) })
		return
	}
	s.after(s.timing.Tick, func() { s.finishCountdown(slot) })
}

func (s *Sequencer) finishCountdown(slot model.DraftSlot) {
	if s.phase != PhaseCountdown {
		return
	}
	s.count = 0
	s.caption = ""
	s.flip(slot)
	s.after(s.timing.Refocus, func() {
		if s.cursor >= 0 {
			s.focus.FocusSlot(s.cursor)
		}
	})
}

// flip is the immediate reveal: mark, shake, reveal cue, then celebrate the champion.
func (s *Sequencer) flip(slot model.DraftSlot) {
	next, err := s.order.MarkRevealed(slot.Participant.ID)
	if err != nil {
		s.log.Debug(context.Background(), "reveal skipped", logger.Error(err))
		s.phase = PhaseAwaitingReveal
		s.notify()
		return
	}
	s.order = next
	s.effects.OnScreenShake(s.timing.Shake)
	s.effects.OnCardReveal()
	if slot.Dramatic(DramaticThreshold) {
		metrics.RecordReveal(metrics.TierDramatic)
	} else {
		metrics.RecordReveal(metrics.TierStandard)
	}

	if !slot.Champion() {
		s.phase = PhaseAwaitingReveal
		s.notify()
		return
	}
	s.phase = PhaseCelebrating
	s.effects.OnChampionCelebration()
	metrics.RecordCelebration()
	s.notify()
	s.after(s.timing.Celebration, func() {
		if s.phase == PhaseCelebrating {
			s.phase = PhaseAwaitingReveal
			s.notify()
		}
	})
}

func (s *Sequencer) advance() {
	if s.cursor+1 < len(s.playback) {
		s.cursor++
		s.phase = PhaseAwaitingReveal
		metrics.UpdateCursor(s.cursor)
		s.focus.FocusSlot(s.cursor)
	} else {
		s.phase = PhaseComplete
		s.log.Info(context.Background(), "reveal pass complete",
			logger.Int("pass", s.pass), logger.Int("participants", len(s.playback)))
	}
	s.notify()
}

func (s *Sequencer) reset() {
	s.cancelPlayback()
	s.deal()
	s.pass++
	metrics.RecordReset()
	s.notify()
}

func (s *Sequencer) cancelPlayback() {
	s.timers.CancelAll()
	s.epoch++
	s.focus.Cancel()
	metrics.UpdatePendingTimers(0)
}

// after runs fn under the lock once d has elapsed, unless the epoch moved on.
func (s *Sequencer) after(d time.Duration, fn func()) {
	epoch := s.epoch
	s.timers.Schedule(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			s.log.Debug(context.Background(), "stale timer dropped")
			return
		}
		fn()
		metrics.UpdatePendingTimers(s.timers.Pending())
	})
	metrics.UpdatePendingTimers(s.timers.Pending())
}

func (s *Sequencer) notify() {
	if len(s.observers) == 0 {
		return
	}
	v := s.view()
	for _, o := range s.observers {
		o.OnView(v)
	}
}

func (s *Sequencer) view() View {
	slots := make([]model.DraftSlot, 0, len(s.playback))
	for _, id := range s.playback {
		slot, _ := s.order.Slot(id)
		slots = append(slots, slot)
	}
	v := View{
		Cursor:          s.cursor,
		Phase:           s.phase,
		Slots:           slots,
		CountdownValue:  s.count,
		DramaticCaption: s.caption,
		Total:           len(slots),
		Revealed:        s.order.RevealedCount(),
		Pass:            s.pass,
	}
	if s.cursor >= 0 && s.cursor < len(slots) {
		active := slots[s.cursor]
		v.ActiveSlot = &active
	}
	return v
}
