package effects

import (
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/domain/model"
)

// Recorder keeps every trigger in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []model.CueEvent
}

// Events returns a copy of the recorded cues.
func (r *Recorder) Events() []model.CueEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.CueEvent(nil), r.events...)
}

// Cues returns the recorded cue names in order.
func (r *Recorder) Cues() []model.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Cue, len(r.events))
	for i, e := range r.events {
		out[i] = e.Cue
	}
	return out
}

// Reset drops recorded cues.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *Recorder) add(e model.CueEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) OnCountdownTick(value int) {
	r.add(model.CueEvent{Cue: model.CueCountdownTick, Value: value})
}
func (r *Recorder) OnCardReveal() { r.add(model.CueEvent{Cue: model.CueCardReveal}) }
func (r *Recorder) OnChampionCelebration() {
	r.add(model.CueEvent{Cue: model.CueChampionCelebration})
}
func (r *Recorder) OnButtonActivate() { r.add(model.CueEvent{Cue: model.CueButtonActivate}) }
func (r *Recorder) OnScreenShake(d time.Duration) {
	r.add(model.CueEvent{Cue: model.CueScreenShake, Duration: d})
}

// Nop ignores every trigger.
type Nop struct{}

func (Nop) OnCountdownTick(int)         {}
func (Nop) OnCardReveal()               {}
func (Nop) OnChampionCelebration()      {}
func (Nop) OnButtonActivate()           {}
func (Nop) OnScreenShake(time.Duration) {}
