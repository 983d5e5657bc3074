package reveal

import (
	"time"

	"github.com/okian/draftreveal/internal/domain/model"
)

// Effects receives fire-and-forget audio/visual triggers.
// Implementations must not block and must not call back into the Sequencer.
type Effects interface {
	OnCountdownTick(value int)
	OnCardReveal()
	OnChampionCelebration()
	OnButtonActivate()
	OnScreenShake(d time.Duration)
}

// Focuser keeps the active slot in view.
type Focuser interface {
	// FocusSlot scrolls slot index (in playback order) below the header.
	FocusSlot(index int)
	// FocusTop scrolls to the top of the board.
	FocusTop()
	// Cancel drops any pending focus work.
	Cancel()
}

// Observer receives the projection after every transition.
type Observer interface {
	OnView(View)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(View)

// OnView implements Observer.
func (f ObserverFunc) OnView(v View) { f(v) }

// Shuffler permutes the roster.
type Shuffler interface {
	Shuffle(participants []model.Participant) []model.Participant
}

type nopEffects struct{}

func (nopEffects) OnCountdownTick(int)         {}
func (nopEffects) OnCardReveal()               {}
func (nopEffects) OnChampionCelebration()      {}
func (nopEffects) OnButtonActivate()           {}
func (nopEffects) OnScreenShake(time.Duration) {}

type nopFocuser struct{}

func (nopFocuser) FocusSlot(int) {}
func (nopFocuser) FocusTop()     {}
func (nopFocuser) Cancel()       {}
