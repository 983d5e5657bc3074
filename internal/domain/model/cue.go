package model

import "time"

// Cue names an audio/visual effect the presentation layer plays.
type Cue string

const (
	CueCountdownTick       Cue = "countdown_tick"
	CueCardReveal          Cue = "card_reveal"
	CueChampionCelebration Cue = "champion_celebration"
	CueButtonActivate      Cue = "button_activate"
	CueScreenShake         Cue = "screen_shake"
)

// CueEvent is one fire-and-forget effect trigger.
type CueEvent struct {
	Cue      Cue           `json:"cue"`
	Value    int           `json:"value,omitempty"`    // countdown value for ticks
	Duration time.Duration `json:"duration,omitempty"` // effect length where the cue has one
	At       time.Time     `json:"at"`
}
