// Package types contains the shapes exchanged with the presentation layer.
package types

import (
	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/reveal"
)

// Frame is one rendered state of the reveal board.
type Frame struct {
	reveal.View
	ScrollTop float64 `json:"scroll_top"`
}

// MessageType tags stream messages.
type MessageType string

const (
	MessageFrame  MessageType = "frame"
	MessageCue    MessageType = "cue"
	MessageScroll MessageType = "scroll"
)

// Message is one item on the presentation stream.
type Message struct {
	Type      MessageType     `json:"type"`
	Frame     *Frame          `json:"frame,omitempty"`
	Cue       *model.CueEvent `json:"cue,omitempty"`
	ScrollTop *float64        `json:"scroll_top,omitempty"`
}

// FrameMessage wraps a frame.
func FrameMessage(f Frame) Message { return Message{Type: MessageFrame, Frame: &f} }

// CueMessage wraps an effect cue.
func CueMessage(c model.CueEvent) Message { return Message{Type: MessageCue, Cue: &c} }

// ScrollMessage wraps a scroll offset.
func ScrollMessage(y float64) Message { return Message{Type: MessageScroll, ScrollTop: &y} }

// Action names a transition requested over the API.
type Action string

const (
	ActionStart      Action = "start"
	ActionReveal     Action = "reveal"
	ActionPrimary    Action = "primary"
	ActionAdvance    Action = "advance"
	ActionReset      Action = "reset"
	ActionResetInput Action = "reset_input"
)

// Actions lists every accepted action.
var Actions = []Action{ActionStart, ActionReveal, ActionPrimary, ActionAdvance, ActionReset, ActionResetInput}

// ParseAction validates an action name.
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// Result is one row of the final draft board.
type Result struct {
	Position    int               `json:"position"`
	Participant model.Participant `json:"participant"`
	Champion    bool              `json:"champion"`
}

// Results converts ascending slots into result rows.
func Results(slots []model.DraftSlot) []Result {
	out := make([]Result, len(slots))
	for i, s := range slots {
		out[i] = Result{Position: s.Position, Participant: s.Participant, Champion: s.Champion()}
	}
	return out
}

// Outcome answers an input request. Ignored inputs are not errors.
type Outcome struct {
	Applied   bool  `json:"applied"`
	Duplicate bool  `json:"duplicate,omitempty"`
	Frame     Frame `json:"frame"`
}
