// Package model contains domain models passed between layers.
package model

// Participant is a league member taking part in the draft.
// Fields are frozen once a session is generated.
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Motto      string `json:"motto,omitempty"`
	Prediction string `json:"prediction,omitempty"`
}

// DraftSlot pairs a participant with its draft position.
// Position 1 is the first overall pick and is revealed last.
type DraftSlot struct {
	Participant Participant `json:"participant"`
	Position    int         `json:"position"`
	Revealed    bool        `json:"revealed"`
}

// Dramatic reports whether the slot gets the countdown treatment.
func (s DraftSlot) Dramatic(threshold int) bool {
	return s.Position <= threshold
}

// Champion reports whether the slot is the first overall pick.
func (s DraftSlot) Champion() bool {
	return s.Position == 1
}
