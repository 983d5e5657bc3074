// Package draftorder holds the positioned, reveal-tracked draft order.
// An Order is an immutable snapshot: every change returns a new value.
package draftorder

import (
	"fmt"
	"slices"

	"github.com/okian/draftreveal/internal/domain/model"
)

// Order is an immutable list of draft slots.
type Order struct {
	slots []model.DraftSlot
}

// New assigns position index+1 to each shuffled participant, all unrevealed.
func New(shuffled []model.Participant) Order {
	slots := make([]model.DraftSlot, len(shuffled))
	for i, p := range shuffled {
		slots[i] = model.DraftSlot{Participant: p, Position: i + 1}
	}
	return Order{slots: slots}
}

// Len returns the number of slots.
func (o Order) Len() int { return len(o.slots) }

// Slots returns a copy of the slots in generation order.
func (o Order) Slots() []model.DraftSlot {
	return slices.Clone(o.slots)
}

// SortForReveal returns the slots by descending position, so position 1 comes last.
func (o Order) SortForReveal() []model.DraftSlot {
	out := slices.Clone(o.slots)
	slices.SortFunc(out, func(a, b model.DraftSlot) int { return b.Position - a.Position })
	return out
}

// FinalOrder returns the slots by ascending position.
func (o Order) FinalOrder() []model.DraftSlot {
	out := slices.Clone(o.slots)
	slices.SortFunc(out, func(a, b model.DraftSlot) int { return a.Position - b.Position })
	return out
}

// Slot returns the slot for a participant id.
func (o Order) Slot(id string) (model.DraftSlot, bool) {
	i := o.index(id)
	if i < 0 {
		return model.DraftSlot{}, false
	}
	return o.slots[i], true
}

// MarkRevealed returns a new snapshot with exactly the slot for id revealed.
// The receiver is never modified.
func (o Order) MarkRevealed(id string) (Order, error) {
	i := o.index(id)
	if i < 0 {
		return o, fmt.Errorf("%w: %q", ErrSlotNotFound, id)
	}
	if o.slots[i].Revealed {
		return o, fmt.Errorf("%w: %q", ErrAlreadyRevealed, id)
	}
	next := slices.Clone(o.slots)
	next[i].Revealed = true
	return Order{slots: next}, nil
}

// RevealedCount returns how many slots are revealed.
func (o Order) RevealedCount() int {
	n := 0
	for _, s := range o.slots {
		if s.Revealed {
			n++
		}
	}
	return n
}

// AllRevealed reports whether every slot is revealed. An empty order is not.
func (o Order) AllRevealed() bool {
	return len(o.slots) > 0 && o.RevealedCount() == len(o.slots)
}

// Validate checks that positions form a permutation of 1..N.
func (o Order) Validate() error {
	seen := make([]bool, len(o.slots)+1)
	for _, s := range o.slots {
		if s.Position < 1 || s.Position > len(o.slots) || seen[s.Position] {
			return fmt.Errorf("%w: position %d", ErrInvalidPermutation, s.Position)
		}
		seen[s.Position] = true
	}
	return nil
}

func (o Order) index(id string) int {
	return slices.IndexFunc(o.slots, func(s model.DraftSlot) bool { return s.Participant.ID == id })
}
