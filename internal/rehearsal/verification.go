package rehearsal

import (
	"fmt"

	"github.com/okian/draftreveal/internal/domain/reveal"
	"github.com/okian/draftreveal/internal/domain/types"
)

// verifyPermutation checks that a frame deals positions 1..n exactly once
// each to n distinct participants, highest position first.
func verifyPermutation(f types.Frame, n int) error {
	if len(f.Slots) != n {
		return fmt.Errorf("frame has %d slots, want %d", len(f.Slots), n)
	}
	positions := make(map[int]bool, n)
	ids := make(map[string]bool, n)
	for i, slot := range f.Slots {
		if slot.Position < 1 || slot.Position > n || positions[slot.Position] {
			return fmt.Errorf("position %d is out of range or repeated", slot.Position)
		}
		if ids[slot.Participant.ID] {
			return fmt.Errorf("participant %q dealt twice", slot.Participant.ID)
		}
		if want := n - i; slot.Position != want {
			return fmt.Errorf("slot %d holds position %d, want %d", i, slot.Position, want)
		}
		positions[slot.Position] = true
		ids[slot.Participant.ID] = true
	}
	return nil
}

// verifyComplete checks the final frame of a pass.
func verifyComplete(f types.Frame, n int) error {
	if f.Phase != reveal.PhaseComplete {
		return fmt.Errorf("pass ended in phase %s", f.Phase)
	}
	if f.Revealed != n {
		return fmt.Errorf("%d of %d cards revealed", f.Revealed, n)
	}
	for _, slot := range f.Slots {
		if !slot.Revealed {
			return fmt.Errorf("position %d never revealed", slot.Position)
		}
	}
	return verifyPermutation(f, n)
}

// verifyResults checks that the final board is ascending with one champion on top.
func verifyResults(results []types.Result, n int) error {
	if len(results) != n {
		return fmt.Errorf("results have %d rows, want %d", len(results), n)
	}
	for i, r := range results {
		if r.Position != i+1 {
			return fmt.Errorf("row %d holds position %d", i, r.Position)
		}
		if r.Champion != (r.Position == 1) {
			return fmt.Errorf("champion flag wrong at position %d", r.Position)
		}
	}
	return nil
}

// verifyFairness fails when the chi-square statistic exceeds the critical value.
func verifyFairness(f *Fairness) error {
	if f.Critical > 0 && f.ChiSquare > f.Critical {
		return fmt.Errorf("chi-square %.2f exceeds critical value %.2f over %d samples",
			f.ChiSquare, f.Critical, f.Samples)
	}
	return nil
}
