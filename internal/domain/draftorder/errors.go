package draftorder

import "errors"

// Sentinel kinds for draft order operations.
var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrAlreadyRevealed    = errors.New("slot already revealed")
	ErrInvalidPermutation = errors.New("positions are not a permutation of 1..N")
)
