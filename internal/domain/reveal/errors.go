package reveal

import "errors"

// Sentinel kinds for session construction and results.
var (
	ErrEmptyRoster          = errors.New("reveal needs at least one participant")
	ErrDuplicateParticipant = errors.New("duplicate participant id")
	ErrNotComplete          = errors.New("reveal pass is not complete")
)
