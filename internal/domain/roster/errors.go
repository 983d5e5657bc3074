package roster

import "errors"

// Sentinel kinds for roster validation.
var (
	ErrEmptyRoster           = errors.New("roster has no participants")
	ErrBlankName             = errors.New("every league member needs a name")
	ErrDuplicateID           = errors.New("duplicate participant id")
	ErrUnsupportedLeagueSize = errors.New("unsupported league size")
)
