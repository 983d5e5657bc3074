package rehearsal

import "time"

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultPollInterval  = 50 * time.Millisecond
	MaxInputs            = 1000
	PercentageMultiplier = 100
)
