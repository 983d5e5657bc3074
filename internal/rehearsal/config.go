package rehearsal

import (
	"time"

	"github.com/okian/draftreveal/internal/domain/types"
)

// Config holds configuration for a rehearsal run.
type Config struct {
	BaseURL      string        // Base URL of the service
	LeagueSize   int           // Default roster size used for every session
	Samples      int           // Sessions generated for the fairness check
	Workers      int           // Number of concurrent workers for sampling
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between frame polls while playback runs
	OutputFile   string        // Transcript file for the full pass
	LogFile      string        // Log file for rehearsal output
	Verbose      bool          // Enable verbose logging
}

// Step is one line of the full-pass transcript.
type Step struct {
	Action    string `json:"action"`
	Applied   bool   `json:"applied"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Phase     string `json:"phase"`
	Cursor    int    `json:"cursor"`
	Position  int    `json:"position,omitempty"`
	Revealed  int    `json:"revealed"`
	Elapsed   string `json:"elapsed"`
}

func stepOf(action string, out types.Outcome, elapsed time.Duration) Step {
	s := Step{
		Action:    action,
		Applied:   out.Applied,
		Duplicate: out.Duplicate,
		Phase:     string(out.Frame.Phase),
		Cursor:    out.Frame.Cursor,
		Revealed:  out.Frame.Revealed,
		Elapsed:   elapsed.Round(time.Millisecond).String(),
	}
	if out.Frame.ActiveSlot != nil {
		s.Position = out.Frame.ActiveSlot.Position
	}
	return s
}

// Fairness summarizes how often each participant landed in each position.
type Fairness struct {
	Samples      int     `json:"samples"`
	Participants int     `json:"participants"`
	ChiSquare    float64 `json:"chi_square"`
	Critical     float64 `json:"critical"`
	MaxDeviation float64 `json:"max_deviation"`
	Counts       [][]int `json:"counts"`
}

// Stats holds rehearsal statistics.
type Stats struct {
	SessionsGenerated int
	SessionsFailed    int
	InputsSent        int
	InputsApplied     int
	Duplicates        int
	Polls             int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
