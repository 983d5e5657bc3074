package rehearsal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Transcript is written after a successful rehearsal.
type Transcript struct {
	BaseURL    string         `json:"base_url"`
	LeagueSize int            `json:"league_size"`
	Fairness   *Fairness      `json:"fairness,omitempty"`
	Steps      []Step         `json:"steps"`
	Results    []types.Result `json:"results"`
}

// Run executes the complete rehearsal.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	logger.Get().Info(ctx, "starting draft reveal rehearsal",
		logger.String("baseURL", config.BaseURL),
		logger.Int("leagueSize", config.LeagueSize),
		logger.Int("samples", config.Samples),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	transcript := &Transcript{BaseURL: config.BaseURL, LeagueSize: config.LeagueSize}

	// Step 2: Fairness sampling
	if config.Samples > 0 {
		fairness, err := sampleFairness(ctx, config, stats)
		if err != nil {
			return fmt.Errorf("fairness sampling failed: %w", err)
		}
		transcript.Fairness = fairness
		logger.Get().Info(ctx, "fairness",
			logger.Int("samples", fairness.Samples),
			logger.Float64("chiSquare", fairness.ChiSquare),
			logger.Float64("critical", fairness.Critical),
			logger.Float64("maxDeviationPct", fairness.MaxDeviation*PercentageMultiplier))
		if err := verifyFairness(fairness); err != nil {
			return fmt.Errorf("fairness check failed: %w", err)
		}
	}

	// Step 3: Full pass
	steps, results, err := playPass(ctx, config, stats)
	transcript.Steps = steps
	transcript.Results = results
	if err != nil {
		if saveErr := saveTranscript(ctx, config, transcript); saveErr != nil {
			logger.Get().Warn(ctx, "failed to save transcript", logger.Error(saveErr))
		}
		return fmt.Errorf("full pass failed: %w", err)
	}

	// Step 4: Transcript
	if err := saveTranscript(ctx, config, transcript); err != nil {
		logger.Get().Warn(ctx, "failed to save transcript", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "rehearsal completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")
	if err := newHTTPClient(config.BaseURL, config.Timeout).health(ctx); err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveTranscript writes the transcript as indented JSON.
func saveTranscript(ctx context.Context, config *Config, t *Transcript) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "rehearsal_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	logger.Get().Info(ctx, "transcript saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final rehearsal statistics.
func displayFinalStats(stats *Stats) {
	var appliedRate float64
	if stats.InputsSent > 0 {
		appliedRate = float64(stats.InputsApplied) / float64(stats.InputsSent) * PercentageMultiplier
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsGenerated", stats.SessionsGenerated),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("inputsSent", stats.InputsSent),
		logger.Int("inputsApplied", stats.InputsApplied),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("polls", stats.Polls),
		logger.Duration("duration", stats.Duration),
		logger.Float64("appliedRate", appliedRate))
}
