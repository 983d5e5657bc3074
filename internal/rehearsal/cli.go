package rehearsal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/draftreveal/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "rehearsal_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the rehearsal tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Draft Reveal Rehearsal
======================

Drives a running draftreveal service end to end before the real draft night.

Steps:
  1. health check
  2. fairness sampling over many generated sessions
  3. one full reveal pass through the action API, with invariant checks
  4. transcript of the pass written to a JSON file

Usage:
  go run ./cmd/rehearse [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -league int
        League size for the default roster (default 12)
  -samples int
        Sessions generated for the fairness check (default 2000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -poll duration
        Frame poll interval while playback runs (default 50ms)
  -output string
        Transcript file (default: rehearsal_TIMESTAMP.json)
  -log string
        Log file (default: rehearsal_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/rehearse -league 10 -samples 5000
  go run ./cmd/rehearse -url http://localhost:8080 -verbose
`)
}
