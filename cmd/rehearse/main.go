package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/draftreveal/internal/domain/roster"
	"github.com/okian/draftreveal/internal/rehearsal"
)

// Default configuration constants.
const (
	defaultSamples     = 2000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		league     = flag.Int("league", roster.DefaultLeagueSize, "League size for the default roster")
		samples    = flag.Int("samples", defaultSamples, "Sessions generated for the fairness check")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		poll       = flag.Duration("poll", rehearsal.DefaultPollInterval, "Frame poll interval while playback runs")
		outputFile = flag.String("output", "", "Transcript file (default: rehearsal_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file (default: rehearsal_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rehearsal.ShowHelp()
		return
	}

	if err := rehearsal.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &rehearsal.Config{
		BaseURL:      *baseURL,
		LeagueSize:   *league,
		Samples:      *samples,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: *poll,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := rehearsal.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Rehearsal failed: " + err.Error() + "\n")
		stop()
		cancel()
		os.Exit(1)
	}
}
