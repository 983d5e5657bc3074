package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/draftreveal/internal/adapters/http/api"
	"github.com/okian/draftreveal/internal/adapters/http/swagger"
	app "github.com/okian/draftreveal/internal/app"
	"github.com/okian/draftreveal/internal/config"
	"github.com/okian/draftreveal/internal/domain/focus"
	"github.com/okian/draftreveal/internal/domain/reveal"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	registerRuntimeCollectors(metrics.GetRegistry())

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "draftreveal exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, serves the API until ctx ends and shuts down gracefully.
func run(ctx context.Context) error {
	loggerInstance := logger.Get()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := serviceOptions(cfg)
	if err != nil {
		return err
	}
	svc := app.New(append(opts, app.WithLogger(loggerInstance))...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithLogger(loggerInstance.Named("api"))).Register(ctx, mux)

	// No WriteTimeout: the stream endpoint holds connections open.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config) ([]app.Option, error) {
	captions, err := cfg.CaptionMap()
	if err != nil {
		return nil, err
	}
	return []app.Option{
		app.WithLeagueSize(cfg.LeagueSize),
		app.WithQueueSize(cfg.CueQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithStreamBuffer(cfg.StreamBuffer),
		app.WithCaptions(captions),
		app.WithTiming(reveal.Timing{
			Settle:      config.Millis(cfg.SettleDelayMS),
			Tick:        config.Millis(cfg.TickIntervalMS),
			Celebration: config.Millis(cfg.CelebrationMS),
			Shake:       config.Millis(cfg.ShakeMS),
			Refocus:     config.Millis(cfg.RefocusDelayMS),
		}),
		app.WithFocusTiming(config.Millis(cfg.MountDelayMS), config.Millis(cfg.FocusRetryDelayMS), cfg.HeaderOffset),
		app.WithLayout(
			focus.WithBoardTop(cfg.BoardTop),
			focus.WithCardHeight(cfg.CardHeight),
			focus.WithCardGap(cfg.CardGap),
		),
	}, nil
}

// registerRuntimeCollectors adds Go runtime and process metrics to reg.
func registerRuntimeCollectors(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				logger.Get().Warn(context.Background(), "collector not registered", logger.Error(err))
			}
		}
	}
}

// startServiceMetricsUpdater refreshes gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if pending, ok := stats["cuesPending"].(int); ok {
		metrics.UpdateQueueSize(pending)
	}
	if clients, ok := stats["streamClients"].(int); ok {
		metrics.UpdateStreamClients(clients)
	}
	if timers, ok := stats["pendingTimers"].(int); ok {
		metrics.UpdatePendingTimers(timers)
	}
}
