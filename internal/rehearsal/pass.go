package rehearsal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/draftreveal/internal/domain/reveal"
	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// playPass generates a fresh session and plays it to the end with the
// primary action, checking the presentation invariants along the way.
func playPass(ctx context.Context, cfg *Config, stats *Stats) ([]Step, []types.Result, error) {
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	began := time.Now()
	var steps []Step

	frame, err := client.generate(ctx, cfg.LeagueSize)
	if err != nil {
		return nil, nil, fmt.Errorf("generate session: %w", err)
	}
	stats.SessionsGenerated++
	if err := verifyPermutation(frame, cfg.LeagueSize); err != nil {
		return nil, nil, err
	}

	// A double click on start must be applied once.
	id := uuid.NewString()
	first, err := client.actWithID(ctx, string(types.ActionStart), id)
	if err != nil {
		return nil, nil, err
	}
	second, err := client.actWithID(ctx, string(types.ActionStart), id)
	if err != nil {
		return nil, nil, err
	}
	stats.InputsSent += 2
	steps = append(steps, stepOf("start", first, time.Since(began)), stepOf("start", second, time.Since(began)))
	if !first.Applied || !second.Duplicate {
		return steps, nil, fmt.Errorf("start not applied exactly once (applied=%t duplicate=%t)", first.Applied, second.Duplicate)
	}
	stats.InputsApplied++
	stats.Duplicates++

	lastCursor := first.Frame.Cursor
	for i := 0; i < MaxInputs; i++ {
		out, err := client.act(ctx, string(types.ActionPrimary))
		if err != nil {
			return steps, nil, err
		}
		stats.InputsSent++
		if out.Applied {
			stats.InputsApplied++
		}
		steps = append(steps, stepOf("primary", out, time.Since(began)))
		logger.Get().Debug(ctx, "primary",
			logger.Bool("applied", out.Applied),
			logger.String("phase", string(out.Frame.Phase)),
			logger.Int("cursor", out.Frame.Cursor))

		frame, err = settle(ctx, client, cfg, stats, out.Frame)
		if err != nil {
			return steps, nil, err
		}
		if frame.Cursor < lastCursor {
			return steps, nil, fmt.Errorf("cursor moved backwards from %d to %d", lastCursor, frame.Cursor)
		}
		lastCursor = frame.Cursor
		if frame.Phase == reveal.PhaseComplete {
			break
		}
	}

	if err := verifyComplete(frame, cfg.LeagueSize); err != nil {
		return steps, nil, err
	}
	results, err := client.results(ctx)
	if err != nil {
		return steps, nil, err
	}
	if err := verifyResults(results, cfg.LeagueSize); err != nil {
		return steps, results, err
	}
	logger.Get().Info(ctx, "full pass verified",
		logger.Int("steps", len(steps)),
		logger.Duration("elapsed", time.Since(began)),
		logger.String("champion", results[0].Participant.Name))
	return steps, results, nil
}

// settle polls until countdown and celebration playback is over.
func settle(ctx context.Context, client *HTTPClient, cfg *Config, stats *Stats, f types.Frame) (types.Frame, error) {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for f.Phase.Busy() {
		select {
		case <-ctx.Done():
			return f, fmt.Errorf("playback did not settle: %w", ctx.Err())
		case <-ticker.C:
		}
		next, err := client.frame(ctx)
		if err != nil {
			return f, err
		}
		stats.Polls++
		f = next
	}
	return f, nil
}
