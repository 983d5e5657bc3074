package rehearsal

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// zCritical is the standard normal quantile for p = 0.001.
const zCritical = 3.09

// sampleFairness generates cfg.Samples sessions concurrently and tallies the
// position each participant was dealt.
func sampleFairness(ctx context.Context, cfg *Config, stats *Stats) (*Fairness, error) {
	logger.Get().Info(ctx, "sampling shuffles",
		logger.Int("samples", cfg.Samples), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	t := newTally(cfg.LeagueSize)

	var (
		generated int64
		failed    int64
		firstErr  error
		errOnce   sync.Once
	)

	jobs := make(chan struct{}, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				frame, err := client.generate(ctx, cfg.LeagueSize)
				if err == nil {
					err = t.add(frame)
				}
				if err != nil {
					atomic.AddInt64(&failed, 1)
					errOnce.Do(func() { firstErr = err })
					continue
				}
				atomic.AddInt64(&generated, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Samples; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- struct{}{}:
			}
		}
	}()
	wg.Wait()

	stats.SessionsGenerated += int(generated)
	stats.SessionsFailed += int(failed)
	if generated == 0 {
		if firstErr == nil {
			firstErr = ctx.Err()
		}
		return nil, fmt.Errorf("no sessions generated: %w", firstErr)
	}
	if failed > 0 {
		logger.Get().Warn(ctx, "some sessions failed", logger.Int("failed", int(failed)), logger.Error(firstErr))
	}
	return t.summary(), nil
}

// tally counts participant-by-position outcomes.
type tally struct {
	mu      sync.Mutex
	n       int
	samples int
	index   map[string]int
	counts  [][]int
}

func newTally(n int) *tally {
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}
	return &tally{n: n, index: make(map[string]int, n), counts: counts}
}

func (t *tally) add(f types.Frame) error {
	if err := verifyPermutation(f, t.n); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, slot := range f.Slots {
		i, ok := t.index[slot.Participant.ID]
		if !ok {
			if len(t.index) == t.n {
				return fmt.Errorf("unexpected participant %q", slot.Participant.ID)
			}
			i = len(t.index)
			t.index[slot.Participant.ID] = i
		}
		t.counts[i][slot.Position-1]++
	}
	t.samples++
	return nil
}

func (t *tally) summary() *Fairness {
	t.mu.Lock()
	defer t.mu.Unlock()

	f := &Fairness{Samples: t.samples, Participants: t.n, Counts: t.counts}
	if t.samples == 0 || t.n < 2 {
		return f
	}
	expected := float64(t.samples) / float64(t.n)
	for _, row := range t.counts {
		for _, observed := range row {
			d := float64(observed) - expected
			f.ChiSquare += d * d / expected
			dev := math.Abs(float64(observed)/float64(t.samples) - 1/float64(t.n))
			f.MaxDeviation = math.Max(f.MaxDeviation, dev)
		}
	}
	f.Critical = chiSquareCritical(float64((t.n - 1) * (t.n - 1)))
	return f
}

// chiSquareCritical approximates the upper critical value for df degrees of
// freedom with the Wilson-Hilferty transform.
func chiSquareCritical(df float64) float64 {
	k := 2 / (9 * df)
	return df * math.Pow(1-k+zCritical*math.Sqrt(k), 3)
}
