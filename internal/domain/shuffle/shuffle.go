// Package shuffle produces uniformly random draft orders.
package shuffle

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/pkg/logger"
	"github.com/okian/draftreveal/pkg/metrics"
)

// Fallback is a non-cryptographic 32-bit generator.
type Fallback interface {
	Uint32() uint32
}

// Randomizer is a Fisher-Yates shuffler over a CSPRNG with a PRNG fallback.
// It never fails: a primary read error degrades that single draw to the fallback.
type Randomizer struct {
	mu        sync.Mutex
	source    io.Reader
	fallback  Fallback
	log       logger.Logger
	fallbacks uint64
}

// New returns a Randomizer reading from crypto/rand.
func New(opts ...Option) *Randomizer {
	now := uint64(time.Now().UnixNano())
	z := &Randomizer{
		source:   rand.Reader,
		fallback: mrand.New(mrand.NewPCG(now, now>>17|1)),
		log:      logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Shuffle returns a uniformly random permutation of participants.
// The input slice is left untouched.
func (z *Randomizer) Shuffle(participants []model.Participant) []model.Participant {
	out := make([]model.Participant, len(participants))
	copy(out, participants)
	z.permute(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Permutation returns a random permutation of 0..n-1.
func (z *Randomizer) Permutation(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	z.permute(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Fallbacks returns how many draws were served by the fallback generator.
func (z *Randomizer) Fallbacks() uint64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.fallbacks
}

func (z *Randomizer) permute(n int, swap func(i, j int)) {
	z.mu.Lock()
	defer z.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		swap(i, scale(z.draw(), i+1))
	}
}

// scale maps a uniform 32-bit value onto [0, n): floor(u / 2^32 * n).
func scale(u uint32, n int) int {
	return int((uint64(u) * uint64(n)) >> 32)
}

// draw must be called with mu held.
func (z *Randomizer) draw() uint32 {
	var buf [4]byte
	_, err := io.ReadFull(z.source, buf[:])
	if err == nil {
		return binary.LittleEndian.Uint32(buf[:])
	}
	if z.fallbacks == 0 {
		z.log.Warn(context.Background(), "entropy source unavailable, using fallback generator", logger.Error(err))
	} else {
		z.log.Debug(context.Background(), "fallback draw", logger.Error(err))
	}
	z.fallbacks++
	metrics.RecordEntropyFallback()
	return z.fallback.Uint32()
}
