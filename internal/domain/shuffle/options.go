package shuffle

import (
	"io"

	"github.com/okian/draftreveal/pkg/logger"
)

// Option configures a Randomizer.
type Option func(*Randomizer)

// WithSource sets the primary entropy reader (crypto/rand by default).
func WithSource(r io.Reader) Option {
	return func(z *Randomizer) {
		if r != nil {
			z.source = r
		}
	}
}

// WithFallback sets the generator used when the primary source fails.
func WithFallback(f Fallback) Option {
	return func(z *Randomizer) {
		if f != nil {
			z.fallback = f
		}
	}
}

// WithLogger sets the logger used to report fallback draws.
func WithLogger(l logger.Logger) Option {
	return func(z *Randomizer) {
		if l != nil {
			z.log = l
		}
	}
}
