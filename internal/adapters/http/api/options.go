package api

import (
	"time"

	"github.com/okian/draftreveal/pkg/logger"
)

const defaultWriteTimeout = 3 * time.Second

type serverConfig struct {
	origins      []string
	writeTimeout time.Duration
	log          logger.Logger
}

// Option configures a Server.
type Option func(*serverConfig)

// WithOriginPatterns allows stream connections from other origins.
func WithOriginPatterns(patterns ...string) Option {
	return func(c *serverConfig) { c.origins = append(c.origins, patterns...) }
}

// WithWriteTimeout bounds each stream write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *serverConfig) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.log = l
		}
	}
}
