package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/draftreveal/internal/domain/roster"
)

// Environment variable names.
const (
	EnvPrefix     = "DRAFTREVEAL_"
	EnvConfigFile = "DRAFTREVEAL_CONFIG"
	EnvDotEnv     = "DRAFTREVEAL_DOTENV"
	defaultDotEnv = ".env"
)

// Load builds a Config by layering defaults, an optional .env file, an
// optional YAML file and env vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file if DRAFTREVEAL_CONFIG is set
//  3. env (prefix DRAFTREVEAL_), including values from .env
func Load(_ context.Context) (*Config, error) {
	dotenv := os.Getenv(EnvDotEnv)
	if dotenv == "" {
		dotenv = defaultDotEnv
	}
	if err := LoadDotEnv(dotenv); err != nil {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DRAFTREVEAL_TICK_INTERVAL_MS -> tick_interval_ms (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !roster.SupportedSize(c.LeagueSize) {
		return fmt.Errorf("%w: league_size %d not in %v", ErrInvalidConfig, c.LeagueSize, roster.LeagueSizes)
	}
	for name, v := range map[string]int{
		"settle_delay_ms":      c.SettleDelayMS,
		"tick_interval_ms":     c.TickIntervalMS,
		"celebration_ms":       c.CelebrationMS,
		"shake_ms":             c.ShakeMS,
		"refocus_delay_ms":     c.RefocusDelayMS,
		"mount_delay_ms":       c.MountDelayMS,
		"focus_retry_delay_ms": c.FocusRetryDelayMS,
		"cue_queue_size":       c.CueQueueSize,
		"dedupe_size":          c.DedupeSize,
		"stream_buffer":        c.StreamBuffer,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	if c.HeaderOffset < 0 || c.CardHeight <= 0 || c.CardGap < 0 {
		return fmt.Errorf("%w: board geometry out of range", ErrInvalidConfig)
	}
	if _, err := c.CaptionMap(); err != nil {
		return err
	}
	return nil
}

// CaptionMap converts caption overrides to a position-keyed map.
func (c *Config) CaptionMap() (map[int]string, error) {
	out := make(map[int]string, len(c.Captions))
	for key, text := range c.Captions {
		pos, err := strconv.Atoi(key)
		if err != nil || pos < 1 || pos > 3 {
			return nil, fmt.Errorf("%w: caption key %q must be 1, 2 or 3", ErrInvalidConfig, key)
		}
		out[pos] = text
	}
	return out, nil
}

// Millis converts a millisecond setting to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
