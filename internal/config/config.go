// Package config defines service configuration and its layered loading.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// LeagueSize is the default roster size offered to the setup screen.
	LeagueSize int `koanf:"league_size"`

	// Playback timing in milliseconds.
	SettleDelayMS     int `koanf:"settle_delay_ms"`
	TickIntervalMS    int `koanf:"tick_interval_ms"`
	CelebrationMS     int `koanf:"celebration_ms"`
	ShakeMS           int `koanf:"shake_ms"`
	RefocusDelayMS    int `koanf:"refocus_delay_ms"`
	MountDelayMS      int `koanf:"mount_delay_ms"`
	FocusRetryDelayMS int `koanf:"focus_retry_delay_ms"`

	// Board geometry in CSS pixels.
	HeaderOffset float64 `koanf:"header_offset"`
	CardHeight   float64 `koanf:"card_height"`
	CardGap      float64 `koanf:"card_gap"`
	BoardTop     float64 `koanf:"board_top"`

	// CueQueueSize bounds the effect cue queue.
	CueQueueSize int `koanf:"cue_queue_size"`

	// DedupeSize bounds the remembered input request ids.
	DedupeSize int `koanf:"dedupe_size"`

	// StreamBuffer is the per-client message buffer of the presentation stream.
	StreamBuffer int `koanf:"stream_buffer"`

	// Captions override the countdown caption per position ("1", "2", "3").
	Captions map[string]string `koanf:"captions"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		LeagueSize:        12,
		SettleDelayMS:     300,
		TickIntervalMS:    1000,
		CelebrationMS:     3000,
		ShakeMS:           600,
		RefocusDelayMS:    1000,
		MountDelayMS:      150,
		FocusRetryDelayMS: 300,
		HeaderOffset:      360,
		CardHeight:        180,
		CardGap:           24,
		BoardTop:          420,
		CueQueueSize:      256,
		DedupeSize:        4096,
		StreamBuffer:      64,
		Captions:          map[string]string{},
	}
}
