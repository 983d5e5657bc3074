package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/draftreveal/internal/config"
)

var configEnvVars = []string{
	"DRAFTREVEAL_CONFIG", "DRAFTREVEAL_DOTENV", "DRAFTREVEAL_ADDR", "DRAFTREVEAL_LOG_LEVEL",
	"DRAFTREVEAL_LEAGUE_SIZE", "DRAFTREVEAL_TICK_INTERVAL_MS", "DRAFTREVEAL_CELEBRATION_MS",
	"DRAFTREVEAL_HEADER_OFFSET", "DRAFTREVEAL_CUE_QUEUE_SIZE", "DRAFTREVEAL_SHAKE_MS",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 1000)
			convey.So(cfg.CueQueueSize, convey.ShouldEqual, 256)
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DRAFTREVEAL_ADDR", ":8080")
			_ = os.Setenv("DRAFTREVEAL_TICK_INTERVAL_MS", "500")
			_ = os.Setenv("DRAFTREVEAL_HEADER_OFFSET", "120.5")
			_ = os.Setenv("DRAFTREVEAL_LEAGUE_SIZE", "8")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 500)
			convey.So(cfg.HeaderOffset, convey.ShouldEqual, 120.5)
			convey.So(cfg.LeagueSize, convey.ShouldEqual, 8)
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeTemp(t, "draftreveal.yaml", `
addr: ":9090"
celebration_ms: 5000
captions:
  "1": "NUMBER ONE"
`)
			_ = os.Setenv("DRAFTREVEAL_CONFIG", path)
			_ = os.Setenv("DRAFTREVEAL_CELEBRATION_MS", "4000")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.CelebrationMS, convey.ShouldEqual, 4000) // env wins over file
			captions, err := cfg.CaptionMap()
			convey.So(err, convey.ShouldBeNil)
			convey.So(captions, convey.ShouldResemble, map[int]string{1: "NUMBER ONE"})
		})

		convey.Convey("When a .env file is present", func() {
			path := writeTemp(t, "test.env", "DRAFTREVEAL_SHAKE_MS=900\nDRAFTREVEAL_ADDR=:7000\n")
			_ = os.Setenv("DRAFTREVEAL_DOTENV", path)
			_ = os.Setenv("DRAFTREVEAL_ADDR", ":7100")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.ShakeMS, convey.ShouldEqual, 900)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7100") // real env is not overridden
		})

		convey.Convey("When the YAML file does not exist", func() {
			_ = os.Setenv("DRAFTREVEAL_CONFIG", "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("An empty address is rejected", func() {
			cfg := config.New()
			cfg.Addr = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("An unsupported league size is rejected", func() {
			_ = os.Setenv("DRAFTREVEAL_LEAGUE_SIZE", "9")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Non-positive timings are rejected", func() {
			_ = os.Setenv("DRAFTREVEAL_TICK_INTERVAL_MS", "0")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Unknown log levels are rejected", func() {
			_ = os.Setenv("DRAFTREVEAL_LOG_LEVEL", "chatty")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Caption keys must be top-three positions", func() {
			cfg := config.New()
			cfg.Captions = map[string]string{"4": "FOURTH"}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Non-numeric values fail to load", func() {
			_ = os.Setenv("DRAFTREVEAL_CUE_QUEUE_SIZE", "lots")
			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
