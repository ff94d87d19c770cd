package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/resicentral/resicentral/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.HistoryBackend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.HistoryRetention, convey.ShouldEqual, 200)
			convey.So(cfg.MaxHistoryLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.RecorderWorkers, convey.ShouldEqual, 2)
			convey.So(cfg.RecorderQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.IdempotencyWindow, convey.ShouldEqual, 10*time.Minute)
		})

		convey.Convey("Then it should be valid", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with several invalid settings", t, func() {
		cfg := config.New()
		cfg.Addr = ""
		cfg.HistoryBackend = "postgres"
		cfg.MaxHistoryLimit = 0
		cfg.RecorderWorkers = 0

		convey.Convey("When validating it", func() {
			err := cfg.Validate()

			convey.Convey("Then every problem is reported under ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(err.Error(), convey.ShouldContainSubstring, `history_backend "postgres"`)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_history_limit")
				convey.So(err.Error(), convey.ShouldContainSubstring, "recorder_workers")
			})
		})
	})

	convey.Convey("Given a config that remembers no idempotency keys", t, func() {
		cfg := config.New()
		cfg.IdempotencyKeys = 0

		convey.Convey("Then validation fails", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "idempotency_keys must be at least 1")
		})
	})

	convey.Convey("Given the redis backend without an address", t, func() {
		cfg := config.New()
		cfg.HistoryBackend = config.BackendRedis
		cfg.RedisAddr = " "

		convey.Convey("Then validation fails", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "redis_addr")
		})
	})
}
