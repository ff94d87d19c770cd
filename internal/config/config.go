// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and RESI_ environment variables.
// - Validation failures wrap ErrInvalidConfig; loading failures wrap ErrLoadConfig.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// HistoryBackend selects where calculations are kept: memory or redis.
	HistoryBackend string `koanf:"history_backend"`

	// HistoryRetention is the number of calculations kept per user.
	HistoryRetention int `koanf:"history_retention"`

	// HistoryTTL expires a user's history after inactivity (redis only, 0 disables).
	HistoryTTL time.Duration `koanf:"history_ttl"`

	// MaxHistoryLimit caps GET /history?limit.
	MaxHistoryLimit int `koanf:"max_history_limit"`

	// RecorderWorkers is the number of goroutines writing history.
	RecorderWorkers int `koanf:"recorder_workers"`

	// RecorderQueueSize bounds calculations waiting to be written.
	RecorderQueueSize int `koanf:"recorder_queue_size"`

	// IdempotencyWindow is how long an Idempotency-Key suppresses re-recording.
	IdempotencyWindow time.Duration `koanf:"idempotency_window"`

	// IdempotencyKeys caps the number of remembered keys.
	IdempotencyKeys int `koanf:"idempotency_keys"`

	// Redis connection settings, used when HistoryBackend is redis.
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		ShutdownTimeout:   10 * time.Second,
		HistoryBackend:    BackendMemory,
		HistoryRetention:  200,
		MaxHistoryLimit:   100,
		RecorderWorkers:   2,
		RecorderQueueSize: 1024,
		IdempotencyWindow: 10 * time.Minute,
		IdempotencyKeys:   10000,
		RedisAddr:         "localhost:6379",
		RedisKeyPrefix:    "resicentral:",
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be text or json", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not a known level", c.LogLevel))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.HistoryRetention < 1 {
		errs = append(errs, fmt.Errorf("history_retention must be at least 1, got %d", c.HistoryRetention))
	}
	if c.MaxHistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("max_history_limit must be at least 1, got %d", c.MaxHistoryLimit))
	}
	if c.RecorderWorkers < 1 {
		errs = append(errs, fmt.Errorf("recorder_workers must be at least 1, got %d", c.RecorderWorkers))
	}
	if c.RecorderQueueSize < 1 {
		errs = append(errs, fmt.Errorf("recorder_queue_size must be at least 1, got %d", c.RecorderQueueSize))
	}
	if c.IdempotencyKeys < 1 {
		errs = append(errs, fmt.Errorf("idempotency_keys must be at least 1, got %d", c.IdempotencyKeys))
	}
	if c.IdempotencyWindow < 0 {
		errs = append(errs, errors.New("idempotency_window must not be negative"))
	}
	if c.HistoryTTL < 0 {
		errs = append(errs, errors.New("history_ttl must not be negative"))
	}
	switch c.HistoryBackend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("redis_addr must not be empty with the redis backend"))
		}
		if c.RedisDB < 0 {
			errs = append(errs, fmt.Errorf("redis_db must not be negative, got %d", c.RedisDB))
		}
	default:
		errs = append(errs, fmt.Errorf("history_backend %q must be memory or redis", c.HistoryBackend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
