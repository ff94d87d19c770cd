package service

import (
	"time"

	"github.com/resicentral/resicentral/internal/adapters/repository"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry replaces the built-in calculators.
func WithRegistry(r *calculator.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithHistoryStore enables history. The service never closes the store.
func WithHistoryStore(store repository.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithClock replaces time.Now for calculation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxHistoryLimit caps the limit accepted by History.
func WithMaxHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistoryLimit = n
		}
	}
}

// WithWriterCount sets the number of history writer goroutines.
func WithWriterCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.writerCount = n
		}
	}
}

// WithQueueSize bounds calculations waiting to be written.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithIdempotency sets how many Idempotency-Key values are remembered and
// for how long.
func WithIdempotency(size int, window time.Duration) Option {
	return func(s *Service) {
		s.dedupeSize = size
		if window > 0 {
			s.dedupeWindow = window
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for pending writes.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithSystemMetricsInterval sets how often runtime gauges are refreshed.
func WithSystemMetricsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.systemMetricsInterval = d
		}
	}
}
