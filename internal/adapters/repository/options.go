package repository

import "time"

const (
	defaultRetention             = 200
	defaultKeyPrefix             = "resicentral:"
	defaultMetricsUpdateInterval = 5 * time.Second
)

type options struct {
	retention             int
	ttl                   time.Duration
	keyPrefix             string
	metricsUpdateInterval time.Duration
}

func defaultOptions() options {
	return options{
		retention:             defaultRetention,
		keyPrefix:             defaultKeyPrefix,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}
}

// Option applies a configuration option to a history store.
type Option func(*options)

// WithRetention sets how many calculations are kept per user.
func WithRetention(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.retention = n
		}
	}
}

// WithTTL expires a user's history after d without new calculations.
// Only the Redis store honors it.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithKeyPrefix namespaces Redis keys.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}
