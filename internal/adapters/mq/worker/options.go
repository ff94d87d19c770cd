package worker

import (
	"context"
	"time"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/logger"
)

// Option applies a configuration option to a Writer.
type Option func(*Writer)

// WithName sets the writer name used in logs.
func WithName(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithWriteTimeout bounds each history write.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *Writer) {
		if d > 0 {
			w.writeTimeout = d
		}
	}
}

// WithOnWritten registers fn to run after every write attempt. err is nil
// when the calculation was stored.
func WithOnWritten(fn func(ctx context.Context, c model.Calculation, err error)) Option {
	return func(w *Writer) {
		w.onWritten = fn
	}
}
