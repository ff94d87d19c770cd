// Package worker drains queued calculations into the history store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/logger"
	"github.com/resicentral/resicentral/pkg/metrics"
)

const (
	defaultWriterCount  = 2
	defaultWriteTimeout = 2 * time.Second
)

// Appender persists a calculation.
type Appender interface {
	Append(ctx context.Context, c model.Calculation) error
}

// Source is where writers receive calculations from.
type Source interface {
	Dequeue() <-chan model.Calculation
}

// Writer appends every calculation it receives until the source closes
// or its context is cancelled.
type Writer struct {
	source       Source
	appender     Appender
	name         string
	writeTimeout time.Duration
	onWritten    func(ctx context.Context, c model.Calculation, err error)

	done   chan struct{}
	logger logger.Logger
}

// NewWriter creates a writer with configuration options.
func NewWriter(source Source, appender Appender, opts ...Option) *Writer {
	w := &Writer{
		source:       source,
		appender:     appender,
		name:         "writer",
		writeTimeout: defaultWriteTimeout,
		done:         make(chan struct{}),
		logger:       logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run drains the source. It returns once the source channel is closed and
// empty, or immediately when ctx is cancelled.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	items := w.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-items:
			if !ok {
				return
			}
			err := w.write(ctx, c)
			if err != nil {
				w.logger.Error(ctx, "history write failed",
					logger.String("calculation", c.ID),
					logger.String("user", c.UserID),
					logger.Error(err),
				)
			}
			if w.onWritten != nil {
				w.onWritten(ctx, c, err)
			}
		}
	}
}

// Done is closed when Run returns.
func (w *Writer) Done() <-chan struct{} { return w.done }

func (w *Writer) write(ctx context.Context, c model.Calculation) error { //nolint:gocritic // hugeParam: received by value from the channel
	start := time.Now()
	defer func() {
		metrics.RecordRecorderWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	writeCtx, cancel := context.WithTimeout(ctx, w.writeTimeout)
	defer cancel()

	if err := w.appender.Append(writeCtx, c); err != nil {
		metrics.RecordHistoryError("async_append")
		metrics.RecordErrorByComponent("worker", "append")
		return fmt.Errorf("append %s: %w", c.ID, err)
	}
	return nil
}

// Pool runs a fixed set of writers over one source.
type Pool struct {
	writers []*Writer
	source  Source
	logger  logger.Logger
}

// NewPool creates count writers. A count below one uses the default.
func NewPool(count int, source Source, appender Appender, opts ...Option) *Pool {
	if count < 1 {
		count = defaultWriterCount
	}
	p := &Pool{
		writers: make([]*Writer, count),
		source:  source,
		logger:  logger.Get().Named("writer-pool"),
	}
	for i := range p.writers {
		writerOpts := append([]Option{WithName("writer-" + strconv.Itoa(i))}, opts...)
		p.writers[i] = NewWriter(source, appender, writerOpts...)
	}
	return p
}

// Size returns the number of writers.
func (p *Pool) Size() int { return len(p.writers) }

// Start launches every writer.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.writers {
		go w.Run(ctx)
	}
	metrics.UpdateRecorderWorkers(len(p.writers))
}

// Shutdown closes the source, if it can be closed, and waits for the
// writers to drain it. Calculations still pending when ctx expires are lost.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	defer metrics.UpdateRecorderWorkers(0)

	for i, w := range p.writers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "writer shutdown timed out", logger.Int("writer", i))
			return fmt.Errorf("writer pool shutdown: %w", ctx.Err())
		}
	}
	return nil
}
