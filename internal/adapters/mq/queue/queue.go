// Package queue buffers calculations between the request path and the
// history writers.
package queue

import (
	"context"
	"sync"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/metrics"
)

const defaultCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds c without blocking. It returns ErrFull when the buffer
	// is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, c model.Calculation) error

	// Dequeue returns the receive side of the buffer. The channel is
	// closed by Close once every pending calculation has been received.
	Dequeue() <-chan model.Calculation

	// Len returns the number of pending calculations.
	Len() int

	// Close stops accepting calculations. Pending ones stay readable.
	Close() error
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	items    chan model.Calculation
	capacity int

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan model.Calculation, q.capacity)

	metrics.UpdateRecorderQueueCapacity(q.capacity)
	metrics.UpdateRecorderQueueSize(0)
	return q
}

// Enqueue implements Queue.Enqueue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c model.Calculation) error {
	// Read lock so Close cannot close the channel mid-send.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordRecorderDrop("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordRecorderDrop("context_cancelled")
		return err
	}

	select {
	case q.items <- c:
		metrics.RecordRecorderEnqueue()
		metrics.UpdateRecorderQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordRecorderDrop("full")
		metrics.RecordErrorByComponent("queue", "full")
		return ErrFull
	}
}

// Dequeue implements Queue.Dequeue.
func (q *InMemoryQueue) Dequeue() <-chan model.Calculation {
	return q.items
}

// Len implements Queue.Len.
func (q *InMemoryQueue) Len() int {
	n := len(q.items)
	metrics.UpdateRecorderQueueSize(n)
	return n
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close implements Queue.Close. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
