package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultMaxSize = 10000

// Deduper records seen idempotency keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen and is still live.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a failed request can be retried.
	Unrecord(ctx context.Context, key string)

	// Size returns the number of keys currently held.
	Size() int64
}

// Key scopes an idempotency key to a user.
func Key(userID, idempotencyKey string) string {
	return userID + "\x00" + idempotencyKey
}

type record struct {
	key string
	at  time.Time
}

// inMemoryDeduper keeps keys in insertion order, newest at the front.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeenAndRecord implements Deduper.SeenAndRecord.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.expire(now)

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		for d.order.Len() >= d.maxSize {
			d.remove(d.order.Back())
		}
	}
	d.seen[key] = d.order.PushFront(record{key: key, at: now})
	d.size.Store(int64(d.order.Len()))
	return false
}

// Unrecord implements Deduper.Unrecord.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.remove(el)
	}
}

// Size implements Deduper.Size.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// expire drops keys older than the ttl. Caller holds d.mu.
func (d *inMemoryDeduper) expire(now time.Time) {
	if d.ttl <= 0 {
		return
	}
	for el := d.order.Back(); el != nil; el = d.order.Back() {
		if now.Sub(el.Value.(record).at) <= d.ttl {
			return
		}
		d.remove(el)
	}
}

// remove deletes el. Caller holds d.mu.
func (d *inMemoryDeduper) remove(el *list.Element) {
	delete(d.seen, el.Value.(record).key)
	d.order.Remove(el)
	d.size.Store(int64(d.order.Len()))
}
