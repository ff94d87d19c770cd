package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/resicentral/resicentral/internal/adapters/mq/queue"
	worker "github.com/resicentral/resicentral/internal/adapters/mq/worker"
	model "github.com/resicentral/resicentral/internal/domain/model"
	logging "github.com/resicentral/resicentral/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockAppender struct {
	mu      sync.Mutex
	written []string
	fail    map[string]error
	delay   time.Duration
}

func newMockAppender() *mockAppender {
	return &mockAppender{fail: make(map[string]error)}
}

func (m *mockAppender) Append(ctx context.Context, c model.Calculation) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[c.ID]; ok {
		return err
	}
	m.written = append(m.written, c.ID)
	return nil
}

func (m *mockAppender) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.written...)
}

func calc(id string) model.Calculation {
	return model.Calculation{ID: id, UserID: "r1", Calculator: "curb65", CreatedAt: time.Now().UTC()}
}

func TestWriter(t *testing.T) {
	convey.Convey("Given a writer over a queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		appender := newMockAppender()
		w := worker.NewWriter(q, appender, worker.WithName("test-writer"))
		ctx := context.Background()

		convey.Convey("When calculations are queued and the queue is closed", func() {
			_ = q.Enqueue(ctx, calc("c1"))
			_ = q.Enqueue(ctx, calc("c2"))
			_ = q.Close()
			w.Run(ctx)

			convey.Convey("Then every calculation is written in order", func() {
				convey.So(appender.ids(), convey.ShouldResemble, []string{"c1", "c2"})
			})
		})

		convey.Convey("When one append fails", func() {
			appender.fail["c1"] = errors.New("redis down")
			_ = q.Enqueue(ctx, calc("c1"))
			_ = q.Enqueue(ctx, calc("c2"))
			_ = q.Close()
			w.Run(ctx)

			convey.Convey("Then the writer keeps going", func() {
				convey.So(appender.ids(), convey.ShouldResemble, []string{"c2"})
			})
		})

		convey.Convey("When a write callback is registered", func() {
			appender.fail["c1"] = errors.New("redis down")
			outcomes := map[string]error{}
			notified := worker.NewWriter(q, appender, worker.WithOnWritten(func(_ context.Context, c model.Calculation, err error) {
				outcomes[c.ID] = err
			}))
			_ = q.Enqueue(ctx, calc("c1"))
			_ = q.Enqueue(ctx, calc("c2"))
			_ = q.Close()
			notified.Run(ctx)

			convey.Convey("Then it sees every outcome", func() {
				convey.So(outcomes, convey.ShouldHaveLength, 2)
				convey.So(outcomes["c1"], convey.ShouldNotBeNil)
				convey.So(outcomes["c1"].Error(), convey.ShouldContainSubstring, "redis down")
				convey.So(outcomes["c2"], convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			go w.Run(runCtx)
			cancel()

			convey.Convey("Then Run returns without the queue closing", func() {
				stopped := false
				select {
				case <-w.Done():
					stopped = true
				case <-time.After(time.Second):
				}
				convey.So(stopped, convey.ShouldBeTrue)
				convey.So(q.IsClosed(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When an append is slower than the write timeout", func() {
			appender.delay = 200 * time.Millisecond
			slow := worker.NewWriter(q, appender, worker.WithWriteTimeout(10*time.Millisecond))
			_ = q.Enqueue(ctx, calc("c1"))
			_ = q.Close()
			slow.Run(ctx)

			convey.Convey("Then the write is abandoned", func() {
				convey.So(appender.ids(), convey.ShouldBeEmpty)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of writers", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(500))
		appender := newMockAppender()
		pool := worker.NewPool(4, q, appender)
		ctx := context.Background()

		convey.Convey("Then it has the requested size", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 4)
			convey.So(worker.NewPool(0, q, appender).Size(), convey.ShouldEqual, 2)
		})

		convey.Convey("When calculations are queued before shutdown", func() {
			pool.Start(ctx)
			for i := 0; i < 200; i++ {
				convey.So(q.Enqueue(ctx, calc(fmt.Sprintf("c%d", i))), convey.ShouldBeNil)
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then shutdown drains the queue", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(appender.ids()), convey.ShouldEqual, 200)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When writers cannot finish before the deadline", func() {
			appender.delay = 500 * time.Millisecond
			pool.Start(ctx)
			for i := 0; i < 20; i++ {
				_ = q.Enqueue(ctx, calc(fmt.Sprintf("c%d", i)))
			}
			shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then shutdown reports the timeout", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}
