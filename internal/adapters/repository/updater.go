package repository

import (
	"context"
	"sync"
	"time"

	"github.com/resicentral/resicentral/pkg/metrics"
)

// statsUpdater periodically publishes store stats as gauges.
type statsUpdater struct {
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

func startStatsUpdater(ctx context.Context, interval time.Duration, stats func(context.Context) (Stats, error)) *statsUpdater {
	u := &statsUpdater{stopChan: make(chan struct{})}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-u.stopChan:
				return
			case <-ticker.C:
				st, err := stats(ctx)
				if err != nil {
					metrics.RecordHistoryError("stats")
					continue
				}
				metrics.UpdateHistoryUsers(st.Users)
				metrics.UpdateHistoryEntries(st.Entries)
			}
		}
	}()
	return u
}

func (u *statsUpdater) stop() {
	u.stopOnce.Do(func() { close(u.stopChan) })
	u.wg.Wait()
}
