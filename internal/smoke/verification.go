package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/logger"
)

// historyCheckLimit stays under the server's default history cap.
const historyCheckLimit = 50

// verifyHistory waits until the recorded evaluations are visible through
// GET /history and checks that the listing is owned by the caller.
// Order is not checked: concurrent writers record in arrival order, which
// can differ from creation order.
func verifyHistory(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) error {
	if stats.Recorded == 0 {
		logger.Get().Info(ctx, "nothing was recorded; skipping history check")
		return nil
	}
	want := min(stats.Recorded, historyCheckLimit)

	deadline := time.Now().Add(config.Settle)
	var (
		entries []model.Calculation
		err     error
	)
	for {
		entries, err = client.history(ctx, want)
		if err == nil && len(entries) >= want {
			break
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("%w: %w", ErrHistoryCheck, err)
			}
			return fmt.Errorf("%w: %d of %d entries visible after %s", ErrHistoryCheck, len(entries), want, config.Settle)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(historyPollInterval):
		}
	}

	if err := checkListing(config.UserID, entries); err != nil {
		return fmt.Errorf("%w: %w", ErrHistoryCheck, err)
	}
	stats.HistoryEntries = len(entries)
	logger.Get().Info(ctx, "history verified", logger.Int("entries", len(entries)))
	return nil
}

// checkListing reports the first entry that belongs to another user or
// repeats an earlier calculation.
func checkListing(userID string, entries []model.Calculation) error {
	seen := make(map[string]struct{}, len(entries))
	for i, c := range entries {
		if c.UserID != userID {
			return fmt.Errorf("entry %d belongs to %q", i, c.UserID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("entry %d repeats calculation %s", i, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
