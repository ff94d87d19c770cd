package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/pkg/logger"
)

func (c *Config) normalize() {
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserID == "" {
		c.UserID = DefaultUserID
	}
	if c.Settle <= 0 {
		c.Settle = DefaultSettle
	}
}

// Run executes a complete smoke test against config.BaseURL. Expected
// results come from reg, which must match the server's registry. The
// returned stats are filled in even when Run fails.
func Run(ctx context.Context, config Config, reg *calculator.Registry) (*Stats, error) {
	config.normalize()
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	logger.Get().Info(ctx, "starting smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.String("user", config.UserID))

	client := newHTTPClient(&config)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	cases, err := generateCases(ctx, &config, reg, stats)
	if err != nil {
		return stats, fmt.Errorf("case generation failed: %w", err)
	}

	submitCases(ctx, &config, client, cases, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrFailures, stats.Failed, stats.Submitted)
	}
	if stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrMismatch, stats.Mismatched, stats.Submitted)
	}

	if err := verifyHistory(ctx, &config, client, stats); err != nil {
		return stats, err
	}

	logFinalStats(ctx, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	if err := client.get(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func logFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * percentageMultiplier
	}
	if elapsed := time.Since(stats.StartTime); elapsed > 0 {
		perSecond = float64(stats.Submitted) / elapsed.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("recorded", stats.Recorded),
		logger.Int("historyEntries", stats.HistoryEntries),
		logger.Float64("successRate", successRate),
		logger.Float64("evaluationsPerSecond", perSecond))
}
