// Package service provides the calculator service behind the HTTP API
// and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/resicentral/resicentral/internal/adapters/mq/queue"
	"github.com/resicentral/resicentral/internal/adapters/mq/worker"
	"github.com/resicentral/resicentral/internal/adapters/repository"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/domain/dedupe"
	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/internal/domain/types"
	"github.com/resicentral/resicentral/pkg/logger"
	"github.com/resicentral/resicentral/pkg/metrics"
)

const (
	defaultMaxHistoryLimit       = 100
	defaultWriterCount           = 2
	defaultQueueSize             = 1024
	defaultDedupeSize            = 10000
	defaultDedupeWindow          = 10 * time.Minute
	defaultShutdownTimeout       = 10 * time.Second
	defaultSystemMetricsInterval = 10 * time.Second
	nanosecondsPerMillisecond    = 1e6

	// unknownCalculator labels metrics for keys outside the registry so
	// caller input cannot grow label cardinality.
	unknownCalculator = "unknown"
)

// EvaluateRequest is one call to Evaluate.
type EvaluateRequest struct {
	// UserID owns the calculation. Empty means anonymous: the result is
	// computed but not recorded.
	UserID string
	// Calculator is the registry key.
	Calculator string
	// Inputs are the raw values keyed by criterion.
	Inputs map[string]any
	// IdempotencyKey suppresses recording the same request twice.
	IdempotencyKey string
}

// Service implements the calculator operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry *calculator.Registry
	history  repository.Store
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	writers  *worker.Pool

	// calculation ID -> dedupe key, for queued writes carrying one
	queuedKeys sync.Map

	// Configuration
	maxHistoryLimit       int
	writerCount           int
	queueSize             int
	dedupeSize            int
	dedupeWindow          time.Duration
	shutdownTimeout       time.Duration
	systemMetricsInterval time.Duration
	now                   func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	bg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service with the built-in calculators. History stays
// disabled unless WithHistoryStore is given.
func New(opts ...Option) *Service {
	s := &Service{
		maxHistoryLimit:       defaultMaxHistoryLimit,
		writerCount:           defaultWriterCount,
		queueSize:             defaultQueueSize,
		dedupeSize:            defaultDedupeSize,
		dedupeWindow:          defaultDedupeWindow,
		shutdownTimeout:       defaultShutdownTimeout,
		systemMetricsInterval: defaultSystemMetricsInterval,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = calculator.Builtin()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
		dedupe.WithTTL(s.dedupeWindow),
	)
	metrics.UpdateRegisteredCalculators(s.registry.Len())
	return s
}

// Start launches the history writers and the runtime metrics updater.
// Evaluate works without Start; history is then written synchronously.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting calculator service...")

	if s.history != nil {
		s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
		s.writers = worker.NewPool(s.writerCount, s.queue, s.history,
			worker.WithLogger(s.logger.Named("history")),
			worker.WithOnWritten(s.afterWrite))
		// writers outlive ctx so Stop can drain the queue
		s.writers.Start(context.WithoutCancel(ctx))
	}

	s.stopCh = make(chan struct{})
	s.bg.Add(1)
	go s.runSystemMetrics(ctx, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "calculator service started",
		logger.Int("calculators", s.registry.Len()),
		logger.Bool("history", s.history != nil),
		logger.Int("writers", s.writerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains pending history writes and stops background work. It does
// not close the history store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping calculator service...")

	if s.writers != nil {
		if err := s.writers.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "pending history writes abandoned",
				logger.Int("pending", s.queue.Len()),
				logger.Error(err),
			)
		}
		s.writers = nil
		s.queue = nil
	}

	close(s.stopCh)
	s.bg.Wait()

	s.started = false
	s.logger.Info(ctx, "calculator service stopped")
}

// ListCalculators returns the summaries matching f, ordered by name.
func (s *Service) ListCalculators(f calculator.Filter) []types.Summary {
	return types.Summaries(s.registry.List(f))
}

// Calculator returns the full schema for key.
func (s *Service) Calculator(key string) (types.Detail, error) {
	def, err := s.registry.Get(key)
	if err != nil {
		return types.Detail{}, err
	}
	return types.DetailOf(def), nil
}

// Definition returns the definition for key.
func (s *Service) Definition(key string) (*calculator.Definition, error) {
	return s.registry.Get(key)
}

// Categories returns the distinct categories.
func (s *Service) Categories() []string {
	return s.registry.Categories()
}

// Evaluate validates, scores and interprets req. Calculations with a user
// are recorded to history; a failed write is logged and does not fail the
// evaluation.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (types.Evaluation, error) {
	start := time.Now()

	def, err := s.registry.Get(req.Calculator)
	if err != nil {
		metrics.RecordEvaluationError(unknownCalculator, "not_found")
		s.logger.Debug(ctx, "unknown calculator", logger.String("calculator", req.Calculator))
		return types.Evaluation{}, err
	}

	res, err := def.Evaluate(req.Inputs)
	metrics.RecordEvaluationLatency(def.Key(), float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		s.recordFailure(ctx, def.Key(), err)
		return types.Evaluation{}, err
	}
	metrics.RecordEvaluation(def.Key(), res.Risk.String())

	ev := types.Evaluation{Calculation: model.NewCalculation(req.UserID, res, s.now())}
	if !ev.Anonymous() && s.history != nil {
		ev.Recorded = s.record(ctx, ev.Calculation, req.IdempotencyKey)
	}

	s.logger.Debug(ctx, "calculation evaluated",
		logger.String("calculator", def.Key()),
		logger.String("id", ev.ID),
		logger.Float64("score", res.Score),
		logger.String("risk", res.Risk.String()),
		logger.Bool("recorded", ev.Recorded),
	)
	return ev, nil
}

func (s *Service) recordFailure(ctx context.Context, key string, err error) {
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		metrics.RecordValidationFailure(key)
		metrics.RecordEvaluationError(key, "validation")
		s.logger.Warn(ctx, "calculator input rejected",
			logger.String("calculator", key),
			logger.Any("fields", verr.Fields()),
		)
		return
	}
	metrics.RecordEvaluationError(key, "internal")
	metrics.RecordErrorByComponent("calculator", "internal_consistency")
	s.logger.Error(ctx, "calculator definition is inconsistent",
		logger.String("calculator", key),
		logger.Error(err),
	)
}

// record hands c to the writers, or appends it directly when the service
// is not started or the queue is full. It reports whether c was accepted.
func (s *Service) record(ctx context.Context, c model.Calculation, idempotencyKey string) bool { //nolint:gocritic // hugeParam: passed through to the queue by value
	var dk string
	if idempotencyKey != "" {
		dk = dedupe.Key(c.UserID, idempotencyKey)
		if s.deduper.SeenAndRecord(ctx, dk) {
			metrics.RecordIdempotentReplay()
			s.logger.Debug(ctx, "idempotent replay not recorded",
				logger.String("user", c.UserID),
				logger.String("idempotencyKey", idempotencyKey),
			)
			return false
		}
	}

	if dk != "" {
		// stored before Enqueue so a fast writer always finds it
		s.queuedKeys.Store(c.ID, dk)
	}
	queued, err := s.enqueueOrAppend(ctx, c)
	if !queued {
		s.queuedKeys.Delete(c.ID)
	}
	if err != nil {
		if dk != "" {
			s.deduper.Unrecord(ctx, dk)
		}
		s.logger.Warn(ctx, "calculation not recorded",
			logger.String("id", c.ID),
			logger.String("user", c.UserID),
			logger.Error(err),
		)
		return false
	}
	return true
}

// afterWrite runs once a writer is done with a queued calculation. A failed
// write releases the idempotency key so the client's retry is recorded.
func (s *Service) afterWrite(ctx context.Context, c model.Calculation, err error) { //nolint:gocritic // hugeParam: worker callback signature
	dk, ok := s.queuedKeys.LoadAndDelete(c.ID)
	if !ok || err == nil {
		return
	}
	s.deduper.Unrecord(ctx, dk.(string))
	s.logger.Warn(ctx, "idempotency key released after failed history write",
		logger.String("id", c.ID),
		logger.String("user", c.UserID),
	)
}

// enqueueOrAppend reports whether c went to the queue; otherwise it was
// appended directly or failed.
func (s *Service) enqueueOrAppend(ctx context.Context, c model.Calculation) (bool, error) { //nolint:gocritic // hugeParam: see record
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.queue != nil {
		err := s.queue.Enqueue(ctx, c)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, queue.ErrFull) {
			return false, err
		}
		s.logger.Warn(ctx, "history queue full; writing synchronously", logger.Int("capacity", s.queue.Capacity()))
	}
	return false, s.history.Append(ctx, c)
}

// History returns userID's calculations, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]model.Calculation, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if limit < 1 || limit > s.maxHistoryLimit {
		return nil, fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidLimit, limit, s.maxHistoryLimit)
	}
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}

	entries, err := s.history.List(ctx, userID, limit)
	if err != nil {
		metrics.RecordErrorByComponent("history", "list")
		s.logger.Error(ctx, "history read failed", logger.String("user", userID), logger.Error(err))
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// MaxHistoryLimit returns the largest limit History accepts.
func (s *Service) MaxHistoryLimit() int { return s.maxHistoryLimit }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"calculators":     s.registry.Len(),
		"categories":      len(s.registry.Categories()),
		"history":         s.history != nil,
		"idempotencyKeys": s.deduper.Size(),
	}

	if s.queue != nil {
		stats["queueLength"] = s.queue.Len()
		stats["queueCapacity"] = s.queue.Capacity()
	}
	if s.writers != nil {
		stats["writers"] = s.writers.Size()
	}
	if s.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if st, err := s.history.Stats(ctx); err == nil {
			stats["historyUsers"] = st.Users
			stats["historyEntries"] = st.Entries
			metrics.UpdateHistoryUsers(st.Users)
			metrics.UpdateHistoryEntries(st.Entries)
		} else {
			stats["historyError"] = err.Error()
		}
	}
	return stats
}

func (s *Service) runSystemMetrics(ctx context.Context, stop <-chan struct{}) {
	defer s.bg.Done()

	ticker := time.NewTicker(s.systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
