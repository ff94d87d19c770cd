package smoke

import (
	"errors"
	"time"
)

// Defaults applied by Config.normalize.
const (
	DefaultRequests = 200
	DefaultWorkers  = 4
	DefaultTimeout  = 10 * time.Second
	DefaultUserID   = "smoke-test"
	DefaultSettle   = 5 * time.Second

	historyPollInterval     = 100 * time.Millisecond
	workerChannelMultiplier = 2
	percentageMultiplier    = 100
	scoreTolerance          = 1e-9
)

// Errors reported by Run.
var (
	ErrUnhealthy    = errors.New("service health check failed")
	ErrNoCases      = errors.New("no calculators to exercise")
	ErrMismatch     = errors.New("server results differ from local evaluation")
	ErrFailures     = errors.New("evaluation requests failed")
	ErrHistoryCheck = errors.New("history verification failed")
)
