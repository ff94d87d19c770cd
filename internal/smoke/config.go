// Package smoke drives a running ResiCentral server with generated
// evaluations and checks every returned score against the local registry.
package smoke

import (
	"time"

	"github.com/resicentral/resicentral/internal/domain/calculator"
)

// Config holds configuration for a smoke run
type Config struct {
	BaseURL     string        // Base URL of the service
	Requests    int           // Number of evaluations to submit
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	UserID      string        // Caller identity sent as X-User-ID
	Calculators []string      // Keys to exercise; empty means all
	Seed        uint64        // Input generator seed; 0 picks one from the clock
	Settle      time.Duration // How long to wait for history to catch up
	Verbose     bool          // Log every mismatch and failure
}

// Case is one generated evaluation and the result expected for it.
type Case struct {
	ID         string            `json:"id"`
	Calculator string            `json:"calculator"`
	Inputs     map[string]any    `json:"inputs"`
	Expected   calculator.Result `json:"-"`
}

// Stats holds run statistics
type Stats struct {
	Generated      int
	Submitted      int
	Successful     int
	Recorded       int
	Mismatched     int
	Failed         int
	HistoryEntries int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
