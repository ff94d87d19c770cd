// Package repository stores per-user calculation history.
package repository

import (
	"context"

	"github.com/resicentral/resicentral/internal/domain/model"
)

// Stats summarizes what a store currently retains.
type Stats struct {
	Users   int `json:"users"`
	Entries int `json:"entries"`
}

// Store provides bounded, per-user calculation history.
type Store interface {
	// Append records c for c.UserID, dropping that user's oldest entries
	// beyond the retention limit. Returns ErrInvalidUser for anonymous calculations.
	Append(ctx context.Context, c model.Calculation) error

	// List returns up to limit calculations for userID, newest first.
	// Returns ErrInvalidLimit if limit < 1.
	List(ctx context.Context, userID string, limit int) ([]model.Calculation, error)

	// Stats returns the number of users and retained calculations.
	Stats(ctx context.Context) (Stats, error)

	// Close stops background work.
	Close() error
}
