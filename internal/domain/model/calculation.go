// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/resicentral/resicentral/internal/domain/calculator"
)

// Calculation is one evaluated calculator result owned by a user.
// The calculator core never creates these; the application stamps them.
type Calculation struct {
	ID         string            `json:"id" yaml:"id"`
	UserID     string            `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Calculator string            `json:"calculator" yaml:"calculator"`
	Result     calculator.Result `json:"result" yaml:"result"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
}

// NewCalculation wraps res with a fresh ID and the given timestamp.
func NewCalculation(userID string, res calculator.Result, at time.Time) Calculation {
	return Calculation{
		ID:         uuid.NewString(),
		UserID:     userID,
		Calculator: res.Calculator,
		Result:     res,
		CreatedAt:  at.UTC(),
	}
}

// Anonymous reports whether the calculation has no owning user.
func (c Calculation) Anonymous() bool {
	return c.UserID == ""
}
