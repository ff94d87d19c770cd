package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMissingUser     = errors.New("missing user id")
	ErrInvalidLimit    = errors.New("invalid history limit")
	ErrHistoryDisabled = errors.New("history is not configured")
)
