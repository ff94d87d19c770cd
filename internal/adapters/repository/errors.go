package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrInvalidUser  = errors.New("history requires a user id")
	ErrClosed       = errors.New("history store closed")
)
