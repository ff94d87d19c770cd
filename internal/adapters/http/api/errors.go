package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/domain/calculator"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// Kind maps an error class to a response code and HTTP status.
type Kind struct {
	Code   string
	Status int
}

// NewKind declares an error class.
func NewKind(code string, status int) Kind {
	return Kind{Code: code, Status: status}
}

// Error classes returned by the API.
var (
	KindBadRequest         = NewKind("bad_request", http.StatusBadRequest)
	KindMissingUser        = NewKind("missing_user", http.StatusBadRequest)
	KindInvalidLimit       = NewKind("invalid_limit", http.StatusBadRequest)
	KindNotFound           = NewKind("not_found", http.StatusNotFound)
	KindValidation         = NewKind("validation_failed", http.StatusUnprocessableEntity)
	KindTooLarge           = NewKind("payload_too_large", http.StatusRequestEntityTooLarge)
	KindInternal           = NewKind("internal_error", http.StatusInternalServerError)
	KindInconsistent       = NewKind("internal_consistency", http.StatusInternalServerError)
	KindHistoryUnavailable = NewKind("history_unavailable", http.StatusServiceUnavailable)
)

// Error is an operation failure carrying its response class.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err and tags it with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return WrapKind(op, classify(err), err)
}

// WrapKind tags err with op and an explicit class.
func WrapKind(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func classify(err error) Kind {
	var (
		apiErr *Error
		nf     *calculator.NotFoundError
		verr   *calculator.ValidationError
		ierr   *calculator.InternalConsistencyError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Kind
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &verr):
		return KindValidation
	case errors.As(err, &ierr):
		return KindInconsistent
	case errors.Is(err, service.ErrMissingUser):
		return KindMissingUser
	case errors.Is(err, service.ErrInvalidLimit):
		return KindInvalidLimit
	case errors.Is(err, service.ErrHistoryDisabled):
		return KindHistoryUnavailable
	case errors.Is(err, ErrBodyTooLarge):
		return KindTooLarge
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	default:
		return KindInternal
	}
}
