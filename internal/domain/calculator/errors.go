package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDefinition is wrapped by every Build failure.
var ErrInvalidDefinition = errors.New("invalid calculator definition")

// NotFoundError reports a lookup of an unknown calculator key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("calculator %q not found", e.Key)
}

// FieldError is a single per-criterion validation problem.
type FieldError interface {
	error
	FieldName() string
}

// MissingFieldError reports a required criterion that was not supplied.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string     { return e.Field + ": required" }
func (e *MissingFieldError) FieldName() string { return e.Field }

// Bound names the constraint a RangeError violated.
type Bound string

// Bounds checked by the validator.
const (
	BoundMin    Bound = "min"
	BoundMax    Bound = "max"
	BoundType   Bound = "type"
	BoundOption Bound = "option"
)

// RangeError reports a supplied value outside its criterion's domain:
// below/above the inclusive range, not one of the enum options, or not
// coercible to the criterion type at all.
type RangeError struct {
	Field   string
	Value   any
	Bound   Bound
	Limit   float64
	Allowed []int
	Reason  string
}

func (e *RangeError) Error() string {
	switch e.Bound {
	case BoundMin:
		return fmt.Sprintf("%s: %v is below minimum %s", e.Field, e.Value, formatNumber(e.Limit))
	case BoundMax:
		return fmt.Sprintf("%s: %v exceeds maximum %s", e.Field, e.Value, formatNumber(e.Limit))
	case BoundOption:
		return fmt.Sprintf("%s: %v is not one of %v", e.Field, e.Value, e.Allowed)
	default:
		return fmt.Sprintf("%s: %v %s", e.Field, e.Value, e.Reason)
	}
}

func (e *RangeError) FieldName() string { return e.Field }

// ValidationError collects every field problem found in one validation pass.
type ValidationError struct {
	Calculator string
	Problems   []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Calculator, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		errs[i] = p
	}
	return errs
}

// Fields lists the offending criterion keys in declaration order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		fields[i] = p.FieldName()
	}
	return fields
}

// InternalConsistencyError means a scoring function produced a score that no
// band covers. It points at defective definition data, never at user input.
type InternalConsistencyError struct {
	Calculator string
	Score      float64
	Min        float64
	Max        float64
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%s: score %s has no interpretation band in [%s, %s]",
		e.Calculator, formatNumber(e.Score), formatNumber(e.Min), formatNumber(e.Max))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
