package calculator

import (
	"fmt"
	"strings"
)

// Risk is the ordinal, locale-neutral risk category attached to a band.
// Presentation layers translate it; the core only compares and reports it.
type Risk int

// Risk categories in ascending order of severity.
const (
	RiskLow Risk = iota + 1
	RiskModerate
	RiskHigh
	RiskSevere
)

var riskNames = map[Risk]string{
	RiskLow:      "Low",
	RiskModerate: "Moderate",
	RiskHigh:     "High",
	RiskSevere:   "Severe",
}

// Valid reports whether r is one of the declared categories.
func (r Risk) Valid() bool {
	_, ok := riskNames[r]
	return ok
}

func (r Risk) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Risk(%d)", int(r))
}

// MarshalText renders the category tag, e.g. "Moderate".
func (r Risk) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid risk category %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a category tag (case-insensitive).
func (r *Risk) UnmarshalText(b []byte) error {
	parsed, err := ParseRisk(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRisk maps a tag such as "high" to its Risk value.
func ParseRisk(s string) (Risk, error) {
	for risk, name := range riskNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return risk, nil
		}
	}
	return 0, fmt.Errorf("unknown risk category %q", s)
}
