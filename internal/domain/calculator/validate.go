package calculator

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Validate checks raw against the definition's criteria. All problems are
// collected in declaration order and returned together as a
// *ValidationError. Keys that are not criteria are ignored.
func (d *Definition) Validate(raw map[string]any) (Input, error) {
	in := newInput(len(d.criteria))
	var problems []FieldError
	for _, c := range d.criteria {
		v, ok := raw[c.Key]
		if !ok || v == nil {
			if c.Required {
				problems = append(problems, &MissingFieldError{Field: c.Key})
				continue
			}
			// optional booleans: an unticked finding
			in.set(c, 0)
			continue
		}
		x, err := c.coerce(v)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		in.set(c, x)
	}
	if len(problems) > 0 {
		return Input{}, &ValidationError{Calculator: d.key, Problems: problems}
	}
	return in, nil
}

func (c Criterion) coerce(v any) (float64, *RangeError) {
	switch c.Kind {
	case KindBoolean:
		b, ok := toBool(v)
		if !ok {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundType, Reason: "must be a boolean"}
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case KindInteger:
		x, ok := toNumber(v)
		if !ok {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundType, Reason: "must be a number"}
		}
		if x != math.Trunc(x) {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundType, Reason: "must be a whole number"}
		}
		if x < c.Min {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundMin, Limit: c.Min}
		}
		if x > c.Max {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundMax, Limit: c.Max}
		}
		return x, nil

	case KindEnum:
		x, ok := toNumber(v)
		if !ok || !slices.Contains(c.optionValues(), int(x)) || x != math.Trunc(x) {
			return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundOption, Allowed: c.optionValues()}
		}
		return x, nil
	}
	return 0, &RangeError{Field: c.Key, Value: v, Bound: BoundType, Reason: "has an unsupported criterion type"}
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "si", "sí", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	}
	x, ok := toNumber(v)
	if !ok || (x != 0 && x != 1) {
		return false, false
	}
	return x == 1, true
}

func toNumber(v any) (float64, bool) {
	var x float64
	switch t := v.(type) {
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int8:
		x = float64(t)
	case int16:
		x = float64(t)
	case int32:
		x = float64(t)
	case int64:
		x = float64(t)
	case uint:
		x = float64(t)
	case uint8:
		x = float64(t)
	case uint16:
		x = float64(t)
	case uint32:
		x = float64(t)
	case uint64:
		x = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		x = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		x = f
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}
