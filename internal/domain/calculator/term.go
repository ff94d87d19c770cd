package calculator

// Condition is a predicate over a validated input.
type Condition func(in Input) bool

// IsTrue holds when the boolean criterion key is set.
func IsTrue(key string) Condition {
	return func(in Input) bool { return in.Bool(key) }
}

// AtLeast holds when key >= v.
func AtLeast(key string, v float64) Condition {
	return func(in Input) bool { return in.Number(key) >= v }
}

// Above holds when key > v.
func Above(key string, v float64) Condition {
	return func(in Input) bool { return in.Number(key) > v }
}

// Below holds when key < v.
func Below(key string, v float64) Condition {
	return func(in Input) bool { return in.Number(key) < v }
}

// AtMost holds when key <= v.
func AtMost(key string, v float64) Condition {
	return func(in Input) bool { return in.Number(key) <= v }
}

// Between holds when lo <= key <= hi.
func Between(key string, lo, hi float64) Condition {
	return func(in Input) bool {
		x := in.Number(key)
		return x >= lo && x <= hi
	}
}

// AnyOf holds when at least one of conds holds.
func AnyOf(conds ...Condition) Condition {
	return func(in Input) bool {
		for _, c := range conds {
			if c(in) {
				return true
			}
		}
		return false
	}
}

// Term is one additive component of a score. A term either awards fixed
// points when its condition holds, or contributes the selected value of an
// enum criterion.
type Term struct {
	label   string
	points  float64
	when    Condition
	valueOf string
}

// Points awards pts whenever when holds.
func Points(label string, pts float64, when Condition) Term {
	return Term{label: label, points: pts, when: when}
}

// OptionValue contributes the selected option value of enum criterion key.
func OptionValue(label, key string) Term {
	return Term{label: label, valueOf: key}
}

// Label returns the human-readable name of the term.
func (t Term) Label() string { return t.label }

func (t Term) apply(in Input) float64 {
	if t.valueOf != "" {
		return in.Number(t.valueOf)
	}
	if t.when != nil && t.when(in) {
		return t.points
	}
	return 0
}

// Contribution is the share of the score one term produced.
type Contribution struct {
	Label  string  `json:"label" yaml:"label"`
	Points float64 `json:"points" yaml:"points"`
}
