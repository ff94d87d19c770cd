package calculator

// Kind is the data type of an input criterion.
type Kind int

// Supported criterion kinds.
const (
	KindBoolean Kind = iota + 1
	KindInteger
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind name for JSON/YAML schemas.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Option is one selectable level of an enum criterion.
type Option struct {
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Levels builds consecutive options starting at start, one per label.
func Levels(start int, labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, label := range labels {
		opts[i] = Option{Value: start + i, Label: label}
	}
	return opts
}

// Criterion describes one scoring factor and its accepted values.
type Criterion struct {
	Key      string
	Label    string
	Kind     Kind
	Unit     string
	Min      float64 // inclusive, integer criteria only
	Max      float64 // inclusive, integer criteria only
	Options  []Option
	Required bool
}

// CriterionOption customizes a criterion while it is declared on a Builder.
type CriterionOption func(*Criterion)

// Unit sets the measurement unit shown next to the field.
func Unit(unit string) CriterionOption {
	return func(c *Criterion) {
		c.Unit = unit
	}
}

// Required makes a boolean finding mandatory instead of defaulting to false.
func Required() CriterionOption {
	return func(c *Criterion) {
		c.Required = true
	}
}

func (c Criterion) clone() Criterion {
	if c.Options != nil {
		c.Options = append([]Option(nil), c.Options...)
	}
	return c
}

func (c Criterion) optionValues() []int {
	values := make([]int, len(c.Options))
	for i, o := range c.Options {
		values[i] = o.Value
	}
	return values
}
