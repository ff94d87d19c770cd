package calculator

// Input is a validated calculation input. It is only produced by Validate,
// so every criterion of the definition has a value that satisfies its
// declared type and range.
type Input struct {
	values map[string]float64
	kinds  map[string]Kind
}

func newInput(size int) Input {
	return Input{
		values: make(map[string]float64, size),
		kinds:  make(map[string]Kind, size),
	}
}

func (in Input) set(c Criterion, v float64) {
	in.values[c.Key] = v
	in.kinds[c.Key] = c.Kind
}

// Has reports whether key is a criterion of the validated definition.
func (in Input) Has(key string) bool {
	_, ok := in.values[key]
	return ok
}

// Bool returns a boolean criterion; unknown keys read as false.
func (in Input) Bool(key string) bool {
	return in.values[key] != 0
}

// Number returns the numeric value of an integer or enum criterion.
func (in Input) Number(key string) float64 {
	return in.values[key]
}

// Int is Number truncated to int. Validated integer and enum values are whole.
func (in Input) Int(key string) int {
	return int(in.values[key])
}

// Values echoes the input with booleans as bool and numbers as int.
func (in Input) Values() map[string]any {
	out := make(map[string]any, len(in.values))
	for key, v := range in.values {
		if in.kinds[key] == KindBoolean {
			out[key] = v != 0
			continue
		}
		out[key] = int(v)
	}
	return out
}
