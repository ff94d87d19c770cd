package calculator

// Categories used by the built-in calculators.
const (
	CategoryRespiratory    = "Respiratorio"
	CategoryCardiovascular = "Cardiovascular"
	CategoryNeurological   = "Neurológico"
)

var builtin = mustRegistry(
	CURB65(),
	WellsPE(),
	Glasgow(),
	CHA2DS2VASc(),
	NIHSS(),
)

// Builtin returns the process-wide registry of built-in calculators.
func Builtin() *Registry {
	return builtin
}

func mustRegistry(defs ...*Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}
