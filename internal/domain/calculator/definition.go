// Package calculator implements the clinical calculator engine: immutable
// calculator definitions, a read-only registry, input validation, scoring
// and risk interpretation.
//
// Every operation is a pure function of its arguments. Definitions are built
// once at startup and never mutated, so they are safe for concurrent use
// without synchronization.
package calculator

// Calculator is the uniform capability every scoring rule exposes.
type Calculator interface {
	// Key returns the unique registry key, e.g. "curb65".
	Key() string
	// Validate checks raw values and reports every problem at once.
	Validate(raw map[string]any) (Input, error)
	// Score sums the scoring terms over a validated input.
	Score(in Input) (float64, []Contribution)
	// Interpret maps a score to its band.
	Interpret(score float64) (Band, error)
}

// Definition is an immutable clinical scoring rule. Build one with New.
type Definition struct {
	key         string
	name        string
	category    string
	description string
	reference   string
	criteria    []Criterion
	terms       []Term
	bands       []Band
	minScore    float64
	maxScore    float64
}

var _ Calculator = (*Definition)(nil)

// Result is the outcome of applying a definition to a validated input.
type Result struct {
	Calculator     string         `json:"calculator" yaml:"calculator"`
	Score          float64        `json:"score" yaml:"score"`
	Risk           Risk           `json:"risk_category" yaml:"risk_category"`
	Interpretation string         `json:"interpretation" yaml:"interpretation"`
	Recommendation string         `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Breakdown      []Contribution `json:"breakdown" yaml:"breakdown"`
	Inputs         map[string]any `json:"inputs" yaml:"inputs"`
}

func (d *Definition) Key() string         { return d.key }
func (d *Definition) Name() string        { return d.name }
func (d *Definition) Category() string    { return d.category }
func (d *Definition) Description() string { return d.description }
func (d *Definition) Reference() string   { return d.reference }

// ScoreRange returns the theoretical [min, max] score.
func (d *Definition) ScoreRange() (float64, float64) {
	return d.minScore, d.maxScore
}

// Criteria returns a copy of the input schema in declaration order.
func (d *Definition) Criteria() []Criterion {
	out := make([]Criterion, len(d.criteria))
	for i, c := range d.criteria {
		out[i] = c.clone()
	}
	return out
}

// Bands returns a copy of the interpretation table in ascending order.
func (d *Definition) Bands() []Band {
	return append([]Band(nil), d.bands...)
}

// Score sums every term. Terms are independent, so the order they were
// declared in does not change the total.
func (d *Definition) Score(in Input) (float64, []Contribution) {
	var total float64
	parts := make([]Contribution, len(d.terms))
	for i, t := range d.terms {
		pts := t.apply(in)
		parts[i] = Contribution{Label: t.label, Points: pts}
		total += pts
	}
	return total, parts
}

// Interpret returns the band covering score. Scores outside the theoretical
// range yield an InternalConsistencyError.
func (d *Definition) Interpret(score float64) (Band, error) {
	if score >= d.minScore && score <= d.maxScore {
		for i, b := range d.bands {
			if b.contains(score, i == len(d.bands)-1) {
				return b, nil
			}
		}
	}
	return Band{}, &InternalConsistencyError{
		Calculator: d.key,
		Score:      score,
		Min:        d.minScore,
		Max:        d.maxScore,
	}
}

// Evaluate validates raw, scores it and interprets the score. No partial
// result is produced when validation fails.
func (d *Definition) Evaluate(raw map[string]any) (Result, error) {
	in, err := d.Validate(raw)
	if err != nil {
		return Result{}, err
	}
	score, parts := d.Score(in)
	band, err := d.Interpret(score)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Calculator:     d.key,
		Score:          score,
		Risk:           band.Risk,
		Interpretation: band.Interpretation,
		Recommendation: band.Recommendation,
		Breakdown:      parts,
		Inputs:         in.Values(),
	}, nil
}
