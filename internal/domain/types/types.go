// Package types contains common types used across the application
package types

import (
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/domain/model"
)

// Summary is a calculator listing row.
type Summary struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Field describes one input criterion for form rendering.
type Field struct {
	Key      string              `json:"key" yaml:"key"`
	Label    string              `json:"label" yaml:"label"`
	Type     string              `json:"type" yaml:"type"`
	Required bool                `json:"required" yaml:"required"`
	Unit     string              `json:"unit,omitempty" yaml:"unit,omitempty"`
	Min      *float64            `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64            `json:"max,omitempty" yaml:"max,omitempty"`
	Options  []calculator.Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Band is one row of the interpretation table.
type Band struct {
	Interval       string  `json:"interval" yaml:"interval"`
	Lower          float64 `json:"lower" yaml:"lower"`
	Upper          float64 `json:"upper" yaml:"upper"`
	Risk           string  `json:"risk_category" yaml:"risk_category"`
	Interpretation string  `json:"interpretation" yaml:"interpretation"`
	Recommendation string  `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// Detail is the full calculator schema.
type Detail struct {
	Summary   `yaml:",inline"`
	Reference string  `json:"reference" yaml:"reference"`
	MinScore  float64 `json:"min_score" yaml:"min_score"`
	MaxScore  float64 `json:"max_score" yaml:"max_score"`
	Fields    []Field `json:"fields" yaml:"fields"`
	Bands     []Band  `json:"bands" yaml:"bands"`
}

// SummaryOf builds the listing row for d.
func SummaryOf(d *calculator.Definition) Summary {
	return Summary{
		Key:         d.Key(),
		Name:        d.Name(),
		Category:    d.Category(),
		Description: d.Description(),
	}
}

// Summaries maps SummaryOf over defs.
func Summaries(defs []*calculator.Definition) []Summary {
	out := make([]Summary, len(defs))
	for i, d := range defs {
		out[i] = SummaryOf(d)
	}
	return out
}

// DetailOf builds the full schema view of d.
func DetailOf(d *calculator.Definition) Detail {
	lo, hi := d.ScoreRange()
	criteria := d.Criteria()
	bands := d.Bands()

	detail := Detail{
		Summary:   SummaryOf(d),
		Reference: d.Reference(),
		MinScore:  lo,
		MaxScore:  hi,
		Fields:    make([]Field, len(criteria)),
		Bands:     make([]Band, len(bands)),
	}
	for i, c := range criteria {
		f := Field{
			Key:      c.Key,
			Label:    c.Label,
			Type:     c.Kind.String(),
			Required: c.Required,
			Unit:     c.Unit,
			Options:  c.Options,
		}
		if c.Kind == calculator.KindInteger {
			min, max := c.Min, c.Max
			f.Min, f.Max = &min, &max
		}
		detail.Fields[i] = f
	}
	for i, b := range bands {
		detail.Bands[i] = Band{
			Interval:       b.Interval(i == len(bands)-1),
			Lower:          b.Lower,
			Upper:          b.Upper,
			Risk:           b.Risk.String(),
			Interpretation: b.Interpretation,
			Recommendation: b.Recommendation,
		}
	}
	return detail
}

// FieldError is one per-field validation problem as reported to clients.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// FieldErrors flattens a validation error for clients.
func FieldErrors(verr *calculator.ValidationError) []FieldError {
	out := make([]FieldError, len(verr.Problems))
	for i, p := range verr.Problems {
		out[i] = FieldError{Field: p.FieldName(), Message: p.Error()}
	}
	return out
}

// Evaluation is a stamped calculation plus whether it went to history.
type Evaluation struct {
	model.Calculation `yaml:",inline"`
	Recorded          bool `json:"recorded" yaml:"recorded"`
}
