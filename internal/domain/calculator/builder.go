package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Builder assembles a Definition. Declaration errors are accumulated and
// reported together by Build.
type Builder struct {
	def      Definition
	hasRange bool
	errs     []error
}

// New starts a definition with the given registry key.
func New(key string) *Builder {
	return &Builder{def: Definition{key: strings.TrimSpace(key)}}
}

func (b *Builder) Name(name string) *Builder {
	b.def.name = name
	return b
}

func (b *Builder) Category(category string) *Builder {
	b.def.category = category
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.def.description = description
	return b
}

// Reference sets the bibliographic source of the rule.
func (b *Builder) Reference(reference string) *Builder {
	b.def.reference = reference
	return b
}

// Boolean declares a finding that is either present or absent. Findings are
// optional unless Required is passed; absence scores as not present.
func (b *Builder) Boolean(key, label string, opts ...CriterionOption) *Builder {
	return b.criterion(Criterion{Key: key, Label: label, Kind: KindBoolean}, opts)
}

// Integer declares a required whole-number measurement accepted within the
// inclusive range [min, max].
func (b *Builder) Integer(key, label string, min, max float64, opts ...CriterionOption) *Builder {
	if min > max {
		b.errs = append(b.errs, fmt.Errorf("criterion %q: min %s above max %s", key, formatNumber(min), formatNumber(max)))
	}
	return b.criterion(Criterion{Key: key, Label: label, Kind: KindInteger, Min: min, Max: max, Required: true}, opts)
}

// Enum declares a required choice among fixed ordinal options.
func (b *Builder) Enum(key, label string, options []Option, opts ...CriterionOption) *Builder {
	if len(options) == 0 {
		b.errs = append(b.errs, fmt.Errorf("criterion %q: no options", key))
	}
	seen := make(map[int]bool, len(options))
	for _, o := range options {
		if seen[o.Value] {
			b.errs = append(b.errs, fmt.Errorf("criterion %q: duplicate option value %d", key, o.Value))
		}
		seen[o.Value] = true
	}
	c := Criterion{Key: key, Label: label, Kind: KindEnum, Options: append([]Option(nil), options...), Required: true}
	return b.criterion(c, opts)
}

func (b *Builder) criterion(c Criterion, opts []CriterionOption) *Builder {
	for _, opt := range opts {
		opt(&c)
	}
	if strings.TrimSpace(c.Key) == "" {
		b.errs = append(b.errs, errors.New("criterion with empty key"))
	}
	for _, existing := range b.def.criteria {
		if existing.Key == c.Key {
			b.errs = append(b.errs, fmt.Errorf("duplicate criterion %q", c.Key))
		}
	}
	b.def.criteria = append(b.def.criteria, c)
	return b
}

// Terms appends scoring terms.
func (b *Builder) Terms(terms ...Term) *Builder {
	b.def.terms = append(b.def.terms, terms...)
	return b
}

// Range declares the theoretical score range [min, max].
func (b *Builder) Range(min, max float64) *Builder {
	b.def.minScore, b.def.maxScore = min, max
	b.hasRange = true
	return b
}

// Band appends the interpretation band [lower, upper). Bands must be declared
// in ascending order; the last one is closed at the range maximum.
func (b *Builder) Band(lower, upper float64, risk Risk, interpretation, recommendation string) *Builder {
	b.def.bands = append(b.def.bands, Band{
		Lower:          lower,
		Upper:          upper,
		Risk:           risk,
		Interpretation: interpretation,
		Recommendation: recommendation,
	})
	return b
}

// Build validates the declaration and returns the immutable definition.
func (b *Builder) Build() (*Definition, error) {
	errs := append([]error(nil), b.errs...)
	d := b.def

	if d.key == "" {
		errs = append(errs, errors.New("empty key"))
	}
	if strings.TrimSpace(d.name) == "" {
		errs = append(errs, errors.New("empty name"))
	}
	if strings.TrimSpace(d.category) == "" {
		errs = append(errs, errors.New("empty category"))
	}
	if len(d.criteria) == 0 {
		errs = append(errs, errors.New("no criteria"))
	}
	errs = append(errs, checkTerms(d.terms, d.criteria)...)
	if !b.hasRange {
		errs = append(errs, errors.New("score range not declared"))
	} else if d.minScore > d.maxScore {
		errs = append(errs, fmt.Errorf("score range [%s, %s] is empty", formatNumber(d.minScore), formatNumber(d.maxScore)))
	} else {
		errs = append(errs, checkBands(d.bands, d.minScore, d.maxScore)...)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidDefinition, d.key, errors.Join(errs...))
	}

	d.criteria = make([]Criterion, len(b.def.criteria))
	for i, c := range b.def.criteria {
		d.criteria[i] = c.clone()
	}
	d.terms = append([]Term(nil), b.def.terms...)
	d.bands = append([]Band(nil), b.def.bands...)
	return &d, nil
}

// MustBuild is Build for package-level definitions; it panics on error.
func (b *Builder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func checkTerms(terms []Term, criteria []Criterion) []error {
	if len(terms) == 0 {
		return []error{errors.New("no scoring terms")}
	}
	kinds := make(map[string]Kind, len(criteria))
	for _, c := range criteria {
		kinds[c.Key] = c.Kind
	}
	var errs []error
	for _, t := range terms {
		switch {
		case t.valueOf != "":
			if kinds[t.valueOf] != KindEnum {
				errs = append(errs, fmt.Errorf("term %q: %q is not an enum criterion", t.label, t.valueOf))
			}
		case t.when == nil:
			errs = append(errs, fmt.Errorf("term %q: no condition", t.label))
		}
	}
	return errs
}
