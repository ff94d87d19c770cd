package calculator

import (
	"fmt"
	"sort"
	"strings"
)

// Filter narrows List. Empty fields match everything; set fields combine with AND.
type Filter struct {
	// Category must match exactly.
	Category string
	// Search is a case-insensitive substring of the name or description.
	Search string
}

// Registry is a read-only set of definitions keyed by Definition.Key.
type Registry struct {
	byKey  map[string]*Definition
	sorted []*Definition
}

// NewRegistry indexes defs. Duplicate keys are rejected.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if d == nil {
			return nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
		}
		if _, dup := r.byKey[d.key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidDefinition, d.key)
		}
		r.byKey[d.key] = d
		r.sorted = append(r.sorted, d)
	}
	sort.SliceStable(r.sorted, func(i, j int) bool {
		a, b := strings.ToLower(r.sorted[i].name), strings.ToLower(r.sorted[j].name)
		if a != b {
			return a < b
		}
		return r.sorted[i].key < r.sorted[j].key
	})
	return r, nil
}

// Get returns the definition for key or a *NotFoundError.
func (r *Registry) Get(key string) (*Definition, error) {
	d, ok := r.byKey[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return d, nil
}

// List returns the definitions matching f, ordered by display name.
func (r *Registry) List(f Filter) []*Definition {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Definition, 0, len(r.sorted))
	for _, d := range r.sorted {
		if f.Category != "" && d.category != f.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(d.name), term) &&
			!strings.Contains(strings.ToLower(d.description), term) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Categories returns the distinct categories in ascending order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range r.sorted {
		if !seen[d.category] {
			seen[d.category] = true
			out = append(out, d.category)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered calculators.
func (r *Registry) Len() int { return len(r.sorted) }

// Evaluate looks up key and evaluates raw with it.
func (r *Registry) Evaluate(key string, raw map[string]any) (Result, error) {
	d, err := r.Get(key)
	if err != nil {
		return Result{}, err
	}
	return d.Evaluate(raw)
}
