package smoke

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/pkg/logger"
)

// generateCases builds config.Requests valid cases spread round-robin over
// the selected calculators, with the expected result of each.
func generateCases(ctx context.Context, config *Config, reg *calculator.Registry, stats *Stats) ([]Case, error) {
	defs, err := selectDefinitions(config, reg)
	if err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock value
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1)) //nolint:gosec // test inputs, not secrets
	logger.Get().Info(ctx, "generating cases",
		logger.Int("requests", config.Requests),
		logger.Int("calculators", len(defs)),
		logger.Any("seed", seed))

	cases := make([]Case, config.Requests)
	for i := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during case generation: %w", err)
		}
		def := defs[i%len(defs)]
		inputs := generateInputs(rng, def)
		expected, err := def.Evaluate(inputs)
		if err != nil {
			return nil, fmt.Errorf("generated inputs for %s were rejected locally: %w", def.Key(), err)
		}
		cases[i] = Case{
			ID:         uuid.NewString(),
			Calculator: def.Key(),
			Inputs:     inputs,
			Expected:   expected,
		}
	}

	stats.Generated = len(cases)
	return cases, nil
}

func selectDefinitions(config *Config, reg *calculator.Registry) ([]*calculator.Definition, error) {
	if len(config.Calculators) == 0 {
		defs := reg.List(calculator.Filter{})
		if len(defs) == 0 {
			return nil, ErrNoCases
		}
		return defs, nil
	}
	defs := make([]*calculator.Definition, 0, len(config.Calculators))
	for _, key := range config.Calculators {
		def, err := reg.Get(key)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// generateInputs picks an in-range value for every criterion. Optional
// booleans are sometimes omitted so the absent-means-false path is covered.
func generateInputs(rng *rand.Rand, def *calculator.Definition) map[string]any {
	criteria := def.Criteria()
	inputs := make(map[string]any, len(criteria))
	for _, c := range criteria {
		switch c.Kind {
		case calculator.KindBoolean:
			if !c.Required && rng.IntN(4) == 0 {
				continue
			}
			inputs[c.Key] = rng.IntN(2) == 1
		case calculator.KindInteger:
			lo, hi := int(c.Min), int(c.Max)
			inputs[c.Key] = lo + rng.IntN(hi-lo+1)
		case calculator.KindEnum:
			inputs[c.Key] = c.Options[rng.IntN(len(c.Options))].Value
		}
	}
	return inputs
}
