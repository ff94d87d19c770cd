package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/domain/types"
	"github.com/spf13/cobra"
)

func newEvaluateCmd() *cobra.Command {
	var (
		sets   []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "evaluate <key>",
		Short: "Evaluate a calculator",
		Long: "Evaluate a calculator with inputs given as --set key=value.\n" +
			"Booleans accept true/false, 1/0 or si/no; omitted optional findings count as absent.",
		Example: "  resicentral evaluate curb65 --set confusion=false --set urea_high=false \\\n" +
			"    --set rr=20 --set sbp=120 --set dbp=80 --set age=45",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseSets(sets)
			if err != nil {
				return err
			}
			ev, err := service.New().Evaluate(cmd.Context(), service.EvaluateRequest{
				Calculator: args[0],
				Inputs:     inputs,
			})
			if err != nil {
				return evaluationError(err)
			}
			return render(cmd.OutOrStdout(), output, ev.Result, func(w io.Writer) error {
				return resultText(w, ev)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&sets, "set", nil, "Input as key=value (repeatable)")
	flags.StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}

// parseSets turns key=value pairs into raw inputs. Values stay strings;
// the validator coerces them per criterion.
func parseSets(sets []string) (map[string]any, error) {
	inputs := make(map[string]any, len(sets))
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, exitError(exitFailure, "invalid --set %q: want key=value", kv)
		}
		inputs[key] = strings.TrimSpace(value)
	}
	return inputs, nil
}

// evaluationError lists every field problem and picks the exit code.
func evaluationError(err error) error {
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		var b strings.Builder
		fmt.Fprintf(&b, "invalid input for %s:", verr.Calculator)
		for _, fe := range types.FieldErrors(verr) {
			fmt.Fprintf(&b, "\n  - %s", fe.Message)
		}
		return exitError(exitValidation, "%s", b.String())
	}
	return notFound(err)
}

func resultText(w io.Writer, ev types.Evaluation) error {
	res := ev.Result
	printf(w, "%s: %s (%s)\n", res.Calculator, formatNumber(res.Score), res.Risk)
	printf(w, "%s\n", res.Interpretation)
	if res.Recommendation != "" {
		printf(w, "%s\n", res.Recommendation)
	}
	if len(res.Breakdown) == 0 {
		return nil
	}
	printf(w, "\nBreakdown:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range res.Breakdown {
		printf(tw, "  %s\t%s\n", c.Label, formatNumber(c.Points))
	}
	return tw.Flush()
}
