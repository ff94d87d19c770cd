package main

import (
	"errors"
	"io"
	"strings"
	"text/tabwriter"

	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/domain/types"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		filter calculator.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries := service.New().ListCalculators(filter)
			return render(cmd.OutOrStdout(), output, summaries, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				printf(tw, "KEY\tNAME\tCATEGORY\n")
				for _, s := range summaries {
					printf(tw, "%s\t%s\t%s\n", s.Key, s.Name, s.Category)
				}
				return tw.Flush()
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Category, "category", "", "Only calculators in this category (exact match)")
	flags.StringVar(&filter.Search, "search", "", "Case-insensitive substring of the name or description")
	flags.StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "describe <key>",
		Short: "Show the inputs and interpretation bands of a calculator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := service.New().Calculator(args[0])
			if err != nil {
				return notFound(err)
			}
			return render(cmd.OutOrStdout(), output, detail, func(w io.Writer) error {
				return describeText(w, detail)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	return cmd
}

func describeText(w io.Writer, d types.Detail) error {
	printf(w, "%s (%s)\n%s\n", d.Name, d.Key, d.Description)
	printf(w, "Category: %s\nScore:    %s to %s\n", d.Category, formatNumber(d.MinScore), formatNumber(d.MaxScore))
	if d.Reference != "" {
		printf(w, "Source:   %s\n", d.Reference)
	}

	printf(w, "\nInputs:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range d.Fields {
		printf(tw, "  %s\t%s\t%s\t%s\n", f.Key, f.Type, fieldDomain(f), f.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	printf(w, "\nInterpretation:\n")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range d.Bands {
		printf(tw, "  %s\t%s\t%s\n", b.Interval, b.Risk, b.Interpretation)
	}
	return tw.Flush()
}

// fieldDomain renders the accepted values of one input.
func fieldDomain(f types.Field) string {
	var parts []string
	switch {
	case len(f.Options) > 0:
		for _, o := range f.Options {
			parts = append(parts, formatNumber(float64(o.Value)))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case f.Min != nil && f.Max != nil:
		domain := "[" + formatNumber(*f.Min) + ".." + formatNumber(*f.Max) + "]"
		if f.Unit != "" {
			domain += " " + f.Unit
		}
		return domain
	case f.Required:
		return "required"
	default:
		return "optional"
	}
}

// notFound maps an unknown calculator key to exit code 1.
func notFound(err error) error {
	var nf *calculator.NotFoundError
	if errors.As(err, &nf) {
		return exitError(exitFailure, "unknown calculator %q; run `resicentral list`", nf.Key)
	}
	return err
}
