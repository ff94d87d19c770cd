package main

import (
	"time"

	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/smoke"
	"github.com/spf13/cobra"
)

func newSmokeCmd() *cobra.Command {
	config := smoke.Config{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise a running server and check its results against local evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := smoke.Run(cmd.Context(), config, calculator.Builtin())
			printf(cmd.OutOrStdout(), "submitted %d, matched %d, mismatched %d, failed %d, recorded %d in %s\n",
				stats.Submitted, stats.Successful, stats.Mismatched, stats.Failed, stats.Recorded,
				stats.Duration.Round(time.Millisecond))
			if err != nil {
				return exitError(exitFailure, "smoke test failed: %v", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	flags.IntVar(&config.Requests, "requests", smoke.DefaultRequests, "Number of evaluations to submit")
	flags.IntVar(&config.Workers, "workers", smoke.DefaultWorkers, "Number of concurrent workers")
	flags.DurationVar(&config.Timeout, "timeout", smoke.DefaultTimeout, "HTTP request timeout")
	flags.StringVar(&config.UserID, "user", smoke.DefaultUserID, "Caller identity sent as X-User-ID")
	flags.StringSliceVar(&config.Calculators, "calculator", nil, "Calculators to exercise (default all)")
	flags.Uint64Var(&config.Seed, "seed", 0, "Input generator seed (default from the clock)")
	flags.DurationVar(&config.Settle, "settle", smoke.DefaultSettle, "How long to wait for history writes")
	flags.BoolVar(&config.Verbose, "verbose", false, "Log every mismatch and failure")
	return cmd
}
