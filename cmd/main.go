// Command resicentral serves and evaluates the clinical calculators.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/resicentral/resicentral/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Exit codes.
const (
	exitFailure    = 1
	exitValidation = 2
)

type rootFlags struct {
	logLevel  string
	logFormat string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and maps errors to exit codes.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(stderr, ee.msg)
			return ee.code
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return 0
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "resicentral",
		Short:         "Clinical calculators for residents: CURB-65, Wells PE, Glasgow, NIHSS, CHA2DS2-VASc",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(
				logger.WithLevel(f.logLevel),
				logger.WithFormat(f.logFormat),
				logger.WithOutput(cmd.ErrOrStderr()),
			)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&f.logFormat, "log-format", logger.FormatText, "Log format: text or json")

	root.AddCommand(
		newServeCmd(),
		newListCmd(),
		newDescribeCmd(),
		newEvaluateCmd(),
		newSmokeCmd(),
	)
	return root
}

// exitErr carries a message and a process exit code.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
