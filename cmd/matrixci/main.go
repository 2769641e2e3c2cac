package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version and Commit are overridden at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// errEntriesFailed marks a run where at least one matrix entry failed, so
// main can distinguish a red build (exit 1) from a usage or configuration
// error (exit 2).
var errEntriesFailed = errors.New("one or more matrix entries failed")

func main() {
	err := execute(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	if errors.Is(err, errEntriesFailed) {
		os.Exit(1)
	}
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

func execute(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "matrixci",
		Short:         "Fail-fast build-matrix pipeline runner",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(), newValidateCmd(), newDrawCmd())

	return cmd
}

func newLogger(out io.Writer, level string, verbose bool) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	if verbose {
		parsed = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(parsed).With().Timestamp().Logger()
}
