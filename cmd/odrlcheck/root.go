package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "odrlcheck",
	Short: "odrlcheck - ODRL policy structural and semantic validation",
	Long: `odrlcheck validates ODRL 2.2 policies expressed as RDF Turtle.

It reports:
  - Structural violations (missing uid, missing rules, malformed constraints)
  - Invalid operators and unknown left operands
  - Operators that are not meaningful for their left operand
  - Logical constraints with too few operands

Results are available as JSON, as a Markdown feedback document, over an
HTTP API, and in an optional validation history.

Exit codes: 0 all policies valid, 1 at least one policy invalid, 2 error.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// The report already explains invalid policies.
		if !errors.Is(err, cli.ErrInvalidPolicy) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
