package cmd

import (
	"fmt"
	"os"

	"github.com/anchorlint/anchorlint/analytics"
	"github.com/anchorlint/anchorlint/output"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	Version     = "0.1.0"
	GitCommit   = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "anchorlint",
	Short: "A fast static analyzer for Python",
	Long: `anchorlint is a static analyzer for Python that flags a focused set of
bug-prone and misleading patterns: mutable default arguments, silently
swallowed exceptions, unclosed file handles, infinite loops with no exit,
functions whose names promise a guarantee they don't keep, getters that
never return a value, and possible null dereferences.

Findings are deterministic, rule failures never crash the scan, and a
baseline file lets you adopt anchorlint on an existing codebase without
being buried in pre-existing findings.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		verboseFlag, _ = cmd.Flags().GetBool("verbose")             //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)

		// Show banner for help command
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
