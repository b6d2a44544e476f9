package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/anchorlint/anchorlint/analytics"
	"github.com/anchorlint/anchorlint/internal/analyzer"
	"github.com/anchorlint/anchorlint/internal/baseline"
	"github.com/anchorlint/anchorlint/internal/config"
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/rules"
	"github.com/anchorlint/anchorlint/internal/scheduler"
	"github.com/anchorlint/anchorlint/internal/walker"
	"github.com/anchorlint/anchorlint/output"
	"github.com/spf13/cobra"
)

// analyzerWarner adapts *output.Logger to the analyzer.Logger interface,
// whose Warn signature (message plus args) predates output.Logger's
// fmt.Sprintf-style Warning and can't share it directly.
type analyzerWarner struct {
	logger *output.Logger
}

func (w analyzerWarner) Warn(msg string, args ...any) {
	w.logger.Warning(msg, args...)
}

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Scan a Python project for bug-prone patterns",
	Long: `check walks <path>, parses every Python file it finds, and runs the
anchorlint rule set against each one. Findings are printed as text by
default, or as JSON/SARIF for machine consumption.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("json", false, "emit findings as JSON")
	checkCmd.Flags().Bool("sarif", false, "emit findings as SARIF 2.1.0")
	checkCmd.Flags().String("config", "", "path to a YAML configuration file")
	checkCmd.Flags().String("baseline", "", "path to a baseline file; findings already present there are suppressed")
	checkCmd.Flags().Bool("generate-baseline", false, "write the current findings to --baseline instead of reporting them")
	checkCmd.Flags().Bool("show-baseline", false, "report findings even if they are present in the baseline")
	checkCmd.Flags().String("fail-on", "", "comma-separated severities (low,medium,high) that set a non-zero exit code")
	checkCmd.Flags().Int("workers", 0, "number of worker goroutines (default: number of CPUs)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	target := args[0]

	jsonOut, _ := cmd.Flags().GetBool("json")
	sarifOut, _ := cmd.Flags().GetBool("sarif")
	configPath, _ := cmd.Flags().GetString("config")
	baselinePath, _ := cmd.Flags().GetString("baseline")
	generateBaseline, _ := cmd.Flags().GetBool("generate-baseline")
	showBaseline, _ := cmd.Flags().GetBool("show-baseline")
	failOnStr, _ := cmd.Flags().GetString("fail-on")
	workers, _ := cmd.Flags().GetInt("workers")
	noBanner, _ := cmd.Flags().GetBool("no-banner")

	if jsonOut && sarifOut {
		return fmt.Errorf("--json and --sarif are mutually exclusive")
	}

	failOn := output.ParseFailOn(failOnStr)
	if len(failOn) > 0 {
		if err := output.ValidateSeverities(failOn); err != nil {
			return err
		}
	}

	verbosity := output.VerbosityDefault
	if verboseFlag {
		verbosity = output.VerbosityVerbose
	}
	logger := output.NewLogger(verbosity)

	if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
		output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
	} else if logger.IsTTY() && !noBanner {
		fmt.Fprintln(logger.GetWriter(), output.GetCompactBanner(Version))
	}

	analytics.ReportEventWithProperties(analytics.CheckStarted, map[string]interface{}{
		"has_config":   configPath != "",
		"has_baseline": baselinePath != "",
	})

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	cfg := config.Empty()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Warning("failed to load config %s: %v", configPath, err)
		}
		cfg = loaded
	}

	ctx := context.Background()
	logger.StartProgress("Discovering files", -1)
	files, err := walker.Walk(ctx, absTarget, cfg)
	logger.FinishProgress()
	if err != nil {
		analytics.ReportEventWithProperties(analytics.CheckFailed, map[string]interface{}{
			"error_type": "walk",
		})
		return fmt.Errorf("failed to walk %s: %w", absTarget, err)
	}
	pyFiles := filterPythonFiles(files)
	logger.Statistic("Discovered %d Python file(s)", len(pyFiles))

	reg := rules.NewRegistry()
	a := analyzer.New(reg, cfg, analyzerWarner{logger: logger})

	const scanErrors = false // rule panics are recovered inside Analyzer.File and never surface here
	logger.StartProgress("Analyzing files", len(pyFiles))
	results := scheduler.Run(ctx, pyFiles, workers, func(ctx context.Context, file string) []finding.Finding {
		logger.UpdateProgress(1)
		return a.File(ctx, file)
	})
	logger.FinishProgress()

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	var findings []finding.Finding
	for _, r := range results {
		findings = append(findings, r.Findings...)
	}

	if generateBaseline {
		if baselinePath == "" {
			return fmt.Errorf("--generate-baseline requires --baseline <path>")
		}
		if err := baseline.Save(baselinePath, findings); err != nil {
			return fmt.Errorf("failed to write baseline: %w", err)
		}
		analytics.ReportEvent(analytics.BaselineGenerated)
		logger.Progress("Wrote %d finding(s) to %s", len(findings), baselinePath)
		return nil
	}

	reported := findings
	if baselinePath != "" && !showBaseline {
		bl, err := baseline.Load(baselinePath)
		if err != nil {
			logger.Warning("failed to load baseline %s: %v", baselinePath, err)
		}
		reported = bl.Filter(findings)
	}

	if err := writeFindings(reported, len(reg.ForLanguage("python")), jsonOut, sarifOut); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	exitCode := output.DetermineExitCode(reported, failOn, scanErrors)

	analytics.ReportEventWithProperties(analytics.CheckCompleted, map[string]interface{}{
		"duration_ms":    time.Since(startTime).Milliseconds(),
		"files_scanned":  len(pyFiles),
		"findings_count": len(reported),
		"exit_code":      int(exitCode),
	})

	if exitCode != output.ExitCodeSuccess {
		os.Exit(int(exitCode))
	}
	return nil
}

func writeFindings(findings []finding.Finding, rulesExecuted int, jsonOut, sarifOut bool) error {
	switch {
	case jsonOut:
		return output.NewJSONFormatter(nil).Format(findings)
	case sarifOut:
		return output.NewSARIFFormatter(nil).Format(findings)
	default:
		summary := output.BuildSummary(findings, rulesExecuted)
		return output.NewTextFormatter(nil, nil).Format(findings, summary)
	}
}

func filterPythonFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Ext(f) == ".py" {
			out = append(out, f)
		}
	}
	return out
}
