package output

import (
	"encoding/json"
	"io"
	"os"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// SARIFFormatter formats findings as SARIF 2.1.0, for consumption by
// editors and CI dashboards that understand the format.
type SARIFFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewSARIFFormatter creates a SARIF formatter writing to stdout.
func NewSARIFFormatter(opts *OutputOptions) *SARIFFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &SARIFFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewSARIFFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewSARIFFormatterWithWriter(w io.Writer, opts *OutputOptions) *SARIFFormatter {
	sf := NewSARIFFormatter(opts)
	sf.writer = w
	return sf
}

// Format writes findings as a SARIF log.
func (f *SARIFFormatter) Format(findings []finding.Finding) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("anchorlint", "https://github.com/anchorlint/anchorlint")

	f.buildRules(findings, run)
	for _, fnd := range findings {
		f.buildResult(fnd, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) buildRules(findings []finding.Finding, run *sarif.Run) {
	seen := make(map[string]bool)
	for _, fnd := range findings {
		if seen[fnd.RuleID] {
			continue
		}
		seen[fnd.RuleID] = true

		rule := run.AddRule(fnd.RuleID).
			WithDescription(fnd.Message).
			WithName(fnd.RuleID).
			WithHelpURI("https://github.com/anchorlint/anchorlint")

		level := f.severityToLevel(fnd.Severity)
		rule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(level))
	}
}

func (f *SARIFFormatter) severityToLevel(sev finding.Severity) string {
	switch sev {
	case finding.High:
		return "error"
	case finding.Medium:
		return "warning"
	default:
		return "note"
	}
}

func (f *SARIFFormatter) buildResult(fnd finding.Finding, run *sarif.Run) {
	result := run.CreateResultForRule(fnd.RuleID).
		WithMessage(sarif.NewTextMessage(fnd.Message))

	region := sarif.NewRegion().WithStartLine(fnd.Line)
	if fnd.Column > 0 {
		region.WithStartColumn(fnd.Column)
	}

	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(fnd.File)).
				WithRegion(region),
		)

	result.AddLocation(location)
}
