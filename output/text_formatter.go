package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// TextFormatter formats findings as human-readable text.
type TextFormatter struct {
	writer  io.Writer
	options *OutputOptions
	logger  *Logger
}

// NewTextFormatter creates a text formatter writing to stdout.
func NewTextFormatter(opts *OutputOptions, logger *Logger) *TextFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &TextFormatter{
		writer:  os.Stdout,
		options: opts,
		logger:  logger,
	}
}

// NewTextFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewTextFormatterWithWriter(w io.Writer, opts *OutputOptions, logger *Logger) *TextFormatter {
	tf := NewTextFormatter(opts, logger)
	tf.writer = w
	return tf
}

// Format writes findings as formatted text.
func (f *TextFormatter) Format(findings []finding.Finding, summary *Summary) error {
	if len(findings) == 0 {
		f.writeNoFindings()
		return nil
	}

	f.writeHeader()
	f.writeResults(findings)
	f.writeSummary(summary)
	return nil
}

func (f *TextFormatter) writeHeader() {
	fmt.Fprintln(f.writer, "anchorlint scan")
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeNoFindings() {
	fmt.Fprintln(f.writer, "anchorlint scan")
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "No issues found.")
}

func (f *TextFormatter) writeResults(findings []finding.Finding) {
	fmt.Fprintln(f.writer, "Results:")
	fmt.Fprintln(f.writer)

	grouped := groupBySeverity(findings)
	for _, sev := range []finding.Severity{finding.High, finding.Medium, finding.Low} {
		if group := grouped[sev]; len(group) > 0 {
			f.writeSeverityGroup(sev, group)
		}
	}
}

func groupBySeverity(findings []finding.Finding) map[finding.Severity][]finding.Finding {
	grouped := make(map[finding.Severity][]finding.Finding)
	for _, fnd := range findings {
		grouped[fnd.Severity] = append(grouped[fnd.Severity], fnd)
	}
	return grouped
}

func (f *TextFormatter) writeSeverityGroup(severity finding.Severity, findings []finding.Finding) {
	fmt.Fprintf(f.writer, "%s (%d):\n", strings.Title(strings.ToLower(severity.String())), len(findings))
	fmt.Fprintln(f.writer)

	for _, fnd := range findings {
		f.writeFinding(fnd)
	}
	fmt.Fprintln(f.writer)
}

func (f *TextFormatter) writeFinding(fnd finding.Finding) {
	fmt.Fprintf(f.writer, "  [%s] %s: %s\n", fnd.Severity, fnd.RuleID, fnd.Message)
	fmt.Fprintf(f.writer, "    %s\n", formatLocation(fnd))
	if fnd.CodeSnippet != "" {
		f.writeCodeSnippet(fnd)
	}
	if fnd.Suggestion != "" {
		fmt.Fprintf(f.writer, "    Suggestion: %s\n", fnd.Suggestion)
	}
	fmt.Fprintln(f.writer)
}

func formatLocation(fnd finding.Finding) string {
	if fnd.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", fnd.File, fnd.Line, fnd.Column)
	}
	return fmt.Sprintf("%s:%d", fnd.File, fnd.Line)
}

func (f *TextFormatter) writeCodeSnippet(fnd finding.Finding) {
	for _, line := range strings.Split(fnd.CodeSnippet, "\n") {
		fmt.Fprintf(f.writer, "      | %s\n", line)
	}
}

func (f *TextFormatter) writeSummary(summary *Summary) {
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  %d findings across %d rules\n", summary.TotalFindings, summary.RulesExecuted)

	var parts []string
	for _, sev := range []finding.Severity{finding.High, finding.Medium, finding.Low} {
		if count, ok := summary.BySeverity[sev.String()]; ok && count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, strings.ToLower(sev.String())))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(f.writer, "  %s\n", strings.Join(parts, " | "))
	}
	fmt.Fprintln(f.writer)
}

// Summary holds aggregated statistics for a completed scan.
type Summary struct {
	TotalFindings int
	RulesExecuted int
	BySeverity    map[string]int
	FilesScanned  int
	Duration      string
}

// BuildSummary computes a Summary from a scan's findings.
func BuildSummary(findings []finding.Finding, rulesExecuted int) *Summary {
	summary := &Summary{
		TotalFindings: len(findings),
		RulesExecuted: rulesExecuted,
		BySeverity:    make(map[string]int),
	}
	for _, fnd := range findings {
		summary.BySeverity[fnd.Severity.String()]++
	}
	return summary
}
