package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// CSVFormatter formats findings as CSV.
type CSVFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewCSVFormatter creates a CSV formatter writing to stdout.
func NewCSVFormatter(opts *OutputOptions) *CSVFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &CSVFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewCSVFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewCSVFormatterWithWriter(w io.Writer, opts *OutputOptions) *CSVFormatter {
	cf := NewCSVFormatter(opts)
	cf.writer = w
	return cf
}

// CSVHeaders returns the CSV column headers.
func CSVHeaders() []string {
	return []string{
		"severity",
		"rule_id",
		"file",
		"line",
		"column",
		"message",
		"suggestion",
	}
}

// Format writes findings as CSV.
func (f *CSVFormatter) Format(findings []finding.Finding) error {
	w := csv.NewWriter(f.writer)
	defer w.Flush()

	if err := w.Write(CSVHeaders()); err != nil {
		return err
	}

	for _, fnd := range findings {
		if err := w.Write(f.buildRow(fnd)); err != nil {
			return err
		}
	}

	return w.Error()
}

func (f *CSVFormatter) buildRow(fnd finding.Finding) []string {
	return []string{
		fnd.Severity.String(),
		fnd.RuleID,
		fnd.File,
		strconv.Itoa(fnd.Line),
		strconv.Itoa(fnd.Column),
		fnd.Message,
		fnd.Suggestion,
	}
}
