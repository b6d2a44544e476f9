package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// JSONFormatter formats findings as the §6 JSON findings output: a bare
// JSON array of finding records, the same shape the baseline file uses
// (§4.5) so a baseline can be generated straight from `check --json`
// output and consumed straight back by json.Unmarshal into []JSONResult.
type JSONFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewJSONFormatter creates a JSON formatter writing to stdout.
func NewJSONFormatter(opts *OutputOptions) *JSONFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JSONFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewJSONFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewJSONFormatterWithWriter(w io.Writer, opts *OutputOptions) *JSONFormatter {
	jf := NewJSONFormatter(opts)
	jf.writer = w
	return jf
}

// JSONResult is a single finding, matching the §6 findings-output shape.
type JSONResult struct {
	RuleID      string `json:"rule_id"` //nolint:tagliatelle
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Suggestion  string `json:"suggestion,omitempty"`
	CodeSnippet string `json:"code_snippet,omitempty"`
}

// Format writes findings as a bare JSON array of finding records, never
// wrapped in a tool/scan/summary envelope: §6 specifies the findings
// output as "array of objects with fields rule_id, message, severity,
// file, line, column, suggestion, code_snippet", and scan/tool metadata
// belongs to the text summary and the logger, not this payload.
func (f *JSONFormatter) Format(findings []finding.Finding) error {
	results := make([]JSONResult, 0, len(findings))
	for _, fnd := range findings {
		results = append(results, JSONResult{
			RuleID:      fnd.RuleID,
			Message:     fnd.Message,
			Severity:    fnd.Severity.String(),
			File:        fnd.File,
			Line:        fnd.Line,
			Column:      fnd.Column,
			Suggestion:  fnd.Suggestion,
			CodeSnippet: fnd.CodeSnippet,
		})
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
