// Package finding defines the immutable diagnostic record produced by rules
// and consumed by the baseline filter and output formatters.
package finding

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Severity is a totally ordered diagnostic level.
type Severity int

// Severity levels, ordered from least to most severe.
const (
	Low Severity = iota
	Medium
	High
)

// String returns the uppercase name used in serialized output.
func (s Severity) String() string {
	switch s {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "LOW"
	}
}

// ParseSeverity parses the uppercase name back into a Severity. ok is false
// for any unrecognized name.
func ParseSeverity(s string) (sev Severity, ok bool) {
	switch s {
	case "LOW":
		return Low, true
	case "MEDIUM":
		return Medium, true
	case "HIGH":
		return High, true
	default:
		return Low, false
	}
}

var ruleIDPattern = regexp.MustCompile(`^[A-Z][0-9]{3}$`)

// Finding is a single, file-anchored diagnostic. Once constructed it must
// not be mutated; WithSuggestion, WithCodeSnippet and WithSeverity return
// modified copies instead.
type Finding struct {
	// ID is a run-scoped identifier, useful for correlating output rows; it
	// is never part of the baseline fingerprint (see Fingerprint).
	ID          string
	RuleID      string
	Message     string
	Severity    Severity
	File        string
	Line        int
	Column      int
	Suggestion  string
	CodeSnippet string
}

// New constructs a Finding, assigning it a fresh run-scoped ID and
// validating the invariants from the data model: line >= 1, column >= 0,
// and a well-formed rule id.
func New(ruleID, message string, severity Severity, file string, line, column int) (Finding, error) {
	if line < 1 {
		return Finding{}, fmt.Errorf("finding: line must be >= 1, got %d", line)
	}
	if column < 0 {
		return Finding{}, fmt.Errorf("finding: column must be >= 0, got %d", column)
	}
	if !ruleIDPattern.MatchString(ruleID) {
		return Finding{}, fmt.Errorf("finding: rule id %q does not match ^[A-Z][0-9]{3}$", ruleID)
	}
	if len(message) > 200 {
		message = message[:200]
	}
	return Finding{
		ID:       uuid.NewString(),
		RuleID:   ruleID,
		Message:  message,
		Severity: severity,
		File:     file,
		Line:     line,
		Column:   column,
	}, nil
}

// WithSuggestion returns a copy of f carrying the given suggestion text.
func (f Finding) WithSuggestion(suggestion string) Finding {
	f.Suggestion = suggestion
	return f
}

// WithCodeSnippet returns a copy of f carrying the given source snippet.
func (f Finding) WithCodeSnippet(snippet string) Finding {
	f.CodeSnippet = snippet
	return f
}

// WithSeverity returns a copy of f with its severity replaced. Used by the
// per-file analyzer to apply the effective (config-overridden) severity.
func (f Finding) WithSeverity(s Severity) Finding {
	f.Severity = s
	return f
}
