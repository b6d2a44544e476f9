package output

import (
	"fmt"
	"strings"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// ExitCode represents the exit code for the CLI.
type ExitCode int

const (
	// ExitCodeSuccess indicates successful execution with no findings matching --fail-on.
	ExitCodeSuccess ExitCode = 0

	// ExitCodeFindings indicates findings match --fail-on severities.
	ExitCodeFindings ExitCode = 1

	// ExitCodeError indicates configuration or execution error.
	ExitCodeError ExitCode = 2
)

// InvalidSeverityError is returned when an invalid severity is provided.
type InvalidSeverityError struct {
	Severity string
	Valid    []string
}

func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity '%s', must be one of: %s",
		e.Severity, strings.Join(e.Valid, ", "))
}

// DetermineExitCode calculates the appropriate exit code from findings,
// fail-on severities, and whether errors occurred during execution.
//
// Per §6, the default contract is unconditional: exit 0 when no findings
// remain after baseline filtering, non-zero when any finding remains.
// --fail-on narrows that to a chosen subset of severities; with no
// --fail-on given, every remaining finding counts.
//
// Exit code precedence:
//  1. ExitCodeError (2) - if hadErrors is true.
//  2. ExitCodeFindings (1) - if any finding matches a fail-on severity (or,
//     with no --fail-on given, if any finding remains at all).
//  3. ExitCodeSuccess (0) - otherwise.
func DetermineExitCode(findings []finding.Finding, failOn []string, hadErrors bool) ExitCode {
	if hadErrors {
		return ExitCodeError
	}
	if len(failOn) == 0 {
		if len(findings) > 0 {
			return ExitCodeFindings
		}
		return ExitCodeSuccess
	}

	failOnSet := make(map[finding.Severity]bool, len(failOn))
	for _, s := range failOn {
		if sev, ok := finding.ParseSeverity(strings.ToUpper(strings.TrimSpace(s))); ok {
			failOnSet[sev] = true
		}
	}

	for _, fnd := range findings {
		if failOnSet[fnd.Severity] {
			return ExitCodeFindings
		}
	}
	return ExitCodeSuccess
}

// ParseFailOn parses the comma-separated --fail-on flag value into a slice
// of severity names. Empty strings and whitespace are trimmed.
func ParseFailOn(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidateSeverities checks that all provided severities are valid (LOW,
// MEDIUM, or HIGH, case-insensitive). Returns InvalidSeverityError for the
// first invalid severity encountered.
func ValidateSeverities(severities []string) error {
	validList := []string{"LOW", "MEDIUM", "HIGH"}

	for _, severity := range severities {
		if _, ok := finding.ParseSeverity(strings.ToUpper(strings.TrimSpace(severity))); !ok {
			return &InvalidSeverityError{
				Severity: severity,
				Valid:    validList,
			}
		}
	}
	return nil
}
