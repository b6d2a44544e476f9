// Package baseline implements the persisted-fingerprint filter of §4.5: a
// set of previously-accepted findings, loaded once per invocation and never
// mutated during a scan.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// record is the on-disk shape of a finding, shared with the findings-output
// JSON format of §6.
type record struct {
	RuleID      string `json:"rule_id"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Suggestion  string `json:"suggestion,omitempty"`
	CodeSnippet string `json:"code_snippet,omitempty"`
}

func toRecord(f finding.Finding) record {
	return record{
		RuleID:      f.RuleID,
		Message:     f.Message,
		Severity:    f.Severity.String(),
		File:        f.File,
		Line:        f.Line,
		Column:      f.Column,
		Suggestion:  f.Suggestion,
		CodeSnippet: f.CodeSnippet,
	}
}

// Fingerprint computes the stable identity of a finding for baseline
// comparison: a hash of (rule_id, file, line, message). message is included
// because identical (rule, file, line) triples can emit different
// diagnostics — e.g. different variable names — and must be tracked
// separately.
func Fingerprint(f finding.Finding) string {
	return fingerprintOf(f.RuleID, f.File, f.Line, f.Message)
}

func fingerprintOf(ruleID, file string, line int, message string) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s", ruleID, file, line, message)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Baseline is an immutable (after Load/New) set of accepted fingerprints.
type Baseline struct {
	fingerprints map[string]struct{}
}

// Empty returns a Baseline that filters nothing — equivalent to a missing
// baseline file.
func Empty() *Baseline {
	return &Baseline{fingerprints: map[string]struct{}{}}
}

// Load reads fingerprints from the JSON finding-record array at path. A
// missing file is equivalent to an empty baseline (§4.5); any other read or
// parse failure is reported to the caller, who should treat it as a warning
// and fall back to Empty (§7).
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("baseline: reading %s: %w", path, err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return Empty(), fmt.Errorf("baseline: parsing %s: %w", path, err)
	}
	b := Empty()
	for _, r := range records {
		b.fingerprints[fingerprintOf(r.RuleID, r.File, r.Line, r.Message)] = struct{}{}
	}
	return b, nil
}

// Save overwrites path with the full records of findings.
func Save(path string, findings []finding.Finding) error {
	records := make([]record, 0, len(findings))
	for _, f := range findings {
		records = append(records, toRecord(f))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("baseline: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("baseline: writing %s: %w", path, err)
	}
	return nil
}

// Filter returns findings with any finding whose fingerprint is already in
// the baseline removed, preserving order.
func (b *Baseline) Filter(findings []finding.Finding) []finding.Finding {
	if b == nil || len(b.fingerprints) == 0 {
		return findings
	}
	out := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		if _, seen := b.fingerprints[Fingerprint(f)]; seen {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Len reports how many fingerprints are in the baseline.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.fingerprints)
}
