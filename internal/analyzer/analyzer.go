// Package analyzer implements the §4.6 per-file analysis step: read,
// parse, build a RuleContext, and run every registered rule for the file's
// language tag, isolating each rule's failure from the others and from the
// surrounding file-level walk.
package analyzer

import (
	"context"
	"fmt"
	"os"

	"github.com/anchorlint/anchorlint/internal/config"
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyparser"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// LanguageTag identifies the only source language this build's rule set
// covers. Additional languages would register under additional tags and
// dispatch on file extension here.
const LanguageTag = "python"

// Diagnostic is a side-channel note about a rule or file that could not be
// evaluated normally — never part of the findings output, surfaced only for
// operator visibility (§7).
type Diagnostic struct {
	File    string
	RuleID  string
	Message string
}

// Logger receives diagnostics as they occur. It must not block or retain
// references beyond the call.
type Logger interface {
	Warn(msg string, args ...any)
}

// Analyzer runs a Registry's rules over individual files.
type Analyzer struct {
	registry *registry.Registry
	config   *config.Config
	logger   Logger
}

// New builds an Analyzer. cfg may be nil, in which case every rule runs
// enabled at its descriptor's default severity.
func New(reg *registry.Registry, cfg *config.Config, logger Logger) *Analyzer {
	if cfg == nil {
		cfg = config.Empty()
	}
	return &Analyzer{registry: reg, config: cfg, logger: logger}
}

// File analyzes the file at path. A read failure or parse failure yields no
// findings and no error: both are non-fatal per §7. A read failure is logged
// as a warning through a.logger when set; a parse failure is not logged.
func (a *Analyzer) File(ctx context.Context, path string) []finding.Finding {
	source, err := os.ReadFile(path)
	if err != nil {
		a.warn("failed to read %s: %v", path, err)
		return nil
	}

	tree, err := pyparser.Parse(path, source)
	if err != nil {
		// Parse failures are silent per §7: no finding, no warning (a future
		// extension may promote this to a per-syntax-error finding).
		return nil
	}

	rctx := &registry.Context{
		Filename: path,
		Tree:     tree,
		Config:   a.config,
		Meta:     map[string]any{},
	}

	var findings []finding.Finding
	for _, d := range a.registry.ForLanguage(LanguageTag) {
		if ctx.Err() != nil {
			break
		}
		if !a.config.IsRuleEnabled(d.ID) {
			continue
		}
		ruleFindings := a.runRule(d, rctx, path)
		sev := a.config.EffectiveSeverity(d.ID, d.DefaultSeverity)
		for i := range ruleFindings {
			if ruleFindings[i].Severity != sev {
				ruleFindings[i] = ruleFindings[i].WithSeverity(sev)
			}
		}
		findings = append(findings, ruleFindings...)
	}
	return findings
}

// runRule invokes one rule, converting a panic into a side-channel
// diagnostic so a single defective rule never aborts the file, let alone
// the scan (§5, §7: "worker exception on one file yields an empty finding
// sequence for that rule, not a scan failure").
func (a *Analyzer) runRule(d registry.Descriptor, rctx *registry.Context, path string) (findings []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			a.warn("rule %s failed on file %s: %v", d.ID, path, r)
			findings = nil
		}
	}()
	return d.Run(rctx)
}

func (a *Analyzer) warn(format string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Warn(fmt.Sprintf(format, args...))
}
