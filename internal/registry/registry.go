// Package registry holds the process-wide set of rule descriptors. It
// replaces the hidden mutable singleton a naive port would reach for with an
// explicit builder value that is populated once at program start and then
// threaded into the analyzer by reference — the registry is data, not
// ambient state (see the repository's design notes on this choice).
package registry

import (
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
)

// Context is passed to every rule invocation. One Context is constructed per
// file; it is never shared across files.
type Context struct {
	Filename string
	Tree     *pyast.Module
	Config   ConfigReader
	Meta     map[string]any
}

// ConfigReader is the subset of the configuration model a rule may consult.
// Most rules never need it; it exists for rules whose behavior legitimately
// depends on user configuration rather than the AST alone.
type ConfigReader interface {
	IsRuleEnabled(id string) bool
}

// RuleFunc inspects a Context and returns zero or more findings.
type RuleFunc func(ctx *Context) []finding.Finding

// Descriptor describes one registered rule.
type Descriptor struct {
	ID              string
	Description     string
	DefaultSeverity finding.Severity
	LanguageTag     string
	Run             RuleFunc
}

// Registry is a mapping from rule id to descriptor, preserving the order in
// which ids were first registered.
//
// Registration must complete before any scan begins; Registry performs no
// locking and is not safe for concurrent registration and querying. Workers
// only ever call ForLanguage after every rule has been registered, at which
// point the Registry is read-only for the remainder of the process.
type Registry struct {
	order []string
	byID  map[string]Descriptor
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[string]Descriptor)}
}

// Register adds d to the registry. A second registration of the same id
// replaces the first but keeps its original position in insertion order —
// this idempotence is relied on by test harnesses that re-register a rule
// with a stub implementation.
func (r *Registry) Register(d Descriptor) {
	if _, exists := r.byID[d.ID]; !exists {
		r.order = append(r.order, d.ID)
	}
	r.byID[d.ID] = d
}

// ForLanguage returns every registered descriptor tagged for language, in
// insertion order.
func (r *Registry) ForLanguage(language string) []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		d := r.byID[id]
		if d.LanguageTag == language {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the descriptor for id, if registered.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Len reports how many rules are registered, across all languages.
func (r *Registry) Len() int {
	return len(r.order)
}
