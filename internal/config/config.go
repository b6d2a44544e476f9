// Package config implements the per-rule enable/severity overrides and
// path-exclusion globs described in §4.2, loaded from the YAML file shape
// of §6. Loading follows the teacher pack's pattern of a plain yaml.v3
// Unmarshal into a typed struct (see config.go grounding notes in
// DESIGN.md), with a custom per-rule value type to accept the several
// shapes the spec allows.
package config

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// RuleOverride is the compiled, immutable per-rule setting.
type RuleOverride struct {
	Enabled          bool
	HasSeverity      bool
	SeverityOverride finding.Severity
}

// Config is the read-only, per-invocation configuration model of §3. It is
// created once (by Load or New) and never mutated afterward.
type Config struct {
	rules    map[string]RuleOverride
	excludes []string
}

// New builds a Config directly from compiled overrides and exclude globs,
// primarily for tests and callers that already have parsed values.
func New(rules map[string]RuleOverride, excludes []string) *Config {
	if rules == nil {
		rules = map[string]RuleOverride{}
	}
	return &Config{rules: rules, excludes: append([]string(nil), excludes...)}
}

// Empty returns a Config with no overrides and no exclusions — the default
// used whenever loading fails (§7: non-fatal, falls back to defaults).
func Empty() *Config {
	return New(nil, nil)
}

// IsRuleEnabled defaults to true when id is absent from the configuration.
func (c *Config) IsRuleEnabled(id string) bool {
	if c == nil {
		return true
	}
	o, ok := c.rules[id]
	if !ok {
		return true
	}
	return o.Enabled
}

// EffectiveSeverity returns the configured override for id, or def if none
// was set or id is absent. An override set on a disabled rule is still
// returned.
func (c *Config) EffectiveSeverity(id string, def finding.Severity) finding.Severity {
	if c == nil {
		return def
	}
	o, ok := c.rules[id]
	if !ok || !o.HasSeverity {
		return def
	}
	return o.SeverityOverride
}

// IsPathExcluded reports whether path matches any configured exclude glob.
// Matching is gitignore-like: `**` matches zero or more path components, in
// addition to the usual `*`/`?`/`[...]` shell wildcards, via doublestar.
func (c *Config) IsPathExcluded(path string) bool {
	if c == nil {
		return false
	}
	for _, pattern := range c.excludes {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Excludes returns the configured exclude glob patterns, in file order.
func (c *Config) Excludes() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.excludes...)
}

// fileConfig is the raw YAML document shape of §6: a top-level `rules`
// mapping and an `exclude` glob sequence.
type fileConfig struct {
	Rules   map[string]ruleValue `yaml:"rules"`
	Exclude []string             `yaml:"exclude"`
}

// ruleValue accepts every per-rule shape §4.2 allows: the literal "OFF", a
// severity name, a bare bool, or a {enabled, severity} mapping.
type ruleValue struct {
	override RuleOverride
}

func (v *ruleValue) UnmarshalYAML(node *yaml.Node) error {
	v.override = RuleOverride{Enabled: true}

	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err == nil {
			if s == "OFF" {
				v.override.Enabled = false
				return nil
			}
			if sev, ok := finding.ParseSeverity(normalizeSeverity(s)); ok {
				v.override.HasSeverity = true
				v.override.SeverityOverride = sev
				return nil
			}
			// Not a recognized severity name: try boolean decode next.
		}
		var b bool
		if err := node.Decode(&b); err == nil {
			v.override.Enabled = b
			return nil
		}
		// Unknown scalar shape: degrade to "enabled, no override" per §4.2.
		return nil

	case yaml.MappingNode:
		var m struct {
			Enabled  *bool  `yaml:"enabled"`
			Severity string `yaml:"severity"`
		}
		if err := node.Decode(&m); err != nil {
			return nil
		}
		if m.Enabled != nil {
			v.override.Enabled = *m.Enabled
		}
		if sev, ok := finding.ParseSeverity(normalizeSeverity(m.Severity)); ok {
			v.override.HasSeverity = true
			v.override.SeverityOverride = sev
		}
		return nil
	}
	return nil
}

func normalizeSeverity(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out = append(out, b)
	}
	return string(out)
}

// Load reads and decodes the YAML configuration file at path. A missing or
// malformed file is non-fatal: it returns an empty Config (§7).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Empty(), err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Empty(), err
	}
	rules := make(map[string]RuleOverride, len(fc.Rules))
	for id, v := range fc.Rules {
		rules[id] = v.override
	}
	return New(rules, fc.Exclude), nil
}
