package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyparser"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// parseAndRun parses src and runs the single named rule against it: it
// looks the rule up in a fresh NewRegistry and calls only that rule's Run
// function, so each test exercises exactly one rule regardless of what else
// is registered.
func parseAndRun(t *testing.T, ruleID, src string) []finding.Finding {
	t.Helper()
	reg := NewRegistry()
	d, ok := reg.Lookup(ruleID)
	require.True(t, ok, "rule %s not registered", ruleID)

	tree, err := pyparser.Parse("test.py", []byte(src))
	require.NoError(t, err)

	return d.Run(&registry.Context{
		Filename: "test.py",
		Tree:     tree,
		Config:   nil,
		Meta:     map[string]any{},
	})
}

func TestNewRegistryContainsAllRules(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"B001", "B002", "B003", "L001", "L002", "L003", "N001"} {
		_, ok := reg.Lookup(id)
		require.True(t, ok, "expected %s to be registered", id)
	}
}
