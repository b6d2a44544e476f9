package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL002_FlagsSortedNameWithNoSortEvidence(t *testing.T) {
	src := `
def get_sorted_items(items):
    return items
`
	findings := parseAndRun(t, "L002", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "L002", findings[0].RuleID)
	assert.Contains(t, findings[0].Message, "sorted")
}

func TestL002_IgnoresSortedNameWithSortedCall(t *testing.T) {
	src := `
def get_sorted_items(items):
    return sorted(items)
`
	findings := parseAndRun(t, "L002", src)
	assert.Empty(t, findings)
}

func TestL002_IgnoresSortedNameWithInPlaceSort(t *testing.T) {
	src := `
def get_sorted_items(items):
    items.sort()
    return items
`
	findings := parseAndRun(t, "L002", src)
	assert.Empty(t, findings)
}

func TestL002_FlagsUniqueNameWithNoEvidence(t *testing.T) {
	src := `
def unique_ids(values):
    return values
`
	findings := parseAndRun(t, "L002", src)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "unique")
}

func TestL002_IgnoresUniqueNameWithSetConstruction(t *testing.T) {
	src := `
def unique_ids(values):
    return set(values)
`
	findings := parseAndRun(t, "L002", src)
	assert.Empty(t, findings)
}

func TestL002_IgnoresUnrelatedFunctionName(t *testing.T) {
	src := `
def compute_total(values):
    return values
`
	findings := parseAndRun(t, "L002", src)
	assert.Empty(t, findings)
}
