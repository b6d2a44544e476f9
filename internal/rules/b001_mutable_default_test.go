package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestB001_FlagsListDefault(t *testing.T) {
	src := `
def add_item(item, items=[]):
    items.append(item)
    return items
`
	findings := parseAndRun(t, "B001", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "B001", findings[0].RuleID)
	assert.Contains(t, findings[0].Message, "list")
	assert.Contains(t, findings[0].Message, `"items"`)
}

func TestB001_FlagsDictDefaultButNotSetCall(t *testing.T) {
	src := `
def configure(opts={}, tags=set()):
    return opts, tags
`
	findings := parseAndRun(t, "B001", src)
	require.Len(t, findings, 1) // set() is a call, not a Set literal; only {} is flagged
	assert.Contains(t, findings[0].Message, "dict")
}

func TestB001_IgnoresNoneDefault(t *testing.T) {
	src := `
def add_item(item, items=None):
    if items is None:
        items = []
    items.append(item)
    return items
`
	findings := parseAndRun(t, "B001", src)
	assert.Empty(t, findings)
}

func TestB001_IgnoresNoDefault(t *testing.T) {
	src := `
def add_item(item, items):
    return items
`
	findings := parseAndRun(t, "B001", src)
	assert.Empty(t, findings)
}
