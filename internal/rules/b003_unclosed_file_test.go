package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestB003_FlagsBareOpen(t *testing.T) {
	src := `
def read_config():
    f = open("config.txt")
    data = f.read()
    return data
`
	findings := parseAndRun(t, "B003", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "B003", findings[0].RuleID)
}

func TestB003_IgnoresWithStatement(t *testing.T) {
	src := `
def read_config():
    with open("config.txt") as f:
        return f.read()
`
	findings := parseAndRun(t, "B003", src)
	assert.Empty(t, findings)
}

func TestB003_FlagsAttributeOpen(t *testing.T) {
	src := `
def read_config(path_obj):
    f = path_obj.open()
    return f.read()
`
	findings := parseAndRun(t, "B003", src)
	require.Len(t, findings, 1)
}

func TestB003_IgnoresMultipleWithItems(t *testing.T) {
	src := `
def copy(src_path, dst_path):
    with open(src_path) as src, open(dst_path, "w") as dst:
        dst.write(src.read())
`
	findings := parseAndRun(t, "B003", src)
	assert.Empty(t, findings)
}
