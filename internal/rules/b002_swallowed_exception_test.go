package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestB002_FlagsBarePassExcept(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
        do_other_thing()
    except:
        pass
`
	findings := parseAndRun(t, "B002", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "B002", findings[0].RuleID)
}

func TestB002_FlagsBroadExceptionEllipsis(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
        do_other_thing()
    except Exception:
        ...
`
	findings := parseAndRun(t, "B002", src)
	require.Len(t, findings, 1)
}

func TestB002_IgnoresNarrowHandlerType(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
        do_other_thing()
    except ValueError:
        pass
`
	findings := parseAndRun(t, "B002", src)
	assert.Empty(t, findings)
}

func TestB002_IgnoresHandlerThatLogs(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
        do_other_thing()
    except Exception:
        log.error("failed")
        raise
`
	findings := parseAndRun(t, "B002", src)
	assert.Empty(t, findings)
}

func TestB002_ExemptsSingleGuardedStatement(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
    except:
        pass
`
	findings := parseAndRun(t, "B002", src)
	assert.Empty(t, findings)
}

func TestB002_ExemptsTryWithOrelse(t *testing.T) {
	src := `
def risky():
    try:
        do_thing()
        do_other_thing()
    except:
        pass
    else:
        finish()
`
	findings := parseAndRun(t, "B002", src)
	assert.Empty(t, findings)
}
