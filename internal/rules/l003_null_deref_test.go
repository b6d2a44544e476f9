package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL003_FlagsUncheckedNoneDefault(t *testing.T) {
	src := `
def describe(user=None):
    return user.name
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "L003", findings[0].RuleID)
	assert.Contains(t, findings[0].Message, `"user"`)
}

func TestL003_IgnoresGuardedByIsNoneReturn(t *testing.T) {
	src := `
def describe(user=None):
    if user is None:
        return "unknown"
    return user.name
`
	findings := parseAndRun(t, "L003", src)
	assert.Empty(t, findings)
}

func TestL003_IgnoresGuardedByIsNotNone(t *testing.T) {
	src := `
def describe(user=None):
    if user is not None:
        return user.name
    return "unknown"
`
	findings := parseAndRun(t, "L003", src)
	assert.Empty(t, findings)
}

func TestL003_FlagsAfterAssignToNone(t *testing.T) {
	src := `
def process():
    result = None
    return result.value
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
}

func TestL003_IgnoresDunderAttribute(t *testing.T) {
	src := `
def describe(user=None):
    return user.__class__
`
	findings := parseAndRun(t, "L003", src)
	assert.Empty(t, findings)
}

func TestL003_IgnoresAssertGuard(t *testing.T) {
	src := `
def describe(user=None):
    assert user is not None
    return user.name
`
	findings := parseAndRun(t, "L003", src)
	assert.Empty(t, findings)
}

func TestL003_FlagsSubscriptAccess(t *testing.T) {
	src := `
def first(items=None):
    return items[0]
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
	assert.Equal(t, "L003", findings[0].RuleID)
}

func TestL003_FlagsWithinBranchWhereNotNarrowed(t *testing.T) {
	src := `
def describe(user=None, verbose=False):
    if verbose:
        return user.name
    return "quiet"
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
}

func TestL003_IgnoresWhenElseBranchTerminates(t *testing.T) {
	src := `
def describe(user=None):
    if user is not None:
        return user.name
    else:
        raise ValueError("missing user")
`
	findings := parseAndRun(t, "L003", src)
	assert.Empty(t, findings)
}

func TestL003_ReassignInsideLoopDoesNotLeakOut(t *testing.T) {
	src := `
def process(items):
    user = None
    for item in items:
        user = item
    return user.name
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
}

func TestL003_NarrowingInsideTryDoesNotLeakOut(t *testing.T) {
	src := `
def describe(user=None):
    try:
        user = load_user()
    except Exception:
        pass
    return user.name
`
	findings := parseAndRun(t, "L003", src)
	require.Len(t, findings, 1)
}
