package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorlint/anchorlint/internal/finding"
)

func TestNewTextFormatter(t *testing.T) {
	tf := NewTextFormatter(nil, nil)
	require.NotNil(t, tf)
	require.NotNil(t, tf.options)
}

func TestTextFormatterNoFindings(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	require.NoError(t, tf.Format(nil, &Summary{}))

	output := buf.String()
	assert.Contains(t, output, "No issues found.")
}

func TestTextFormatterWithFindings(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []finding.Finding{
		mustFinding(t, "L003", "possible null dereference of user_input", finding.High, "auth/login.py", 10, 0),
	}

	summary := BuildSummary(findings, 5)
	require.NoError(t, tf.Format(findings, summary))

	output := buf.String()
	assert.Contains(t, output, "anchorlint scan")
	assert.Contains(t, output, "High (1):")
	assert.Contains(t, output, "L003")
	assert.Contains(t, output, "possible null dereference of user_input")
	assert.Contains(t, output, "auth/login.py:10")
	assert.Contains(t, output, "1 findings across 5 rules")
}

func TestTextFormatterSeverityOrdering(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []finding.Finding{
		mustFinding(t, "N001", "low1", finding.Low, "test.py", 1, 0),
		mustFinding(t, "L001", "high1", finding.High, "test.py", 3, 0),
		mustFinding(t, "B001", "medium1", finding.Medium, "test.py", 2, 0),
	}

	summary := BuildSummary(findings, 3)
	require.NoError(t, tf.Format(findings, summary))

	output := buf.String()

	highIdx := strings.Index(output, "High (1):")
	medIdx := strings.Index(output, "Medium (1):")
	lowIdx := strings.Index(output, "Low (1):")

	require.NotEqual(t, -1, highIdx)
	require.NotEqual(t, -1, medIdx)
	require.NotEqual(t, -1, lowIdx)

	assert.Less(t, highIdx, medIdx)
	assert.Less(t, medIdx, lowIdx)
}

func TestTextFormatterSuggestion(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []finding.Finding{
		mustFinding(t, "B001", "mutable default", finding.Medium, "test.py", 1, 0).WithSuggestion("use None instead"),
	}

	summary := BuildSummary(findings, 1)
	require.NoError(t, tf.Format(findings, summary))

	output := buf.String()
	assert.Contains(t, output, "Suggestion: use None instead")
}

func TestTextFormatterCodeSnippet(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []finding.Finding{
		mustFinding(t, "B001", "mutable default", finding.Medium, "test.py", 5, 0).WithCodeSnippet("def foo(x=[]):"),
	}

	summary := BuildSummary(findings, 1)
	require.NoError(t, tf.Format(findings, summary))

	output := buf.String()
	assert.Contains(t, output, "def foo(x=[]):")
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name     string
		fnd      finding.Finding
		expected string
	}{
		{
			"with column",
			mustFinding(t, "N001", "x", finding.Low, "auth/login.py", 42, 8),
			"auth/login.py:42:8",
		},
		{
			"zero column omitted",
			mustFinding(t, "N001", "x", finding.Low, "test.py", 10, 0),
			"test.py:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatLocation(tt.fnd))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	findings := []finding.Finding{
		mustFinding(t, "L001", "a", finding.High, "test.py", 1, 0),
		mustFinding(t, "L002", "b", finding.High, "test.py", 2, 0),
		mustFinding(t, "B001", "c", finding.Medium, "test.py", 3, 0),
		mustFinding(t, "N001", "d", finding.Low, "test.py", 4, 0),
	}

	summary := BuildSummary(findings, 10)

	assert.Equal(t, 4, summary.TotalFindings)
	assert.Equal(t, 10, summary.RulesExecuted)
	assert.Equal(t, 2, summary.BySeverity["HIGH"])
	assert.Equal(t, 1, summary.BySeverity["MEDIUM"])
	assert.Equal(t, 1, summary.BySeverity["LOW"])
}

func TestGroupBySeverity(t *testing.T) {
	findings := []finding.Finding{
		mustFinding(t, "L001", "a", finding.High, "test.py", 1, 0),
		mustFinding(t, "L002", "b", finding.High, "test.py", 2, 0),
		mustFinding(t, "B001", "c", finding.Medium, "test.py", 3, 0),
		mustFinding(t, "N001", "d", finding.Low, "test.py", 4, 0),
		mustFinding(t, "N001", "e", finding.Low, "test.py", 5, 0),
		mustFinding(t, "N001", "f", finding.Low, "test.py", 6, 0),
	}

	grouped := groupBySeverity(findings)

	assert.Len(t, grouped[finding.High], 2)
	assert.Len(t, grouped[finding.Medium], 1)
	assert.Len(t, grouped[finding.Low], 3)
}

func TestTextFormatterEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil, nil)

	findings := []finding.Finding{
		mustFinding(t, "L001", "a", finding.High, "test.py", 1, 0),
	}

	summary := &Summary{
		TotalFindings: 1,
		RulesExecuted: 1,
		BySeverity:    map[string]int{},
	}

	require.NoError(t, tf.Format(findings, summary))

	output := buf.String()
	assert.Contains(t, output, "1 findings across 1 rules")
}
