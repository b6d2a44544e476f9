package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorlint/anchorlint/internal/finding"
)

func TestNewJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter(nil)
	require.NotNil(t, jf)
	require.NotNil(t, jf.options)
}

func TestJSONFormatterStructure(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "L003", "possible null dereference of user_input", finding.High, "auth/login.py", 20, 8).
			WithSuggestion("guard with an is-not-None check"),
	}

	require.NoError(t, jf.Format(findings))

	var results []JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))

	require.Len(t, results, 1)
	result := results[0]
	assert.Equal(t, "L003", result.RuleID)
	assert.Equal(t, "HIGH", result.Severity)
	assert.Equal(t, "possible null dereference of user_input", result.Message)
	assert.Equal(t, "auth/login.py", result.File)
	assert.Equal(t, 20, result.Line)
	assert.Equal(t, 8, result.Column)
	assert.Equal(t, "guard with an is-not-None check", result.Suggestion)
}

func TestJSONFormatterEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	require.NoError(t, jf.Format(nil))

	var results []JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	assert.Len(t, results, 0)
}

func TestJSONFormatterOmitsOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "N001", "getter never returns a value", finding.Low, "test.py", 10, 0),
	}

	require.NoError(t, jf.Format(findings))

	body := buf.String()
	assert.NotContains(t, body, `"suggestion"`)
	assert.NotContains(t, body, `"code_snippet"`)
}

func TestJSONFormatterMultipleFindings(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "B001", "r1", finding.Medium, "file1.py", 10, 0),
		mustFinding(t, "L001", "r2", finding.High, "file2.py", 20, 0),
		mustFinding(t, "N001", "r3", finding.Low, "file3.py", 30, 0),
	}

	require.NoError(t, jf.Format(findings))

	var results []JSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))

	require.Len(t, results, 3)
	assert.Equal(t, "B001", results[0].RuleID)
	assert.Equal(t, "MEDIUM", results[0].Severity)
	assert.Equal(t, "L001", results[1].RuleID)
	assert.Equal(t, "HIGH", results[1].Severity)
	assert.Equal(t, "N001", results[2].RuleID)
	assert.Equal(t, "LOW", results[2].Severity)
}

// TestJSONFormatterIsBareArray guards the §6 contract directly: the very
// first non-whitespace byte of the output must open a JSON array, not an
// object, so a consumer doing json.loads(out) gets a list back.
func TestJSONFormatterIsBareArray(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "B001", "r1", finding.Medium, "file1.py", 10, 0),
	}
	require.NoError(t, jf.Format(findings))

	trimmed := bytes.TrimLeft(buf.Bytes(), " \t\r\n")
	require.NotEmpty(t, trimmed)
	assert.Equal(t, byte('['), trimmed[0])
}
