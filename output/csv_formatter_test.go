package output

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorlint/anchorlint/internal/finding"
)

func TestNewCSVFormatter(t *testing.T) {
	cf := NewCSVFormatter(nil)
	require.NotNil(t, cf)
	require.NotNil(t, cf.options)
}

func TestCSVHeaders(t *testing.T) {
	headers := CSVHeaders()
	assert.Equal(t, []string{"severity", "rule_id", "file", "line", "column", "message", "suggestion"}, headers)
}

func mustFinding(t *testing.T, ruleID, msg string, sev finding.Severity, file string, line, col int) finding.Finding {
	t.Helper()
	f, err := finding.New(ruleID, msg, sev, file, line, col)
	require.NoError(t, err)
	return f
}

func TestCSVFormatterOutput(t *testing.T) {
	var buf bytes.Buffer
	cf := NewCSVFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "B001", "mutable default", finding.Medium, "auth/login.py", 20, 8).WithSuggestion("use None"),
	}

	require.NoError(t, cf.Format(findings))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "MEDIUM", row[0])
	assert.Equal(t, "B001", row[1])
	assert.Equal(t, "auth/login.py", row[2])
	assert.Equal(t, "20", row[3])
	assert.Equal(t, "8", row[4])
	assert.Equal(t, "mutable default", row[5])
	assert.Equal(t, "use None", row[6])
}

func TestCSVFormatterEscaping(t *testing.T) {
	var buf bytes.Buffer
	cf := NewCSVFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "N001", `message with "quotes" and, commas`, finding.High, "test.py", 1, 0),
	}

	require.NoError(t, cf.Format(findings))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `message with "quotes" and, commas`, records[1][5])
}

func TestCSVFormatterEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	cf := NewCSVFormatterWithWriter(&buf, nil)

	require.NoError(t, cf.Format(nil))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCSVFormatterMultipleRows(t *testing.T) {
	var buf bytes.Buffer
	cf := NewCSVFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "L001", "r1", finding.High, "file1.py", 10, 0),
		mustFinding(t, "L002", "r2", finding.Medium, "file2.py", 20, 0),
		mustFinding(t, "N001", "r3", finding.Low, "file3.py", 30, 0),
	}

	require.NoError(t, cf.Format(findings))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.Len(t, records[i], 7)
	}
}

func TestCSVFormatterZeroColumn(t *testing.T) {
	var buf bytes.Buffer
	cf := NewCSVFormatterWithWriter(&buf, nil)

	findings := []finding.Finding{
		mustFinding(t, "B002", "r", finding.Low, "test.py", 10, 0),
	}

	require.NoError(t, cf.Format(findings))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "0", records[1][4])
}
