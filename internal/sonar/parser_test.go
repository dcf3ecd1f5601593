package sonar

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-io-git/review-io/internal/review"
)

func newTestParser() *Parser {
	return NewParser(hclog.NewNullLogger())
}

// writeReport drops a report document into a temp file and returns its path.
func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseReport(t *testing.T) {
	result, err := newTestParser().ParseReport(filepath.Join("testdata", "sonar-report.json"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, EngineName, result.Engine)
	require.Len(t, result.Violations, 4)

	var paths []string
	var lines []int
	var severities []review.Severity
	for _, violation := range result.Violations {
		paths = append(paths, violation.Path)
		lines = append(lines, violation.Line)
		severities = append(severities, violation.Severity)
	}
	assert.Equal(t, []string{"dir/file.cs", "dir/file2.cs", "dir/file2.cs", "dir/file2.cs"}, paths)
	assert.Equal(t, []int{3, 7, 9, 12}, lines)
	assert.Equal(t, []review.Severity{
		review.SeverityWarning,
		review.SeverityError,
		review.SeverityError,
		review.SeverityError,
	}, severities)
	assert.Equal(t, "Method has 3 parameters, which is greater than the 2 authorized.", result.Violations[0].Message)
}

func TestParseReportJoinsModulePaths(t *testing.T) {
	result, err := newTestParser().ParseReport(filepath.Join("testdata", "sonar-report-modules.json"))
	require.NoError(t, err)

	// Six issues in the fixture: one not new, one without a line.
	require.Len(t, result.Violations, 4)
	var paths []string
	for _, violation := range result.Violations {
		paths = append(paths, violation.Path)
	}
	assert.Equal(t, []string{
		"src/module1/dir/file.cs",
		"src/module2/dir/file2.cs",
		"src/module2/dir/file2.cs",
		"src/module2/dir/file2.cs",
	}, paths)
}

func TestParseReportMissingFile(t *testing.T) {
	result, err := newTestParser().ParseReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report parsing failed for")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseReportInvalidDocument(t *testing.T) {
	result, err := newTestParser().ParseReport(filepath.Join("testdata", "invalid.json"))
	assert.Nil(t, result)
	require.Error(t, err)

	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Contains(t, structural.Reason, "not valid JSON")
}

func TestParseReportMissingSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"no issues", `{"components": []}`, `"issues"`},
		{"no components", `{"issues": []}`, `"components"`},
		{"null issues", `{"issues": null, "components": []}`, `"issues"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestParser().ParseReport(writeReport(t, tt.content))
			assert.Nil(t, result)
			var structural *StructuralError
			require.True(t, errors.As(err, &structural))
			assert.Contains(t, structural.Reason, tt.reason)
		})
	}
}

func TestParseReportUnknownComponent(t *testing.T) {
	report := `{
		"components": [{"key": "known", "path": "a.go"}],
		"issues": [{"component": "ghost", "line": 1, "message": "m", "severity": "MAJOR", "isNew": true}]
	}`
	result, err := newTestParser().ParseReport(writeReport(t, report))
	assert.Nil(t, result)

	var resolution *ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "ghost", resolution.Key)
	assert.False(t, resolution.Module)
}

func TestParseReportUnknownModule(t *testing.T) {
	report := `{
		"components": [{"key": "file", "path": "a.go", "moduleKey": "ghost-module"}],
		"issues": [{"component": "file", "line": 1, "message": "m", "severity": "MAJOR", "isNew": true}]
	}`
	result, err := newTestParser().ParseReport(writeReport(t, report))
	assert.Nil(t, result)

	var resolution *ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "ghost-module", resolution.Key)
	assert.True(t, resolution.Module)
}

func TestParseReportEmitsSkipDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Level: hclog.Debug, Output: &buf})

	_, err := NewParser(logger).ParseReport(filepath.Join("testdata", "sonar-report-modules.json"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), skipAlreadyIndexed)
	assert.Contains(t, buf.String(), skipNoLine)
}

func TestParseReportEmitsUnknownSeverityDiagnostic(t *testing.T) {
	report := `{
		"components": [{"key": "file", "path": "a.go"}],
		"issues": [{"component": "file", "line": 1, "message": "m", "severity": "dummy", "isNew": true}]
	}`

	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Level: hclog.Warn, Output: &buf})

	result, err := NewParser(logger).ParseReport(writeReport(t, report))
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, review.SeverityWarning, result.Violations[0].Severity)
	assert.Contains(t, buf.String(), "unknown severity")
}
