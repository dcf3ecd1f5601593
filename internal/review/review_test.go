package review

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Engine: "sonarqube",
		Violations: []Violation{
			{Path: "dir/file.cs", Line: 3, Message: "first", Severity: SeverityWarning},
			{Path: "dir/file2.cs", Line: 7, Message: "second", Severity: SeverityError},
			{Path: "dir/file2.cs", Line: 9, Message: "third", Severity: SeverityError},
			{Path: "other.go", Line: 1, Message: "fourth", Severity: SeverityInfo},
		},
	}
}

func TestCountsBySeverity(t *testing.T) {
	result := sampleResult()
	counts := result.CountsBySeverity()
	assert.Equal(t, 2, counts[SeverityError])
	assert.Equal(t, 1, counts[SeverityWarning])
	assert.Equal(t, 1, counts[SeverityInfo])
	assert.Equal(t, 4, result.Count())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "no violations", (&Result{}).Summary())
	assert.Equal(t, "4 violations (2 ERROR, 1 WARNING, 1 INFO)", sampleResult().Summary())

	onlyWarnings := &Result{Violations: []Violation{
		{Path: "a.go", Line: 1, Message: "m", Severity: SeverityWarning},
	}}
	assert.Equal(t, "1 violations (1 WARNING)", onlyWarnings.Summary())
}

func TestSaveAndLoadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	original := sampleResult()

	require.NoError(t, original.SaveJSON(path))

	loaded, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, original.Engine, loaded.Engine)
	require.Len(t, loaded.Violations, len(original.Violations))
	assert.Equal(t, original.Violations, loaded.Violations)
}

func TestLoadResultMissingFile(t *testing.T) {
	_, err := LoadResult(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestToSarifReport(t *testing.T) {
	report, err := ToSarifReport(sampleResult(), "sonarqube", "https://www.sonarqube.org")
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "sonarqube", run.Tool.Driver.Name)
	require.Len(t, run.Results, 4)

	first := run.Results[0]
	assert.Equal(t, "warning", *first.Level)
	assert.Equal(t, "first", *first.Message.Text)
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "dir/file.cs", *first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, *first.Locations[0].PhysicalLocation.Region.StartLine)

	assert.Equal(t, "error", *run.Results[1].Level)
	assert.Equal(t, "note", *run.Results[3].Level)
}

func TestWriteSarif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.sarif")
	require.NoError(t, WriteSarif(sampleResult(), "sonarqube", "https://www.sonarqube.org", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2.1.0"`)
	assert.Contains(t, string(data), "dir/file.cs")
	assert.Contains(t, string(data), violationRuleID)
}
