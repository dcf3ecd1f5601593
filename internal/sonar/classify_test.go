package sonar

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-io-git/review-io/internal/review"
)

func intPtr(v int) *int { return &v }

func testIndex() componentIndex {
	return buildComponentIndex([]Component{
		{Key: "project"},
		{Key: "module1", Path: "src/module1"},
		{Key: "plain", Path: "dir/file.cs"},
		{Key: "nested", Path: "dir/file2.cs", ModuleKey: "module1"},
		{Key: "orphan", Path: "dir/file3.cs", ModuleKey: "gone"},
	})
}

func TestBuildComponentIndexSkipsPathless(t *testing.T) {
	index := testIndex()
	_, ok := index["project"]
	assert.False(t, ok, "components without a path must stay out of the index")
	assert.Len(t, index, 4)
}

func TestResolvePath(t *testing.T) {
	index := testIndex()

	path, err := index.resolvePath("plain")
	require.NoError(t, err)
	assert.Equal(t, "dir/file.cs", path)

	path, err = index.resolvePath("nested")
	require.NoError(t, err)
	assert.Equal(t, "src/module1/dir/file2.cs", path)
}

func TestClassifyIssueSkipsNotNew(t *testing.T) {
	issue := Issue{Component: "plain", Line: intPtr(5), Message: "m", Severity: "MAJOR", IsNew: false}
	violation, reason, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Nil(t, violation)
	assert.Equal(t, skipAlreadyIndexed, reason)
}

func TestClassifyIssueSkipsWithoutLine(t *testing.T) {
	issue := Issue{Component: "plain", Message: "m", Severity: "MAJOR", IsNew: true}
	violation, reason, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Nil(t, violation)
	assert.Equal(t, skipNoLine, reason)
}

func TestClassifyIssueResolvesViolation(t *testing.T) {
	issue := Issue{Component: "nested", Line: intPtr(9), Message: "too complex", Severity: "CRITICAL", IsNew: true}
	violation, reason, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	require.NoError(t, err)
	require.NotNil(t, violation)
	assert.Empty(t, reason)
	assert.Equal(t, review.Violation{
		Path:     "src/module1/dir/file2.cs",
		Line:     9,
		Message:  "too complex",
		Severity: review.SeverityError,
	}, *violation)
}

func TestClassifyIssueUnknownComponent(t *testing.T) {
	issue := Issue{Component: "ghost", Line: intPtr(1), Message: "m", Severity: "MAJOR", IsNew: true}
	violation, _, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	assert.Nil(t, violation)

	var resolution *ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "ghost", resolution.Key)
	assert.False(t, resolution.Module)
}

func TestClassifyIssueUnknownModule(t *testing.T) {
	issue := Issue{Component: "orphan", Line: intPtr(1), Message: "m", Severity: "MAJOR", IsNew: true}
	violation, _, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	assert.Nil(t, violation)

	var resolution *ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "gone", resolution.Key)
	assert.True(t, resolution.Module)
}

func TestClassifyIssueMissingComponentField(t *testing.T) {
	issue := Issue{Line: intPtr(1), Message: "m", Severity: "MAJOR", IsNew: true}
	violation, _, err := classifyIssue(3, issue, testIndex(), hclog.NewNullLogger())
	assert.Nil(t, violation)

	var field *FieldError
	require.True(t, errors.As(err, &field))
	assert.Equal(t, 3, field.Index)
	assert.Equal(t, "component", field.Field)
}

func TestClassifyIssueFiltersBeforeResolving(t *testing.T) {
	// A not-new issue with a dangling component reference is still a skip.
	issue := Issue{Component: "ghost", Line: intPtr(1), Message: "m", Severity: "MAJOR", IsNew: false}
	violation, reason, err := classifyIssue(0, issue, testIndex(), hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Nil(t, violation)
	assert.Equal(t, skipAlreadyIndexed, reason)
}

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		label    string
		expected review.Severity
	}{
		{"BLOCKER", review.SeverityError},
		{"CRITICAL", review.SeverityError},
		{"MAJOR", review.SeverityError},
		{"MINOR", review.SeverityWarning},
		{"INFO", review.SeverityInfo},
		{"dummy", review.SeverityWarning},
		{"", review.SeverityWarning},
		{"blocker", review.SeverityWarning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, mapSeverity(tt.label, hclog.NewNullLogger()), "label %q", tt.label)
	}
}
