package sonar

import (
	"github.com/hashicorp/go-hclog"
	"github.com/review-io-git/review-io/internal/review"
)

// Skip reasons surfaced in debug logs.
const (
	skipAlreadyIndexed = "already indexed"
	skipNoLine         = "no line information"
)

// classifyIssue decides what becomes of one raw issue: a violation to keep,
// a skip with its reason, or a resolution failure. Not-new issues and issues
// without a line are expected filtering outcomes, not errors. The check
// order matters: filters run before any field of the issue is resolved.
func classifyIssue(position int, issue Issue, components componentIndex, logger hclog.Logger) (*review.Violation, string, error) {
	if !issue.IsNew {
		return nil, skipAlreadyIndexed, nil
	}
	if issue.Line == nil {
		return nil, skipNoLine, nil
	}

	if issue.Component == "" {
		return nil, "", &FieldError{Index: position, Field: "component"}
	}
	path, err := components.resolvePath(issue.Component)
	if err != nil {
		return nil, "", err
	}

	return &review.Violation{
		Path:     path,
		Line:     *issue.Line,
		Message:  issue.Message,
		Severity: mapSeverity(issue.Severity, logger),
	}, "", nil
}
