package sonar

import (
	"github.com/hashicorp/go-hclog"
	"github.com/review-io-git/review-io/internal/review"
)

// mapSeverity converts an engine severity label into the unified model.
// BLOCKER, CRITICAL and MAJOR collapse to ERROR; unknown labels fall back
// to WARNING with a diagnostic so typos in engine config surface in logs
// instead of dropping findings.
func mapSeverity(label string, logger hclog.Logger) review.Severity {
	switch label {
	case "BLOCKER", "CRITICAL", "MAJOR":
		return review.SeverityError
	case "MINOR":
		return review.SeverityWarning
	case "INFO":
		return review.SeverityInfo
	}
	logger.Warn("unknown severity", "severity", label)
	return review.SeverityWarning
}
