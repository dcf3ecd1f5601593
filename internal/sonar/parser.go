package sonar

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/review-io-git/review-io/internal/review"
)

// EngineName identifies the engine whose reports this package parses.
const EngineName = "sonarqube"

// Parser converts SonarQube JSON issue reports into ordered review results.
// A Parser holds no per-report state, so a single instance may parse many
// reports, concurrently if the caller wants to.
type Parser struct {
	logger hclog.Logger
}

// NewParser creates a parser that emits its diagnostics through logger.
func NewParser(logger hclog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseReport reads the report at reportPath and returns every new
// line-anchored issue as a violation, in report order. The parse is
// all-or-nothing: any failure produces a single wrapped error and no
// partial result.
func (p *Parser) ParseReport(reportPath string) (*review.Result, error) {
	result, err := p.parse(reportPath)
	if err != nil {
		return nil, fmt.Errorf("report parsing failed for %s: %w", reportPath, err)
	}
	return result, nil
}

func (p *Parser) parse(reportPath string) (*review.Result, error) {
	file, err := os.Open(reportPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	report, err := decodeReport(file)
	if err != nil {
		return nil, err
	}

	components := buildComponentIndex(report.Components)
	result := &review.Result{Engine: EngineName, Report: reportPath}
	for i, issue := range report.Issues {
		violation, reason, err := classifyIssue(i, issue, components, p.logger)
		if err != nil {
			return nil, err
		}
		if violation == nil {
			p.logger.Debug("skipping issue", "reason", reason, "component", issue.Component, "message", issue.Message)
			continue
		}
		result.Violations = append(result.Violations, *violation)
	}

	p.logger.Debug("report parsed", "path", reportPath, "issues", len(report.Issues), "violations", len(result.Violations))
	return result, nil
}
