package review

import (
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"
)

const violationRuleID = "quality-violation"

// InformationURI is the project page embedded in SARIF exports.
const InformationURI = "https://github.com/review-io-git/review-io"

// ToSarifReport converts a result into a SARIF 2.1.0 report with a single
// run named after the engine that produced the violations.
func ToSarifReport(result *Result, toolName, informationURI string) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, informationURI)
	rule := run.AddRule(violationRuleID).
		WithDescription("Code quality violation reported by the analysis engine")

	for _, violation := range result.Violations {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(violation.Path)).
				WithRegion(sarif.NewRegion().WithStartLine(violation.Line)),
		)

		sarifResult := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(violation.Message)).
			WithLevel(toSarifLevel(violation.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(sarifResult)
	}
	report.AddRun(run)

	return report, nil
}

// WriteSarif exports the result to outputPath in SARIF format.
func WriteSarif(result *Result, toolName, informationURI, outputPath string) error {
	report, err := ToSarifReport(result, toolName, informationURI)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error creating SARIF report file %q: %w", outputPath, err)
	}
	defer func() { _ = file.Close() }()

	if err := report.PrettyWrite(file); err != nil {
		return fmt.Errorf("error writing SARIF report to %q: %w", outputPath, err)
	}
	return nil
}

func toSarifLevel(severity Severity) string {
	switch severity {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
