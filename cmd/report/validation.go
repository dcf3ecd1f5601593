package report

import (
	"fmt"

	"github.com/review-io-git/review-io/internal/sonar"
)

// validateReportArgs checks the flag combination for the report command.
func validateReportArgs(options *RunOptionsReport) error {
	if options.InputPath == "" {
		return fmt.Errorf("'input' flag must be specified")
	}
	if options.EnginePluginName != sonar.EngineName {
		return fmt.Errorf("unsupported engine %q; only %q reports can be parsed", options.EnginePluginName, sonar.EngineName)
	}
	switch options.Format {
	case FormatText, FormatJSON:
	case FormatSarif:
		if options.Output == "" {
			return fmt.Errorf("'output' flag must be specified for the sarif format")
		}
	default:
		return fmt.Errorf("unknown format %q; supported formats: text, json, sarif", options.Format)
	}
	return nil
}
