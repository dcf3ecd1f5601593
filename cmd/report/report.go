package report

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/internal/review"
	"github.com/review-io-git/review-io/internal/sonar"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
)

// Output formats supported by the report command.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSarif = "sarif"
)

// RunOptionsReport holds the arguments for the report command.
type RunOptionsReport struct {
	InputPath        string
	EnginePluginName string
	Format           string
	Output           string
}

// Global variables for configuration and command arguments
var (
	AppConfig     *config.Config
	logger        hclog.Logger
	reportOptions RunOptionsReport

	exampleReportUsage = `  # Print violations from an engine report as text
  reviewio report --input /path/to/reviewio-report-sonarqube.json

  # Convert an engine report into the review result JSON
  reviewio report --input report.json --format json --output review-result.json

  # Export an engine report as SARIF
  reviewio report --input report.json --format sarif --output report.sarif`

	ReportCmd = &cobra.Command{
		Use:                   "report --input/-i PATH [--format/-f text|json|sarif] [--output/-o PATH]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleReportUsage,
		Short:                 "Parse an engine report and render the violations",
		Long: `Parse an engine report and render the resolved violations as text,
as the review result JSON other commands consume, or as SARIF.`,
		RunE: runReportCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// runReportCommand executes the report command.
func runReportCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateReportArgs(&reportOptions); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(reportOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	parser := sonar.NewParser(logger)
	result, err := parser.ParseReport(reportOptions.InputPath)
	if err != nil {
		logger.Error("failed to parse engine report", "report", reportOptions.InputPath, "error", err)
		return errors.NewCommandError(reportOptions, nil, err, 2)
	}

	switch reportOptions.Format {
	case FormatText:
		printTextReport(result)
	case FormatJSON:
		if reportOptions.Output == "" {
			data, err := json.MarshalIndent(result, "", "    ")
			if err != nil {
				return errors.NewCommandError(reportOptions, nil, fmt.Errorf("failed to render review result: %w", err), 2)
			}
			fmt.Println(string(data))
		} else {
			if err := result.SaveJSON(reportOptions.Output); err != nil {
				return errors.NewCommandError(reportOptions, nil, err, 2)
			}
			logger.Info("review result written", "path", reportOptions.Output)
		}
	case FormatSarif:
		if err := review.WriteSarif(result, result.Engine, review.InformationURI, reportOptions.Output); err != nil {
			return errors.NewCommandError(reportOptions, nil, err, 2)
		}
		logger.Info("sarif report written", "path", reportOptions.Output)
	}

	logger.Info("report command completed successfully")
	return nil
}

// printTextReport renders the violations and the summary line to stdout.
func printTextReport(result *review.Result) {
	for _, v := range result.Violations {
		if v.Path != "" && v.Line > 0 {
			fmt.Printf("%-7s %s:%d  %s\n", v.Severity, v.Path, v.Line, v.Message)
		} else {
			fmt.Printf("%-7s %s\n", v.Severity, v.Message)
		}
	}
	fmt.Println(result.Summary())
}

func init() {
	ReportCmd.Flags().StringVarP(&reportOptions.InputPath, "input", "i", "", "Path to the engine report to parse.")
	ReportCmd.Flags().StringVarP(&reportOptions.EnginePluginName, "engine", "e", "sonarqube", "Name of the engine that produced the report.")
	ReportCmd.Flags().StringVarP(&reportOptions.Format, "format", "f", FormatText, "Output format: text, json or sarif.")
	ReportCmd.Flags().StringVarP(&reportOptions.Output, "output", "o", "", "File the rendered output is written to. Defaults to stdout for text and json.")
	ReportCmd.Flags().BoolP("help", "h", false, "Show help for the report command.")
}
