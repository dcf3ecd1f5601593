package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// Metadata of the plugin
var (
	Version       = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

const (
	defaultScannerBinary  = "sonar-scanner"
	projectPropertiesFile = "sonar-project.properties"

	// The scanner is told to keep its working data and the exported report
	// under the target folder. The export path is relative to the workdir.
	outputDir  = ".sonar"
	outputFile = "sonar-result.json"
)

// EngineSonarqube runs the SonarQube scanner with its configuration and logger.
type EngineSonarqube struct {
	logger       hclog.Logger
	globalConfig *config.Config
}

// newEngineSonarqube creates a new instance of EngineSonarqube.
func newEngineSonarqube(logger hclog.Logger) *EngineSonarqube {
	return &EngineSonarqube{
		logger: logger,
	}
}

// setGlobalConfig sets the global configuration for the EngineSonarqube instance.
func (g *EngineSonarqube) setGlobalConfig(globalConfig *config.Config) {
	g.globalConfig = globalConfig
}

// scannerBinary returns the scanner executable to launch.
func (g *EngineSonarqube) scannerBinary() string {
	if g.globalConfig == nil {
		return defaultScannerBinary
	}
	return config.SetThen(g.globalConfig.SonarqubePlugin.ScannerBinary, defaultScannerBinary)
}

// loadBaseProperties collects the base property set for a run. The target's
// own sonar-project.properties is picked up when present, then the configured
// properties file, then the per-run config path. Later files win on
// duplicate keys; files named explicitly must exist.
func (g *EngineSonarqube) loadBaseProperties(args shared.EngineRunRequest) (*Properties, error) {
	properties := NewProperties()

	projectFile := filepath.Join(args.TargetPath, projectPropertiesFile)
	if _, err := os.Stat(projectFile); err == nil {
		if err := properties.LoadFile(projectFile); err != nil {
			return nil, err
		}
		g.logger.Debug("loaded project properties", "path", projectFile)
	}

	explicit := []string{}
	if g.globalConfig != nil && g.globalConfig.SonarqubePlugin.PropertiesFile != "" {
		explicit = append(explicit, g.globalConfig.SonarqubePlugin.PropertiesFile)
	}
	if args.ConfigPath != "" {
		explicit = append(explicit, args.ConfigPath)
	}
	for _, path := range explicit {
		if err := properties.LoadFile(path); err != nil {
			return nil, err
		}
		g.logger.Debug("loaded base properties", "path", path)
	}

	return properties, nil
}

// setAdditionalProperties overlays the generated analysis properties on top
// of the base set.
func (g *EngineSonarqube) setAdditionalProperties(properties *Properties, args shared.EngineRunRequest) {
	if len(args.Inclusions) != 0 {
		properties.Set(propInclusions, strings.Join(args.Inclusions, ","))
	}
	properties.Set(propAnalysisMode, "incremental")
	properties.Set(propSCMEnabled, "false")
	properties.Set(propSCMStatEnabled, "false")
	properties.Set(propIssueAssign, "false")
	properties.Set(propExportPath, outputFile)
	properties.Set(propWorkDir, outputDir)
	properties.Set(propProjectBaseDir, ".")
}

// buildCommandArgs constructs the command-line arguments for the scanner.
func (g *EngineSonarqube) buildCommandArgs(args shared.EngineRunRequest) []string {
	var commandArgs []string
	if len(args.AdditionalArgs) != 0 {
		commandArgs = append(commandArgs, args.AdditionalArgs...)
	}
	return commandArgs
}

// Run executes one SonarQube analysis and returns the path of the produced report.
func (g *EngineSonarqube) Run(args shared.EngineRunRequest) (shared.EngineRunResponse, error) {
	var result shared.EngineRunResponse
	g.logger.Info("analysis is starting", "project", args.TargetPath)
	g.logger.Debug("debug info", "args", args)

	if err := g.validateRun(&args); err != nil {
		g.logger.Error("validation failed for run operation", "error", err)
		return result, err
	}

	properties, err := g.loadBaseProperties(args)
	if err != nil {
		g.logger.Error("failed to load base properties", "error", err)
		return result, err
	}
	g.setAdditionalProperties(properties, args)

	propertiesPath := filepath.Join(args.TargetPath, projectPropertiesFile)
	if err := properties.WriteFile(propertiesPath); err != nil {
		g.logger.Error("failed to write analysis properties", "error", err)
		return result, err
	}
	g.logger.Debug("analysis properties written", "path", propertiesPath, "count", properties.Len())

	cmd := exec.Command(g.scannerBinary(), g.buildCommandArgs(args)...)
	cmd.Dir = args.TargetPath
	g.logger.Debug("debug info", "cmd", cmd.Args)

	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(g.logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: true,
	}), &stdBuffer)

	cmd.Stdout = mw
	cmd.Stderr = mw

	if err := cmd.Run(); err != nil {
		g.logger.Error("scanner execution error", "error", err)
		return result, fmt.Errorf("scanner execution error: %w. Output: %s", err, stdBuffer.String())
	}

	reportPath := filepath.Join(args.TargetPath, outputDir, outputFile)
	if _, err := os.Stat(reportPath); err != nil {
		g.logger.Error("scanner produced no report", "path", reportPath)
		return result, fmt.Errorf("scanner produced no report at %q: %w", reportPath, err)
	}

	if err := files.CopyFile(reportPath, args.ResultsPath); err != nil {
		g.logger.Error("failed to copy report", "error", err)
		return result, fmt.Errorf("failed to copy report to %q: %w", args.ResultsPath, err)
	}

	result.ReportPath = args.ResultsPath
	g.logger.Info("analysis finished", "project", args.TargetPath)
	g.logger.Info("report saved", "path", args.ResultsPath)
	return result, nil
}

// Setup initializes the global configuration for the EngineSonarqube instance.
func (g *EngineSonarqube) Setup(configData config.Config) (bool, error) {
	g.setGlobalConfig(&configData)
	return true, nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	sonarqubeInstance := newEngineSonarqube(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeEngine: &shared.EnginePlugin{Impl: sonarqubeInstance},
		},
		Logger: logger,
	})
}
