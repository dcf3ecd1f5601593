package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/files"
	"github.com/review-io-git/review-io/pkg/shared/vcsurl"
)

// Runner orchestrates analysis engine plugin launches.
type Runner struct {
	pluginName     string       // Name of the engine plugin to use
	configPath     string       // Base configuration file handed to the engine
	inclusions     []string     // Repository-relative files to restrict the analysis to
	additionalArgs []string     // Additional arguments for the engine
	concurrentJobs int          // Number of concurrent jobs to run
	logger         hclog.Logger // Logger for logging messages and errors
}

// New creates a new Runner instance with the provided configuration.
func New(pluginName, configPath string, inclusions, additionalArgs []string, concurrentJobs int, logger hclog.Logger) *Runner {
	if concurrentJobs < 1 {
		concurrentJobs = 1
	}
	return &Runner{
		pluginName:     pluginName,
		configPath:     configPath,
		inclusions:     inclusions,
		additionalArgs: additionalArgs,
		concurrentJobs: concurrentJobs,
		logger:         logger,
	}
}

// PrepareRunArgs prepares the arguments needed for the analysis runs.
func (r *Runner) PrepareRunArgs(cfg *config.Config, repos []shared.RepositoryParams, targetPath, outputPath string) ([]shared.EngineRunRequest, error) {
	var runArgs []shared.EngineRunRequest

	// Generate the report name template based on the CI mode
	nameTemplate := r.generateNameTemplate(cfg)

	// Handle single target path scenario
	if targetPath != "" {
		reportFile, err := r.determineReportFilePath(targetPath, outputPath, nameTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to determine report file path: %w", err)
		}

		runArgs = append(runArgs, r.createRunRequest(targetPath, reportFile))
	} else {
		// Handle multiple repositories scenario
		for _, repo := range repos {
			runArg, err := r.prepareRepoRunArg(cfg, repo, nameTemplate)
			if err != nil {
				return nil, fmt.Errorf("failed to prepare run arguments for repository: %w", err)
			}
			runArgs = append(runArgs, runArg)
		}
	}

	return runArgs, nil
}

// prepareRepoRunArg prepares the run arguments for a fetched repository.
func (r *Runner) prepareRepoRunArg(cfg *config.Config, repo shared.RepositoryParams, nameTemplate string) (shared.EngineRunRequest, error) {
	domain, err := determineDomain(repo)
	if err != nil {
		return shared.EngineRunRequest{}, err
	}

	reportFolderPath := filepath.Join(config.GetReviewioResultsHome(cfg), strings.ToLower(domain), strings.ToLower(repo.Namespace), strings.ToLower(repo.Repository))
	targetPath := config.GetRepositoryPath(cfg, domain, repo.Namespace, repo.Repository)
	reportFile := filepath.Join(reportFolderPath, nameTemplate)

	if err := files.CreateFolderIfNotExists(reportFolderPath); err != nil {
		return shared.EngineRunRequest{}, fmt.Errorf("failed to create report folder '%s': %w", reportFolderPath, err)
	}

	return r.createRunRequest(targetPath, reportFile), nil
}

// determineDomain resolves the repository domain, falling back to the clone links.
func determineDomain(repo shared.RepositoryParams) (string, error) {
	if repo.Domain != "" {
		return repo.Domain, nil
	}
	for _, link := range []string{repo.HTTPLink, repo.SSHLink} {
		if link == "" {
			continue
		}
		if info, err := vcsurl.Parse(link); err == nil && info.ParsedURL.Hostname() != "" {
			return info.ParsedURL.Hostname(), nil
		}
	}
	return "", fmt.Errorf("failed to determine domain for repository %q", repo.Repository)
}

// determineReportFilePath determines the report file path based on target and output paths.
func (r *Runner) determineReportFilePath(targetPath, outputPath, nameTemplate string) (string, error) {
	if outputPath != "" {
		return r.getOutputFilePath(outputPath, nameTemplate)
	}
	return r.getOutputFilePath(targetPath, nameTemplate)
}

// getOutputFilePath resolves the report location, creating its folder when needed.
func (r *Runner) getOutputFilePath(path, nameTemplate string) (string, error) {
	reportFile, reportFolder, err := files.DetermineFileFullPath(path, nameTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to resolve report path '%s': %w", path, err)
	}

	if err := files.CreateFolderIfNotExists(reportFolder); err != nil {
		return "", fmt.Errorf("failed to create report folder '%s': %w", reportFolder, err)
	}

	return reportFile, nil
}

// generateNameTemplate generates a name template for the report file based on the CI mode.
func (r *Runner) generateNameTemplate(cfg *config.Config) string {
	nameTemplate := fmt.Sprintf("reviewio-report-%s.json", r.pluginName)
	if !config.IsCI(cfg) {
		startTime := time.Now().UTC().Format(time.RFC3339)
		nameTemplate = fmt.Sprintf("reviewio-report-%s-%s.json", r.pluginName, startTime)
	}
	return nameTemplate
}

// createRunRequest creates an EngineRunRequest with the specified parameters.
func (r *Runner) createRunRequest(targetPath, reportFile string) shared.EngineRunRequest {
	return shared.EngineRunRequest{
		TargetPath:     targetPath,
		ResultsPath:    reportFile,
		ConfigPath:     r.configPath,
		Inclusions:     r.inclusions,
		AdditionalArgs: r.additionalArgs,
	}
}

// runAnalysis executes one analysis using the engine plugin.
func (r *Runner) runAnalysis(cfg *config.Config, runArg shared.EngineRunRequest) (shared.EngineRunResponse, error) {
	var result shared.EngineRunResponse

	err := shared.SetupPlugin(cfg, r.logger, shared.PluginTypeEngine, r.pluginName, func(raw interface{}) error {
		enginePlugin, ok := raw.(shared.Engine)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}
		var err error
		result, err = enginePlugin.Run(runArg)
		if err != nil {
			r.logger.Error("engine plugin run failed", "target", runArg.TargetPath)
			return fmt.Errorf("engine plugin run failed for target %q: %w", runArg.TargetPath, err)
		}
		return nil
	})

	return result, err
}

// RunAnalyses runs the engine over every target concurrently and returns the
// aggregated results.
func (r *Runner) RunAnalyses(cfg *config.Config, runArgs []shared.EngineRunRequest) shared.GenericLaunchesResult {
	r.logger.Info("analysis starting", "total", len(runArgs), "goroutines", r.concurrentJobs)

	var results shared.GenericLaunchesResult
	resultsChannel := make(chan shared.GenericResult, len(runArgs))
	values := make([]interface{}, len(runArgs))
	for i := range runArgs {
		values[i] = runArgs[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(r.concurrentJobs, values, func(i int, value interface{}) {
		runArg, ok := value.(shared.EngineRunRequest)
		if !ok {
			r.logger.Error("invalid run argument type")
			return
		}
		r.logger.Info("goroutine started", "#", i+1, "target", runArg.TargetPath)

		result, err := r.runAnalysis(cfg, runArg)
		if err != nil {
			resultsChannel <- shared.GenericResult{Args: runArg, Result: result, Status: "FAILED", Message: err.Error()}
		} else {
			resultsChannel <- shared.GenericResult{Args: runArg, Result: result, Status: "OK", Message: ""}
		}
	})

	close(resultsChannel)
	for result := range resultsChannel {
		results.Launches = append(results.Launches, result)
	}
	return results
}

// ReportPaths extracts the produced report paths from successful launches.
func ReportPaths(results shared.GenericLaunchesResult) []string {
	var paths []string
	for _, launch := range results.Launches {
		if launch.Status != "OK" {
			continue
		}
		if resp, ok := launch.Result.(shared.EngineRunResponse); ok && resp.ReportPath != "" {
			paths = append(paths, resp.ReportPath)
		}
	}
	return paths
}
