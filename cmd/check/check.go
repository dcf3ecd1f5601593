package check

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/internal/ci"
	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/engine"
	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/internal/reviewer"
	"github.com/review-io-git/review-io/internal/sonar"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/artifacts"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// RunOptionsCheck holds the arguments for the check command.
type RunOptionsCheck struct {
	VCSPluginName    string
	EnginePluginName string
	Source           string
	Domain           string
	Namespace        string
	Repository       string
	PullRequestID    string
	Branch           string
	TargetBranch     string
	AuthType         string
	SSHKey           string
	ConfigPath       string
	Output           string
	AdditionalArgs   []string
	Jobs             int
	NoComments       bool
	Summary          string
}

// Global variables for configuration and command arguments
var (
	AppConfig    *config.Config
	logger       hclog.Logger
	checkOptions RunOptionsCheck

	exampleCheckUsage = `  # Analyse a local checkout and print the findings without posting comments
  reviewio check --engine sonarqube --source . --no-comments

  # Review a pull request by URL, fetching the code with SSH agent authentication
  reviewio check --vcs github --auth-type ssh-agent https://github.com/acme/widget/pull/42

  # Review a pull request by coordinates with an engine config and passthrough args
  reviewio check --vcs gitlab --auth-type http --domain gitlab.com --namespace team --repository service --pull-request-id 7 --config-path sonar-project.properties --args -Dsonar.host.url=https://sonar.internal

  # Analyse an already fetched checkout and post review comments with a custom summary
  reviewio check --vcs bitbucket --source /tmp/checkout --domain bitbucket.example.com --namespace TEAM --repository service --pull-request-id 3 --summary "Automated review"`

	CheckCmd = &cobra.Command{
		Use:                   "check --engine/-e PLUGIN_NAME [--vcs/-p PLUGIN_NAME] [--auth-type/-a AUTH_TYPE] [--source/-s PATH] [--no-comments] {--domain DOMAIN --namespace NAMESPACE --repository REPO [--pull-request-id ID] | URL}",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleCheckUsage,
		Short:                 "Run an analysis engine over a repository and post the findings as a PR review",
		RunE:                  runCheckCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
	CheckCmd.Long = generateLongDescription(AppConfig)
}

// runCheckCommand executes the check command.
func runCheckCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	mode := cmdutil.DetermineMode(args)

	resolutionEnv, err := ci.ResolveFromEnvironment(logger, checkOptions.VCSPluginName)
	if err != nil {
		logger.Debug("ci environment resolution failed", "error", err)
	}

	resolutionGitMeta, err := git.ApplyGitMetadataOptionsFallbacks(logger, checkOptions.Source,
		checkOptions.Namespace, checkOptions.Repository, checkOptions.VCSPluginName, checkOptions.Domain)
	if err != nil {
		logger.Debug("git metadata fallback failed", "error", err)
	}

	applyCheckFallbacks(&checkOptions, resolutionEnv, resolutionGitMeta)

	repoParams, err := prepareCheckTarget(&checkOptions, args, mode)
	if err != nil {
		logger.Error("failed to prepare check target", "error", err)
		return errors.NewCommandError(checkOptions, nil, fmt.Errorf("failed to prepare check target: %w", err), 1)
	}

	if err := validateCheckArgs(&checkOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(checkOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	postComments := !checkOptions.NoComments && checkOptions.PullRequestID != ""

	if postComments && (checkOptions.Branch == "" || checkOptions.TargetBranch == "") {
		hydrateBranchesFromPR(AppConfig, &checkOptions, repoParams)
	}

	targetPath := checkOptions.Source
	if targetPath != "" {
		targetPath = files.ResolveSourceFolder(targetPath, logger)
	} else {
		targetPath, err = fetchCheckTarget(AppConfig, &checkOptions, repoParams)
		if err != nil {
			return err
		}
	}

	inclusions := collectChangedFiles(AppConfig, &checkOptions, targetPath)

	runner := engine.New(
		checkOptions.EnginePluginName,
		checkOptions.ConfigPath,
		inclusions,
		checkOptions.AdditionalArgs,
		checkOptions.Jobs,
		logger,
	)

	runArgs, err := runner.PrepareRunArgs(AppConfig, nil, targetPath, checkOptions.Output)
	if err != nil {
		logger.Error("failed to prepare analysis arguments", "error", err)
		return errors.NewCommandError(checkOptions, nil, fmt.Errorf("failed to prepare analysis arguments: %w", err), 1)
	}

	analysisResults := runner.RunAnalyses(AppConfig, runArgs)
	if _, err := artifacts.SaveArtifactJSON(AppConfig, logger, "check", checkOptions.EnginePluginName, analysisResults); err != nil {
		logger.Warn("failed to save analysis artifact", "error", err)
	}
	for _, launch := range analysisResults.Launches {
		if launch.Status != "OK" {
			return errors.NewCommandErrorWithResult(analysisResults, fmt.Errorf("engine analysis failed"), 2)
		}
	}

	reportPaths := engine.ReportPaths(analysisResults)
	if len(reportPaths) == 0 {
		return errors.NewCommandErrorWithResult(analysisResults, fmt.Errorf("engine produced no report"), 2)
	}

	parser := sonar.NewParser(logger)
	result, err := parser.ParseReport(reportPaths[0])
	if err != nil {
		logger.Error("failed to parse engine report", "report", reportPaths[0], "error", err)
		return errors.NewCommandError(checkOptions, nil, err, 2)
	}

	resultPath := filepath.Join(filepath.Dir(reportPaths[0]), "review-result.json")
	if err := result.SaveJSON(resultPath); err != nil {
		logger.Warn("failed to save review result", "path", resultPath, "error", err)
	} else {
		logger.Info("review result saved", "path", resultPath)
	}

	fmt.Println(result.Summary())

	if !postComments {
		logger.Info("check command completed successfully")
		return nil
	}

	comments := reviewer.PrepareReviewComments(result)
	summary := checkOptions.Summary
	if summary == "" {
		summary = reviewer.BuildLinkedSummary(result, reviewer.LinkContext{
			VCSPluginName: checkOptions.VCSPluginName,
			Domain:        repoParams.Domain,
			Namespace:     repoParams.Namespace,
			Repository:    repoParams.Repository,
			Ref:           checkOptions.Branch,
		})
	}

	rev := reviewer.New(checkOptions.VCSPluginName, reviewer.ActionAddReviewComments, logger)
	reviewReport, err := rev.PublishReview(AppConfig, repoParams, comments, summary)
	if err != nil {
		logger.Error("failed to publish review", "error", err)
		return errors.NewCommandError(checkOptions, nil, fmt.Errorf("failed to publish review: %w", err), 2)
	}
	logger.Info("review published",
		"posted", reviewReport.Posted, "skipped", reviewReport.Skipped, "failed", reviewReport.Failed)

	logger.Info("check command completed successfully")
	return nil
}

func init() {
	CheckCmd.Flags().StringVarP(&checkOptions.VCSPluginName, "vcs", "p", "", "Name of the VCS plugin (e.g., bitbucket, gitlab, github).")
	CheckCmd.Flags().StringVarP(&checkOptions.EnginePluginName, "engine", "e", "sonarqube", "Name of the analysis engine plugin.")
	CheckCmd.Flags().StringVarP(&checkOptions.Source, "source", "s", "", "Path to an existing checkout to analyse. When omitted the repository is fetched first.")
	CheckCmd.Flags().StringVar(&checkOptions.Domain, "domain", "", "Domain of the VCS instance (e.g., github.com).")
	CheckCmd.Flags().StringVar(&checkOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository.")
	CheckCmd.Flags().StringVar(&checkOptions.Repository, "repository", "", "Repository name.")
	CheckCmd.Flags().StringVar(&checkOptions.PullRequestID, "pull-request-id", "", "Pull request identifier to review.")
	CheckCmd.Flags().StringVarP(&checkOptions.Branch, "branch", "b", "", "Source branch of the pull request.")
	CheckCmd.Flags().StringVar(&checkOptions.TargetBranch, "target-branch", "", "Target branch the pull request merges into.")
	CheckCmd.Flags().StringVarP(&checkOptions.AuthType, "auth-type", "a", "", "Type of authentication for fetching (http, ssh-agent, ssh-key).")
	CheckCmd.Flags().StringVarP(&checkOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	CheckCmd.Flags().StringVarP(&checkOptions.ConfigPath, "config-path", "c", "", "Path to the engine configuration file (e.g., sonar-project.properties).")
	CheckCmd.Flags().StringVarP(&checkOptions.Output, "output", "o", "", "File or folder the engine report is written to.")
	CheckCmd.Flags().StringSliceVar(&checkOptions.AdditionalArgs, "args", nil, "Additional arguments passed through to the engine.")
	CheckCmd.Flags().IntVarP(&checkOptions.Jobs, "jobs", "j", 1, "Number of concurrent jobs.")
	CheckCmd.Flags().BoolVar(&checkOptions.NoComments, "no-comments", false, "Analyse only; do not post review comments.")
	CheckCmd.Flags().StringVar(&checkOptions.Summary, "summary", "", "Overall summary comment replacing the generated one.")
	CheckCmd.Flags().BoolP("help", "h", false, "Show help for the check command.")
}
