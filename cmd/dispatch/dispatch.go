package dispatch

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	dispatcher "github.com/review-io-git/review-io/internal/dispatch"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
)

// RunOptionsDispatch holds the arguments for the dispatch command.
type RunOptionsDispatch struct {
	VCSPluginName    string
	EnginePluginName string
	Domain           string
	Namespace        string
	Repository       string
	PullRequestID    string
	Branch           string
	TargetBranch     string
	AuthType         string
	NoComments       bool
	Summary          string
	Image            string
	Env              []string
	Wait             bool
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	logger          hclog.Logger
	dispatchOptions RunOptionsDispatch

	exampleDispatchUsage = `  # Dispatch a pull request review to the cluster and wait for it to finish
  reviewio dispatch --vcs github --domain github.com --namespace acme --repository widget --pull-request-id 42 --env REVIEWIO_GITHUB_TOKEN --wait

  # Dispatch with an image override and an inline environment value
  reviewio dispatch --vcs gitlab --domain gitlab.com --namespace team --repository service --pull-request-id 7 --image registry.internal/reviewio:latest --env REVIEWIO_GITLAB_TOKEN=glpat-...`

	DispatchCmd = &cobra.Command{
		Use:                   "dispatch --vcs/-p PLUGIN_NAME --domain DOMAIN --namespace NAMESPACE --repository REPO --pull-request-id ID [--image IMAGE] [--env KEY[=VALUE]] [--wait]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleDispatchUsage,
		Short:                 "Run a check as a Kubernetes job instead of locally",
		Long: `Run a check as a Kubernetes job instead of locally. The job runs the
reviewio image with the same check flags, forwarding the selected
environment variables. With --wait the command follows the job until it
finishes and streams its logs.`,
		RunE: runDispatchCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// runDispatchCommand executes the dispatch command.
func runDispatchCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if dispatchOptions.Image != "" {
		AppConfig.Dispatch.Image = dispatchOptions.Image
	}

	if err := validateDispatchArgs(&dispatchOptions, args, AppConfig); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(dispatchOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	command := buildCheckCommand(&dispatchOptions)
	env, err := buildJobEnv(dispatchOptions.Env)
	if err != nil {
		logger.Error("failed to build job environment", "error", err)
		return errors.NewCommandError(dispatchOptions, nil, err, 1)
	}

	d, err := dispatcher.New(AppConfig, logger)
	if err != nil {
		logger.Error("failed to initialize the dispatcher", "error", err)
		return errors.NewCommandError(dispatchOptions, nil, fmt.Errorf("failed to initialize the dispatcher: %w", err), 1)
	}

	jobName, err := d.Run(context.Background(), dispatcher.JobSpec{Command: command, Env: env}, dispatchOptions.Wait)
	if err != nil {
		logger.Error("dispatched job failed", "job", jobName, "error", err)
		return errors.NewCommandError(dispatchOptions, nil, err, 2)
	}

	logger.Info("job dispatched", "job", jobName, "image", AppConfig.Dispatch.Image, "wait", dispatchOptions.Wait)
	fmt.Println(jobName)
	return nil
}

func init() {
	DispatchCmd.Flags().StringVarP(&dispatchOptions.VCSPluginName, "vcs", "p", "", "Name of the VCS plugin (e.g., bitbucket, gitlab, github).")
	DispatchCmd.Flags().StringVarP(&dispatchOptions.EnginePluginName, "engine", "e", "sonarqube", "Name of the analysis engine plugin.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.Domain, "domain", "", "Domain of the VCS instance (e.g., github.com).")
	DispatchCmd.Flags().StringVar(&dispatchOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.Repository, "repository", "", "Repository name.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.PullRequestID, "pull-request-id", "", "Pull request identifier to review.")
	DispatchCmd.Flags().StringVarP(&dispatchOptions.Branch, "branch", "b", "", "Source branch of the pull request.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.TargetBranch, "target-branch", "", "Target branch the pull request merges into.")
	DispatchCmd.Flags().StringVarP(&dispatchOptions.AuthType, "auth-type", "a", "http", "Type of authentication the job uses for fetching.")
	DispatchCmd.Flags().BoolVar(&dispatchOptions.NoComments, "no-comments", false, "Analyse only; do not post review comments.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.Summary, "summary", "", "Overall summary comment replacing the generated one.")
	DispatchCmd.Flags().StringVar(&dispatchOptions.Image, "image", "", "Container image to run; overrides the configured dispatch image.")
	DispatchCmd.Flags().StringSliceVar(&dispatchOptions.Env, "env", nil, "Environment variables forwarded into the job, as KEY to copy the local value or KEY=VALUE to set one.")
	DispatchCmd.Flags().BoolVar(&dispatchOptions.Wait, "wait", false, "Wait for the job to finish and stream its logs.")
	DispatchCmd.Flags().BoolP("help", "h", false, "Show help for the dispatch command.")
}
