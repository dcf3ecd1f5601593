package fetch

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/fetcher"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/artifacts"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
)

// RunOptionsFetch holds the arguments for the fetch command.
type RunOptionsFetch struct {
	VCSPluginName string
	AuthType      string
	SSHKey        string
	Branch        string
	Domain        string
	Namespace     string
	Repository    string
	RmListExts    []string
	Jobs          int
}

// Global variables for configuration and command arguments
var (
	AppConfig    *config.Config
	logger       hclog.Logger
	fetchOptions RunOptionsFetch

	exampleFetchUsage = `  # Fetch a repository over SSH agent authentication, checking out a branch
  reviewio fetch --vcs github --auth-type ssh-agent -b develop https://github.com/acme/widget

  # Fetch a repository over HTTP authentication
  reviewio fetch --vcs gitlab --auth-type http https://gitlab.com/team/service

  # Fetch a repository by coordinates with an SSH key
  reviewio fetch --vcs bitbucket --auth-type ssh-key --ssh-key ~/.ssh/id_ed25519 --domain bitbucket.example.com --namespace TEAM --repository service

  # Fetch and remove binary artifacts from the checkout afterwards
  reviewio fetch --vcs github --auth-type ssh-agent --rm-ext zip,tar.gz,bin https://github.com/acme/widget`

	FetchCmd = &cobra.Command{
		Use:                   "fetch --vcs/-p PLUGIN_NAME --auth-type/-a AUTH_TYPE [--ssh-key/-k PATH] [--rm-ext LIST_OF_EXTENSIONS] {--domain DOMAIN --namespace NAMESPACE --repository REPO | [-b BRANCH] URL}",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleFetchUsage,
		Short:                 "Fetch repository code using the specified VCS plugin",
		RunE:                  runFetchCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
	FetchCmd.Long = generateLongDescription(AppConfig)
}

// runFetchCommand executes the fetch command.
func runFetchCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	mode := cmdutil.DetermineMode(args)

	if err := validateFetchArgs(&fetchOptions, args, mode); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fetchOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	repos, err := prepareFetchTargets(&fetchOptions, args, mode)
	if err != nil {
		logger.Error("failed to prepare fetch targets", "error", err)
		return errors.NewCommandError(fetchOptions, nil, fmt.Errorf("failed to prepare fetch targets: %w", err), 1)
	}

	f := fetcher.New(
		fetchOptions.VCSPluginName,
		fetchOptions.AuthType,
		fetchOptions.SSHKey,
		fetchOptions.Branch,
		fetchOptions.RmListExts,
		fetchOptions.Jobs,
		logger,
	)

	fetchArgs, err := f.PrepFetchArgs(AppConfig, repos)
	if err != nil {
		logger.Error("failed to prepare fetch arguments", "error", err)
		return errors.NewCommandError(fetchOptions, nil, fmt.Errorf("failed to prepare fetch arguments: %w", err), 1)
	}

	fetchResult := f.FetchRepos(AppConfig, fetchArgs)
	if _, err := artifacts.SaveArtifactJSON(AppConfig, logger, "fetch", fetchOptions.VCSPluginName, fetchResult); err != nil {
		logger.Warn("failed to save fetch artifact", "error", err)
	}
	for _, launch := range fetchResult.Launches {
		if launch.Status != "OK" {
			return errors.NewCommandErrorWithResult(fetchResult, fmt.Errorf("fetching failed"), 2)
		}
	}

	for _, path := range fetcher.FetchedPaths(fetchResult) {
		logger.Info("repository fetched", "path", path)
	}
	logger.Info("fetch command completed successfully")
	return nil
}

// generateLongDescription generates the long description dynamically with the list of available VCS plugins.
func generateLongDescription(cfg *config.Config) string {
	pluginsMeta := shared.GetPluginVersions(config.GetReviewioPluginsHome(cfg), shared.PluginTypeVCS)
	var plugins []string
	for plugin := range pluginsMeta {
		plugins = append(plugins, plugin)
	}
	return fmt.Sprintf(`Fetch repository code using the specified VCS plugin.

List of available VCS plugins:
  %s`, strings.Join(plugins, "\n  "))
}

func init() {
	FetchCmd.Flags().StringVarP(&fetchOptions.VCSPluginName, "vcs", "p", "", "Name of the VCS plugin (e.g., bitbucket, gitlab, github).")
	FetchCmd.Flags().StringVarP(&fetchOptions.AuthType, "auth-type", "a", "", "Type of authentication (http, ssh-agent, ssh-key).")
	FetchCmd.Flags().StringVarP(&fetchOptions.SSHKey, "ssh-key", "k", "", "Path to an SSH key.")
	FetchCmd.Flags().StringVarP(&fetchOptions.Branch, "branch", "b", "", "Specific branch to fetch (default: the default branch).")
	FetchCmd.Flags().StringVar(&fetchOptions.Domain, "domain", "", "Domain of the VCS instance (e.g., github.com).")
	FetchCmd.Flags().StringVar(&fetchOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository.")
	FetchCmd.Flags().StringVar(&fetchOptions.Repository, "repository", "", "Repository name.")
	FetchCmd.Flags().StringSliceVar(&fetchOptions.RmListExts, "rm-ext", nil, "Comma-separated list of file extensions to remove after fetching.")
	FetchCmd.Flags().IntVarP(&fetchOptions.Jobs, "jobs", "j", 1, "Number of concurrent jobs.")
	FetchCmd.Flags().BoolP("help", "h", false, "Show help for the fetch command.")
}
