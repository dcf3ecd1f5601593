package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/review-io-git/review-io/internal/ci"
	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/fetcher"
	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/internal/reviewer"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/artifacts"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
)

// applyCheckFallbacks fills missing options from the CI environment and the
// local git checkout. Explicit flags always win, the CI environment comes
// next and git metadata is the last resort.
func applyCheckFallbacks(options *RunOptionsCheck, env ci.Resolution, gitMeta git.MetadataResolution) {
	if env.PluginName != "" {
		options.VCSPluginName = env.PluginName
	}
	if options.Domain == "" && env.Domain != "" {
		options.Domain = env.Domain
	} else if options.Domain == "" && gitMeta.Domain != "" {
		options.Domain = gitMeta.Domain
	}
	if options.Namespace == "" && env.Namespace != "" {
		options.Namespace = env.Namespace
	} else if options.Namespace == "" && gitMeta.Namespace != "" {
		options.Namespace = gitMeta.Namespace
	}
	if options.Repository == "" && env.Repository != "" {
		options.Repository = env.Repository
	} else if options.Repository == "" && gitMeta.Repository != "" {
		options.Repository = gitMeta.Repository
	}
	if options.PullRequestID == "" && env.PullRequest != "" {
		options.PullRequestID = env.PullRequest
	}
	if options.Branch == "" && env.SourceBranch != "" {
		options.Branch = env.SourceBranch
	} else if options.Branch == "" && gitMeta.Branch != "" {
		options.Branch = gitMeta.Branch
	}
	if options.TargetBranch == "" && env.TargetBranch != "" {
		options.TargetBranch = env.TargetBranch
	}
}

// prepareCheckTarget resolves the repository under review. A URL argument is
// parsed and backfills the coordinate options; discrete flags are combined
// otherwise. Zero params are returned for a local analysis without
// repository coordinates.
func prepareCheckTarget(options *RunOptionsCheck, args []string, mode string) (shared.RepositoryParams, error) {
	if mode == cmdutil.ModeSingleURL {
		repo, err := cmdutil.TargetToRepositoryParams(options.VCSPluginName, args[0])
		if err != nil {
			return shared.RepositoryParams{}, err
		}
		if options.PullRequestID != "" {
			repo.PullRequestID = options.PullRequestID
		} else {
			options.PullRequestID = repo.PullRequestID
		}
		options.Domain = repo.Domain
		options.Namespace = repo.Namespace
		options.Repository = repo.Repository
		return repo, nil
	}

	if options.Domain == "" && options.Namespace == "" && options.Repository == "" {
		return shared.RepositoryParams{}, nil
	}
	return cmdutil.RepositoryParamsFromCoords(options.VCSPluginName,
		options.Domain, options.Namespace, options.Repository, options.PullRequestID)
}

// hydrateBranchesFromPR fills missing branch options from the pull request
// information. Failures are tolerated since the engine can still analyse the
// whole checkout.
func hydrateBranchesFromPR(cfg *config.Config, options *RunOptionsCheck, repo shared.RepositoryParams) {
	r := reviewer.New(options.VCSPluginName, reviewer.ActionCheckPR, logger)
	prInfo, err := r.RetrievePRInformation(cfg, repo)
	if err != nil {
		logger.Warn("failed to retrieve pull request information", "error", err)
		return
	}
	if options.Branch == "" {
		options.Branch = referenceName(prInfo.Source)
	}
	if options.TargetBranch == "" {
		options.TargetBranch = referenceName(prInfo.Destination)
	}
	logger.Debug("hydrated branches from pull request",
		"branch", options.Branch, "target_branch", options.TargetBranch)
}

func referenceName(ref shared.Reference) string {
	if ref.DisplayID != "" {
		return ref.DisplayID
	}
	return ref.ID
}

// fetchCheckTarget fetches the repository under review and returns the
// checkout path.
func fetchCheckTarget(cfg *config.Config, options *RunOptionsCheck, repo shared.RepositoryParams) (string, error) {
	f := fetcher.New(options.VCSPluginName, options.AuthType, options.SSHKey, options.Branch, nil, 1, logger)

	fetchArgs, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{repo})
	if err != nil {
		logger.Error("failed to prepare fetch targets", "error", err)
		return "", errors.NewCommandError(*options, nil, fmt.Errorf("failed to prepare fetch targets: %w", err), 1)
	}

	fetchResult := f.FetchRepos(cfg, fetchArgs)
	if _, err := artifacts.SaveArtifactJSON(cfg, logger, "check", options.VCSPluginName, fetchResult); err != nil {
		logger.Warn("failed to save fetch artifact", "error", err)
	}
	for _, launch := range fetchResult.Launches {
		if launch.Status != "OK" {
			return "", errors.NewCommandErrorWithResult(fetchResult, fmt.Errorf("fetching failed for %q", repo.Repository), 2)
		}
	}

	paths := fetcher.FetchedPaths(fetchResult)
	if len(paths) == 0 {
		return "", errors.NewCommandErrorWithResult(fetchResult, fmt.Errorf("fetching produced no checkout path"), 2)
	}
	return paths[0], nil
}

// collectChangedFiles computes the files touched by the pull request so the
// engine can restrict the analysis. An empty result means the whole checkout
// is analysed.
func collectChangedFiles(cfg *config.Config, options *RunOptionsCheck, targetPath string) []string {
	if options.Branch == "" || options.TargetBranch == "" {
		logger.Debug("branches unknown; analysing the whole checkout")
		return nil
	}

	gitClient := git.NewLocal(logger, cfg)
	changed, err := gitClient.ListChangedFiles(targetPath, options.TargetBranch, options.Branch)
	if err != nil {
		logger.Warn("failed to compute changed files; analysing the whole checkout", "error", err)
		return nil
	}
	if len(changed) == 0 {
		logger.Info("no changed files between branches; analysing the whole checkout",
			"branch", options.Branch, "target_branch", options.TargetBranch)
		return nil
	}
	logger.Info("restricting analysis to changed files", "files", len(changed))
	return changed
}

func pluginNames(pluginsMeta map[string]shared.PluginMeta) []string {
	names := make([]string, 0, len(pluginsMeta))
	for plugin := range pluginsMeta {
		names = append(names, plugin)
	}
	sort.Strings(names)
	return names
}

// generateLongDescription generates the long description dynamically with the list of available plugins.
func generateLongDescription(cfg *config.Config) string {
	engines := pluginNames(shared.GetPluginVersions(config.GetReviewioPluginsHome(cfg), shared.PluginTypeEngine))
	vcses := pluginNames(shared.GetPluginVersions(config.GetReviewioPluginsHome(cfg), shared.PluginTypeVCS))
	return fmt.Sprintf(`Run an analysis engine over a repository and post the findings to the pull request as review comments.

List of available engine plugins:
  %s

List of available VCS plugins:
  %s`, strings.Join(engines, "\n  "), strings.Join(vcses, "\n  "))
}
