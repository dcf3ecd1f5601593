package comment

import (
	"github.com/review-io-git/review-io/internal/ci"
	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/internal/reviewer"
	"github.com/review-io-git/review-io/pkg/shared"
)

// applyCommentFallbacks fills missing options from the CI environment and the
// local git checkout. Explicit flags always win.
func applyCommentFallbacks(options *reviewer.RunOptionsReview, env ci.Resolution, gitMeta git.MetadataResolution) {
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
}

// prepareCommentTarget resolves the pull request under comment. A URL
// argument is parsed and backfills the coordinate options; discrete flags
// are combined otherwise.
func prepareCommentTarget(options *reviewer.RunOptionsReview, args []string, mode string) (shared.RepositoryParams, error) {
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

	return cmdutil.RepositoryParamsFromCoords(options.VCSPluginName,
		options.Domain, options.Namespace, options.Repository, options.PullRequestID)
}
