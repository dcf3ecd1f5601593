package fetch

import (
	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/pkg/shared"
)

// prepareFetchTargets builds the repository list to fetch from either the
// target URL argument or the coordinate flags.
func prepareFetchTargets(options *RunOptionsFetch, args []string, mode string) ([]shared.RepositoryParams, error) {
	if mode == cmdutil.ModeSingleURL {
		repo, err := cmdutil.TargetToRepositoryParams(options.VCSPluginName, args[0])
		if err != nil {
			return nil, err
		}
		return []shared.RepositoryParams{repo}, nil
	}

	repo, err := cmdutil.RepositoryParamsFromCoords(options.VCSPluginName,
		options.Domain, options.Namespace, options.Repository, "")
	if err != nil {
		return nil, err
	}
	return []shared.RepositoryParams{repo}, nil
}
