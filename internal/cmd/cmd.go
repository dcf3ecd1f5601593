package cmd

import (
	"fmt"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/vcsurl"
)

// Execution modes for commands that accept either a target URL argument or
// discrete flags.
const (
	ModeSingleURL = "single-url"
	ModeFlags     = "flags"
)

// DetermineMode selects the argument mode: a positional argument means a
// single target URL, otherwise everything comes from flags.
func DetermineMode(args []string) string {
	if len(args) > 0 {
		return ModeSingleURL
	}
	return ModeFlags
}

// TargetToRepositoryParams extracts repository coordinates from a target URL
// using the parser for the named VCS plugin.
func TargetToRepositoryParams(vcsPluginName, targetURL string) (shared.RepositoryParams, error) {
	vcsType := vcsurl.StringToVCSType(vcsPluginName)
	url, err := vcsurl.ParseForVCSType(targetURL, vcsType)
	if err != nil {
		return shared.RepositoryParams{}, fmt.Errorf("failed to extract data from provided URL %q: %w", targetURL, err)
	}
	return shared.RepositoryParams{
		Domain:        url.ParsedURL.Hostname(),
		Namespace:     url.Namespace,
		Repository:    url.Repository,
		PullRequestID: url.PullRequestId,
		HTTPLink:      url.HTTPRepoLink,
		SSHLink:       url.SSHRepoLink,
	}, nil
}

// RepositoryParamsFromCoords builds repository params from discrete
// coordinates, synthesizing the canonical web URL for the VCS type so the
// clone links come out of the same parser that handles URL targets.
func RepositoryParamsFromCoords(vcsPluginName, domain, namespace, repository, pullRequestID string) (shared.RepositoryParams, error) {
	if domain == "" || namespace == "" || repository == "" {
		return shared.RepositoryParams{}, fmt.Errorf("domain, namespace and repository are all required")
	}

	var targetURL string
	if vcsurl.StringToVCSType(vcsPluginName) == vcsurl.Bitbucket {
		targetURL = fmt.Sprintf("https://%s/projects/%s/repos/%s", domain, namespace, repository)
	} else {
		targetURL = fmt.Sprintf("https://%s/%s/%s", domain, namespace, repository)
	}

	repo, err := TargetToRepositoryParams(vcsPluginName, targetURL)
	if err != nil {
		return shared.RepositoryParams{}, err
	}
	repo.PullRequestID = pullRequestID
	return repo, nil
}
