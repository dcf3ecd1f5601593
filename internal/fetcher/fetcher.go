package fetcher

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/files"
	"github.com/review-io-git/review-io/pkg/shared/vcsurl"
)

// Fetcher materializes repositories on disk through a VCS plugin.
type Fetcher struct {
	vcsPluginName string       // Name of the VCS plugin to use
	authType      string       // Authentication type: http, ssh-key or ssh-agent
	sshKey        string       // Path to the SSH key for ssh-key auth
	branch        string       // Branch to check out, empty means the default branch
	rmExts        []string     // File extensions to remove after fetching
	jobs          int          // Number of concurrent jobs to run
	logger        hclog.Logger // Logger for logging messages and errors
}

// New creates a new Fetcher instance with the provided configuration.
func New(vcsPluginName, authType, sshKey, branch string, rmExts []string, jobs int, logger hclog.Logger) *Fetcher {
	if jobs < 1 {
		jobs = 1
	}
	return &Fetcher{
		vcsPluginName: vcsPluginName,
		authType:      authType,
		sshKey:        sshKey,
		branch:        branch,
		rmExts:        rmExts,
		jobs:          jobs,
		logger:        logger,
	}
}

// PrepFetchArgs builds one fetch request per repository, picking the clone
// link matching the authentication type and laying targets out under the
// projects folder.
func (f *Fetcher) PrepFetchArgs(cfg *config.Config, repos []shared.RepositoryParams) ([]shared.VCSFetchRequest, error) {
	var fetchArgs []shared.VCSFetchRequest

	for _, repo := range repos {
		cloneURL := repo.SSHLink
		if f.authType == "http" {
			cloneURL = repo.HTTPLink
		}
		if cloneURL == "" {
			return nil, fmt.Errorf("repository %q has no clone link for auth type %q", repo.Repository, f.authType)
		}

		domain, err := resolveDomain(repo)
		if err != nil {
			return nil, err
		}

		// Targets must stay inside the projects folder.
		targetFolder, err := files.EnsureWithinRoot(
			config.GetReviewioProjectsHome(cfg),
			config.GetRepositoryPath(cfg, domain, repo.Namespace, repo.Repository),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve target folder for %q: %w", repo.Repository, err)
		}

		fetchArgs = append(fetchArgs, shared.VCSFetchRequest{
			CloneURL:     cloneURL,
			Branch:       f.branch,
			AuthType:     f.authType,
			SSHKey:       f.sshKey,
			TargetFolder: targetFolder,
			RepoParam:    repo,
		})
	}
	return fetchArgs, nil
}

// resolveDomain returns the repository domain, deriving it from the clone
// links when the params carry none.
func resolveDomain(repo shared.RepositoryParams) (string, error) {
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

// fetchRepo fetches one repository through the VCS plugin.
func (f *Fetcher) fetchRepo(cfg *config.Config, fetchArg shared.VCSFetchRequest) (shared.VCSFetchResponse, error) {
	var result shared.VCSFetchResponse

	err := shared.SetupPlugin(cfg, f.logger, shared.PluginTypeVCS, f.vcsPluginName, func(raw interface{}) error {
		vcsPlugin, ok := raw.(shared.VCS)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}
		var err error
		result, err = vcsPlugin.Fetch(fetchArg)
		if err != nil {
			f.logger.Error("vcs plugin fetch failed", "target", fetchArg.TargetFolder)
			return fmt.Errorf("vcs plugin fetch failed for %q: %w", fetchArg.CloneURL, err)
		}
		if len(f.rmExts) > 0 {
			files.FindByExtAndRemove(fetchArg.TargetFolder, f.rmExts)
		}
		return nil
	})

	return result, err
}

// FetchRepos fetches every repository concurrently and returns the
// aggregated results.
func (f *Fetcher) FetchRepos(cfg *config.Config, fetchArgs []shared.VCSFetchRequest) shared.GenericLaunchesResult {
	f.logger.Info("fetching starting", "total", len(fetchArgs), "goroutines", f.jobs)

	var results shared.GenericLaunchesResult
	resultsChannel := make(chan shared.GenericResult, len(fetchArgs))
	values := make([]interface{}, len(fetchArgs))
	for i := range fetchArgs {
		values[i] = fetchArgs[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(f.jobs, values, func(i int, value interface{}) {
		fetchArg, ok := value.(shared.VCSFetchRequest)
		if !ok {
			f.logger.Error("invalid fetch argument type")
			return
		}
		f.logger.Info("goroutine started", "#", i+1, "clone_url", fetchArg.CloneURL)

		result, err := f.fetchRepo(cfg, fetchArg)
		if err != nil {
			resultsChannel <- shared.GenericResult{Args: fetchArg, Result: result, Status: "FAILED", Message: err.Error()}
		} else {
			resultsChannel <- shared.GenericResult{Args: fetchArg, Result: result, Status: "OK", Message: ""}
		}
	})

	close(resultsChannel)
	for result := range resultsChannel {
		results.Launches = append(results.Launches, result)
	}
	return results
}

// FetchedPaths extracts the checkout paths from successful launches.
func FetchedPaths(results shared.GenericLaunchesResult) []string {
	var paths []string
	for _, launch := range results.Launches {
		if launch.Status != "OK" {
			continue
		}
		if resp, ok := launch.Result.(shared.VCSFetchResponse); ok && resp.Path != "" {
			paths = append(paths, resp.Path)
		}
	}
	return paths
}
