package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Reviewio.ProjectsFolder = t.TempDir()
	return cfg
}

func testRepo() shared.RepositoryParams {
	return shared.RepositoryParams{
		Domain:     "github.com",
		Namespace:  "Acme",
		Repository: "Widget",
		HTTPLink:   "https://github.com/Acme/Widget.git",
		SSHLink:    "git@github.com:Acme/Widget.git",
	}
}

func TestPrepFetchArgsHTTP(t *testing.T) {
	cfg := testConfig(t)
	f := New("github", "http", "", "feature/login", nil, 1, hclog.NewNullLogger())

	args, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{testRepo()})
	require.NoError(t, err)
	require.Len(t, args, 1)

	assert.Equal(t, "https://github.com/Acme/Widget.git", args[0].CloneURL)
	assert.Equal(t, "feature/login", args[0].Branch)
	assert.Equal(t, "http", args[0].AuthType)
	assert.Equal(t, filepath.Join(cfg.Reviewio.ProjectsFolder, "github.com", "acme", "widget"), args[0].TargetFolder)
	assert.Equal(t, "Widget", args[0].RepoParam.Repository)
}

func TestPrepFetchArgsSSH(t *testing.T) {
	cfg := testConfig(t)
	f := New("github", "ssh-key", "/home/user/.ssh/id_rsa", "", nil, 1, hclog.NewNullLogger())

	args, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{testRepo()})
	require.NoError(t, err)
	require.Len(t, args, 1)

	assert.Equal(t, "git@github.com:Acme/Widget.git", args[0].CloneURL)
	assert.Equal(t, "/home/user/.ssh/id_rsa", args[0].SSHKey)
}

func TestPrepFetchArgsMissingLink(t *testing.T) {
	cfg := testConfig(t)
	f := New("github", "http", "", "", nil, 1, hclog.NewNullLogger())

	repo := testRepo()
	repo.HTTPLink = ""
	_, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{repo})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no clone link")
}

func TestPrepFetchArgsDomainFallback(t *testing.T) {
	cfg := testConfig(t)
	f := New("gitlab", "http", "", "", nil, 1, hclog.NewNullLogger())

	repo := shared.RepositoryParams{
		Namespace:  "team",
		Repository: "service",
		HTTPLink:   "https://gitlab.example.com/team/service.git",
	}
	args, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{repo})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Reviewio.ProjectsFolder, "gitlab.example.com", "team", "service"), args[0].TargetFolder)
}

func TestPrepFetchArgsEscapingTarget(t *testing.T) {
	cfg := testConfig(t)
	f := New("github", "http", "", "", nil, 1, hclog.NewNullLogger())

	repo := testRepo()
	repo.Namespace = "../../outside"
	_, err := f.PrepFetchArgs(cfg, []shared.RepositoryParams{repo})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "escapes root")
}

func TestFetchedPaths(t *testing.T) {
	results := shared.GenericLaunchesResult{Launches: []shared.GenericResult{
		{Status: "OK", Result: shared.VCSFetchResponse{Path: "/projects/a"}},
		{Status: "FAILED", Result: shared.VCSFetchResponse{}},
		{Status: "OK", Result: shared.VCSFetchResponse{Path: "/projects/b"}},
	}}
	assert.Equal(t, []string{"/projects/a", "/projects/b"}, FetchedPaths(results))
}
