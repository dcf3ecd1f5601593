package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
)

func newTestRunner(inclusions []string) *Runner {
	return New("sonarqube", "/cfg/project.properties", inclusions, []string{"-X"}, 1, hclog.NewNullLogger())
}

func ciConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Reviewio.Mode = "CI"
	return cfg
}

func TestGenerateNameTemplate(t *testing.T) {
	r := newTestRunner(nil)

	assert.Equal(t, "reviewio-report-sonarqube.json", r.generateNameTemplate(ciConfig()))

	timestamped := r.generateNameTemplate(&config.Config{})
	assert.True(t, strings.HasPrefix(timestamped, "reviewio-report-sonarqube-"))
	assert.True(t, strings.HasSuffix(timestamped, ".json"))
}

func TestPrepareRunArgsSingleTarget(t *testing.T) {
	r := newTestRunner([]string{"src/a.go"})
	target := t.TempDir()

	runArgs, err := r.PrepareRunArgs(ciConfig(), nil, target, "")
	require.NoError(t, err)
	require.Len(t, runArgs, 1)

	assert.Equal(t, target, runArgs[0].TargetPath)
	assert.Equal(t, filepath.Join(target, "reviewio-report-sonarqube.json"), runArgs[0].ResultsPath)
	assert.Equal(t, "/cfg/project.properties", runArgs[0].ConfigPath)
	assert.Equal(t, []string{"src/a.go"}, runArgs[0].Inclusions)
	assert.Equal(t, []string{"-X"}, runArgs[0].AdditionalArgs)
}

func TestPrepareRunArgsOutputFile(t *testing.T) {
	r := newTestRunner(nil)
	target := t.TempDir()
	output := filepath.Join(t.TempDir(), "reports", "analysis.json")

	runArgs, err := r.PrepareRunArgs(ciConfig(), nil, target, output)
	require.NoError(t, err)
	require.Len(t, runArgs, 1)

	assert.Equal(t, output, runArgs[0].ResultsPath)
	assert.DirExists(t, filepath.Dir(output))
}

func TestPrepareRunArgsOutputFolder(t *testing.T) {
	r := newTestRunner(nil)
	target := t.TempDir()
	output := filepath.Join(t.TempDir(), "reports")

	runArgs, err := r.PrepareRunArgs(ciConfig(), nil, target, output)
	require.NoError(t, err)
	require.Len(t, runArgs, 1)

	assert.Equal(t, filepath.Join(output, "reviewio-report-sonarqube.json"), runArgs[0].ResultsPath)
	assert.DirExists(t, output)
}

func TestPrepareRunArgsRepositories(t *testing.T) {
	r := newTestRunner(nil)
	cfg := ciConfig()
	cfg.Reviewio.ResultsFolder = filepath.Join(t.TempDir(), "results")
	cfg.Reviewio.ProjectsFolder = filepath.Join(t.TempDir(), "projects")

	repos := []shared.RepositoryParams{
		{Domain: "GitHub.com", Namespace: "Acme", Repository: "Widget"},
	}

	runArgs, err := r.PrepareRunArgs(cfg, repos, "", "")
	require.NoError(t, err)
	require.Len(t, runArgs, 1)

	wantResults := filepath.Join(cfg.Reviewio.ResultsFolder, "github.com", "acme", "widget")
	assert.Equal(t, filepath.Join(wantResults, "reviewio-report-sonarqube.json"), runArgs[0].ResultsPath)
	assert.Equal(t, filepath.Join(cfg.Reviewio.ProjectsFolder, "github.com", "acme", "widget"), runArgs[0].TargetPath)
	assert.DirExists(t, wantResults)
}

func TestDetermineDomain(t *testing.T) {
	domain, err := determineDomain(shared.RepositoryParams{Domain: "gitlab.com"})
	require.NoError(t, err)
	assert.Equal(t, "gitlab.com", domain)

	domain, err = determineDomain(shared.RepositoryParams{HTTPLink: "https://github.com/acme/widget"})
	require.NoError(t, err)
	assert.Equal(t, "github.com", domain)

	_, err = determineDomain(shared.RepositoryParams{Repository: "widget"})
	assert.Error(t, err)
}

func TestReportPaths(t *testing.T) {
	results := shared.GenericLaunchesResult{
		Launches: []shared.GenericResult{
			{Status: "OK", Result: shared.EngineRunResponse{ReportPath: "/tmp/a.json"}},
			{Status: "FAILED", Result: shared.EngineRunResponse{ReportPath: "/tmp/b.json"}},
			{Status: "OK", Result: shared.EngineRunResponse{}},
		},
	}

	assert.Equal(t, []string{"/tmp/a.json"}, ReportPaths(results))
}
