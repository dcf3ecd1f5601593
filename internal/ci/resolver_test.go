package ci

import "testing"

func clearResolverEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"GITHUB_REPOSITORY",
		"GITHUB_SERVER_URL",
		"GITHUB_SHA",
		"GITHUB_REF",
		"GITHUB_REF_NAME",
		"GITHUB_REPOSITORY_OWNER",
		"GITHUB_HEAD_REF",
		"GITHUB_BASE_REF",
		"CI",
		"GITLAB_CI",
		"CI_PROJECT_PATH",
		"CI_PROJECT_NAME",
		"CI_PROJECT_NAMESPACE",
		"CI_PROJECT_URL",
		"CI_SERVER_URL",
		"CI_COMMIT_SHA",
		"CI_COMMIT_REF_NAME",
		"CI_MERGE_REQUEST_REF_PATH",
		"CI_MERGE_REQUEST_IID",
		"CI_MERGE_REQUEST_SOURCE_BRANCH_NAME",
		"CI_MERGE_REQUEST_TARGET_BRANCH_NAME",
		"BITBUCKET_WORKSPACE",
		"BITBUCKET_REPO_SLUG",
		"BITBUCKET_REPO_FULL_NAME",
		"BITBUCKET_GIT_HTTP_ORIGIN",
		"BITBUCKET_COMMIT",
		"BITBUCKET_PR_ID",
		"BITBUCKET_PR_DESTINATION_BRANCH",
		"BITBUCKET_BRANCH",
		"BITBUCKET_TAG",
		"JENKINS_URL",
		"JENKINS_HOME",
		"BUILD_URL",
		"GIT_URL",
		"GIT_COMMIT",
		"CHANGE_ID",
		"CHANGE_BRANCH",
		"CHANGE_TARGET",
		"BRANCH_NAME",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestResolveFromEnvironment_GitHubDetection(t *testing.T) {
	clearResolverEnv(t)

	t.Setenv("GITHUB_REPOSITORY", "octocat/hello-world")
	t.Setenv("GITHUB_SERVER_URL", "https://github.com")
	t.Setenv("GITHUB_SHA", "abcdef")
	t.Setenv("GITHUB_REF", "refs/pull/42/merge")
	t.Setenv("GITHUB_REF_NAME", "42/merge")
	t.Setenv("GITHUB_REPOSITORY_OWNER", "octocat")
	t.Setenv("GITHUB_HEAD_REF", "feature/login")
	t.Setenv("GITHUB_BASE_REF", "main")
	t.Setenv("CI", "true")

	res, err := ResolveFromEnvironment(nil, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.PluginName != "github" {
		t.Fatalf("expected plugin github, got %q", res.PluginName)
	}
	if res.Kind != CIGitHub {
		t.Fatalf("expected kind github, got %v", res.Kind)
	}
	if res.Domain != "github.com" {
		t.Fatalf("expected domain github.com, got %q", res.Domain)
	}
	if res.Namespace != "octocat" {
		t.Fatalf("expected namespace octocat, got %q", res.Namespace)
	}
	if res.Repository != "hello-world" {
		t.Fatalf("expected repository hello-world, got %q", res.Repository)
	}
	if res.PullRequest != "42" {
		t.Fatalf("expected pull request 42, got %q", res.PullRequest)
	}
	if res.SourceBranch != "feature/login" {
		t.Fatalf("expected source branch feature/login, got %q", res.SourceBranch)
	}
	if res.TargetBranch != "main" {
		t.Fatalf("expected target branch main, got %q", res.TargetBranch)
	}
	if !res.Hydrated {
		t.Fatalf("expected hydrated to be true")
	}
}

func TestResolveFromEnvironment_GitLabProvided(t *testing.T) {
	clearResolverEnv(t)

	t.Setenv("GITLAB_CI", "true")
	t.Setenv("CI_PROJECT_PATH", "group/project")
	t.Setenv("CI_PROJECT_NAME", "project")
	t.Setenv("CI_PROJECT_NAMESPACE", "group")
	t.Setenv("CI_PROJECT_URL", "https://gitlab.example.com/group/project")
	t.Setenv("CI_SERVER_URL", "https://gitlab.example.com")
	t.Setenv("CI_COMMIT_SHA", "deadbeef")
	t.Setenv("CI_MERGE_REQUEST_REF_PATH", "refs/merge-requests/7/head")
	t.Setenv("CI_MERGE_REQUEST_IID", "7")
	t.Setenv("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME", "feature/login")
	t.Setenv("CI_MERGE_REQUEST_TARGET_BRANCH_NAME", "main")

	res, err := ResolveFromEnvironment(nil, "gitlab")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.PluginName != "gitlab" {
		t.Fatalf("expected plugin gitlab, got %q", res.PluginName)
	}
	if res.Domain != "gitlab.example.com" {
		t.Fatalf("expected domain gitlab.example.com, got %q", res.Domain)
	}
	if res.Namespace != "group" {
		t.Fatalf("expected namespace group, got %q", res.Namespace)
	}
	if res.Repository != "project" {
		t.Fatalf("expected repository project, got %q", res.Repository)
	}
	if res.PullRequest != "7" {
		t.Fatalf("expected pull request 7, got %q", res.PullRequest)
	}
	if res.SourceBranch != "feature/login" {
		t.Fatalf("expected source branch feature/login, got %q", res.SourceBranch)
	}
	if res.TargetBranch != "main" {
		t.Fatalf("expected target branch main, got %q", res.TargetBranch)
	}
}

func TestResolveFromEnvironment_JenkinsDetection(t *testing.T) {
	clearResolverEnv(t)

	t.Setenv("JENKINS_URL", "https://jenkins.example.com/")
	t.Setenv("GIT_URL", "https://github.example.com/octocat/hello-world.git")
	t.Setenv("GIT_COMMIT", "abcdef")
	t.Setenv("CHANGE_ID", "42")
	t.Setenv("CHANGE_BRANCH", "feature/login")
	t.Setenv("CHANGE_TARGET", "main")
	t.Setenv("BRANCH_NAME", "PR-42")

	res, err := ResolveFromEnvironment(nil, "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Kind != CIJenkins {
		t.Fatalf("expected kind jenkins, got %v", res.Kind)
	}
	if res.PluginName != "github" {
		t.Fatalf("expected plugin github derived from checkout URL, got %q", res.PluginName)
	}
	if res.Domain != "github.example.com" {
		t.Fatalf("expected domain github.example.com, got %q", res.Domain)
	}
	if res.Namespace != "octocat" {
		t.Fatalf("expected namespace octocat, got %q", res.Namespace)
	}
	if res.Repository != "hello-world" {
		t.Fatalf("expected repository hello-world, got %q", res.Repository)
	}
	if res.PullRequest != "42" {
		t.Fatalf("expected pull request 42, got %q", res.PullRequest)
	}
	if res.SourceBranch != "feature/login" {
		t.Fatalf("expected source branch feature/login, got %q", res.SourceBranch)
	}
	if res.TargetBranch != "main" {
		t.Fatalf("expected target branch main, got %q", res.TargetBranch)
	}
}

func TestResolveFromEnvironment_JenkinsWithoutCheckoutURL(t *testing.T) {
	clearResolverEnv(t)

	t.Setenv("JENKINS_URL", "https://jenkins.example.com/")

	if _, err := ResolveFromEnvironment(nil, ""); err == nil {
		t.Fatalf("expected error when the VCS plugin cannot be derived")
	}
}

func TestResolveFromEnvironment_UnsupportedProvided(t *testing.T) {
	clearResolverEnv(t)

	res, err := ResolveFromEnvironment(nil, "ado")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.PluginName != "ado" {
		t.Fatalf("expected plugin to remain ado, got %q", res.PluginName)
	}
	if res.Hydrated {
		t.Fatalf("expected hydrated to be false")
	}
}

func TestResolveFromEnvironment_ErrorWhenUnknownAndMissing(t *testing.T) {
	clearResolverEnv(t)

	if _, err := ResolveFromEnvironment(nil, ""); err == nil {
		t.Fatalf("expected error when plugin not provided and CI is unknown")
	}
}
