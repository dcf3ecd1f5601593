package ci

import (
	"errors"
	"testing"
)

func TestCIKindString(t *testing.T) {
	testCases := []struct {
		name string
		kind CIKind
		want string
	}{
		{name: "GitHub", kind: CIGitHub, want: "github"},
		{name: "GitLab", kind: CIGitLab, want: "gitlab"},
		{name: "Bitbucket", kind: CIBitbucket, want: "bitbucket"},
		{name: "Jenkins", kind: CIJenkins, want: "jenkins"},
		{name: "Unknown", kind: CIUnknown, want: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Fatalf("CIKind.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseCIKind(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    CIKind
		wantErr error
	}{
		{name: "GitHub", input: "github", want: CIGitHub},
		{name: "GitLab", input: " GitLab ", want: CIGitLab},
		{name: "Bitbucket", input: "BITBUCKET", want: CIBitbucket},
		{name: "JenkinsIsNotAPlugin", input: "jenkins", want: CIUnknown, wantErr: errors.New("unsupported")},
		{name: "Unsupported", input: "ado", want: CIUnknown, wantErr: errors.New("unsupported")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCIKind(tc.input)
			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("ParseCIKind(%q) expected error", tc.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseCIKind(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseCIKind(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestDetectCIKindWithLookup(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want CIKind
	}{
		{name: "GitHub", env: map[string]string{"GITHUB_REPOSITORY": "octocat/hello-world"}, want: CIGitHub},
		{name: "GitLab", env: map[string]string{"GITLAB_CI": "true"}, want: CIGitLab},
		{name: "Bitbucket", env: map[string]string{"BITBUCKET_WORKSPACE": "team"}, want: CIBitbucket},
		{name: "Jenkins", env: map[string]string{"JENKINS_URL": "https://jenkins.example.com/"}, want: CIJenkins},
		{name: "Nothing", env: nil, want: CIUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectCIKindWithLookup(mapLookup(tc.env)); got != tc.want {
				t.Fatalf("detectCIKindWithLookup() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetCIDefaultEnvVars(t *testing.T) {
	t.Run("GitHub", func(t *testing.T) {
		env := map[string]string{
			"CI":                      "true",
			"GITHUB_REPOSITORY":       "octocat/hello-world",
			"GITHUB_SERVER_URL":       "https://github.example.com",
			"GITHUB_SHA":              "abcdef123456",
			"GITHUB_REF":              "refs/pull/42/merge",
			"GITHUB_REF_NAME":         "42/merge",
			"GITHUB_REPOSITORY_OWNER": "octocat",
			"GITHUB_HEAD_REF":         "feature/login",
			"GITHUB_BASE_REF":         "main",
		}

		lookup := mapLookup(env)
		got, err := getCIDefaultEnvVars(CIGitHub, lookup)
		if err != nil {
			t.Fatalf("getCIDefaultEnvVars() error = %v", err)
		}

		want := CIEnvironment{
			Kind:               CIGitHub,
			CI:                 true,
			CommitHash:         "abcdef123456",
			VCSServerURL:       "https://github.example.com",
			Reference:          "refs/pull/42/merge",
			ReferenceName:      "42/merge",
			RepositoryName:     "hello-world",
			RepositoryFullName: "octocat/hello-world",
			RepositoryFullPath: "https://github.example.com/octocat/hello-world",
			Namespace:          "octocat",
			SourceBranch:       "feature/login",
			TargetBranch:       "main",
		}

		if got != want {
			t.Fatalf("GitHub env = %+v, want %+v", got, want)
		}
	})

	t.Run("GitLabMergeRequest", func(t *testing.T) {
		env := map[string]string{
			"CI":                                  "true",
			"CI_COMMIT_SHA":                       "deadbeef",
			"CI_SERVER_URL":                       "https://gitlab.example.com",
			"CI_MERGE_REQUEST_REF_PATH":           "refs/merge-requests/42/head",
			"CI_MERGE_REQUEST_IID":                "42",
			"CI_MERGE_REQUEST_SOURCE_BRANCH_NAME": "feature/login",
			"CI_MERGE_REQUEST_TARGET_BRANCH_NAME": "main",
			"CI_PROJECT_NAME":                     "demo",
			"CI_PROJECT_PATH":                     "group/demo",
			"CI_PROJECT_URL":                      "https://gitlab.example.com/group/demo",
			"CI_PROJECT_NAMESPACE":                "group",
		}

		lookup := mapLookup(env)
		got, err := getCIDefaultEnvVars(CIGitLab, lookup)
		if err != nil {
			t.Fatalf("getCIDefaultEnvVars() error = %v", err)
		}

		want := CIEnvironment{
			Kind:               CIGitLab,
			CI:                 true,
			CommitHash:         "deadbeef",
			VCSServerURL:       "https://gitlab.example.com",
			Reference:          "refs/merge-requests/42/head",
			ReferenceName:      "42",
			RepositoryName:     "demo",
			RepositoryFullName: "group/demo",
			RepositoryFullPath: "https://gitlab.example.com/group/demo",
			Namespace:          "group",
			SourceBranch:       "feature/login",
			TargetBranch:       "main",
		}

		if got != want {
			t.Fatalf("GitLab env = %+v, want %+v", got, want)
		}
	})

	t.Run("BitbucketPullRequest", func(t *testing.T) {
		env := map[string]string{
			"CI":                              "true",
			"BITBUCKET_COMMIT":                "1234567",
			"BITBUCKET_GIT_HTTP_ORIGIN":       "https://bitbucket.org/workspace/repo",
			"BITBUCKET_PR_ID":                 "7",
			"BITBUCKET_BRANCH":                "feature/login",
			"BITBUCKET_PR_DESTINATION_BRANCH": "main",
			"BITBUCKET_REPO_SLUG":             "repo",
			"BITBUCKET_REPO_FULL_NAME":        "workspace/repo",
			"BITBUCKET_WORKSPACE":             "workspace",
		}

		lookup := mapLookup(env)
		got, err := getCIDefaultEnvVars(CIBitbucket, lookup)
		if err != nil {
			t.Fatalf("getCIDefaultEnvVars() error = %v", err)
		}

		want := CIEnvironment{
			Kind:               CIBitbucket,
			CI:                 true,
			CommitHash:         "1234567",
			VCSServerURL:       "https://bitbucket.org",
			Reference:          "refs/pull/7",
			ReferenceName:      "7",
			RepositoryName:     "repo",
			RepositoryFullName: "workspace/repo",
			RepositoryFullPath: "https://bitbucket.org/workspace/repo",
			Namespace:          "workspace",
			SourceBranch:       "feature/login",
			TargetBranch:       "main",
		}

		if got != want {
			t.Fatalf("Bitbucket env = %+v, want %+v", got, want)
		}
	})

	t.Run("JenkinsPullRequest", func(t *testing.T) {
		env := map[string]string{
			"JENKINS_URL":   "https://jenkins.example.com/",
			"GIT_URL":       "https://github.example.com/octocat/hello-world.git",
			"GIT_COMMIT":    "abcdef123456",
			"CHANGE_ID":     "42",
			"CHANGE_BRANCH": "feature/login",
			"CHANGE_TARGET": "main",
			"BRANCH_NAME":   "PR-42",
		}

		lookup := mapLookup(env)
		got, err := getCIDefaultEnvVars(CIJenkins, lookup)
		if err != nil {
			t.Fatalf("getCIDefaultEnvVars() error = %v", err)
		}

		want := CIEnvironment{
			Kind:               CIJenkins,
			CI:                 true,
			CommitHash:         "abcdef123456",
			VCSServerURL:       "https://github.example.com",
			Reference:          "refs/pull/42",
			ReferenceName:      "42",
			RepositoryName:     "hello-world",
			RepositoryFullName: "octocat/hello-world",
			RepositoryFullPath: "https://github.example.com/octocat/hello-world",
			Namespace:          "octocat",
			SourceBranch:       "feature/login",
			TargetBranch:       "main",
		}

		if got != want {
			t.Fatalf("Jenkins env = %+v, want %+v", got, want)
		}
	})

	t.Run("UnknownKind", func(t *testing.T) {
		if _, err := getCIDefaultEnvVars(CIUnknown, mapLookup(nil)); err == nil {
			t.Fatalf("expected error when kind is CIUnknown")
		}
	})
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) string {
		if values == nil {
			return ""
		}
		return values[key]
	}
}
