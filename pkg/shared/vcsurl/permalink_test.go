package vcsurl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPermalink(t *testing.T) {
	tests := []struct {
		name        string
		params      PermalinkParams
		expected    string
		expectedErr error
	}{
		{
			name: "GitHub with line range",
			params: PermalinkParams{
				VCSType:   Github,
				Namespace: "org",
				Project:   "repo",
				Ref:       "main",
				File:      "src/app.go",
				StartLine: 10,
				EndLine:   20,
			},
			expected: "https://github.com/org/repo/blob/main/src/app.go#L10-L20",
		},
		{
			name: "GitHub with single line",
			params: PermalinkParams{
				VCSType:   Github,
				Namespace: "org",
				Project:   "repo",
				Ref:       "abc123",
				File:      "main.go",
				StartLine: 5,
				EndLine:   5,
			},
			expected: "https://github.com/org/repo/blob/abc123/main.go#L5",
		},
		{
			name: "GitHub without line numbers",
			params: PermalinkParams{
				VCSType:   Github,
				Namespace: "org",
				Project:   "repo",
				Ref:       "main",
				File:      "README.md",
			},
			expected: "https://github.com/org/repo/blob/main/README.md",
		},
		{
			name: "GitLab with line range",
			params: PermalinkParams{
				VCSType:   Gitlab,
				Namespace: "group/subgroup",
				Project:   "project",
				Ref:       "main",
				File:      "src/main.py",
				StartLine: 10,
				EndLine:   25,
			},
			expected: "https://gitlab.com/group/subgroup/project/-/blob/main/src/main.py#L10-25",
		},
		{
			name: "Bitbucket self-hosted with line range",
			params: PermalinkParams{
				VCSType:   Bitbucket,
				Host:      "bitbucket.example.com",
				Namespace: "TEAM",
				Project:   "widget",
				Ref:       "refs/heads/main",
				File:      "dir/file.cs",
				StartLine: 3,
				EndLine:   8,
			},
			expected: "https://bitbucket.example.com/projects/TEAM/repos/widget/browse/dir/file.cs?at=refs/heads/main#3-8",
		},
		{
			name: "backslashes normalized",
			params: PermalinkParams{
				VCSType:   Github,
				Namespace: "org",
				Project:   "repo",
				Ref:       "main",
				File:      "dir\\file.cs",
				StartLine: 1,
			},
			expected: "https://github.com/org/repo/blob/main/dir/file.cs#L1",
		},
		{
			name: "missing ref",
			params: PermalinkParams{
				VCSType:   Github,
				Namespace: "org",
				Project:   "repo",
				File:      "main.go",
			},
			expectedErr: ErrMissingRef,
		},
		{
			name: "generic without host",
			params: PermalinkParams{
				VCSType:   GenericVCS,
				Namespace: "org",
				Project:   "repo",
				Ref:       "main",
				File:      "main.go",
			},
			expectedErr: ErrMissingHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPermalink(tt.params)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "expected %v, got %v", tt.expectedErr, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
