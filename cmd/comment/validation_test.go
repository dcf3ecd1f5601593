package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/review-io-git/review-io/internal/reviewer"
)

func validCommentOptions() reviewer.RunOptionsReview {
	return reviewer.RunOptionsReview{
		VCSPluginName: "github",
		Domain:        "github.com",
		Namespace:     "acme",
		Repository:    "widget",
		PullRequestID: "42",
		Comment:       "LGTM",
	}
}

func TestValidateCommentArgs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*reviewer.RunOptionsReview)
		args    []string
		wantErr string
	}{
		{
			name:   "single comment",
			mutate: func(o *reviewer.RunOptionsReview) {},
		},
		{
			name: "review result input",
			mutate: func(o *reviewer.RunOptionsReview) {
				o.Comment = ""
				o.InputPath = "review-result.json"
				o.Summary = "overall"
			},
		},
		{
			name:    "too many arguments",
			mutate:  func(o *reviewer.RunOptionsReview) {},
			args:    []string{"https://github.com/a/b/pull/1", "https://github.com/c/d/pull/2"},
			wantErr: "only one target URL",
		},
		{
			name:    "missing vcs plugin",
			mutate:  func(o *reviewer.RunOptionsReview) { o.VCSPluginName = "" },
			wantErr: "'vcs' flag",
		},
		{
			name:    "missing coordinates",
			mutate:  func(o *reviewer.RunOptionsReview) { o.Namespace = "" },
			wantErr: "'domain', 'namespace' and 'repository'",
		},
		{
			name:    "missing pull request id",
			mutate:  func(o *reviewer.RunOptionsReview) { o.PullRequestID = "" },
			wantErr: "'pull-request-id' flag",
		},
		{
			name: "both modes",
			mutate: func(o *reviewer.RunOptionsReview) {
				o.InputPath = "review-result.json"
			},
			wantErr: "cannot be combined",
		},
		{
			name:    "no mode",
			mutate:  func(o *reviewer.RunOptionsReview) { o.Comment = "" },
			wantErr: "one of 'input', 'comment' or 'comment-file'",
		},
		{
			name: "comment and comment-file",
			mutate: func(o *reviewer.RunOptionsReview) {
				o.CommentFile = "body.md"
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "attachments with review input",
			mutate: func(o *reviewer.RunOptionsReview) {
				o.Comment = ""
				o.InputPath = "review-result.json"
				o.AttachFiles = []string{"build.log"}
			},
			wantErr: "'attach' can only be used",
		},
		{
			name: "summary with single comment",
			mutate: func(o *reviewer.RunOptionsReview) {
				o.Summary = "overall"
			},
			wantErr: "'summary' can only be used",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			options := validCommentOptions()
			tc.mutate(&options)

			err := validateCommentArgs(&options, tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
