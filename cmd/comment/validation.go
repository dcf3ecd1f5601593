package comment

import (
	"fmt"

	"github.com/review-io-git/review-io/internal/reviewer"
)

// validateCommentArgs checks the flag combination for the comment command.
// It runs after the CI environment, git metadata and URL fallbacks were
// applied, so every option carries its final value.
func validateCommentArgs(options *reviewer.RunOptionsReview, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one target URL can be provided")
	}
	if options.VCSPluginName == "" {
		return fmt.Errorf("'vcs' flag must be specified")
	}
	if options.Domain == "" || options.Namespace == "" || options.Repository == "" {
		return fmt.Errorf("a target URL or the 'domain', 'namespace' and 'repository' flags must be specified")
	}
	if options.PullRequestID == "" {
		return fmt.Errorf("'pull-request-id' flag must be specified")
	}

	hasReviewInput := options.InputPath != ""
	hasSingleComment := options.Comment != "" || options.CommentFile != ""

	switch {
	case hasReviewInput && hasSingleComment:
		return fmt.Errorf("'input' cannot be combined with 'comment' or 'comment-file'")
	case !hasReviewInput && !hasSingleComment:
		return fmt.Errorf("one of 'input', 'comment' or 'comment-file' must be specified")
	}

	if options.Comment != "" && options.CommentFile != "" {
		return fmt.Errorf("'comment' and 'comment-file' are mutually exclusive")
	}
	if hasReviewInput && len(options.AttachFiles) > 0 {
		return fmt.Errorf("'attach' can only be used with a single comment")
	}
	if hasSingleComment && options.Summary != "" {
		return fmt.Errorf("'summary' can only be used with a review result input")
	}
	return nil
}
