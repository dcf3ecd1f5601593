package validation

import (
	"fmt"
	"strings"

	"github.com/review-io-git/review-io/pkg/shared"
)

// ValidateCommonCredentials checks for the presence of common credentials.
func ValidateCommonCredentials(username, token string) error {
	if len(username) == 0 || len(token) == 0 {
		return fmt.Errorf("both username and token are required")
	}
	return nil
}

// ValidateBaseArgs checks the common fields in VCSRequestBase and returns errors if they are not set.
func ValidateBaseArgs(args *shared.VCSRequestBase) error {
	requiredFields := map[string]string{
		"domain":        args.RepoParam.Domain,
		"namespace":     args.RepoParam.Namespace,
		"repository":    args.RepoParam.Repository,
		"action":        args.Action,
		"pullRequestID": args.RepoParam.PullRequestID,
	}

	for field, value := range requiredFields {
		if value == "" {
			return fmt.Errorf("%q is required", field)
		}
	}
	return nil
}

// ValidateFetchArgs checks the necessary fields in VCSFetchRequest and returns errors if they are not set.
func ValidateFetchArgs(args *shared.VCSFetchRequest) error {
	requiredFields := map[string]string{
		"clone URL":           args.CloneURL,
		"authentication type": args.AuthType,
		"target folder":       args.TargetFolder,
	}

	for field, value := range requiredFields {
		if value == "" {
			return fmt.Errorf("%q is required", field)
		}
	}

	return nil
}

// ValidateRetrievePRInformationArgs checks the necessary fields in VCSRetrievePRInformationRequest.
func ValidateRetrievePRInformationArgs(args *shared.VCSRetrievePRInformationRequest) error {
	return ValidateBaseArgs(&args.VCSRequestBase)
}

// ValidateListPRCommentsArgs checks the necessary fields in VCSListPRCommentsRequest.
func ValidateListPRCommentsArgs(args *shared.VCSListPRCommentsRequest) error {
	return ValidateBaseArgs(&args.VCSRequestBase)
}

// ValidateAddCommentToPRArgs checks the necessary fields in VCSAddCommentToPRRequest.
func ValidateAddCommentToPRArgs(args *shared.VCSAddCommentToPRRequest) error {
	if err := ValidateBaseArgs(&args.VCSRequestBase); err != nil {
		return err
	}

	if strings.TrimSpace(args.Comment.Body) == "" {
		return fmt.Errorf("comment is required")
	}
	return nil
}

// ValidateAddReviewCommentsArgs checks the necessary fields in VCSAddReviewCommentsRequest.
// At least one non-empty inline comment or a summary must be present.
func ValidateAddReviewCommentsArgs(args *shared.VCSAddReviewCommentsRequest) error {
	if err := ValidateBaseArgs(&args.VCSRequestBase); err != nil {
		return err
	}

	hasContent := strings.TrimSpace(args.Summary) != ""
	for _, comment := range args.Comments {
		if strings.TrimSpace(comment.Body) != "" {
			hasContent = true
			break
		}
	}

	if !hasContent {
		return fmt.Errorf("no comments to post")
	}
	return nil
}
