package main

import (
	"fmt"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/validation"
)

// validateCommonCredentials checks for the presence of common credentials.
func (g *VCSBitbucket) validateCommonCredentials() error {
	return validation.ValidateCommonCredentials(g.globalConfig.BitbucketPlugin.Username, g.globalConfig.BitbucketPlugin.Token)
}

// validateFetch checks the necessary fields in VCSFetchRequest and returns errors if they are not set.
func (g *VCSBitbucket) validateFetch(args *shared.VCSFetchRequest) error {
	if err := validation.ValidateFetchArgs(args); err != nil {
		return err
	}

	switch args.AuthType {
	case "ssh-key":
		if g.globalConfig.BitbucketPlugin.SSHKeyPassword == "" {
			return fmt.Errorf("SSH key password is required for SSH-key authentication")
		}
	case "http":
		if err := g.validateCommonCredentials(); err != nil {
			return err
		}
	}
	return nil
}

// validateRetrievePRInformation checks the necessary fields in VCSRetrievePRInformationRequest and returns errors if they are not set.
func (g *VCSBitbucket) validateRetrievePRInformation(args *shared.VCSRetrievePRInformationRequest) error {
	if err := validation.ValidateRetrievePRInformationArgs(args); err != nil {
		return err
	}
	return g.validateCommonCredentials()
}

// validateListPRComments checks the necessary fields in VCSListPRCommentsRequest and returns errors if they are not set.
func (g *VCSBitbucket) validateListPRComments(args *shared.VCSListPRCommentsRequest) error {
	if err := validation.ValidateListPRCommentsArgs(args); err != nil {
		return err
	}
	return g.validateCommonCredentials()
}

// validateAddCommentToPR checks the necessary fields in VCSAddCommentToPRRequest and returns errors if they are not set.
func (g *VCSBitbucket) validateAddCommentToPR(args *shared.VCSAddCommentToPRRequest) error {
	if err := validation.ValidateAddCommentToPRArgs(args); err != nil {
		return err
	}

	if len(args.FilePaths) != 0 {
		g.logger.Warn("attaching files is not supported for the bitbucket plugin. Attachments will be skipped!")
	}
	return g.validateCommonCredentials()
}

// validateAddReviewComments checks the necessary fields in VCSAddReviewCommentsRequest and returns errors if they are not set.
func (g *VCSBitbucket) validateAddReviewComments(args *shared.VCSAddReviewCommentsRequest) error {
	if err := validation.ValidateAddReviewCommentsArgs(args); err != nil {
		return err
	}
	return g.validateCommonCredentials()
}
