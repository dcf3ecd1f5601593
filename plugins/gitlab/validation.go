package main

import (
	"fmt"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/validation"
)

// validateCommonCredentials checks for the presence of common credentials.
func (g *VCSGitlab) validateCommonCredentials() error {
	return validation.ValidateCommonCredentials(g.globalConfig.GitlabPlugin.Username, g.globalConfig.GitlabPlugin.Token)
}

// validateAPICommonCredentials checks for the presence of API credentials.
func (g *VCSGitlab) validateAPICommonCredentials() error {
	if len(g.globalConfig.GitlabPlugin.Token) == 0 {
		g.logger.Warn("No token provided. Anonymous API access will be used. API rate limits may apply.")
	}
	return nil
}

// validateFetch checks the necessary fields in VCSFetchRequest and returns errors if they are not set.
func (g *VCSGitlab) validateFetch(args *shared.VCSFetchRequest) error {
	if err := validation.ValidateFetchArgs(args); err != nil {
		return err
	}

	switch args.AuthType {
	case "ssh-key":
		if g.globalConfig.GitlabPlugin.SSHKeyPassword == "" {
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
func (g *VCSGitlab) validateRetrievePRInformation(args *shared.VCSRetrievePRInformationRequest) error {
	if err := validation.ValidateRetrievePRInformationArgs(args); err != nil {
		return err
	}
	return g.validateAPICommonCredentials()
}

// validateListPRComments checks the necessary fields in VCSListPRCommentsRequest and returns errors if they are not set.
func (g *VCSGitlab) validateListPRComments(args *shared.VCSListPRCommentsRequest) error {
	if err := validation.ValidateListPRCommentsArgs(args); err != nil {
		return err
	}
	return g.validateAPICommonCredentials()
}

// validateAddCommentToPR checks the necessary fields in VCSAddCommentToPRRequest and returns errors if they are not set.
func (g *VCSGitlab) validateAddCommentToPR(args *shared.VCSAddCommentToPRRequest) error {
	if err := validation.ValidateAddCommentToPRArgs(args); err != nil {
		return err
	}

	if len(args.FilePaths) != 0 {
		g.logger.Warn("attaching files is not supported for the gitlab plugin. Attachments will be skipped!")
	}
	return g.validateAPICommonCredentials()
}

// validateAddReviewComments checks the necessary fields in VCSAddReviewCommentsRequest and returns errors if they are not set.
func (g *VCSGitlab) validateAddReviewComments(args *shared.VCSAddReviewCommentsRequest) error {
	if err := validation.ValidateAddReviewCommentsArgs(args); err != nil {
		return err
	}
	return g.validateAPICommonCredentials()
}
