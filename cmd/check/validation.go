package check

import (
	"fmt"

	"github.com/review-io-git/review-io/internal/git"
)

// validateCheckArgs checks the flag combination for the check command. It
// runs after the CI environment, git metadata and URL fallbacks were applied,
// so every option carries its final value.
func validateCheckArgs(options *RunOptionsCheck, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one target URL can be provided")
	}
	if options.EnginePluginName == "" {
		return fmt.Errorf("'engine' flag must be specified")
	}

	hasCoords := options.Domain != "" && options.Namespace != "" && options.Repository != ""
	needsFetch := options.Source == ""
	postComments := !options.NoComments && options.PullRequestID != ""

	if needsFetch {
		if !hasCoords {
			return fmt.Errorf("fetching requires a target URL or the 'domain', 'namespace' and 'repository' flags; pass 'source' to analyse an existing checkout instead")
		}
		if options.VCSPluginName == "" {
			return fmt.Errorf("'vcs' flag must be specified to fetch the repository")
		}
		if err := validateAuthType(options.AuthType, options.SSHKey); err != nil {
			return err
		}
	}

	if postComments {
		if options.VCSPluginName == "" {
			return fmt.Errorf("'vcs' flag must be specified to post review comments")
		}
		if !hasCoords {
			return fmt.Errorf("posting review comments requires a target URL or the 'domain', 'namespace' and 'repository' flags")
		}
	}

	if options.NoComments && options.Summary != "" {
		return fmt.Errorf("'summary' cannot be combined with 'no-comments'")
	}
	return nil
}

// validateAuthType checks the authentication type for fetch operations.
func validateAuthType(authType, sshKey string) error {
	switch authType {
	case git.AuthTypeHTTP, git.AuthTypeSSHAgent:
		return nil
	case git.AuthTypeSSHKey:
		if sshKey == "" {
			return fmt.Errorf("'ssh-key' flag must be specified for the ssh-key auth type")
		}
		return nil
	case "":
		return fmt.Errorf("'auth-type' flag must be specified to fetch the repository")
	default:
		return fmt.Errorf("unknown auth type: %q", authType)
	}
}
