package fetch

import (
	"fmt"

	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// validateFetchArgs checks the flag combination for the fetch command.
func validateFetchArgs(options *RunOptionsFetch, args []string, mode string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one target URL can be provided")
	}
	if options.VCSPluginName == "" {
		return fmt.Errorf("'vcs' flag must be specified")
	}

	if mode != cmdutil.ModeSingleURL {
		if options.Domain == "" || options.Namespace == "" || options.Repository == "" {
			return fmt.Errorf("a target URL or the 'domain', 'namespace' and 'repository' flags must be specified")
		}
	}

	switch options.AuthType {
	case git.AuthTypeHTTP, git.AuthTypeSSHAgent:
	case git.AuthTypeSSHKey:
		if options.SSHKey == "" {
			return fmt.Errorf("'ssh-key' flag must be specified for the ssh-key auth type")
		}
		expandedPath, err := files.ExpandPath(options.SSHKey)
		if err != nil {
			return fmt.Errorf("failed to expand ssh key path %q: %w", options.SSHKey, err)
		}
		if err := files.ValidatePath(expandedPath); err != nil {
			return fmt.Errorf("failed to validate ssh key path %q: %w", expandedPath, err)
		}
	case "":
		return fmt.Errorf("'auth-type' flag must be specified")
	default:
		return fmt.Errorf("unknown auth type: %q", options.AuthType)
	}
	return nil
}
