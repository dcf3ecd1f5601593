package dispatch

import (
	"fmt"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// validateDispatchArgs checks the flag combination for the dispatch command.
// The job has no ambient git checkout, so the repository coordinates must be
// explicit.
func validateDispatchArgs(options *RunOptionsDispatch, args []string, cfg *config.Config) error {
	if len(args) > 0 {
		return fmt.Errorf("dispatch takes no positional arguments")
	}
	if cfg.Dispatch.Image == "" {
		return fmt.Errorf("'image' flag or the dispatch image configuration must be specified")
	}
	if options.VCSPluginName == "" {
		return fmt.Errorf("'vcs' flag must be specified")
	}
	if options.Domain == "" || options.Namespace == "" || options.Repository == "" {
		return fmt.Errorf("'domain', 'namespace' and 'repository' flags must be specified")
	}
	if !options.NoComments && options.PullRequestID == "" {
		return fmt.Errorf("'pull-request-id' flag must be specified unless 'no-comments' is set")
	}
	return nil
}
