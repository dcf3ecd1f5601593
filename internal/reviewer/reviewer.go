package reviewer

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
)

const (
	ActionCheckPR           = "checkPR"
	ActionListComments      = "listComments"
	ActionAddComment        = "addComment"
	ActionAddReviewComments = "addReviewComments"
)

// Reviewer represents the configuration and behavior of pull request review actions.
type Reviewer struct {
	PluginName string       // Name of the VCS plugin to use
	Action     string       // Action to perform
	logger     hclog.Logger // Logger for logging messages and errors
}

// RunOptionsReview holds the arguments for review actions.
type RunOptionsReview struct {
	VCSPluginName string           `json:"vcs_plugin_name,omitempty"`
	Domain        string           `json:"domain,omitempty"`
	Namespace     string           `json:"namespace,omitempty"`
	Repository    string           `json:"repository,omitempty"`
	PullRequestID string           `json:"pull_request_id,omitempty"`
	Action        string           `json:"action,omitempty"`
	Comment       string           `json:"comment,omitempty"`
	CommentFile   string           `json:"comment_file,omitempty"`
	AttachFiles   []string         `json:"attach_files,omitempty"`
	InputPath     string           `json:"input_path,omitempty"`
	Comments      []shared.Comment `json:"comments,omitempty"`
	Summary       string           `json:"summary,omitempty"`
}

// New creates a new Reviewer instance with the provided configuration.
func New(pluginName, action string, logger hclog.Logger) *Reviewer {
	return &Reviewer{
		PluginName: pluginName,
		Action:     action,
		logger:     logger,
	}
}

// newBase builds the request base shared by all review actions. Clone links
// are intentionally dropped since review actions address the PR by
// coordinates only.
func newBase(repo shared.RepositoryParams, action string) shared.VCSRequestBase {
	return shared.VCSRequestBase{
		RepoParam: shared.RepositoryParams{
			Domain:        repo.Domain,
			Namespace:     repo.Namespace,
			Repository:    repo.Repository,
			PullRequestID: repo.PullRequestID,
		},
		Action: action,
	}
}

// createCheckPRRequest creates a VCSRetrievePRInformationRequest with the specified parameters.
func (r *Reviewer) createCheckPRRequest(repo shared.RepositoryParams) shared.VCSRetrievePRInformationRequest {
	return shared.VCSRetrievePRInformationRequest{
		VCSRequestBase: newBase(repo, ActionCheckPR),
	}
}

// createListCommentsRequest creates a VCSListPRCommentsRequest with the specified parameters.
func (r *Reviewer) createListCommentsRequest(repo shared.RepositoryParams) shared.VCSListPRCommentsRequest {
	return shared.VCSListPRCommentsRequest{
		VCSRequestBase: newBase(repo, ActionListComments),
	}
}

// createAddCommentRequest creates a VCSAddCommentToPRRequest with the specified parameters.
func (r *Reviewer) createAddCommentRequest(repo shared.RepositoryParams, options *RunOptionsReview) shared.VCSAddCommentToPRRequest {
	return shared.VCSAddCommentToPRRequest{
		VCSRequestBase: newBase(repo, ActionAddComment),
		Comment:        shared.Comment{Body: options.Comment},
		FilePaths:      options.AttachFiles,
	}
}

// createAddReviewCommentsRequest creates a VCSAddReviewCommentsRequest with the specified parameters.
func (r *Reviewer) createAddReviewCommentsRequest(repo shared.RepositoryParams, comments []shared.Comment, summary string) shared.VCSAddReviewCommentsRequest {
	return shared.VCSAddReviewCommentsRequest{
		VCSRequestBase: newBase(repo, ActionAddReviewComments),
		Comments:       comments,
		Summary:        summary,
	}
}

// PrepRequest prepares the review request based on the specified action.
func (r *Reviewer) PrepRequest(cfg *config.Config, options *RunOptionsReview, repo shared.RepositoryParams) (interface{}, error) {
	var arguments interface{}

	switch r.Action {
	case ActionCheckPR:
		arguments = r.createCheckPRRequest(repo)
	case ActionListComments:
		arguments = r.createListCommentsRequest(repo)
	case ActionAddComment:
		arguments = r.createAddCommentRequest(repo, options)
	case ActionAddReviewComments:
		arguments = r.createAddReviewCommentsRequest(repo, options.Comments, options.Summary)
	default:
		return arguments, fmt.Errorf("action is not implemented: %v", r.Action)
	}

	return arguments, nil
}

// performAction executes the specified action using the VCS plugin.
func performAction(vcsPlugin shared.VCS, options interface{}, action string) (interface{}, error) {
	switch action {
	case ActionCheckPR:
		checkPRRequest, ok := options.(shared.VCSRetrievePRInformationRequest)
		if !ok {
			return nil, fmt.Errorf("invalid argument type for action '%v'", ActionCheckPR)
		}
		return vcsPlugin.RetrievePRInformation(checkPRRequest)
	case ActionListComments:
		listRequest, ok := options.(shared.VCSListPRCommentsRequest)
		if !ok {
			return nil, fmt.Errorf("invalid argument type for action '%v'", ActionListComments)
		}
		return vcsPlugin.ListPRComments(listRequest)
	case ActionAddComment:
		addCommentRequest, ok := options.(shared.VCSAddCommentToPRRequest)
		if !ok {
			return nil, fmt.Errorf("invalid argument type for action '%v'", ActionAddComment)
		}
		return vcsPlugin.AddCommentToPR(addCommentRequest)
	case ActionAddReviewComments:
		reviewRequest, ok := options.(shared.VCSAddReviewCommentsRequest)
		if !ok {
			return nil, fmt.Errorf("invalid argument type for action '%v'", ActionAddReviewComments)
		}
		return vcsPlugin.AddReviewCommentsToPR(reviewRequest)
	default:
		return nil, fmt.Errorf("unsupported action: %q", action)
	}
}

// ReviewAction executes the review action using the VCS plugin.
func (r *Reviewer) ReviewAction(cfg *config.Config, actionRequest interface{}) (shared.GenericLaunchesResult, error) {
	r.logger.Info("review action starting", "action", r.Action)

	var result shared.GenericLaunchesResult
	err := shared.SetupPlugin(cfg, r.logger, shared.PluginTypeVCS, r.PluginName, func(raw interface{}) error {
		vcsPlugin, ok := raw.(shared.VCS)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}

		actionResult, err := performAction(vcsPlugin, actionRequest, r.Action)
		if err != nil {
			result.Launches = append(result.Launches, shared.GenericResult{Args: actionRequest, Result: actionResult, Status: "FAILED", Message: err.Error()})
			r.logger.Error("VCS plugin review action failed", "action", r.Action, "actionArgs", actionRequest, "error", err)
			return fmt.Errorf("VCS plugin review action failed: %w", err)
		}
		result.Launches = append(result.Launches, shared.GenericResult{Args: actionRequest, Result: actionResult, Status: "OK", Message: ""})
		return nil
	})

	return result, err
}

// RetrievePRInformation fetches pull request metadata in a single plugin session.
func (r *Reviewer) RetrievePRInformation(cfg *config.Config, repo shared.RepositoryParams) (shared.PRParams, error) {
	var pr shared.PRParams
	err := shared.SetupPlugin(cfg, r.logger, shared.PluginTypeVCS, r.PluginName, func(raw interface{}) error {
		vcsPlugin, ok := raw.(shared.VCS)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}
		var err error
		pr, err = vcsPlugin.RetrievePRInformation(r.createCheckPRRequest(repo))
		if err != nil {
			return fmt.Errorf("failed to retrieve pull request information: %w", err)
		}
		return nil
	})
	return pr, err
}

// PublishReview posts review comments to the pull request in a single plugin
// session: it lists what is already there, drops duplicates and publishes the
// remaining comments together with an optional summary.
func (r *Reviewer) PublishReview(cfg *config.Config, repo shared.RepositoryParams, comments []shared.Comment, summary string) (shared.ReviewReport, error) {
	var report shared.ReviewReport

	err := shared.SetupPlugin(cfg, r.logger, shared.PluginTypeVCS, r.PluginName, func(raw interface{}) error {
		vcsPlugin, ok := raw.(shared.VCS)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}

		existing, err := vcsPlugin.ListPRComments(r.createListCommentsRequest(repo))
		if err != nil {
			return fmt.Errorf("failed to list existing pull request comments: %w", err)
		}

		fresh, skipped := FilterAlreadyPosted(comments, existing)
		r.logger.Info("review comments prepared", "total", len(comments), "skipped", skipped)

		if summary != "" && AlreadyPosted(existing, summary) {
			r.logger.Debug("summary already posted, skipping")
			summary = ""
		}

		if len(fresh) == 0 && summary == "" {
			report = shared.ReviewReport{Skipped: skipped}
			return nil
		}

		report, err = vcsPlugin.AddReviewCommentsToPR(r.createAddReviewCommentsRequest(repo, fresh, summary))
		if err != nil {
			return fmt.Errorf("failed to publish review comments: %w", err)
		}
		report.Skipped += skipped
		return nil
	})

	return report, err
}
