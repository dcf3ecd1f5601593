package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/xanzy/go-gitlab"

	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
)

// Metadata of the plugin
var (
	Version       = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

const (
	// defaultBranch is checked out when the fetch request names no branch.
	defaultBranch = "main"
	listPageSize  = 100
)

// VCSGitlab implements VCS operations against a GitLab installation.
type VCSGitlab struct {
	logger       hclog.Logger
	globalConfig *config.Config
}

// newVCSGitlab creates a new instance of VCSGitlab.
func newVCSGitlab(logger hclog.Logger) *VCSGitlab {
	return &VCSGitlab{
		logger: logger,
	}
}

// setGlobalConfig sets the global configuration for the VCSGitlab instance.
func (g *VCSGitlab) setGlobalConfig(globalConfig *config.Config) {
	g.globalConfig = globalConfig
}

// newAPIClient builds an API client for the addressed domain.
func (g *VCSGitlab) newAPIClient(domain string) (*gitlab.Client, error) {
	baseURL := fmt.Sprintf("https://%s/api/v4", domain)
	client, err := gitlab.NewClient(g.globalConfig.GitlabPlugin.Token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return client, nil
}

// projectID addresses a project the way the API expects, as namespace/repository.
func projectID(repo shared.RepositoryParams) string {
	return fmt.Sprintf("%s/%s", repo.Namespace, repo.Repository)
}

// mergeRequestIID parses the merge request IID of the request coordinates.
func mergeRequestIID(repo shared.RepositoryParams) (int, error) {
	iid, err := strconv.Atoi(repo.PullRequestID)
	if err != nil {
		return 0, fmt.Errorf("invalid merge request IID %q: %w", repo.PullRequestID, err)
	}
	return iid, nil
}

// retrieveMergeRequest builds an API client and loads the merge request
// addressed by the repository parameters.
func (g *VCSGitlab) retrieveMergeRequest(repo shared.RepositoryParams) (*gitlab.Client, *gitlab.MergeRequest, error) {
	client, err := g.newAPIClient(repo.Domain)
	if err != nil {
		g.logger.Error("initialization of the gitlab client failed", "error", err)
		return nil, nil, err
	}

	iid, err := mergeRequestIID(repo)
	if err != nil {
		return nil, nil, err
	}

	mr, _, err := client.MergeRequests.GetMergeRequest(projectID(repo), iid, &gitlab.GetMergeRequestsOptions{})
	if err != nil {
		g.logger.Error("failed to retrieve information about the merge request", "mergeRequestIID", repo.PullRequestID, "error", err)
		return nil, nil, err
	}
	return client, mr, nil
}

// Fetch clones or updates the repository described by the request and reports
// the resulting checkout state.
func (g *VCSGitlab) Fetch(args shared.VCSFetchRequest) (shared.VCSFetchResponse, error) {
	g.logger.Debug("starting fetching a repository", "args", args)

	var result shared.VCSFetchResponse
	if err := g.validateFetch(&args); err != nil {
		g.logger.Error("validation failed for fetch operation", "error", err)
		return result, err
	}

	auth := git.AuthConfig{
		Username:       g.globalConfig.GitlabPlugin.Username,
		Token:          g.globalConfig.GitlabPlugin.Token,
		SSHKeyPassword: g.globalConfig.GitlabPlugin.SSHKeyPassword,
	}

	gitClient, err := git.New(g.logger, g.globalConfig, auth, &args)
	if err != nil {
		g.logger.Error("initialization of the git client failed", "error", err)
		return result, err
	}

	path, err := gitClient.CloneRepository(&args, defaultBranch)
	if err != nil {
		g.logger.Error("fetching the repository failed", "error", err)
		return result, err
	}
	result.Path = path

	if metadata, err := git.CollectRepositoryMetadata(path); err == nil {
		if metadata.BranchName != nil {
			result.Branch = *metadata.BranchName
		}
		if metadata.CommitHash != nil {
			result.CommitHash = *metadata.CommitHash
		}
	} else {
		g.logger.Warn("failed to collect repository metadata after fetch", "error", err)
	}

	g.logger.Info("repository fetched", "path", result.Path, "branch", result.Branch)
	return result, nil
}

// RetrievePRInformation loads merge request metadata for the addressed merge request.
func (g *VCSGitlab) RetrievePRInformation(args shared.VCSRetrievePRInformationRequest) (shared.PRParams, error) {
	g.logger.Debug("starting to retrieve information about a merge request", "args", args)

	if err := g.validateRetrievePRInformation(&args); err != nil {
		g.logger.Error("validation failed for retrieving merge request information", "error", err)
		return shared.PRParams{}, err
	}

	_, mr, err := g.retrieveMergeRequest(args.RepoParam)
	if err != nil {
		return shared.PRParams{}, err
	}

	g.logger.Info("merge request information retrieved", "mergeRequestIID", mr.IID, "state", mr.State)
	return convertToPRParams(mr), nil
}

// ListPRComments returns the notes already present on the merge request.
// System notes describing state changes are filtered out.
func (g *VCSGitlab) ListPRComments(args shared.VCSListPRCommentsRequest) ([]shared.Comment, error) {
	g.logger.Debug("starting to list comments of a merge request", "args", args)

	if err := g.validateListPRComments(&args); err != nil {
		g.logger.Error("validation failed for listing merge request comments", "error", err)
		return nil, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the gitlab client failed", "error", err)
		return nil, err
	}

	iid, err := mergeRequestIID(args.RepoParam)
	if err != nil {
		return nil, err
	}

	var comments []shared.Comment
	opts := &gitlab.ListMergeRequestNotesOptions{ListOptions: gitlab.ListOptions{PerPage: listPageSize}}
	for {
		notes, resp, err := client.Notes.ListMergeRequestNotes(projectID(args.RepoParam), iid, opts)
		if err != nil {
			g.logger.Error("failed to list merge request notes", "error", err)
			return nil, err
		}
		for _, note := range notes {
			if note == nil || note.System {
				continue
			}
			comments = append(comments, noteToComment(note))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.logger.Info("merge request comments listed", "total", len(comments))
	return comments, nil
}

// postGeneralComment posts a plain note on the merge request.
func (g *VCSGitlab) postGeneralComment(client *gitlab.Client, pid string, iid int, body string) error {
	_, _, err := client.Notes.CreateMergeRequestNote(pid, iid, &gitlab.CreateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	})
	return err
}

// AddCommentToPR posts a single general comment on the merge request.
func (g *VCSGitlab) AddCommentToPR(args shared.VCSAddCommentToPRRequest) (bool, error) {
	g.logger.Debug("starting to add a comment to a merge request", "args", args)

	if err := g.validateAddCommentToPR(&args); err != nil {
		g.logger.Error("validation failed for adding a comment", "error", err)
		return false, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the gitlab client failed", "error", err)
		return false, err
	}

	iid, err := mergeRequestIID(args.RepoParam)
	if err != nil {
		return false, err
	}

	if err := g.postGeneralComment(client, projectID(args.RepoParam), iid, args.Comment.Body); err != nil {
		g.logger.Error("failed to add the comment to the merge request", "error", err)
		return false, err
	}

	g.logger.Info("comment successfully added", "mergeRequestIID", args.RepoParam.PullRequestID)
	return true, nil
}

// postReviewComment delivers one review comment. Anchored comments become
// diff discussions positioned on the merge request's diff refs; when the API
// rejects the position the location is folded into the body and the comment
// is posted as a plain note.
func (g *VCSGitlab) postReviewComment(client *gitlab.Client, pid string, mr *gitlab.MergeRequest, comment shared.Comment) shared.CommentOutcome {
	outcome := shared.CommentOutcome{Comment: comment, Status: shared.CommentStatusPosted}

	if comment.Path == "" || comment.Line <= 0 {
		if err := g.postGeneralComment(client, pid, mr.IID, comment.Body); err != nil {
			outcome.Status = shared.CommentStatusFailed
			outcome.Message = err.Error()
		}
		return outcome
	}

	position := &gitlab.PositionOptions{
		BaseSHA:      gitlab.Ptr(mr.DiffRefs.BaseSha),
		StartSHA:     gitlab.Ptr(mr.DiffRefs.StartSha),
		HeadSHA:      gitlab.Ptr(mr.DiffRefs.HeadSha),
		PositionType: gitlab.Ptr("text"),
		NewPath:      gitlab.Ptr(comment.Path),
		NewLine:      gitlab.Ptr(comment.Line),
	}

	_, _, err := client.Discussions.CreateMergeRequestDiscussion(pid, mr.IID, &gitlab.CreateMergeRequestDiscussionOptions{
		Body:     gitlab.Ptr(comment.Body),
		Position: position,
	})
	if err == nil {
		return outcome
	}
	g.logger.Warn("inline comment rejected, posting as a general comment", "path", comment.Path, "line", comment.Line, "error", err)

	if err := g.postGeneralComment(client, pid, mr.IID, shared.GeneralCommentBody(comment)); err != nil {
		outcome.Status = shared.CommentStatusFailed
		outcome.Message = err.Error()
		return outcome
	}
	outcome.Status = shared.CommentStatusFallback
	outcome.Message = "could not be anchored to the diff; posted as a general comment"
	return outcome
}

// AddReviewCommentsToPR posts a batch of review comments followed by an
// optional summary. Delivery failures are recorded in the report rather than
// aborting the batch.
func (g *VCSGitlab) AddReviewCommentsToPR(args shared.VCSAddReviewCommentsRequest) (shared.ReviewReport, error) {
	g.logger.Debug("starting to post review comments on a merge request", "args", args)

	var report shared.ReviewReport
	if err := g.validateAddReviewComments(&args); err != nil {
		g.logger.Error("validation failed for posting review comments", "error", err)
		return report, err
	}

	client, mr, err := g.retrieveMergeRequest(args.RepoParam)
	if err != nil {
		return report, err
	}

	pid := projectID(args.RepoParam)
	for _, comment := range args.Comments {
		outcome := g.postReviewComment(client, pid, mr, comment)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status == shared.CommentStatusFailed {
			report.Failed++
			continue
		}
		report.Posted++
	}

	if args.Summary != "" {
		summaryOutcome := shared.CommentOutcome{Comment: shared.Comment{Body: args.Summary}, Status: shared.CommentStatusPosted}
		if err := g.postGeneralComment(client, pid, mr.IID, args.Summary); err != nil {
			g.logger.Error("failed to post the summary comment", "error", err)
			summaryOutcome.Status = shared.CommentStatusFailed
			summaryOutcome.Message = err.Error()
			report.Failed++
		} else {
			report.Posted++
		}
		report.Outcomes = append(report.Outcomes, summaryOutcome)
	}

	g.logger.Info("review comments published", "posted", report.Posted, "failed", report.Failed)
	return report, nil
}

// Setup stores the global configuration, overlaying credentials found in the
// environment.
func (g *VCSGitlab) Setup(configData config.Config) (bool, error) {
	if err := UpdateConfigFromEnv(&configData); err != nil {
		return false, err
	}
	g.setGlobalConfig(&configData)
	return true, nil
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	gitlabInstance := newVCSGitlab(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeVCS: &shared.VCSPlugin{Impl: gitlabInstance},
		},
		Logger: logger,
	})
}
