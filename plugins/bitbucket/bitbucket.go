package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/review-io-git/review-io/internal/bitbucket"
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

// defaultBranch is checked out when the fetch request names no branch.
const defaultBranch = "master"

// VCSBitbucket implements VCS operations against a Bitbucket server.
type VCSBitbucket struct {
	logger       hclog.Logger
	globalConfig *config.Config
}

// newVCSBitbucket creates a new instance of VCSBitbucket.
func newVCSBitbucket(logger hclog.Logger) *VCSBitbucket {
	return &VCSBitbucket{
		logger: logger,
	}
}

// setGlobalConfig sets the global configuration for the VCSBitbucket instance.
func (g *VCSBitbucket) setGlobalConfig(globalConfig *config.Config) {
	g.globalConfig = globalConfig
}

// retrievePullRequest builds an API client and loads the pull request
// addressed by the repository parameters.
func (g *VCSBitbucket) retrievePullRequest(repo shared.RepositoryParams) (*bitbucket.PullRequest, error) {
	client, err := bitbucket.New(g.globalConfig, g.logger, repo.Domain, bitbucket.AuthInfo{
		Username: g.globalConfig.BitbucketPlugin.Username,
		Token:    g.globalConfig.BitbucketPlugin.Token,
	})
	if err != nil {
		g.logger.Error("initialization of the bitbucket client failed", "error", err)
		return nil, err
	}

	pullRequestID, err := strconv.Atoi(repo.PullRequestID)
	if err != nil {
		return nil, fmt.Errorf("invalid pull request ID %q: %w", repo.PullRequestID, err)
	}

	prData, err := client.PullRequests.Get(repo.Namespace, repo.Repository, pullRequestID)
	if err != nil {
		g.logger.Error("failed to retrieve information about the pull request", "pullRequestID", repo.PullRequestID, "error", err)
		return nil, err
	}
	return prData, nil
}

// Fetch clones or updates the repository described by the request and reports
// the resulting checkout state.
func (g *VCSBitbucket) Fetch(args shared.VCSFetchRequest) (shared.VCSFetchResponse, error) {
	g.logger.Debug("starting fetching a repository", "args", args)

	var result shared.VCSFetchResponse
	if err := g.validateFetch(&args); err != nil {
		g.logger.Error("validation failed for fetch operation", "error", err)
		return result, err
	}

	auth := git.AuthConfig{
		Username:       g.globalConfig.BitbucketPlugin.Username,
		Token:          g.globalConfig.BitbucketPlugin.Token,
		SSHKeyPassword: g.globalConfig.BitbucketPlugin.SSHKeyPassword,
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

// RetrievePRInformation loads pull request metadata for the addressed pull request.
func (g *VCSBitbucket) RetrievePRInformation(args shared.VCSRetrievePRInformationRequest) (shared.PRParams, error) {
	g.logger.Debug("starting to retrieve information about a pull request", "args", args)

	if err := g.validateRetrievePRInformation(&args); err != nil {
		g.logger.Error("validation failed for retrieving pull request information", "error", err)
		return shared.PRParams{}, err
	}

	prData, err := g.retrievePullRequest(args.RepoParam)
	if err != nil {
		return shared.PRParams{}, err
	}

	g.logger.Info("pull request information retrieved", "pullRequestID", prData.ID, "state", prData.State)
	return convertToPRParams(prData), nil
}

// ListPRComments returns the comments already present on the pull request,
// collected from its activity stream.
func (g *VCSBitbucket) ListPRComments(args shared.VCSListPRCommentsRequest) ([]shared.Comment, error) {
	g.logger.Debug("starting to list comments of a pull request", "args", args)

	if err := g.validateListPRComments(&args); err != nil {
		g.logger.Error("validation failed for listing pull request comments", "error", err)
		return nil, err
	}

	prData, err := g.retrievePullRequest(args.RepoParam)
	if err != nil {
		return nil, err
	}

	activities, err := prData.ListCommentActivities()
	if err != nil {
		g.logger.Error("failed to list pull request comments", "error", err)
		return nil, err
	}

	comments := commentsFromActivities(*activities)
	g.logger.Info("pull request comments listed", "total", len(comments))
	return comments, nil
}

// AddCommentToPR posts a single general comment on the pull request.
func (g *VCSBitbucket) AddCommentToPR(args shared.VCSAddCommentToPRRequest) (bool, error) {
	g.logger.Debug("starting to add a comment to a pull request", "args", args)

	if err := g.validateAddCommentToPR(&args); err != nil {
		g.logger.Error("validation failed for adding a comment", "error", err)
		return false, err
	}

	prData, err := g.retrievePullRequest(args.RepoParam)
	if err != nil {
		return false, err
	}

	if _, err := prData.AddComment(args.Comment.Body); err != nil {
		g.logger.Error("failed to add the comment to the pull request", "error", err)
		return false, err
	}

	g.logger.Info("comment successfully added", "pullRequestID", args.RepoParam.PullRequestID)
	return true, nil
}

// changedFileSet collects the file paths touched by the pull request. Inline
// anchors only stick on files of the diff, so the set decides which comments
// can be placed inline. A nil set means the change list could not be fetched
// and anchoring is attempted anyway.
func (g *VCSBitbucket) changedFileSet(pr *bitbucket.PullRequest) map[string]struct{} {
	changes, err := pr.GetChanges()
	if err != nil {
		g.logger.Warn("failed to list pull request changes", "error", err)
		return nil
	}

	set := make(map[string]struct{})
	for _, path := range bitbucket.ChangedFilePaths(*changes) {
		set[path] = struct{}{}
	}
	return set
}

// postReviewComment delivers one review comment. Anchored comments are placed
// inline when their file is part of the diff; otherwise the location is folded
// into the body and the comment is posted as a general one.
func (g *VCSBitbucket) postReviewComment(pr *bitbucket.PullRequest, comment shared.Comment, changedFiles map[string]struct{}) shared.CommentOutcome {
	outcome := shared.CommentOutcome{Comment: comment, Status: shared.CommentStatusPosted}

	if comment.Path == "" || comment.Line <= 0 {
		if _, err := pr.AddComment(comment.Body); err != nil {
			outcome.Status = shared.CommentStatusFailed
			outcome.Message = err.Error()
		}
		return outcome
	}

	anchorable := true
	if changedFiles != nil {
		_, anchorable = changedFiles[comment.Path]
	}
	if anchorable {
		_, err := pr.AddLineComment(comment.Body, comment.Path, comment.Line)
		if err == nil {
			return outcome
		}
		g.logger.Warn("inline comment rejected, posting as a general comment", "path", comment.Path, "line", comment.Line, "error", err)
	} else {
		g.logger.Debug("comment anchor is outside the pull request diff", "path", comment.Path, "line", comment.Line)
	}

	if _, err := pr.AddComment(shared.GeneralCommentBody(comment)); err != nil {
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
func (g *VCSBitbucket) AddReviewCommentsToPR(args shared.VCSAddReviewCommentsRequest) (shared.ReviewReport, error) {
	g.logger.Debug("starting to post review comments on a pull request", "args", args)

	var report shared.ReviewReport
	if err := g.validateAddReviewComments(&args); err != nil {
		g.logger.Error("validation failed for posting review comments", "error", err)
		return report, err
	}

	prData, err := g.retrievePullRequest(args.RepoParam)
	if err != nil {
		return report, err
	}

	changedFiles := g.changedFileSet(prData)

	for _, comment := range args.Comments {
		outcome := g.postReviewComment(prData, comment, changedFiles)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status == shared.CommentStatusFailed {
			report.Failed++
			continue
		}
		report.Posted++
	}

	if args.Summary != "" {
		summaryOutcome := shared.CommentOutcome{Comment: shared.Comment{Body: args.Summary}, Status: shared.CommentStatusPosted}
		if _, err := prData.AddComment(args.Summary); err != nil {
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
func (g *VCSBitbucket) Setup(configData config.Config) (bool, error) {
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

	bitbucketInstance := newVCSBitbucket(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeVCS: &shared.VCSPlugin{Impl: bitbucketInstance},
		},
		Logger: logger,
	})
}
