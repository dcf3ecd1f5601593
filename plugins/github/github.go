package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

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
	// cloudDomain is the hosted GitHub; any other domain is treated as a
	// GitHub Enterprise installation.
	cloudDomain = "github.com"
	// commentSide anchors inline comments on the destination side of the diff.
	commentSide  = "RIGHT"
	listPageSize = 100
)

// VCSGithub implements VCS operations against GitHub or GitHub Enterprise.
type VCSGithub struct {
	logger       hclog.Logger
	globalConfig *config.Config
}

// newVCSGithub creates a new instance of VCSGithub.
func newVCSGithub(logger hclog.Logger) *VCSGithub {
	return &VCSGithub{
		logger: logger,
	}
}

// setGlobalConfig sets the global configuration for the VCSGithub instance.
func (g *VCSGithub) setGlobalConfig(globalConfig *config.Config) {
	g.globalConfig = globalConfig
}

// newAPIClient builds an API client for the addressed domain. Without a token
// the client stays anonymous and API rate limits apply.
func (g *VCSGithub) newAPIClient(domain string) (*github.Client, error) {
	var httpClient *http.Client
	if token := g.globalConfig.GithubPlugin.Token; token != "" {
		username := g.globalConfig.GithubPlugin.Username
		if username == "" {
			username = "x-access-token"
		}
		transport := &github.BasicAuthTransport{
			Username: username,
			Password: token,
		}
		httpClient = transport.Client()
	}

	if domain == "" || domain == cloudDomain {
		return github.NewClient(httpClient), nil
	}

	baseURL := fmt.Sprintf("https://%s/api/v3/", domain)
	client, err := github.NewEnterpriseClient(baseURL, baseURL, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to build an enterprise client for %q: %w", domain, err)
	}
	return client, nil
}

// pullRequestNumber parses the pull request ID of the request coordinates.
func pullRequestNumber(repo shared.RepositoryParams) (int, error) {
	number, err := strconv.Atoi(repo.PullRequestID)
	if err != nil {
		return 0, fmt.Errorf("invalid pull request ID %q: %w", repo.PullRequestID, err)
	}
	return number, nil
}

// Fetch clones or updates the repository described by the request and reports
// the resulting checkout state.
func (g *VCSGithub) Fetch(args shared.VCSFetchRequest) (shared.VCSFetchResponse, error) {
	g.logger.Debug("starting fetching a repository", "args", args)

	var result shared.VCSFetchResponse
	if err := g.validateFetch(&args); err != nil {
		g.logger.Error("validation failed for fetch operation", "error", err)
		return result, err
	}

	auth := git.AuthConfig{
		Username:       g.globalConfig.GithubPlugin.Username,
		Token:          g.globalConfig.GithubPlugin.Token,
		SSHKeyPassword: g.globalConfig.GithubPlugin.SSHKeyPassword,
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
func (g *VCSGithub) RetrievePRInformation(args shared.VCSRetrievePRInformationRequest) (shared.PRParams, error) {
	g.logger.Debug("starting to retrieve information about a pull request", "args", args)

	if err := g.validateRetrievePRInformation(&args); err != nil {
		g.logger.Error("validation failed for retrieving pull request information", "error", err)
		return shared.PRParams{}, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the github client failed", "error", err)
		return shared.PRParams{}, err
	}

	number, err := pullRequestNumber(args.RepoParam)
	if err != nil {
		return shared.PRParams{}, err
	}

	pr, _, err := client.PullRequests.Get(context.Background(), args.RepoParam.Namespace, args.RepoParam.Repository, number)
	if err != nil {
		g.logger.Error("failed to retrieve information about the pull request", "pullRequestID", args.RepoParam.PullRequestID, "error", err)
		return shared.PRParams{}, err
	}

	g.logger.Info("pull request information retrieved", "pullRequestID", number, "state", pr.GetState())
	return convertToPRParams(pr), nil
}

// ListPRComments returns the comments already present on the pull request.
// Conversation comments and inline review comments live in different API
// collections, so both are listed and merged.
func (g *VCSGithub) ListPRComments(args shared.VCSListPRCommentsRequest) ([]shared.Comment, error) {
	g.logger.Debug("starting to list comments of a pull request", "args", args)

	if err := g.validateListPRComments(&args); err != nil {
		g.logger.Error("validation failed for listing pull request comments", "error", err)
		return nil, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the github client failed", "error", err)
		return nil, err
	}

	number, err := pullRequestNumber(args.RepoParam)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	owner, repo := args.RepoParam.Namespace, args.RepoParam.Repository

	var comments []shared.Comment

	issueOpts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: listPageSize}}
	for {
		page, resp, err := client.Issues.ListComments(ctx, owner, repo, number, issueOpts)
		if err != nil {
			g.logger.Error("failed to list pull request conversation comments", "error", err)
			return nil, err
		}
		for _, c := range page {
			comments = append(comments, issueCommentToShared(c))
		}
		if resp.NextPage == 0 {
			break
		}
		issueOpts.Page = resp.NextPage
	}

	reviewOpts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: listPageSize}}
	for {
		page, resp, err := client.PullRequests.ListComments(ctx, owner, repo, number, reviewOpts)
		if err != nil {
			g.logger.Error("failed to list pull request review comments", "error", err)
			return nil, err
		}
		for _, c := range page {
			comments = append(comments, prCommentToShared(c))
		}
		if resp.NextPage == 0 {
			break
		}
		reviewOpts.Page = resp.NextPage
	}

	g.logger.Info("pull request comments listed", "total", len(comments))
	return comments, nil
}

// postGeneralComment posts a conversation comment on the pull request.
func (g *VCSGithub) postGeneralComment(ctx context.Context, client *github.Client, repo shared.RepositoryParams, number int, body string) error {
	_, _, err := client.Issues.CreateComment(ctx, repo.Namespace, repo.Repository, number, &github.IssueComment{
		Body: github.String(body),
	})
	return err
}

// AddCommentToPR posts a single general comment on the pull request.
func (g *VCSGithub) AddCommentToPR(args shared.VCSAddCommentToPRRequest) (bool, error) {
	g.logger.Debug("starting to add a comment to a pull request", "args", args)

	if err := g.validateAddCommentToPR(&args); err != nil {
		g.logger.Error("validation failed for adding a comment", "error", err)
		return false, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the github client failed", "error", err)
		return false, err
	}

	number, err := pullRequestNumber(args.RepoParam)
	if err != nil {
		return false, err
	}

	if err := g.postGeneralComment(context.Background(), client, args.RepoParam, number, args.Comment.Body); err != nil {
		g.logger.Error("failed to add the comment to the pull request", "error", err)
		return false, err
	}

	g.logger.Info("comment successfully added", "pullRequestID", args.RepoParam.PullRequestID)
	return true, nil
}

// postReviewComment delivers one review comment. Anchored comments become
// inline review comments on the head commit; when the API rejects the anchor
// the location is folded into the body and the comment is posted as a
// conversation comment.
func (g *VCSGithub) postReviewComment(ctx context.Context, client *github.Client, repo shared.RepositoryParams, number int, commitID string, comment shared.Comment) shared.CommentOutcome {
	outcome := shared.CommentOutcome{Comment: comment, Status: shared.CommentStatusPosted}

	if comment.Path == "" || comment.Line <= 0 {
		if err := g.postGeneralComment(ctx, client, repo, number, comment.Body); err != nil {
			outcome.Status = shared.CommentStatusFailed
			outcome.Message = err.Error()
		}
		return outcome
	}

	prComment := &github.PullRequestComment{
		Body:     github.String(comment.Body),
		CommitID: github.String(commitID),
		Path:     github.String(comment.Path),
		Line:     github.Int(comment.Line),
		Side:     github.String(commentSide),
	}
	if comment.EndLine > comment.Line {
		prComment.StartLine = github.Int(comment.Line)
		prComment.Line = github.Int(comment.EndLine)
		prComment.StartSide = github.String(commentSide)
	}

	_, _, err := client.PullRequests.CreateComment(ctx, repo.Namespace, repo.Repository, number, prComment)
	if err == nil {
		return outcome
	}
	g.logger.Warn("inline comment rejected, posting as a general comment", "path", comment.Path, "line", comment.Line, "error", err)

	if err := g.postGeneralComment(ctx, client, repo, number, shared.GeneralCommentBody(comment)); err != nil {
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
func (g *VCSGithub) AddReviewCommentsToPR(args shared.VCSAddReviewCommentsRequest) (shared.ReviewReport, error) {
	g.logger.Debug("starting to post review comments on a pull request", "args", args)

	var report shared.ReviewReport
	if err := g.validateAddReviewComments(&args); err != nil {
		g.logger.Error("validation failed for posting review comments", "error", err)
		return report, err
	}

	client, err := g.newAPIClient(args.RepoParam.Domain)
	if err != nil {
		g.logger.Error("initialization of the github client failed", "error", err)
		return report, err
	}

	number, err := pullRequestNumber(args.RepoParam)
	if err != nil {
		return report, err
	}

	ctx := context.Background()
	pr, _, err := client.PullRequests.Get(ctx, args.RepoParam.Namespace, args.RepoParam.Repository, number)
	if err != nil {
		g.logger.Error("failed to retrieve information about the pull request", "pullRequestID", args.RepoParam.PullRequestID, "error", err)
		return report, err
	}
	commitID := pr.GetHead().GetSHA()

	for _, comment := range args.Comments {
		outcome := g.postReviewComment(ctx, client, args.RepoParam, number, commitID, comment)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status == shared.CommentStatusFailed {
			report.Failed++
			continue
		}
		report.Posted++
	}

	if args.Summary != "" {
		summaryOutcome := shared.CommentOutcome{Comment: shared.Comment{Body: args.Summary}, Status: shared.CommentStatusPosted}
		if err := g.postGeneralComment(ctx, client, args.RepoParam, number, args.Summary); err != nil {
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
func (g *VCSGithub) Setup(configData config.Config) (bool, error) {
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

	githubInstance := newVCSGithub(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeVCS: &shared.VCSPlugin{Impl: githubInstance},
		},
		Logger: logger,
	})
}
