package bitbucket

import (
	"fmt"
	"strconv"
)

// actionCommented marks activity stream entries that carry a comment.
const actionCommented = "COMMENTED"

// pullRequestsService implements the PullRequestsService interface.
type pullRequestsService struct {
	*service
	limit int
}

// NewPullRequestsService initializes a new pull requests service with a given pagination limit.
func NewPullRequestsService(client *Client, limit int) PullRequestsService {
	if limit <= 0 {
		limit = 2000 // Default limit if not provided
	}
	return &pullRequestsService{
		service: &service{client},
		limit:   limit,
	}
}

// Get retrieves a pull request for a given project, repository, and ID.
func (prs *pullRequestsService) Get(project, repository string, id int) (*PullRequest, error) {
	path := fmt.Sprintf("/projects/%s/repos/%s/pull-requests/%d", project, repository, id)
	prs.client.Logger.Debug("fetching pull request information", "project", project, "repository", repository, "id", id)

	response, err := prs.client.get(path, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching pull request: %w", err)
	}

	var result PullRequest
	if err := unmarshalResponse(response, &result); err != nil {
		return nil, err
	}

	result.client = prs.client
	return &result, nil
}

// GetChanges retrieves the changed files of a pull request.
func (pr *PullRequest) GetChanges() (*[]Change, error) {
	pr.client.Logger.Debug("getting changes for a pull request", "project", pr.ToReference.Repository.Project.Key, "repository", pr.ToReference.Repository.Slug, "id", pr.ID)
	return pr.paginateChanges(pr.Links.Self[0].Href + "/changes")
}

// AddComment adds a general comment to a pull request.
func (pr *PullRequest) AddComment(commentText string) (*Comment, error) {
	pr.client.Logger.Debug("leaving a comment on a pull request", "project", pr.ToReference.Repository.Project.Key, "repository", pr.ToReference.Repository.Slug, "id", pr.ID)

	path := pr.Links.Self[0].Href + "/comments" // works even without rest/api/1.0/ prefix
	body := map[string]interface{}{
		"text": commentText,
	}

	response, err := pr.client.post(path, nil, body)
	if err != nil {
		return nil, fmt.Errorf("error leaving a comment: %w", err)
	}

	var result Comment
	if err := unmarshalResponse(response, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// AddLineComment adds a comment anchored to a line of a changed file. The
// anchor targets the destination side of the effective diff, so the file
// must be part of the pull request's change set.
func (pr *PullRequest) AddLineComment(commentText, filePath string, line int) (*Comment, error) {
	pr.client.Logger.Debug("leaving a line comment on a pull request",
		"project", pr.ToReference.Repository.Project.Key,
		"repository", pr.ToReference.Repository.Slug,
		"id", pr.ID,
		"path", filePath,
		"line", line,
	)

	path := pr.Links.Self[0].Href + "/comments"
	body := map[string]interface{}{
		"text": commentText,
		"anchor": CommentAnchor{
			Line:     line,
			LineType: anchorLineTypeAdded,
			FileType: anchorFileTypeTo,
			Path:     filePath,
			DiffType: anchorDiffEffective,
		},
	}

	response, err := pr.client.post(path, nil, body)
	if err != nil {
		return nil, fmt.Errorf("error leaving a line comment: %w", err)
	}

	var result Comment
	if err := unmarshalResponse(response, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListCommentActivities returns all comment entries from the pull request's
// activity stream, oldest data included, with their anchors when present.
func (pr *PullRequest) ListCommentActivities() (*[]Activity, error) {
	pr.client.Logger.Debug("listing comments of a pull request", "project", pr.ToReference.Repository.Project.Key, "repository", pr.ToReference.Repository.Slug, "id", pr.ID)

	path := pr.Links.Self[0].Href + "/activities"
	var result []Activity
	start := 0
	limit := 2000

	for {
		query := map[string]string{
			"start": strconv.Itoa(start),
			"limit": strconv.Itoa(limit),
		}

		response, err := pr.client.get(path, query)
		if err != nil {
			return nil, fmt.Errorf("error getting activities: %w", err)
		}

		var resp Response[Activity]
		if err := unmarshalResponse(response, &resp); err != nil {
			return nil, err
		}

		for _, activity := range resp.Values {
			if activity.Action == actionCommented && activity.Comment != nil {
				result = append(result, activity)
			}
		}
		if resp.IsLastPage {
			break
		}

		start = resp.NextPageStart
	}

	pr.client.Logger.Debug("successfully fetched all comment activities", "total", len(result))
	return &result, nil
}

// paginateChanges handles pagination for pull request changes.
func (pr *PullRequest) paginateChanges(path string) (*[]Change, error) {
	client := pr.client
	var result []Change
	start := 0
	limit := 2000

	for {
		client.Logger.Debug("fetching page of changes", "start", start, "limit", limit)
		query := map[string]string{
			"start":        strconv.Itoa(start),
			"limit":        strconv.Itoa(limit),
			"withComments": "false",
		}

		response, err := client.get(path, query)
		if err != nil {
			return nil, fmt.Errorf("error getting changes: %w", err)
		}

		var resp ChangesResponse[Change]
		if err := unmarshalResponse(response, &resp); err != nil {
			return nil, err
		}

		result = append(result, resp.Values...)
		if resp.IsLastPage {
			client.Logger.Debug("last page of changes reached")
			break
		}

		start = resp.NextPageStart
	}

	client.Logger.Debug("successfully fetched all changes", "totalChanges", len(result))
	return &result, nil
}
