package main

import (
	"testing"

	"github.com/review-io-git/review-io/internal/bitbucket"
)

func TestConvertToPRParams(t *testing.T) {
	pr := &bitbucket.PullRequest{
		ID:          42,
		Title:       "Add parser",
		Description: "description",
		State:       "OPEN",
		Author: &bitbucket.UserData{
			User: bitbucket.User{Name: "reviewer", DisplayName: "Reviewer"},
		},
		FromReference: bitbucket.Reference{ID: "refs/heads/feature", DisplayID: "feature", LatestCommit: "abc123"},
		ToReference:   bitbucket.Reference{ID: "refs/heads/master", DisplayID: "master", LatestCommit: "def456"},
		CreatedDate:   1700000000000,
		UpdatedDate:   1700000001000,
		Links: bitbucket.Links{
			Self: []bitbucket.SelfLink{{Href: "https://bitbucket.example.com/projects/PRJ/repos/app/pull-requests/42"}},
		},
	}

	params := convertToPRParams(pr)

	if params.ID != 42 {
		t.Errorf("expected ID 42, got %d", params.ID)
	}
	if params.Author.UserName != "reviewer" {
		t.Errorf("expected author 'reviewer', got %q", params.Author.UserName)
	}
	if params.Source.DisplayID != "feature" || params.Source.LatestCommit != "abc123" {
		t.Errorf("unexpected source reference: %+v", params.Source)
	}
	if params.Destination.DisplayID != "master" {
		t.Errorf("unexpected destination reference: %+v", params.Destination)
	}
	if params.SelfLink != "https://bitbucket.example.com/projects/PRJ/repos/app/pull-requests/42" {
		t.Errorf("unexpected self link: %q", params.SelfLink)
	}
}

func TestConvertToPRParamsMissingOptionalFields(t *testing.T) {
	params := convertToPRParams(&bitbucket.PullRequest{ID: 7, State: "OPEN"})

	if params.Author.UserName != "" {
		t.Errorf("expected empty author, got %q", params.Author.UserName)
	}
	if params.SelfLink != "" {
		t.Errorf("expected empty self link, got %q", params.SelfLink)
	}

	if got := convertToPRParams(nil); got.ID != 0 {
		t.Errorf("expected zero params for nil pull request, got %+v", got)
	}
}

func TestCommentsFromActivities(t *testing.T) {
	activities := []bitbucket.Activity{
		{
			Comment:       &bitbucket.Comment{ID: 1, Text: "inline"},
			CommentAnchor: &bitbucket.CommentAnchor{Path: "src/app.go", Line: 10},
		},
		{
			Comment: &bitbucket.Comment{ID: 2, Text: "general"},
		},
		{
			// Activity without a comment payload is skipped.
			ID: 3,
		},
	}

	comments := commentsFromActivities(activities)

	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != 1 || comments[0].Path != "src/app.go" || comments[0].Line != 10 {
		t.Errorf("unexpected anchored comment: %+v", comments[0])
	}
	if comments[1].ID != 2 || comments[1].Path != "" || comments[1].Line != 0 {
		t.Errorf("unexpected general comment: %+v", comments[1])
	}
}
