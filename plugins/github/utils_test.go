package main

import (
	"testing"
	"time"

	"github.com/google/go-github/v47/github"
)

func TestConvertToPRParams(t *testing.T) {
	created := time.Unix(1700000000, 0)
	updated := time.Unix(1700000100, 0)
	pr := &github.PullRequest{
		Number:    github.Int(42),
		Title:     github.String("Add parser"),
		Body:      github.String("description"),
		State:     github.String("open"),
		User:      &github.User{Login: github.String("reviewer")},
		HTMLURL:   github.String("https://github.com/org/app/pull/42"),
		CreatedAt: &created,
		UpdatedAt: &updated,
		Head: &github.PullRequestBranch{
			Label: github.String("org:feature"),
			Ref:   github.String("feature"),
			SHA:   github.String("abc123"),
		},
		Base: &github.PullRequestBranch{
			Label: github.String("org:main"),
			Ref:   github.String("main"),
			SHA:   github.String("def456"),
		},
	}

	params := convertToPRParams(pr)

	if params.ID != 42 {
		t.Errorf("expected ID 42, got %d", params.ID)
	}
	if params.Author.UserName != "reviewer" {
		t.Errorf("expected author 'reviewer', got %q", params.Author.UserName)
	}
	if params.SelfLink != "https://github.com/org/app/pull/42" {
		t.Errorf("unexpected self link: %q", params.SelfLink)
	}
	if params.Source.DisplayID != "feature" || params.Source.LatestCommit != "abc123" {
		t.Errorf("unexpected source reference: %+v", params.Source)
	}
	if params.Destination.DisplayID != "main" {
		t.Errorf("unexpected destination reference: %+v", params.Destination)
	}
	if params.CreatedDate != created.Unix() || params.UpdatedDate != updated.Unix() {
		t.Errorf("unexpected dates: created %d, updated %d", params.CreatedDate, params.UpdatedDate)
	}
}

func TestConvertToPRParamsMissingFields(t *testing.T) {
	params := convertToPRParams(&github.PullRequest{Number: github.Int(7)})

	if params.ID != 7 {
		t.Errorf("expected ID 7, got %d", params.ID)
	}
	if params.Author.UserName != "unknown" {
		t.Errorf("expected author 'unknown', got %q", params.Author.UserName)
	}
	if params.Source.DisplayID != "" || params.Destination.DisplayID != "" {
		t.Errorf("expected empty references, got %+v / %+v", params.Source, params.Destination)
	}

	if got := convertToPRParams(nil); got.ID != 0 {
		t.Errorf("expected zero params for nil pull request, got %+v", got)
	}
}

func TestSafeReference(t *testing.T) {
	if got := safeReference(nil); got.ID != "" || got.DisplayID != "" || got.LatestCommit != "" {
		t.Errorf("expected zero reference for nil branch, got %+v", got)
	}

	got := safeReference(&github.PullRequestBranch{
		Label: github.String("org:feature"),
		Ref:   github.String("feature"),
		SHA:   github.String("abc123"),
	})
	if got.ID != "org:feature" || got.DisplayID != "feature" || got.LatestCommit != "abc123" {
		t.Errorf("unexpected reference: %+v", got)
	}
}

func TestCommentConversion(t *testing.T) {
	issue := issueCommentToShared(&github.IssueComment{
		ID:   github.Int64(11),
		Body: github.String("general"),
	})
	if issue.ID != 11 || issue.Body != "general" || issue.Path != "" {
		t.Errorf("unexpected conversation comment: %+v", issue)
	}

	review := prCommentToShared(&github.PullRequestComment{
		ID:   github.Int64(12),
		Body: github.String("inline"),
		Path: github.String("src/app.go"),
		Line: github.Int(10),
	})
	if review.ID != 12 || review.Path != "src/app.go" || review.Line != 10 {
		t.Errorf("unexpected review comment: %+v", review)
	}
}
