package main

import (
	"testing"
	"time"

	"github.com/xanzy/go-gitlab"

	"github.com/review-io-git/review-io/pkg/shared"
)

func sharedRepoParams() shared.RepositoryParams {
	return shared.RepositoryParams{
		Domain:        "gitlab.example.com",
		Namespace:     "org",
		Repository:    "app",
		PullRequestID: "42",
	}
}

func TestConvertToPRParams(t *testing.T) {
	created := time.Unix(1700000000, 0)
	updated := time.Unix(1700000100, 0)
	mr := &gitlab.MergeRequest{
		IID:          42,
		Title:        "Add parser",
		Description:  "description",
		State:        "opened",
		Author:       &gitlab.BasicUser{Username: "reviewer"},
		WebURL:       "https://gitlab.example.com/org/app/-/merge_requests/42",
		SourceBranch: "feature",
		TargetBranch: "main",
		CreatedAt:    &created,
		UpdatedAt:    &updated,
	}
	mr.DiffRefs.BaseSha = "def456"
	mr.DiffRefs.HeadSha = "abc123"

	params := convertToPRParams(mr)

	if params.ID != 42 {
		t.Errorf("expected ID 42, got %d", params.ID)
	}
	if params.Author.UserName != "reviewer" {
		t.Errorf("expected author 'reviewer', got %q", params.Author.UserName)
	}
	if params.SelfLink != "https://gitlab.example.com/org/app/-/merge_requests/42" {
		t.Errorf("unexpected self link: %q", params.SelfLink)
	}
	if params.Source.DisplayID != "feature" || params.Source.LatestCommit != "abc123" {
		t.Errorf("unexpected source reference: %+v", params.Source)
	}
	if params.Destination.DisplayID != "main" || params.Destination.LatestCommit != "def456" {
		t.Errorf("unexpected destination reference: %+v", params.Destination)
	}
	if params.CreatedDate != created.Unix() || params.UpdatedDate != updated.Unix() {
		t.Errorf("unexpected dates: created %d, updated %d", params.CreatedDate, params.UpdatedDate)
	}
}

func TestConvertToPRParamsMissingFields(t *testing.T) {
	params := convertToPRParams(&gitlab.MergeRequest{IID: 7, State: "opened"})

	if params.Author.UserName != "unknown" {
		t.Errorf("expected author 'unknown', got %q", params.Author.UserName)
	}
	if params.SelfLink != "no-link-available" {
		t.Errorf("expected self link placeholder, got %q", params.SelfLink)
	}

	if got := convertToPRParams(nil); got.ID != 0 {
		t.Errorf("expected zero params for nil merge request, got %+v", got)
	}
}

func TestNoteToComment(t *testing.T) {
	inline := noteToComment(&gitlab.Note{
		ID:   11,
		Body: "inline",
		Position: &gitlab.NotePosition{
			NewPath: "src/app.go",
			NewLine: 10,
		},
	})
	if inline.ID != 11 || inline.Path != "src/app.go" || inline.Line != 10 {
		t.Errorf("unexpected diff note conversion: %+v", inline)
	}

	general := noteToComment(&gitlab.Note{ID: 12, Body: "general"})
	if general.ID != 12 || general.Path != "" || general.Line != 0 {
		t.Errorf("unexpected plain note conversion: %+v", general)
	}
}

func TestProjectID(t *testing.T) {
	pid := projectID(sharedRepoParams())
	if pid != "org/app" {
		t.Errorf("expected project ID 'org/app', got %q", pid)
	}
}

func TestMergeRequestIID(t *testing.T) {
	repo := sharedRepoParams()

	iid, err := mergeRequestIID(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iid != 42 {
		t.Errorf("expected IID 42, got %d", iid)
	}

	repo.PullRequestID = "not-a-number"
	if _, err := mergeRequestIID(repo); err == nil {
		t.Error("expected error for a non-numeric IID")
	}
}
