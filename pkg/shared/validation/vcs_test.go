package validation

import (
	"testing"

	"github.com/review-io-git/review-io/pkg/shared"
)

func newBaseRequest() shared.VCSRequestBase {
	return shared.VCSRequestBase{
		RepoParam: shared.RepositoryParams{
			Domain:        "bitbucket.example.com",
			Namespace:     "team",
			Repository:    "repo",
			PullRequestID: "42",
		},
		Action: "addReviewComments",
	}
}

func TestValidateAddReviewCommentsArgs_NoContent(t *testing.T) {
	req := &shared.VCSAddReviewCommentsRequest{VCSRequestBase: newBaseRequest()}

	if err := ValidateAddReviewCommentsArgs(req); err == nil || err.Error() != "no comments to post" {
		t.Fatalf("expected no comments error, got %v", err)
	}
}

func TestValidateAddReviewCommentsArgs_AllCommentsEmpty(t *testing.T) {
	req := &shared.VCSAddReviewCommentsRequest{
		VCSRequestBase: newBaseRequest(),
		Comments: []shared.Comment{
			{Body: "   "},
		},
	}

	if err := ValidateAddReviewCommentsArgs(req); err == nil || err.Error() != "no comments to post" {
		t.Fatalf("expected no comments error, got %v", err)
	}
}

func TestValidateAddReviewCommentsArgs_SummaryOnly(t *testing.T) {
	req := &shared.VCSAddReviewCommentsRequest{
		VCSRequestBase: newBaseRequest(),
		Summary:        "  summary provided  ",
	}

	if err := ValidateAddReviewCommentsArgs(req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestValidateAddReviewCommentsArgs_WithComment(t *testing.T) {
	req := &shared.VCSAddReviewCommentsRequest{
		VCSRequestBase: newBaseRequest(),
		Comments: []shared.Comment{
			{Body: "issue body", Path: "src/app.cs", Line: 10},
			{Body: "   "},
		},
	}

	if err := ValidateAddReviewCommentsArgs(req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestValidateAddReviewCommentsArgs_MissingBaseField(t *testing.T) {
	req := &shared.VCSAddReviewCommentsRequest{
		VCSRequestBase: shared.VCSRequestBase{},
		Comments:       []shared.Comment{{Body: "hello"}},
	}

	if err := ValidateAddReviewCommentsArgs(req); err == nil {
		t.Fatal("expected base validation error")
	}
}

func TestValidateAddCommentToPRArgs_RequiresBody(t *testing.T) {
	req := &shared.VCSAddCommentToPRRequest{
		VCSRequestBase: newBaseRequest(),
		Comment:        shared.Comment{Body: "   "},
	}

	if err := ValidateAddCommentToPRArgs(req); err == nil || err.Error() != "comment is required" {
		t.Fatalf("expected comment required error, got %v", err)
	}

	req.Comment.Body = " ok "
	if err := ValidateAddCommentToPRArgs(req); err != nil {
		t.Fatalf("expected trimmed comment to pass, got %v", err)
	}
}

func TestValidateFetchArgs(t *testing.T) {
	req := &shared.VCSFetchRequest{}
	if err := ValidateFetchArgs(req); err == nil {
		t.Fatal("expected error for empty fetch request")
	}

	req = &shared.VCSFetchRequest{
		CloneURL:     "https://bitbucket.example.com/scm/team/repo.git",
		AuthType:     "http",
		TargetFolder: "/tmp/repo",
	}
	if err := ValidateFetchArgs(req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}
