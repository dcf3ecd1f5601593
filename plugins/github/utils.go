package main

import (
	"time"

	"github.com/google/go-github/v47/github"

	"github.com/review-io-git/review-io/pkg/shared"
)

// safeString safely dereferences a string pointer, returning an empty string if the pointer is nil.
func safeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// safeTime safely dereferences a time pointer, returning 0 if the pointer is nil.
func safeTime(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// safeUser converts a GitHub user to a shared.User, handling nil safely.
func safeUser(user *github.User) shared.User {
	if user == nil || user.Login == nil {
		return shared.User{UserName: "unknown"}
	}
	return shared.User{UserName: *user.Login}
}

// safeReference converts a GitHub branch reference to a shared.Reference, handling nil safely.
func safeReference(ref *github.PullRequestBranch) shared.Reference {
	if ref == nil {
		return shared.Reference{}
	}
	return shared.Reference{
		ID:           safeString(ref.Label),
		DisplayID:    safeString(ref.Ref),
		LatestCommit: safeString(ref.SHA),
	}
}

// convertToPRParams converts a GitHub PullRequest object to shared.PRParams.
func convertToPRParams(pr *github.PullRequest) shared.PRParams {
	if pr == nil {
		return shared.PRParams{}
	}

	return shared.PRParams{
		ID:          pr.GetNumber(),
		Title:       safeString(pr.Title),
		Description: safeString(pr.Body),
		State:       safeString(pr.State),
		Author:      safeUser(pr.User),
		SelfLink:    safeString(pr.HTMLURL),
		Source:      safeReference(pr.Head),
		Destination: safeReference(pr.Base),
		CreatedDate: safeTime(pr.CreatedAt),
		UpdatedDate: safeTime(pr.UpdatedAt),
	}
}

// issueCommentToShared converts a conversation comment.
func issueCommentToShared(c *github.IssueComment) shared.Comment {
	return shared.Comment{
		ID:   int(c.GetID()),
		Body: c.GetBody(),
	}
}

// prCommentToShared converts an inline review comment, keeping its anchor.
func prCommentToShared(c *github.PullRequestComment) shared.Comment {
	return shared.Comment{
		ID:   int(c.GetID()),
		Body: c.GetBody(),
		Path: c.GetPath(),
		Line: c.GetLine(),
	}
}
