package main

import (
	"time"

	"github.com/xanzy/go-gitlab"

	"github.com/review-io-git/review-io/pkg/shared"
)

// safeTime safely dereferences a time pointer, returning 0 if the pointer is nil.
func safeTime(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// safeUser converts a GitLab user to a shared.User, handling nil safely.
func safeUser(user *gitlab.BasicUser) shared.User {
	if user == nil || len(user.Username) == 0 {
		return shared.User{UserName: "unknown"}
	}
	return shared.User{UserName: user.Username}
}

// convertToPRParams converts a GitLab MergeRequest object to shared.PRParams.
func convertToPRParams(mr *gitlab.MergeRequest) shared.PRParams {
	if mr == nil {
		return shared.PRParams{}
	}

	selfLink := "no-link-available"
	if len(mr.WebURL) > 0 {
		selfLink = mr.WebURL
	}

	return shared.PRParams{
		ID:          mr.IID,
		Title:       mr.Title,
		Description: mr.Description,
		State:       mr.State,
		Author:      safeUser(mr.Author),
		SelfLink:    selfLink,
		// The API exposes branch names only, so they stand in for refs.
		Source: shared.Reference{
			ID:           mr.SourceBranch,
			DisplayID:    mr.SourceBranch,
			LatestCommit: mr.DiffRefs.HeadSha,
		},
		Destination: shared.Reference{
			ID:           mr.TargetBranch,
			DisplayID:    mr.TargetBranch,
			LatestCommit: mr.DiffRefs.BaseSha,
		},
		CreatedDate: safeTime(mr.CreatedAt),
		UpdatedDate: safeTime(mr.UpdatedAt),
	}
}

// noteToComment converts a merge request note into a shared comment. Diff
// notes keep their file position.
func noteToComment(note *gitlab.Note) shared.Comment {
	comment := shared.Comment{
		ID:   note.ID,
		Body: note.Body,
	}
	if note.Position != nil {
		comment.Path = note.Position.NewPath
		comment.Line = note.Position.NewLine
	}
	return comment
}
