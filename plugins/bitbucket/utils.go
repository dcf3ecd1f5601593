package main

import (
	"github.com/review-io-git/review-io/internal/bitbucket"
	"github.com/review-io-git/review-io/pkg/shared"
)

// convertToPRParams converts the internal PullRequest type to the external PRParams type.
func convertToPRParams(pr *bitbucket.PullRequest) shared.PRParams {
	if pr == nil {
		return shared.PRParams{}
	}

	params := shared.PRParams{
		ID:          pr.ID,
		Title:       pr.Title,
		Description: pr.Description,
		State:       pr.State,
		Source: shared.Reference{
			ID:           pr.FromReference.ID,
			DisplayID:    pr.FromReference.DisplayID,
			LatestCommit: pr.FromReference.LatestCommit,
		},
		Destination: shared.Reference{
			ID:           pr.ToReference.ID,
			DisplayID:    pr.ToReference.DisplayID,
			LatestCommit: pr.ToReference.LatestCommit,
		},
		CreatedDate: pr.CreatedDate,
		UpdatedDate: pr.UpdatedDate,
	}
	if pr.Author != nil {
		params.Author = shared.User{UserName: pr.Author.User.Name}
	}
	if len(pr.Links.Self) > 0 {
		params.SelfLink = pr.Links.Self[0].Href
	}
	return params
}

// commentsFromActivities converts comment activities into shared comments.
// Anchored comments keep their file position.
func commentsFromActivities(activities []bitbucket.Activity) []shared.Comment {
	comments := make([]shared.Comment, 0, len(activities))
	for _, activity := range activities {
		if activity.Comment == nil {
			continue
		}
		comment := shared.Comment{
			ID:   activity.Comment.ID,
			Body: activity.Comment.Text,
		}
		if activity.CommentAnchor != nil {
			comment.Path = activity.CommentAnchor.Path
			comment.Line = activity.CommentAnchor.Line
		}
		comments = append(comments, comment)
	}
	return comments
}
