package shared

import "fmt"

// Statuses recorded in CommentOutcome by VCS plugins.
const (
	// CommentStatusPosted marks a comment delivered the way it was requested.
	CommentStatusPosted = "POSTED"
	// CommentStatusFallback marks an inline comment that could not be anchored
	// and was posted as a general comment instead.
	CommentStatusFallback = "FALLBACK"
	// CommentStatusFailed marks a comment the VCS rejected.
	CommentStatusFailed = "FAILED"
)

// GeneralCommentBody renders a comment as a general pull request comment,
// folding the file anchor into the text. Plugins use it when an inline
// comment cannot be placed, for example when the line is outside the diff.
func GeneralCommentBody(c Comment) string {
	switch {
	case c.Path != "" && c.Line > 0:
		return fmt.Sprintf("**%s:%d**\n\n%s", c.Path, c.Line, c.Body)
	case c.Path != "":
		return fmt.Sprintf("**%s**\n\n%s", c.Path, c.Body)
	default:
		return c.Body
	}
}
