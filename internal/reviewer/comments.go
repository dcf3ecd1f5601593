package reviewer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/review-io-git/review-io/internal/review"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/vcsurl"
)

// severityMarkers decorate comment bodies per severity.
var severityMarkers = map[review.Severity]string{
	review.SeverityError:   "🛑",
	review.SeverityWarning: "⚠️",
	review.SeverityInfo:    "ℹ️",
}

// FormatViolationComment renders one violation as a markdown comment body.
func FormatViolationComment(v review.Violation) string {
	marker, ok := severityMarkers[v.Severity]
	if !ok {
		marker = severityMarkers[review.SeverityWarning]
	}
	return fmt.Sprintf("%s **[%s]** %s", marker, v.Severity, v.Message)
}

// PrepareReviewComments converts violations into review comments, keeping the
// order of the parsed result. A violation without line information becomes a
// general comment.
func PrepareReviewComments(result *review.Result) []shared.Comment {
	comments := make([]shared.Comment, 0, len(result.Violations))
	for _, v := range result.Violations {
		comment := shared.Comment{Body: FormatViolationComment(v)}
		if v.Path != "" && v.Line > 0 {
			comment.Path = v.Path
			comment.Line = v.Line
		}
		comments = append(comments, comment)
	}
	return comments
}

// BuildSummary renders the summary comment posted alongside inline comments.
// It returns an empty string when there is nothing to summarize.
func BuildSummary(result *review.Result) string {
	if result.Count() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Review summary\n\n")
	if result.Engine != "" {
		b.WriteString(fmt.Sprintf("> **Engine**: %s\n", result.Engine))
	}
	b.WriteString(fmt.Sprintf("> **Findings**: %s\n", result.Summary()))
	return b.String()
}

// LinkContext carries the repository coordinates used to link summary entries
// to the reviewed code. Ref is the branch the pull request comes from, so the
// links stay valid while the branch moves.
type LinkContext struct {
	VCSPluginName string
	Domain        string
	Namespace     string
	Repository    string
	Ref           string
}

// maxListedViolations caps the violation listing in the summary comment.
const maxListedViolations = 10

// BuildLinkedSummary renders the summary comment followed by a listing of the
// first violations. Entries link to the file at the reviewed ref when the
// coordinates allow it and fall back to plain text when they do not.
func BuildLinkedSummary(result *review.Result, link LinkContext) string {
	summary := BuildSummary(result)
	if summary == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n")
	for i, v := range result.Violations {
		if i == maxListedViolations {
			b.WriteString(fmt.Sprintf("- and %d more\n", len(result.Violations)-maxListedViolations))
			break
		}
		b.WriteString("- ")
		b.WriteString(listEntry(v, link))
		b.WriteString("\n")
	}
	return b.String()
}

// listEntry renders one listing line, linking the file anchor when a permalink
// can be built from the context.
func listEntry(v review.Violation, link LinkContext) string {
	marker, ok := severityMarkers[v.Severity]
	if !ok {
		marker = severityMarkers[review.SeverityWarning]
	}

	if v.Path == "" {
		return fmt.Sprintf("%s %s", marker, v.Message)
	}

	anchor := v.Path
	if v.Line > 0 {
		anchor = fmt.Sprintf("%s:%d", v.Path, v.Line)
	}

	permalink, err := vcsurl.BuildPermalink(vcsurl.PermalinkParams{
		VCSType:   vcsurl.StringToVCSType(link.VCSPluginName),
		Host:      link.Domain,
		Namespace: link.Namespace,
		Project:   link.Repository,
		Ref:       link.Ref,
		File:      v.Path,
		StartLine: v.Line,
	})
	if err != nil {
		return fmt.Sprintf("%s **%s** %s", marker, anchor, v.Message)
	}
	return fmt.Sprintf("%s [%s](%s) %s", marker, anchor, permalink, v.Message)
}

// Fingerprint returns a stable identifier for a review comment used to detect
// violations that were already posted on an earlier run.
func Fingerprint(c shared.Comment) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", c.Path, c.Line, c.Body)))
	return hex.EncodeToString(sum[:])
}

// FilterAlreadyPosted drops comments whose fingerprint matches an existing
// pull request comment and reports how many were dropped. Runs are expected
// to repeat on one pull request, so reposting identical comments is noise.
// A comment that could not be anchored on an earlier run lives on the pull
// request in its general form, so that form is matched as well.
func FilterAlreadyPosted(comments, existing []shared.Comment) ([]shared.Comment, int) {
	posted := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		posted[Fingerprint(c)] = struct{}{}
	}

	fresh := make([]shared.Comment, 0, len(comments))
	skipped := 0
	for _, c := range comments {
		if _, ok := posted[Fingerprint(c)]; ok {
			skipped++
			continue
		}
		if _, ok := posted[Fingerprint(shared.Comment{Body: shared.GeneralCommentBody(c)})]; ok {
			skipped++
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, skipped
}

// AlreadyPosted reports whether a general comment with exactly this body
// already exists on the pull request.
func AlreadyPosted(existing []shared.Comment, body string) bool {
	target := Fingerprint(shared.Comment{Body: body})
	for _, c := range existing {
		if Fingerprint(c) == target {
			return true
		}
	}
	return false
}
