package vcsurl

import (
	"errors"
	"fmt"
	"strings"
)

// Permalink builder errors
var (
	ErrMissingNamespace = errors.New("namespace is required")
	ErrMissingProject   = errors.New("project is required")
	ErrMissingRef       = errors.New("ref (branch, tag, or commit SHA) is required")
	ErrMissingFile      = errors.New("file path is required")
	ErrMissingHost      = errors.New("host is required for Generic/Unknown VCS type (no default available)")
)

// Default public hosts for each VCS type
var defaultHosts = map[VCSType]string{
	Github:    "github.com",
	Gitlab:    "gitlab.com",
	Bitbucket: "bitbucket.org",
}

// PermalinkParams holds parameters for building VCS file permalinks.
type PermalinkParams struct {
	VCSType   VCSType
	Host      string // Optional: defaults to public host for VCSType
	Namespace string
	Project   string
	Ref       string // Branch, tag, or commit SHA
	File      string // Repository-relative file path (forward slashes)
	StartLine int    // 1-based, 0 means no line anchor
	EndLine   int    // 1-based, 0 or equal to StartLine means single line
}

func validatePermalinkParams(p PermalinkParams) error {
	if p.Namespace == "" {
		return ErrMissingNamespace
	}
	if p.Project == "" {
		return ErrMissingProject
	}
	if p.Ref == "" {
		return ErrMissingRef
	}
	if p.File == "" {
		return ErrMissingFile
	}
	return nil
}

func resolveHost(vcsType VCSType, host string) (string, error) {
	if host != "" {
		return host, nil
	}
	if defaultHost, ok := defaultHosts[vcsType]; ok {
		return defaultHost, nil
	}
	return "", ErrMissingHost
}

// normalizeFilePath converts backslashes to forward slashes and trims leading slashes.
func normalizeFilePath(file string) string {
	return strings.TrimLeft(strings.ReplaceAll(file, "\\", "/"), "/")
}

// BuildPermalink generates a VCS file permalink from the given parameters.
//
// Supported VCS types and their URL formats:
//   - GitHub:    https://{host}/{ns}/{proj}/blob/{ref}/{file}#L{start}-L{end}
//   - GitLab:    https://{host}/{ns}/{proj}/-/blob/{ref}/{file}#L{start}-{end}
//   - Bitbucket: https://{host}/projects/{ns}/repos/{proj}/browse/{file}?at={ref}#{start}-{end}
//   - Generic:   Same as GitHub format
//
// For self-hosted instances, provide the Host parameter. If omitted, defaults to
// the public host (github.com, gitlab.com, bitbucket.org).
func BuildPermalink(p PermalinkParams) (string, error) {
	if err := validatePermalinkParams(p); err != nil {
		return "", err
	}

	host, err := resolveHost(p.VCSType, p.Host)
	if err != nil {
		return "", err
	}

	file := normalizeFilePath(p.File)

	switch p.VCSType {
	case Gitlab:
		base := fmt.Sprintf("https://%s/%s/%s/-/blob/%s/%s", host, p.Namespace, p.Project, p.Ref, file)
		return base + buildLineAnchor(Gitlab, p.StartLine, p.EndLine), nil
	case Bitbucket:
		base := fmt.Sprintf("https://%s/projects/%s/repos/%s/browse/%s?at=%s", host, p.Namespace, p.Project, file, p.Ref)
		return base + buildLineAnchor(Bitbucket, p.StartLine, p.EndLine), nil
	default:
		base := fmt.Sprintf("https://%s/%s/%s/blob/%s/%s", host, p.Namespace, p.Project, p.Ref, file)
		return base + buildLineAnchor(Github, p.StartLine, p.EndLine), nil
	}
}

// buildLineAnchor constructs the line anchor portion of a permalink.
// Returns an empty string if startLine <= 0.
func buildLineAnchor(vcsType VCSType, startLine, endLine int) string {
	if startLine <= 0 {
		return ""
	}

	singleLine := endLine <= 0 || endLine == startLine

	switch vcsType {
	case Gitlab:
		if singleLine {
			return fmt.Sprintf("#L%d", startLine)
		}
		return fmt.Sprintf("#L%d-%d", startLine, endLine)
	case Bitbucket:
		if singleLine {
			return fmt.Sprintf("#%d", startLine)
		}
		return fmt.Sprintf("#%d-%d", startLine, endLine)
	default:
		if singleLine {
			return fmt.Sprintf("#L%d", startLine)
		}
		return fmt.Sprintf("#L%d-L%d", startLine, endLine)
	}
}
