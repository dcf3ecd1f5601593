package vcsurl

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

type Protocol int

const (
	SSH Protocol = iota
	HTTP
)

type VCSType int

const (
	UnknownVCS VCSType = iota // UnknownVCS means the type should be determined from the URL
	GenericVCS                // GenericVCS means a generic handler is used
	Github                    // Github means that the VCS is GitHub
	Gitlab                    // Gitlab means that the VCS is GitLab
	Bitbucket                 // Bitbucket means that the VCS is Bitbucket Server
)

// StringToVCSType converts a plugin name to a VCSType.
func StringToVCSType(s string) VCSType {
	switch s {
	case "github":
		return Github
	case "gitlab":
		return Gitlab
	case "bitbucket":
		return Bitbucket
	case "generic":
		return GenericVCS
	default:
		return UnknownVCS
	}
}

var validSchemes = []string{"http", "https", "ssh"}

func isValidScheme(scheme string) bool {
	for _, validScheme := range validSchemes {
		if scheme == validScheme {
			return true
		}
	}
	return false
}

// VCSURL represents a parsed VCS URL.
type VCSURL struct {
	VCSType       VCSType
	Namespace     string
	Repository    string
	Branch        string
	PullRequestId string
	HTTPRepoLink  string
	SSHRepoLink   string
	ParsedURL     *url.URL
	Raw           string
}

// Protocol returns the protocol of the VCS URL (HTTP or SSH).
func (u *VCSURL) Protocol() Protocol {
	if u.ParsedURL.Scheme == "http" || u.ParsedURL.Scheme == "https" {
		return HTTP
	}
	return SSH
}

// GetPathDirs splits the URL path into non-empty segments.
func GetPathDirs(path string) []string {
	var pathDirs []string
	for _, dir := range strings.Split(path, "/") {
		if dir != "" {
			pathDirs = append(pathDirs, dir)
		}
	}
	return pathDirs
}

// determineVCSType determines the VCS type based on the hostname.
func determineVCSType(host string) (VCSType, error) {
	switch {
	case strings.Contains(host, "github"):
		return Github, nil
	case strings.Contains(host, "gitlab"):
		return Gitlab, nil
	case strings.Contains(host, "bitbucket"):
		return Bitbucket, nil
	default:
		return GenericVCS, fmt.Errorf("unknown VCS type for host: %q", host)
	}
}

// Parse parses a VCS URL, determining the VCS type from the hostname.
func Parse(raw string) (*VCSURL, error) {
	return ParseForVCSType(raw, UnknownVCS)
}

// ParseForVCSType parses a VCS URL using the handler for the given VCS type.
func ParseForVCSType(raw string, vcsType VCSType) (*VCSURL, error) {
	var vcsURL VCSURL
	vcsURL.Raw = raw

	// preparse scp-like URLs: "git@<host>:<path>"
	spec := raw
	if parts := regexp.MustCompile(`^git@([^:]+)\:(.*)$`).FindStringSubmatch(spec); len(parts) == 3 {
		spec = fmt.Sprintf("ssh://%s/%s", parts[1], parts[2])
	}

	spec = strings.TrimSuffix(spec, ".git")

	parsedURL, err := url.ParseRequestURI(spec)
	if err != nil {
		return nil, err
	}
	vcsURL.ParsedURL = parsedURL

	if !isValidScheme(vcsURL.ParsedURL.Scheme) {
		return nil, fmt.Errorf("invalid scheme: %q", vcsURL.Raw)
	}

	effectiveVCSType := vcsType
	if effectiveVCSType == UnknownVCS {
		effectiveVCSType, _ = determineVCSType(vcsURL.ParsedURL.Hostname())
	}
	vcsURL.VCSType = effectiveVCSType

	switch effectiveVCSType {
	case Bitbucket:
		return parseBitbucket(vcsURL)
	case Github:
		return parseGithub(vcsURL)
	case Gitlab:
		return parseGitlab(vcsURL)
	default:
		return parseGeneric(vcsURL)
	}
}

// parseGeneric assumes the conventional <namespace>/<repository> path layout.
func parseGeneric(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	switch {
	case len(pathDirs) == 0:
		return &u, nil
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	default:
		u.Namespace = path.Join(pathDirs[0 : len(pathDirs)-1]...)
		u.Repository = pathDirs[len(pathDirs)-1]
		buildGenericURLs(&u)
		return &u, nil
	}
}

// parseGithub processes GitHub URLs to extract repository information.
func parseGithub(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	switch {
	// Whole VCS - https://github.com/
	case len(pathDirs) == 0:
		return &u, nil
	// Whole organization - https://github.com/<org>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	// PR URL - https://github.com/<org>/<repo>/pull/<id>
	// Branch URL - https://github.com/<org>/<repo>/tree/<branch>
	case len(pathDirs) > 3:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		if pathDirs[2] == "pull" {
			u.PullRequestId = pathDirs[3]
		} else if pathDirs[2] == "tree" {
			u.Branch = strings.Join(pathDirs[3:], "/")
		}
		buildGenericURLs(&u)
		return &u, nil
	// Certain repo - https://github.com/<org>/<repo>
	case len(pathDirs) > 1:
		u.Namespace = pathDirs[0]
		u.Repository = pathDirs[1]
		buildGenericURLs(&u)
		return &u, nil
	default:
		return &u, fmt.Errorf("invalid GitHub URL: %q", u.Raw)
	}
}

// parseGitlab processes GitLab URLs, including nested groups, MR and branch URLs.
func parseGitlab(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)

	// Search for "merge_requests" or "tree" markers after the "-" separator
	mergeRequestIndex, branchIndex := -1, -1
	for i := 3; i < len(pathDirs); i++ {
		if pathDirs[i] == "merge_requests" {
			mergeRequestIndex = i
			break
		} else if pathDirs[i] == "tree" {
			branchIndex = i
			break
		}
	}

	switch {
	// Whole VCS - https://gitlab.com/
	case len(pathDirs) == 0:
		return &u, nil
	// Root group - https://gitlab.com/<group>
	case len(pathDirs) == 1:
		u.Namespace = pathDirs[0]
		return &u, nil
	case len(pathDirs) >= 2:
		if mergeRequestIndex > 2 && mergeRequestIndex+1 < len(pathDirs) && pathDirs[mergeRequestIndex-1] == "-" {
			// MR URL - https://gitlab.com/<group>/.../<project>/-/merge_requests/<id>
			u.Namespace = path.Join(pathDirs[:mergeRequestIndex-2]...)
			u.Repository = pathDirs[mergeRequestIndex-2]
			u.PullRequestId = pathDirs[mergeRequestIndex+1]
		} else if branchIndex > 2 && pathDirs[branchIndex-1] == "-" {
			// Branch URL - https://gitlab.com/<group>/<project>/-/tree/<branch>
			u.Namespace = path.Join(pathDirs[:branchIndex-2]...)
			u.Repository = pathDirs[branchIndex-2]
			u.Branch = strings.Join(pathDirs[branchIndex+1:], "/")
		} else {
			u.Namespace = path.Join(pathDirs[:len(pathDirs)-1]...)
			u.Repository = pathDirs[len(pathDirs)-1]
		}

		buildGenericURLs(&u)
		return &u, nil
	default:
		return &u, fmt.Errorf("invalid GitLab URL: %q", u.Raw)
	}
}

// parseBitbucket processes Bitbucket Server URLs in Web UI, SCM and SSH formats.
func parseBitbucket(u VCSURL) (*VCSURL, error) {
	pathDirs := GetPathDirs(u.ParsedURL.Path)
	queryParams := u.ParsedURL.Query()

	switch {
	// Whole VCS - https://bitbucket.example.com/
	case len(pathDirs) == 0:
		return &u, nil
	// Whole project from a Web UI URL - https://bitbucket.example.com/projects/<project>
	case len(pathDirs) == 2 && pathDirs[0] == "projects" && u.Protocol() == HTTP:
		u.Namespace = pathDirs[1]
		return &u, nil
	// PR URL - https://bitbucket.example.com/projects/<project>/repos/<repo>/pull-requests/<id>
	case len(pathDirs) > 5 && pathDirs[0] == "projects" && pathDirs[4] == "pull-requests" && u.Protocol() == HTTP:
		u.Namespace = pathDirs[1]
		u.Repository = pathDirs[3]
		u.PullRequestId = pathDirs[5]
		buildBitbucketURLs(&u, "")
		return &u, nil
	// Repo from a Web UI URL - https://bitbucket.example.com/projects/<project>/repos/<repo>/browse?at=<ref>
	case len(pathDirs) > 3 && pathDirs[0] == "projects" && pathDirs[2] == "repos" && u.Protocol() == HTTP:
		u.Namespace = pathDirs[1]
		u.Repository = pathDirs[3]
		if refParam, exists := queryParams["at"]; exists && len(refParam) > 0 {
			u.Branch = refParam[0]
		}
		buildBitbucketURLs(&u, "")
		return &u, nil
	// SCM path - https://bitbucket.example.com/scm/<project>/<repo>.git
	case len(pathDirs) >= 2 && u.Protocol() == HTTP && pathDirs[0] == "scm":
		u.Namespace = pathDirs[1]
		if len(pathDirs) > 2 {
			u.Repository = pathDirs[len(pathDirs)-1]
			buildBitbucketURLs(&u, "")
		}
		return &u, nil
	// SSH path - ssh://git@bitbucket.example.com:7989/<project>/<repo>.git
	case u.Protocol() == SSH:
		u.Namespace = pathDirs[0]
		if len(pathDirs) > 1 {
			u.Repository = pathDirs[len(pathDirs)-1]
			// User can override the port in the ssh scheme format of URL
			buildBitbucketURLs(&u, u.ParsedURL.Port())
		}
		return &u, nil
	default:
		return &u, fmt.Errorf("invalid Bitbucket URL: %q", u.Raw)
	}
}

// buildGenericURLs sets the HTTP and SSH URLs for repositories.
func buildGenericURLs(u *VCSURL) {
	u.HTTPRepoLink = fmt.Sprintf("https://%s/%s/%s", u.ParsedURL.Hostname(), u.Namespace, u.Repository)
	u.SSHRepoLink = fmt.Sprintf("ssh://git@%s/%s/%s.git", u.ParsedURL.Hostname(), u.Namespace, u.Repository)
}

// buildBitbucketURLs sets the HTTP and SSH URLs for Bitbucket Server repositories.
// The default SSH port 7989 is used unless a port override is given.
func buildBitbucketURLs(u *VCSURL, port string) {
	if port == "" {
		port = "7989"
	}
	u.HTTPRepoLink = fmt.Sprintf("https://%s/projects/%s/repos/%s", u.ParsedURL.Hostname(), u.Namespace, u.Repository)
	u.SSHRepoLink = fmt.Sprintf("ssh://git@%s:%s/%s/%s.git", u.ParsedURL.Hostname(), port, u.Namespace, u.Repository)
}
