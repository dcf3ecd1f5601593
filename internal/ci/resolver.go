package ci

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Resolution contains CI environment metadata resolved for VCS operations.
type Resolution struct {
	Kind         CIKind
	PluginName   string
	Domain       string
	Namespace    string
	Repository   string
	PullRequest  string
	SourceBranch string
	TargetBranch string
	Hydrated     bool
}

// ResolveFromEnvironment determines the CI kind and collects metadata using the
// process environment. A non-empty providedPlugin is validated and preferred,
// while conflicts with the detected provider are logged. When neither a
// supported plugin is provided nor an environment can be detected, an error is
// returned so callers can prompt for explicit configuration.
func ResolveFromEnvironment(log hclog.Logger, providedPlugin string) (Resolution, error) {
	plugin := strings.TrimSpace(providedPlugin)
	result := Resolution{PluginName: plugin}

	providedKind := CIUnknown
	if plugin != "" {
		parsed, err := ParseCIKind(plugin)
		if err != nil {
			if log != nil {
				log.Warn("unable to interpret vcs option; falling back to CI detection", "vcs", plugin, "error", err)
			}
		} else {
			providedKind = parsed
			result.PluginName = parsed.String()
		}
	}

	detectedKind := DetectCIKind()
	result.Kind = detectedKind

	hydrationKind := detectedKind
	if hydrationKind == CIUnknown {
		hydrationKind = providedKind
	}

	var env CIEnvironment
	hydrated := false
	if hydrationKind != CIUnknown {
		var err error
		env, err = GetCIDefaultEnvVars(hydrationKind)
		if err != nil {
			if log != nil {
				log.Debug("unable to hydrate from ci environment", "kind", hydrationKind.String(), "error", err)
			}
		} else {
			hydrated = true
		}
	}

	if plugin == "" {
		derived := ""
		if hydrated {
			derived = pluginNameForKind(detectedKind, env)
		}
		if derived == "" {
			if log != nil {
				log.Error("unable to detect VCS plugin from CI environment; specify --vcs option")
			}
			return Resolution{}, fmt.Errorf("ci: unable to detect VCS plugin from CI environment; specify --vcs option")
		}
		result.PluginName = derived
		if log != nil {
			log.Info("detected VCS plugin from CI environment", "plugin", result.PluginName)
		}
	} else if providedKind != CIUnknown && detectedKind != CIUnknown && detectedKind != CIJenkins && providedKind != detectedKind {
		if log != nil {
			log.Warn("provided VCS plugin differs from detected CI environment",
				"detected", detectedKind.String(), "provided", result.PluginName)
		}
	}

	if !hydrated {
		return result, nil
	}

	result.Kind = env.Kind
	result.Hydrated = true

	if domain := hostFromEnvironment(env); domain != "" {
		result.Domain = domain
		if log != nil {
			log.Debug("hydrated domain from CI environment", "domain", domain)
		}
	}
	if env.Namespace != "" {
		result.Namespace = env.Namespace
		if log != nil {
			log.Debug("hydrated namespace from CI environment", "namespace", env.Namespace)
		}
	}
	if env.RepositoryName != "" {
		result.Repository = env.RepositoryName
		if log != nil {
			log.Debug("hydrated repository from CI environment", "repository", env.RepositoryName)
		}
	}
	if pr := derivePullRequestID(env.Kind, env); pr != "" {
		result.PullRequest = pr
		if log != nil {
			log.Debug("hydrated pull request id from CI environment", "pr", pr)
		}
	}
	if env.SourceBranch != "" {
		result.SourceBranch = env.SourceBranch
		if log != nil {
			log.Debug("hydrated source branch from CI environment", "branch", env.SourceBranch)
		}
	}
	if env.TargetBranch != "" {
		result.TargetBranch = env.TargetBranch
		if log != nil {
			log.Debug("hydrated target branch from CI environment", "branch", env.TargetBranch)
		}
	}

	return result, nil
}

// pluginNameForKind maps a detected CI provider to the VCS plugin serving it.
// Jenkins carries no VCS identity of its own, so the plugin is derived from
// the repository URL host.
func pluginNameForKind(kind CIKind, env CIEnvironment) string {
	switch kind {
	case CIGitHub, CIGitLab, CIBitbucket:
		return kind.String()
	case CIJenkins:
		for _, src := range []string{env.RepositoryFullPath, env.VCSServerURL} {
			host := hostOf(src)
			switch {
			case strings.Contains(host, "github"):
				return "github"
			case strings.Contains(host, "gitlab"):
				return "gitlab"
			case strings.Contains(host, "bitbucket"), strings.Contains(host, "stash"):
				return "bitbucket"
			}
		}
	}
	return ""
}

func hostFromEnvironment(env CIEnvironment) string {
	sources := []string{env.VCSServerURL, env.RepositoryFullPath}
	for _, src := range sources {
		if host := hostOf(src); host != "" {
			return host
		}
	}
	return ""
}

func hostOf(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if parsed, err := url.Parse(src); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return ""
}

func derivePullRequestID(kind CIKind, env CIEnvironment) string {
	switch kind {
	case CIGitHub, CIBitbucket, CIJenkins:
		if pr := extractPRFromRef(env.Reference); pr != "" {
			return pr
		}
		if allDigits(env.ReferenceName) {
			return env.ReferenceName
		}
	case CIGitLab:
		if strings.HasPrefix(env.Reference, "refs/merge-requests/") && allDigits(env.ReferenceName) {
			return env.ReferenceName
		}
	}
	return ""
}

func extractPRFromRef(ref string) string {
	parts := strings.Split(ref, "/")
	for i := 0; i < len(parts); i++ {
		if parts[i] == "pull" || parts[i] == "merge-requests" {
			if i+1 < len(parts) && allDigits(parts[i+1]) {
				return parts[i+1]
			}
		}
	}
	return ""
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
