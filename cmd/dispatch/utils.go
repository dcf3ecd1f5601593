package dispatch

import (
	"fmt"
	"os"
	"strings"
)

// buildCheckCommand renders the check invocation the job runs.
func buildCheckCommand(options *RunOptionsDispatch) []string {
	command := []string{"reviewio", "check"}

	appendFlag := func(flag, value string) {
		if value != "" {
			command = append(command, flag, value)
		}
	}
	appendFlag("--vcs", options.VCSPluginName)
	appendFlag("--engine", options.EnginePluginName)
	appendFlag("--domain", options.Domain)
	appendFlag("--namespace", options.Namespace)
	appendFlag("--repository", options.Repository)
	appendFlag("--pull-request-id", options.PullRequestID)
	appendFlag("--branch", options.Branch)
	appendFlag("--target-branch", options.TargetBranch)
	appendFlag("--auth-type", options.AuthType)
	appendFlag("--summary", options.Summary)
	if options.NoComments {
		command = append(command, "--no-comments")
	}
	return command
}

// buildJobEnv resolves the env passthrough flags into the job environment.
// KEY copies the local value, KEY=VALUE sets one explicitly. The job always
// runs in CI mode unless overridden.
func buildJobEnv(envFlags []string) (map[string]string, error) {
	env := map[string]string{"REVIEWIO_MODE": "CI"}

	for _, entry := range envFlags {
		if key, value, found := strings.Cut(entry, "="); found {
			env[key] = value
			continue
		}
		value, ok := os.LookupEnv(entry)
		if !ok {
			return nil, fmt.Errorf("environment variable %q is not set locally", entry)
		}
		env[entry] = value
	}
	return env, nil
}
