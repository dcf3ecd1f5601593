package main

import (
	"os"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// UpdateConfigFromEnv sets configuration values from environment variables, if they are set.
func UpdateConfigFromEnv(cfg *config.Config) error {
	envVars := map[string]*string{
		"REVIEWIO_GITHUB_USERNAME":         &cfg.GithubPlugin.Username,
		"REVIEWIO_GITHUB_TOKEN":            &cfg.GithubPlugin.Token,
		"REVIEWIO_GITHUB_SSH_KEY_PASSWORD": &cfg.GithubPlugin.SSHKeyPassword,
	}

	for env, val := range envVars {
		if v := os.Getenv(env); v != "" {
			*val = v
		}
	}
	return nil
}
