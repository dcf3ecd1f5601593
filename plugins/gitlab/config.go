package main

import (
	"os"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// UpdateConfigFromEnv sets configuration values from environment variables, if they are set.
func UpdateConfigFromEnv(cfg *config.Config) error {
	envVars := map[string]*string{
		"REVIEWIO_GITLAB_USERNAME":         &cfg.GitlabPlugin.Username,
		"REVIEWIO_GITLAB_TOKEN":            &cfg.GitlabPlugin.Token,
		"REVIEWIO_GITLAB_SSH_KEY_PASSWORD": &cfg.GitlabPlugin.SSHKeyPassword,
	}

	for env, val := range envVars {
		if v := os.Getenv(env); v != "" {
			*val = v
		}
	}
	return nil
}
