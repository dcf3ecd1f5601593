package main

import (
	"os"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// UpdateConfigFromEnv sets configuration values from environment variables, if they are set.
func UpdateConfigFromEnv(cfg *config.Config) error {
	envVars := map[string]*string{
		"REVIEWIO_BITBUCKET_USERNAME":         &cfg.BitbucketPlugin.Username,
		"REVIEWIO_BITBUCKET_TOKEN":            &cfg.BitbucketPlugin.Token,
		"REVIEWIO_BITBUCKET_SSH_KEY_PASSWORD": &cfg.BitbucketPlugin.SSHKeyPassword,
	}

	for env, val := range envVars {
		if v := os.Getenv(env); v != "" {
			*val = v
		}
	}
	return nil
}
