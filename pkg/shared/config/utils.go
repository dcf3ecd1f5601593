package config

import (
	"path/filepath"
	"reflect"
	"strings"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	fields := strings.Split(fieldPath, ".")
	val := reflect.ValueOf(config)

	for _, field := range fields {
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	// Check if the field is a pointer to a bool and is not nil
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		// Handle non-pointer bool directly
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// IsCI reports whether reviewio runs in CI mode.
func IsCI(cfg *Config) bool {
	return cfg != nil && cfg.Reviewio.Mode == "CI"
}

// GetReviewioHome returns the home folder from the configuration.
func GetReviewioHome(cfg *Config) string {
	return cfg.Reviewio.HomeFolder
}

// GetReviewioPluginsHome returns the plugins folder from the configuration.
func GetReviewioPluginsHome(cfg *Config) string {
	return cfg.Reviewio.PluginsFolder
}

// GetReviewioProjectsHome returns the projects folder from the configuration.
func GetReviewioProjectsHome(cfg *Config) string {
	return cfg.Reviewio.ProjectsFolder
}

// GetReviewioResultsHome returns the results folder from the configuration.
func GetReviewioResultsHome(cfg *Config) string {
	return cfg.Reviewio.ResultsFolder
}

// GetReviewioArtifactsHome returns the artifacts folder from the configuration.
func GetReviewioArtifactsHome(cfg *Config) string {
	return cfg.Reviewio.ArtifactsFolder
}

// GetReviewioTempHome returns the temp folder from the configuration.
func GetReviewioTempHome(cfg *Config) string {
	return cfg.Reviewio.TempFolder
}

// GetRepositoryPath builds the on-disk location of a fetched repository,
// laid out as <projects>/<domain>/<namespace>/<repository>.
func GetRepositoryPath(cfg *Config, domain, namespace, repository string) string {
	return filepath.Join(
		GetReviewioProjectsHome(cfg),
		strings.ToLower(domain),
		strings.ToLower(namespace),
		strings.ToLower(repository),
	)
}
