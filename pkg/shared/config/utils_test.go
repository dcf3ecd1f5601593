package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetThen(t *testing.T) {
	assert.Equal(t, 5, SetThen(0, 5))
	assert.Equal(t, 7, SetThen(7, 5))
	assert.Equal(t, "fallback", SetThen("", "fallback"))
	assert.Equal(t, "value", SetThen("value", "fallback"))
	assert.Equal(t, 10*time.Second, SetThen(time.Duration(0), 10*time.Second))
	assert.Equal(t, time.Minute, SetThen(time.Minute, 10*time.Second))
}

func TestGetBoolValue(t *testing.T) {
	verify := false
	cfg := &Config{
		HTTPClient: HTTPClient{
			Debug:           true,
			TLSClientConfig: TLSClientConfig{Verify: &verify},
		},
	}

	assert.False(t, GetBoolValue(cfg, "HTTPClient.TLSClientConfig.Verify", true))
	assert.True(t, GetBoolValue(&Config{}, "HTTPClient.TLSClientConfig.Verify", true))
	assert.True(t, GetBoolValue(cfg, "HTTPClient.Debug", false))
	assert.True(t, GetBoolValue(cfg, "Missing.Field", true))
	assert.False(t, GetBoolValue(nil, "HTTPClient.Debug", false))
}

func TestGetRepositoryPath(t *testing.T) {
	cfg := &Config{}
	cfg.Reviewio.ProjectsFolder = "/home/user/.reviewio/projects"

	got := GetRepositoryPath(cfg, "Bitbucket.Example.com", "TEAM", "Repo")
	want := filepath.Join("/home/user/.reviewio/projects", "bitbucket.example.com", "team", "repo")
	assert.Equal(t, want, got)
}

func TestBuildRestyConfigDefaults(t *testing.T) {
	restyConfig := BuildRestyConfig(&Config{})

	assert.Equal(t, 5, restyConfig.RetryCount)
	assert.Equal(t, 30*time.Second, restyConfig.Timeout)
	assert.False(t, restyConfig.Debug)
	assert.False(t, restyConfig.TLSClientConfig.InsecureSkipVerify)
	assert.Empty(t, restyConfig.Proxy)
}

func TestBuildRestyConfigOverrides(t *testing.T) {
	verify := false
	cfg := &Config{
		HTTPClient: HTTPClient{
			Debug:           true,
			RetryCount:      2,
			Timeout:         3 * time.Second,
			TLSClientConfig: TLSClientConfig{Verify: &verify},
			Proxy:           Proxy{Host: "http://proxy.local", Port: 3128},
		},
	}

	restyConfig := BuildRestyConfig(cfg)

	assert.True(t, restyConfig.Debug)
	assert.Equal(t, 2, restyConfig.RetryCount)
	assert.Equal(t, 3*time.Second, restyConfig.Timeout)
	assert.True(t, restyConfig.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, "http://proxy.local:3128", restyConfig.Proxy)
}
