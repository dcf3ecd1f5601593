package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

func validUploadOptions() RunOptionsUpload {
	return RunOptionsUpload{
		InputPath:   "/tmp/review-result.json",
		URL:         "https://defectdojo.example.com",
		Token:       "secret",
		ProductName: "github.com/acme/widget",
	}
}

func uploadTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Artifacts.S3Bucket = "reviewio-artifacts"
	return cfg
}

func TestValidateUploadArgs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *RunOptionsUpload)
		cfg     *config.Config
		args    []string
		wantErr string
	}{
		{
			name:   "both destinations enabled",
			mutate: func(o *RunOptionsUpload) {},
		},
		{
			name:    "positional arguments rejected",
			mutate:  func(o *RunOptionsUpload) {},
			args:    []string{"extra"},
			wantErr: "no positional arguments",
		},
		{
			name:    "missing input",
			mutate:  func(o *RunOptionsUpload) { o.InputPath = "" },
			wantErr: "'input' flag must be specified",
		},
		{
			name: "both destinations skipped",
			mutate: func(o *RunOptionsUpload) {
				o.SkipS3 = true
				o.SkipDojo = true
			},
			wantErr: "nothing would be uploaded",
		},
		{
			name:    "missing bucket",
			mutate:  func(o *RunOptionsUpload) {},
			cfg:     &config.Config{},
			wantErr: "S3 bucket must be configured",
		},
		{
			name:   "missing bucket tolerated when s3 skipped",
			mutate: func(o *RunOptionsUpload) { o.SkipS3 = true },
			cfg:    &config.Config{},
		},
		{
			name: "missing url",
			mutate: func(o *RunOptionsUpload) {
				o.URL = ""
			},
			wantErr: "'url' flag or the DefectDojo URL configuration",
		},
		{
			name: "missing token",
			mutate: func(o *RunOptionsUpload) {
				o.Token = ""
			},
			wantErr: "DefectDojo token must be provided",
		},
		{
			name: "missing product",
			mutate: func(o *RunOptionsUpload) {
				o.ProductName = ""
			},
			wantErr: "'product' flag must be specified",
		},
		{
			name: "dojo settings ignored when dojo skipped",
			mutate: func(o *RunOptionsUpload) {
				o.SkipDojo = true
				o.URL = ""
				o.Token = ""
				o.ProductName = ""
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			options := validUploadOptions()
			tc.mutate(&options)

			cfg := tc.cfg
			if cfg == nil {
				cfg = uploadTestConfig()
			}

			err := validateUploadArgs(&options, tc.args, cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestResolveUploadDestinations(t *testing.T) {
	cfg := &config.Config{}
	cfg.DefectDojo.URL = "https://defectdojo.example.com"
	cfg.DefectDojo.Token = "configured"

	options := RunOptionsUpload{}
	resolveUploadDestinations(&options, cfg)
	assert.Equal(t, "https://defectdojo.example.com", options.URL)
	assert.Equal(t, "configured", options.Token)

	options = RunOptionsUpload{URL: "https://other.example.com", Token: "flag"}
	resolveUploadDestinations(&options, cfg)
	assert.Equal(t, "https://other.example.com", options.URL)
	assert.Equal(t, "flag", options.Token)
}

func TestResolveUploadDestinationsTokenEnv(t *testing.T) {
	t.Setenv(defectDojoTokenEnv, "from-env")

	options := RunOptionsUpload{}
	resolveUploadDestinations(&options, &config.Config{})
	assert.Equal(t, "from-env", options.Token)
}
