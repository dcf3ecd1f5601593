package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config represents the global configuration for the reviewio core and its plugins.
// The same structure is serialized and handed to plugins during their Setup phase.
type Config struct {
	Reviewio        Reviewio        `yaml:"reviewio"`
	Logger          Logger          `yaml:"logger"`
	HTTPClient      HTTPClient      `yaml:"http_client"`
	GitClient       GitClient       `yaml:"git_client"`
	BitbucketPlugin BitbucketPlugin `yaml:"bitbucket_plugin"`
	GithubPlugin    GithubPlugin    `yaml:"github_plugin"`
	GitlabPlugin    GitlabPlugin    `yaml:"gitlab_plugin"`
	SonarqubePlugin SonarqubePlugin `yaml:"sonarqube_plugin"`
	Dispatch        Dispatch        `yaml:"dispatch"`
	Artifacts       Artifacts       `yaml:"artifacts"`
	DefectDojo      DefectDojo      `yaml:"defectdojo"`
}

// Reviewio holds core folder layout and execution mode settings.
type Reviewio struct {
	HomeFolder      string `yaml:"home_folder"`
	PluginsFolder   string `yaml:"plugins_folder"`
	ProjectsFolder  string `yaml:"projects_folder"`
	ResultsFolder   string `yaml:"results_folder"`
	ArtifactsFolder string `yaml:"artifacts_folder"`
	TempFolder      string `yaml:"temp_folder"`
	Mode            string `yaml:"mode"`
}

// Logger holds logging settings for the core and plugins.
type Logger struct {
	Level string `yaml:"level"`
}

// HTTPClient holds settings for outgoing REST calls made by the core and plugins.
type HTTPClient struct {
	Debug            bool            `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

// TLSClientConfig holds TLS verification settings for HTTP clients.
type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

// Proxy holds outbound proxy settings.
type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GitClient holds settings for git operations performed by VCS plugins.
type GitClient struct {
	Timeout     time.Duration `yaml:"timeout"`
	Depth       int           `yaml:"depth"`
	InsecureTLS *bool         `yaml:"insecure_tls"`
}

// BitbucketPlugin holds credentials for the Bitbucket VCS plugin.
// Values normally come from the environment rather than the YAML file.
type BitbucketPlugin struct {
	Username       string `yaml:"username"`
	Token          string `yaml:"token"`
	SSHKeyPassword string `yaml:"ssh_key_password"`
}

// GithubPlugin holds credentials for the GitHub VCS plugin.
type GithubPlugin struct {
	Username       string `yaml:"username"`
	Token          string `yaml:"token"`
	SSHKeyPassword string `yaml:"ssh_key_password"`
}

// GitlabPlugin holds credentials for the GitLab VCS plugin.
type GitlabPlugin struct {
	Username       string `yaml:"username"`
	Token          string `yaml:"token"`
	SSHKeyPassword string `yaml:"ssh_key_password"`
}

// SonarqubePlugin holds settings for the SonarQube analysis engine plugin.
type SonarqubePlugin struct {
	ScannerBinary  string `yaml:"scanner_binary"`
	PropertiesFile string `yaml:"properties_file"`
}

// Dispatch holds settings for remote review jobs scheduled on Kubernetes.
type Dispatch struct {
	Kubeconfig   string        `yaml:"kubeconfig"`
	Namespace    string        `yaml:"namespace"`
	Image        string        `yaml:"image"`
	SecretName   string        `yaml:"secret_name"`
	JobTTL       time.Duration `yaml:"job_ttl"`
	PollInterval time.Duration `yaml:"poll_interval"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	InCluster    bool          `yaml:"in_cluster"`
}

// Artifacts holds settings for the S3 artifact store.
type Artifacts struct {
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
}

// DefectDojo holds settings for exporting review results to a DefectDojo instance.
type DefectDojo struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// ValidateConfigPath ensures the given path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file from configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the global configuration from configPath.
// A missing file is not an error; defaults and environment variables take over.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
	}

	return cfg, nil
}
