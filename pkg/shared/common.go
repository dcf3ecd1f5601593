package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/spf13/pflag"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

const (
	PluginTypeVCS    string = "vcs"
	PluginTypeEngine string = "engine"
)

// HandshakeConfig is shared between the core and every plugin binary.
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "REVIEWIO_CORE",
	MagicCookieValue: "f3a1c2b4d59e07c68ba12ef45cd3908b7a65d410",
}

var PluginMap = map[string]plugin.Plugin{
	PluginTypeVCS:    &VCSPlugin{},
	PluginTypeEngine: &EnginePlugin{},
}

// WithPlugin launches the named plugin binary, dispenses the requested plugin
// type and hands the raw implementation to f. The plugin process is killed
// when f returns.
func WithPlugin(cfg *config.Config, logger hclog.Logger, pluginType string, pluginName string, f func(interface{}) error) error {
	pluginPath := filepath.Join(config.GetReviewioPluginsHome(cfg), pluginName, pluginName)
	if _, err := os.Stat(pluginPath); err != nil {
		return fmt.Errorf("plugin %q is not installed at %q: %w", pluginName, pluginPath, err)
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(pluginPath),
		Logger:          logger,
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return fmt.Errorf("failed to start plugin %q: %w", pluginName, err)
	}

	raw, err := rpcClient.Dispense(pluginType)
	if err != nil {
		return fmt.Errorf("failed to dispense plugin %q of type %q: %w", pluginName, pluginType, err)
	}

	return f(raw)
}

// SetupPlugin dispenses and configures a plugin implementing a Setup method,
// then hands it to f. It saves callers from repeating the type switch.
func SetupPlugin(cfg *config.Config, logger hclog.Logger, pluginType string, pluginName string, f func(interface{}) error) error {
	return WithPlugin(cfg, logger, pluginType, pluginName, func(raw interface{}) error {
		var err error
		switch p := raw.(type) {
		case VCS:
			_, err = p.Setup(*cfg)
		case Engine:
			_, err = p.Setup(*cfg)
		default:
			return fmt.Errorf("plugin %q of type %q does not support setup", pluginName, pluginType)
		}
		if err != nil {
			return fmt.Errorf("plugin %q setup failed: %w", pluginName, err)
		}
		return f(raw)
	})
}

// ForEveryStringWithBoundedGoroutines runs f over values with at most limit
// goroutines in flight and waits for all of them to finish.
func ForEveryStringWithBoundedGoroutines(limit int, values []interface{}, f func(i int, value interface{})) {
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, value := range values {
		guard <- struct{}{} // would block if guard channel is already filled
		wg.Add(1)
		go func(i int, value interface{}) {
			defer wg.Done()
			f(i, value)
			<-guard
		}(i, value)
	}
	wg.Wait()
}

// HasFlags reports whether any flag in the set was explicitly changed.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) {
		changed = true
	})
	return changed
}

// GetPluginVersions scans the plugins folder and returns metadata for every
// installed plugin of the given type. An empty pluginType returns all of them.
func GetPluginVersions(pluginsDir, pluginType string) map[string]PluginMeta {
	pluginsMeta := map[string]PluginMeta{}

	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return pluginsMeta
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		versionFile := filepath.Join(pluginsDir, entry.Name(), "VERSION")
		content, err := os.ReadFile(versionFile)
		if err != nil {
			continue
		}

		var meta PluginMeta
		if err := json.Unmarshal(content, &meta); err != nil {
			continue
		}

		if pluginType != "" && meta.PluginType != pluginType {
			continue
		}
		pluginsMeta[entry.Name()] = meta
	}

	return pluginsMeta
}
