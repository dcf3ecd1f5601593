package version

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
)

// Populated at build time through -ldflags.
var (
	AppConfig   *config.Config
	CoreVersion = "unknown"
	GoVersion   = "unknown"
	BuildTime   = "unknown"
)

// CoreVersions holds version information for the core application and plugins.
type CoreVersions struct {
	Versions    shared.Versions              `json:"versions"`
	PluginsMeta map[string]shared.PluginMeta `json:"plugins_meta"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and plugins",
		Run: func(cmd *cobra.Command, args []string) {
			goVersion := GoVersion
			if goVersion == "unknown" {
				goVersion = runtime.Version()
			}
			versions := CoreVersions{
				Versions: shared.Versions{
					Core:      CoreVersion,
					GoVersion: goVersion,
					BuildTime: BuildTime,
				},
				PluginsMeta: shared.GetPluginVersions(config.GetReviewioPluginsHome(AppConfig), ""),
			}

			printVersionInfo(&versions)
		},
	}
}

// printVersionInfo prints the version information for the core application and plugins.
func printVersionInfo(versions *CoreVersions) {
	fmt.Printf("Core Version: v%s\n", versions.Versions.Core)
	if len(versions.PluginsMeta) > 0 {
		fmt.Println("Plugin Versions:")
		names := make([]string, 0, len(versions.PluginsMeta))
		for plugin := range versions.PluginsMeta {
			names = append(names, plugin)
		}
		sort.Strings(names)
		for _, plugin := range names {
			meta := versions.PluginsMeta[plugin]
			fmt.Printf("  %s: v%s (Type: %s)\n", plugin, meta.Version, meta.PluginType)
		}
	}
	fmt.Printf("Go Version: %s\n", versions.Versions.GoVersion)
	fmt.Printf("Build Time: %s\n", versions.Versions.BuildTime)
}
