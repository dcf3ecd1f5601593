package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/cmd/check"
	"github.com/review-io-git/review-io/cmd/comment"
	"github.com/review-io-git/review-io/cmd/dispatch"
	"github.com/review-io-git/review-io/cmd/fetch"
	"github.com/review-io-git/review-io/cmd/report"
	"github.com/review-io-git/review-io/cmd/upload"
	"github.com/review-io-git/review-io/cmd/version"
	"github.com/review-io-git/review-io/pkg/shared/config"
	cmderrors "github.com/review-io-git/review-io/pkg/shared/errors"
	"github.com/review-io-git/review-io/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "reviewio [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Reviewio turns static analysis reports into pull request reviews.",
		Long: `Reviewio fetches repository code, runs analysis engines over it and posts
the findings back to the pull request as review comments. VCS providers and
analysis engines are integrated through plugins.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the config file (default $REVIEWIO_CONFIG or ~/.reviewio/config.yml).")
	rootCmd.AddCommand(
		version.NewVersionCmd(),
		check.CheckCmd,
		report.ReportCmd,
		comment.CommentCmd,
		fetch.FetchCmd,
		dispatch.DispatchCmd,
		upload.UploadCmd,
	)
}

// Execute runs the root command and maps command errors to process exit codes.
func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cmdErr *cmderrors.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
			os.Exit(cmdErr.ExitCode)
		}
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = os.Getenv("REVIEWIO_CONFIG")
	}
	if cfgFile == "" {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			cfgFile = filepath.Join(home, ".reviewio", "config.yml")
		} else {
			cfgFile = "config.yml"
		}
	}

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootLogger := logger.NewLogger(AppConfig, "core")

	version.Init(AppConfig)
	check.Init(AppConfig, rootLogger)
	report.Init(AppConfig, rootLogger)
	comment.Init(AppConfig, rootLogger)
	fetch.Init(AppConfig, rootLogger)
	dispatch.Init(AppConfig, rootLogger)
	upload.Init(AppConfig, rootLogger)
}
