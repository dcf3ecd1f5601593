package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// ValidateEngineRunArgs checks the necessary fields in EngineRunRequest and returns errors if they are not set.
// The results path names the report file, so its parent folder is created here.
func ValidateEngineRunArgs(args *shared.EngineRunRequest) error {
	if args.TargetPath == "" {
		return fmt.Errorf("target path is required")
	}

	if args.ResultsPath == "" {
		return fmt.Errorf("results path is required")
	}

	targetPath, err := files.ExpandPath(args.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to expand path '%s': %w", args.TargetPath, err)
	}
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		return fmt.Errorf("target path does not exist: %s", targetPath)
	}

	resultsPath, err := files.ExpandPath(args.ResultsPath)
	if err != nil {
		return fmt.Errorf("failed to expand path '%s': %w", args.ResultsPath, err)
	}
	resultsFolder := filepath.Dir(resultsPath)
	if err := files.CreateFolderIfNotExists(resultsFolder); err != nil {
		return fmt.Errorf("failed to create results folder '%s': %w", resultsFolder, err)
	}

	return nil
}
