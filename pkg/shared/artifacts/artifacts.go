package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// GetArtifactName builds an artifact base name.
// Example: report_sonarqube_2026-08-25T08:28:46Z.reviewio-artifact.
func GetArtifactName(command, plugin string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	metaDataFileName := fmt.Sprintf("%s_%s_%s.reviewio-artifact", command, plugin, ts)
	return metaDataFileName
}

// SaveArtifactJSON writes the provided result to <artifacts>/<base>.json.
// Returns the full path.
func SaveArtifactJSON(cfg *config.Config, logger hclog.Logger, command, plugin string, result shared.GenericLaunchesResult) (string, error) {
	dir := config.GetReviewioArtifactsHome(cfg)
	base := GetArtifactName(command, plugin, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to log file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}
