package upload

import (
	"fmt"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// validateUploadArgs checks the arguments of the upload command. It runs
// after the destination settings have been resolved from the config.
func validateUploadArgs(options *RunOptionsUpload, args []string, cfg *config.Config) error {
	if len(args) != 0 {
		return fmt.Errorf("the command takes no positional arguments")
	}

	if options.InputPath == "" {
		return fmt.Errorf("'input' flag must be specified")
	}

	if options.SkipS3 && options.SkipDojo {
		return fmt.Errorf("'skip-s3' and 'skip-dojo' cannot both be specified; nothing would be uploaded")
	}

	if !options.SkipS3 && cfg.Artifacts.S3Bucket == "" {
		return fmt.Errorf("the S3 bucket must be configured to archive results; pass 'skip-s3' to disable archiving")
	}

	if !options.SkipDojo {
		if options.URL == "" {
			return fmt.Errorf("'url' flag or the DefectDojo URL configuration must be specified")
		}
		if options.Token == "" {
			return fmt.Errorf("a DefectDojo token must be provided via the 'token' flag, the configuration or %s", defectDojoTokenEnv)
		}
		if options.ProductName == "" {
			return fmt.Errorf("'product' flag must be specified to import into DefectDojo")
		}
	}

	return nil
}
