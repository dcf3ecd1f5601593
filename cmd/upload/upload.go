package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/internal/dojo"
	"github.com/review-io-git/review-io/internal/review"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/artifacts"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// defectDojoTokenEnv overrides the configured DefectDojo API token.
const defectDojoTokenEnv = "REVIEWIO_DEFECTDOJO_TOKEN"

// RunOptionsUpload holds the arguments for the upload command.
type RunOptionsUpload struct {
	InputPath      string
	URL            string
	Token          string
	ProductName    string
	EngagementName string
	Service        string
	SkipS3         bool
	SkipDojo       bool
}

// Global variables for configuration and command arguments
var (
	AppConfig     *config.Config
	logger        hclog.Logger
	uploadOptions RunOptionsUpload

	exampleUploadUsage = `  # Push a review result to the configured S3 bucket and DefectDojo instance
  reviewio upload --input /path/to/review-result.json --product "github.com/acme/widget"

  # Push only to DefectDojo, with an explicit URL and token
  reviewio upload --input review-result.json --product "github.com/acme/widget" \
    --url https://defectdojo.example.com --token "$DOJO_TOKEN" --skip-s3

  # Archive the result in S3 without importing it anywhere
  reviewio upload --input review-result.json --skip-dojo`

	UploadCmd = &cobra.Command{
		Use:                   "upload --input/-i PATH [--product/-p NAME] [flags]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleUploadUsage,
		Short:                 "Upload a review result to S3 and DefectDojo",
		Long: `Upload a review result to the configured destinations. The result JSON and
a SARIF export of it are archived in the S3 artifact bucket, and the SARIF
export is imported into DefectDojo under the given product.`,
		RunE: runUploadCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// runUploadCommand executes the upload command.
func runUploadCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	resolveUploadDestinations(&uploadOptions, AppConfig)

	if err := validateUploadArgs(&uploadOptions, args, AppConfig); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(uploadOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	result, err := review.LoadResult(uploadOptions.InputPath)
	if err != nil {
		logger.Error("failed to load review result", "path", uploadOptions.InputPath, "error", err)
		return errors.NewCommandError(uploadOptions, nil, err, 1)
	}

	uploadID := uuid.New().String()
	sarifPath, err := exportSarif(result, uploadID)
	if err != nil {
		logger.Error("failed to export review result as SARIF", "error", err)
		return errors.NewCommandError(uploadOptions, nil, err, 2)
	}
	logger.Debug("review result exported as SARIF", "path", sarifPath)

	if !uploadOptions.SkipS3 {
		if err := uploadToS3(uploadID, uploadOptions.InputPath, sarifPath); err != nil {
			logger.Error("failed to upload review result to S3", "error", err)
			return errors.NewCommandError(uploadOptions, nil, err, 2)
		}
	}

	if !uploadOptions.SkipDojo {
		if err := uploadToDefectDojo(&uploadOptions, sarifPath); err != nil {
			logger.Error("failed to import review result into DefectDojo", "error", err)
			return errors.NewCommandError(uploadOptions, nil, err, 2)
		}
	}

	logger.Info("upload command completed successfully", "upload_id", uploadID)
	return nil
}

// resolveUploadDestinations fills destination settings from the config and
// environment when the flags leave them empty.
func resolveUploadDestinations(options *RunOptionsUpload, cfg *config.Config) {
	if options.URL == "" {
		options.URL = cfg.DefectDojo.URL
	}
	if options.Token == "" {
		options.Token = cfg.DefectDojo.Token
	}
	if options.Token == "" {
		options.Token = os.Getenv(defectDojoTokenEnv)
	}
}

// exportSarif writes the SARIF rendering of the result into the temp folder.
func exportSarif(result *review.Result, uploadID string) (string, error) {
	tempFolder := config.GetReviewioTempHome(AppConfig)
	if err := files.CreateFolderIfNotExists(tempFolder); err != nil {
		return "", err
	}

	sarifPath := filepath.Join(tempFolder, fmt.Sprintf("review-result-%s.sarif", uploadID))
	if err := review.WriteSarif(result, result.Engine, review.InformationURI, sarifPath); err != nil {
		return "", err
	}
	return sarifPath, nil
}

// uploadToS3 archives the result JSON and its SARIF export under a shared
// key prefix in the configured bucket.
func uploadToS3(uploadID, resultPath, sarifPath string) error {
	store, err := artifacts.NewS3Store(AppConfig.Artifacts.S3Bucket, AppConfig.Artifacts.S3Region, logger)
	if err != nil {
		return err
	}

	resultLocation, err := store.Upload(resultPath, fmt.Sprintf("%s/review-result.json", uploadID))
	if err != nil {
		return err
	}
	logger.Info("review result archived", "location", resultLocation)

	sarifLocation, err := store.Upload(sarifPath, fmt.Sprintf("%s/review-result.sarif", uploadID))
	if err != nil {
		return err
	}
	logger.Info("sarif export archived", "location", sarifLocation)
	return nil
}

// uploadToDefectDojo imports the SARIF export under the product hierarchy,
// creating the product type, product and engagement when they are missing.
func uploadToDefectDojo(options *RunOptionsUpload, sarifPath string) error {
	client := dojo.New(options.URL, options.Token)

	anySLA, err := client.IsAnySLAConfiguration()
	if err != nil {
		return fmt.Errorf("failed to check SLA configurations: %w", err)
	}
	if !anySLA {
		if _, err := client.CreateSLAConfiguration(dojo.GetDefaultSLAConfigurationParams()); err != nil {
			return fmt.Errorf("failed to create the default SLA configuration: %w", err)
		}
		logger.Debug("default SLA configuration created")
	}

	productType, err := client.GetOrCreateProductType(dojo.ProductTypeReviewioRepo)
	if err != nil {
		return fmt.Errorf("failed to resolve product type %q: %w", dojo.ProductTypeReviewioRepo, err)
	}

	product, err := client.GetOrCreateProduct(options.ProductName, *productType)
	if err != nil {
		return fmt.Errorf("failed to resolve product %q: %w", options.ProductName, err)
	}

	engagement, err := client.CreateEngagement(*product, options.EngagementName)
	if err != nil {
		return fmt.Errorf("failed to create an engagement for %q: %w", options.ProductName, err)
	}

	if err := client.ImportScanResult(*engagement, sarifPath, dojo.ScanTypeSarif, options.Service); err != nil {
		return fmt.Errorf("failed to import the SARIF export: %w", err)
	}

	logger.Info("review result imported into DefectDojo", "product", options.ProductName)
	return nil
}

func init() {
	UploadCmd.Flags().StringVarP(&uploadOptions.InputPath, "input", "i", "", "Path to the review result JSON to upload.")
	UploadCmd.Flags().StringVarP(&uploadOptions.URL, "url", "u", "", "DefectDojo URL. Defaults to the configured one.")
	UploadCmd.Flags().StringVarP(&uploadOptions.Token, "token", "t", "", "DefectDojo API token. Defaults to the configured one or the "+defectDojoTokenEnv+" variable.")
	UploadCmd.Flags().StringVarP(&uploadOptions.ProductName, "product", "p", "", "DefectDojo product the result is imported under, usually the repository path.")
	UploadCmd.Flags().StringVar(&uploadOptions.EngagementName, "engagement", "", "Name of the DefectDojo engagement to create. Defaults to 'review-io'.")
	UploadCmd.Flags().StringVar(&uploadOptions.Service, "service", "", "Service name recorded on the imported findings.")
	UploadCmd.Flags().BoolVar(&uploadOptions.SkipS3, "skip-s3", false, "Do not archive the result in the S3 bucket.")
	UploadCmd.Flags().BoolVar(&uploadOptions.SkipDojo, "skip-dojo", false, "Do not import the result into DefectDojo.")
	UploadCmd.Flags().BoolP("help", "h", false, "Show help for the upload command.")
}
