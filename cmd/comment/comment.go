package comment

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/review-io-git/review-io/internal/ci"
	cmdutil "github.com/review-io-git/review-io/internal/cmd"
	"github.com/review-io-git/review-io/internal/git"
	"github.com/review-io-git/review-io/internal/review"
	"github.com/review-io-git/review-io/internal/reviewer"
	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/artifacts"
	"github.com/review-io-git/review-io/pkg/shared/config"
	"github.com/review-io-git/review-io/pkg/shared/errors"
	"github.com/review-io-git/review-io/pkg/shared/files"
)

// Global variables for configuration and command arguments
var (
	AppConfig      *config.Config
	logger         hclog.Logger
	commentOptions reviewer.RunOptionsReview
	sourceFolder   string

	exampleCommentUsage = `  # Post review comments from a saved review result
  reviewio comment --vcs github --domain github.com --namespace acme --repository widget --pull-request-id 42 --input review-result.json

  # Post a single general comment to a pull request addressed by URL
  reviewio comment --vcs github --comment "LGTM" https://github.com/acme/widget/pull/42

  # Post a comment from a file and attach build logs
  reviewio comment --vcs bitbucket --domain bitbucket.example.com --namespace TEAM --repository service --pull-request-id 3 --comment-file body.md --attach build.log`

	CommentCmd = &cobra.Command{
		Use:                   "comment --vcs/-p PLUGIN_NAME {--input PATH [--summary TEXT] | --comment TEXT | --comment-file PATH} {--domain DOMAIN --namespace NAMESPACE --repository REPO --pull-request-id ID | URL}",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleCommentUsage,
		Short:                 "Post review comments or a single comment to a pull request",
		RunE:                  runCommentCommand,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
	CommentCmd.Long = generateLongDescription(AppConfig)
}

// runCommentCommand executes the comment command.
func runCommentCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	mode := cmdutil.DetermineMode(args)

	resolutionEnv, err := ci.ResolveFromEnvironment(logger, commentOptions.VCSPluginName)
	if err != nil {
		return errors.NewCommandError(commentOptions, nil, err, 1)
	}

	resolutionGitMeta, err := git.ApplyGitMetadataOptionsFallbacks(logger, sourceFolder,
		commentOptions.Namespace, commentOptions.Repository, commentOptions.VCSPluginName, commentOptions.Domain)
	if err != nil {
		logger.Debug("git metadata fallback failed", "error", err)
	}

	applyCommentFallbacks(&commentOptions, resolutionEnv, resolutionGitMeta)

	repoParams, err := prepareCommentTarget(&commentOptions, args, mode)
	if err != nil {
		logger.Error("failed to prepare comment target", "error", err)
		return errors.NewCommandError(commentOptions, nil, fmt.Errorf("failed to prepare comment target: %w", err), 1)
	}

	if err := validateCommentArgs(&commentOptions, args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(commentOptions, nil, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	if commentOptions.InputPath != "" {
		ref := resolutionEnv.SourceBranch
		if ref == "" {
			ref = resolutionGitMeta.Branch
		}
		return publishReviewResult(AppConfig, &commentOptions, repoParams, ref)
	}
	return postSingleComment(AppConfig, &commentOptions, repoParams)
}

// publishReviewResult posts the violations from a saved review result as
// review comments. The ref anchors the summary listing links when known.
func publishReviewResult(cfg *config.Config, options *reviewer.RunOptionsReview, repo shared.RepositoryParams, ref string) error {
	result, err := review.LoadResult(options.InputPath)
	if err != nil {
		logger.Error("failed to load review result", "path", options.InputPath, "error", err)
		return errors.NewCommandError(*options, nil, err, 1)
	}

	comments := reviewer.PrepareReviewComments(result)
	summary := options.Summary
	if summary == "" {
		summary = reviewer.BuildLinkedSummary(result, reviewer.LinkContext{
			VCSPluginName: options.VCSPluginName,
			Domain:        repo.Domain,
			Namespace:     repo.Namespace,
			Repository:    repo.Repository,
			Ref:           ref,
		})
	}

	r := reviewer.New(options.VCSPluginName, reviewer.ActionAddReviewComments, logger)
	reviewReport, err := r.PublishReview(cfg, repo, comments, summary)
	if err != nil {
		logger.Error("failed to publish review", "error", err)
		return errors.NewCommandError(*options, nil, fmt.Errorf("failed to publish review: %w", err), 2)
	}

	logger.Info("review published",
		"posted", reviewReport.Posted, "skipped", reviewReport.Skipped, "failed", reviewReport.Failed)
	logger.Info("comment command completed successfully")
	return nil
}

// postSingleComment posts one general comment to the pull request.
func postSingleComment(cfg *config.Config, options *reviewer.RunOptionsReview, repo shared.RepositoryParams) error {
	body, err := files.ResolveCommentBody(options.Comment, options.CommentFile)
	if err != nil {
		logger.Error("failed to resolve comment body", "error", err)
		return errors.NewCommandError(*options, nil, err, 1)
	}
	options.Comment = body
	options.Action = reviewer.ActionAddComment

	r := reviewer.New(options.VCSPluginName, options.Action, logger)
	commentRequest, err := r.PrepRequest(cfg, options, repo)
	if err != nil {
		logger.Error("failed to prepare comment request", "error", err)
		return errors.NewCommandError(*options, nil, fmt.Errorf("failed to prepare comment request: %w", err), 1)
	}

	commentResult, actionErr := r.ReviewAction(cfg, commentRequest)
	if _, err := artifacts.SaveArtifactJSON(cfg, logger, "comment", options.VCSPluginName, commentResult); err != nil {
		logger.Warn("failed to save comment artifact", "error", err)
	}
	if actionErr != nil {
		return errors.NewCommandErrorWithResult(commentResult, fmt.Errorf("failed to post comment: %w", actionErr), 2)
	}

	logger.Info("comment command completed successfully")
	return nil
}

// generateLongDescription generates the long description dynamically with the list of available VCS plugins.
func generateLongDescription(cfg *config.Config) string {
	pluginsMeta := shared.GetPluginVersions(config.GetReviewioPluginsHome(cfg), shared.PluginTypeVCS)
	var plugins []string
	for plugin := range pluginsMeta {
		plugins = append(plugins, plugin)
	}
	return fmt.Sprintf(`Post review comments from a saved review result, or a single general
comment, to a pull request using a VCS plugin.

List of available VCS plugins:
  %s`, strings.Join(plugins, "\n  "))
}

func init() {
	CommentCmd.Flags().StringVarP(&commentOptions.VCSPluginName, "vcs", "p", "", "Name of the VCS plugin (e.g., bitbucket, gitlab, github).")
	CommentCmd.Flags().StringVar(&commentOptions.Domain, "domain", "", "Domain of the VCS instance (e.g., github.com).")
	CommentCmd.Flags().StringVar(&commentOptions.Namespace, "namespace", "", "Namespace/organization that owns the repository.")
	CommentCmd.Flags().StringVar(&commentOptions.Repository, "repository", "", "Repository name.")
	CommentCmd.Flags().StringVar(&commentOptions.PullRequestID, "pull-request-id", "", "Pull request identifier.")
	CommentCmd.Flags().StringVarP(&commentOptions.InputPath, "input", "i", "", "Path to a review result JSON to post as review comments.")
	CommentCmd.Flags().StringVar(&commentOptions.Summary, "summary", "", "Overall summary comment replacing the generated one.")
	CommentCmd.Flags().StringVar(&commentOptions.Comment, "comment", "", "Text of a single general comment to post.")
	CommentCmd.Flags().StringVar(&commentOptions.CommentFile, "comment-file", "", "File containing the comment to post.")
	CommentCmd.Flags().StringSliceVar(&commentOptions.AttachFiles, "attach", nil, "Files to attach to the comment, for plugins that support attachments.")
	CommentCmd.Flags().StringVarP(&sourceFolder, "source", "s", "", "Checkout used to derive missing repository coordinates from git metadata.")
	CommentCmd.Flags().BoolP("help", "h", false, "Show help for the comment command.")
}
