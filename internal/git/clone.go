package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared"
	"github.com/review-io-git/review-io/pkg/shared/config"

	log "github.com/review-io-git/review-io/pkg/shared/logger"
)

// CloneRepository materializes the requested repository in the target folder.
// An existing checkout of the same repository is updated in place instead of
// being cloned again.
func (c *Client) CloneRepository(args *shared.VCSFetchRequest, defaultBranch string) (string, error) {
	targetFolder := args.TargetFolder

	info, err := vcsurl.Parse(args.CloneURL)
	if err != nil {
		c.logger.Error("failed to parse clone URL", "cloneURL", args.CloneURL, "error", err)
		return "", fmt.Errorf("failed to parse clone URL: %w", err)
	}

	reference := determineBranch(args.Branch, defaultBranch)
	output := log.GetLoggerOutput(c.logger)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.logger.Debug("starting repository fetch", "repository", info.Name, "branch", reference, "cloneURL", args.CloneURL, "targetFolder", targetFolder)
	repo, err := git.PlainCloneContext(ctx, targetFolder, false, &git.CloneOptions{
		Auth:            c.auth,
		URL:             args.CloneURL,
		ReferenceName:   reference,
		Progress:        output,
		Depth:           config.SetThen(c.globalConfig.GitClient.Depth, 1),
		InsecureSkipTLS: config.GetBoolValue(c.globalConfig.GitClient, "InsecureTLS", false),
	})

	existing := false
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryAlreadyExists) {
			c.logger.Error("error occurred during clone", "error", err, "targetFolder", targetFolder)
			return "", fmt.Errorf("error occurred during clone: %w", err)
		}

		existing = true
		c.logger.Info("repository already exists, updating", "targetFolder", targetFolder)
		repo, err = c.updateRepository(ctx, targetFolder, args.CloneURL, output)
		if err != nil {
			return "", err
		}
	}

	if err := checkoutAndResetBranch(repo, reference, c.logger, targetFolder); err != nil {
		return "", err
	}

	if existing {
		if err := c.pullLatestChanges(ctx, repo, reference, output); err != nil {
			return "", err
		}
	}

	c.logger.Info("repository fetch completed", "repository", info.Name, "branch", reference, "targetFolder", targetFolder)
	return targetFolder, nil
}

// updateRepository opens the existing checkout and refreshes it from origin.
func (c *Client) updateRepository(ctx context.Context, targetFolder, cloneURL string, output io.Writer) (*git.Repository, error) {
	repo, err := git.PlainOpen(targetFolder)
	if err != nil {
		c.logger.Error("cannot open existing repository", "error", err, "targetFolder", targetFolder)
		return nil, fmt.Errorf("cannot open existing repository: %w", err)
	}

	if err := verifyOrigin(repo, cloneURL); err != nil {
		c.logger.Error("existing checkout does not match the requested repository", "error", err, "targetFolder", targetFolder)
		return nil, err
	}

	c.logger.Debug("updating repository with fetch", "targetFolder", targetFolder)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName:      "origin",
		Auth:            c.auth,
		Progress:        output,
		RefSpecs:        []gitconfig.RefSpec{"+refs/*:refs/*"},
		Depth:           config.SetThen(c.globalConfig.GitClient.Depth, 1),
		InsecureSkipTLS: config.GetBoolValue(c.globalConfig.GitClient, "InsecureTLS", false),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.logger.Error("error occurred during fetch", "error", err, "targetFolder", targetFolder)
		return nil, fmt.Errorf("error occurred during fetch: %w", err)
	}

	return repo, nil
}

// verifyOrigin ensures the checkout tracks the same remote as the requested clone URL.
func verifyOrigin(repo *git.Repository, cloneURL string) error {
	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to read origin remote: %w", err)
	}

	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return ErrDifferentRepo
	}
	if strings.TrimSuffix(cfg.URLs[0], ".git") != strings.TrimSuffix(cloneURL, ".git") {
		return fmt.Errorf("%w: origin is %q, requested %q", ErrDifferentRepo, cfg.URLs[0], cloneURL)
	}
	return nil
}

// checkoutAndResetBranch checks out the branch and discards local modifications.
func checkoutAndResetBranch(repo *git.Repository, branch plumbing.ReferenceName, logger hclog.Logger, targetFolder string) error {
	w, err := repo.Worktree()
	if err != nil {
		logger.Error("error accessing worktree", "error", err, "targetFolder", targetFolder)
		return fmt.Errorf("error accessing worktree: %w", err)
	}

	logger.Debug("checking out branch", "branch", branch, "targetFolder", targetFolder)
	if err := w.Checkout(&git.CheckoutOptions{
		Branch: branch,
		Force:  true,
	}); err != nil {
		logger.Error("error occurred during checkout", "error", err, "targetFolder", targetFolder)
		return fmt.Errorf("error occurred during checkout: %w", err)
	}

	logger.Debug("resetting local repository", "targetFolder", targetFolder)
	if err := w.Reset(&git.ResetOptions{
		Mode: git.HardReset,
	}); err != nil {
		logger.Error("error occurred during reset", "error", err, "targetFolder", targetFolder)
		return fmt.Errorf("error occurred during reset: %w", err)
	}
	return nil
}

func (c *Client) pullLatestChanges(ctx context.Context, repo *git.Repository, branch plumbing.ReferenceName, output io.Writer) error {
	w, err := repo.Worktree()
	if err != nil {
		c.logger.Error("error accessing worktree", "error", err)
		return fmt.Errorf("error accessing worktree: %w", err)
	}

	c.logger.Debug("attempting to pull the latest changes", "branch", branch)
	err = w.PullContext(ctx, &git.PullOptions{
		Auth:            c.auth,
		ReferenceName:   branch,
		Progress:        output,
		Force:           true,
		InsecureSkipTLS: config.GetBoolValue(c.globalConfig.GitClient, "InsecureTLS", false),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.logger.Error("error occurred during pull", "error", err)
		return fmt.Errorf("error occurred during pull: %w", err)
	}
	return nil
}
