package git

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ListChangedFiles returns the paths touched between baseRef and headRef,
// relative to the repository root. Deleted files are excluded since review
// comments can only anchor to lines that still exist.
func (c *Client) ListChangedFiles(repoPath, baseRef, headRef string) ([]string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoPath, err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return nil, err
	}
	headCommit, err := resolveCommit(repo, headRef)
	if err != nil {
		return nil, err
	}

	// Diff against the merge base so changes already on the target branch
	// do not show up as part of the pull request.
	if bases, err := baseCommit.MergeBase(headCommit); err == nil && len(bases) > 0 {
		baseCommit = bases[0]
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read head tree: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	changes, err := baseTree.DiffContext(ctx, headTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	seen := make(map[string]struct{}, len(changes))
	var paths []string
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, fmt.Errorf("failed to determine change action: %w", err)
		}
		if action == merkletrie.Delete {
			continue
		}
		if _, ok := seen[change.To.Name]; ok {
			continue
		}
		seen[change.To.Name] = struct{}{}
		paths = append(paths, change.To.Name)
	}
	sort.Strings(paths)

	c.logger.Debug("collected changed files", "repoPath", repoPath, "base", baseRef, "head", headRef, "files", len(paths))
	return paths, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}
	return commit, nil
}
