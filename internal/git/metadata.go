package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared/vcsurl"
)

// RepositoryMetadata describes the checkout state of a local repository.
type RepositoryMetadata struct {
	BranchName         *string
	CommitHash         *string
	RepositoryFullName *string
	Subfolder          string
	RepoRootFolder     string
}

// CollectRepositoryMetadata inspects the repository containing sourceFolder
// and reports its branch, commit, origin URL and the subfolder relative to
// the repository root.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RepoRootFolder: filepath.Clean(sourceFolder),
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}

	md.RepoRootFolder = filepath.Clean(repoRootFolder)

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(repoRootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}

		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			repositoryFullName := strings.TrimSuffix(cfg.URLs[0], ".git")
			md.RepositoryFullName = &repositoryFullName
		}
	}

	return md, nil
}

// MetadataResolution carries repository coordinates recovered from a local checkout.
type MetadataResolution struct {
	Domain     string
	Namespace  string
	Repository string
	Branch     string
	CommitHash string
}

// ApplyGitMetadataOptionsFallbacks derives missing namespace and repository
// values from the origin remote of the checkout at sourceFolder. Explicitly
// provided values always win; the resolution only fills the gaps.
func ApplyGitMetadataOptionsFallbacks(logger hclog.Logger, sourceFolder, namespace, repository, vcsPluginName, domain string) (MetadataResolution, error) {
	resolution := MetadataResolution{
		Domain:     domain,
		Namespace:  namespace,
		Repository: repository,
	}
	if sourceFolder == "" {
		return resolution, nil
	}

	md, err := CollectRepositoryMetadata(sourceFolder)
	if err != nil {
		return resolution, err
	}

	if md.BranchName != nil {
		resolution.Branch = *md.BranchName
	}
	if md.CommitHash != nil {
		resolution.CommitHash = *md.CommitHash
	}
	if md.RepositoryFullName == nil {
		return resolution, nil
	}

	info, err := vcsurl.ParseForVCSType(*md.RepositoryFullName, vcsurl.StringToVCSType(vcsPluginName))
	if err != nil {
		return resolution, fmt.Errorf("failed to parse origin URL %q: %w", *md.RepositoryFullName, err)
	}

	if resolution.Domain == "" {
		resolution.Domain = info.ParsedURL.Hostname()
	}
	if resolution.Namespace == "" {
		resolution.Namespace = info.Namespace
	}
	if resolution.Repository == "" {
		resolution.Repository = info.Repository
	}

	logger.Debug("resolved repository coordinates from git metadata",
		"domain", resolution.Domain, "namespace", resolution.Namespace, "repository", resolution.Repository)
	return resolution, nil
}
