package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func TestDetermineBranch(t *testing.T) {
	tests := []struct {
		name          string
		branch        string
		defaultBranch string
		want          plumbing.ReferenceName
	}{
		{"plain name", "develop", "main", plumbing.ReferenceName("refs/heads/develop")},
		{"full branch ref", "refs/heads/develop", "main", plumbing.ReferenceName("refs/heads/develop")},
		{"tag ref", "refs/tags/v1.0.0", "main", plumbing.ReferenceName("refs/tags/v1.0.0")},
		{"empty falls back to default", "", "main", plumbing.ReferenceName("refs/heads/main")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineBranch(tt.branch, tt.defaultBranch); got != tt.want {
				t.Fatalf("determineBranch(%q, %q) = %q, want %q", tt.branch, tt.defaultBranch, got, tt.want)
			}
		})
	}
}

func TestFindGitRepositoryPath(t *testing.T) {
	repoDir := t.TempDir()
	if _, err := git.PlainInit(repoDir, false); err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	nested := filepath.Join(repoDir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := findGitRepositoryPath(nested)
	if err != nil {
		t.Fatalf("findGitRepositoryPath returned error: %v", err)
	}
	if got != repoDir {
		t.Fatalf("findGitRepositoryPath = %q, want %q", got, repoDir)
	}

	if _, err := findGitRepositoryPath(filepath.Join(t.TempDir(), "plain")); !errors.Is(err, ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}

	if _, err := findGitRepositoryPath(""); err == nil {
		t.Fatalf("expected error for empty source folder")
	}
}
