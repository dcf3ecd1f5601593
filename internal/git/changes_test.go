package git

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

func TestListChangedFiles(t *testing.T) {
	repoDir, baseHash, headHash := setupChangesRepo(t)

	client := newTestGitClient()

	got, err := client.ListChangedFiles(repoDir, baseHash, headHash)
	if err != nil {
		t.Fatalf("ListChangedFiles returned error: %v", err)
	}

	want := []string{"data.txt", "dir/new.txt"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("unexpected changed files:\nwant %v\n got %v", want, got)
	}

	// Branch names resolve the same way as commit hashes.
	byBranch, err := client.ListChangedFiles(repoDir, baseHash, "master")
	if err != nil {
		t.Fatalf("ListChangedFiles by branch returned error: %v", err)
	}
	if !reflect.DeepEqual(want, byBranch) {
		t.Fatalf("unexpected changed files by branch:\nwant %v\n got %v", want, byBranch)
	}
}

func TestListChangedFilesUnknownRevision(t *testing.T) {
	repoDir, baseHash, _ := setupChangesRepo(t)

	client := newTestGitClient()

	if _, err := client.ListChangedFiles(repoDir, baseHash, "no-such-branch"); err == nil {
		t.Fatalf("expected error for unknown revision")
	}
}

// setupChangesRepo initialises a temporary repository with two commits and
// returns the repo path along with base and head commit hashes. The head
// commit modifies data.txt, adds dir/new.txt and removes gone.txt.
func setupChangesRepo(t *testing.T) (string, string, string) {
	t.Helper()

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	baseFiles := map[string]string{
		"data.txt": "alpha\nbeta\ngamma\n",
		"gone.txt": "to be removed\n",
	}
	baseHash := commitFiles(t, wt, baseFiles, "base commit")

	if _, err := wt.Remove("gone.txt"); err != nil {
		t.Fatalf("remove gone.txt: %v", err)
	}
	headFiles := map[string]string{
		"data.txt":    "alpha\nbeta2\ngamma\ndelta\n",
		"dir/new.txt": "onlyline\n",
	}
	headHash := commitFiles(t, wt, headFiles, "head commit")

	return repoDir, baseHash.String(), headHash.String()
}

func newTestGitClient() *Client {
	return &Client{
		logger:       hclog.NewNullLogger(),
		timeout:      time.Minute,
		globalConfig: &config.Config{},
	}
}

func commitFiles(t *testing.T, wt *git.Worktree, files map[string]string, message string) plumbing.Hash {
	t.Helper()

	for path, content := range files {
		abs := filepath.Join(wt.Filesystem.Root(), path)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", abs, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", abs, err)
		}
		if _, err := wt.Add(path); err != nil {
			t.Fatalf("add %s: %v", path, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}
