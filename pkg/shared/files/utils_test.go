package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetermineFileFullPath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name         string
		inputPath    string
		nameTemplate string
		expectFile   string
		expectFolder string
		setup        func(t *testing.T)
	}{
		{
			name:         "directory path with name template",
			inputPath:    tmpDir,
			nameTemplate: "output.json",
			expectFile:   filepath.Join(tmpDir, "output.json"),
			expectFolder: tmpDir,
		},
		{
			name:         "file path with extension",
			inputPath:    filepath.Join(tmpDir, "data.json"),
			nameTemplate: "ignored.txt",
			expectFile:   filepath.Join(tmpDir, "data.json"),
			expectFolder: tmpDir,
			setup: func(t *testing.T) {
				if err := os.WriteFile(filepath.Join(tmpDir, "data.json"), []byte("test"), 0644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name:         "path with no extension treated as folder",
			inputPath:    filepath.Join(tmpDir, "output_folder"),
			nameTemplate: "report.log",
			expectFile:   filepath.Join(tmpDir, "output_folder", "report.log"),
			expectFolder: filepath.Join(tmpDir, "output_folder"),
		},
		{
			name:         "non-existent file with extension",
			inputPath:    filepath.Join(tmpDir, "nonexistent.yaml"),
			nameTemplate: "ignored.txt",
			expectFile:   filepath.Join(tmpDir, "nonexistent.yaml"),
			expectFolder: tmpDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}

			fullPath, folder, err := DetermineFileFullPath(tt.inputPath, tt.nameTemplate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fullPath != tt.expectFile {
				t.Errorf("full path mismatch\nwant: %q\n got: %q", tt.expectFile, fullPath)
			}
			if folder != tt.expectFolder {
				t.Errorf("folder mismatch\nwant: %q\n got: %q", tt.expectFolder, folder)
			}
		})
	}
}

func TestEnsureWithinRoot(t *testing.T) {
	root := t.TempDir()

	inside := filepath.Join(root, "sub", "file.txt")
	got, err := EnsureWithinRoot(root, inside)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != inside {
		t.Errorf("expected %q, got %q", inside, got)
	}

	if _, err := EnsureWithinRoot(root, filepath.Join(root, "..", "escape.txt")); err == nil {
		t.Error("expected error for path escaping root")
	}
}

func TestResolveCommentBody(t *testing.T) {
	t.Run("inline comment wins without file", func(t *testing.T) {
		body, err := ResolveCommentBody("inline text", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "inline text" {
			t.Errorf("expected inline comment, got %q", body)
		}
	})

	t.Run("file content overrides inline comment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "comment.md")
		if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
			t.Fatal(err)
		}

		body, err := ResolveCommentBody("inline text", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "from file" {
			t.Errorf("expected file content, got %q", body)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := ResolveCommentBody("", "/nonexistent/comment.md"); err == nil {
			t.Error("expected error for missing comment file")
		}
	})
}
