package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// CreateFolderIfNotExists checks if a folder exists, and if not, creates it.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// FindByExtAndRemove walks through the directory tree rooted at root and removes files with specified extensions.
func FindByExtAndRemove(root string, exts []string) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access %q: %w", path, err)
		}
		ext := filepath.Ext(d.Name())
		match := false
		for _, rmExt := range exts {
			if fmt.Sprintf(".%s", rmExt) == ext {
				match = true
				break
			}
		}
		if !match {
			return nil
		}
		err = os.Remove(path)
		if err != nil {
			return fmt.Errorf("failed to remove file %q: %w", path, err)
		}
		return nil
	})
}

// EnsureWithinRoot resolves target against root and rejects paths escaping it.
func EnsureWithinRoot(root, target string) (string, error) {
	if root == "" {
		return filepath.Clean(target), nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", target, err)
	}

	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q escapes root %q", absTarget, absRoot)
	}

	return absTarget, nil
}

// ResolveSourceFolder returns the absolute form of sourceRoot, falling back
// to the current working directory when it cannot be resolved.
func ResolveSourceFolder(sourceRoot string, logger hclog.Logger) string {
	expanded, err := ExpandPath(sourceRoot)
	if err != nil {
		logger.Warn("failed to expand source folder, using as-is", "path", sourceRoot, "error", err)
		expanded = sourceRoot
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		logger.Warn("failed to resolve source folder to an absolute path", "path", expanded, "error", err)
		return expanded
	}
	return abs
}

// ResolveCommentBody returns the comment body, preferring the content of
// commentFile over the inline comment when both are given.
func ResolveCommentBody(comment, commentFile string) (string, error) {
	if commentFile == "" {
		return comment, nil
	}

	path, err := ExpandPath(commentFile)
	if err != nil {
		return "", fmt.Errorf("failed to expand comment file path %q: %w", commentFile, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read comment file %q: %w", path, err)
	}

	return string(content), nil
}
