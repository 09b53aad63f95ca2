package handlers

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecuteDelete removes a file or directory (recursively) inside
// workspaceRoot, after confirming the canonicalized target stays within it.
func ExecuteDelete(workspaceRoot, relativePath string) (string, error) {
	canonicalRoot, err := filepath.EvalSymlinks(workspaceRoot)
	if err != nil {
		return "", fmt.Errorf("workspace root not found: %s: %w", workspaceRoot, err)
	}

	targetPath := filepath.Join(workspaceRoot, relativePath)
	if _, err := os.Stat(targetPath); err != nil {
		return "", fmt.Errorf("file not found: %s", relativePath)
	}

	canonicalTarget, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		return "", fmt.Errorf("resolving target %s: %w", relativePath, err)
	}
	if !withinRoot(canonicalRoot, canonicalTarget) {
		return "", fmt.Errorf("path traversal detected: %s escapes workspace root", relativePath)
	}

	info, err := os.Stat(canonicalTarget)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", relativePath, err)
	}
	if info.IsDir() {
		if err := os.RemoveAll(canonicalTarget); err != nil {
			return "", fmt.Errorf("deleting directory %s: %w", relativePath, err)
		}
	} else {
		if err := os.Remove(canonicalTarget); err != nil {
			return "", fmt.Errorf("deleting file %s: %w", relativePath, err)
		}
	}
	return "Deleted: " + relativePath, nil
}
