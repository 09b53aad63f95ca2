// Package handlers executes the five host-side actions the gateway permits:
// write, delete, run_cmd, git_push, network. Every handler re-validates that
// its target stays within the workspace root — the policy engine only
// decides whether an action is permitted, never whether it is safe to
// execute against the filesystem, so containment is enforced here.
package handlers

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecuteWrite applies a file write inside workspaceRoot. Parent directories
// are created as needed. The resolved path is canonicalized and checked
// against the workspace root even for new files, closing the symlink and
// ".." traversal gap a plain prefix check on the unresolved path would miss.
func ExecuteWrite(workspaceRoot, relativePath, content string) (string, error) {
	canonicalRoot, err := filepath.EvalSymlinks(workspaceRoot)
	if err != nil {
		return "", fmt.Errorf("workspace root not found: %s: %w", workspaceRoot, err)
	}

	targetPath := filepath.Join(workspaceRoot, relativePath)
	parent := filepath.Dir(targetPath)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", parent, err)
	}

	canonicalParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return "", fmt.Errorf("resolving parent directory %s: %w", parent, err)
	}
	canonicalTarget := filepath.Join(canonicalParent, filepath.Base(targetPath))
	if resolved, err := filepath.EvalSymlinks(targetPath); err == nil {
		canonicalTarget = resolved
	}

	if !withinRoot(canonicalRoot, canonicalTarget) {
		return "", fmt.Errorf("path traversal detected: %s escapes workspace root", relativePath)
	}

	if err := os.WriteFile(targetPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", targetPath, err)
	}
	return "Written: " + relativePath, nil
}
