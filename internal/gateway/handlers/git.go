package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ExecuteGitPush pushes branch to origin from workspaceRoot. Git operations
// run from the host's real git context so the agent never needs direct
// access to push credentials.
func ExecuteGitPush(ctx context.Context, workspaceRoot, branch string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "push", "origin", branch)
	cmd.Dir = workspaceRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git push failed: %s", stderr.String())
	}

	out := fmt.Sprintf("Pushed to %s.\n%s", branch, stdout.String())
	if stderr.Len() > 0 {
		out += "\n" + stderr.String()
	}
	return out, nil
}

// GitStatus returns `git status --short` output, for display in approval
// prompts ahead of a pending git_push decision.
func GitStatus(ctx context.Context, workspaceRoot string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "status", "--short")
	cmd.Dir = workspaceRoot
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	return string(out), nil
}

// GitDiffSummary returns `git diff --stat HEAD` output, for the same purpose
// as GitStatus.
func GitDiffSummary(ctx context.Context, workspaceRoot string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--stat", "HEAD")
	cmd.Dir = workspaceRoot
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return string(out), nil
}
