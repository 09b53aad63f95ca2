package handlers

import (
	"path/filepath"
	"strings"
)

// withinRoot reports whether target is root itself or a descendant of it.
// Both paths must already be canonicalized (symlinks resolved) — this is a
// pure string comparison and does not touch the filesystem.
func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "..")
}
