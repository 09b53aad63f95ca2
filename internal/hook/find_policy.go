package hook

import (
	"os"
	"path/filepath"
)

// policyFileName is the project-local policy file the hook looks for,
// walking up from the tool call's working directory.
const policyFileName = ".lawctl.yaml"

// FindPolicy walks up from dir looking for a policy file, returning its path
// and true if found. A missing policy means lawctl isn't set up for this
// project — the caller should allow everything rather than treat it as an
// error.
func FindPolicy(dir string) (string, bool) {
	current := dir
	for {
		candidate := filepath.Join(current, policyFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
