package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawctl/lawctl/internal/policy"
	"github.com/spf13/cobra"
)

var initTemplate string

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a built-in policy template to disk",
	Long: `Writes one of lawctl's built-in policy templates (safe-dev, safe-ci,
permissive) to a path, creating parent directories as needed. Defaults to
~/.lawctl/policy.yaml using the safe-dev template and refuses to overwrite
an existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initTemplate, "template", policy.TemplateSafeDev, "template to write: safe-dev, safe-ci, permissive")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := policyPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".lawctl", "policy.yaml")
	}

	yamlText, ok := policy.TemplateYAML(initTemplate)
	if !ok {
		var names []string
		for _, t := range policy.Templates() {
			names = append(names, t.Name)
		}
		return fmt.Errorf("unknown template %q (available: %v)", initTemplate, names)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing policy at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(yamlText), 0600); err != nil {
		return fmt.Errorf("writing policy to %s: %w", path, err)
	}

	fmt.Printf("Wrote %s policy template to %s\n", initTemplate, path)
	return nil
}
