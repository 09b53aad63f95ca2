package cli

import (
	"fmt"

	"github.com/lawctl/lawctl/internal/policy"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [policy-file]",
	Short: "Check a policy file for likely authoring mistakes",
	Long: `Parses a policy file and runs the static linter over it: rule-ordering
hazards (a broad allow ordered before a narrower deny for the same action,
which first-match-wins makes unreachable), missing secrets/delete/
dangerous-command protection, and similar gaps. Linting never changes the
engine's verdicts — these are warnings, not validation errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	path := policyPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no policy file given (pass one as an argument or with --policy)")
	}

	pol, err := policy.Load(path)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	warnings := policy.Lint(pol)
	if len(warnings) == 0 {
		fmt.Printf("%s: no warnings (%d rules)\n", pol.Law, len(pol.Rules))
		return nil
	}

	fmt.Printf("%s: %d warning(s)\n", pol.Law, len(warnings))
	for _, w := range warnings {
		fmt.Println("  " + w.String())
	}
	return nil
}
