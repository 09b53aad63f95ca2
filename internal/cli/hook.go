package cli

import (
	"os"

	"github.com/lawctl/lawctl/internal/hook"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "One-shot pre-tool-call policy check",
	Long: `Reads one tool-call descriptor as JSON from standard input (the shape a
host agent's PreToolUse hook writes), maps it to one or more policy
actions, evaluates each against the nearest .lawctl.yaml policy walking up
from the descriptor's cwd, and exits 0 (allow) or 2 (block).

This command never hard-fails the calling agent on its own errors — a
missing policy, an unparsable descriptor, or a malformed policy file all
fail open (exit 0) with a diagnostic on stderr. The gateway, not this
command, is the fail-closed authority.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := hook.Run(hook.Options{
			Stdin:     os.Stdin,
			Stderr:    os.Stderr,
			AgentName: agentName,
		})
		os.Exit(code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
