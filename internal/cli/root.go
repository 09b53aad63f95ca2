// Package cli assembles lawctl's command tree: gateway (start the mediation
// server), hook (the one-shot PreToolUse adapter), log (audit journal
// viewer), lint (static policy checks), and init (write a built-in policy
// template). Each subcommand is a thin wrapper over internal/policy,
// internal/gateway, internal/hook, and internal/audit — the command tree
// itself does no policy evaluation of its own.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	policyPath   string
	logDir       string
	socketPath   string
	approvalMode string
	agentName    string
)

var rootCmd = &cobra.Command{
	Use:   "lawctl",
	Short: "A policy-driven firewall for AI coding agents",
	Long: `lawctl mediates every write, delete, shell command, git push, and
network request an AI coding agent attempts. Each action is classified
against a declarative policy and either allowed, denied, or suspended
pending human approval — before it reaches the host. Every decision is
journaled to an append-only audit trail.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "path to policy YAML file (default: ~/.lawctl/policy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "audit journal directory (default: ~/.lawctl/logs)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "gateway socket path (default: ~/.lawctl/gateway.sock, or $LAWCTL_SOCKET)")
	rootCmd.PersistentFlags().StringVar(&approvalMode, "approval", "", "approval broker: prompt, auto-allow, auto-deny (default: prompt)")
	rootCmd.PersistentFlags().StringVar(&agentName, "agent", "claude-code", "agent name recorded in audit entries")
}

// Execute runs the lawctl command tree against os.Args.
func Execute() error {
	return rootCmd.Execute()
}
