package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/lawctl/lawctl/internal/approval"
	"github.com/lawctl/lawctl/internal/audit"
	"github.com/lawctl/lawctl/internal/config"
	"github.com/lawctl/lawctl/internal/gateway"
	"github.com/lawctl/lawctl/internal/policy"
	"github.com/spf13/cobra"
)

var workspaceRoot string

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the mediation gateway server",
	Long: `Starts the gateway: a line-delimited JSON server over a local stream
socket that evaluates every action an agent requests against the active
policy, performs it on allow, blocks on deny, and suspends pending human
approval when the policy requires it. Every decision is journaled before
the response is sent, regardless of outcome.`,
	RunE: runGateway,
}

func init() {
	gatewayCmd.Flags().StringVar(&workspaceRoot, "workspace", "", "workspace root the gateway confines file and shell operations to (default: current directory)")
	rootCmd.AddCommand(gatewayCmd)
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logDir, socketPath, approvalMode)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pol, err := loadOrDefaultPolicy(cfg.PolicyPath)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	engine, err := policy.NewEngine(pol)
	if err != nil {
		return fmt.Errorf("building policy engine: %w", err)
	}

	workspace := workspaceRoot
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving workspace root: %w", err)
		}
		workspace = wd
	}

	sessionID := uuid.NewString()
	auditLogger, err := audit.NewWithDir(cfg.LogDir, sessionID)
	if err != nil {
		return fmt.Errorf("opening audit journal: %w", err)
	}
	defer auditLogger.Close()

	fmt.Fprintf(os.Stderr, "[lawctl] session %s — policy %q (%d rules)\n", sessionID, pol.Law, len(pol.Rules))
	fmt.Fprintf(os.Stderr, "[lawctl] audit journal: %s\n", auditLogger.Path())

	server := &gateway.Server{
		SocketPath:    cfg.SocketPath,
		WorkspaceRoot: workspace,
		SessionID:     sessionID,
		AgentName:     agentName,
		Engine:        engine,
		Logger:        auditLogger,
		Approval:      resolveBroker(cfg.ApprovalMode),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Run(ctx)
}

// resolveBroker maps the --approval flag to a concrete approval.Broker. An
// unrecognized mode falls back to the interactive terminal prompt, the
// safest default for a human sitting at the console.
func resolveBroker(mode string) approval.Broker {
	switch mode {
	case "auto-allow":
		return approval.AutoAllow{}
	case "auto-deny":
		return approval.AutoDeny{}
	default:
		return approval.NewTerminal()
	}
}

// loadOrDefaultPolicy loads the policy at path, falling back to the
// built-in safe-dev template when no policy file exists yet — a fresh
// checkout should get a working gateway, not a hard failure, on first run.
func loadOrDefaultPolicy(path string) (policy.Policy, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "[lawctl] no policy found at %s — using the built-in safe-dev default\n", path)
		return policy.Default()
	}
	return policy.Load(path)
}
