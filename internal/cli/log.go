package cli

import (
	"fmt"
	"strings"

	"github.com/lawctl/lawctl/internal/audit"
	"github.com/lawctl/lawctl/internal/config"
	"github.com/spf13/cobra"
)

var (
	logSessionID string
	logActionF   string
	logDecisionF string
	logLast      int
	logSummary   bool
	logAll       bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit journal",
	Long: `Views lawctl's audit journal: one append-only JSONL file per session,
under the log directory. Defaults to the most recently written session.

Examples:
  lawctl log                         show the latest session
  lawctl log --session <id>          show one session by id
  lawctl log --all                   show every known session
  lawctl log --decision denied       only denied entries
  lawctl log --last 20               only the last 20 entries
  lawctl log --summary               decision counts instead of entries`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logSessionID, "session", "", "session id to show (default: most recent)")
	logCmd.Flags().StringVar(&logActionF, "action", "", "filter by action (write, delete, run_cmd, git_push, network)")
	logCmd.Flags().StringVar(&logDecisionF, "decision", "", "filter by decision category (allowed, denied, approved)")
	logCmd.Flags().IntVar(&logLast, "last", 0, "show only the last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "show decision counts instead of entries")
	logCmd.Flags().BoolVar(&logAll, "all", false, "show every known session, not just the most recent")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, logDir, socketPath, approvalMode)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	reader := audit.NewReaderWithDir(cfg.LogDir)

	sessionIDs, err := resolveSessionIDs(reader)
	if err != nil {
		fmt.Println(err)
		return nil
	}

	filter := audit.Filter{
		Action:   logActionF,
		Decision: audit.DecisionFilter(logDecisionF),
	}

	for _, id := range sessionIDs {
		records, err := reader.ReadSession(id)
		if err != nil {
			return fmt.Errorf("reading session %s: %w", id, err)
		}

		if logSummary {
			fmt.Println(audit.Summarize(id, records).OneLine())
			continue
		}

		filtered := audit.FilterRecords(records, filter)
		if logLast > 0 && len(filtered) > logLast {
			filtered = filtered[len(filtered)-logLast:]
		}
		for _, rec := range filtered {
			printRecord(rec)
		}
	}

	return nil
}

func resolveSessionIDs(reader *audit.Reader) ([]string, error) {
	switch {
	case logSessionID != "":
		return []string{logSessionID}, nil
	case logAll:
		ids, err := reader.ListSessions()
		if err != nil {
			return nil, fmt.Errorf("no audit sessions found")
		}
		return ids, nil
	default:
		id, err := reader.FindLatestSession()
		if err != nil {
			return nil, fmt.Errorf("no audit sessions found")
		}
		return []string{id}, nil
	}
}

func printRecord(r audit.Record) {
	marker := "?"
	switch {
	case r.ApprovedBy != "":
		marker = "~"
	case strings.EqualFold(r.Decision, "allowed"):
		marker = "+"
	case strings.EqualFold(r.Decision, "denied"):
		marker = "x"
	}

	fmt.Printf("%s %s %-9s %-40s %s\n",
		marker,
		r.Timestamp.Local().Format("2006-01-02 15:04:05"),
		r.Action,
		r.Target,
		strings.ToUpper(r.Decision))

	if r.PolicyRule != "" {
		fmt.Printf("    rule: %s\n", r.PolicyRule)
	}
	if r.ApprovedBy != "" {
		fmt.Printf("    approved by: %s\n", r.ApprovedBy)
	}
}
