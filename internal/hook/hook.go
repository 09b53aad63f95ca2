// Package hook implements the PreToolUse hook adapter: a short-lived process
// invoked by an agent harness before every tool call. It reads one tool
// descriptor from stdin, maps it to zero or more policy actions, evaluates
// each, and reports its verdict via exit code.
//
// Every failure mode here — a bad policy file, a missing policy, an
// unparsable tool descriptor — fails open (exit 0, allow). The hook runs on
// the agent's hot path; its job is to catch actions a policy explicitly
// names, never to become a single point of failure that blocks a session.
// The gateway, not the hook, is the fail-closed boundary.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lawctl/lawctl/internal/audit"
	"github.com/lawctl/lawctl/internal/policy"
)

// Exit codes the hook adapter reports to its caller.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// Input is the tool descriptor an agent harness writes to the hook's stdin.
type Input struct {
	SessionID     string          `json:"session_id"`
	Cwd           string          `json:"cwd"`
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input"`
}

func (i Input) field(name string) string {
	if len(i.ToolInput) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(i.ToolInput, &m); err != nil {
		return ""
	}
	v, ok := m[name].(string)
	if !ok {
		return ""
	}
	return v
}

// checkedAction pairs an action with the context to evaluate it under.
type checkedAction struct {
	action policy.Action
	ctx    policy.ActionContext
}

// Options configures one hook invocation.
type Options struct {
	Stdin     io.Reader
	Stderr    io.Writer
	AgentName string

	// FindPolicy locates a policy file given the tool call's cwd. Defaults
	// to walking up from cwd looking for .lawctl.yaml.
	FindPolicy func(cwd string) (string, bool)
}

// Run executes one hook invocation end to end and returns the process exit
// code the caller should use. It never panics and never itself fails the
// calling process — every internal error degrades to ExitAllow.
func Run(opts Options) int {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	agentName := opts.AgentName
	if agentName == "" {
		agentName = "claude-code"
	}
	findPolicy := opts.FindPolicy
	if findPolicy == nil {
		findPolicy = FindPolicy
	}

	raw, err := io.ReadAll(opts.Stdin)
	if err != nil {
		fmt.Fprintf(stderr, "[lawctl] failed to read stdin: %v\n", err)
		return ExitAllow
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		fmt.Fprintf(stderr, "[lawctl] failed to parse hook input: %v\n", err)
		return ExitAllow
	}

	cwd := input.Cwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		} else {
			cwd = "."
		}
	}

	policyPath, ok := findPolicy(cwd)
	if !ok {
		return ExitAllow
	}

	pol, err := policy.Load(policyPath)
	if err != nil {
		fmt.Fprintf(stderr, "[lawctl] failed to parse policy: %v\n", err)
		return ExitAllow
	}

	engine, err := policy.NewEngine(pol)
	if err != nil {
		fmt.Fprintf(stderr, "[lawctl] failed to build policy engine: %v\n", err)
		return ExitAllow
	}

	actions := mapToolToActions(input)
	if len(actions) == 0 {
		return ExitAllow
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = "claude-hook"
	}

	// Evaluate every mapped action. A dual-action command like `rm -rf /`
	// maps to both RunCmd and Delete so a rule keyed on either path still
	// catches it — the first denial or approval requirement wins.
	for _, ca := range actions {
		start := time.Now()
		decision := engine.Evaluate(ca.action, ca.ctx)
		evalUS := time.Since(start).Microseconds()

		logDecision(sessionID, agentName, ca, decision, evalUS)

		switch decision.Kind {
		case policy.Denied:
			fmt.Fprintf(stderr, "[lawctl] BLOCKED: %s — %s\n", describeAction(ca.action, input), decision.Reason)
			return ExitBlock
		case policy.RequiresApproval:
			fmt.Fprintf(stderr, "[lawctl] NEEDS APPROVAL: %s — %s. Run `lawctl log` to review.\n", describeAction(ca.action, input), decision.Reason)
			return ExitBlock
		}
	}

	return ExitAllow
}

// mapToolToActions maps one tool call to the policy actions it should be
// checked against. Read-only and unrecognized tools return nil — they are
// always allowed without a policy lookup.
func mapToolToActions(input Input) []checkedAction {
	switch input.ToolName {
	case "Write":
		filePath := orUnknown(input.field("file_path"))
		ctx := policy.NewActionContext(filePath).WithDiff(input.field("content"))
		return []checkedAction{{policy.ActionWrite, ctx}}

	case "Edit":
		filePath := orUnknown(input.field("file_path"))
		ctx := policy.NewActionContext(filePath).WithDiff(input.field("new_string"))
		return []checkedAction{{policy.ActionWrite, ctx}}

	case "NotebookEdit":
		notebook := orUnknown(input.field("notebook_path"))
		ctx := policy.NewActionContext(notebook).WithDiff(input.field("new_source"))
		return []checkedAction{{policy.ActionWrite, ctx}}

	case "Bash":
		return mapBash(input.field("command"))

	case "WebFetch", "WebSearch":
		url := input.field("url")
		ctx := policy.NewActionContext(url).WithDomain(extractDomain(url))
		return []checkedAction{{policy.ActionNetwork, ctx}}

	default:
		return nil
	}
}

// mapBash maps a shell command to one or two actions. A command that starts
// with `git push`, or that chains one in with `&& git push`/`; git push`, is
// checked as both GitPush (branch-scoped rules) and RunCmd (command-pattern
// rules); `rm` is checked as both RunCmd and Delete, so a rule written
// against either the command string or the deleted path still catches it.
func mapBash(command string) []checkedAction {
	trimmed := strings.TrimSpace(command)
	cmdCtx := policy.NewActionContext("shell").WithCommand(command)

	if suffix, ok := gitPushSuffix(trimmed); ok {
		rest := strings.TrimSpace(strings.TrimPrefix(suffix, "git push"))
		branch := "main"
		if fields := strings.Fields(rest); len(fields) > 0 {
			branch = fields[len(fields)-1]
		}
		return []checkedAction{
			{policy.ActionGitPush, policy.NewActionContext(branch)},
			{policy.ActionRunCmd, cmdCtx},
		}
	}

	switch {
	case strings.HasPrefix(trimmed, "rm ") || strings.HasPrefix(trimmed, "rm -"):
		actions := []checkedAction{{policy.ActionRunCmd, cmdCtx}}
		if target := firstNonFlagArg(trimmed); target != "" {
			actions = append(actions, checkedAction{policy.ActionDelete, policy.NewActionContext(target)})
		}
		return actions

	default:
		return []checkedAction{{policy.ActionRunCmd, cmdCtx}}
	}
}

// gitPushSuffix reports whether trimmed is, or chains in, a `git push`
// invocation: a literal prefix, or a command joined in with `&& git push` or
// `; git push`. On success it returns the push-suffix — from `git push`
// through the next chain operator or the end of the command — which is what
// the branch name is derived from, so a trailing `&& echo done` never leaks
// into the branch token.
func gitPushSuffix(trimmed string) (string, bool) {
	idx := strings.Index(trimmed, "git push")
	if idx < 0 {
		return "", false
	}
	if idx > 0 {
		before := strings.TrimRight(trimmed[:idx], " \t")
		if !strings.HasSuffix(before, "&&") && !strings.HasSuffix(before, ";") {
			return "", false
		}
	}

	suffix := trimmed[idx:]
	end := len(suffix)
	if i := strings.Index(suffix, "&&"); i >= 0 && i < end {
		end = i
	}
	if i := strings.Index(suffix, ";"); i >= 0 && i < end {
		end = i
	}
	return strings.TrimSpace(suffix[:end]), true
}

// firstNonFlagArg returns the first whitespace-separated token after the
// command name that doesn't start with '-'.
func firstNonFlagArg(command string) string {
	fields := strings.Fields(command)
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "-") {
			return f
		}
	}
	return ""
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// extractDomain pulls the host out of a scheme://host/path URL.
func extractDomain(url string) string {
	parts := strings.SplitN(url, "://", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.SplitN(parts[1], "/", 2)[0]
}

// describeAction renders a short human-readable description of the checked
// action for the blocking stderr message.
func describeAction(action policy.Action, input Input) string {
	var target string
	switch input.ToolName {
	case "Write", "Edit":
		target = orUnknown(input.field("file_path"))
	case "Bash":
		cmd := orUnknown(input.field("command"))
		if len(cmd) > 80 {
			cmd = cmd[:80]
		}
		target = cmd
	default:
		target = input.ToolName
	}
	return fmt.Sprintf("%s '%s'", action, target)
}

// logDecision writes a best-effort audit record for one checked action.
// Log failures are swallowed — a full disk must never turn the hook's
// fail-open posture into a hard failure.
func logDecision(sessionID, agentName string, ca checkedAction, decision policy.Decision, evalUS int64) {
	logger, err := audit.New(sessionID)
	if err != nil {
		return
	}
	defer logger.Close()

	_ = logger.Log(audit.Record{
		Timestamp:     time.Now().UTC(),
		SessionID:     sessionID,
		Agent:         agentName,
		Action:        string(ca.action),
		Target:        ca.ctx.Target,
		PolicyRule:    decision.MatchedRule,
		Decision:      string(decision.Kind),
		Diff:          ca.ctx.Diff,
		EvalDurationU: evalUS,
	})
}
