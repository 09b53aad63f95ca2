package policy

import (
	"fmt"
	"strings"
)

// Action is one of the five side-effecting operations an agent can request.
type Action string

const (
	ActionWrite   Action = "write"
	ActionDelete  Action = "delete"
	ActionRunCmd  Action = "run_cmd"
	ActionGitPush Action = "git_push"
	ActionNetwork Action = "network"
)

// actionAliases resolves the loose action names a policy author might write
// to the canonical Action. Keys are lower-case; ParseAction lower-cases and
// trims its input before lookup.
var actionAliases = map[string]Action{
	"write":       ActionWrite,
	"write_file":  ActionWrite,
	"file_write":  ActionWrite,
	"delete":      ActionDelete,
	"delete_file": ActionDelete,
	"file_delete": ActionDelete,
	"rm":          ActionDelete,
	"run_cmd":     ActionRunCmd,
	"shell":       ActionRunCmd,
	"exec":        ActionRunCmd,
	"command":     ActionRunCmd,
	"cmd":         ActionRunCmd,
	"git_push":    ActionGitPush,
	"push":        ActionGitPush,
	"git":         ActionGitPush,
	"network":     ActionNetwork,
	"net":         ActionNetwork,
	"http":        ActionNetwork,
	"fetch":       ActionNetwork,
}

// ParseAction resolves a loosely-written action name to its canonical form.
func ParseAction(raw string) (Action, bool) {
	a, ok := actionAliases[strings.ToLower(strings.TrimSpace(raw))]
	return a, ok
}

// IsDestructive reports whether an unmatched instance of this action should
// be denied by default.
func (a Action) IsDestructive() bool {
	switch a {
	case ActionDelete, ActionGitPush, ActionRunCmd:
		return true
	default:
		return false
	}
}

// Conditions gate whether a rule applies to a given ActionContext.
type Conditions struct {
	IfPathMatches StringOrList `yaml:"if_path_matches,omitempty"`
	UnlessPath    StringOrList `yaml:"unless_path,omitempty"`
	UnlessDomain  StringOrList `yaml:"unless_domain,omitempty"`
	IfMatches     StringOrList `yaml:"if_matches,omitempty"`
	MaxDiffLines  *int         `yaml:"max_diff_lines,omitempty"`
}

// RuleKind distinguishes the three rule shapes a Rule may take.
type RuleKind string

const (
	RuleDeny            RuleKind = "deny"
	RuleAllow           RuleKind = "allow"
	RuleRequireApproval RuleKind = "require_approval"
)

// Rule is one ordered entry in a Policy's rule list. Kind says whether the
// rule denies, allows, or requires approval; Action names the action it
// governs.
type Rule struct {
	Kind       RuleKind
	Action     Action
	Conditions Conditions
	Reason     string
	Prompt     string
}

// Describe renders the stable human-readable identifier used as a matched
// rule string in decisions and audit records, e.g.
// "deny:write:if_path_matches:*.env,.ssh/*" or "require_approval:git_push".
func (r Rule) Describe() string {
	s := fmt.Sprintf("%s:%s", r.Kind, r.Action)
	if len(r.Conditions.IfPathMatches) > 0 {
		s += ":if_path_matches:" + joinComma(r.Conditions.IfPathMatches)
	}
	if len(r.Conditions.UnlessPath) > 0 {
		s += ":unless_path:" + joinComma(r.Conditions.UnlessPath)
	}
	if len(r.Conditions.UnlessDomain) > 0 {
		s += ":unless_domain:" + joinComma(r.Conditions.UnlessDomain)
	}
	if len(r.Conditions.IfMatches) > 0 {
		s += ":if_matches:" + joinComma(r.Conditions.IfMatches)
	}
	if r.Conditions.MaxDiffLines != nil {
		s += fmt.Sprintf(":max_diff_lines:%d", *r.Conditions.MaxDiffLines)
	}
	return s
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}

// Policy is an ordered rule list with an identifier, evaluated first-match-wins.
type Policy struct {
	Law         string `yaml:"law"`
	Description string `yaml:"description,omitempty"`
	Rules       []Rule `yaml:"-"`
}

// Decision is the engine's verdict for one query.
type Decision struct {
	Kind        DecisionKind
	Reason      string
	MatchedRule string
	ApprovedBy  string
}

// DecisionKind is the closed set of verdicts a Decision can carry.
type DecisionKind string

const (
	Allowed          DecisionKind = "allowed"
	Denied           DecisionKind = "denied"
	RequiresApproval DecisionKind = "requires_approval"
)

func (d Decision) IsAllowed() bool          { return d.Kind == Allowed }
func (d Decision) IsDenied() bool           { return d.Kind == Denied }
func (d Decision) IsRequiresApproval() bool { return d.Kind == RequiresApproval }

func (d Decision) String() string {
	switch d.Kind {
	case Allowed:
		return "ALLOWED"
	case Denied:
		return "DENIED"
	case RequiresApproval:
		return "REQUIRES_APPROVAL"
	default:
		return string(d.Kind)
	}
}

// ActionContext carries the per-request facts the engine evaluates a rule's
// conditions against.
type ActionContext struct {
	Target    string
	Diff      string
	DiffLines *int
	Command   string
	Domain    string
}

// NewActionContext builds a bare context for the given target.
func NewActionContext(target string) ActionContext {
	return ActionContext{Target: target}
}

// WithDiff attaches diff content and derives DiffLines from its line count.
func (c ActionContext) WithDiff(diff string) ActionContext {
	c.Diff = diff
	n := countLines(diff)
	c.DiffLines = &n
	return c
}

// WithCommand attaches the raw shell command this context represents.
func (c ActionContext) WithCommand(command string) ActionContext {
	c.Command = command
	return c
}

// WithDomain attaches a pre-extracted network domain.
func (c ActionContext) WithDomain(domain string) ActionContext {
	c.Domain = domain
	return c
}

// countLines mirrors Rust's str::lines().count(): a trailing "\n" ends the
// final line rather than starting a new empty one, so "a\nb\n" counts as 2
// lines, not 3. Only a "\n" that is not the string's last byte starts an
// additional line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if s[len(s)-1] != '\n' {
		n++
	}
	return n
}

// StringOrList allows YAML fields to accept either a single string or a list.
// "rm" -> ["rm"], ["rm", "unlink"] -> ["rm", "unlink"].
type StringOrList []string

func (s *StringOrList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = list
	return nil
}
