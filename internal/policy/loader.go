package policy

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a policy file from disk. Unlike a typical
// fail-soft config loader, a missing or invalid policy is never silently
// replaced with a permissive default — every validation failure here is a
// load-time error the caller must handle explicitly (the hook adapter turns
// it into a fail-open exit 0; the gateway treats it as fatal to start).
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file %s: %w", path, err)
	}
	return Parse(data)
}

// rawPolicy is the intermediate YAML shape, parsed before alias resolution
// and condition validation.
type rawPolicy struct {
	Law         string    `yaml:"law"`
	Description string    `yaml:"description"`
	Rules       []rawRule `yaml:"rules"`
}

type rawRule struct {
	Deny            string       `yaml:"deny"`
	Allow           string       `yaml:"allow"`
	RequireApproval string       `yaml:"require_approval"`
	IfPathMatches   StringOrList `yaml:"if_path_matches"`
	UnlessPath      StringOrList `yaml:"unless_path"`
	UnlessDomain    StringOrList `yaml:"unless_domain"`
	IfMatches       StringOrList `yaml:"if_matches"`
	MaxDiffLines    *int         `yaml:"max_diff_lines"`
	Reason          string       `yaml:"reason"`
	Prompt          string       `yaml:"prompt"`
}

// Parse validates and converts raw policy YAML into a Policy ready for
// NewEngine. A policy with an empty law name or zero rules is rejected, as
// is any rule specifying zero or more than one of deny/allow/require_approval,
// an unknown action name, a condition forbidden for its action, or a
// malformed glob pattern.
func Parse(data []byte) (Policy, error) {
	var raw rawPolicy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Policy{}, fmt.Errorf("parsing policy YAML: %w", err)
	}

	if raw.Law == "" {
		return Policy{}, fmt.Errorf("policy is missing a law name")
	}

	rules := make([]Rule, 0, len(raw.Rules))
	for i, rr := range raw.Rules {
		rule, err := convertRule(rr)
		if err != nil {
			return Policy{}, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return Policy{}, fmt.Errorf("policy %q has no rules — a policy with zero rules is rejected, not treated as allow-everything", raw.Law)
	}

	return Policy{Law: raw.Law, Description: raw.Description, Rules: rules}, nil
}

func convertRule(rr rawRule) (Rule, error) {
	setCount := 0
	var kind RuleKind
	var actionName string
	if rr.Deny != "" {
		setCount++
		kind, actionName = RuleDeny, rr.Deny
	}
	if rr.Allow != "" {
		setCount++
		kind, actionName = RuleAllow, rr.Allow
	}
	if rr.RequireApproval != "" {
		setCount++
		kind, actionName = RuleRequireApproval, rr.RequireApproval
	}

	switch {
	case setCount == 0:
		return Rule{}, fmt.Errorf("must specify one of: deny, allow, or require_approval")
	case setCount > 1:
		return Rule{}, fmt.Errorf("specifies multiple rule types (deny/allow/require_approval) — pick one")
	}

	action, ok := ParseAction(actionName)
	if !ok {
		return Rule{}, fmt.Errorf("unknown action: %s", actionName)
	}

	conditions := Conditions{
		IfPathMatches: rr.IfPathMatches,
		UnlessPath:    rr.UnlessPath,
		UnlessDomain:  rr.UnlessDomain,
		IfMatches:     rr.IfMatches,
		MaxDiffLines:  rr.MaxDiffLines,
	}
	if err := validateConditionsForAction(action, conditions); err != nil {
		return Rule{}, err
	}
	if err := validateGlobs(conditions); err != nil {
		return Rule{}, err
	}

	return Rule{
		Kind:       kind,
		Action:     action,
		Conditions: conditions,
		Reason:     rr.Reason,
		Prompt:     rr.Prompt,
	}, nil
}

func validateConditionsForAction(a Action, c Conditions) error {
	switch a {
	case ActionRunCmd:
		if len(c.IfPathMatches) > 0 || len(c.UnlessPath) > 0 {
			return fmt.Errorf("'if_path_matches' and 'unless_path' don't apply to run_cmd actions. Use 'if_matches' to match against the command string instead")
		}
	case ActionGitPush:
		if len(c.IfMatches) > 0 {
			return fmt.Errorf("'if_matches' doesn't apply to git_push actions")
		}
	case ActionNetwork:
		if len(c.IfPathMatches) > 0 || len(c.UnlessPath) > 0 {
			return fmt.Errorf("'if_path_matches' and 'unless_path' don't apply to network actions")
		}
	case ActionWrite, ActionDelete:
		if len(c.UnlessDomain) > 0 {
			return fmt.Errorf("'unless_domain' doesn't apply to %s actions", a)
		}
	}
	return nil
}

// validateGlobs compiles every if_path_matches pattern, and every
// unless_path entry that contains a glob metacharacter, so a malformed
// pattern is a load error rather than a silent no-op at evaluation time.
// if_matches patterns are not compiled: the command matcher treats only `*`
// as special, so no command pattern can be malformed.
func validateGlobs(c Conditions) error {
	for _, p := range c.IfPathMatches {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("invalid if_path_matches pattern %q: %w", p, err)
		}
	}
	for _, p := range c.UnlessPath {
		if !hasGlobMeta(p) {
			continue
		}
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("invalid unless_path pattern %q: %w", p, err)
		}
	}
	return nil
}
