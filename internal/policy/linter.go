package policy

import (
	"fmt"
	"strings"
)

// Severity classifies a LintWarning.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// LintWarning is one observation the linter makes about a policy. Warnings
// never change the engine's verdicts — they flag likely operator mistakes.
type LintWarning struct {
	Severity   Severity
	Message    string
	Suggestion string
}

func (w LintWarning) String() string {
	if w.Suggestion == "" {
		return fmt.Sprintf("[%s] %s", w.Severity, w.Message)
	}
	return fmt.Sprintf("[%s] %s (suggestion: %s)", w.Severity, w.Message, w.Suggestion)
}

// Lint runs a set of static checks over a parsed policy and returns every
// warning found. It never consults the engine and never changes behavior.
func Lint(p Policy) []LintWarning {
	var warnings []LintWarning
	warnings = append(warnings, checkSecretsProtection(p)...)
	warnings = append(warnings, checkDeleteProtection(p)...)
	warnings = append(warnings, checkDangerousCommands(p)...)
	warnings = append(warnings, checkGitProtection(p)...)
	warnings = append(warnings, checkNetworkRules(p)...)
	warnings = append(warnings, checkRuleOrdering(p)...)
	warnings = append(warnings, checkCatchAll(p)...)
	return warnings
}

var secretPathHints = []string{"*.env", ".env", ".ssh", "*.pem", "*.key"}

func checkSecretsProtection(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Kind == RuleDeny && r.Action == ActionWrite {
			for _, pat := range r.Conditions.IfPathMatches {
				for _, hint := range secretPathHints {
					if pat == hint || containsFold(pat, hint) {
						return nil
					}
				}
			}
		}
	}
	return []LintWarning{{
		Severity:   SeverityWarning,
		Message:    "no rule denies writes to common secret files (.env, .ssh, *.pem, *.key)",
		Suggestion: `deny: write, if_path_matches: ["*.env", ".ssh/*", "*.pem", "*.key"]`,
	}}
}

func checkDeleteProtection(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Action == ActionDelete {
			return nil
		}
	}
	return []LintWarning{{
		Severity:   SeverityWarning,
		Message:    "no rule governs delete actions at all",
		Suggestion: "deny: delete, unless_path: /tmp",
	}}
}

func checkDangerousCommands(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Kind == RuleDeny && r.Action == ActionRunCmd && len(r.Conditions.IfMatches) > 0 {
			return nil
		}
	}
	return []LintWarning{{
		Severity:   SeverityWarning,
		Message:    "no rule denies known-dangerous shell command patterns",
		Suggestion: `deny: run_cmd, if_matches: ["rm -rf *", "curl * | bash"]`,
	}}
}

func checkGitProtection(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Action == ActionGitPush {
			return nil
		}
	}
	return []LintWarning{{
		Severity:   SeverityWarning,
		Message:    "no rule governs git_push — pushes would be denied by default, silently",
		Suggestion: "require_approval: git_push",
	}}
}

func checkNetworkRules(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Action == ActionNetwork {
			return nil
		}
	}
	return []LintWarning{{
		Severity: SeverityInfo,
		Message:  "no rule governs network actions — all network requests will be allowed by default",
	}}
}

// checkRuleOrdering flags a broad allow with no path restriction appearing
// before a narrower deny for the same action — first-match-wins means the
// deny can never fire.
func checkRuleOrdering(p Policy) []LintWarning {
	var warnings []LintWarning
	for i, allow := range p.Rules {
		if allow.Kind != RuleAllow || len(allow.Conditions.IfPathMatches) != 0 {
			continue
		}
		for _, deny := range p.Rules[i+1:] {
			if deny.Kind == RuleDeny && deny.Action == allow.Action && len(deny.Conditions.IfPathMatches) > 0 {
				warnings = append(warnings, LintWarning{
					Severity: SeverityWarning,
					Message: fmt.Sprintf("rule %q is unreachable: an unconditional %q rule earlier in the policy always matches first",
						deny.Describe(), allow.Describe()),
					Suggestion: "move the narrower deny rule before the broad allow rule",
				})
			}
		}
	}
	return warnings
}

func checkCatchAll(p Policy) []LintWarning {
	for _, r := range p.Rules {
		if r.Kind == RuleAllow && r.Action == ActionWrite && len(r.Conditions.IfPathMatches) == 0 {
			return []LintWarning{{
				Severity: SeverityInfo,
				Message:  "an unrestricted 'allow: write' rule with no if_path_matches allows writes anywhere in the workspace",
			}}
		}
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
