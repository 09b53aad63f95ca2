package policy

import "fmt"

// conditionOutcome is the tri-state result of checking one rule's conditions
// against an ActionContext.
type conditionOutcome int

const (
	notMatched conditionOutcome = iota
	matched
	exceptionMatched
)

// compiledRule pairs a Rule with its pre-built matchers so evaluation never
// compiles a glob on the hot path. Command patterns (if_matches) need no
// pre-compilation step — commandMatches is a plain fragment-split string
// comparison, not a glob, so it has nothing to compile or fail on.
type compiledRule struct {
	rule              Rule
	pathMatcher       *matcher
	unlessPathMatcher *matcher
}

// Engine is a compiled policy: immutable once built, safe to share across
// every concurrent evaluation without locking.
type Engine struct {
	policy        Policy
	compiledRules []compiledRule
}

// NewEngine compiles every rule in p once: action, conditions (matchers
// pre-built), and the rule's own reason/prompt.
func NewEngine(p Policy) (*Engine, error) {
	e := &Engine{policy: p}
	for _, r := range p.Rules {
		cr := compiledRule{rule: r}
		if len(r.Conditions.IfPathMatches) > 0 {
			m, err := compileMatcher(r.Conditions.IfPathMatches)
			if err != nil {
				return nil, fmt.Errorf("compiling if_path_matches for rule %q: %w", r.Describe(), err)
			}
			cr.pathMatcher = m
		}
		if len(r.Conditions.UnlessPath) > 0 {
			m, err := compileMatcher(expandUnlessPath(r.Conditions.UnlessPath))
			if err != nil {
				return nil, fmt.Errorf("compiling unless_path for rule %q: %w", r.Describe(), err)
			}
			cr.unlessPathMatcher = m
		}
		e.compiledRules = append(e.compiledRules, cr)
	}
	return e, nil
}

// Policy returns the compiled policy's source definition.
func (e *Engine) Policy() Policy { return e.policy }

// Evaluate runs the first-match-wins policy engine for one action/context
// pair and returns the resulting Decision.
func (e *Engine) Evaluate(action Action, ctx ActionContext) Decision {
	ctx.Target = normalizePath(ctx.Target)

	for _, cr := range e.compiledRules {
		if cr.rule.Action != action {
			continue
		}
		switch checkConditions(cr, ctx) {
		case matched:
			return ruleToDecision(cr.rule, ctx)
		case exceptionMatched:
			if cr.rule.Kind == RuleDeny {
				return Decision{
					Kind:        Allowed,
					MatchedRule: cr.rule.Describe() + " (exception)",
				}
			}
			// ExceptionMatched on Allow/RequireApproval behaves like
			// NotMatched — fall through to the next rule. Preserved
			// verbatim per the asymmetry this engine is specified to keep.
		case notMatched:
			// fall through to the next rule
		}
	}

	return defaultDecision(action)
}

// checkConditions evaluates one compiled rule's conditions against ctx.
func checkConditions(cr compiledRule, ctx ActionContext) conditionOutcome {
	c := cr.rule.Conditions

	if len(c.IfPathMatches) == 0 && len(c.UnlessPath) == 0 && len(c.UnlessDomain) == 0 &&
		len(c.IfMatches) == 0 && c.MaxDiffLines == nil {
		return matched
	}

	if cr.unlessPathMatcher != nil && cr.unlessPathMatcher.matches(ctx.Target) {
		return exceptionMatched
	}

	if len(c.UnlessDomain) > 0 && ctx.Domain != "" {
		for _, suffix := range c.UnlessDomain {
			if domainMatchesSuffix(ctx.Domain, suffix) {
				return exceptionMatched
			}
		}
	}

	if cr.pathMatcher != nil && !cr.pathMatcher.isEmpty() {
		if !cr.pathMatcher.matches(ctx.Target) {
			return notMatched
		}
	}

	if len(c.IfMatches) > 0 {
		if ctx.Command == "" || !commandMatches(ctx.Command, c.IfMatches) {
			return notMatched
		}
	}

	if c.MaxDiffLines != nil && ctx.DiffLines != nil && *ctx.DiffLines > *c.MaxDiffLines {
		return notMatched
	}

	return matched
}

// ruleToDecision converts a matched rule into its Decision, synthesizing a
// default reason/prompt when the rule did not supply one.
func ruleToDecision(r Rule, ctx ActionContext) Decision {
	switch r.Kind {
	case RuleDeny:
		reason := r.Reason
		if reason == "" {
			reason = defaultDenyReason(r, ctx)
		}
		return Decision{Kind: Denied, Reason: reason, MatchedRule: r.Describe()}
	case RuleRequireApproval:
		prompt := r.Prompt
		if prompt == "" {
			prompt = fmt.Sprintf("Approval required for %s on %q.", r.Action, ctx.Target)
		}
		return Decision{Kind: RequiresApproval, Reason: prompt, MatchedRule: r.Describe()}
	default: // RuleAllow
		return Decision{Kind: Allowed, MatchedRule: r.Describe()}
	}
}

func defaultDenyReason(r Rule, ctx ActionContext) string {
	switch {
	case len(r.Conditions.IfPathMatches) > 0:
		return fmt.Sprintf("Denied — %q matches a protected path pattern (%s)", ctx.Target, joinComma(r.Conditions.IfPathMatches))
	case len(r.Conditions.IfMatches) > 0:
		return fmt.Sprintf("Denied — command matches a blocked pattern (%s)", joinComma(r.Conditions.IfMatches))
	default:
		return fmt.Sprintf("Denied by policy rule %q", r.Describe())
	}
}

// defaultDecision is the verdict when no rule matched: destructive actions
// deny by default, everything else allows by default.
func defaultDecision(a Action) Decision {
	if a.IsDestructive() {
		return Decision{
			Kind:   Denied,
			Reason: fmt.Sprintf("destructive actions are denied by default (%s has no matching rule)", a),
		}
	}
	return Decision{Kind: Allowed}
}
