package policy

import "testing"

func TestLint_PermissiveCatchesIssues(t *testing.T) {
	p, err := Parse([]byte(PermissiveYAML))
	if err != nil {
		t.Fatalf("parsing permissive template: %v", err)
	}
	warnings := Lint(p)
	if len(warnings) < 3 {
		t.Fatalf("expected at least 3 warnings for the permissive policy, got %d: %v", len(warnings), warnings)
	}
}

func TestLint_SafeDevMinimalWarnings(t *testing.T) {
	p, err := Parse([]byte(SafeDevYAML))
	if err != nil {
		t.Fatalf("parsing safe-dev template: %v", err)
	}
	warnings := Lint(p)
	for _, w := range warnings {
		if w.Severity == SeverityWarning {
			t.Errorf("unexpected warning-level finding on the safe-dev template: %s", w)
		}
	}
}

func TestLint_OrderingIssue(t *testing.T) {
	p, err := Parse([]byte(`
law: test
rules:
  - allow: write
  - deny: write
    if_path_matches: ["*.env"]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	warnings := Lint(p)
	found := false
	for _, w := range warnings {
		if w.Severity == SeverityWarning && containsFold(w.Message, "unreachable") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the linter to flag the unreachable deny rule, got %v", warnings)
	}
}
