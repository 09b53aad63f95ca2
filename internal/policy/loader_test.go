package policy

import "testing"

func TestParse_BasicPolicy(t *testing.T) {
	p, err := Parse([]byte(`
law: my-policy
rules:
  - deny: write
    if_path_matches: "*.env"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Law != "my-policy" {
		t.Errorf("law = %q", p.Law)
	}
	if len(p.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(p.Rules))
	}
	if got := p.Rules[0].Conditions.IfPathMatches; len(got) != 1 || got[0] != "*.env" {
		t.Errorf("if_path_matches = %v, want a single-element list sugar", got)
	}
}

func TestParse_RejectsEmptyLaw(t *testing.T) {
	_, err := Parse([]byte(`
rules:
  - deny: write
`))
	if err == nil {
		t.Fatal("expected an error for an empty law name")
	}
}

func TestParse_RejectsNoRules(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules: []
`))
	if err == nil {
		t.Fatal("expected an error for zero rules")
	}
}

func TestParse_RejectsUnknownAction(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: teleport
`))
	if err == nil {
		t.Fatal("expected an error for an unknown action")
	}
}

func TestParse_RejectsMultipleRuleTypes(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: write
    allow: write
`))
	if err == nil {
		t.Fatal("expected an error when a rule specifies more than one kind")
	}
}

func TestParse_RejectsZeroRuleTypes(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - if_path_matches: "*.env"
`))
	if err == nil {
		t.Fatal("expected an error when a rule specifies no kind")
	}
}

func TestParse_RejectsPathConditionsOnRunCmd(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: run_cmd
    if_path_matches: "*.sh"
`))
	if err == nil {
		t.Fatal("expected if_path_matches on run_cmd to be rejected")
	}
}

func TestParse_RejectsIfMatchesOnGitPush(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: git_push
    if_matches: "push --force"
`))
	if err == nil {
		t.Fatal("expected if_matches on git_push to be rejected")
	}
}

func TestParse_RejectsUnlessDomainOnWrite(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: write
    unless_domain: "github.com"
`))
	if err == nil {
		t.Fatal("expected unless_domain on write to be rejected")
	}
}

func TestParse_ActionAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  Action
	}{
		{"write_file", ActionWrite},
		{"rm", ActionDelete},
		{"shell", ActionRunCmd},
		{"push", ActionGitPush},
		{"fetch", ActionNetwork},
	}
	for _, tt := range tests {
		p, err := Parse([]byte("law: test\nrules:\n  - deny: " + tt.alias + "\n"))
		if err != nil {
			t.Fatalf("alias %q: %v", tt.alias, err)
		}
		if p.Rules[0].Action != tt.want {
			t.Errorf("alias %q resolved to %s, want %s", tt.alias, p.Rules[0].Action, tt.want)
		}
	}
}

func TestParse_InvalidGlobIsLoadError(t *testing.T) {
	_, err := Parse([]byte(`
law: my-policy
rules:
  - deny: write
    if_path_matches: "["
`))
	if err == nil {
		t.Fatal("expected a malformed glob pattern to be a load-time error")
	}
}

func TestDefault_ParsesCleanly(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	if p.Law != "safe-dev-v1" {
		t.Errorf("law = %q", p.Law)
	}
	if _, err := NewEngine(p); err != nil {
		t.Fatalf("compiling default policy: %v", err)
	}
}

func TestTemplates_AllParseAndCompile(t *testing.T) {
	for _, tmpl := range Templates() {
		yamlText, ok := TemplateYAML(tmpl.Name)
		if !ok {
			t.Fatalf("template %q not found", tmpl.Name)
		}
		p, err := Parse([]byte(yamlText))
		if err != nil {
			t.Fatalf("template %q: parse error: %v", tmpl.Name, err)
		}
		if _, err := NewEngine(p); err != nil {
			t.Fatalf("template %q: compile error: %v", tmpl.Name, err)
		}
	}
}
