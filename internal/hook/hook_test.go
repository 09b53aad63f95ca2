package hook

import (
	"testing"

	"github.com/lawctl/lawctl/internal/policy"
)

func TestMapBash_GitPush(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		wantBranch string
	}{
		{"literal prefix with branch", "git push origin feature/x", "feature/x"},
		{"literal prefix no args", "git push", "main"},
		{"chained with &&", "npm run build && git push origin main", "main"},
		{"chained with ;", "npm test; git push", "main"},
		{"chained push then more commands", "git push origin main && echo done", "main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := mapBash(tt.command)
			if len(actions) != 2 {
				t.Fatalf("mapBash(%q) = %d actions, want 2 (GitPush + RunCmd)", tt.command, len(actions))
			}
			if actions[0].action != policy.ActionGitPush {
				t.Errorf("actions[0].action = %s, want %s", actions[0].action, policy.ActionGitPush)
			}
			if actions[0].ctx.Target != tt.wantBranch {
				t.Errorf("branch = %q, want %q", actions[0].ctx.Target, tt.wantBranch)
			}
			if actions[1].action != policy.ActionRunCmd {
				t.Errorf("actions[1].action = %s, want %s", actions[1].action, policy.ActionRunCmd)
			}
		})
	}
}

func TestMapBash_NotAGitPush(t *testing.T) {
	tests := []string{
		"echo 'git push is mentioned but not run'",
		"ls -la",
	}
	for _, cmd := range tests {
		actions := mapBash(cmd)
		for _, a := range actions {
			if a.action == policy.ActionGitPush {
				t.Errorf("mapBash(%q) unexpectedly mapped to GitPush", cmd)
			}
		}
	}
}

func TestMapBash_Rm(t *testing.T) {
	actions := mapBash("rm -rf /tmp/scratch")
	if len(actions) != 2 {
		t.Fatalf("mapBash(rm) = %d actions, want 2 (RunCmd + Delete)", len(actions))
	}
	if actions[0].action != policy.ActionRunCmd {
		t.Errorf("actions[0].action = %s, want %s", actions[0].action, policy.ActionRunCmd)
	}
	if actions[1].action != policy.ActionDelete || actions[1].ctx.Target != "/tmp/scratch" {
		t.Errorf("actions[1] = %+v, want Delete of /tmp/scratch", actions[1])
	}
}

func TestGitPushSuffix(t *testing.T) {
	tests := []struct {
		command    string
		wantSuffix string
		wantOK     bool
	}{
		{"git push origin main", "git push origin main", true},
		{"npm run build && git push origin main", "git push origin main", true},
		{"npm test; git push", "git push", true},
		{"git push origin main && echo done", "git push origin main", true},
		{"echo git push", "", false},
	}
	for _, tt := range tests {
		suffix, ok := gitPushSuffix(tt.command)
		if ok != tt.wantOK {
			t.Errorf("gitPushSuffix(%q) ok = %v, want %v", tt.command, ok, tt.wantOK)
			continue
		}
		if ok && suffix != tt.wantSuffix {
			t.Errorf("gitPushSuffix(%q) = %q, want %q", tt.command, suffix, tt.wantSuffix)
		}
	}
}
