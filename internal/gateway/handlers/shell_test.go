package handlers

import (
	"context"
	"testing"
)

func TestExecuteCommand_Simple(t *testing.T) {
	dir := t.TempDir()
	result, err := ExecuteCommand(context.Background(), dir, "echo hello")
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if result.Stdout != "hello\n" && result.Stdout != "hello" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
}

func TestExecuteCommand_Failing(t *testing.T) {
	dir := t.TempDir()
	result, err := ExecuteCommand(context.Background(), dir, "false")
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if result.ExitCode == 0 {
		t.Error("expected nonzero exit code")
	}
}

func TestShellResult_Output(t *testing.T) {
	cases := []struct {
		name string
		r    ShellResult
		want string
	}{
		{"stdout only", ShellResult{Stdout: "ok\n"}, "ok\n"},
		{"stderr only", ShellResult{Stderr: "boom"}, "[stderr] boom"},
		{"both", ShellResult{Stdout: "a", Stderr: "b"}, "a\n[stderr] b"},
		{"neither", ShellResult{ExitCode: 3}, "(exit code: 3)"},
	}
	for _, c := range cases {
		if got := c.r.Output(); got != c.want {
			t.Errorf("%s: Output() = %q, want %q", c.name, got, c.want)
		}
	}
}
