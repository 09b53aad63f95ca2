package policy

import (
	"fmt"
	"testing"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"a\nb\n\n", 3},
		{"\n", 1},
	}
	for _, tt := range tests {
		if got := countLines(tt.in); got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestActionContext_WithDiff_TrailingNewlineNotOverCounted(t *testing.T) {
	// A diff with a trailing newline — the overwhelmingly common case for a
	// real file — must not be counted one line higher than its content.
	ctx := NewActionContext("src/main.go").WithDiff("line one\nline two\n")
	if ctx.DiffLines == nil || *ctx.DiffLines != 2 {
		t.Errorf("DiffLines = %s, want 2", derefOrNil(ctx.DiffLines))
	}
}

func derefOrNil(n *int) string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprintf("%d", *n)
}
