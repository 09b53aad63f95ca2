package handlers

import "testing"

func TestExtractDomain(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://github.com/repo/thing", "github.com"},
		{"http://localhost:3000/api", "localhost"},
		{"not-a-url", ""},
	}
	for _, c := range cases {
		if got := ExtractDomain(c.url); got != c.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}
