package policy

import (
	"strings"

	"github.com/gobwas/glob"
)

// matcher is a pre-compiled set of glob patterns, built once at policy-load
// time and reused across every evaluation.
type matcher struct {
	patterns []string
	globs    []glob.Glob
}

func compileMatcher(patterns []string) (*matcher, error) {
	m := &matcher{patterns: patterns, globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m *matcher) isEmpty() bool {
	return m == nil || len(m.globs) == 0
}

func (m *matcher) matches(target string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.globs {
		if g.Match(target) {
			return true
		}
	}
	return false
}

// expandUnlessPath mirrors the exception-path sugar: an entry with no glob
// metacharacter is treated as a directory prefix and expanded into both the
// literal value and the literal value with a "/**" suffix, so "unless_path:
// tmp/" exempts both tmp itself and everything under it. An entry already
// containing a glob metacharacter is used as-is.
func expandUnlessPath(entries []string) []string {
	out := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		if hasGlobMeta(e) {
			out = append(out, e)
			continue
		}
		trimmed := strings.TrimSuffix(e, "/")
		out = append(out, trimmed, trimmed+"/**")
	}
	return out
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// commandMatches reports whether the trimmed command matches any of the
// given command patterns. This is deliberately not a glob library: `*` is
// the only metacharacter a command pattern recognizes — `?`, `[`, and `{`
// are ordinary literal characters here (unlike in the path matcher), so a
// denylist pattern like ":(){:|:&};:" matches that exact fork-bomb string
// instead of being parsed as glob alternation. Commands are never parsed as
// shell grammar.
func commandMatches(command string, patterns []string) bool {
	command = strings.TrimSpace(command)
	for _, p := range patterns {
		if commandMatchesOne(command, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

// commandMatchesOne implements §4.1's command-glob rule: split pattern by
// `*` into fixed fragments; the first fragment must be a prefix of command,
// the last must be a suffix, and the remaining (non-empty) fragments must
// appear in order somewhere between them. A pattern with no `*` requires
// exact equality.
func commandMatchesOne(command, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return command == pattern
	}

	fragments := strings.Split(pattern, "*")
	first := fragments[0]
	last := fragments[len(fragments)-1]

	if len(first)+len(last) > len(command) {
		return false
	}
	if first != "" && !strings.HasPrefix(command, first) {
		return false
	}
	if last != "" && !strings.HasSuffix(command, last) {
		return false
	}

	middle := command[len(first) : len(command)-len(last)]
	pos := 0
	for _, frag := range fragments[1 : len(fragments)-1] {
		if frag == "" {
			continue
		}
		idx := strings.Index(middle[pos:], frag)
		if idx < 0 {
			return false
		}
		pos += idx + len(frag)
	}
	return true
}

// normalizePath strips a leading "./" and collapses doubled path separators
// in a single left-to-right pass.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	return strings.ReplaceAll(path, "//", "/")
}

// domainMatchesSuffix reports whether domain ends with suffix, anchored on a
// label boundary (an exact match, or preceded by a ".").
func domainMatchesSuffix(domain, suffix string) bool {
	if domain == suffix {
		return true
	}
	return strings.HasSuffix(domain, "."+suffix)
}
