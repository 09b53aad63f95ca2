package policy

import "fmt"

// SafeDevYAML is a sensible default for everyday development: blocks
// dangerous actions, protects secrets, and asks before pushing code.
const SafeDevYAML = `# Policy: safe-dev
# A sensible default for everyday development.
# Blocks dangerous actions, protects your secrets, and asks before pushing code.

law: safe-dev-v1

description: >
  Default safety policy for development. Protects secrets, prevents
  accidental deletions, and requires approval before pushing code.

rules:
  # -- Protect secrets --
  - deny: write
    if_path_matches: ["*.env", "*.env.*", ".ssh/*", "*.pem", "*.key", "*.p12", "*.keystore"]
    reason: "Protected file — agents cannot modify secrets or credentials"

  # -- Prevent accidental deletions --
  - deny: delete
    unless_path: ["/tmp", "tmp/", "dist/", "build/", "target/", "node_modules/", ".next/", "__pycache__/"]

  # -- Block dangerous shell commands --
  - deny: run_cmd
    if_matches:
      - "rm -rf *"
      - "rm -r /*"
      - "curl * | bash"
      - "curl * | sh"
      - "wget * | bash"
      - "wget * | sh"
      - "chmod 777 *"
      - "chmod -R 777 *"
      - "> /dev/*"
      - "dd if=*"
      - "mkfs.*"
      - ":(){:|:&};:"
    reason: "Blocked — this command pattern is on the denylist"

  # -- Require approval for git operations --
  - require_approval: git_push
    prompt: "The AI agent wants to push code. Review the changes before approving."

  # -- Allow writes to common source directories --
  - allow: write
    if_path_matches: ["src/**", "lib/**", "app/**", "pages/**", "components/**", "tests/**", "test/**", "spec/**", "__tests__/**", "docs/**"]
    max_diff_lines: 500

  # -- Allow safe shell commands --
  - allow: run_cmd
    if_matches:
      - "cargo *"
      - "npm *"
      - "pnpm *"
      - "yarn *"
      - "pip *"
      - "python *"
      - "node *"
      - "go *"
      - "make *"
      - "ls *"
      - "cat *"
      - "grep *"
      - "find *"
      - "git status*"
      - "git diff*"
      - "git log*"
      - "git add*"
      - "git commit*"
      - "git branch*"
      - "git checkout*"
      - "git stash*"
`

// SafeCIYAML is a stricter policy for CI/CD pipelines, where no human is
// available to approve anything.
const SafeCIYAML = `# Policy: safe-ci
# Strict policy for CI/CD pipelines.
# No human is watching — deny anything risky, allow only build operations.

law: safe-ci-v1

description: >
  Strict policy for CI/CD pipelines. Denies all git push operations,
  restricts writes to build output directories, and blocks network
  access except to package registries.

rules:
  - deny: write
    if_path_matches: ["*.env", "*.env.*", ".ssh/*", "*.pem", "*.key", "*.p12"]

  - deny: git_push
    reason: "Git push is not allowed in CI — use your deploy pipeline instead"

  - allow: write
    if_path_matches: ["dist/**", "build/**", "target/**", "out/**", ".next/**"]

  - deny: run_cmd
    if_matches:
      - "rm -rf *"
      - "curl * | bash"
      - "wget * | sh"
      - "chmod 777 *"

  - allow: run_cmd
    if_matches:
      - "cargo *"
      - "npm *"
      - "pnpm *"
      - "yarn *"
      - "pip *"
      - "make *"
      - "go build*"
      - "go test*"

  - deny: network
    unless_domain: ["github.com", "npmjs.org", "registry.npmjs.org", "pypi.org", "crates.io", "pkg.go.dev"]

  - deny: delete
    reason: "File deletion is not allowed in CI pipelines"
`

// PermissiveYAML allows everything but logs every action — useful for
// trust-building and for understanding what an agent does before tightening
// a policy. It provides no protection on its own.
const PermissiveYAML = `# Policy: permissive
# Allows everything, but logs every action.
# WARNING: this provides NO protection. It is a monitoring-only policy.

law: permissive-v1

description: >
  Allow all actions with full logging. Use this to audit what an agent
  does before creating a tighter policy. Not recommended for production use.

rules:
  - allow: write
  - allow: delete
  - allow: run_cmd

  - require_approval: git_push
    prompt: "Even in permissive mode, git push requires your OK."

  - allow: network
`

// Template names.
const (
	TemplateSafeDev    = "safe-dev"
	TemplateSafeCI     = "safe-ci"
	TemplatePermissive = "permissive"
)

var templateAliases = map[string]string{
	"safe-dev":   TemplateSafeDev,
	"safe_dev":   TemplateSafeDev,
	"dev":        TemplateSafeDev,
	"safe-ci":    TemplateSafeCI,
	"safe_ci":    TemplateSafeCI,
	"ci":         TemplateSafeCI,
	"permissive": TemplatePermissive,
	"allow-all":  TemplatePermissive,
	"test":       TemplatePermissive,
}

var templateYAML = map[string]string{
	TemplateSafeDev:    SafeDevYAML,
	TemplateSafeCI:     SafeCIYAML,
	TemplatePermissive: PermissiveYAML,
}

// TemplateYAML returns the YAML text of a named built-in policy template.
func TemplateYAML(name string) (string, bool) {
	canonical, ok := templateAliases[name]
	if !ok {
		return "", false
	}
	return templateYAML[canonical], true
}

// Templates lists the available built-in policy templates and a short
// description of each, in a stable order.
func Templates() []struct{ Name, Description string } {
	return []struct{ Name, Description string }{
		{TemplateSafeDev, "Sensible defaults for development — blocks dangerous stuff, protects secrets"},
		{TemplateSafeCI, "Strict policy for CI/CD — no git push, restricted writes and network"},
		{TemplatePermissive, "Allow everything with logging — for testing and trust-building"},
	}
}

// Default returns the parsed safe-dev policy, the starting point most
// projects should adopt.
func Default() (Policy, error) {
	p, err := Parse([]byte(SafeDevYAML))
	if err != nil {
		return Policy{}, fmt.Errorf("internal error: built-in safe-dev template failed to parse: %w", err)
	}
	return p, nil
}
