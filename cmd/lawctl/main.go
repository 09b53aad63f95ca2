// Command lawctl is the agent firewall's operator-facing binary: it starts
// the mediation gateway, runs the one-shot pre-tool-call hook adapter,
// browses the audit journal, lints a policy file, and bootstraps a new one
// from a built-in template.
package main

import (
	"fmt"
	"os"

	"github.com/lawctl/lawctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
