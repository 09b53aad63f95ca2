// Package approval implements the capability-level interface that
// adjudicates RequiresApproval decisions: an automatic allow/deny, or an
// interactive terminal prompt with a deadline.
package approval

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Request describes one action awaiting human adjudication.
type Request struct {
	Action        string
	Target        string
	PayloadPreview string
	Reason        string
}

// Response is the broker's verdict on a Request.
type Response struct {
	Approved   bool
	ApprovedBy string
}

// Broker adjudicates RequiresApproval decisions. An implementation may block
// for as long as it needs to (e.g. waiting on a human). The gateway calls it
// from the requesting connection's own goroutine, so a pending approval
// holds up only that connection, never the others. A non-nil error means the broker itself
// failed to adjudicate (e.g. no UI available) and must be surfaced distinctly
// from an ordinary human denial.
type Broker interface {
	RequestApproval(req Request) (Response, error)
}

// AutoAllow always approves, attributed to a fixed synthetic approver.
// Useful for trust-building and CI dry runs, never for production use.
type AutoAllow struct{}

func (AutoAllow) RequestApproval(Request) (Response, error) {
	return Response{Approved: true, ApprovedBy: "auto"}, nil
}

// AutoDeny always denies. The safe default when no human is available to
// adjudicate (e.g. a CI pipeline).
type AutoDeny struct{}

func (AutoDeny) RequestApproval(Request) (Response, error) {
	return Response{Approved: false}, nil
}

// defaultDeadline is how long the interactive broker waits for an operator
// keystroke before treating the request as denied.
const defaultDeadline = 5 * time.Minute

// Terminal renders a RequiresApproval request to the controlling terminal
// and waits for an operator keystroke, bounded by Deadline. When stdin is not
// a terminal it returns an error instead of prompting.
type Terminal struct {
	Deadline time.Duration
}

// NewTerminal builds a Terminal broker with the default five-minute deadline.
func NewTerminal() *Terminal {
	return &Terminal{Deadline: defaultDeadline}
}

// IsInteractive reports whether stdin is attached to a real terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (t *Terminal) deadline() time.Duration {
	if t.Deadline <= 0 {
		return defaultDeadline
	}
	return t.Deadline
}

func (t *Terminal) RequestApproval(req Request) (Response, error) {
	if !IsInteractive() {
		return Response{}, fmt.Errorf("no interactive terminal available to prompt for approval")
	}

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(os.Stderr, "║              ⚠️  APPROVAL REQUIRED                            ║")
	fmt.Fprintln(os.Stderr, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "Action: %s\n", req.Action)
	fmt.Fprintf(os.Stderr, "Target: %s\n", req.Target)
	if req.PayloadPreview != "" {
		fmt.Fprintln(os.Stderr, "Preview:")
		fmt.Fprintln(os.Stderr, indentLines(req.PayloadPreview))
	}
	if req.Reason != "" {
		fmt.Fprintf(os.Stderr, "Reason: %s\n", req.Reason)
	}
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  [a] Approve - let this action through")
	fmt.Fprintln(os.Stderr, "  [d] Deny - block this action")
	fmt.Fprintln(os.Stderr, "")

	answers := make(chan string, 1)
	go readAnswer(answers)

	select {
	case input := <-answers:
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "a", "approve", "yes", "y":
			return Response{Approved: true, ApprovedBy: "terminal"}, nil
		default:
			return Response{Approved: false}, nil
		}
	case <-time.After(t.deadline()):
		fmt.Fprintln(os.Stderr, "[lawctl] approval timed out — denying by default")
		return Response{Approved: false}, nil
	}
}

// readAnswer loops on stdin until it reads a recognized a/d answer or an
// error, then sends exactly one value on answers. It runs in its own
// goroutine so the caller can race it against a deadline. If the deadline
// wins, the goroutine is abandoned while still blocked on its read; answers
// is buffered, so its eventual send does not block.
func readAnswer(answers chan<- string) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "Your choice [a/d]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			answers <- "d"
			return
		}
		trimmed := strings.TrimSpace(strings.ToLower(input))
		switch trimmed {
		case "a", "approve", "yes", "y", "d", "deny", "no", "n":
			answers <- trimmed
			return
		default:
			fmt.Fprintln(os.Stderr, "Invalid input. Please enter 'a' to approve or 'd' to deny.")
		}
	}
}

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
