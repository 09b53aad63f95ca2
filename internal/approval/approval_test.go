package approval

import "testing"

func TestAutoAllow(t *testing.T) {
	resp, err := AutoAllow{}.RequestApproval(Request{Action: "git_push"})
	if err != nil {
		t.Fatalf("AutoAllow returned error: %v", err)
	}
	if !resp.Approved || resp.ApprovedBy != "auto" {
		t.Errorf("AutoAllow response = %+v", resp)
	}
}

func TestAutoDeny(t *testing.T) {
	resp, err := AutoDeny{}.RequestApproval(Request{Action: "git_push"})
	if err != nil {
		t.Fatalf("AutoDeny returned error: %v", err)
	}
	if resp.Approved || resp.ApprovedBy != "" {
		t.Errorf("AutoDeny response = %+v", resp)
	}
}

func TestTerminal_NonInteractiveReturnsError(t *testing.T) {
	// In a test binary stdin is not a terminal, so Terminal must report a
	// broker error rather than silently denying as if a human had answered.
	broker := NewTerminal()
	resp, err := broker.RequestApproval(Request{Action: "git_push", Target: "main"})
	if err == nil {
		t.Fatalf("expected non-interactive Terminal broker to return an error, got response %+v", resp)
	}
	if resp.Approved {
		t.Errorf("expected non-interactive Terminal broker not to approve, got %+v", resp)
	}
}
