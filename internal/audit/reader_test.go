package audit

import "testing"

func seedSession(t *testing.T, dir, sessionID string, records []Record) {
	t.Helper()
	l, err := NewWithDir(dir, sessionID)
	if err != nil {
		t.Fatalf("NewWithDir: %v", err)
	}
	defer l.Close()
	for _, r := range records {
		if err := l.Log(r); err != nil {
			t.Fatalf("seeding record: %v", err)
		}
	}
}

func TestFilterRecords(t *testing.T) {
	dir := t.TempDir()
	seedSession(t, dir, "sess", []Record{
		{Action: "write", Decision: "allowed"},
		{Action: "delete", Decision: "denied"},
		{Action: "git_push", Decision: "requires_approval", ApprovedBy: "terminal"},
	})

	r := NewReaderWithDir(dir)
	records, err := r.ReadSession("sess")
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}

	approved := FilterRecords(records, Filter{Decision: FilterApproved})
	if len(approved) != 1 || approved[0].Action != "git_push" {
		t.Errorf("approved filter = %v", approved)
	}

	denied := FilterRecords(records, Filter{Decision: FilterDenied})
	if len(denied) != 1 || denied[0].Action != "delete" {
		t.Errorf("denied filter = %v", denied)
	}

	limited := FilterRecords(records, Filter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limited filter returned %d, want 1", len(limited))
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	seedSession(t, dir, "sess", []Record{
		{Agent: "claude-code", Action: "write", Decision: "allowed"},
		{Action: "delete", Decision: "denied"},
		{Action: "git_push", Decision: "requires_approval", ApprovedBy: "terminal"},
		{Action: "git_push", Decision: "requires_approval"},
	})

	r := NewReaderWithDir(dir)
	records, err := r.ReadSession("sess")
	if err != nil {
		t.Fatalf("ReadSession: %v", err)
	}

	s := Summarize("sess", records)
	if s.Total != 4 || s.Allowed != 1 || s.Denied != 2 || s.Approved != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Agent != "claude-code" {
		t.Errorf("agent = %q", s.Agent)
	}
}

func TestFindLatestSession(t *testing.T) {
	dir := t.TempDir()
	seedSession(t, dir, "older", []Record{{Action: "write", Decision: "allowed"}})
	seedSession(t, dir, "newer", []Record{{Action: "write", Decision: "allowed"}})

	r := NewReaderWithDir(dir)
	ids, err := r.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 sessions, got %v", ids)
	}

	if _, err := r.FindLatestSession(); err != nil {
		t.Fatalf("FindLatestSession: %v", err)
	}
}
