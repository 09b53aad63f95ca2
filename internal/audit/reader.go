package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reader reads and filters session audit journals from a log directory.
type Reader struct {
	logDir string
}

// NewReader builds a Reader over the default log directory.
func NewReader() (*Reader, error) {
	dir, err := DefaultLogDir()
	if err != nil {
		return nil, err
	}
	return &Reader{logDir: dir}, nil
}

// NewReaderWithDir builds a Reader over an explicit directory.
func NewReaderWithDir(dir string) *Reader {
	return &Reader{logDir: dir}
}

// ReadSession reads every record in one session's journal, in file order.
func (r *Reader) ReadSession(sessionID string) ([]Record, error) {
	return readFile(filepath.Join(r.logDir, sessionID+".jsonl"))
}

// ReadLatestSession reads the most recently modified session's journal.
func (r *Reader) ReadLatestSession() ([]Record, error) {
	id, err := r.FindLatestSession()
	if err != nil {
		return nil, err
	}
	return r.ReadSession(id)
}

// FindLatestSession returns the session id with the most recently modified
// journal file.
func (r *Reader) FindLatestSession() (string, error) {
	entries, err := os.ReadDir(r.logDir)
	if err != nil {
		return "", fmt.Errorf("reading log directory %s: %w", r.logDir, err)
	}

	var latestName string
	var latestModTime int64 = -1
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mt := info.ModTime().UnixNano(); mt > latestModTime {
			latestModTime = mt
			latestName = e.Name()
		}
	}
	if latestName == "" {
		return "", fmt.Errorf("no sessions found under %s", r.logDir)
	}
	return strings.TrimSuffix(latestName, ".jsonl"), nil
}

// ListSessions returns every known session id, sorted alphabetically.
func (r *Reader) ListSessions() ([]string, error) {
	entries, err := os.ReadDir(r.logDir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory %s: %w", r.logDir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".jsonl"))
	}
	sort.Strings(ids)
	return ids, nil
}

func readFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audit journal %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// FilterRecords applies a Filter to a slice of records, in order, stopping
// early once Limit is reached (a non-positive Limit means unlimited).
func FilterRecords(records []Record, f Filter) []Record {
	var out []Record
	for _, rec := range records {
		if f.SessionID != "" && rec.SessionID != f.SessionID {
			continue
		}
		if f.Action != "" && rec.Action != f.Action {
			continue
		}
		if f.Decision != "" && !matchesDecisionFilter(rec, f.Decision) {
			continue
		}
		out = append(out, rec)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

func matchesDecisionFilter(rec Record, f DecisionFilter) bool {
	switch f {
	case FilterApproved:
		return rec.ApprovedBy != ""
	case FilterAllowed:
		return strings.EqualFold(rec.Decision, "allowed") && rec.ApprovedBy == ""
	case FilterDenied:
		return strings.EqualFold(rec.Decision, "denied")
	default:
		return true
	}
}

// Summarize aggregates a session's records into decision counts. A
// requires-approval record with ApprovedBy set counts as approved;
// otherwise it counts as denied.
func Summarize(sessionID string, records []Record) Summary {
	s := Summary{SessionID: sessionID, Total: len(records)}
	for i, rec := range records {
		if i == 0 {
			s.Agent = rec.Agent
			s.Start = rec.Timestamp
		}
		s.End = rec.Timestamp

		switch {
		case rec.ApprovedBy != "":
			s.Approved++
		case strings.EqualFold(rec.Decision, "allowed"):
			s.Allowed++
		default:
			s.Denied++
		}
	}
	return s
}
