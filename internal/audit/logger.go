package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogDir returns <home>/.lawctl/logs, the default directory sessions
// write their audit journal into.
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".lawctl", "logs"), nil
}

// Logger is the append-only, single-writer audit journal for one session.
type Logger struct {
	path       string
	file       *os.File
	mu         sync.Mutex
	entryCount int
}

// New opens (or creates) the journal file for sessionID under the default
// log directory.
func New(sessionID string) (*Logger, error) {
	dir, err := DefaultLogDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(dir, sessionID)
}

// NewWithDir opens the journal file for sessionID under an explicit
// directory — used by tests and by callers overriding the default location.
func NewWithDir(dir, sessionID string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, sessionID+".jsonl")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit journal %s: %w", path, err)
	}
	return &Logger{path: path, file: file}, nil
}

// Path returns the journal file's path on disk.
func (l *Logger) Path() string { return l.path }

// EntryCount returns how many records this Logger has written since it was
// opened (does not account for records written by another process to the
// same file).
func (l *Logger) EntryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entryCount
}

// Log serializes and appends one record, flushing it to the OS before
// returning. A process that dies immediately after Log returns has already
// durably recorded that decision.
func (l *Logger) Log(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing audit record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("flushing audit record: %w", err)
	}
	l.entryCount++
	return nil
}

// Close closes the underlying file handle.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
