package utils

import (
	"bufio"
	"encoding/json"
	"os"
	"time"
)

// Status values written to the run log by each stage.
const (
	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// LogEntry is one JSON line of a run log.
type LogEntry struct {
	Timestamp time.Time `json:"time"`
	Level     string    `json:"level"`
	Tool      string    `json:"msg"`
	Program   string    `json:"PROGRAM"`
	Status    string    `json:"STATUS"`
	Run       string    `json:"RUN"`
	Error     string    `json:"ERROR,omitempty"`
}

// ParseLogFile reads a JSON run log. Lines that are not JSON objects are
// skipped.
func ParseLogFile(logFilePath string) ([]LogEntry, error) {
	f, err := os.Open(logFilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if e.Program == "" {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

// StageHasCompleted reports whether program logged a COMPLETED status.
func StageHasCompleted(entries []LogEntry, program string) bool {
	for _, e := range entries {
		if e.Program == program && e.Status == StatusCompleted {
			return true
		}
	}
	return false
}

// LastFailure returns the last FAILED entry, if any.
func LastFailure(entries []LogEntry) (LogEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Status == StatusFailed {
			return entries[i], true
		}
	}
	return LogEntry{}, false
}
