package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// HistoryEntry is one line in the JSONL run history kept alongside reports.
type HistoryEntry struct {
	TimestampUtc string `json:"timestampUtc"`
	RunID        string `json:"runId"`
	Command      string `json:"command"`
	Target       string `json:"target"`
	Passed       bool   `json:"passed"`
	FailedChecks int    `json:"failedChecks,omitempty"`
}

// AppendHistory appends an entry to <reportDir>/history.jsonl, stamping it
// with the current UTC time.
func AppendHistory(reportDir string, entry HistoryEntry) error {
	entry.TimestampUtc = time.Now().UTC().Format(time.RFC3339)
	path := filepath.Join(reportDir, "history.jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
