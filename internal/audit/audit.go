package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry for one lifecycle
// operation. Unlike the teacher's audit log, which reads an ambient
// global project path, every seekgits audit operation takes the
// repository root explicitly — there is no process-wide "current
// project" state.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"` // init, track, share, unshare, untrack, rotate, doctor.

	Path            string `json:"path,omitempty"`             // Tracked path, for per-file operations.
	Recipient       string `json:"recipient,omitempty"`        // For share/unshare.
	RecipientsCount int    `json:"recipients_count,omitempty"` // For rotate.
	FindingsCount   int    `json:"findings_count,omitempty"`   // For doctor.
}

// logDir returns "<root>/.seekgits".
func logDir(root string) string {
	return filepath.Join(root, ".seekgits")
}

// LogPath returns the path to root's audit log file.
func LogPath(root string) string {
	return filepath.Join(logDir(root), "audit.jsonl")
}

// Log appends entry to root's audit log, stamping the timestamp if
// unset. Logging failures are swallowed — an audit write must never
// fail the lifecycle operation it is recording.
func Log(root string, entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	// #nosec G301 -- audit directory should be readable by team members.
	if err := os.Mkdir(logDir(root), 0o755); err != nil && !os.IsExist(err) {
		return
	}

	// #nosec G306 -- audit log should be readable by team members.
	f, err := os.OpenFile(LogPath(root), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads every entry from root's audit log. Returns an
// empty slice, no error, if the log doesn't exist yet.
func ReadEntries(root string) ([]Entry, error) {
	data, err := os.ReadFile(LogPath(root))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries. Malformed
// lines are silently skipped so one corrupted line doesn't lose the
// rest of the log.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1
			if len(line) == 0 {
				continue
			}
			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
