// Package audit provides audit trail logging for lifecycle operations.
//
// Every significant operation (init, track, share, unshare, untrack,
// rotate) is recorded in a repository-level audit log. This provides
// accountability and helps teams understand which paths were tracked,
// shared, or rotated and when.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<root>/.seekgits/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Operation name
//   - Operation-specific details (path, recipient, counts)
//
// # Usage
//
// Every call takes the repository root explicitly — there is no
// ambient "current project" the way a global config singleton would
// provide:
//
//	audit.Log(root, audit.Entry{Operation: "share", Path: "secret.env", Recipient: "bob"})
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk
// full, etc.), the operation continues without error. Operations
// should never fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
