// Package filter implements the filter engine (C5): the clean, smudge,
// and textconv stdio drivers the host VCS invokes once per logical
// file. Each call processes exactly one file; no state survives across
// invocations, so concurrent invocations on different paths never
// interfere with each other.
//
// Stdout carries only the transformed byte stream. Diagnostics — the
// clean-mode no-access warning, the smudge-mode placeholder line — are
// the only output that ever reaches a human, and the placeholder is
// written to stdout deliberately (it stands in for file content, not
// a log line) while warnings go to stderr.
package filter
