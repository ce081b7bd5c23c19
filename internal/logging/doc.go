// Package logger provides structured logging for seekgits CLI commands
// and filter invocations.
//
// Output carries "[info]"/"[debug]"/"[warn]"/"[error]" prefixes colored
// with github.com/fatih/color.
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnf and Errorf always write to stderr regardless of verbosity,
// since they carry diagnostics the filter engine's stdout must never
// see mixed in with the transformed byte stream it writes.
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("tracking %s for %d recipients", path, len(recipients))
//
// Filter subcommands construct Logger{Silent: true} so Infof/Debugf
// are no-ops even if a flag slipped through, since stdout in clean,
// smudge, and textconv modes is reserved for the byte stream alone.
package logger
