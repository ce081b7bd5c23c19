// Package vcs implements the external VCS adapters (C7): the handful
// of git subcommands the lifecycle operations need to register the
// filter driver, refresh cached blobs, and inspect attribute state.
//
// Repository wraps exec.CommandContext with "-C <root>" automatically
// injected into every invocation, the same shape as the teacher pack's
// git-wrapper adapters. It never parses porcelain output beyond what a
// single call needs.
package vcs
