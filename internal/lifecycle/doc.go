// Package lifecycle implements the lifecycle operations (C6): the
// user-driven commands that initialize a repository, start and stop
// tracking paths, manage recipients, and report status. Unlike the
// filter engine these run serially from an interactive shell and are
// free to make multiple manifest reads within one operation.
package lifecycle
