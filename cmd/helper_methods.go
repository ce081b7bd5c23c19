package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/seekgits/seekgits/internal/ui"
	"github.com/seekgits/seekgits/internal/vcs"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// isTerminal reports whether stdout is an interactive terminal. The
// spinner animation is suppressed when it isn't, since a CI log or a
// piped output has no use for carriage-return redraws.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// startSpinner creates a spinner with the given message and starts it
// when not in verbose or debug mode and stdout is a terminal. Returns
// the spinner and a function that
// should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The
// cleanup function automatically calls ui.EnsureNewline() on the final
// message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")

	animate := !verbose && !debug && isTerminal()
	if animate {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if animate {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// printError writes a formatted error line to stderr. It is never used
// by the filter subcommands, whose stdout must carry only the
// transformed byte stream — those report failures through Logger
// instead.
func printError(context string, err error) {
	fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+context+": "+err.Error())
}

// printErrorMsg writes an already-composed human-readable error
// message to stderr, for callers that built their own description
// (e.g. via a describe*Error helper) rather than pairing a context
// string with an error value.
func printErrorMsg(msg string) {
	fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+msg)
}

// repoRoot resolves the host repository's root directory.
func repoRoot(ctx context.Context) (string, error) {
	return vcs.FindRoot(ctx, ".")
}
