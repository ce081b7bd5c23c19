package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Logger formats CLI diagnostics with verbosity gating and semantic
// color prefixes. Silent forces Infof/Debugf to no-op regardless of
// Verbose/Debug: the filter subcommands (clean/smudge/textconv) set it
// unconditionally, since their stdout carries only the transformed
// byte stream and must never be interleaved with human-readable text.
type Logger struct {
	Verbose bool
	Debug   bool
	Silent  bool
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Silent {
		return
	}
	if l.Verbose {
		fmt.Fprintf(os.Stdout, color.GreenString("[info] ")+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Silent {
		return
	}
	if l.Debug {
		fmt.Fprintf(os.Stdout, color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.YellowString("[warn] ")+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.RedString("[error] ")+msg+"\n", args...)
}
