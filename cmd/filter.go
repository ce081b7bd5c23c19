package cmd

import (
	"context"
	"io"
	"os"

	"github.com/seekgits/seekgits/internal/filter"
	"github.com/seekgits/seekgits/internal/lifecycle"
	logger "github.com/seekgits/seekgits/internal/logging"

	"github.com/spf13/cobra"
)

// filterCmd is invoked by the host VCS, never directly by a user. Its
// subcommands must never write diagnostic text to stdout: stdout
// carries only the transformed byte stream the host VCS reads back.
var filterCmd = &cobra.Command{
	Use:    "filter",
	Short:  "Clean/smudge/textconv entry points invoked by the host VCS",
	Hidden: true,
}

var filterEncryptCmd = &cobra.Command{
	Use:   "encrypt <path> [tmpfile]",
	Short: "Clean filter: encrypts the file content read from stdin (or tmpfile)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]

		root, err := repoRoot(ctx)
		if err != nil {
			return err
		}

		in, err := filterInput(args)
		if err != nil {
			return err
		}
		defer in.Close()

		eng := newFilterEngine(root)
		return eng.Clean(ctx, path, in, os.Stdout)
	},
}

var filterDecryptCmd = &cobra.Command{
	Use:   "decrypt <path> [tmpfile]",
	Short: "Smudge/textconv filter: decrypts the ciphertext read from stdin (or tmpfile)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]

		root, err := repoRoot(ctx)
		if err != nil {
			return err
		}

		eng := newFilterEngine(root)
		if len(args) == 2 {
			return eng.Textconv(ctx, path, args[1], os.Stdout)
		}
		return eng.Smudge(ctx, path, os.Stdin, os.Stdout)
	},
}

func init() {
	filterCmd.AddCommand(filterEncryptCmd)
	filterCmd.AddCommand(filterDecryptCmd)
}

// newFilterEngine builds an Engine with a Silent logger: every filter
// invocation runs once per file with stdout reserved for content, so
// diagnostics may only reach stderr via Warnf/Errorf.
func newFilterEngine(root string) *filter.Engine {
	l := lifecycle.New(root, newProvider(), logger.Logger{Silent: true})
	return filter.NewEngine(l.Store, l.Provider, l.Log)
}

// filterInput opens args[1] if present, else returns stdin wrapped so
// Close is a no-op.
func filterInput(args []string) (io.ReadCloser, error) {
	if len(args) == 2 {
		return os.Open(args[1])
	}
	return io.NopCloser(os.Stdin), nil
}
