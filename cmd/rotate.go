package cmd

import (
	"context"
	"errors"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate <path>",
	Short: "Replaces a tracked file's key and re-encrypts it for its current recipients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]
		s, cleanup := startSpinner("Rotating " + path + "'s key...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.Rotate(ctx, path); err != nil {
			cmd.SilenceErrors = true
			if errors.Is(err, clierr.ErrNotTracked) {
				printErrorMsg(path + " is not tracked")
				return err
			}
			printErrorMsg("failed to rotate " + path + ": " + err.Error())
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + path + "'s key has been rotated"
		return nil
	},
}
