package cmd

import (
	"context"
	"errors"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stops tracking a file and deletes its working-directory copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]
		s, cleanup := startSpinner("Untracking " + path + "...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.StopTracking(ctx, path); err != nil {
			cmd.SilenceErrors = true
			if errors.Is(err, clierr.ErrNotTracked) {
				printErrorMsg(path + " is not tracked")
				return err
			}
			printErrorMsg("failed to untrack " + path + ": " + err.Error())
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + path + " is no longer tracked"
		return nil
	},
}
