package cmd

import (
	"context"
	"errors"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share <path> <recipient>",
	Short: "Grants a recipient access to a tracked file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path, recipient := args[0], args[1]
		s, cleanup := startSpinner("Sharing " + path + " with " + recipient + "...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.AddRecipient(ctx, path, recipient); err != nil {
			printErrorMsg(describeShareError(path, err))
			cmd.SilenceErrors = true
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + ui.Highlight.Sprint(recipient) + " can now access " + ui.Path.Sprint(path)
		return nil
	},
}

func describeShareError(path string, err error) string {
	switch {
	case errors.Is(err, clierr.ErrNotTracked):
		return path + " is not tracked"
	case errors.Is(err, clierr.ErrNoAccess):
		return "you do not currently have access to " + path + "; cannot extend access to another recipient"
	case errors.Is(err, clierr.ErrRecipientDuplicate):
		return "that recipient already has access to " + path
	default:
		return "failed to share " + path + ": " + err.Error()
	}
}
