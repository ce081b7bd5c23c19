package cmd

import (
	"context"
	"errors"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var unshareCmd = &cobra.Command{
	Use:   "unshare <path> <recipient>",
	Short: "Revokes a recipient's access to a tracked file",
	Long: `Removes recipient's wrapped key entry for path. This does not
re-encrypt the file or rotate its key: a revoked recipient who already
decrypted a copy keeps it. Use 'seekgits rotate' after unsharing if the
file's key must actually change.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path, recipient := args[0], args[1]
		s, cleanup := startSpinner("Unsharing " + path + " from " + recipient + "...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.RemoveRecipient(ctx, path, recipient); err != nil {
			printErrorMsg(describeUnshareError(path, err))
			cmd.SilenceErrors = true
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + ui.Highlight.Sprint(recipient) + " no longer has access to " + ui.Path.Sprint(path) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("seekgits rotate "+path) + " to also replace its key"
		return nil
	},
}

func describeUnshareError(path string, err error) string {
	switch {
	case errors.Is(err, clierr.ErrNotTracked):
		return path + " is not tracked"
	case errors.Is(err, clierr.ErrRecipientNotFound):
		return "that recipient does not have access to " + path
	case errors.Is(err, clierr.ErrLastRecipient):
		return "cannot remove " + path + "'s last recipient; use " + ui.Code.Sprint("seekgits remove "+path) + " instead"
	default:
		return "failed to unshare " + path + ": " + err.Error()
	}
}
