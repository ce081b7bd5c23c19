package cmd

import (
	"context"
	"errors"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var encryptRecipient string

func init() {
	encryptCmd.Flags().StringVar(&encryptRecipient, "recipient", "", "recipient to track the file for (defaults to the provider's default identity)")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <path>",
	Short: "Starts tracking a file: encrypts it on commit, decrypts it on checkout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path := args[0]
		s, cleanup := startSpinner("Tracking " + path + "...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.StartTracking(ctx, path, encryptRecipient); err != nil {
			printErrorMsg(describeStartTrackingError(path, err))
			cmd.SilenceErrors = true
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " " + path + " is now tracked"
		return nil
	},
}

func describeStartTrackingError(path string, err error) string {
	switch {
	case errors.Is(err, clierr.ErrNotInitialized):
		return "seekgits has not been initialized; run " + ui.Code.Sprint("seekgits init") + " first"
	case errors.Is(err, clierr.ErrPathNotFound):
		return path + " does not exist in the working directory"
	case errors.Is(err, clierr.ErrAlreadyTracked):
		return path + " is already tracked; use " + ui.Code.Sprint("seekgits share") + " to add a recipient"
	case errors.Is(err, clierr.ErrNoIdentity):
		return "no default recipient identity is available; pass " + ui.Flag.Sprint("--recipient") + " explicitly"
	default:
		return "failed to track " + path + ": " + err.Error()
	}
}
