package cmd

import (
	"context"
	"os"

	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Registers the filter driver with the host VCS and creates the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, cleanup := startSpinner("Initializing seekgits...")
		defer cleanup()

		root, err := repoRoot(ctx)
		if err != nil {
			printErrorMsg(err.Error())
			cmd.SilenceErrors = true
			return err
		}

		binaryPath, err := os.Executable()
		if err != nil {
			printError("Failed to resolve the seekgits binary path", err)
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		if err := l.Init(ctx, binaryPath); err != nil {
			printErrorMsg("Failed to initialize: " + err.Error())
			cmd.SilenceErrors = true
			return err
		}

		s.FinalMSG = ui.Success.Sprint("✓") + " seekgits initialized successfully!\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("seekgits encrypt <path>") + " to start tracking a file"
		return nil
	},
}
