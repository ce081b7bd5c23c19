package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Shows tracked files, their recipients, and whether you can currently decrypt them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var path string
		if len(args) == 1 {
			path = args[0]
		}

		root, err := repoRoot(ctx)
		if err != nil {
			printError("Failed to resolve the repository root", err)
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		entries, err := l.Status(ctx, path)
		if err != nil {
			cmd.SilenceErrors = true
			if errors.Is(err, clierr.ErrNotTracked) {
				printError("Status failed", fmt.Errorf("%s is not tracked", path))
				return err
			}
			printError("Failed to get status", err)
			return err
		}

		if statusJSONOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(entries)
		}

		printStatusTable(entries)
		return nil
	},
}

func printStatusTable(entries []lifecycle.StatusEntry) {
	if len(entries) == 0 {
		fmt.Println(ui.Info.Sprint("→") + " No tracked files.")
		return
	}

	for _, e := range entries {
		var access string
		switch {
		case !e.WorkingFileExists:
			access = ui.Muted.Sprint("◌") + " missing from working directory"
		case e.CanUnwrap:
			access = ui.Success.Sprint("✓") + " you can decrypt this file"
		default:
			access = ui.Error.Sprint("✗") + " you cannot decrypt this file"
		}

		fmt.Printf("%s\n  recipients: %s\n  %s\n", ui.Path.Sprint(e.Path), strings.Join(e.Recipients, ", "), access)
	}
}
