package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/seekgits/seekgits/internal/lifecycle"
	"github.com/seekgits/seekgits/internal/ui"

	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific
	// code. Overridable for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Runs read-only health checks on the tracked-file manifest",
	Long: `Cross-checks the manifest against .gitattributes, confirms the
external provider is reachable, and flags tracked paths that are
missing from the working directory or unusually large. doctor fixes
nothing; it only reports.

Exit codes:
  0 - no findings
  1 - warning or info findings only
  2 - at least one error finding`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		root, err := repoRoot(ctx)
		if err != nil {
			printError("Failed to resolve the repository root", err)
			cmd.SilenceErrors = true
			return err
		}

		l := lifecycle.New(root, newProvider(), Logger)
		findings, err := l.Doctor(ctx)
		if err != nil {
			printError("Failed to run health checks", err)
			cmd.SilenceErrors = true
			return err
		}

		if doctorJSONOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(findings); err != nil {
				return err
			}
		} else {
			printDoctorFindings(findings)
		}

		errCount, warnCount := 0, 0
		for _, f := range findings {
			switch f.Severity {
			case lifecycle.SeverityError:
				errCount++
			case lifecycle.SeverityWarning, lifecycle.SeverityInfo:
				warnCount++
			}
		}
		if errCount > 0 {
			doctorExitFunc(2)
		} else if warnCount > 0 {
			doctorExitFunc(1)
		}
		return nil
	},
}

func printDoctorFindings(findings []lifecycle.DoctorFinding) {
	if len(findings) == 0 {
		fmt.Println(ui.Success.Sprint("✓") + " No issues found.")
		return
	}
	for _, f := range findings {
		var icon string
		switch f.Severity {
		case lifecycle.SeverityError:
			icon = ui.Error.Sprint("✗")
		case lifecycle.SeverityWarning:
			icon = ui.Warning.Sprint("⚠")
		default:
			icon = ui.Info.Sprint("→")
		}
		if f.Path != "" {
			fmt.Printf("%s %s: %s\n", icon, f.Path, f.Message)
		} else {
			fmt.Printf("%s %s\n", icon, f.Message)
		}
	}
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}
