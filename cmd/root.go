package cmd

import (
	"os"

	logger "github.com/seekgits/seekgits/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	debug        bool
	providerName string
	identityPath string

	// Logger is shared by every command's Run function.
	Logger logger.Logger

	rootCmd = &cobra.Command{
		Use:   "seekgits",
		Short: "Deterministic, recipient-keyed file encryption for version control",
		Long: `seekgits transparently encrypts tracked files as they are committed and
decrypts them as they are checked out, using a host VCS clean/smudge
filter pair. Each file is keyed to a set of recipients managed through
an external asymmetric provider (age or GPG); nothing but the ciphertext
and wrapped keys is ever committed.

Usage:
  seekgits <command> [flags]

Available Commands:
  init      Register the filter driver and create the manifest
  encrypt   Start tracking a file
  share     Grant a recipient access to a tracked file
  unshare   Revoke a recipient's access to a tracked file
  remove    Stop tracking a file
  rotate    Replace a tracked file's key and re-encrypt it
  status    Show tracked files and their access
  doctor    Run read-only health checks
  filter    Invoked by the host VCS; not for interactive use

Run 'seekgits help <command>' for more details on a specific command.
`,
		// RunE implementations print their own human-readable error
		// message on the error channel before returning it, so cobra's
		// own "Error: ..." banner would only duplicate it. Each failing
		// RunE sets cmd.SilenceErrors on itself to suppress that banner;
		// SilenceUsage here suppresses the usage dump for every
		// subcommand regardless, since a failed operation is never a
		// usage mistake.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{Verbose: verbose, Debug: debug}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "age", "asymmetric provider to use (age or gpg)")
	rootCmd.PersistentFlags().StringVar(&identityPath, "identity", "", "path to the provider's private identity file (age only)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(unshareCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(filterCmd)
}

// Execute runs the root command. Every failure path already wrote its
// human-readable message to the error channel before returning, so
// this only needs to turn a non-nil error into a non-zero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets package-level flag state between test runs.
func ResetGlobalState() {
	verbose = false
	debug = false
	providerName = "age"
	identityPath = ""
}
