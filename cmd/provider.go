package cmd

import (
	"os"
	"path/filepath"

	"github.com/seekgits/seekgits/internal/recipients"
)

// newProvider builds the recipient provider named by the --provider
// flag. age is the default; its identity file is resolved from
// --identity, then SEEKGITS_IDENTITY, then
// "~/.config/seekgits/age-identity.txt".
func newProvider() recipients.Provider {
	if providerName == "gpg" {
		return recipients.NewGPGProvider()
	}
	return recipients.NewAgeProvider(resolveIdentityPath())
}

func resolveIdentityPath() string {
	if identityPath != "" {
		return identityPath
	}
	if env := os.Getenv("SEEKGITS_IDENTITY"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "seekgits", "age-identity.txt")
}
