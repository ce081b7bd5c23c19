package recipients

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/seekgits/seekgits/internal/cipher"
	"github.com/seekgits/seekgits/internal/clierr"
)

// GPGProvider wraps and unwraps FileKeys through the gpg command-line
// tool, for teams that already key recipients with GPG identities
// rather than age. It is selected instead of AgeProvider by
// configuration; the Filter Engine and lifecycle operations only ever
// see the Provider interface.
type GPGProvider struct {
	// Binary is the gpg executable name or path. Defaults to "gpg".
	Binary string
}

// NewGPGProvider returns a GPGProvider using the default binary name.
func NewGPGProvider() *GPGProvider {
	return &GPGProvider{Binary: "gpg"}
}

func (p *GPGProvider) binary() string {
	if p.Binary == "" {
		return "gpg"
	}
	return p.Binary
}

// Available reports whether the gpg binary can be located on PATH.
func (p *GPGProvider) Available(ctx context.Context) bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// Wrap encrypts key to recipient with trust-model "always", since this
// tool automates encryption to recipients that were explicitly added by
// a lifecycle operation — trust has already been established out of
// band by the operator running start-tracking or add-recipient.
func (p *GPGProvider) Wrap(ctx context.Context, key cipher.FileKey, recipient string) ([]byte, error) {
	if _, err := exec.LookPath(p.binary()); err != nil {
		return nil, clierr.ErrProviderAbsent
	}

	cmd := exec.CommandContext(ctx, p.binary(),
		"--batch", "--yes", "--trust-model", "always",
		"--encrypt", "--recipient", recipient, "--output", "-")
	cmd.Stdin = bytes.NewReader(key[:])

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if looksLikeNoPublicKey(stderr.String()) {
			return nil, clierr.ErrRecipientUnknown
		}
		if isSpawnError(err) {
			return nil, clierr.ErrProviderUnreachable
		}
		return nil, fmt.Errorf("gpg encrypt to %s: %w (stderr: %s)", recipient, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

// Unwrap decrypts wrapped with whatever secret keys are in the host's
// GPG keyring.
func (p *GPGProvider) Unwrap(ctx context.Context, wrapped []byte) (cipher.FileKey, error) {
	if _, err := exec.LookPath(p.binary()); err != nil {
		return cipher.FileKey{}, clierr.ErrProviderAbsent
	}

	cmd := exec.CommandContext(ctx, p.binary(), "--batch", "--yes", "--decrypt")
	cmd.Stdin = bytes.NewReader(wrapped)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if looksLikeNoSecretKey(stderr.String()) {
			return cipher.FileKey{}, clierr.ErrNoPrivateKey
		}
		if isSpawnError(err) {
			return cipher.FileKey{}, clierr.ErrProviderUnreachable
		}
		return cipher.FileKey{}, fmt.Errorf("%w: %v (stderr: %s)", clierr.ErrUnwrapFailed, err, strings.TrimSpace(stderr.String()))
	}

	key, err := cipher.FileKeyFromBytes(stdout.Bytes())
	if err != nil {
		return cipher.FileKey{}, fmt.Errorf("%w: %v", clierr.ErrUnwrapFailed, err)
	}
	return key, nil
}

// DefaultRecipient returns the email of the first secret key in the
// host's GPG keyring, parsed from "gpg --list-secret-keys --with-colons".
func (p *GPGProvider) DefaultRecipient(ctx context.Context) (string, bool, error) {
	if _, err := exec.LookPath(p.binary()); err != nil {
		return "", false, nil
	}

	cmd := exec.CommandContext(ctx, p.binary(), "--batch", "--list-secret-keys", "--with-colons")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", false, nil
	}

	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 10 || fields[0] != "uid" {
			continue
		}
		if email := extractEmail(fields[9]); email != "" {
			return email, true, nil
		}
	}
	return "", false, nil
}

// RecipientExists checks "gpg --list-keys <recipient>" for a zero exit
// status: a best-effort check against the local public keyring, which
// may not reflect what a remote team member's keyring contains.
func (p *GPGProvider) RecipientExists(ctx context.Context, recipient string) (bool, error) {
	if _, err := exec.LookPath(p.binary()); err != nil {
		return false, clierr.ErrProviderAbsent
	}

	cmd := exec.CommandContext(ctx, p.binary(), "--batch", "--list-keys", recipient)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return err == nil, nil
}

func extractEmail(uid string) string {
	start := strings.Index(uid, "<")
	end := strings.Index(uid, ">")
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return uid[start+1 : end]
}

func looksLikeNoPublicKey(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no public key") || strings.Contains(s, "not found")
}

func looksLikeNoSecretKey(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no secret key") || strings.Contains(s, "decryption failed")
}
