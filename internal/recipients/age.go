package recipients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/seekgits/seekgits/internal/cipher"
	"github.com/seekgits/seekgits/internal/clierr"
)

// AgeProvider wraps and unwraps FileKeys through the age command-line
// tool. Each call spawns a fresh subprocess; AgeProvider holds no
// connection or cached state between calls, matching the short-lived,
// per-invocation lifetime of the filter engine that drives it.
type AgeProvider struct {
	// Binary is the age executable name or path. Defaults to "age".
	Binary string

	// KeygenBinary derives a public recipient from an identity file.
	// Defaults to "age-keygen".
	KeygenBinary string

	// IdentityPath is the private identity file used for Unwrap and
	// DefaultRecipient. Typically ~/.config/seekgits/age-identity.txt.
	IdentityPath string
}

// NewAgeProvider returns an AgeProvider using the default binary names
// and the given identity file path.
func NewAgeProvider(identityPath string) *AgeProvider {
	return &AgeProvider{
		Binary:       "age",
		KeygenBinary: "age-keygen",
		IdentityPath: identityPath,
	}
}

func (p *AgeProvider) binary() string {
	if p.Binary == "" {
		return "age"
	}
	return p.Binary
}

func (p *AgeProvider) keygenBinary() string {
	if p.KeygenBinary == "" {
		return "age-keygen"
	}
	return p.KeygenBinary
}

// Available reports whether the age binary can be located on PATH.
func (p *AgeProvider) Available(ctx context.Context) bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// Wrap encrypts key to recipient using "age -r <recipient> -e", streaming
// the 64 raw key bytes on stdin and reading the wrapped ciphertext from
// stdout.
func (p *AgeProvider) Wrap(ctx context.Context, key cipher.FileKey, recipient string) ([]byte, error) {
	if _, err := exec.LookPath(p.binary()); err != nil {
		return nil, clierr.ErrProviderAbsent
	}

	cmd := exec.CommandContext(ctx, p.binary(), "-r", recipient, "-e")
	cmd.Stdin = bytes.NewReader(key[:])

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if looksLikeUnknownRecipient(stderr.String()) {
			return nil, clierr.ErrRecipientUnknown
		}
		if isSpawnError(err) {
			return nil, clierr.ErrProviderUnreachable
		}
		return nil, fmt.Errorf("age encrypt to %s: %w (stderr: %s)", recipient, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

// Unwrap decrypts wrapped using "age -d -i <identity>", streaming the
// wrapped bytes on stdin and reading the raw 64-byte key from stdout.
func (p *AgeProvider) Unwrap(ctx context.Context, wrapped []byte) (cipher.FileKey, error) {
	if p.IdentityPath == "" {
		return cipher.FileKey{}, clierr.ErrNoPrivateKey
	}
	if _, err := exec.LookPath(p.binary()); err != nil {
		return cipher.FileKey{}, clierr.ErrProviderAbsent
	}

	cmd := exec.CommandContext(ctx, p.binary(), "-d", "-i", p.IdentityPath)
	cmd.Stdin = bytes.NewReader(wrapped)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if looksLikeNoIdentityMatch(stderr.String()) {
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

// DefaultRecipient derives the public recipient string for this
// provider's identity file via "age-keygen -y". Reports false if no
// identity file is configured or it cannot be read.
func (p *AgeProvider) DefaultRecipient(ctx context.Context) (string, bool, error) {
	if p.IdentityPath == "" {
		return "", false, nil
	}
	if _, err := exec.LookPath(p.keygenBinary()); err != nil {
		return "", false, nil
	}

	cmd := exec.CommandContext(ctx, p.keygenBinary(), "-y", p.IdentityPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", false, nil
	}

	recipient := strings.TrimSpace(stdout.String())
	if recipient == "" {
		return "", false, nil
	}
	return recipient, true, nil
}

// RecipientExists performs a best-effort syntactic check: age recipients
// are bech32 strings beginning with "age1" (or an SSH public key line).
// age has no public registry to query, so this cannot confirm the key is
// actually reachable — only that it is shaped like one.
func (p *AgeProvider) RecipientExists(ctx context.Context, recipient string) (bool, error) {
	recipient = strings.TrimSpace(recipient)
	if strings.HasPrefix(recipient, "age1") {
		return true, nil
	}
	if strings.HasPrefix(recipient, "ssh-") {
		return true, nil
	}
	return false, nil
}

func looksLikeUnknownRecipient(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "unknown recipient type") ||
		strings.Contains(s, "malformed recipient") ||
		strings.Contains(s, "invalid recipient")
}

func looksLikeNoIdentityMatch(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no identity matched") ||
		strings.Contains(s, "no identities")
}

func isSpawnError(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
