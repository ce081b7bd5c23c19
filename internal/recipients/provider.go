package recipients

import (
	"context"

	"github.com/seekgits/seekgits/internal/cipher"
)

// Provider is the interface an external asymmetric provider subprocess
// must satisfy. Implementations shell out to a binary (age, GPG, or a
// test double) and never hold key material themselves between calls.
type Provider interface {
	// Wrap encrypts a FileKey to recipient, returning the opaque wrapped
	// bytes the provider produced. Fails with clierr.ErrRecipientUnknown
	// if the provider has no public material for recipient.
	Wrap(ctx context.Context, key cipher.FileKey, recipient string) ([]byte, error)

	// Unwrap decrypts a previously wrapped key using whatever private
	// material the host environment exposes. Fails with
	// clierr.ErrNoPrivateKey when nothing matches, or
	// clierr.ErrUnwrapFailed for malformed input.
	Unwrap(ctx context.Context, wrapped []byte) (cipher.FileKey, error)

	// DefaultRecipient reports the first private identity available in
	// the host environment, for use when start-tracking is invoked
	// without an explicit recipient. The second return is false when no
	// identity is available.
	DefaultRecipient(ctx context.Context) (string, bool, error)

	// RecipientExists performs a best-effort existence check against
	// the provider's public keyring.
	RecipientExists(ctx context.Context, recipient string) (bool, error)

	// Available reports whether the provider's binary can be located
	// and invoked at all, independent of any particular recipient.
	Available(ctx context.Context) bool
}
