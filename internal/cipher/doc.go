// Package cipher implements the deterministic symmetric construction that
// backs every tracked file's on-disk representation: AES-256 in counter
// mode with the initial counter block derived from an HMAC-SHA256 over
// the full plaintext.
//
// Determinism is the core property here, not semantic security: the same
// plaintext under the same key always produces the same ciphertext, which
// lets the host VCS's content-addressed storage deduplicate and diff
// encrypted blobs the same way it would plaintext. Authenticity is not
// checked on decrypt; see FileKey and Encrypt for the exact byte layout.
package cipher
