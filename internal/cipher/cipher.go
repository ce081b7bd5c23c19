package cipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// FileKeySize is the length in bytes of a FileKey: a 32-byte AES key
// concatenated with a 32-byte HMAC key.
const FileKeySize = 64

const (
	aesKeySize  = 32
	hmacKeySize = 32
	nonceSize   = sha256.Size // 32
)

// magic is the 10-byte prefix that marks a byte string as an encrypted
// frame. It spells "SEEKGITS" bracketed by NUL bytes.
var magic = [10]byte{0x00, 0x53, 0x45, 0x45, 0x4B, 0x47, 0x49, 0x54, 0x53, 0x00}

// MagicSize, NonceSize, and HeaderSize describe the fixed-size portions
// of an encrypted frame, for callers that need to carve a buffer by hand.
const (
	MagicSize = len(magic)
	NonceSize = nonceSize
	// HeaderSize is the number of bytes preceding the ciphertext.
	HeaderSize = MagicSize + NonceSize
)

// FileKey is the 64-byte symmetric secret bound to one tracked path. The
// first 32 bytes are the AES-256 key; the last 32 are the HMAC-SHA256
// key used to derive the deterministic nonce. There is no way to derive
// one FileKey from another — each is independently random.
type FileKey [FileKeySize]byte

// AESKey returns the AES-256 key half of the FileKey.
func (k FileKey) AESKey() []byte { return k[:aesKeySize] }

// HMACKey returns the HMAC-SHA256 key half of the FileKey.
func (k FileKey) HMACKey() []byte { return k[aesKeySize:] }

// GenerateFileKey returns a fresh FileKey drawn from a cryptographically
// secure random source. Called once per tracked path, at start-tracking.
func GenerateFileKey() (FileKey, error) {
	var k FileKey
	if _, err := rand.Read(k[:]); err != nil {
		return FileKey{}, fmt.Errorf("generating file key: %w", err)
	}
	return k, nil
}

// FileKeyFromBytes validates and converts a raw byte slice into a
// FileKey. It fails if the slice is not exactly FileKeySize bytes —
// this is the boundary an unwrapped key crosses coming back from the
// recipient wrapper.
func FileKeyFromBytes(b []byte) (FileKey, error) {
	if len(b) != FileKeySize {
		return FileKey{}, fmt.Errorf("invalid file key length: expected %d bytes, got %d", FileKeySize, len(b))
	}
	var k FileKey
	copy(k[:], b)
	return k, nil
}

// deriveNonce computes the deterministic nonce for a plaintext: the full
// HMAC-SHA256 digest of the plaintext under the FileKey's HMAC half. The
// first 16 bytes double as the AES-CTR initial counter block.
func deriveNonce(key FileKey, plaintext []byte) [nonceSize]byte {
	mac := hmac.New(sha256.New, key.HMACKey())
	mac.Write(plaintext)
	var nonce [nonceSize]byte
	copy(nonce[:], mac.Sum(nil))
	return nonce
}

func streamCipher(aesKey []byte, iv []byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("constructing AES cipher: %w", err)
	}
	return cipher.NewCTR(block, iv), nil
}

// Encrypt deterministically encrypts plaintext under key, returning the
// full on-store frame: magic marker, 32-byte nonce, then ciphertext of
// exactly len(plaintext) bytes. Encrypting the same plaintext under the
// same key always yields the same frame.
func Encrypt(key FileKey, plaintext []byte) ([]byte, error) {
	nonce := deriveNonce(key, plaintext)

	stream, err := streamCipher(key.AESKey(), nonce[:aes.BlockSize])
	if err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize+len(plaintext))
	copy(out[:MagicSize], magic[:])
	copy(out[MagicSize:HeaderSize], nonce[:])
	stream.XORKeyStream(out[HeaderSize:], plaintext)

	return out, nil
}

// ErrNotEncrypted is returned by Decrypt when the input does not begin
// with the magic marker.
var ErrNotEncrypted = fmt.Errorf("not an encrypted frame: missing magic prefix")

// ErrCorruptFrame is returned by Decrypt when the input carries the
// magic marker but is too short to hold a full nonce, so no ciphertext
// offset can be trusted. This is distinct from ErrNotEncrypted: the
// marker says the content was meant to be a frame, it just isn't a
// complete one.
var ErrCorruptFrame = fmt.Errorf("encrypted frame is truncated: shorter than the fixed header")

// Decrypt reverses Encrypt. It does not verify the authenticity of the
// frame: a wrong key produces garbage plaintext rather than an error.
// The only validated structural properties are the magic prefix and
// the header length.
func Decrypt(key FileKey, frame []byte) ([]byte, error) {
	if !IsEncryptedFrame(frame) {
		return nil, ErrNotEncrypted
	}
	if len(frame) < HeaderSize {
		return nil, ErrCorruptFrame
	}

	nonce := frame[MagicSize:HeaderSize]
	ciphertext := frame[HeaderSize:]

	stream, err := streamCipher(key.AESKey(), nonce[:aes.BlockSize])
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// IsEncryptedFrame reports whether b carries the magic marker in its
// first MagicSize bytes. A true result does not guarantee b is long
// enough to hold a full header — Decrypt distinguishes that case as
// ErrCorruptFrame rather than treating a truncated frame as plaintext.
func IsEncryptedFrame(b []byte) bool {
	if len(b) < MagicSize {
		return false
	}
	return bytes.Equal(b[:MagicSize], magic[:])
}

// FrameLen returns the length of the encrypted frame that Encrypt would
// produce for a plaintext of n bytes.
func FrameLen(n int) int {
	return HeaderSize + n
}
