package filter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/seekgits/seekgits/internal/cipher"
	logger "github.com/seekgits/seekgits/internal/logging"
	"github.com/seekgits/seekgits/internal/manifest"
	"github.com/seekgits/seekgits/internal/recipients"
)

// Engine drives the clean/smudge/textconv content filters against one
// repository's manifest and asymmetric provider.
type Engine struct {
	Store    *manifest.Store
	Provider recipients.Provider
	Log      logger.Logger
}

// NewEngine returns an Engine. The logger passed in should be
// constructed with Silent: true — filter invocations' stdout must
// never carry anything but the transformed byte stream.
func NewEngine(store *manifest.Store, provider recipients.Provider, log logger.Logger) *Engine {
	return &Engine{Store: store, Provider: provider, Log: log}
}

// placeholder renders the visible stand-in smudge writes when a
// recipient holds no key able to decrypt path.
func placeholder(path string) []byte {
	return []byte(fmt.Sprintf("[ENCRYPTED: cannot decrypt %s]\n", path))
}

// Clean implements the clean (encrypt on ingest) driver: read in fully,
// and either pass it through unchanged or write an EncryptedFrame to
// out. It never returns an error for conditions the spec says must
// degrade to pass-through — only for I/O failures reading in or
// writing out, which the caller should treat as fatal.
func (e *Engine) Clean(ctx context.Context, path string, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input for %s: %w", path, err)
	}

	if cipher.IsEncryptedFrame(data) {
		_, err := out.Write(data)
		return err
	}

	tracked, err := e.Store.IsTracked(path)
	if err != nil {
		e.Log.Warnf("cannot check tracked state for %s (%v); writing content unchanged", path, err)
		_, werr := out.Write(data)
		return werr
	}
	if !tracked {
		_, err := out.Write(data)
		return err
	}

	key, err := e.Store.GetFileKey(ctx, path, e.Provider)
	if err != nil {
		e.Log.Warnf("cannot obtain file key for %s (%v); writing plaintext unchanged", path, err)
		_, werr := out.Write(data)
		return werr
	}

	frame, err := cipher.Encrypt(key, data)
	if err != nil {
		return fmt.Errorf("encrypting %s: %w", path, err)
	}
	_, err = out.Write(frame)
	return err
}

// Smudge implements the smudge (decrypt on egress) driver: read in
// fully, and either pass it through unchanged (not an EncryptedFrame),
// write the decrypted plaintext, or write the visible placeholder when
// decryption is impossible.
func (e *Engine) Smudge(ctx context.Context, path string, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input for %s: %w", path, err)
	}
	return e.smudgeBytes(ctx, path, data, out)
}

// Textconv implements the diff driver: same decode logic as Smudge,
// but the content comes from a filesystem path instead of stdin.
func (e *Engine) Textconv(ctx context.Context, path, filePath string, out io.Writer) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading %s for textconv: %w", filePath, err)
	}
	return e.smudgeBytes(ctx, path, data, out)
}

func (e *Engine) smudgeBytes(ctx context.Context, path string, data []byte, out io.Writer) error {
	if !cipher.IsEncryptedFrame(data) {
		_, err := out.Write(data)
		return err
	}

	key, err := e.Store.GetFileKey(ctx, path, e.Provider)
	if err != nil {
		e.Log.Warnf("cannot decrypt %s (%v); emitting placeholder", path, err)
		_, werr := out.Write(placeholder(path))
		return werr
	}

	plaintext, err := cipher.Decrypt(key, data)
	if err != nil {
		e.Log.Warnf("decrypting %s failed (%v); emitting placeholder", path, err)
		_, werr := out.Write(placeholder(path))
		return werr
	}

	_, err = out.Write(plaintext)
	return err
}
