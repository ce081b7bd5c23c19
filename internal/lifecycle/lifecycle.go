package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seekgits/seekgits/internal/attrs"
	"github.com/seekgits/seekgits/internal/audit"
	"github.com/seekgits/seekgits/internal/cipher"
	"github.com/seekgits/seekgits/internal/clierr"
	logger "github.com/seekgits/seekgits/internal/logging"
	"github.com/seekgits/seekgits/internal/manifest"
	"github.com/seekgits/seekgits/internal/recipients"
	"github.com/seekgits/seekgits/internal/vcs"
)

// Lifecycle wires together one repository's config store, attribute
// manager, VCS adapter, and asymmetric provider for the user-driven
// operations: init, start/stop tracking, recipient management,
// status, rotate, and doctor.
type Lifecycle struct {
	Root     string
	Store    *manifest.Store
	Attrs    *attrs.Manager
	Repo     *vcs.Repository
	Provider recipients.Provider
	Log      logger.Logger
}

// New returns a Lifecycle rooted at root, with its manifest at
// "<root>/.seekgits/manifest.json" and attribute file at
// "<root>/.gitattributes".
func New(root string, provider recipients.Provider, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		Root:     root,
		Store:    manifest.NewStore(filepath.Join(root, ".seekgits", "manifest.json")),
		Attrs:    attrs.NewManager(root),
		Repo:     vcs.NewRepository(root),
		Provider: provider,
		Log:      log,
	}
}

func (l *Lifecycle) abs(path string) string {
	return filepath.Join(l.Root, path)
}

// Init requires the external provider to be reachable, registers the
// host VCS's filter and diff configuration with required=true and an
// absolute binary path, and creates the manifest if it does not
// already exist.
func (l *Lifecycle) Init(ctx context.Context, binaryPath string) error {
	if !l.Provider.Available(ctx) {
		return clierr.ErrProviderAbsent
	}
	if !filepath.IsAbs(binaryPath) {
		return fmt.Errorf("binary path %q must be absolute", binaryPath)
	}

	name := attrs.FilterName
	cleanCmd := fmt.Sprintf("%s filter encrypt %%f", binaryPath)
	smudgeCmd := fmt.Sprintf("%s filter decrypt %%f", binaryPath)

	settings := map[string]string{
		fmt.Sprintf("filter.%s.clean", name):    cleanCmd,
		fmt.Sprintf("filter.%s.smudge", name):   smudgeCmd,
		fmt.Sprintf("filter.%s.required", name): "true",
		fmt.Sprintf("diff.%s.textconv", name):   smudgeCmd,
		fmt.Sprintf("diff.%s.binary", name):     "true",
	}
	for key, value := range settings {
		if err := l.Repo.ConfigSet(ctx, key, value); err != nil {
			return fmt.Errorf("configuring %s: %w", key, err)
		}
	}

	if l.Store.Exists() {
		return nil
	}
	if _, err := l.Store.Init(); err != nil {
		return err
	}
	audit.Log(l.Root, audit.Entry{Operation: "init"})
	return nil
}

// StartTracking begins tracking path for recipient. If recipient is
// empty, the provider's default identity is used. Implements the
// six-step ordering: resolve recipient, generate FileKey, wrap, insert
// into the manifest, append the attribute line, stage both the
// attribute file and the tracked path (with renormalize semantics so
// the new filter registration applies immediately).
func (l *Lifecycle) StartTracking(ctx context.Context, path, recipient string) error {
	if !l.Store.Exists() {
		return clierr.ErrNotInitialized
	}
	if _, err := os.Stat(l.abs(path)); err != nil {
		return clierr.ErrPathNotFound
	}
	tracked, err := l.Store.IsTracked(path)
	if err != nil {
		return err
	}
	if tracked {
		return clierr.ErrAlreadyTracked
	}

	if recipient == "" {
		r, ok, err := l.Provider.DefaultRecipient(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return clierr.ErrNoIdentity
		}
		recipient = r
	}

	key, err := cipher.GenerateFileKey()
	if err != nil {
		return fmt.Errorf("generating file key: %w", err)
	}
	wrapped, err := l.Provider.Wrap(ctx, key, recipient)
	if err != nil {
		return err
	}

	if err := l.Store.AddTrackedFile(path, recipient, wrapped); err != nil {
		return err
	}
	if err := l.Attrs.AddFilter(path); err != nil {
		return err
	}

	if err := l.Repo.Add(ctx, ".gitattributes"); err != nil {
		return err
	}
	if err := l.Repo.Renormalize(ctx, path); err != nil {
		return err
	}
	audit.Log(l.Root, audit.Entry{Operation: "track", Path: path, Recipient: recipient})
	return nil
}

// AddRecipient grants recipient access to path's FileKey. The caller
// must already be able to unwrap the current FileKey — this enforces
// that only existing recipients can extend access to new ones.
func (l *Lifecycle) AddRecipient(ctx context.Context, path, recipient string) error {
	key, err := l.Store.GetFileKey(ctx, path, l.Provider)
	if err != nil {
		return err
	}
	wrapped, err := l.Provider.Wrap(ctx, key, recipient)
	if err != nil {
		return err
	}
	if err := l.Store.AddRecipient(path, recipient, wrapped); err != nil {
		return err
	}
	audit.Log(l.Root, audit.Entry{Operation: "share", Path: path, Recipient: recipient})
	return nil
}

// RemoveRecipient revokes recipient's access to path without
// re-encrypting or rotating the FileKey: a removed recipient who
// retained a decrypted copy keeps it, consistent with the tool's
// no-revocation posture.
func (l *Lifecycle) RemoveRecipient(ctx context.Context, path, recipient string) error {
	if err := l.Store.RemoveRecipient(path, recipient); err != nil {
		return err
	}
	audit.Log(l.Root, audit.Entry{Operation: "unshare", Path: path, Recipient: recipient})
	return nil
}

// StopTracking removes path from the manifest and attribute file,
// drops it from the VCS index, and deletes the working-directory file
// to prevent an accidental unencrypted re-commit.
func (l *Lifecycle) StopTracking(ctx context.Context, path string) error {
	if err := l.Store.RemoveTrackedFile(path); err != nil {
		return err
	}
	if err := l.Attrs.RemoveFilter(path); err != nil {
		return err
	}
	if err := l.Repo.RmCached(ctx, path); err != nil {
		l.Log.Warnf("could not remove %s from the index: %v", path, err)
	}
	if err := os.Remove(l.abs(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing working copy of %s: %w", path, err)
	}
	audit.Log(l.Root, audit.Entry{Operation: "untrack", Path: path})
	return nil
}

// Rotate replaces path's FileKey wholesale: a fresh 64 bytes, re-wrapped
// to every current recipient, then re-runs the clean filter over the
// working-directory plaintext so the stored ciphertext reflects the new
// key immediately.
func (l *Lifecycle) Rotate(ctx context.Context, path string) error {
	recipientList, err := l.Store.ListRecipients(path)
	if err != nil {
		return err
	}

	newKey, err := cipher.GenerateFileKey()
	if err != nil {
		return fmt.Errorf("generating file key: %w", err)
	}

	newKeys := make(map[string][]byte, len(recipientList))
	for _, recipient := range recipientList {
		wrapped, err := l.Provider.Wrap(ctx, newKey, recipient)
		if err != nil {
			return fmt.Errorf("wrapping rotated key for %s: %w", recipient, err)
		}
		newKeys[recipient] = wrapped
	}

	if err := l.Store.ReplaceKeys(path, newKeys); err != nil {
		return err
	}
	if err := l.Repo.Renormalize(ctx, path); err != nil {
		return err
	}
	audit.Log(l.Root, audit.Entry{Operation: "rotate", Path: path, RecipientsCount: len(recipientList)})
	return nil
}

// StatusEntry reports one tracked path's recipient set and access
// state for the status operation.
type StatusEntry struct {
	Path              string
	Recipients        []string
	WorkingFileExists bool
	CanUnwrap         bool
}

// Status reports every tracked path's status, or just path's if
// non-empty. Returns clierr.ErrNotTracked if an explicit path is not
// tracked.
func (l *Lifecycle) Status(ctx context.Context, path string) ([]StatusEntry, error) {
	var paths []string
	if path != "" {
		tracked, err := l.Store.IsTracked(path)
		if err != nil {
			return nil, err
		}
		if !tracked {
			return nil, clierr.ErrNotTracked
		}
		paths = []string{path}
	} else {
		p, err := l.Store.ListTrackedPaths()
		if err != nil {
			return nil, err
		}
		paths = p
	}

	entries := make([]StatusEntry, 0, len(paths))
	for _, p := range paths {
		recipientList, err := l.Store.ListRecipients(p)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(l.abs(p))
		_, unwrapErr := l.Store.GetFileKey(ctx, p, l.Provider)
		entries = append(entries, StatusEntry{
			Path:              p,
			Recipients:        recipientList,
			WorkingFileExists: statErr == nil,
			CanUnwrap:         unwrapErr == nil,
		})
	}
	return entries, nil
}
