package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/seekgits/seekgits/internal/cipher"
	"github.com/seekgits/seekgits/internal/clierr"
	"github.com/seekgits/seekgits/internal/recipients"
)

// Store loads and saves a Manifest at a fixed path on disk, normally
// "<repo root>/.seekgits/manifest.json". A Store holds no in-memory
// Manifest between calls — every operation loads, mutates, and saves —
// so two cooperating processes never observe each other's half-applied
// changes as long as Save's rename is atomic on the host filesystem.
type Store struct {
	Path string
}

// NewStore returns a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether a manifest file is present at the store's path.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads and parses the manifest file. It returns
// clierr.ErrNotInitialized if no file exists yet, and
// clierr.ErrCorruptManifest if the file exists but cannot be parsed or
// carries an unrecognized schema version.
func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.ErrNotInitialized
		}
		return nil, err
	}

	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, clierr.ErrCorruptManifest
	}
	if m.Version != SchemaVersion {
		return nil, clierr.ErrCorruptManifest
	}
	if m.Files == nil {
		m.Files = make(map[string]TrackedFile)
	}
	return m, nil
}

// Init creates a new, empty manifest file. It is a no-op error if one
// already exists — callers that want idempotent init should check
// Exists first.
func (s *Store) Init() (*Manifest, error) {
	if s.Exists() {
		return nil, clierr.ErrAlreadyTracked
	}
	m := New()
	if err := s.Save(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save serializes m with two-space indentation, a trailing newline, and
// lexicographically sorted object keys, then writes it atomically: the
// new content lands in a temp file in the same directory, which is
// fsynced and renamed over the destination. A reader never observes a
// partially written manifest, and a crash mid-save leaves the previous
// committed manifest intact.
func (s *Store) Save(m *Manifest) error {
	body, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	body = append(body, '\n')

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.Path)
}

// AddTrackedFile registers path with its first recipient and wrapped
// key. Returns clierr.ErrAlreadyTracked if path is already present.
func (s *Store) AddTrackedFile(path, recipient string, wrapped []byte) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}

	m, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := m.Files[path]; ok {
		return clierr.ErrAlreadyTracked
	}
	m.Files[path] = TrackedFile{Keys: map[string][]byte{recipient: wrapped}}
	return s.Save(m)
}

// RemoveTrackedFile deletes path's entry entirely. Returns
// clierr.ErrNotTracked if path is not present.
func (s *Store) RemoveTrackedFile(path string) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}

	m, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := m.Files[path]; !ok {
		return clierr.ErrNotTracked
	}
	delete(m.Files, path)
	return s.Save(m)
}

// AddRecipient grants recipient access to path by recording its wrapped
// key. Returns clierr.ErrNotTracked if path isn't tracked, or
// clierr.ErrRecipientDuplicate if recipient already has an entry.
func (s *Store) AddRecipient(path, recipient string, wrapped []byte) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}

	m, err := s.Load()
	if err != nil {
		return err
	}
	tf, ok := m.Files[path]
	if !ok {
		return clierr.ErrNotTracked
	}
	if _, exists := tf.Keys[recipient]; exists {
		return clierr.ErrRecipientDuplicate
	}
	tf.Keys[recipient] = wrapped
	m.Files[path] = tf
	return s.Save(m)
}

// RemoveRecipient revokes recipient's access to path. Returns
// clierr.ErrNotTracked if path isn't tracked, clierr.ErrRecipientNotFound
// if recipient has no entry for path, and clierr.ErrLastRecipient if
// recipient is the file's only remaining recipient — a file must always
// have at least one recipient able to decrypt it, so the last one can
// only be removed by untracking the file outright.
func (s *Store) RemoveRecipient(path, recipient string) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}

	m, err := s.Load()
	if err != nil {
		return err
	}
	tf, ok := m.Files[path]
	if !ok {
		return clierr.ErrNotTracked
	}
	if _, exists := tf.Keys[recipient]; !exists {
		return clierr.ErrRecipientNotFound
	}
	if len(tf.Keys) == 1 {
		return clierr.ErrLastRecipient
	}
	delete(tf.Keys, recipient)
	m.Files[path] = tf
	return s.Save(m)
}

// ReplaceKeys wholesale-replaces path's recipient-to-wrapped-key map,
// used by rotate to swap in a fresh FileKey's wrapped entries for every
// existing recipient without altering the recipient set itself.
// Returns clierr.ErrNotTracked if path isn't tracked.
func (s *Store) ReplaceKeys(path string, keys map[string][]byte) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}

	m, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := m.Files[path]; !ok {
		return clierr.ErrNotTracked
	}
	m.Files[path] = TrackedFile{Keys: keys}
	return s.Save(m)
}

// GetFileKey attempts to unwrap path's FileKey by trying each of its
// recipients' wrapped entries against provider in turn, returning the
// first one that unwraps successfully. Iteration order is the sorted
// recipient list — unspecified by the contract but made deterministic
// here so failures are reproducible. Returns clierr.ErrNotTracked if
// path has no manifest entry, or clierr.ErrNoAccess if every entry
// fails to unwrap (the caller holds none of the matching private
// material).
func (s *Store) GetFileKey(ctx context.Context, path string, provider recipients.Provider) (cipher.FileKey, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return cipher.FileKey{}, err
	}

	m, err := s.Load()
	if err != nil {
		return cipher.FileKey{}, err
	}
	tf, ok := m.Files[path]
	if !ok {
		return cipher.FileKey{}, clierr.ErrNotTracked
	}

	for _, recipient := range tf.Recipients() {
		key, err := provider.Unwrap(ctx, tf.Keys[recipient])
		if err == nil {
			return key, nil
		}
	}
	return cipher.FileKey{}, clierr.ErrNoAccess
}

// ListRecipients returns the recipients recorded for path, sorted.
// Returns clierr.ErrNotTracked if path isn't tracked.
func (s *Store) ListRecipients(path string) ([]string, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}

	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	tf, ok := m.Files[path]
	if !ok {
		return nil, clierr.ErrNotTracked
	}
	return tf.Recipients(), nil
}

// ListTrackedPaths returns every tracked path, sorted.
func (s *Store) ListTrackedPaths() ([]string, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	return m.SortedPaths(), nil
}

// IsTracked reports whether path has a manifest entry.
func (s *Store) IsTracked(path string) (bool, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return false, err
	}
	m, err := s.Load()
	if err != nil {
		if errors.Is(err, clierr.ErrNotInitialized) {
			return false, nil
		}
		return false, err
	}
	_, ok := m.Files[path]
	return ok, nil
}
