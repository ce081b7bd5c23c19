package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/seekgits/seekgits/internal/cipher"
	"github.com/seekgits/seekgits/internal/clierr"
)

// fakeProvider is a Provider test double that unwraps a wrapped blob
// only if it matches the recipient it was "wrapped" for, simulating a
// keyring that holds exactly one identity.
type fakeProvider struct {
	holds string
}

func (f *fakeProvider) Wrap(ctx context.Context, key cipher.FileKey, recipient string) ([]byte, error) {
	return append([]byte(recipient+":"), key[:]...), nil
}

func (f *fakeProvider) Unwrap(ctx context.Context, wrapped []byte) (cipher.FileKey, error) {
	prefix := f.holds + ":"
	if len(wrapped) < len(prefix) || string(wrapped[:len(prefix)]) != prefix {
		return cipher.FileKey{}, clierr.ErrNoPrivateKey
	}
	return cipher.FileKeyFromBytes(wrapped[len(prefix):])
}

func (f *fakeProvider) DefaultRecipient(ctx context.Context) (string, bool, error) {
	return f.holds, f.holds != "", nil
}

func (f *fakeProvider) RecipientExists(ctx context.Context, recipient string) (bool, error) {
	return true, nil
}

func (f *fakeProvider) Available(ctx context.Context) bool { return true }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, ".seekgits", "manifest.json"))
}

func TestLoadNotInitialized(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(); !errors.Is(err, clierr.ErrNotInitialized) {
		t.Fatalf("Load on missing file = %v, want ErrNotInitialized", err)
	}
}

func TestInitThenLoad(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	m, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", m.Version, SchemaVersion)
	}
	if len(m.Files) != 0 {
		t.Errorf("expected empty manifest, got %d files", len(m.Files))
	}
}

func TestInitTwiceFails(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := s.Init(); !errors.Is(err, clierr.ErrAlreadyTracked) {
		t.Fatalf("second Init = %v, want ErrAlreadyTracked", err)
	}
}

func TestAddAndRemoveTrackedFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := s.AddTrackedFile("secrets/.env", "alice@example.com", []byte("wrapped-blob")); err != nil {
		t.Fatalf("AddTrackedFile: %v", err)
	}
	if err := s.AddTrackedFile("secrets/.env", "alice@example.com", []byte("wrapped-blob")); !errors.Is(err, clierr.ErrAlreadyTracked) {
		t.Fatalf("second AddTrackedFile = %v, want ErrAlreadyTracked", err)
	}

	tracked, err := s.IsTracked("secrets/.env")
	if err != nil || !tracked {
		t.Fatalf("IsTracked = %v, %v, want true, nil", tracked, err)
	}

	if err := s.RemoveTrackedFile("secrets/.env"); err != nil {
		t.Fatalf("RemoveTrackedFile: %v", err)
	}
	if err := s.RemoveTrackedFile("secrets/.env"); !errors.Is(err, clierr.ErrNotTracked) {
		t.Fatalf("second RemoveTrackedFile = %v, want ErrNotTracked", err)
	}
}

func TestAddRecipientDuplicateAndNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.AddTrackedFile(".env", "alice", []byte("a-blob")); err != nil {
		t.Fatalf("AddTrackedFile: %v", err)
	}

	if err := s.AddRecipient(".env", "alice", []byte("other")); !errors.Is(err, clierr.ErrRecipientDuplicate) {
		t.Fatalf("AddRecipient duplicate = %v, want ErrRecipientDuplicate", err)
	}
	if err := s.AddRecipient(".env", "bob", []byte("b-blob")); err != nil {
		t.Fatalf("AddRecipient bob: %v", err)
	}

	recipientList, err := s.ListRecipients(".env")
	if err != nil {
		t.Fatalf("ListRecipients: %v", err)
	}
	if len(recipientList) != 2 || recipientList[0] != "alice" || recipientList[1] != "bob" {
		t.Fatalf("ListRecipients = %v, want [alice bob]", recipientList)
	}

	if err := s.RemoveRecipient(".env", "carol"); !errors.Is(err, clierr.ErrRecipientNotFound) {
		t.Fatalf("RemoveRecipient unknown = %v, want ErrRecipientNotFound", err)
	}
}

func TestRemoveLastRecipientRejected(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.AddTrackedFile(".env", "alice", []byte("a-blob")); err != nil {
		t.Fatalf("AddTrackedFile: %v", err)
	}
	if err := s.RemoveRecipient(".env", "alice"); !errors.Is(err, clierr.ErrLastRecipient) {
		t.Fatalf("RemoveRecipient last = %v, want ErrLastRecipient", err)
	}
}

func TestGetFileKeyDistinguishesNotTrackedFromNoAccess(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	key, err := cipher.GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey: %v", err)
	}
	aliceProvider := &fakeProvider{holds: "alice"}
	wrapped, err := aliceProvider.Wrap(context.Background(), key, "alice")
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if err := s.AddTrackedFile(".env", "alice", wrapped); err != nil {
		t.Fatalf("AddTrackedFile: %v", err)
	}

	if _, err := s.GetFileKey(context.Background(), "untracked.txt", aliceProvider); !errors.Is(err, clierr.ErrNotTracked) {
		t.Fatalf("GetFileKey untracked = %v, want ErrNotTracked", err)
	}

	malloryProvider := &fakeProvider{holds: "mallory"}
	if _, err := s.GetFileKey(context.Background(), ".env", malloryProvider); !errors.Is(err, clierr.ErrNoAccess) {
		t.Fatalf("GetFileKey no-access = %v, want ErrNoAccess", err)
	}

	got, err := s.GetFileKey(context.Background(), ".env", aliceProvider)
	if err != nil {
		t.Fatalf("GetFileKey: %v", err)
	}
	if got != key {
		t.Errorf("GetFileKey returned a different key than was wrapped")
	}
}

func TestGetFileKeyTriesEveryRecipient(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	key, err := cipher.GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey: %v", err)
	}
	bobProvider := &fakeProvider{holds: "bob"}
	aliceWrapped, _ := (&fakeProvider{holds: "alice"}).Wrap(context.Background(), key, "alice")
	bobWrapped, _ := bobProvider.Wrap(context.Background(), key, "bob")

	if err := s.AddTrackedFile(".env", "alice", aliceWrapped); err != nil {
		t.Fatalf("AddTrackedFile: %v", err)
	}
	if err := s.AddRecipient(".env", "bob", bobWrapped); err != nil {
		t.Fatalf("AddRecipient: %v", err)
	}

	got, err := s.GetFileKey(context.Background(), ".env", bobProvider)
	if err != nil {
		t.Fatalf("GetFileKey: %v", err)
	}
	if got != key {
		t.Errorf("GetFileKey returned a different key than was wrapped")
	}
}

func TestNormalizePathRejectsTraversalAndAbsolute(t *testing.T) {
	cases := []string{"/etc/passwd", "../outside", "a/../../b", ""}
	for _, c := range cases {
		if _, err := NormalizePath(c); err == nil {
			t.Errorf("NormalizePath(%q) = nil error, want rejection", c)
		}
	}

	clean, err := NormalizePath("./configs/.env")
	if err != nil {
		t.Fatalf("NormalizePath(./configs/.env): %v", err)
	}
	if clean != "configs/.env" {
		t.Errorf("NormalizePath(./configs/.env) = %q, want configs/.env", clean)
	}
}

func TestSaveIsStableAcrossReloads(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.AddTrackedFile("b.env", "bob", []byte("b")); err != nil {
		t.Fatalf("AddTrackedFile b: %v", err)
	}
	if err := s.AddTrackedFile("a.env", "alice", []byte("a")); err != nil {
		t.Fatalf("AddTrackedFile a: %v", err)
	}

	first, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	m, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("re-saving an unchanged manifest produced different bytes:\n%s\nvs\n%s", first, second)
	}
	if second[len(second)-1] != '\n' {
		t.Errorf("expected trailing newline in saved manifest")
	}
}

func TestListTrackedPathsSorted(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, p := range []string{"z.env", "a.env", "m.env"} {
		if err := s.AddTrackedFile(p, "alice", []byte("a")); err != nil {
			t.Fatalf("AddTrackedFile %s: %v", p, err)
		}
	}
	paths, err := s.ListTrackedPaths()
	if err != nil {
		t.Fatalf("ListTrackedPaths: %v", err)
	}
	want := []string{"a.env", "m.env", "z.env"}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("ListTrackedPaths = %v, want %v", paths, want)
		}
	}
}
