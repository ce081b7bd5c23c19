package attrs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(t.TempDir())
}

func TestAddFilterIdempotent(t *testing.T) {
	m := newTestManager(t)
	if err := m.AddFilter("secrets/.env"); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	if err := m.AddFilter("secrets/.env"); err != nil {
		t.Fatalf("second AddFilter: %v", err)
	}

	lines, err := m.readLines()
	if err != nil {
		t.Fatalf("readLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line after duplicate AddFilter, got %v", lines)
	}
}

func TestHasFilterExactTokenNotSubstring(t *testing.T) {
	m := newTestManager(t)
	if err := m.AddFilter("old/secrets/.env"); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}

	has, err := m.HasFilter(".env")
	if err != nil {
		t.Fatalf("HasFilter: %v", err)
	}
	if has {
		t.Fatalf("HasFilter(.env) matched a line for old/secrets/.env — substring matching is forbidden")
	}

	has, err = m.HasFilter("old/secrets/.env")
	if err != nil || !has {
		t.Fatalf("HasFilter(old/secrets/.env) = %v, %v, want true, nil", has, err)
	}
}

func TestRemoveFilterDeletesEmptyFile(t *testing.T) {
	m := newTestManager(t)
	if err := m.AddFilter("secrets/.env"); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	if err := m.RemoveFilter("secrets/.env"); err != nil {
		t.Fatalf("RemoveFilter: %v", err)
	}

	if _, err := os.Stat(m.Path); !os.IsNotExist(err) {
		t.Fatalf("expected attribute file to be removed once empty, stat err = %v", err)
	}
}

func TestRemoveFilterPreservesOtherLines(t *testing.T) {
	m := newTestManager(t)
	if err := m.AddFilter("a.env"); err != nil {
		t.Fatalf("AddFilter a: %v", err)
	}
	if err := os.WriteFile(m.Path, append(mustRead(t, m.Path), []byte("*.bin binary\n")...), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := m.AddFilter("b.env"); err != nil {
		t.Fatalf("AddFilter b: %v", err)
	}

	if err := m.RemoveFilter("a.env"); err != nil {
		t.Fatalf("RemoveFilter: %v", err)
	}

	has, err := m.HasFilter("b.env")
	if err != nil || !has {
		t.Fatalf("expected b.env's line to survive removal of a.env, got has=%v err=%v", has, err)
	}

	data, err := os.ReadFile(m.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "*.bin binary") {
		t.Errorf("expected unrelated line to survive, got:\n%s", data)
	}
}

func TestListFilteredSorted(t *testing.T) {
	m := newTestManager(t)
	for _, p := range []string{"z.env", "a.env", "m.env"} {
		if err := m.AddFilter(p); err != nil {
			t.Fatalf("AddFilter %s: %v", p, err)
		}
	}
	paths, err := m.ListFiltered()
	if err != nil {
		t.Fatalf("ListFiltered: %v", err)
	}
	want := []string{"a.env", "m.env", "z.env"}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("ListFiltered = %v, want %v", paths, want)
		}
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

func TestAttributeFilePathIsRepoRoot(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)
	want := filepath.Join(root, ".gitattributes")
	if m.Path != want {
		t.Errorf("Path = %q, want %q", m.Path, want)
	}
}
