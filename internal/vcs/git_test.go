package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	ctx := context.Background()

	run := func(args ...string) {
		cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v (%s)", args, err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")

	return NewRepository(dir)
}

func TestFindRootInsideRepo(t *testing.T) {
	requireGit(t)
	repo := newTestRepo(t)

	root, err := FindRoot(context.Background(), repo.Root())
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	// macOS temp dirs resolve through a symlink, so root is not compared
	// with repo.Root(); this only checks that a root was returned.
	if filepath.Clean(root) == "" {
		t.Fatalf("FindRoot returned empty root")
	}
}

func TestFindRootOutsideRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	if _, err := FindRoot(context.Background(), dir); err == nil {
		t.Fatalf("expected FindRoot to fail outside a repository")
	}
}

func TestConfigSetAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ConfigSet(ctx, "filter.seekgits.required", "true"); err != nil {
		t.Fatalf("ConfigSet: %v", err)
	}
	got, err := repo.ConfigGet(ctx, "filter.seekgits.required")
	if err != nil {
		t.Fatalf("ConfigGet: %v", err)
	}
	if got != "true" {
		t.Errorf("ConfigGet = %q, want true", got)
	}
}

func TestConfigGetUnsetKeyReturnsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.ConfigGet(context.Background(), "filter.doesnotexist.clean")
	if err != nil {
		t.Fatalf("ConfigGet: %v", err)
	}
	if got != "" {
		t.Errorf("ConfigGet of unset key = %q, want empty", got)
	}
}

func TestRenormalizeAndRmCached(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	envPath := filepath.Join(repo.Root(), ".env")
	if err := os.WriteFile(envPath, []byte("SECRET=1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := repo.Renormalize(ctx, ".env"); err != nil {
		t.Fatalf("Renormalize: %v", err)
	}
	if err := repo.RmCached(ctx, ".env"); err != nil {
		t.Fatalf("RmCached: %v", err)
	}

	if _, err := os.Stat(envPath); err != nil {
		t.Fatalf("expected working-tree file to survive rm --cached: %v", err)
	}
}
