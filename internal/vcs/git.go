package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/seekgits/seekgits/internal/clierr"
)

// Repository represents a git working tree at a specific root
// directory. Every method targets that directory via "git -C <root>" —
// there is no ambient "current repository"; callers always say which
// one they mean.
type Repository struct {
	root string
}

// NewRepository returns a Repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{root: dir}
}

// Root returns the repository's working-tree root.
func (r *Repository) Root() string {
	return r.root
}

// run executes a git command targeting this repository and returns
// trimmed stdout. Stderr is captured separately and folded into the
// error on failure.
func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.root}, args...)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.root, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// FindRoot locates the working-tree root containing dir by running
// "git rev-parse --show-toplevel". Returns clierr.ErrNotARepository if
// dir is not inside a git working tree.
func FindRoot(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", clierr.ErrNotARepository
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ConfigSet sets a repository-local git config key, used during init
// to register filter.<name>.clean/.smudge/.required and
// diff.<name>.textconv/.binary.
func (r *Repository) ConfigSet(ctx context.Context, key, value string) error {
	_, err := r.run(ctx, "config", key, value)
	return err
}

// ConfigGet reads a repository-local git config key. Returns an empty
// string, no error, if the key is unset.
func (r *Repository) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := r.run(ctx, "config", "--get", key)
	if err != nil {
		if isExitStatusOne(err) {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// isExitStatusOne reports whether err wraps a git process that exited
// with status 1 — "config --get" uses this to mean "key not set"
// rather than a real failure.
func isExitStatusOne(err error) bool {
	return strings.Contains(err.Error(), "exit status 1")
}

// Add stages path plainly, used for the attribute file itself (which
// is never routed through the seekgits filter).
func (r *Repository) Add(ctx context.Context, path string) error {
	_, err := r.run(ctx, "add", "--", path)
	return err
}

// Renormalize re-runs the clean filter over path by forcing git to
// re-add it, the mechanism start-tracking and rotate use to push
// freshly produced ciphertext into the index immediately instead of
// waiting for the next incidental git add. A plain "git add" runs
// first so a path git does not track yet is staged too, since
// "--renormalize" alone only touches paths already in the index.
func (r *Repository) Renormalize(ctx context.Context, path string) error {
	if _, err := r.run(ctx, "add", "--", path); err != nil {
		return err
	}
	_, err := r.run(ctx, "add", "--renormalize", "--", path)
	return err
}

// RmCached removes path from the index without touching the working
// tree. Stop-tracking uses it to drop the file's index entry, then
// deletes the working-tree copy itself.
func (r *Repository) RmCached(ctx context.Context, path string) error {
	_, err := r.run(ctx, "rm", "--cached", "--", path)
	return err
}

// CheckAttr reports the value git resolves for attr on path, via
// "git check-attr <attr> -- <path>": the value as git itself resolves
// it, independent of this tool's own line-matching logic. No lifecycle
// operation calls it; doctor compares the attribute file's lines
// directly.
func (r *Repository) CheckAttr(ctx context.Context, attr, path string) (string, error) {
	out, err := r.run(ctx, "check-attr", attr, "--", path)
	if err != nil {
		return "", err
	}
	// Output shape: "<path>: <attr>: <value>"
	parts := strings.SplitN(out, ": ", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("unexpected check-attr output: %q", out)
	}
	return strings.TrimSpace(parts[2]), nil
}
