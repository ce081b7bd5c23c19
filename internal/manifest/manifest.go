package manifest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

// SchemaVersion is the only manifest schema version this build
// recognizes. Loading a manifest with a different version fails with
// clierr.ErrCorruptManifest.
const SchemaVersion = 1

// TrackedFile is one path's entry in the Manifest: the set of
// recipients who can unwrap this file's FileKey, and the wrapped key
// bytes the external asymmetric provider produced for each of them.
// Invariant: the recipient set is always exactly the map's key set; a
// TrackedFile with no recipients is invalid and must be removed from
// the Manifest rather than kept empty.
type TrackedFile struct {
	Keys map[string][]byte
}

// Recipients returns this file's recipient set, sorted lexicographically.
func (f TrackedFile) Recipients() []string {
	out := make([]string, 0, len(f.Keys))
	for r := range f.Keys {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Manifest is the typed, validated config store document: a schema
// version plus a path -> TrackedFile mapping. Construct via New or
// Load — never build one by hand with a zero Version, since Load
// treats version 0 as corrupt.
type Manifest struct {
	Version int
	Files   map[string]TrackedFile
}

// New returns an empty Manifest at the current schema version.
func New() *Manifest {
	return &Manifest{Version: SchemaVersion, Files: make(map[string]TrackedFile)}
}

// NormalizePath validates and cleans a repository-relative path.
// Empty and absolute paths are rejected. A leading "./" is stripped
// and the rest is cleaned, which folds away inner ".." segments; a path
// that still starts with ".." after cleaning is rejected. The manifest
// only ever stores clean, relative paths so path comparisons done
// elsewhere (the attribute manager's exact-match check) stay
// meaningful.
func NormalizePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	if path.IsAbs(p) {
		return "", fmt.Errorf("path must be repository-relative, got absolute path %q", p)
	}

	cleaned := path.Clean(strings.TrimPrefix(p, "./"))
	if cleaned == "." {
		return "", fmt.Errorf("path must not be empty")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("path must not contain parent-directory components, got %q", p)
	}
	return cleaned, nil
}

// wireManifest is the JSON-on-disk shape described in spec §6: a
// numeric version and path -> {keys: {recipient: base64-blob}}.
type wireManifest struct {
	Version int                    `json:"version"`
	Files   map[string]wireTracked `json:"files"`
}

type wireTracked struct {
	Keys map[string]string `json:"keys"`
}

// MarshalJSON renders the Manifest in the stable wire format: two-space
// indentation is applied by the caller (Store.Save), but key order
// within JSON objects is always lexicographic because encoding/json
// sorts map keys — this is what keeps unrelated changes from churning
// the serialized bytes.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	w := wireManifest{Version: m.Version, Files: make(map[string]wireTracked, len(m.Files))}
	for path, tf := range m.Files {
		keys := make(map[string]string, len(tf.Keys))
		for recipient, wrapped := range tf.Keys {
			keys[recipient] = base64.StdEncoding.EncodeToString(wrapped)
		}
		w.Files[path] = wireTracked{Keys: keys}
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire format into a Manifest. It does not
// itself enforce the schema-version or empty-recipient-set invariants;
// Store.Load does that after a successful unmarshal, so a corrupt
// document yields one error kind regardless of which invariant failed.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var w wireManifest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	files := make(map[string]TrackedFile, len(w.Files))
	for path, wt := range w.Files {
		keys := make(map[string][]byte, len(wt.Keys))
		for recipient, blob := range wt.Keys {
			raw, err := base64.StdEncoding.DecodeString(blob)
			if err != nil {
				return fmt.Errorf("decoding wrapped key for %s/%s: %w", path, recipient, err)
			}
			keys[recipient] = raw
		}
		files[path] = TrackedFile{Keys: keys}
	}

	m.Version = w.Version
	m.Files = files
	return nil
}

// SortedPaths returns the manifest's tracked paths in lexicographic
// order, for stable presentation and for the manifest/attribute
// cross-check in doctor().
func (m *Manifest) SortedPaths() []string {
	out := make([]string, 0, len(m.Files))
	for p := range m.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
