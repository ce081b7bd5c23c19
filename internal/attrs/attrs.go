package attrs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilterName is the git attribute value this tool registers itself
// under: "filter=seekgits diff=seekgits".
const FilterName = "seekgits"

// Manager reads and rewrites one repository's attribute file, normally
// "<root>/.gitattributes".
type Manager struct {
	Path string
}

// NewManager returns a Manager for the attribute file at root's top level.
func NewManager(root string) *Manager {
	return &Manager{Path: filepath.Join(root, ".gitattributes")}
}

func line(path string) string {
	return fmt.Sprintf("%s filter=%s diff=%s", path, FilterName, FilterName)
}

func (m *Manager) readLines() ([]string, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	text := string(data)
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return lines, nil
}

func (m *Manager) writeLines(lines []string) error {
	if len(lines) == 0 {
		err := os.Remove(m.Path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	body := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(m.Path, []byte(body), 0o644)
}

// firstToken returns a line's first whitespace-separated field.
func firstToken(l string) string {
	fields := strings.Fields(l)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasFilter reports whether the attribute file contains the exact line
// for path, ignoring surrounding whitespace. The whole line is
// compared, so a path that is a suffix of a longer tracked path never
// matches.
func (m *Manager) HasFilter(path string) (bool, error) {
	lines, err := m.readLines()
	if err != nil {
		return false, err
	}
	want := line(path)
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			return true, nil
		}
	}
	return false, nil
}

// AddFilter idempotently appends path's filter line. Existing content
// is preserved and the file always ends with a newline.
func (m *Manager) AddFilter(path string) error {
	has, err := m.HasFilter(path)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	lines, err := m.readLines()
	if err != nil {
		return err
	}
	lines = append(lines, line(path))
	return m.writeLines(lines)
}

// RemoveFilter removes any line whose first token equals path and which
// references this tool's filter. If the file is empty afterward it is
// deleted from disk rather than left as an empty file.
func (m *Manager) RemoveFilter(path string) error {
	lines, err := m.readLines()
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if firstToken(l) == path && strings.Contains(l, "filter="+FilterName) {
			continue
		}
		kept = append(kept, l)
	}
	return m.writeLines(kept)
}

// ListFiltered returns the paths of every line that references this
// tool's filter, sorted lexicographically.
func (m *Manager) ListFiltered() ([]string, error) {
	lines, err := m.readLines()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, l := range lines {
		if strings.Contains(l, "filter="+FilterName) {
			if tok := firstToken(l); tok != "" {
				paths = append(paths, tok)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
