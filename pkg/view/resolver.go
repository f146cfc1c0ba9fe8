package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolver maps logical view names to files under a fixed root directory.
// Resolution validates existence before the renderer acquires any buffer
// or binds any scope, so a missing view has zero observable side effects.
type resolver struct {
	dir string
	ext string
}

// resolve appends the canonical extension to name, joins it to the view
// root, and stats the result. The returned path is absolute within the
// root; names that would escape the root are rejected outright.
func (rs resolver) resolve(name string) (string, error) {
	if name == "" {
		return "", &NotFoundError{Name: name, Path: rs.dir}
	}

	root := filepath.Clean(rs.dir)
	path := filepath.Join(root, filepath.FromSlash(name)+rs.ext)

	// Join cleans the path, so a name like "../secret" would resolve
	// outside the view root. Treat that as a hard error, not a miss.
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("view name %q escapes view root %s", name, root)
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &NotFoundError{Name: name, Path: path}
	}
	return path, nil
}
