package xexec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// findExecutable is from package exec
func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// SearchPath returns every executable whose name starts with prefix in the
// directories of pathList, a $PATH style list. Earlier directories come first.
func SearchPath(pathList, prefix string) ([]string, error) {
	var matches []string
	dirSet := make(map[string]struct{})
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		if _, ok := dirSet[dir]; ok {
			continue
		}
		dirSet[dir] = struct{}{}
		files, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return nil, err
		}
		for _, f := range files {
			if !strings.HasPrefix(f.Name(), prefix) {
				continue
			}
			match := filepath.Join(dir, f.Name())
			if err := findExecutable(match); err == nil {
				matches = append(matches, match)
			}
		}
	}
	return matches, nil
}
