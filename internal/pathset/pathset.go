// Package pathset checks catalogues of expected relative paths against a
// target tree.
package pathset

import (
	"os"
	"path/filepath"
)

// FindMissing returns the subset of expected relative paths that do not
// exist under root, in input order. A nonexistent root reports everything
// missing.
func FindMissing(root string, expected []string) []string {
	missing := []string{}
	for _, rel := range expected {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			missing = append(missing, rel)
		}
	}
	return missing
}

// FindMissingDirs is like FindMissing but additionally requires each path to
// be a directory.
func FindMissingDirs(root string, expected []string) []string {
	missing := []string{}
	for _, rel := range expected {
		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil || !info.IsDir() {
			missing = append(missing, rel)
		}
	}
	return missing
}
