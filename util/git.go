package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot finds the root of the git repository enclosing start, or the
// working directory when start is empty. Falls back to start itself if no
// .git directory is found on the way up.
func FindGitRoot(start string) (string, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = cwd
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return abs, nil
		}
		dir = parent
	}
}
