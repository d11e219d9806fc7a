package util

import "path/filepath"

// PathToURI renders a filesystem path as a file:// URI, used as the source
// label for workspace analyses.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "file://" + path
	}
	return "file://" + filepath.ToSlash(abs)
}
