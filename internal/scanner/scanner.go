// Package scanner finds C++ source files under a workspace root for whole
// directory analysis, honoring the workspace .gitignore.
package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var defaultExtensions = []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hh"}

var defaultExcludeDirs = []string{".git", ".svn", ".hg", "node_modules"}

type Scanner struct {
	exts        map[string]bool
	excludeDirs map[string]bool
}

// New builds a scanner for the given extensions and directory names to
// skip; empty slices select the defaults.
func New(extensions, excludeDirs []string) *Scanner {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	if len(excludeDirs) == 0 {
		excludeDirs = defaultExcludeDirs
	}

	s := &Scanner{
		exts:        make(map[string]bool, len(extensions)),
		excludeDirs: make(map[string]bool, len(excludeDirs)),
	}
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.exts[strings.ToLower(ext)] = true
	}
	for _, dir := range excludeDirs {
		s.excludeDirs[dir] = true
	}
	return s
}

// Scan walks root and returns matching file paths in lexical walk order.
// Entries matched by the root .gitignore are skipped; a missing .gitignore
// is fine.
func (s *Scanner) Scan(root string) ([]string, error) {
	var matcher *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		matcher = gi
	}

	ignored := func(rel string) bool {
		return matcher != nil && matcher.MatchesPath(rel)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.excludeDirs[d.Name()] || ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.exts[strings.ToLower(filepath.Ext(path))] || ignored(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
