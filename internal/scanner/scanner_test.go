package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanFindsCppSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.cpp", "int main() {}")
	writeFile(t, root, "lib/util.cc", "")
	writeFile(t, root, "lib/util.hpp", "")
	writeFile(t, root, "README.md", "")
	writeFile(t, root, "script.py", "")

	files, err := New(nil, nil).Scan(root)
	require.NoError(t, err)

	// Lexical walk order.
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "util.cc"),
		filepath.Join(root, "lib", "util.hpp"),
		filepath.Join(root, "main.cpp"),
	}, files)
}

func TestScanSkipsVCSDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/objects/trick.cpp", "")
	writeFile(t, root, "src/a.cpp", "")

	files, err := New(nil, nil).Scan(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "src", "a.cpp"), files[0])
}

func TestScanHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\ngenerated.cpp\n")
	writeFile(t, root, "build/out.cpp", "")
	writeFile(t, root, "generated.cpp", "")
	writeFile(t, root, "kept.cpp", "")

	files, err := New(nil, nil).Scan(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "kept.cpp"), files[0])
}

func TestScanCustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cpp", "")
	writeFile(t, root, "b.ipp", "")

	files, err := New([]string{"ipp"}, nil).Scan(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "b.ipp"), files[0])
}
