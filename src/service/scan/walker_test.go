package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/config"
)

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("let a = 1\n"), 0644))
	return path
}

func TestWalkerCollect(t *testing.T) {
	root := t.TempDir()
	want := []string{
		touch(t, root, "App/AppDelegate.swift"),
		touch(t, root, "App/Views/List.SWIFT"),
		touch(t, root, "Main.swift"),
	}
	touch(t, root, "README.md")
	touch(t, root, "Pods/Alamofire/Session.swift")
	touch(t, root, ".build/debug/Gen.swift")
	touch(t, root, "App/.git/hooks/x.swift")

	w := NewWalker(config.DefaultConfig().Scan)
	files, err := w.Collect(root)
	require.NoError(t, err)

	assert.Equal(t, want, files)
}

func TestWalkerExtensions(t *testing.T) {
	root := t.TempDir()
	m := touch(t, root, "a.m")
	h := touch(t, root, "b.h")
	touch(t, root, "c.swift")

	w := NewWalker(config.ScanConfig{Extensions: []string{".m", " H "}})
	files, err := w.Collect(root)
	require.NoError(t, err)

	assert.Equal(t, []string{m, h}, files)
}

func TestWalkerCustomExcludes(t *testing.T) {
	root := t.TempDir()
	keep := touch(t, root, "Sources/Model.swift")
	touch(t, root, "Sources/Generated/Model+Gen.swift")
	touch(t, root, "Tests/ModelTests.swift")

	w := NewWalker(config.ScanConfig{
		Extensions:      []string{"swift"},
		ExcludePatterns: []string{"**/Generated/**", "Tests"},
	})
	files, err := w.Collect(root)
	require.NoError(t, err)

	assert.Equal(t, []string{keep}, files)
}

func TestWalkerSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	path := touch(t, root, "One.swift")
	other := touch(t, root, "notes.txt")

	w := NewWalker(config.DefaultConfig().Scan)

	files, err := w.Collect(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	files, err = w.Collect(other)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWalkerMissingRoot(t *testing.T) {
	w := NewWalker(config.DefaultConfig().Scan)

	_, err := w.Collect(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWalkerSymlinks(t *testing.T) {
	root := t.TempDir()
	target := touch(t, t.TempDir(), "Shared.swift")
	link := filepath.Join(root, "Shared.swift")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	files, err := NewWalker(config.ScanConfig{Extensions: []string{"swift"}}).Collect(root)
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = NewWalker(config.ScanConfig{Extensions: []string{"swift"}, FollowSymlinks: true}).Collect(root)
	require.NoError(t, err)
	assert.Equal(t, []string{link}, files)
}
