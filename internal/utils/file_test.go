package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	t.Run("copies content and metadata", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "nested", "dst.txt")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))
		mtime := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(src, mtime, mtime))

		require.NoError(t, CopyFile(src, dst))

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(content))

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(mtime), "mtime not preserved")
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
		}
	})

	t.Run("rejects non-regular source", func(t *testing.T) {
		dir := t.TempDir()
		assert.Error(t, CopyFile(dir, filepath.Join(dir, "out")))
		assert.Error(t, CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "out")))
	})
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("22"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0o755))

	require.NoError(t, CopyTree(src, dst))

	assert.True(t, FileExists(filepath.Join(dst, "top.txt")))
	assert.True(t, FileExists(filepath.Join(dst, "a", "b", "deep.txt")))
	assert.True(t, DirExists(filepath.Join(dst, "empty")))
}

func TestMoveEntry(t *testing.T) {
	t.Run("moves a file", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "dst.txt")
		require.NoError(t, os.WriteFile(src, []byte("move me"), 0o644))

		require.NoError(t, MoveEntry(src, dst))
		assert.False(t, FileExists(src))

		content, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "move me", string(content))
	})

	t.Run("moves a directory", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "srcdir")
		dst := filepath.Join(dir, "dstdir")
		require.NoError(t, os.MkdirAll(filepath.Join(src, "inner"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "inner", "f"), []byte("x"), 0o644))

		require.NoError(t, MoveEntry(src, dst))
		assert.False(t, DirExists(src))
		assert.True(t, FileExists(filepath.Join(dst, "inner", "f")))
	})
}
