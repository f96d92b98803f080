package compare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntries(t *testing.T) {
	t.Run("sorted and filtered", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"zeta.txt", "alpha.txt", "mid.txt"} {
			writeFile(t, filepath.Join(dir, name), "x")
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
		writeFile(t, filepath.Join(dir, ".DS_Store"), "junk")

		ignore := NewIgnoreList(dir)
		ignore.Load()

		names, err := ListEntries(dir, ignore)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha.txt", "mid.txt", "zeta.txt"}, names)
	})

	t.Run("listing failure surfaces", func(t *testing.T) {
		_, err := ListEntries(filepath.Join(t.TempDir(), "missing"), nil)
		assert.Error(t, err)
	})
}

func TestIgnoreList(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		ignore := NewIgnoreList(t.TempDir())
		ignore.Load()

		for _, name := range []string{".git", "CVS", "__pycache__", "Thumbs.db", "desktop.ini"} {
			assert.True(t, ignore.ShouldIgnore(name), "expected %q ignored", name)
		}
		assert.False(t, ignore.ShouldIgnore("main.go"))
	})

	t.Run("extra patterns", func(t *testing.T) {
		ignore := NewIgnoreList(t.TempDir(), "*.bak")
		ignore.Load()

		assert.True(t, ignore.ShouldIgnore("save.bak"))
		assert.False(t, ignore.ShouldIgnore("save.txt"))
	})

	t.Run("ignore file in base dir", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, IgnoreFileName), "*.tmp\nbuild\n")

		ignore := NewIgnoreList(dir)
		ignore.Load()

		assert.True(t, ignore.ShouldIgnore("scratch.tmp"))
		assert.True(t, ignore.ShouldIgnore("build"))
		assert.False(t, ignore.ShouldIgnore("src"))
	})

	t.Run("hidden names", func(t *testing.T) {
		ignore := NewIgnoreList(t.TempDir())
		ignore.Hide("secret")
		ignore.Load()

		assert.True(t, ignore.ShouldIgnore("secret"))
		assert.True(t, ignore.ShouldIgnore("."))
		assert.True(t, ignore.ShouldIgnore(".."))
	})
}
