package patch

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchiveFormat(t *testing.T) {
	for _, valid := range []string{"zip", "tar", "gz", "zst"} {
		format, err := ParseArchiveFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, ArchiveFormat(valid), format)
	}

	_, err := ParseArchiveFormat("rar")
	assert.Error(t, err)
}

func stageFixture(t *testing.T) *Materializer {
	t.Helper()
	target, list := buildTarget(t)
	m, err := NewMaterializer(target, t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(m.Cleanup)
	require.NoError(t, m.Materialize(list))
	return m
}

func TestFinalizeArchiveZip(t *testing.T) {
	m := stageFixture(t)

	outPath, err := m.FinalizeArchive(FormatZip)
	require.NoError(t, err)
	assert.Equal(t, ".zip", filepath.Ext(outPath))

	r, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer r.Close()

	contents := map[string]string{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			contents[f.Name] = "<dir>"
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}

	assert.Equal(t, "brand new", contents["newfile.txt"])
	assert.Equal(t, "bb", contents["newdir/deep/b.txt"])
	assert.Equal(t, "<dir>", contents["newdir/"])
}

func TestFinalizeArchiveTarGz(t *testing.T) {
	m := stageFixture(t)

	outPath, err := m.FinalizeArchive(FormatTarGz)
	require.NoError(t, err)
	assert.True(t, filepath.Base(outPath) == archiveStem+".tar.gz")

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gzr.Close()

	assertTarContents(t, tar.NewReader(gzr))
}

func TestFinalizeArchiveTarZst(t *testing.T) {
	m := stageFixture(t)

	outPath, err := m.FinalizeArchive(FormatTarZst)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	assertTarContents(t, tar.NewReader(zr))
}

func TestFinalizeArchivePlainTar(t *testing.T) {
	m := stageFixture(t)

	outPath, err := m.FinalizeArchive(FormatTar)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	assertTarContents(t, tar.NewReader(f))
}

func assertTarContents(t *testing.T, tr *tar.Reader) {
	t.Helper()
	contents := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeDir {
			contents[hdr.Name] = "<dir>"
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		contents[hdr.Name] = string(data)
	}

	assert.Equal(t, "brand new", contents["newfile.txt"])
	assert.Equal(t, "version two", contents["sub/changed.txt"])
	assert.Equal(t, "bb", contents["newdir/deep/b.txt"])
	assert.Equal(t, "<dir>", contents["newdir/"])
}
