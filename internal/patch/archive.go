package patch

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ArchiveFormat selects the container/compression for archive output.
type ArchiveFormat string

const (
	FormatZip    ArchiveFormat = "zip"
	FormatTar    ArchiveFormat = "tar"
	FormatTarGz  ArchiveFormat = "gz"
	FormatTarZst ArchiveFormat = "zst"
)

// ParseArchiveFormat validates a user-supplied format name.
func ParseArchiveFormat(s string) (ArchiveFormat, error) {
	switch ArchiveFormat(s) {
	case FormatZip, FormatTar, FormatTarGz, FormatTarZst:
		return ArchiveFormat(s), nil
	default:
		return "", fmt.Errorf("unknown archive format %q (want zip, tar, gz or zst)", s)
	}
}

func (f ArchiveFormat) ext() string {
	switch f {
	case FormatZip:
		return ".zip"
	case FormatTar:
		return ".tar"
	case FormatTarGz:
		return ".tar.gz"
	case FormatTarZst:
		return ".tar.zst"
	default:
		return ""
	}
}

// FinalizeArchive packs the staged tree into a single archive beside
// the output directory and returns its path.
func (m *Materializer) FinalizeArchive(format ArchiveFormat) (string, error) {
	outPath := filepath.Join(m.outBase, archiveStem+format.ext())

	var err error
	if format == FormatZip {
		err = packZip(m.stagingDir, outPath)
	} else {
		err = packTar(m.stagingDir, outPath, format)
	}
	if err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("pack %s: %w", outPath, err)
	}
	return outPath, nil
}

func packZip(srcDir, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, err := zw.CreateHeader(&zip.FileHeader{Name: name + "/"})
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = name
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		return copyFileInto(w, path)
	})
	if err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func packTar(srcDir, outPath string, format ArchiveFormat) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	var body io.WriteCloser
	switch format {
	case FormatTarGz:
		body = gzip.NewWriter(out)
	case FormatTarZst:
		body, err = zstd.NewWriter(out)
		if err != nil {
			return err
		}
	default:
		body = nopWriteCloser{out}
	}

	tw := tar.NewWriter(body)
	err = filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return copyFileInto(tw, path)
	})
	if err != nil {
		tw.Close()
		body.Close()
		return err
	}

	// close innermost first so trailers land in order
	if err := tw.Close(); err != nil {
		return err
	}
	if err := body.Close(); err != nil {
		return err
	}
	return out.Close()
}

func copyFileInto(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
