package patch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/madeddy/diff2patch/internal/utils"
)

const (
	// OutDirName is the persistent output directory created under the
	// output base path.
	OutDirName = "diff2patch_out"

	archiveStem  = "d2p_patch"
	reportStem   = "d2p_report"
	lockFileName = ".d2p.lock"
)

var (
	// ErrAborted means the user declined the overwrite confirmation.
	// Clean termination, nothing was changed.
	ErrAborted = errors.New("aborted by user")

	// ErrOutputLocked means another run holds the output base lock.
	ErrOutputLocked = errors.New("output directory locked by another process")
)

// ConfirmFunc decides whether existing output content may be replaced.
// Injected by the caller; the core never talks to a terminal.
type ConfirmFunc func(path string) bool

// StageStats are the running totals accumulated while staging.
type StageStats struct {
	Files int64
	Dirs  int64
	Bytes int64
}

func (s *StageStats) add(other StageStats) {
	s.Files += other.Files
	s.Dirs += other.Dirs
	s.Bytes += other.Bytes
}

// Materializer copies survey-selected paths into a temporary staging
// area and finalizes them as a directory or archive. In mock mode it
// creates zero-length placeholders instead of real copies, so counts
// stay accurate without the I/O. Neither source tree is ever written.
type Materializer struct {
	targetRoot string
	outBase    string
	stagingDir string
	mock       bool
	stats      StageStats
}

// NewMaterializer creates the staging area. targetRoot is the target
// tree the survey paths live under; outBase defaults to its parent.
func NewMaterializer(targetRoot, outBase string, mock bool) (*Materializer, error) {
	root, err := utils.ResolvePath(targetRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve target root: %w", err)
	}
	if outBase == "" {
		outBase = filepath.Dir(root)
	}
	base, err := utils.ResolvePath(outBase)
	if err != nil {
		return nil, fmt.Errorf("resolve output base: %w", err)
	}

	staging, err := os.MkdirTemp("", "diff2patch.*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	return &Materializer{
		targetRoot: root,
		outBase:    base,
		stagingDir: staging,
		mock:       mock,
	}, nil
}

// StagingDir returns the temporary staging area path.
func (m *Materializer) StagingDir() string {
	return m.stagingDir
}

// OutDir returns the persistent output directory path. It is not
// created until directory finalization (or a report file needs it).
func (m *Materializer) OutDir() string {
	return filepath.Join(m.outBase, OutDirName)
}

// Stats returns the totals accumulated so far.
func (m *Materializer) Stats() StageStats {
	return m.stats
}

// Materialize stages every path of the patch list. Paths must lie under
// the target root; each is copied relative to it. Unstattable entries
// are logged and skipped, they never abort the batch.
func (m *Materializer) Materialize(paths []string) error {
	for _, src := range paths {
		rel, err := filepath.Rel(m.targetRoot, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			slog.Warn("entry outside target tree, skipped", "path", src)
			continue
		}
		dst := filepath.Join(m.stagingDir, rel)

		info, err := os.Stat(src)
		if err != nil {
			slog.Warn("entry vanished before staging, skipped", "path", src, "error", err)
			continue
		}

		switch {
		case info.IsDir():
			if err := m.stageTree(src, dst); err != nil {
				return fmt.Errorf("stage tree %s: %w", src, err)
			}
		case info.Mode().IsRegular():
			if err := m.stageFile(src, dst, info.Size()); err != nil {
				return fmt.Errorf("stage file %s: %w", src, err)
			}
		default:
			slog.Debug("not a regular file or directory, skipped", "path", src)
		}
	}

	slog.Debug("staging complete",
		"files", m.stats.Files,
		"dirs", m.stats.Dirs,
		"size", humanize.IBytes(uint64(m.stats.Bytes)),
	)
	return nil
}

// stageFile copies one regular file (or touches a placeholder in mock
// mode) and accounts for it.
func (m *Materializer) stageFile(src, dst string, size int64) error {
	if m.mock {
		if err := utils.EnsureParent(dst); err != nil {
			return err
		}
		f, err := os.Create(dst)
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else {
		if err := utils.CopyFile(src, dst); err != nil {
			return err
		}
		m.stats.Bytes += size
	}
	m.stats.Files++
	return nil
}

// stageTree replicates a whole subtree, preserving structure. Symlinks
// are skipped.
func (m *Materializer) stageTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			if err := utils.EnsureDir(target); err != nil {
				return err
			}
			m.stats.Dirs++
			return nil
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return m.stageFile(path, target, info.Size())
		default:
			return nil
		}
	})
}

// FinalizeDir moves the staged content into the persistent output
// directory. Existing non-empty output needs confirmation; declining
// returns ErrAborted with nothing changed. The output base is flocked
// for the duration so concurrent runs cannot interleave.
func (m *Materializer) FinalizeDir(confirm ConfirmFunc) (string, error) {
	lockPath := filepath.Join(m.outBase, lockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("lock output base: %w", err)
	}
	if !locked {
		return "", ErrOutputLocked
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	outDir := m.OutDir()
	if utils.DirExists(outDir) && !utils.DirEmpty(outDir) {
		if confirm == nil || !confirm(outDir) {
			return "", ErrAborted
		}
		if err := os.RemoveAll(outDir); err != nil {
			return "", fmt.Errorf("replace output dir: %w", err)
		}
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(m.stagingDir)
	if err != nil {
		return "", fmt.Errorf("read staging dir: %w", err)
	}
	for _, entry := range entries {
		src := filepath.Join(m.stagingDir, entry.Name())
		dst := filepath.Join(outDir, entry.Name())
		if err := utils.MoveEntry(src, dst); err != nil {
			return "", fmt.Errorf("move %s: %w", entry.Name(), err)
		}
	}

	return outDir, nil
}

// Cleanup removes the staging area. Safe to call regardless of whether
// finalization succeeded, and more than once.
func (m *Materializer) Cleanup() {
	if m.stagingDir == "" {
		return
	}
	if err := os.RemoveAll(m.stagingDir); err != nil {
		slog.Warn("failed to remove staging dir", "path", m.stagingDir, "error", err)
	}
	m.stagingDir = ""
}
