package d2p

import (
	"fmt"

	"github.com/madeddy/diff2patch/internal/compare"
	"github.com/madeddy/diff2patch/internal/patch"
	"github.com/madeddy/diff2patch/internal/utils"
)

// OutputMode selects how the comparison outcome is delivered.
type OutputMode string

const (
	ModeDir     OutputMode = "dir"
	ModeArchive OutputMode = "archive"
	ModeReport  OutputMode = "report"
)

// Config is everything a run needs. Validate resolves the paths and
// must pass before Run.
type Config struct {
	// BaseDir is the baseline (old) tree, TargetDir the (new) tree the
	// patch is oriented toward. Both must exist and be directories.
	BaseDir   string
	TargetDir string

	// Shallow trusts stat signatures; false forces content comparison.
	Shallow bool

	// IgnorePatterns extend the default ignore rules.
	IgnorePatterns []string

	// Mode and its per-mode detail.
	Mode          OutputMode
	ArchiveFormat patch.ArchiveFormat
	ReportTarget  patch.ReportTarget

	// OutPath overrides the output base; empty means TargetDir's parent.
	OutPath string

	// Confirm decides overwrite of existing output content. Nil
	// declines, so non-interactive callers never clobber anything.
	Confirm patch.ConfirmFunc
}

// Validate resolves and checks both roots and the mode selection.
// Failures here are fatal and reported before any comparison starts.
func (c *Config) Validate() error {
	base, err := utils.ResolvePath(c.BaseDir)
	if err != nil {
		return fmt.Errorf("old dir: %w", err)
	}
	if !utils.DirExists(base) {
		return fmt.Errorf("old dir %w: %s", compare.ErrNotADirectory, c.BaseDir)
	}
	c.BaseDir = base

	target, err := utils.ResolvePath(c.TargetDir)
	if err != nil {
		return fmt.Errorf("new dir: %w", err)
	}
	if !utils.DirExists(target) {
		return fmt.Errorf("new dir %w: %s", compare.ErrNotADirectory, c.TargetDir)
	}
	c.TargetDir = target

	if c.OutPath != "" {
		out, err := utils.ResolvePath(c.OutPath)
		if err != nil {
			return fmt.Errorf("outpath: %w", err)
		}
		if !utils.DirExists(out) {
			return fmt.Errorf("outpath %w: %s", compare.ErrNotADirectory, c.OutPath)
		}
		c.OutPath = out
	}

	switch c.Mode {
	case ModeDir:
	case ModeArchive:
		if c.ArchiveFormat == "" {
			return fmt.Errorf("archive mode needs a format")
		}
	case ModeReport:
		if c.ReportTarget == "" {
			return fmt.Errorf("report mode needs a target")
		}
	default:
		return fmt.Errorf("unknown output mode %q", c.Mode)
	}

	return nil
}

// MockMode reports whether materialization should use placeholders.
// True exactly when only a report is requested.
func (c *Config) MockMode() bool {
	return c.Mode == ModeReport
}
