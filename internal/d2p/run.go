package d2p

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/madeddy/diff2patch/internal/compare"
	"github.com/madeddy/diff2patch/internal/patch"
	"github.com/madeddy/diff2patch/internal/utils"
)

// Run executes one full compare-and-materialize pass for a validated
// config. A declined overwrite returns nil; the run made no changes.
func Run(cfg *Config) error {
	ignore := compare.NewIgnoreList(cfg.TargetDir, cfg.IgnorePatterns...)
	ignore.Load()

	comparator := compare.NewTreeComparator(cfg.BaseDir, cfg.TargetDir, compare.Options{
		Shallow: cfg.Shallow,
		Ignore:  ignore,
	})
	survey, err := comparator.Compare()
	if err != nil {
		return err
	}
	if survey.Empty() {
		slog.Info("no files for a patch collected")
	}

	materializer, err := patch.NewMaterializer(cfg.TargetDir, cfg.OutPath, cfg.MockMode())
	if err != nil {
		return err
	}
	// staging cleanup runs whether or not finalization succeeds
	defer materializer.Cleanup()

	if err := materializer.Materialize(survey.PatchList()); err != nil {
		return err
	}

	size, err := patch.EstimateSize([]string{materializer.StagingDir()})
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case ModeDir:
		outDir, err := materializer.FinalizeDir(cfg.Confirm)
		if errors.Is(err, patch.ErrAborted) {
			slog.Info("overwrite declined, exiting with no changes")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("patch collected",
			"entries", survey.Len(),
			"dir", outDir,
			"size", humanize.IBytes(uint64(size)),
		)

	case ModeArchive:
		outPath, err := materializer.FinalizeArchive(cfg.ArchiveFormat)
		if err != nil {
			return err
		}
		slog.Info("patch archived",
			"entries", survey.Len(),
			"archive", outPath,
			"size", humanize.IBytes(uint64(size)),
		)

	case ModeReport:
		if err := writeReport(cfg, materializer, survey, size); err != nil {
			return err
		}
	}

	slog.Info("task completed")
	return nil
}

func writeReport(cfg *Config, m *patch.Materializer, survey *compare.Survey, size int64) error {
	report := patch.NewReport(survey, m.Stats(), size)

	switch cfg.ReportTarget {
	case patch.ReportJSON:
		return report.WriteJSON(os.Stdout)
	case patch.ReportConsole:
		return report.WriteText(os.Stdout)
	case patch.ReportFile, patch.ReportBoth:
		outDir := m.OutDir()
		if err := utils.EnsureDir(outDir); err != nil {
			return err
		}
		path := filepath.Join(outDir, patch.ReportFileName(time.Now()))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}

		var w io.Writer = f
		if cfg.ReportTarget == patch.ReportBoth {
			w = io.MultiWriter(os.Stdout, f)
		}
		if err := report.WriteText(w); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		slog.Info("report written", "path", path)
		return nil
	default:
		return fmt.Errorf("unknown report target %q", cfg.ReportTarget)
	}
}
