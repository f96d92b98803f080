package compare

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/madeddy/diff2patch/internal/utils"
)

// Options configures a tree comparison run.
type Options struct {
	// Shallow trusts identical stat signatures instead of reading file
	// content.
	Shallow bool
	// Ignore filters entries on both sides. Nil means default rules.
	Ignore *IgnoreList
}

// TreeComparator recursively compares a baseline tree against a target
// tree. It never writes to either tree; results are collected into a
// Survey merged up the recursion.
type TreeComparator struct {
	baseDir   string
	targetDir string
	shallow   bool
	ignore    *IgnoreList
	files     *FileComparator
}

func NewTreeComparator(baseDir, targetDir string, opts Options) *TreeComparator {
	ignore := opts.Ignore
	if ignore == nil {
		ignore = NewIgnoreList(targetDir)
	}
	return &TreeComparator{
		baseDir:   baseDir,
		targetDir: targetDir,
		shallow:   opts.Shallow,
		ignore:    ignore,
		files:     NewFileComparator(),
	}
}

// Compare walks both trees depth-first and returns the aggregated
// survey. Both root paths must be directories.
func (t *TreeComparator) Compare() (*Survey, error) {
	if !utils.DirExists(t.baseDir) {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, t.baseDir)
	}
	if !utils.DirExists(t.targetDir) {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, t.targetDir)
	}

	survey, err := t.compareLevel(t.baseDir, t.targetDir)
	if err != nil {
		return nil, err
	}

	slog.Info("comparison finished",
		"new", len(survey.newOnly),
		"differing", len(survey.differing),
		"unresolvable", len(survey.unresolvable),
	)
	return survey, nil
}

// compareLevel runs the phase sequence for one directory pair and
// recurses into mutual subdirectories. The returned survey holds this
// level's findings first, then each child's, in listing order.
func (t *TreeComparator) compareLevel(dirA, dirB string) (*Survey, error) {
	// phase 0: list and filter both sides
	namesA, err := ListEntries(dirA, t.ignore)
	if err != nil {
		return nil, err
	}
	namesB, err := ListEntries(dirB, t.ignore)
	if err != nil {
		return nil, err
	}

	// phase 1: name-set algebra
	mutual, onlyBase, onlyTarget := splitNames(namesA, namesB)
	if len(onlyBase) > 0 {
		// baseline-only entries are counted but not surveyed; the diff
		// is change-oriented toward the target tree
		slog.Debug("baseline-only entries skipped", "dir", dirA, "count", len(onlyBase))
	}

	survey := NewSurvey()
	for _, name := range onlyTarget {
		survey.AddNewOnly(filepath.Join(dirB, name))
	}

	// phase 2: classify mutual names
	var subdirs, files, funny []string
	for _, name := range mutual {
		switch ClassifyMutual(name, dirA, dirB) {
		case KindDir:
			subdirs = append(subdirs, name)
		case KindFile:
			files = append(files, name)
		default:
			funny = append(funny, name)
		}
	}

	// phase 3: compare mutual files
	for _, name := range files {
		pathA := filepath.Join(dirA, name)
		pathB := filepath.Join(dirB, name)
		switch t.files.Compare(pathA, pathB, t.shallow) {
		case ResultEqual:
			slog.Debug("unchanged", "path", pathB)
		case ResultDiffer:
			survey.AddDiffering(pathB)
		case ResultFunny:
			funny = append(funny, name)
		}
	}

	slices.Sort(funny)
	for _, name := range funny {
		// unidentified directories are leaves, never recursed into
		survey.AddUnresolvable(filepath.Join(dirB, name))
	}

	// phase 4: descend into mutual subdirectories; a failed subtree is
	// contained so its siblings still complete
	for _, name := range subdirs {
		child, err := t.compareLevel(filepath.Join(dirA, name), filepath.Join(dirB, name))
		if err != nil {
			slog.Warn("skipping subtree", "dir", filepath.Join(dirB, name), "error", err)
			continue
		}
		survey.Merge(child)
	}

	return survey, nil
}

// splitNames partitions two sorted name lists into mutual names and the
// names unique to either side, each sorted lexicographically.
func splitNames(base, target []string) (mutual, onlyBase, onlyTarget []string) {
	baseSet := mapset.NewSet(base...)
	targetSet := mapset.NewSet(target...)

	mutual = sortedSlice(baseSet.Intersect(targetSet))
	onlyBase = sortedSlice(baseSet.Difference(targetSet))
	onlyTarget = sortedSlice(targetSet.Difference(baseSet))
	return mutual, onlyBase, onlyTarget
}

func sortedSlice(s mapset.Set[string]) []string {
	names := s.ToSlice()
	slices.Sort(names)
	return names
}
