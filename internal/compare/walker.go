package compare

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/madeddy/diff2patch/internal/utils"
	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is an optional per-tree ignore file, looked up in the
// target tree root.
const IgnoreFileName = ".d2pignore"

var defaultIgnoreLines = []string{
	// VCS
	"RCS",
	"CVS",
	"tags",
	".git",
	".hg",
	".bzr",
	"_darcs",
	// python
	"__pycache__",
	// OS metadata
	"Thumbs.db",
	"Thumbs.db:encryptable",
	"desktop.ini",
	".directory",
	".DS_Store",
	// tool droppings
	"log.txt",
	"traceback.txt",
}

// IgnoreList filters directory entries during traversal. Ignore rules are
// gitignore patterns; hidden names are exact matches excluded without
// pattern matching.
type IgnoreList struct {
	baseDir string
	extra   []string
	hide    mapset.Set[string]
	ignore  *gitignore.GitIgnore
}

// NewIgnoreList builds an ignore list with the default rules plus any
// extra patterns. baseDir is where Load looks for a .d2pignore file.
func NewIgnoreList(baseDir string, extra ...string) *IgnoreList {
	return &IgnoreList{
		baseDir: baseDir,
		extra:   extra,
		hide:    mapset.NewSet(".", ".."),
	}
}

// Load compiles the rule set, merging defaults, extra patterns and the
// .d2pignore file if one exists in the base directory.
func (l *IgnoreList) Load() {
	lines := slices.Clone(defaultIgnoreLines)
	lines = append(lines, l.extra...)

	ignorePath := filepath.Join(l.baseDir, IgnoreFileName)
	if utils.FileExists(ignorePath) {
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
		} else {
			defer file.Close()
			rules := 0
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line != "" {
					lines = append(lines, line)
					rules++
				}
			}
			if err := scanner.Err(); err != nil {
				slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
			} else {
				slog.Debug("loaded ignore file", "path", ignorePath, "rules", rules)
			}
		}
	}

	l.ignore = gitignore.CompileIgnoreLines(lines...)
}

// ShouldIgnore reports whether an entry name is excluded from traversal.
func (l *IgnoreList) ShouldIgnore(name string) bool {
	if l.hide.Contains(name) {
		return true
	}
	if l.ignore == nil {
		l.Load()
	}
	return l.ignore.MatchesPath(name)
}

// Hide adds exact names to the hidden set.
func (l *IgnoreList) Hide(names ...string) {
	l.hide.Append(names...)
}

// ListEntries returns the filtered immediate children of dir, sorted
// lexicographically for deterministic traversal. A listing failure is
// returned to the caller, not swallowed.
func ListEntries(dir string, ignore *IgnoreList) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if ignore != nil && ignore.ShouldIgnore(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
