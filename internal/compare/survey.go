package compare

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Survey is the aggregated outcome of a full tree comparison: absolute
// target-tree paths partitioned into entries only present in the target,
// entries with differing content, and entries that could not be
// compared. A path lands in at most one bucket.
type Survey struct {
	newOnly      []string
	differing    []string
	unresolvable []string
	seen         mapset.Set[string]
}

func NewSurvey() *Survey {
	return &Survey{
		seen: mapset.NewSet[string](),
	}
}

// AddNewOnly records a target-only entry. Returns false if the path was
// already recorded in any bucket.
func (s *Survey) AddNewOnly(path string) bool {
	if !s.seen.Add(path) {
		return false
	}
	s.newOnly = append(s.newOnly, path)
	return true
}

// AddDiffering records a mutual entry with differing content.
func (s *Survey) AddDiffering(path string) bool {
	if !s.seen.Add(path) {
		return false
	}
	s.differing = append(s.differing, path)
	return true
}

// AddUnresolvable records an entry that could not be reliably compared.
func (s *Survey) AddUnresolvable(path string) bool {
	if !s.seen.Add(path) {
		return false
	}
	s.unresolvable = append(s.unresolvable, path)
	return true
}

// Merge appends another survey's entries, preserving their order and
// the at-most-one-bucket invariant. Used to fold child subtree results
// into the parent's survey.
func (s *Survey) Merge(other *Survey) {
	for _, p := range other.newOnly {
		s.AddNewOnly(p)
	}
	for _, p := range other.differing {
		s.AddDiffering(p)
	}
	for _, p := range other.unresolvable {
		s.AddUnresolvable(p)
	}
}

// NewOnly returns the target-only entries in recorded order.
func (s *Survey) NewOnly() []string {
	return slices.Clone(s.newOnly)
}

// Differing returns the differing entries in recorded order.
func (s *Survey) Differing() []string {
	return slices.Clone(s.differing)
}

// Unresolvable returns the uncomparable entries in recorded order.
func (s *Survey) Unresolvable() []string {
	return slices.Clone(s.unresolvable)
}

// Contains reports whether path is recorded in any bucket.
func (s *Survey) Contains(path string) bool {
	return s.seen.Contains(path)
}

// PatchList is the ordered union newOnly, differing, unresolvable — the
// input to patch materialization.
func (s *Survey) PatchList() []string {
	list := make([]string, 0, s.Len())
	list = append(list, s.newOnly...)
	list = append(list, s.differing...)
	list = append(list, s.unresolvable...)
	return list
}

// Len is the total number of recorded entries.
func (s *Survey) Len() int {
	return len(s.newOnly) + len(s.differing) + len(s.unresolvable)
}

// Empty reports whether nothing was recorded.
func (s *Survey) Empty() bool {
	return s.Len() == 0
}
