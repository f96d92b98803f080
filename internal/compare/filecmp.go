package compare

import (
	"bytes"
	"io"
	"log/slog"
	"os"
)

// compareBufSize is the chunk size for deep content comparison.
const compareBufSize = 8 * 1024

// defaultCacheCap bounds the comparison cache. On overflow the whole
// cache is cleared rather than evicting single entries; repeat
// comparisons stay memoized until the next clear.
const defaultCacheCap = 100

// CompareResult is the tri-state outcome of a file comparison.
type CompareResult int

const (
	// ResultEqual means both files compare equal.
	ResultEqual CompareResult = iota
	// ResultDiffer means both are regular files with different content.
	ResultDiffer
	// ResultFunny means the pair could not be reliably compared
	// (unstattable, unreadable, or not regular files).
	ResultFunny
)

func (r CompareResult) String() string {
	switch r {
	case ResultEqual:
		return "equal"
	case ResultDiffer:
		return "differ"
	default:
		return "funny"
	}
}

type comparisonKey struct {
	pathA string
	pathB string
	sigA  StatSignature
	sigB  StatSignature
}

// FileComparator decides file equality, shallow (metadata only) or deep
// (byte content), memoizing deep results per path/signature pair.
type FileComparator struct {
	cache    map[comparisonKey]bool
	capacity int
}

func NewFileComparator() *FileComparator {
	return &FileComparator{
		cache:    make(map[comparisonKey]bool),
		capacity: defaultCacheCap,
	}
}

// Compare classifies the pair as equal, different or funny.
//
// Shallow mode trusts identical stat signatures without reading either
// file. Deep mode falls through to a chunked lockstep byte comparison
// unless the sizes already differ.
func (c *FileComparator) Compare(pathA, pathB string, shallow bool) CompareResult {
	sigA, err := Signature(pathA)
	if err != nil {
		return ResultFunny
	}
	sigB, err := Signature(pathB)
	if err != nil {
		return ResultFunny
	}

	if !sigA.IsRegular() || !sigB.IsRegular() {
		return ResultFunny
	}
	if shallow && sigA.Equal(sigB) {
		return ResultEqual
	}
	if sigA.Size != sigB.Size {
		return ResultDiffer
	}

	key := comparisonKey{pathA: pathA, pathB: pathB, sigA: sigA, sigB: sigB}
	if equal, ok := c.cache[key]; ok {
		if equal {
			return ResultEqual
		}
		return ResultDiffer
	}

	equal, err := contentEqual(pathA, pathB)
	if err != nil {
		slog.Warn("content comparison failed", "pathA", pathA, "pathB", pathB, "error", err)
		return ResultFunny
	}

	if len(c.cache) >= c.capacity {
		c.ClearCache()
	}
	c.cache[key] = equal

	if equal {
		return ResultEqual
	}
	return ResultDiffer
}

// FilesEqual reports whether the pair compares equal.
func (c *FileComparator) FilesEqual(pathA, pathB string, shallow bool) bool {
	return c.Compare(pathA, pathB, shallow) == ResultEqual
}

// ClearCache drops all memoized comparison results.
func (c *FileComparator) ClearCache() {
	c.cache = make(map[comparisonKey]bool)
}

// CacheLen returns the number of memoized results.
func (c *FileComparator) CacheLen() int {
	return len(c.cache)
}

// contentEqual reads both files in lockstep with a fixed buffer. The
// first mismatching chunk decides; simultaneous end-of-file means equal.
func contentEqual(pathA, pathB string) (bool, error) {
	fileA, err := os.Open(pathA)
	if err != nil {
		return false, err
	}
	defer fileA.Close()

	fileB, err := os.Open(pathB)
	if err != nil {
		return false, err
	}
	defer fileB.Close()

	bufA := make([]byte, compareBufSize)
	bufB := make([]byte, compareBufSize)
	for {
		nA, errA := io.ReadFull(fileA, bufA)
		if errA != nil && errA != io.EOF && errA != io.ErrUnexpectedEOF {
			return false, errA
		}
		nB, errB := io.ReadFull(fileB, bufB)
		if errB != nil && errB != io.EOF && errB != io.ErrUnexpectedEOF {
			return false, errB
		}

		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		if nA < compareBufSize {
			// both ended at the same offset
			return true, nil
		}
	}
}
