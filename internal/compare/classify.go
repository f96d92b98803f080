package compare

import "path/filepath"

// EntryKind is the classification of a name present in both trees.
type EntryKind int

const (
	// KindUnidentified is the catch-all for anything that cannot be
	// safely compared on both sides: a failed stat, mismatched object
	// kinds, or a kind that is neither directory nor regular file.
	KindUnidentified EntryKind = iota
	KindDir
	KindFile
)

func (k EntryKind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "unidentified"
	}
}

// ClassifyMutual stats name under both directories and classifies it.
func ClassifyMutual(name, dirA, dirB string) EntryKind {
	sigA, errA := Signature(filepath.Join(dirA, name))
	sigB, errB := Signature(filepath.Join(dirB, name))
	if errA != nil || errB != nil {
		return KindUnidentified
	}
	if sigA.Mode.Type() != sigB.Mode.Type() {
		return KindUnidentified
	}

	switch {
	case sigA.IsDir():
		return KindDir
	case sigA.IsRegular():
		return KindFile
	default:
		return KindUnidentified
	}
}
