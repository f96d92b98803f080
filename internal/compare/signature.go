package compare

import (
	"io/fs"
	"os"
	"time"
)

// StatSignature is the metadata tuple used for shallow equality checks
// and as part of the comparison cache key.
type StatSignature struct {
	Mode    fs.FileMode
	Size    int64
	ModTime time.Time
}

// Signature stats path and returns its signature.
func Signature(path string) (StatSignature, error) {
	info, err := os.Stat(path)
	if err != nil {
		return StatSignature{}, err
	}
	return StatSignature{
		Mode:    info.Mode(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// IsRegular reports whether the signature belongs to a regular file.
func (s StatSignature) IsRegular() bool {
	return s.Mode.IsRegular()
}

// IsDir reports whether the signature belongs to a directory.
func (s StatSignature) IsDir() bool {
	return s.Mode.IsDir()
}

// Equal reports whether two signatures match on type, size and mtime.
func (s StatSignature) Equal(other StatSignature) bool {
	return s.Mode.Type() == other.Mode.Type() &&
		s.Size == other.Size &&
		s.ModTime.Equal(other.ModTime)
}
