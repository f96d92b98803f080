package compare

import "errors"

// ErrNotADirectory marks an input root that is missing or not a
// directory. Fatal, reported before any comparison starts.
var ErrNotADirectory = errors.New("not a directory")
