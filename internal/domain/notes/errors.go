package notes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrAlreadyExists = errors.New("item already exists")
	ErrNoParent      = errors.New("parent directory does not exist")
	ErrCannotMove    = errors.New("invalid move")
)

// PathError wraps one of the sentinels above with the path it applies
// to, so handlers can show which path was at fault.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathErr(err error, path string) error {
	return &PathError{Path: path, Err: err}
}
