package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExternalities is returned by the strict accessors when no
	// externalities are installed on the calling goroutine.
	ErrNoExternalities = errors.New("no externalities installed")
	// ErrSizeMismatch is matched by every *SizeMismatchError.
	ErrSizeMismatch = errors.New("stored value size mismatch")
)

// BackendError wraps a failure reported by the installed externalities.
type BackendError struct {
	Key []byte
	Err error
}

var (
	_ error = (*BackendError)(nil)
	_ error = (*SizeMismatchError)(nil)
)

func (e *BackendError) Error() string {
	return fmt.Sprintf("storage backend failed for key %x: %v", e.Key, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// SizeMismatchError is returned when a typed decode finds a stored value whose
// length differs from the size of the requested type.
type SizeMismatchError struct {
	Key    []byte
	Wanted int
	Got    int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("cannot decode key %x: want %d bytes, got %d", e.Key, e.Wanted, e.Got)
}

func (e *SizeMismatchError) Is(target error) bool {
	return target == ErrSizeMismatch
}
