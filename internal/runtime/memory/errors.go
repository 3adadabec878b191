package memory

import "errors"

var (
	// ErrInvalidMemoryAccess is returned when a guest pointer and length fall
	// outside linear memory
	ErrInvalidMemoryAccess = errors.New("invalid memory access")
	// ErrNoMemory is returned when the calling module exports no memory
	ErrNoMemory = errors.New("module has no memory")
)
