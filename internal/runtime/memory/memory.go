// Package memory moves bytes between host functions and guest linear memory.
//
// Host functions have no error channel back to the guest, so the Must helpers
// panic on a bad access. wazero turns the panic into a trap and fails the
// guest call.
package memory

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// WasmMemory is an alias for the wazero Memory interface.
type WasmMemory = api.Memory

// Read returns a view of length bytes at offset. The view aliases guest memory
// and is only valid until the guest runs again.
func Read(mem WasmMemory, offset, length uint32) ([]byte, error) {
	if mem == nil {
		return nil, ErrNoMemory
	}
	data, ok := mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("%w: read of %d bytes at %d exceeds %d", ErrInvalidMemoryAccess, length, offset, mem.Size())
	}
	return data, nil
}

// Write copies data into guest memory at offset.
func Write(mem WasmMemory, offset uint32, data []byte) error {
	if mem == nil {
		return ErrNoMemory
	}
	if !mem.Write(offset, data) {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds %d", ErrInvalidMemoryAccess, len(data), offset, mem.Size())
	}
	return nil
}

// MustRead is Read for host functions.
func MustRead(mem WasmMemory, offset, length uint32) []byte {
	data, err := Read(mem, offset, length)
	if err != nil {
		panic(err)
	}
	return data
}

// MustWrite is Write for host functions.
func MustWrite(mem WasmMemory, offset uint32, data []byte) {
	if err := Write(mem, offset, data); err != nil {
		panic(err)
	}
}
