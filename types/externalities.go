// Package types provides the interfaces and value types shared by the runtime
// support packages.
package types

// StorageKey is an opaque storage key. Equality is byte-exact.
type StorageKey = []byte

// StorageValue is an opaque storage value. Values handed out by this module
// are always copies and never alias the backing store.
type StorageValue = []byte

// Externalities is the host capability that sandboxed code reaches through the
// package level storage functions while a scope is active.
//
// Implementations are borrowed for the extent of one scope and must outlive it.
// They are only ever called from the goroutine that installed them.
type Externalities interface {
	// Storage returns the value stored under key. A missing key is reported as
	// a nil or empty value with a nil error.
	Storage(key []byte) ([]byte, error)
	// SetStorage stores value under key. The slices are owned by the callee.
	SetStorage(key, value []byte)
	// ChainID returns the identifier of the chain the code executes on.
	ChainID() uint64
}
