package runtimesupport

import (
	"github.com/rs/zerolog"

	"github.com/relaychain/runtimesupport/internal/runtime/crypto"
	"github.com/relaychain/runtimesupport/internal/support"
)

// WithExternalities runs f with ext reachable from Storage, ReadStorage,
// SetStorage, StorageInto and ChainID on the current goroutine, and returns
// what f returns. Whatever was reachable before is restored when f returns,
// panics or calls runtime.Goexit; a panic keeps propagating afterwards.
//
// Goroutines started by f do not see ext.
func WithExternalities[R any](ext Externalities, f func() R) R {
	return support.WithExternalities(ext, f)
}

// Storage returns a copy of the value stored under key. It returns empty bytes
// when the key is absent, when no externalities are installed, and when the
// backend fails. Use TryStorage to tell these apart.
func Storage(key []byte) []byte {
	return support.Storage(key)
}

// ReadStorage copies min(len(value), len(out)) bytes of the value stored under
// key into out and returns len(value). A result larger than len(out) means the
// copy was truncated. It returns 0 when the key is absent, when no
// externalities are installed, and when the backend fails.
func ReadStorage(key, out []byte) int {
	return support.ReadStorage(key, out)
}

// SetStorage stores value under key. The write is silently dropped when no
// externalities are installed.
func SetStorage(key, value []byte) {
	support.SetStorage(key, value)
}

// StorageInto reinterprets the value stored under key as a T. It returns false
// unless the stored value is exactly unsafe.Sizeof(T) bytes long.
func StorageInto[T Plain](key []byte) (T, bool) {
	return support.StorageInto[T](key)
}

// ChainID returns the chain identifier of the installed externalities, or 0
// when none are installed.
func ChainID() uint64 {
	return support.ChainID()
}

// TryStorage is Storage reporting types.ErrNoExternalities or a
// *types.BackendError instead of returning empty bytes.
func TryStorage(key []byte) ([]byte, error) {
	return support.TryStorage(key)
}

// TryReadStorage is ReadStorage with the failure reported.
func TryReadStorage(key, out []byte) (int, error) {
	return support.TryReadStorage(key, out)
}

// TrySetStorage is SetStorage reporting a dropped write.
func TrySetStorage(key, value []byte) error {
	return support.TrySetStorage(key, value)
}

// TryStorageInto is StorageInto reporting why decoding failed. A length
// mismatch matches types.ErrSizeMismatch.
func TryStorageInto[T Plain](key []byte) (T, error) {
	return support.TryStorageInto[T](key)
}

// TryChainID is ChainID reporting missing externalities.
func TryChainID() (uint64, error) {
	return support.TryChainID()
}

// SetLogger sets the logger that records accesses falling back to defaults.
// They are logged at debug level. The default logger discards everything.
func SetLogger(logger zerolog.Logger) {
	support.SetLogger(logger)
}

// Ed25519Verify reports whether sig is a valid ed25519 signature of msg by
// pubkey.
func Ed25519Verify(sig *[64]byte, msg []byte, pubkey *[32]byte) bool {
	return crypto.Ed25519Verify(sig, msg, pubkey)
}

// Blake2_256 is BLAKE2b-256.
func Blake2_256(data []byte) [32]byte { return crypto.Blake2_256(data) }

// Blake2_128 is BLAKE2b-128.
func Blake2_128(data []byte) [16]byte { return crypto.Blake2_128(data) }

// Twox256 is four seeded xxHash64 lanes.
func Twox256(data []byte) [32]byte { return crypto.Twox256(data) }

// Twox128 is two seeded xxHash64 lanes.
func Twox128(data []byte) [16]byte { return crypto.Twox128(data) }

// Twox64 is one xxHash64 lane.
func Twox64(data []byte) [8]byte { return crypto.Twox64(data) }

// Keccak256 is legacy Keccak-256.
func Keccak256(data []byte) [32]byte { return crypto.Keccak256(data) }
