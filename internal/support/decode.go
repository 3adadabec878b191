package support

import (
	"unsafe"

	"github.com/relaychain/runtimesupport/types"
)

// StorageInto decodes the value stored under key into a T. It succeeds only if
// the stored value is exactly as long as T; the bytes are then copied into a
// zeroed T as they are, integers ending up in host byte order.
//
// See types.Plain for the types that are safe to decode.
func StorageInto[T types.Plain](key []byte) (T, bool) {
	v, err := TryStorageInto[T](key)
	if err != nil {
		degraded("storage_into", key, err)
		return v, false
	}
	return v, true
}

// TryStorageInto is StorageInto with the failure reported. A length mismatch,
// including an absent key, is a *types.SizeMismatchError.
func TryStorageInto[T types.Plain](key []byte) (T, error) {
	var v T
	raw, err := TryStorage(key)
	if err != nil {
		return v, err
	}
	size := int(unsafe.Sizeof(v))
	if len(raw) != size {
		return v, &types.SizeMismatchError{Key: clone(key), Wanted: size, Got: len(raw)}
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), raw)
	return v, nil
}
