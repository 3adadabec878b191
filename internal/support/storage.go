package support

import (
	"github.com/relaychain/runtimesupport/types"
)

// Storage returns a copy of the value stored under key. It returns empty bytes
// when the key is absent, nothing is installed, or the backend fails.
func Storage(key []byte) []byte {
	value, err := TryStorage(key)
	if err != nil {
		degraded("storage", key, err)
		return []byte{}
	}
	return value
}

// TryStorage is Storage with the failure reported. An absent key is not an
// error and yields empty bytes.
func TryStorage(key []byte) ([]byte, error) {
	ext, ok := current()
	if !ok {
		return nil, types.ErrNoExternalities
	}
	value, err := ext.Storage(key)
	if err != nil {
		return nil, &types.BackendError{Key: clone(key), Err: err}
	}
	return clone(value), nil
}

// ReadStorage copies the start of the value stored under key into out and
// returns the full length of the stored value, which exceeds len(out) when the
// copy was truncated. Bytes of out past the copied prefix are left alone.
// It returns 0 when the key is absent, nothing is installed, or the backend
// fails.
func ReadStorage(key, out []byte) int {
	n, err := TryReadStorage(key, out)
	if err != nil {
		degraded("read_storage", key, err)
		return 0
	}
	return n
}

// TryReadStorage is ReadStorage with the failure reported.
func TryReadStorage(key, out []byte) (int, error) {
	ext, ok := current()
	if !ok {
		return 0, types.ErrNoExternalities
	}
	value, err := ext.Storage(key)
	if err != nil {
		return 0, &types.BackendError{Key: clone(key), Err: err}
	}
	copy(out, value)
	return len(value), nil
}

// SetStorage stores value under key. Without installed externalities the write
// is dropped.
func SetStorage(key, value []byte) {
	if err := TrySetStorage(key, value); err != nil {
		degraded("set_storage", key, err)
	}
}

// TrySetStorage is SetStorage reporting a dropped write.
func TrySetStorage(key, value []byte) error {
	ext, ok := current()
	if !ok {
		return types.ErrNoExternalities
	}
	ext.SetStorage(clone(key), clone(value))
	return nil
}

// ChainID returns the chain identifier of the installed externalities, or 0.
func ChainID() uint64 {
	id, err := TryChainID()
	if err != nil {
		currentLogger().Debug().Err(err).Msg("chain id fell back to default")
		return 0
	}
	return id
}

// TryChainID is ChainID reporting missing externalities.
func TryChainID() (uint64, error) {
	ext, ok := current()
	if !ok {
		return 0, types.ErrNoExternalities
	}
	return ext.ChainID(), nil
}

// clone always returns a non-nil slice so empty values stay distinguishable
// from "not set" for backends that reject nil.
func clone(b []byte) []byte {
	return append([]byte{}, b...)
}
