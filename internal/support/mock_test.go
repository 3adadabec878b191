package support

import (
	"errors"

	"github.com/relaychain/runtimesupport/types"
)

var errBackend = errors.New("backend unavailable")

// testExternalities is a map backed externalities that can be told to fail
// reads of selected keys.
type testExternalities struct {
	storage map[string][]byte
	failing map[string]bool
	chainID uint64
	writes  int
}

var _ types.Externalities = (*testExternalities)(nil)

func newTestExternalities(chainID uint64) *testExternalities {
	return &testExternalities{
		storage: map[string][]byte{},
		failing: map[string]bool{},
		chainID: chainID,
	}
}

func (t *testExternalities) Storage(key []byte) ([]byte, error) {
	if t.failing[string(key)] {
		return nil, errBackend
	}
	return t.storage[string(key)], nil
}

func (t *testExternalities) SetStorage(key, value []byte) {
	t.writes++
	t.storage[string(key)] = value
}

func (t *testExternalities) ChainID() uint64 {
	return t.chainID
}
