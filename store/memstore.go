// Package store provides Externalities backends for hosts and tests.
package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/relaychain/runtimesupport/types"
)

// bTreeDegree is the B-Tree degree, tuned with benchmarks for in-memory KV
// workloads.
const bTreeDegree = 32

// item is a btree item with byte slices as keys and values
type item struct {
	key   []byte
	value []byte
}

func itemLess(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// MemStore is an ordered in-memory Externalities. It is safe for concurrent
// use, so one store may back several scopes on different goroutines.
type MemStore struct {
	mtx     sync.RWMutex
	btree   *btree.BTreeG[item]
	chainID uint64
}

var _ types.Externalities = (*MemStore)(nil)

// NewMemStore creates an empty store reporting chainID.
func NewMemStore(chainID uint64) *MemStore {
	return &MemStore{
		btree:   btree.NewG(bTreeDegree, itemLess),
		chainID: chainID,
	}
}

// Storage returns a copy of the value under key, or nil if there is none.
func (s *MemStore) Storage(key []byte) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	i, ok := s.btree.Get(item{key: key})
	if !ok {
		return nil, nil
	}
	return bytes.Clone(i.value), nil
}

// SetStorage stores copies of key and value.
func (s *MemStore) SetStorage(key, value []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.btree.ReplaceOrInsert(item{key: bytes.Clone(key), value: append([]byte{}, value...)})
}

// ChainID implements types.Externalities.
func (s *MemStore) ChainID() uint64 {
	return s.chainID
}

// Delete removes key. Guests have no way to delete; hosts use it to reset
// state between calls.
func (s *MemStore) Delete(key []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.btree.Delete(item{key: key})
}

// Len returns the number of stored keys.
func (s *MemStore) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.btree.Len()
}

// IteratePrefix calls fn for every entry whose key starts with prefix, in
// ascending key order, until fn returns false. fn receives copies.
func (s *MemStore) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) {
	s.mtx.RLock()
	var matched []item
	s.btree.AscendGreaterOrEqual(item{key: prefix}, func(i item) bool {
		if !bytes.HasPrefix(i.key, prefix) {
			return false
		}
		matched = append(matched, item{key: bytes.Clone(i.key), value: bytes.Clone(i.value)})
		return true
	})
	s.mtx.RUnlock()

	// fn runs unlocked so it may call back into the store
	for _, i := range matched {
		if !fn(i.key, i.value) {
			return
		}
	}
}

// Keys returns all keys in ascending order.
func (s *MemStore) Keys() [][]byte {
	var keys [][]byte
	s.IteratePrefix(nil, func(key, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
