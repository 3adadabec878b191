package store

import (
	"bytes"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/rs/zerolog"

	"github.com/relaychain/runtimesupport/types"
)

// DBStore is an Externalities over a cometbft-db database.
//
// The externalities interface gives SetStorage no way to report failure.
// DBStore logs failed writes and keeps the first one, which the host can check
// with Err once the guest call has returned.
type DBStore struct {
	db      dbm.DB
	chainID uint64
	logger  zerolog.Logger

	mtx      sync.Mutex
	writeErr error
}

var _ types.Externalities = (*DBStore)(nil)

// NewDBStore wraps db. The store does not take ownership of db.
func NewDBStore(db dbm.DB, chainID uint64, logger zerolog.Logger) *DBStore {
	return &DBStore{
		db:      db,
		chainID: chainID,
		logger:  logger.With().Str("module", "dbstore").Logger(),
	}
}

// Storage returns a copy of the value under key, or nil if there is none.
func (s *DBStore) Storage(key []byte) ([]byte, error) {
	v, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	// v will equal nil when the key is missing
	return bytes.Clone(v), nil
}

// SetStorage writes a copy of value under key. Some backends, memdb among
// them, keep the slices they are given.
func (s *DBStore) SetStorage(key, value []byte) {
	if err := s.db.Set(bytes.Clone(key), append([]byte{}, value...)); err != nil {
		s.logger.Error().Err(err).Hex("key", key).Msg("write failed")
		s.mtx.Lock()
		if s.writeErr == nil {
			s.writeErr = err
		}
		s.mtx.Unlock()
	}
}

// ChainID implements types.Externalities.
func (s *DBStore) ChainID() uint64 {
	return s.chainID
}

// Err returns the first failed write, if any.
func (s *DBStore) Err() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.writeErr
}
