// Package crypto holds the stateless hashing and signature primitives exposed
// to guest code. None of them touch the externalities slot.
package crypto

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2_256 is BLAKE2b with a 256 bit digest.
func Blake2_256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Blake2_128 is BLAKE2b with a 128 bit digest.
func Blake2_128(data []byte) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// only reachable with an invalid size or key
		panic(err)
	}
	h.Write(data)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keccak256 is the original Keccak-256, as used by Ethereum.
func Keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Twox64 is xxHash64 with seed 0, little endian.
func Twox64(data []byte) [8]byte {
	var out [8]byte
	twox(out[:], data)
	return out
}

// Twox128 concatenates xxHash64 with seeds 0 and 1, each little endian.
func Twox128(data []byte) [16]byte {
	var out [16]byte
	twox(out[:], data)
	return out
}

// Twox256 concatenates xxHash64 with seeds 0 to 3, each little endian.
func Twox256(data []byte) [32]byte {
	var out [32]byte
	twox(out[:], data)
	return out
}

// twox fills out with one 8 byte lane per seed.
func twox(out, data []byte) {
	for seed := 0; seed*8 < len(out); seed++ {
		d := xxhash.NewWithSeed(uint64(seed))
		_, _ = d.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], d.Sum64())
	}
}
