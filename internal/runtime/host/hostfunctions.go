// Package host exposes the externalities accessors and crypto primitives to
// guest code as the wazero host module "env".
//
// Every function works on the externalities installed on the goroutine that
// called into the guest. wazero runs host functions on that goroutine, so a
// guest call made inside support.WithExternalities sees the same scope as Go
// code would.
package host

import (
	"math"

	"github.com/relaychain/runtimesupport/internal/runtime/crypto"
	"github.com/relaychain/runtimesupport/internal/runtime/memory"
	"github.com/relaychain/runtimesupport/internal/support"
)

// Ed25519 verification results returned to the guest.
const (
	VerifyOK      uint32 = 0
	VerifyInvalid uint32 = 1
)

func setStorage(mem memory.WasmMemory, keyPtr, keyLen, valuePtr, valueLen uint32) {
	key := memory.MustRead(mem, keyPtr, keyLen)
	value := memory.MustRead(mem, valuePtr, valueLen)
	support.SetStorage(key, value)
}

// getStorageInto writes as much of the value as fits into the guest buffer and
// returns the full value length.
func getStorageInto(mem memory.WasmMemory, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
	key := memory.MustRead(mem, keyPtr, keyLen)
	out := memory.MustRead(mem, outPtr, outLen)
	// key may overlap out; ReadStorage is done with key before writing out
	return clampLen(support.ReadStorage(key, out))
}

func storageLen(mem memory.WasmMemory, keyPtr, keyLen uint32) uint32 {
	key := memory.MustRead(mem, keyPtr, keyLen)
	return clampLen(len(support.Storage(key)))
}

func chainID() uint64 {
	return support.ChainID()
}

func blake2_256(mem memory.WasmMemory, dataPtr, dataLen, outPtr uint32) {
	h := crypto.Blake2_256(memory.MustRead(mem, dataPtr, dataLen))
	memory.MustWrite(mem, outPtr, h[:])
}

func twox128(mem memory.WasmMemory, dataPtr, dataLen, outPtr uint32) {
	h := crypto.Twox128(memory.MustRead(mem, dataPtr, dataLen))
	memory.MustWrite(mem, outPtr, h[:])
}

func twox256(mem memory.WasmMemory, dataPtr, dataLen, outPtr uint32) {
	h := crypto.Twox256(memory.MustRead(mem, dataPtr, dataLen))
	memory.MustWrite(mem, outPtr, h[:])
}

func ed25519Verify(mem memory.WasmMemory, msgPtr, msgLen, sigPtr, pubkeyPtr uint32) uint32 {
	msg := memory.MustRead(mem, msgPtr, msgLen)
	sig := [crypto.Ed25519SignatureLen]byte(memory.MustRead(mem, sigPtr, crypto.Ed25519SignatureLen))
	pubkey := [crypto.Ed25519PubkeyLen]byte(memory.MustRead(mem, pubkeyPtr, crypto.Ed25519PubkeyLen))
	if crypto.Ed25519Verify(&sig, msg, &pubkey) {
		return VerifyOK
	}
	return VerifyInvalid
}

func clampLen(n int) uint32 {
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
