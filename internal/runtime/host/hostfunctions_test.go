package host

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/relaychain/runtimesupport/internal/runtime/crypto"
	"github.com/relaychain/runtimesupport/internal/runtime/memory"
	"github.com/relaychain/runtimesupport/internal/support"
)

// memoryModule is a wasm module that only exports one page of memory.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic, version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

type mapExternalities struct {
	data    map[string][]byte
	chainID uint64
}

func (m *mapExternalities) Storage(key []byte) ([]byte, error) { return m.data[string(key)], nil }
func (m *mapExternalities) SetStorage(key, value []byte)        { m.data[string(key)] = value }
func (m *mapExternalities) ChainID() uint64                     { return m.chainID }

func setupMemory(t *testing.T) memory.WasmMemory {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })
	mod, err := r.Instantiate(ctx, memoryModule)
	require.NoError(t, err)
	require.NotNil(t, mod.Memory())
	return mod.Memory()
}

func inScope(ext *mapExternalities, f func()) {
	support.WithExternalities(ext, func() struct{} {
		f()
		return struct{}{}
	})
}

func TestStorageThroughMemory(t *testing.T) {
	mem := setupMemory(t)
	ext := &mapExternalities{data: map[string][]byte{}, chainID: 7}

	require.True(t, mem.Write(0, []byte("key")))
	require.True(t, mem.Write(16, []byte("hello world")))

	inScope(ext, func() {
		setStorage(mem, 0, 3, 16, 11)
		assert.Equal(t, uint32(11), storageLen(mem, 0, 3))

		// truncated read: returns the full length, writes only 5 bytes
		require.True(t, mem.Write(64, []byte("..........")))
		assert.Equal(t, uint32(11), getStorageInto(mem, 0, 3, 64, 5))
		out, ok := mem.Read(64, 10)
		require.True(t, ok)
		assert.Equal(t, []byte("hello....."), out)

		assert.Equal(t, uint32(0), getStorageInto(mem, 16, 4, 64, 5))
		assert.Equal(t, uint64(7), chainID())
	})
	assert.Equal(t, []byte("hello world"), ext.data["key"])

	// outside a scope everything degrades
	setStorage(mem, 0, 3, 16, 5)
	assert.Equal(t, uint32(0), storageLen(mem, 0, 3))
	assert.Equal(t, uint64(0), chainID())
	assert.Equal(t, []byte("hello world"), ext.data["key"])
}

func TestStoredValueDoesNotAliasGuestMemory(t *testing.T) {
	mem := setupMemory(t)
	ext := &mapExternalities{data: map[string][]byte{}}

	require.True(t, mem.Write(0, []byte("kv")))
	inScope(ext, func() {
		setStorage(mem, 0, 1, 1, 1)
	})
	require.True(t, mem.Write(0, []byte("xx")))
	assert.Equal(t, []byte("v"), ext.data["k"])
}

func TestHashesThroughMemory(t *testing.T) {
	mem := setupMemory(t)
	data := []byte("abc")
	require.True(t, mem.Write(0, data))

	blake2_256(mem, 0, 3, 100)
	out, _ := mem.Read(100, 32)
	want256 := crypto.Blake2_256(data)
	assert.Equal(t, want256[:], out)

	twox128(mem, 0, 3, 200)
	out, _ = mem.Read(200, 16)
	want128 := crypto.Twox128(data)
	assert.Equal(t, want128[:], out)

	twox256(mem, 0, 3, 300)
	out, _ = mem.Read(300, 32)
	wantTwox := crypto.Twox256(data)
	assert.Equal(t, wantTwox[:], out)
}

func TestEd25519ThroughMemory(t *testing.T) {
	mem := setupMemory(t)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg := []byte("signed payload")
	sig := ed25519.Sign(priv, msg)

	require.True(t, mem.Write(0, msg))
	require.True(t, mem.Write(100, sig))
	require.True(t, mem.Write(200, pub))
	assert.Equal(t, VerifyOK, ed25519Verify(mem, 0, uint32(len(msg)), 100, 200))

	require.True(t, mem.Write(0, []byte("S")))
	assert.Equal(t, VerifyInvalid, ed25519Verify(mem, 0, uint32(len(msg)), 100, 200))
}

func TestOutOfBoundsAccessPanics(t *testing.T) {
	mem := setupMemory(t)
	size := mem.Size()

	assert.PanicsWithError(t, "invalid memory access: read of 8 bytes at 65535 exceeds 65536", func() {
		storageLen(mem, size-1, 8)
	})
	assert.Panics(t, func() { blake2_256(mem, 0, 3, size-4) })
	assert.Panics(t, func() { ed25519Verify(mem, 0, 0, size-10, 0) })
	assert.Panics(t, func() { setStorage(nil, 0, 0, 0, 0) })
}

func TestInstantiate(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := Instantiate(ctx, r, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ModuleName, mod.Name())

	defs := mod.ExportedFunctionDefinitions()
	for _, name := range Exports() {
		assert.Contains(t, defs, name)
	}
	assert.Len(t, defs, len(Exports()))

	// a second host module with the same name is rejected by the runtime
	_, err = Instantiate(ctx, r, zerolog.Nop())
	assert.Error(t, err)
}
