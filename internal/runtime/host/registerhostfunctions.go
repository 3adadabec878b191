package host

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import module guests link the host functions from.
const ModuleName = "env"

// hostFunction binds an export name to its Go implementation. fn must have the
// shape wazero's WithFunc accepts.
type hostFunction struct {
	name string
	fn   interface{}
}

func hostFunctions() []hostFunction {
	return []hostFunction{
		{"ext_set_storage", func(_ context.Context, m api.Module, keyPtr, keyLen, valuePtr, valueLen uint32) {
			setStorage(m.Memory(), keyPtr, keyLen, valuePtr, valueLen)
		}},
		{"ext_get_storage_into", func(_ context.Context, m api.Module, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
			return getStorageInto(m.Memory(), keyPtr, keyLen, outPtr, outLen)
		}},
		{"ext_storage_len", func(_ context.Context, m api.Module, keyPtr, keyLen uint32) uint32 {
			return storageLen(m.Memory(), keyPtr, keyLen)
		}},
		{"ext_chain_id", func(context.Context) uint64 {
			return chainID()
		}},
		{"ext_blake2_256", func(_ context.Context, m api.Module, dataPtr, dataLen, outPtr uint32) {
			blake2_256(m.Memory(), dataPtr, dataLen, outPtr)
		}},
		{"ext_twox_128", func(_ context.Context, m api.Module, dataPtr, dataLen, outPtr uint32) {
			twox128(m.Memory(), dataPtr, dataLen, outPtr)
		}},
		{"ext_twox_256", func(_ context.Context, m api.Module, dataPtr, dataLen, outPtr uint32) {
			twox256(m.Memory(), dataPtr, dataLen, outPtr)
		}},
		{"ext_ed25519_verify", func(_ context.Context, m api.Module, msgPtr, msgLen, sigPtr, pubkeyPtr uint32) uint32 {
			return ed25519Verify(m.Memory(), msgPtr, msgLen, sigPtr, pubkeyPtr)
		}},
	}
}

// Exports lists the names of all host functions in registration order.
func Exports() []string {
	fns := hostFunctions()
	names := make([]string, len(fns))
	for i, f := range fns {
		names[i] = f.name
	}
	return names
}

// Instantiate defines and instantiates the host module in r. Guest modules
// compiled by r can import from it afterwards.
func Instantiate(ctx context.Context, r wazero.Runtime, logger zerolog.Logger) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	fns := hostFunctions()
	for _, f := range fns {
		builder.NewFunctionBuilder().WithFunc(f.fn).Export(f.name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("module", ModuleName).Int("functions", len(fns)).Msg("host module instantiated")
	return mod, nil
}
