// Package runtimesupport lets sandboxed code read and write key/value storage,
// query chain metadata and verify signatures through plain package level
// functions, without passing a storage handle around.
//
// A host installs an Externalities implementation for the extent of a call
// with WithExternalities. Storage, ReadStorage, SetStorage, StorageInto and
// ChainID called anywhere below that call on the same goroutine reach it.
// Outside a scope they return empty values instead of failing.
//
// VM runs wasm guests whose imports from the "env" module are routed to the
// same functions.
package runtimesupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"

	"github.com/relaychain/runtimesupport/internal/runtime/host"
	"github.com/relaychain/runtimesupport/internal/support"
	"github.com/relaychain/runtimesupport/types"
)

var (
	// ErrCodeNotFound is returned by Call for a checksum that was never stored
	// or has been evicted.
	ErrCodeNotFound = errors.New("code not found")
	// ErrExportNotFound is returned by Call when the guest has no such export.
	ErrExportNotFound = errors.New("export not found")
)

// VM compiles guest code once and runs its exports against the externalities
// passed to each call. It is safe for concurrent use.
type VM struct {
	runtime wazero.Runtime
	logger  zerolog.Logger
	config  types.VMConfig

	mu      sync.Mutex
	cache   map[types.Checksum]*cacheItem
	order   []types.Checksum // oldest first
	metrics types.Metrics
}

type cacheItem struct {
	compiled wazero.CompiledModule
	size     uint64

	// guarded by VM.mu
	refs    int  // calls currently using compiled
	evicted bool // closed once refs drops to zero
}

// NewVM creates a VM with its own wazero runtime and host module.
func NewVM(ctx context.Context, config types.VMConfig, logger zerolog.Logger) (*VM, error) {
	runtimeConfig := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(config.MemoryLimit()).
		WithCloseOnContextDone(config.WasmLimits.CloseOnContextDone)
	r := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)
	if _, err := host.Instantiate(ctx, r, logger); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("instantiating host module: %w", err)
	}
	logger.Info().
		Uint32("memory_limit_pages", config.MemoryLimit()).
		Int("max_modules", config.MaxModules()).
		Msg("runtime initialized")
	return &VM{
		runtime: r,
		logger:  logger,
		config:  config,
		cache:   make(map[types.Checksum]*cacheItem),
	}, nil
}

// StoreCode compiles code and caches the result under its checksum. Storing
// the same code again is cheap.
func (vm *VM) StoreCode(ctx context.Context, code []byte) (types.Checksum, error) {
	checksum := types.ComputeChecksum(code)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if _, ok := vm.cache[checksum]; ok {
		vm.metrics.HitsMemoryCache++
		return checksum, nil
	}
	vm.metrics.Misses++

	compiled, err := vm.runtime.CompileModule(ctx, code)
	if err != nil {
		return checksum, fmt.Errorf("compiling %s: %w", checksum, err)
	}
	vm.cache[checksum] = &cacheItem{compiled: compiled, size: uint64(len(code))}
	vm.order = append(vm.order, checksum)
	vm.metrics.ElementsMemoryCache++
	vm.metrics.SizeMemoryCache += uint64(len(code))
	vm.evict(ctx)

	vm.logger.Debug().Stringer("checksum", checksum).Int("size", len(code)).Msg("stored code")
	return checksum, nil
}

// evict drops the oldest modules until the cache fits. Modules still in use by
// a call are closed when that call releases them. Callers hold vm.mu.
func (vm *VM) evict(ctx context.Context) {
	for len(vm.order) > vm.config.MaxModules() {
		oldest := vm.order[0]
		vm.order = vm.order[1:]
		item := vm.cache[oldest]
		delete(vm.cache, oldest)
		vm.metrics.ElementsMemoryCache--
		vm.metrics.SizeMemoryCache -= item.size
		item.evicted = true
		if item.refs == 0 {
			vm.closeModule(ctx, oldest, item)
		}
		vm.logger.Debug().Stringer("checksum", oldest).Msg("evicted code")
	}
}

func (vm *VM) closeModule(ctx context.Context, checksum types.Checksum, item *cacheItem) {
	if err := item.compiled.Close(ctx); err != nil {
		vm.logger.Warn().Err(err).Stringer("checksum", checksum).Msg("closing evicted module")
	}
}

// acquire returns the cached module for checksum and pins it until release.
func (vm *VM) acquire(checksum types.Checksum) (*cacheItem, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	item, ok := vm.cache[checksum]
	if !ok {
		return nil, false
	}
	vm.metrics.HitsMemoryCache++
	item.refs++
	return item, true
}

func (vm *VM) release(ctx context.Context, checksum types.Checksum, item *cacheItem) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	item.refs--
	if item.evicted && item.refs == 0 {
		vm.closeModule(ctx, checksum, item)
	}
}

type callResult struct {
	values []uint64
	err    error
}

// Call instantiates the code stored under checksum and calls export with
// params while ext is installed. Every call gets a fresh instance, so guest
// memory never carries over between calls; only ext does.
func (vm *VM) Call(ctx context.Context, checksum types.Checksum, ext types.Externalities, export string, params ...uint64) ([]uint64, error) {
	res := vm.call(ctx, checksum, ext, export, params)

	vm.mu.Lock()
	vm.metrics.Calls++
	if res.err != nil {
		vm.metrics.FailedCalls++
	}
	vm.mu.Unlock()

	if res.err != nil {
		vm.logger.Debug().Err(res.err).Stringer("checksum", checksum).Str("export", export).Msg("call failed")
	}
	return res.values, res.err
}

func (vm *VM) call(ctx context.Context, checksum types.Checksum, ext types.Externalities, export string, params []uint64) callResult {
	item, ok := vm.acquire(checksum)
	if !ok {
		return callResult{err: fmt.Errorf("%w: %s", ErrCodeNotFound, checksum)}
	}
	defer vm.release(ctx, checksum, item)

	// start functions run inside the scope too
	return support.WithExternalities(ext, func() callResult {
		// an empty name keeps concurrent instances of the same code apart
		mod, err := vm.runtime.InstantiateModule(ctx, item.compiled, wazero.NewModuleConfig().WithName(""))
		if err != nil {
			return callResult{err: fmt.Errorf("instantiating %s: %w", checksum, err)}
		}
		defer mod.Close(ctx)

		fn := mod.ExportedFunction(export)
		if fn == nil {
			return callResult{err: fmt.Errorf("%w: %q in %s", ErrExportNotFound, export, checksum)}
		}
		values, err := fn.Call(ctx, params...)
		if err != nil {
			return callResult{err: fmt.Errorf("calling %q: %w", export, err)}
		}
		return callResult{values: values}
	})
}

// Metrics returns a snapshot of the VM counters.
func (vm *VM) Metrics() types.Metrics {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.metrics
}

// Close releases the runtime and every compiled module.
func (vm *VM) Close(ctx context.Context) error {
	vm.mu.Lock()
	vm.cache = make(map[types.Checksum]*cacheItem)
	vm.order = nil
	vm.metrics.ElementsMemoryCache = 0
	vm.metrics.SizeMemoryCache = 0
	vm.mu.Unlock()
	return vm.runtime.Close(ctx)
}
