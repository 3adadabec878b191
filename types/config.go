package types

// DefaultMemoryLimitPages caps guest memory at 16 MiB (64 KiB per page).
const DefaultMemoryLimitPages uint32 = 256

// DefaultMaxModules is the number of compiled modules kept by the VM cache.
const DefaultMaxModules uint32 = 64

// VMConfig defines the configuration for the VM.
type VMConfig struct {
	WasmLimits WasmLimits   `json:"wasm_limits" mapstructure:"wasm_limits"`
	Cache      CacheOptions `json:"cache" mapstructure:"cache"`
}

// WasmLimits bounds the resources a guest instance may use.
type WasmLimits struct {
	// MemoryLimitPages bounds the linear memory of every guest instance.
	MemoryLimitPages *uint32 `json:"memory_limit_pages,omitempty" mapstructure:"memory_limit_pages"`
	// CloseOnContextDone aborts running guest code when the call context ends.
	CloseOnContextDone bool `json:"close_on_context_done" mapstructure:"close_on_context_done"`
}

// CacheOptions configures the compiled module cache.
type CacheOptions struct {
	// MaxModules is the number of compiled modules kept in memory. Zero means
	// DefaultMaxModules.
	MaxModules uint32 `json:"max_modules" mapstructure:"max_modules"`
}

// DefaultVMConfig returns the configuration used when none is supplied.
func DefaultVMConfig() VMConfig {
	limit := DefaultMemoryLimitPages
	return VMConfig{
		WasmLimits: WasmLimits{MemoryLimitPages: &limit},
		Cache:      CacheOptions{MaxModules: DefaultMaxModules},
	}
}

// MemoryLimit returns the configured page limit or the default.
func (c VMConfig) MemoryLimit() uint32 {
	if c.WasmLimits.MemoryLimitPages == nil {
		return DefaultMemoryLimitPages
	}
	return *c.WasmLimits.MemoryLimitPages
}

// MaxModules returns the configured cache size or the default.
func (c VMConfig) MaxModules() int {
	if c.Cache.MaxModules == 0 {
		return int(DefaultMaxModules)
	}
	return int(c.Cache.MaxModules)
}
