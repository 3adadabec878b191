package types

import (
	"github.com/shamaton/msgpack/v2"
)

// Metrics is a snapshot of VM activity.
type Metrics struct {
	HitsMemoryCache uint32 `msgpack:"hits_memory_cache"`
	Misses          uint32 `msgpack:"misses"`
	// Number of compiled modules currently held in the cache.
	ElementsMemoryCache uint64 `msgpack:"elements_memory_cache"`
	// Cumulative size of the original code of all cached modules (in bytes).
	SizeMemoryCache uint64 `msgpack:"size_memory_cache"`
	Calls           uint64 `msgpack:"calls"`
	FailedCalls     uint64 `msgpack:"failed_calls"`
}

// MarshalMessagePack encodes the metrics as a msgpack array.
func (m Metrics) MarshalMessagePack() ([]byte, error) {
	return msgpack.MarshalAsArray(m)
}

func (m *Metrics) UnmarshalMessagePack(data []byte) error {
	return msgpack.UnmarshalAsArray(data, m)
}
