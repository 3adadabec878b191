// Package support routes package level storage calls to the externalities
// installed on the calling goroutine.
//
// The plain accessors never fail. When nothing is installed, or the backend
// reports an error, they fall back to empty bytes, zero or a no-op, and a
// caller cannot tell those cases apart from an absent key. The Try variants
// report the reason instead.
package support

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/relaychain/runtimesupport/internal/environ"
	"github.com/relaychain/runtimesupport/types"
)

var (
	slot   = environ.New[types.Externalities]("externalities")
	logger atomic.Pointer[zerolog.Logger]
)

func init() {
	SetLogger(zerolog.Nop())
}

// SetLogger replaces the logger used to report degraded accesses.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func currentLogger() *zerolog.Logger {
	return logger.Load()
}

// WithExternalities makes ext reachable from every accessor called by f on the
// current goroutine. The previously visible externalities, if any, are
// restored when f returns, panics or calls runtime.Goexit. A nil ext hides the
// outer externalities for the duration of f.
func WithExternalities[R any](ext types.Externalities, f func() R) R {
	return environ.Using(slot, ext, f)
}

// Active reports whether externalities are reachable from the current goroutine.
func Active() bool {
	_, ok := current()
	return ok
}

func current() (types.Externalities, bool) {
	ext, ok := slot.Current()
	if !ok || ext == nil {
		return nil, false
	}
	return ext, true
}

func degraded(op string, key []byte, err error) {
	currentLogger().Debug().Str("op", op).Hex("key", key).Err(err).Msg("storage access fell back to default")
}
