package runtimesupport

import (
	"github.com/relaychain/runtimesupport/types"
)

// Externalities is the host capability reachable from the storage functions
// while a scope is active.
type Externalities = types.Externalities

// Plain is the set of types StorageInto decodes into.
type Plain = types.Plain

// Checksum identifies stored guest code.
type Checksum = types.Checksum

// VMConfig configures NewVM.
type VMConfig = types.VMConfig

// Metrics is a snapshot of VM activity.
type Metrics = types.Metrics
