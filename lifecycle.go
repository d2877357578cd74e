// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

// Lifecycle is the high-level state of a VM instance.
type Lifecycle uint8

const (
	// Uninitialized is the default / unset state.
	Uninitialized Lifecycle = iota

	// Ready indicates the VM accepts txs and queries.
	Ready

	// Stopped indicates the VM has been shut down and released its database.
	Stopped
)

// String returns the string representation of the lifecycle state
func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
