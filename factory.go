// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"github.com/luxfi/log"

	"github.com/luxfi/govvm/txs/executor"
)

// Factory creates new VM instances.
type Factory struct {
	// Runtime executes passed instructions. Nil selects a runtime that only
	// logs them.
	Runtime executor.Runtime
}

// New returns an uninitialized VM writing to logger.
func (f *Factory) New(logger log.Logger) (*VM, error) {
	return &VM{
		log:     logger,
		Runtime: f.Runtime,
	}, nil
}
