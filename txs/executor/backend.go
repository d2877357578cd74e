// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"github.com/luxfi/log"

	"github.com/luxfi/govvm/config"
	"github.com/luxfi/govvm/metrics"
	"github.com/luxfi/govvm/utils/timer/mockable"
)

type Backend struct {
	Config  *config.Config
	Clk     *mockable.Clock
	Log     log.Logger
	Metrics metrics.Metrics
	Runtime Runtime
}
