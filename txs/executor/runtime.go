// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"

	"github.com/luxfi/log"

	"github.com/luxfi/govvm/governance"
)

var _ Runtime = (*logRuntime)(nil)

// Runtime runs a bundled instruction once every asset it uses has approved
// it. Each grant is valid for this single call.
type Runtime interface {
	Execute(ctx context.Context, instruction *governance.Instruction, grants []governance.AuthorityGrant) error
}

type logRuntime struct {
	log log.Logger
}

// NewLogRuntime returns a Runtime that only records what it was asked to
// run. It backs nodes that govern no external program.
func NewLogRuntime(logger log.Logger) Runtime {
	return &logRuntime{log: logger}
}

func (r *logRuntime) Execute(_ context.Context, instruction *governance.Instruction, grants []governance.AuthorityGrant) error {
	r.log.Info("executing instruction",
		log.Stringer("programID", instruction.ProgramID),
		log.Int("numAccounts", len(instruction.Accounts)),
		log.Int("numGrants", len(grants)),
		log.Int("dataLen", len(instruction.Data)),
	)
	return nil
}
