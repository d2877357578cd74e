// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"errors"

	"github.com/luxfi/govvm/threshold"
)

// Validation errors
var (
	ErrInvalidThreshold           = threshold.ErrInvalidThreshold
	ErrInvalidMemberCount         = errors.New("invalid member count")
	ErrInvalidPermissions         = errors.New("invalid permissions")
	ErrLengthMismatch             = errors.New("length mismatch")
	ErrAssetsNotSortedOrDuplicate = errors.New("assets not sorted or duplicate")
	ErrTooManyAssets              = errors.New("too many assets")
	ErrNoAssets                   = errors.New("no assets")
	ErrInvalidInitialWeights      = errors.New("invalid initial weights")
	ErrInvalidInitialPermissions  = errors.New("invalid initial permissions")
	ErrTooManyMembers             = errors.New("too many members")
	ErrInvalidMaxMemberWeight     = errors.New("invalid max member weight")
	ErrInvalidTimeOffset          = errors.New("invalid time offset")
)

// Authorization errors
var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrUnauthorizedVoter       = errors.New("unauthorized voter")
	ErrInvalidProposer         = errors.New("invalid proposer")
	ErrNotGroupMember          = errors.New("not a group member")
	ErrNotAssetMember          = errors.New("not an asset member")
)

// State machine errors
var (
	ErrProposalNotOpen         = errors.New("proposal not open")
	ErrProposalNotPassed       = errors.New("proposal not passed")
	ErrProposalExpired         = errors.New("proposal expired")
	ErrProposalStale           = errors.New("proposal stale")
	ErrProposalNotStale        = errors.New("proposal not stale")
	ErrStateAlreadyFinalized   = errors.New("state already finalized")
	ErrInvalidStateTransition  = errors.New("invalid state transition")
	ErrProposalNotClosable     = errors.New("proposal not closable")
	ErrProposalStillActive     = errors.New("proposal still active")
	ErrProposalStillTimelocked = errors.New("proposal still timelocked")
	ErrTransactionNotRipe      = errors.New("transaction not ripe")
	ErrGroupMemberStillActive  = errors.New("group member still active")
	ErrAlreadyExists           = errors.New("already exists")
	ErrArithmeticOverflow      = threshold.ErrArithmeticOverflow
	ErrUnexpectedRentCollector = errors.New("unexpected rent collector")
	ErrInvalidVoteChoice       = errors.New("invalid vote choice")
)

// Mismatch errors
var (
	ErrInvalidAsset                     = errors.New("invalid asset")
	ErrInvalidMember                    = errors.New("invalid member")
	ErrUnexpectedAsset                  = errors.New("unexpected asset")
	ErrUnexpectedGroup                  = errors.New("unexpected group")
	ErrUnexpectedConfigChange           = errors.New("unexpected config change")
	ErrUnexpectedProposal               = errors.New("unexpected proposal")
	ErrInvalidAssetIndex                = errors.New("invalid asset index")
	ErrInvalidInstructionHash           = errors.New("invalid instruction hash")
	ErrInstructionDeserializationFailed = errors.New("instruction deserialization failed")
	ErrNotEnoughAccountKeys             = errors.New("not enough account keys")
)

// Lookup errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrVoteRecordNotFound  = errors.New("vote record not found")
	ErrTransactionNotFound = errors.New("proposal transaction not found")
)
