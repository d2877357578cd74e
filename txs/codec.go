// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"math"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"

	"github.com/luxfi/govvm/governance"
)

const CodecVersion = 0

var Codec codec.Manager

func init() {
	Codec = codec.NewManager(math.MaxInt)
	lc := linearcodec.NewDefault()

	err := errors.Join(
		governance.RegisterTypes(lc),
		RegisterTypes(lc),
		Codec.RegisterCodec(CodecVersion, lc),
	)
	if err != nil {
		panic(err)
	}
}

// RegisterTypes registers every command. New commands must be appended.
func RegisterTypes(targetCodec codec.Registry) error {
	return errors.Join(
		targetCodec.RegisterType(&CreateGroupTx{}),
		targetCodec.RegisterType(&AddAssetTx{}),
		targetCodec.RegisterType(&CreateConfigProposalTx{}),
		targetCodec.RegisterType(&CreateNormalProposalTx{}),
		targetCodec.RegisterType(&VoteConfigTx{}),
		targetCodec.RegisterType(&VoteNormalTx{}),
		targetCodec.RegisterType(&AddGroupMemberTx{}),
		targetCodec.RegisterType(&RemoveGroupMemberTx{}),
		targetCodec.RegisterType(&AddAssetMemberTx{}),
		targetCodec.RegisterType(&RemoveAssetMemberTx{}),
		targetCodec.RegisterType(&ChangeGroupConfigTx{}),
		targetCodec.RegisterType(&ChangeAssetConfigTx{}),
		targetCodec.RegisterType(&CreateProposalTransactionTx{}),
		targetCodec.RegisterType(&ExecuteProposalTransactionTx{}),
		targetCodec.RegisterType(&CloseProposalTx{}),
		targetCodec.RegisterType(&CloseVoteRecordTx{}),
		targetCodec.RegisterType(&CloseProposalTransactionTx{}),
		targetCodec.RegisterType(&CloseAssetMemberTx{}),
	)
}
