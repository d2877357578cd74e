// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

// Allow vm to execute custom logic against the underlying transaction types.
type Visitor interface {
	CreateGroupTx(*CreateGroupTx) error
	AddAssetTx(*AddAssetTx) error

	CreateConfigProposalTx(*CreateConfigProposalTx) error
	CreateNormalProposalTx(*CreateNormalProposalTx) error

	VoteConfigTx(*VoteConfigTx) error
	VoteNormalTx(*VoteNormalTx) error

	// Config proposal application:
	AddGroupMemberTx(*AddGroupMemberTx) error
	RemoveGroupMemberTx(*RemoveGroupMemberTx) error
	AddAssetMemberTx(*AddAssetMemberTx) error
	RemoveAssetMemberTx(*RemoveAssetMemberTx) error
	ChangeGroupConfigTx(*ChangeGroupConfigTx) error
	ChangeAssetConfigTx(*ChangeAssetConfigTx) error

	CreateProposalTransactionTx(*CreateProposalTransactionTx) error
	ExecuteProposalTransactionTx(*ExecuteProposalTransactionTx) error

	CloseProposalTx(*CloseProposalTx) error
	CloseVoteRecordTx(*CloseVoteRecordTx) error
	CloseProposalTransactionTx(*CloseProposalTransactionTx) error
	CloseAssetMemberTx(*CloseAssetMemberTx) error
}
