// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/governance"
)

var (
	_ UnsignedTx = (*CloseProposalTx)(nil)
	_ UnsignedTx = (*CloseVoteRecordTx)(nil)
	_ UnsignedTx = (*CloseProposalTransactionTx)(nil)
	_ UnsignedTx = (*CloseAssetMemberTx)(nil)
)

// CloseProposalTx deletes a proposal that can no longer pass or be used.
// Anyone may issue it.
type CloseProposalTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`
}

func (tx *CloseProposalTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := tx.ProposalRef.Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *CloseProposalTx) Visit(visitor Visitor) error {
	return visitor.CloseProposalTx(tx)
}

// CloseVoteRecordTx deletes a vote record whose proposal is no longer open.
type CloseVoteRecordTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`

	Voter         ids.ShortID `serialize:"true" json:"voter"`
	HasAssetIndex bool        `serialize:"true" json:"hasAssetIndex"`
	AssetIndex    uint8       `serialize:"true" json:"assetIndex"`
}

func (tx *CloseVoteRecordTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.Voter == ids.ShortEmpty:
		return governance.ErrUnauthorizedVoter
	case !tx.HasAssetIndex && tx.AssetIndex != 0:
		return governance.ErrInvalidAssetIndex
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := tx.ProposalRef.Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *CloseVoteRecordTx) Visit(visitor Visitor) error {
	return visitor.CloseVoteRecordTx(tx)
}

// CloseProposalTransactionTx deletes a staged instruction that can no longer
// execute.
type CloseProposalTransactionTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`
}

func (tx *CloseProposalTransactionTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := tx.ProposalRef.Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *CloseProposalTransactionTx) Visit(visitor Visitor) error {
	return visitor.CloseProposalTransactionTx(tx)
}

// CloseAssetMemberTx deletes the asset membership of a user who has left the
// group.
type CloseAssetMemberTx struct {
	BaseTx `serialize:"true"`

	GroupID ids.ID      `serialize:"true" json:"group"`
	Asset   ids.ID      `serialize:"true" json:"asset"`
	User    ids.ShortID `serialize:"true" json:"user"`
}

func (tx *CloseAssetMemberTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.GroupID == ids.Empty:
		return ErrNoGroup
	case tx.Asset == ids.Empty:
		return governance.ErrInvalidAsset
	case tx.User == ids.ShortEmpty:
		return governance.ErrInvalidMember
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *CloseAssetMemberTx) Visit(visitor Visitor) error {
	return visitor.CloseAssetMemberTx(tx)
}
