// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import "github.com/luxfi/govvm/governance"

var (
	_ UnsignedTx = (*VoteConfigTx)(nil)
	_ UnsignedTx = (*VoteNormalTx)(nil)
)

// VoteConfigTx casts or changes the issuer's vote on a config proposal.
type VoteConfigTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`

	Choice governance.Choice `serialize:"true" json:"choice"`
}

func (tx *VoteConfigTx) SyntacticVerify() error {
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
	if err := tx.Choice.Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *VoteConfigTx) Visit(visitor Visitor) error {
	return visitor.VoteConfigTx(tx)
}

// VoteNormalTx casts or changes the issuer's vote on one asset of a normal
// proposal.
type VoteNormalTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`

	// AssetIndex is the position in the proposal's asset list.
	AssetIndex uint8             `serialize:"true" json:"assetIndex"`
	Choice     governance.Choice `serialize:"true" json:"choice"`
}

func (tx *VoteNormalTx) SyntacticVerify() error {
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
	if err := tx.Choice.Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *VoteNormalTx) Visit(visitor Visitor) error {
	return visitor.VoteNormalTx(tx)
}
