// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

var (
	_ UnsignedTx = (*AddGroupMemberTx)(nil)
	_ UnsignedTx = (*RemoveGroupMemberTx)(nil)
	_ UnsignedTx = (*AddAssetMemberTx)(nil)
	_ UnsignedTx = (*RemoveAssetMemberTx)(nil)
	_ UnsignedTx = (*ChangeGroupConfigTx)(nil)
	_ UnsignedTx = (*ChangeAssetConfigTx)(nil)
)

// ApplyTx is the body shared by every command that applies a passed config
// proposal. The concrete type must match the proposal's change.
type ApplyTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`
}

func (tx *ApplyTx) SyntacticVerify() error {
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

type AddGroupMemberTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *AddGroupMemberTx) Visit(visitor Visitor) error {
	return visitor.AddGroupMemberTx(tx)
}

type RemoveGroupMemberTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *RemoveGroupMemberTx) Visit(visitor Visitor) error {
	return visitor.RemoveGroupMemberTx(tx)
}

type AddAssetMemberTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *AddAssetMemberTx) Visit(visitor Visitor) error {
	return visitor.AddAssetMemberTx(tx)
}

type RemoveAssetMemberTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *RemoveAssetMemberTx) Visit(visitor Visitor) error {
	return visitor.RemoveAssetMemberTx(tx)
}

type ChangeGroupConfigTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *ChangeGroupConfigTx) Visit(visitor Visitor) error {
	return visitor.ChangeGroupConfigTx(tx)
}

type ChangeAssetConfigTx struct {
	ApplyTx `serialize:"true"`
}

func (tx *ChangeAssetConfigTx) Visit(visitor Visitor) error {
	return visitor.ChangeAssetConfigTx(tx)
}
