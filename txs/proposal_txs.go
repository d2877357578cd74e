// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"math"

	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/governance"
)

var (
	_ UnsignedTx = (*CreateConfigProposalTx)(nil)
	_ UnsignedTx = (*CreateNormalProposalTx)(nil)
)

// CreateConfigProposalTx proposes a membership or configuration change.
type CreateConfigProposalTx struct {
	BaseTx `serialize:"true"`

	GroupID ids.ID                    `serialize:"true" json:"group"`
	Seed    ids.ID                    `serialize:"true" json:"seed"`
	Target  governance.ProposalTarget `serialize:"true" json:"target"`
	Change  governance.ConfigChange   `serialize:"true" json:"change"`

	// Seconds. The group defaults apply when these are shorter or zero.
	TimelockOffset uint32 `serialize:"true" json:"timelockOffset"`
	ExpiryOffset   uint32 `serialize:"true" json:"expiryOffset"`
}

func (tx *CreateConfigProposalTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.GroupID == ids.Empty:
		return ErrNoGroup
	case tx.Seed == ids.Empty:
		return ErrNoSeed
	case tx.Change == nil:
		return errNilChange
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := governance.VerifyChangeTarget(tx.Target, tx.Change); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

func (tx *CreateConfigProposalTx) Visit(visitor Visitor) error {
	return visitor.CreateConfigProposalTx(tx)
}

// AssetRef names a governed asset and its position in the instruction's
// account list.
type AssetRef struct {
	Asset ids.ID `serialize:"true" json:"asset"`
	Index uint8  `serialize:"true" json:"index"`
}

// CreateNormalProposalTx proposes running an instruction that uses the listed
// assets. Assets must be strictly sorted by address.
type CreateNormalProposalTx struct {
	BaseTx `serialize:"true"`

	GroupID         ids.ID     `serialize:"true" json:"group"`
	Seed            ids.ID     `serialize:"true" json:"seed"`
	Assets          []AssetRef `serialize:"true" json:"assets"`
	InstructionHash ids.ID     `serialize:"true" json:"instructionHash"`

	TimelockOffset uint32 `serialize:"true" json:"timelockOffset"`
	ExpiryOffset   uint32 `serialize:"true" json:"expiryOffset"`
}

func (tx *CreateNormalProposalTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.GroupID == ids.Empty:
		return ErrNoGroup
	case tx.Seed == ids.Empty:
		return ErrNoSeed
	case tx.InstructionHash == ids.Empty:
		return governance.ErrInvalidInstructionHash
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	// The configured bundle limit is enforced on execution. Here only the
	// index width bounds the list.
	if err := governance.VerifyProposalAssets(tx.ProposalAssets(), math.MaxUint8); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

// ProposalAssets returns fresh, untallied entries for every referenced asset.
func (tx *CreateNormalProposalTx) ProposalAssets() []governance.ProposalAsset {
	assets := make([]governance.ProposalAsset, len(tx.Assets))
	for i, ref := range tx.Assets {
		assets[i] = governance.ProposalAsset{
			Asset: ref.Asset,
			Index: ref.Index,
		}
	}
	return assets
}

func (tx *CreateNormalProposalTx) Visit(visitor Visitor) error {
	return visitor.CreateNormalProposalTx(tx)
}
