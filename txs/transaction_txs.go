// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import "github.com/luxfi/govvm/governance"

var (
	_ UnsignedTx = (*CreateProposalTransactionTx)(nil)
	_ UnsignedTx = (*ExecuteProposalTransactionTx)(nil)
)

// CreateProposalTransactionTx stages the instruction a normal proposal
// committed to. Instruction must hash to the proposal's instruction hash.
type CreateProposalTransactionTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`

	Instruction []byte `serialize:"true" json:"instruction"`
}

func (tx *CreateProposalTransactionTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case len(tx.Instruction) == 0:
		return governance.ErrInstructionDeserializationFailed
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

func (tx *CreateProposalTransactionTx) Visit(visitor Visitor) error {
	return visitor.CreateProposalTransactionTx(tx)
}

// ExecuteProposalTransactionTx runs a staged instruction under the derived
// authority of every asset its proposal bundles.
type ExecuteProposalTransactionTx struct {
	BaseTx      `serialize:"true"`
	ProposalRef `serialize:"true"`
}

func (tx *ExecuteProposalTransactionTx) SyntacticVerify() error {
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

func (tx *ExecuteProposalTransactionTx) Visit(visitor Visitor) error {
	return visitor.ExecuteProposalTransactionTx(tx)
}
