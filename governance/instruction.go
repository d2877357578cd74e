// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

// AccountMeta is one account referenced by an instruction.
type AccountMeta struct {
	Key        ids.ID `serialize:"true" json:"key"`
	IsWritable bool   `serialize:"true" json:"isWritable"`
	IsSigner   bool   `serialize:"true" json:"isSigner"`
}

// Instruction is the arbitrary call a normal proposal authorizes.
type Instruction struct {
	ProgramID ids.ID        `serialize:"true" json:"programID"`
	Accounts  []AccountMeta `serialize:"true" json:"accounts"`
	Data      []byte        `serialize:"true" json:"data"`
}

// Bytes returns the canonical encoding a proposal's hash commits to.
func (i *Instruction) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, i)
}

// Hash commits to the canonical encoding.
func (i *Instruction) Hash() (ids.ID, error) {
	b, err := i.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	return InstructionHash(b), nil
}

// InstructionHash hashes raw instruction bytes.
func InstructionHash(raw []byte) ids.ID {
	return hash.ComputeHash256Array(raw)
}

// ParseInstruction decodes raw instruction bytes.
func ParseInstruction(raw []byte) (*Instruction, error) {
	ins := &Instruction{}
	if _, err := Codec.Unmarshal(raw, ins); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstructionDeserializationFailed, err)
	}
	return ins, nil
}

// VerifyAssets checks that every bundled asset sits at its declared position
// in the account list.
func (i *Instruction) VerifyAssets(assets []ProposalAsset) error {
	if len(i.Accounts) < len(assets) {
		return fmt.Errorf("%w: %d accounts for %d assets", ErrNotEnoughAccountKeys, len(i.Accounts), len(assets))
	}
	for _, asset := range assets {
		if int(asset.Index) >= len(i.Accounts) {
			return fmt.Errorf("%w: index %d", ErrInvalidAssetIndex, asset.Index)
		}
		if key := i.Accounts[asset.Index].Key; key != asset.Asset {
			return fmt.Errorf("%w: account %d is %s, expected %s", ErrUnexpectedAsset, asset.Index, key, asset.Asset)
		}
	}
	return nil
}

// ProposalTransaction is an instruction staged for execution under a normal
// proposal.
type ProposalTransaction struct {
	Group         ids.ID      `serialize:"true" json:"group"`
	Proposal      ids.ID      `serialize:"true" json:"proposal"`
	ProposalIndex uint64      `serialize:"true" json:"proposalIndex"`
	ValidFrom     int64       `serialize:"true" json:"validFrom"`
	AssetIndices  []uint8     `serialize:"true" json:"assetIndices"`
	Instruction   Instruction `serialize:"true" json:"instruction"`
}

// AuthorityGrant is the capability handed to the instruction runtime: the
// derived authority of one governed asset, valid for a single execution.
type AuthorityGrant struct {
	Group     ids.ID `json:"group"`
	Asset     ids.ID `json:"asset"`
	Authority ids.ID `json:"authority"`
}
