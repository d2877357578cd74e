// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"bytes"
	"fmt"

	"github.com/luxfi/ids"

	safemath "github.com/luxfi/govvm/utils/math"
)

// ThresholdState is how far a single bundled asset has got. It only ever
// leaves NoThresholdReached once.
type ThresholdState uint8

const (
	NoThresholdReached ThresholdState = iota
	UseThresholdReached
	NotUseThresholdReached
)

func (s ThresholdState) String() string {
	switch s {
	case NoThresholdReached:
		return "none"
	case UseThresholdReached:
		return "use"
	case NotUseThresholdReached:
		return "not_use"
	default:
		return "unknown"
	}
}

// ProposalAsset is one governed asset used by a normal proposal's
// instruction. Its tally counts use weight as For and not-use weight as
// Against.
type ProposalAsset struct {
	Asset ids.ID `serialize:"true" json:"asset"`
	// Index is the position of Asset in the instruction's account list.
	Index uint8 `serialize:"true" json:"index"`

	Tally          `serialize:"true" json:"tally"`
	ThresholdState ThresholdState `serialize:"true" json:"thresholdState"`
}

func (a *ProposalAsset) SetThresholdState(s ThresholdState) error {
	if a.ThresholdState != NoThresholdReached {
		return fmt.Errorf("%w: asset %s is %s", ErrStateAlreadyFinalized, a.Asset, a.ThresholdState)
	}
	a.ThresholdState = s
	return nil
}

// NormalProposal authorizes a bundled instruction once every asset it uses
// has independently approved it.
type NormalProposal struct {
	Proposal `serialize:"true" json:"proposal"`

	Assets            []ProposalAsset `serialize:"true" json:"assets"`
	PassedAssetsCount uint8           `serialize:"true" json:"passedAssetsCount"`
	InstructionHash   ids.ID          `serialize:"true" json:"instructionHash"`
}

// VerifyProposalAssets requires between one and maxAssets assets, strictly
// sorted by address.
func VerifyProposalAssets(assets []ProposalAsset, maxAssets int) error {
	switch {
	case len(assets) == 0:
		return ErrNoAssets
	case len(assets) > maxAssets:
		return fmt.Errorf("%w: %d > %d", ErrTooManyAssets, len(assets), maxAssets)
	}
	for i := 1; i < len(assets); i++ {
		if bytes.Compare(assets[i-1].Asset[:], assets[i].Asset[:]) >= 0 {
			return fmt.Errorf("%w: at position %d", ErrAssetsNotSortedOrDuplicate, i)
		}
	}
	return nil
}

// Asset returns the bundled asset at position i of the proposal's list.
func (p *NormalProposal) Asset(i uint8) (*ProposalAsset, error) {
	if int(i) >= len(p.Assets) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidAssetIndex, i, len(p.Assets))
	}
	return &p.Assets[i], nil
}

func (p *NormalProposal) AllAssetsPassed() bool {
	return int(p.PassedAssetsCount) == len(p.Assets)
}

// CheckAndMarkAsset evaluates the tally of asset i against the governed
// asset's use thresholds. An asset reaching its use threshold counts towards
// the all-assets pass; an asset reaching its not-use threshold fails the whole
// proposal.
func (p *NormalProposal) CheckAndMarkAsset(i uint8, governed *Asset) (ThresholdState, error) {
	asset, err := p.Asset(i)
	if err != nil {
		return NoThresholdReached, err
	}
	if asset.ThresholdState != NoThresholdReached || p.State != Open {
		return asset.ThresholdState, nil
	}
	outcome, err := asset.Tally.Evaluate(governed, ActionUse)
	if err != nil {
		return asset.ThresholdState, err
	}
	switch outcome {
	case PassOutcome:
		passed, err := safemath.Add(p.PassedAssetsCount, 1)
		if err != nil {
			return asset.ThresholdState, ErrArithmeticOverflow
		}
		if err := asset.SetThresholdState(UseThresholdReached); err != nil {
			return asset.ThresholdState, err
		}
		p.PassedAssetsCount = passed
		if p.AllAssetsPassed() {
			if err := p.SetState(Passed); err != nil {
				return asset.ThresholdState, err
			}
		}
	case FailOutcome:
		if err := asset.SetThresholdState(NotUseThresholdReached); err != nil {
			return asset.ThresholdState, err
		}
		if err := p.SetState(Failed); err != nil {
			return asset.ThresholdState, err
		}
	}
	return asset.ThresholdState, nil
}
