// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/threshold"

	safemath "github.com/luxfi/govvm/utils/math"
)

// InitialGroupMembers is the size of the member set a group is created with.
const InitialGroupMembers = 5

// Group is the top level governed entity. It owns the proposal counter and
// the staleness watermark.
type Group struct {
	Seed          ids.ID      `serialize:"true" json:"seed"`
	RentCollector ids.ShortID `serialize:"true" json:"rentCollector"`

	Thresholds   `serialize:"true" json:"thresholds"`
	MemberCounts `serialize:"true" json:"counts"`

	MaxMemberWeight uint32 `serialize:"true" json:"maxMemberWeight"`

	NextProposalIndex       uint64 `serialize:"true" json:"nextProposalIndex"`
	ProposalIndexAfterStale uint64 `serialize:"true" json:"proposalIndexAfterStale"`

	// Offsets, in seconds, applied to proposals that do not request longer
	// ones.
	DefaultTimelockOffset int64 `serialize:"true" json:"defaultTimelockOffset"`
	DefaultExpiryOffset   int64 `serialize:"true" json:"defaultExpiryOffset"`
}

func (g *Group) Verify() error {
	switch {
	case g.MaxMemberWeight == 0:
		return ErrInvalidMaxMemberWeight
	case g.DefaultTimelockOffset < 0 || g.DefaultExpiryOffset <= 0:
		return fmt.Errorf("%w: timelock %d, expiry %d",
			ErrInvalidTimeOffset, g.DefaultTimelockOffset, g.DefaultExpiryOffset)
	}
	if err := g.Thresholds.Verify(); err != nil {
		return err
	}
	return g.MemberCounts.Verify()
}

// ClampWeight caps a requested member weight at MaxMemberWeight.
func (g *Group) ClampWeight(weight uint32) uint32 {
	return min(weight, g.MaxMemberWeight)
}

// SetThreshold replaces one of the six group thresholds. Group thresholds are
// not normalized against their partner.
func (g *Group) SetThreshold(kind ConfigKind, f threshold.Fractional) error {
	if err := f.Verify(); err != nil {
		return err
	}
	if _, _, ok := g.Thresholds.set(kind, f); !ok {
		return fmt.Errorf("%w: %s on a group", ErrUnexpectedConfigChange, kind)
	}
	return nil
}

// ApplyConfig applies a ChangeConfig payload to the group.
func (g *Group) ApplyConfig(c ConfigType) error {
	if c.Kind.IsCount() {
		return g.MemberCounts.setCount(c.Kind, c.Count)
	}
	return g.SetThreshold(c.Kind, c.Threshold)
}

// GetAndIncrementProposalIndex hands out the next proposal index.
func (g *Group) GetAndIncrementProposalIndex() (uint64, error) {
	current := g.NextProposalIndex
	next, err := safemath.Add(current, 1)
	if err != nil {
		return 0, ErrArithmeticOverflow
	}
	g.NextProposalIndex = next
	return current, nil
}

// UpdateStaleProposalIndex invalidates every proposal created so far. The
// watermark only moves forward and never passes NextProposalIndex.
func (g *Group) UpdateStaleProposalIndex() {
	g.ProposalIndexAfterStale = max(g.ProposalIndexAfterStale, g.NextProposalIndex)
}

// IsStale reports whether a proposal with the given index predates the last
// applied configuration change.
func (g *Group) IsStale(proposalIndex uint64) bool {
	return proposalIndex < g.ProposalIndexAfterStale
}
