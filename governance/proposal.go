// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"
	"math"

	"github.com/luxfi/ids"
)

// State is the lifecycle position of a proposal. Every state other than Open
// is absorbing.
type State uint8

const (
	Open State = iota
	Passed
	Failed
	Expired
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Proposal holds the fields shared by config and normal proposals.
type Proposal struct {
	Proposer ids.ShortID `serialize:"true" json:"proposer"`
	Seed     ids.ID      `serialize:"true" json:"seed"`
	Group    ids.ID      `serialize:"true" json:"group"`

	// Unix seconds
	CreatedAt int64 `serialize:"true" json:"createdAt"`
	ValidFrom int64 `serialize:"true" json:"validFrom"`
	ExpiresAt int64 `serialize:"true" json:"expiresAt"`

	Index uint64 `serialize:"true" json:"index"`
	State State  `serialize:"true" json:"state"`
}

// NewProposal opens a proposal at now. The timelock is never shorter than the
// group default and a zero expiry offset selects the group default.
func NewProposal(
	group *Group,
	groupID ids.ID,
	proposer ids.ShortID,
	seed ids.ID,
	index uint64,
	now int64,
	timelockOffset uint32,
	expiryOffset uint32,
) (Proposal, error) {
	timelock := max(int64(timelockOffset), group.DefaultTimelockOffset)
	expiry := int64(expiryOffset)
	if expiry == 0 {
		expiry = group.DefaultExpiryOffset
	}
	validFrom, err := addSeconds(now, timelock)
	if err != nil {
		return Proposal{}, err
	}
	expiresAt, err := addSeconds(now, expiry)
	if err != nil {
		return Proposal{}, err
	}
	return Proposal{
		Proposer:  proposer,
		Seed:      seed,
		Group:     groupID,
		CreatedAt: now,
		ValidFrom: validFrom,
		ExpiresAt: expiresAt,
		Index:     index,
		State:     Open,
	}, nil
}

func addSeconds(now, offset int64) (int64, error) {
	if offset > 0 && now > math.MaxInt64-offset {
		return 0, ErrArithmeticOverflow
	}
	return now + offset, nil
}

// SetState moves an open proposal into s.
func (p *Proposal) SetState(s State) error {
	if p.State != Open {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStateTransition, p.State, s)
	}
	p.State = s
	return nil
}

// IsExpired reports whether voting has closed at now.
func (p *Proposal) IsExpired(now int64) bool {
	return now > p.ExpiresAt
}

// TimelockElapsed reports whether a passed proposal may be acted on at now.
func (p *Proposal) TimelockElapsed(now int64) bool {
	return now >= p.ValidFrom
}

// TargetKind is the scope of a config proposal.
type TargetKind uint8

const (
	TargetGroup TargetKind = iota
	TargetAsset
)

func (k TargetKind) String() string {
	switch k {
	case TargetGroup:
		return "group"
	case TargetAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// ProposalTarget is either the group itself or one of its assets.
type ProposalTarget struct {
	Kind  TargetKind `serialize:"true" json:"kind"`
	Asset ids.ID     `serialize:"true" json:"asset"`
}

func GroupTarget() ProposalTarget {
	return ProposalTarget{Kind: TargetGroup}
}

func AssetTarget(asset ids.ID) ProposalTarget {
	return ProposalTarget{Kind: TargetAsset, Asset: asset}
}

func (t ProposalTarget) Verify() error {
	switch t.Kind {
	case TargetGroup:
		if t.Asset != ids.Empty {
			return fmt.Errorf("%w: group target names asset %s", ErrUnexpectedAsset, t.Asset)
		}
		return nil
	case TargetAsset:
		if t.Asset == ids.Empty {
			return fmt.Errorf("%w: asset target without an asset", ErrInvalidAsset)
		}
		return nil
	default:
		return fmt.Errorf("%w: target kind %d", ErrUnexpectedConfigChange, t.Kind)
	}
}
