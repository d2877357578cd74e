// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/threshold"
)

var (
	_ UnsignedTx = (*CreateGroupTx)(nil)
	_ UnsignedTx = (*AddAssetTx)(nil)
)

// InitialMember is a member seated when a group or asset is created.
type InitialMember struct {
	User        ids.ShortID            `serialize:"true" json:"user"`
	Weight      uint32                 `serialize:"true" json:"weight"`
	Permissions governance.Permissions `serialize:"true" json:"permissions"`
}

// verifyInitialMembers requires exactly size distinct members with non-zero
// weights and valid permissions.
func verifyInitialMembers(members []InitialMember, size int) error {
	if len(members) != size {
		return fmt.Errorf("%w: %d initial members, expected %d", governance.ErrLengthMismatch, len(members), size)
	}
	seen := make(map[ids.ShortID]struct{}, len(members))
	for _, m := range members {
		if m.User == ids.ShortEmpty {
			return governance.ErrInvalidMember
		}
		if _, ok := seen[m.User]; ok {
			return fmt.Errorf("%w: duplicate %s", governance.ErrInvalidMember, m.User)
		}
		seen[m.User] = struct{}{}
		if m.Weight == 0 {
			return fmt.Errorf("%w: %s has no weight", governance.ErrInvalidInitialWeights, m.User)
		}
		if err := m.Permissions.Verify(); err != nil {
			return fmt.Errorf("%w: %w", governance.ErrInvalidInitialPermissions, err)
		}
	}
	return nil
}

// CreateGroupTx creates a group seated with five members.
type CreateGroupTx struct {
	BaseTx `serialize:"true"`

	Seed          ids.ID          `serialize:"true" json:"seed"`
	RentCollector ids.ShortID     `serialize:"true" json:"rentCollector"`
	Members       []InitialMember `serialize:"true" json:"members"`

	Thresholds         governance.Thresholds `serialize:"true" json:"thresholds"`
	MinimumMemberCount uint32                `serialize:"true" json:"minimumMemberCount"`
	MinimumVoteCount   uint32                `serialize:"true" json:"minimumVoteCount"`
	MaxMemberWeight    uint32                `serialize:"true" json:"maxMemberWeight"`

	DefaultTimelockOffset uint32 `serialize:"true" json:"defaultTimelockOffset"`
	DefaultExpiryOffset   uint32 `serialize:"true" json:"defaultExpiryOffset"`
}

func (tx *CreateGroupTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.Seed == ids.Empty:
		return ErrNoSeed
	case tx.RentCollector == ids.ShortEmpty:
		return governance.ErrUnexpectedRentCollector
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := verifyInitialMembers(tx.Members, governance.InitialGroupMembers); err != nil {
		return err
	}
	if err := tx.Group().Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

// Group is the group this tx would create.
func (tx *CreateGroupTx) Group() *governance.Group {
	return &governance.Group{
		Seed:          tx.Seed,
		RentCollector: tx.RentCollector,
		Thresholds:    tx.Thresholds,
		MemberCounts: governance.MemberCounts{
			MemberCount:        uint32(len(tx.Members)),
			MinimumMemberCount: tx.MinimumMemberCount,
			MinimumVoteCount:   tx.MinimumVoteCount,
		},
		MaxMemberWeight:       tx.MaxMemberWeight,
		DefaultTimelockOffset: int64(tx.DefaultTimelockOffset),
		DefaultExpiryOffset:   int64(tx.DefaultExpiryOffset),
	}
}

func (tx *CreateGroupTx) Visit(visitor Visitor) error {
	return visitor.CreateGroupTx(tx)
}

// AddAssetTx puts an asset under group governance, seated with three
// existing group members.
type AddAssetTx struct {
	BaseTx `serialize:"true"`

	GroupID ids.ID          `serialize:"true" json:"group"`
	Address ids.ID          `serialize:"true" json:"address"`
	Members []InitialMember `serialize:"true" json:"members"`

	Use                threshold.Fractional  `serialize:"true" json:"use"`
	NotUse             threshold.Fractional  `serialize:"true" json:"notUse"`
	Thresholds         governance.Thresholds `serialize:"true" json:"thresholds"`
	MinimumMemberCount uint32                `serialize:"true" json:"minimumMemberCount"`
	MinimumVoteCount   uint32                `serialize:"true" json:"minimumVoteCount"`
}

func (tx *AddAssetTx) SyntacticVerify() error {
	switch {
	case tx == nil:
		return ErrNilTx
	case tx.SyntacticallyVerified:
		return nil
	case tx.GroupID == ids.Empty:
		return ErrNoGroup
	case tx.Address == ids.Empty:
		return governance.ErrInvalidAsset
	}
	if err := tx.BaseTx.SyntacticVerify(); err != nil {
		return err
	}
	if err := verifyInitialMembers(tx.Members, governance.InitialAssetMembers); err != nil {
		return err
	}
	if err := tx.Asset().Verify(); err != nil {
		return err
	}
	tx.SyntacticallyVerified = true
	return nil
}

// Asset is the asset this tx would add, before normalization.
func (tx *AddAssetTx) Asset() *governance.Asset {
	return &governance.Asset{
		Group:      tx.GroupID,
		Address:    tx.Address,
		Use:        tx.Use,
		NotUse:     tx.NotUse,
		Thresholds: tx.Thresholds,
		MemberCounts: governance.MemberCounts{
			MemberCount:        uint32(len(tx.Members)),
			MinimumMemberCount: tx.MinimumMemberCount,
			MinimumVoteCount:   tx.MinimumVoteCount,
		},
	}
}

func (tx *AddAssetTx) Visit(visitor Visitor) error {
	return visitor.AddAssetTx(tx)
}
