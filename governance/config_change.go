// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/ids"
)

var (
	_ ConfigChange = (*AddGroupMember)(nil)
	_ ConfigChange = (*RemoveGroupMember)(nil)
	_ ConfigChange = (*AddAssetMember)(nil)
	_ ConfigChange = (*RemoveAssetMember)(nil)
	_ ConfigChange = (*ChangeGroupConfig)(nil)
	_ ConfigChange = (*ChangeAssetConfig)(nil)
)

// ConfigChange is the payload of a config proposal. The set of
// implementations is closed and registered with the codec in a fixed order.
type ConfigChange interface {
	// Action selects the threshold pair the proposal is tallied against.
	Action() Action
	// Target is the scope the change must be proposed against.
	Target() ProposalTarget
	Verify() error
}

type AddGroupMember struct {
	User        ids.ShortID `serialize:"true" json:"user"`
	Weight      uint32      `serialize:"true" json:"weight"`
	Permissions Permissions `serialize:"true" json:"permissions"`
}

func (*AddGroupMember) Action() Action         { return ActionAddMember }
func (*AddGroupMember) Target() ProposalTarget { return GroupTarget() }

func (c *AddGroupMember) Verify() error {
	return verifyNewMember(c.User, c.Weight, c.Permissions)
}

type RemoveGroupMember struct {
	User ids.ShortID `serialize:"true" json:"user"`
}

func (*RemoveGroupMember) Action() Action         { return ActionRemoveMember }
func (*RemoveGroupMember) Target() ProposalTarget { return GroupTarget() }

func (c *RemoveGroupMember) Verify() error {
	if c.User == ids.ShortEmpty {
		return ErrInvalidMember
	}
	return nil
}

type AddAssetMember struct {
	User        ids.ShortID `serialize:"true" json:"user"`
	Weight      uint32      `serialize:"true" json:"weight"`
	Permissions Permissions `serialize:"true" json:"permissions"`
	Asset       ids.ID      `serialize:"true" json:"asset"`
}

func (*AddAssetMember) Action() Action           { return ActionAddMember }
func (c *AddAssetMember) Target() ProposalTarget { return AssetTarget(c.Asset) }

func (c *AddAssetMember) Verify() error {
	if c.Asset == ids.Empty {
		return ErrInvalidAsset
	}
	return verifyNewMember(c.User, c.Weight, c.Permissions)
}

type RemoveAssetMember struct {
	User  ids.ShortID `serialize:"true" json:"user"`
	Asset ids.ID      `serialize:"true" json:"asset"`
}

func (*RemoveAssetMember) Action() Action           { return ActionRemoveMember }
func (c *RemoveAssetMember) Target() ProposalTarget { return AssetTarget(c.Asset) }

func (c *RemoveAssetMember) Verify() error {
	switch {
	case c.Asset == ids.Empty:
		return ErrInvalidAsset
	case c.User == ids.ShortEmpty:
		return ErrInvalidMember
	default:
		return nil
	}
}

type ChangeGroupConfig struct {
	Config ConfigType `serialize:"true" json:"config"`
}

func (*ChangeGroupConfig) Action() Action         { return ActionChangeConfig }
func (*ChangeGroupConfig) Target() ProposalTarget { return GroupTarget() }

func (c *ChangeGroupConfig) Verify() error {
	if c.Config.Kind == ConfigUse || c.Config.Kind == ConfigNotUse {
		return fmt.Errorf("%w: %s on a group", ErrUnexpectedConfigChange, c.Config.Kind)
	}
	return c.Config.Verify()
}

type ChangeAssetConfig struct {
	Asset  ids.ID     `serialize:"true" json:"asset"`
	Config ConfigType `serialize:"true" json:"config"`
}

func (*ChangeAssetConfig) Action() Action           { return ActionChangeConfig }
func (c *ChangeAssetConfig) Target() ProposalTarget { return AssetTarget(c.Asset) }

func (c *ChangeAssetConfig) Verify() error {
	if c.Asset == ids.Empty {
		return ErrInvalidAsset
	}
	return c.Config.Verify()
}

func verifyNewMember(user ids.ShortID, weight uint32, permissions Permissions) error {
	switch {
	case user == ids.ShortEmpty:
		return ErrInvalidMember
	case weight == 0:
		return fmt.Errorf("%w: zero weight", ErrInvalidMember)
	default:
		return permissions.Verify()
	}
}

// VerifyChangeTarget checks that change may be proposed against target.
func VerifyChangeTarget(target ProposalTarget, change ConfigChange) error {
	if change == nil {
		return fmt.Errorf("%w: missing change", ErrUnexpectedConfigChange)
	}
	if err := target.Verify(); err != nil {
		return err
	}
	if err := change.Verify(); err != nil {
		return err
	}
	changeTarget := change.Target()
	if changeTarget.Kind == target.Kind && changeTarget.Asset != target.Asset {
		return fmt.Errorf("%w: change names %s, proposal targets %s", ErrUnexpectedAsset, changeTarget.Asset, target.Asset)
	}
	if changeTarget != target {
		return fmt.Errorf("%w: %T against %s target", ErrUnexpectedConfigChange, change, target.Kind)
	}
	return nil
}
