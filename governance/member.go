// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import "github.com/luxfi/ids"

// GroupMember binds a user to a weight and capability set within a group.
type GroupMember struct {
	Group       ids.ID      `serialize:"true" json:"group"`
	User        ids.ShortID `serialize:"true" json:"user"`
	Permissions Permissions `serialize:"true" json:"permissions"`
	Weight      uint32      `serialize:"true" json:"weight"`
}

// NewGroupMember returns a member whose weight is clamped to the group's
// maximum.
func NewGroupMember(group *Group, groupID ids.ID, user ids.ShortID, permissions Permissions, weight uint32) (*GroupMember, error) {
	if err := permissions.Verify(); err != nil {
		return nil, err
	}
	return &GroupMember{
		Group:       groupID,
		User:        user,
		Permissions: permissions,
		Weight:      group.ClampWeight(weight),
	}, nil
}

// AssetMember binds a user to a weight and capability set within an asset.
type AssetMember struct {
	Group       ids.ID      `serialize:"true" json:"group"`
	Asset       ids.ID      `serialize:"true" json:"asset"`
	User        ids.ShortID `serialize:"true" json:"user"`
	Permissions Permissions `serialize:"true" json:"permissions"`
	Weight      uint32      `serialize:"true" json:"weight"`
}

// NewAssetMember returns an asset member whose weight is clamped to the
// owning group's maximum.
func NewAssetMember(group *Group, groupID, asset ids.ID, user ids.ShortID, permissions Permissions, weight uint32) (*AssetMember, error) {
	if err := permissions.Verify(); err != nil {
		return nil, err
	}
	return &AssetMember{
		Group:       groupID,
		Asset:       asset,
		User:        user,
		Permissions: permissions,
		Weight:      group.ClampWeight(weight),
	}, nil
}
