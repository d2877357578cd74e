// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/state"
)

// lookup replaces a missing-key error with notFound.
func lookup[T any](v *T, err error, notFound error, key fmt.Stringer) (*T, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", notFound, key)
	}
	return v, err
}

// exists reports whether a lookup found its entity.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func getGroup(chain state.Chain, groupID ids.ID) (*governance.Group, error) {
	group, err := chain.GetGroup(groupID)
	return lookup(group, err, governance.ErrGroupNotFound, groupID)
}

func getAsset(chain state.Chain, groupID, address ids.ID) (*governance.Asset, error) {
	asset, err := chain.GetAsset(groupID, address)
	return lookup(asset, err, governance.ErrAssetNotFound, address)
}

func getGroupMember(chain state.Chain, groupID ids.ID, user ids.ShortID) (*governance.GroupMember, error) {
	member, err := chain.GetGroupMember(groupID, user)
	return lookup(member, err, governance.ErrNotGroupMember, user)
}

func getAssetMember(chain state.Chain, groupID, asset ids.ID, user ids.ShortID) (*governance.AssetMember, error) {
	member, err := chain.GetAssetMember(groupID, asset, user)
	return lookup(member, err, governance.ErrNotAssetMember, user)
}

func getConfigProposal(chain state.Chain, ref ids.ID) (*governance.ConfigProposal, error) {
	proposal, err := chain.GetConfigProposal(ref)
	return lookup(proposal, err, governance.ErrProposalNotFound, ref)
}

func getNormalProposal(chain state.Chain, ref ids.ID) (*governance.NormalProposal, error) {
	proposal, err := chain.GetNormalProposal(ref)
	return lookup(proposal, err, governance.ErrProposalNotFound, ref)
}

// verifyProposer requires user to be a group member allowed to propose.
func verifyProposer(chain state.Chain, groupID ids.ID, user ids.ShortID) error {
	member, err := getGroupMember(chain, groupID, user)
	if err != nil {
		return err
	}
	if !member.Permissions.HasPropose() {
		return fmt.Errorf("%w: %s cannot propose", governance.ErrInsufficientPermissions, user)
	}
	return nil
}

// verifyProposalIsNew rejects a seed already used for a proposal in the
// group.
func verifyProposalIsNew(chain state.Chain, proposalID ids.ID) error {
	_, err := chain.GetProposal(proposalID)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: proposal %s", governance.ErrAlreadyExists, proposalID)
	}
	return nil
}

func verifyGroup(want, got ids.ID) error {
	if want != got {
		return fmt.Errorf("%w: expected %s, got %s", governance.ErrUnexpectedGroup, want, got)
	}
	return nil
}
