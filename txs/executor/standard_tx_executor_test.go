// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"testing"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/txs"
)

func TestCreateGroup(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	group := env.group()
	require.Equal(uint32(governance.InitialGroupMembers), group.MemberCount)
	require.Zero(group.NextProposalIndex)
	require.Zero(group.ProposalIndexAfterStale)
	for _, user := range env.members {
		member, err := env.state.GetGroupMember(env.groupID, user)
		require.NoError(err)
		require.Equal(uint32(testWeight), member.Weight)
	}

	// The same seed derives the same group.
	members := make([]txs.InitialMember, governance.InitialGroupMembers)
	for i, user := range env.members {
		members[i] = txs.InitialMember{User: user, Weight: testWeight}
	}
	err := env.execute(&txs.CreateGroupTx{
		BaseTx:                txs.BaseTx{Issuer: env.members[0]},
		Seed:                  group.Seed,
		RentCollector:         group.RentCollector,
		Members:               members,
		Thresholds:            defaultThresholds(),
		MinimumMemberCount:    3,
		MinimumVoteCount:      2,
		MaxMemberWeight:       100,
		DefaultTimelockOffset: testTimelock,
		DefaultExpiryOffset:   testExpiry,
	})
	require.ErrorIs(err, governance.ErrAlreadyExists)
}

func TestAddAsset(t *testing.T) {
	env := newEnvironment(t, nil)

	address := ids.GenerateTestID()
	env.addAsset(address)

	asset, err := env.state.GetAsset(env.groupID, address)
	require.NoError(t, err)
	require.Equal(t, uint32(governance.InitialAssetMembers), asset.MemberCount)
	for _, user := range env.members[:governance.InitialAssetMembers] {
		_, err := env.state.GetAssetMember(env.groupID, address, user)
		require.NoError(t, err)
	}

	outsider := ids.GenerateTestShortID()
	tests := []struct {
		name        string
		issuer      ids.ShortID
		address     ids.ID
		members     []ids.ShortID
		expectedErr error
	}{
		{
			name:        "already governed",
			issuer:      env.members[0],
			address:     address,
			members:     env.members[:3],
			expectedErr: governance.ErrAlreadyExists,
		},
		{
			name:        "issuer outside the group",
			issuer:      outsider,
			address:     ids.GenerateTestID(),
			members:     env.members[:3],
			expectedErr: governance.ErrNotGroupMember,
		},
		{
			name:        "seat outside the group",
			issuer:      env.members[0],
			address:     ids.GenerateTestID(),
			members:     []ids.ShortID{env.members[0], env.members[1], outsider},
			expectedErr: governance.ErrNotGroupMember,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			members := make([]txs.InitialMember, len(tt.members))
			for i, user := range tt.members {
				members[i] = txs.InitialMember{User: user, Weight: testWeight}
			}
			err := env.execute(&txs.AddAssetTx{
				BaseTx:             txs.BaseTx{Issuer: tt.issuer},
				GroupID:            env.groupID,
				Address:            tt.address,
				Members:            members,
				Use:                frac(1, 2),
				NotUse:             frac(1, 3),
				Thresholds:         defaultThresholds(),
				MinimumMemberCount: 1,
				MinimumVoteCount:   1,
			})
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

func TestAddAssetNormalizesThresholds(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	address := ids.GenerateTestID()
	members := make([]txs.InitialMember, governance.InitialAssetMembers)
	for i := range members {
		members[i] = txs.InitialMember{User: env.members[i], Weight: testWeight}
	}
	thresholds := defaultThresholds()
	thresholds.NotAddMember = frac(3, 4)
	require.NoError(env.execute(&txs.AddAssetTx{
		BaseTx:             txs.BaseTx{Issuer: env.members[0]},
		GroupID:            env.groupID,
		Address:            address,
		Members:            members,
		Use:                frac(1, 2),
		NotUse:             frac(2, 3),
		Thresholds:         thresholds,
		MinimumMemberCount: 1,
		MinimumVoteCount:   1,
	}))

	asset, err := env.state.GetAsset(env.groupID, address)
	require.NoError(err)
	require.Equal(frac(1, 2), asset.NotUse)
	require.Equal(frac(1, 2), asset.NotAddMember)
}

func TestConfigProposalPasses(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	newMember := ids.GenerateTestShortID()
	proposalID, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.AddGroupMember{
		User:        newMember,
		Weight:      500,
		Permissions: governance.Propose,
	})
	require.NoError(err)

	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Zero(proposal.Index)
	require.Equal(genesisTime.Unix()+testTimelock, proposal.ValidFrom)
	require.Equal(genesisTime.Unix()+testExpiry, proposal.ExpiresAt)
	require.Equal(uint64(1), env.group().NextProposalIndex)

	// Two votes do not clear a vote floor of two.
	for _, voter := range env.members[:2] {
		require.NoError(env.voteConfig(voter, proposalID, governance.For))
	}
	proposal, err = env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Open, proposal.State)

	require.NoError(env.voteConfig(env.members[2], proposalID, governance.For))
	proposal, err = env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Passed, proposal.State)
	require.Equal(uint32(3), proposal.VoteCount)
	require.Equal(uint64(60), proposal.ForWeight)

	// A finalized proposal takes no more votes.
	err = env.voteConfig(env.members[3], proposalID, governance.Against)
	require.ErrorIs(err, governance.ErrProposalNotOpen)

	err = env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)})
	require.ErrorIs(err, governance.ErrProposalStillTimelocked)

	env.clk.Advance(testTimelock * time.Second)

	err = env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[1], proposalID)})
	require.ErrorIs(err, governance.ErrInvalidProposer)

	err = env.execute(&txs.RemoveGroupMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)})
	require.ErrorIs(err, governance.ErrUnexpectedConfigChange)

	require.NoError(env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)}))

	group := env.group()
	require.Equal(uint32(6), group.MemberCount)
	require.Equal(group.NextProposalIndex, group.ProposalIndexAfterStale)

	member, err := env.state.GetGroupMember(env.groupID, newMember)
	require.NoError(err)
	require.Equal(uint32(100), member.Weight)

	_, err = env.state.GetConfigProposal(proposalID)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestConfigProposalFails(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	proposalID, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.AddGroupMember{
		User:   ids.GenerateTestShortID(),
		Weight: testWeight,
	})
	require.NoError(err)

	// 40/40 against clears the not-add threshold, but not the vote floor.
	require.NoError(env.voteConfig(env.members[0], proposalID, governance.Against))
	require.NoError(env.voteConfig(env.members[1], proposalID, governance.Against))
	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Open, proposal.State)

	require.NoError(env.voteConfig(env.members[2], proposalID, governance.For))
	proposal, err = env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Failed, proposal.State)

	env.clk.Advance(testTimelock * time.Second)
	err = env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)})
	require.ErrorIs(err, governance.ErrProposalNotPassed)
}

func TestRevoteMovesWeight(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	proposalID, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.RemoveGroupMember{
		User: env.members[4],
	})
	require.NoError(err)

	voter := env.members[1]
	require.NoError(env.voteConfig(voter, proposalID, governance.For))
	require.NoError(env.voteConfig(voter, proposalID, governance.For))

	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Tally{VoteCount: 1, ForWeight: testWeight}, proposal.Tally)

	require.NoError(env.voteConfig(voter, proposalID, governance.Against))
	proposal, err = env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Tally{VoteCount: 1, AgainstWeight: testWeight}, proposal.Tally)

	record, err := env.state.GetVoteRecord(state.VoteRecordID(proposalID, voter))
	require.NoError(err)
	require.Equal(voter, record.Voter)
	require.Equal(proposalID, record.Proposal)
	require.Equal(governance.Against, record.Choice)
	require.False(record.HasAssetIndex)
}

func TestStaleProposalsAreRejected(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	applied, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.ChangeGroupConfig{
		Config: governance.NewCountConfig(governance.ConfigMinimumVoteCount, 1),
	})
	require.NoError(err)
	pending, err := env.proposeConfig(env.members[1], governance.GroupTarget(), &governance.AddGroupMember{
		User:   ids.GenerateTestShortID(),
		Weight: testWeight,
	})
	require.NoError(err)

	// Pass both before either is applied.
	for _, voter := range env.members[:3] {
		require.NoError(env.voteConfig(voter, applied, governance.For))
		require.NoError(env.voteConfig(voter, pending, governance.For))
	}

	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.ChangeGroupConfigTx{ApplyTx: env.applyTx(env.members[0], applied)}))

	group := env.group()
	require.Equal(uint32(1), group.MinimumVoteCount)
	require.Equal(uint64(2), group.ProposalIndexAfterStale)

	err = env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[1], pending)})
	require.ErrorIs(err, governance.ErrProposalStale)
	err = env.voteConfig(env.members[4], pending, governance.For)
	require.ErrorIs(err, governance.ErrProposalNotOpen)

	// A proposal opened after the change is unaffected.
	fresh, err := env.proposeConfig(env.members[2], governance.GroupTarget(), &governance.RemoveGroupMember{
		User: env.members[4],
	})
	require.NoError(err)
	require.NoError(env.voteConfig(env.members[0], fresh, governance.For))

	// A stale proposal may be closed whatever its state.
	require.NoError(env.execute(&txs.CloseProposalTx{
		BaseTx:      txs.BaseTx{Issuer: env.members[3]},
		ProposalRef: env.ref(pending),
	}))
	_, err = env.state.GetProposal(pending)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestStaleOpenProposalRejectsVotes(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	applied, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.AddGroupMember{
		User:   ids.GenerateTestShortID(),
		Weight: testWeight,
	})
	require.NoError(err)
	open, err := env.proposeConfig(env.members[1], governance.GroupTarget(), &governance.RemoveGroupMember{
		User: env.members[4],
	})
	require.NoError(err)

	for _, voter := range env.members[:3] {
		require.NoError(env.voteConfig(voter, applied, governance.For))
	}
	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[0], applied)}))

	err = env.voteConfig(env.members[0], open, governance.For)
	require.ErrorIs(err, governance.ErrProposalStale)
}

func TestLazyExpiry(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	proposalID, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.AddGroupMember{
		User:   ids.GenerateTestShortID(),
		Weight: testWeight,
	})
	require.NoError(err)
	require.NoError(env.voteConfig(env.members[0], proposalID, governance.For))

	closeProposal := &txs.CloseProposalTx{
		BaseTx:      txs.BaseTx{Issuer: env.members[1]},
		ProposalRef: env.ref(proposalID),
	}
	closeRecord := &txs.CloseVoteRecordTx{
		BaseTx:      txs.BaseTx{Issuer: env.members[0]},
		ProposalRef: env.ref(proposalID),
		Voter:       env.members[0],
	}
	require.ErrorIs(env.execute(closeProposal), governance.ErrProposalStillActive)
	require.ErrorIs(env.execute(closeRecord), governance.ErrProposalStillActive)

	env.clk.Advance((testExpiry + 1) * time.Second)

	err = env.voteConfig(env.members[1], proposalID, governance.For)
	require.ErrorIs(err, governance.ErrProposalExpired)

	// The transition persists even though the vote failed.
	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Expired, proposal.State)
	require.Equal(uint32(1), proposal.VoteCount)

	err = env.voteConfig(env.members[1], proposalID, governance.For)
	require.ErrorIs(err, governance.ErrProposalNotOpen)

	require.NoError(env.execute(closeRecord))
	_, err = env.state.GetVoteRecord(state.VoteRecordID(proposalID, env.members[0]))
	require.ErrorIs(err, database.ErrNotFound)
	require.ErrorIs(env.execute(closeRecord), governance.ErrVoteRecordNotFound)

	require.NoError(env.execute(closeProposal))
	require.ErrorIs(env.execute(closeProposal), governance.ErrProposalNotFound)
}

func TestCapabilities(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	// Seat a member without any capability.
	powerless := ids.GenerateTestShortID()
	proposalID, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.AddGroupMember{
		User:   powerless,
		Weight: testWeight,
	})
	require.NoError(err)
	for _, voter := range env.members[:3] {
		require.NoError(env.voteConfig(voter, proposalID, governance.For))
	}
	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.AddGroupMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)}))

	_, err = env.proposeConfig(powerless, governance.GroupTarget(), &governance.RemoveGroupMember{
		User: env.members[4],
	})
	require.ErrorIs(err, governance.ErrInsufficientPermissions)

	_, err = env.proposeNormal(powerless, []txs.AssetRef{{Asset: ids.GenerateTestID()}}, ids.GenerateTestID())
	require.ErrorIs(err, governance.ErrInsufficientPermissions)

	members := make([]txs.InitialMember, governance.InitialAssetMembers)
	for i := range members {
		members[i] = txs.InitialMember{User: env.members[i], Weight: testWeight}
	}
	err = env.execute(&txs.AddAssetTx{
		BaseTx:             txs.BaseTx{Issuer: powerless},
		GroupID:            env.groupID,
		Address:            ids.GenerateTestID(),
		Members:            members,
		Use:                frac(1, 2),
		NotUse:             frac(1, 3),
		Thresholds:         defaultThresholds(),
		MinimumMemberCount: 1,
		MinimumVoteCount:   1,
	})
	require.ErrorIs(err, governance.ErrInsufficientPermissions)

	// Capabilities do not gate voting.
	fresh, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.RemoveGroupMember{
		User: env.members[4],
	})
	require.NoError(err)
	require.NoError(env.voteConfig(powerless, fresh, governance.For))

	err = env.voteConfig(ids.GenerateTestShortID(), fresh, governance.For)
	require.ErrorIs(err, governance.ErrNotGroupMember)
}

func TestAssetMembership(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	address := ids.GenerateTestID()
	env.addAsset(address)

	_, err := env.proposeConfig(env.members[0], governance.AssetTarget(ids.GenerateTestID()), &governance.ChangeAssetConfig{
		Asset:  ids.GenerateTestID(),
		Config: governance.NewCountConfig(governance.ConfigMinimumVoteCount, 0),
	})
	require.ErrorIs(err, governance.ErrUnexpectedAsset)

	newcomer := env.members[3]
	proposalID, err := env.proposeConfig(env.members[0], governance.AssetTarget(address), &governance.AddAssetMember{
		User:   newcomer,
		Weight: testWeight,
		Asset:  address,
	})
	require.NoError(err)

	// Only asset members vote on asset scoped changes.
	err = env.voteConfig(newcomer, proposalID, governance.For)
	require.ErrorIs(err, governance.ErrNotAssetMember)

	// The asset floor of one vote is cleared by the second vote.
	require.NoError(env.voteConfig(env.members[0], proposalID, governance.For))
	require.NoError(env.voteConfig(env.members[1], proposalID, governance.For))
	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Passed, proposal.State)

	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.AddAssetMemberTx{ApplyTx: env.applyTx(env.members[0], proposalID)}))

	asset, err := env.state.GetAsset(env.groupID, address)
	require.NoError(err)
	require.Equal(uint32(4), asset.MemberCount)
	_, err = env.state.GetAssetMember(env.groupID, address, newcomer)
	require.NoError(err)

	closeMember := &txs.CloseAssetMemberTx{
		BaseTx:  txs.BaseTx{Issuer: env.members[0]},
		GroupID: env.groupID,
		Asset:   address,
		User:    newcomer,
	}
	require.ErrorIs(env.execute(closeMember), governance.ErrGroupMemberStillActive)

	// Removing the group member orphans their asset seat.
	removal, err := env.proposeConfig(env.members[0], governance.GroupTarget(), &governance.RemoveGroupMember{
		User: newcomer,
	})
	require.NoError(err)
	for _, voter := range env.members[:3] {
		require.NoError(env.voteConfig(voter, removal, governance.For))
	}
	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.RemoveGroupMemberTx{ApplyTx: env.applyTx(env.members[0], removal)}))
	require.Equal(uint32(4), env.group().MemberCount)

	require.NoError(env.execute(closeMember))
	asset, err = env.state.GetAsset(env.groupID, address)
	require.NoError(err)
	require.Equal(uint32(3), asset.MemberCount)
	require.ErrorIs(env.execute(closeMember), governance.ErrMemberNotFound)
}

func TestChangeAssetConfig(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	address := ids.GenerateTestID()
	env.addAsset(address)

	proposalID, err := env.proposeConfig(env.members[1], governance.AssetTarget(address), &governance.ChangeAssetConfig{
		Asset:  address,
		Config: governance.NewThresholdConfig(governance.ConfigNotUse, frac(3, 4)),
	})
	require.NoError(err)
	require.NoError(env.voteConfig(env.members[0], proposalID, governance.For))
	require.NoError(env.voteConfig(env.members[2], proposalID, governance.For))

	env.clk.Advance(testTimelock * time.Second)
	require.NoError(env.execute(&txs.ChangeAssetConfigTx{ApplyTx: env.applyTx(env.members[1], proposalID)}))

	asset, err := env.state.GetAsset(env.groupID, address)
	require.NoError(err)
	require.Equal(frac(1, 2), asset.Use)
	require.Equal(frac(1, 2), asset.NotUse)
	require.Equal(env.group().NextProposalIndex, env.group().ProposalIndexAfterStale)
}

func TestReusedSeedCountsVotesAfresh(t *testing.T) {
	require := require.New(t)
	env := newEnvironment(t, nil)

	seed := ids.GenerateTestID()
	change := &governance.AddGroupMember{
		User:   ids.GenerateTestShortID(),
		Weight: testWeight,
	}
	proposalID, err := env.proposeConfigAt(env.members[0], seed, governance.GroupTarget(), change)
	require.NoError(err)
	require.NoError(env.voteConfig(env.members[0], proposalID, governance.For))
	require.NoError(env.voteConfig(env.members[1], proposalID, governance.Against))

	env.clk.Advance((testExpiry + 1) * time.Second)
	require.ErrorIs(env.voteConfig(env.members[2], proposalID, governance.For), governance.ErrProposalExpired)
	require.NoError(env.execute(&txs.CloseProposalTx{
		BaseTx:      txs.BaseTx{Issuer: env.members[3]},
		ProposalRef: env.ref(proposalID),
	}))

	reusedID, err := env.proposeConfigAt(env.members[0], seed, governance.GroupTarget(), change)
	require.NoError(err)
	require.Equal(proposalID, reusedID)

	// A record left by the closed proposal may be closed while its
	// successor is open.
	require.NoError(env.execute(&txs.CloseVoteRecordTx{
		BaseTx:      txs.BaseTx{Issuer: env.members[1]},
		ProposalRef: env.ref(proposalID),
		Voter:       env.members[1],
	}))

	for _, voter := range env.members[:3] {
		require.NoError(env.voteConfig(voter, proposalID, governance.For))
	}
	proposal, err := env.state.GetConfigProposal(proposalID)
	require.NoError(err)
	require.Equal(governance.Passed, proposal.State)
	require.Equal(uint32(3), proposal.VoteCount)
	require.Equal(uint64(3*testWeight), proposal.ForWeight)
	require.Zero(proposal.AgainstWeight)

	record, err := env.state.GetVoteRecord(state.VoteRecordID(proposalID, env.members[0]))
	require.NoError(err)
	require.Equal(proposal.Index, record.ProposalIndex)
}
