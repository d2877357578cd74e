// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/govvm/config"
	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/metrics"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/threshold"
	"github.com/luxfi/govvm/txs"
	"github.com/luxfi/govvm/utils/timer/mockable"
)

const (
	testWeight   = 20
	testTimelock = 60
	testExpiry   = 3600
)

var genesisTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type environment struct {
	t       *testing.T
	clk     *mockable.Clock
	state   state.State
	backend *Backend

	groupID ids.ID
	members []ids.ShortID
}

func frac(n, d uint32) threshold.Fractional {
	return threshold.Fractional{Numerator: n, Denominator: d}
}

func defaultThresholds() governance.Thresholds {
	return governance.Thresholds{
		AddMember:       frac(1, 2),
		NotAddMember:    frac(1, 3),
		RemoveMember:    frac(2, 3),
		NotRemoveMember: frac(1, 3),
		ChangeConfig:    frac(2, 3),
		NotChangeConfig: frac(1, 3),
	}
}

// newEnvironment returns a fresh state holding one five member group. Every
// member may propose and add assets.
func newEnvironment(t *testing.T, runtime Runtime) *environment {
	require := require.New(t)

	clk := &mockable.Clock{}
	clk.Set(genesisTime)

	s, err := state.New(memdb.New(), 1024, log.NewNoOpLogger())
	require.NoError(err)

	cfg := config.DefaultConfig()
	if runtime == nil {
		runtime = NewLogRuntime(log.NewNoOpLogger())
	}
	env := &environment{
		t:     t,
		clk:   clk,
		state: s,
		backend: &Backend{
			Config:  &cfg,
			Clk:     clk,
			Log:     log.NewNoOpLogger(),
			Metrics: metrics.NewNoOp(),
			Runtime: runtime,
		},
	}

	members := make([]txs.InitialMember, governance.InitialGroupMembers)
	for i := range members {
		user := ids.GenerateTestShortID()
		env.members = append(env.members, user)
		members[i] = txs.InitialMember{
			User:        user,
			Weight:      testWeight,
			Permissions: governance.Propose | governance.AddAsset,
		}
	}
	seed := ids.GenerateTestID()
	require.NoError(env.execute(&txs.CreateGroupTx{
		BaseTx:                txs.BaseTx{Issuer: env.members[0]},
		Seed:                  seed,
		RentCollector:         ids.GenerateTestShortID(),
		Members:               members,
		Thresholds:            defaultThresholds(),
		MinimumMemberCount:    3,
		MinimumVoteCount:      2,
		MaxMemberWeight:       100,
		DefaultTimelockOffset: testTimelock,
		DefaultExpiryOffset:   testExpiry,
	}))
	env.groupID = state.GroupID(seed)
	return env
}

// execute runs unsigned against the state, committing on success and on the
// lazy expiry transition.
func (env *environment) execute(unsigned txs.UnsignedTx) error {
	tx, err := txs.NewTx(unsigned)
	require.NoError(env.t, err)

	err = tx.Unsigned.Visit(&StandardTxExecutor{
		Backend: env.backend,
		Ctx:     context.Background(),
		State:   env.state,
		Tx:      tx,
	})
	if err == nil || errors.Is(err, governance.ErrProposalExpired) {
		require.NoError(env.t, env.state.Commit())
		return err
	}
	env.state.Abort()
	return err
}

func (env *environment) group() *governance.Group {
	group, err := env.state.GetGroup(env.groupID)
	require.NoError(env.t, err)
	return group
}

// addAsset governs a new asset seated with the first three group members.
func (env *environment) addAsset(address ids.ID) {
	members := make([]txs.InitialMember, governance.InitialAssetMembers)
	for i := range members {
		members[i] = txs.InitialMember{
			User:        env.members[i],
			Weight:      testWeight,
			Permissions: governance.Propose,
		}
	}
	require.NoError(env.t, env.execute(&txs.AddAssetTx{
		BaseTx:             txs.BaseTx{Issuer: env.members[0]},
		GroupID:            env.groupID,
		Address:            address,
		Members:            members,
		Use:                frac(1, 2),
		NotUse:             frac(1, 3),
		Thresholds:         defaultThresholds(),
		MinimumMemberCount: 1,
		MinimumVoteCount:   1,
	}))
}

func (env *environment) proposeConfig(proposer ids.ShortID, target governance.ProposalTarget, change governance.ConfigChange) (ids.ID, error) {
	return env.proposeConfigAt(proposer, ids.GenerateTestID(), target, change)
}

func (env *environment) proposeConfigAt(proposer ids.ShortID, seed ids.ID, target governance.ProposalTarget, change governance.ConfigChange) (ids.ID, error) {
	err := env.execute(&txs.CreateConfigProposalTx{
		BaseTx:  txs.BaseTx{Issuer: proposer},
		GroupID: env.groupID,
		Seed:    seed,
		Target:  target,
		Change:  change,
	})
	return state.ProposalID(env.groupID, seed), err
}

func (env *environment) proposeNormal(proposer ids.ShortID, assets []txs.AssetRef, instructionHash ids.ID) (ids.ID, error) {
	return env.proposeNormalAt(proposer, ids.GenerateTestID(), assets, instructionHash)
}

func (env *environment) proposeNormalAt(proposer ids.ShortID, seed ids.ID, assets []txs.AssetRef, instructionHash ids.ID) (ids.ID, error) {
	err := env.execute(&txs.CreateNormalProposalTx{
		BaseTx:          txs.BaseTx{Issuer: proposer},
		GroupID:         env.groupID,
		Seed:            seed,
		Assets:          assets,
		InstructionHash: instructionHash,
	})
	return state.ProposalID(env.groupID, seed), err
}

func (env *environment) voteConfig(voter ids.ShortID, proposalID ids.ID, choice governance.Choice) error {
	return env.execute(&txs.VoteConfigTx{
		BaseTx:      txs.BaseTx{Issuer: voter},
		ProposalRef: txs.ProposalRef{Group: env.groupID, Proposal: proposalID},
		Choice:      choice,
	})
}

func (env *environment) voteNormal(voter ids.ShortID, proposalID ids.ID, assetIndex uint8, choice governance.Choice) error {
	return env.execute(&txs.VoteNormalTx{
		BaseTx:      txs.BaseTx{Issuer: voter},
		ProposalRef: txs.ProposalRef{Group: env.groupID, Proposal: proposalID},
		AssetIndex:  assetIndex,
		Choice:      choice,
	})
}

func (env *environment) ref(proposalID ids.ID) txs.ProposalRef {
	return txs.ProposalRef{Group: env.groupID, Proposal: proposalID}
}

func (env *environment) applyTx(issuer ids.ShortID, proposalID ids.ID) txs.ApplyTx {
	return txs.ApplyTx{
		BaseTx:      txs.BaseTx{Issuer: issuer},
		ProposalRef: env.ref(proposalID),
	}
}

// sortedAddresses returns n fresh asset addresses in ascending byte order.
func sortedAddresses(n int) []ids.ID {
	addresses := make([]ids.ID, n)
	for i := range addresses {
		addresses[i] = ids.GenerateTestID()
	}
	slices.SortFunc(addresses, func(a, b ids.ID) int {
		return bytes.Compare(a[:], b[:])
	})
	return addresses
}
