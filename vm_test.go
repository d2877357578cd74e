// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/mr-tron/base58"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luxfi/govvm/api"
	"github.com/luxfi/govvm/config"
	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/threshold"
	"github.com/luxfi/govvm/txs"
	"github.com/luxfi/govvm/utils/metric/metrictest"
)

var genesisTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func frac(n, d uint32) threshold.Fractional {
	return threshold.Fractional{Numerator: n, Denominator: d}
}

type testVM struct {
	*VM
	t        *testing.T
	registry metric.Registry

	groupID ids.ID
	members []ids.ShortID
}

func newTestVM(t *testing.T) *testVM {
	require := require.New(t)

	factory := &Factory{}
	vm, err := factory.New(log.NewNoOpLogger())
	require.NoError(err)
	vm.clock.Set(genesisTime)

	registry := metric.NewRegistry()
	require.NoError(vm.Initialize(context.Background(), memdb.New(), nil, registry))
	t.Cleanup(func() {
		require.NoError(vm.Shutdown(context.Background()))
	})
	return &testVM{
		VM:       vm,
		t:        t,
		registry: registry,
	}
}

func (vm *testVM) issue(unsigned txs.UnsignedTx) error {
	tx, err := txs.NewTx(unsigned)
	require.NoError(vm.t, err)

	txID, err := vm.IssueTx(context.Background(), tx.Bytes())
	require.Equal(vm.t, tx.ID(), txID)
	return err
}

func (vm *testVM) createGroup() {
	members := make([]txs.InitialMember, governance.InitialGroupMembers)
	for i := range members {
		user := ids.GenerateTestShortID()
		vm.members = append(vm.members, user)
		members[i] = txs.InitialMember{
			User:        user,
			Weight:      20,
			Permissions: governance.Propose,
		}
	}
	seed := ids.GenerateTestID()
	require.NoError(vm.t, vm.issue(&txs.CreateGroupTx{
		BaseTx:        txs.BaseTx{Issuer: vm.members[0]},
		Seed:          seed,
		RentCollector: ids.GenerateTestShortID(),
		Members:       members,
		Thresholds: governance.Thresholds{
			AddMember:       frac(1, 2),
			NotAddMember:    frac(1, 3),
			RemoveMember:    frac(2, 3),
			NotRemoveMember: frac(1, 3),
			ChangeConfig:    frac(2, 3),
			NotChangeConfig: frac(1, 3),
		},
		MinimumMemberCount:    3,
		MinimumVoteCount:      2,
		MaxMemberWeight:       100,
		DefaultTimelockOffset: 60,
		DefaultExpiryOffset:   3600,
	}))
	vm.groupID = state.GroupID(seed)
}

func (vm *testVM) group() *governance.Group {
	var group *governance.Group
	require.NoError(vm.t, vm.View(func(chain state.Chain) error {
		var err error
		group, err = chain.GetGroup(vm.groupID)
		return err
	}))
	return group
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		configBytes []byte
		expectedErr error
	}{
		{
			name: "defaults",
		},
		{
			name:        "invalid max proposal assets",
			configBytes: []byte(`{"maxProposalAssets":256}`),
			expectedErr: config.ErrInvalidMaxProposalAssets,
		},
		{
			name:        "invalid cache size",
			configBytes: []byte(`{"stateCacheSize":0}`),
			expectedErr: config.ErrInvalidCacheSize,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			vm := &VM{}
			err := vm.Initialize(context.Background(), memdb.New(), test.configBytes, metric.NewRegistry())
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				require.Equal(Uninitialized, vm.lifecycle)
				return
			}
			require.Equal(Ready, vm.lifecycle)
			require.Equal(config.DefaultConfig(), vm.Config)

			err = vm.Initialize(context.Background(), memdb.New(), nil, metric.NewRegistry())
			require.ErrorIs(err, errAlreadyInitialized)

			require.NoError(vm.Shutdown(context.Background()))
			require.Equal(Stopped, vm.lifecycle)
			require.NoError(vm.Shutdown(context.Background()))
		})
	}
}

func TestIssueTxAfterShutdown(t *testing.T) {
	require := require.New(t)

	vm := &VM{}
	require.NoError(vm.Initialize(context.Background(), memdb.New(), nil, metric.NewRegistry()))
	require.NoError(vm.Shutdown(context.Background()))

	tx, err := txs.NewTx(&txs.CreateGroupTx{BaseTx: txs.BaseTx{Issuer: ids.GenerateTestShortID()}})
	require.NoError(err)
	_, err = vm.IssueTx(context.Background(), tx.Bytes())
	require.ErrorIs(err, errNotReady)

	err = vm.View(func(state.Chain) error { return nil })
	require.ErrorIs(err, errNotReady)
}

func TestIssueTxMalformed(t *testing.T) {
	vm := newTestVM(t)

	_, err := vm.IssueTx(context.Background(), []byte{0xff, 0xff})
	require.Error(t, err)
}

func TestIssueTxRejectedIsNotApplied(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t)
	vm.createGroup()

	outsider := ids.GenerateTestShortID()
	err := vm.issue(&txs.CreateConfigProposalTx{
		BaseTx:  txs.BaseTx{Issuer: outsider},
		GroupID: vm.groupID,
		Seed:    ids.GenerateTestID(),
		Target:  governance.GroupTarget(),
		Change:  &governance.RemoveGroupMember{User: vm.members[4]},
	})
	require.ErrorIs(err, governance.ErrNotGroupMember)
	require.Zero(vm.group().NextProposalIndex)

	require.InDelta(1, vm.counter(Name+"_txs", metric.Labels{
		"tx":     "CreateConfigProposalTx",
		"result": "rejected",
	}), 0)
}

func (vm *testVM) counter(name string, labels metric.Labels) float64 {
	return metrictest.Value(vm.t, vm.registry, name, labels)
}

func TestConfigProposalThroughVM(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t)
	vm.createGroup()

	removed := vm.members[4]
	seed := ids.GenerateTestID()
	require.NoError(vm.issue(&txs.CreateConfigProposalTx{
		BaseTx:  txs.BaseTx{Issuer: vm.members[0]},
		GroupID: vm.groupID,
		Seed:    seed,
		Target:  governance.GroupTarget(),
		Change:  &governance.RemoveGroupMember{User: removed},
	}))
	proposalID := state.ProposalID(vm.groupID, seed)
	ref := txs.ProposalRef{Group: vm.groupID, Proposal: proposalID}

	// The third vote clears the floor of two.
	for _, voter := range vm.members[:3] {
		require.NoError(vm.issue(&txs.VoteConfigTx{
			BaseTx:      txs.BaseTx{Issuer: voter},
			ProposalRef: ref,
			Choice:      governance.For,
		}))
	}

	vm.clock.Advance(time.Minute)
	require.NoError(vm.issue(&txs.RemoveGroupMemberTx{
		ApplyTx: txs.ApplyTx{
			BaseTx:      txs.BaseTx{Issuer: vm.members[0]},
			ProposalRef: ref,
		},
	}))

	group := vm.group()
	require.Equal(uint32(4), group.MemberCount)
	require.Equal(uint64(1), group.ProposalIndexAfterStale)

	require.InDelta(3, vm.counter(Name+"_votes", metric.Labels{"kind": "config"}), 0)
	require.InDelta(1, vm.counter(Name+"_groups_created", nil), 0)
}

func TestLazyExpiryIsCommitted(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t)
	vm.createGroup()

	seed := ids.GenerateTestID()
	require.NoError(vm.issue(&txs.CreateConfigProposalTx{
		BaseTx:  txs.BaseTx{Issuer: vm.members[0]},
		GroupID: vm.groupID,
		Seed:    seed,
		Target:  governance.GroupTarget(),
		Change:  &governance.RemoveGroupMember{User: vm.members[4]},
	}))
	proposalID := state.ProposalID(vm.groupID, seed)

	vm.clock.Advance(2 * time.Hour)
	err := vm.issue(&txs.VoteConfigTx{
		BaseTx:      txs.BaseTx{Issuer: vm.members[1]},
		ProposalRef: txs.ProposalRef{Group: vm.groupID, Proposal: proposalID},
		Choice:      governance.For,
	})
	require.ErrorIs(err, governance.ErrProposalExpired)

	require.NoError(vm.View(func(chain state.Chain) error {
		proposal, err := chain.GetConfigProposal(proposalID)
		if err != nil {
			return err
		}
		require.Equal(governance.Expired, proposal.State)
		require.Zero(proposal.VoteCount)
		return nil
	}))
}

func TestCreateHandlers(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t)
	vm.createGroup()

	handlers, err := vm.CreateHandlers(context.Background())
	require.NoError(err)
	handler, ok := handlers[""]
	require.True(ok)

	member := ids.GenerateTestShortID()
	tx, err := txs.NewTx(&txs.CreateConfigProposalTx{
		BaseTx:  txs.BaseTx{Issuer: vm.members[0]},
		GroupID: vm.groupID,
		Seed:    ids.GenerateTestID(),
		Target:  governance.GroupTarget(),
		Change: &governance.AddGroupMember{
			User:        member,
			Weight:      10,
			Permissions: governance.Propose,
		},
	})
	require.NoError(err)

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  api.ServiceName + ".IssueTx",
		"params":  api.IssueTxArgs{Tx: base58.Encode(tx.Bytes())},
	})
	require.NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(http.StatusOK, rec.Code)

	var response struct {
		Result api.IssueTxReply `json:"result"`
		Error  *json.RawMessage `json:"error"`
	}
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	require.Nil(response.Error)
	require.Equal(tx.ID(), response.Result.TxID)
	require.Equal(uint64(1), vm.group().NextProposalIndex)
}

func TestVersion(t *testing.T) {
	vm := &VM{}
	version, err := vm.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, Version, version)
}
