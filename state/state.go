// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists groups, assets, members, proposals, vote records and
// staged instructions. Every command runs against a version layer that is
// either committed or aborted as a whole.
package state

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/govvm/governance"
)

var (
	_ State = (*state)(nil)

	groupPrefix               = []byte("group")
	assetPrefix               = []byte("asset")
	groupMemberPrefix         = []byte("group_member")
	assetMemberPrefix         = []byte("asset_member")
	configProposalPrefix      = []byte("config_proposal")
	normalProposalPrefix      = []byte("normal_proposal")
	voteRecordPrefix          = []byte("vote_record")
	proposalTransactionPrefix = []byte("proposal_transaction")
)

// Chain is the read/write view the executor works against.
type Chain interface {
	GetGroup(groupID ids.ID) (*governance.Group, error)
	PutGroup(groupID ids.ID, group *governance.Group) error

	GetAsset(groupID, address ids.ID) (*governance.Asset, error)
	PutAsset(asset *governance.Asset) error

	GetGroupMember(groupID ids.ID, user ids.ShortID) (*governance.GroupMember, error)
	PutGroupMember(member *governance.GroupMember) error
	DeleteGroupMember(groupID ids.ID, user ids.ShortID) error

	GetAssetMember(groupID, asset ids.ID, user ids.ShortID) (*governance.AssetMember, error)
	PutAssetMember(member *governance.AssetMember) error
	DeleteAssetMember(groupID, asset ids.ID, user ids.ShortID) error

	GetConfigProposal(proposalID ids.ID) (*governance.ConfigProposal, error)
	PutConfigProposal(proposalID ids.ID, proposal *governance.ConfigProposal) error
	DeleteConfigProposal(proposalID ids.ID) error

	GetNormalProposal(proposalID ids.ID) (*governance.NormalProposal, error)
	PutNormalProposal(proposalID ids.ID, proposal *governance.NormalProposal) error
	DeleteNormalProposal(proposalID ids.ID) error

	// GetProposal returns the common fields of either proposal kind.
	GetProposal(proposalID ids.ID) (*governance.Proposal, error)

	GetVoteRecord(recordID ids.ID) (*governance.VoteRecord, error)
	PutVoteRecord(recordID ids.ID, record *governance.VoteRecord) error
	DeleteVoteRecord(recordID ids.ID) error

	GetProposalTransaction(proposalID ids.ID) (*governance.ProposalTransaction, error)
	PutProposalTransaction(transaction *governance.ProposalTransaction) error
	DeleteProposalTransaction(proposalID ids.ID) error
}

type State interface {
	Chain

	// Commit writes every change since the last Commit or Abort to the
	// underlying database.
	Commit() error
	// Abort discards every change since the last Commit or Abort.
	Abort()
	Close() error
}

type entityKind byte

const (
	groupKind entityKind = iota
	assetKind
	groupMemberKind
	assetMemberKind
	configProposalKind
	normalProposalKind
	voteRecordKind
	proposalTransactionKind
)

type cacheKey struct {
	kind entityKind
	id   ids.ID
}

type state struct {
	log   log.Logger
	vdb   *versiondb.Database
	cache *lru.Cache

	groups               database.Database
	assets               database.Database
	groupMembers         database.Database
	assetMembers         database.Database
	configProposals      database.Database
	normalProposals      database.Database
	voteRecords          database.Database
	proposalTransactions database.Database
}

// New returns a State over db caching up to cacheSize decoded entities.
func New(db database.Database, cacheSize int, logger log.Logger) (State, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create state cache: %w", err)
	}
	vdb := versiondb.New(db)
	return &state{
		log:                  logger,
		vdb:                  vdb,
		cache:                cache,
		groups:               prefixdb.New(groupPrefix, vdb),
		assets:               prefixdb.New(assetPrefix, vdb),
		groupMembers:         prefixdb.New(groupMemberPrefix, vdb),
		assetMembers:         prefixdb.New(assetMemberPrefix, vdb),
		configProposals:      prefixdb.New(configProposalPrefix, vdb),
		normalProposals:      prefixdb.New(normalProposalPrefix, vdb),
		voteRecords:          prefixdb.New(voteRecordPrefix, vdb),
		proposalTransactions: prefixdb.New(proposalTransactionPrefix, vdb),
	}, nil
}

func get[T any](s *state, db database.Database, kind entityKind, id ids.ID) (*T, error) {
	key := cacheKey{kind: kind, id: id}
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*T), nil
	}
	b, err := db.Get(id[:])
	if err != nil {
		return nil, err
	}
	v := new(T)
	if _, err := governance.Codec.Unmarshal(b, v); err != nil {
		return nil, fmt.Errorf("failed to parse %T %s: %w", v, id, err)
	}
	s.cache.Add(key, v)
	return v, nil
}

func put[T any](s *state, db database.Database, kind entityKind, id ids.ID, v *T) error {
	b, err := governance.Codec.Marshal(governance.CodecVersion, v)
	if err != nil {
		return fmt.Errorf("failed to serialize %T %s: %w", v, id, err)
	}
	if err := db.Put(id[:], b); err != nil {
		return err
	}
	s.cache.Add(cacheKey{kind: kind, id: id}, v)
	return nil
}

func remove(s *state, db database.Database, kind entityKind, id ids.ID) error {
	s.cache.Remove(cacheKey{kind: kind, id: id})
	return db.Delete(id[:])
}

func (s *state) GetGroup(groupID ids.ID) (*governance.Group, error) {
	return get[governance.Group](s, s.groups, groupKind, groupID)
}

func (s *state) PutGroup(groupID ids.ID, group *governance.Group) error {
	return put(s, s.groups, groupKind, groupID, group)
}

func (s *state) GetAsset(groupID, address ids.ID) (*governance.Asset, error) {
	return get[governance.Asset](s, s.assets, assetKind, AssetID(groupID, address))
}

func (s *state) PutAsset(asset *governance.Asset) error {
	return put(s, s.assets, assetKind, AssetID(asset.Group, asset.Address), asset)
}

func (s *state) GetGroupMember(groupID ids.ID, user ids.ShortID) (*governance.GroupMember, error) {
	return get[governance.GroupMember](s, s.groupMembers, groupMemberKind, GroupMemberID(groupID, user))
}

func (s *state) PutGroupMember(member *governance.GroupMember) error {
	return put(s, s.groupMembers, groupMemberKind, GroupMemberID(member.Group, member.User), member)
}

func (s *state) DeleteGroupMember(groupID ids.ID, user ids.ShortID) error {
	return remove(s, s.groupMembers, groupMemberKind, GroupMemberID(groupID, user))
}

func (s *state) GetAssetMember(groupID, asset ids.ID, user ids.ShortID) (*governance.AssetMember, error) {
	return get[governance.AssetMember](s, s.assetMembers, assetMemberKind, AssetMemberID(groupID, asset, user))
}

func (s *state) PutAssetMember(member *governance.AssetMember) error {
	return put(s, s.assetMembers, assetMemberKind, AssetMemberID(member.Group, member.Asset, member.User), member)
}

func (s *state) DeleteAssetMember(groupID, asset ids.ID, user ids.ShortID) error {
	return remove(s, s.assetMembers, assetMemberKind, AssetMemberID(groupID, asset, user))
}

func (s *state) GetConfigProposal(proposalID ids.ID) (*governance.ConfigProposal, error) {
	return get[governance.ConfigProposal](s, s.configProposals, configProposalKind, proposalID)
}

func (s *state) PutConfigProposal(proposalID ids.ID, proposal *governance.ConfigProposal) error {
	return put(s, s.configProposals, configProposalKind, proposalID, proposal)
}

func (s *state) DeleteConfigProposal(proposalID ids.ID) error {
	return remove(s, s.configProposals, configProposalKind, proposalID)
}

func (s *state) GetNormalProposal(proposalID ids.ID) (*governance.NormalProposal, error) {
	return get[governance.NormalProposal](s, s.normalProposals, normalProposalKind, proposalID)
}

func (s *state) PutNormalProposal(proposalID ids.ID, proposal *governance.NormalProposal) error {
	return put(s, s.normalProposals, normalProposalKind, proposalID, proposal)
}

func (s *state) DeleteNormalProposal(proposalID ids.ID) error {
	return remove(s, s.normalProposals, normalProposalKind, proposalID)
}

func (s *state) GetProposal(proposalID ids.ID) (*governance.Proposal, error) {
	config, err := s.GetConfigProposal(proposalID)
	if err == nil {
		return &config.Proposal, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	normal, err := s.GetNormalProposal(proposalID)
	if err != nil {
		return nil, err
	}
	return &normal.Proposal, nil
}

func (s *state) GetVoteRecord(recordID ids.ID) (*governance.VoteRecord, error) {
	return get[governance.VoteRecord](s, s.voteRecords, voteRecordKind, recordID)
}

func (s *state) PutVoteRecord(recordID ids.ID, record *governance.VoteRecord) error {
	return put(s, s.voteRecords, voteRecordKind, recordID, record)
}

func (s *state) DeleteVoteRecord(recordID ids.ID) error {
	return remove(s, s.voteRecords, voteRecordKind, recordID)
}

func (s *state) GetProposalTransaction(proposalID ids.ID) (*governance.ProposalTransaction, error) {
	return get[governance.ProposalTransaction](s, s.proposalTransactions, proposalTransactionKind, ProposalTransactionID(proposalID))
}

func (s *state) PutProposalTransaction(transaction *governance.ProposalTransaction) error {
	return put(s, s.proposalTransactions, proposalTransactionKind, ProposalTransactionID(transaction.Proposal), transaction)
}

func (s *state) DeleteProposalTransaction(proposalID ids.ID) error {
	return remove(s, s.proposalTransactions, proposalTransactionKind, ProposalTransactionID(proposalID))
}

func (s *state) Commit() error {
	return s.vdb.Commit()
}

// Abort drops pending writes. Cached entities may have been mutated in place
// by the aborted command, so the cache is dropped with them.
func (s *state) Abort() {
	s.vdb.Abort()
	s.cache.Purge()
}

func (s *state) Close() error {
	s.cache.Purge()
	if err := s.vdb.Close(); err != nil {
		s.log.Warn("failed to close state", log.Err(err))
		return err
	}
	return nil
}
