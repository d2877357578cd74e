// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the governance engine over JSON-RPC.
package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/mr-tron/base58"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/utils/json"

	utilmetric "github.com/luxfi/govvm/utils/metric"
)

// ServiceName prefixes every method, as in "gov.getGroup".
const ServiceName = "gov"

var (
	errNoTx               = errors.New("no tx provided")
	errAssetIndexTooLarge = errors.New("asset index does not fit in a byte")
	errQueryAPIDisabled   = errors.New("query API is disabled")
)

// Backend is what the service reads from and issues to.
type Backend interface {
	// IssueTx executes a serialized tx and returns its ID.
	IssueTx(ctx context.Context, txBytes []byte) (ids.ID, error)
	// View runs f against the committed state.
	View(f func(state.Chain) error) error
}

// Service is the JSON-RPC surface of the governance engine.
type Service struct {
	log     log.Logger
	backend Backend

	queryAPIEnabled bool
}

// NewHandler returns the JSON-RPC handler serving Service. State reads are
// only served when queryAPIEnabled is set.
func NewHandler(
	logger log.Logger,
	backend Backend,
	queryAPIEnabled bool,
	namespace string,
	registerer metric.Registry,
) (http.Handler, error) {
	interceptor, err := utilmetric.NewAPIInterceptor(namespace, registerer)
	if err != nil {
		return nil, err
	}

	server := rpc.NewServer()
	codec := json2.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(interceptor.InterceptRequest)
	server.RegisterAfterFunc(interceptor.AfterRequest)
	return server, server.RegisterService(
		&Service{
			log:             logger,
			backend:         backend,
			queryAPIEnabled: queryAPIEnabled,
		},
		ServiceName,
	)
}

type IssueTxArgs struct {
	// base58 encoded tx bytes
	Tx string `json:"tx"`
}

type IssueTxReply struct {
	TxID ids.ID `json:"txID"`
}

// IssueTx executes a tx against the current state.
func (s *Service) IssueTx(r *http.Request, args *IssueTxArgs, reply *IssueTxReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "issueTx"),
	)

	if args.Tx == "" {
		return errNoTx
	}
	txBytes, err := base58.Decode(args.Tx)
	if err != nil {
		return fmt.Errorf("problem decoding tx: %w", err)
	}
	reply.TxID, err = s.backend.IssueTx(r.Context(), txBytes)
	return err
}

type TallyReply struct {
	VoteCount     json.Uint32 `json:"voteCount"`
	ForWeight     json.Uint64 `json:"forWeight"`
	AgainstWeight json.Uint64 `json:"againstWeight"`
}

func newTallyReply(t governance.Tally) TallyReply {
	return TallyReply{
		VoteCount:     json.Uint32(t.VoteCount),
		ForWeight:     json.Uint64(t.ForWeight),
		AgainstWeight: json.Uint64(t.AgainstWeight),
	}
}

type CountsReply struct {
	MemberCount        json.Uint32 `json:"memberCount"`
	MinimumMemberCount json.Uint32 `json:"minimumMemberCount"`
	MinimumVoteCount   json.Uint32 `json:"minimumVoteCount"`
}

func newCountsReply(c governance.MemberCounts) CountsReply {
	return CountsReply{
		MemberCount:        json.Uint32(c.MemberCount),
		MinimumMemberCount: json.Uint32(c.MinimumMemberCount),
		MinimumVoteCount:   json.Uint32(c.MinimumVoteCount),
	}
}

type GetGroupArgs struct {
	GroupID ids.ID `json:"groupID"`
}

type GetGroupReply struct {
	Seed                    ids.ID                `json:"seed"`
	RentCollector           ids.ShortID           `json:"rentCollector"`
	Thresholds              governance.Thresholds `json:"thresholds"`
	Counts                  CountsReply           `json:"counts"`
	MaxMemberWeight         json.Uint32           `json:"maxMemberWeight"`
	NextProposalIndex       json.Uint64           `json:"nextProposalIndex"`
	ProposalIndexAfterStale json.Uint64           `json:"proposalIndexAfterStale"`
	DefaultTimelockOffset   json.Int64            `json:"defaultTimelockOffset"`
	DefaultExpiryOffset     json.Int64            `json:"defaultExpiryOffset"`
}

func (s *Service) GetGroup(_ *http.Request, args *GetGroupArgs, reply *GetGroupReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getGroup"),
		log.Stringer("groupID", args.GroupID),
	)

	return s.view(func(chain state.Chain) error {
		group, err := chain.GetGroup(args.GroupID)
		if err != nil {
			return notFound(err, governance.ErrGroupNotFound, args.GroupID)
		}
		*reply = GetGroupReply{
			Seed:                    group.Seed,
			RentCollector:           group.RentCollector,
			Thresholds:              group.Thresholds,
			Counts:                  newCountsReply(group.MemberCounts),
			MaxMemberWeight:         json.Uint32(group.MaxMemberWeight),
			NextProposalIndex:       json.Uint64(group.NextProposalIndex),
			ProposalIndexAfterStale: json.Uint64(group.ProposalIndexAfterStale),
			DefaultTimelockOffset:   json.Int64(group.DefaultTimelockOffset),
			DefaultExpiryOffset:     json.Int64(group.DefaultExpiryOffset),
		}
		return nil
	})
}

type GetAssetArgs struct {
	GroupID ids.ID `json:"groupID"`
	Address ids.ID `json:"address"`
}

type GetAssetReply struct {
	Use        string                `json:"use"`
	NotUse     string                `json:"notUse"`
	Thresholds governance.Thresholds `json:"thresholds"`
	Counts     CountsReply           `json:"counts"`
	// Authority is the identity the instruction runtime accepts as acting
	// for this asset.
	Authority ids.ID `json:"authority"`
}

func (s *Service) GetAsset(_ *http.Request, args *GetAssetArgs, reply *GetAssetReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getAsset"),
		log.Stringer("address", args.Address),
	)

	return s.view(func(chain state.Chain) error {
		asset, err := chain.GetAsset(args.GroupID, args.Address)
		if err != nil {
			return notFound(err, governance.ErrAssetNotFound, args.Address)
		}
		*reply = GetAssetReply{
			Use:        asset.Use.String(),
			NotUse:     asset.NotUse.String(),
			Thresholds: asset.Thresholds,
			Counts:     newCountsReply(asset.MemberCounts),
			Authority:  state.AuthorityID(args.GroupID, args.Address),
		}
		return nil
	})
}

type GetMemberArgs struct {
	GroupID ids.ID      `json:"groupID"`
	User    ids.ShortID `json:"user"`
	// Only read by GetAssetMember
	Asset ids.ID `json:"asset"`
}

type GetMemberReply struct {
	Permissions string      `json:"permissions"`
	Weight      json.Uint32 `json:"weight"`
}

func (s *Service) GetGroupMember(_ *http.Request, args *GetMemberArgs, reply *GetMemberReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getGroupMember"),
		log.Stringer("user", args.User),
	)

	return s.view(func(chain state.Chain) error {
		member, err := chain.GetGroupMember(args.GroupID, args.User)
		if err != nil {
			return notFound(err, governance.ErrMemberNotFound, args.User)
		}
		reply.Permissions = member.Permissions.String()
		reply.Weight = json.Uint32(member.Weight)
		return nil
	})
}

func (s *Service) GetAssetMember(_ *http.Request, args *GetMemberArgs, reply *GetMemberReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getAssetMember"),
		log.Stringer("asset", args.Asset),
		log.Stringer("user", args.User),
	)

	return s.view(func(chain state.Chain) error {
		member, err := chain.GetAssetMember(args.GroupID, args.Asset, args.User)
		if err != nil {
			return notFound(err, governance.ErrMemberNotFound, args.User)
		}
		reply.Permissions = member.Permissions.String()
		reply.Weight = json.Uint32(member.Weight)
		return nil
	})
}

type GetProposalArgs struct {
	ProposalID ids.ID `json:"proposalID"`
}

type ProposalReply struct {
	Proposer  ids.ShortID `json:"proposer"`
	Seed      ids.ID      `json:"seed"`
	Group     ids.ID      `json:"group"`
	CreatedAt json.Int64  `json:"createdAt"`
	ValidFrom json.Int64  `json:"validFrom"`
	ExpiresAt json.Int64  `json:"expiresAt"`
	Index     json.Uint64 `json:"index"`
	State     string      `json:"state"`
}

func newProposalReply(p governance.Proposal) ProposalReply {
	return ProposalReply{
		Proposer:  p.Proposer,
		Seed:      p.Seed,
		Group:     p.Group,
		CreatedAt: json.Int64(p.CreatedAt),
		ValidFrom: json.Int64(p.ValidFrom),
		ExpiresAt: json.Int64(p.ExpiresAt),
		Index:     json.Uint64(p.Index),
		State:     p.State.String(),
	}
}

type GetConfigProposalReply struct {
	Proposal    ProposalReply           `json:"proposal"`
	Tally       TallyReply              `json:"tally"`
	TargetKind  string                  `json:"targetKind"`
	TargetAsset ids.ID                  `json:"targetAsset"`
	Action      string                  `json:"action"`
	Change      governance.ConfigChange `json:"change"`
}

func (s *Service) GetConfigProposal(_ *http.Request, args *GetProposalArgs, reply *GetConfigProposalReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getConfigProposal"),
		log.Stringer("proposalID", args.ProposalID),
	)

	return s.view(func(chain state.Chain) error {
		proposal, err := chain.GetConfigProposal(args.ProposalID)
		if err != nil {
			return notFound(err, governance.ErrProposalNotFound, args.ProposalID)
		}
		*reply = GetConfigProposalReply{
			Proposal:    newProposalReply(proposal.Proposal),
			Tally:       newTallyReply(proposal.Tally),
			TargetKind:  proposal.Target.Kind.String(),
			TargetAsset: proposal.Target.Asset,
			Action:      proposal.Change.Action().String(),
			Change:      proposal.Change,
		}
		return nil
	})
}

type ProposalAssetReply struct {
	Asset          ids.ID      `json:"asset"`
	Index          json.Uint32 `json:"index"`
	Tally          TallyReply  `json:"tally"`
	ThresholdState string      `json:"thresholdState"`
}

type GetNormalProposalReply struct {
	Proposal          ProposalReply        `json:"proposal"`
	Assets            []ProposalAssetReply `json:"assets"`
	PassedAssetsCount json.Uint32          `json:"passedAssetsCount"`
	InstructionHash   ids.ID               `json:"instructionHash"`
}

func (s *Service) GetNormalProposal(_ *http.Request, args *GetProposalArgs, reply *GetNormalProposalReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getNormalProposal"),
		log.Stringer("proposalID", args.ProposalID),
	)

	return s.view(func(chain state.Chain) error {
		proposal, err := chain.GetNormalProposal(args.ProposalID)
		if err != nil {
			return notFound(err, governance.ErrProposalNotFound, args.ProposalID)
		}
		assets := make([]ProposalAssetReply, len(proposal.Assets))
		for i, asset := range proposal.Assets {
			assets[i] = ProposalAssetReply{
				Asset:          asset.Asset,
				Index:          json.Uint32(asset.Index),
				Tally:          newTallyReply(asset.Tally),
				ThresholdState: asset.ThresholdState.String(),
			}
		}
		*reply = GetNormalProposalReply{
			Proposal:          newProposalReply(proposal.Proposal),
			Assets:            assets,
			PassedAssetsCount: json.Uint32(proposal.PassedAssetsCount),
			InstructionHash:   proposal.InstructionHash,
		}
		return nil
	})
}

type GetVoteRecordArgs struct {
	ProposalID ids.ID      `json:"proposalID"`
	Voter      ids.ShortID `json:"voter"`
	// Set for a vote on one asset of a normal proposal
	AssetIndex *json.Uint32 `json:"assetIndex,omitempty"`
}

type GetVoteRecordReply struct {
	Choice        string      `json:"choice"`
	ProposalIndex json.Uint64 `json:"proposalIndex"`
}

func (s *Service) GetVoteRecord(_ *http.Request, args *GetVoteRecordArgs, reply *GetVoteRecordReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getVoteRecord"),
		log.Stringer("proposalID", args.ProposalID),
		log.Stringer("voter", args.Voter),
	)

	recordID := state.VoteRecordID(args.ProposalID, args.Voter)
	if args.AssetIndex != nil {
		if *args.AssetIndex > math.MaxUint8 {
			return fmt.Errorf("%w: %d", errAssetIndexTooLarge, *args.AssetIndex)
		}
		recordID = state.AssetVoteRecordID(args.ProposalID, args.Voter, uint8(*args.AssetIndex))
	}
	return s.view(func(chain state.Chain) error {
		record, err := chain.GetVoteRecord(recordID)
		if err != nil {
			return notFound(err, governance.ErrVoteRecordNotFound, recordID)
		}
		reply.Choice = record.Choice.String()
		reply.ProposalIndex = json.Uint64(record.ProposalIndex)
		return nil
	})
}

type GetProposalTransactionReply struct {
	ProposalIndex json.Uint64   `json:"proposalIndex"`
	ValidFrom     json.Int64    `json:"validFrom"`
	AssetIndices  []json.Uint32 `json:"assetIndices"`
	ProgramID     ids.ID        `json:"programID"`
	// base58 encoded canonical instruction bytes
	Instruction string `json:"instruction"`
}

func (s *Service) GetProposalTransaction(_ *http.Request, args *GetProposalArgs, reply *GetProposalTransactionReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getProposalTransaction"),
		log.Stringer("proposalID", args.ProposalID),
	)

	return s.view(func(chain state.Chain) error {
		staged, err := chain.GetProposalTransaction(args.ProposalID)
		if err != nil {
			return notFound(err, governance.ErrTransactionNotFound, args.ProposalID)
		}
		instructionBytes, err := staged.Instruction.Bytes()
		if err != nil {
			return err
		}
		assetIndices := make([]json.Uint32, len(staged.AssetIndices))
		for i, index := range staged.AssetIndices {
			assetIndices[i] = json.Uint32(index)
		}
		*reply = GetProposalTransactionReply{
			ProposalIndex: json.Uint64(staged.ProposalIndex),
			ValidFrom:     json.Int64(staged.ValidFrom),
			AssetIndices:  assetIndices,
			ProgramID:     staged.Instruction.ProgramID,
			Instruction:   base58.Encode(instructionBytes),
		}
		return nil
	})
}

type GetAddressesArgs struct {
	GroupSeed    ids.ID   `json:"groupSeed"`
	ProposalSeed ids.ID   `json:"proposalSeed"`
	Assets       []ids.ID `json:"assets"`
}

type GetAddressesReply struct {
	GroupID     ids.ID   `json:"groupID"`
	ProposalID  ids.ID   `json:"proposalID"`
	Authorities []ids.ID `json:"authorities"`
}

// GetAddresses derives the identities a client needs before issuing txs. It
// reads no state.
func (s *Service) GetAddresses(_ *http.Request, args *GetAddressesArgs, reply *GetAddressesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getAddresses"),
	)

	reply.GroupID = state.GroupID(args.GroupSeed)
	if args.ProposalSeed != ids.Empty {
		reply.ProposalID = state.ProposalID(reply.GroupID, args.ProposalSeed)
	}
	reply.Authorities = make([]ids.ID, len(args.Assets))
	for i, asset := range args.Assets {
		reply.Authorities[i] = state.AuthorityID(reply.GroupID, asset)
	}
	return nil
}

func (s *Service) view(f func(state.Chain) error) error {
	if !s.queryAPIEnabled {
		return errQueryAPIDisabled
	}
	return s.backend.View(f)
}

func notFound(err error, sentinel error, key fmt.Stringer) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, key)
	}
	return err
}
