// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/state"
	"github.com/luxfi/govvm/txs"
)

var _ txs.Visitor = (*StandardTxExecutor)(nil)

// StandardTxExecutor applies a single command to State. On error the caller
// must discard State's pending writes, except after ErrProposalExpired whose
// transition is meant to persist.
type StandardTxExecutor struct {
	// inputs, to be filled before visitor methods are called
	*Backend
	Ctx   context.Context
	State state.Chain
	Tx    *txs.Tx
}

func (e *StandardTxExecutor) CreateGroupTx(tx *txs.CreateGroupTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	groupID := state.GroupID(tx.Seed)
	_, err := e.State.GetGroup(groupID)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: group %s", governance.ErrAlreadyExists, groupID)
	}

	group := tx.Group()
	if err := e.State.PutGroup(groupID, group); err != nil {
		return err
	}
	for _, m := range tx.Members {
		member, err := governance.NewGroupMember(group, groupID, m.User, m.Permissions, m.Weight)
		if err != nil {
			return err
		}
		if err := e.State.PutGroupMember(member); err != nil {
			return err
		}
	}

	e.Metrics.MarkGroupCreated()
	e.Log.Info("created group",
		log.Stringer("groupID", groupID),
		log.Stringer("creator", tx.Actor()),
	)
	return nil
}

func (e *StandardTxExecutor) AddAssetTx(tx *txs.AddAssetTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	group, err := getGroup(e.State, tx.GroupID)
	if err != nil {
		return err
	}
	adder, err := getGroupMember(e.State, tx.GroupID, tx.Actor())
	if err != nil {
		return err
	}
	if !adder.Permissions.HasAddAsset() {
		return fmt.Errorf("%w: %s cannot add assets", governance.ErrInsufficientPermissions, tx.Actor())
	}

	_, err = e.State.GetAsset(tx.GroupID, tx.Address)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: asset %s", governance.ErrAlreadyExists, tx.Address)
	}

	asset := tx.Asset()
	if err := asset.Normalize(); err != nil {
		return err
	}
	if err := asset.Verify(); err != nil {
		return err
	}

	for _, m := range tx.Members {
		if _, err := getGroupMember(e.State, tx.GroupID, m.User); err != nil {
			return err
		}
		member, err := governance.NewAssetMember(group, tx.GroupID, tx.Address, m.User, m.Permissions, m.Weight)
		if err != nil {
			return err
		}
		if err := e.State.PutAssetMember(member); err != nil {
			return err
		}
	}
	if err := e.State.PutAsset(asset); err != nil {
		return err
	}

	e.Log.Info("added asset",
		log.Stringer("groupID", tx.GroupID),
		log.Stringer("asset", tx.Address),
	)
	return nil
}

func (e *StandardTxExecutor) CreateConfigProposalTx(tx *txs.CreateConfigProposalTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	group, err := getGroup(e.State, tx.GroupID)
	if err != nil {
		return err
	}
	if err := verifyProposer(e.State, tx.GroupID, tx.Actor()); err != nil {
		return err
	}
	if tx.Target.Kind == governance.TargetAsset {
		if _, err := getAsset(e.State, tx.GroupID, tx.Target.Asset); err != nil {
			return err
		}
	}

	proposalID := state.ProposalID(tx.GroupID, tx.Seed)
	if err := verifyProposalIsNew(e.State, proposalID); err != nil {
		return err
	}

	index, err := group.GetAndIncrementProposalIndex()
	if err != nil {
		return err
	}
	proposal, err := governance.NewProposal(
		group,
		tx.GroupID,
		tx.Actor(),
		tx.Seed,
		index,
		e.Clk.Unix(),
		tx.TimelockOffset,
		tx.ExpiryOffset,
	)
	if err != nil {
		return err
	}

	if err := e.State.PutGroup(tx.GroupID, group); err != nil {
		return err
	}
	err = e.State.PutConfigProposal(proposalID, &governance.ConfigProposal{
		Proposal: proposal,
		Target:   tx.Target,
		Change:   tx.Change,
	})
	if err != nil {
		return err
	}

	e.Log.Debug("created config proposal",
		log.Stringer("proposalID", proposalID),
		log.Uint64("index", index),
		log.Stringer("action", tx.Change.Action()),
	)
	return nil
}

func (e *StandardTxExecutor) CreateNormalProposalTx(tx *txs.CreateNormalProposalTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	group, err := getGroup(e.State, tx.GroupID)
	if err != nil {
		return err
	}
	if err := verifyProposer(e.State, tx.GroupID, tx.Actor()); err != nil {
		return err
	}

	assets := tx.ProposalAssets()
	if err := governance.VerifyProposalAssets(assets, e.Config.MaxProposalAssets); err != nil {
		return err
	}
	for _, asset := range assets {
		if _, err := getAsset(e.State, tx.GroupID, asset.Asset); err != nil {
			return err
		}
	}

	proposalID := state.ProposalID(tx.GroupID, tx.Seed)
	if err := verifyProposalIsNew(e.State, proposalID); err != nil {
		return err
	}

	index, err := group.GetAndIncrementProposalIndex()
	if err != nil {
		return err
	}
	proposal, err := governance.NewProposal(
		group,
		tx.GroupID,
		tx.Actor(),
		tx.Seed,
		index,
		e.Clk.Unix(),
		tx.TimelockOffset,
		tx.ExpiryOffset,
	)
	if err != nil {
		return err
	}

	if err := e.State.PutGroup(tx.GroupID, group); err != nil {
		return err
	}
	err = e.State.PutNormalProposal(proposalID, &governance.NormalProposal{
		Proposal:        proposal,
		Assets:          assets,
		InstructionHash: tx.InstructionHash,
	})
	if err != nil {
		return err
	}

	e.Log.Debug("created normal proposal",
		log.Stringer("proposalID", proposalID),
		log.Uint64("index", index),
		log.Int("numAssets", len(assets)),
	)
	return nil
}

// verifyVotable checks that a proposal can still take votes. An Open
// proposal past its deadline is moved to Expired and putExpired is called to
// persist it.
func (e *StandardTxExecutor) verifyVotable(
	group *governance.Group,
	proposalID ids.ID,
	proposal *governance.Proposal,
	normal bool,
	putExpired func() error,
) error {
	if proposal.State != governance.Open {
		return fmt.Errorf("%w: %s is %s", governance.ErrProposalNotOpen, proposalID, proposal.State)
	}
	if group.IsStale(proposal.Index) {
		return fmt.Errorf("%w: %s", governance.ErrProposalStale, proposalID)
	}
	if !proposal.IsExpired(e.Clk.Unix()) {
		return nil
	}
	if err := proposal.SetState(governance.Expired); err != nil {
		return err
	}
	if err := putExpired(); err != nil {
		return err
	}
	e.Metrics.MarkTransition(normal, governance.Expired)
	return fmt.Errorf("%w: %s", governance.ErrProposalExpired, proposalID)
}

func (e *StandardTxExecutor) VoteConfigTx(tx *txs.VoteConfigTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	proposal, err := getConfigProposal(e.State, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}
	err = e.verifyVotable(group, tx.Proposal, &proposal.Proposal, false, func() error {
		return e.State.PutConfigProposal(tx.Proposal, proposal)
	})
	if err != nil {
		return err
	}

	voter := tx.Actor()
	member, err := getGroupMember(e.State, tx.Group, voter)
	if err != nil {
		return err
	}
	var scope governance.Scope = group
	if proposal.Target.Kind == governance.TargetAsset {
		asset, err := getAsset(e.State, tx.Group, proposal.Target.Asset)
		if err != nil {
			return err
		}
		if _, err := getAssetMember(e.State, tx.Group, asset.Address, voter); err != nil {
			return err
		}
		scope = asset
	}

	recordID := state.VoteRecordID(tx.Proposal, voter)
	record, err := e.currentVote(recordID, proposal.Index)
	if err != nil {
		return err
	}
	record, changed, err := governance.ApplyVote(&proposal.Tally, record, voter, tx.Choice, member.Weight)
	if err != nil || !changed {
		return err
	}
	record.Proposal = tx.Proposal
	record.ProposalIndex = proposal.Index
	if err := e.State.PutVoteRecord(recordID, record); err != nil {
		return err
	}

	newState, err := proposal.CheckAndMark(scope)
	if err != nil {
		return err
	}
	if err := e.State.PutConfigProposal(tx.Proposal, proposal); err != nil {
		return err
	}

	e.Metrics.MarkVote(false)
	if newState != governance.Open {
		e.Metrics.MarkTransition(false, newState)
		e.Log.Info("config proposal finalized",
			log.Stringer("proposalID", tx.Proposal),
			log.Stringer("state", newState),
		)
	}
	return nil
}

func (e *StandardTxExecutor) VoteNormalTx(tx *txs.VoteNormalTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	proposal, err := getNormalProposal(e.State, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}
	err = e.verifyVotable(group, tx.Proposal, &proposal.Proposal, true, func() error {
		return e.State.PutNormalProposal(tx.Proposal, proposal)
	})
	if err != nil {
		return err
	}

	proposalAsset, err := proposal.Asset(tx.AssetIndex)
	if err != nil {
		return err
	}
	asset, err := getAsset(e.State, tx.Group, proposalAsset.Asset)
	if err != nil {
		return err
	}
	voter := tx.Actor()
	if _, err := getGroupMember(e.State, tx.Group, voter); err != nil {
		return err
	}
	member, err := getAssetMember(e.State, tx.Group, asset.Address, voter)
	if err != nil {
		return err
	}

	recordID := state.AssetVoteRecordID(tx.Proposal, voter, tx.AssetIndex)
	record, err := e.currentVote(recordID, proposal.Index)
	if err != nil {
		return err
	}
	record, changed, err := governance.ApplyVote(&proposalAsset.Tally, record, voter, tx.Choice, member.Weight)
	if err != nil || !changed {
		return err
	}
	record.Proposal = tx.Proposal
	record.ProposalIndex = proposal.Index
	record.HasAssetIndex = true
	record.AssetIndex = tx.AssetIndex
	if err := e.State.PutVoteRecord(recordID, record); err != nil {
		return err
	}

	assetState, err := proposal.CheckAndMarkAsset(tx.AssetIndex, asset)
	if err != nil {
		return err
	}
	if err := e.State.PutNormalProposal(tx.Proposal, proposal); err != nil {
		return err
	}

	e.Metrics.MarkVote(true)
	if proposal.State != governance.Open {
		e.Metrics.MarkTransition(true, proposal.State)
		e.Log.Info("normal proposal finalized",
			log.Stringer("proposalID", tx.Proposal),
			log.Stringer("state", proposal.State),
			log.Stringer("asset", asset.Address),
			log.Stringer("assetState", assetState),
		)
	}
	return nil
}

// currentVote returns the voter's standing record on the proposal created at
// proposalIndex, or nil before their first vote on it.
func (e *StandardTxExecutor) currentVote(recordID ids.ID, proposalIndex uint64) (*governance.VoteRecord, error) {
	record, err := e.State.GetVoteRecord(recordID)
	found, err := exists(err)
	if err != nil || !found || !record.Counts(proposalIndex) {
		return nil, err
	}
	return record, nil
}

// passedConfigProposal loads a config proposal that is ready to be applied
// by its proposer.
func (e *StandardTxExecutor) passedConfigProposal(tx *txs.ApplyTx) (*governance.Group, *governance.ConfigProposal, error) {
	if err := tx.SyntacticVerify(); err != nil {
		return nil, nil, err
	}

	proposal, err := getConfigProposal(e.State, tx.Proposal)
	if err != nil {
		return nil, nil, err
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return nil, nil, err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case tx.Actor() != proposal.Proposer:
		return nil, nil, fmt.Errorf("%w: %s did not propose %s", governance.ErrInvalidProposer, tx.Actor(), tx.Proposal)
	case proposal.State != governance.Passed:
		return nil, nil, fmt.Errorf("%w: %s is %s", governance.ErrProposalNotPassed, tx.Proposal, proposal.State)
	case group.IsStale(proposal.Index):
		return nil, nil, fmt.Errorf("%w: %s", governance.ErrProposalStale, tx.Proposal)
	case !proposal.TimelockElapsed(e.Clk.Unix()):
		return nil, nil, fmt.Errorf("%w: %s until %d", governance.ErrProposalStillTimelocked, tx.Proposal, proposal.ValidFrom)
	}
	return group, proposal, nil
}

// finishApply invalidates every proposal created before this change took
// effect and consumes the applied proposal.
func (e *StandardTxExecutor) finishApply(groupID, proposalID ids.ID, group *governance.Group) error {
	group.UpdateStaleProposalIndex()
	if err := e.State.PutGroup(groupID, group); err != nil {
		return err
	}
	if err := e.State.DeleteConfigProposal(proposalID); err != nil {
		return err
	}
	e.Log.Info("applied config proposal",
		log.Stringer("groupID", groupID),
		log.Stringer("proposalID", proposalID),
		log.Uint64("proposalIndexAfterStale", group.ProposalIndexAfterStale),
	)
	return nil
}

func unexpectedChange(change governance.ConfigChange, tx txs.UnsignedTx) error {
	return fmt.Errorf("%w: %T applied by %T", governance.ErrUnexpectedConfigChange, change, tx)
}

func (e *StandardTxExecutor) AddGroupMemberTx(tx *txs.AddGroupMemberTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.AddGroupMember)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	_, err = e.State.GetGroupMember(tx.Group, change.User)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: member %s", governance.ErrAlreadyExists, change.User)
	}
	if err := group.IncrementMemberCount(); err != nil {
		return err
	}
	member, err := governance.NewGroupMember(group, tx.Group, change.User, change.Permissions, change.Weight)
	if err != nil {
		return err
	}
	if err := e.State.PutGroupMember(member); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) RemoveGroupMemberTx(tx *txs.RemoveGroupMemberTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.RemoveGroupMember)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	member, err := e.State.GetGroupMember(tx.Group, change.User)
	if _, err := lookup(member, err, governance.ErrMemberNotFound, change.User); err != nil {
		return err
	}
	if err := group.DecrementMemberCount(); err != nil {
		return err
	}
	if err := e.State.DeleteGroupMember(tx.Group, change.User); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) AddAssetMemberTx(tx *txs.AddAssetMemberTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.AddAssetMember)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	asset, err := getAsset(e.State, tx.Group, change.Asset)
	if err != nil {
		return err
	}
	if _, err := getGroupMember(e.State, tx.Group, change.User); err != nil {
		return err
	}
	_, err = e.State.GetAssetMember(tx.Group, change.Asset, change.User)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: asset member %s", governance.ErrAlreadyExists, change.User)
	}

	if err := asset.IncrementMemberCount(); err != nil {
		return err
	}
	member, err := governance.NewAssetMember(group, tx.Group, change.Asset, change.User, change.Permissions, change.Weight)
	if err != nil {
		return err
	}
	if err := e.State.PutAssetMember(member); err != nil {
		return err
	}
	if err := e.State.PutAsset(asset); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) RemoveAssetMemberTx(tx *txs.RemoveAssetMemberTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.RemoveAssetMember)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	asset, err := getAsset(e.State, tx.Group, change.Asset)
	if err != nil {
		return err
	}
	member, err := e.State.GetAssetMember(tx.Group, change.Asset, change.User)
	if _, err := lookup(member, err, governance.ErrMemberNotFound, change.User); err != nil {
		return err
	}
	if err := asset.DecrementMemberCount(); err != nil {
		return err
	}
	if err := e.State.DeleteAssetMember(tx.Group, change.Asset, change.User); err != nil {
		return err
	}
	if err := e.State.PutAsset(asset); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) ChangeGroupConfigTx(tx *txs.ChangeGroupConfigTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.ChangeGroupConfig)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	if err := group.ApplyConfig(change.Config); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) ChangeAssetConfigTx(tx *txs.ChangeAssetConfigTx) error {
	group, proposal, err := e.passedConfigProposal(&tx.ApplyTx)
	if err != nil {
		return err
	}
	change, ok := proposal.Change.(*governance.ChangeAssetConfig)
	if !ok {
		return unexpectedChange(proposal.Change, tx)
	}

	asset, err := getAsset(e.State, tx.Group, change.Asset)
	if err != nil {
		return err
	}
	if err := asset.ApplyConfig(change.Config); err != nil {
		return err
	}
	if err := e.State.PutAsset(asset); err != nil {
		return err
	}
	return e.finishApply(tx.Group, tx.Proposal, group)
}

func (e *StandardTxExecutor) CreateProposalTransactionTx(tx *txs.CreateProposalTransactionTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	proposal, err := getNormalProposal(e.State, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}

	switch {
	case tx.Actor() != proposal.Proposer:
		return fmt.Errorf("%w: %s did not propose %s", governance.ErrInvalidProposer, tx.Actor(), tx.Proposal)
	case group.IsStale(proposal.Index):
		return fmt.Errorf("%w: %s", governance.ErrProposalStale, tx.Proposal)
	case proposal.State != governance.Open && proposal.State != governance.Passed:
		return fmt.Errorf("%w: %s is %s", governance.ErrProposalNotOpen, tx.Proposal, proposal.State)
	}

	staged, err := e.State.GetProposalTransaction(tx.Proposal)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && staged.ProposalIndex == proposal.Index {
		return fmt.Errorf("%w: transaction for %s", governance.ErrAlreadyExists, tx.Proposal)
	}

	if got := governance.InstructionHash(tx.Instruction); got != proposal.InstructionHash {
		return fmt.Errorf("%w: got %s, expected %s", governance.ErrInvalidInstructionHash, got, proposal.InstructionHash)
	}
	instruction, err := governance.ParseInstruction(tx.Instruction)
	if err != nil {
		return err
	}
	if err := instruction.VerifyAssets(proposal.Assets); err != nil {
		return err
	}

	assetIndices := make([]uint8, len(proposal.Assets))
	for i, asset := range proposal.Assets {
		assetIndices[i] = asset.Index
	}
	return e.State.PutProposalTransaction(&governance.ProposalTransaction{
		Group:         tx.Group,
		Proposal:      tx.Proposal,
		ProposalIndex: proposal.Index,
		ValidFrom:     proposal.ValidFrom,
		AssetIndices:  assetIndices,
		Instruction:   *instruction,
	})
}

func (e *StandardTxExecutor) ExecuteProposalTransactionTx(tx *txs.ExecuteProposalTransactionTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	staged, err := e.State.GetProposalTransaction(tx.Proposal)
	staged, err = lookup(staged, err, governance.ErrTransactionNotFound, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, staged.Group); err != nil {
		return err
	}
	proposal, err := getNormalProposal(e.State, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}

	switch {
	case staged.ProposalIndex != proposal.Index:
		return fmt.Errorf("%w: transaction staged for index %d, proposal is index %d", governance.ErrUnexpectedProposal, staged.ProposalIndex, proposal.Index)
	case proposal.State != governance.Passed:
		return fmt.Errorf("%w: %s is %s", governance.ErrProposalNotPassed, tx.Proposal, proposal.State)
	case group.IsStale(proposal.Index):
		return fmt.Errorf("%w: %s", governance.ErrProposalStale, tx.Proposal)
	case e.Clk.Unix() < staged.ValidFrom:
		return fmt.Errorf("%w: %s until %d", governance.ErrTransactionNotRipe, tx.Proposal, staged.ValidFrom)
	}
	instructionHash, err := staged.Instruction.Hash()
	if err != nil {
		return err
	}
	if instructionHash != proposal.InstructionHash {
		return fmt.Errorf("%w: got %s, expected %s", governance.ErrInvalidInstructionHash, instructionHash, proposal.InstructionHash)
	}

	grants := make([]governance.AuthorityGrant, len(proposal.Assets))
	for i, asset := range proposal.Assets {
		grants[i] = governance.AuthorityGrant{
			Group:     tx.Group,
			Asset:     asset.Asset,
			Authority: state.AuthorityID(tx.Group, asset.Asset),
		}
	}
	if err := e.Runtime.Execute(e.Ctx, &staged.Instruction, grants); err != nil {
		return fmt.Errorf("failed to execute instruction for %s: %w", tx.Proposal, err)
	}

	if err := e.State.DeleteProposalTransaction(tx.Proposal); err != nil {
		return err
	}
	if err := e.State.DeleteNormalProposal(tx.Proposal); err != nil {
		return err
	}

	e.Log.Info("executed proposal transaction",
		log.Stringer("groupID", tx.Group),
		log.Stringer("proposalID", tx.Proposal),
		log.Stringer("programID", staged.Instruction.ProgramID),
	)
	return nil
}

func (e *StandardTxExecutor) CloseProposalTx(tx *txs.CloseProposalTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	config, err := e.State.GetConfigProposal(tx.Proposal)
	isConfig, err := exists(err)
	if err != nil {
		return err
	}
	var proposal *governance.Proposal
	if isConfig {
		proposal = &config.Proposal
	} else {
		normal, err := getNormalProposal(e.State, tx.Proposal)
		if err != nil {
			return err
		}
		proposal = &normal.Proposal
	}
	if err := verifyGroup(tx.Group, proposal.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}

	switch {
	case group.IsStale(proposal.Index):
	case proposal.State == governance.Failed, proposal.State == governance.Expired:
	case proposal.State == governance.Open && proposal.IsExpired(e.Clk.Unix()):
	case proposal.State == governance.Open:
		return fmt.Errorf("%w: %s", governance.ErrProposalStillActive, tx.Proposal)
	default:
		return fmt.Errorf("%w: %s is %s", governance.ErrProposalNotClosable, tx.Proposal, proposal.State)
	}

	if isConfig {
		err = e.State.DeleteConfigProposal(tx.Proposal)
	} else {
		err = e.State.DeleteNormalProposal(tx.Proposal)
	}
	if err != nil {
		return err
	}

	e.Log.Debug("closed proposal",
		log.Stringer("proposalID", tx.Proposal),
		log.Stringer("state", proposal.State),
		log.Stringer("refundTo", group.RentCollector),
	)
	return nil
}

func (e *StandardTxExecutor) CloseVoteRecordTx(tx *txs.CloseVoteRecordTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	recordID := state.VoteRecordID(tx.Proposal, tx.Voter)
	if tx.HasAssetIndex {
		recordID = state.AssetVoteRecordID(tx.Proposal, tx.Voter, tx.AssetIndex)
	}
	record, err := e.State.GetVoteRecord(recordID)
	record, err = lookup(record, err, governance.ErrVoteRecordNotFound, recordID)
	if err != nil {
		return err
	}
	switch {
	case record.Voter != tx.Voter:
		return governance.ErrUnauthorizedVoter
	case record.Proposal != tx.Proposal:
		return fmt.Errorf("%w: record is for %s", governance.ErrUnexpectedProposal, record.Proposal)
	}

	proposal, err := e.State.GetProposal(tx.Proposal)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found {
		if err := verifyGroup(tx.Group, proposal.Group); err != nil {
			return err
		}
		if record.Counts(proposal.Index) && proposal.State == governance.Open {
			return fmt.Errorf("%w: %s", governance.ErrProposalStillActive, tx.Proposal)
		}
	}

	if err := e.State.DeleteVoteRecord(recordID); err != nil {
		return err
	}
	e.Log.Debug("closed vote record",
		log.Stringer("proposalID", tx.Proposal),
		log.Stringer("refundTo", tx.Voter),
	)
	return nil
}

func (e *StandardTxExecutor) CloseProposalTransactionTx(tx *txs.CloseProposalTransactionTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	staged, err := e.State.GetProposalTransaction(tx.Proposal)
	staged, err = lookup(staged, err, governance.ErrTransactionNotFound, tx.Proposal)
	if err != nil {
		return err
	}
	if err := verifyGroup(tx.Group, staged.Group); err != nil {
		return err
	}
	group, err := getGroup(e.State, tx.Group)
	if err != nil {
		return err
	}

	if !group.IsStale(staged.ProposalIndex) {
		proposal, err := e.State.GetNormalProposal(tx.Proposal)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && proposal.Index == staged.ProposalIndex {
			switch proposal.State {
			case governance.Failed, governance.Expired:
			case governance.Open:
				return fmt.Errorf("%w: %s", governance.ErrProposalStillActive, tx.Proposal)
			default:
				return fmt.Errorf("%w: %s", governance.ErrProposalNotStale, tx.Proposal)
			}
		}
	}

	if err := e.State.DeleteProposalTransaction(tx.Proposal); err != nil {
		return err
	}
	e.Log.Debug("closed proposal transaction",
		log.Stringer("proposalID", tx.Proposal),
		log.Stringer("refundTo", group.RentCollector),
	)
	return nil
}

func (e *StandardTxExecutor) CloseAssetMemberTx(tx *txs.CloseAssetMemberTx) error {
	if err := tx.SyntacticVerify(); err != nil {
		return err
	}

	asset, err := getAsset(e.State, tx.GroupID, tx.Asset)
	if err != nil {
		return err
	}
	member, err := e.State.GetAssetMember(tx.GroupID, tx.Asset, tx.User)
	if _, err := lookup(member, err, governance.ErrMemberNotFound, tx.User); err != nil {
		return err
	}

	_, err = e.State.GetGroupMember(tx.GroupID, tx.User)
	stillMember, err := exists(err)
	if err != nil {
		return err
	}
	if stillMember {
		return fmt.Errorf("%w: %s", governance.ErrGroupMemberStillActive, tx.User)
	}

	if err := asset.DecrementMemberCount(); err != nil {
		return err
	}
	if err := e.State.PutAsset(asset); err != nil {
		return err
	}
	if err := e.State.DeleteAssetMember(tx.GroupID, tx.Asset, tx.User); err != nil {
		return err
	}

	e.Log.Debug("closed asset member",
		log.Stringer("asset", tx.Asset),
		log.Stringer("user", tx.User),
	)
	return nil
}
