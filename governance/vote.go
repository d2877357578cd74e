// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import "github.com/luxfi/ids"

// VoteRecord is a voter's standing choice on a proposal, or on one asset of a
// normal proposal. Its existence marks that the voter has been counted by the
// proposal created at ProposalIndex.
type VoteRecord struct {
	Voter         ids.ShortID `serialize:"true" json:"voter"`
	Proposal      ids.ID      `serialize:"true" json:"proposal"`
	ProposalIndex uint64      `serialize:"true" json:"proposalIndex"`

	HasAssetIndex bool  `serialize:"true" json:"hasAssetIndex"`
	AssetIndex    uint8 `serialize:"true" json:"assetIndex"`

	Choice Choice `serialize:"true" json:"choice"`
}

// ApplyVote runs the shared vote algorithm against tally. A nil record is a
// first vote and yields a new record; an existing record is updated in place
// when the choice changes. It reports whether the tally moved.
func ApplyVote(tally *Tally, record *VoteRecord, voter ids.ShortID, choice Choice, weight uint32) (*VoteRecord, bool, error) {
	if err := choice.Verify(); err != nil {
		return nil, false, err
	}
	if record == nil {
		if err := tally.Cast(choice, weight); err != nil {
			return nil, false, err
		}
		return &VoteRecord{Voter: voter, Choice: choice}, true, nil
	}
	if record.Voter != voter {
		return nil, false, ErrUnauthorizedVoter
	}
	if record.Choice == choice {
		return record, false, nil
	}
	if err := tally.Recast(record.Choice, choice, weight); err != nil {
		return nil, false, err
	}
	record.Choice = choice
	return record, true, nil
}

// Counts reports whether r was cast on the proposal created at index. A
// record left behind by an earlier proposal under the same address does not.
func (r *VoteRecord) Counts(index uint64) bool {
	return r.ProposalIndex == index
}
