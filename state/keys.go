// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/luxfi/crypto/hash"
	"github.com/luxfi/ids"
)

var (
	groupTag               = []byte("group")
	assetTag               = []byte("asset")
	groupMemberTag         = []byte("member")
	assetMemberTag         = []byte("asset_member")
	proposalTag            = []byte("proposal")
	voteRecordTag          = []byte("vote_record")
	proposalTransactionTag = []byte("proposal_transaction")
	authorityTag           = []byte("authority")
)

func derive(tag []byte, parts ...[]byte) ids.ID {
	size := len(tag)
	for _, part := range parts {
		size += len(part)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, tag...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return hash.ComputeHash256Array(buf)
}

// GroupID is the address of the group created from seed.
func GroupID(seed ids.ID) ids.ID {
	return derive(groupTag, seed[:])
}

// AssetID is the address of the asset record governing address within group.
func AssetID(group, address ids.ID) ids.ID {
	return derive(assetTag, group[:], address[:])
}

func GroupMemberID(group ids.ID, user ids.ShortID) ids.ID {
	return derive(groupMemberTag, group[:], user[:])
}

func AssetMemberID(group, asset ids.ID, user ids.ShortID) ids.ID {
	return derive(assetMemberTag, group[:], asset[:], user[:])
}

// ProposalID is shared by config and normal proposals.
func ProposalID(group, seed ids.ID) ids.ID {
	return derive(proposalTag, group[:], seed[:])
}

// VoteRecordID keys a config proposal vote.
func VoteRecordID(proposal ids.ID, voter ids.ShortID) ids.ID {
	return derive(voteRecordTag, proposal[:], voter[:])
}

// AssetVoteRecordID keys a normal proposal vote on the asset at assetIndex.
func AssetVoteRecordID(proposal ids.ID, voter ids.ShortID, assetIndex uint8) ids.ID {
	return derive(voteRecordTag, proposal[:], voter[:], []byte{assetIndex})
}

func ProposalTransactionID(proposal ids.ID) ids.ID {
	return derive(proposalTransactionTag, proposal[:])
}

// AuthorityID is the identity an instruction runtime recognizes as acting
// for asset under group.
func AuthorityID(group, asset ids.ID) ids.ID {
	return derive(authorityTag, group[:], asset[:])
}
