// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	safemath "github.com/luxfi/govvm/utils/math"
)

// MemberCounts holds a membership size together with its floors. At rest
// MemberCount > MinimumVoteCount and MemberCount >= MinimumMemberCount.
type MemberCounts struct {
	MemberCount        uint32 `serialize:"true" json:"memberCount"`
	MinimumMemberCount uint32 `serialize:"true" json:"minimumMemberCount"`
	MinimumVoteCount   uint32 `serialize:"true" json:"minimumVoteCount"`
}

func (c *MemberCounts) Verify() error {
	switch {
	case c.MemberCount == 0:
		return fmt.Errorf("%w: no members", ErrInvalidMemberCount)
	case c.MemberCount <= c.MinimumVoteCount:
		return fmt.Errorf("%w: %d members cannot exceed a vote floor of %d",
			ErrInvalidMemberCount, c.MemberCount, c.MinimumVoteCount)
	case c.MemberCount < c.MinimumMemberCount:
		return fmt.Errorf("%w: %d members is below the floor of %d",
			ErrInvalidMemberCount, c.MemberCount, c.MinimumMemberCount)
	default:
		return nil
	}
}

func (c *MemberCounts) IncrementMemberCount() error {
	count, err := safemath.Add(c.MemberCount, 1)
	if err != nil {
		return ErrTooManyMembers
	}
	c.MemberCount = count
	return nil
}

func (c *MemberCounts) DecrementMemberCount() error {
	count, err := safemath.Sub(c.MemberCount, 1)
	if err != nil {
		return fmt.Errorf("%w: no members to remove", ErrInvalidMemberCount)
	}
	if count <= c.MinimumVoteCount || count < c.MinimumMemberCount {
		return fmt.Errorf("%w: removing a member leaves %d", ErrInvalidMemberCount, count)
	}
	c.MemberCount = count
	return nil
}

func (c *MemberCounts) SetMinimumMemberCount(count uint32) error {
	if count > c.MemberCount {
		return fmt.Errorf("%w: minimum member count %d exceeds %d members",
			ErrInvalidMemberCount, count, c.MemberCount)
	}
	c.MinimumMemberCount = count
	return nil
}

func (c *MemberCounts) SetMinimumVoteCount(count uint32) error {
	if count >= c.MemberCount {
		return fmt.Errorf("%w: minimum vote count %d must be below %d members",
			ErrInvalidMemberCount, count, c.MemberCount)
	}
	c.MinimumVoteCount = count
	return nil
}

// QuorumReached reports whether voteCount clears the vote floor.
func (c *MemberCounts) QuorumReached(voteCount uint32) bool {
	return voteCount > c.MinimumVoteCount
}

// setCount applies a count-kind config change.
func (c *MemberCounts) setCount(kind ConfigKind, count uint32) error {
	switch kind {
	case ConfigMinimumMemberCount:
		return c.SetMinimumMemberCount(count)
	case ConfigMinimumVoteCount:
		return c.SetMinimumVoteCount(count)
	default:
		return fmt.Errorf("%w: %s is not a count", ErrUnexpectedConfigChange, kind)
	}
}
