// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package governance

import (
	"fmt"

	"github.com/luxfi/govvm/threshold"

	safemath "github.com/luxfi/govvm/utils/math"
)

// Choice is a voter's position.
type Choice uint8

const (
	For Choice = iota
	Against
)

func (c Choice) String() string {
	switch c {
	case For:
		return "for"
	case Against:
		return "against"
	default:
		return "unknown"
	}
}

func (c Choice) Verify() error {
	if c > Against {
		return fmt.Errorf("%w: %d", ErrInvalidVoteChoice, c)
	}
	return nil
}

// Outcome is the result of evaluating a tally.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	PassOutcome
	FailOutcome
)

// Scope is the group or asset whose thresholds and vote floor a tally is
// evaluated against.
type Scope interface {
	ForAction(action Action) (pass, fail threshold.Fractional, err error)
	QuorumReached(voteCount uint32) bool
}

// Tally is a running weighted vote. VoteCount counts distinct voters.
type Tally struct {
	VoteCount     uint32 `serialize:"true" json:"voteCount"`
	ForWeight     uint64 `serialize:"true" json:"forWeight"`
	AgainstWeight uint64 `serialize:"true" json:"againstWeight"`
}

// Cast records a first vote.
func (t *Tally) Cast(choice Choice, weight uint32) error {
	count, err := safemath.Add(t.VoteCount, 1)
	if err != nil {
		return ErrArithmeticOverflow
	}
	if err := t.add(choice, weight); err != nil {
		return err
	}
	t.VoteCount = count
	return nil
}

// Recast moves an existing voter's weight from one choice to the other.
// VoteCount is unchanged.
func (t *Tally) Recast(from, to Choice, weight uint32) error {
	if from == to {
		return nil
	}
	before := *t
	t.sub(from, weight)
	if err := t.add(to, weight); err != nil {
		*t = before
		return err
	}
	return nil
}

func (t *Tally) bucket(choice Choice) *uint64 {
	if choice == For {
		return &t.ForWeight
	}
	return &t.AgainstWeight
}

func (t *Tally) add(choice Choice, weight uint32) error {
	b := t.bucket(choice)
	sum, err := safemath.Add(*b, uint64(weight))
	if err != nil {
		return ErrArithmeticOverflow
	}
	*b = sum
	return nil
}

// sub saturates at zero.
func (t *Tally) sub(choice Choice, weight uint32) {
	b := t.bucket(choice)
	*b = safemath.SaturatingSub(*b, uint64(weight))
}

// Evaluate applies the quorum floor and then the pass and fail thresholds of
// action. Pass is checked first.
func (t *Tally) Evaluate(scope Scope, action Action) (Outcome, error) {
	if !scope.QuorumReached(t.VoteCount) {
		return NoOutcome, nil
	}
	total, err := safemath.Add(t.ForWeight, t.AgainstWeight)
	if err != nil {
		return NoOutcome, ErrArithmeticOverflow
	}
	if total == 0 {
		return NoOutcome, nil
	}
	pass, fail, err := scope.ForAction(action)
	if err != nil {
		return NoOutcome, err
	}
	passed, err := pass.GreaterThanOrEqual(t.ForWeight, total)
	if err != nil {
		return NoOutcome, err
	}
	if passed {
		return PassOutcome, nil
	}
	failed, err := fail.GreaterThanOrEqual(t.AgainstWeight, total)
	if err != nil {
		return NoOutcome, err
	}
	if failed {
		return FailOutcome, nil
	}
	return NoOutcome, nil
}
