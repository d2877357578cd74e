// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package threshold implements the fractional quorum comparator used by every
// group and asset vote.
package threshold

import (
	"errors"
	"fmt"

	safemath "github.com/luxfi/govvm/utils/math"
)

var (
	ErrInvalidThreshold   = errors.New("invalid threshold")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)

// Fractional is the ratio Numerator/Denominator that a weighted tally must
// meet or exceed.
type Fractional struct {
	Numerator   uint32 `serialize:"true" json:"numerator"`
	Denominator uint32 `serialize:"true" json:"denominator"`
}

// New returns a verified threshold.
func New(numerator, denominator uint32) (Fractional, error) {
	f := Fractional{Numerator: numerator, Denominator: denominator}
	return f, f.Verify()
}

// Verify requires 0 < Numerator < Denominator.
func (f Fractional) Verify() error {
	if f.Numerator == 0 || f.Numerator >= f.Denominator {
		return fmt.Errorf("%w: %s", ErrInvalidThreshold, f)
	}
	return nil
}

// GreaterThanOrEqual reports whether n/d >= Numerator/Denominator.
func (f Fractional) GreaterThanOrEqual(n, d uint64) (bool, error) {
	if d == 0 || f.Denominator == 0 {
		return false, ErrArithmeticOverflow
	}
	lhs, err := safemath.Mul(n, uint64(f.Denominator))
	if err != nil {
		return false, ErrArithmeticOverflow
	}
	rhs, err := safemath.Mul(d, uint64(f.Numerator))
	if err != nil {
		return false, ErrArithmeticOverflow
	}
	return lhs >= rhs, nil
}

// Complement returns 1 - f.
func (f Fractional) Complement() Fractional {
	return Fractional{
		Numerator:   f.Denominator - f.Numerator,
		Denominator: f.Denominator,
	}
}

// NormalizeOther replaces the counter-threshold with the complement of f when
// other is at least as large as f. Afterwards either other < f or other is
// exactly 1 - f.
func (f Fractional) NormalizeOther(other *Fractional) error {
	ge, err := f.GreaterThanOrEqual(uint64(other.Numerator), uint64(other.Denominator))
	if err != nil {
		return err
	}
	if ge {
		*other = f.Complement()
	}
	return nil
}

func (f Fractional) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
