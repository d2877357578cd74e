// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Add[uint32](1, 2)
	require.NoError(err)
	require.Equal(uint32(3), sum)

	_, err = Add[uint32](math.MaxUint32, 1)
	require.ErrorIs(err, ErrOverflow)

	_, err = Add[uint8](200, 56)
	require.ErrorIs(err, ErrOverflow)

	total, err := Add[uint64](math.MaxUint64-1, 1)
	require.NoError(err)
	require.Equal(uint64(math.MaxUint64), total)
}

func TestSub(t *testing.T) {
	require := require.New(t)

	diff, err := Sub[uint64](5, 5)
	require.NoError(err)
	require.Zero(diff)

	_, err = Sub[uint32](4, 5)
	require.ErrorIs(err, ErrUnderflow)
}

func TestSaturatingSub(t *testing.T) {
	tests := []struct {
		a, b, want uint64
	}{
		{a: 10, b: 3, want: 7},
		{a: 3, b: 3, want: 0},
		{a: 3, b: 10, want: 0},
		{a: 0, b: math.MaxUint64, want: 0},
	}
	for _, test := range tests {
		require.Equal(t, test.want, SaturatingSub(test.a, test.b))
	}
}

func TestMul(t *testing.T) {
	require := require.New(t)

	product, err := Mul[uint64](math.MaxUint32, math.MaxUint32)
	require.NoError(err)
	require.Equal(uint64(math.MaxUint32)*uint64(math.MaxUint32), product)

	_, err = Mul[uint64](math.MaxUint64, 2)
	require.ErrorIs(err, ErrOverflow)

	product, err = Mul[uint64](math.MaxUint64, 0)
	require.NoError(err)
	require.Zero(product)
}
