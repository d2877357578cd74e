// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/utils/metric/metrictest"
)

func TestMetrics(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	m, err := New("govvm", registry)
	require.NoError(err)

	m.MarkTx("create_group", nil)
	m.MarkTx("create_group", nil)
	m.MarkTx("vote_config", errors.New("boom"))
	m.MarkVote(true)
	m.MarkVote(false)
	m.MarkVote(false)
	m.MarkTransition(true, governance.Passed)
	m.MarkTransition(false, governance.Expired)
	m.MarkGroupCreated()
	m.ObserveExecution(time.Millisecond)

	tests := []struct {
		name     string
		labels   metric.Labels
		expected float64
	}{
		{
			name:     "govvm_txs",
			labels:   metric.Labels{txLabel: "create_group", resultLabel: resultAccepted},
			expected: 2,
		},
		{
			name:     "govvm_txs",
			labels:   metric.Labels{txLabel: "vote_config", resultLabel: resultRejected},
			expected: 1,
		},
		{
			name:     "govvm_votes",
			labels:   metric.Labels{kindLabel: kindNormal},
			expected: 1,
		},
		{
			name:     "govvm_votes",
			labels:   metric.Labels{kindLabel: kindConfig},
			expected: 2,
		},
		{
			name:     "govvm_proposal_transitions",
			labels:   metric.Labels{kindLabel: kindNormal, stateLabel: governance.Passed.String()},
			expected: 1,
		},
		{
			name:     "govvm_proposal_transitions",
			labels:   metric.Labels{kindLabel: kindConfig, stateLabel: governance.Expired.String()},
			expected: 1,
		},
		{
			name:     "govvm_groups_created",
			expected: 1,
		},
		{
			name:     "govvm_tx_execution_count",
			expected: 1,
		},
		{
			name:     "govvm_tx_execution_sum",
			expected: float64(time.Millisecond),
		},
	}
	for _, tt := range tests {
		require.InDelta(tt.expected, metrictest.Value(t, registry, tt.name, tt.labels), 0, tt.name)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	_, err := New("govvm", registry)
	require.NoError(err)

	_, err = New("govvm", registry)
	require.Error(err)
}
