// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrictest reads gathered metric values back in tests.
package metrictest

import (
	"testing"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
)

// Value returns the value of the series name whose labels include labels, or
// zero if no such series has been gathered.
func Value(t testing.TB, gatherer metric.Gatherer, name string, labels metric.Labels) float64 {
	families, err := gatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.Name != name {
			continue
		}
	metrics:
		for _, m := range family.Metrics {
			for _, label := range m.Labels {
				if want, ok := labels[label.Name]; ok && want != label.Value {
					continue metrics
				}
			}
			return m.Value.Value
		}
	}
	return 0
}

// Names returns the name of every gathered family.
func Names(t testing.TB, gatherer metric.Gatherer) []string {
	families, err := gatherer.Gather()
	require.NoError(t, err)
	names := make([]string, len(families))
	for i, family := range families {
		names[i] = family.Name
	}
	return names
}
