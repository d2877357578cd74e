// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics tracks the activity of the governance engine.
package metrics

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/govvm/governance"
	"github.com/luxfi/govvm/utils/wrappers"

	utilmetric "github.com/luxfi/govvm/utils/metric"
)

const (
	txLabel     = "tx"
	resultLabel = "result"
	stateLabel  = "state"
	kindLabel   = "kind"

	resultAccepted = "accepted"
	resultRejected = "rejected"

	kindConfig = "config"
	kindNormal = "normal"
)

// Metrics records what the executor does with each transaction.
type Metrics interface {
	// MarkTx records the result of executing a transaction of the given
	// type. A nil err counts as accepted.
	MarkTx(txType string, err error)
	// MarkVote records a vote that changed a tally.
	MarkVote(normal bool)
	// MarkTransition records a proposal leaving the Open state.
	MarkTransition(normal bool, to governance.State)
	// MarkGroupCreated records a new group.
	MarkGroupCreated()
	// ObserveExecution records how long a transaction took to execute.
	ObserveExecution(time.Duration)
}

type metrics struct {
	txs         metric.CounterVec
	votes       metric.CounterVec
	transitions metric.CounterVec
	groups      metric.Counter
	execution   utilmetric.Averager
}

func New(namespace string, registry metric.Registry) (Metrics, error) {
	m := &metrics{
		txs: metric.NewCounterVec(
			metric.CounterOpts{
				Name: utilmetric.AppendNamespace(namespace, "txs"),
				Help: "Number of transactions executed, by type and result",
			},
			[]string{txLabel, resultLabel},
		),
		votes: metric.NewCounterVec(
			metric.CounterOpts{
				Name: utilmetric.AppendNamespace(namespace, "votes"),
				Help: "Number of votes that changed a tally",
			},
			[]string{kindLabel},
		),
		transitions: metric.NewCounterVec(
			metric.CounterOpts{
				Name: utilmetric.AppendNamespace(namespace, "proposal_transitions"),
				Help: "Number of proposals that left the open state",
			},
			[]string{kindLabel, stateLabel},
		),
		groups: metric.NewCounter(metric.CounterOpts{
			Name: utilmetric.AppendNamespace(namespace, "groups_created"),
			Help: "Number of groups created",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registry.Register(metric.AsCollector(m.txs)),
		registry.Register(metric.AsCollector(m.votes)),
		registry.Register(metric.AsCollector(m.transitions)),
		registry.Register(metric.AsCollector(m.groups)),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	m.execution = utilmetric.NewAveragerWithErrs(
		utilmetric.AppendNamespace(namespace, "tx_execution"),
		"time spent executing txs, in nanoseconds",
		registry,
		&errs,
	)
	return m, errs.Err
}

func (m *metrics) MarkTx(txType string, err error) {
	result := resultAccepted
	if err != nil {
		result = resultRejected
	}
	m.txs.With(metric.Labels{
		txLabel:     txType,
		resultLabel: result,
	}).Inc()
}

func (m *metrics) MarkVote(normal bool) {
	m.votes.With(metric.Labels{
		kindLabel: kind(normal),
	}).Inc()
}

func (m *metrics) MarkTransition(normal bool, to governance.State) {
	m.transitions.With(metric.Labels{
		kindLabel:  kind(normal),
		stateLabel: to.String(),
	}).Inc()
}

func (m *metrics) MarkGroupCreated() {
	m.groups.Inc()
}

func (m *metrics) ObserveExecution(d time.Duration) {
	m.execution.Observe(float64(d))
}

func kind(normal bool) string {
	if normal {
		return kindNormal
	}
	return kindConfig
}

type noMetrics struct{}

// NewNoOp returns a Metrics that records nothing.
func NewNoOp() Metrics {
	return noMetrics{}
}

func (noMetrics) MarkTx(string, error) {}

func (noMetrics) MarkVote(bool) {}

func (noMetrics) MarkTransition(bool, governance.State) {}

func (noMetrics) MarkGroupCreated() {}

func (noMetrics) ObserveExecution(time.Duration) {}
