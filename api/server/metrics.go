// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"time"

	"github.com/luxfi/metric"

	utilmetric "github.com/luxfi/govvm/utils/metric"
)

type serverMetrics struct {
	requests metric.CounterVec
	duration metric.HistogramVec
	inflight metric.Gauge
}

func newMetrics(namespace string, registerer metric.Registerer) (*serverMetrics, error) {
	m := &serverMetrics{
		requests: registerer.NewCounterVec(
			utilmetric.AppendNamespace(namespace, "api_requests_total"),
			"Total number of API requests",
			[]string{"method", "base"},
		),
		duration: registerer.NewHistogramVec(
			utilmetric.AppendNamespace(namespace, "api_request_duration_seconds"),
			"API request duration in seconds",
			[]string{"method", "base"},
			nil,
		),
		inflight: registerer.NewGauge(
			utilmetric.AppendNamespace(namespace, "api_requests_inflight"),
			"Number of inflight API requests",
		),
	}

	if err := registerer.Register(metric.AsCollector(m.requests)); err != nil {
		return nil, err
	}
	if err := registerer.Register(metric.AsCollector(m.duration)); err != nil {
		return nil, err
	}
	if err := registerer.Register(metric.AsCollector(m.inflight)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *serverMetrics) wrapHandler(base string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.WithLabelValues(r.Method, base).Inc()
		m.inflight.Inc()
		defer m.inflight.Dec()

		start := time.Now()
		handler.ServeHTTP(w, r)
		m.duration.WithLabelValues(r.Method, base).Observe(time.Since(start).Seconds())
	})
}
