// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"
	metric "github.com/luxfi/metric"
)

type APIInterceptor interface {
	InterceptRequest(i *rpc.RequestInfo) *http.Request
	AfterRequest(i *rpc.RequestInfo)
}

type contextKey int

const requestTimestampKey contextKey = iota

type apiInterceptor struct {
	requestDurationCount metric.CounterVec
	requestDurationSum   metric.GaugeVec
	requestErrors        metric.CounterVec
}

// NewAPIInterceptor times every JSON-RPC method served under namespace.
func NewAPIInterceptor(namespace string, registry metric.Registry) (APIInterceptor, error) {
	metricsInstance := metric.NewWithRegistry("", registry)

	requestDurationCount := metricsInstance.NewCounterVec(
		AppendNamespace(namespace, "request_duration_count"),
		"Number of times this type of request was made",
		[]string{"method"},
	)
	requestDurationSum := metricsInstance.NewGaugeVec(
		AppendNamespace(namespace, "request_duration_sum"),
		"Amount of time in nanoseconds that has been spent handling this type of request",
		[]string{"method"},
	)
	requestErrors := metricsInstance.NewCounterVec(
		AppendNamespace(namespace, "request_error_count"),
		"Number of request errors",
		[]string{"method"},
	)
	return &apiInterceptor{
		requestDurationCount: requestDurationCount,
		requestDurationSum:   requestDurationSum,
		requestErrors:        requestErrors,
	}, nil
}

func (*apiInterceptor) InterceptRequest(i *rpc.RequestInfo) *http.Request {
	ctx := i.Request.Context()
	ctx = context.WithValue(ctx, requestTimestampKey, time.Now())
	return i.Request.WithContext(ctx)
}

func (apr *apiInterceptor) AfterRequest(i *rpc.RequestInfo) {
	timestampIntf := i.Request.Context().Value(requestTimestampKey)
	timestamp, ok := timestampIntf.(time.Time)
	if !ok {
		return
	}

	labels := metric.Labels{
		"method": i.Method,
	}
	apr.requestDurationCount.With(labels).Inc()

	duration := time.Since(timestamp)
	apr.requestDurationSum.With(labels).Add(float64(duration))

	if i.Error != nil {
		apr.requestErrors.With(labels).Inc()
	}
}
