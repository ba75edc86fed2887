package middleware

import (
	"context"
	"time"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/operation"
	gasmetrics "github.com/Dlordkendex/gas2nel/pkg/metrics"
	"github.com/go-kit/kit/metrics"
)

var _ meter.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     meter.Service
}

// Metrics decorates a metering service with request counting and latency
// observation.
func Metrics(counter metrics.Counter, latency metrics.Histogram, svc meter.Service) meter.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) EstimateGas(ctx context.Context, op operation.Operation) meter.Result {
	defer func(begin time.Time) {
		mm.counter.With("method", "estimate-gas").Add(1)
		mm.latency.With("method", "estimate-gas").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.EstimateGas(ctx, op)
}

func (mm *metricsMiddleware) CalculateMetrics(ctx context.Context, op operation.Operation) gasmetrics.Record {
	defer func(begin time.Time) {
		mm.counter.With("method", "calculate-metrics").Add(1)
		mm.latency.With("method", "calculate-metrics").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CalculateMetrics(ctx, op)
}

func (mm *metricsMiddleware) Reset() {
	defer func(begin time.Time) {
		mm.counter.With("method", "reset").Add(1)
		mm.latency.With("method", "reset").Observe(time.Since(begin).Seconds())
	}(time.Now())

	mm.svc.Reset()
}

func (mm *metricsMiddleware) SetOptions(opts meter.Options) meter.Service {
	defer func(begin time.Time) {
		mm.counter.With("method", "set-options").Add(1)
		mm.latency.With("method", "set-options").Observe(time.Since(begin).Seconds())
	}(time.Now())

	mm.svc.SetOptions(opts)

	return mm
}
