package middleware

import (
	"context"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/operation"
	gasmetrics "github.com/Dlordkendex/gas2nel/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ meter.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    meter.Service
}

// Tracing decorates a metering service with OpenTelemetry spans.
func Tracing(tracer trace.Tracer, svc meter.Service) meter.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) EstimateGas(ctx context.Context, op operation.Operation) meter.Result {
	ctx, span := tm.tracer.Start(ctx, "estimate-gas")
	defer span.End()

	res := tm.svc.EstimateGas(ctx, op)
	span.SetAttributes(
		attribute.Bool("success", res.Success),
		attribute.Float64("gas", res.Gas),
	)

	return res
}

func (tm *tracing) CalculateMetrics(ctx context.Context, op operation.Operation) gasmetrics.Record {
	ctx, span := tm.tracer.Start(ctx, "calculate-metrics")
	defer span.End()

	rec := tm.svc.CalculateMetrics(ctx, op)
	span.SetAttributes(
		attribute.Float64("cpu_time_ms", rec.CPUTimeMs),
		attribute.Float64("wall_time_ms", rec.WallTimeMs),
	)

	return rec
}

func (tm *tracing) Reset() {
	tm.svc.Reset()
}

func (tm *tracing) SetOptions(opts meter.Options) meter.Service {
	tm.svc.SetOptions(opts)

	return tm
}
