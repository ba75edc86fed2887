package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/metrics"
	"github.com/google/uuid"
)

var _ meter.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    meter.Service
}

// Logging decorates a metering service with structured logs for every
// invocation. Each measurement gets its own invocation id.
func Logging(logger *slog.Logger, svc meter.Service) meter.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) EstimateGas(ctx context.Context, op operation.Operation) (res meter.Result) {
	id := uuid.NewString()
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("invocation",
				slog.String("id", id),
				slog.Bool("success", res.Success),
				slog.Float64("gas", res.Gas),
			),
		}
		if !res.Success {
			lm.logger.Warn("Estimate gas completed with operation failure", args...)

			return
		}
		lm.logger.Info("Estimate gas completed successfully", args...)
	}(time.Now())

	return lm.svc.EstimateGas(ctx, op)
}

func (lm *loggingMiddleware) CalculateMetrics(ctx context.Context, op operation.Operation) (rec metrics.Record) {
	id := uuid.NewString()
	defer func(begin time.Time) {
		lm.logger.Info("Calculate metrics completed",
			slog.String("duration", time.Since(begin).String()),
			slog.Group("invocation",
				slog.String("id", id),
				slog.Float64("cpu_time_ms", rec.CPUTimeMs),
				slog.Float64("wall_time_ms", rec.WallTimeMs),
			),
		)
	}(time.Now())

	return lm.svc.CalculateMetrics(ctx, op)
}

func (lm *loggingMiddleware) Reset() {
	lm.svc.Reset()
	lm.logger.Debug("Invocation counters reset")
}

func (lm *loggingMiddleware) SetOptions(opts meter.Options) meter.Service {
	lm.svc.SetOptions(opts)

	return lm
}
