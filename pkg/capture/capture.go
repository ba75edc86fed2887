// Package capture brackets the execution of one operation with resource
// snapshots and byte accounting and produces its metrics record.
package capture

import (
	"context"
	"fmt"

	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/Dlordkendex/gas2nel/pkg/metrics"
)

// Runner executes operations under measurement.
type Runner struct {
	collector metrics.Collector
}

// NewRunner returns a runner using the given collector, or the default
// process collector when nil.
func NewRunner(collector metrics.Collector) *Runner {
	if collector == nil {
		collector = metrics.NewCollector()
	}

	return &Runner{collector: collector}
}

// Run executes op exactly once and returns its tagged outcome together with
// the metrics record for the window. The operation's failure never escapes as
// an error or panic: resources consumed before failing are real cost, so the
// record covers the partial execution too. Counters are reset at the start of
// the window and the end snapshot is taken on every exit path.
func (r *Runner) Run(ctx context.Context, op operation.Operation, counters *instrument.Counters) (operation.Outcome, metrics.Record) {
	counters.Reset()
	ins := instrument.Attach(counters)

	start := r.collector.Collect(ctx)
	outcome := execute(ctx, op, ins)
	end := r.collector.Collect(ctx)

	return outcome, record(start, end, counters.Snapshot())
}

func execute(ctx context.Context, op operation.Operation, ins *instrument.Instruments) (out operation.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = operation.Failure(fmt.Sprintf("%v", p))
		}
	}()

	v, err := op(ctx, ins)
	if err != nil {
		return operation.Failure(err.Error())
	}

	return operation.Success(v)
}

func record(start, end metrics.Snapshot, counts instrument.Counts) metrics.Record {
	wallMs := float64(end.Taken.Sub(start.Taken).Nanoseconds()) / 1e6
	cpuMs := float64((end.CPUTime - start.CPUTime).Nanoseconds()) / 1e6

	// Zero wall time means an empty window; the ratio is defined as zero.
	var cpuPct float64
	if wallMs > 0 {
		cpuPct = 100 * cpuMs / wallMs
	}

	return metrics.Record{
		CPUTimeMs:      cpuMs,
		CPUPercentage:  cpuPct,
		MemoryRSS:      float64(end.RSS) - float64(start.RSS),
		MemoryHeapUsed: float64(end.HeapUsed) - float64(start.HeapUsed),
		MemoryExternal: float64(end.External) - float64(start.External),
		SentBytes:      float64(counts.SentBytes),
		ReceivedBytes:  float64(counts.ReceivedBytes),
		WallTimeMs:     wallMs,
		FileReadBytes:  float64(counts.FileReadBytes),
		FileWriteBytes: float64(counts.FileWriteBytes),
	}
}
