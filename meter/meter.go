// Package meter exposes the public metering surface: run one operation,
// measure its resource footprint, and score it.
package meter

import (
	"context"
	"sync"

	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/capture"
	"github.com/Dlordkendex/gas2nel/pkg/estimator"
	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/Dlordkendex/gas2nel/pkg/metrics"
	"github.com/Dlordkendex/gas2nel/pkg/report"
)

// Recognized include flags. Anything else in Options.Include is ignored.
const (
	IncludeMetric = "metric"
	IncludeReport = "report"
)

// Options controls what an estimate attaches to its result.
type Options struct {
	Include []string
}

func (o Options) has(flag string) bool {
	for _, f := range o.Include {
		if f == flag {
			return true
		}
	}

	return false
}

// Result is the envelope returned by EstimateGas. Data carries the
// operation's return value on success or its failure message otherwise.
type Result struct {
	Success bool            `json:"success"`
	Data    any             `json:"data"`
	Gas     float64         `json:"gas"`
	Metric  *metrics.Record `json:"metric,omitempty"`
	Report  *report.Report  `json:"report,omitempty"`
}

// Service is the metering API. Middleware decorates it.
type Service interface {
	// EstimateGas measures one operation and scores its footprint. The
	// operation's failure is reported inside the Result, never raised.
	EstimateGas(ctx context.Context, op operation.Operation) Result
	// CalculateMetrics measures one operation and returns the raw record
	// without scoring.
	CalculateMetrics(ctx context.Context, op operation.Operation) metrics.Record
	// Reset zeroes the invocation counters. Idempotent.
	Reset()
	// SetOptions merges the given options into the current configuration
	// and returns the service for chaining. Unspecified fields keep their
	// prior value.
	SetOptions(opts Options) Service
}

// Meter measures operations. Invocations on one Meter are serialized; run
// concurrent measurements on separate Meter instances (see Batch).
type Meter struct {
	mu       sync.Mutex // at most one invocation in flight
	counters instrument.Counters
	runner   *capture.Runner

	cfgMu  sync.RWMutex
	opts   Options
	policy estimator.Policy
}

var _ Service = (*Meter)(nil)

// New returns a Meter with the default scoring policy.
func New(opts Options) *Meter {
	return &Meter{
		opts:   opts,
		policy: estimator.Default(),
		runner: capture.NewRunner(nil),
	}
}

// SetOptions merges opts into the current configuration. A nil Include
// leaves the current flags untouched.
func (m *Meter) SetOptions(opts Options) Service {
	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()

	if opts.Include != nil {
		m.opts.Include = opts.Include
	}

	return m
}

// SetPolicy swaps the scoring policy and returns the meter for chaining.
func (m *Meter) SetPolicy(p estimator.Policy) Service {
	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()

	m.policy = p

	return m
}

// Reset zeroes the invocation counters.
func (m *Meter) Reset() {
	m.counters.Reset()
}

// Counters returns the current invocation counter values.
func (m *Meter) Counters() instrument.Counts {
	return m.counters.Snapshot()
}

// EstimateGas runs op under measurement and assembles the result. The metric
// record and report are attached only when the corresponding include flag is
// configured.
func (m *Meter) EstimateGas(ctx context.Context, op operation.Operation) Result {
	outcome, rec := m.run(ctx, op)

	m.cfgMu.RLock()
	opts := m.opts
	policy := m.policy
	m.cfgMu.RUnlock()

	res := Result{
		Success: outcome.OK,
		Gas:     policy.Estimate(rec),
	}
	if outcome.OK {
		res.Data = outcome.Value
	} else {
		res.Data = outcome.Err
	}
	if opts.has(IncludeMetric) {
		cp := rec
		res.Metric = &cp
	}
	if opts.has(IncludeReport) {
		rp := report.From(rec)
		res.Report = &rp
	}

	return res
}

// CalculateMetrics runs op under measurement and returns only the record.
// It never fails: an operation failure still yields the record for the
// partial execution.
func (m *Meter) CalculateMetrics(ctx context.Context, op operation.Operation) metrics.Record {
	_, rec := m.run(ctx, op)

	return rec
}

func (m *Meter) run(ctx context.Context, op operation.Operation) (operation.Outcome, metrics.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.runner.Run(ctx, op, &m.counters)
}
