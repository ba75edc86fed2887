// Package estimator converts a metrics record into a single dimensionless
// gas score via per-metric normalization and a weighted sum.
package estimator

import (
	"errors"
	"fmt"

	"github.com/Dlordkendex/gas2nel/pkg/metrics"
)

var (
	errNegativeWeight = errors.New("weight must not be negative")
	errNoCeiling      = errors.New("weighted metric has no positive ceiling")
)

// Policy is the scoring configuration: per-metric weights and the ceilings
// raw values are normalized against. A ceiling is the assumed maximum for a
// typical heavy operation, so a metric at its ceiling contributes its full
// weight. Scores are unbounded above; an operation can cost more than the
// assumed maximum.
type Policy struct {
	Weights  map[string]float64 `toml:"weights"`
	Ceilings map[string]float64 `toml:"ceilings"`
}

// Default returns the built-in scoring policy. CPU time dominates because it
// is the least noisy, most attributable signal; memory and network are
// secondary since they are more volatile and partially double-counted with
// CPU. The weights sum to 1.0.
func Default() Policy {
	return Policy{
		Weights: map[string]float64{
			metrics.CPUTimeMs:      0.35,
			metrics.CPUPercentage:  0.20,
			metrics.MemoryRSS:      0.15,
			metrics.MemoryHeapUsed: 0.10,
			metrics.MemoryExternal: 0.05,
			metrics.SentBytes:      0.05,
			metrics.ReceivedBytes:  0.05,
			metrics.WallTimeMs:     0.05,
		},
		Ceilings: map[string]float64{
			metrics.CPUTimeMs:      10_000,
			metrics.CPUPercentage:  100,
			metrics.MemoryRSS:      1 << 30,
			metrics.MemoryHeapUsed: 512 << 20,
			metrics.MemoryExternal: 256 << 20,
			metrics.SentBytes:      10 << 20,
			metrics.ReceivedBytes:  10 << 20,
			metrics.WallTimeMs:     10_000,
		},
	}
}

// Estimate computes the gas score for a record. Each weighted metric is
// divided by its ceiling and multiplied by its weight; metrics without a
// positive ceiling contribute zero. Negative deltas (freed memory) flow
// through unclamped and lower the score.
func (p Policy) Estimate(rec metrics.Record) float64 {
	var gas float64
	for name, weight := range p.Weights {
		ceiling := p.Ceilings[name]
		if ceiling <= 0 {
			continue
		}
		gas += weight * (rec.Value(name) / ceiling)
	}

	return gas
}

// Validate reports whether the policy is usable: no negative weights, and a
// positive ceiling for every metric carrying a positive weight.
func (p Policy) Validate() error {
	for name, weight := range p.Weights {
		if weight < 0 {
			return fmt.Errorf("%w: %s", errNegativeWeight, name)
		}
		if weight > 0 && p.Ceilings[name] <= 0 {
			return fmt.Errorf("%w: %s", errNoCeiling, name)
		}
	}

	return nil
}
