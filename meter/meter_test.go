package meter_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/operation"
	"github.com/Dlordkendex/gas2nel/pkg/estimator"
	"github.com/Dlordkendex/gas2nel/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepOp(d time.Duration) operation.Operation {
	return operation.FromFunc(func(ctx context.Context) (any, error) {
		time.Sleep(d)

		return nil, nil
	})
}

func TestEstimateGasSuccess(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{})
	res := m.EstimateGas(context.Background(), sleepOp(50*time.Millisecond))

	assert.True(t, res.Success)
	assert.Greater(t, res.Gas, 0.0, "wall time alone contributes")
	assert.Nil(t, res.Metric)
	assert.Nil(t, res.Report)

	counts := m.Counters()
	assert.Zero(t, counts.SentBytes)
	assert.Zero(t, counts.ReceivedBytes)
}

func TestEstimateGasFailure(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{Include: []string{meter.IncludeMetric, meter.IncludeReport}})
	res := m.EstimateGas(context.Background(), operation.FromFunc(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)

		return nil, errors.New("Test error")
	}))

	assert.False(t, res.Success)
	assert.Equal(t, "Test error", res.Data)
	assert.Greater(t, res.Gas, 0.0, "partial execution is still real cost")
	require.NotNil(t, res.Metric, "includes are honored on the failure path too")
	require.NotNil(t, res.Report)
	assert.Greater(t, res.Metric.WallTimeMs, 0.0)
}

func TestEstimateGasIncludeFlags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc       string
		include    []string
		wantMetric bool
		wantReport bool
	}{
		{desc: "omitted", include: nil},
		{desc: "empty", include: []string{}},
		{desc: "metric only", include: []string{"metric"}, wantMetric: true},
		{desc: "report only", include: []string{"report"}, wantReport: true},
		{desc: "both", include: []string{"metric", "report"}, wantMetric: true, wantReport: true},
		{desc: "unrecognized flags are ignored", include: []string{"trace", "flamegraph"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			m := meter.New(meter.Options{Include: tc.include})
			res := m.EstimateGas(context.Background(), sleepOp(time.Millisecond))

			assert.Equal(t, tc.wantMetric, res.Metric != nil)
			assert.Equal(t, tc.wantReport, res.Report != nil)
		})
	}
}

func TestResultJSONOmitsUnrequestedSections(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{})
	res := m.EstimateGas(context.Background(), sleepOp(time.Millisecond))

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	if _, ok := raw["metric"]; ok {
		t.Error("metric should be omitted when not included")
	}
	if _, ok := raw["report"]; ok {
		t.Error("report should be omitted when not included")
	}
	for _, key := range []string{"success", "data", "gas"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("%s should always be present", key)
		}
	}
}

func TestCalculateMetricsNeverFails(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{})
	rec := m.CalculateMetrics(context.Background(), func(ctx context.Context, ins *instrument.Instruments) (any, error) {
		panic("operation blew up")
	})

	assert.GreaterOrEqual(t, rec.WallTimeMs, 0.0)
	assert.Zero(t, rec.SentBytes)
}

func TestResetZeroesCounters(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{})
	path := filepath.Join(t.TempDir(), "f")

	m.CalculateMetrics(context.Background(), func(ctx context.Context, ins *instrument.Instruments) (any, error) {
		return nil, ins.WriteFile(path, make([]byte, 256), 0o644)
	})
	require.Equal(t, int64(256), m.Counters().FileWriteBytes)

	m.Reset()
	m.Reset() // idempotent

	counts := m.Counters()
	assert.Zero(t, counts.SentBytes)
	assert.Zero(t, counts.ReceivedBytes)
	assert.Zero(t, counts.FileReadBytes)
	assert.Zero(t, counts.FileWriteBytes)
}

func TestSetOptionsMergesAndChains(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{Include: []string{meter.IncludeMetric}})

	// Unspecified fields keep their prior value.
	svc := m.SetOptions(meter.Options{})
	res := svc.EstimateGas(context.Background(), sleepOp(time.Millisecond))
	assert.NotNil(t, res.Metric)

	res = svc.SetOptions(meter.Options{Include: []string{}}).
		EstimateGas(context.Background(), sleepOp(time.Millisecond))
	assert.Nil(t, res.Metric)
}

func TestSetPolicyChangesScoring(t *testing.T) {
	t.Parallel()

	heavy := estimator.Policy{
		Weights:  map[string]float64{"wallTimeMs": 1},
		Ceilings: map[string]float64{"wallTimeMs": 1},
	}

	m := meter.New(meter.Options{})
	res := m.SetPolicy(heavy).EstimateGas(context.Background(), sleepOp(20*time.Millisecond))

	assert.Greater(t, res.Gas, 10.0, "20ms against a 1ms ceiling scores well above 10")
}

// Two overlapping invocations on one Meter are serialized, so each record
// carries exactly its own bytes.
func TestOverlappingInvocationsAreSerialized(t *testing.T) {
	t.Parallel()

	m := meter.New(meter.Options{})
	dir := t.TempDir()

	writeOp := func(name string, size int) operation.Operation {
		return func(ctx context.Context, ins *instrument.Instruments) (any, error) {
			time.Sleep(5 * time.Millisecond)

			return size, ins.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644)
		}
	}

	var wg sync.WaitGroup
	var first, second float64
	wg.Add(2)
	go func() {
		defer wg.Done()
		first = m.CalculateMetrics(context.Background(), writeOp("a", 100)).FileWriteBytes
	}()
	go func() {
		defer wg.Done()
		second = m.CalculateMetrics(context.Background(), writeOp("b", 200)).FileWriteBytes
	}()
	wg.Wait()

	assert.Equal(t, 100.0, first)
	assert.Equal(t, 200.0, second)
}

func TestBatchIsolatesInvocations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sizes := []int{128, 256, 512}
	ops := make([]operation.Operation, len(sizes))
	for i, size := range sizes {
		size := size
		name := filepath.Join(dir, string(rune('a'+i)))
		ops[i] = func(ctx context.Context, ins *instrument.Instruments) (any, error) {
			return nil, ins.WriteFile(name, make([]byte, size), 0o644)
		}
	}

	results, err := meter.Batch(context.Background(), meter.Options{Include: []string{meter.IncludeMetric}}, ops)
	require.NoError(t, err)
	require.Len(t, results, len(sizes))

	for i, res := range results {
		assert.True(t, res.Success)
		require.NotNil(t, res.Metric)
		assert.Equal(t, float64(sizes[i]), res.Metric.FileWriteBytes)
	}
}

func TestBatchCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := meter.Batch(ctx, meter.Options{}, []operation.Operation{sleepOp(time.Millisecond)})
	assert.ErrorIs(t, err, context.Canceled)
}
