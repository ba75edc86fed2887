package metrics_test

import (
	"context"
	"testing"

	"github.com/Dlordkendex/gas2nel/pkg/metrics"
	"github.com/stretchr/testify/assert"
)

func TestRecordValue(t *testing.T) {
	t.Parallel()

	rec := metrics.Record{
		CPUTimeMs:      1,
		CPUPercentage:  2,
		MemoryRSS:      3,
		MemoryHeapUsed: 4,
		MemoryExternal: 5,
		SentBytes:      6,
		ReceivedBytes:  7,
		WallTimeMs:     8,
		FileReadBytes:  9,
		FileWriteBytes: 10,
	}

	cases := []struct {
		desc string
		name string
		want float64
	}{
		{desc: "cpu time", name: metrics.CPUTimeMs, want: 1},
		{desc: "cpu percentage", name: metrics.CPUPercentage, want: 2},
		{desc: "rss", name: metrics.MemoryRSS, want: 3},
		{desc: "heap", name: metrics.MemoryHeapUsed, want: 4},
		{desc: "external", name: metrics.MemoryExternal, want: 5},
		{desc: "sent", name: metrics.SentBytes, want: 6},
		{desc: "received", name: metrics.ReceivedBytes, want: 7},
		{desc: "wall time", name: metrics.WallTimeMs, want: 8},
		{desc: "file read", name: metrics.FileReadBytes, want: 9},
		{desc: "file write", name: metrics.FileWriteBytes, want: 10},
		{desc: "unknown metric contributes zero", name: "threadCount", want: 0},
		{desc: "empty name contributes zero", name: "", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, rec.Value(tc.name))
		})
	}
}

func TestCollectorSnapshot(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	s := c.Collect(context.Background())

	assert.False(t, s.Taken.IsZero(), "snapshot must carry its instant")
	assert.NotZero(t, s.HeapUsed, "a running Go process always has live heap")
}

func TestCollectorMonotonicWallClock(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector()
	first := c.Collect(context.Background())
	second := c.Collect(context.Background())

	assert.False(t, second.Taken.Before(first.Taken))
	assert.GreaterOrEqual(t, second.CPUTime, first.CPUTime)
}
