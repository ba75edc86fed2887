package metrics

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot captures the process resource figures at one instant. The capture
// runner takes one before and one after the operation and works on deltas.
type Snapshot struct {
	CPUTime  time.Duration
	RSS      uint64
	HeapUsed uint64
	External uint64
	Taken    time.Time
}

// Collector produces process snapshots. Collection is best effort: fields
// the platform cannot account for stay zero, they never abort a measurement.
type Collector interface {
	Collect(ctx context.Context) Snapshot
}

type processCollector struct {
	proc *process.Process
}

// NewCollector returns a collector for the current process. It prefers the
// gopsutil accessors and falls back to /proc/self/stat where those fail.
func NewCollector() Collector {
	c := &processCollector{}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		c.proc = proc
	}

	return c
}

func (c *processCollector) Collect(ctx context.Context) Snapshot {
	s := Snapshot{Taken: time.Now()}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapUsed = ms.HeapAlloc
	if ms.Sys > ms.HeapSys {
		s.External = ms.Sys - ms.HeapSys
	}

	if c.proc != nil {
		if times, err := c.proc.TimesWithContext(ctx); err == nil {
			s.CPUTime = time.Duration((times.User + times.System) * float64(time.Second))
		}
		if mem, err := c.proc.MemoryInfoWithContext(ctx); err == nil {
			s.RSS = mem.RSS
		}
	}

	if s.CPUTime == 0 || s.RSS == 0 {
		if ut, st, rss, ok := readProcSelfStat(); ok {
			if s.CPUTime == 0 {
				const hz = 100
				s.CPUTime = time.Duration(ut+st) * time.Second / hz
			}
			if s.RSS == 0 {
				s.RSS = rss
			}
		}
	}

	return s
}

func readProcSelfStat() (utime, stime, rssBytes uint64, ok bool) {
	b, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return
	}
	s := string(b)
	rp := strings.LastIndexByte(s, ')')
	if rp < 0 {
		return
	}
	fields := strings.Fields(s[rp+2:])
	if len(fields) < 22 {
		return
	}

	utime, _ = strconv.ParseUint(fields[11], 10, 64)
	stime, _ = strconv.ParseUint(fields[12], 10, 64)
	rssPages, _ := strconv.ParseInt(fields[21], 10, 64)

	return utime, stime, uint64(rssPages) * uint64(os.Getpagesize()), true
}
