// Package instrument provides per-invocation byte accounting for network and
// file activity. An operation under measurement receives an Instruments value
// and performs its I/O through the counting wrappers it hands out; nothing
// global is replaced, so independent invocations never share state.
package instrument

import "sync/atomic"

// Counts is a point-in-time view of the invocation counters.
type Counts struct {
	SentBytes      int64
	ReceivedBytes  int64
	FileReadBytes  int64
	FileWriteBytes int64
}

// Counters accumulates bytes observed by the interception wrappers during one
// invocation. All methods are safe for concurrent use; the wrappers fire from
// whatever goroutines the operation performs I/O on.
type Counters struct {
	sent      atomic.Int64
	received  atomic.Int64
	fileRead  atomic.Int64
	fileWrite atomic.Int64
}

// Reset zeroes all counters. The capture runner calls it at the start of
// every invocation.
func (c *Counters) Reset() {
	c.sent.Store(0)
	c.received.Store(0)
	c.fileRead.Store(0)
	c.fileWrite.Store(0)
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Counts {
	return Counts{
		SentBytes:      c.sent.Load(),
		ReceivedBytes:  c.received.Load(),
		FileReadBytes:  c.fileRead.Load(),
		FileWriteBytes: c.fileWrite.Load(),
	}
}

func (c *Counters) addSent(n int64) {
	if n > 0 {
		c.sent.Add(n)
	}
}

func (c *Counters) addReceived(n int64) {
	if n > 0 {
		c.received.Add(n)
	}
}

func (c *Counters) addFileRead(n int64) {
	if n > 0 {
		c.fileRead.Add(n)
	}
}

func (c *Counters) addFileWrite(n int64) {
	if n > 0 {
		c.fileWrite.Add(n)
	}
}
