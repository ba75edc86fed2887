package instrument

// Instruments is the instrumentation context handed to an operation under
// measurement. It hands out counting wrappers for outbound HTTP, raw network
// connections, and file reads/writes, all of which tally into one set of
// invocation counters.
type Instruments struct {
	counters *Counters
}

// New returns an Instruments with its own fresh counters.
func New() *Instruments {
	return Attach(&Counters{})
}

// Attach returns an Instruments tallying into the given counters. The capture
// runner uses it to wire a meter-owned counter set into one invocation.
func Attach(c *Counters) *Instruments {
	return &Instruments{counters: c}
}

// Counters exposes the invocation counters for reading.
func (i *Instruments) Counters() *Counters {
	return i.counters
}
