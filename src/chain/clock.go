package chain

import "time"

// Clock provides the local monotonic timestamps, in milliseconds, used to
// stamp blocks and existence proofs on arrival. These timestamps are a local
// heuristic: they never leave the process and are not consensus-binding.
type Clock interface {
	NowMs() int64
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock based on the process's monotonic time
// source.
func NewMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) NowMs() int64 {
	// Strictly positive: 0 is reserved to mean "not stamped".
	return int64(time.Since(c.start)/time.Millisecond) + 1
}

// FakeClock is a manually advanced Clock for tests.
type FakeClock struct {
	Time int64
}

// NowMs ...
func (c *FakeClock) NowMs() int64 {
	return c.Time
}

// Advance moves the fake clock forward by ms milliseconds.
func (c *FakeClock) Advance(ms int64) {
	c.Time += ms
}
