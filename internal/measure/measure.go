// Package measure keeps a process-global map of named counters that the
// drill loop bumps and the analysis tooling snapshots.
package measure

import "sync"

// Counters is a mutex-guarded map of named uint64 counters.
type Counters struct {
	mu sync.Mutex
	m  map[string]uint64
}

// Global is the process-wide counter set.
var Global = &Counters{m: make(map[string]uint64)}

// Add bumps the named counter by n.
func (c *Counters) Add(name string, n uint64) {
	c.mu.Lock()
	c.m[name] += n
	c.mu.Unlock()
}

// Get returns the current value of the named counter.
func (c *Counters) Get(name string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[name]
}

// SnapshotAndReset returns the counter map and clears it.
func (c *Counters) SnapshotAndReset() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.m
	c.m = make(map[string]uint64)
	return out
}

// Add bumps the named counter on the global set.
func Add(name string, n uint64) {
	Global.Add(name, n)
}
