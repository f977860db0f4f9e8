// Package version provides the per-session edit counter used to invalidate
// stale background results.
package version

import "sync"

// Counter is a monotonic counter owned by one editor session.
// It is safe to use from the UI goroutine and the background worker.
type Counter struct {
	mu sync.Mutex
	v  uint64
}

// Bump increments the counter and returns the new value.
func (c *Counter) Bump() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v++
	return c.v
}

func (c *Counter) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// IsCurrent reports whether v is still the latest version.
func (c *Counter) IsCurrent(v uint64) bool {
	return c.Current() == v
}

// RunIfCurrent calls fn while holding the counter if v is still current, so
// no Bump can interleave with fn. It reports whether fn ran.
func (c *Counter) RunIfCurrent(v uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v != v {
		return false
	}
	fn()
	return true
}
