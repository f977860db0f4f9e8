// Package lineindex maps logical line numbers to their starting UTF-16 offset
// for the gutter.
package lineindex

import (
	"sort"
	"sync"
	"unicode/utf16"
)

// Build returns the start offset of every logical line. The first entry is
// always 0 and the offsets are strictly increasing.
func Build(text string) []int {
	offsets := make([]int, 1, 64)
	unit := 0
	for _, r := range text {
		unit += utf16.RuneLen(r)
		if r == '\n' {
			offsets = append(offsets, unit)
		}
	}
	return offsets
}

// Cache holds the offsets of the current document. The rebuild runs on the
// background worker while drawing reads from the UI goroutine, so both sides
// go through the mutex.
type Cache struct {
	mu      sync.Mutex
	offsets []int
}

func NewCache() *Cache {
	return &Cache{offsets: []int{0}}
}

// Rebuild scans text and replaces the cached offsets.
func (c *Cache) Rebuild(text string) []int {
	offsets := Build(text)
	c.Store(offsets)
	return offsets
}

// Store replaces the cached offsets with a precomputed index.
func (c *Cache) Store(offsets []int) {
	if len(offsets) == 0 {
		offsets = []int{0}
	}
	c.mu.Lock()
	c.offsets = offsets
	c.mu.Unlock()
}

// snapshot returns the current slice. Slices are never mutated after Store,
// so the caller may search it without holding the lock.
func (c *Cache) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsets
}

// Offsets returns a copy of the cached offsets.
func (c *Cache) Offsets() []int {
	s := c.snapshot()
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func (c *Cache) LineCount() int {
	return len(c.snapshot())
}

// FindLine returns the greatest line index i with offsets[i] <= offset.
// Offsets before the document start map to line 0.
func (c *Cache) FindLine(offset int) int {
	return Find(c.snapshot(), offset)
}

// Find is FindLine over an explicit offsets slice.
func Find(offsets []int, offset int) int {
	// First index whose start is past offset; the line is the one before it.
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}
