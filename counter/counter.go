// Package counter provides cumulative metrics safe for concurrent use.
package counter

import "sync/atomic"

// Counter is a cumulative metric
type Counter interface {
	Value() int64
	Add(delta int64) int64
	Reset()
}

var _ Counter = &atomicCounter{}

type atomicCounter struct {
	value int64
}

// New returns a zeroed Counter.
func New() Counter {
	return &atomicCounter{}
}

// Value implements Counter.
func (c *atomicCounter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Add implements Counter.
func (c *atomicCounter) Add(delta int64) int64 {
	return atomic.AddInt64(&c.value, delta)
}

// Reset implements Counter.
func (c *atomicCounter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}
