package period

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tutils/sprng/counter"
)

// Counter is a counter.Counter that also tracks its growth rate.
type Counter interface {
	counter.Counter

	// RatePerSec is the growth rate over the last completed period.
	RatePerSec() int64
	// AverageRatePerSec is the growth rate since creation or the last Reset.
	AverageRatePerSec() int64
}

var _ Counter = &periodCounter{}

type periodCounter struct {
	value      int64
	period     time.Duration
	ratePerSec int64

	mut       sync.Mutex
	epoch     time.Time
	lastValue int64
	lastTime  time.Time
}

// NewPeriodCounter returns a counter whose rate is refreshed at most once per period.
func NewPeriodCounter(period time.Duration) Counter {
	now := time.Now()
	c := &periodCounter{
		period:   period,
		epoch:    now,
		lastTime: now,
	}
	return c
}

// Value implements Counter.
func (c *periodCounter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// RatePerSec implements Counter.
func (c *periodCounter) RatePerSec() int64 {
	return atomic.LoadInt64(&c.ratePerSec)
}

// AverageRatePerSec implements Counter.
func (c *periodCounter) AverageRatePerSec() int64 {
	c.mut.Lock()
	elapsed := time.Since(c.epoch)
	c.mut.Unlock()
	if elapsed <= 0 {
		return 0
	}
	return int64(float64(c.Value()) / elapsed.Seconds())
}

// Add implements Counter.
func (c *periodCounter) Add(delta int64) int64 {
	v := atomic.AddInt64(&c.value, delta)
	c.check()
	return v
}

// Reset implements Counter.
func (c *periodCounter) Reset() {
	c.mut.Lock()
	defer c.mut.Unlock()
	now := time.Now()
	atomic.StoreInt64(&c.value, 0)
	atomic.StoreInt64(&c.ratePerSec, 0)
	c.epoch = now
	c.lastTime = now
	c.lastValue = 0
}

func (c *periodCounter) check() {
	c.mut.Lock()
	defer c.mut.Unlock()

	elapsed := time.Since(c.lastTime)
	if elapsed < c.period {
		return
	}

	now := time.Now()
	value := c.Value()
	atomic.StoreInt64(&c.ratePerSec, int64(float64(value-c.lastValue)/elapsed.Seconds()))
	c.lastValue = value
	c.lastTime = now
}
