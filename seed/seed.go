// Package seed makes fresh 31-bit seeds from the clock and the process rank.
package seed

import (
	"sync/atomic"
	"time"

	"github.com/tutils/sprng/rank"
)

const counterMult = 0xeeee

// counter changes on every call so seeds made within one clock tick differ.
var counter uint64 = 0xe0e1

// New mixes a time and a rank id into a non-negative 31-bit seed. The result
// also depends on how many seeds this process made before.
func New(t time.Time, id int) int {
	for {
		c := atomic.LoadUint64(&counter)
		next := c * counterMult % 0xffffffff
		if atomic.CompareAndSwapUint64(&counter, c, next) {
			return Mix(t, id, next)
		}
	}
}

// Mix is the deterministic part of New.
func Mix(t time.Time, id int, count uint64) int {
	tm := uint64(t.Second()) | uint64(t.Minute())<<6 | uint64(t.Hour())<<12 |
		uint64(t.YearDay())<<17 | uint64(t.Nanosecond()/1000)<<26
	s := tm ^ count<<8 ^ uint64(id)<<1 ^ uint64(t.UnixNano())
	s ^= s >> 31
	return int(s & 0x7fffffff)
}

// Make returns a seed for this process from the current time and its rank.
func Make() int {
	r, _ := rank.Discover()
	return New(time.Now(), r)
}
