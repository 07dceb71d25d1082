// Package primes hands out the primes used as per-stream addends by the
// congruential generators.
//
// A table lists the primes in (min, max] in descending order, so offset 0 is
// the largest prime not above max. Lookups are deterministic across runs and
// processes. Checkpoints (the prime at every step-th offset) are sieved
// lazily and kept for the life of the process.
package primes

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrOffset is returned for offsets past the end of a table.
var ErrOffset = errors.New("primes: offset out of range")

const segmentSize = 1 << 15

// Table is a lazily built descending prime table.
type Table struct {
	max, min  uint64
	maxOffset int
	step      int

	seedOnce sync.Once
	seeds    []uint64

	mu    sync.RWMutex
	marks []uint64
}

// NewTable returns a table of the primes in (min, max], valid for offsets
// 0..maxOffset, checkpointed every step primes.
func NewTable(max, min uint64, maxOffset, step int) *Table {
	if step < 1 {
		step = 1
	}
	return &Table{
		max:       max,
		min:       min,
		maxOffset: maxOffset,
		step:      step,
	}
}

// MaxOffset returns the last valid offset.
func (t *Table) MaxOffset() int {
	return t.maxOffset
}

// Prime returns the prime at offset.
func (t *Table) Prime(offset int) (uint32, error) {
	if offset < 0 || offset > t.maxOffset {
		return 0, errors.Wrapf(ErrOffset, "offset %d not in [0, %d]", offset, t.maxOffset)
	}
	mark, err := t.mark(offset / t.step)
	if err != nil {
		return 0, errors.WithMessagef(err, "offset %d", offset)
	}
	r := offset % t.step
	if r == 0 {
		return uint32(mark), nil
	}
	p, ok := t.below(mark, r-1)
	if !ok {
		return 0, errors.Wrapf(ErrOffset, "table exhausted at offset %d", offset)
	}
	return uint32(p), nil
}

// Primes returns n consecutive primes starting at offset.
func (t *Table) Primes(n, offset int) ([]uint32, error) {
	if n <= 0 {
		return nil, nil
	}
	if offset+n-1 > t.maxOffset {
		return nil, errors.Wrapf(ErrOffset, "offset %d not in [0, %d]", offset+n-1, t.maxOffset)
	}
	first, err := t.Prime(offset)
	if err != nil {
		return nil, err
	}
	ps := make([]uint32, 0, n)
	ps = append(ps, first)
	p := uint64(first)
	for len(ps) < n {
		var ok bool
		if p, ok = t.below(p, 0); !ok {
			return nil, errors.Wrapf(ErrOffset, "table exhausted at offset %d", offset+len(ps))
		}
		ps = append(ps, uint32(p))
	}
	return ps, nil
}

// mark returns the prime at offset k*step, sieving any missing checkpoints.
func (t *Table) mark(k int) (uint64, error) {
	t.mu.RLock()
	if k < len(t.marks) {
		p := t.marks[k]
		t.mu.RUnlock()
		return p, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.marks) == 0 {
		p, ok := t.below(t.max+1, 0)
		if !ok {
			return 0, errors.Wrap(ErrOffset, "table is empty")
		}
		t.marks = append(t.marks, p)
	}
	for len(t.marks) <= k {
		p, ok := t.below(t.marks[len(t.marks)-1], t.step-1)
		if !ok {
			return 0, errors.Wrapf(ErrOffset, "table exhausted before checkpoint %d", k)
		}
		t.marks = append(t.marks, p)
	}
	return t.marks[k], nil
}

// below returns the (n+1)-th prime strictly less than from and greater than
// min, scanning downward one sieve segment at a time.
func (t *Table) below(from uint64, n int) (uint64, bool) {
	seeds := t.seedPrimes()
	composite := make([]bool, segmentSize)
	hi := from
	for hi > t.min+1 {
		lo := t.min + 1
		if hi-lo > segmentSize {
			lo = hi - segmentSize
		}
		sieve(seeds, lo, hi, composite[:hi-lo])
		for v := hi - 1; v >= lo; v-- {
			if v < 2 || composite[v-lo] {
				continue
			}
			if n == 0 {
				return v, true
			}
			n--
		}
		hi = lo
	}
	return 0, false
}

// sieve marks the composites in [lo, hi).
func sieve(seeds []uint64, lo, hi uint64, composite []bool) {
	for i := range composite {
		composite[i] = false
	}
	for _, p := range seeds {
		if p*p >= hi {
			break
		}
		start := (lo + p - 1) / p * p
		if start < p*p {
			start = p * p
		}
		for m := start; m < hi; m += p {
			composite[m-lo] = true
		}
	}
}

// seedPrimes returns every prime up to sqrt(max) by trial division.
func (t *Table) seedPrimes() []uint64 {
	t.seedOnce.Do(func() {
		limit := isqrt(t.max)
		t.seeds = []uint64{2}
		for c := uint64(3); c <= limit; c += 2 {
			prime := true
			for _, p := range t.seeds {
				if p*p > c {
					break
				}
				if c%p == 0 {
					prime = false
					break
				}
			}
			if prime {
				t.seeds = append(t.seeds, c)
			}
		}
	})
	return t.seeds
}

func isqrt(n uint64) uint64 {
	r := uint64(0)
	for bit := uint64(1) << 31; bit > 0; bit >>= 1 {
		if c := r | bit; c*c <= n {
			r = c
		}
	}
	return r
}
