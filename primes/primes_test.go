package primes

import (
	"errors"
	"sync"
	"testing"
)

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// naive lists the first n primes in (min, max] in descending order.
func naive(max, min uint64, n int) []uint32 {
	var ps []uint32
	for v := max; v > min && len(ps) < n; v-- {
		if isPrime(v) {
			ps = append(ps, uint32(v))
		}
	}
	return ps
}

func TestPrime32Known(t *testing.T) {
	for _, c := range []struct {
		offset int
		want   uint32
	}{
		{0, 11863279},
		{4, 11863237},
		{9, 11863153},
	} {
		got, err := Prime32(c.offset)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Prime32(%d) = %d, want %d", c.offset, got, c.want)
		}
	}
}

func TestPrime64Known(t *testing.T) {
	for _, c := range []struct {
		offset int
		want   uint32
	}{
		{0, 3037000493},
		{4, 3037000399},
		{9, 3037000289},
	} {
		got, err := Prime64(c.offset)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Prime64(%d) = %d, want %d", c.offset, got, c.want)
		}
	}
}

func TestPrimes32MatchesTrialDivision(t *testing.T) {
	want := naive(Max32, Min32, 2*Step32+5)
	got, err := Primes32(len(want), 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offset %d: got %d, want %d", i, got[i], want[i])
		}
	}
	// lookups that land on and around checkpoints
	for _, off := range []int{Step32 - 1, Step32, Step32 + 1, 2 * Step32, 2*Step32 + 4} {
		p, err := Prime32(off)
		if err != nil {
			t.Fatal(err)
		}
		if p != want[off] {
			t.Errorf("Prime32(%d) = %d, want %d", off, p, want[off])
		}
	}
}

func TestSmallTable(t *testing.T) {
	want := naive(1000, 31, 1000)
	if len(want) != 157 {
		t.Fatalf("expected 157 primes in (31, 1000], got %d", len(want))
	}
	tab := NewTable(1000, 31, 1000, 7)
	for i, w := range want {
		p, err := tab.Prime(i)
		if err != nil {
			t.Fatalf("offset %d: %v", i, err)
		}
		if p != w {
			t.Fatalf("offset %d: got %d, want %d", i, p, w)
		}
	}
	if _, err := tab.Prime(len(want)); !errors.Is(err, ErrOffset) {
		t.Fatalf("exhausted table: got %v", err)
	}
}

func TestOffsetOutOfRange(t *testing.T) {
	if _, err := Prime32(MaxOffset32 + 1); !errors.Is(err, ErrOffset) {
		t.Fatalf("Prime32 past end: got %v", err)
	}
	if _, err := Prime64(-1); !errors.Is(err, ErrOffset) {
		t.Fatalf("Prime64(-1): got %v", err)
	}
	if _, err := Primes32(2, MaxOffset32); !errors.Is(err, ErrOffset) {
		t.Fatalf("Primes32 straddling end: got %v", err)
	}
}

func TestConcurrentLookup(t *testing.T) {
	tab := NewTable(50000, 223, 4000, 50)
	want := naive(50000, 223, 600)
	var wg sync.WaitGroup
	errc := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := g; i < len(want); i += 8 {
				p, err := tab.Prime(i)
				if err != nil {
					errc <- err
					return
				}
				if p != want[i] {
					errc <- errors.New("mismatch")
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Fatal(err)
	}
}

func TestIsqrt(t *testing.T) {
	for _, n := range []uint64{0, 1, 3, 4, 15, 16, 17, Max32, Max64} {
		r := isqrt(n)
		if r*r > n || (r+1)*(r+1) <= n {
			t.Errorf("isqrt(%d) = %d", n, r)
		}
	}
}
