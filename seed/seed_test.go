package seed

import (
	"testing"
	"time"
)

func TestMixDeterministic(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 15, 123456789, time.UTC)
	a := Mix(now, 3, 77)
	if a != Mix(now, 3, 77) {
		t.Fatal("Mix is not deterministic")
	}
	if a < 0 || a > 0x7fffffff {
		t.Fatalf("seed %d out of range", a)
	}
	if Mix(now, 4, 77) == a {
		t.Fatal("rank does not affect the seed")
	}
	if Mix(now, 3, 78) == a {
		t.Fatal("counter does not affect the seed")
	}
}

func TestNewDiffersWithinTick(t *testing.T) {
	now := time.Now()
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		s := New(now, 0)
		if s < 0 {
			t.Fatalf("negative seed %d", s)
		}
		if seen[s] {
			t.Fatalf("seed %d repeated", s)
		}
		seen[s] = true
	}
}

func TestMake(t *testing.T) {
	if s := Make(); s < 0 {
		t.Fatalf("Make() = %d", s)
	}
}
