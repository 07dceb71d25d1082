package jump

import "testing"

func TestAdvanceMatchesStepping(t *testing.T) {
	const mask = 1<<48 - 1
	for _, c := range []struct {
		a, c, x uint64
	}{
		{0x2875a2e7b175, 11863279, 0x2bc68cfe166d},
		{0x27bb2ee687b0b0fd, 3037000493, 0x2bc6ffff8cfe166d},
		{5, 0, 1},
		{1, 1, 0},
	} {
		x := c.x
		for n := uint64(0); n < 300; n++ {
			if got := Advance(c.x, c.a, c.c, n); got != x {
				t.Fatalf("a=%x c=%d n=%d: got %x, want %x", c.a, c.c, n, got, x)
			}
			if got := Advance(c.x, c.a, c.c, n) & mask; got != x&mask {
				t.Fatalf("masked mismatch at n=%d", n)
			}
			x = x*c.a + c.c
		}
	}
}

func TestAffineCompose(t *testing.T) {
	a, c := uint64(0x5deece66d), uint64(11)
	A1, C1 := Affine(a, c, 1000)
	A2, C2 := Affine(a, c, 2000)
	// applying the 1000-step map twice is the 2000-step map
	if A1*A1 != A2 || A1*C1+C1 != C2 {
		t.Fatal("1000+1000 != 2000")
	}
}
