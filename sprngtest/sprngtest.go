// Package sprngtest provides contract checks for sprng.Generator
// implementations.
package sprngtest

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tutils/sprng"
)

// NewFunc constructs an uninitialized generator.
type NewFunc func(opts ...sprng.Option) sprng.Generator

// NewRegistry returns a registry whose warnings are captured in the buffer.
func NewRegistry() (*sprng.Registry, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return sprng.NewRegistry(zerolog.New(buf)), buf
}

// Draws is the number of draws compared by the determinism check.
var Draws = 1000000

// Conformance runs the checks every generator must pass. params is the
// number of valid parameters of typ.
func Conformance(t *testing.T, typ sprng.Type, params int, newGen NewFunc) {
	t.Run("Determinism", func(t *testing.T) { determinism(t, newGen) })
	t.Run("Range", func(t *testing.T) { outputRange(t, newGen) })
	t.Run("RoundTrip", func(t *testing.T) { roundTrip(t, typ, newGen) })
	t.Run("Reject", func(t *testing.T) { reject(t, typ, newGen) })
	t.Run("Spawn", func(t *testing.T) { spawn(t, typ, newGen) })
	t.Run("DistinctStreams", func(t *testing.T) { distinct(t, newGen) })
	t.Run("Uncorrelated", func(t *testing.T) { uncorrelated(t, params, newGen) })
	t.Run("InitArguments", func(t *testing.T) { initArguments(t, typ, newGen) })
	t.Run("Registry", func(t *testing.T) { registry(t, typ, newGen) })
}

// MustInit returns a generator initialized with the given arguments.
func MustInit(t *testing.T, newGen NewFunc, index, count, seed, param int, opts ...sprng.Option) sprng.Generator {
	t.Helper()
	g := newGen(opts...)
	if err := g.Init(index, count, seed, param); err != nil {
		t.Fatalf("Init(%d, %d, %d, %d): %v", index, count, seed, param, err)
	}
	return g
}

func determinism(t *testing.T, newGen NewFunc) {
	reg, _ := NewRegistry()
	for _, c := range [][4]int{{0, 1, 1, 0}, {3, 8, 985456376, 1}, {1, 2, 0x7fffffff, 0}} {
		a := MustInit(t, newGen, c[0], c[1], c[2], c[3], sprng.WithRegistry(reg))
		b := MustInit(t, newGen, c[0], c[1], c[2], c[3], sprng.WithRegistry(reg))
		for i := 0; i < Draws; i++ {
			var x, y float64
			switch i % 3 {
			case 0:
				x, y = float64(a.Int()), float64(b.Int())
			case 1:
				x, y = float64(a.Float32()), float64(b.Float32())
			default:
				x, y = a.Float64(), b.Float64()
			}
			if x != y {
				t.Fatalf("%v: draw %d differs: %v != %v", c, i, x, y)
			}
		}
	}
}

func outputRange(t *testing.T, newGen NewFunc) {
	reg, _ := NewRegistry()
	g := MustInit(t, newGen, 2, 5, 12345, 0, sprng.WithRegistry(reg))
	var sum float64
	const n = 100000
	for i := 0; i < n; i++ {
		if v := g.Int(); v < 0 || v > 0x7fffffff {
			t.Fatalf("Int() = %d", v)
		}
		if v := g.Float32(); v < 0 || v >= 1 {
			t.Fatalf("Float32() = %v", v)
		}
		v := g.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v", v)
		}
		sum += v
	}
	if mean := sum / n; mean < 0.49 || mean > 0.51 {
		t.Errorf("mean of Float64 draws = %v", mean)
	}
}

func roundTrip(t *testing.T, typ sprng.Type, newGen NewFunc) {
	reg, _ := NewRegistry()
	g := MustInit(t, newGen, 1, 3, 98765, 1, sprng.WithRegistry(reg))
	for i := 0; i < 1000; i++ {
		g.Int()
	}
	packed, err := g.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if int(packed[3]) != int(typ) || packed[0]|packed[1]|packed[2] != 0 {
		t.Fatalf("packed state starts with % x, want type %d", packed[:4], typ)
	}

	r := newGen(sprng.WithRegistry(reg))
	if err := r.UnmarshalBinary(packed); err != nil {
		t.Fatal(err)
	}
	if r.String() != g.String() {
		t.Fatalf("describe differs:\n%s\n%s", r, g)
	}
	if r.Seed() != g.Seed() {
		t.Fatalf("seed %d != %d", r.Seed(), g.Seed())
	}
	repacked, err := r.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(packed, repacked) {
		t.Fatal("repacked state differs")
	}
	for i := 0; i < 10000; i++ {
		if a, b := g.Float64(), r.Float64(); a != b {
			t.Fatalf("draw %d after restore: %v != %v", i, a, b)
		}
	}

	// spawned children of the restored stream match those of the original
	gc, err := g.Spawn(2)
	if err != nil {
		t.Fatal(err)
	}
	rc, err := r.Spawn(2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range gc {
		for j := 0; j < 100; j++ {
			if a, b := gc[i].Int(), rc[i].Int(); a != b {
				t.Fatalf("child %d draw %d: %d != %d", i, j, a, b)
			}
		}
	}
}

func reject(t *testing.T, typ sprng.Type, newGen NewFunc) {
	reg, _ := NewRegistry()
	g := MustInit(t, newGen, 0, 1, 42, 0, sprng.WithRegistry(reg))
	packed, err := g.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	target := MustInit(t, newGen, 0, 2, 7, 0, sprng.WithRegistry(reg))
	before, _ := target.MarshalBinary()
	check := func(name string, data []byte, want error) {
		t.Helper()
		err := target.UnmarshalBinary(data)
		if err == nil {
			t.Fatalf("%s: accepted", name)
		}
		if want != nil && !errors.Is(err, want) {
			t.Fatalf("%s: got %v, want %v", name, err, want)
		}
		after, _ := target.MarshalBinary()
		if !bytes.Equal(before, after) {
			t.Fatalf("%s: rejected state modified the generator", name)
		}
	}

	check("empty", nil, sprng.ErrCorrupt)
	check("truncated", packed[:len(packed)-1], sprng.ErrCorrupt)
	check("trailing", append(append([]byte{}, packed...), 0), sprng.ErrCorrupt)

	other := sprng.LCG
	if typ == sprng.LCG {
		other = sprng.LCG64
	}
	retag := func(id byte) []byte {
		b := append([]byte{}, packed...)
		b[3] = id
		return b
	}
	check("other type", retag(byte(other)), sprng.ErrTypeMismatch)
	check("reserved type", retag(byte(sprng.PMLCG)), sprng.ErrReservedType)
	check("unknown type", retag(99), sprng.ErrUnknownType)
}

func spawn(t *testing.T, typ sprng.Type, newGen NewFunc) {
	reg, logs := NewRegistry()
	g := MustInit(t, newGen, 0, 1, 2024, 0, sprng.WithRegistry(reg))

	kids, err := g.Spawn(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 10 {
		t.Fatalf("Spawn(10) returned %d", len(kids))
	}
	if n := reg.Streams(typ); n != 11 {
		t.Fatalf("open streams = %d, want 11", n)
	}

	all := append([]sprng.Generator{g}, kids...)
	more, err := g.Spawn(3)
	if err != nil {
		t.Fatal(err)
	}
	all = append(all, more...)
	grand, err := kids[0].Spawn(2)
	if err != nil {
		t.Fatal(err)
	}
	all = append(all, grand...)
	assertDistinct(t, all)

	for _, k := range all {
		if k.Type() != typ {
			t.Fatalf("child type %v", k.Type())
		}
		if k.Seed() != g.Seed() {
			t.Fatalf("child seed %d, parent %d", k.Seed(), g.Seed())
		}
		for i := 0; i < 1000; i++ {
			if v := k.Float64(); v < 0 || v >= 1 {
				t.Fatalf("child Float64() = %v", v)
			}
		}
	}

	logs.Reset()
	one, err := g.Spawn(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 {
		t.Fatalf("Spawn(0) returned %d", len(one))
	}
	if !strings.Contains(logs.String(), "spawn count") {
		t.Fatalf("Spawn(0) did not warn: %q", logs.String())
	}

	if _, err := newGen(sprng.WithRegistry(reg)).Spawn(1); !errors.Is(err, sprng.ErrNotInitialized) {
		t.Fatalf("spawn of uninitialized generator: %v", err)
	}
}

func distinct(t *testing.T, newGen NewFunc) {
	reg, _ := NewRegistry()
	const n = 16
	gens := make([]sprng.Generator, n)
	for i := range gens {
		gens[i] = MustInit(t, newGen, i, n, 31415, 0, sprng.WithRegistry(reg))
	}
	assertDistinct(t, gens)
}

// assertDistinct fails if any two generators share their next 8 outputs.
func assertDistinct(t *testing.T, gens []sprng.Generator) {
	t.Helper()
	seen := make(map[[8]int]int, len(gens))
	for i, g := range gens {
		var k [8]int
		for j := range k {
			k[j] = g.Int()
		}
		if prev, ok := seen[k]; ok {
			t.Fatalf("streams %d and %d produce the same sequence", prev, i)
		}
		seen[k] = i
	}
}

// CorrelationDraws is the number of draws compared by the correlation check.
var CorrelationDraws = 100000

// uncorrelated checks neighbouring Init streams and a parent against its
// first child from the first draw on, for every parameter.
func uncorrelated(t *testing.T, params int, newGen NewFunc) {
	reg, _ := NewRegistry()
	bound := 3 / math.Sqrt(float64(CorrelationDraws))
	for param := 0; param < params; param++ {
		pairs := map[string][2]sprng.Generator{
			"0,1 of 2": {
				MustInit(t, newGen, 0, 2, 985456376, param, sprng.WithRegistry(reg)),
				MustInit(t, newGen, 1, 2, 985456376, param, sprng.WithRegistry(reg)),
			},
			"3,4 of 16": {
				MustInit(t, newGen, 3, 16, 1, param, sprng.WithRegistry(reg)),
				MustInit(t, newGen, 4, 16, 1, param, sprng.WithRegistry(reg)),
			},
		}
		parent := MustInit(t, newGen, 0, 1, 7, param, sprng.WithRegistry(reg))
		kids, err := parent.Spawn(1)
		if err != nil {
			t.Fatal(err)
		}
		pairs["parent,child"] = [2]sprng.Generator{parent, kids[0]}

		for name, p := range pairs {
			if r := Correlation(p[0], p[1], CorrelationDraws); math.Abs(r) > bound {
				t.Errorf("param %d, streams %s: correlation %.4f exceeds %.4f", param, name, r, bound)
			}
			p[0].Free()
			p[1].Free()
		}
	}
}

// Correlation returns the Pearson correlation of n Float64 draws from a
// and b.
func Correlation(a, b sprng.Generator, n int) float64 {
	xs := make([]float64, n)
	ys := make([]float64, n)
	var mx, my float64
	for i := range xs {
		xs[i], ys[i] = a.Float64(), b.Float64()
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}

func initArguments(t *testing.T, typ sprng.Type, newGen NewFunc) {
	reg, logs := NewRegistry()
	g := newGen(sprng.WithRegistry(reg))

	for _, c := range [][2]int{{-1, 1}, {1, 1}, {5, 3}} {
		if err := g.Init(c[0], c[1], 1, 0); !errors.Is(err, sprng.ErrStreamIndex) {
			t.Fatalf("Init(%d, %d): got %v", c[0], c[1], err)
		}
	}
	if n := reg.Streams(typ); n != 0 {
		t.Fatalf("failed Init counted %d streams", n)
	}

	logs.Reset()
	if err := g.Init(0, 0, 1, 0); err != nil {
		t.Fatalf("Init with zero total: %v", err)
	}
	if !strings.Contains(logs.String(), "total streams") {
		t.Fatalf("zero total did not warn: %q", logs.String())
	}

	logs.Reset()
	a := MustInit(t, newGen, 0, 1, 5, 1000, sprng.WithRegistry(reg))
	if !strings.Contains(logs.String(), "parameter") {
		t.Fatalf("bad parameter did not warn: %q", logs.String())
	}
	b := MustInit(t, newGen, 0, 1, 5, 0, sprng.WithRegistry(reg))
	for i := 0; i < 100; i++ {
		if a.Int() != b.Int() {
			t.Fatal("invalid parameter did not fall back to parameter 0")
		}
	}

	c := MustInit(t, newGen, 0, 1, -1, 0, sprng.WithRegistry(reg))
	if c.Seed() != 0x7fffffff {
		t.Fatalf("seed not masked to 31 bits: %d", c.Seed())
	}
}

func registry(t *testing.T, typ sprng.Type, newGen NewFunc) {
	reg, _ := NewRegistry()
	a := MustInit(t, newGen, 0, 2, 1, 0, sprng.WithRegistry(reg))
	b := MustInit(t, newGen, 1, 2, 1, 0, sprng.WithRegistry(reg))
	if n := reg.Streams(typ); n != 2 {
		t.Fatalf("open streams = %d", n)
	}
	packed, err := a.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if err := newGen(sprng.WithRegistry(reg)).UnmarshalBinary(packed); err != nil {
		t.Fatal(err)
	}
	if n := reg.Streams(typ); n != 3 {
		t.Fatalf("open streams after unpack = %d", n)
	}
	a.Free()
	b.Free()
	b.Free()
	if n := reg.Streams(typ); n != 0 {
		t.Fatalf("open streams after double free = %d", n)
	}
	reg.Reset()
	if n := reg.Streams(typ); n != 0 {
		t.Fatalf("open streams after reset = %d", n)
	}
}
