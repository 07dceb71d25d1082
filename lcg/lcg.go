// Package lcg implements the 48-bit linear congruential generator with a
// prime addend.
//
// Each stream steps x = a*x + p mod 2^48, where a is one of seven
// multipliers selected by the parameter and p is the prime at the stream's
// position in the 32-bit prime table.
package lcg

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/internal/jump"
	"github.com/tutils/sprng/primes"
	"github.com/tutils/sprng/store"
)

const (
	initSeed = 0x2bc68cfe166d
	mask     = 1<<48 - 1
	runup    = 29
	// wrapAdvance moves a stream whose position wrapped away from the start
	// of the stream it now shares a prime with.
	wrapAdvance = 1000000
)

// Multipliers are indexed by the parameter.
var Multipliers = [...]uint64{
	0x2875a2e7b175,
	0x5deece66d,
	0x3eac44605265,
	0x1ee1429cc9f5,
	0x275b38eb4bbd,
	0x739a9cb08605,
	0x3228d7cc25f5,
}

// NumParams is the number of valid parameters.
const NumParams = len(Multipliers)

// PackedSize is the length of a marshaled Generator.
const PackedSize = 4 + 8 + 4*5 + 8

var _ sprng.Generator = &Generator{}

// Generator is a 48-bit LCG stream.
type Generator struct {
	opts        *sprng.Options
	initialized bool

	state      uint64
	initSeed   int32
	prime      int32
	position   int32
	next       int32
	param      int32
	multiplier uint64
}

// New returns an uninitialized generator.
func New(opts ...sprng.Option) *Generator {
	return &Generator{opts: sprng.NewOptions(opts...)}
}

func (g *Generator) registry() *sprng.Registry {
	if g.opts == nil {
		g.opts = sprng.NewOptions()
	}
	return g.opts.Registry
}

// Type implements sprng.Generator.
func (g *Generator) Type() sprng.Type {
	return sprng.LCG
}

// Init implements sprng.Generator.
func (g *Generator) Init(streamIndex, streamCount, seed, param int) error {
	reg := g.registry()
	streamCount, err := reg.CheckStream(sprng.LCG, streamIndex, streamCount)
	if err != nil {
		return err
	}
	param = reg.CheckParam(sprng.LCG, param, NumParams)

	g.initSeed = int32(seed & 0x7fffffff)
	g.param = int32(param)
	g.position = int32(streamIndex)
	g.next = sprng.Spacing(int64(streamCount), primes.MaxOffset32)
	g.start(false)
	g.initialized = true
	reg.Opened(sprng.LCG)
	return nil
}

// start derives the prime for the current position, mixes the seed and runs
// the warm-up draws.
func (g *Generator) start(wrapped bool) {
	prime, err := primes.Prime32(int(g.position))
	if err != nil {
		g.registry().Warn(sprng.LCG).Err(err).Int32("stream", g.position).
			Msg("no prime for stream, independence cannot be guaranteed")
		prime = 0
	}
	g.prime = int32(prime)
	g.multiplier = Multipliers[g.param]
	g.state = (initSeed ^ uint64(g.initSeed)<<16) & mask
	if g.prime == 0 {
		g.state |= 1
	}
	steps := uint64(runup) * uint64(g.position)
	if wrapped {
		steps += wrapAdvance
	}
	g.state = jump.Advance(g.state, g.multiplier, uint64(g.prime), steps) & mask
}

func (g *Generator) step() uint64 {
	if !g.initialized {
		panic("lcg: draw from uninitialized generator")
	}
	g.state = (g.state*g.multiplier + uint64(g.prime)) & mask
	return g.state
}

// Int implements sprng.Generator.
func (g *Generator) Int() int {
	return int(g.step() >> 17)
}

// Float64 implements sprng.Generator.
func (g *Generator) Float64() float64 {
	return float64(g.step()) * 0x1p-48
}

// Float32 implements sprng.Generator.
func (g *Generator) Float32() float32 {
	return sprng.Float32(g.Float64())
}

// Spawn implements sprng.Generator. Child i takes the position i+1 spacings
// past this stream. Positions past the end of the prime table wrap around
// with a warning.
func (g *Generator) Spawn(n int) ([]sprng.Generator, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lcg spawn")
	}
	reg := g.registry()
	n = reg.CheckSpawn(sprng.LCG, n)

	spacing := sprng.Spacing(int64(g.next)*int64(n+1), primes.MaxOffset32)
	children := make([]sprng.Generator, n)
	for i := range children {
		pos := int64(g.position) + int64(g.next)*int64(i+1)
		wrapped := false
		if pos > primes.MaxOffset32 {
			reg.Warn(sprng.LCG).Int64("stream", pos).Int("max", sprng.LCG.MaxStreams()).
				Msg("stream number exceeds the number of independent streams, independence cannot be guaranteed")
			pos %= primes.MaxOffset32
			wrapped = true
		}
		c := &Generator{
			opts:     g.opts,
			initSeed: g.initSeed,
			param:    g.param,
			position: int32(pos),
			next:     spacing,
		}
		c.start(wrapped)
		c.initialized = true
		reg.Opened(sprng.LCG)
		children[i] = c
	}
	g.next = spacing
	return children, nil
}

// Seed implements sprng.Generator.
func (g *Generator) Seed() int {
	return int(g.initSeed)
}

// Free implements sprng.Generator.
func (g *Generator) Free() {
	if g.initialized {
		g.registry().Closed(sprng.LCG)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Generator) MarshalBinary() ([]byte, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lcg pack")
	}
	buf := bytes.NewBuffer(make([]byte, 0, PackedSize))
	e := store.NewEncoder(buf)
	store.Put(e, int32(sprng.LCG))
	store.Put(e, g.state)
	store.Put(e, g.initSeed)
	store.Put(e, g.prime)
	store.Put(e, g.position)
	store.Put(e, g.next)
	store.Put(e, g.param)
	store.Put(e, g.multiplier)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The generator is
// left untouched when data is rejected.
func (g *Generator) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	d := store.NewDecoder(r)
	typ := store.Get[int32](d)
	var v Generator
	v.state = store.Get[uint64](d)
	v.initSeed = store.Get[int32](d)
	v.prime = store.Get[int32](d)
	v.position = store.Get[int32](d)
	v.next = store.Get[int32](d)
	v.param = store.Get[int32](d)
	v.multiplier = store.Get[uint64](d)
	if err := d.Err(); err != nil {
		return errors.WithMessage(sprng.ErrCorrupt, err.Error())
	}
	if r.Len() != 0 {
		return errors.Wrapf(sprng.ErrCorrupt, "%d trailing bytes", r.Len())
	}
	if err := sprng.CheckType(int(typ), sprng.LCG); err != nil {
		return err
	}
	if v.param < 0 || int(v.param) >= NumParams {
		return errors.Wrapf(sprng.ErrParameter, "lcg parameter %d", v.param)
	}
	if v.state > mask || v.multiplier != Multipliers[v.param] || v.initSeed < 0 || v.prime < 0 {
		return errors.Wrap(sprng.ErrCorrupt, "lcg state out of range")
	}

	v.opts = g.opts
	v.initialized = true
	*g = v
	g.registry().Opened(sprng.LCG)
	return nil
}

// String implements sprng.Generator.
func (g *Generator) String() string {
	return sprng.Describe(sprng.LCG, int(g.initSeed), int(g.position), int(g.param))
}
