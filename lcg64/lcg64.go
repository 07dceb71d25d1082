// Package lcg64 implements the 64-bit linear congruential generator with a
// prime addend. Arithmetic wraps at 2^64.
package lcg64

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/internal/jump"
	"github.com/tutils/sprng/primes"
	"github.com/tutils/sprng/store"
)

const (
	initSeed = 0x2bc6ffff8cfe166d
	runup    = 127
)

// Multipliers are indexed by the parameter.
var Multipliers = [...]uint64{
	0x27bb2ee687b0b0fd,
	0x2c6fe96ee78b6955,
	0x369dea0f31a53f85,
}

// NumParams is the number of valid parameters.
const NumParams = len(Multipliers)

// PackedSize is the length of a marshaled Generator.
const PackedSize = 4*6 + 8 + 8

var maxStreams = sprng.LCG64.MaxStreams()

var _ sprng.Generator = &Generator{}

// Generator is a 64-bit LCG stream.
type Generator struct {
	opts        *sprng.Options
	initialized bool

	streamNumber int32
	initSeed     int32
	param        int32
	spawnOffset  int32
	prime        uint32
	state        uint64
	multiplier   uint64
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
	return sprng.LCG64
}

// Init implements sprng.Generator.
func (g *Generator) Init(streamIndex, streamCount, seed, param int) error {
	reg := g.registry()
	streamCount, err := reg.CheckStream(sprng.LCG64, streamIndex, streamCount)
	if err != nil {
		return err
	}
	param = reg.CheckParam(sprng.LCG64, param, NumParams)

	g.start(int32(streamIndex), int32(seed&0x7fffffff), int32(param))
	g.spawnOffset = sprng.Spacing(int64(streamCount), maxStreams)
	g.initialized = true
	reg.Opened(sprng.LCG64)
	return nil
}

func (g *Generator) start(streamNumber, seed, param int32) {
	prime, err := primes.Prime64(int(streamNumber))
	if err != nil {
		prime, err = primes.Prime64(int(streamNumber) % (primes.MaxOffset64 + 1))
		if err != nil {
			prime = 0
		}
		g.registry().Warn(sprng.LCG64).Int32("stream", streamNumber).Uint32("prime", prime).
			Msg("no prime for stream, reusing one from the table")
	}
	g.streamNumber = streamNumber
	g.initSeed = seed
	g.param = param
	g.prime = prime
	g.multiplier = Multipliers[param]
	g.state = initSeed ^ (uint64(seed)<<33 | uint64(streamNumber))
	g.state = jump.Advance(g.state, g.multiplier, uint64(prime), runup*uint64(streamNumber))
}

func (g *Generator) step() uint64 {
	if !g.initialized {
		panic("lcg64: draw from uninitialized generator")
	}
	g.state = g.state*g.multiplier + uint64(g.prime)
	return g.state
}

// Int implements sprng.Generator.
func (g *Generator) Int() int {
	return int(g.step() >> 33)
}

// Float64 implements sprng.Generator. It uses the top 53 bits of the state.
func (g *Generator) Float64() float64 {
	return float64(g.step()>>11) * 0x1p-53
}

// Float32 implements sprng.Generator.
func (g *Generator) Float32() float32 {
	return sprng.Float32(g.Float64())
}

// Spawn implements sprng.Generator. Child i is initialized as stream
// number+offset*(i+1). Stream numbers past the independence limit perturb
// the seed and wrap, with a warning.
func (g *Generator) Spawn(n int) ([]sprng.Generator, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lcg64 spawn")
	}
	reg := g.registry()
	n = reg.CheckSpawn(sprng.LCG64, n)

	offset := sprng.Spacing(int64(g.spawnOffset)*int64(n+1), maxStreams)
	children := make([]sprng.Generator, n)
	for i := range children {
		gn := int64(g.streamNumber) + int64(g.spawnOffset)*int64(i+1)
		seed := g.initSeed
		if gn > int64(maxStreams) {
			reg.Warn(sprng.LCG64).Int64("stream", gn).Int("max", maxStreams).
				Msg("stream number exceeds the number of independent streams, independence cannot be guaranteed")
			seed = (seed ^ int32(gn)) & 0x7fffffff
			gn %= int64(maxStreams)
		}
		c := &Generator{opts: g.opts}
		c.start(int32(gn), seed, g.param)
		c.spawnOffset = offset
		c.initialized = true
		reg.Opened(sprng.LCG64)
		children[i] = c
	}
	g.spawnOffset = offset
	return children, nil
}

// Seed implements sprng.Generator.
func (g *Generator) Seed() int {
	return int(g.initSeed)
}

// Free implements sprng.Generator.
func (g *Generator) Free() {
	if g.initialized {
		g.registry().Closed(sprng.LCG64)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Generator) MarshalBinary() ([]byte, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lcg64 pack")
	}
	buf := bytes.NewBuffer(make([]byte, 0, PackedSize))
	e := store.NewEncoder(buf)
	store.Put(e, int32(sprng.LCG64))
	store.Put(e, g.streamNumber)
	store.Put(e, g.initSeed)
	store.Put(e, g.param)
	store.Put(e, g.spawnOffset)
	store.Put(e, g.prime)
	store.Put(e, g.state)
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
	v.streamNumber = store.Get[int32](d)
	v.initSeed = store.Get[int32](d)
	v.param = store.Get[int32](d)
	v.spawnOffset = store.Get[int32](d)
	v.prime = store.Get[uint32](d)
	v.state = store.Get[uint64](d)
	v.multiplier = store.Get[uint64](d)
	if err := d.Err(); err != nil {
		return errors.WithMessage(sprng.ErrCorrupt, err.Error())
	}
	if r.Len() != 0 {
		return errors.Wrapf(sprng.ErrCorrupt, "%d trailing bytes", r.Len())
	}
	if err := sprng.CheckType(int(typ), sprng.LCG64); err != nil {
		return err
	}
	if v.param < 0 || int(v.param) >= NumParams {
		return errors.Wrapf(sprng.ErrParameter, "lcg64 parameter %d", v.param)
	}
	if v.multiplier != Multipliers[v.param] || v.initSeed < 0 || v.streamNumber < 0 {
		return errors.Wrap(sprng.ErrCorrupt, "lcg64 state out of range")
	}

	v.opts = g.opts
	v.initialized = true
	*g = v
	g.registry().Opened(sprng.LCG64)
	return nil
}

// String implements sprng.Generator.
func (g *Generator) String() string {
	return sprng.Describe(sprng.LCG64, int(g.initSeed), int(g.streamNumber), int(g.param))
}
