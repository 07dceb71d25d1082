// Package lfg implements the modified additive lagged Fibonacci generator.
//
// Two lanes run the recurrence x[n] = x[n-L] + x[n-K] mod 2^32 side by side
// and each draw combines them as (even &^ 1) ^ (odd >> 1), which removes the
// weak low bits of the plain additive generator. Streams differ by the
// contents of their lanes, which are filled from a per-stream spawn index.
//
// Spawn indices form a binary tree numbered like a heap. Init gives stream
// gn of tg the index 2^b + gn, where 2^b is the smallest power of two not
// below tg. Every Spawn doubles the parent's cursor and hands the child the
// cursor plus one, so no two streams of one family share an index.
package lfg

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/store"
)

var _ sprng.Generator = &Generator{}

// Generator is a lagged Fibonacci stream.
type Generator struct {
	opts        *sprng.Options
	initialized bool

	// si is the spawn cursor, least significant word first.
	si     []uint32
	r0, r1 []uint32

	streamNumber int32
	hptr         int32
	seed         int32
	initSeed     int32
	lval, kval   int32
	param        int32
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
	return sprng.LFG
}

// Init implements sprng.Generator.
func (g *Generator) Init(streamIndex, streamCount, seed, param int) error {
	reg := g.registry()
	streamCount, err := reg.CheckStream(sprng.LFG, streamIndex, streamCount)
	if err != nil {
		return err
	}
	param = reg.CheckParam(sprng.LFG, param, NumParams)
	if first := reg.FirstParam(sprng.LFG, param); first != param {
		reg.Warn(sprng.LFG).Int("param", param).Int("first", first).
			Msg("parameter differs from the first stream's, independence cannot be guaranteed")
	}

	p := Params[param]
	pow := uint64(1)
	for pow < uint64(streamCount) {
		pow <<= 1
	}
	id := make([]uint32, p.L-1)
	v := pow + uint64(streamIndex)
	id[0] = uint32(v & intMask)
	id[1] = uint32(v>>wordBits) & intMask
	id[2] = uint32(v >> (2 * wordBits))

	*g = *initialize(g.opts, param, int32(seed&0x7fffffff), id, int32(streamIndex))
	reg.Opened(sprng.LFG)
	return nil
}

// initialize builds a stream from its spawn index. Init and Spawn both
// construct generators this way. The new generator owns id as its cursor.
func initialize(opts *sprng.Options, param int, initSeed int32, id []uint32, streamNumber int32) *Generator {
	p := Params[param]
	g := &Generator{
		opts:         opts,
		initialized:  true,
		si:           id,
		r0:           make([]uint32, p.L),
		r1:           make([]uint32, p.L),
		streamNumber: streamNumber,
		seed:         initSeed ^ gs0,
		initSeed:     initSeed,
		lval:         int32(p.L),
		kval:         int32(p.K),
		param:        int32(param),
	}

	lane := make([]uint32, len(id))
	if double(lane, id) {
		opts.Registry.Warn(sprng.LFG).Int32("stream", streamNumber).
			Msg("spawn index overflow, independence cannot be guaranteed")
	}
	fill(lane, g.r0, p, uint32(g.seed))
	lane[0] |= 1
	fill(lane, g.r1, p, uint32(g.seed))

	runup := 4 * p.L
	if highWords(lane) {
		runup = 64 * p.L
	}
	for i := 0; i < runup; i++ {
		g.next()
	}
	return g
}

func (g *Generator) next() uint32 {
	h := g.hptr
	l := h + g.kval
	if l >= g.lval {
		l -= g.lval
	}
	g.r0[h] += g.r0[l]
	g.r1[h] += g.r1[l]
	v := (g.r0[h] &^ 1) ^ (g.r1[h] >> 1)
	if h--; h < 0 {
		h = g.lval - 1
	}
	g.hptr = h
	return v
}

func (g *Generator) step() uint32 {
	if !g.initialized {
		panic("lfg: draw from uninitialized generator")
	}
	return g.next()
}

// Int implements sprng.Generator.
func (g *Generator) Int() int {
	return int(g.step() >> 1)
}

// Float64 implements sprng.Generator. It joins two draws into 53 bits.
func (g *Generator) Float64() float64 {
	lo := g.step()
	hi := g.step()
	return float64(uint64(hi)<<21|uint64(lo)>>11) * 0x1p-53
}

// Float32 implements sprng.Generator.
func (g *Generator) Float32() float32 {
	return sprng.Float32(g.Float64())
}

// Spawn implements sprng.Generator.
func (g *Generator) Spawn(n int) ([]sprng.Generator, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lfg spawn")
	}
	reg := g.registry()
	n = reg.CheckSpawn(sprng.LFG, n)

	children := make([]sprng.Generator, n)
	for i := range children {
		if double(g.si, g.si) {
			reg.Warn(sprng.LFG).Int32("stream", g.streamNumber).
				Msg("spawn index overflow, independence cannot be guaranteed")
		}
		id := append([]uint32(nil), g.si...)
		id[0] |= 1
		children[i] = initialize(g.opts, int(g.param), g.initSeed, id, int32(id[0]))
		reg.Opened(sprng.LFG)
	}
	return children, nil
}

// Seed implements sprng.Generator.
func (g *Generator) Seed() int {
	return int(g.initSeed)
}

// Free implements sprng.Generator.
func (g *Generator) Free() {
	if g.initialized {
		g.registry().Closed(sprng.LFG)
	}
}

// PackedSize returns the length of a marshaled generator using param.
func PackedSize(param int) int {
	l := Params[param].L
	return 8*4 + 4*(l-1) + 2*4*l
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Generator) MarshalBinary() ([]byte, error) {
	if !g.initialized {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "lfg pack")
	}
	buf := bytes.NewBuffer(make([]byte, 0, PackedSize(int(g.param))))
	e := store.NewEncoder(buf)
	store.Put(e, int32(sprng.LFG))
	store.Put(e, g.streamNumber)
	store.Put(e, g.hptr)
	store.Put(e, g.seed)
	store.Put(e, g.initSeed)
	store.Put(e, g.lval)
	store.Put(e, g.kval)
	store.Put(e, g.param)
	store.PutArray(e, g.si)
	store.PutArray(e, g.r0)
	store.PutArray(e, g.r1)
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
	v.hptr = store.Get[int32](d)
	v.seed = store.Get[int32](d)
	v.initSeed = store.Get[int32](d)
	v.lval = store.Get[int32](d)
	v.kval = store.Get[int32](d)
	v.param = store.Get[int32](d)
	if err := d.Err(); err != nil {
		return errors.WithMessage(sprng.ErrCorrupt, err.Error())
	}
	if err := sprng.CheckType(int(typ), sprng.LFG); err != nil {
		return err
	}
	if v.param < 0 || int(v.param) >= NumParams {
		return errors.Wrapf(sprng.ErrParameter, "lfg parameter %d", v.param)
	}
	p := Params[v.param]
	if int(v.lval) != p.L || int(v.kval) != p.K {
		return errors.Wrapf(sprng.ErrCorrupt, "lags (%d, %d) do not match parameter %d", v.lval, v.kval, v.param)
	}
	if v.hptr < 0 || v.hptr >= v.lval || v.initSeed < 0 || v.seed != v.initSeed^gs0 {
		return errors.Wrap(sprng.ErrCorrupt, "lfg state out of range")
	}
	v.si = store.GetArray[uint32](d, p.L-1)
	v.r0 = store.GetArray[uint32](d, p.L)
	v.r1 = store.GetArray[uint32](d, p.L)
	if err := d.Err(); err != nil {
		return errors.WithMessage(sprng.ErrCorrupt, err.Error())
	}
	if r.Len() != 0 {
		return errors.Wrapf(sprng.ErrCorrupt, "%d trailing bytes", r.Len())
	}

	v.opts = g.opts
	v.initialized = true
	*g = v
	g.registry().Opened(sprng.LFG)
	return nil
}

// String implements sprng.Generator.
func (g *Generator) String() string {
	return sprng.Describe(sprng.LFG, int(g.initSeed), int(g.streamNumber), int(g.param))
}
