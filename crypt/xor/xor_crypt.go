// Package xor obfuscates a byte stream by xoring it with a keystream drawn
// from a seeded generator. Both ends must share seed, type and parameter.
// It is not encryption.
package xor

import (
	"io"
	"math/rand"

	"github.com/tutils/sprng"
	"github.com/tutils/sprng/crypt"
	"github.com/tutils/sprng/factory"
)

var _ crypt.Crypt = &xorCrypt{}

type xorCrypt struct {
	state []byte
	opts  *options
}

// NewCrypt creates a Crypt whose keystream is stream 0 of 1 for seed.
func NewCrypt(seed int64, opts ...Option) (crypt.Crypt, error) {
	o := newOptions(opts...)
	g, err := factory.Init(o.typ, 0, 1, int(seed&0x7fffffff), o.param, o.genOpts...)
	if err != nil {
		return nil, err
	}
	defer g.Free()
	state, err := g.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &xorCrypt{state: state, opts: o}, nil
}

func (c *xorCrypt) keystream() *keystream {
	g, err := factory.Unpack(c.state, c.opts.genOpts...)
	if err != nil {
		// state was produced by MarshalBinary in NewCrypt
		panic(err)
	}
	return &keystream{g: g, rnd: rand.New(sprng.NewSource(g))}
}

func (c *xorCrypt) NewEncoder(w io.Writer) io.Writer {
	return &xorEncoder{w: w, keystream: c.keystream()}
}

func (c *xorCrypt) NewDecoder(r io.Reader) io.Reader {
	return &xorDecoder{r: r, keystream: c.keystream()}
}

type keystream struct {
	g   sprng.Generator
	rnd *rand.Rand
	buf []byte
}

func (k *keystream) next(n int) []byte {
	if cap(k.buf) < n {
		k.buf = make([]byte, n)
	} else {
		k.buf = k.buf[:n]
	}
	k.rnd.Read(k.buf)
	return k.buf
}

// Close releases the keystream generator.
func (k *keystream) Close() error {
	if k.g != nil {
		k.g.Free()
		k.g = nil
	}
	return nil
}

type xorEncoder struct {
	w io.Writer
	*keystream
}

func (e *xorEncoder) Write(p []byte) (n int, err error) {
	buf := e.next(len(p))
	for i, b := range p {
		buf[i] ^= b
	}
	return e.w.Write(buf)
}

type xorDecoder struct {
	r io.Reader
	*keystream
}

func (d *xorDecoder) Read(p []byte) (n int, err error) {
	n, err = d.r.Read(p)
	if n == 0 {
		return n, err
	}
	for i, b := range d.next(n) {
		p[i] ^= b
	}
	return n, err
}
