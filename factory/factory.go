// Package factory constructs generators from their type tag.
package factory

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/lcg"
	"github.com/tutils/sprng/lcg64"
	"github.com/tutils/sprng/lfg"
	"github.com/tutils/sprng/store"
)

// Newer constructs an uninitialized generator.
type Newer func(opts ...sprng.Option) sprng.Generator

var newers = map[sprng.Type]Newer{
	sprng.LFG:   func(opts ...sprng.Option) sprng.Generator { return lfg.New(opts...) },
	sprng.LCG:   func(opts ...sprng.Option) sprng.Generator { return lcg.New(opts...) },
	sprng.LCG64: func(opts ...sprng.Option) sprng.Generator { return lcg64.New(opts...) },
}

// New returns an uninitialized generator of type t.
func New(t sprng.Type, opts ...sprng.Option) (sprng.Generator, error) {
	if _, err := sprng.TypeFromInt(int(t)); err != nil {
		return nil, err
	}
	return newers[t](opts...), nil
}

// Init returns a generator of type t initialized as stream index of count.
func Init(t sprng.Type, index, count, seed, param int, opts ...sprng.Option) (sprng.Generator, error) {
	g, err := New(t, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Init(index, count, seed, param); err != nil {
		return nil, errors.WithMessagef(err, "init %s", t)
	}
	return g, nil
}

// Unpack restores a generator from MarshalBinary output, choosing the type
// from the leading type field.
func Unpack(data []byte, opts ...sprng.Option) (sprng.Generator, error) {
	id, err := store.LoadValue[int32](bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithMessage(sprng.ErrCorrupt, err.Error())
	}
	g, err := New(sprng.Type(id), opts...)
	if err != nil {
		return nil, err
	}
	if err := g.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return g, nil
}
