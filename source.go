package sprng

import (
	"math/rand"

	"github.com/pkg/errors"
)

var _ rand.Source = (*Source)(nil)
var _ rand.Source64 = (*Source)(nil)

// Source adapts a Generator to math/rand.
type Source struct {
	g Generator
}

// NewSource returns a rand.Source64 drawing from g. g must be initialized.
func NewSource(g Generator) *Source {
	return &Source{g: g}
}

// Generator returns the underlying stream.
func (s *Source) Generator() Generator {
	return s.g
}

// Seed implements rand.Source. It restarts the stream as the only stream
// for seed, keeping the generator type.
func (s *Source) Seed(seed int64) {
	s.g.Free()
	if err := s.g.Init(0, 1, int(seed&0x7fffffff), 0); err != nil {
		panic(errors.WithMessage(err, "reseed source"))
	}
}

// Uint64 implements rand.Source64 from three 31-bit draws.
func (s *Source) Uint64() uint64 {
	hi := uint64(s.g.Int())
	mid := uint64(s.g.Int())
	lo := uint64(s.g.Int())
	return hi<<33 | mid<<2 | lo>>29
}

// Int63 implements rand.Source.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}
