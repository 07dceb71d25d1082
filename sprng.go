// Package sprng defines the contract shared by the parallel pseudorandom
// stream generators in its sub-packages.
//
// A stream is identified by its generator type, seed, parameter, and its
// index among the total number of streams requested at Init. Streams with
// the same identity yield identical sequences. Streams with different indices
// use different modulus material and are statistically independent up to
// Type.MaxStreams. Generator state round-trips through MarshalBinary and
// UnmarshalBinary so a stream can be moved between processes.
//
// A Generator is owned by one goroutine at a time. Use Locked to share one.
package sprng

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type identifies a generator algorithm. The numeric values are part of the
// serialized form.
type Type int

// generator types
const (
	LFG Type = iota
	LCG
	LCG64
	// reserved, no implementation
	CMRG
	MLFG
	PMLCG
)

var typeNames = [...]string{"LFG", "LCG", "LCG64", "CMRG", "MLFG", "PMLCG"}

var typeDescriptions = [...]string{
	LFG:   "Lagged Fibonacci Generator",
	LCG:   "48 bit Linear Congruential Generator with Prime Addend",
	LCG64: "64 bit Linear Congruential Generator with Prime Addend",
}

var maxStreams = [...]int{
	LFG:   0x7fffffff,
	LCG:   1 << 19,
	LCG64: 146138719,
}

// TypeFromInt converts a serialized type id.
func TypeFromInt(i int) (Type, error) {
	switch {
	case i >= int(LFG) && i <= int(LCG64):
		return Type(i), nil
	case i >= int(CMRG) && i <= int(PMLCG):
		return 0, errors.Wrapf(ErrReservedType, "type %s", Type(i))
	default:
		return 0, errors.Wrapf(ErrUnknownType, "type %d", i)
	}
}

// ParseType converts a type name such as "lcg64" or a numeric id.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return TypeFromInt(i)
		}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return TypeFromInt(i)
	}
	return 0, errors.Wrapf(ErrUnknownType, "type %q", s)
}

// Valid reports whether t has an implementation.
func (t Type) Valid() bool {
	return t >= LFG && t <= LCG64
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Describe returns the long generator name.
func (t Type) Describe() string {
	if t.Valid() {
		return typeDescriptions[t]
	}
	return t.String()
}

// MaxStreams is the number of streams of type t that are guaranteed to be
// independent of one another.
func (t Type) MaxStreams() int {
	if t.Valid() {
		return maxStreams[t]
	}
	return 0
}

// Generator is one pseudorandom stream.
type Generator interface {
	Type() Type

	// Init makes this the streamIndex-th of streamCount streams. Only the low
	// 31 bits of seed are used. A non-positive streamCount becomes 1 and an
	// out of range param falls back to 0, both with a warning. A streamIndex
	// outside [0, streamCount) fails with ErrStreamIndex.
	Init(streamIndex, streamCount, seed, param int) error

	// Int returns a value in [0, 2^31).
	Int() int
	// Float32 returns a value in [0, 1).
	Float32() float32
	// Float64 returns a value in [0, 1).
	Float64() float64

	// Spawn derives n new independent streams. A non-positive n becomes 1
	// with a warning.
	Spawn(n int) ([]Generator, error)

	// Seed returns the seed given to Init.
	Seed() int

	// Free releases the stream from its registry's open count. It is not
	// idempotent.
	Free()

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// String describes the stream for logs.
	String() string
}

// Float32 narrows a double draw to 24 bits, truncating so the result stays
// below 1.
func Float32(d float64) float32 {
	return float32(uint32(d*(1<<24))) / (1 << 24)
}

// Describe formats the diagnostic dump shared by all generators.
func Describe(t Type, seed, streamNumber, param int) string {
	return fmt.Sprintf("%s:\n  seed = %d,\n  stream_number = %d,\n  parameter = %d\n",
		t.Describe(), seed, streamNumber, param)
}
