// Package simple keeps one process-wide default generator for callers that
// only ever need a single stream.
//
// Drawing before any Init initializes the default as this rank's LFG stream
// with seed 0 and parameter 0, so programs that never seed still get a
// reproducible sequence.
package simple

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/factory"
	"github.com/tutils/sprng/rank"
)

// DefaultType is the generator type used when drawing before Init.
const DefaultType = sprng.LFG

// Holder owns one shared generator. The zero value is not usable, use
// NewHolder.
type Holder struct {
	mu       sync.Mutex
	g        sprng.Generator
	opts     []sprng.Option
	discover func() (int, int)
}

// NewHolder returns an empty holder. opts are passed to every generator it
// creates.
func NewHolder(opts ...sprng.Option) *Holder {
	return &Holder{
		opts:     opts,
		discover: rank.Discover,
	}
}

// Init makes the default generator the only stream for seed.
func (h *Holder) Init(seed, param int, t sprng.Type) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.init(0, 1, seed, param, t)
}

// InitParallel makes the default generator this process's stream among all
// ranks of the job, as found by rank discovery.
func (h *Holder) InitParallel(seed, param int, t sprng.Type) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, n := h.discover()
	return h.init(r, n, seed, param, t)
}

func (h *Holder) init(index, count, seed, param int, t sprng.Type) error {
	g, err := factory.Init(t, index, count, seed, param, h.opts...)
	if err != nil {
		return err
	}
	h.replace(g)
	return nil
}

func (h *Holder) replace(g sprng.Generator) {
	if h.g != nil {
		h.g.Free()
	}
	h.g = sprng.Locked(g)
}

// Generator returns the default generator, creating it if needed. It is
// safe for concurrent use.
func (h *Holder) Generator() sprng.Generator {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.g == nil {
		r, n := h.discover()
		if err := h.init(r, n, 0, 0, DefaultType); err != nil {
			panic(err)
		}
	}
	return h.g
}

// Int draws from the default generator.
func (h *Holder) Int() int {
	return h.Generator().Int()
}

// Float32 draws from the default generator.
func (h *Holder) Float32() float32 {
	return h.Generator().Float32()
}

// Float64 draws from the default generator.
func (h *Holder) Float64() float64 {
	return h.Generator().Float64()
}

// Pack serializes the default generator.
func (h *Holder) Pack() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.g == nil {
		return nil, errors.Wrap(sprng.ErrNotInitialized, "no default generator")
	}
	return h.g.MarshalBinary()
}

// Unpack replaces the default generator with a restored one.
func (h *Holder) Unpack(data []byte) error {
	g, err := factory.Unpack(data, h.opts...)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replace(g)
	return nil
}

// String describes the default generator.
func (h *Holder) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.g == nil {
		return "no generator initialized"
	}
	return h.g.String()
}

// Default is the process-wide holder used by the package functions.
var Default = NewHolder()

// Init initializes the process default generator.
func Init(seed, param int, t sprng.Type) error {
	return Default.Init(seed, param, t)
}

// InitParallel initializes the process default generator as this rank's stream.
func InitParallel(seed, param int, t sprng.Type) error {
	return Default.InitParallel(seed, param, t)
}

// Int draws from the process default generator.
func Int() int {
	return Default.Int()
}

// Float32 draws from the process default generator.
func Float32() float32 {
	return Default.Float32()
}

// Float64 draws from the process default generator.
func Float64() float64 {
	return Default.Float64()
}

// Pack serializes the process default generator.
func Pack() ([]byte, error) {
	return Default.Pack()
}

// Unpack replaces the process default generator.
func Unpack(data []byte) error {
	return Default.Unpack(data)
}
