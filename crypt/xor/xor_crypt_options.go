package xor

import (
	"github.com/tutils/sprng"
)

type options struct {
	typ     sprng.Type
	param   int
	genOpts []sprng.Option
}

func newOptions(opts ...Option) *options {
	opt := options{typ: sprng.LCG64}
	for _, o := range opts {
		o(&opt)
	}
	return &opt
}

// Option configures the keystream generator.
type Option func(*options)

// WithType selects the generator type that produces the keystream.
func WithType(t sprng.Type) Option {
	return func(o *options) {
		o.typ = t
	}
}

// WithParam selects the generator parameter.
func WithParam(param int) Option {
	return func(o *options) {
		o.param = param
	}
}

// WithGeneratorOptions passes opts to every keystream generator.
func WithGeneratorOptions(opts ...sprng.Option) Option {
	return func(o *options) {
		o.genOpts = append(o.genOpts, opts...)
	}
}
