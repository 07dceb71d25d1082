package dist

import (
	"github.com/rs/zerolog"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/crypt"
)

// Options is coordinator and worker options
type Options struct {
	Crypt   crypt.Crypt
	GenOpts []sprng.Option
	Logger  zerolog.Logger
}

// Option is option setter for Options
type Option func(*Options)

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	opt := &Options{Logger: zerolog.Nop()}
	for _, o := range opts {
		o(opt)
	}
	return opt
}

// WithCrypt obfuscates frames with c. Both ends must use the same Crypt.
func WithCrypt(c crypt.Crypt) Option {
	return func(opts *Options) {
		opts.Crypt = c
	}
}

// WithGeneratorOptions passes opts to every generator created or restored.
func WithGeneratorOptions(opts ...sprng.Option) Option {
	return func(o *Options) {
		o.GenOpts = append(o.GenOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}
