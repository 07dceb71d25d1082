package sprng

// Options configures a generator.
type Options struct {
	Registry *Registry
}

// Option is option setter for generators
type Option func(*Options)

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	opt := &Options{}
	for _, o := range opts {
		o(opt)
	}

	if opt.Registry == nil {
		opt.Registry = DefaultRegistry
	}

	return opt
}

// WithRegistry sets the registry a generator reports to.
func WithRegistry(r *Registry) Option {
	return func(opts *Options) {
		opts.Registry = r
	}
}
