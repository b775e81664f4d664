package secrets

// Option is a functional option for configuring a [Manager].
type Option func(*Options)

// Options holds the configuration for a [Manager].
type Options struct {
	api API
}

func newOptions() *Options {
	return &Options{}
}

// WithAPI sets a custom [API] implementation. This is useful when a custom
// Secrets Manager configuration is required, or for injecting mocks in tests.
func WithAPI(api API) Option {
	return func(o *Options) {
		o.api = api
	}
}
