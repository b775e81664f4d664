package tracker

import (
	"net/http"
	"time"
)

// DefaultTimeout is the total request timeout for tracker calls.
const DefaultTimeout = 10 * time.Second

// Option is a functional option for configuring a [Client].
type Option func(*Options)

// Options holds the configuration for a [Client].
type Options struct {
	httpClient *http.Client
	timeout    time.Duration
	clock      func() time.Time
}

func newOptions() *Options {
	return &Options{
		timeout: DefaultTimeout,
		clock:   time.Now,
	}
}

// WithHTTPClient sets a custom HTTP client. This is useful for injecting
// test servers or custom transports.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) {
		o.httpClient = httpClient
	}
}

// WithTimeout sets the total request timeout used when the default HTTP
// client is constructed. Ignored when [WithHTTPClient] is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.timeout = timeout
	}
}

// WithClock sets a custom clock function used when computing due dates.
// Defaults to [time.Now]. This is useful for controlling time in tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}
