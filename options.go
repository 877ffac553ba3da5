package trycatch

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Option is a configuration function for an Engine.
type Option func(*options)

type options struct {
	capacity    int
	logger      *zerolog.Logger
	observer    Observer
	overflowOut io.Writer
	exit        func(int)
}

func collectOptions(opts ...Option) *options {
	o := &options{
		capacity:    DefaultCapacity,
		overflowOut: os.Stderr,
		exit:        os.Exit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithCapacity sets how many regions may be nested at once. The capacity is
// fixed for the lifetime of the engine.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithLogger sets the logger used for region tracing and for reporting
// unhandled exceptions. The default writes human readable lines to stderr
// at info level.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithObserver sets an observer for region and exception events.
// Observer methods are called synchronously, so implementations should
// be fast.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithOverflowOutput sets the writer that receives the message printed
// just before the process exits on region overflow. Defaults to os.Stderr.
func WithOverflowOutput(w io.Writer) Option {
	return func(o *options) {
		o.overflowOut = w
	}
}

// WithExitFunc replaces os.Exit as the function called on region overflow.
// The function is expected not to return; if it does, the engine panics
// with an *OverflowError instead of running the region.
func WithExitFunc(exit func(code int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
