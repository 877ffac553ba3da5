package trycatch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const engineKey = contextKey("trycatch:engine")

// WithEngine returns a context carrying e, so code deep in a call chain can
// raise without the engine being threaded through every signature.
func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, engineKey, e)
}

// FromContext returns the engine stored in ctx, if any.
func FromContext(ctx context.Context) (*Engine, bool) {
	if e, ok := ctx.Value(engineKey).(*Engine); ok {
		if e != nil {
			return e, true
		}
	}
	return nil, false
}

// RaiseContext raises id on the engine stored in ctx. Without an engine
// there can be no active region, so the exception is logged as unhandled
// with the context's zerolog logger (the global one if ctx has none) and
// RaiseContext returns.
func RaiseContext(ctx context.Context, id ID) {
	if e, ok := FromContext(ctx); ok {
		e.Raise(id)
		return
	}
	if !id.Valid() {
		panic(&MisuseError{Op: "RaiseContext", ID: id, Err: ErrRaiseNone})
	}
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &log.Logger
	}
	logger.Error().
		Stringer("exception", id).
		Int("id", int(id)).
		Msg("unhandled exception")
}
