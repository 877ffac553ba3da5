package trycatch

import (
	"fmt"
	"io"
	"math"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Engine owns a stack of protected regions and dispatches raised exceptions
// to them. An Engine is not safe for concurrent use: give every goroutine
// that raises or enters regions its own Engine.
type Engine struct {
	stack       stack
	pending     ID
	faults      bool
	id          uuid.UUID
	logger      zerolog.Logger
	observer    Observer
	overflowOut io.Writer
	exit        func(int)
}

// transfer is the panic value used to move control from Raise to the
// region that owns the target slot.
type transfer struct {
	engine *Engine
	target handle
	id     ID
}

// New creates an Engine with an empty region stack.
func New(options ...Option) (*Engine, error) {
	o := collectOptions(options...)
	if o.capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("engine id: %w", err)
	}
	logger := defaultLogger()
	if o.logger != nil {
		logger = *o.logger
	}
	observer := o.observer
	if observer == nil {
		observer = NoOpObserver{}
	}
	return &Engine{
		stack:       newStack(o.capacity),
		id:          id,
		logger:      logger.With().Str("engine", id.String()).Logger(),
		observer:    observer,
		overflowOut: o.overflowOut,
		exit:        o.exit,
	}, nil
}

// MustNew is like New but panics if the engine cannot be created.
func MustNew(options ...Option) *Engine {
	e, err := New(options...)
	if err != nil {
		panic(err)
	}
	return e
}

// ID returns the identifier used to tag this engine's log lines.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Depth returns the number of currently active regions.
func (e *Engine) Depth() int {
	return e.stack.depth
}

// Capacity returns the maximum number of nested regions.
func (e *Engine) Capacity() int {
	return e.stack.capacity()
}

// Pending returns the most recently raised exception that has been
// transferred to a region. It is reset to None whenever a region is entered.
func (e *Engine) Pending() ID {
	return e.pending
}

// Raise signals the exception id. Control transfers to the innermost active
// region, which matches id against its handlers. With no active region the
// exception is reported as unhandled and Raise returns normally, so
// execution continues after the call.
//
// Raise panics with a *MisuseError if id is not positive.
func (e *Engine) Raise(id ID) {
	if !id.Valid() {
		panic(&MisuseError{Op: "Raise", ID: id, Err: ErrRaiseNone})
	}
	target, ok := e.stack.pop()
	if !ok {
		e.unhandled(id)
		return
	}
	e.pending = id
	e.logger.Debug().
		Stringer("exception", id).
		Int("id", int(id)).
		Int("depth", e.stack.depth).
		Msg("raise")
	e.observer.OnRaise(RaiseEvent{ID: id, Depth: e.stack.depth})
	panic(transfer{engine: e, target: target, id: id})
}

// Forward re-raises the pending exception one level further out. Regions
// call it when none of their handlers match; handlers may call it to
// rethrow. With no enclosing region the exception is reported as unhandled
// and Forward returns.
//
// Entering a region resets the pending exception, so a handler that opens
// a region of its own before calling Forward has nothing left to forward.
// That case is logged as a warning and Forward returns; such handlers
// should rethrow with Raise(id) instead.
func (e *Engine) Forward() {
	id := e.pending
	if id == None {
		e.logger.Warn().Int("depth", e.stack.depth).Msg("forward with no pending exception")
		return
	}
	if e.stack.depth == 0 {
		e.unhandled(id)
		return
	}
	e.Raise(id)
}

// CheckFloat raises NaN if x is not a number and returns x otherwise.
func (e *Engine) CheckFloat(x float64) float64 {
	if math.IsNaN(x) {
		e.Raise(NaN)
	}
	return x
}

func (e *Engine) enter() handle {
	e.guard()
	e.pending = None
	h := e.stack.push()
	e.logger.Debug().Int("depth", e.stack.depth).Msg("enter region")
	e.observer.OnEnter(RegionEvent{Depth: e.stack.depth, Capacity: e.stack.capacity()})
	return h
}

func (e *Engine) endRegion() {
	if _, ok := e.stack.pop(); !ok {
		return
	}
	e.logger.Debug().Int("depth", e.stack.depth).Msg("exit region")
	e.observer.OnExit(RegionEvent{Depth: e.stack.depth, Capacity: e.stack.capacity()})
}

func (e *Engine) caught(id ID) {
	e.logger.Debug().
		Stringer("exception", id).
		Int("id", int(id)).
		Int("depth", e.stack.depth).
		Msg("catch")
	e.observer.OnCatch(RaiseEvent{ID: id, Depth: e.stack.depth})
}

func (e *Engine) unhandled(id ID) {
	e.logger.Error().
		Stringer("exception", id).
		Int("id", int(id)).
		Msg("unhandled exception")
	e.observer.OnUnhandled(RaiseEvent{ID: id, Depth: e.stack.depth})
}
