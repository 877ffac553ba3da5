package trycatch

// Handler runs when a region catches an exception. It receives the
// identifier that was matched.
type Handler func(id ID)

type handler struct {
	id ID
	fn Handler
}

// Region is a protected block of code together with its handler list.
// Build one with Engine.Try, add handlers with Catch, and run it with End:
//
//	e.Try(func() {
//		readConfig(e)
//	}).Catch(trycatch.IOError, func(trycatch.ID) {
//		useDefaults()
//	}).End()
//
// A region occupies one slot of the engine's stack while its body runs.
// The slot is released on every exit path: normal fall-through, a raise
// caught here or further out, a foreign panic unwinding through it, or
// runtime.Goexit.
type Region struct {
	engine   *Engine
	body     func()
	handlers []handler
	fallback Handler
}

// Try starts building a region that protects body. Nothing runs until End.
func (e *Engine) Try(body func()) *Region {
	return &Region{engine: e, body: body}
}

// Catch adds a handler for id. Handlers are tried in the order they were
// added and the first match wins.
func (r *Region) Catch(id ID, fn Handler) *Region {
	r.handlers = append(r.handlers, handler{id: id, fn: fn})
	return r
}

// CatchDefault sets a handler for any exception that no Catch matched.
// Without one, unmatched exceptions are forwarded to the enclosing region.
func (r *Region) CatchDefault(fn Handler) *Region {
	r.fallback = fn
	return r
}

// End runs the region. The body runs first; if an exception is raised while
// it runs, control comes back here and the exception is dispatched to the
// handlers. End returns once the body completes, a handler completes, or an
// unmatched exception has been reported as unhandled.
func (r *Region) End() {
	e := r.engine
	h := e.enter()
	id, raised := r.protect(h)
	if !raised {
		e.endRegion()
		return
	}
	r.dispatch(id)
}

// protect runs the body and recovers transfers aimed at this region's slot.
func (r *Region) protect(h handle) (id ID, raised bool) {
	e := r.engine
	completed := false
	defer func() {
		v := recover()
		if v == nil {
			if !completed {
				// runtime.Goexit: nothing to dispatch, but the slot is gone.
				e.stack.unwindTo(h.index)
			}
			return
		}
		if t, ok := v.(transfer); ok && t.engine == e && t.target == h {
			id, raised = t.id, true
			return
		}
		if e.faults {
			if addr, ok := faultAddress(v); ok {
				e.stack.unwindTo(h.index)
				e.pending = Fault
				e.logger.Debug().
					Uint64("addr", uint64(addr)).
					Int("depth", e.stack.depth).
					Msg("fault converted to exception")
				e.observer.OnRaise(RaiseEvent{ID: Fault, Depth: e.stack.depth})
				id, raised = Fault, true
				return
			}
		}
		// Not ours: free this slot and anything above it, then keep unwinding.
		e.stack.unwindTo(h.index)
		panic(v)
	}()
	r.body()
	completed = true
	return None, false
}

func (r *Region) dispatch(id ID) {
	e := r.engine
	for _, h := range r.handlers {
		if h.id == id {
			e.caught(id)
			h.fn(id)
			return
		}
	}
	if r.fallback != nil {
		e.caught(id)
		r.fallback(id)
		return
	}
	e.Forward()
}
