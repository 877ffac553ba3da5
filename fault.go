package trycatch

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// RegisterFaultHandler turns memory access faults into Fault exceptions.
//
// The Go runtime already converts a synchronous SIGSEGV/SIGBUS on the
// faulting goroutine into a runtime panic; nil dereferences always take
// that path, and debug.SetPanicOnFault extends it to faults at arbitrary
// addresses. Once registered, a region of this engine that recovers such a
// panic treats it exactly as if Raise(Fault) had been called at the faulting
// instruction. Nothing runs in signal context.
//
// SetPanicOnFault is per goroutine, so register from the goroutine that
// owns the engine. The returned function restores the previous settings.
//
// A fault with no active region is not converted: it stays a runtime panic
// and crashes the program as usual. Continuing after an uncaught fault would
// leave the faulting code's side effects undefined.
func (e *Engine) RegisterFaultHandler() (restore func()) {
	prev := debug.SetPanicOnFault(true)
	wasEnabled := e.faults
	e.faults = true
	e.logger.Debug().Msg("fault handler registered")
	return func() {
		debug.SetPanicOnFault(prev)
		e.faults = wasEnabled
	}
}

// faultAddress reports whether v is a runtime memory fault and, when the
// runtime recorded it, the faulting address.
func faultAddress(v any) (uintptr, bool) {
	rerr, ok := v.(runtime.Error)
	if !ok {
		return 0, false
	}
	if a, ok := rerr.(interface{ Addr() uintptr }); ok {
		return a.Addr(), true
	}
	if strings.Contains(rerr.Error(), "invalid memory address") {
		return 0, true
	}
	return 0, false
}
