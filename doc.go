// Package trycatch provides structured exception handling built on a bounded
// stack of protected regions.
//
// An Engine owns the stack. Regions are entered with Try and run with End;
// code inside a region, or in any function it calls, signals an exception
// with Raise. The innermost active region matches the identifier against
// its handlers in order. An unmatched exception is forwarded to the next
// enclosing region, and one that runs out of regions is logged as unhandled
// while execution continues after the raise point.
//
//	e := trycatch.MustNew()
//	e.Try(func() {
//		e.Raise(trycatch.NextFree)
//	}).Catch(trycatch.NextFree, func(id trycatch.ID) {
//		fmt.Println("caught", id)
//	}).End()
//
// The stack has a fixed capacity chosen when the engine is built. Entering a
// region with every slot occupied is treated as a programming error: a
// message is written to stderr and the process exits.
//
// Engines are not safe for concurrent use. Each goroutine that enters
// regions needs its own Engine, either passed explicitly or carried in a
// context.Context with WithEngine.
//
// RegisterFaultHandler converts memory access faults that occur inside a
// region into the Fault exception.
package trycatch
