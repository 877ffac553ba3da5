package trycatch

// Observer is an interface for observing region and exception events.
// It can be used for tracing, test assertions or metrics without touching
// the engine itself.
//
// Implementations can embed NoOpObserver and override only the methods
// they need. Methods are called synchronously on the goroutine that owns
// the engine.
type Observer interface {
	// OnEnter is called after a region has occupied its slot.
	OnEnter(event RegionEvent)

	// OnExit is called when a region falls through normally and frees
	// its slot.
	OnExit(event RegionEvent)

	// OnRaise is called when an exception is transferred to a region,
	// including re-raises performed by Forward and converted faults.
	OnRaise(event RaiseEvent)

	// OnCatch is called just before a matching handler runs.
	OnCatch(event RaiseEvent)

	// OnUnhandled is called when an exception finds no active region.
	OnUnhandled(event RaiseEvent)
}

// RegionEvent contains information about a region entering or exiting.
type RegionEvent struct {
	// Depth is the number of occupied slots after the event.
	Depth int

	// Capacity is the engine's fixed capacity.
	Capacity int
}

// RaiseEvent contains information about an exception in flight.
type RaiseEvent struct {
	// ID is the exception identifier.
	ID ID

	// Depth is the number of occupied slots after the event.
	Depth int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) OnEnter(RegionEvent)    {}
func (NoOpObserver) OnExit(RegionEvent)     {}
func (NoOpObserver) OnRaise(RaiseEvent)     {}
func (NoOpObserver) OnCatch(RaiseEvent)     {}
func (NoOpObserver) OnUnhandled(RaiseEvent) {}

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
