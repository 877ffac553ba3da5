package trycatch

import "fmt"

// DefaultCapacity is the number of nested regions an engine accepts when no
// capacity is configured. It is deliberately small so that overflow is easy
// to exercise.
const DefaultCapacity = 3

// slot is one entry of the region stack. The continuation itself is the
// deferred recover of the region that owns the slot; gen tells a transfer
// apart from one aimed at an earlier occupant of the same index.
type slot struct {
	occupied bool
	gen      uint64
}

// handle identifies the slot a region occupies.
type handle struct {
	index int
	gen   uint64
}

// stack is a fixed-capacity stack of slots. slots[0:depth] are the active
// regions, most recently entered at depth-1. It never grows.
type stack struct {
	slots []slot
	depth int
	gens  uint64
}

func newStack(capacity int) stack {
	return stack{slots: make([]slot, capacity)}
}

func (s *stack) capacity() int {
	return len(s.slots)
}

func (s *stack) full() bool {
	return s.depth == len(s.slots)
}

// push occupies the next free slot. Callers run the overflow guard first.
func (s *stack) push() handle {
	s.gens++
	sl := &s.slots[s.depth]
	sl.occupied = true
	sl.gen = s.gens
	h := handle{index: s.depth, gen: s.gens}
	s.depth++
	return h
}

// pop frees the top slot and returns the handle it was occupied with.
func (s *stack) pop() (handle, bool) {
	if s.depth == 0 {
		return handle{}, false
	}
	s.depth--
	sl := &s.slots[s.depth]
	sl.occupied = false
	return handle{index: s.depth, gen: sl.gen}, true
}

// unwindTo frees every slot at or above index.
func (s *stack) unwindTo(index int) {
	for s.depth > index {
		s.depth--
		s.slots[s.depth].occupied = false
	}
}

// guard terminates the process when no slot is left for a new region.
// The message goes straight to the overflow writer: the logger and any
// error descriptor are not trusted at this point.
func (e *Engine) guard() {
	if !e.stack.full() {
		return
	}
	capacity := e.stack.capacity()
	fmt.Fprintf(e.overflowOut,
		"trycatch: region nesting overflow (capacity %d), exiting\n", capacity)
	e.exit(1)
	// Only reached when an injected exit function returns.
	panic(&OverflowError{Capacity: capacity})
}
