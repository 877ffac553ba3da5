package trycatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned by New when the configured capacity
	// cannot hold a single region.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrRaiseNone indicates an attempt to raise the reserved None identifier
	// or a negative identifier.
	ErrRaiseNone = errors.New("cannot raise a non-positive exception identifier")

	// ErrOverflow indicates that a region was entered while the stack was full.
	ErrOverflow = errors.New("region nesting overflow")
)

// OverflowError describes a region entered with every slot occupied.
// It is only ever observed when an injected exit function returns instead
// of terminating the process.
type OverflowError struct {
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("region nesting overflow (capacity %d)", e.Capacity)
}

func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}

// MisuseError reports a structural misuse of the engine API.
type MisuseError struct {
	Op  string
	ID  ID
	Err error
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("trycatch: %s(%d): %v", e.Op, int(e.ID), e.Err)
}

func (e *MisuseError) Unwrap() error {
	return e.Err
}
