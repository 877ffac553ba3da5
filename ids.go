package trycatch

import "fmt"

// ID identifies a raised exception. Zero is reserved as the "no exception"
// sentinel and is never raised. The values below NextFree are reserved for
// the built-in kinds; callers define their own identifiers by offsetting
// from NextFree.
type ID int

const (
	// None means no exception is pending.
	None ID = iota
	// IOError is raised by the safe I/O helpers when an operation fails.
	IOError
	// NaN is raised when a computation produces a value outside its domain,
	// such as a floating point not-a-number.
	NaN
	// Fault is raised when a memory access violation is converted into an
	// exception by the fault handler.
	Fault

	// NextFree is the first identifier available to callers.
	NextFree
)

var builtinNames = [NextFree]string{
	None:    "none",
	IOError: "io_error",
	NaN:     "nan",
	Fault:   "fault",
}

// Valid reports whether the identifier may be raised.
func (id ID) Valid() bool {
	return id > None
}

// Builtin reports whether the identifier is one of the reserved kinds.
func (id ID) Builtin() bool {
	return id > None && id < NextFree
}

func (id ID) String() string {
	if id >= None && id < NextFree {
		return builtinNames[id]
	}
	return fmt.Sprintf("exception(%d)", int(id))
}
