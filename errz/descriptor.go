// Package errz provides the error descriptor used to report failures of the
// helpers around the exception engine: a small mutable record holding a
// message, a kind, an output stream and a fatal flag, and a Report function
// that prints it with a call stack and optionally exits.
package errz

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/deepnoodle-ai/trycatch"
)

// MaxMessageLength bounds the length of a descriptor message in bytes.
const MaxMessageLength = 256

// Kind represents the category of an error.
type Kind int

const (
	// KindUnknown is the default kind of a fresh descriptor.
	KindUnknown Kind = iota
	// KindMallocFailed indicates an allocation failure.
	KindMallocFailed
	// KindNullPointer indicates a required reference was nil.
	KindNullPointer
	// KindInvalidArg indicates an invalid argument.
	KindInvalidArg
	// KindUnitTestFailed indicates a failed self check.
	KindUnitTestFailed
	// KindOther is a catch-all kind.
	KindOther
	// KindInvalidData indicates malformed input data.
	KindInvalidData
	// KindIOError indicates a failed read, write, open or close.
	KindIOError
	// KindNotYetImplemented indicates a missing feature.
	KindNotYetImplemented
	// KindRuntime indicates a general runtime error.
	KindRuntime
)

// String returns the label of the kind.
func (k Kind) String() string {
	switch k {
	case KindMallocFailed:
		return "malloc failed"
	case KindNullPointer:
		return "null pointer"
	case KindInvalidArg:
		return "invalid arguments"
	case KindUnitTestFailed:
		return "unit test failed"
	case KindOther:
		return "other"
	case KindInvalidData:
		return "invalid data"
	case KindIOError:
		return "I/O error"
	case KindNotYetImplemented:
		return "not yet implemented"
	case KindRuntime:
		return "runtime error"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit status used when a fatal descriptor of
// this kind is reported. It is never zero.
func (k Kind) ExitCode() int {
	if k <= KindUnknown {
		return 1
	}
	return int(k)
}

// Raiser is implemented by *trycatch.Engine. A descriptor with a Raiser
// raises trycatch.IOError after reporting a non-fatal I/O failure.
type Raiser interface {
	Raise(id trycatch.ID)
}

// Descriptor is a mutable error record. Callers set Kind, Message and Fatal
// and then call Report.
type Descriptor struct {
	Message string
	Kind    Kind
	Fatal   bool

	// Out receives reports. Nil means os.Stderr.
	Out io.Writer

	// Exit terminates the process after a fatal report. Nil means os.Exit.
	Exit func(code int)

	raiser Raiser
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithOutput sets the stream reports are written to.
func WithOutput(w io.Writer) Option {
	return func(d *Descriptor) {
		d.Out = w
	}
}

// WithExitFunc replaces os.Exit for fatal reports.
func WithExitFunc(exit func(code int)) Option {
	return func(d *Descriptor) {
		d.Exit = exit
	}
}

// WithRaiser attaches an exception engine to the descriptor.
func WithRaiser(r Raiser) Option {
	return func(d *Descriptor) {
		d.raiser = r
	}
}

// New returns a descriptor in its default state: unknown kind, empty
// message, fatal.
func New(options ...Option) *Descriptor {
	d := &Descriptor{}
	for _, opt := range options {
		opt(d)
	}
	d.Reset()
	return d
}

// Reset restores the default kind, message and fatal flag. The output
// stream, exit function and raiser are kept.
func (d *Descriptor) Reset() {
	if d == nil {
		return
	}
	d.Message = ""
	d.Kind = KindUnknown
	d.Fatal = true
}

// Set fills in the descriptor with a literal message, truncated to
// MaxMessageLength bytes.
func (d *Descriptor) Set(kind Kind, fatal bool, msg string) *Descriptor {
	d.Kind = kind
	d.Fatal = fatal
	d.Message = truncate(msg, MaxMessageLength)
	return d
}

// Setf is like Set but formats the message with fmt.Sprintf.
func (d *Descriptor) Setf(kind Kind, fatal bool, format string, args ...any) *Descriptor {
	return d.Set(kind, fatal, fmt.Sprintf(format, args...))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (d *Descriptor) output() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stderr
}

func (d *Descriptor) exit(code int) {
	if d.Exit != nil {
		d.Exit(code)
		return
	}
	os.Exit(code)
}
