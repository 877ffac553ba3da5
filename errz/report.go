package errz

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// MaxStackHeight is the maximum number of call stack frames in a report.
const MaxStackHeight = 10

var (
	colorKind  = color.New(color.FgRed, color.Bold)
	colorFatal = color.New(color.FgHiRed)
	colorFrame = color.New(color.FgHiBlack)
)

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("at %s (%s:%d)", f.Function, f.File, f.Line)
}

// Callers returns up to MaxStackHeight frames of the caller's stack,
// skipping skip frames above the caller.
func Callers(skip int) []StackFrame {
	var pcs [MaxStackHeight]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	var out []StackFrame
	for {
		frame, more := frames.Next()
		out = append(out, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return out
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("stack:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(colorFrame.Sprint(frame.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// Fprint writes the kind, message and fatal flag of the descriptor to w.
func (d *Descriptor) Fprint(w io.Writer) {
	if d == nil || w == nil {
		return
	}
	if d.Kind > KindUnknown {
		fmt.Fprintf(w, "kind: %s\n", colorKind.Sprint(d.Kind.String()))
	}
	if d.Message != "" {
		fmt.Fprintf(w, "message: %s\n", d.Message)
	}
	fmt.Fprintf(w, "fatal: %t\n", d.Fatal)
}

// Report prints the descriptor and a call stack snapshot to its output.
// A fatal descriptor then exits the process with the kind's exit code;
// otherwise the descriptor is reset to its default state.
func (d *Descriptor) Report() {
	if d == nil {
		return
	}
	w := d.output()
	fmt.Fprintln(w, "---- error report ----")
	d.Fprint(w)
	fmt.Fprint(w, FormatStackTrace(Callers(1)))
	if d.Fatal {
		fmt.Fprintln(w, colorFatal.Sprint("exiting"))
		fmt.Fprintln(w, "----------------------")
		d.exit(d.Kind.ExitCode())
		return
	}
	fmt.Fprintln(w, "----------------------")
	d.Reset()
}
