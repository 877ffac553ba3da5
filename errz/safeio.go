package errz

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/trycatch"
)

// Scalar lists the value types accepted by Scan and Print.
type Scalar interface {
	~int16 | ~int | ~int64 | ~float32 | ~float64 | ~string
}

// OpenIn opens path for reading. On failure it reports a non-fatal I/O
// error, raises trycatch.IOError if a raiser is attached, and returns nil.
func (d *Descriptor) OpenIn(path string) *os.File {
	return d.open(path, os.Open)
}

// OpenOut creates or truncates path for writing. Failures are handled as
// in OpenIn.
func (d *Descriptor) OpenOut(path string) *os.File {
	return d.open(path, os.Create)
}

func (d *Descriptor) open(path string, open func(string) (*os.File, error)) *os.File {
	if path == "" {
		d.Set(KindNullPointer, true, "'path' is empty").Report()
		return nil
	}
	f, err := open(path)
	if err != nil {
		d.ioFailure("open failed for %s: %v", path, err)
		return nil
	}
	return f
}

// Close closes c. A nil closer is a fatal null pointer error; a failed
// close is a non-fatal I/O error.
func (d *Descriptor) Close(c io.Closer) bool {
	if c == nil {
		d.Set(KindNullPointer, true, "'closer' is nil").Report()
		return false
	}
	if err := c.Close(); err != nil {
		d.ioFailure("close failed: %v", err)
		return false
	}
	return true
}

// CloseAll closes every closer and returns the combined error. Each
// failure is reported once; the raiser, if any, is invoked after all
// closers have been attempted.
func (d *Descriptor) CloseAll(closers ...io.Closer) error {
	var result *multierror.Error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	err := result.ErrorOrNil()
	if err == nil {
		return nil
	}
	d.Setf(KindIOError, false, "close failed: %v", err).Report()
	if d.raiser != nil {
		d.raiser.Raise(trycatch.IOError)
	}
	return err
}

// Scan reads one value from r using format. On failure it reports a
// non-fatal I/O error, raises trycatch.IOError if a raiser is attached,
// and returns false.
func Scan[T Scalar](d *Descriptor, r io.Reader, format string, v *T) bool {
	if r == nil || v == nil {
		d.Set(KindNullPointer, true, "'reader' or 'value' is nil").Report()
		return false
	}
	if _, err := fmt.Fscanf(r, format, v); err != nil {
		d.ioFailure("scan failed: %v", err)
		return false
	}
	return true
}

// Print writes v to w using format. Failures are handled as in Scan.
func Print[T Scalar](d *Descriptor, w io.Writer, format string, v T) bool {
	if w == nil {
		d.Set(KindNullPointer, true, "'writer' is nil").Report()
		return false
	}
	if _, err := fmt.Fprintf(w, format, v); err != nil {
		d.ioFailure("print failed: %v", err)
		return false
	}
	return true
}

func (d *Descriptor) ioFailure(format string, args ...any) {
	d.Setf(KindIOError, false, format, args...).Report()
	if d.raiser != nil {
		d.raiser.Raise(trycatch.IOError)
	}
}
