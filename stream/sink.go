package stream

import (
	"bufio"
	"io"
	"log/slog"

	"github.com/ardnew/ajson/pkg"
)

// ErrFull is returned by [Fixed] when its buffer has no room left.
var ErrFull = pkg.NewError("buffer full")

// Sink is the byte-at-a-time output accepted by printers. A write that
// fails means the sink will accept no more output.
type Sink = io.ByteWriter

// Counter is a [Sink] that discards its input and counts the bytes.
type Counter struct {
	n int
}

// WriteByte counts one byte. It never fails.
func (c *Counter) WriteByte(byte) error {
	c.n++

	return nil
}

// Write implements [io.Writer].
func (c *Counter) Write(p []byte) (int, error) {
	c.n += len(p)

	return len(p), nil
}

// Len returns the number of bytes written so far.
func (c *Counter) Len() int { return c.n }

// Reset sets the count back to zero.
func (c *Counter) Reset() { c.n = 0 }

// Fixed is a [Sink] writing into a caller-provided slice that never grows.
type Fixed struct {
	buf []byte
	n   int
}

// NewFixed returns a sink writing into buf, starting at index 0.
func NewFixed(buf []byte) *Fixed {
	return &Fixed{buf: buf}
}

// WriteByte stores c, or fails with [ErrFull] when buf is exhausted.
func (f *Fixed) WriteByte(c byte) error {
	if f.n >= len(f.buf) {
		return ErrFull.With(slog.Int("capacity", len(f.buf)))
	}

	f.buf[f.n] = c
	f.n++

	return nil
}

// Write implements [io.Writer]. It copies as much of p as fits and reports
// [ErrFull] if not all of it did.
func (f *Fixed) Write(p []byte) (int, error) {
	n := copy(f.buf[f.n:], p)
	f.n += n

	if n < len(p) {
		return n, ErrFull.With(slog.Int("capacity", len(f.buf)))
	}

	return n, nil
}

// Len returns the number of bytes written.
func (f *Fixed) Len() int { return f.n }

// Cap returns the capacity of the underlying slice.
func (f *Fixed) Cap() int { return len(f.buf) }

// Bytes returns the written prefix of the underlying slice.
func (f *Fixed) Bytes() []byte { return f.buf[:f.n] }

// Reset discards everything written.
func (f *Fixed) Reset() { f.n = 0 }

// NewWriter returns a buffered [Sink] over w. Call Flush when done; a
// failed write to w makes every later WriteByte fail.
func NewWriter(w io.Writer) *bufio.Writer {
	if bw, ok := w.(*bufio.Writer); ok {
		return bw
	}

	return bufio.NewWriter(w)
}
