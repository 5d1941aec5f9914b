package stream

import (
	"io"
	"time"

	"github.com/ardnew/ajson/pkg"
)

// ErrTimeout is returned by a blocking [Source] when no byte arrived within
// the configured timeout. Parsers treat it as end of input.
var ErrTimeout = pkg.NewError("read timed out")

// DefaultTimeout bounds how long [Reader] waits for the next byte.
const DefaultTimeout = 500 * time.Millisecond

// Source is a pull-based byte stream with single-byte pushback.
//
// ReadByte blocks until a byte is available, the input ends ([io.EOF]) or
// the implementation gives up (for example [ErrTimeout]). Unget pushes one
// byte back so the next ReadByte returns it; only one byte of pushback is
// supported and a second Unget replaces the first. Read fills p from the
// same byte stream, pushback included, and returns how many bytes it got.
//
// Available reports whether a byte can be read without blocking. Like the
// serial streams it models, it discards any whitespace (bytes <= 0x20) that
// precedes the next byte, so a true result means a value is waiting.
type Source interface {
	io.ByteReader
	io.Reader

	Available() bool
	Unget(c byte)
}

// pushback is the single-slot bucket shared by all sources.
type pushback struct {
	c    byte
	full bool
}

// Unget stores c to be returned by the next read.
func (p *pushback) Unget(c byte) {
	p.c, p.full = c, true
}

func (p *pushback) take() (byte, bool) {
	if !p.full {
		return 0, false
	}

	p.full = false

	return p.c, true
}

// ready discards a whitespace byte held in the slot and reports whether a
// non-whitespace byte remains there.
func (p *pushback) ready() bool {
	if p.full && isSpace(p.c) {
		p.full = false
	}

	return p.full
}

func isSpace(c byte) bool { return c <= ' ' }

// readBytes fills p one byte at a time from r, stopping at the first error.
func readBytes(r io.ByteReader, p []byte) (int, error) {
	for i := range p {
		c, err := r.ReadByte()
		if err != nil {
			return i, err
		}

		p[i] = c
	}

	return len(p), nil
}

// Option configures a blocking [Source].
type Option func(options) options

type options struct {
	timeout time.Duration
	block   int
	depth   int
}

func makeOptions(opts ...Option) options {
	o := options{
		timeout: DefaultTimeout,
		block:   DefaultBlockSize,
		depth:   DefaultReadAhead,
	}

	for _, opt := range opts {
		o = opt(o)
	}

	return o
}

// WithTimeout sets how long a read waits for the next byte.
// Zero or a negative duration waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(o options) options {
		o.timeout = max(d, 0)

		return o
	}
}

// WithBlockSize sets the size of each read-ahead block. Values below 1 are
// ignored.
func WithBlockSize(n int) Option {
	return func(o options) options {
		if n > 0 {
			o.block = n
		}

		return o
	}
}

// WithReadAhead sets how many blocks may be read ahead of the parser.
// Values below 1 are ignored.
func WithReadAhead(n int) Option {
	return func(o options) options {
		if n > 0 {
			o.depth = n
		}

		return o
	}
}
