package json

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ardnew/ajson/stream"
)

// Decoder reads consecutive JSON documents from a single [stream.Source],
// such as values sent one after another over a socket or serial line.
//
// Positions reported in errors count from the start of the stream, except
// for whitespace discarded by [Decoder.More] and [Decoder.Flush].
type Decoder struct {
	p   *parser
	err error
}

// NewDecoder returns a decoder reading from src.
func NewDecoder(src stream.Source, opts ...Option) *Decoder {
	return &Decoder{p: newParser(src, makeConfig(opts...))}
}

// More reports whether the start of another document is already waiting,
// without blocking. Whitespace before it is discarded.
func (d *Decoder) More() bool {
	return d.err == nil && d.p.src.Available()
}

// Decode parses the next document.
//
// It returns [io.EOF] when the stream ends cleanly between documents. A
// source error while waiting for a document to start, such as
// [stream.ErrTimeout], is returned as is and the decoder stays usable. A
// syntax error is returned as a [*SyntaxError] and is repeated by every
// later call, since the stream position inside the broken document is lost.
func (d *Decoder) Decode(ctx context.Context) (Value, error) {
	if d.err != nil {
		return Invalid(), d.err
	}

	if err := context.Cause(ctx); err != nil {
		return Invalid(), err
	}

	c, err := d.p.skip()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Invalid(), io.EOF
		}

		return Invalid(), err
	}

	d.p.unget(c)

	start := d.p.position()

	v, err := d.p.value(0)
	if err != nil {
		d.err = err
		d.p.cfg.logger.DebugContext(ctx, "decode failed", slog.Any("error", err))

		return Invalid(), err
	}

	d.p.cfg.logger.TraceContext(ctx, "decoded value",
		slog.String("kind", v.Kind().String()),
		slog.Int("offset", start.Offset),
		slog.Int("bytes", d.p.off-start.Offset))

	return v, nil
}

// Flush discards input that is already waiting in the source, up to the
// first byte that would block. It returns the number of bytes discarded and
// clears any syntax error so decoding can resume at the next document.
func (d *Decoder) Flush() int {
	n := 0

	for d.p.src.Available() {
		if _, err := d.p.get(); err != nil {
			break
		}

		n++
	}

	d.err = nil

	return n
}

// Position returns the position of the next byte to be read.
func (d *Decoder) Position() Position { return d.p.position() }
