package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/klauspost/readahead"
)

const (
	// DefaultBlockSize is the size of each block [Reader] reads ahead.
	DefaultBlockSize = 512
	// DefaultReadAhead is the number of blocks [Reader] keeps in flight.
	DefaultReadAhead = 2
)

type chunk struct {
	data []byte
	err  error
}

// Reader is a [Source] over an [io.Reader] that may block, such as a pipe,
// terminal or serial device.
//
// A background goroutine reads ahead of the parser in fixed blocks. A read
// that finds no data waits at most the configured timeout and then fails with
// [ErrTimeout]; the stream stays usable and a later read may succeed. The
// first error from the underlying reader, or cancellation of the context
// given to [NewReader], ends the stream for good.
type Reader struct {
	pushback

	ctx     context.Context
	timeout time.Duration
	chunks  chan chunk
	done    chan struct{}
	once    sync.Once
	ra      io.ReadCloser
	buf     []byte
	err     error
}

// NewReader starts reading r in the background and returns a source over
// the bytes it produces. Call [Reader.Close] to stop the background reader.
func NewReader(ctx context.Context, r io.Reader, opts ...Option) *Reader {
	o := makeOptions(opts...)

	ra, err := readahead.NewReaderSize(r, o.depth, o.block)
	if err != nil {
		ra = readahead.NewReader(r)
	}

	s := &Reader{
		ctx:     ctx,
		timeout: o.timeout,
		chunks:  make(chan chunk, o.depth),
		done:    make(chan struct{}),
		ra:      ra,
	}

	go s.pump(o.block)

	return s
}

// pump is the only goroutine that uses r.ra, including its Close.
func (r *Reader) pump(size int) {
	defer close(r.chunks)
	defer r.ra.Close()

	for {
		select {
		case <-r.done:
			return
		default:
		}

		buf := make([]byte, size)
		n, err := r.ra.Read(buf)

		if n > 0 && !r.send(chunk{data: buf[:n]}) {
			return
		}

		if err != nil {
			r.send(chunk{err: err})

			return
		}
	}
}

func (r *Reader) send(c chunk) bool {
	select {
	case r.chunks <- c:
		return true
	case <-r.done:
		return false
	case <-r.ctx.Done():
		return false
	}
}

// Close stops the background reader and returns immediately; later reads
// report [io.EOF]. It does not close the underlying [io.Reader]. A goroutine
// blocked reading it is released once that reader returns, when its input
// ends or is closed by the caller.
func (r *Reader) Close() error {
	r.once.Do(func() { close(r.done) })

	return nil
}

// ReadByte returns the next byte, waiting at most the configured timeout.
func (r *Reader) ReadByte() (byte, error) {
	if c, ok := r.take(); ok {
		return c, nil
	}

	if len(r.buf) == 0 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}

	c := r.buf[0]
	r.buf = r.buf[1:]

	return c, nil
}

// Read implements [io.Reader]. It returns as soon as at least one byte has
// been read and no more are buffered.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0

	if c, ok := r.take(); ok {
		p[0] = c
		n++
	}

	for n < len(p) {
		if len(r.buf) == 0 {
			if n > 0 && !r.poll() {
				break
			}

			if err := r.fill(); err != nil {
				if n > 0 {
					break
				}

				return 0, err
			}
		}

		k := copy(p[n:], r.buf)
		r.buf = r.buf[k:]
		n += k
	}

	return n, nil
}

// Available reports whether a non-whitespace byte has already been read
// ahead, discarding any whitespace before it. It never blocks.
func (r *Reader) Available() bool {
	if r.ready() {
		return true
	}

	for {
		for len(r.buf) > 0 && isSpace(r.buf[0]) {
			r.buf = r.buf[1:]
		}

		if len(r.buf) > 0 {
			return true
		}

		if !r.poll() {
			return false
		}
	}
}

// poll moves one pending chunk into the buffer without blocking and reports
// whether the buffer is now non-empty.
func (r *Reader) poll() bool {
	if r.err != nil {
		return false
	}

	select {
	case <-r.done:
		r.err = io.EOF

		return false
	case c, ok := <-r.chunks:
		r.accept(c, ok)

		return len(r.buf) > 0
	default:
		return false
	}
}

func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}

	var expired <-chan time.Time

	if r.timeout > 0 {
		t := time.NewTimer(r.timeout)
		defer t.Stop()

		expired = t.C
	}

	for len(r.buf) == 0 {
		if r.err != nil {
			return r.err
		}

		select {
		case c, ok := <-r.chunks:
			r.accept(c, ok)
		case <-expired:
			return ErrTimeout
		case <-r.done:
			r.err = io.EOF

			return r.err
		case <-r.ctx.Done():
			r.err = context.Cause(r.ctx)

			return r.err
		}
	}

	return nil
}

func (r *Reader) accept(c chunk, ok bool) {
	switch {
	case !ok, errors.Is(c.err, io.EOF):
		r.err = io.EOF
	case c.err != nil:
		r.err = c.err
	default:
		r.buf = c.data
	}
}
