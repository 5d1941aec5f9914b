package stream

import (
	"bufio"
	"errors"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"
)

// Conn is a [Source] over a network connection.
//
// Reads block until data arrives. When the peer disconnects, or any other
// read error occurs, Conn closes the connection and reports [io.EOF] from
// then on. With a timeout set by [WithTimeout], a read that sees no data in
// time fails with [ErrTimeout] and leaves the connection open.
type Conn struct {
	pushback

	conn    net.Conn
	rd      *bufio.Reader
	timeout time.Duration
	closed  atomic.Bool
}

// NewConn returns a source reading from c. Unlike [NewReader], the default
// is to wait indefinitely for data.
func NewConn(c net.Conn, opts ...Option) *Conn {
	o := makeOptions(append([]Option{WithTimeout(0)}, opts...)...)

	return &Conn{
		conn:    c,
		rd:      bufio.NewReaderSize(c, o.block),
		timeout: o.timeout,
	}
}

// Connected reports whether the connection is still open.
func (c *Conn) Connected() bool { return !c.closed.Load() }

// RemoteAddr returns the address of the peer.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Close closes the connection. It is safe to call from another goroutine to
// interrupt a blocked read.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	return c.conn.Close()
}

// ReadByte returns the next byte from the connection.
func (c *Conn) ReadByte() (byte, error) {
	if b, ok := c.take(); ok {
		return b, nil
	}

	if c.rd.Buffered() == 0 {
		if err := c.wait(); err != nil {
			return 0, err
		}
	}

	b, err := c.rd.ReadByte()
	if err != nil {
		return 0, c.fail(err)
	}

	return b, nil
}

// Read implements [io.Reader].
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if b, ok := c.take(); ok {
		p[0] = b
		n, _ := c.rd.Read(p[1:min(len(p), 1+c.rd.Buffered())])

		return 1 + n, nil
	}

	if c.rd.Buffered() == 0 {
		if err := c.wait(); err != nil {
			return 0, err
		}
	}

	n, err := c.rd.Read(p)
	if err != nil && n == 0 {
		return 0, c.fail(err)
	}

	return n, nil
}

// Available reports whether a non-whitespace byte is already buffered,
// discarding any whitespace before it. It never blocks.
func (c *Conn) Available() bool {
	if c.ready() {
		return true
	}

	for c.rd.Buffered() > 0 {
		b, _ := c.rd.Peek(1)
		if !isSpace(b[0]) {
			return true
		}

		_, _ = c.rd.Discard(1)
	}

	return false
}

// wait arms the read deadline before a read that will hit the network.
func (c *Conn) wait() error {
	if c.closed.Load() {
		return io.EOF
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return c.fail(err)
		}
	}

	return nil
}

func (c *Conn) fail(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimeout.Wrap(err)
	}

	_ = c.Close()

	return io.EOF
}
