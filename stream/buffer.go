package stream

import "io"

// Buffer is a [Source] over an in-memory byte slice. It never blocks.
type Buffer struct {
	pushback

	data []byte
	pos  int
}

// NewBuffer returns a source reading b. The slice is not copied.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// NewString returns a source reading s.
func NewString(s string) *Buffer {
	return &Buffer{data: []byte(s)}
}

// ReadByte returns the next byte, or [io.EOF] at the end of the buffer.
func (b *Buffer) ReadByte() (byte, error) {
	if c, ok := b.take(); ok {
		return c, nil
	}

	if b.pos >= len(b.data) {
		return 0, io.EOF
	}

	c := b.data[b.pos]
	b.pos++

	return c, nil
}

// Read implements [io.Reader].
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := readBytes(b, p)
	if n > 0 {
		return n, nil
	}

	return n, err
}

// Available reports whether any non-whitespace input remains, discarding
// leading whitespace.
func (b *Buffer) Available() bool {
	if b.ready() {
		return true
	}

	for b.pos < len(b.data) && isSpace(b.data[b.pos]) {
		b.pos++
	}

	return b.pos < len(b.data)
}

// Len returns the number of unread bytes, pushback included.
func (b *Buffer) Len() int {
	n := len(b.data) - b.pos
	if b.full {
		n++
	}

	return n
}
