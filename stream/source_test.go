package stream

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func readAll(t *testing.T, s Source) string {
	t.Helper()

	var out []byte

	for {
		c, err := s.ReadByte()
		if errors.Is(err, io.EOF) {
			return string(out)
		}

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out = append(out, c)
	}
}

func TestBuffer_ReadAndUnget(t *testing.T) {
	b := NewString("ab")

	c, _ := b.ReadByte()
	if c != 'a' {
		t.Fatalf("expected 'a', got %q", c)
	}

	b.Unget('z')
	b.Unget(c)

	if got := readAll(t, b); got != "ab" {
		t.Errorf("expected second Unget to replace the first, got %q", got)
	}

	if _, err := b.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after end, got %v", err)
	}
}

func TestBuffer_Available(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
		next  byte
	}{
		{"empty", "", false, 0},
		{"whitespace only", " \t\r\n ", false, 0},
		{"leading whitespace", "  \n{", true, '{'},
		{"control bytes count as space", "\x01\x02[", true, '['},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewString(tt.input)
			if got := b.Available(); got != tt.want {
				t.Fatalf("expected Available=%v, got %v", tt.want, got)
			}

			if !tt.want {
				return
			}

			if c, _ := b.ReadByte(); c != tt.next {
				t.Errorf("expected whitespace to be discarded, next byte %q", c)
			}
		})
	}
}

func TestAvailable_Pushback(t *testing.T) {
	sources := map[string]func(t *testing.T, s string) Source{
		"buffer": func(_ *testing.T, s string) Source { return NewString(s) },
		"reader": func(t *testing.T, s string) Source {
			r := NewReader(t.Context(), NewString(s))
			t.Cleanup(func() { _ = r.Close() })

			return r
		},
	}

	tests := []struct {
		name  string
		input string
		back  byte
		want  bool
	}{
		{"space after last value", "1 ", ' ', false},
		{"newline after last value", "1\n", '\n', false},
		{"space before next value", "1 2", ' ', true},
		{"value byte", "1", '1', true},
	}

	for kind, open := range sources {
		for _, tt := range tests {
			t.Run(kind+"/"+tt.name, func(t *testing.T) {
				s := open(t, tt.input)

				// Consume everything up to the pushed-back byte, as a number
				// parser does with its terminator.
				if tt.back != tt.input[0] {
					p := make([]byte, 2)
					if _, err := io.ReadFull(s, p); err != nil {
						t.Fatal(err)
					}
				} else if _, err := s.ReadByte(); err != nil {
					t.Fatal(err)
				}

				s.Unget(tt.back)

				if got := s.Available(); got != tt.want {
					t.Errorf("expected Available %v, got %v", tt.want, got)
				}
			})
		}
	}
}

func TestBuffer_Read(t *testing.T) {
	b := NewString("hello")
	b.Unget('>')

	p := make([]byte, 4)

	n, err := b.Read(p)
	if err != nil || string(p[:n]) != ">hel" {
		t.Fatalf("expected %q, got %q (%v)", ">hel", p[:n], err)
	}

	data, err := io.ReadAll(b)
	if err != nil || string(data) != "lo" {
		t.Errorf("expected remainder %q, got %q (%v)", "lo", data, err)
	}
}

func TestReader_ReadsAll(t *testing.T) {
	r := NewReader(t.Context(), NewString(`{"a": [1, 2]}`), WithBlockSize(3))
	defer r.Close()

	if got := readAll(t, r); got != `{"a": [1, 2]}` {
		t.Errorf("unexpected content %q", got)
	}

	if r.Available() {
		t.Error("exhausted reader reports available input")
	}
}

func TestReader_TimeoutIsRecoverable(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewReader(t.Context(), pr, WithTimeout(20*time.Millisecond))
	defer r.Close()

	if _, err := r.ReadByte(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	go func() { _, _ = pw.Write([]byte("x")) }()

	r.timeout = time.Second

	c, err := r.ReadByte()
	if err != nil || c != 'x' {
		t.Fatalf("expected 'x' after timeout, got %q (%v)", c, err)
	}
}

func TestReader_CloseDoesNotBlock(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	go func() { _, _ = pw.Write([]byte("[1,")) }()

	r := NewReader(t.Context(), pr, WithTimeout(20*time.Millisecond))

	p := make([]byte, 3)
	if _, err := io.ReadFull(r, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := r.ReadByte(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout on stalled input, got %v", err)
	}

	done := make(chan error)

	go func() { done <- r.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close blocked on stalled input")
	}

	if _, err := r.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after Close, got %v", err)
	}
}

func TestReader_AvailableDoesNotBlock(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewReader(t.Context(), pr)
	defer r.Close()

	done := make(chan bool)

	go func() { done <- r.Available() }()

	select {
	case got := <-done:
		if got {
			t.Error("expected no input available on an idle pipe")
		}
	case <-time.After(time.Second):
		t.Fatal("Available blocked")
	}
}

func TestReader_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancelCause(t.Context())
	cause := errors.New("shutting down")

	r := NewReader(ctx, pr, WithTimeout(0))
	defer r.Close()

	cancel(cause)

	if _, err := r.ReadByte(); !errors.Is(err, cause) {
		t.Errorf("expected cancellation cause, got %v", err)
	}
}

func TestConn_EOFOnDisconnect(t *testing.T) {
	server, client := net.Pipe()

	go func() {
		_, _ = client.Write([]byte(`  [true]`))
		_ = client.Close()
	}()

	c := NewConn(server)

	if got := readAll(t, c); got != `  [true]` {
		t.Errorf("unexpected content %q", got)
	}

	if c.Connected() {
		t.Error("expected connection to be closed after disconnect")
	}

	if _, err := c.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF on a closed connection, got %v", err)
	}
}

func TestConn_Timeout(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConn(server, WithTimeout(20*time.Millisecond))
	defer c.Close()

	if _, err := c.ReadByte(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	if !c.Connected() {
		t.Error("timeout should not close the connection")
	}
}

func TestConn_AvailableSkipsBufferedSpace(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConn(server)
	defer c.Close()

	go func() { _, _ = client.Write([]byte(" \n7")) }()

	if b, err := c.ReadByte(); err != nil || b != ' ' {
		t.Fatalf("expected leading space, got %q (%v)", b, err)
	}

	if !c.Available() {
		t.Fatal("expected buffered byte to be available")
	}

	if b, _ := c.ReadByte(); b != '7' {
		t.Errorf("expected '7' after skipped whitespace, got %q", b)
	}
}

func TestConn_CloseInterruptsRead(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConn(server)

	ctx, cancel := context.WithCancel(t.Context())
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := c.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after Close, got %v", err)
	}

	if c.Connected() {
		t.Error("expected connection to be closed")
	}
}
