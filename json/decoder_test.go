package json

import (
	"errors"
	"io"
	"net"
	"testing"

	"github.com/ardnew/ajson/stream"
)

func TestDecoder_MultipleDocuments(t *testing.T) {
	dec := NewDecoder(stream.NewString(` 1 "two"
[3] {"four":4}  `))

	want := []string{`1`, `"two"`, `[3]`, `{"four":4}`}

	for i, w := range want {
		v, err := dec.Decode(t.Context())
		if err != nil {
			t.Fatalf("document %d: %v", i, err)
		}

		if v.String() != w {
			t.Errorf("document %d: expected %s, got %s", i, w, v)
		}
	}

	if _, err := dec.Decode(t.Context()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last document, got %v", err)
	}
}

func TestDecoder_More(t *testing.T) {
	dec := NewDecoder(stream.NewString(" 1 2 \n"))

	var got []int64

	for dec.More() {
		v, err := dec.Decode(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		i, _ := v.AsInt()
		got = append(got, i)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}

func TestDecoder_ErrorIsStickyUntilFlush(t *testing.T) {
	dec := NewDecoder(stream.NewString(`[1,} {"ok":true}`))

	_, err := dec.Decode(t.Context())
	if !errors.Is(err, ErrUnexpectedChar) {
		t.Fatalf("expected ErrUnexpectedChar, got %v", err)
	}

	if _, again := dec.Decode(t.Context()); again != err {
		t.Errorf("expected the same error again, got %v", again)
	}

	if dec.More() {
		t.Error("More should report false while an error is pending")
	}

	if n := dec.Flush(); n == 0 {
		t.Error("expected Flush to discard buffered input")
	}

	if _, err := dec.Decode(t.Context()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after flushing everything, got %v", err)
	}
}

func TestDecoder_Position(t *testing.T) {
	dec := NewDecoder(stream.NewString("1\n2\n"))

	_, _ = dec.Decode(t.Context())
	_, _ = dec.Decode(t.Context())

	if pos := dec.Position(); pos.Line != 2 || pos.Offset != 3 {
		t.Errorf("expected to stop after the second value, got %+v", pos)
	}
}

func TestDecoder_Conn(t *testing.T) {
	server, client := net.Pipe()

	go func() {
		_, _ = client.Write([]byte(`{"seq":1}`))
		_, _ = client.Write([]byte("\n{\"seq\":2}\n"))
		_ = client.Close()
	}()

	src := stream.NewConn(server)
	dec := NewDecoder(src)

	for seq := int64(1); seq <= 2; seq++ {
		v, err := dec.Decode(t.Context())
		if err != nil {
			t.Fatalf("seq %d: %v", seq, err)
		}

		obj, _ := v.AsObject()
		if got, _ := obj.Get("seq"); !got.Equal(Int(seq)) {
			t.Errorf("expected seq %d, got %s", seq, v)
		}
	}

	if _, err := dec.Decode(t.Context()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF on disconnect, got %v", err)
	}

	if src.Connected() {
		t.Error("expected source to close the connection")
	}
}
