package json

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardnew/ajson/stream"
)

func TestPrint_Scalars(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(-42), "-42"},
		{"min int", Int(math.MinInt64), "-9223372036854775808"},
		{"string", String("hi"), `"hi"`},
		{"empty array", ArrayOf(nil), "[]"},
		{"empty object", ObjectOf(nil), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder

			n, err := Print(tt.v, &sb)
			if err != nil {
				t.Fatalf("print error: %v", err)
			}

			if sb.String() != tt.want || n != len(tt.want) {
				t.Errorf("expected %q (%d bytes), got %q (%d bytes)", tt.want, len(tt.want), sb.String(), n)
			}
		})
	}
}

func TestPrint_Floats(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{"half", 1.5, DefaultPrecision, "1.50000"},
		{"integral", 42, DefaultPrecision, "42.00000"},
		{"negative", -0.25, DefaultPrecision, "-0.25000"},
		{"zero", 0, DefaultPrecision, "0.00000"},
		{"rounding carries into integer part", 0.9999999, DefaultPrecision, "1.00000"},
		{"negative carry", -9.9999999, DefaultPrecision, "-10.00000"},
		{"two digits", 123456, 2, "123456.00"},
		{"one digit", 3, 1, "3.0"},
		{"beyond float precision", 1e20, DefaultPrecision, "100000000000000000000.0"},
		{"nan", math.NaN(), DefaultPrecision, "null"},
		{"positive infinity", math.Inf(1), DefaultPrecision, "null"},
		{"negative infinity", math.Inf(-1), DefaultPrecision, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder

			if _, err := Print(Float(tt.f), &sb, WithPrecision(tt.precision)); err != nil {
				t.Fatalf("print error: %v", err)
			}

			if sb.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, sb.String())
			}
		})
	}
}

func TestPrint_StringEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"solidus verbatim", "a/b", `"a/b"`},
		{"short escapes", "\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"other control bytes dropped", "a\x01\x1fb", `"ab"`},
		{"utf-8 verbatim", "héllo ✓", `"héllo ✓"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPrint_SkipsTombstonesAndInvalid(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Int(1))
	obj.Set("b", Int(2))
	obj.Set("c", Int(3))
	obj.Remove("a")
	obj.Set("d", Invalid())
	obj.Remove("b")
	obj.Set("e", Bool(true))

	if got := ObjectOf(obj).String(); got != `{"e":true,"c":3}` {
		t.Errorf("expected %s, got %s", `{"e":true,"c":3}`, got)
	}

	arr := NewArray()
	arr.Append(Invalid())
	arr.Append(Int(1))
	arr.Append(Invalid())
	arr.Append(Int(2))

	if got := ArrayOf(arr).String(); got != "[1,2]" {
		t.Errorf("expected [1,2], got %s", got)
	}
}

func TestPrint_InvalidValue(t *testing.T) {
	var sb strings.Builder

	n, err := Print(Invalid(), &sb)
	if n != 0 || !errors.Is(err, ErrInvalidValue) || sb.Len() != 0 {
		t.Errorf("expected (0, ErrInvalidValue) and no output, got (%d, %v) %q", n, err, sb.String())
	}
}

func TestPrintln(t *testing.T) {
	var buf bytes.Buffer

	n, err := Println(Int(7), &buf)
	if err != nil || n != 2 || buf.String() != "7\n" {
		t.Errorf("unexpected result %q (%d, %v)", buf.String(), n, err)
	}
}

func TestMeasure(t *testing.T) {
	v, err := Parse(`{"name":"probe","vals":[1,2.5,null,"x\ty"],"on":false}`)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := Measure(v), len(v.String()); got != want {
		t.Errorf("expected Measure %d, got %d", want, got)
	}

	if Measure(Invalid()) != 0 {
		t.Error("expected invalid value to measure 0")
	}
}

func TestDump(t *testing.T) {
	v, err := Parse(`{"a":[1,2,3],"b":"text"}`)
	if err != nil {
		t.Fatal(err)
	}

	full := v.String()

	t.Run("fits with room", func(t *testing.T) {
		buf := bytes.Repeat([]byte{'x'}, len(full)+4)

		n, err := Dump(v, buf)
		if err != nil || n != len(full) {
			t.Fatalf("expected %d bytes, got %d (%v)", len(full), n, err)
		}

		if string(buf[:n]) != full || buf[n] != 0 {
			t.Errorf("expected NUL-terminated %q, got %q", full, buf)
		}
	})

	t.Run("fits exactly", func(t *testing.T) {
		buf := make([]byte, len(full))

		n, err := Dump(v, buf)
		if err != nil || n != len(full) || string(buf) != full {
			t.Errorf("expected exact fit, got %q (%d, %v)", buf, n, err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		buf := make([]byte, 10)

		n, err := Dump(v, buf)
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("expected ErrTruncated, got %v", err)
		}

		if !errors.Is(err, stream.ErrFull) {
			t.Errorf("expected sink error as cause, got %v", err)
		}

		if n != len(buf) || string(buf) != full[:len(buf)] {
			t.Errorf("expected prefix %q, got %q (%d)", full[:len(buf)], buf[:n], n)
		}
	})

	t.Run("zero capacity", func(t *testing.T) {
		n, err := Dump(v, nil)
		if n != 0 || !errors.Is(err, ErrTruncated) {
			t.Errorf("expected (0, ErrTruncated), got (%d, %v)", n, err)
		}
	})
}

func TestFingerprint(t *testing.T) {
	a, _ := Parse(`{"x": [1, 2]}`)
	b, _ := Parse("{\n  \"x\" : [ 1 , 2 ]\n}")
	c, _ := Parse(`{"x": [2, 1]}`)

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatal(err)
	}

	if fb, _ := Fingerprint(b); fa != fb {
		t.Errorf("equal documents fingerprint differently: %x vs %x", fa, fb)
	}

	if fc, _ := Fingerprint(c); fa == fc {
		t.Errorf("different documents share fingerprint %x", fa)
	}

	if _, err := Fingerprint(Invalid()); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf, WithPrecision(2))

	for _, v := range []Value{Int(1), Float(0.5), ArrayOf(nil)} {
		if err := enc.Encode(v); err != nil {
			t.Fatal(err)
		}
	}

	if got := buf.String(); got != "1\n0.50\n[]\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func BenchmarkPrint(b *testing.B) {
	v, err := Parse(`{"id":7,"name":"sensor","readings":[1.5,2.25,3.125],"ok":true}`)
	if err != nil {
		b.Fatal(err)
	}

	var c stream.Counter

	for b.Loop() {
		c.Reset()

		if _, err := Print(v, &c); err != nil {
			b.Fatal(err)
		}
	}
}
