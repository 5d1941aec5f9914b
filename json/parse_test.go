package json

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/ajson/container"
	"github.com/ardnew/ajson/pkg"
	"github.com/ardnew/ajson/stream"
)

func TestParse_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"null", `null`, Null()},
		{"true", `true`, Bool(true)},
		{"false", ` false `, Bool(false)},
		{"zero", `0`, Int(0)},
		{"negative int", `-12`, Int(-12)},
		{"min int64", `-9223372036854775808`, Int(-9223372036854775808)},
		{"max int64", `9223372036854775807`, Int(9223372036854775807)},
		{"integral float", `42.0`, Float(42)},
		{"fraction", `3.25`, Float(3.25)},
		{"exponent", `1e3`, Float(1000)},
		{"signed exponent", `-2.5E-1`, Float(-0.25)},
		{"plus exponent", `5e+2`, Float(500)},
		{"empty string", `""`, String("")},
		{"plain string", "\t\"hello\"\n", String("hello")},
		{"utf-8 string", `"héllo"`, String("héllo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %v %s, got %v %s", tt.want.Kind(), tt.want, got.Kind(), got)
			}
		})
	}
}

func TestParse_Escapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quote and backslash", `"a\"b\\c"`, "a\"b\\c"},
		{"solidus", `"a\/b"`, "a/b"},
		{"whitespace escapes", `"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{"unknown escape dropped", `"x\qy"`, "xy"},
		{"unicode escape not decoded", `"\u0041"`, "0041"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if s, _ := v.AsString(); s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestParse_Containers(t *testing.T) {
	v, err := Parse(` { "id" : 7 , "tags" : [ "a" , [ ] , { } ] , "ok" : null } `)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	obj, err := v.AsObject()
	if err != nil {
		t.Fatal(err)
	}

	if got := obj.Keys(); len(got) != 3 || got[0] != "id" || got[1] != "tags" || got[2] != "ok" {
		t.Errorf("expected keys in document order, got %v", got)
	}

	tags, _ := obj.Get("tags")

	arr, err := tags.AsArray()
	if err != nil || arr.Len() != 3 {
		t.Fatalf("expected 3 tags, got %v (%v)", tags, err)
	}

	if !arr.Get(1).IsArray() || !arr.Get(2).IsObject() {
		t.Errorf("expected nested empty containers, got %s", tags)
	}
}

func TestParse_Exponent(t *testing.T) {
	for input, want := range map[string]float64{
		`4.2e1`:   42,
		`4.2E+1`:  42,
		`420e-1`:  42,
		`-1.5e0`:  -1.5,
		`2.5e-3`:  0.0025,
		`0.125e3`: 125,
	} {
		v, err := Parse(input)
		if err != nil {
			t.Errorf("%s: parse error: %v", input, err)

			continue
		}

		if f, err := v.AsFloat(); err != nil || f != want {
			t.Errorf("%s: expected float %v, got %v (%v)", input, want, v, err)
		}
	}
}

func TestParse_NumberKinds(t *testing.T) {
	for input, want := range map[string]Kind{
		`42`:    KindInt,
		`42.0`:  KindFloat,
		`42e0`:  KindFloat,
		`-0`:    KindInt,
		`-0.0`:  KindFloat,
		`007`:   KindInt,
		`1.5E2`: KindFloat,
	} {
		v, err := Parse(input)
		if err != nil {
			t.Errorf("%s: parse error: %v", input, err)

			continue
		}

		if v.Kind() != want {
			t.Errorf("%s: expected %v, got %v", input, want, v.Kind())
		}
	}
}

func TestParse_DuplicateKeysKeepLast(t *testing.T) {
	v, err := Parse(`{"a":1,"b":2,"a":3}`)
	if err != nil {
		t.Fatal(err)
	}

	obj, _ := v.AsObject()

	if got, _ := obj.Get("a"); !got.Equal(Int(3)) || obj.Len() != 2 {
		t.Errorf("expected a=3 in 2 members, got %s", v)
	}
}

func TestParse_KeysTruncated(t *testing.T) {
	long := strings.Repeat("k", 70)

	v, err := Parse(`{"` + long + `":true}`)
	if err != nil {
		t.Fatal(err)
	}

	obj, _ := v.AsObject()

	keys := obj.Keys()
	if len(keys) != 1 || len(keys[0]) != container.MaxKeyLength {
		t.Errorf("expected one key of %d bytes, got %v", container.MaxKeyLength, keys)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *pkg.Error
	}{
		{"empty", ``, ErrUnexpectedEOF},
		{"whitespace", " \n\t", ErrUnexpectedEOF},
		{"bad start", `@`, ErrUnexpectedChar},
		{"unterminated array", `[1,2`, ErrUnexpectedEOF},
		{"missing comma", `[1 2]`, ErrUnexpectedChar},
		{"trailing comma in array", `[1,]`, ErrUnexpectedChar},
		{"trailing comma in object", `{"a":1,}`, ErrUnexpectedChar},
		{"missing colon", `{"a" 1}`, ErrUnexpectedChar},
		{"unquoted key", `{a:1}`, ErrUnexpectedChar},
		{"unterminated object", `{"a":1`, ErrUnexpectedEOF},
		{"short literal", `tru`, ErrUnexpectedEOF},
		{"bad literal", `trux`, ErrLiteral},
		{"bad null", `nul1`, ErrLiteral},
		{"lone minus", `-`, ErrUnexpectedEOF},
		{"minus letter", `-x`, ErrUnexpectedChar},
		{"no fraction digits", `1.`, ErrUnexpectedEOF},
		{"no fraction digits before exponent", `1.e5`, ErrUnexpectedChar},
		{"no exponent digits", `1e`, ErrUnexpectedEOF},
		{"signed exponent without digits", `1e+`, ErrUnexpectedEOF},
		{"unterminated string", `"abc`, ErrUnexpectedEOF},
		{"unterminated escape", `"abc\`, ErrUnexpectedEOF},
		{"control character", "\"a\x01b\"", ErrUnexpectedChar},
		{"raw newline in string", "\"a\nb\"", ErrUnexpectedChar},
		{"int overflow", `9223372036854775808`, ErrNumberRange},
		{"int underflow", `-9223372036854775809`, ErrNumberRange},
		{"float overflow", `1e400`, ErrNumberRange},
		{"trailing data", `1 2`, ErrTrailingData},
		{"trailing garbage", `{}x`, ErrTrailingData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got %s", v)
			}

			if !v.IsInvalid() {
				t.Errorf("expected invalid value on failure, got %v", v.Kind())
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected error to match ErrSyntax: %v", err)
			}

			var se *SyntaxError
			if !errors.As(err, &se) || se.Reason == "" {
				t.Errorf("expected *SyntaxError with a reason, got %#v", err)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("{\n  \"a\": x\n}")

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}

	want := Position{Offset: 9, Line: 2, Column: 8}
	if se.Pos != want {
		t.Errorf("expected position %+v, got %+v", want, se.Pos)
	}

	if !strings.Contains(se.Error(), "line 2, column 8") {
		t.Errorf("expected position in message, got %q", se.Error())
	}
}

func TestParse_MaxStringLength(t *testing.T) {
	if _, err := Parse(`"abc"`, WithMaxStringLength(3)); err != nil {
		t.Errorf("string at the limit rejected: %v", err)
	}

	if _, err := Parse(`"abcd"`, WithMaxStringLength(3)); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("expected ErrStringTooLong, got %v", err)
	}

	if _, err := Parse(`{"abcd":1}`, WithMaxStringLength(3)); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("expected key to be limited too, got %v", err)
	}

	fits := `"` + strings.Repeat("a", ConstrainedMaxStringLength) + `"`
	if _, err := Parse(fits, WithMaxStringLength(ConstrainedMaxStringLength)); err != nil {
		t.Errorf("constrained string at the limit rejected: %v", err)
	}

	over := `"` + strings.Repeat("a", ConstrainedMaxStringLength+1) + `"`
	if _, err := Parse(over, WithMaxStringLength(ConstrainedMaxStringLength)); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("expected ErrStringTooLong, got %v", err)
	}

	unlimited := `"` + strings.Repeat("a", 1<<16) + `"`
	if _, err := Parse(unlimited); err != nil {
		t.Errorf("long string rejected without a limit: %v", err)
	}
}

func TestParse_MaxDepth(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("[", n) + strings.Repeat("]", n)
	}

	if _, err := Parse(`[[1]]`, WithMaxDepth(2)); err != nil {
		t.Errorf("depth at the limit rejected: %v", err)
	}

	if _, err := Parse(`[[[1]]]`, WithMaxDepth(2)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}

	if _, err := Parse(`{"a":{"b":{}}}`, WithMaxDepth(2)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded for objects, got %v", err)
	}

	if _, err := Parse(nest(DefaultMaxDepth)); err != nil {
		t.Errorf("default depth rejected: %v", err)
	}

	if _, err := Parse(nest(DefaultMaxDepth + 1)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected default limit to apply, got %v", err)
	}
}

func TestParseBytes(t *testing.T) {
	v, err := ParseBytes(t.Context(), []byte(`[true]`))
	if err != nil || v.String() != "[true]" {
		t.Errorf("unexpected result %s (%v)", v, err)
	}
}

func TestParseReader(t *testing.T) {
	v, err := ParseReader(t.Context(), strings.NewReader(`{"a": [1, 2.5]}`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got := v.String(); got != `{"a":[1,2.50000]}` {
		t.Errorf("unexpected result %s", got)
	}
}

func TestParseReader_StalledInputTimesOut(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	go func() { _, _ = pw.Write([]byte(`[1,`)) }()

	done := make(chan error, 1)

	go func() {
		_, err := ParseReader(t.Context(), pr, WithTimeout(50*time.Millisecond))
		done <- err
	}()

	var err error

	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ParseReader still blocked on stalled input")
	}

	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}

	if !errors.Is(err, stream.ErrTimeout) {
		t.Errorf("expected timeout cause, got %v", err)
	}
}

func TestParseSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := ParseSource(ctx, stream.NewString(`1`)); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected canceled parse to fail, got %v", err)
	}
}

func BenchmarkParse(b *testing.B) {
	doc := `{"id":7,"name":"sensor","readings":[1.5,2.25,3.125],"ok":true,` +
		`"meta":{"unit":"C","loc":null}}`

	for b.Loop() {
		if _, err := Parse(doc); err != nil {
			b.Fatal(err)
		}
	}
}
