package json

import (
	"bufio"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/ajson/stream"
)

// Print writes the compact text form of v to w and returns the number of
// bytes w accepted.
//
// Floats are printed with a fixed number of fractional digits (see
// [WithPrecision]), NaN and infinities as null. Object members and array
// elements holding the invalid value are skipped, as are removed members.
//
// If w refuses a byte, printing stops there and the error wraps
// [ErrTruncated]. Printing an invalid v fails with [ErrInvalidValue].
func Print(v Value, w io.ByteWriter, opts ...Option) (int, error) {
	if v.IsInvalid() {
		return 0, ErrInvalidValue
	}

	p := newPrinter(w, makeConfig(opts...))
	p.value(v)

	return p.n, p.err
}

// Println is like [Print] but follows v with a newline.
func Println(v Value, w io.ByteWriter, opts ...Option) (int, error) {
	n, err := Print(v, w, opts...)
	if err != nil {
		return n, err
	}

	if err := w.WriteByte('\n'); err != nil {
		return n, ErrTruncated.Wrap(err)
	}

	return n + 1, nil
}

// Measure returns the number of bytes [Print] would write for v, or 0 if v
// is invalid.
func Measure(v Value, opts ...Option) int {
	var c stream.Counter

	n, _ := Print(v, &c, opts...)

	return n
}

// Dump prints v into buf and returns the number of bytes written.
//
// When v does not fit, buf holds the printed prefix and the error wraps
// [ErrTruncated]. When it fits with room to spare, a NUL byte is stored
// after the output so buf can be handed to code expecting a C string.
func Dump(v Value, buf []byte, opts ...Option) (int, error) {
	if len(buf) == 0 {
		return 0, ErrTruncated.With(slog.Int("capacity", 0))
	}

	n, err := Print(v, stream.NewFixed(buf), opts...)
	if err != nil {
		return n, err
	}

	if n < len(buf) {
		buf[n] = 0
	}

	return n, nil
}

// Fingerprint returns a 64-bit XXH3 digest of the printed form of v.
// Values that print identically have the same fingerprint.
func Fingerprint(v Value, opts ...Option) (uint64, error) {
	h := xxh3.New()
	w := bufio.NewWriter(h)

	if _, err := Print(v, w, opts...); err != nil {
		return 0, err
	}

	if err := w.Flush(); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// Encoder writes values to an [io.Writer], one per line.
type Encoder struct {
	w    *bufio.Writer
	opts []Option
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: stream.NewWriter(w), opts: opts}
}

// Encode writes v followed by a newline and flushes the output.
func (e *Encoder) Encode(v Value) error {
	if _, err := Println(v, e.w, e.opts...); err != nil {
		return err
	}

	if err := e.w.Flush(); err != nil {
		return ErrTruncated.Wrap(err)
	}

	return nil
}

// printer renders values into a sink, stopping at the first refused byte.
type printer struct {
	w    io.ByteWriter
	n    int
	err  error
	prec int
	bias float64
}

func newPrinter(w io.ByteWriter, cfg config) *printer {
	return &printer{
		w:    w,
		prec: cfg.precision,
		bias: 0.5 / math.Pow10(cfg.precision),
	}
}

func (p *printer) byte(c byte) {
	if p.err != nil {
		return
	}

	if err := p.w.WriteByte(c); err != nil {
		p.err = ErrTruncated.Wrap(err).With(slog.Int("written", p.n))

		return
	}

	p.n++
}

func (p *printer) bytes(b []byte) {
	for _, c := range b {
		if p.byte(c); p.err != nil {
			return
		}
	}
}

func (p *printer) value(v Value) {
	switch v.kind {
	case KindNull:
		p.bytes([]byte("null"))
	case KindBool:
		if v.n != 0 {
			p.bytes([]byte("true"))
		} else {
			p.bytes([]byte("false"))
		}
	case KindInt:
		var buf [20]byte

		p.bytes(strconv.AppendInt(buf[:0], v.n, 10))
	case KindFloat:
		p.float(v.f)
	case KindString:
		p.string(v.s)
	case KindArray:
		p.array(v.arr)
	case KindObject:
		p.object(v.obj)
	}
}

// float prints d with at most prec fractional digits, and at least one,
// rounding half away from zero. Digits stop early only when the remaining
// fraction is exactly zero, which happens for magnitudes beyond float64
// precision.
func (p *printer) float(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		p.bytes([]byte("null"))

		return
	}

	if d < 0 {
		p.byte('-')

		d = -d
	}

	d += p.bias
	whole := math.Floor(d)
	frac := d - whole

	var buf [24]byte

	p.bytes(strconv.AppendFloat(buf[:0], whole, 'f', 0, 64))
	p.byte('.')

	for n := p.prec; n > 0 && p.err == nil; n-- {
		frac *= 10
		digit := byte(frac)
		frac -= float64(digit)

		p.byte('0' + digit)

		if frac == 0 {
			break
		}
	}
}

func (p *printer) string(s string) {
	p.byte('"')

	for i := 0; i < len(s) && p.err == nil; i++ {
		switch c := s[i]; c {
		case '"', '\\':
			p.byte('\\')
			p.byte(c)
		case '\b':
			p.bytes([]byte(`\b`))
		case '\f':
			p.bytes([]byte(`\f`))
		case '\n':
			p.bytes([]byte(`\n`))
		case '\r':
			p.bytes([]byte(`\r`))
		case '\t':
			p.bytes([]byte(`\t`))
		default:
			// Other control bytes have no short escape and are dropped.
			if c >= ' ' {
				p.byte(c)
			}
		}
	}

	p.byte('"')
}

func (p *printer) array(a *Array) {
	p.byte('[')

	first := true

	for v := range a.Values() {
		if p.err != nil {
			return
		}

		if v.IsInvalid() {
			continue
		}

		if !first {
			p.byte(',')
		}

		first = false

		p.value(v)
	}

	p.byte(']')
}

func (p *printer) object(o *Object) {
	p.byte('{')

	first := true

	for k, v := range o.All() {
		if p.err != nil {
			return
		}

		if v.IsInvalid() {
			continue
		}

		if !first {
			p.byte(',')
		}

		first = false

		p.string(k)
		p.byte(':')
		p.value(v)
	}

	p.byte('}')
}
