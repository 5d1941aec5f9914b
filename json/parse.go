package json

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/ajson/pkg"
	"github.com/ardnew/ajson/stream"
)

// Parse parses text as a single JSON document.
func Parse(text string, opts ...Option) (Value, error) {
	return ParseString(context.Background(), text, opts...)
}

// ParseString parses s as a single JSON document.
func ParseString(ctx context.Context, s string, opts ...Option) (Value, error) {
	return ParseSource(ctx, stream.NewString(s), opts...)
}

// ParseBytes parses b as a single JSON document. b is not retained.
func ParseBytes(ctx context.Context, b []byte, opts ...Option) (Value, error) {
	return ParseSource(ctx, stream.NewBuffer(b), opts...)
}

// ParseReader parses a single JSON document read from r.
//
// r is read ahead in the background and each read waits at most the
// duration set by [WithTimeout]; a stalled reader ends the document early
// and parsing fails with [ErrUnexpectedEOF].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Value, error) {
	cfg := makeConfig(opts...)

	src := stream.NewReader(ctx, r, stream.WithTimeout(cfg.timeout))
	defer src.Close()

	return ParseSource(ctx, src, opts...)
}

// ParseSource parses a single JSON document from src.
//
// Leading and trailing whitespace is skipped. Anything else after the value
// fails with [ErrTrailingData]. On failure the returned Value is invalid and
// the error is a [*SyntaxError]; no partial value is ever returned.
func ParseSource(ctx context.Context, src stream.Source, opts ...Option) (Value, error) {
	p := newParser(src, makeConfig(opts...))

	v, err := p.document(ctx)
	if err != nil {
		p.cfg.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return Invalid(), err
	}

	if c, err := p.skip(); err == nil {
		p.unget(c)

		err = p.fail(ErrTrailingData, "expected end of input", nil)
		p.cfg.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return Invalid(), err
	}

	p.cfg.logger.TraceContext(ctx, "parse complete",
		slog.String("kind", v.Kind().String()),
		slog.Int("bytes", p.off))

	return v, nil
}

// parser holds the parser state.
type parser struct {
	src     stream.Source
	cfg     config
	off     int
	line    int
	col     int
	prevCol int    // column before the last newline, for unget
	scratch []byte // reused string and number buffer
}

func newParser(src stream.Source, cfg config) *parser {
	return &parser{src: src, cfg: cfg, line: 1, col: 1}
}

func (p *parser) position() Position {
	return Position{Offset: p.off, Line: p.line, Column: p.col}
}

func (p *parser) get() (byte, error) {
	c, err := p.src.ReadByte()
	if err != nil {
		return 0, err
	}

	p.off++

	if c == '\n' {
		p.line++
		p.prevCol, p.col = p.col, 1
	} else {
		p.col++
	}

	return c, nil
}

func (p *parser) unget(c byte) {
	p.src.Unget(c)
	p.off--

	if c == '\n' {
		p.line--
		p.col = p.prevCol
	} else {
		p.col--
	}
}

// peek returns the next byte without consuming it.
func (p *parser) peek() (byte, bool) {
	c, err := p.get()
	if err != nil {
		return 0, false
	}

	p.unget(c)

	return c, true
}

// skip consumes whitespace and returns the first byte after it.
func (p *parser) skip() (byte, error) {
	for {
		c, err := p.get()
		if err != nil {
			return 0, err
		}

		if c > ' ' {
			return c, nil
		}
	}
}

func (p *parser) fail(sentinel *pkg.Error, reason string, cause error) error {
	return p.failAt(p.position(), sentinel, reason, cause)
}

func (p *parser) failAt(
	pos Position,
	sentinel *pkg.Error,
	reason string,
	cause error,
) error {
	err := sentinel

	switch {
	case cause == nil:
	case errors.Is(cause, io.EOF):
		err = ErrUnexpectedEOF
	default:
		err = ErrUnexpectedEOF.Wrap(cause)
	}

	return &SyntaxError{Pos: pos, Reason: reason, Err: err}
}

// document parses one value, skipping leading whitespace.
func (p *parser) document(ctx context.Context) (Value, error) {
	if err := context.Cause(ctx); err != nil {
		return Invalid(), p.fail(ErrUnexpectedEOF, "expected value", err)
	}

	return p.value(0)
}

func (p *parser) value(depth int) (Value, error) {
	c, err := p.skip()
	if err != nil {
		return Invalid(), p.fail(ErrUnexpectedEOF, "expected value", err)
	}

	switch {
	case c == '"':
		s, err := p.string()
		if err != nil {
			return Invalid(), err
		}

		return String(s), nil

	case c == '-' || isDigit(c):
		p.unget(c)

		return p.number()

	case c == '[':
		return p.array(depth + 1)

	case c == '{':
		return p.object(depth + 1)

	case c == 't':
		return p.literal("true", Bool(true))

	case c == 'f':
		return p.literal("false", Bool(false))

	case c == 'n':
		return p.literal("null", Null())
	}

	p.unget(c)

	return Invalid(), p.fail(ErrUnexpectedChar, "expected value", nil)
}

// literal matches the rest of word, whose first byte was already consumed,
// and returns v.
func (p *parser) literal(word string, v Value) (Value, error) {
	for i := 1; i < len(word); i++ {
		c, err := p.get()
		if err != nil {
			return Invalid(), p.fail(ErrLiteral, "expected "+strconv.Quote(word), err)
		}

		if c != word[i] {
			p.unget(c)

			return Invalid(), p.fail(ErrLiteral, "expected "+strconv.Quote(word), nil)
		}
	}

	return v, nil
}

// string decodes a string whose opening quote was already consumed.
func (p *parser) string() (string, error) {
	p.scratch = p.scratch[:0]

	for {
		at := p.position()

		c, err := p.get()
		if err != nil {
			return "", p.fail(ErrUnexpectedEOF, "unterminated string", err)
		}

		switch {
		case c == '"':
			return string(p.scratch), nil

		case c == '\\':
			e, err := p.get()
			if err != nil {
				return "", p.fail(ErrUnexpectedEOF, "unterminated escape", err)
			}

			switch e {
			case '"', '\\', '/':
				c = e
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			default:
				// Unknown escapes are dropped, letter included.
				continue
			}

		case c < ' ':
			return "", p.failAt(at, ErrUnexpectedChar, "control character in string", nil)
		}

		if n := p.cfg.maxString; n > 0 && len(p.scratch) >= n {
			return "", p.failAt(at, ErrStringTooLong.With(slog.Int("limit", n)),
				"string exceeds "+strconv.Itoa(n)+" bytes", nil)
		}

		p.scratch = append(p.scratch, c)
	}
}

// digits appends one or more decimal digits to the scratch buffer.
func (p *parser) digits(what string) error {
	n := 0

	for {
		c, err := p.get()
		if err != nil {
			if n == 0 {
				return p.fail(ErrUnexpectedEOF, "expected digit in "+what, err)
			}

			return nil
		}

		if !isDigit(c) {
			p.unget(c)

			if n == 0 {
				return p.fail(ErrUnexpectedChar, "expected digit in "+what, nil)
			}

			return nil
		}

		p.scratch = append(p.scratch, c)
		n++
	}
}

// number parses an integer, or a float if a fraction or exponent is present.
func (p *parser) number() (Value, error) {
	start := p.position()
	p.scratch = p.scratch[:0]

	if c, ok := p.peek(); ok && c == '-' {
		_, _ = p.get()
		p.scratch = append(p.scratch, c)
	}

	if err := p.digits("number"); err != nil {
		return Invalid(), err
	}

	isFloat := false

	if c, ok := p.peek(); ok && c == '.' {
		_, _ = p.get()
		p.scratch = append(p.scratch, c)
		isFloat = true

		if err := p.digits("fraction"); err != nil {
			return Invalid(), err
		}
	}

	if c, ok := p.peek(); ok && (c == 'e' || c == 'E') {
		_, _ = p.get()
		p.scratch = append(p.scratch, 'e')
		isFloat = true

		if c, ok := p.peek(); ok && (c == '+' || c == '-') {
			_, _ = p.get()
			p.scratch = append(p.scratch, c)
		}

		if err := p.digits("exponent"); err != nil {
			return Invalid(), err
		}
	}

	text := string(p.scratch)

	if !isFloat {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Invalid(), p.failAt(start,
				ErrNumberRange.With(slog.String("number", text)),
				"integer overflows 64 bits", nil)
		}

		return Int(i), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) {
		return Invalid(), p.failAt(start,
			ErrNumberRange.With(slog.String("number", text)),
			"float overflows 64 bits", nil)
	}

	return Float(f), nil
}

func (p *parser) array(depth int) (Value, error) {
	if depth > p.cfg.maxDepth {
		return Invalid(), p.fail(
			ErrMaxDepthExceeded.With(slog.Int("limit", p.cfg.maxDepth)),
			"array nested too deeply", nil)
	}

	arr := NewArray()

	c, err := p.skip()
	if err != nil {
		return Invalid(), p.fail(ErrUnexpectedEOF, "expected value or ']'", err)
	}

	if c == ']' {
		return ArrayOf(arr), nil
	}

	p.unget(c)

	for {
		v, err := p.value(depth)
		if err != nil {
			return Invalid(), err
		}

		arr.Append(v)

		c, err := p.skip()
		if err != nil {
			return Invalid(), p.fail(ErrUnexpectedEOF, "expected ',' or ']'", err)
		}

		switch c {
		case ',':
			continue
		case ']':
			return ArrayOf(arr), nil
		}

		p.unget(c)

		return Invalid(), p.fail(ErrUnexpectedChar, "expected ',' or ']'", nil)
	}
}

func (p *parser) object(depth int) (Value, error) {
	if depth > p.cfg.maxDepth {
		return Invalid(), p.fail(
			ErrMaxDepthExceeded.With(slog.Int("limit", p.cfg.maxDepth)),
			"object nested too deeply", nil)
	}

	obj := NewObject()

	c, err := p.skip()
	if err != nil {
		return Invalid(), p.fail(ErrUnexpectedEOF, "expected key or '}'", err)
	}

	if c == '}' {
		return ObjectOf(obj), nil
	}

	for {
		if c != '"' {
			p.unget(c)

			return Invalid(), p.fail(ErrUnexpectedChar, "expected string key", nil)
		}

		key, err := p.string()
		if err != nil {
			return Invalid(), err
		}

		if c, err = p.skip(); err != nil {
			return Invalid(), p.fail(ErrUnexpectedEOF, "expected ':'", err)
		}

		if c != ':' {
			p.unget(c)

			return Invalid(), p.fail(ErrUnexpectedChar, "expected ':' after key", nil)
		}

		v, err := p.value(depth)
		if err != nil {
			return Invalid(), err
		}

		obj.Set(key, v)

		if c, err = p.skip(); err != nil {
			return Invalid(), p.fail(ErrUnexpectedEOF, "expected ',' or '}'", err)
		}

		switch c {
		case ',':
			if c, err = p.skip(); err != nil {
				return Invalid(), p.fail(ErrUnexpectedEOF, "expected string key", err)
			}

			continue
		case '}':
			return ObjectOf(obj), nil
		}

		p.unget(c)

		return Invalid(), p.fail(ErrUnexpectedChar, "expected ',' or '}'", nil)
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
